// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

const defaultSize = 4

type IntegerTransformer struct {
	transformer *greenmasktransformers.RandomInt64Transformer
}

var (
	errInvalidSize = errors.New("greenmask-integer: size must be between 1 and 8")
	integerParams  = []transformers.Parameter{
		{
			Name:          "size",
			SupportedType: "int",
			Default:       defaultSize,
		},
		{
			Name:          "min_value",
			SupportedType: "int",
		},
		{
			Name:          "max_value",
			SupportedType: "int",
		},
		generatorParam,
	}
)

// NewIntegerTransformer generates integers that fit in size bytes, limited to
// [min_value, max_value] when provided.
func NewIntegerTransformer(params transformers.ParameterValues) (*IntegerTransformer, error) {
	size, err := transformers.FindParameterWithDefault(params, "size", defaultSize)
	if err != nil {
		return nil, fmt.Errorf("greenmask-integer: size must be an integer: %w", err)
	}
	if size < 1 || size > 8 {
		return nil, errInvalidSize
	}

	minValue, err := transformers.FindParameterWithDefault(params, "min_value", int(minValueForSize(size)))
	if err != nil {
		return nil, fmt.Errorf("greenmask-integer: min_value must be an integer: %w", err)
	}
	maxValue, err := transformers.FindParameterWithDefault(params, "max_value", int(maxValueForSize(size)))
	if err != nil {
		return nil, fmt.Errorf("greenmask-integer: max_value must be an integer: %w", err)
	}

	limiter, err := greenmasktransformers.NewInt64Limiter(int64(minValue), int64(maxValue))
	if err != nil {
		return nil, fmt.Errorf("greenmask-integer: %w: %w", transformers.ErrInvalidParameters, err)
	}

	t, err := greenmasktransformers.NewRandomInt64Transformer(limiter, size)
	if err != nil {
		return nil, fmt.Errorf("greenmask-integer: %w: %w", transformers.ErrInvalidParameters, err)
	}

	if err := setGenerator(t, params); err != nil {
		return nil, err
	}

	return &IntegerTransformer{
		transformer: t,
	}, nil
}

func (t *IntegerTransformer) Transform(_ context.Context, value transformers.Value) (string, error) {
	ret, err := t.transformer.Transform(nil, []byte(value.TransformValue))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(ret), 10), nil
}

func (t *IntegerTransformer) Type() transformers.TransformerType {
	return transformers.GreenmaskInteger
}

func IntegerTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random integer within the limits of its size in bytes",
		Parameters:  integerParams,
	}
}

func minValueForSize(size int) int64 {
	return int64(-1 << (size*8 - 1))
}

func maxValueForSize(size int) int64 {
	return int64((1 << (size*8 - 1)) - 1)
}
