// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"context"
	"fmt"

	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

type StringTransformer struct {
	transformer *greenmasktransformers.RandomStringTransformer
}

const defaultSymbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

var stringParams = []transformers.Parameter{
	{
		Name:          "symbols",
		SupportedType: "string",
		Default:       defaultSymbols,
	},
	{
		Name:          "min_length",
		SupportedType: "int",
		Default:       1,
	},
	{
		Name:          "max_length",
		SupportedType: "int",
		Default:       100,
	},
	generatorParam,
}

func NewStringTransformer(params transformers.ParameterValues) (*StringTransformer, error) {
	symbols, err := transformers.FindParameterWithDefault(params, "symbols", defaultSymbols)
	if err != nil {
		return nil, fmt.Errorf("greenmask-string: symbols must be a string: %w", err)
	}

	minLength, err := transformers.FindParameterWithDefault(params, "min_length", 1)
	if err != nil {
		return nil, fmt.Errorf("greenmask-string: min_length must be an integer: %w", err)
	}

	maxLength, err := transformers.FindParameterWithDefault(params, "max_length", 100)
	if err != nil {
		return nil, fmt.Errorf("greenmask-string: max_length must be an integer: %w", err)
	}

	t, err := greenmasktransformers.NewRandomStringTransformer([]rune(symbols), minLength, maxLength)
	if err != nil {
		return nil, fmt.Errorf("greenmask-string: %w: %w", transformers.ErrInvalidParameters, err)
	}

	if err := setGenerator(t, params); err != nil {
		return nil, err
	}

	return &StringTransformer{
		transformer: t,
	}, nil
}

func (st *StringTransformer) Transform(_ context.Context, value transformers.Value) (string, error) {
	return string(st.transformer.Transform([]byte(value.TransformValue))), nil
}

func (st *StringTransformer) Type() transformers.TransformerType {
	return transformers.GreenmaskString
}

func StringTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random string of configurable symbols and length",
		Parameters:  stringParams,
	}
}
