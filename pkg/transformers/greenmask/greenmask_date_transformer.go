// SPDX-License-Identifier: Apache-2.0

package greenmask

import (
	"context"
	"errors"
	"fmt"
	"time"

	greenmasktransformers "github.com/eminano/greenmask/pkg/generators/transformers"
	"github.com/xataio/pgshift/pkg/transformers"
)

type DateTransformer struct {
	transformer *greenmasktransformers.Timestamp
}

var (
	errMinMaxValueNotSpecified = errors.New("greenmask-date: min_value and max_value must be specified")
	dateParams                 = []transformers.Parameter{
		{
			Name:          "min_value",
			SupportedType: "string",
			Required:      true,
		},
		{
			Name:          "max_value",
			SupportedType: "string",
			Required:      true,
		},
		generatorParam,
	}
)

// NewDateTransformer generates dates (yyyy-MM-dd) between min_value and
// max_value, both included.
func NewDateTransformer(params transformers.ParameterValues) (*DateTransformer, error) {
	minValue, foundMin, err := transformers.FindParameter[string](params, "min_value")
	if err != nil {
		return nil, fmt.Errorf("greenmask-date: min_value must be a string: %w", err)
	}

	maxValue, foundMax, err := transformers.FindParameter[string](params, "max_value")
	if err != nil {
		return nil, fmt.Errorf("greenmask-date: max_value must be a string: %w", err)
	}

	if !foundMin || !foundMax {
		return nil, errMinMaxValueNotSpecified
	}

	minTimestamp, err := time.Parse(time.DateOnly, minValue)
	if err != nil {
		return nil, fmt.Errorf("greenmask-date: min_value must be in yyyy-MM-dd format: %w: %w", transformers.ErrInvalidParameters, err)
	}

	maxTimestamp, err := time.Parse(time.DateOnly, maxValue)
	if err != nil {
		return nil, fmt.Errorf("greenmask-date: max_value must be in yyyy-MM-dd format: %w: %w", transformers.ErrInvalidParameters, err)
	}

	maxTimestamp = time.Date(maxTimestamp.Year(), maxTimestamp.Month(), maxTimestamp.Day(), 23, 59, 59, 999999999, time.UTC)

	limiter, err := greenmasktransformers.NewTimestampLimiter(minTimestamp, maxTimestamp)
	if err != nil {
		return nil, err
	}

	t, err := greenmasktransformers.NewRandomTimestamp(greenmasktransformers.DayTruncateName, limiter)
	if err != nil {
		return nil, err
	}

	if err := setGenerator(t, params); err != nil {
		return nil, err
	}

	return &DateTransformer{
		transformer: t,
	}, nil
}

func (t *DateTransformer) Transform(_ context.Context, value transformers.Value) (string, error) {
	result, err := t.transformer.Transform(nil, []byte(value.TransformValue))
	if err != nil {
		return "", err
	}
	return result.UTC().Format(time.DateOnly), nil
}

func (t *DateTransformer) Type() transformers.TransformerType {
	return transformers.GreenmaskDate
}

func DateTransformerDefinition() *transformers.Definition {
	return &transformers.Definition{
		Description: "Random date within a range, optionally deterministic",
		Parameters:  dateParams,
	}
}
