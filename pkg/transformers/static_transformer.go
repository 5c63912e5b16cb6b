// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
)

type StaticTransformer struct {
	value string
}

var (
	errStaticValueCannotBeEmpty = errors.New("static: value parameter cannot be empty")
	staticParams                = []Parameter{
		{
			Name:          "value",
			SupportedType: "string",
			Required:      true,
		},
	}
)

func NewStaticTransformer(params ParameterValues) (*StaticTransformer, error) {
	value, found, err := FindParameter[string](params, "value")
	if err != nil {
		return nil, fmt.Errorf("static: value must be a string: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("static: %w: value", ErrMissingParameter)
	}
	if value == "" {
		return nil, errStaticValueCannotBeEmpty
	}

	return &StaticTransformer{
		value: value,
	}, nil
}

func (t *StaticTransformer) Transform(_ context.Context, _ Value) (string, error) {
	return t.value, nil
}

func (t *StaticTransformer) Type() TransformerType {
	return Static
}

func StaticTransformerDefinition() *Definition {
	return &Definition{
		Description: "Fixed value for all records",
		Parameters:  staticParams,
	}
}
