// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
)

// FromTransformer copies the raw value of another column of the same row.
type FromTransformer struct {
	column string
}

var (
	errFromColumnCannotBeEmpty = errors.New("from: column parameter cannot be empty")
	fromParams                 = []Parameter{
		{
			Name:          "column",
			SupportedType: "string",
			Required:      true,
		},
	}
)

func NewFromTransformer(params ParameterValues) (*FromTransformer, error) {
	column, found, err := FindParameter[string](params, "column")
	if err != nil {
		return nil, fmt.Errorf("from: column must be a string: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("from: %w: column", ErrMissingParameter)
	}
	if column == "" {
		return nil, errFromColumnCannotBeEmpty
	}

	return &FromTransformer{
		column: column,
	}, nil
}

func (t *FromTransformer) Transform(_ context.Context, value Value) (string, error) {
	return value.GetColumnValue(t.column)
}

func (t *FromTransformer) ReferencedColumns() []string {
	return []string{t.column}
}

func (t *FromTransformer) Type() TransformerType {
	return From
}

func FromTransformerDefinition() *Definition {
	return &Definition{
		Description: "Replaces the content of the field using another column as its source",
		Parameters:  fromParams,
	}
}
