// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"strconv"
)

// SequenceTransformer numbers rows starting at 1. The number is derived from
// the row index, so the transformer holds no counter.
type SequenceTransformer struct{}

func NewSequenceTransformer(_ ParameterValues) (*SequenceTransformer, error) {
	return &SequenceTransformer{}, nil
}

func (t *SequenceTransformer) Transform(_ context.Context, value Value) (string, error) {
	return strconv.Itoa(value.Index + 1), nil
}

func (t *SequenceTransformer) Type() TransformerType {
	return Sequence
}

func SequenceTransformerDefinition() *Definition {
	return &Definition{
		Description: "Replaces the content of the field with a sequential value",
	}
}
