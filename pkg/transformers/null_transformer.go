// SPDX-License-Identifier: Apache-2.0

package transformers

import "context"

// NullTransformer replaces every value with an empty field, which the loader
// writes as NULL.
type NullTransformer struct{}

func NewNullTransformer(_ ParameterValues) (*NullTransformer, error) {
	return &NullTransformer{}, nil
}

func (t *NullTransformer) Transform(_ context.Context, _ Value) (string, error) {
	return "", nil
}

func (t *NullTransformer) Type() TransformerType {
	return Null
}

func NullTransformerDefinition() *Definition {
	return &Definition{
		Description: "Null value",
	}
}
