// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"

	"github.com/go-faker/faker/v4"
)

// FakePersonTransformer generates synthetic personal data (names, emails).
// The original value is ignored.
type FakePersonTransformer struct {
	transformerType TransformerType
	generate        func() string
}

func NewFirstNameTransformer(_ ParameterValues) (*FakePersonTransformer, error) {
	return &FakePersonTransformer{
		transformerType: FirstName,
		generate:        func() string { return faker.FirstName() },
	}, nil
}

func NewLastNameTransformer(_ ParameterValues) (*FakePersonTransformer, error) {
	return &FakePersonTransformer{
		transformerType: LastName,
		generate:        func() string { return faker.LastName() },
	}, nil
}

func NewEmailTransformer(_ ParameterValues) (*FakePersonTransformer, error) {
	return &FakePersonTransformer{
		transformerType: Email,
		generate:        func() string { return faker.Email() },
	}, nil
}

func (t *FakePersonTransformer) Transform(_ context.Context, _ Value) (string, error) {
	return t.generate(), nil
}

func (t *FakePersonTransformer) Type() TransformerType {
	return t.transformerType
}

func FirstNameTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random first name",
	}
}

func LastNameTransformerDefinition() *Definition {
	return &Definition{
		Description: "Replaces the content of the field with a random last name",
	}
}

func EmailTransformerDefinition() *Definition {
	return &Definition{
		Description: "Replaces the content of the field with a random email address",
	}
}
