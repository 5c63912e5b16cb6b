// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// RandomValuesTransformer picks one of the configured values uniformly.
type RandomValuesTransformer struct {
	values []string
	rand   *rand.Rand
}

var (
	errRandomValuesCannotBeEmpty = errors.New("random-values: values parameter cannot be empty")
	randomValuesParams           = []Parameter{
		{
			Name:          "values",
			SupportedType: "array",
			Required:      true,
		},
	}
)

func NewRandomValuesTransformer(params ParameterValues) (*RandomValuesTransformer, error) {
	valuesAny, found, err := FindParameterArray[any](params, "values")
	if err != nil {
		return nil, fmt.Errorf("random-values: values must be an array: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("random-values: %w: values", ErrMissingParameter)
	}
	if len(valuesAny) == 0 {
		return nil, errRandomValuesCannotBeEmpty
	}

	values := make([]string, 0, len(valuesAny))
	for _, v := range valuesAny {
		values = append(values, fmt.Sprint(v))
	}

	return &RandomValuesTransformer{
		values: values,
		rand:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

func (t *RandomValuesTransformer) Transform(_ context.Context, _ Value) (string, error) {
	return t.values[t.rand.Intn(len(t.values))], nil
}

func (t *RandomValuesTransformer) Type() TransformerType {
	return RandomValues
}

func RandomValuesTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random value picked from a list",
		Parameters:  randomValuesParams,
	}
}
