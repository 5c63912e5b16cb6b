// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/exp/rand"
)

// RandomTransformer generates a uniformly distributed integer in [min, max).
type RandomTransformer struct {
	min  int64
	max  int64
	rand *rand.Rand
}

var (
	errRandomInvalidRange = errors.New("random: min must be lower than max")
	randomParams          = []Parameter{
		{
			Name:          "min",
			SupportedType: "int",
			Default:       0,
		},
		{
			Name:          "max",
			SupportedType: "int",
			Required:      true,
		},
	}
)

func NewRandomTransformer(params ParameterValues) (*RandomTransformer, error) {
	minValue, err := FindParameterWithDefault(params, "min", 0)
	if err != nil {
		return nil, fmt.Errorf("random: min must be an integer: %w", err)
	}

	maxValue, found, err := FindParameter[int](params, "max")
	if err != nil {
		return nil, fmt.Errorf("random: max must be an integer: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("random: %w: max", ErrMissingParameter)
	}
	if minValue >= maxValue {
		return nil, fmt.Errorf("%w: %w", errRandomInvalidRange, ErrInvalidParameters)
	}

	return &RandomTransformer{
		min:  int64(minValue),
		max:  int64(maxValue),
		rand: rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

func (t *RandomTransformer) Transform(_ context.Context, _ Value) (string, error) {
	// the span is computed unsigned since max-min overflows int64 for ranges
	// wider than math.MaxInt64
	span := uint64(t.max) - uint64(t.min)
	return strconv.FormatInt(int64(uint64(t.min)+t.rand.Uint64n(span)), 10), nil
}

func (t *RandomTransformer) Type() TransformerType {
	return Random
}

func RandomTransformerDefinition() *Definition {
	return &Definition{
		Description: "Replaces the content of the field with a random value defined by a range",
		Parameters:  randomParams,
	}
}
