// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-faker/faker/v4"
	"golang.org/x/exp/rand"
)

// FakeAddressTransformer generates synthetic address components from a set
// of real US addresses.
type FakeAddressTransformer struct {
	transformerType TransformerType
	generate        func(faker.RealAddress) string
}

const (
	minStreetNumber = 20
	maxStreetNumber = 50000
)

func NewCityTransformer(_ ParameterValues) (*FakeAddressTransformer, error) {
	return &FakeAddressTransformer{
		transformerType: City,
		generate:        func(a faker.RealAddress) string { return a.City },
	}, nil
}

func NewStateTransformer(_ ParameterValues) (*FakeAddressTransformer, error) {
	return &FakeAddressTransformer{
		transformerType: State,
		generate:        func(a faker.RealAddress) string { return a.State },
	}, nil
}

func NewZipCodeTransformer(_ ParameterValues) (*FakeAddressTransformer, error) {
	return &FakeAddressTransformer{
		transformerType: ZipCode,
		generate:        func(a faker.RealAddress) string { return a.PostalCode },
	}, nil
}

// NewStreetTransformer generates "<number> <street name>", with the number in
// [20, 50000).
func NewStreetTransformer(_ ParameterValues) (*FakeAddressTransformer, error) {
	r := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	return &FakeAddressTransformer{
		transformerType: Street,
		generate: func(a faker.RealAddress) string {
			number := minStreetNumber + r.Intn(maxStreetNumber-minStreetNumber)
			return fmt.Sprintf("%d %s", number, streetName(a.Address))
		},
	}, nil
}

func (t *FakeAddressTransformer) Transform(_ context.Context, _ Value) (string, error) {
	return t.generate(faker.GetRealAddress()), nil
}

func (t *FakeAddressTransformer) Type() TransformerType {
	return t.transformerType
}

func CityTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random city name",
	}
}

func StateTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random state abbreviation",
	}
}

func ZipCodeTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random zipcode abbreviation",
	}
}

func StreetTransformerDefinition() *Definition {
	return &Definition{
		Description: "Replaces the content of the field with a random street address",
	}
}

// streetName strips the house number from an address line.
func streetName(address string) string {
	number, rest, found := strings.Cut(strings.TrimSpace(address), " ")
	if !found {
		return address
	}
	for _, r := range number {
		if !unicode.IsDigit(r) {
			return address
		}
	}
	return rest
}
