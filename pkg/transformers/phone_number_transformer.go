// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

type PhoneNumberTransformer struct {
	prefix    string
	maxLength int
	minLength int
	rand      *rand.Rand
}

const phoneNumberMaxLength = 64

var (
	errPhoneNumberMaxLength      = errors.New("phone-number: max_length must be greater than or equal to min_length")
	errPhoneNumberMaxLengthLimit = fmt.Errorf("phone-number: max_length cannot be greater than %d", phoneNumberMaxLength)
	errPhoneNumberPrefix         = errors.New("phone-number: prefix must be shorter than min_length")
	phoneNumberParams            = []Parameter{
		{
			Name:          "prefix",
			SupportedType: "string",
			Default:       "",
		},
		{
			Name:          "min_length",
			SupportedType: "int",
			Default:       6,
		},
		{
			Name:          "max_length",
			SupportedType: "int",
			Default:       10,
		},
	}
)

func NewPhoneNumberTransformer(params ParameterValues) (*PhoneNumberTransformer, error) {
	prefix, err := FindParameterWithDefault(params, "prefix", "")
	if err != nil {
		return nil, fmt.Errorf("phone-number: prefix must be a string: %w", err)
	}

	maxLength, err := FindParameterWithDefault(params, "max_length", 10)
	if err != nil {
		return nil, fmt.Errorf("phone-number: max_length must be an integer: %w", err)
	}

	minLength, err := FindParameterWithDefault(params, "min_length", 6)
	if err != nil {
		return nil, fmt.Errorf("phone-number: min_length must be an integer: %w", err)
	}

	if maxLength < minLength {
		return nil, errPhoneNumberMaxLength
	}

	if maxLength > phoneNumberMaxLength {
		return nil, errPhoneNumberMaxLengthLimit
	}

	if len(prefix) > minLength {
		return nil, errPhoneNumberPrefix
	}

	return &PhoneNumberTransformer{
		prefix:    prefix,
		maxLength: maxLength,
		minLength: minLength,
		rand:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

func (t *PhoneNumberTransformer) Transform(_ context.Context, _ Value) (string, error) {
	const digits = "0123456789"

	// random length between min and max, prefix included
	targetLen := t.minLength
	if t.maxLength > t.minLength {
		targetLen += t.rand.Intn(t.maxLength - t.minLength + 1)
	}

	b := make([]byte, targetLen)
	prefixLen := copy(b, t.prefix)
	for i := prefixLen; i < targetLen; i++ {
		b[i] = digits[t.rand.Intn(len(digits))]
	}

	return string(b), nil
}

func (t *PhoneNumberTransformer) Type() TransformerType {
	return PhoneNumber
}

func PhoneNumberTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random phone number with an optional prefix",
		Parameters:  phoneNumberParams,
	}
}
