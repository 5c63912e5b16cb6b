// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ggwhite/go-masker"
)

const (
	mPassword   string = "password"
	mName       string = "name"
	mAddress    string = "address"
	mEmail      string = "email"
	mMobile     string = "mobile"
	mTelephone  string = "tel"
	mID         string = "id"
	mCreditCard string = "credit_card"
	mURL        string = "url"
	mDefault    string = "default"
)

var (
	errInvalidMaskingType = errors.New("masking: type must be one of 'password', 'name', 'address', 'email', 'mobile', 'tel', 'id', 'credit_card', 'url' or 'default'")
	maskingParams         = []Parameter{
		{
			Name:          "type",
			SupportedType: "string",
			Default:       mDefault,
			Values:        []any{mPassword, mName, mAddress, mEmail, mMobile, mTelephone, mID, mCreditCard, mURL, mDefault},
		},
	}
)

type maskingFunction func(val string) string

// MaskingTransformer masks sensitive data using the go-masker library.
type MaskingTransformer struct {
	maskingFunction maskingFunction
}

func NewMaskingTransformer(params ParameterValues) (*MaskingTransformer, error) {
	maskType, err := FindParameterWithDefault(params, "type", mDefault)
	if err != nil {
		return nil, fmt.Errorf("masking: type must be a string: %w", err)
	}

	var mf maskingFunction
	m := masker.New()
	switch maskType {
	case mPassword:
		mf = m.Password
	case mName:
		mf = m.Name
	case mAddress:
		mf = m.Address
	case mEmail:
		mf = m.Email
	case mMobile:
		mf = m.Mobile
	case mID:
		mf = m.ID
	case mTelephone:
		mf = m.Telephone
	case mCreditCard:
		mf = m.CreditCard
	case mURL:
		mf = m.URL
	case mDefault:
		mf = func(v string) string {
			return strings.Repeat("*", len(v))
		}
	default:
		return nil, errInvalidMaskingType
	}

	return &MaskingTransformer{
		maskingFunction: mf,
	}, nil
}

func (t *MaskingTransformer) Transform(_ context.Context, value Value) (string, error) {
	return t.maskingFunction(value.TransformValue), nil
}

func (t *MaskingTransformer) Type() TransformerType {
	return Masking
}

func MaskingTransformerDefinition() *Definition {
	return &Definition{
		Description: "Masks the content of the field keeping part of it visible",
		Parameters:  maskingParams,
	}
}
