// SPDX-License-Identifier: Apache-2.0

package neosync

import (
	"context"
	"fmt"

	"github.com/xataio/pgshift/pkg/transformers"
)

// transformer adapts a neosync transformer, which works on untyped values
// and options, to string column values.
type transformer[T any] struct {
	neosyncTransformer neosyncTransformer
	opts               any
	transformerType    transformers.TransformerType
}

type neosyncTransformer interface {
	Transform(value any, opts any) (any, error)
}

func New[T any](t neosyncTransformer, opts any, transformerType transformers.TransformerType) *transformer[T] {
	return &transformer[T]{
		opts:               opts,
		neosyncTransformer: t,
		transformerType:    transformerType,
	}
}

func (t *transformer[T]) Transform(_ context.Context, value transformers.Value) (string, error) {
	retAny, err := t.neosyncTransformer.Transform(value.TransformValue, t.opts)
	if err != nil {
		return "", mapError(t.transformerType, err)
	}

	switch ret := retAny.(type) {
	case nil:
		return "", nil
	case *T:
		if ret == nil {
			return "", nil
		}
		return fmt.Sprint(*ret), nil
	case T:
		return fmt.Sprint(ret), nil
	default:
		return "", fmt.Errorf("neosync: unexpected result type %T", retAny)
	}
}

func (t *transformer[T]) Type() transformers.TransformerType {
	return t.transformerType
}

func findParameter[T any](params transformers.ParameterValues, name string) (*T, error) {
	val, found, err := transformers.FindParameter[T](params, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &val, nil
}

func toInt64Ptr(i *int) *int64 {
	if i == nil {
		return nil
	}

	i64 := int64(*i)
	return &i64
}

var (
	seedParam = transformers.Parameter{
		Name:          "seed",
		SupportedType: "int",
	}
	preserveLengthParam = transformers.Parameter{
		Name:          "preserve_length",
		SupportedType: "boolean",
		Default:       false,
	}
	maxLengthParam = transformers.Parameter{
		Name:          "max_length",
		SupportedType: "int",
		Default:       100,
	}
)
