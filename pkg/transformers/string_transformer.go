// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"time"

	"golang.org/x/exp/rand"
)

// StringTransformer replaces the value with random letters, keeping its
// length in bytes.
type StringTransformer struct {
	rand *rand.Rand
}

func NewStringTransformer(_ ParameterValues) (*StringTransformer, error) {
	return &StringTransformer{
		rand: rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

func (t *StringTransformer) Transform(_ context.Context, value Value) (string, error) {
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	b := make([]byte, len(value.TransformValue))
	for i := range b {
		b[i] = letterBytes[t.rand.Intn(len(letterBytes))]
	}
	return string(b), nil
}

func (t *StringTransformer) Type() TransformerType {
	return String
}

func StringTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random letters with the same length as the original value",
	}
}
