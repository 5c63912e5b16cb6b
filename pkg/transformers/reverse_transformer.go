// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"strings"

	"github.com/rivo/uniseg"
)

// ReverseTransformer reverses the value by user perceived characters
// (grapheme clusters), so combining marks and multi code point emojis stay
// intact.
type ReverseTransformer struct{}

func NewReverseTransformer(_ ParameterValues) (*ReverseTransformer, error) {
	return &ReverseTransformer{}, nil
}

func (t *ReverseTransformer) Transform(_ context.Context, value Value) (string, error) {
	return reverseGraphemes(value.TransformValue), nil
}

func (t *ReverseTransformer) Type() TransformerType {
	return Reverse
}

func ReverseTransformerDefinition() *Definition {
	return &Definition{
		Description: "Reverse the contents of the field",
	}
}

func reverseGraphemes(s string) string {
	if s == "" {
		return s
	}

	clusters := make([]string, 0, len(s))
	state := -1
	rest := s
	var cluster string
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		clusters = append(clusters, cluster)
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := len(clusters) - 1; i >= 0; i-- {
		b.WriteString(clusters[i])
	}
	return b.String()
}
