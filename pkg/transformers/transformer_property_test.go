// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// graphemes that never merge with their neighbours
var graphemeAlphabet = []string{
	"a", "b", "Z", "1", " ", "-",
	"é",
	"ñ",
	"\U0001F469‍\U0001F469‍\U0001F467",
	"\U0001F1EA\U0001F1F8",
	"\U0001F44D\U0001F3FD",
	"中",
}

func Test_ReverseTransformer_Involution(t *testing.T) {
	tr, err := NewReverseTransformer(nil)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		clusters := rapid.SliceOf(rapid.SampledFrom(graphemeAlphabet)).Draw(t, "clusters")
		value := strings.Join(clusters, "")

		once, err := tr.Transform(context.Background(), Value{TransformValue: value})
		require.NoError(t, err)
		require.True(t, utf8.ValidString(once))

		twice, err := tr.Transform(context.Background(), Value{TransformValue: once})
		require.NoError(t, err)
		require.Equal(t, value, twice)
	})
}

func Test_ReverseTransformer_NotByteReversal(t *testing.T) {
	t.Parallel()

	tr, err := NewReverseTransformer(nil)
	require.NoError(t, err)

	value := "aé"
	got, err := tr.Transform(context.Background(), Value{TransformValue: value})
	require.NoError(t, err)

	byteReversed := []byte(value)
	for i, j := 0, len(byteReversed)-1; i < j; i, j = i+1, j-1 {
		byteReversed[i], byteReversed[j] = byteReversed[j], byteReversed[i]
	}
	require.NotEqual(t, string(byteReversed), got)
	require.Equal(t, "éa", got)
}

func Test_SequenceTransformer_Property(t *testing.T) {
	tr, err := NewSequenceTransformer(nil)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		index := rapid.IntRange(0, 1<<30).Draw(t, "index")
		value := rapid.String().Draw(t, "value")

		got, err := tr.Transform(context.Background(), Value{Index: index, TransformValue: value})
		require.NoError(t, err)
		require.Equal(t, strconv.Itoa(index+1), got)

		next, err := tr.Transform(context.Background(), Value{Index: index + 1, TransformValue: value})
		require.NoError(t, err)
		gotN, _ := strconv.Atoi(got)
		nextN, _ := strconv.Atoi(next)
		require.Greater(t, nextN, gotN)
	})
}

func Test_StaticAndNullTransformers_Property(t *testing.T) {
	static, err := NewStaticTransformer(ParameterValues{"value": "fixed"})
	require.NoError(t, err)
	null, err := NewNullTransformer(nil)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		v := Value{
			Index:          rapid.IntRange(0, 1<<20).Draw(t, "index"),
			TransformValue: rapid.String().Draw(t, "value"),
		}

		got, err := static.Transform(context.Background(), v)
		require.NoError(t, err)
		require.Equal(t, "fixed", got)

		got, err = null.Transform(context.Background(), v)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func Test_RegexTransformer_FullMatch(t *testing.T) {
	patterns := []string{
		"[a-z]{3}[0-9]{2}",
		"(foo|bar)-[A-F0-9]{8}",
		"[0-9]{3}-[0-9]{3}-[0-9]{4}",
		"x*y+z?",
		"[a-zA-Z0-9._]{1,10}@example\\.com",
	}

	rapid.Check(t, func(t *rapid.T) {
		pattern := rapid.SampledFrom(patterns).Draw(t, "pattern")
		maxRepeat := rapid.IntRange(1, 20).Draw(t, "max_repeat")

		tr, err := NewRegexTransformer(ParameterValues{"pattern": pattern, "max_repeat": maxRepeat})
		require.NoError(t, err)

		got, err := tr.Transform(context.Background(), Value{})
		require.NoError(t, err)
		require.Regexp(t, regexp.MustCompile("^(?:"+pattern+")$"), got)
	})
}
