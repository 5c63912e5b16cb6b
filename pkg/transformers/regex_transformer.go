// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/lucasjones/reggen"
)

// RegexTransformer generates random strings matching a regular expression.
// The pattern is compiled once, at construction.
type RegexTransformer struct {
	generator *reggen.Generator
	maxRepeat int
}

const (
	defaultRegexMaxRepeat = 10
	// number of values generated at construction to check the pattern can
	// be produced
	regexSampleSize = 32
)

var (
	errRegexPatternCannotBeEmpty = errors.New("regex: pattern parameter cannot be empty")
	errRegexInvalidMaxRepeat     = errors.New("regex: max_repeat must be greater than 0")
	errRegexUnsatisfiable        = errors.New("regex: pattern cannot be generated")
	regexParams                  = []Parameter{
		{
			Name:          "pattern",
			SupportedType: "string",
			Required:      true,
		},
		{
			Name:          "max_repeat",
			SupportedType: "int",
			Default:       defaultRegexMaxRepeat,
		},
	}
)

func NewRegexTransformer(params ParameterValues) (*RegexTransformer, error) {
	pattern, found, err := FindParameter[string](params, "pattern")
	if err != nil {
		return nil, fmt.Errorf("regex: pattern must be a string: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("regex: %w: pattern", ErrMissingParameter)
	}
	if pattern == "" {
		return nil, errRegexPatternCannotBeEmpty
	}

	maxRepeat, err := FindParameterWithDefault(params, "max_repeat", defaultRegexMaxRepeat)
	if err != nil {
		return nil, fmt.Errorf("regex: max_repeat must be an integer: %w", err)
	}
	if maxRepeat < 1 {
		return nil, errRegexInvalidMaxRepeat
	}

	generator, err := reggen.NewGenerator(pattern)
	if err != nil {
		return nil, fmt.Errorf("regex: invalid pattern %q: %w: %w", pattern, ErrInvalidParameters, err)
	}

	t := &RegexTransformer{
		generator: generator,
		maxRepeat: maxRepeat,
	}
	if err := t.checkSamples(pattern); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *RegexTransformer) Transform(_ context.Context, _ Value) (string, error) {
	return t.generate()
}

func (t *RegexTransformer) Type() TransformerType {
	return Regex
}

// checkSamples rejects patterns the generator cannot produce values for,
// such as negated classes with no printable characters left, or patterns
// that match nothing.
func (t *RegexTransformer) checkSamples(pattern string) error {
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return fmt.Errorf("regex: invalid pattern %q: %w: %w", pattern, ErrInvalidParameters, err)
	}
	for range regexSampleSize {
		sample, err := t.generate()
		if err != nil {
			return fmt.Errorf("%w: %q: %w: %w", errRegexUnsatisfiable, pattern, ErrInvalidParameters, err)
		}
		if !re.MatchString(sample) {
			return fmt.Errorf("%w: %q produced %q: %w", errRegexUnsatisfiable, pattern, sample, ErrInvalidParameters)
		}
	}
	return nil
}

func (t *RegexTransformer) generate() (value string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generating value: %v", r)
		}
	}()
	return t.generator.Generate(t.maxRepeat), nil
}

func RegexTransformerDefinition() *Definition {
	return &Definition{
		Description: "Random string generated from a regular expression",
		Parameters:  regexParams,
	}
}
