// SPDX-License-Identifier: Apache-2.0

package transformers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/ncruces/go-strftime"
	"golang.org/x/exp/rand"
)

// DateTransformer generates a random instant between 90 and 5 years (of 365
// days) before now, rendered with a strftime format.
type DateTransformer struct {
	format string
	clock  clockwork.Clock
	rand   *rand.Rand
}

const (
	defaultDateFormat = "%Y-%m-%d"
	year              = 365 * 24 * time.Hour
	dateWindowStart   = 90 * year
	dateWindowEnd     = 5 * year
)

var (
	errDateFormatCannotBeEmpty = errors.New("date: format parameter cannot be empty")
	dateParams                 = []Parameter{
		{
			Name:          "format",
			SupportedType: "string",
			Default:       defaultDateFormat,
		},
	}
)

type DateOption func(*DateTransformer)

func NewDateTransformer(params ParameterValues, opts ...DateOption) (*DateTransformer, error) {
	format, err := FindParameterWithDefault(params, "format", defaultDateFormat)
	if err != nil {
		return nil, fmt.Errorf("date: format must be a string: %w", err)
	}
	if format == "" {
		return nil, errDateFormatCannotBeEmpty
	}

	t := &DateTransformer{
		format: format,
		clock:  clockwork.NewRealClock(),
		rand:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func WithClock(c clockwork.Clock) DateOption {
	return func(t *DateTransformer) {
		t.clock = c
	}
}

func (t *DateTransformer) Transform(_ context.Context, _ Value) (string, error) {
	now := t.clock.Now().UTC()
	start := now.Add(-dateWindowStart)
	window := dateWindowStart - dateWindowEnd
	instant := start.Add(time.Duration(t.rand.Int63n(int64(window) + 1)))
	return strftime.Format(t.format, instant), nil
}

func (t *DateTransformer) Type() TransformerType {
	return Date
}

func DateTransformerDefinition() *Definition {
	return &Definition{
		Description: "Replaces the content of the random formatted date/time",
		Parameters:  dateParams,
	}
}
