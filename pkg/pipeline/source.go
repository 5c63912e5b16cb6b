// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"io"
)

// RowReader returns the rows of a table in source order. Read returns io.EOF
// once all rows have been read.
type RowReader interface {
	Read(ctx context.Context) ([]string, error)
	Close() error
}

// NullReporter is optionally implemented by row readers that tell NULL
// fields apart from empty strings. Nulls reports the NULL fields of the row
// returned by the last Read.
type NullReporter interface {
	Nulls() []bool
}

// Source provides the extracted rows of a table. It returns
// ErrSourceUnavailable when nothing was extracted for the table.
type Source interface {
	Columns(ctx context.Context, table string) ([]string, error)
	Rows(ctx context.Context, table string) (RowReader, error)
}

// QuerySource runs a query against already processed tables.
type QuerySource interface {
	Query(ctx context.Context, query string) ([]string, RowReader, error)
}

// RowCounter is optionally implemented by sources that know the number of
// rows upfront, used to size the progress bars.
type RowCounter interface {
	Count(ctx context.Context, table string) (int64, error)
}

// generatedRows produces a fixed number of empty rows for the transformers of
// a generated table to fill in.
type generatedRows struct {
	width     int
	remaining int
}

func newGeneratedRows(width, count int) *generatedRows {
	return &generatedRows{width: width, remaining: count}
}

func (g *generatedRows) Read(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.remaining <= 0 {
		return nil, io.EOF
	}
	g.remaining--
	return make([]string, g.width), nil
}

func (g *generatedRows) Close() error {
	return nil
}
