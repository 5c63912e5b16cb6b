// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"io"

	"github.com/xataio/pgshift/pkg/pipeline"
)

type Source struct {
	ColumnsFn func(ctx context.Context, table string) ([]string, error)
	RowsFn    func(ctx context.Context, table string) (pipeline.RowReader, error)
}

func (m *Source) Columns(ctx context.Context, table string) ([]string, error) {
	return m.ColumnsFn(ctx, table)
}

func (m *Source) Rows(ctx context.Context, table string) (pipeline.RowReader, error) {
	return m.RowsFn(ctx, table)
}

type QuerySource struct {
	QueryFn func(ctx context.Context, query string) ([]string, pipeline.RowReader, error)
}

func (m *QuerySource) Query(ctx context.Context, query string) ([]string, pipeline.RowReader, error) {
	return m.QueryFn(ctx, query)
}

// RowReader returns the configured rows in order, followed by io.EOF. When
// ReadErr is set, it is returned once ErrAfter rows have been read. NullRows
// holds the NULL fields of each row, if any.
type RowReader struct {
	Rows     [][]string
	NullRows [][]bool
	ReadErr  error
	ErrAfter int
	CloseFn  func() error

	next int
}

func (m *RowReader) Read(ctx context.Context) ([]string, error) {
	if m.ReadErr != nil && m.next == m.ErrAfter {
		return nil, m.ReadErr
	}
	if m.next >= len(m.Rows) {
		return nil, io.EOF
	}
	row := m.Rows[m.next]
	m.next++
	return row, nil
}

func (m *RowReader) Nulls() []bool {
	if m.next == 0 || m.next > len(m.NullRows) {
		return nil
	}
	return m.NullRows[m.next-1]
}

func (m *RowReader) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}
