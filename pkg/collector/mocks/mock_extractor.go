// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"io"
)

type Extractor struct {
	ColumnsFn func(ctx context.Context, table string) ([]string, error)
	CountFn   func(ctx context.Context, table string) (int64, error)
	ExtractFn func(ctx context.Context, table string, columns []string, w io.Writer) (int64, error)
	CloseFn   func() error
}

func (m *Extractor) Columns(ctx context.Context, table string) ([]string, error) {
	return m.ColumnsFn(ctx, table)
}

func (m *Extractor) Count(ctx context.Context, table string) (int64, error) {
	return m.CountFn(ctx, table)
}

func (m *Extractor) Extract(ctx context.Context, table string, columns []string, w io.Writer) (int64, error) {
	return m.ExtractFn(ctx, table, columns, w)
}

func (m *Extractor) Close() error {
	if m.CloseFn == nil {
		return nil
	}
	return m.CloseFn()
}
