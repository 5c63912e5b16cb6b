// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/xataio/pgshift/pkg/pipeline"
)

type Sink struct {
	OpenFn func(ctx context.Context, table string, columns []string) (pipeline.TableWriter, error)
}

func (m *Sink) Open(ctx context.Context, table string, columns []string) (pipeline.TableWriter, error) {
	return m.OpenFn(ctx, table, columns)
}

type TableWriter struct {
	WriteFn          func(row []string) error
	WriteWithNullsFn func(row []string, nulls []bool) error
	CommitFn         func(ctx context.Context) error
	AbortFn          func() error
}

func (m *TableWriter) Write(row []string) error {
	if m.WriteFn == nil {
		return nil
	}
	return m.WriteFn(row)
}

func (m *TableWriter) WriteWithNulls(row []string, nulls []bool) error {
	if m.WriteWithNullsFn == nil {
		return m.Write(row)
	}
	return m.WriteWithNullsFn(row, nulls)
}

func (m *TableWriter) Commit(ctx context.Context) error {
	if m.CommitFn == nil {
		return nil
	}
	return m.CommitFn(ctx)
}

func (m *TableWriter) Abort() error {
	if m.AbortFn == nil {
		return nil
	}
	return m.AbortFn()
}
