// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"io"

	"github.com/xataio/pgshift/internal/postgres"
)

type Tx struct {
	QueryRowFn func(ctx context.Context, dest []any, query string, args ...any) error
	QueryFn    func(ctx context.Context, query string, args ...any) (postgres.Rows, error)
	ExecFn     func(ctx context.Context, query string, args ...any) (postgres.CommandTag, error)
	CopyFromFn func(ctx context.Context, r io.Reader, query string) (postgres.CommandTag, error)
}

func (m *Tx) QueryRow(ctx context.Context, dest []any, query string, args ...any) error {
	return m.QueryRowFn(ctx, dest, query, args...)
}

func (m *Tx) Query(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
	return m.QueryFn(ctx, query, args...)
}

func (m *Tx) Exec(ctx context.Context, query string, args ...any) (postgres.CommandTag, error) {
	return m.ExecFn(ctx, query, args...)
}

func (m *Tx) CopyFrom(ctx context.Context, r io.Reader, query string) (postgres.CommandTag, error) {
	return m.CopyFromFn(ctx, r, query)
}
