// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5/pgconn"
)

type Querier interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, dest []any, query string, args ...any) error
	Exec(ctx context.Context, query string, args ...any) (CommandTag, error)
	ExecInTx(ctx context.Context, fn func(Tx) error) error
	// CopyTo runs a COPY ... TO STDOUT query, writing its output to w.
	CopyTo(ctx context.Context, w io.Writer, query string) (CommandTag, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type QuerierBuilder func(ctx context.Context, url string) (Querier, error)

type Rows interface {
	Close()
	Err() error
	FieldDescriptions() []pgconn.FieldDescription
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
	RawValues() [][]byte
}

type Row interface {
	Scan(dest ...any) error
}

type CommandTag struct {
	pgconn.CommandTag
}
