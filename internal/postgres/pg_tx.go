// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
)

type Tx interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, dest []any, query string, args ...any) error
	Exec(ctx context.Context, query string, args ...any) (CommandTag, error)
	// CopyFrom runs a COPY ... FROM STDIN query, reading its input from r.
	CopyFrom(ctx context.Context, r io.Reader, query string) (CommandTag, error)
}

type Txn struct {
	pgx.Tx
}

func (t *Txn) QueryRow(ctx context.Context, dest []any, query string, args ...any) error {
	row := t.Tx.QueryRow(ctx, query, args...)
	return MapError(row.Scan(dest...))
}

func (t *Txn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.Tx.Query(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	return rows, nil
}

func (t *Txn) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	tag, err := t.Tx.Exec(ctx, query, args...)
	return CommandTag{tag}, MapError(err)
}

func (t *Txn) CopyFrom(ctx context.Context, r io.Reader, query string) (CommandTag, error) {
	tag, err := t.Tx.Conn().PgConn().CopyFrom(ctx, r, query)
	return CommandTag{tag}, MapError(err)
}
