// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
)

type Conn struct {
	conn *pgx.Conn
}

func NewConn(ctx context.Context, url string) (*Conn, error) {
	pgCfg, err := ParseConfig(url)
	if err != nil {
		return nil, err
	}

	configureTCPKeepalive(pgCfg)

	conn, err := pgx.ConnectConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", MapError(err))
	}

	return &Conn{conn: conn}, nil
}

// ConnBuilder is the default QuerierBuilder.
func ConnBuilder(ctx context.Context, url string) (Querier, error) {
	return NewConn(ctx, url)
}

func (c *Conn) QueryRow(ctx context.Context, dest []any, query string, args ...any) error {
	row := c.conn.QueryRow(ctx, query, args...)
	return MapError(row.Scan(dest...))
}

func (c *Conn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	return rows, nil
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	tag, err := c.conn.Exec(ctx, query, args...)
	return CommandTag{tag}, MapError(err)
}

func (c *Conn) ExecInTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return MapError(err)
	}

	if err := fn(&Txn{Tx: tx}); err != nil {
		tx.Rollback(ctx)
		return MapError(err)
	}

	return MapError(tx.Commit(ctx))
}

func (c *Conn) CopyTo(ctx context.Context, w io.Writer, query string) (CommandTag, error) {
	tag, err := c.conn.PgConn().CopyTo(ctx, w, query)
	return CommandTag{tag}, MapError(err)
}

func (c *Conn) Ping(ctx context.Context) error {
	return MapError(c.conn.Ping(ctx))
}

func (c *Conn) Close(ctx context.Context) error {
	return MapError(c.conn.Close(ctx))
}
