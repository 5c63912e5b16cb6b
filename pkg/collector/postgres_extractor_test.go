// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	pglib "github.com/xataio/pgshift/internal/postgres"
	pgmocks "github.com/xataio/pgshift/internal/postgres/mocks"
)

func TestPostgresExtractor_Columns(t *testing.T) {
	t.Parallel()

	errQuery := errors.New("connection refused")

	tests := []struct {
		name    string
		table   string
		columns []string
		queryFn func(query string, args ...any) error

		wantArgs    []any
		wantColumns []string
		wantErr     error
	}{
		{
			name:        "ok - default schema",
			table:       "users",
			columns:     []string{"id", "name"},
			wantArgs:    []any{"public", "users"},
			wantColumns: []string{"id", "name"},
		},
		{
			name:        "ok - qualified table",
			table:       "sales.orders",
			columns:     []string{"id"},
			wantArgs:    []any{"sales", "orders"},
			wantColumns: []string{"id"},
		},
		{
			name:     "error - table not found",
			table:    "users",
			wantArgs: []any{"public", "users"},
			wantErr:  ErrTableNotFound,
		},
		{
			name:  "error - query failure",
			table: "users",
			queryFn: func(string, ...any) error {
				return errQuery
			},
			wantArgs: []any{"public", "users"},
			wantErr:  errQuery,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotArgs []any
			querier := &pgmocks.Querier{
				QueryFn: func(_ context.Context, query string, args ...any) (pglib.Rows, error) {
					require.Equal(t, columnsQuery, query)
					gotArgs = args
					if tc.queryFn != nil {
						if err := tc.queryFn(query, args...); err != nil {
							return nil, err
						}
					}
					next := 0
					return &pgmocks.Rows{
						NextFn: func(i uint) bool { return int(i) <= len(tc.columns) },
						ScanFn: func(dest ...any) error {
							*dest[0].(*string) = tc.columns[next]
							next++
							return nil
						},
					}, nil
				},
			}

			columns, err := NewPostgresExtractor(querier).Columns(context.Background(), tc.table)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.wantArgs, gotArgs)
			if tc.wantErr == nil {
				require.Equal(t, tc.wantColumns, columns)
			}
		})
	}
}

func TestPostgresExtractor_Count(t *testing.T) {
	t.Parallel()

	querier := &pgmocks.Querier{
		QueryRowFn: func(_ context.Context, dest []any, query string, _ ...any) error {
			require.Equal(t, `SELECT count(*) FROM "sales"."orders"`, query)
			*dest[0].(*int64) = 42
			return nil
		},
	}

	count, err := NewPostgresExtractor(querier).Count(context.Background(), "sales.orders")
	require.NoError(t, err)
	require.Equal(t, int64(42), count)
}

func TestPostgresExtractor_Extract(t *testing.T) {
	t.Parallel()

	wantQuery := `COPY (SELECT "id", "first name" FROM "users") TO STDOUT WITH (FORMAT csv, HEADER true)`

	querier := &pgmocks.Querier{
		CopyToFn: func(_ context.Context, w io.Writer, query string) (pglib.CommandTag, error) {
			require.Equal(t, wantQuery, query)
			_, err := io.WriteString(w, "id,first name\n1,alice\n")
			return pglib.CommandTag{CommandTag: pgconn.NewCommandTag("COPY 1")}, err
		},
	}

	var buf bytes.Buffer
	rows, err := NewPostgresExtractor(querier).Extract(context.Background(), "users", []string{"id", "first name"}, &buf)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)
	require.Equal(t, "id,first name\n1,alice\n", buf.String())
}

func TestPostgresExtractor_Extract_invalidTable(t *testing.T) {
	t.Parallel()

	_, err := NewPostgresExtractor(&pgmocks.Querier{}).Extract(context.Background(), "a.b.c", []string{"id"}, io.Discard)
	require.Error(t, err)
}
