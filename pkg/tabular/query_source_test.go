// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	pglib "github.com/xataio/pgshift/internal/postgres"
	pgmocks "github.com/xataio/pgshift/internal/postgres/mocks"
)

func TestPostgresQuerySource_Query(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		querier := &pgmocks.Querier{
			CopyToFn: func(_ context.Context, w io.Writer, query string) (pglib.CommandTag, error) {
				gotQuery = query
				_, err := io.WriteString(w, "id,name\n1,alice\n2,\"smith, bob\"\n")
				return pglib.CommandTag{CommandTag: pgconn.NewCommandTag("COPY 2")}, err
			},
		}

		columns, rows, err := NewPostgresQuerySource(querier).Query(context.Background(), " SELECT id, name FROM fake_users; ")
		require.NoError(t, err)
		defer rows.Close()

		require.Equal(t, []string{"id", "name"}, columns)
		require.Equal(t, [][]string{{"1", "alice"}, {"2", "smith, bob"}}, readAll(t, rows))
		require.NoError(t, rows.Close())
		require.Equal(t, "COPY (SELECT id, name FROM fake_users) TO STDOUT WITH (FORMAT csv, HEADER true)", gotQuery)
	})

	t.Run("ok - closed before the end of the rows", func(t *testing.T) {
		t.Parallel()

		querier := &pgmocks.Querier{
			CopyToFn: func(ctx context.Context, w io.Writer, _ string) (pglib.CommandTag, error) {
				for {
					if _, err := io.WriteString(w, "1,alice\n"); err != nil {
						return pglib.CommandTag{}, err
					}
				}
			},
		}

		_, rows, err := NewPostgresQuerySource(querier).Query(context.Background(), "SELECT * FROM users")
		require.NoError(t, err)
		_, err = rows.Read(context.Background())
		require.NoError(t, err)
		require.NoError(t, rows.Close())
	})

	t.Run("error - query failure", func(t *testing.T) {
		t.Parallel()

		errQuery := errors.New("relation users is locked")
		querier := &pgmocks.Querier{
			CopyToFn: func(context.Context, io.Writer, string) (pglib.CommandTag, error) {
				return pglib.CommandTag{}, errQuery
			},
		}

		_, _, err := NewPostgresQuerySource(querier).Query(context.Background(), "SELECT * FROM users")
		require.ErrorIs(t, err, errQuery)
	})

	t.Run("error - syntax error is mapped", func(t *testing.T) {
		t.Parallel()

		querier := &pgmocks.Querier{
			CopyToFn: func(context.Context, io.Writer, string) (pglib.CommandTag, error) {
				return pglib.CommandTag{}, &pgconn.PgError{Code: "42601", Message: "syntax error at or near SELEC"}
			},
		}

		_, _, err := NewPostgresQuerySource(querier).Query(context.Background(), "SELEC 1")
		var syntaxErr *pglib.ErrSyntaxError
		require.ErrorAs(t, err, &syntaxErr)
	})
}
