// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"fmt"
	"io"

	pglib "github.com/xataio/pgshift/internal/postgres"
)

// PostgresExtractor exports tables with COPY TO STDOUT, so rows are never
// decoded on the client.
type PostgresExtractor struct {
	querier pglib.Querier
}

const (
	defaultSchema = "public"

	columnsQuery = `SELECT column_name FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
)

func NewPostgresExtractor(querier pglib.Querier) *PostgresExtractor {
	return &PostgresExtractor{querier: querier}
}

func (e *PostgresExtractor) Columns(ctx context.Context, table string) ([]string, error) {
	qn, err := pglib.NewQualifiedName(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	schema := qn.Schema()
	if schema == "" {
		schema = defaultSchema
	}

	rows, err := e.querier.Query(ctx, columnsQuery, schema, qn.Name())
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %w", table, pglib.MapError(err))
	}
	defer rows.Close()

	columns := []string{}
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying columns of %s: %w", table, pglib.MapError(err))
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	return columns, nil
}

func (e *PostgresExtractor) Count(ctx context.Context, table string) (int64, error) {
	quoted, err := pglib.QuoteTableName(table)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := e.querier.QueryRow(ctx, []any{&count}, fmt.Sprintf("SELECT count(*) FROM %s", quoted)); err != nil {
		return 0, fmt.Errorf("counting rows of %s: %w", table, pglib.MapError(err))
	}
	return count, nil
}

func (e *PostgresExtractor) Extract(ctx context.Context, table string, columns []string, w io.Writer) (int64, error) {
	query, err := copyToQuery(table, columns)
	if err != nil {
		return 0, err
	}

	tag, err := e.querier.CopyTo(ctx, w, query)
	if err != nil {
		return 0, fmt.Errorf("exporting %s: %w", table, pglib.MapError(err))
	}
	return tag.RowsAffected(), nil
}

func (e *PostgresExtractor) Close() error {
	return e.querier.Close(context.Background())
}

func copyToQuery(table string, columns []string) (string, error) {
	quoted, err := pglib.QuoteTableName(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("COPY (SELECT %s FROM %s) TO STDOUT WITH (FORMAT csv, HEADER true)",
		pglib.QuoteIdentifiers(columns), quoted), nil
}
