// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/xataio/pgshift/pkg/tabular"
)

// SQLExtractor exports tables from database/sql sources that have no bulk
// export to CSV. Rows are scanned as strings and encoded client side, NULL
// values as unquoted empty fields and empty strings as "".
type SQLExtractor struct {
	db *sqlx.DB
}

const (
	SnowflakeDriver = "snowflake"
	SQLServerDriver = "sqlserver"
)

var errUnsupportedDriver = errors.New("unsupported sql driver")

// NewSQLExtractor validates the DSN for the driver and opens a connection
// pool.
func NewSQLExtractor(ctx context.Context, driver, dsn string) (*SQLExtractor, error) {
	switch driver {
	case SnowflakeDriver:
		if _, err := sf.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("snowflake dsn: %w", err)
		}
	case SQLServerDriver:
		if _, err := msdsn.Parse(dsn); err != nil {
			return nil, fmt.Errorf("sqlserver dsn: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedDriver, driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}
	return newSQLExtractor(db), nil
}

func newSQLExtractor(db *sqlx.DB) *SQLExtractor {
	return &SQLExtractor{db: db}
}

func (e *SQLExtractor) Columns(ctx context.Context, table string) ([]string, error) {
	query := "SELECT column_name FROM information_schema.columns WHERE UPPER(table_name) = UPPER(?)"
	args := []any{table}
	if schema, name, found := strings.Cut(table, "."); found {
		query += " AND UPPER(table_schema) = UPPER(?)"
		args = []any{name, schema}
	}
	query += " ORDER BY ordinal_position"

	columns := []string{}
	if err := e.db.SelectContext(ctx, &columns, e.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying columns of %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	return columns, nil
}

func (e *SQLExtractor) Count(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := e.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
		return 0, fmt.Errorf("counting rows of %s: %w", table, err)
	}
	return count, nil
}

func (e *SQLExtractor) Extract(ctx context.Context, table string, columns []string, w io.Writer) (int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", quoteSQLIdentifiers(columns), table)
	rows, err := e.db.QueryxContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("exporting %s: %w", table, err)
	}
	defer rows.Close()

	csvWriter := tabular.NewWriter(w)
	if err := csvWriter.Write(columns); err != nil {
		return 0, err
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	record := make([]string, len(columns))
	nulls := make([]bool, len(columns))

	var count int64
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return count, fmt.Errorf("scanning row %d of %s: %w", count, table, err)
		}
		for i, v := range values {
			record[i] = v.String
			nulls[i] = !v.Valid
		}
		if err := csvWriter.WriteWithNulls(record, nulls); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("exporting %s: %w", table, err)
	}

	return count, csvWriter.Flush()
}

func (e *SQLExtractor) Close() error {
	return e.db.Close()
}

func quoteSQLIdentifiers(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, `"`+strings.ReplaceAll(n, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, ", ")
}
