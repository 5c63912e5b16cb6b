// SPDX-License-Identifier: Apache-2.0

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/pgshift/internal/log/zerolog"
	pglib "github.com/xataio/pgshift/internal/postgres"
	loglib "github.com/xataio/pgshift/pkg/log"
)

func skipUnlessIntegration(t *testing.T) {
	if os.Getenv(integrationTestsEnv) == "" {
		t.Skip("skipping integration test...")
	}
}

func testLogger() loglib.Logger {
	return zerolog.NewStdLogger(zerolog.NewLogger(&zerolog.Config{
		LogLevel: "debug",
	}))
}

func execQueries(t *testing.T, ctx context.Context, url string, queries ...string) {
	t.Helper()
	conn, err := pglib.NewConn(ctx, url)
	require.NoError(t, err)
	defer conn.Close(ctx)

	for _, query := range queries {
		_, err := conn.Exec(ctx, query)
		require.NoError(t, err)
	}
}

func queryStrings(t *testing.T, ctx context.Context, url, query string) [][]string {
	t.Helper()
	conn, err := pglib.NewConn(ctx, url)
	require.NoError(t, err)
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	require.NoError(t, err)
	defer rows.Close()

	result := [][]string{}
	for rows.Next() {
		values, err := rows.Values()
		require.NoError(t, err)
		row := make([]string, 0, len(values))
		for _, v := range values {
			s, _ := v.(string)
			row = append(row, s)
		}
		result = append(result, row)
	}
	require.NoError(t, rows.Err())
	return result
}
