// SPDX-License-Identifier: Apache-2.0

package postprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	pglib "github.com/xataio/pgshift/internal/postgres"
	pgmocks "github.com/xataio/pgshift/internal/postgres/mocks"
)

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{
			name: "ok",
			task: Task{Name: "refresh", SQL: &SQLTask{ConnectionURL: "postgres://localhost", SQL: "SELECT 1"}},
		},
		{
			name:    "error - missing name",
			task:    Task{SQL: &SQLTask{ConnectionURL: "postgres://localhost", SQL: "SELECT 1"}},
			wantErr: ErrInvalidTask,
		},
		{
			name:    "error - missing sql config",
			task:    Task{Name: "report"},
			wantErr: ErrInvalidTask,
		},
		{
			name:    "error - missing connection url",
			task:    Task{Name: "refresh", SQL: &SQLTask{SQL: "SELECT 1"}},
			wantErr: ErrInvalidTask,
		},
		{
			name:    "error - missing statement",
			task:    Task{Name: "refresh", SQL: &SQLTask{ConnectionURL: "postgres://localhost"}},
			wantErr: ErrInvalidTask,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, tc.task.Validate(), tc.wantErr)
		})
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	errExec := errors.New("relation is locked")
	tasks := []Task{
		{Name: "refresh", SQL: &SQLTask{ConnectionURL: "postgres://dst", SQL: "REFRESH MATERIALIZED VIEW totals"}},
		{Name: "cleanup", SQL: &SQLTask{ConnectionURL: "postgres://other", SQL: "DELETE FROM audit"}},
	}

	tests := []struct {
		name   string
		tasks  []Task
		execFn func(query string) (pglib.CommandTag, error)

		wantQueries []string
		wantURLs    []string
		wantCloses  int
		wantErr     error
	}{
		{
			name:  "ok - tasks run in order",
			tasks: tasks,
			execFn: func(string) (pglib.CommandTag, error) {
				return pglib.CommandTag{CommandTag: pgconn.NewCommandTag("DELETE 3")}, nil
			},
			wantQueries: []string{"REFRESH MATERIALIZED VIEW totals", "DELETE FROM audit"},
			wantURLs:    []string{"postgres://dst", "postgres://other"},
			wantCloses:  2,
		},
		{
			name:  "error - first failure stops the run",
			tasks: tasks,
			execFn: func(string) (pglib.CommandTag, error) {
				return pglib.CommandTag{}, errExec
			},
			wantQueries: []string{"REFRESH MATERIALIZED VIEW totals"},
			wantURLs:    []string{"postgres://dst"},
			wantCloses:  1,
			wantErr:     errExec,
		},
		{
			name:    "error - invalid task",
			tasks:   []Task{{Name: "report"}},
			wantErr: ErrInvalidTask,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var queries, urls []string
			closes := 0
			builder := func(_ context.Context, url string) (pglib.Querier, error) {
				urls = append(urls, url)
				return &pgmocks.Querier{
					ExecFn: func(_ context.Context, _ uint, query string, _ ...any) (pglib.CommandTag, error) {
						queries = append(queries, query)
						return tc.execFn(query)
					},
					CloseFn: func(context.Context) error {
						closes++
						return nil
					},
				}, nil
			}

			err := New(builder).Run(context.Background(), tc.tasks)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.wantQueries, queries)
			require.Equal(t, tc.wantURLs, urls)
			require.Equal(t, tc.wantCloses, closes)
		})
	}
}

func TestRunner_Run_connectionFailure(t *testing.T) {
	t.Parallel()

	errConnect := errors.New("connection refused")
	builder := func(context.Context, string) (pglib.Querier, error) {
		return nil, errConnect
	}

	err := New(builder).Run(context.Background(), []Task{
		{Name: "refresh", SQL: &SQLTask{ConnectionURL: "postgres://dst", SQL: "SELECT 1"}},
	})
	require.ErrorIs(t, err, errConnect)
}
