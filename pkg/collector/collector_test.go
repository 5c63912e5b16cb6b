// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/pgshift/pkg/collector/mocks"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/store"
	"github.com/xataio/pgshift/pkg/store/local"
	storemocks "github.com/xataio/pgshift/pkg/store/mocks"
)

func newTestExtractor(data map[string]string) *mocks.Extractor {
	return &mocks.Extractor{
		ColumnsFn: func(_ context.Context, table string) ([]string, error) {
			if _, found := data[table]; !found {
				return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
			}
			return []string{"id", "name"}, nil
		},
		CountFn: func(_ context.Context, table string) (int64, error) {
			return 2, nil
		},
		ExtractFn: func(_ context.Context, table string, columns []string, w io.Writer) (int64, error) {
			_, err := io.WriteString(w, data[table])
			return 2, err
		},
	}
}

func readKey(t *testing.T, s store.Store, key string) string {
	t.Helper()
	rc, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	usersCSV := "id,name\n1,alice\n2,bob\n"
	ordersCSV := "id,name\n10,book\n11,pen\n"

	t.Run("ok - extract tables only", func(t *testing.T) {
		t.Parallel()

		s, err := local.New(t.TempDir())
		require.NoError(t, err)

		extracted := []string{}
		extractor := newTestExtractor(map[string]string{"users": usersCSV, "orders": ordersCSV})
		extractFn := extractor.ExtractFn
		extractor.ExtractFn = func(ctx context.Context, table string, columns []string, w io.Writer) (int64, error) {
			extracted = append(extracted, table)
			return extractFn(ctx, table, columns, w)
		}

		c := New(extractor, s)
		err = c.Collect(context.Background(), []pipeline.Table{
			{Name: "users"},
			{Name: "fake_users", Generate: 10},
			{Name: "copies", Query: "SELECT * FROM users"},
			{Name: "orders"},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"users", "orders"}, extracted)
		require.Equal(t, usersCSV, readKey(t, s, "in/users_000.csv"))
		require.Equal(t, ordersCSV, readKey(t, s, "in/orders_000.csv"))
	})

	t.Run("ok - declared columns are not discovered", func(t *testing.T) {
		t.Parallel()

		s, err := local.New(t.TempDir())
		require.NoError(t, err)

		extractor := newTestExtractor(map[string]string{"users": "name\nalice\nbob\n"})
		extractor.ColumnsFn = func(context.Context, string) ([]string, error) {
			return nil, errors.New("unexpected call to Columns")
		}
		var gotColumns []string
		extractor.ExtractFn = func(_ context.Context, _ string, columns []string, w io.Writer) (int64, error) {
			gotColumns = columns
			_, err := io.WriteString(w, "name\nalice\nbob\n")
			return 2, err
		}

		err = New(extractor, s).Collect(context.Background(), []pipeline.Table{
			{Name: "users", Columns: []string{"name"}},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"name"}, gotColumns)
	})

	t.Run("ok - missing table is skipped", func(t *testing.T) {
		t.Parallel()

		s, err := local.New(t.TempDir())
		require.NoError(t, err)

		err = New(newTestExtractor(map[string]string{"orders": ordersCSV}), s).Collect(context.Background(), []pipeline.Table{
			{Name: "users"},
			{Name: "orders"},
		})
		require.NoError(t, err)

		keys, err := s.List(context.Background(), "in/")
		require.NoError(t, err)
		require.Equal(t, []string{"in/orders_000.csv"}, keys)
	})

	t.Run("error - extract failure", func(t *testing.T) {
		t.Parallel()

		s, err := local.New(t.TempDir())
		require.NoError(t, err)

		errExtract := errors.New("connection lost")
		extractor := newTestExtractor(map[string]string{"users": usersCSV})
		extractor.ExtractFn = func(_ context.Context, _ string, _ []string, w io.Writer) (int64, error) {
			if _, err := io.WriteString(w, "id,name\n1,alice\n"); err != nil {
				return 0, err
			}
			return 1, errExtract
		}

		err = New(extractor, s).Collect(context.Background(), []pipeline.Table{{Name: "users"}})
		require.ErrorIs(t, err, errExtract)
		var tableErr *pipeline.TableError
		require.ErrorAs(t, err, &tableErr)
		require.Equal(t, "users", tableErr.Table)

		_, err = s.Get(context.Background(), "in/users_000.csv")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("error - store failure", func(t *testing.T) {
		t.Parallel()

		errPut := errors.New("bucket not found")
		s := &storemocks.Store{
			PutFn: func(context.Context, string, io.Reader) error {
				return errPut
			},
		}

		err := New(newTestExtractor(map[string]string{"users": usersCSV}), s).Collect(context.Background(), []pipeline.Table{{Name: "users"}})
		require.ErrorIs(t, err, errPut)
	})

	t.Run("error - count failure", func(t *testing.T) {
		t.Parallel()

		errCount := errors.New("permission denied")
		extractor := newTestExtractor(map[string]string{"users": usersCSV})
		extractor.CountFn = func(context.Context, string) (int64, error) {
			return 0, errCount
		}

		err := New(extractor, &storemocks.Store{}).Collect(context.Background(), []pipeline.Table{{Name: "users"}})
		require.ErrorIs(t, err, errCount)
	})

	t.Run("error - invalid table mode", func(t *testing.T) {
		t.Parallel()

		err := New(&mocks.Extractor{}, &storemocks.Store{}).Collect(context.Background(), []pipeline.Table{
			{Name: "users", Generate: 10, Query: "SELECT 1"},
		})
		require.ErrorIs(t, err, pipeline.ErrInvalidTableMode)
	})

	t.Run("error - cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := New(&mocks.Extractor{}, &storemocks.Store{}).Collect(ctx, []pipeline.Table{{Name: "users"}})
		require.ErrorIs(t, err, context.Canceled)
	})
}
