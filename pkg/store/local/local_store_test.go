// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/pgshift/pkg/store"
)

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, store.InputKey("users", 1), strings.NewReader("b")))
	require.NoError(t, s.Put(ctx, store.InputKey("users", 0), strings.NewReader("a")))
	require.NoError(t, s.Put(ctx, store.InputKey("users_archive", 0), strings.NewReader("c")))
	require.NoError(t, s.Put(ctx, store.OutputKey("users"), strings.NewReader("out")))

	keys, err := s.List(ctx, store.InputPrefix("users"))
	require.NoError(t, err)
	require.Equal(t, []string{"in/users_000.csv", "in/users_001.csv", "in/users_archive_000.csv"}, keys)

	keys, err = s.List(ctx, "out/")
	require.NoError(t, err)
	require.Equal(t, []string{"out/users.csv"}, keys)

	keys, err = s.List(ctx, "in/orders_")
	require.NoError(t, err)
	require.Empty(t, keys)

	rc, err := s.Get(ctx, "out/users.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "out", string(data))

	// overwrite
	require.NoError(t, s.Put(ctx, store.OutputKey("users"), strings.NewReader("new")))
	rc, err = s.Get(ctx, "out/users.csv")
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "new", string(data))

	_, err = s.Get(ctx, "out/orders.csv")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PutFailureKeepsPreviousObject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "out/users.csv", strings.NewReader("valid")))

	errTest := errors.New("oh noes")
	err = s.Put(ctx, "out/users.csv", &failingReader{err: errTest})
	require.ErrorIs(t, err, errTest)

	rc, err := s.Get(ctx, "out/users.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "valid", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "out"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStore_PutCancelled(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Put(ctx, "out/users.csv", strings.NewReader("data"))
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Get(context.Background(), "out/users.csv")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestNew_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)
}
