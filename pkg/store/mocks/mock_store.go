// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"io"
)

type Store struct {
	ListFn func(ctx context.Context, prefix string) ([]string, error)
	GetFn  func(ctx context.Context, key string) (io.ReadCloser, error)
	PutFn  func(ctx context.Context, key string, r io.Reader) error
}

func (m *Store) List(ctx context.Context, prefix string) ([]string, error) {
	return m.ListFn(ctx, prefix)
}

func (m *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return m.GetFn(ctx, key)
}

func (m *Store) Put(ctx context.Context, key string, r io.Reader) error {
	return m.PutFn(ctx, key, r)
}
