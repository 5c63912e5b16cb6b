// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	loglib "github.com/xataio/pgshift/pkg/log"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/store"
)

// StoreSource reads the extracted CSV artifacts of a table from the object
// store. Every artifact starts with a header row.
type StoreSource struct {
	logger loglib.Logger
	store  store.Store
}

type Option func(s *StoreSource)

func NewStoreSource(s store.Store, opts ...Option) *StoreSource {
	src := &StoreSource{
		logger: loglib.NewNoopLogger(),
		store:  s,
	}
	for _, opt := range opts {
		opt(src)
	}
	return src
}

func WithLogger(l loglib.Logger) Option {
	return func(s *StoreSource) {
		s.logger = loglib.NewModuleLogger(l, "tabular_source")
	}
}

// Columns returns the header of the first extracted artifact of the table.
func (s *StoreSource) Columns(ctx context.Context, table string) ([]string, error) {
	keys, err := s.inputKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	rc, err := s.store.Get(ctx, keys[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", keys[0], err)
	}
	defer rc.Close()

	header, err := NewReader(rc).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s has no header: %w", keys[0], pipeline.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("reading header of %s: %w", keys[0], err)
	}
	return header, nil
}

// Rows reads the rows of all the extracted artifacts of the table in key
// order.
func (s *StoreSource) Rows(ctx context.Context, table string) (pipeline.RowReader, error) {
	keys, err := s.inputKeys(ctx, table)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("reading table artifacts", loglib.Fields{loglib.TableField: table, "artifacts": keys})
	return &objectsReader{store: s.store, keys: keys}, nil
}

func (s *StoreSource) inputKeys(ctx context.Context, table string) ([]string, error) {
	prefix := store.InputPrefix(table)
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts for table %s: %w", table, err)
	}

	// in/users_ also matches the artifacts of in/users_archive_
	tableKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		part := strings.TrimPrefix(key, prefix)
		if part == "" || part[0] < '0' || part[0] > '9' {
			continue
		}
		tableKeys = append(tableKeys, key)
	}
	if len(tableKeys) == 0 {
		return nil, pipeline.ErrSourceUnavailable
	}
	return tableKeys, nil
}

// objectsReader reads the records of a list of CSV objects one after the
// other, skipping the header of each of them.
type objectsReader struct {
	store store.Store
	keys  []string

	current io.ReadCloser
	reader  *Reader
	nulls   []bool
}

func (r *objectsReader) Read(ctx context.Context) ([]string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if r.reader == nil {
			if len(r.keys) == 0 {
				return nil, io.EOF
			}
			if err := r.open(ctx); err != nil {
				return nil, err
			}
		}

		record, err := r.reader.Read()
		if errors.Is(err, io.EOF) {
			if err := r.closeCurrent(); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		r.nulls = r.reader.Nulls()
		return record, nil
	}
}

// Nulls reports the NULL fields of the last row read.
func (r *objectsReader) Nulls() []bool {
	return r.nulls
}

func (r *objectsReader) Close() error {
	return r.closeCurrent()
}

func (r *objectsReader) open(ctx context.Context) error {
	key := r.keys[0]
	r.keys = r.keys[1:]

	rc, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	r.current = rc
	r.reader = NewReader(rc)

	// header
	if _, err := r.reader.Read(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading header of %s: %w", key, err)
	}
	return nil
}

func (r *objectsReader) closeCurrent() error {
	r.reader = nil
	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	return err
}
