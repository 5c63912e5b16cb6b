// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	loglib "github.com/xataio/pgshift/pkg/log"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/store"
	"golang.org/x/sync/errgroup"
)

// Collector exports every extract mode table from the source into the object
// store, where the transform stage picks them up.
type Collector struct {
	logger    loglib.Logger
	extractor Extractor
	store     store.Store
}

type Option func(c *Collector)

func New(extractor Extractor, s store.Store, opts ...Option) *Collector {
	c := &Collector{
		logger:    loglib.NewNoopLogger(),
		extractor: extractor,
		store:     s,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithLogger(l loglib.Logger) Option {
	return func(c *Collector) {
		c.logger = loglib.NewModuleLogger(l, "collector")
	}
}

// Collect exports the tables in order and stops at the first failure. Tables
// missing from the source are skipped with a warning.
func (c *Collector) Collect(ctx context.Context, tables []pipeline.Table) error {
	for i := range tables {
		table := &tables[i]
		mode, err := table.Mode()
		if err != nil {
			return &pipeline.TableError{Table: table.Name, Row: -1, Err: err}
		}
		if mode != pipeline.ModeExtract {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.collectTable(ctx, table); err != nil {
			if errors.Is(err, ErrTableNotFound) {
				c.logger.Warn(err, "skipping table missing from source", loglib.TableFields(table.Name))
				continue
			}
			return &pipeline.TableError{Table: table.Name, Row: -1, Err: err}
		}
	}
	return nil
}

func (c *Collector) collectTable(ctx context.Context, table *pipeline.Table) error {
	start := time.Now()

	columns := table.Columns
	if len(columns) == 0 {
		var err error
		columns, err = c.extractor.Columns(ctx, table.Name)
		if err != nil {
			return err
		}
	}

	expected, err := c.extractor.Count(ctx, table.Name)
	if err != nil {
		return err
	}
	c.logger.Info("collecting table", loglib.TableFields(table.Name, loglib.Fields{
		"columns":        len(columns),
		loglib.RowsField: expected,
	}))

	rows, err := c.export(ctx, table.Name, columns)
	if err != nil {
		return err
	}

	fields := loglib.TableFields(table.Name, loglib.Fields{
		loglib.RowsField: rows,
		"elapsed":        time.Since(start).String(),
	})
	if rows != expected {
		// the source kept changing while it was exported
		c.logger.Warn(nil, "collected row count differs from source count", loglib.MergeFields(fields, loglib.Fields{"expected_rows": expected}))
	}
	c.logger.Info("table collected", fields)
	return nil
}

// export streams the extracted CSV straight into the store without buffering
// the table.
func (c *Collector) export(ctx context.Context, table string, columns []string) (int64, error) {
	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	var rows int64
	g.Go(func() error {
		var err error
		rows, err = c.extractor.Extract(gctx, table, columns, pw)
		pw.CloseWithError(err)
		return err
	})

	key := store.InputKey(table, 0)
	g.Go(func() error {
		err := c.store.Put(gctx, key, pr)
		if err != nil {
			err = fmt.Errorf("storing %s: %w", key, err)
		}
		pr.CloseWithError(err)
		return err
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return rows, nil
}
