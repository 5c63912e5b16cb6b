// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	pglib "github.com/xataio/pgshift/internal/postgres"
	loglib "github.com/xataio/pgshift/pkg/log"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/store"
	"github.com/xataio/pgshift/pkg/tabular"
)

// Loader replaces the contents of destination tables with their transformed
// artifacts.
type Loader struct {
	logger  loglib.Logger
	querier pglib.Querier
	store   store.Store
}

type Option func(l *Loader)

var errEmptyArtifact = errors.New("artifact has no header")

func New(querier pglib.Querier, s store.Store, opts ...Option) *Loader {
	l := &Loader{
		logger:  loglib.NewNoopLogger(),
		querier: querier,
		store:   s,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func WithLogger(logger loglib.Logger) Option {
	return func(l *Loader) {
		l.logger = loglib.NewModuleLogger(logger, "loader")
	}
}

// LoadTable can be registered as a pipeline hook so each table is loaded as
// soon as its artifact is committed.
func (l *Loader) LoadTable(ctx context.Context, table *pipeline.Table) error {
	return l.Load(ctx, table.Name)
}

// Load truncates the destination table and copies the artifact into it in a
// single transaction. Tables without an artifact are skipped.
func (l *Loader) Load(ctx context.Context, table string) error {
	start := time.Now()
	key := store.OutputKey(table)

	rc, err := l.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.logger.Info("no transformed data to load, skipping table", loglib.TableFields(table))
			return nil
		}
		return fmt.Errorf("reading %s: %w", key, err)
	}
	defer func() { rc.Close() }()

	var rows int64
	attempt := 0
	err = l.querier.ExecInTx(ctx, func(tx pglib.Tx) error {
		// transactions may be retried, each attempt needs the artifact from
		// the start
		if attempt > 0 {
			rc.Close()
			next, err := l.store.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", key, err)
			}
			rc = next
		}
		attempt++

		var copyErr error
		rows, copyErr = l.replace(ctx, tx, table, rc)
		return copyErr
	})
	if err != nil {
		return fmt.Errorf("loading %s: %w", table, pglib.MapError(err))
	}

	l.logger.Info("table loaded", loglib.TableFields(table, loglib.Fields{
		loglib.RowsField: rows,
		"elapsed":        time.Since(start).String(),
	}))
	return nil
}

func (l *Loader) replace(ctx context.Context, tx pglib.Tx, table string, r io.Reader) (int64, error) {
	quotedTable, err := pglib.QuoteTableName(table)
	if err != nil {
		return 0, err
	}

	columns, data, err := readHeader(r)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE %s", quotedTable)); err != nil {
		return 0, fmt.Errorf("truncating: %w", err)
	}

	query := fmt.Sprintf("COPY %s (%s) FROM STDIN WITH (FORMAT csv, HEADER true)", quotedTable, pglib.QuoteIdentifiers(columns))
	tag, err := tx.CopyFrom(ctx, data, query)
	if err != nil {
		return 0, fmt.Errorf("copying: %w", err)
	}
	return tag.RowsAffected(), nil
}

// readHeader returns the header columns and a reader positioned at the start
// of the artifact, header included.
func readHeader(r io.Reader) ([]string, io.Reader, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	if strings.TrimSpace(line) == "" {
		return nil, nil, errEmptyArtifact
	}

	columns, err := tabular.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing header: %w", err)
	}
	return columns, io.MultiReader(strings.NewReader(line), br), nil
}
