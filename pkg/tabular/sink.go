// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/xataio/pgshift/internal/backoff"
	loglib "github.com/xataio/pgshift/pkg/log"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/store"
	"github.com/zeebo/xxh3"
)

// StoreSink writes the transformed rows of a table to a local temporary file
// and uploads it as the table output artifact on commit, so that a failed
// table never replaces a previously committed artifact.
type StoreSink struct {
	logger          loglib.Logger
	store           store.Store
	backoffProvider backoff.Provider
	tmpDir          string
}

type SinkOption func(s *StoreSink)

func NewStoreSink(s store.Store, opts ...SinkOption) *StoreSink {
	sink := &StoreSink{
		logger: loglib.NewNoopLogger(),
		store:  s,
		backoffProvider: func(ctx context.Context) backoff.Backoff {
			return backoff.NewStopBackoff()
		},
	}
	for _, opt := range opts {
		opt(sink)
	}
	return sink
}

func WithSinkLogger(l loglib.Logger) SinkOption {
	return func(s *StoreSink) {
		s.logger = loglib.NewModuleLogger(l, "tabular_sink")
	}
}

// WithUploadRetries retries failed uploads following the backoff config.
func WithUploadRetries(cfg *backoff.Config) SinkOption {
	return func(s *StoreSink) {
		s.backoffProvider = backoff.NewProvider(cfg)
	}
}

// WithTempDir sets the directory for the temporary artifacts, the OS default
// otherwise.
func WithTempDir(dir string) SinkOption {
	return func(s *StoreSink) {
		s.tmpDir = dir
	}
}

func (s *StoreSink) Open(_ context.Context, table string, columns []string) (pipeline.TableWriter, error) {
	f, err := os.CreateTemp(s.tmpDir, "pgshift-"+table+"-*.csv")
	if err != nil {
		return nil, fmt.Errorf("creating temporary artifact: %w", err)
	}

	hasher := xxh3.New()
	w := &tableWriter{
		sink:   s,
		table:  table,
		file:   f,
		hasher: hasher,
		csv:    NewWriter(io.MultiWriter(f, hasher)),
	}
	if err := w.csv.Write(columns); err != nil {
		w.Abort()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return w, nil
}

type tableWriter struct {
	sink   *StoreSink
	table  string
	file   *os.File
	hasher *xxh3.Hasher
	csv    *Writer
	rows   int
}

func (w *tableWriter) Write(row []string) error {
	return w.WriteWithNulls(row, nil)
}

// WriteWithNulls writes a row whose NULL fields are known, so that empty
// strings are kept apart from NULL.
func (w *tableWriter) WriteWithNulls(row []string, nulls []bool) error {
	if err := w.csv.WriteWithNulls(row, nulls); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *tableWriter) Commit(ctx context.Context) error {
	defer w.cleanup()

	if err := w.csv.Flush(); err != nil {
		return fmt.Errorf("flushing artifact: %w", err)
	}

	key := store.OutputKey(w.table)
	upload := func() error {
		if _, err := w.file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("%w: %w", backoff.ErrPermanent, err)
		}
		return w.sink.store.Put(ctx, key, w.file)
	}
	notify := func(err error, d time.Duration) {
		w.sink.logger.Warn(err, "uploading table artifact", loglib.TableFields(w.table, loglib.Fields{
			"key":     key,
			"backoff": d.String(),
		}))
	}
	if err := w.sink.backoffProvider(ctx).RetryNotify(upload, notify); err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}

	w.sink.logger.Info("table artifact uploaded", loglib.TableFields(w.table, loglib.Fields{
		"key":            key,
		loglib.RowsField: w.rows,
		"digest":         strconv.FormatUint(w.hasher.Sum64(), 16),
	}))
	return nil
}

func (w *tableWriter) Abort() error {
	return w.cleanup()
}

func (w *tableWriter) cleanup() error {
	if w.file == nil {
		return nil
	}
	name := w.file.Name()
	w.file.Close()
	w.file = nil
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing temporary artifact: %w", err)
	}
	return nil
}
