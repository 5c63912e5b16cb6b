// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	pglib "github.com/xataio/pgshift/internal/postgres"
	"github.com/xataio/pgshift/pkg/pipeline"
)

// PostgresQuerySource runs the queries of derived tables through COPY TO
// STDOUT, so values come back in the same text format as extracted tables.
type PostgresQuerySource struct {
	querier pglib.Querier
}

func NewPostgresQuerySource(querier pglib.Querier) *PostgresQuerySource {
	return &PostgresQuerySource{querier: querier}
}

// Query returns the result columns and a reader over the result rows. The
// reader must be closed.
func (s *PostgresQuerySource) Query(ctx context.Context, query string) ([]string, pipeline.RowReader, error) {
	copyQuery := fmt.Sprintf("COPY (%s) TO STDOUT WITH (FORMAT csv, HEADER true)", trimQuery(query))

	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := s.querier.CopyTo(ctx, pw, copyQuery)
		err = pglib.MapError(err)
		pw.CloseWithError(err)
		done <- err
	}()

	rows := &copyRows{
		reader: NewReader(pr),
		pipe:   pr,
		cancel: cancel,
		done:   done,
	}

	header, err := rows.reader.Read()
	if err != nil {
		rows.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("query returned no header: %w", pipeline.ErrSourceUnavailable)
		}
		return nil, nil, err
	}
	return header, rows, nil
}

func trimQuery(query string) string {
	return strings.TrimSuffix(strings.TrimSpace(query), ";")
}

type copyRows struct {
	reader *Reader
	pipe   *io.PipeReader
	cancel context.CancelFunc
	done   chan error
	closed bool
}

func (r *copyRows) Read(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.reader.Read()
}

func (r *copyRows) Nulls() []bool {
	return r.reader.Nulls()
}

// Close stops the copy if it is still running. Errors of an interrupted copy
// are not reported.
func (r *copyRows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.cancel()
	r.pipe.Close()
	<-r.done
	return nil
}
