// SPDX-License-Identifier: Apache-2.0

package retrier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xataio/pgshift/internal/backoff"
	"github.com/xataio/pgshift/internal/postgres"
	loglib "github.com/xataio/pgshift/pkg/log"
)

// Querier retries failed postgres operations, rebuilding the connection
// between attempts. Errors caused by the query itself are not retried.
type Querier struct {
	connBuilder     connBuilder
	querier         postgres.Querier
	backoffProvider backoff.Provider
	logger          loglib.Logger
}

type connBuilder func(context.Context) (postgres.Querier, error)

var errPartialCopy = errors.New("copy failed after data was written")

func NewQuerier(ctx context.Context, cfg backoff.Config, connBuilder connBuilder, logger loglib.Logger) (*Querier, error) {
	conn, err := connBuilder(ctx)
	if err != nil {
		return nil, err
	}

	return &Querier{
		connBuilder:     connBuilder,
		querier:         conn,
		backoffProvider: backoff.NewProvider(&cfg),
		logger:          loglib.NewModuleLogger(logger, "postgres_retrier"),
	}, nil
}

func (q *Querier) Query(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
	var rows postgres.Rows
	op := func() error {
		var err error
		rows, err = q.querier.Query(ctx, query, args...)
		return err
	}

	if err := q.withRetry(ctx, op); err != nil {
		return nil, err
	}
	return rows, nil
}

func (q *Querier) QueryRow(ctx context.Context, dest []any, query string, args ...any) error {
	return q.withRetry(ctx, func() error {
		return q.querier.QueryRow(ctx, dest, query, args...)
	})
}

func (q *Querier) Exec(ctx context.Context, query string, args ...any) (postgres.CommandTag, error) {
	var cmdTag postgres.CommandTag
	op := func() error {
		var err error
		cmdTag, err = q.querier.Exec(ctx, query, args...)
		return err
	}

	if err := q.withRetry(ctx, op); err != nil {
		return postgres.CommandTag{}, err
	}
	return cmdTag, nil
}

// ExecInTx retries the whole transaction. fn must be safe to run more than
// once.
func (q *Querier) ExecInTx(ctx context.Context, fn func(tx postgres.Tx) error) error {
	return q.withRetry(ctx, func() error {
		return q.querier.ExecInTx(ctx, fn)
	})
}

// CopyTo is only retried while nothing has been written to w.
func (q *Querier) CopyTo(ctx context.Context, w io.Writer, query string) (postgres.CommandTag, error) {
	cw := &countingWriter{w: w}
	var cmdTag postgres.CommandTag
	op := func() error {
		var err error
		cmdTag, err = q.querier.CopyTo(ctx, cw, query)
		if err != nil && cw.n > 0 {
			return fmt.Errorf("%w (%d bytes): %w: %w", errPartialCopy, cw.n, err, backoff.ErrPermanent)
		}
		return err
	}

	if err := q.withRetry(ctx, op); err != nil {
		return postgres.CommandTag{}, err
	}
	return cmdTag, nil
}

func (q *Querier) Ping(ctx context.Context) error {
	return q.querier.Ping(ctx)
}

func (q *Querier) Close(ctx context.Context) error {
	return q.querier.Close(ctx)
}

func (q *Querier) withRetry(ctx context.Context, operation func() error) error {
	err := operation()
	if err == nil || !q.isRetriableError(err) {
		return err
	}

	// only initialise the backoff if the operation fails
	bo := q.backoffProvider(ctx)
	err = bo.RetryNotify(func() error {
		if connErr := q.resetConn(ctx); connErr != nil {
			return fmt.Errorf("unable to reset connection: %w", connErr)
		}

		err := operation()
		if err == nil {
			return nil
		}
		if !q.isRetriableError(err) {
			return fmt.Errorf("%w: %w", err, backoff.ErrPermanent)
		}
		return err
	}, func(err error, d time.Duration) {
		q.logger.Warn(err, "retrying postgres operation after error", loglib.Fields{
			"retry_delay": d.String(),
		})
	})
	if err != nil {
		return err
	}

	q.logger.Info("retried postgres operation succeeded")
	return nil
}

func (q *Querier) resetConn(ctx context.Context) error {
	conn, err := q.connBuilder(ctx)
	if err != nil {
		return err
	}
	if q.querier != nil {
		if err := q.querier.Close(ctx); err != nil {
			q.logger.Warn(err, "closing postgres connection")
		}
	}
	q.querier = conn
	return nil
}

func (q *Querier) isRetriableError(err error) bool {
	if backoff.IsPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	mappedErr := postgres.MapError(err)
	if errors.Is(mappedErr, postgres.ErrNoRows) {
		return false
	}

	var (
		permissionDenied    *postgres.ErrPermissionDenied
		constraintViolation *postgres.ErrConstraintViolation
		syntaxError         *postgres.ErrSyntaxError
		doesNotExist        *postgres.ErrRelationDoesNotExist
		dataException       *postgres.ErrDataException
	)
	switch {
	case errors.As(mappedErr, &permissionDenied),
		errors.As(mappedErr, &constraintViolation),
		errors.As(mappedErr, &syntaxError),
		errors.As(mappedErr, &doesNotExist),
		errors.As(mappedErr, &dataException):
		return false
	}

	return true
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
