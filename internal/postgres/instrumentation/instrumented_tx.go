// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"io"

	pglib "github.com/xataio/pgshift/internal/postgres"
	"github.com/xataio/pgshift/pkg/otel"
	"go.opentelemetry.io/otel/trace"
)

type Tx struct {
	inner   pglib.Tx
	tracer  trace.Tracer
	metrics *metrics
}

func NewTx(t pglib.Tx, instrumentation *otel.Instrumentation, m *metrics) pglib.Tx {
	if instrumentation == nil {
		return t
	}

	return &Tx{
		inner:   t,
		tracer:  instrumentation.Tracer,
		metrics: m,
	}
}

func (i *Tx) Query(ctx context.Context, query string, args ...any) (rows pglib.Rows, err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "tx.Query", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	return i.inner.Query(ctx, query, args...)
}

func (i *Tx) QueryRow(ctx context.Context, dest []any, query string, args ...any) (err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "tx.QueryRow", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	return i.inner.QueryRow(ctx, dest, query, args...)
}

func (i *Tx) Exec(ctx context.Context, query string, args ...any) (tag pglib.CommandTag, err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "tx.Exec", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	return i.inner.Exec(ctx, query, args...)
}

func (i *Tx) CopyFrom(ctx context.Context, r io.Reader, query string) (tag pglib.CommandTag, err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "tx.CopyFrom", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()

	tag, err = i.inner.CopyFrom(ctx, r, query)
	if err == nil {
		i.metrics.recordCopiedRows(ctx, tag.RowsAffected(), queryAttrs)
	}
	return tag, err
}
