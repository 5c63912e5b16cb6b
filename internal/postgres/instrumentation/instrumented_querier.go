// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	pglib "github.com/xataio/pgshift/internal/postgres"
	"github.com/xataio/pgshift/pkg/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Querier struct {
	inner   pglib.Querier
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *metrics
}

type metrics struct {
	queryLatency metric.Int64Histogram
	copiedRows   metric.Int64Counter
}

const (
	queryTypeAttributeKey = "query_type"
	queryAttributeKey     = "query"
	unknownQueryType      = "unknown"
	txQueryType           = "tx"
)

func NewQuerier(q pglib.Querier, instrumentation *otel.Instrumentation) (pglib.Querier, error) {
	if !instrumentation.IsEnabled() {
		return q, nil
	}

	querier := &Querier{
		inner:   q,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &metrics{},
	}

	if err := querier.initMetrics(); err != nil {
		return nil, fmt.Errorf("initialising postgres querier metrics: %w", err)
	}

	return querier, nil
}

func (i *Querier) Query(ctx context.Context, query string, args ...any) (rows pglib.Rows, err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "querier.Query", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	defer i.recordLatency(ctx, time.Now(), queryAttrs)

	return i.inner.Query(ctx, query, args...)
}

func (i *Querier) QueryRow(ctx context.Context, dest []any, query string, args ...any) (err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "querier.QueryRow", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	defer i.recordLatency(ctx, time.Now(), queryAttrs)

	return i.inner.QueryRow(ctx, dest, query, args...)
}

func (i *Querier) Exec(ctx context.Context, query string, args ...any) (tag pglib.CommandTag, err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "querier.Exec", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	defer i.recordLatency(ctx, time.Now(), queryAttrs)

	return i.inner.Exec(ctx, query, args...)
}

func (i *Querier) ExecInTx(ctx context.Context, fn func(tx pglib.Tx) error) (err error) {
	queryAttrs := queryAttributes(txQueryType)
	ctx, span := otel.StartSpan(ctx, i.tracer, "querier.ExecInTx", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	defer i.recordLatency(ctx, time.Now(), queryAttrs)

	instrumentedTxFn := func(tx pglib.Tx) error {
		return fn(NewTx(tx, &otel.Instrumentation{Tracer: i.tracer}, i.metrics))
	}
	return i.inner.ExecInTx(ctx, instrumentedTxFn)
}

func (i *Querier) CopyTo(ctx context.Context, w io.Writer, query string) (tag pglib.CommandTag, err error) {
	queryAttrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "querier.CopyTo", trace.WithAttributes(queryAttrs...))
	defer func() { otel.CloseSpan(span, err) }()
	defer i.recordLatency(ctx, time.Now(), queryAttrs)

	tag, err = i.inner.CopyTo(ctx, w, query)
	if err == nil {
		i.metrics.recordCopiedRows(ctx, tag.RowsAffected(), queryAttrs)
	}
	return tag, err
}

func (i *Querier) Ping(ctx context.Context) error {
	return i.inner.Ping(ctx)
}

func (i *Querier) Close(ctx context.Context) error {
	return i.inner.Close(ctx)
}

func (i *Querier) recordLatency(ctx context.Context, startTime time.Time, attrs []attribute.KeyValue) {
	if i.meter == nil {
		return
	}
	i.metrics.queryLatency.Record(ctx, time.Since(startTime).Milliseconds(), metric.WithAttributes(attrs...))
}

func (i *Querier) initMetrics() error {
	if i.meter == nil {
		return nil
	}

	var err error
	i.metrics.queryLatency, err = i.meter.Int64Histogram("pgshift.postgres.querier.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of the time taken to perform a query"))
	if err != nil {
		return err
	}

	i.metrics.copiedRows, err = i.meter.Int64Counter("pgshift.postgres.copied.rows",
		metric.WithUnit("rows"),
		metric.WithDescription("Count of rows copied in or out of postgres"))
	if err != nil {
		return err
	}

	return nil
}

func (m *metrics) recordCopiedRows(ctx context.Context, rows int64, attrs []attribute.KeyValue) {
	if m == nil || m.copiedRows == nil {
		return
	}
	m.copiedRows.Add(ctx, rows, metric.WithAttributes(attrs...))
}

func queryAttributes(query string) []attribute.KeyValue {
	var qt string
	switch query {
	case "":
		qt = unknownQueryType
	default:
		qt = strings.ToUpper(strings.Split(query, " ")[0])
	}

	attrs := []attribute.KeyValue{
		{
			Key:   queryTypeAttributeKey,
			Value: attribute.StringValue(qt),
		},
	}

	if qt == unknownQueryType {
		return attrs
	}

	return append(attrs, attribute.KeyValue{
		Key:   queryAttributeKey,
		Value: attribute.StringValue(query),
	})
}
