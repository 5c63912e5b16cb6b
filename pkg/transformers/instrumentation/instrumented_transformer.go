// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"github.com/xataio/pgshift/pkg/otel"
	"github.com/xataio/pgshift/pkg/transformers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Transformer records a latency histogram and an error counter per
// transformer type. Values are transformed once per row and column, so spans
// are only started when the caller context is already sampled.
type Transformer struct {
	inner   transformers.Transformer
	tracer  trace.Tracer
	metrics *metrics
	attrs   metric.MeasurementOption
	spanOpt trace.SpanStartEventOption
}

type metrics struct {
	transformLatency metric.Int64Histogram
	transformErrors  metric.Int64Counter
}

const typeAttributeKey = "transformer_type"

func NewTransformer(t transformers.Transformer, instrumentation *otel.Instrumentation) (transformers.Transformer, error) {
	if !instrumentation.IsEnabled() {
		return t, nil
	}

	typeAttr := attribute.String(typeAttributeKey, string(t.Type()))
	transformer := &Transformer{
		inner:   t,
		tracer:  instrumentation.Tracer,
		attrs:   metric.WithAttributeSet(attribute.NewSet(typeAttr)),
		spanOpt: trace.WithAttributes(typeAttr),
	}

	if instrumentation.Meter != nil {
		m, err := newMetrics(instrumentation.Meter)
		if err != nil {
			return nil, fmt.Errorf("initialising transformer metrics: %w", err)
		}
		transformer.metrics = m
	}

	return transformer, nil
}

func (i *Transformer) Transform(ctx context.Context, v transformers.Value) (res string, err error) {
	if i.tracer != nil && trace.SpanContextFromContext(ctx).IsSampled() {
		var span trace.Span
		ctx, span = otel.StartSpan(ctx, i.tracer, "transformer.Transform", i.spanOpt)
		defer func() { otel.CloseSpan(span, err) }()
	}

	if i.metrics == nil {
		return i.inner.Transform(ctx, v)
	}

	start := time.Now()
	res, err = i.inner.Transform(ctx, v)
	i.metrics.transformLatency.Record(ctx, time.Since(start).Microseconds(), i.attrs)
	if err != nil {
		i.metrics.transformErrors.Add(ctx, 1, i.attrs)
	}
	return res, err
}

func (i *Transformer) Type() transformers.TransformerType {
	return i.inner.Type()
}

// ReferencedColumns exposes the column references of the wrapped transformer.
func (i *Transformer) ReferencedColumns() []string {
	if r, ok := i.inner.(transformers.ColumnReferencer); ok {
		return r.ReferencedColumns()
	}
	return nil
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	latency, err := meter.Int64Histogram("pgshift.transformer.latency",
		metric.WithUnit("us"),
		metric.WithDescription("Distribution of the time taken to transform a value"))
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("pgshift.transformer.errors",
		metric.WithUnit("{value}"),
		metric.WithDescription("Number of values that failed to transform"))
	if err != nil {
		return nil, err
	}

	return &metrics{
		transformLatency: latency,
		transformErrors:  errs,
	}, nil
}
