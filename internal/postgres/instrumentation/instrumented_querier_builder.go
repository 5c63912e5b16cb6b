// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	pglib "github.com/xataio/pgshift/internal/postgres"
	"github.com/xataio/pgshift/pkg/otel"
)

// NewQuerierBuilder wraps the queriers built by b with instrumentation, and
// traces the connection. The builder is returned unchanged when
// instrumentation is disabled.
func NewQuerierBuilder(b pglib.QuerierBuilder, i *otel.Instrumentation) pglib.QuerierBuilder {
	if !i.IsEnabled() {
		return b
	}
	return func(ctx context.Context, url string) (q pglib.Querier, err error) {
		ctx, span := otel.StartSpan(ctx, i.Tracer, "postgres.Connect", trace.WithSpanKind(trace.SpanKindClient))
		defer func() { otel.CloseSpan(span, err) }()

		querier, err := b(ctx, url)
		if err != nil {
			return nil, err
		}
		return NewQuerier(querier, i)
	}
}
