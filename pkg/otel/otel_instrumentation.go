// SPDX-License-Identifier: Apache-2.0

package otel

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentationProvider interface {
	NewInstrumentation(name string) *Instrumentation
	Close() error
}

// Instrumentation is handed to the components of a run. A nil
// Instrumentation disables it, so components check IsEnabled before wrapping
// themselves.
type Instrumentation struct {
	Meter  metric.Meter
	Tracer trace.Tracer
}

func (i *Instrumentation) IsEnabled() bool {
	return i != nil && (i.Meter != nil || i.Tracer != nil)
}

type noopProvider struct{}

func (p *noopProvider) NewInstrumentation(string) *Instrumentation {
	return nil
}

func (p *noopProvider) Close() error {
	return nil
}

// NewInstrumentationProvider returns a provider exporting to the configured
// endpoints, or a provider of disabled instrumentation when neither metrics
// nor traces are configured.
func NewInstrumentationProvider(cfg *Config) (InstrumentationProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.IsEnabled() {
		return &noopProvider{}, nil
	}
	return NewProvider(cfg)
}
