// SPDX-License-Identifier: Apache-2.0

package otel

import (
	"errors"
	"fmt"
	"time"
)

// Config enables metrics, traces, or both, exported over OTLP gRPC. A nil
// section disables it.
type Config struct {
	Metrics *MetricsConfig
	Traces  *TracesConfig
}

type MetricsConfig struct {
	Endpoint           string
	CollectionInterval time.Duration
}

type TracesConfig struct {
	Endpoint string
	// SampleRatio is the share of root spans recorded, from 0 to 1.
	SampleRatio float64
}

const defaultCollectionInterval = 60 * time.Second

var (
	ErrInvalidConfig    = errors.New("invalid instrumentation config")
	errMissingEndpoint  = errors.New("endpoint is required")
	errSampleRatioRange = errors.New("sample ratio must be between 0 and 1")
)

func (c *Config) IsEnabled() bool {
	return c != nil && (c.Metrics != nil || c.Traces != nil)
}

func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Metrics != nil && c.Metrics.Endpoint == "" {
		errs = append(errs, fmt.Errorf("metrics: %w", errMissingEndpoint))
	}
	if c.Traces != nil {
		if c.Traces.Endpoint == "" {
			errs = append(errs, fmt.Errorf("traces: %w", errMissingEndpoint))
		}
		if c.Traces.SampleRatio < 0 || c.Traces.SampleRatio > 1 {
			errs = append(errs, fmt.Errorf("traces: %w", errSampleRatioRange))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *MetricsConfig) collectionInterval() time.Duration {
	if c.CollectionInterval > 0 {
		return c.CollectionInterval
	}
	return defaultCollectionInterval
}
