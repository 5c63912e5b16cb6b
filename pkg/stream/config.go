// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"

	"github.com/xataio/pgshift/internal/backoff"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/postprocess"
	"github.com/xataio/pgshift/pkg/store/s3"
)

type Config struct {
	Source      SourceConfig
	Store       StoreConfig
	Destination DestinationConfig
	PostProcess []postprocess.Task
	// Retry applies to store uploads and postgres operations. No retries
	// when unset.
	Retry *backoff.Config
}

type SourceType string

const (
	SourcePostgres  SourceType = "postgres"
	SourceSnowflake SourceType = "snowflake"
	SourceSQLServer SourceType = "sqlserver"
)

type SourceConfig struct {
	Type          SourceType
	ConnectionURL string
	Tables        []pipeline.Table
}

type StoreConfig struct {
	Local *LocalStoreConfig
	S3    *s3.Config
}

type LocalStoreConfig struct {
	Path string
}

type DestinationConfig struct {
	PostgresURL string
}

var (
	ErrInvalidConfig = errors.New("invalid configuration")

	errNoTables             = fmt.Errorf("%w: no tables configured", ErrInvalidConfig)
	errUnsupportedSource    = fmt.Errorf("%w: unsupported source type", ErrInvalidConfig)
	errMissingSourceURL     = fmt.Errorf("%w: missing source connection url", ErrInvalidConfig)
	errInvalidStore         = fmt.Errorf("%w: exactly one store must be configured", ErrInvalidConfig)
	errMissingStorePath     = fmt.Errorf("%w: missing local store path", ErrInvalidConfig)
	errMissingBucket        = fmt.Errorf("%w: missing s3 bucket", ErrInvalidConfig)
	errDeriveNeedsPostgres  = fmt.Errorf("%w: tables with a query need a destination postgres url", ErrInvalidConfig)
	errLoadNeedsDestination = fmt.Errorf("%w: load stage needs a destination postgres url", ErrInvalidConfig)
)

// IsValid checks the configuration does not contradict itself. Table
// transformations are validated by ValidateConfig.
func (c *Config) IsValid() error {
	var errs []error
	if len(c.Source.Tables) == 0 {
		errs = append(errs, errNoTables)
	}

	switch c.Source.Type {
	case SourcePostgres, SourceSnowflake, SourceSQLServer:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", errUnsupportedSource, c.Source.Type))
	}

	if err := c.Store.isValid(); err != nil {
		errs = append(errs, err)
	}

	if c.hasDerivedTables() && c.Destination.PostgresURL == "" {
		errs = append(errs, errDeriveNeedsPostgres)
	}

	for i := range c.PostProcess {
		if err := c.PostProcess[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
		}
	}

	return errors.Join(errs...)
}

// isValidFor checks the configuration has what the stages that will run
// need.
func (c *Config) isValidFor(opts RunOptions) error {
	var errs []error
	if !opts.SkipCollect && c.hasExtractTables() && c.Source.ConnectionURL == "" {
		errs = append(errs, errMissingSourceURL)
	}
	if !opts.SkipLoad && c.Destination.PostgresURL == "" {
		errs = append(errs, errLoadNeedsDestination)
	}
	return errors.Join(errs...)
}

func (c *StoreConfig) isValid() error {
	switch {
	case (c.Local == nil) == (c.S3 == nil):
		return errInvalidStore
	case c.Local != nil && c.Local.Path == "":
		return errMissingStorePath
	case c.S3 != nil && c.S3.Bucket == "":
		return errMissingBucket
	}
	return nil
}

func (c *Config) hasExtractTables() bool {
	for i := range c.Source.Tables {
		if mode, err := c.Source.Tables[i].Mode(); err == nil && mode == pipeline.ModeExtract {
			return true
		}
	}
	return false
}

func (c *Config) hasDerivedTables() bool {
	for i := range c.Source.Tables {
		if mode, err := c.Source.Tables[i].Mode(); err == nil && mode == pipeline.ModeDerive {
			return true
		}
	}
	return false
}

func (c *Config) retryConfig() *backoff.Config {
	if c.Retry == nil {
		return &backoff.Config{}
	}
	return c.Retry
}
