// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	pglib "github.com/xataio/pgshift/internal/postgres"
	pginstrumentation "github.com/xataio/pgshift/internal/postgres/instrumentation"
	"github.com/xataio/pgshift/internal/postgres/retrier"
	"github.com/xataio/pgshift/pkg/collector"
	"github.com/xataio/pgshift/pkg/loader"
	loglib "github.com/xataio/pgshift/pkg/log"
	"github.com/xataio/pgshift/pkg/otel"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/postprocess"
	"github.com/xataio/pgshift/pkg/store"
	"github.com/xataio/pgshift/pkg/store/local"
	"github.com/xataio/pgshift/pkg/store/s3"
	"github.com/xataio/pgshift/pkg/tabular"
	"github.com/xataio/pgshift/pkg/transformers/builder"
)

type RunOptions struct {
	SkipCollect     bool
	SkipTransform   bool
	SkipLoad        bool
	SkipPostProcess bool
	// Progress renders a progress bar per transformed table.
	Progress bool
}

// ValidateConfig checks the configuration and builds every configured
// transformer, without connecting to any database.
func ValidateConfig(ctx context.Context, config *Config) error {
	if err := config.IsValid(); err != nil {
		return err
	}

	// the query source is never used while preparing
	p := pipeline.New(nil, nil, builder.NewTransformerBuilder(), pipeline.WithQuerySource(tabular.NewPostgresQuerySource(nil)))
	if err := p.Prepare(config.Source.Tables); err != nil {
		return err
	}
	return ctx.Err()
}

// Run runs the configured stages in order: collect, transform and load per
// table, then post-processing. This call is blocking.
func Run(ctx context.Context, logger loglib.Logger, config *Config, opts RunOptions, instrumentation *otel.Instrumentation) error {
	if err := ValidateConfig(ctx, config); err != nil {
		return err
	}
	if err := config.isValidFor(opts); err != nil {
		return err
	}

	logger = loglib.NewLogger(logger).WithFields(loglib.Fields{loglib.RunIDField: xid.New().String()})
	start := time.Now()
	logger.Info("starting run", loglib.Fields{
		"tables":           len(config.Source.Tables),
		"skip_collect":     opts.SkipCollect,
		"skip_transform":   opts.SkipTransform,
		"skip_load":        opts.SkipLoad,
		"skip_postprocess": opts.SkipPostProcess,
	})

	objectStore, err := newStore(ctx, &config.Store, logger)
	if err != nil {
		return fmt.Errorf("error setting up object store: %w", err)
	}

	querierBuilder := pginstrumentation.NewQuerierBuilder(pglib.ConnBuilder, instrumentation)

	// Collect

	if !opts.SkipCollect {
		extractor, err := newExtractor(ctx, config, querierBuilder, logger)
		if err != nil {
			return fmt.Errorf("error setting up %s extractor: %w", config.Source.Type, err)
		}
		defer extractor.Close()

		c := collector.New(extractor, objectStore, collector.WithLogger(logger))
		if err := c.Collect(ctx, config.Source.Tables); err != nil {
			return fmt.Errorf("collect stage: %w", err)
		}
	}

	// Transform and load

	var destination pglib.Querier
	if !opts.SkipLoad || (!opts.SkipTransform && config.hasDerivedTables()) {
		destination, err = newRetryQuerier(ctx, config, config.Destination.PostgresURL, querierBuilder, logger)
		if err != nil {
			return fmt.Errorf("error connecting to destination: %w", err)
		}
		defer destination.Close(context.Background())
	}

	var tableLoader *loader.Loader
	if !opts.SkipLoad {
		tableLoader = loader.New(destination, objectStore, loader.WithLogger(logger))
	}

	switch {
	case !opts.SkipTransform:
		pipelineOpts := []pipeline.Option{
			pipeline.WithLogger(logger),
		}
		if destination != nil {
			pipelineOpts = append(pipelineOpts, pipeline.WithQuerySource(tabular.NewPostgresQuerySource(destination)))
		}
		if tableLoader != nil {
			pipelineOpts = append(pipelineOpts, pipeline.WithAfterTableHook(tableLoader.LoadTable))
		}
		if opts.Progress {
			pipelineOpts = append(pipelineOpts, pipeline.WithProgressTracking(nil))
		}

		p := pipeline.New(
			tabular.NewStoreSource(objectStore, tabular.WithLogger(logger)),
			tabular.NewStoreSink(objectStore,
				tabular.WithSinkLogger(logger),
				tabular.WithUploadRetries(config.retryConfig())),
			builder.NewTransformerBuilder(builder.WithInstrumentation(instrumentation)),
			pipelineOpts...)
		if err := p.Run(ctx, config.Source.Tables); err != nil {
			return fmt.Errorf("transform stage: %w", err)
		}

	case tableLoader != nil:
		for i := range config.Source.Tables {
			if err := tableLoader.LoadTable(ctx, &config.Source.Tables[i]); err != nil {
				return fmt.Errorf("load stage: %w", err)
			}
		}
	}

	// Post-process

	if !opts.SkipPostProcess && len(config.PostProcess) > 0 {
		runner := postprocess.New(querierBuilder, postprocess.WithLogger(logger))
		if err := runner.Run(ctx, config.PostProcess); err != nil {
			return fmt.Errorf("post-process stage: %w", err)
		}
	}

	logger.Info("run completed", loglib.Fields{"duration": time.Since(start).String()})
	return nil
}

func newStore(ctx context.Context, cfg *StoreConfig, logger loglib.Logger) (store.Store, error) {
	switch {
	case cfg.Local != nil:
		return local.New(cfg.Local.Path)
	case cfg.S3 != nil:
		return s3.New(ctx, cfg.S3, s3.WithLogger(logger))
	default:
		return nil, errInvalidStore
	}
}

func newExtractor(ctx context.Context, config *Config, querierBuilder pglib.QuerierBuilder, logger loglib.Logger) (collector.Extractor, error) {
	switch config.Source.Type {
	case SourcePostgres:
		querier, err := newRetryQuerier(ctx, config, config.Source.ConnectionURL, querierBuilder, logger)
		if err != nil {
			return nil, err
		}
		return collector.NewPostgresExtractor(querier), nil
	case SourceSnowflake:
		return collector.NewSQLExtractor(ctx, collector.SnowflakeDriver, config.Source.ConnectionURL)
	case SourceSQLServer:
		return collector.NewSQLExtractor(ctx, collector.SQLServerDriver, config.Source.ConnectionURL)
	default:
		return nil, errUnsupportedSource
	}
}

func newRetryQuerier(ctx context.Context, config *Config, url string, querierBuilder pglib.QuerierBuilder, logger loglib.Logger) (pglib.Querier, error) {
	return retrier.NewQuerier(ctx, *config.retryConfig(), func(ctx context.Context) (pglib.Querier, error) {
		return querierBuilder(ctx, url)
	}, logger)
}
