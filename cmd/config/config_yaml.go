// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/xataio/pgshift/internal/backoff"
	"github.com/xataio/pgshift/pkg/otel"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/postprocess"
	"github.com/xataio/pgshift/pkg/store/s3"
	"github.com/xataio/pgshift/pkg/stream"
	"github.com/xataio/pgshift/pkg/transformers"
	"gopkg.in/yaml.v3"
)

type YAMLConfig struct {
	Source          SourceConfig           `mapstructure:"source" yaml:"source"`
	Store           StoreConfig            `mapstructure:"store" yaml:"store"`
	Destination     DestinationConfig      `mapstructure:"destination" yaml:"destination"`
	PostProcess     []PostProcessConfig    `mapstructure:"postprocess" yaml:"postprocess"`
	Retry           *RetryConfig           `mapstructure:"retry" yaml:"retry"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation" yaml:"instrumentation"`
}

type SourceConfig struct {
	Type          string        `mapstructure:"type" yaml:"type"`
	ConnectionURI string        `mapstructure:"connection_uri" yaml:"connection_uri"`
	Tables        []TableConfig `mapstructure:"tables" yaml:"tables"`
}

type TableConfig struct {
	Name     string   `mapstructure:"name" yaml:"name"`
	Columns  []string `mapstructure:"columns" yaml:"columns"`
	Generate int      `mapstructure:"generate" yaml:"generate"`
	Query    string   `mapstructure:"query" yaml:"query"`
	// Transform maps a column to a transformer name, or to a
	// TransformerRule.
	Transform map[string]any `mapstructure:"transform" yaml:"transform"`

	// transform columns in document order
	transformOrder []string
}

// UnmarshalYAML decodes the table and records the order in which the
// transform columns are declared.
func (t *TableConfig) UnmarshalYAML(node *yaml.Node) error {
	type tableConfig TableConfig
	var decoded tableConfig
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*t = TableConfig(decoded)
	t.transformOrder = nil

	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Value != "transform" || value.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(value.Content); j += 2 {
			t.transformOrder = append(t.transformOrder, value.Content[j].Value)
		}
	}
	return nil
}

type TransformerRule struct {
	Name       string         `mapstructure:"name" yaml:"name"`
	Parameters map[string]any `mapstructure:"parameters" yaml:"parameters"`
}

type StoreConfig struct {
	Type               string `mapstructure:"type" yaml:"type"`
	Path               string `mapstructure:"path" yaml:"path"`
	Bucket             string `mapstructure:"bucket" yaml:"bucket"`
	Region             string `mapstructure:"region" yaml:"region"`
	Endpoint           string `mapstructure:"endpoint" yaml:"endpoint"`
	Prefix             string `mapstructure:"prefix" yaml:"prefix"`
	AWSAccessKeyID     string `mapstructure:"aws_access_key_id" yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `mapstructure:"aws_secret_access_key" yaml:"aws_secret_access_key"`
}

type DestinationConfig struct {
	ConnectionURI string `mapstructure:"connection_uri" yaml:"connection_uri"`
}

type PostProcessConfig struct {
	Name string         `mapstructure:"name" yaml:"name"`
	SQL  *SQLTaskConfig `mapstructure:"sql" yaml:"sql"`
}

type SQLTaskConfig struct {
	ConnectionURI string `mapstructure:"connection_uri" yaml:"connection_uri"`
	SQL           string `mapstructure:"sql" yaml:"sql"`
}

// RetryConfig configures an exponential backoff when initial_interval is
// set, a constant one otherwise. Intervals are in milliseconds.
type RetryConfig struct {
	MaxRetries      uint `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval int  `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     int  `mapstructure:"max_interval" yaml:"max_interval"`
	Interval        int  `mapstructure:"interval" yaml:"interval"`
}

type InstrumentationConfig struct {
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Traces  *TracesConfig  `mapstructure:"traces" yaml:"traces"`
}

type MetricsConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// CollectionInterval is in seconds.
	CollectionInterval int `mapstructure:"collection_interval" yaml:"collection_interval"`
}

type TracesConfig struct {
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

const (
	localStore = "local"
	s3Store    = "s3"
)

var (
	errUnsupportedStoreType  = errors.New("unsupported store type")
	errMissingTableName      = errors.New("table name is required")
	errInvalidTransformer    = errors.New("transformer must be a name or a {name, parameters} rule")
	errMissingTransformer    = errors.New("transformer name is required")
	errInvalidSampleRatio    = errors.New("trace sample ratio must be between 0 and 1")
	errInvalidRetryIntervals = errors.New("retry max_interval must not be lower than initial_interval")
)

func (c *YAMLConfig) toStreamConfig() (*stream.Config, error) {
	tables, err := c.Source.parseTables()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	storeCfg, err := c.Store.parseStoreConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var retry *backoff.Config
	if c.Retry != nil {
		if retry, err = c.Retry.parseBackoffConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return &stream.Config{
		Source: stream.SourceConfig{
			Type:          stream.SourceType(c.Source.Type),
			ConnectionURL: c.Source.ConnectionURI,
			Tables:        tables,
		},
		Store:       storeCfg,
		Destination: stream.DestinationConfig{PostgresURL: c.Destination.ConnectionURI},
		PostProcess: c.parsePostProcessTasks(),
		Retry:       retry,
	}, nil
}

func (c *SourceConfig) parseTables() ([]pipeline.Table, error) {
	tables := make([]pipeline.Table, 0, len(c.Tables))
	var errs []error
	for i, t := range c.Tables {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("table %d: %w", i, errMissingTableName))
			continue
		}

		transformations, err := t.parseTransformations()
		if err != nil {
			errs = append(errs, fmt.Errorf("table %s: %w", t.Name, err))
			continue
		}

		tables = append(tables, pipeline.Table{
			Name:            t.Name,
			Columns:         t.Columns,
			Transformations: transformations,
			Generate:        t.Generate,
			Query:           t.Query,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return tables, nil
}

// parseTransformations returns the transformations in the order they were
// declared in the document, or sorted by column when the table was not
// decoded from YAML.
func (t *TableConfig) parseTransformations() ([]pipeline.Transformation, error) {
	columns := t.transformColumns()

	transformations := make([]pipeline.Transformation, 0, len(columns))
	for _, column := range columns {
		cfg, err := parseTransformerRule(t.Transform[column])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column, err)
		}
		transformations = append(transformations, pipeline.Transformation{
			Column:      column,
			Transformer: cfg,
		})
	}
	return transformations, nil
}

func (t *TableConfig) transformColumns() []string {
	if len(t.transformOrder) == len(t.Transform) {
		ordered := true
		for _, column := range t.transformOrder {
			if _, found := t.Transform[column]; !found {
				ordered = false
				break
			}
		}
		if ordered {
			return t.transformOrder
		}
	}

	columns := make([]string, 0, len(t.Transform))
	for column := range t.Transform {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

func parseTransformerRule(raw any) (transformers.Config, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return transformers.Config{}, errMissingTransformer
		}
		return transformers.Config{Name: transformers.TransformerType(v)}, nil
	case map[string]any:
		rule := TransformerRule{}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &rule,
		})
		if err != nil {
			return transformers.Config{}, err
		}
		if err := decoder.Decode(v); err != nil {
			return transformers.Config{}, fmt.Errorf("%w: %w", errInvalidTransformer, err)
		}
		if rule.Name == "" {
			return transformers.Config{}, errMissingTransformer
		}
		return transformers.Config{
			Name:       transformers.TransformerType(rule.Name),
			Parameters: rule.Parameters,
		}, nil
	default:
		return transformers.Config{}, fmt.Errorf("%w: got %T", errInvalidTransformer, raw)
	}
}

func (c *StoreConfig) parseStoreConfig() (stream.StoreConfig, error) {
	switch c.Type {
	case localStore:
		return stream.StoreConfig{
			Local: &stream.LocalStoreConfig{Path: c.Path},
		}, nil
	case s3Store:
		return stream.StoreConfig{
			S3: &s3.Config{
				Bucket:          c.Bucket,
				Region:          c.Region,
				Endpoint:        c.Endpoint,
				Prefix:          c.Prefix,
				AccessKeyID:     c.AWSAccessKeyID,
				SecretAccessKey: c.AWSSecretAccessKey,
			},
		}, nil
	default:
		return stream.StoreConfig{}, fmt.Errorf("%w: %q", errUnsupportedStoreType, c.Type)
	}
}

func (c *YAMLConfig) parsePostProcessTasks() []postprocess.Task {
	if len(c.PostProcess) == 0 {
		return nil
	}
	tasks := make([]postprocess.Task, 0, len(c.PostProcess))
	for _, p := range c.PostProcess {
		task := postprocess.Task{Name: p.Name}
		if p.SQL != nil {
			task.SQL = &postprocess.SQLTask{
				ConnectionURL: p.SQL.ConnectionURI,
				SQL:           p.SQL.SQL,
			}
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func (r *RetryConfig) parseBackoffConfig() (*backoff.Config, error) {
	if r.InitialInterval > 0 {
		if r.MaxInterval > 0 && r.MaxInterval < r.InitialInterval {
			return nil, errInvalidRetryIntervals
		}
		return &backoff.Config{
			Exponential: &backoff.ExponentialConfig{
				InitialInterval: time.Duration(r.InitialInterval) * time.Millisecond,
				MaxInterval:     time.Duration(r.MaxInterval) * time.Millisecond,
				MaxRetries:      r.MaxRetries,
			},
		}, nil
	}
	return &backoff.Config{
		Constant: &backoff.ConstantConfig{
			Interval:   time.Duration(r.Interval) * time.Millisecond,
			MaxRetries: r.MaxRetries,
		},
	}, nil
}

func (c *InstrumentationConfig) toOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}
	if c.Metrics != nil {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           c.Metrics.Endpoint,
			CollectionInterval: time.Duration(c.Metrics.CollectionInterval) * time.Second,
		}
	}
	if c.Traces != nil {
		if c.Traces.SampleRatio < 0 || c.Traces.SampleRatio > 1 {
			return nil, errInvalidSampleRatio
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    c.Traces.Endpoint,
			SampleRatio: c.Traces.SampleRatio,
		}
	}
	return cfg, nil
}
