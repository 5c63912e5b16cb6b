// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/xataio/pgshift/pkg/otel"
	"github.com/xataio/pgshift/pkg/stream"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")

	errMissingConfigFile = errors.New("a configuration file is required, use --config")
	errUnsupportedFormat = errors.New("unsupported configuration file format, expected .yaml or .yml")
	loadedDocument       []byte
)

func Load() error {
	return LoadFile(viper.GetString("config"))
}

// LoadFile reads the configuration file, replacing environment variable
// references with their values at load time.
func LoadFile(file string) error {
	if file == "" {
		return nil
	}

	switch filepath.Ext(file) {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("%s: %w", file, errUnsupportedFormat)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	doc := []byte(ReplaceEnvVars(string(raw), EnvironMap(os.Environ())))
	return loadDocument(doc)
}

func loadDocument(doc []byte) error {
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	loadedDocument = doc
	return nil
}

// ParseStreamConfig returns the stream configuration of the loaded file.
// The document is decoded with yaml rather than viper, since viper lowercases
// keys and column names are case sensitive.
func ParseStreamConfig() (*stream.Config, error) {
	yamlCfg, err := parseYAMLConfig()
	if err != nil {
		return nil, err
	}
	return yamlCfg.toStreamConfig()
}

func ParseInstrumentationConfig() (*otel.Config, error) {
	if loadedDocument == nil {
		return &otel.Config{}, nil
	}
	yamlCfg, err := parseYAMLConfig()
	if err != nil {
		return nil, err
	}
	if yamlCfg.Instrumentation == nil {
		return &otel.Config{}, nil
	}
	return yamlCfg.Instrumentation.toOtelConfig()
}

func parseYAMLConfig() (*YAMLConfig, error) {
	if loadedDocument == nil {
		return nil, errMissingConfigFile
	}
	yamlCfg := &YAMLConfig{}
	if err := yaml.Unmarshal(loadedDocument, yamlCfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return yamlCfg, nil
}
