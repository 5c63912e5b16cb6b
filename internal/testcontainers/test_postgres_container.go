// SPDX-License-Identifier: Apache-2.0

package testcontainers

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresImage string

const (
	Postgres14 PostgresImage = "postgres:14-alpine"
	Postgres17 PostgresImage = "postgres:17-alpine"
)

// PostgresContainer is a disposable database for integration tests.
type PostgresContainer struct {
	URL string
	ctr *postgres.PostgresContainer
}

type PostgresOption func(*postgresOptions)

type postgresOptions struct {
	database    string
	initScripts []string
	configFile  string
}

// WithDatabase sets the name of the database created on startup.
func WithDatabase(name string) PostgresOption {
	return func(o *postgresOptions) {
		o.database = name
	}
}

// WithInitScripts runs the sql files in order once the database is created.
func WithInitScripts(scripts ...string) PostgresOption {
	return func(o *postgresOptions) {
		o.initScripts = append(o.initScripts, scripts...)
	}
}

func WithConfigFile(file string) PostgresOption {
	return func(o *postgresOptions) {
		o.configFile = file
	}
}

func StartPostgresContainer(ctx context.Context, image PostgresImage, opts ...PostgresOption) (*PostgresContainer, error) {
	options := &postgresOptions{database: "pgshift"}
	for _, opt := range opts {
		opt(options)
	}

	// the server restarts once after running the init scripts
	waitForLogs := wait.
		ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(30 * time.Second)

	customizers := []testcontainers.ContainerCustomizer{
		testcontainers.WithWaitStrategy(waitForLogs),
		postgres.WithDatabase(options.database),
	}
	if len(options.initScripts) > 0 {
		customizers = append(customizers, postgres.WithInitScripts(options.initScripts...))
	}
	if options.configFile != "" {
		customizers = append(customizers, postgres.WithConfigFile(options.configFile))
	}

	ctr, err := postgres.Run(ctx, string(image), customizers...)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("retrieving connection string for postgres container: %w", err)
	}

	return &PostgresContainer{URL: url, ctr: ctr}, nil
}

func (c *PostgresContainer) Terminate(ctx context.Context) error {
	return c.ctr.Terminate(ctx)
}
