// SPDX-License-Identifier: Apache-2.0

package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/xataio/pgshift/internal/testcontainers"
)

const integrationTestsEnv = "PGSHIFT_INTEGRATION_TESTS"

var (
	sourcePGURL string
	targetPGURL string
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	// if integration tests are not enabled, nothing to setup
	if os.Getenv(integrationTestsEnv) == "" {
		return m.Run()
	}

	ctx := context.Background()
	source, err := testcontainers.StartPostgresContainer(ctx, testcontainers.Postgres14,
		testcontainers.WithDatabase("source"))
	if err != nil {
		log.Fatal(err)
	}
	defer source.Terminate(ctx) //nolint:errcheck
	sourcePGURL = source.URL

	target, err := testcontainers.StartPostgresContainer(ctx, testcontainers.Postgres17,
		testcontainers.WithDatabase("target"))
	if err != nil {
		log.Fatal(err)
	}
	defer target.Terminate(ctx) //nolint:errcheck
	targetPGURL = target.URL

	return m.Run()
}
