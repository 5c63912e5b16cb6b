// SPDX-License-Identifier: Apache-2.0

package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	t.Parallel()

	require.Equal(t, "in/users_", InputPrefix("users"))
	require.Equal(t, "in/users_000.csv", InputKey("users", 0))
	require.Equal(t, "in/users_012.csv", InputKey("users", 12))
	require.Equal(t, "out/users.csv", OutputKey("users"))
}
