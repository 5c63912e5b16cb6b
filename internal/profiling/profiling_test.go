// SPDX-License-Identifier: Apache-2.0

package profiling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CPU profiling is process wide, so this test doesn't run in parallel.
func TestProfiler(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")

	p, err := Start(Config{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, p.Stop())

	for _, name := range []string{cpuProfileFile, memProfileFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
}
