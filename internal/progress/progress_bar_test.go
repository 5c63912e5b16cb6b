// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowsBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		add   int
	}{
		{name: "known total", total: 3, add: 3},
		{name: "fewer rows than expected", total: 10, add: 2},
		{name: "unknown total", total: -1, add: 5},
		{name: "zero total", total: 0, add: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			bar := newRowsBar(buf, tc.total, "users")
			for range tc.add {
				require.NoError(t, bar.Add(1))
			}
			require.NoError(t, bar.Close())
			require.Contains(t, buf.String(), "users")
		})
	}
}
