// SPDX-License-Identifier: Apache-2.0

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f1   Fields
		f2   Fields
		want Fields
	}{
		{
			name: "both nil",
			want: Fields{},
		},
		{
			name: "second overrides first",
			f1:   Fields{"a": 1, "b": 2},
			f2:   Fields{"b": 3},
			want: Fields{"a": 1, "b": 3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, MergeFields(tc.f1, tc.f2))
		})
	}
}

func TestTableFields(t *testing.T) {
	t.Parallel()

	require.Equal(t, Fields{TableField: "users"}, TableFields("users"))
	require.Equal(t, Fields{TableField: "users", RowsField: 3, "extra": true},
		TableFields("users", Fields{RowsField: 3}, Fields{"extra": true}))
}

func TestNewModuleLogger(t *testing.T) {
	t.Parallel()

	require.IsType(t, &NoopLogger{}, NewModuleLogger(nil, "loader"))
}
