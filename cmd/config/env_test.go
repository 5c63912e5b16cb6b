// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceEnvVars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		env  map[string]string
		want string
	}{
		{
			name: "longer names first",
			text: "env=$TEST_ENV_VAR_1,database=$TEST_ENV_VAR",
			env:  map[string]string{"TEST_ENV_VAR": "small", "TEST_ENV_VAR_1": "large"},
			want: "env=large,database=small",
		},
		{
			name: "braces",
			text: "url: ${DB_HOST}:5432/${DB}_test",
			env:  map[string]string{"DB_HOST": "localhost", "DB": "app"},
			want: "url: localhost:5432/app_test",
		},
		{
			name: "missing variables are kept",
			text: "password: $MISSING ${ALSO_MISSING}",
			env:  map[string]string{"OTHER": "x"},
			want: "password: $MISSING ${ALSO_MISSING}",
		},
		{
			name: "values are not substituted again",
			text: "$A",
			env:  map[string]string{"A": "$B", "B": "b"},
			want: "$B",
		},
		{
			name: "empty env",
			text: "$A",
			env:  nil,
			want: "$A",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, ReplaceEnvVars(tc.text, tc.env))
		})
	}
}

func TestEnvironMap(t *testing.T) {
	t.Parallel()

	got := EnvironMap([]string{"A=1", "B=x=y", "C=", "invalid"})
	require.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, got)
}
