// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	loglib "github.com/xataio/pgshift/pkg/log"
	"github.com/xataio/pgshift/pkg/pipeline"
	"github.com/xataio/pgshift/pkg/store"
	"github.com/xataio/pgshift/pkg/store/local"
	"github.com/xataio/pgshift/pkg/transform"
	"github.com/xataio/pgshift/pkg/transformers"
)

func transformation(column string, name transformers.TransformerType, params transformers.ParameterValues) pipeline.Transformation {
	return pipeline.Transformation{
		Column:      column,
		Transformer: transformers.Config{Name: name, Parameters: params},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tables []pipeline.Table

		wantErr error
	}{
		{
			name: "ok",
			tables: []pipeline.Table{
				{Name: "users", Transformations: []pipeline.Transformation{
					transformation("identifier", transformers.Reverse, nil),
					transformation("nickname", transformers.From, transformers.ParameterValues{"column": "first"}),
				}},
				{Name: "fake_users", Columns: []string{"id"}, Generate: 10, Transformations: []pipeline.Transformation{
					transformation("id", transformers.Sequence, nil),
				}},
				{Name: "copies", Query: "SELECT * FROM fake_users"},
			},
		},
		{
			name: "error - generated table without transformations",
			tables: []pipeline.Table{
				{Name: "fake_users", Generate: 100},
			},
			wantErr: pipeline.ErrNoTransformationPlan,
		},
		{
			name: "error - unknown transformer",
			tables: []pipeline.Table{
				{Name: "users", Transformations: []pipeline.Transformation{
					transformation("identifier", "scramble", nil),
				}},
			},
			wantErr: transformers.ErrUnsupportedTransformer,
		},
		{
			name: "error - reference to an undeclared column",
			tables: []pipeline.Table{
				{Name: "users", Columns: []string{"identifier"}, Transformations: []pipeline.Transformation{
					transformation("identifier", transformers.From, transformers.ParameterValues{"column": "first"}),
				}},
			},
			wantErr: transform.ErrConfiguration,
		},
		{
			name: "error - generate and query",
			tables: []pipeline.Table{
				{Name: "users", Generate: 1, Query: "SELECT 1"},
			},
			wantErr: pipeline.ErrInvalidTableMode,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.Source.Tables = tc.tables
			require.ErrorIs(t, ValidateConfig(context.Background(), cfg), tc.wantErr)
		})
	}
}

func TestRun_transformOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	objectStore, err := local.New(dir)
	require.NoError(t, err)

	put := func(key, data string) {
		require.NoError(t, objectStore.Put(ctx, key, strings.NewReader(data)))
	}
	get := func(key string) string {
		rc, err := objectStore.Get(ctx, key)
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}

	put("in/users_000.csv", "identifier,first,nickname\n1184643769,Martin,Marty\n")
	put("in/users_001.csv", "identifier,first,nickname\n42,Ana,\n")

	cfg := testConfig()
	cfg.Store.Local.Path = dir
	cfg.Source.ConnectionURL = ""
	cfg.Destination.PostgresURL = ""
	cfg.Source.Tables = []pipeline.Table{
		{Name: "users", Transformations: []pipeline.Transformation{
			transformation("identifier", transformers.Reverse, nil),
			transformation("nickname", transformers.From, transformers.ParameterValues{"column": "first"}),
		}},
		{Name: "fake_users", Columns: []string{"id", "kind"}, Generate: 3, Transformations: []pipeline.Transformation{
			transformation("id", transformers.Sequence, nil),
			transformation("kind", transformers.Static, transformers.ParameterValues{"value": "fake"}),
		}},
		{Name: "missing"},
	}

	err = Run(ctx, loglib.NewNoopLogger(), cfg, RunOptions{
		SkipCollect:     true,
		SkipLoad:        true,
		SkipPostProcess: true,
	}, nil)
	require.NoError(t, err)

	require.Equal(t, "identifier,first,nickname\n9673464811,Martin,Martin\n24,Ana,Ana\n", get(store.OutputKey("users")))
	require.Equal(t, "id,kind\n1,fake\n2,fake\n3,fake\n", get(store.OutputKey("fake_users")))

	_, err = objectStore.Get(ctx, store.OutputKey("missing"))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRun_invalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Source.Tables = nil

	err := Run(context.Background(), loglib.NewNoopLogger(), cfg, RunOptions{}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
