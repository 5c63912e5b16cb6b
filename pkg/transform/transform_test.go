// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/pgshift/pkg/transformers"
	"github.com/xataio/pgshift/pkg/transformers/mocks"
	"pgregory.net/rapid"
)

var (
	testColumns = []string{"identifier", "first", "last"}
	testRow     = []string{"1184643769", "Martin", "Moore"}
	errTest     = errors.New("oh noes")
)

func newTestTransformer(t *testing.T, name transformers.TransformerType, params transformers.ParameterValues) transformers.Transformer {
	t.Helper()

	var (
		tr  transformers.Transformer
		err error
	)
	switch name {
	case transformers.Reverse:
		tr, err = transformers.NewReverseTransformer(params)
	case transformers.From:
		tr, err = transformers.NewFromTransformer(params)
	case transformers.Null:
		tr, err = transformers.NewNullTransformer(params)
	case transformers.Sequence:
		tr, err = transformers.NewSequenceTransformer(params)
	default:
		t.Fatalf("unexpected transformer %s", name)
	}
	require.NoError(t, err)
	return tr
}

func TestNewPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		columnTransformers func(t *testing.T) ColumnTransformers

		wantErr error
	}{
		{
			name: "ok - no transformers",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return nil
			},
			wantErr: nil,
		},
		{
			name: "ok - from known column",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"identifier": newTestTransformer(t, transformers.From, transformers.ParameterValues{"column": "first"}),
				}
			},
			wantErr: nil,
		},
		{
			name: "error - transformation for unknown column",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"middle": newTestTransformer(t, transformers.Reverse, nil),
				}
			},
			wantErr: ErrConfiguration,
		},
		{
			name: "error - from unknown column",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"identifier": newTestTransformer(t, transformers.From, transformers.ParameterValues{"column": "middle"}),
				}
			},
			wantErr: ErrConfiguration,
		},
		{
			name: "error - transformer references unknown column",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"first": &mocks.Transformer{
						ReferencedColumnsFn: func() []string { return []string{"last", "email"} },
					},
				}
			},
			wantErr: ErrConfiguration,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan, err := NewPlan(testColumns, tc.columnTransformers(t))
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				require.Nil(t, plan)
				return
			}
			require.Equal(t, testColumns, plan.Columns())
		})
	}
}

func TestPlan_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		columnTransformers func(t *testing.T) ColumnTransformers
		index              int
		row                []string

		wantRow []string
		wantErr error
	}{
		{
			name: "ok - reverse identifier",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"identifier": newTestTransformer(t, transformers.Reverse, nil),
				}
			},
			row:     testRow,
			wantRow: []string{"9673464811", "Martin", "Moore"},
		},
		{
			name: "ok - from other column",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"identifier": newTestTransformer(t, transformers.From, transformers.ParameterValues{"column": "first"}),
				}
			},
			row:     testRow,
			wantRow: []string{"Martin", "Martin", "Moore"},
		},
		{
			name: "ok - from reads the raw value of a transformed column",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"identifier": newTestTransformer(t, transformers.From, transformers.ParameterValues{"column": "first"}),
					"first":      newTestTransformer(t, transformers.Reverse, nil),
					"last":       newTestTransformer(t, transformers.From, transformers.ParameterValues{"column": "identifier"}),
				}
			},
			row:     testRow,
			wantRow: []string{"Martin", "nitraM", "1184643769"},
		},
		{
			name: "ok - all null",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"identifier": newTestTransformer(t, transformers.Null, nil),
					"first":      newTestTransformer(t, transformers.Null, nil),
					"last":       newTestTransformer(t, transformers.Null, nil),
				}
			},
			row:     testRow,
			wantRow: []string{"", "", ""},
		},
		{
			name: "ok - sequence uses the row index",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"identifier": newTestTransformer(t, transformers.Sequence, nil),
				}
			},
			index:   41,
			row:     testRow,
			wantRow: []string{"42", "Martin", "Moore"},
		},
		{
			name: "error - row shorter than columns",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return nil
			},
			row:     []string{"1184643769", "Martin"},
			wantErr: ErrDataIntegrity,
		},
		{
			name: "error - row longer than columns",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return nil
			},
			row:     []string{"1184643769", "Martin", "Moore", "extra"},
			wantErr: ErrDataIntegrity,
		},
		{
			name: "error - transformer failure",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"last": &mocks.Transformer{
						TransformFn: func(transformers.Value) (string, error) { return "", errTest },
					},
				}
			},
			row:     testRow,
			wantErr: errTest,
		},
		{
			name: "error - column lookup failure",
			columnTransformers: func(t *testing.T) ColumnTransformers {
				return ColumnTransformers{
					"last": &mocks.Transformer{
						TransformFn: func(v transformers.Value) (string, error) { return v.GetColumnValue("middle") },
					},
				}
			},
			row:     testRow,
			wantErr: ErrDataIntegrity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan, err := NewPlan(testColumns, tc.columnTransformers(t))
			require.NoError(t, err)

			row := append([]string(nil), tc.row...)
			got, err := plan.Apply(context.Background(), tc.index, row)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.row, row)
			if tc.wantErr != nil {
				return
			}
			require.Equal(t, tc.wantRow, got)
		})
	}
}

func TestPlan_Apply_TransformerContext(t *testing.T) {
	t.Parallel()

	var got transformers.Value
	plan, err := NewPlan(testColumns, ColumnTransformers{
		"first": &mocks.Transformer{
			TransformFn: func(v transformers.Value) (string, error) {
				got = v
				return "x", nil
			},
		},
	})
	require.NoError(t, err)

	_, err = plan.Apply(context.Background(), 7, testRow)
	require.NoError(t, err)

	require.Equal(t, 7, got.GetIndex())
	require.Equal(t, "Martin", got.GetValue())
	require.Equal(t, testRow, got.Row)
	require.Equal(t, testColumns, got.Columns)
	last, err := got.GetColumnValue("last")
	require.NoError(t, err)
	require.Equal(t, "Moore", last)
}

func TestPlan_Nulls(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan(testColumns, ColumnTransformers{
		"identifier": newTestTransformer(t, transformers.Reverse, nil),
		"first":      newTestTransformer(t, transformers.Null, nil),
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		inputNulls []bool
		out        []string
		want       []bool
	}{
		{
			name:       "passed through column keeps its input flag",
			inputNulls: []bool{false, false, true},
			out:        []string{"9673464811", "", ""},
			want:       []bool{false, true, true},
		},
		{
			name:       "passed through empty string is not null",
			inputNulls: []bool{false, false, false},
			out:        []string{"9673464811", "", ""},
			want:       []bool{false, true, false},
		},
		{
			name:       "transformed empty value is null",
			inputNulls: []bool{false, false, false},
			out:        []string{"", "", "Moore"},
			want:       []bool{true, true, false},
		},
		{
			name:       "unknown input flags",
			inputNulls: nil,
			out:        []string{"9673464811", "", ""},
			want:       []bool{false, true, true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, plan.Nulls(tc.inputNulls, tc.out))
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	reverse, err := transformers.NewReverseTransformer(nil)
	require.NoError(t, err)

	got, err := Apply(context.Background(), 0, ColumnTransformers{"identifier": reverse}, testRow, testColumns)
	require.NoError(t, err)
	require.Equal(t, []string{"9673464811", "Martin", "Moore"}, got)

	_, err = Apply(context.Background(), 0, ColumnTransformers{"unknown": reverse}, testRow, testColumns)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestPlan_Apply_Identity(t *testing.T) {
	null, err := transformers.NewNullTransformer(nil)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 10).Draw(t, "width")
		columns := make([]string, width)
		for i := range columns {
			columns[i] = "c" + string(rune('a'+i))
		}
		row := rapid.SliceOfN(rapid.String(), width, width).Draw(t, "row")
		transformed := rapid.SampledFrom(columns).Draw(t, "transformed")

		plan, err := NewPlan(columns, ColumnTransformers{transformed: null})
		require.NoError(t, err)

		got, err := plan.Apply(context.Background(), rapid.IntRange(0, 1000).Draw(t, "index"), row)
		require.NoError(t, err)
		require.Len(t, got, width)
		for i, c := range columns {
			if c == transformed {
				require.Empty(t, got[i])
				continue
			}
			require.Equal(t, row[i], got[i])
		}
	})
}
