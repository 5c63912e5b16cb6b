// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/xataio/pgshift/pkg/transformers"
)

// ColumnTransformers maps a column name to the transformer that produces its
// output value. Columns without an entry are passed through unchanged.
type ColumnTransformers map[string]transformers.Transformer

var (
	ErrConfiguration = errors.New("invalid transformation configuration")
	ErrDataIntegrity = errors.New("row does not match table columns")
)

// Plan is a set of column transformers aligned to the positions of a table's
// columns. It is built once per table and applied to every row.
type Plan struct {
	columns      []string
	positions    transformers.ColumnPositions
	transformers []transformers.Transformer
}

// NewPlan validates the column transformers against the table columns. A
// transformation for an unknown column, or a transformer reading a column
// that is not part of the table, is a configuration error.
func NewPlan(columns []string, columnTransformers ColumnTransformers) (*Plan, error) {
	positions := transformers.NewColumnPositions(columns)

	var errs []error
	for name, t := range columnTransformers {
		if t == nil {
			continue
		}
		if _, found := positions[name]; !found {
			errs = append(errs, fmt.Errorf("%w: transformation for unknown column %q", ErrConfiguration, name))
			continue
		}
		referencer, ok := t.(transformers.ColumnReferencer)
		if !ok {
			continue
		}
		for _, ref := range referencer.ReferencedColumns() {
			if _, found := positions[ref]; !found {
				errs = append(errs, fmt.Errorf("%w: column %q references unknown column %q", ErrConfiguration, name, ref))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	aligned := make([]transformers.Transformer, len(columns))
	for i, c := range columns {
		aligned[i] = columnTransformers[c]
	}

	return &Plan{
		columns:      columns,
		positions:    positions,
		transformers: aligned,
	}, nil
}

func (p *Plan) Columns() []string {
	return p.columns
}

// Apply produces the output row for the row at the given zero based index.
// The input row is never modified, so transformers reading other columns
// always see their raw values.
func (p *Plan) Apply(ctx context.Context, index int, row []string) ([]string, error) {
	if len(row) != len(p.columns) {
		return nil, fmt.Errorf("%w: row has %d fields, expected %d", ErrDataIntegrity, len(row), len(p.columns))
	}

	out := make([]string, len(row))
	for i, raw := range row {
		t := p.transformers[i]
		if t == nil {
			out[i] = raw
			continue
		}

		value := transformers.NewValue(index, raw, row, p.columns, p.positions)
		newValue, err := t.Transform(ctx, value)
		if err != nil {
			if errors.Is(err, transformers.ErrColumnNotFound) {
				return nil, fmt.Errorf("%w: column %q: %w", ErrDataIntegrity, p.columns[i], err)
			}
			return nil, fmt.Errorf("transforming column %q: %w", p.columns[i], err)
		}
		out[i] = newValue
	}

	return out, nil
}

// Nulls returns the NULL fields of an output row. Passed through columns keep
// the NULL flag of their input field, transformed columns are NULL when the
// transformer produced an empty string.
func (p *Plan) Nulls(inputNulls []bool, out []string) []bool {
	nulls := make([]bool, len(out))
	for i, value := range out {
		if i < len(p.transformers) && p.transformers[i] == nil && i < len(inputNulls) {
			nulls[i] = inputNulls[i]
			continue
		}
		nulls[i] = value == ""
	}
	return nulls
}

// Apply transforms a single row. Callers processing many rows of the same
// table should build a Plan once and reuse it.
func Apply(ctx context.Context, index int, columnTransformers ColumnTransformers, row, columns []string) ([]string, error) {
	plan, err := NewPlan(columns, columnTransformers)
	if err != nil {
		return nil, err
	}
	return plan.Apply(ctx, index, row)
}
