// SPDX-License-Identifier: Apache-2.0

package transformers

import "fmt"

// Value is the context a transformer sees when producing a single column
// value. Row and Columns are aligned by position.
type Value struct {
	// TransformValue is the raw value of the column being transformed.
	TransformValue string
	// Index is the zero based ordinal of the row within its table.
	Index     int
	Row       []string
	Columns   []string
	Positions ColumnPositions
}

// ColumnPositions maps a column name to its position in the row. When a name
// is repeated, the first position wins.
type ColumnPositions map[string]int

func NewColumnPositions(columns []string) ColumnPositions {
	positions := make(ColumnPositions, len(columns))
	for i, c := range columns {
		if _, found := positions[c]; !found {
			positions[c] = i
		}
	}
	return positions
}

func NewValue(index int, value string, row, columns []string, positions ColumnPositions) Value {
	return Value{
		TransformValue: value,
		Index:          index,
		Row:            row,
		Columns:        columns,
		Positions:      positions,
	}
}

// ColumnValue returns the raw value of the named column in the row.
func (v Value) ColumnValue(name string) (string, bool) {
	pos := -1
	if v.Positions != nil {
		if p, found := v.Positions[name]; found {
			pos = p
		}
	} else {
		for i, c := range v.Columns {
			if c == name {
				pos = i
				break
			}
		}
	}
	if pos < 0 || pos >= len(v.Row) {
		return "", false
	}
	return v.Row[pos], true
}

// GetValue and GetColumnValue are exposed for templates.
func (v Value) GetValue() string {
	return v.TransformValue
}

func (v Value) GetColumnValue(name string) (string, error) {
	val, found := v.ColumnValue(name)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return val, nil
}

func (v Value) GetIndex() int {
	return v.Index
}
