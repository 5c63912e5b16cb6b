// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"

	"github.com/xataio/pgshift/pkg/transformers"
)

// Table declares how the rows of a destination table are produced.
type Table struct {
	Name            string
	Columns         []string
	Transformations []Transformation
	// Generate is the number of rows to synthesize for the table.
	Generate int
	// Query derives the table rows from already loaded tables.
	Query string
}

type Transformation struct {
	Column      string
	Transformer transformers.Config
}

type Mode string

const (
	ModeExtract  Mode = "extract"
	ModeGenerate Mode = "generate"
	ModeDerive   Mode = "derive"
)

// Mode returns the way rows are produced for the table. Generation and
// derivation are mutually exclusive.
func (t *Table) Mode() (Mode, error) {
	switch {
	case t.Generate < 0:
		return "", fmt.Errorf("table %s: generate must be a positive number of rows: %w", t.Name, ErrInvalidTableMode)
	case t.Generate > 0 && t.Query != "":
		return "", fmt.Errorf("table %s: generate and query cannot be set together: %w", t.Name, ErrInvalidTableMode)
	case t.Generate > 0:
		return ModeGenerate, nil
	case t.Query != "":
		return ModeDerive, nil
	default:
		return ModeExtract, nil
	}
}

// generatedColumns returns the declared columns of a generated table, or the
// columns of its transformations, in the order of the transformations, when
// none are declared.
func (t *Table) generatedColumns() []string {
	if len(t.Columns) > 0 {
		return t.Columns
	}
	columns := make([]string, 0, len(t.Transformations))
	for _, tr := range t.Transformations {
		columns = append(columns, tr.Column)
	}
	return columns
}
