// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned by sources when there is no data for a
	// table. The table is skipped.
	ErrSourceUnavailable    = errors.New("no source data available for table")
	ErrNoTransformationPlan = errors.New("generated table has no transformation plan")
	ErrInvalidTableMode     = errors.New("invalid table mode")
	ErrQuerySourceRequired  = errors.New("derived tables require a query source")
)

// TableError identifies the table, and the row when known, where processing
// failed.
type TableError struct {
	Table string
	// Row is the zero based index of the failing row, or -1 when the failure
	// is not related to a row.
	Row int
	Err error
}

func (e *TableError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("table %s: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("table %s: row %d: %v", e.Table, e.Row, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

func newTableError(table string, row int, err error) *TableError {
	return &TableError{Table: table, Row: row, Err: err}
}
