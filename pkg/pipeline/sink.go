// SPDX-License-Identifier: Apache-2.0

package pipeline

import "context"

// Sink opens a writer for the output artifact of a table.
type Sink interface {
	Open(ctx context.Context, table string, columns []string) (TableWriter, error)
}

// TableWriter appends rows to a table artifact. Nothing is visible until
// Commit succeeds, and Abort discards the rows written so far, leaving any
// previously committed artifact in place.
type TableWriter interface {
	Write(row []string) error
	Commit(ctx context.Context) error
	Abort() error
}

// NullWriter is optionally implemented by table writers that keep NULL
// fields apart from empty strings.
type NullWriter interface {
	WriteWithNulls(row []string, nulls []bool) error
}
