// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"errors"
	"io"
)

// Extractor exports the rows of a source table as CSV with a header row.
type Extractor interface {
	Columns(ctx context.Context, table string) ([]string, error)
	Count(ctx context.Context, table string) (int64, error)
	// Extract writes the header and all the rows of the table to w, and
	// returns the number of rows written.
	Extract(ctx context.Context, table string, columns []string, w io.Writer) (int64, error)
	Close() error
}

var ErrTableNotFound = errors.New("table not found in source")
