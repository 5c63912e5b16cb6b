// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Store is the object storage holding the extracted (in/) and transformed
// (out/) table artifacts. Keys use '/' as separator.
type Store interface {
	// List returns the keys starting with the prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Put replaces the object atomically, readers never see a partial object.
	Put(ctx context.Context, key string, r io.Reader) error
}

var ErrNotFound = errors.New("object not found")

const (
	inputPrefix  = "in/"
	outputPrefix = "out/"
)

// InputPrefix is the prefix of the extracted artifacts of a table.
func InputPrefix(table string) string {
	return inputPrefix + table + "_"
}

// InputKey is the key of the extracted artifact part of a table.
func InputKey(table string, part int) string {
	return fmt.Sprintf("%s%03d.csv", InputPrefix(table), part)
}

// OutputKey is the key of the transformed artifact of a table.
func OutputKey(table string) string {
	return outputPrefix + table + ".csv"
}
