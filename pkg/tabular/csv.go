// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader reads records in the CSV dialect of Postgres COPY. Field bytes are
// returned as they are, carriage returns inside quoted fields included, and
// an unquoted empty field is reported as NULL while a quoted one ("") is an
// empty string. Records of any width are accepted, so that misaligned rows
// reach the transformation engine and are reported with their table and row
// index.
type Reader struct {
	r       *bufio.Reader
	records int
	nulls   []bool
	field   strings.Builder
}

var (
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	ErrBareQuote         = errors.New("unexpected character after quoted field")
)

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read returns the next record, or io.EOF when there are no more records. An
// empty line is a record with a single NULL field.
func (r *Reader) Read() ([]string, error) {
	if _, err := r.r.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	r.records++

	var record []string
	var nulls []bool
	for {
		value, quoted, last, err := r.readField()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", r.records, err)
		}
		record = append(record, value)
		nulls = append(nulls, !quoted && value == "")
		if last {
			break
		}
	}
	r.nulls = nulls
	return record, nil
}

// Nulls reports the NULL fields of the last record read.
func (r *Reader) Nulls() []bool {
	return r.nulls
}

// readField reads one field and its delimiter. last is set when the field
// ends the record.
func (r *Reader) readField() (value string, quoted, last bool, err error) {
	r.field.Reset()

	c, err := r.r.ReadByte()
	if errors.Is(err, io.EOF) {
		return "", false, true, nil
	}
	if err != nil {
		return "", false, false, err
	}

	if c != '"' {
		for {
			switch c {
			case ',':
				return r.field.String(), false, false, nil
			case '\n':
				return strings.TrimSuffix(r.field.String(), "\r"), false, true, nil
			}
			r.field.WriteByte(c)

			if c, err = r.r.ReadByte(); err != nil {
				if errors.Is(err, io.EOF) {
					return strings.TrimSuffix(r.field.String(), "\r"), false, true, nil
				}
				return "", false, false, err
			}
		}
	}

	for {
		c, err := r.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", true, false, ErrUnterminatedQuote
			}
			return "", true, false, err
		}
		if c != '"' {
			r.field.WriteByte(c)
			continue
		}

		// closing quote or escaped quote
		next, err := r.r.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
			return r.field.String(), true, true, nil
		case err != nil:
			return "", true, false, err
		case next == '"':
			r.field.WriteByte('"')
		case next == ',':
			return r.field.String(), true, false, nil
		case next == '\n':
			return r.field.String(), true, true, nil
		case next == '\r':
			if after, err := r.r.ReadByte(); err == nil && after == '\n' {
				return r.field.String(), true, true, nil
			}
			return "", true, false, ErrBareQuote
		default:
			return "", true, false, ErrBareQuote
		}
	}
}

// Writer writes records in the CSV dialect of Postgres COPY, lines ending
// with \n.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a record where every empty field is NULL.
func (w *Writer) Write(record []string) error {
	return w.WriteWithNulls(record, nil)
}

// WriteWithNulls writes a record with the given NULL fields. Empty fields that
// are not NULL are quoted so that they load as empty strings. A nil nulls
// slice marks every empty field as NULL.
func (w *Writer) WriteWithNulls(record []string, nulls []bool) error {
	for i, field := range record {
		if i > 0 {
			if err := w.w.WriteByte(','); err != nil {
				return err
			}
		}

		isNull := field == ""
		if nulls != nil && i < len(nulls) {
			isNull = nulls[i] && field == ""
		}
		if isNull {
			continue
		}

		if !fieldNeedsQuotes(field) {
			if _, err := w.w.WriteString(field); err != nil {
				return err
			}
			continue
		}

		if err := w.w.WriteByte('"'); err != nil {
			return err
		}
		if _, err := w.w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
			return err
		}
		if err := w.w.WriteByte('"'); err != nil {
			return err
		}
	}
	return w.w.WriteByte('\n')
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

// \. alone on a line marks the end of data for COPY
func fieldNeedsQuotes(field string) bool {
	return field == "" || field == `\.` || strings.ContainsAny(field, ",\"\r\n")
}
