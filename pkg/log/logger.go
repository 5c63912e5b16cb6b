// SPDX-License-Identifier: Apache-2.0

package log

type Logger interface {
	Trace(msg string, fields ...Fields)
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(err error, msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type Fields map[string]any

// Field names shared by every stage of a run, so a table can be followed
// across collection, transformation and loading.
const (
	ModuleField = "module"
	RunIDField  = "run_id"
	TableField  = "table"
	RowsField   = "rows"
)

type NoopLogger struct{}

func (l *NoopLogger) Trace(msg string, fields ...Fields)            {}
func (l *NoopLogger) Debug(msg string, fields ...Fields)            {}
func (l *NoopLogger) Info(msg string, fields ...Fields)             {}
func (l *NoopLogger) Warn(err error, msg string, fields ...Fields)  {}
func (l *NoopLogger) Error(err error, msg string, fields ...Fields) {}
func (l *NoopLogger) WithFields(fields Fields) Logger {
	return l
}

func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// NewLogger will return the logger on input if not nil, or a noop logger
// otherwise.
func NewLogger(l Logger) Logger {
	if l == nil {
		return &NoopLogger{}
	}
	return l
}

// NewModuleLogger returns the logger on input, or a noop logger, tagged with
// the module name.
func NewModuleLogger(l Logger, module string) Logger {
	return NewLogger(l).WithFields(Fields{ModuleField: module})
}

// TableFields returns the fields identifying a table, merged with extra.
func TableFields(table string, extra ...Fields) Fields {
	fields := Fields{TableField: table}
	for _, e := range extra {
		fields = MergeFields(fields, e)
	}
	return fields
}

// MergeFields returns a new map with the fields of both maps. Keys in f2
// override the ones in f1.
func MergeFields(f1, f2 Fields) Fields {
	allFields := make(Fields, len(f1)+len(f2))
	for k, v := range f1 {
		allFields[k] = v
	}
	for k, v := range f2 {
		allFields[k] = v
	}
	return allFields
}
