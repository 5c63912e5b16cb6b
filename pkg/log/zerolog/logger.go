// SPDX-License-Identifier: Apache-2.0

package zerolog

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	loglib "github.com/xataio/pgshift/pkg/log"
)

type Logger struct {
	zerologger *zerolog.Logger
	fields     loglib.Fields
}

// values longer than this are truncated, since a single sampled CSV row or
// query can otherwise take over the output
const logMaxBytes = 10000

func NewLogger(zl *zerolog.Logger) *Logger {
	return &Logger{
		zerologger: zl,
	}
}

func (l *Logger) Trace(msg string, fields ...loglib.Fields) {
	l.withFields(l.zerologger.Trace(), fields).Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...loglib.Fields) {
	l.withFields(l.zerologger.Debug(), fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields ...loglib.Fields) {
	l.withFields(l.zerologger.Info(), fields).Msg(msg)
}

func (l *Logger) Warn(err error, msg string, fields ...loglib.Fields) {
	l.withFields(l.zerologger.Warn().Err(err), fields).Msg(msg)
}

func (l *Logger) Error(err error, msg string, fields ...loglib.Fields) {
	l.withFields(l.zerologger.Error().Err(err), fields).Msg(msg)
}

func (l *Logger) WithFields(fields loglib.Fields) loglib.Logger {
	return &Logger{
		zerologger: l.zerologger,
		fields:     loglib.MergeFields(l.fields, fields),
	}
}

// withFields adds the logger fields first, so call fields with the same key
// are the ones kept by JSON readers that keep the last duplicate.
func (l *Logger) withFields(event *zerolog.Event, fieldMaps []loglib.Fields) *zerolog.Event {
	if event == nil {
		// level disabled
		return event
	}
	event = addFields(event, l.fields)
	for _, m := range fieldMaps {
		event = addFields(event, m)
	}
	return event
}

func addFields(event *zerolog.Event, fields loglib.Fields) *zerolog.Event {
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			event = event.Str(key, truncate(v))
		case int:
			event = event.Int(key, v)
		case int32:
			event = event.Int32(key, v)
		case int64:
			event = event.Int64(key, v)
		case uint64:
			event = event.Uint64(key, v)
		case float64:
			event = event.Float64(key, v)
		case bool:
			event = event.Bool(key, v)
		case []byte:
			event = event.Bytes(key, []byte(truncate(string(v))))
		case time.Time:
			event = event.Time(key, v)
		case time.Duration:
			event = event.Dur(key, v)
		case []string:
			event = event.Strs(key, v)
		case error:
			event = event.AnErr(key, v)
		case fmt.Stringer:
			event = event.Stringer(key, v)
		default:
			event = event.Any(key, v)
		}
	}
	return event
}

func truncate(s string) string {
	if len(s) > logMaxBytes {
		return s[:logMaxBytes]
	}
	return s
}
