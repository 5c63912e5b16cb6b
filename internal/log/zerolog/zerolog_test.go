// SPDX-License-Identifier: Apache-2.0

package zerolog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	loglib "github.com/xataio/pgshift/pkg/log"
)

func TestNewLogger_json(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := NewStdLogger(NewLogger(&Config{LogLevel: "info", Format: JSONFormat, Out: buf}))

	logger.Debug("hidden")
	logger.Error(errors.New("oh noes"), "loading table", loglib.TableFields("users"))

	line := buf.String()
	require.Equal(t, "error", gjson.Get(line, "level").String())
	require.Equal(t, "users", gjson.Get(line, loglib.TableField).String())
	// the error field name contains a dot
	require.Equal(t, "oh noes", gjson.Get(line, `error\.message`).String())
	require.True(t, gjson.Get(line, "timestamp").Exists())
	require.True(t, gjson.Get(line, "caller").Exists())
}

func TestNewLogger_console(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := NewStdLogger(NewLogger(&Config{LogLevel: "debug", Out: buf}))

	logger.Debug("collecting table", loglib.TableFields("users"))
	require.Contains(t, buf.String(), "collecting table")
	require.Contains(t, buf.String(), "table=users")
	require.False(t, gjson.Valid(buf.String()))
}
