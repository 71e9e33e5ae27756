package logging_test

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/fivetwenty-io/gapi-client/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)

	logger := logging.NewLogrusLogger(base.WithField("component", "http"))

	logger.Debug("HTTP Request", map[string]interface{}{"method": "POST"})
	logger.Info("info", nil)
	logger.Warn("warn", nil)
	logger.Error("error", map[string]interface{}{"status_code": 500})

	entries := hook.AllEntries()
	require.Len(t, entries, 4)

	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, "HTTP Request", entries[0].Message)
	assert.Equal(t, "POST", entries[0].Data["method"])
	assert.Equal(t, "http", entries[0].Data["component"])

	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, logrus.WarnLevel, entries[2].Level)
	assert.Equal(t, logrus.ErrorLevel, entries[3].Level)
	assert.Equal(t, 500, entries[3].Data["status_code"])
}

func TestSetup(t *testing.T) {
	t.Parallel()

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		entry, err := logging.Setup(&buf, "debug", "json", logrus.Fields{"app": "gapi"})
		require.NoError(t, err)

		entry.Debug("hello")

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, "gapi", line["app"])
		assert.Equal(t, "debug", line["level"])
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		entry, err := logging.Setup(&buf, "warn", "text", nil)
		require.NoError(t, err)

		entry.Info("hidden")
		assert.Empty(t, buf.String())

		entry.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := logging.Setup(io.Discard, "loud", "text", nil)
		require.Error(t, err)
	})
}
