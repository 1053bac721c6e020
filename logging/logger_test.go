package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(buf *bytes.Buffer) map[string]any {
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		return nil
	}
	return entry
}

func TestSessionLoggerContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSessionLogger(&LoggerConfig{Level: LogLevelDebug, Output: &buf, Component: "orchestrator"}).
		WithSession("s1").
		WithAgent("a1")

	logger.Info("unit started", "stage", "started", "attempt", 1)

	entry := lastLine(&buf)
	require.NotNil(t, entry)
	assert.Equal(t, "unit started", entry["msg"])
	assert.Equal(t, "orchestrator", entry["component"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "a1", entry["agent_id"])
	assert.Equal(t, "started", entry["stage"])
	assert.Equal(t, float64(1), entry["attempt"])
}

func TestSessionLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSessionLogger(&LoggerConfig{Level: LogLevelWarn, Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("visible")
	assert.NotZero(t, buf.Len())
}

func TestLogGenerationCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSessionLogger(&LoggerConfig{Level: LogLevelInfo, Output: &buf}).WithSession("s1")

	logger.LogGenerationCall("a1", 128, 250*time.Millisecond, nil)
	entry := lastLine(&buf)
	require.NotNil(t, entry)
	assert.Equal(t, "Generation call completed", entry["msg"])
	assert.Equal(t, true, entry["success"])
	assert.Equal(t, float64(128), entry["token_count"])

	logger.LogGenerationCall("a2", 0, time.Second, errors.New("backend down"))
	entry = lastLine(&buf)
	require.NotNil(t, entry)
	assert.Equal(t, "Generation call failed", entry["msg"])
	assert.Equal(t, "backend down", entry["error"])
}

func TestLogSessionRun(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSessionLogger(&LoggerConfig{Level: LogLevelInfo, Output: &buf})

	logger.LogSessionRun("s1", 5, 1, 2*time.Second)

	entry := lastLine(&buf)
	require.NotNil(t, entry)
	assert.Equal(t, "Session run completed", entry["msg"])
	assert.Equal(t, float64(5), entry["completed"])
	assert.Equal(t, float64(1), entry["failed"])
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NoOpLogger{}
	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Warn("ignored")
	logger.Error("ignored")
}
