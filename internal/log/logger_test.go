package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kidkender/dating-ai-engine/internal/config"
)

func TestJSONFormatEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	logger.Info("pool import finished", "imported", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pool import finished", entry["msg"])
	assert.Equal(t, float64(3), entry["imported"])
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestWithContextAddsRequestScope(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	ctx := WithRequestID(context.Background(), "req-42")
	ctx = WithUserID(ctx, "user-7")
	logger.InfoContext(ctx, "recorded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "user-7", entry["user_id"])
}

func TestTerminalHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatPretty, "INFO")

	logger.Info("choice batch recorded", "phase", "PHASE_1", "batch_size", 20)

	// colour codes sit between the attr key and its value, so key and
	// value are asserted separately
	out := buf.String()
	assert.Contains(t, out, "choice batch recorded")
	assert.Contains(t, out, "phase=")
	assert.Contains(t, out, "PHASE_1")
	assert.Contains(t, out, "batch_size=")
	assert.Contains(t, out, "20")
	assert.True(t, strings.Contains(out, "INF"), "level tag missing: %q", out)
}

func TestTerminalHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatPretty, "INFO")

	logger.Info("request error", "error", "no usable embedding for image")

	out := buf.String()
	assert.Contains(t, out, "error=")
	assert.Contains(t, out, `"no usable embedding for image"`)
}
