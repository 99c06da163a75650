package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/yield-engine/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := logger.ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetup_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := logger.Setup(logger.Config{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, logger.IsReady())
	logger.L().Debug("hidden")
	logger.L().Info("simulation.done", "days", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "simulation.done", line["msg"])
	assert.Equal(t, float64(3), line["days"])
}

func TestSetup_FileAndCleanup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yield.log")
	cleanup, err := logger.Setup(logger.Config{Level: "debug", Format: "text", Path: path})
	require.NoError(t, err)

	logger.L().Info("hello")
	require.NoError(t, cleanup())
	assert.Error(t, logger.IsReady())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
}

func TestSetup_Rejects(t *testing.T) {
	_, err := logger.Setup(logger.Config{Level: "loud"})
	assert.Error(t, err)

	_, err = logger.Setup(logger.Config{Format: "xml"})
	assert.Error(t, err)
	assert.Error(t, logger.IsReady())
}
