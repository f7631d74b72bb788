package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	l, err := New(Config{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("track loaded", zap.Int64("track_id", 7))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "track loaded", entry["msg"])
	assert.InDelta(t, 7, entry["track_id"], 0)
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	l, err := New(Config{Level: "loud", File: path})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
}

func TestInit_ReplacesGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	l, restore, err := Init(Config{Level: "debug", File: path})
	require.NoError(t, err)
	assert.Same(t, l, zap.L())

	restore()
	assert.NotSame(t, l, zap.L())
}
