package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"Error", LevelError},
		{"dEbUg", LevelDebug},
		{" warn ", LevelWarn},

		{"", LevelInfo},
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("Debug"))
	assert.True(t, ValidLevel("warning"))
	assert.False(t, ValidLevel(""))
	assert.False(t, ValidLevel("trace"))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestNew_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	log.Debug("hidden")
	log.Info("capture processed", "count", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "capture processed", rec["msg"])
	assert.Equal(t, float64(3), rec["count"])
}

func TestNew_TextConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelDebug, Output: &buf})
	log.Debug("entry deleted", "index", 1)
	assert.Contains(t, buf.String(), "msg=\"entry deleted\"")
	assert.Contains(t, buf.String(), "index=1")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harview.log")
	var console bytes.Buffer

	log := New(Config{Level: LevelInfo, Output: &console, File: path})
	log.With("session", "abc").Info("capture processed", "total", 10)

	assert.Contains(t, console.String(), "capture processed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "abc", rec["session"])
	assert.Equal(t, float64(10), rec["total"])
}

func TestOpen_ClosesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harview.log")

	log, closer := Open(Config{Level: LevelInfo, Output: io.Discard, File: path})
	log.Info("capture processed")
	require.NoError(t, closer.Close())
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"capture processed"`)

	_, closer = Open(Config{Output: io.Discard})
	assert.NoError(t, closer.Close())
}

func TestNop(t *testing.T) {
	log := Nop()
	require.NotNil(t, log)
	log.Error("discarded")
}
