package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "pretty", slog.LevelInfo)

	log.Debug("hidden")
	log.With("file", "a.conllu").WithGroup("tokens").Info("converted", "foreign", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "converted")
	assert.Contains(t, out, "file"+reset+"=a.conllu")
	assert.Contains(t, out, "tokens.foreign"+reset+"=3")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "json", slog.LevelDebug)
	log.Warn("skipped", "file", "b.conllu")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "skipped", rec["msg"])
	assert.Equal(t, "b.conllu", rec["file"])
}
