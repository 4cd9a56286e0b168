package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		assert.NilError(t, err)
		assert.Equal(t, got, tt.want)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(&buf, Options{Level: "warn"})
	assert.NilError(t, err)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("shown", "hdu", 2)

	out := buf.String()
	assert.Assert(t, !strings.Contains(out, "hidden"))
	assert.Assert(t, is.Contains(out, "msg=shown"))
	assert.Assert(t, is.Contains(out, "hdu=2"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(&buf, Options{Level: "debug", Format: "json"})
	assert.NilError(t, err)
	defer cleanup()

	logger.Debug("processing HDU", "index", 1)

	var rec map[string]any
	assert.NilError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, rec["msg"], "processing HDU")
	assert.Equal(t, rec["index"], float64(1))
}

func TestNewInvalid(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, Options{Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format")

	_, _, err = New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.ErrorContains(t, err, "unknown log level")
}

func TestMultiHandler(t *testing.T) {
	var debug, warn bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	assert.Assert(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h).With("file", "cube.fits")
	logger.Info("loaded")
	logger.Error("failed")

	assert.Assert(t, is.Contains(debug.String(), "msg=loaded"))
	assert.Assert(t, is.Contains(debug.String(), "file=cube.fits"))
	assert.Assert(t, !strings.Contains(warn.String(), "loaded"))
	assert.Assert(t, is.Contains(warn.String(), "msg=failed"))
}
