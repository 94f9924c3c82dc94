package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)

	slog.New(h).With("request_id", "r-1").Info("evaluated", "models", 2)

	assert.Contains(t, a.String(), `"request_id":"r-1"`)
	assert.Contains(t, a.String(), `"models":2`)
	assert.Contains(t, b.String(), "request_id=r-1")
	assert.Contains(t, b.String(), "msg=evaluated")
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debug, warn bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	l := slog.New(h)

	l.Debug("noisy")
	assert.Contains(t, debug.String(), "noisy")
	assert.Empty(t, warn.String())

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_ContinuesPastFailure(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(failingHandler{}, slog.NewTextHandler(&buf, nil))

	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "still here", 0))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "still here")
}

func TestMultiHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewMultiHandler(slog.NewJSONHandler(&buf, nil))).WithGroup("http")

	l.Info("request", "status", 200)

	assert.Contains(t, buf.String(), `"http":{"status":200}`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_WritesConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "model", "echo-model")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "model=echo-model")
}
