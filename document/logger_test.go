package document

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	assert.NotPanics(t, func() {
		l.Debug("test message", "key", "value")
		l.Info("test message", "key", "value")
		l.Warn("test message", "key", "value")
		l.Error("test message", "key", "value")
	})
	assert.IsType(t, NopLogger{}, l.With("key", "value"))
}

func TestSlogAdapter(t *testing.T) {
	newAdapter := func(buf *bytes.Buffer) *SlogAdapter {
		handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		return NewSlogAdapter(slog.New(handler))
	}

	t.Run("nil uses the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), NewSlogAdapter(nil).Slog())
	})

	t.Run("levels are forwarded", func(t *testing.T) {
		var buf bytes.Buffer
		adapter := newAdapter(&buf)

		adapter.Debug("debug message", "service", "users")
		adapter.Info("info message")
		adapter.Warn("warn message")
		adapter.Error("error message")

		out := buf.String()
		for _, want := range []string{
			"level=DEBUG", "debug message", "service=users",
			"level=INFO", "info message",
			"level=WARN", "warn message",
			"level=ERROR", "error message",
		} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("With prepends attributes", func(t *testing.T) {
		var buf bytes.Buffer
		child := newAdapter(&buf).With("component", "discovery")
		require.IsType(t, &SlogAdapter{}, child)

		child.Info("scanning")
		assert.Contains(t, buf.String(), "component=discovery")
	})
}
