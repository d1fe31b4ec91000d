package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, "level %q", in)
		require.Equal(t, want, got, "level %q", in)
	}

	_, err := ParseLevel("loud")
	require.ErrorContains(t, err, `unknown log level "loud"`)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("listening", "addr", ":8080")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INF")
	require.Contains(t, out, "listening")
	require.Contains(t, out, "addr=:8080")
	require.NotContains(t, out, "\x1b[", "non-terminal output must not be colored")
}
