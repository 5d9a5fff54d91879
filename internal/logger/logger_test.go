package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, env string, level string) (Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	l, err := New(Options{Environment: env, Level: level, Output: &buf})
	require.NoError(t, err)
	return l, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err, "JSON log should be valid. Got: %s", buf.String())
	return entry
}

func TestLogger_parseLevel(t *testing.T) {
	t.Run("valid value", func(t *testing.T) {
		tests := []struct {
			input    string
			expected slog.Level
		}{
			{"DEBUG", slog.LevelDebug},
			{"debug", slog.LevelDebug},
			{"Info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"ERROR", slog.LevelError},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				got, err := parseLevel(tt.input)

				require.NoError(t, err)
				require.Equal(t, tt.expected, got)
			})
		}
	})

	t.Run("not valid", func(t *testing.T) {
		for _, value := range []string{"", "uknown", "verbose"} {
			_, err := parseLevel(value)

			require.Error(t, err, "level %q must be rejected", value)
		}
	})
}

func TestLogger_New(t *testing.T) {
	t.Run("json in production", func(t *testing.T) {
		l, buf := newTestLogger(t, EnvProduction, LevelInfo)

		l.Info("video published", "video_id", "42")

		entry := decode(t, buf)
		require.Equal(t, "video published", entry["msg"])
		require.Equal(t, "INFO", entry["level"])
		require.Equal(t, "42", entry["video_id"])

		source, ok := entry["source"].(map[string]any)
		require.True(t, ok, "source must be logged")
		require.Equal(t, "logger_test.go", source["file"], "source must point to caller with base file name")
	})

	t.Run("text otherwise", func(t *testing.T) {
		l, buf := newTestLogger(t, "development", LevelInfo)

		l.Info("video published", "video_id", "42")

		require.Contains(t, buf.String(), `msg="video published"`)
		require.Contains(t, buf.String(), "video_id=42")
	})

	t.Run("service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Options{Environment: EnvProduction, Level: LevelInfo, Service: "videohub", Output: &buf})
		require.NoError(t, err)

		l.Info("started")

		require.Equal(t, "videohub", decode(t, &buf)["service"])
	})

	t.Run("fail on unknown level", func(t *testing.T) {
		_, err := New(Options{Environment: EnvProduction, Level: "verbose"})

		require.Error(t, err)
	})
}

func TestLogger_Levels(t *testing.T) {
	logAll := func(l Logger) {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	}

	tests := []struct {
		level string
		lines int
	}{
		{LevelDebug, 4},
		{LevelInfo, 3},
		{LevelWarn, 2},
		{LevelError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, buf := newTestLogger(t, "development", tt.level)

			logAll(l)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, tt.lines)
		})
	}
}

func TestLogger_Redact(t *testing.T) {
	l, buf := newTestLogger(t, EnvProduction, LevelDebug)

	l.Debug("login attempt",
		"username", "alice",
		"password", "Secret1!",
		"refresh_token", "eyJhbGciOi",
		"Authorization", "Bearer eyJhbGciOi",
	)

	entry := decode(t, buf)
	require.Equal(t, "alice", entry["username"])
	require.Equal(t, redacted, entry["password"])
	require.Equal(t, redacted, entry["refresh_token"])
	require.Equal(t, redacted, entry["Authorization"])
	require.NotContains(t, buf.String(), "Secret1!")
}

func TestLogger_With(t *testing.T) {
	l, buf := newTestLogger(t, "development", LevelInfo)

	l.With("component", "auth").WithGroup("session").Info("rotated", "jti", "abc")

	require.Contains(t, buf.String(), "component=auth")
	require.Contains(t, buf.String(), "session.jti=abc")
}

func TestLogger_NewNoOpLogger(t *testing.T) {
	l := NewNoOpLogger()

	require.NotPanics(t, func() {
		l.Debug("debug message")
		l.With("key", "value").Error("error message")
	})
}
