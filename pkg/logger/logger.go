package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Setup initializes the default logger based on the environment.
// If env is "production", it uses JSON handler.
// Otherwise, it uses Text handler (more human-readable).
// Callers pass stderr so stdout stays free for program output.
func Setup(w io.Writer, env, level string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// selects info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}
