// Package log configures the process-wide slog default. Both binaries call
// Setup once at startup; everything else logs through the slog package
// functions.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text handler on stdout at the given level and returns the
// logger. Unknown level strings fall back to info.
func Setup(level, component string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})).With("component", component)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
