package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ParseLevel maps a config level string onto slog. Unknown input means
// info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the handler as the slog default, colored when writing
// to a terminal-facing writer.
func Setup(w io.Writer, level slog.Level, color bool) {
	slog.SetDefault(slog.New(NewHandler(w, &Options{Level: level, Color: color})))
}

// SetupFile sends logs to the given file so the TUI's alternate screen
// stays clean. An unwritable path silences logging rather than breaking
// the chat.
func SetupFile(path string, level slog.Level) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		Setup(io.Discard, level, false)
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		Setup(io.Discard, level, false)
		return
	}
	Setup(f, level, false)
}
