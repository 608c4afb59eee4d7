package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/bugtracker/internal/config"
)

// NewLogger creates a *slog.Logger writing to stderr and sets it as the
// slog default.
//
// Format "json" produces structured JSON output, "text" human-readable
// output with source positions. Level is one of debug, info, warn, error
// (case-insensitive); anything else means info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLoggerWithWriter(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewLoggerTo creates a logger like NewLogger that writes to w and leaves
// the slog default alone. The terminal client uses it to keep log output
// off the screen it draws on.
func NewLoggerTo(w io.Writer, cfg config.LogConfig) *slog.Logger {
	return newLoggerWithWriter(w, cfg)
}

func newLoggerWithWriter(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
