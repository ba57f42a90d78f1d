// Package logger builds the process-wide slog logger from configuration.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"bank-records-api/internal/config"
)

// New returns a logger writing to stdout and installs it as the slog default.
func New(cfg config.LoggerConfig) *slog.Logger {
	l := slog.New(NewHandler(os.Stdout, cfg))
	slog.SetDefault(l)
	return l
}

// NewHandler picks a JSON handler for "json" and a charmbracelet text handler otherwise.
func NewHandler(w io.Writer, cfg config.LoggerConfig) slog.Handler {
	level := parseLevel(cfg.Level)

	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           charmlog.Level(level),
		Formatter:       charmlog.TextFormatter,
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
