// Package logger builds the process-wide slog logger from configuration.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat defines how log records are rendered
type LogFormat string

// Log format constants
const (
	TEXT LogFormat = "text"
	JSON LogFormat = "json"
)

// Config holds configuration options for the logger
type Config struct {
	Level       slog.Level
	Format      LogFormat
	Output      io.Writer
	AddSource   bool
	DefaultTags map[string]any
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:       slog.LevelInfo,
		Format:      TEXT,
		Output:      os.Stderr,
		DefaultTags: map[string]any{"service": "pagesummary"},
	}
}

// New creates a slog logger with the given configuration. A nil config
// uses DefaultConfig.
func New(config *Config) *slog.Logger {
	if config == nil {
		config = DefaultConfig()
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if len(config.DefaultTags) > 0 {
		args := make([]any, 0, len(config.DefaultTags)*2)
		for k, v := range config.DefaultTags {
			args = append(args, k, v)
		}
		logger = logger.With(args...)
	}
	return logger
}

// FromSettings builds a logger from textual level and format values as they
// appear in the configuration file.
func FromSettings(level, format string, out io.Writer) *slog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.Format = ParseFormat(format)
	if out != nil {
		cfg.Output = out
	}
	return New(cfg)
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a string level to a slog.Level. Unknown values map
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts a string format to a LogFormat, defaulting to text
func ParseFormat(format string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(format), string(JSON)) {
		return JSON
	}
	return TEXT
}
