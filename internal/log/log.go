// Package log provides JSON-lines structured logging for wrapped.
//
// Records look like:
//
//	{"ts":"2024-01-15T10:30:00Z","level":"INFO","msg":"run started","run_id":"...","source":"file:/home/me/.zsh_history"}
//
// Log levels:
//   - debug: Per-key navigation and parse details (enabled via WRAPPED_DEBUG=1)
//   - info: Run start, source read, session end
//   - warn: Non-fatal issues (render failures, fallbacks to plain output)
//   - error: Fatal issues that end the run
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
	}
}

// New creates a new JSON-lines structured logger.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// NewFromEnv creates a logger writing to output and configured from
// environment variables alone, for use before a config is loaded.
// WRAPPED_DEBUG=1 enables debug logging.
func NewFromEnv(output io.Writer) *slog.Logger {
	cfg := DefaultConfig()
	cfg.Output = output
	if os.Getenv("WRAPPED_DEBUG") == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", name)
	}
}

// OpenFile opens path for appending, creating parent directories.
// The caller closes the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: log path comes from config
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// WithRunID returns a logger that tags every record with a fresh run id.
func WithRunID(logger *slog.Logger) (*slog.Logger, string) {
	id := uuid.NewString()
	return logger.With("run_id", id), id
}

// RunInfo holds information to log when a run starts.
type RunInfo struct {
	Version    string
	ConfigPath string
	Source     string
	Year       int
	Mode       string
}

// LogRunStart logs run startup information.
func LogRunStart(logger *slog.Logger, info RunInfo) {
	logger.Info("run started",
		"version", info.Version,
		"config_path", info.ConfigPath,
		"source", info.Source,
		"year", info.Year,
		"mode", info.Mode,
	)
}

// LogHistoryParsed logs the outcome of parsing a history source.
func LogHistoryParsed(logger *slog.Logger, source string, records, dropped int) {
	logger.Info("history parsed",
		"source", source,
		"records", records,
		"dropped_lines", dropped,
	)
}

// LogSourceError logs a history source that could not be read.
func LogSourceError(logger *slog.Logger, source string, err error) {
	logger.Error("history source unavailable", "source", source, "error", err)
}

// LogPlainFallback logs a switch from styled to plain output.
func LogPlainFallback(logger *slog.Logger, reason string) {
	logger.Warn("falling back to plain output", "reason", reason)
}
