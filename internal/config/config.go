package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the wrapped configuration.
type Config struct {
	History HistoryConfig `yaml:"history"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// HistoryConfig selects the history to analyze.
type HistoryConfig struct {
	File     string `yaml:"file"`     // History file (overrides $HISTFILE and shell default)
	Shell    string `yaml:"shell"`    // auto, bash, or zsh
	Database string `yaml:"database"` // SQLite command log to read instead of a file
	Year     int    `yaml:"year"`     // Only analyze this year (0 = everything)
}

// DisplayConfig controls how slides are shown.
type DisplayConfig struct {
	Mode   string `yaml:"mode"`   // tui (full screen) or plain (line mode)
	Color  bool   `yaml:"color"`  // Styled output when the terminal supports it
	Redact bool   `yaml:"redact"` // Mask secrets in commands shown on slides
}

// LogConfig controls the structured log.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Shell: "auto",
		},
		Display: DisplayConfig{
			Mode:   "tui",
			Color:  true,
			Redact: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveToFile(DefaultPaths().ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: config is not secret
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "history.shell" or "display.color"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "history":
		return c.getHistoryField(field)
	case "display":
		return c.getDisplayField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "history":
		return c.setHistoryField(field, value)
	case "display":
		return c.setDisplayField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getHistoryField(field string) (string, error) {
	switch field {
	case "file":
		return c.History.File, nil
	case "shell":
		return c.History.Shell, nil
	case "database":
		return c.History.Database, nil
	case "year":
		return strconv.Itoa(c.History.Year), nil
	default:
		return "", fmt.Errorf("unknown field: history.%s", field)
	}
}

func (c *Config) setHistoryField(field, value string) error {
	switch field {
	case "file":
		c.History.File = value
	case "shell":
		if !isValidShell(value) {
			return fmt.Errorf("invalid shell: %s (must be auto, bash, or zsh)", value)
		}
		c.History.Shell = value
	case "database":
		c.History.Database = value
	case "year":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for year: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("invalid year: must be non-negative")
		}
		c.History.Year = v
	default:
		return fmt.Errorf("unknown field: history.%s", field)
	}
	return nil
}

func (c *Config) getDisplayField(field string) (string, error) {
	switch field {
	case "mode":
		return c.Display.Mode, nil
	case "color":
		return strconv.FormatBool(c.Display.Color), nil
	case "redact":
		return strconv.FormatBool(c.Display.Redact), nil
	default:
		return "", fmt.Errorf("unknown field: display.%s", field)
	}
}

func (c *Config) setDisplayField(field, value string) error {
	switch field {
	case "mode":
		if !isValidMode(value) {
			return fmt.Errorf("invalid mode: %s (must be tui or plain)", value)
		}
		c.Display.Mode = value
	case "color":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for color: %w", err)
		}
		c.Display.Color = v
	case "redact":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for redact: %w", err)
		}
		c.Display.Redact = v
	default:
		return fmt.Errorf("unknown field: display.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !isValidShell(c.History.Shell) {
		return fmt.Errorf("history.shell must be auto, bash, or zsh (got: %s)", c.History.Shell)
	}

	if c.History.Year < 0 {
		return errors.New("history.year must be >= 0")
	}

	if !isValidMode(c.Display.Mode) {
		return fmt.Errorf("display.mode must be tui or plain (got: %s)", c.Display.Mode)
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

func isValidShell(shell string) bool {
	switch shell {
	case "auto", "bash", "zsh":
		return true
	default:
		return false
	}
}

func isValidMode(mode string) bool {
	switch mode {
	case "tui", "plain":
		return true
	default:
		return false
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("WRAPPED_HISTFILE"); v != "" {
		c.History.File = v
	}
	if v := os.Getenv("WRAPPED_SHELL"); v != "" && isValidShell(v) {
		c.History.Shell = v
	}
	if v := os.Getenv("WRAPPED_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("WRAPPED_LOG_LEVEL"); v != "" && isValidLogLevel(v) {
		c.Log.Level = v
	}
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		c.Display.Color = false
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"history.file",
		"history.shell",
		"history.database",
		"history.year",
		"display.mode",
		"display.color",
		"display.redact",
		"log.level",
		"log.file",
	}
}
