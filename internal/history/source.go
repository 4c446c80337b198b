package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrSourceUnavailable is returned when the raw history cannot be read.
// It is the only fatal input condition.
var ErrSourceUnavailable = errors.New("history source unavailable")

// ErrUnsupportedShell is returned when no history path can be derived from
// the shell name.
var ErrUnsupportedShell = errors.New("unsupported shell")

// Source supplies the raw history text.
type Source interface {
	// ReadHistory returns the whole history as text.
	ReadHistory(ctx context.Context) (string, error)
	// Name describes the source for logs and error messages.
	Name() string
}

// FileSource reads a history file from disk.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string {
	return s.Path
}

// ReadHistory implements Source. The file is opened and closed within the call.
func (s FileSource) ReadHistory(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Path == "" {
		return "", fmt.Errorf("%w: no history file path", ErrSourceUnavailable)
	}

	file, err := os.Open(s.Path) //nolint:gosec // G304: path is from user's flag, HISTFILE or well-known default
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer file.Close()

	return readText(file, s.Path)
}

// ReaderSource reads history text from an arbitrary reader, such as stdin.
type ReaderSource struct {
	R     io.Reader
	Label string
}

// Name implements Source.
func (s ReaderSource) Name() string {
	if s.Label == "" {
		return "reader"
	}
	return s.Label
}

// ReadHistory implements Source.
func (s ReaderSource) ReadHistory(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.R == nil {
		return "", fmt.Errorf("%w: %s: nil reader", ErrSourceUnavailable, s.Name())
	}
	return readText(s.R, s.Name())
}

// readText reads everything from r. Invalid UTF-8 sequences (zsh metafied
// bytes, binary garbage) are replaced so the text is always usable.
func readText(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// DetectShell returns the shell name based on the SHELL environment variable.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return ""
	}
	switch base := filepath.Base(shell); base {
	case "bash", "zsh":
		return base
	default:
		return ""
	}
}

// ResolvePath picks the history file to read. An explicit path wins, then
// $HISTFILE, then the default file of the given shell ("auto" or "" detects
// it from $SHELL).
func ResolvePath(explicit, shell string) (string, error) {
	if explicit != "" {
		return ExpandHome(explicit), nil
	}
	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		return ExpandHome(histFile), nil
	}

	if shell == "auto" || shell == "" {
		shell = DetectShell()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch shell {
	case "zsh":
		return filepath.Join(home, ".zsh_history"), nil
	case "bash":
		return filepath.Join(home, ".bash_history"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedShell, shell)
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
