package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHistoryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestFileSource_ReadHistory(t *testing.T) {
	path := writeHistoryFile(t, "ls\ngit status\n")
	src := FileSource{Path: path}

	raw, err := src.ReadHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ls\ngit status\n", raw)
	assert.Equal(t, path, src.Name())
}

func TestFileSource_MissingFileIsFatal(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "nope")}

	_, err := src.ReadHistory(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_EmptyPath(t *testing.T) {
	_, err := FileSource{}.ReadHistory(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestFileSource_ReplacesInvalidUTF8(t *testing.T) {
	path := writeHistoryFile(t, "echo \xff\xfe ok\n")
	raw, err := FileSource{Path: path}.ReadHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "echo � ok\n", raw)
}

func TestReaderSource(t *testing.T) {
	src := ReaderSource{R: strings.NewReader("make\n"), Label: "stdin"}
	raw, err := src.ReadHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "make\n", raw)
	assert.Equal(t, "stdin", src.Name())

	_, err = ReaderSource{R: failingReader{}}.ReadHistory(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = ReaderSource{}.ReadHistory(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestReadHistory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileSource{Path: "/does/not/matter"}.ReadHistory(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectShell(t *testing.T) {
	tests := []struct {
		shell    string
		expected string
	}{
		{"/bin/zsh", "zsh"},
		{"/usr/local/bin/bash", "bash"},
		{"/usr/bin/fish", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Setenv("SHELL", tt.shell)
		assert.Equal(t, tt.expected, DetectShell(), "SHELL=%q", tt.shell)
	}
}

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HISTFILE", "")
	t.Setenv("SHELL", "/bin/zsh")

	path, err := ResolvePath("/explicit/file", "bash")
	require.NoError(t, err)
	assert.Equal(t, "/explicit/file", path)

	path, err = ResolvePath("~/hist", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "hist"), path)

	path, err = ResolvePath("", "auto")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".zsh_history"), path)

	path, err = ResolvePath("", "bash")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".bash_history"), path)

	_, err = ResolvePath("", "fish")
	assert.ErrorIs(t, err, ErrUnsupportedShell)

	t.Setenv("HISTFILE", "/from/env")
	path, err = ResolvePath("", "bash")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", path)
}
