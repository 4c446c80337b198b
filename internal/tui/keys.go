package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/runger/wrapped/internal/nav"
)

// ErrNotTerminal is returned when raw key input is requested on a file that
// is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// TerminalKeys reads one key press at a time. On a tty it switches the
// terminal to raw mode so keys arrive without Enter; Close restores it.
type TerminalKeys struct {
	r       *bufio.Reader
	fd      int
	restore *term.State
}

// NewTerminalKeys puts f into raw mode and reads keys from it.
func NewTerminalKeys(f *os.File) (*TerminalKeys, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%w: %s", ErrNotTerminal, f.Name())
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return &TerminalKeys{r: bufio.NewReader(f), fd: fd, restore: state}, nil
}

// NewReaderKeys reads keys from r without touching terminal modes. Each
// rune is one key, so a script such as "nnpq" drives a session.
func NewReaderKeys(r io.Reader) *TerminalKeys {
	return &TerminalKeys{r: bufio.NewReader(r), fd: -1}
}

// ReadKey implements nav.KeyReader.
func (k *TerminalKeys) ReadKey() (nav.Key, error) {
	r, _, err := k.r.ReadRune()
	if err != nil {
		return 0, err
	}
	return nav.Key(r), nil
}

// Raw reports whether the terminal is in raw mode.
func (k *TerminalKeys) Raw() bool {
	return k.restore != nil
}

// Close restores the terminal mode. It is safe to call more than once.
func (k *TerminalKeys) Close() error {
	if k.restore == nil {
		return nil
	}
	state := k.restore
	k.restore = nil
	if err := term.Restore(k.fd, state); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}
