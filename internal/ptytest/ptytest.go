//go:build !windows

// Package ptytest drives terminal code through a pseudo-terminal inside the
// test process, using go-expect.
//
// The code under test gets Tty() as its stdin and stdout. The test sends
// keys and waits for output through the console side.
package ptytest

import (
	"os"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Key constants for special keys
const (
	KeySpace = " "
	KeyCtrlC = "\x03"
)

// Terminal wraps a go-expect console.
type Terminal struct {
	Console *expect.Console
	t       testing.TB
}

// Option configures a Terminal.
type Option func(*config)

type config struct {
	timeout    time.Duration
	rows, cols uint16
}

// WithTimeout sets the default timeout for Expect.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithSize sets the window size reported to the program.
func WithSize(rows, cols uint16) Option {
	return func(c *config) {
		c.rows, c.cols = rows, cols
	}
}

// New opens a pseudo-terminal. The test is skipped when the platform
// cannot provide one. The console is closed when the test ends.
func New(t testing.TB, opts ...Option) *Terminal {
	t.Helper()

	cfg := &config{timeout: 5 * time.Second, rows: 50, cols: 120}
	for _, opt := range opts {
		opt(cfg)
	}

	console, err := expect.NewConsole(expect.WithDefaultTimeout(cfg.timeout))
	if err != nil {
		t.Skipf("pseudo-terminal unavailable: %v", err)
	}
	t.Cleanup(func() { _ = console.Close() })

	ws := &unix.Winsize{Row: cfg.rows, Col: cfg.cols}
	if err := unix.IoctlSetWinsize(int(console.Tty().Fd()), unix.TIOCSWINSZ, ws); err != nil {
		t.Fatalf("failed to set window size: %v", err)
	}

	return &Terminal{Console: console, t: t}
}

// Tty returns the terminal end handed to the code under test.
func (p *Terminal) Tty() *os.File {
	return p.Console.Tty()
}

// Send types keys without a newline.
func (p *Terminal) Send(keys string) {
	p.t.Helper()
	if _, err := p.Console.Send(keys); err != nil {
		p.t.Fatalf("send %q: %v", keys, err)
	}
}

// Expect waits until want appears in the output written since the last
// match.
func (p *Terminal) Expect(want string) string {
	p.t.Helper()
	out, err := p.Console.ExpectString(want)
	if err != nil {
		p.t.Fatalf("expected %q: %v (output so far: %q)", want, err, out)
	}
	return out
}

// State returns the terminal's current mode, for comparing before and
// after a program runs.
func (p *Terminal) State() *term.State {
	p.t.Helper()
	state, err := term.GetState(int(p.Tty().Fd()))
	if err != nil {
		p.t.Fatalf("failed to read terminal state: %v", err)
	}
	return state
}

// Wait returns the value from done, failing the test if it takes longer
// than timeout.
func Wait[T any](t testing.TB, done <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v := <-done:
		return v
	case <-time.After(timeout):
		t.Fatalf("timed out after %s", timeout)
		var zero T
		return zero
	}
}
