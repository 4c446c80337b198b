//go:build !windows

package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/wrapped/internal/ptytest"
)

// executeOnTerminal runs the CLI with the pseudo-terminal as stdin, stdout
// and stderr, returning a channel that receives Execute's result.
func executeOnTerminal(t *testing.T, pty *ptytest.Terminal, args ...string) <-chan error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(pty.Tty())
	root.SetOut(pty.Tty())
	root.SetErr(pty.Tty())

	done := make(chan error, 1)
	go func() { done <- root.Execute() }()
	return done
}

// navigate walks forward twice, back once, then quits.
func navigate(pty *ptytest.Terminal) {
	pty.Expect("slide 1/7")
	pty.Send(ptytest.KeySpace)
	pty.Expect("slide 2/7")
	pty.Send(ptytest.KeySpace)
	pty.Expect("slide 3/7")
	pty.Send("p")
	pty.Expect("slide 2/7")
	pty.Send("q")
}

func TestRun_LineModeOnTerminal(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)
	pty := ptytest.New(t)
	before := pty.State()

	done := executeOnTerminal(t, pty, "--file", path, "--plain")
	navigate(pty)

	require.NoError(t, ptytest.Wait(t, done, 10*time.Second))
	assert.Equal(t, before, pty.State())
}

func TestRun_LineModeIgnoresCtrlC(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)
	pty := ptytest.New(t)

	done := executeOnTerminal(t, pty, "--file", path, "--plain")
	pty.Expect("slide 1/7")
	pty.Send(ptytest.KeyCtrlC + ptytest.KeySpace)
	pty.Expect("slide 2/7")
	pty.Send("q")

	require.NoError(t, ptytest.Wait(t, done, 10*time.Second))
}

func TestRun_FullScreenOnTerminal(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)
	pty := ptytest.New(t)
	before := pty.State()

	done := executeOnTerminal(t, pty, "--file", path)
	navigate(pty)

	require.NoError(t, ptytest.Wait(t, done, 10*time.Second))
	assert.Equal(t, before, pty.State())
}
