//go:build !windows

package tui

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/wrapped/internal/nav"
	"github.com/runger/wrapped/internal/ptytest"
)

func TestTerminalKeys_RawModeOnPty(t *testing.T) {
	pty := ptytest.New(t)
	before := pty.State()

	keys, err := NewTerminalKeys(pty.Tty())
	require.NoError(t, err)
	assert.True(t, keys.Raw())
	assert.NotEqual(t, before, pty.State())

	// Ctrl-C arrives as a plain byte in raw mode and maps to no command.
	pty.Send(ptytest.KeySpace + ptytest.KeyCtrlC + ptytest.KeySpace + "pq")

	var out bytes.Buffer
	w := NewWriter(&out, PlainTheme(), WithCRLF())
	c := nav.NewController(testSession(), keys, w, nil)
	require.NoError(t, c.Run())

	assert.Equal(t, []int{0, 1, 2, 1}, c.Visited())
	assert.True(t, c.State().Terminated)
	assert.Contains(t, out.String(), "slide 3/7\r\n")
	assert.NotContains(t, strings.ReplaceAll(out.String(), "\r\n", ""), "\n")

	require.NoError(t, keys.Close())
	assert.False(t, keys.Raw())
	assert.Equal(t, before, pty.State())
	require.NoError(t, keys.Close())
}

func TestNewTerminalKeys_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "keys")
	require.NoError(t, err)
	defer f.Close()

	_, err = NewTerminalKeys(f)
	require.ErrorIs(t, err, ErrNotTerminal)
}

func TestRunProgram_OnPty(t *testing.T) {
	pty := ptytest.New(t)
	before := pty.State()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	type result struct {
		model Model
		err   error
	}
	done := make(chan result, 1)
	go func() {
		m, err := RunProgram(ctx, NewModel(testSession(), PlainTheme(), nil), pty.Tty(), pty.Tty())
		done <- result{m, err}
	}()

	pty.Expect("slide 1/7")
	pty.Send(ptytest.KeySpace)
	pty.Expect("slide 2/7")
	pty.Send(ptytest.KeySpace)
	pty.Expect("slide 3/7")
	pty.Send("p")
	pty.Expect("slide 2/7")
	pty.Send("q")

	res := ptytest.Wait(t, done, 10*time.Second)
	require.NoError(t, res.err)
	assert.Equal(t, []int{0, 1, 2, 1}, res.model.Visited())
	assert.True(t, res.model.State().Terminated)
	assert.Equal(t, before, pty.State())
}
