package cmd

import (
	"os"

	"golang.org/x/term"

	"github.com/runger/wrapped/internal/tui"
)

// ANSI color codes for CLI messages outside the slides.
// init blanks them when stdout is not a terminal or the environment
// forbids color.
var (
	colorYellow = "\033[0;33m"
	colorCyan   = "\033[0;36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

func init() {
	if shouldDisableColors(os.Getenv, term.IsTerminal(int(os.Stdout.Fd()))) {
		colorYellow = ""
		colorCyan = ""
		colorDim = ""
		colorBold = ""
		colorReset = ""
	}
}

// shouldDisableColors reports whether CLI messages must be plain. Redirected
// output never gets escape codes.
func shouldDisableColors(getenv tui.Env, stdoutTTY bool) bool {
	if !stdoutTTY {
		return true
	}
	return !tui.DecideColor(getenv, false, true).Styled
}
