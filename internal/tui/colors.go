package tui

import (
	"os"
	"runtime"
	"strconv"
)

// Env looks up an environment variable. os.Getenv satisfies it.
type Env func(key string) string

// ColorDecision records whether styled output is allowed and, when it is
// not, why.
type ColorDecision struct {
	Styled bool
	Reason string
}

// DecideColor reports whether styled output should be used. plain is the
// --plain flag and enabled is the display.color setting.
func DecideColor(getenv Env, plain, enabled bool) ColorDecision {
	if getenv == nil {
		getenv = os.Getenv
	}

	if plain {
		return ColorDecision{Reason: "--plain"}
	}
	if !enabled {
		return ColorDecision{Reason: "display.color=false"}
	}

	// Check NO_COLOR environment variable (https://no-color.org/)
	if getenv("NO_COLOR") != "" {
		return ColorDecision{Reason: "NO_COLOR"}
	}

	if getenv("TERM") == "dumb" {
		return ColorDecision{Reason: "TERM=dumb"}
	}

	// Windows Terminal and newer terminals support ANSI; older consoles don't.
	if runtime.GOOS == "windows" &&
		getenv("WT_SESSION") == "" &&
		getenv("TERM_PROGRAM") == "" &&
		getenv("ANSICON") == "" &&
		getenv("ConEmuANSI") != "ON" {
		return ColorDecision{Reason: "legacy windows console"}
	}

	return ColorDecision{Styled: true}
}

// TermWidth returns the width of the terminal on f, falling back to
// $COLUMNS, or 0 if unknown.
func TermWidth(f *os.File) int {
	if f != nil {
		if w := termWidthIoctl(f.Fd()); w > 0 {
			return w
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return 0
}
