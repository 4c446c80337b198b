// Package cmdutil provides shared command-line inspection helpers.
package cmdutil

import (
	"strings"

	"github.com/google/shlex"
)

// specialChars is the set of shell metacharacters counted by CountSpecialChars.
const specialChars = "|&;()<>[]{}$\\'\"`!#*?"

// BaseCommand returns the first whitespace-delimited token of a command,
// or "" for a blank command.
func BaseCommand(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Tokens splits a command into shell words. Commands that shlex cannot
// split (unbalanced quotes, trailing escape) fall back to whitespace fields.
func Tokens(cmd string) []string {
	tokens, err := shlex.Split(cmd)
	if err == nil && len(tokens) > 0 {
		return tokens
	}
	return strings.Fields(cmd)
}

// CountPipes returns the number of pipe operators (|) in a command.
// It handles quoted strings to avoid counting pipes inside quotes.
func CountPipes(cmd string) int {
	count := 0
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			escaped = false
			continue
		}

		switch r {
		case '\\':
			escaped = true
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			}
		case '|':
			if !inSingleQuote && !inDoubleQuote {
				count++
			}
		}
	}

	return count
}

// CountFlags returns the number of shell words that look like flags
// ("-x", "--long", "--key=value"). A lone "-" or "--" is not a flag.
func CountFlags(cmd string) int {
	count := 0
	for _, tok := range Tokens(cmd) {
		if tok == "-" || tok == "--" {
			continue
		}
		if strings.HasPrefix(tok, "-") {
			count++
		}
	}
	return count
}

// CountSpecialChars returns how many shell metacharacters appear in cmd,
// quoted or not.
func CountSpecialChars(cmd string) int {
	count := 0
	for _, r := range cmd {
		if strings.ContainsRune(specialChars, r) {
			count++
		}
	}
	return count
}
