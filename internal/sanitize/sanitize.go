// Package sanitize makes command lines safe to put on screen. Secrets are
// masked, terminal escape sequences removed, and destructive commands are
// recognized so a slide can call them out.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// Mask replaces a secret value.
const Mask = "***"

// ansiRE matches ANSI escape sequences:
//   - CSI sequences: ESC [ ... final_byte  (covers SGR like \x1b[31m)
//   - OSC sequences: ESC ] ... (ST | BEL)
//   - Charset sequences: ESC ( B, ESC ) B, etc.
//   - Other two-byte escapes: ESC followed by a single byte in [#()*+\-./]
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#()*+\-./][A-Za-z0-9]` +
	`)`)

// secret is one masking rule. Replacement may refer to groups of Regex.
type secret struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// secrets are applied in order. Assignment-style rules keep the variable
// name so the command stays recognizable.
var secrets = []secret{
	{
		Name:        "URL credentials",
		Regex:       regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://[^\s:/@]+):[^\s@/]+@`),
		Replacement: "$1:" + Mask + "@",
	},
	{
		Name:        "AWS access key",
		Regex:       regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		Replacement: Mask,
	},
	{
		Name:        "JWT",
		Regex:       regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		Replacement: Mask,
	},
	{
		Name:        "GitHub token",
		Regex:       regexp.MustCompile(`\b(?:gh[pousr]_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{22,})\b`),
		Replacement: Mask,
	},
	{
		Name:        "Slack token",
		Regex:       regexp.MustCompile(`xox[baprs]-[0-9a-zA-Z-]+`),
		Replacement: Mask,
	},
	{
		Name:        "Authorization header",
		Regex:       regexp.MustCompile(`(?i)\b(bearer|basic|token)\s+[A-Za-z0-9+/_.=-]{16,}`),
		Replacement: "$1 " + Mask,
	},
	{
		Name:        "Secret assignment",
		Regex:       regexp.MustCompile(`(?i)\b([A-Za-z0-9_]*(?:password|passwd|secret|token|api[_-]?key|private[_-]?key|access[_-]?key)[A-Za-z0-9_]*)(\s*[=:]\s*)("[^"]*"|'[^']*'|[^\s"']+)`),
		Replacement: "$1$2" + Mask,
	},
	{
		Name:        "Secret flag",
		Regex:       regexp.MustCompile(`(?i)(--?[A-Za-z0-9-]*(?:password|passwd|secret|token|api-?key)[A-Za-z0-9-]*)(\s+)("[^"]*"|'[^']*'|[^\s"'<>|;&-][^\s"';&|]*)`),
		Replacement: "$1$2" + Mask,
	},
	{
		Name:        "MySQL inline password",
		Regex:       regexp.MustCompile(`\b(mysql(?:dump|admin)?\b.*?\s-p)[^\s]+`),
		Replacement: "$1" + Mask,
	},
}

// RedactSecrets masks credentials, tokens and keys in s.
func RedactSecrets(s string) string {
	if s == "" {
		return s
	}
	for _, rule := range secrets {
		s = rule.Regex.ReplaceAllString(s, rule.Replacement)
	}
	return s
}

// StripEscapes removes ANSI escape sequences and turns any remaining
// control characters into spaces. Newlines are kept.
func StripEscapes(s string) string {
	s = ansiRE.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// ForDisplay prepares a command line for a slide: escapes are stripped and,
// when redact is set, secrets are masked.
func ForDisplay(cmd string, redact bool) string {
	cmd = StripEscapes(cmd)
	if redact {
		cmd = RedactSecrets(cmd)
	}
	return cmd
}
