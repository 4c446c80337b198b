package sanitize

import (
	"regexp"
	"strings"
)

// riskPattern names one family of destructive commands.
type riskPattern struct {
	Kind    string
	Pattern *regexp.Regexp
}

// destructivePatterns are checked in order; the first match names the kind.
var destructivePatterns = []riskPattern{
	// File deletion
	{Kind: "rm -rf", Pattern: regexp.MustCompile(`\brm\s+(-[a-zA-Z]*r[a-zA-Z]*f|--recursive\s+--force|-[a-zA-Z]*f[a-zA-Z]*r)\b`)},
	{Kind: "rm -r", Pattern: regexp.MustCompile(`\brm\s+-[a-zA-Z]*[rR]\b`)},

	// Git history rewrites
	{Kind: "git push --force", Pattern: regexp.MustCompile(`\bgit\s+push\b.*\s(-f|--force(-with-lease)?)\b`)},
	{Kind: "git reset --hard", Pattern: regexp.MustCompile(`\bgit\s+reset\s+--hard\b`)},
	{Kind: "git clean", Pattern: regexp.MustCompile(`\bgit\s+clean\s+-[a-zA-Z]*[fd]`)},

	// SQL
	{Kind: "DROP", Pattern: regexp.MustCompile(`(?i)\bDROP\s+(TABLE|DATABASE|SCHEMA)\b`)},
	{Kind: "TRUNCATE", Pattern: regexp.MustCompile(`(?i)\bTRUNCATE\s+TABLE\b`)},

	// Permissions
	{Kind: "chmod 777", Pattern: regexp.MustCompile(`\bchmod\s+(-[a-zA-Z]+\s+)?777\b`)},
	{Kind: "recursive chown", Pattern: regexp.MustCompile(`\bchown\s+-[a-zA-Z]*R\b`)},

	// Disks
	{Kind: "dd", Pattern: regexp.MustCompile(`\bdd\s+.*\bof=/dev/`)},
	{Kind: "mkfs", Pattern: regexp.MustCompile(`\bmkfs(\.[a-z0-9]+)?\b`)},

	// Processes and machines
	{Kind: "kill -9", Pattern: regexp.MustCompile(`\b(kill\s+-(9|KILL)|killall|pkill)\b`)},
	{Kind: "shutdown", Pattern: regexp.MustCompile(`\b(shutdown|reboot|halt|poweroff)\b`)},

	// Containers and clusters
	{Kind: "docker prune", Pattern: regexp.MustCompile(`\bdocker\s+(system|volume|image|container)\s+prune\b`)},
	{Kind: "kubectl delete", Pattern: regexp.MustCompile(`\bkubectl\s+delete\b`)},
}

// Destructive reports whether command matches a destructive pattern and,
// if so, which kind.
func Destructive(command string) (string, bool) {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return "", false
	}
	for _, p := range destructivePatterns {
		if p.Pattern.MatchString(cmd) {
			return p.Kind, true
		}
	}
	return "", false
}
