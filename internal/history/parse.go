// Package history turns raw shell history text into command records.
package history

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/runger/wrapped/internal/cmdutil"
)

// maxLineBytes bounds a single history line read by ParseReader.
const maxLineBytes = 1024 * 1024

// Layouts accepted for the dated prefix "YYYY-MM-DD HH:MM[:SS] <command>".
var datedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Record is one parsed history entry.
type Record struct {
	Timestamp time.Time // Zero value if the entry carried no usable timestamp
	Command   string    // Full command line, surrounding whitespace trimmed
	Base      string    // First whitespace-delimited token of Command
	Line      int       // 1-based line number where the entry starts
}

// HasTimestamp reports whether the record carries a timestamp.
func (r Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the location used to interpret wall-clock timestamps
// and epoch timestamps. The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// Parser accumulates records line by line. The zero value is not usable;
// create one with NewParser.
type Parser struct {
	loc *time.Location

	lineNo  int
	dropped int
	records []Record

	// Bash HISTTIMEFORMAT marker waiting for its command line.
	pendingTimestamp time.Time

	// zsh entry continued with a trailing backslash.
	multilineCmd  strings.Builder
	multilineTS   time.Time
	multilineLine int
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{loc: time.Local}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a whole history text. Malformed lines never fail the parse:
// they are dropped or kept without a timestamp.
func Parse(raw string, opts ...Option) []Record {
	p := NewParser(opts...)
	for _, line := range strings.Split(raw, "\n") {
		p.ProcessLine(line)
	}
	return p.Finish()
}

// ParseReader parses history text from r and also returns how many lines
// were dropped. Only a read error is returned.
func ParseReader(r io.Reader, opts ...Option) ([]Record, int, error) {
	p := NewParser(opts...)

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineBytes)

	for scanner.Scan() {
		p.ProcessLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, p.Dropped(), err
	}
	records := p.Finish()
	return records, p.Dropped(), nil
}

// Dropped returns how many non-blank lines were discarded so far.
func (p *Parser) Dropped() int {
	return p.dropped
}

// ProcessLine parses a single raw history line.
func (p *Parser) ProcessLine(line string) {
	p.lineNo++
	line = strings.TrimSuffix(line, "\r")

	if p.multilineCmd.Len() > 0 {
		p.continueMultiline(line)
		return
	}
	p.parseFreshLine(line)
}

// Finish flushes any pending multiline entry and returns the records in
// input order.
func (p *Parser) Finish() []Record {
	if p.multilineCmd.Len() > 0 {
		p.add(strings.TrimSuffix(p.multilineCmd.String(), "\n"), p.multilineTS, p.multilineLine)
		p.multilineCmd.Reset()
	}
	if p.records == nil {
		return []Record{}
	}
	return p.records
}

// parseFreshLine handles a line that is not part of an ongoing multiline command.
func (p *Parser) parseFreshLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	// Bash HISTTIMEFORMAT marker: #<unix_ts>
	if ts, ok := p.parseBashMarker(trimmed); ok {
		if !p.pendingTimestamp.IsZero() {
			p.dropped++ // previous marker never got a command
		}
		p.pendingTimestamp = ts
		return
	}

	// zsh extended history: `: <timestamp>:<duration>;<command>`
	if strings.HasPrefix(line, ": ") {
		if idx := strings.Index(line, ";"); idx != -1 {
			ts := p.parseZshMeta(line[2:idx])
			p.addZshCommand(line[idx+1:], ts)
			return
		}
	}

	ts, cmd, ok := p.splitDatedPrefix(trimmed)
	if !ok {
		p.dropped++
		return
	}
	if ts.IsZero() {
		ts = p.pendingTimestamp
	}
	p.pendingTimestamp = time.Time{}
	p.add(cmd, ts, p.lineNo)
}

// continueMultiline appends to an in-progress zsh multiline command.
func (p *Parser) continueMultiline(line string) {
	if hasUnescapedTrailingBackslash(line) {
		p.multilineCmd.WriteString(line[:len(line)-1])
		p.multilineCmd.WriteString("\n")
		return
	}
	p.multilineCmd.WriteString(line)
	p.add(p.multilineCmd.String(), p.multilineTS, p.multilineLine)
	p.multilineCmd.Reset()
	p.multilineTS = time.Time{}
}

// addZshCommand adds a zsh entry, starting multiline accumulation if it ends
// with a backslash.
func (p *Parser) addZshCommand(cmd string, ts time.Time) {
	p.pendingTimestamp = time.Time{}
	if hasUnescapedTrailingBackslash(cmd) {
		p.multilineCmd.WriteString(cmd[:len(cmd)-1])
		p.multilineCmd.WriteString("\n")
		p.multilineTS = ts
		p.multilineLine = p.lineNo
		return
	}
	if strings.TrimSpace(cmd) == "" {
		p.dropped++
		return
	}
	p.add(cmd, ts, p.lineNo)
}

func (p *Parser) add(cmd string, ts time.Time, line int) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		p.dropped++
		return
	}
	p.records = append(p.records, Record{
		Timestamp: ts,
		Command:   cmd,
		Base:      cmdutil.BaseCommand(cmd),
		Line:      line,
	})
}

func (p *Parser) parseBashMarker(line string) (time.Time, bool) {
	if !strings.HasPrefix(line, "#") || len(line) < 2 {
		return time.Time{}, false
	}
	ts, err := strconv.ParseInt(line[1:], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(ts, 0).In(p.loc), true
}

// parseZshMeta parses "<ts>:<dur>". A malformed value yields the zero time.
func (p *Parser) parseZshMeta(meta string) time.Time {
	meta = strings.TrimSpace(meta)
	if colonIdx := strings.Index(meta, ":"); colonIdx != -1 {
		meta = meta[:colonIdx]
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(meta), 10, 64)
	if err != nil || ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).In(p.loc)
}

// splitDatedPrefix splits "YYYY-MM-DD HH:MM[:SS] <command>". It returns the
// timestamp (zero when absent or malformed), the command text, and false
// when the line holds a timestamp prefix but no command.
func (p *Parser) splitDatedPrefix(line string) (time.Time, string, bool) {
	first, rest := cutField(line)
	if !isDateShaped(first) {
		return time.Time{}, line, true
	}

	if rest == "" {
		// A lone date-shaped token is a timestamp with no command.
		return time.Time{}, "", false
	}

	second, after := cutField(rest)
	switch {
	case isClockShaped(second):
		if after == "" {
			return time.Time{}, "", false
		}
		ts, _ := p.parseDated(first + " " + second)
		return ts, after, true
	case isNumericDate(first):
		// Date without a clock: malformed prefix, keep the command.
		return time.Time{}, rest, true
	default:
		return time.Time{}, line, true
	}
}

func (p *Parser) parseDated(value string) (time.Time, bool) {
	for _, layout := range datedLayouts {
		if ts, err := time.ParseInLocation(layout, value, p.loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// cutField splits s at the first run of whitespace.
func cutField(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	idx := strings.IndexAny(s, " \t")
	if idx == -1 {
		return s, ""
	}
	return s[:idx], strings.TrimLeft(s[idx:], " \t")
}

// isDateShaped reports whether tok looks like a date: at least three
// non-empty hyphen-separated segments, and either a digit somewhere (like
// "2024-01-05" or "2024-13-45") or four or more segments. Three-word
// commands such as "update-ca-certificates" are not date-shaped.
func isDateShaped(tok string) bool {
	parts := strings.Split(tok, "-")
	if len(parts) < 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return len(parts) >= 4 || strings.ContainsAny(tok, "0123456789")
}

// isNumericDate reports whether a date-shaped token starts with digits.
func isNumericDate(tok string) bool {
	if !isDateShaped(tok) {
		return false
	}
	year, _, _ := strings.Cut(tok, "-")
	_, err := strconv.Atoi(year)
	return err == nil
}

// isClockShaped reports whether tok is made of digits and at least one colon.
func isClockShaped(tok string) bool {
	if !strings.Contains(tok, ":") {
		return false
	}
	for _, r := range tok {
		if r != ':' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// hasUnescapedTrailingBackslash reports whether s ends in an odd number of
// backslashes.
func hasUnescapedTrailingBackslash(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
