// Package slides defines the fixed deck of summary slides. Each slide is a
// pure function from the aggregate reports to styled text.
package slides

import "strings"

// Style is a rendering hint. Sinks that cannot style text ignore it.
type Style int

const (
	Plain Style = iota
	Title
	Emphasis
	Muted
	Bar
	Warning
	Accent
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case Title:
		return "title"
	case Emphasis:
		return "emphasis"
	case Muted:
		return "muted"
	case Bar:
		return "bar"
	case Warning:
		return "warning"
	case Accent:
		return "accent"
	default:
		return "unknown"
	}
}

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Line is one output line made of spans.
type Line []Span

// Text returns the line without style hints.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Content is what a slide renders.
type Content struct {
	Title string
	Lines []Line
}

// PlainText returns the content as unstyled text, title first.
func (c Content) PlainText() string {
	var b strings.Builder
	b.WriteString(c.Title)
	for _, l := range c.Lines {
		b.WriteByte('\n')
		b.WriteString(l.Text())
	}
	return b.String()
}

// NoData is the placeholder shown when a slide's report is empty.
const NoData = "No data for this slide yet. Run a few more commands!"

func line(style Style, text string) Line {
	return Line{{Text: text, Style: style}}
}

func blank() Line {
	return Line{}
}

func placeholder(title string) Content {
	return Content{Title: title, Lines: []Line{line(Muted, NoData)}}
}
