// Package tui draws slides on the terminal: a line-mode writer driven by
// nav.Controller and a full-screen Bubble Tea model.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/runger/wrapped/internal/nav"
	"github.com/runger/wrapped/internal/slides"
)

// Theme maps slide style hints to terminal styles. A plain theme emits the
// text untouched.
type Theme struct {
	plain  bool
	styles map[slides.Style]lipgloss.Style
}

// PlainTheme returns a theme that never emits escape sequences.
func PlainTheme() Theme {
	return Theme{plain: true}
}

// NewTheme builds the styled theme on top of r. The renderer's color
// profile decides which escape sequences are emitted.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{styles: map[slides.Style]lipgloss.Style{
		slides.Plain:    r.NewStyle().Foreground(lipgloss.Color("252")),
		slides.Title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1),
		slides.Emphasis: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		slides.Muted:    r.NewStyle().Foreground(lipgloss.Color("241")),
		slides.Bar:      r.NewStyle().Foreground(lipgloss.Color("42")),
		slides.Warning:  r.NewStyle().Foreground(lipgloss.Color("214")),
		slides.Accent:   r.NewStyle().Foreground(lipgloss.Color("39")),
	}}
}

// NewRendererFor returns a lipgloss renderer for w with the color profile
// detected from tty. A nil tty detects from w.
func NewRendererFor(w io.Writer, tty io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if tty == nil {
		tty = w
	}
	r.SetColorProfile(termenv.NewOutput(tty).ColorProfile())
	return r
}

// Plain reports whether the theme emits unstyled text.
func (t Theme) Plain() bool {
	return t.plain
}

// span renders one span.
func (t Theme) span(s slides.Span) string {
	if t.plain {
		return s.Text
	}
	style, ok := t.styles[s.Style]
	if !ok {
		return s.Text
	}
	return style.Render(s.Text)
}

// Body renders a slide's title and lines. Lines wider than width are cut
// when width is positive.
func (t Theme) Body(c slides.Content, width int) string {
	var b strings.Builder
	b.WriteString(t.span(slides.Span{Text: c.Title, Style: slides.Title}))
	b.WriteString("\n\n")
	for i, l := range c.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.line(clip(l, width)))
	}
	return b.String()
}

func (t Theme) line(l slides.Line) string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(t.span(s))
	}
	return b.String()
}

// PageIndicator renders "slide 3/7".
func (t Theme) PageIndicator(f nav.Frame) string {
	return t.span(slides.Span{
		Text:  fmt.Sprintf("slide %d/%d", f.Index+1, f.Total),
		Style: slides.Muted,
	})
}

// clip cuts a line to width display cells, dropping whole spans past the
// limit and truncating the span that crosses it.
func clip(l slides.Line, width int) slides.Line {
	if width <= 0 || runewidth.StringWidth(l.Text()) <= width {
		return l
	}
	out := make(slides.Line, 0, len(l))
	remaining := width
	for _, s := range l {
		w := runewidth.StringWidth(s.Text)
		if w <= remaining {
			out = append(out, s)
			remaining -= w
			continue
		}
		if remaining > 0 {
			out = append(out, slides.Span{Text: runewidth.Truncate(s.Text, remaining, ""), Style: s.Style})
		}
		break
	}
	return out
}
