package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/runger/wrapped/internal/nav"
)

// clearScreen moves the cursor home and clears the screen.
const clearScreen = "\033[H\033[2J"

// keysHint is the line-mode key reminder.
const keysHint = "n/space next · p previous · q quit"

// Writer renders frames as text on a terminal or any writer. It
// implements nav.Renderer.
type Writer struct {
	out   io.Writer
	theme Theme
	width int
	clear bool
	hints bool
	crlf  bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWidth cuts lines wider than width display cells.
func WithWidth(width int) WriterOption {
	return func(w *Writer) { w.width = width }
}

// WithClear clears the screen before each frame.
func WithClear() WriterOption {
	return func(w *Writer) { w.clear = true }
}

// WithKeyHints appends the key reminder under the page indicator.
func WithKeyHints() WriterOption {
	return func(w *Writer) { w.hints = true }
}

// WithCRLF ends lines with \r\n, as needed while the tty is in raw mode.
func WithCRLF() WriterOption {
	return func(w *Writer) { w.crlf = true }
}

// NewWriter creates a Writer. A zero Theme is treated as plain.
func NewWriter(out io.Writer, theme Theme, opts ...WriterOption) *Writer {
	if theme.styles == nil {
		theme = PlainTheme()
	}
	w := &Writer{out: out, theme: theme}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Render implements nav.Renderer.
func (w *Writer) Render(f nav.Frame) error {
	var b strings.Builder
	if w.clear && !w.theme.Plain() {
		b.WriteString(clearScreen)
	}
	b.WriteString(w.theme.Body(f.Content, w.width))
	b.WriteString("\n\n")
	b.WriteString(w.theme.PageIndicator(f))
	if w.hints {
		b.WriteString("  ")
		b.WriteString(keysHint)
	}
	b.WriteString("\n")
	if w.clear && w.theme.Plain() {
		// Without cursor control, separate frames visually.
		b.WriteString(strings.Repeat("─", 20))
		b.WriteString("\n")
	}

	text := b.String()
	if w.crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	if _, err := io.WriteString(w.out, text); err != nil {
		return fmt.Errorf("failed to write slide %d: %w", f.Index, err)
	}
	return nil
}
