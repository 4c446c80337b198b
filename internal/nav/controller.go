package nav

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/runger/wrapped/internal/slides"
	"github.com/runger/wrapped/internal/stats"
)

// KeyReader blocks until the next key press.
type KeyReader interface {
	ReadKey() (Key, error)
}

// Frame is everything a renderer needs to draw one slide.
type Frame struct {
	Index   int
	Total   int
	Content slides.Content
}

// Renderer draws a frame on the terminal.
type Renderer interface {
	Render(f Frame) error
}

// Session is the per-run context shared by the front ends: the deck and
// the reports computed once at startup.
type Session struct {
	Deck    slides.Deck
	Reports *stats.Reports
}

// Frame renders slide i of the session.
func (s Session) Frame(i int) Frame {
	return Frame{
		Index:   i,
		Total:   s.Deck.Len(),
		Content: s.Deck.Render(i, s.Reports),
	}
}

// Controller runs the interactive loop: render the current slide, block on
// a key, apply the transition, repeat until quit.
type Controller struct {
	session Session
	keys    KeyReader
	out     Renderer
	logger  *slog.Logger

	state   State
	visited []int
}

// NewController creates a Controller in state Active(0). A nil logger
// discards log output.
func NewController(session Session, keys KeyReader, out Renderer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		session: session,
		keys:    keys,
		out:     out,
		logger:  logger,
	}
}

// State returns the current navigation state.
func (c *Controller) State() State {
	return c.state
}

// Visited returns the slide indices shown so far, with consecutive
// repeats collapsed.
func (c *Controller) Visited() []int {
	out := make([]int, len(c.visited))
	copy(out, c.visited)
	return out
}

// Run blocks until the user quits. It returns nil after a quit and the
// reader's error if reading a key fails. Render failures are logged and
// never stop the loop.
func (c *Controller) Run() error {
	for !c.state.Terminated {
		c.render()

		k, err := c.keys.ReadKey()
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}

		cmd := Lookup(k)
		next := Transition(c.state, cmd, c.session.Deck.Len())
		c.logger.Debug("key handled",
			"key", string(rune(k)),
			"command", cmd.String(),
			"from", c.state.Index,
			"to", next.Index,
		)
		c.state = next
	}

	c.logger.Info("session ended", "visited", len(c.visited))
	return nil
}

func (c *Controller) render() {
	i := c.state.Index
	if n := len(c.visited); n == 0 || c.visited[n-1] != i {
		c.visited = append(c.visited, i)
	}
	if err := c.out.Render(c.session.Frame(i)); err != nil {
		c.logger.Warn("render failed", "slide", i, "error", err)
	}
}
