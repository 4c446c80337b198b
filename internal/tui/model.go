package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/wrapped/internal/nav"
)

// KeyMap holds the slide navigation bindings. It implements help.KeyMap.
type KeyMap struct {
	Next     key.Binding
	Previous key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the fixed bindings: n or space for next, p for
// previous and q to quit.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("n", " "),
			key.WithHelp("n/space", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// command decodes a key message with the bindings.
func (k KeyMap) command(msg tea.KeyMsg) nav.Command {
	switch {
	case key.Matches(msg, k.Next):
		return nav.Next
	case key.Matches(msg, k.Previous):
		return nav.Previous
	case key.Matches(msg, k.Quit):
		return nav.Quit
	default:
		return nav.None
	}
}

// Model is the full-screen Bubble Tea front end. Every state change goes
// through nav.Transition.
type Model struct {
	session nav.Session
	theme   Theme
	keys    KeyMap
	help    help.Model
	logger  *slog.Logger

	state   nav.State
	visited []int

	width  int // Terminal width
	height int // Terminal height
}

// NewModel creates a Model showing the first slide.
func NewModel(session nav.Session, theme Theme, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Model{
		session: session,
		theme:   theme,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		logger:  logger,
		visited: []int{0},
	}
}

// State returns the navigation state.
func (m Model) State() nav.State {
	return m.state
}

// Visited returns the slide indices shown so far, with consecutive
// repeats collapsed.
func (m Model) Visited() []int {
	out := make([]int, len(m.visited))
	copy(out, m.visited)
	return out
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.keys.command(msg)
	next := nav.Transition(m.state, cmd, m.session.Deck.Len())
	m.log().Debug("key handled",
		"key", msg.String(),
		"command", cmd.String(),
		"from", m.state.Index,
		"to", next.Index,
	)
	m.state = next

	if m.state.Terminated {
		m.log().Info("session ended", "visited", len(m.visited))
		return m, tea.Quit
	}
	if n := len(m.visited); n == 0 || m.visited[n-1] != m.state.Index {
		m.visited = append(m.visited, m.state.Index)
	}
	return m, nil
}

// log returns the model's logger, or a discarding one for a zero Model.
func (m Model) log() *slog.Logger {
	if m.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m.logger
}

// View implements tea.Model.
func (m Model) View() string {
	if m.state.Terminated {
		return ""
	}

	frame := m.session.Frame(m.state.Index)

	var b strings.Builder
	b.WriteString(m.theme.Body(frame.Content, m.width))
	b.WriteString("\n\n")
	b.WriteString(m.theme.PageIndicator(frame))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// RunProgram runs m full screen on the given input and output until the
// user quits, and returns the final model.
func RunProgram(ctx context.Context, m Model, in io.Reader, out io.Writer) (Model, error) {
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("TUI error: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("unexpected model type %T", final)
	}
	return fm, nil
}
