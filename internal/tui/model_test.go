package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/wrapped/internal/nav"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keySpace() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

// press feeds msgs to m and returns the final model and the last command.
func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func TestModel_Initial(t *testing.T) {
	t.Parallel()

	m := NewModel(testSession(), PlainTheme(), nil)

	assert.Nil(t, m.Init())
	assert.Equal(t, nav.State{Index: 0}, m.State())
	assert.Equal(t, []int{0}, m.Visited())
	assert.Contains(t, m.View(), "Your Year in the Terminal")
	assert.Contains(t, m.View(), "slide 1/7")
}

func TestModel_ZeroValueHandlesKeys(t *testing.T) {
	t.Parallel()

	m := Model{session: testSession(), keys: DefaultKeyMap()}

	m, cmd := press(t, m, keyRunes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.State().Index)
	assert.Equal(t, []int{1}, m.Visited())

	m, cmd = press(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.State().Terminated)

	empty, _ := press(t, Model{}, keyRunes("n"))
	assert.Equal(t, []int{0}, empty.Visited())
}

func TestModel_NextPrevQuit(t *testing.T) {
	t.Parallel()

	m := NewModel(testSession(), PlainTheme(), nil)

	m, cmd := press(t, m, keyRunes("n"), keySpace(), keyRunes("p"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.State().Index)
	assert.Equal(t, []int{0, 1, 2, 1}, m.Visited())
	assert.Contains(t, m.View(), "slide 2/7")

	m, cmd = press(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.State().Terminated)
	assert.Empty(t, m.View())
}

func TestModel_ClampsAtEnds(t *testing.T) {
	t.Parallel()

	m := NewModel(testSession(), PlainTheme(), nil)

	m, _ = press(t, m, keyRunes("p"))
	assert.Equal(t, 0, m.State().Index)

	n := testSession().Deck.Len()
	for i := 0; i < n+3; i++ {
		m, _ = press(t, m, keyRunes("n"))
	}
	assert.Equal(t, n-1, m.State().Index)
	assert.False(t, m.State().Terminated)
}

func TestModel_IgnoresOtherKeys(t *testing.T) {
	t.Parallel()

	m := NewModel(testSession(), PlainTheme(), nil)

	msgs := []tea.Msg{
		keyRunes("x"),
		keyRunes("N"),
		keyRunes("Q"),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyEsc},
	}
	m, cmd := press(t, m, msgs...)

	assert.Nil(t, cmd)
	assert.Equal(t, nav.State{Index: 0}, m.State())
	assert.Equal(t, []int{0}, m.Visited())
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	m := NewModel(testSession(), PlainTheme(), nil)
	m, cmd := press(t, m, tea.WindowSizeMsg{Width: 10, Height: 20})

	assert.Nil(t, cmd)
	assert.Equal(t, 10, m.width)
	assert.Equal(t, 20, m.height)
	assert.Equal(t, 10, m.help.Width)
}

func TestModel_ViewShowsHelp(t *testing.T) {
	t.Parallel()

	m := NewModel(testSession(), PlainTheme(), nil)
	view := m.View()

	assert.Contains(t, view, "next")
	assert.Contains(t, view, "previous")
	assert.Contains(t, view, "quit")
}

func TestKeyMap_Command(t *testing.T) {
	t.Parallel()

	k := DefaultKeyMap()

	tests := []struct {
		msg  tea.KeyMsg
		want nav.Command
	}{
		{keyRunes("n"), nav.Next},
		{keySpace(), nav.Next},
		{keyRunes("p"), nav.Previous},
		{keyRunes("q"), nav.Quit},
		{keyRunes("z"), nav.None},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, k.command(tt.msg), tt.msg.String())
	}
	assert.Len(t, k.FullHelp(), 1)
	assert.Len(t, k.ShortHelp(), 3)
}
