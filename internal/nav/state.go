// Package nav drives slide navigation: a small state machine over the
// current slide index, fed by key presses.
package nav

// Command is a navigation command decoded from a key press.
type Command int

const (
	None Command = iota
	Next
	Previous
	Quit
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case None:
		return "none"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Key is a single key press. Printable keys are their rune; space is ' '.
type Key rune

// Space is the space bar.
const Space Key = ' '

// keyTable is the fixed, case-sensitive key mapping.
var keyTable = map[Key]Command{
	'n':   Next,
	Space: Next,
	'p':   Previous,
	'q':   Quit,
}

// Lookup maps a key to its command. Unmapped keys return None.
func Lookup(k Key) Command {
	return keyTable[k]
}

// State is the navigation state: Active(Index) or Terminated.
type State struct {
	Index      int
	Terminated bool
}

// Transition applies cmd to s for a deck of n slides. Next and Previous
// clamp at the ends without wrapping, Quit terminates, and a terminated
// state absorbs every command.
func Transition(s State, cmd Command, n int) State {
	if s.Terminated {
		return s
	}
	switch cmd {
	case Next:
		if s.Index < n-1 {
			s.Index++
		}
	case Previous:
		if s.Index > 0 {
			s.Index--
		}
	case Quit:
		s.Terminated = true
	}
	return s
}
