package slides

// commandCountComment grades the size of the whole history.
func commandCountComment(total int) string {
	switch {
	case total < 20:
		return "Freshly hatched. Every history starts with a single keystroke."
	case total < 100:
		return "Warming up. The prompt is starting to feel like home."
	case total < 500:
		return "Lift-off! Your terminal habit is taking shape."
	case total < 1000:
		return "Terminal warrior in training."
	case total < 5000:
		return "Power user detected. That keyboard must be glowing."
	case total < 15000:
		return "Terminal virtuoso. You probably dream in shell."
	default:
		return "Legendary. You shall not GUI!"
	}
}

var topCommandComments = map[string]string{
	"git":     "Making history one commit at a time.",
	"cd":      "A true directory explorer. Home is where ~ is.",
	"ls":      "Look first, ask questions later.",
	"vim":     "Your escape key has seen things.",
	"nvim":    "Modal editing all the way down.",
	"rm":      "Living dangerously. Backups, right?",
	"make":    "Make it work, make it right, make it fast.",
	"docker":  "Shipping containers like a harbour master.",
	"kubectl": "The cluster answers to you now.",
	"go":      "go build, go test, go home.",
}

// topCommandComment reacts to the most used base command.
func topCommandComment(base string) string {
	if c, ok := topCommandComments[base]; ok {
		return c
	}
	return "Your fingers could type this one in their sleep."
}

// complexityComment grades a complexity score.
func complexityComment(score int) string {
	switch {
	case score < 5:
		return "Simple and sweet."
	case score < 10:
		return "Getting fancy there."
	case score < 15:
		return "Now we're juggling metacharacters."
	case score < 20:
		return "Regular expression royalty."
	default:
		return "Maximum complexity achieved. Perl would be proud."
	}
}

// hourComment describes the busiest hour of the day.
func hourComment(hour int) string {
	switch {
	case hour < 0:
		return ""
	case hour < 5:
		return "Night owl! Bug hunting in the dark?"
	case hour < 8:
		return "Early bird gets the merge."
	case hour < 12:
		return "Coffee-powered morning sessions."
	case hour < 14:
		return "Lunch break hacker."
	case hour < 18:
		return "Peak afternoon productivity."
	case hour < 22:
		return "Evening excellence."
	default:
		return "Midnight commander."
	}
}
