package slides

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/runger/wrapped/internal/stats"
)

// bannerArt is the block-letter header of the overview slide.
var bannerArt = []string{
	"  ▄▄▄█████▓▓█████  ██▀███   ███▄ ▄███▓ ██▓ ███▄    █  ▄▄▄",
	"  ▓  ██▒ ▓▒▓█   ▀ ▓██ ▒ ██▒▓██▒▀█▀ ██▒▓██▒ ██ ▀█   █ ▒████▄",
	"  ▒ ▓██░ ▒░▒███   ▓██ ░▄█ ▒▓██    ▓██░▒██▒▓██  ▀█ ██▒▒██  ▀█▄",
	"  ░ ▓██▓ ░ ▒▓█  ▄ ▒██▀▀█▄  ▒██    ▒██ ░██░▓██▒  ▐▌██▒░██▄▄▄▄██",
	"    ▒██▒ ░ ░▒████▒░██▓ ▒██▒▒██▒   ░██▒░██░▒██░   ▓██░ ▓█   ▓██▒",
	"    ▒ ░░   ░░ ▒░ ░░ ▒▓ ░▒▓░░ ▒░   ░  ░░▓  ░ ▒░   ▒ ▒  ▒▒   ▓▒█░",
	"      ░     ░ ░  ░  ░▒ ░ ▒░░  ░      ░ ▒ ░░ ░░   ░ ▒░  ▒   ▒▒ ░",
	"    ░         ░     ░░   ░ ░      ░    ▒ ░   ░   ░ ░   ░   ▒",
	"              ░  ░   ░            ░    ░           ░       ░  ░",
}

// bannerWidth is the display width of the widest art row.
var bannerWidth = func() int {
	w := 0
	for _, row := range bannerArt {
		if rw := runewidth.StringWidth(row); rw > w {
			w = rw
		}
	}
	return w
}()

// banner returns the header block: the art, then a spaced caption carrying
// the year of the latest command when one is known. Every row is padded to
// the same width so a styled background forms a solid block.
func banner(r *stats.Reports) []Line {
	caption := spaced("WRAPPED")
	if r.HasTimestamps() {
		caption += "   " + spaced(fmt.Sprintf("%d", r.LastSeen.Year()))
	}

	lines := make([]Line, 0, len(bannerArt)+3)
	for _, row := range bannerArt {
		lines = append(lines, line(Title, padRight(row, bannerWidth)))
	}
	lines = append(lines,
		line(Title, strings.Repeat(" ", bannerWidth)),
		line(Title, padRight(center(caption, bannerWidth), bannerWidth)),
		blank(),
	)
	return lines
}

// spaced puts a space between the characters of s: "2024" -> "2 0 2 4".
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

// center left-pads s so it sits in the middle of width columns.
func center(s string, width int) string {
	pad := (width - runewidth.StringWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
