package slides

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/runger/wrapped/internal/sanitize"
	"github.com/runger/wrapped/internal/stats"
)

const (
	maxCommandWidth = 64 // display columns for a full command line
	labelWidth      = 12 // display columns for bar chart labels
	maxBarWidth     = 40
	barRune         = "█"
	topDaysShown    = 5
)

// Slide is one screen of the summary.
type Slide struct {
	ID     string
	Title  string
	Render func(r *stats.Reports) Content
}

// Deck is the ordered, fixed sequence of slides shown in a session.
type Deck []Slide

// Option configures DefaultDeck.
type Option func(*view)

// WithRedaction controls whether secrets in command lines are masked on
// screen. It is on by default.
func WithRedaction(on bool) Option {
	return func(v *view) { v.redact = on }
}

// view holds the display settings shared by the slide renderers.
type view struct {
	redact bool
}

// command prepares command text for a slide within width columns.
func (v view) command(cmd string, width int) string {
	return MiddleTruncate(oneLine(sanitize.ForDisplay(cmd, v.redact)), width)
}

// DefaultDeck returns the standard slides in display order.
func DefaultDeck(opts ...Option) Deck {
	v := view{redact: true}
	for _, opt := range opts {
		opt(&v)
	}
	return Deck{
		{ID: "overview", Title: "Your Year in the Terminal", Render: v.renderOverview},
		{ID: "top-commands", Title: "Your Top Hits", Render: v.renderTopCommands},
		{ID: "hourly", Title: "Around the Clock", Render: v.renderHourly},
		{ID: "daily", Title: "Day by Day", Render: v.renderDaily},
		{ID: "complex", Title: "Command Symphonies", Render: v.renderComplex},
		{ID: "aliases", Title: "Alias Candidates", Render: v.renderAliases},
		{ID: "narrative", Title: "Your Terminal Prime Time", Render: v.renderNarrative},
	}
}

// Len returns the number of slides.
func (d Deck) Len() int {
	return len(d)
}

// Render renders slide i. An index outside the deck or a nil report yields
// the placeholder content.
func (d Deck) Render(i int, r *stats.Reports) Content {
	if i < 0 || i >= len(d) {
		return placeholder("")
	}
	s := d[i]
	if r == nil || s.Render == nil {
		return placeholder(s.Title)
	}
	c := s.Render(r)
	if c.Title == "" {
		c.Title = s.Title
	}
	return c
}

func (v view) renderOverview(r *stats.Reports) Content {
	const title = "Your Year in the Terminal"
	if r.TotalCommands == 0 {
		return placeholder(title)
	}

	lines := banner(r)
	lines = append(lines,
		stat("Total commands", r.TotalCommands),
		stat("Unique commands", r.UniqueCommands),
		stat("Distinct programs", r.UniqueBase),
	)
	if r.HasTimestamps() {
		lines = append(lines, Line{
			{Text: padRight("Period", 20), Style: Muted},
			{Text: fmt.Sprintf("%s → %s", r.FirstSeen.Format(stats.DayLayout), r.LastSeen.Format(stats.DayLayout)), Style: Emphasis},
		})
	}
	lines = append(lines, blank(), line(Accent, commandCountComment(r.TotalCommands)))

	return Content{Title: title, Lines: lines}
}

func (v view) renderTopCommands(r *stats.Reports) Content {
	const title = "Your Top Hits"
	if len(r.TopCommands) == 0 || r.TotalCommands == 0 {
		return placeholder(title)
	}

	lines := make([]Line, 0, len(r.TopCommands)+2)
	for _, c := range r.TopCommands {
		pct := float64(c.Count) / float64(r.TotalCommands) * 100
		lines = append(lines, Line{
			{Text: padRight(v.command(c.Command, labelWidth), labelWidth), Style: Emphasis},
			{Text: fmt.Sprintf(" %6d │ ", c.Count), Style: Plain},
			{Text: strings.Repeat(barRune, percentBar(pct)), Style: Bar},
			{Text: fmt.Sprintf(" %.1f%%", pct), Style: Muted},
		})
	}
	lines = append(lines, blank(), line(Accent, topCommandComment(r.TopCommands[0].Command)))

	return Content{Title: title, Lines: lines}
}

func (v view) renderHourly(r *stats.Reports) Content {
	const title = "Around the Clock"
	if !r.HasTimestamps() {
		return placeholder(title)
	}

	peak := maxInt(r.HourlyActivity[:])
	lines := make([]Line, 0, len(r.HourlyActivity))
	for hour, count := range r.HourlyActivity {
		style := Bar
		if hour == r.BusiestHour {
			style = Warning
		}
		lines = append(lines, Line{
			{Text: fmt.Sprintf("%02d:00 ", hour), Style: Muted},
			{Text: fmt.Sprintf("%6d │ ", count), Style: Plain},
			{Text: strings.Repeat(barRune, scaledBar(count, peak)), Style: style},
		})
	}

	return Content{Title: title, Lines: lines}
}

func (v view) renderDaily(r *stats.Reports) Content {
	const title = "Day by Day"
	if len(r.Days) == 0 {
		return placeholder(title)
	}

	avg := float64(r.Timestamped) / float64(len(r.Days))
	lines := []Line{
		stat("Active days", len(r.Days)),
		{
			{Text: padRight("Busiest day", 20), Style: Muted},
			{Text: fmt.Sprintf("%s (%d commands)", r.BusiestDay, r.BusiestDayCount), Style: Emphasis},
		},
		{
			{Text: padRight("Average per day", 20), Style: Muted},
			{Text: fmt.Sprintf("%.1f", avg), Style: Emphasis},
		},
		blank(),
	}

	for _, d := range busiestDays(r.Days, topDaysShown) {
		lines = append(lines, Line{
			{Text: padRight(d.Day, labelWidth), Style: Plain},
			{Text: fmt.Sprintf(" %6d", d.Count), Style: Emphasis},
		})
	}
	lines = append(lines, blank())

	peak := maxInt(r.WeekdayActivity[:])
	for day := time.Sunday; day <= time.Saturday; day++ {
		count := r.WeekdayActivity[day]
		lines = append(lines, Line{
			{Text: padRight(day.String()[:3], 4), Style: Muted},
			{Text: fmt.Sprintf("%6d │ ", count), Style: Plain},
			{Text: strings.Repeat(barRune, scaledBar(count, peak)), Style: Bar},
		})
	}

	return Content{Title: title, Lines: lines}
}

func (v view) renderComplex(r *stats.Reports) Content {
	const title = "Command Symphonies"
	if len(r.ComplexCommands) == 0 {
		return placeholder(title)
	}

	lines := make([]Line, 0, 2*len(r.ComplexCommands)+1)
	for i, c := range r.ComplexCommands {
		lines = append(lines,
			Line{
				{Text: fmt.Sprintf("%2d. ", i+1), Style: Muted},
				{Text: fmt.Sprintf("complexity %d", c.Score), Style: Emphasis},
			},
			line(Accent, "    "+v.command(c.Command, maxCommandWidth)),
		)
	}
	lines = append(lines, blank(), line(Plain, complexityComment(r.ComplexCommands[0].Score)))
	if r.Destructive > 0 {
		top := r.DestructiveKinds[0]
		lines = append(lines, line(Warning, fmt.Sprintf(
			"Living dangerously: %d destructive commands, mostly %s (%d).",
			r.Destructive, top.Command, top.Count)))
	}

	return Content{Title: title, Lines: lines}
}

func (v view) renderAliases(r *stats.Reports) Content {
	const title = "Alias Candidates"
	if len(r.AliasCandidates) == 0 {
		return placeholder(title)
	}

	lines := []Line{
		line(Muted, "Short and frequent: these look like aliases you lean on."),
		blank(),
	}
	for _, c := range r.AliasCandidates {
		lines = append(lines, Line{
			{Text: padRight(v.command(c.Command, labelWidth), labelWidth), Style: Emphasis},
			{Text: fmt.Sprintf(" used %d times", c.Count), Style: Plain},
		})
	}

	return Content{Title: title, Lines: lines}
}

// timeOfDay buckets used by the narrative slide.
var timeOfDay = []struct {
	name     string
	from, to int
}{
	{"Night (00-05)", 0, 5},
	{"Morning (05-12)", 5, 12},
	{"Afternoon (12-18)", 12, 18},
	{"Evening (18-24)", 18, 24},
}

func (v view) renderNarrative(r *stats.Reports) Content {
	const title = "Your Terminal Prime Time"
	if !r.HasTimestamps() {
		return placeholder(title)
	}

	lines := []Line{
		{
			{Text: "Most active hour: ", Style: Muted},
			{Text: fmt.Sprintf("%02d:00 (%d commands)", r.BusiestHour, r.BusiestHourCount), Style: Emphasis},
		},
		line(Accent, hourComment(r.BusiestHour)),
		blank(),
	}

	for _, b := range timeOfDay {
		count := 0
		for h := b.from; h < b.to; h++ {
			count += r.HourlyActivity[h]
		}
		pct := float64(count) / float64(r.Timestamped) * 100
		lines = append(lines, Line{
			{Text: padRight(b.name, 20), Style: Muted},
			{Text: fmt.Sprintf("%5.1f%%", pct), Style: Emphasis},
		})
	}

	if r.NightOwlCommands > 0 {
		lines = append(lines, blank(), line(Warning,
			fmt.Sprintf("Night owl alert! %d commands between midnight and 5 AM.", r.NightOwlCommands)))
	}

	return Content{Title: title, Lines: lines}
}

func stat(label string, value int) Line {
	return Line{
		{Text: padRight(label, 20), Style: Muted},
		{Text: fmt.Sprintf("%d", value), Style: Emphasis},
	}
}

// percentBar maps a percentage to a bar of at most 50 cells.
func percentBar(pct float64) int {
	n := int(pct / 2)
	if n < 1 && pct > 0 {
		n = 1
	}
	return n
}

// scaledBar scales count against peak to at most maxBarWidth cells.
func scaledBar(count, peak int) int {
	if count <= 0 || peak <= 0 {
		return 0
	}
	n := count * maxBarWidth / peak
	if n < 1 {
		n = 1
	}
	return n
}

func maxInt(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// busiestDays returns up to n days, most commands first, earlier day on ties.
func busiestDays(days []stats.DayCount, n int) []stats.DayCount {
	ranked := make([]stats.DayCount, len(days))
	copy(ranked, days)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// oneLine flattens a multiline command for display.
func oneLine(cmd string) string {
	return strings.ReplaceAll(cmd, "\n", " ↵ ")
}
