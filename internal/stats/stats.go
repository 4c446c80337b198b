// Package stats computes the aggregate reports shown by the slides.
package stats

import (
	"sort"
	"time"

	"github.com/runger/wrapped/internal/cmdutil"
	"github.com/runger/wrapped/internal/history"
	"github.com/runger/wrapped/internal/sanitize"
)

// Ranking and heuristic constants.
const (
	// TopCommandsN is the length of the frequency ranking.
	TopCommandsN = 10
	// ComplexCommandsN is the length of the complexity ranking.
	ComplexCommandsN = 10
	// AliasMaxLen: alias candidates have base commands shorter than this.
	AliasMaxLen = 4
	// AliasMinFrequency: alias candidates are used more often than this.
	AliasMinFrequency = 4
	// NightOwlEndHour: commands in [0, NightOwlEndHour) are night-owl commands.
	NightOwlEndHour = 5
)

// DayLayout is the key format of DailyActivity.
const DayLayout = "2006-01-02"

// CommandCount is a base command and how often it ran.
type CommandCount struct {
	Command string
	Count   int
}

// DayCount is a calendar day and how many commands ran on it.
type DayCount struct {
	Day   string
	Count int
}

// ScoredCommand is a full command line with its complexity score.
type ScoredCommand struct {
	Command string
	Base    string
	Score   int
	Line    int
}

// Reports is the immutable bundle of aggregates built once per run.
// Callers must treat every field, including maps and slices, as read-only.
type Reports struct {
	TotalCommands  int // records aggregated
	UniqueCommands int // distinct command lines
	UniqueBase     int // distinct base commands
	Timestamped    int // records carrying a timestamp

	CommandFrequency map[string]int
	TopCommands      []CommandCount // count desc, first-seen order on ties

	HourlyActivity  [24]int
	DailyActivity   map[string]int // keyed by DayLayout
	Days            []DayCount     // ascending by day
	WeekdayActivity [7]int         // indexed by time.Weekday

	ComplexCommands []ScoredCommand // score desc, input order on ties
	AliasCandidates []CommandCount  // count desc, first-seen order on ties

	Destructive      int            // commands matching a destructive pattern
	DestructiveKinds []CommandCount // pattern kind and count, ranked like TopCommands

	BusiestHour      int // -1 when no record has a timestamp
	BusiestHourCount int
	BusiestDay       string
	BusiestDayCount  int
	NightOwlCommands int

	FirstSeen time.Time
	LastSeen  time.Time
}

// HasTimestamps reports whether any time-based report has data.
func (r *Reports) HasTimestamps() bool {
	return r.Timestamped > 0
}

// Score is the complexity of a command line: shell metacharacters, plus
// unquoted pipes, plus flag words. It depends only on the text.
func Score(cmd string) int {
	return cmdutil.CountSpecialChars(cmd) + cmdutil.CountPipes(cmd) + cmdutil.CountFlags(cmd)
}

// Aggregate builds the reports from records in a single pass plus ranking.
// An empty input yields zero-valued reports.
func Aggregate(records []history.Record) *Reports {
	r := &Reports{
		CommandFrequency: make(map[string]int),
		DailyActivity:    make(map[string]int),
		TopCommands:      []CommandCount{},
		Days:             []DayCount{},
		ComplexCommands:  []ScoredCommand{},
		AliasCandidates:  []CommandCount{},
		DestructiveKinds: []CommandCount{},
		BusiestHour:      -1,
	}

	var baseOrder, kindOrder []string
	kindFreq := make(map[string]int)
	seenLines := make(map[string]struct{})
	scored := make([]ScoredCommand, 0, len(records))

	for _, rec := range records {
		r.TotalCommands++
		seenLines[rec.Command] = struct{}{}

		if rec.Base != "" {
			if _, ok := r.CommandFrequency[rec.Base]; !ok {
				baseOrder = append(baseOrder, rec.Base)
			}
			r.CommandFrequency[rec.Base]++
		}

		scored = append(scored, ScoredCommand{
			Command: rec.Command,
			Base:    rec.Base,
			Score:   Score(rec.Command),
			Line:    rec.Line,
		})

		if kind, ok := sanitize.Destructive(rec.Command); ok {
			r.Destructive++
			if kindFreq[kind] == 0 {
				kindOrder = append(kindOrder, kind)
			}
			kindFreq[kind]++
		}

		if rec.HasTimestamp() {
			r.addTimestamp(rec.Timestamp)
		}
	}

	r.UniqueCommands = len(seenLines)
	r.UniqueBase = len(baseOrder)

	r.TopCommands = rankCommands(baseOrder, r.CommandFrequency, TopCommandsN, nil)
	r.AliasCandidates = rankCommands(baseOrder, r.CommandFrequency, 0, isAliasCandidate)
	r.ComplexCommands = topComplex(scored, ComplexCommandsN)
	r.DestructiveKinds = rankCommands(kindOrder, kindFreq, 0, nil)
	r.finishTime()

	return r
}

func (r *Reports) addTimestamp(ts time.Time) {
	r.Timestamped++
	r.HourlyActivity[ts.Hour()]++
	r.DailyActivity[ts.Format(DayLayout)]++
	r.WeekdayActivity[ts.Weekday()]++
	if ts.Hour() < NightOwlEndHour {
		r.NightOwlCommands++
	}
	if r.FirstSeen.IsZero() || ts.Before(r.FirstSeen) {
		r.FirstSeen = ts
	}
	if ts.After(r.LastSeen) {
		r.LastSeen = ts
	}
}

// finishTime derives the ordered day list and the busiest hour and day.
func (r *Reports) finishTime() {
	for hour, count := range r.HourlyActivity {
		if count > r.BusiestHourCount {
			r.BusiestHour = hour
			r.BusiestHourCount = count
		}
	}

	for day, count := range r.DailyActivity {
		r.Days = append(r.Days, DayCount{Day: day, Count: count})
	}
	sort.Slice(r.Days, func(i, j int) bool {
		return r.Days[i].Day < r.Days[j].Day
	})
	for _, d := range r.Days {
		if d.Count > r.BusiestDayCount {
			r.BusiestDay = d.Day
			r.BusiestDayCount = d.Count
		}
	}
}

func isAliasCandidate(base string, count int) bool {
	return len(base) < AliasMaxLen && count > AliasMinFrequency
}

// rankCommands orders bases by count, keeping first-seen order on ties.
// A limit of 0 keeps every entry accepted by keep (nil keeps all).
func rankCommands(order []string, freq map[string]int, limit int, keep func(string, int) bool) []CommandCount {
	ranked := make([]CommandCount, 0, len(order))
	for _, base := range order {
		count := freq[base]
		if keep != nil && !keep(base, count) {
			continue
		}
		ranked = append(ranked, CommandCount{Command: base, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// topComplex returns the n highest scores, keeping input order on ties.
func topComplex(scored []ScoredCommand, n int) []ScoredCommand {
	ranked := make([]ScoredCommand, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
