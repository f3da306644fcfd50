// Package analytics turns a snapshot of wagers into dashboard data.
//
// Every function here is pure: it reads the slice it is given, never mutates
// it, and never fails. Malformed numbers count as zero.
package analytics

import (
	"strings"
	"time"

	"banca/internal/core"
)

// ListCriteria narrows the visible wager list. Zero values impose no
// constraint.
type ListCriteria struct {
	Game     string
	Category core.BetCategory
	Tier     core.Tier
	Event    string
	Outcome  core.Outcome
	From     time.Time
	To       time.Time
}

// PeriodCriteria is the analytics date range. It is independent from the
// list criteria and both can be active at once.
type PeriodCriteria struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsZero reports whether the criteria impose no constraint at all.
func (c ListCriteria) IsZero() bool {
	return c == ListCriteria{}
}

// Match reports whether w satisfies every set criterion.
func (c ListCriteria) Match(w core.Wager) bool {
	if c.Game != "" && w.GameTitle != c.Game {
		return false
	}
	if c.Category != "" && w.Category != c.Category {
		return false
	}
	if c.Tier != "" && w.Tier != c.Tier {
		return false
	}
	if c.Event != "" && !strings.Contains(strings.ToLower(w.EventName), strings.ToLower(c.Event)) {
		return false
	}
	if c.Outcome != "" && w.Outcome != c.Outcome {
		return false
	}
	return inRange(w.Timestamp, c.From, c.To)
}

// Match reports whether w falls inside the period, bounds inclusive.
func (c PeriodCriteria) Match(w core.Wager) bool {
	return inRange(w.Timestamp, c.From, c.To)
}

// inRange compares instants. A zero bound is open.
func inRange(ts, from, to time.Time) bool {
	if !from.IsZero() && ts.Before(from) {
		return false
	}
	if !to.IsZero() && ts.After(to) {
		return false
	}
	return true
}

// FilterList returns the wagers matching c in their original order.
func FilterList(wagers []core.Wager, c ListCriteria) []core.Wager {
	return filter(wagers, c.Match)
}

// FilterPeriod returns the wagers inside the period in their original order.
func FilterPeriod(wagers []core.Wager, c PeriodCriteria) []core.Wager {
	return filter(wagers, c.Match)
}

func filter(wagers []core.Wager, keep func(core.Wager) bool) []core.Wager {
	out := make([]core.Wager, 0, len(wagers))
	for _, w := range wagers {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// DayBounds widens a calendar-day range to whole days in loc, so that a "to"
// day includes everything up to its last instant.
func DayBounds(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	if !from.IsZero() {
		y, m, d := from.In(loc).Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	if !to.IsZero() {
		y, m, d := to.In(loc).Date()
		to = time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to
}
