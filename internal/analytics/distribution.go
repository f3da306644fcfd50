package analytics

import (
	"github.com/shopspring/decimal"

	"banca/internal/core"
)

// Bucket is a labelled count.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type oddsRange struct {
	label string
	lower decimal.Decimal
	upper decimal.Decimal // exclusive; zero means unbounded
}

var oddsRanges = []oddsRange{
	{"<1.5", decimal.Zero, decimal.RequireFromString("1.5")},
	{"1.5-1.8", decimal.RequireFromString("1.5"), decimal.RequireFromString("1.8")},
	{"1.8-2.2", decimal.RequireFromString("1.8"), decimal.RequireFromString("2.2")},
	{"2.2-3.0", decimal.RequireFromString("2.2"), decimal.RequireFromString("3.0")},
	{">3.0", decimal.RequireFromString("3.0"), decimal.Zero},
}

// OddsBucket returns the label of the range holding odds, or "" when the
// value is negative and falls in no range.
func OddsBucket(odds decimal.Decimal) string {
	for _, r := range oddsRanges {
		if odds.LessThan(r.lower) {
			continue
		}
		if r.upper.IsZero() || odds.LessThan(r.upper) {
			return r.label
		}
	}
	return ""
}

// OddsDistribution counts wagers per odds range. All five ranges are always
// present, in ascending order.
func OddsDistribution(wagers []core.Wager) []Bucket {
	out := make([]Bucket, len(oddsRanges))
	index := make(map[string]int, len(oddsRanges))
	for i, r := range oddsRanges {
		out[i] = Bucket{Label: r.label}
		index[r.label] = i
	}
	for _, w := range wagers {
		if i, ok := index[OddsBucket(w.OddsDecimal())]; ok {
			out[i].Count++
		}
	}
	return out
}

// CategoryProportion counts wagers per bet category in the fixed category
// order, omitting categories with no wagers. Labels are display names.
func CategoryProportion(wagers []core.Wager) []Bucket {
	counts := make(map[core.BetCategory]int)
	for _, w := range wagers {
		counts[w.Category]++
	}
	var out []Bucket
	for _, c := range core.Categories() {
		if n := counts[c]; n > 0 {
			out = append(out, Bucket{Label: c.Label(), Count: n})
		}
	}
	return out
}
