package analytics

import (
	"slices"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTopN bounds the event and backed-team breakdowns.
	DefaultTopN = 10
	OthersLabel = "Others"
)

// TopNWithOthers keeps the n groups with the largest absolute profit and folds
// the rest into one "Others" entry carrying their summed profit.
//
// The input is returned unchanged when it has n or fewer groups. Fields other
// than Key and Profit on the "Others" entry are copied from the first kept
// group and carry no meaning.
func TopNWithOthers(groups []GroupProfit, n int) []GroupProfit {
	if n < 0 {
		n = 0
	}
	if len(groups) <= n {
		return groups
	}
	sorted := slices.Clone(groups)
	slices.SortStableFunc(sorted, func(a, b GroupProfit) int {
		return decimal.NewFromFloat(b.Profit).Abs().Cmp(decimal.NewFromFloat(a.Profit).Abs())
	})

	rest := decimal.Zero
	for _, g := range sorted[n:] {
		rest = rest.Add(decimal.NewFromFloat(g.Profit))
	}

	var others GroupProfit
	if n > 0 {
		others = sorted[0]
	}
	others.Key = OthersLabel
	others.Profit = rest.InexactFloat64()

	out := make([]GroupProfit, 0, n+1)
	out = append(out, sorted[:n]...)
	return append(out, others)
}
