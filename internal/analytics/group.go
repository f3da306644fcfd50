package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"banca/internal/core"
)

// Dimension names a grouping key for profit breakdowns.
type Dimension string

const (
	DimensionGame     Dimension = "game"
	DimensionTier     Dimension = "tier"
	DimensionEvent    Dimension = "event"
	DimensionCategory Dimension = "category"
	DimensionOutcome  Dimension = "outcome"
	DimensionTeam     Dimension = "team"
)

// PendingKey buckets unsettled wagers when grouping by outcome.
const PendingKey = "pending"

// GroupProfit is one bucket of a breakdown.
type GroupProfit struct {
	Key    string  `json:"key"`
	Profit float64 `json:"profit"`
	Count  int     `json:"count"`
}

// Dimensions lists every supported dimension.
func Dimensions() []Dimension {
	return []Dimension{DimensionGame, DimensionTier, DimensionEvent, DimensionCategory, DimensionOutcome, DimensionTeam}
}

// ParseDimension accepts a dimension name case-insensitively. "side" and
// "backed" are accepted for the backed team.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(strings.ToLower(strings.TrimSpace(s))); d {
	case DimensionGame, DimensionTier, DimensionEvent, DimensionCategory, DimensionOutcome, DimensionTeam:
		return d, nil
	case "side", "backed":
		return DimensionTeam, nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// IsUnbounded reports whether the dimension has free-text keys and should be
// collapsed with TopNWithOthers before display.
func (d Dimension) IsUnbounded() bool {
	return d == DimensionEvent || d == DimensionTeam
}

// key resolves the bucket key of w. ok is false when w does not contribute.
func (d Dimension) key(w core.Wager) (string, bool) {
	switch d {
	case DimensionGame:
		return w.GameTitle, true
	case DimensionTier:
		return string(w.Tier), true
	case DimensionEvent:
		return w.EventName, true
	case DimensionCategory:
		return string(w.Category), true
	case DimensionOutcome:
		if !w.IsSettled() {
			return PendingKey, true
		}
		return string(w.Outcome), true
	case DimensionTeam:
		name := w.BackedTeam()
		return name, name != ""
	}
	return "", false
}

// GroupBy sums return minus stake per dimension value.
//
// Buckets are created on first contribution and returned in first-seen order.
// Apart from the backed team dimension, which skips wagers whose backed side
// has no name, the bucket profits sum to NetProfit of the input.
func GroupBy(wagers []core.Wager, d Dimension) []GroupProfit {
	var (
		order  []string
		sums   = make(map[string]decimal.Decimal)
		counts = make(map[string]int)
	)
	for _, w := range wagers {
		k, ok := d.key(w)
		if !ok {
			continue
		}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
			sums[k] = decimal.Zero
		}
		sums[k] = sums[k].Add(w.ProfitDecimal())
		counts[k]++
	}

	out := make([]GroupProfit, 0, len(order))
	for _, k := range order {
		out = append(out, GroupProfit{Key: k, Profit: sums[k].InexactFloat64(), Count: counts[k]})
	}
	return out
}

// ProfitByOutcome is the fixed two-entry Won/Lost view. Pending wagers are
// left out.
func ProfitByOutcome(wagers []core.Wager) []GroupProfit {
	won := GroupProfit{Key: "Won"}
	lost := GroupProfit{Key: "Lost"}
	wonSum, lostSum := decimal.Zero, decimal.Zero
	for _, w := range wagers {
		switch w.Outcome {
		case core.OutcomeWon:
			won.Count++
			wonSum = wonSum.Add(w.ProfitDecimal())
		case core.OutcomeLost:
			lost.Count++
			lostSum = lostSum.Add(w.ProfitDecimal())
		}
	}
	won.Profit = wonSum.InexactFloat64()
	lost.Profit = lostSum.InexactFloat64()
	return []GroupProfit{won, lost}
}
