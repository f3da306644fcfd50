package analytics

import (
	"time"

	"banca/internal/core"
)

// Dashboard bundles every view of the analytics period.
type Dashboard struct {
	Period           PeriodCriteria  `json:"period"`
	Summary          Summary         `json:"summary"`
	NetProfitDisplay string          `json:"netProfitDisplay"`
	ByGame           []GroupProfit   `json:"byGame"`
	ByTier           []GroupProfit   `json:"byTier"`
	ByCategory       []GroupProfit   `json:"byCategory"`
	ByOutcome        []GroupProfit   `json:"byOutcome"`
	ByEvent          []GroupProfit   `json:"byEvent"`
	ByTeam           []GroupProfit   `json:"byTeam"`
	OddsDistribution []Bucket        `json:"oddsDistribution"`
	Categories       []Bucket        `json:"categories"`
	Bankroll         []BankrollPoint `json:"bankroll"`
}

// Options tune dashboard rendering.
type Options struct {
	TopN     int
	Location *time.Location
}

// Build filters wagers by the period and computes every view over the
// result.
func Build(wagers []core.Wager, period PeriodCriteria, opts Options) Dashboard {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	subset := FilterPeriod(wagers, period)
	summary := Aggregate(subset)

	return Dashboard{
		Period:           period,
		Summary:          summary,
		NetProfitDisplay: core.FormatMoney(NetProfit(subset)),
		ByGame:           GroupBy(subset, DimensionGame),
		ByTier:           GroupBy(subset, DimensionTier),
		ByCategory:       GroupBy(subset, DimensionCategory),
		ByOutcome:        ProfitByOutcome(subset),
		ByEvent:          TopNWithOthers(GroupBy(subset, DimensionEvent), opts.TopN),
		ByTeam:           TopNWithOthers(GroupBy(subset, DimensionTeam), opts.TopN),
		OddsDistribution: OddsDistribution(subset),
		Categories:       CategoryProportion(subset),
		Bankroll:         BankrollCurve(subset, opts.Location),
	}
}

// Breakdown groups the period by one dimension, collapsing unbounded
// dimensions to topN entries plus Others.
func Breakdown(wagers []core.Wager, period PeriodCriteria, d Dimension, topN int) []GroupProfit {
	if topN <= 0 {
		topN = DefaultTopN
	}
	groups := GroupBy(FilterPeriod(wagers, period), d)
	if d.IsUnbounded() {
		return TopNWithOthers(groups, topN)
	}
	return groups
}
