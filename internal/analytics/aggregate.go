package analytics

import (
	"github.com/shopspring/decimal"

	"banca/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the scalar metrics of a subset.
type Summary struct {
	Count          int     `json:"count"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Pending        int     `json:"pending"`
	TotalInvested  float64 `json:"totalInvested"`
	TotalReturned  float64 `json:"totalReturned"`
	NetProfit      float64 `json:"netProfit"`
	ROIPercent     float64 `json:"roiPercent"`
	WinRatePercent float64 `json:"winRatePercent"`
	AverageStake   float64 `json:"averageStake"`
}

// Aggregate computes the scalar metrics of wagers.
//
// Sums are exact, so NetProfit equals TotalReturned - TotalInvested for every
// input. ROI is 0 when nothing was invested; win rate and average stake are 0
// for an empty subset. Win rate is measured against all wagers, pending ones
// included.
func Aggregate(wagers []core.Wager) Summary {
	var (
		s        Summary
		invested = decimal.Zero
		returned = decimal.Zero
	)
	for _, w := range wagers {
		s.Count++
		switch w.Outcome {
		case core.OutcomeWon:
			s.Wins++
		case core.OutcomeLost:
			s.Losses++
		default:
			s.Pending++
		}
		invested = invested.Add(w.StakeDecimal())
		returned = returned.Add(w.ReturnDecimal())
	}

	net := returned.Sub(invested)
	s.TotalInvested = invested.InexactFloat64()
	s.TotalReturned = returned.InexactFloat64()
	s.NetProfit = net.InexactFloat64()
	if !invested.IsZero() {
		s.ROIPercent = net.Div(invested).Mul(hundred).InexactFloat64()
	}
	if s.Count > 0 {
		n := decimal.NewFromInt(int64(s.Count))
		s.WinRatePercent = decimal.NewFromInt(int64(s.Wins)).Div(n).Mul(hundred).InexactFloat64()
		s.AverageStake = invested.Div(n).InexactFloat64()
	}
	return s
}

// NetProfit is the exact signed sum of every wager's return minus stake.
func NetProfit(wagers []core.Wager) decimal.Decimal {
	total := decimal.Zero
	for _, w := range wagers {
		total = total.Add(w.ProfitDecimal())
	}
	return total
}
