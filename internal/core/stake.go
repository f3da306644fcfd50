package core

import (
	"math"
	"strings"
)

// Risk profiles offered by the stake calculator.
const (
	ProfileAggressive  StakeProfile = "aggressive"
	ProfileModerate    StakeProfile = "moderate"
	ProfileNormal      StakeProfile = "normal"
	ProfileRecommended StakeProfile = "recommended"
)

// LargeBankroll is the bankroll above which stakes under 5% are advised.
const LargeBankroll = 2000

type StakeProfile string

// StakeOption is one selectable percentage for a bet category.
type StakeOption struct {
	Profile  StakeProfile `json:"profile"`
	Fraction float64      `json:"fraction"`
}

// StakeRecommendation is the result of sizing a stake against a bankroll.
type StakeRecommendation struct {
	Bankroll float64      `json:"bankroll"`
	Category BetCategory  `json:"category"`
	Profile  StakeProfile `json:"profile"`
	Fraction float64      `json:"fraction"`
	Amount   float64      `json:"amount"`
	Display  string       `json:"display"`
	Warning  string       `json:"warning,omitempty"`
}

var stakeTable = map[BetCategory][]StakeOption{
	CategoryPerMap: {
		{ProfileAggressive, 0.10},
		{ProfileModerate, 0.05},
		{ProfileNormal, 0.02},
		{ProfileRecommended, 0.05},
	},
	CategoryBestOf: {
		{ProfileAggressive, 0.10},
		{ProfileModerate, 0.05},
		{ProfileNormal, 0.02},
		{ProfileRecommended, 0.10},
	},
	CategoryHandicap: {
		{ProfileAggressive, 0.10},
		{ProfileModerate, 0.05},
		{ProfileNormal, 0.02},
		{ProfileRecommended, 0.02},
	},
}

// StakeOptions returns the presets for a category. Categories without their
// own table (other) use the per-map presets.
func StakeOptions(c BetCategory) []StakeOption {
	if opts, ok := stakeTable[c]; ok {
		return append([]StakeOption(nil), opts...)
	}
	return append([]StakeOption(nil), stakeTable[CategoryPerMap]...)
}

// RecommendStake sizes a stake as bankroll × the profile's fraction.
// An unknown profile falls back to the first preset of the category. A
// negative or non-finite bankroll counts as zero.
func RecommendStake(bankroll float64, c BetCategory, p StakeProfile) StakeRecommendation {
	opts := StakeOptions(c)
	chosen := opts[0]
	for _, o := range opts {
		if strings.EqualFold(string(o.Profile), string(p)) {
			chosen = o
			break
		}
	}
	if bankroll < 0 || math.IsNaN(bankroll) || math.IsInf(bankroll, 0) {
		bankroll = 0
	}
	amount := decimalFromFloat(bankroll).Mul(decimalFromFloat(chosen.Fraction)).Round(2)
	rec := StakeRecommendation{
		Bankroll: bankroll,
		Category: c,
		Profile:  chosen.Profile,
		Fraction: chosen.Fraction,
		Amount:   amount.InexactFloat64(),
		Display:  FormatMoney(amount),
	}
	if bankroll > LargeBankroll {
		rec.Warning = "bankroll above 2.000: keep stakes below 5% for better risk management"
	}
	return rec
}
