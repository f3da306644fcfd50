// Package core provides numeric coercion and money formatting utilities.
//
// Wager amounts arrive as free text. Every numeric read in the repository
// goes through ParseOrZero so malformed input degrades to zero instead of
// failing, and sums are carried as decimals so totals do not drift.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseOrZero converts free-text numeric input into a decimal.
//
// Surrounding whitespace is ignored and an empty string is zero. Anything
// that does not parse as a number, or whose magnitude exceeds MaxAmount, is
// zero as well, so products and sums of parsed values stay finite as float64.
//
// Examples:
//
//	ParseOrZero("1.80")  -> 1.8
//	ParseOrZero(" 100 ") -> 100
//	ParseOrZero("1,80")  -> 0
//	ParseOrZero("abc")   -> 0
//	ParseOrZero("1e400") -> 0
func ParseOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Abs().GreaterThan(maxAmount) {
		return decimal.Zero
	}
	return d
}

// ParseFloatOrZero is ParseOrZero for callers that only need a float.
func ParseFloatOrZero(s string) float64 {
	return ParseOrZero(s).InexactFloat64()
}

// MaxAmount is the largest magnitude accepted for a stake, odds or bankroll.
const MaxAmount = 1e15

var maxAmount = decimal.NewFromInt(MaxAmount)

// exceedsMaxAmount reports whether s is a number too large to be an amount.
func exceedsMaxAmount(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil && d.Abs().GreaterThan(maxAmount)
}

// decimalFromFloat converts f, mapping NaN and infinities to zero.
func decimalFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// StakeDecimal returns the parsed stake amount.
func (w Wager) StakeDecimal() decimal.Decimal {
	return ParseOrZero(w.Stake)
}

// OddsDecimal returns the parsed decimal odds.
func (w Wager) OddsDecimal() decimal.Decimal {
	return ParseOrZero(w.Odds)
}

// ReturnDecimal returns the settled return, zero for unsettled wagers.
func (w Wager) ReturnDecimal() decimal.Decimal {
	if !w.IsSettled() {
		return decimal.Zero
	}
	return decimalFromFloat(w.SettledReturn)
}

// ProfitDecimal is the wager's contribution to net profit: return minus stake.
func (w Wager) ProfitDecimal() decimal.Decimal {
	return w.ReturnDecimal().Sub(w.StakeDecimal())
}

// FormatMoney renders an amount in the single display convention used by the
// dashboard, e.g. "R$ 1.234,56" and "-R$ 12,00".
func FormatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	s := "R$ " + b.String() + "," + frac
	if neg {
		return "-" + s
	}
	return s
}
