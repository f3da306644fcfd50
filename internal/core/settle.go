package core

// SettledReturn computes the realized return of a wager for a declared outcome.
//
// A win pays stake × odds when both parse to non-zero numbers, otherwise 0.
// Malformed stake or odds therefore book the full stake as a loss instead of
// failing. A loss always returns 0.
func SettledReturn(stake, odds string, outcome Outcome) float64 {
	if outcome != OutcomeWon {
		return 0
	}
	s := ParseOrZero(stake)
	o := ParseOrZero(odds)
	if s.IsZero() || o.IsZero() {
		return 0
	}
	return s.Mul(o).Round(8).InexactFloat64()
}

// Settle returns a copy of w with outcome and settledReturn replaced.
// No other field changes and settling twice with the same outcome yields the
// same record.
func Settle(w Wager, outcome Outcome) (Wager, error) {
	if !outcome.IsValid() {
		return w, ErrInvalidOutcome
	}
	w.Outcome = outcome
	w.SettledReturn = SettledReturn(w.Stake, w.Odds, outcome)
	return w, nil
}

// Normalize re-derives settledReturn from the outcome so the pair stays
// consistent. Unsettled wagers carry a zero return.
func Normalize(w Wager) Wager {
	if !w.Outcome.IsValid() {
		w.Outcome = OutcomeNone
		w.SettledReturn = 0
		return w
	}
	w.SettledReturn = SettledReturn(w.Stake, w.Odds, w.Outcome)
	return w
}
