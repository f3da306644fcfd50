package core

import (
	"math"
	"testing"
)

func TestParseOrZero(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"1", "1"},
		{"1.80", "1.8"},
		{" 100 ", "100"},
		{"0.01", "0.01"},
		{"-2.5", "-2.5"},
		{"", "0"},
		{"abc", "0"},
		{"1,80", "0"},
		{"1.2.3", "0"},
		{"NaN", "0"},
		{"Inf", "0"},
		{"1e400", "0"},
		{"-1e400", "0"},
		{"1e16", "0"},
		{"1e15", "1000000000000000"},
	}
	for _, tc := range cases {
		got := ParseOrZero(tc.in)
		if got.String() != tc.out {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got.String())
		}
	}
}

func TestSettle(t *testing.T) {
	w := validWager()

	won, err := Settle(w, OutcomeWon)
	if err != nil {
		t.Fatalf("settle won: %v", err)
	}
	if won.SettledReturn != 180 {
		t.Fatalf("won return = %v, want 180", won.SettledReturn)
	}
	if got := won.ProfitDecimal().String(); got != "80" {
		t.Fatalf("won profit = %s, want 80", got)
	}

	again, _ := Settle(won, OutcomeWon)
	if again != won {
		t.Fatalf("settling twice changed the record: %+v vs %+v", again, won)
	}

	lost, _ := Settle(w, OutcomeLost)
	if lost.SettledReturn != 0 {
		t.Fatalf("lost return = %v", lost.SettledReturn)
	}
	if got := lost.ProfitDecimal().String(); got != "-100" {
		t.Fatalf("lost profit = %s, want -100", got)
	}

	if _, err := Settle(w, OutcomeNone); err != ErrInvalidOutcome {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}

	// Only outcome and return change.
	won.Outcome, won.SettledReturn = w.Outcome, w.SettledReturn
	if won != w {
		t.Fatalf("settle touched other fields")
	}
}

func TestSettleMalformedNumbers(t *testing.T) {
	for _, tc := range []struct{ stake, odds string }{
		{"abc", "1.8"},
		{"100", ""},
		{"100", "0"},
		{"0", "2"},
		{"1e400", "2"},
		{"100", "1e400"},
	} {
		w := validWager()
		w.Stake, w.Odds = tc.stake, tc.odds
		got, err := Settle(w, OutcomeWon)
		if err != nil {
			t.Fatalf("settle should never reject numbers: %v", err)
		}
		if got.SettledReturn != 0 {
			t.Errorf("stake=%q odds=%q return=%v, want 0", tc.stake, tc.odds, got.SettledReturn)
		}
	}
}

func TestNormalize(t *testing.T) {
	w := validWager()
	w.SettledReturn = 999
	if got := Normalize(w); got.SettledReturn != 0 || got.Outcome != OutcomeNone {
		t.Fatalf("unsettled wager kept return: %+v", got)
	}
	w.Outcome = OutcomeWon
	if got := Normalize(w); got.SettledReturn != 180 {
		t.Fatalf("won wager return = %v", got.SettledReturn)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "R$ 0,00",
		"12.5":    "R$ 12,50",
		"1234.56": "R$ 1.234,56",
		"-80":     "-R$ 80,00",
		"1000000": "R$ 1.000.000,00",
		"999.999": "R$ 1.000,00",
	}
	for in, want := range cases {
		if got := FormatMoney(ParseOrZero(in)); got != want {
			t.Errorf("FormatMoney(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestRecommendStake(t *testing.T) {
	rec := RecommendStake(1000, CategoryBestOf, ProfileRecommended)
	if rec.Amount != 100 || rec.Fraction != 0.10 || rec.Warning != "" {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}
	rec = RecommendStake(3000, CategoryHandicap, "unknown")
	if rec.Profile != ProfileAggressive || rec.Amount != 300 {
		t.Fatalf("unknown profile should fall back to first preset: %+v", rec)
	}
	if rec.Warning == "" {
		t.Fatalf("expected large bankroll warning")
	}
	rec = RecommendStake(500, CategoryOther, ProfileNormal)
	if rec.Amount != 10 {
		t.Fatalf("other category should use per-map presets: %+v", rec)
	}
	for _, bankroll := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		rec = RecommendStake(bankroll, CategoryBestOf, ProfileRecommended)
		if rec.Amount != 0 || rec.Bankroll != 0 {
			t.Fatalf("bankroll %v should count as zero: %+v", bankroll, rec)
		}
	}
}

func TestReturnDecimalNonFinite(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		w := validWager()
		w.Outcome = OutcomeWon
		w.SettledReturn = f
		if got := w.ReturnDecimal(); !got.IsZero() {
			t.Fatalf("return %v should read as zero, got %s", f, got)
		}
	}
}
