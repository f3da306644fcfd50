package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validWager() Wager {
	return Wager{
		ID:           "w1",
		Category:     CategoryPerMap,
		SideA:        "FURIA",
		SideB:        "MIBR",
		SelectedSide: SideA,
		Stake:        "100",
		Odds:         "1.80",
		HandicapLine: "0",
		Timestamp:    time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		GameTitle:    GameCS2,
		EventName:    "IEM Rio",
		Tier:         TierS,
	}
}

func TestWagerValidate(t *testing.T) {
	if err := validWager().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Wager)
		want   error
	}{
		{"bad category", func(w *Wager) { w.Category = "parlay" }, ErrInvalidCategory},
		{"empty side", func(w *Wager) { w.SideB = "  " }, ErrEmptySide},
		{"bad side", func(w *Wager) { w.SelectedSide = "C" }, ErrInvalidSide},
		{"empty event", func(w *Wager) { w.EventName = "" }, ErrEmptyEvent},
		{"empty game", func(w *Wager) { w.GameTitle = "" }, ErrEmptyGame},
		{"bad tier", func(w *Wager) { w.Tier = "D" }, ErrInvalidTier},
		{"zero stake", func(w *Wager) { w.Stake = "0" }, ErrInvalidStake},
		{"text stake", func(w *Wager) { w.Stake = "abc" }, ErrInvalidStake},
		{"overflowing stake", func(w *Wager) { w.Stake = "1e400" }, ErrInvalidStake},
		{"oversized odds", func(w *Wager) { w.Odds = "1" + strings.Repeat("0", 400) }, ErrInvalidOdds},
		{"comma odds", func(w *Wager) { w.Odds = "1,80" }, ErrInvalidOdds},
		{"negative odds", func(w *Wager) { w.Odds = "-2" }, ErrInvalidOdds},
		{"handicap off grid", func(w *Wager) { w.Category = CategoryHandicap; w.HandicapLine = "1" }, ErrInvalidHandicap},
		{"bad outcome", func(w *Wager) { w.Outcome = "void" }, ErrInvalidOutcome},
		{"zero time", func(w *Wager) { w.Timestamp = time.Time{} }, ErrMissingTimestamp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := validWager()
			tc.mutate(&w)
			if err := w.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestHandicapLines(t *testing.T) {
	lines := HandicapLines()
	if len(lines) != 22 || lines[0] != 10.5 || lines[21] != -10.5 {
		t.Fatalf("unexpected lines: %v", lines)
	}
	for _, s := range []string{"+10.5", "-0.5", "2.5", "-10.5"} {
		if !IsValidHandicapLine(s) {
			t.Errorf("%q should be a valid line", s)
		}
	}
	for _, s := range []string{"0", "11.5", "1", "x"} {
		if IsValidHandicapLine(s) {
			t.Errorf("%q should not be a valid line", s)
		}
	}
}

func TestBackedTeam(t *testing.T) {
	w := validWager()
	if got := w.BackedTeam(); got != "FURIA" {
		t.Fatalf("side A backed team = %q", got)
	}
	w.SelectedSide = SideB
	if got := w.BackedTeam(); got != "MIBR" {
		t.Fatalf("side B backed team = %q", got)
	}
}

func TestParseOutcome(t *testing.T) {
	cases := map[string]Outcome{"won": OutcomeWon, "WIN": OutcomeWon, "lost": OutcomeLost, "red": OutcomeLost}
	for in, want := range cases {
		got, err := ParseOutcome(in)
		if err != nil || got != want {
			t.Errorf("ParseOutcome(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOutcome("pending"); !errors.Is(err, ErrInvalidOutcome) {
		t.Errorf("expected ErrInvalidOutcome, got %v", err)
	}
}

func TestResolveGameTitle(t *testing.T) {
	if got := ResolveGameTitle(GameOther, "Dota 2"); got != "Dota 2" {
		t.Fatalf("custom title = %q", got)
	}
	if got := ResolveGameTitle(GameOther, ""); got != GameOther {
		t.Fatalf("empty custom title = %q", got)
	}
	if got := ResolveGameTitle(GameCS2, "ignored"); got != GameCS2 {
		t.Fatalf("common title = %q", got)
	}
}
