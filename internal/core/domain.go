package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	CategoryPerMap   BetCategory = "per_map"
	CategoryBestOf   BetCategory = "best_of"
	CategoryHandicap BetCategory = "handicap"
	CategoryOther    BetCategory = "other"
)

const (
	SideA Side = "A"
	SideB Side = "B"
)

const (
	OutcomeNone Outcome = ""
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

const (
	TierS     Tier = "S"
	TierA     Tier = "A"
	TierB     Tier = "B"
	TierC     Tier = "C"
	TierOther Tier = "other"
)

// Common game titles offered by the entry form. Anything else is a custom title.
const (
	GameCS2      = "CS2"
	GameValorant = "Valorant"
	GameLOL      = "LOL"
	GameOther    = "Other"
)

type (
	BetCategory string
	Side        string
	Outcome     string
	Tier        string

	// Wager is one logged bet together with its settlement state.
	// Stake, odds and handicap are kept as the text the user typed; every
	// numeric read goes through ParseOrZero.
	Wager struct {
		ID            string      `json:"id"`
		Category      BetCategory `json:"betCategory"`
		SideA         string      `json:"sideA"`
		SideB         string      `json:"sideB"`
		SelectedSide  Side        `json:"selectedSide"`
		Stake         string      `json:"stakeAmount"`
		Odds          string      `json:"odds"`
		HandicapLine  string      `json:"handicapLine"`
		Outcome       Outcome     `json:"outcome,omitempty"`
		Timestamp     time.Time   `json:"timestamp"`
		GameTitle     string      `json:"gameTitle"`
		EventName     string      `json:"eventName"`
		Tier          Tier        `json:"tier"`
		SettledReturn float64     `json:"settledReturn"`
	}
)

var (
	ErrNotFound         = errors.New("wager not found")
	ErrDuplicateID      = errors.New("duplicate wager id")
	ErrInvalidOutcome   = errors.New("invalid outcome")
	ErrInvalidCategory  = errors.New("invalid bet category")
	ErrInvalidSide      = errors.New("invalid selected side")
	ErrInvalidTier      = errors.New("invalid tier")
	ErrInvalidStake     = errors.New("invalid stake amount")
	ErrInvalidOdds      = errors.New("invalid odds")
	ErrInvalidHandicap  = errors.New("invalid handicap line")
	ErrEmptySide        = errors.New("empty team name")
	ErrEmptyEvent       = errors.New("empty event name")
	ErrEmptyGame        = errors.New("empty game title")
	ErrMissingTimestamp = errors.New("missing timestamp")
)

var oddsPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Categories lists the fixed bet categories in display order.
func Categories() []BetCategory {
	return []BetCategory{CategoryPerMap, CategoryBestOf, CategoryHandicap, CategoryOther}
}

// Tiers lists the fixed tiers in display order.
func Tiers() []Tier {
	return []Tier{TierS, TierA, TierB, TierC, TierOther}
}

// Games lists the common game titles in display order.
func Games() []string {
	return []string{GameCS2, GameValorant, GameLOL, GameOther}
}

func (c BetCategory) IsValid() bool {
	switch c {
	case CategoryPerMap, CategoryBestOf, CategoryHandicap, CategoryOther:
		return true
	}
	return false
}

// Label returns the display name of the category.
func (c BetCategory) Label() string {
	switch c {
	case CategoryPerMap:
		return "Map by map"
	case CategoryBestOf:
		return "Bo3/Bo5"
	case CategoryHandicap:
		return "Handicap"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

func (s Side) IsValid() bool {
	return s == SideA || s == SideB
}

func (o Outcome) IsValid() bool {
	return o == OutcomeWon || o == OutcomeLost
}

// IsSettled reports whether the outcome has been declared.
func (o Outcome) IsSettled() bool {
	return o.IsValid()
}

func (t Tier) IsValid() bool {
	switch t {
	case TierS, TierA, TierB, TierC, TierOther:
		return true
	}
	return false
}

// ParseOutcome accepts the canonical values and the legacy win/red pair.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "won", "win":
		return OutcomeWon, nil
	case "lost", "red", "loss":
		return OutcomeLost, nil
	}
	return OutcomeNone, ErrInvalidOutcome
}

// BackedTeam resolves the name of the side the wager actually backs.
func (w Wager) BackedTeam() string {
	if w.SelectedSide == SideA {
		return w.SideA
	}
	return w.SideB
}

// IsSettled reports whether an outcome has been recorded.
func (w Wager) IsSettled() bool {
	return w.Outcome.IsSettled()
}

// Validate checks a wager submitted through the entry form. Imported records
// are defaulted instead of validated, see the transfer package.
func (w Wager) Validate() error {
	if !w.Category.IsValid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(w.SideA) == "" || strings.TrimSpace(w.SideB) == "" {
		return ErrEmptySide
	}
	if !w.SelectedSide.IsValid() {
		return ErrInvalidSide
	}
	if strings.TrimSpace(w.EventName) == "" {
		return ErrEmptyEvent
	}
	if strings.TrimSpace(w.GameTitle) == "" {
		return ErrEmptyGame
	}
	if !w.Tier.IsValid() {
		return ErrInvalidTier
	}
	if !ParseOrZero(w.Stake).IsPositive() {
		return ErrInvalidStake
	}
	if !oddsPattern.MatchString(strings.TrimSpace(w.Odds)) || exceedsMaxAmount(w.Odds) {
		return ErrInvalidOdds
	}
	if w.Category == CategoryHandicap && !IsValidHandicapLine(w.HandicapLine) {
		return ErrInvalidHandicap
	}
	if w.Outcome != OutcomeNone && !w.Outcome.IsValid() {
		return ErrInvalidOutcome
	}
	if w.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}

// HandicapLines returns the selectable lines, +10.5 down to -10.5.
func HandicapLines() []float64 {
	lines := make([]float64, 0, 22)
	for i := 0; i < 22; i++ {
		lines = append(lines, 10.5-float64(i))
	}
	return lines
}

// IsValidHandicapLine reports whether s is one of HandicapLines.
func IsValidHandicapLine(s string) bool {
	v := ParseOrZero(s)
	for _, line := range HandicapLines() {
		if v.Equal(decimalFromFloat(line)) {
			return true
		}
	}
	return false
}

// ResolveGameTitle picks the custom title when the Other game is chosen.
func ResolveGameTitle(game, custom string) string {
	game = strings.TrimSpace(game)
	custom = strings.TrimSpace(custom)
	if game == GameOther && custom != "" {
		return custom
	}
	return game
}
