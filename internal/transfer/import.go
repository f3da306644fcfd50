// Package transfer reads and writes the portable wager history file.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"banca/internal/core"
)

var (
	ErrMalformedPayload = errors.New("payload is not valid JSON")
	ErrNotAList         = errors.New("payload must be a list of wagers")
)

// Decode parses an exported history into wagers.
//
// The payload must be a JSON array. Each element is read leniently: missing
// or malformed fields are defaulted instead of rejected, and the keys written
// by older versions of the app are accepted next to the current ones. The
// settled return is always re-derived from outcome, stake and odds. now fills
// missing timestamps.
func Decode(data []byte, now time.Time) ([]core.Wager, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, ErrMalformedPayload
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotAList
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	wagers := make([]core.Wager, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			// Non-object entries carry nothing usable; they become fully
			// defaulted records, like an empty object would.
			fields = map[string]json.RawMessage{}
		}
		w := decodeRecord(record(fields), now)
		if seen[w.ID] {
			w.ID = uuid.NewString()
		}
		seen[w.ID] = true
		wagers = append(wagers, w)
	}
	return wagers, nil
}

type record map[string]json.RawMessage

// text returns the first non-empty value among keys, rendering numbers and
// booleans as text. Null and structured values count as missing.
func (r record) text(keys ...string) string {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return strconv.FormatBool(b)
		}
	}
	return ""
}

func decodeRecord(r record, now time.Time) core.Wager {
	w := core.Wager{
		ID:           r.text("id"),
		Category:     parseCategory(r.text("betCategory", "type")),
		SideA:        r.text("sideA", "teamA"),
		SideB:        r.text("sideB", "teamB"),
		SelectedSide: parseSide(r.text("selectedSide", "selectedTeam")),
		Stake:        r.text("stakeAmount", "value"),
		Odds:         r.text("odds"),
		HandicapLine: r.text("handicapLine", "handicap"),
		GameTitle:    parseGame(r.text("gameTitle", "game"), r.text("customGameName")),
		EventName:    r.text("eventName", "event"),
		Tier:         parseTier(r.text("tier")),
		Timestamp:    parseTime(r.text("timestamp", "date"), now),
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.HandicapLine == "" {
		w.HandicapLine = "0"
	}
	if o, err := core.ParseOutcome(r.text("outcome", "result")); err == nil {
		w.Outcome = o
	}
	return core.Normalize(w)
}

func parseCategory(s string) core.BetCategory {
	switch strings.ToLower(s) {
	case "per_map", "per-map", "mapa por mapa", "map by map":
		return core.CategoryPerMap
	case "best_of", "best-of", "md3/md5", "bo3/bo5":
		return core.CategoryBestOf
	case "handicap":
		return core.CategoryHandicap
	}
	return core.CategoryOther
}

func parseSide(s string) core.Side {
	if strings.EqualFold(s, string(core.SideB)) {
		return core.SideB
	}
	return core.SideA
}

func parseTier(s string) core.Tier {
	switch t := core.Tier(strings.ToUpper(s)); t {
	case core.TierS, core.TierA, core.TierB, core.TierC:
		return t
	case "":
		return core.TierS
	}
	return core.TierOther
}

func parseGame(game, custom string) string {
	switch {
	case game == "":
		return core.GameCS2
	case strings.EqualFold(game, "Outro"), strings.EqualFold(game, core.GameOther):
		return core.ResolveGameTitle(core.GameOther, custom)
	}
	return game
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string, now time.Time) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return now
}
