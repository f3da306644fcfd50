package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"banca/internal/core"
)

// Encode renders wagers as an indented JSON array in the given order. An
// empty collection encodes as [].
func Encode(wagers []core.Wager) ([]byte, error) {
	if wagers == nil {
		wagers = []core.Wager{}
	}
	data, err := json.MarshalIndent(wagers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode wagers: %w", err)
	}
	return data, nil
}

// Filename is the download name of an export taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("wager-history-%s.json", t.Format("02-01-2006"))
}
