package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"banca/internal/core"
)

// DateLayout is the dd/mm/yyyy display format of curve points.
const DateLayout = "02/01/2006"

// Defaults for the list views.
const (
	DefaultLatest   = 10
	DefaultPageSize = 5
)

// BankrollPoint is one step of the cumulative profit curve.
type BankrollPoint struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Date       string    `json:"date"`
	Cumulative float64   `json:"cumulative"`
}

// Page is one insertion-ordered slice of the collection.
type Page struct {
	Number     int          `json:"page"`
	Size       int          `json:"size"`
	TotalPages int          `json:"totalPages"`
	Total      int          `json:"total"`
	Items      []core.Wager `json:"items"`
}

// byTimestamp returns a chronologically sorted copy. Equal timestamps keep
// their input order.
func byTimestamp(wagers []core.Wager) []core.Wager {
	sorted := slices.Clone(wagers)
	slices.SortStableFunc(sorted, func(a, b core.Wager) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// BankrollCurve returns the running sum of return minus stake in timestamp
// order. The last point equals NetProfit of the same wagers. Dates are
// rendered in loc, UTC when nil.
func BankrollCurve(wagers []core.Wager, loc *time.Location) []BankrollPoint {
	if loc == nil {
		loc = time.UTC
	}
	sorted := byTimestamp(wagers)
	out := make([]BankrollPoint, 0, len(sorted))
	running := decimal.Zero
	for _, w := range sorted {
		running = running.Add(w.ProfitDecimal())
		out = append(out, BankrollPoint{
			ID:         w.ID,
			Timestamp:  w.Timestamp,
			Date:       w.Timestamp.In(loc).Format(DateLayout),
			Cumulative: running.InexactFloat64(),
		})
	}
	return out
}

// Latest returns the n most recent wagers, newest first.
func Latest(wagers []core.Wager, n int) []core.Wager {
	if n <= 0 {
		n = DefaultLatest
	}
	sorted := byTimestamp(wagers)
	slices.Reverse(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Paginate returns the 1-based page of wagers in insertion order. Pages past
// the end are empty; page numbers below 1 are treated as 1.
func Paginate(wagers []core.Wager, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(wagers)
	p := Page{
		Number:     page,
		Size:       size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
		Items:      []core.Wager{},
	}
	start := (page - 1) * size
	if start >= total {
		return p
	}
	end := min(start+size, total)
	p.Items = slices.Clone(wagers[start:end])
	return p
}
