package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"banca/internal/analytics"
	"banca/internal/core"
)

const (
	dateLayout = "2006-01-02"

	// maxBodyBytes bounds create and settle bodies.
	maxBodyBytes = 64 << 10
	// maxImportBytes bounds history uploads.
	maxImportBytes = 16 << 20
)

// errBadRequest marks request errors that are the caller's fault.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// parseDateRange reads from/to as calendar days in loc and widens them to
// whole days. Either bound may be absent.
func parseDateRange(q url.Values, loc *time.Location) (time.Time, time.Time, error) {
	var from, to time.Time
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"from", &from}, {"to", &to}} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("invalid %s date %q: want YYYY-MM-DD", p.name, v)
		}
		*p.dst = t
	}
	from, to = analytics.DayBounds(from, to, loc)
	return from, to, nil
}

// ParsePeriod reads the analytics period from the query.
func ParsePeriod(q url.Values, loc *time.Location) (analytics.PeriodCriteria, error) {
	from, to, err := parseDateRange(q, loc)
	if err != nil {
		return analytics.PeriodCriteria{}, err
	}
	return analytics.PeriodCriteria{From: from, To: to}, nil
}

// ParseListCriteria reads the wager list filters from the query. Unknown
// enum values are rejected rather than silently matching nothing.
func ParseListCriteria(q url.Values, loc *time.Location) (analytics.ListCriteria, error) {
	var c analytics.ListCriteria

	c.Game = strings.TrimSpace(q.Get("game"))
	c.Event = strings.TrimSpace(q.Get("event"))

	if v := strings.TrimSpace(q.Get("category")); v != "" {
		c.Category = core.BetCategory(v)
		if !c.Category.IsValid() {
			return c, badRequest("invalid category %q", v)
		}
	}
	if v := strings.TrimSpace(q.Get("tier")); v != "" {
		c.Tier = core.Tier(v)
		if !c.Tier.IsValid() {
			return c, badRequest("invalid tier %q", v)
		}
	}
	if v := strings.TrimSpace(q.Get("outcome")); v != "" {
		o, err := core.ParseOutcome(v)
		if err != nil {
			return c, badRequest("invalid outcome %q", v)
		}
		c.Outcome = o
	}

	from, to, err := parseDateRange(q, loc)
	if err != nil {
		return c, err
	}
	c.From, c.To = from, to
	return c, nil
}

// parsePositiveInt reads a positive integer parameter, def when absent.
func parsePositiveInt(q url.Values, name string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, badRequest("invalid %s %q: want a positive integer", name, v)
	}
	return n, nil
}

// decodeJSON decodes a bounded JSON body into dst, rejecting unknown fields
// and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return badRequest("invalid JSON body: trailing data")
	}
	return nil
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, badRequest("body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, badRequest("read body: %v", err)
	}
	return data, nil
}
