package services

import (
	"context"
	"fmt"
	"time"

	"banca/internal/analytics"
	"banca/internal/cache"
	"banca/internal/core"
	"banca/internal/metrics"
)

// AnalyticsService serves dashboard views over the ledger, memoized by
// ledger revision and period. Any change purges the cache.
type AnalyticsService struct {
	wagers  *WagerService
	cache   cache.Cache[analytics.Dashboard]
	metrics *metrics.Metrics
	opts    analytics.Options
}

func NewAnalyticsService(wagers *WagerService, c cache.Cache[analytics.Dashboard], m *metrics.Metrics, opts analytics.Options) *AnalyticsService {
	s := &AnalyticsService{wagers: wagers, cache: c, metrics: m, opts: opts}
	if c != nil {
		wagers.Subscribe(func(context.Context, Change) { c.Purge() })
	}
	return s
}

// Location is the display time zone of dates.
func (s *AnalyticsService) Location() *time.Location {
	if s.opts.Location == nil {
		return time.UTC
	}
	return s.opts.Location
}

// Dashboard returns every analytics view for the period.
func (s *AnalyticsService) Dashboard(ctx context.Context, period analytics.PeriodCriteria) (analytics.Dashboard, error) {
	wagers, rev, err := s.wagers.Snapshot(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}

	key := fmt.Sprintf("%d|%s|%s", rev, boundKey(period.From), boundKey(period.To))
	if s.cache != nil {
		if d, ok := s.cache.Get(key); ok {
			s.metrics.CacheLookup(true)
			return d, nil
		}
		s.metrics.CacheLookup(false)
	}

	d := analytics.Build(wagers, period, s.opts)
	if s.cache != nil {
		s.cache.Set(key, d)
	}
	return d, nil
}

// Breakdown returns one grouped view for the period.
func (s *AnalyticsService) Breakdown(ctx context.Context, period analytics.PeriodCriteria, d analytics.Dimension, topN int) ([]analytics.GroupProfit, error) {
	wagers, err := s.wagers.List(ctx)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.opts.TopN
	}
	return analytics.Breakdown(wagers, period, d, topN), nil
}

// Filtered returns the wagers matching the list criteria in insertion order.
func (s *AnalyticsService) Filtered(ctx context.Context, c analytics.ListCriteria) ([]core.Wager, error) {
	wagers, err := s.wagers.List(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.FilterList(wagers, c), nil
}

// Latest returns the n newest wagers matching the list criteria.
func (s *AnalyticsService) Latest(ctx context.Context, c analytics.ListCriteria, n int) ([]core.Wager, error) {
	wagers, err := s.Filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.Latest(wagers, n), nil
}

// Page returns an insertion-ordered page of the whole ledger.
func (s *AnalyticsService) Page(ctx context.Context, page, size int) (analytics.Page, error) {
	wagers, err := s.wagers.List(ctx)
	if err != nil {
		return analytics.Page{}, err
	}
	return analytics.Paginate(wagers, page, size), nil
}

// boundKey renders a period bound for the cache key. An open bound is empty,
// so it never collides with an explicit instant.
func boundKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
