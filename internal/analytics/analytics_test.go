package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banca/internal/core"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func wager(id string, stake, odds string, outcome core.Outcome, offset time.Duration) core.Wager {
	w := core.Wager{
		ID:           id,
		Category:     core.CategoryPerMap,
		SideA:        "FURIA",
		SideB:        "MIBR",
		SelectedSide: core.SideA,
		Stake:        stake,
		Odds:         odds,
		Timestamp:    base.Add(offset),
		GameTitle:    core.GameCS2,
		EventName:    "IEM Rio",
		Tier:         core.TierS,
		Outcome:      outcome,
	}
	return core.Normalize(w)
}

func sample() []core.Wager {
	a := wager("a", "100", "1.8", core.OutcomeWon, 0)
	b := wager("b", "50", "2.5", core.OutcomeLost, time.Hour)
	b.Category, b.Tier, b.GameTitle, b.EventName = core.CategoryHandicap, core.TierA, core.GameValorant, "VCT Americas"
	b.SelectedSide = core.SideB
	c := wager("c", "20", "3.1", core.OutcomeNone, 2*time.Hour)
	c.Category, c.EventName = core.CategoryBestOf, "BLAST Premier"
	d := wager("d", "abc", "2", core.OutcomeWon, 3*time.Hour)
	d.Tier = core.TierC
	e := wager("e", "10.10", "1.33", core.OutcomeWon, -time.Hour)
	e.SideA = ""
	return []core.Wager{a, b, c, d, e}
}

func sumProfits(groups []GroupProfit) float64 {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(decimal.NewFromFloat(g.Profit))
	}
	return total.InexactFloat64()
}

func TestAggregate(t *testing.T) {
	s := Aggregate(sample())

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Pending)
	// "abc" stake counts as 0 invested and its win returns 0.
	assert.InDelta(t, 180.10, s.TotalInvested, 1e-9)
	assert.InDelta(t, 180+13.433, s.TotalReturned, 1e-9)
	assert.InDelta(t, s.TotalReturned-s.TotalInvested, s.NetProfit, 1e-9)
	assert.InDelta(t, 60.0, s.WinRatePercent, 1e-9)
	assert.InDelta(t, 36.02, s.AverageStake, 1e-9)
	assert.InDelta(t, s.NetProfit/s.TotalInvested*100, s.ROIPercent, 1e-9)
}

func TestAggregateEmptyAndZeroInvested(t *testing.T) {
	assert.Equal(t, Summary{}, Aggregate(nil))

	s := Aggregate([]core.Wager{wager("x", "", "2", core.OutcomeWon, 0)})
	assert.Zero(t, s.TotalInvested)
	assert.Zero(t, s.ROIPercent)
	assert.Equal(t, 100.0, s.WinRatePercent)
}

func TestNetProfitIsExact(t *testing.T) {
	var wagers []core.Wager
	for i := 0; i < 50; i++ {
		outcome := core.OutcomeLost
		if i%3 == 0 {
			outcome = core.OutcomeWon
		}
		wagers = append(wagers, wager(fmt.Sprint(i), "0.1", "1.7", outcome, time.Duration(i)*time.Minute))
	}
	s := Aggregate(wagers)
	want := decimal.NewFromFloat(s.TotalReturned).Sub(decimal.NewFromFloat(s.TotalInvested))
	assert.True(t, want.Equal(decimal.NewFromFloat(s.NetProfit)), "net %v want %v", s.NetProfit, want)
}

func TestSettlementContribution(t *testing.T) {
	w := wager("w", "100", "1.8", core.OutcomeNone, 0)

	won, err := core.Settle(w, core.OutcomeWon)
	require.NoError(t, err)
	assert.Equal(t, 180.0, won.SettledReturn)
	assert.Equal(t, 80.0, Aggregate([]core.Wager{won}).NetProfit)

	twice, err := core.Settle(won, core.OutcomeWon)
	require.NoError(t, err)
	assert.Equal(t, Aggregate([]core.Wager{won}), Aggregate([]core.Wager{twice}))

	lost, err := core.Settle(w, core.OutcomeLost)
	require.NoError(t, err)
	assert.Equal(t, -100.0, Aggregate([]core.Wager{lost}).NetProfit)
}

func TestGroupBySumsToNetProfit(t *testing.T) {
	wagers := sample()
	net := Aggregate(wagers).NetProfit

	for _, d := range []Dimension{DimensionGame, DimensionTier, DimensionEvent, DimensionCategory, DimensionOutcome} {
		t.Run(string(d), func(t *testing.T) {
			assert.InDelta(t, net, sumProfits(GroupBy(wagers, d)), 1e-9)
		})
	}
}

func TestGroupByFirstSeenOrder(t *testing.T) {
	groups := GroupBy(sample(), DimensionTier)

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"S", "A", "C"}, keys)
	assert.Equal(t, 3, groups[0].Count)
	assert.InDelta(t, 80-20+3.333, groups[0].Profit, 1e-9)
}

func TestGroupByTeamResolvesNameAndSkipsEmpty(t *testing.T) {
	groups := GroupBy(sample(), DimensionTeam)

	require.Len(t, groups, 2)
	assert.Equal(t, "FURIA", groups[0].Key)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, "MIBR", groups[1].Key)
	assert.Equal(t, -50.0, groups[1].Profit)
}

func TestProfitByOutcome(t *testing.T) {
	groups := ProfitByOutcome(sample())

	require.Len(t, groups, 2)
	assert.Equal(t, "Won", groups[0].Key)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, "Lost", groups[1].Key)
	assert.Equal(t, -50.0, groups[1].Profit)

	empty := ProfitByOutcome(nil)
	assert.Equal(t, []GroupProfit{{Key: "Won"}, {Key: "Lost"}}, empty)
}

func TestOddsDistribution(t *testing.T) {
	odds := []string{"1.4", "1.5", "1.79", "1.8", "2.19", "2.2", "2.99", "3.0", "5.0"}
	want := []string{"<1.5", "1.5-1.8", "1.5-1.8", "1.8-2.2", "1.8-2.2", "2.2-3.0", "2.2-3.0", ">3.0", ">3.0"}

	var wagers []core.Wager
	for i, o := range odds {
		assert.Equal(t, want[i], OddsBucket(core.ParseOrZero(o)), "odds %s", o)
		wagers = append(wagers, wager(o, "10", o, core.OutcomeNone, 0))
	}

	dist := OddsDistribution(wagers)
	assert.Equal(t, []Bucket{
		{"<1.5", 1}, {"1.5-1.8", 2}, {"1.8-2.2", 2}, {"2.2-3.0", 2}, {">3.0", 2},
	}, dist)
}

func TestOddsDistributionAlwaysHasFiveBuckets(t *testing.T) {
	dist := OddsDistribution(nil)
	require.Len(t, dist, 5)
	for _, b := range dist {
		assert.Zero(t, b.Count)
	}

	// Malformed odds parse as 0.
	dist = OddsDistribution([]core.Wager{wager("m", "10", "n/a", core.OutcomeNone, 0)})
	assert.Equal(t, 1, dist[0].Count)
}

func TestCategoryProportionOmitsEmpty(t *testing.T) {
	got := CategoryProportion(sample())
	assert.Equal(t, []Bucket{
		{"Map by map", 3}, {"Bo3/Bo5", 1}, {"Handicap", 1},
	}, got)
	assert.Empty(t, CategoryProportion(nil))
}

func TestBankrollCurve(t *testing.T) {
	wagers := sample()
	curve := BankrollCurve(wagers, nil)

	require.Len(t, curve, len(wagers))
	for i := 1; i < len(curve); i++ {
		assert.False(t, curve[i].Timestamp.Before(curve[i-1].Timestamp))
	}
	assert.Equal(t, "e", curve[0].ID)
	assert.Equal(t, "01/03/2025", curve[0].Date)
	assert.InDelta(t, Aggregate(wagers).NetProfit, curve[len(curve)-1].Cumulative, 1e-9)
	assert.True(t, NetProfit(wagers).Equal(decimal.NewFromFloat(curve[len(curve)-1].Cumulative)))
}

func TestBankrollCurveTiesKeepInputOrder(t *testing.T) {
	wagers := []core.Wager{
		wager("first", "10", "2", core.OutcomeWon, 0),
		wager("second", "10", "2", core.OutcomeLost, 0),
	}
	curve := BankrollCurve(wagers, nil)
	assert.Equal(t, "first", curve[0].ID)
	assert.Equal(t, 10.0, curve[0].Cumulative)
	assert.Equal(t, 0.0, curve[1].Cumulative)
}

func TestBankrollCurveLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	w := wager("late", "1", "2", core.OutcomeNone, 0)
	w.Timestamp = time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, "01/03/2025", BankrollCurve([]core.Wager{w}, loc)[0].Date)
	assert.Equal(t, "02/03/2025", BankrollCurve([]core.Wager{w}, nil)[0].Date)
}

func TestTopNWithOthers(t *testing.T) {
	var groups []GroupProfit
	for i := 1; i <= 12; i++ {
		p := float64(i * 10)
		if i%2 == 0 {
			p = -p
		}
		groups = append(groups, GroupProfit{Key: fmt.Sprintf("g%d", i), Profit: p, Count: i})
	}

	out := TopNWithOthers(groups, 10)
	require.Len(t, out, 11)
	assert.Equal(t, "g12", out[0].Key)
	assert.Equal(t, -120.0, out[0].Profit)
	others := out[10]
	assert.Equal(t, OthersLabel, others.Key)
	// g1 (+10) and g2 (-20) have the lowest |profit|.
	assert.Equal(t, -10.0, others.Profit)
	assert.Equal(t, out[0].Count, others.Count)
	assert.InDelta(t, sumProfits(groups), sumProfits(out), 1e-9)
	assert.Equal(t, "g1", groups[0].Key, "input must not be reordered")
}

func TestTopNWithOthersIdentity(t *testing.T) {
	groups := []GroupProfit{{Key: "b", Profit: 1}, {Key: "a", Profit: -50}}
	assert.Equal(t, groups, TopNWithOthers(groups, 10))
	assert.Equal(t, groups, TopNWithOthers(groups, 2))
	assert.Nil(t, TopNWithOthers(nil, DefaultTopN))
}

func TestFilterList(t *testing.T) {
	wagers := sample()

	tests := []struct {
		name string
		c    ListCriteria
		want []string
	}{
		{"empty passes everything", ListCriteria{}, []string{"a", "b", "c", "d", "e"}},
		{"game", ListCriteria{Game: core.GameValorant}, []string{"b"}},
		{"category", ListCriteria{Category: core.CategoryBestOf}, []string{"c"}},
		{"tier", ListCriteria{Tier: core.TierC}, []string{"d"}},
		{"event substring ignores case", ListCriteria{Event: "iem"}, []string{"a", "d", "e"}},
		{"outcome", ListCriteria{Outcome: core.OutcomeLost}, []string{"b"}},
		{"inclusive range", ListCriteria{From: base, To: base.Add(time.Hour)}, []string{"a", "b"}},
		{"combined", ListCriteria{Game: core.GameCS2, Outcome: core.OutcomeWon, From: base}, []string{"a", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterList(wagers, tt.c)
			ids := make([]string, len(got))
			for i, w := range got {
				ids[i] = w.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterPeriodIndependentOfList(t *testing.T) {
	wagers := sample()
	period := PeriodCriteria{From: base.Add(time.Hour)}
	visible := FilterList(wagers, ListCriteria{Outcome: core.OutcomeWon})

	assert.Len(t, visible, 3)
	assert.Len(t, FilterPeriod(wagers, period), 3)
	assert.Len(t, wagers, 5)
}

func TestDayBounds(t *testing.T) {
	from, to := DayBounds(base, base, nil)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 3, 1, 23, 59, 59, 999999999, time.UTC), to)

	got := FilterPeriod(sample(), PeriodCriteria{From: from, To: to})
	assert.Len(t, got, 5)
}

func TestLatestAndPaginate(t *testing.T) {
	wagers := sample()

	latest := Latest(wagers, 2)
	require.Len(t, latest, 2)
	assert.Equal(t, "d", latest[0].ID)
	assert.Equal(t, "c", latest[1].ID)
	assert.Len(t, Latest(wagers, 0), 5)

	p := Paginate(wagers, 2, 2)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 5, p.Total)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "c", p.Items[0].ID)

	assert.Empty(t, Paginate(wagers, 9, 5).Items)
	assert.Equal(t, 1, Paginate(wagers, -1, 5).Number)
	assert.Equal(t, 0, Paginate(nil, 1, 5).TotalPages)
}

func TestBuildDashboard(t *testing.T) {
	var wagers []core.Wager
	for i := 0; i < 12; i++ {
		w := wager(fmt.Sprint(i), "10", "2", core.OutcomeWon, time.Duration(i)*time.Minute)
		w.EventName = fmt.Sprintf("Event %d", i)
		wagers = append(wagers, w)
	}
	d := Build(wagers, PeriodCriteria{}, Options{})

	assert.Equal(t, 12, d.Summary.Count)
	assert.Len(t, d.ByEvent, DefaultTopN+1)
	assert.Equal(t, OthersLabel, d.ByEvent[DefaultTopN].Key)
	assert.Len(t, d.OddsDistribution, 5)
	assert.Equal(t, "R$ 120,00", d.NetProfitDisplay)
	assert.InDelta(t, d.Summary.NetProfit, d.Bankroll[len(d.Bankroll)-1].Cumulative, 1e-9)

	narrow := Build(wagers, PeriodCriteria{From: base.Add(11 * time.Minute)}, Options{TopN: 3})
	assert.Equal(t, 1, narrow.Summary.Count)
	assert.Len(t, narrow.ByEvent, 1)
}

func TestOverflowingNumbersStayFinite(t *testing.T) {
	huge := wager("huge", "1e400", "2", core.OutcomeWon, 0)
	corrupt := wager("corrupt", "10", "2", core.OutcomeWon, time.Minute)
	corrupt.SettledReturn = math.Inf(1)
	wagers := []core.Wager{huge, corrupt, wager("ok", "10", "2", core.OutcomeLost, 2*time.Minute)}

	var d Dashboard
	require.NotPanics(t, func() { d = Build(wagers, PeriodCriteria{}, Options{}) })

	s := d.Summary
	for _, v := range []float64{s.TotalInvested, s.TotalReturned, s.NetProfit, s.ROIPercent, s.AverageStake} {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "summary %+v", s)
	}
	assert.InDelta(t, 20.0, s.TotalInvested, 1e-9)
	assert.InDelta(t, -20.0, s.NetProfit, 1e-9)
	assert.True(t, NetProfit(wagers).Equal(decimal.NewFromInt(-20)))
	for _, g := range GroupBy(wagers, DimensionEvent) {
		assert.False(t, math.IsInf(g.Profit, 0), "group %+v", g)
	}
	_, err := json.Marshal(d)
	require.NoError(t, err)
}

func TestBreakdown(t *testing.T) {
	got := Breakdown(sample(), PeriodCriteria{}, DimensionEvent, 1)
	require.Len(t, got, 2)
	assert.Equal(t, OthersLabel, got[1].Key)

	got = Breakdown(sample(), PeriodCriteria{}, DimensionTier, 1)
	assert.Len(t, got, 3)
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("Side")
	require.NoError(t, err)
	assert.Equal(t, DimensionTeam, d)

	_, err = ParseDimension("odds")
	assert.Error(t, err)
}
