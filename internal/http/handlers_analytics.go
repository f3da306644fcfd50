package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"banca/internal/analytics"
	"banca/internal/core"
	applog "banca/internal/log"
)

type breakdownResponse struct {
	Dimension analytics.Dimension      `json:"dimension"`
	Period    analytics.PeriodCriteria `json:"period"`
	Groups    []analytics.GroupProfit  `json:"groups"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query(), s.analytics.Location())
	if err != nil {
		writeError(w, r, applog.OpAnalyze, err)
		return
	}
	dash, err := s.analytics.Dashboard(r.Context(), period)
	if err != nil {
		writeError(w, r, applog.OpAnalyze, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, err := analytics.ParseDimension(q.Get("dimension"))
	if err != nil {
		writeError(w, r, applog.OpAnalyze, badRequest("%v", err))
		return
	}
	period, err := ParsePeriod(q, s.analytics.Location())
	if err != nil {
		writeError(w, r, applog.OpAnalyze, err)
		return
	}
	top, err := parsePositiveInt(q, "top", 0)
	if err != nil {
		writeError(w, r, applog.OpAnalyze, err)
		return
	}
	groups, err := s.analytics.Breakdown(r.Context(), period, d, top)
	if err != nil {
		writeError(w, r, applog.OpAnalyze, err)
		return
	}
	if groups == nil {
		groups = []analytics.GroupProfit{}
	}
	writeJSON(w, http.StatusOK, breakdownResponse{Dimension: d, Period: period, Groups: groups})
}

// handleStake sizes a stake for a bankroll. The category defaults to per-map
// and an unknown profile falls back to the category's first preset.
func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := strings.TrimSpace(q.Get("bankroll"))
	bankroll, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || bankroll < 0 || math.IsNaN(bankroll) || math.IsInf(bankroll, 0) || bankroll > core.MaxAmount {
		writeError(w, r, applog.OpAnalyze, badRequest("invalid bankroll %q", raw))
		return
	}

	category := core.CategoryPerMap
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		category = core.BetCategory(v)
		if !category.IsValid() {
			writeError(w, r, applog.OpAnalyze, badRequest("invalid category %q", v))
			return
		}
	}

	profile := core.StakeProfile(strings.TrimSpace(q.Get("profile")))
	writeJSON(w, http.StatusOK, core.RecommendStake(bankroll, category, profile))
}
