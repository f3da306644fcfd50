package http

import (
	"fmt"
	"net/http"
	"strconv"

	"banca/internal/analytics"
	"banca/internal/core"
	applog "banca/internal/log"
	"banca/internal/services"
)

// settleRequest is the body of POST /api/wagers/{id}/settle.
type settleRequest struct {
	Outcome string `json:"outcome"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleListWagers(w http.ResponseWriter, r *http.Request) {
	c, err := ParseListCriteria(r.URL.Query(), s.analytics.Location())
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	wagers, err := s.analytics.Filtered(r.Context(), c)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(wagers))
}

func (s *Server) handleLatestWagers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := ParseListCriteria(q, s.analytics.Location())
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	n, err := parsePositiveInt(q, "limit", analytics.DefaultLatest)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	wagers, err := s.analytics.Latest(r.Context(), c, n)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(wagers))
}

func (s *Server) handleWagerPage(w http.ResponseWriter, r *http.Request) {
	page, err := parsePositiveInt(r.URL.Query(), "page", 1)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	p, err := s.analytics.Page(r.Context(), page, analytics.DefaultPageSize)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	p.Items = nonNil(p.Items)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateWager(w http.ResponseWriter, r *http.Request) {
	var in services.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	wager, err := s.wagers.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	w.Header().Set("Location", "/api/wagers/"+wager.ID)
	writeJSON(w, http.StatusCreated, wager)
}

func (s *Server) handleSettleWager(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpSettle, err)
		return
	}
	outcome, err := core.ParseOutcome(req.Outcome)
	if err != nil || !outcome.IsSettled() {
		writeError(w, r, applog.OpSettle, badRequest("outcome must be %q or %q", core.OutcomeWon, core.OutcomeLost))
		return
	}
	wager, err := s.wagers.Settle(r.Context(), r.PathValue("id"), outcome)
	if err != nil {
		writeError(w, r, applog.OpSettle, err)
		return
	}
	writeJSON(w, http.StatusOK, wager)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r, maxImportBytes)
	if err != nil {
		writeError(w, r, applog.OpImport, err)
		return
	}
	wagers, err := s.wagers.Import(r.Context(), data)
	if err != nil {
		writeError(w, r, applog.OpImport, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: len(wagers)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.wagers.Export(r.Context())
	if err != nil {
		writeError(w, r, applog.OpExport, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := s.wagers.Reset(r.Context(), confirmed); err != nil {
		writeError(w, r, applog.OpReset, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nonNil makes empty lists encode as [] instead of null.
func nonNil(wagers []core.Wager) []core.Wager {
	if wagers == nil {
		return []core.Wager{}
	}
	return wagers
}
