package http

import (
	"net/http"

	"banca/internal/analytics"
	"banca/internal/core"
)

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// optionsResponse lists the choices of the entry form and the analytics
// views.
type optionsResponse struct {
	Categories    []option                                `json:"categories"`
	Tiers         []core.Tier                             `json:"tiers"`
	Games         []string                                `json:"games"`
	HandicapLines []float64                               `json:"handicapLines"`
	Dimensions    []analytics.Dimension                   `json:"dimensions"`
	StakePresets  map[core.BetCategory][]core.StakeOption `json:"stakePresets"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	resp := optionsResponse{
		Tiers:         core.Tiers(),
		Games:         core.Games(),
		HandicapLines: core.HandicapLines(),
		Dimensions:    analytics.Dimensions(),
		StakePresets:  make(map[core.BetCategory][]core.StakeOption),
	}
	for _, c := range core.Categories() {
		resp.Categories = append(resp.Categories, option{Value: string(c), Label: c.Label()})
		resp.StakePresets[c] = core.StakeOptions(c)
	}
	writeJSON(w, http.StatusOK, resp)
}
