// AngelaMos | 2026
// handler.go

package report

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

type SummaryResponse struct {
	WinRate          float64 `json:"win_rate"`
	AvgCycleLength   float64 `json:"avg_cycle_length"`
	DealsWonThisYear int     `json:"deals_won_this_year"`
	WonDeals         int     `json:"won_deals"`
	LostDeals        int     `json:"lost_deals"`
}

type DashboardResponse struct {
	PipelineValue  int64 `json:"pipeline_value"`
	OpenDealsCount int   `json:"open_deals_count"`
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/reports", h.Summary)
		r.Get("/dashboard", h.Dashboard)
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Summary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SummaryResponse{
		WinRate:          roundTenth(s.WinRate),
		AvgCycleLength:   roundTenth(s.AvgCycleDays),
		DealsWonThisYear: s.WonThisYear,
		WonDeals:         s.Won,
		LostDeals:        s.Lost,
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, DashboardResponse{
		PipelineValue:  d.PipelineValue,
		OpenDealsCount: d.OpenDeals,
	})
}
