package aggregationhandlers

import (
	"log/slog"
	"net/http"

	aggregationservice "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/application"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// AggregationHandlers serves summaries, results and analytics.
type AggregationHandlers struct {
	service aggregationservice.Service
	logger  *slog.Logger
}

// NewAggregationHandlers creates a new AggregationHandlers instance.
func NewAggregationHandlers(service aggregationservice.Service, logger *slog.Logger) *AggregationHandlers {
	return &AggregationHandlers{
		service: service,
		logger:  logger,
	}
}

func (h *AggregationHandlers) HandleTeamSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetTeamScoreSummary(r.Context(), chi.URLParam(r, "teamID"), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}

// HandleResults ranks ?round_id=, or the latest closed round when absent.
func (h *AggregationHandlers) HandleResults(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.CalculateWinner(r.Context(), r.URL.Query().Get("round_id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *AggregationHandlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.service.GetDetailedAnalytics(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, analytics)
}
