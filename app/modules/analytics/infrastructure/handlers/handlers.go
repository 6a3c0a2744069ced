package analyticshandlers

import (
	"fmt"
	"log/slog"
	"net/http"

	analyticsservice "github.com/Black-And-White-Club/competition-marking/app/modules/analytics/application"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsHandlers serves the round reports.
type AnalyticsHandlers struct {
	service analyticsservice.Service
	logger  *slog.Logger
}

// NewAnalyticsHandlers creates a new AnalyticsHandlers instance.
func NewAnalyticsHandlers(service analyticsservice.Service, logger *slog.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{service: service, logger: logger}
}

func (h *AnalyticsHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDashboard(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *AnalyticsHandlers) HandleExportResults(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "roundID")
	data, err := h.service.ExportResults(r.Context(), roundID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "round-"+roundID+"-results.xlsx"))
	h.writeBinary(w, r, xlsxContentType, data)
}

func (h *AnalyticsHandlers) HandleDistributionChart(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.RenderDistribution(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.writeBinary(w, r, "image/png", data)
}

func (h *AnalyticsHandlers) writeBinary(w http.ResponseWriter, r *http.Request, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write report body", observability.Error(err))
	}
}
