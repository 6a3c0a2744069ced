package assignmenthandlers

import (
	"log/slog"
	"net/http"

	assignmentservice "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/application"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// AssignmentHandlers serves the judge assignment endpoints.
type AssignmentHandlers struct {
	service assignmentservice.Service
	logger  *slog.Logger
}

// NewAssignmentHandlers creates a new AssignmentHandlers instance.
func NewAssignmentHandlers(service assignmentservice.Service, logger *slog.Logger) *AssignmentHandlers {
	return &AssignmentHandlers{
		service: service,
		logger:  logger,
	}
}

func (h *AssignmentHandlers) HandleAssignJudges(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.AssignJudges(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}

func (h *AssignmentHandlers) HandleOptimizeAssignments(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.OptimizeAssignments(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}

func (h *AssignmentHandlers) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetAssignmentStats(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (h *AssignmentHandlers) HandleAssignJudge(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.AssignJudge(r.Context(),
		chi.URLParam(r, "roundID"),
		chi.URLParam(r, "teamID"),
		chi.URLParam(r, "judgeID"),
	)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}

func (h *AssignmentHandlers) HandleUnassignJudge(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.UnassignJudge(r.Context(),
		chi.URLParam(r, "roundID"),
		chi.URLParam(r, "teamID"),
		chi.URLParam(r, "judgeID"),
	)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}
