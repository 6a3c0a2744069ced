package teamhandlers

import (
	"log/slog"
	"net/http"

	teamservice "github.com/Black-And-White-Club/competition-marking/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/competition-marking/app/modules/team/domain"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// TeamHandlers serves the team admin endpoints.
type TeamHandlers struct {
	service teamservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewTeamHandlers creates a new TeamHandlers instance.
func NewTeamHandlers(service teamservice.Service, logger *slog.Logger, tracer trace.Tracer) *TeamHandlers {
	return &TeamHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type participationRequest struct {
	Participating *bool `json:"participating" validate:"required"`
}

func (h *TeamHandlers) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var profile teamdomain.Profile
	if err := httpx.DecodeJSON(r, &profile); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	team, err := h.service.CreateTeam(r.Context(), profile)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, team)
}

func (h *TeamHandlers) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	participatingOnly := r.URL.Query().Get("participating") == "true"

	teams, err := h.service.ListTeams(r.Context(), participatingOnly)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, teams)
}

func (h *TeamHandlers) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.service.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, team)
}

func (h *TeamHandlers) HandleSetParticipation(w http.ResponseWriter, r *http.Request) {
	var req participationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	team, err := h.service.SetParticipation(r.Context(), chi.URLParam(r, "teamID"), *req.Participating)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, team)
}
