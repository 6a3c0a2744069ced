package roundhandlers

import (
	"log/slog"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	roundservice "github.com/Black-And-White-Club/competition-marking/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/competition-marking/app/modules/round/domain"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// RoundHandlers serves the round endpoints.
type RoundHandlers struct {
	service roundservice.Service
	logger  *slog.Logger
}

// NewRoundHandlers creates a new RoundHandlers instance.
func NewRoundHandlers(service roundservice.Service, logger *slog.Logger) *RoundHandlers {
	return &RoundHandlers{service: service, logger: logger}
}

type criteriaRequest struct {
	CriterionIDs []string `json:"criterion_ids" validate:"required"`
}

func (h *RoundHandlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	var draft rounddomain.Draft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	claims := authhandlers.ClaimsFromContext(r.Context())
	if claims == nil {
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorBody{Error: "unauthorized"})
		return
	}

	round, err := h.service.CreateRound(r.Context(), claims.UserID, draft)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, round)
}

func (h *RoundHandlers) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.service.ListRounds(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rounds)
}

func (h *RoundHandlers) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.service.GetRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, round)
}

func (h *RoundHandlers) HandleSetState(w http.ResponseWriter, r *http.Request) {
	var change rounddomain.StateChange
	if err := httpx.DecodeJSON(r, &change); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	round, err := h.service.SetState(r.Context(), chi.URLParam(r, "roundID"), change)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, round)
}

func (h *RoundHandlers) HandleSetCriteria(w http.ResponseWriter, r *http.Request) {
	var req criteriaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	round, err := h.service.SetCriteria(r.Context(), chi.URLParam(r, "roundID"), req.CriterionIDs)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, round)
}
