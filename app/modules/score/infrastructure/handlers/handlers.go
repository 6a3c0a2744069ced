package scorehandlers

import (
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	scoreservice "github.com/Black-And-White-Club/competition-marking/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// ScoreHandlers serves the judge scoring endpoints.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
}

// NewScoreHandlers creates a new ScoreHandlers instance.
func NewScoreHandlers(service scoreservice.Service, logger *slog.Logger) *ScoreHandlers {
	return &ScoreHandlers{
		service: service,
		logger:  logger,
	}
}

func (h *ScoreHandlers) claims(w http.ResponseWriter, r *http.Request) *authdomain.Claims {
	claims := authhandlers.ClaimsFromContext(r.Context())
	if claims == nil {
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorBody{Error: "unauthorized"})
	}
	return claims
}

func (h *ScoreHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	claims := h.claims(w, r)
	if claims == nil {
		return
	}

	var sub scoredomain.Submission
	if err := httpx.DecodeJSON(r, &sub); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	score, err := h.service.SubmitScore(r.Context(), claims.UserID, chi.URLParam(r, "roundID"), sub)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, score)
}

func (h *ScoreHandlers) HandleModifyScore(w http.ResponseWriter, r *http.Request) {
	claims := h.claims(w, r)
	if claims == nil {
		return
	}

	var mod scoredomain.Modification
	if err := httpx.DecodeJSON(r, &mod); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	score, err := h.service.ModifyScore(r.Context(), claims.UserID, chi.URLParam(r, "scoreID"), mod)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, score)
}

func (h *ScoreHandlers) HandleSubmitTeam(w http.ResponseWriter, r *http.Request) {
	claims := h.claims(w, r)
	if claims == nil {
		return
	}

	scores, err := h.service.SubmitTeamScores(r.Context(), claims.UserID, chi.URLParam(r, "roundID"), chi.URLParam(r, "teamID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scores)
}

// HandleListScores returns every submitted score to callers who may view all
// scores, and the caller's own scores, drafts included, to everyone else.
func (h *ScoreHandlers) HandleListScores(w http.ResponseWriter, r *http.Request) {
	claims := h.claims(w, r)
	if claims == nil {
		return
	}

	scope := scoredomain.ListScope{TeamID: r.URL.Query().Get("team_id")}
	if !claims.Can(authdomain.CapViewAllScores) {
		scope.JudgeID = claims.UserID
		scope.IncludeDrafts = true
	}

	scores, err := h.service.ListScores(r.Context(), chi.URLParam(r, "roundID"), scope)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scores)
}
