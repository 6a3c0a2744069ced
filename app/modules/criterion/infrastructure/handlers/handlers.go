package criterionhandlers

import (
	"log/slog"
	"net/http"

	criterionservice "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/application"
	criteriondomain "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/domain"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// CriterionHandlers serves the criterion admin endpoints.
type CriterionHandlers struct {
	service criterionservice.Service
	logger  *slog.Logger
}

// NewCriterionHandlers creates a new CriterionHandlers instance.
func NewCriterionHandlers(service criterionservice.Service, logger *slog.Logger) *CriterionHandlers {
	return &CriterionHandlers{service: service, logger: logger}
}

func (h *CriterionHandlers) HandleCreateCriterion(w http.ResponseWriter, r *http.Request) {
	var def criteriondomain.Definition
	if err := httpx.DecodeJSON(r, &def); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	criterion, err := h.service.CreateCriterion(r.Context(), def)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, criterion)
}

func (h *CriterionHandlers) HandleListCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.service.ListCriteria(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, criteria)
}

func (h *CriterionHandlers) HandleGetCriterion(w http.ResponseWriter, r *http.Request) {
	criterion, err := h.service.GetCriterion(r.Context(), chi.URLParam(r, "criterionID"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, criterion)
}
