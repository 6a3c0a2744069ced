package userhandlers

import (
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	userservice "github.com/Black-And-White-Club/competition-marking/app/modules/user/application"
	userdomain "github.com/Black-And-White-Club/competition-marking/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/httpx"
	"github.com/go-chi/chi/v5"
)

// UserHandlers serves the user admin endpoints.
type UserHandlers struct {
	service userservice.Service
	logger  *slog.Logger
}

// NewUserHandlers creates a new UserHandlers instance.
func NewUserHandlers(service userservice.Service, logger *slog.Logger) *UserHandlers {
	return &UserHandlers{service: service, logger: logger}
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *UserHandlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var profile userdomain.Profile
	if err := httpx.DecodeJSON(r, &profile); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), profile)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, user)
}

func (h *UserHandlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	filter := userdb.ListFilter{
		Role:       authdomain.Role(r.URL.Query().Get("role")),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}

	users, err := h.service.ListUsers(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *UserHandlers) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.service.SetActive(r.Context(), chi.URLParam(r, "userID"), *req.Active)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}
