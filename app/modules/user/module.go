package user

import (
	"context"
	"log/slog"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	userservice "github.com/Black-And-White-Club/competition-marking/app/modules/user/application"
	userhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/handlers"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Module wires the user repository, service and admin routes.
type Module struct {
	Repo    userdb.Repository
	Service userservice.Service
}

// NewModule creates the user module and registers its routes on api.
func NewModule(
	ctx context.Context,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.Metrics,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing user module")

	repo := userdb.NewRepository(db)
	service := userservice.NewUserService(repo, logger, metrics, otel.Tracer("marking/user"), db)
	handlers := userhandlers.NewUserHandlers(service, logger)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapManageCompetition))
			r.Post("/users", handlers.HandleCreateUser)
			r.Get("/users", handlers.HandleListUsers)
			r.Patch("/users/{userID}/active", handlers.HandleSetActive)
		})
	}

	return &Module{Repo: repo, Service: service}
}
