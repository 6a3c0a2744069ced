package criterion

import (
	"context"
	"log/slog"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	criterionservice "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/application"
	criterionhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/handlers"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Module wires the criterion repository, service and admin routes.
type Module struct {
	Repo    criteriondb.Repository
	Service criterionservice.Service
}

// NewModule creates the criterion module and registers its routes on api.
func NewModule(
	ctx context.Context,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.Metrics,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing criterion module")

	repo := criteriondb.NewRepository(db)
	service := criterionservice.NewCriterionService(repo, logger, metrics, otel.Tracer("marking/criterion"), db)
	handlers := criterionhandlers.NewCriterionHandlers(service, logger)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapManageCompetition))
			r.Post("/criteria", handlers.HandleCreateCriterion)
			r.Get("/criteria", handlers.HandleListCriteria)
			r.Get("/criteria/{criterionID}", handlers.HandleGetCriterion)
		})
	}

	return &Module{Repo: repo, Service: service}
}
