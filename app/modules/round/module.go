package round

import (
	"context"
	"log/slog"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	roundservice "github.com/Black-And-White-Club/competition-marking/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/competition-marking/app/modules/round/domain"
	roundhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/handlers"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Module wires the round repository, service and routes.
type Module struct {
	Repo    rounddb.Repository
	Service roundservice.Service
}

// NewModule creates the round module and registers its routes on api.
func NewModule(
	ctx context.Context,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.Metrics,
	criterionRepo criteriondb.Repository,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing round module")

	repo := rounddb.NewRepository(db)
	service := roundservice.NewRoundService(
		repo,
		criterionRepo,
		rounddomain.NewTimeParser(rounddomain.RealClock{}),
		logger,
		metrics,
		otel.Tracer("marking/round"),
		db,
	)
	handlers := roundhandlers.NewRoundHandlers(service, logger)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapManageCompetition))
			r.Post("/rounds", handlers.HandleCreateRound)
			r.Patch("/rounds/{roundID}/state", handlers.HandleSetState)
			r.Put("/rounds/{roundID}/criteria", handlers.HandleSetCriteria)
		})
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapViewResults))
			r.Get("/rounds", handlers.HandleListRounds)
			r.Get("/rounds/{roundID}", handlers.HandleGetRound)
		})
	}

	return &Module{Repo: repo, Service: service}
}
