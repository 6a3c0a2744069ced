package score

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/competition-marking/app/eventbus"
	assignmentdb "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories"
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	scoreservice "github.com/Black-And-White-Club/competition-marking/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/handlers"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Module wires the score repository, service and routes.
type Module struct {
	Repo    scoredb.Repository
	Service scoreservice.Service
}

// Deps are the repositories and collaborators owned by other modules.
type Deps struct {
	Rounds      rounddb.Repository
	Criteria    criteriondb.Repository
	Assignments assignmentdb.Repository
	Publisher   eventbus.Publisher
}

// NewModule creates the score module and registers its routes on api.
func NewModule(
	ctx context.Context,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.Metrics,
	deps Deps,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing score module")

	repo := scoredb.NewRepository(db)
	service := scoreservice.NewScoreService(
		repo,
		deps.Rounds,
		deps.Criteria,
		deps.Assignments,
		deps.Publisher,
		logger,
		metrics,
		otel.Tracer("marking/score"),
		db,
	)
	handlers := scorehandlers.NewScoreHandlers(service, logger)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapSubmitScores))
			r.Post("/rounds/{roundID}/scores", handlers.HandleSubmitScore)
			r.Patch("/scores/{scoreID}", handlers.HandleModifyScore)
			r.Post("/rounds/{roundID}/teams/{teamID}/submit", handlers.HandleSubmitTeam)
		})
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapViewResults))
			r.Get("/rounds/{roundID}/scores", handlers.HandleListScores)
		})
	}

	return &Module{Repo: repo, Service: service}
}
