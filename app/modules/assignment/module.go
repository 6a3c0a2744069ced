package assignment

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/competition-marking/app/eventbus"
	assignmentservice "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/application"
	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	assignmenthandlers "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/handlers"
	assignmentdb "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories"
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/locks"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Module wires the assignment repository, engine, service and routes.
type Module struct {
	Repo    assignmentdb.Repository
	Service assignmentservice.Service
}

// Deps are the repositories and collaborators owned by other modules.
type Deps struct {
	Teams            teamdb.Repository
	Users            userdb.Repository
	Rounds           rounddb.Repository
	Publisher        eventbus.Publisher
	MaxJudgesPerTeam int
}

// NewModule creates the assignment module and registers its routes on api.
func NewModule(
	ctx context.Context,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.Metrics,
	deps Deps,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing assignment module",
		slog.Int("max_judges_per_team", deps.MaxJudgesPerTeam),
	)

	repo := assignmentdb.NewRepository(db)
	service := assignmentservice.NewAssignmentService(
		assignmentservice.Repositories{
			Assignments: repo,
			Teams:       deps.Teams,
			Users:       deps.Users,
			Rounds:      deps.Rounds,
		},
		assignmentdomain.NewEngine(deps.MaxJudgesPerTeam),
		locks.NewKeyed(),
		deps.Publisher,
		logger,
		metrics,
		otel.Tracer("marking/assignment"),
		db,
	)
	handlers := assignmenthandlers.NewAssignmentHandlers(service, logger)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapManageCompetition))
			r.Post("/rounds/{roundID}/assignments", handlers.HandleAssignJudges)
			r.Post("/rounds/{roundID}/assignments/optimize", handlers.HandleOptimizeAssignments)
			r.Get("/rounds/{roundID}/assignments/stats", handlers.HandleGetStats)
			r.Put("/rounds/{roundID}/teams/{teamID}/judges/{judgeID}", handlers.HandleAssignJudge)
			r.Delete("/rounds/{roundID}/teams/{teamID}/judges/{judgeID}", handlers.HandleUnassignJudge)
		})
	}

	return &Module{Repo: repo, Service: service}
}
