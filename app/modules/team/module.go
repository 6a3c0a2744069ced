package team

import (
	"context"
	"log/slog"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	teamservice "github.com/Black-And-White-Club/competition-marking/app/modules/team/application"
	teamhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/handlers"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Module wires the team repository, service and admin routes.
type Module struct {
	Repo    teamdb.Repository
	Service teamservice.Service
}

// NewModule creates the team module and registers its routes on api.
func NewModule(
	ctx context.Context,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.Metrics,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing team module")

	tracer := otel.Tracer("marking/team")
	repo := teamdb.NewRepository(db)
	service := teamservice.NewTeamService(repo, logger, metrics, tracer, db)
	handlers := teamhandlers.NewTeamHandlers(service, logger, tracer)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapManageCompetition))
			r.Post("/teams", handlers.HandleCreateTeam)
			r.Get("/teams", handlers.HandleListTeams)
			r.Get("/teams/{teamID}", handlers.HandleGetTeam)
			r.Patch("/teams/{teamID}/participation", handlers.HandleSetParticipation)
		})
	}

	return &Module{Repo: repo, Service: service}
}
