package aggregation

import (
	"context"
	"log/slog"

	aggregationservice "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/application"
	aggregationhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/infrastructure/handlers"
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Module wires the aggregation service and routes. It owns no tables.
type Module struct {
	Service aggregationservice.Service
}

// NewModule creates the aggregation module and registers its routes on api.
func NewModule(
	ctx context.Context,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.Metrics,
	repos aggregationservice.Repositories,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing aggregation module")

	service := aggregationservice.NewAggregationService(repos, logger, metrics, otel.Tracer("marking/aggregation"), db)
	handlers := aggregationhandlers.NewAggregationHandlers(service, logger)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapViewResults))
			r.Get("/rounds/{roundID}/teams/{teamID}/summary", handlers.HandleTeamSummary)
			r.Get("/results", handlers.HandleResults)
			r.Get("/rounds/{roundID}/analytics", handlers.HandleAnalytics)
		})
	}

	return &Module{Service: service}
}
