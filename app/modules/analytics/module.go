package analytics

import (
	"context"
	"log/slog"

	analyticsservice "github.com/Black-And-White-Club/competition-marking/app/modules/analytics/application"
	analyticshandlers "github.com/Black-And-White-Club/competition-marking/app/modules/analytics/infrastructure/handlers"
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

// Module wires the report service and routes.
type Module struct {
	Service analyticsservice.Service
}

// Deps are the services the reporter reads from.
type Deps struct {
	Aggregator  analyticsservice.Aggregator
	Assignments analyticsservice.AssignmentStats
	Scores      analyticsservice.ScoreLister
}

// NewModule creates the analytics module and registers its routes on api.
func NewModule(
	ctx context.Context,
	logger *slog.Logger,
	metrics observability.Metrics,
	deps Deps,
	api chi.Router,
) *Module {
	logger.InfoContext(ctx, "Initializing analytics module")

	service := analyticsservice.NewReportService(
		deps.Aggregator,
		deps.Assignments,
		deps.Scores,
		logger,
		metrics,
		otel.Tracer("marking/analytics"),
	)
	handlers := analyticshandlers.NewAnalyticsHandlers(service, logger)

	if api != nil {
		api.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireCapability(authdomain.CapViewResults))
			r.Get("/rounds/{roundID}/reports/dashboard", handlers.HandleDashboard)
			r.Get("/rounds/{roundID}/reports/results.xlsx", handlers.HandleExportResults)
			r.Get("/rounds/{roundID}/reports/distribution.png", handlers.HandleDistributionChart)
		})
	}

	return &Module{Service: service}
}
