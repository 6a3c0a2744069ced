package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/competition-marking/app/eventbus"
	"github.com/Black-And-White-Club/competition-marking/app/modules/aggregation"
	aggregationservice "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/application"
	"github.com/Black-And-White-Club/competition-marking/app/modules/analytics"
	"github.com/Black-And-White-Club/competition-marking/app/modules/assignment"
	"github.com/Black-And-White-Club/competition-marking/app/modules/auth"
	"github.com/Black-And-White-Club/competition-marking/app/modules/criterion"
	"github.com/Black-And-White-Club/competition-marking/app/modules/round"
	"github.com/Black-And-White-Club/competition-marking/app/modules/score"
	"github.com/Black-And-White-Club/competition-marking/app/modules/team"
	"github.com/Black-And-White-Club/competition-marking/app/modules/user"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/config"
	"github.com/Black-And-White-Club/competition-marking/db/bundb"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

// Modules holds every initialized module.
type Modules struct {
	Auth        *auth.Module
	User        *user.Module
	Team        *team.Module
	Criterion   *criterion.Module
	Round       *round.Module
	Assignment  *assignment.Module
	Score       *score.Module
	Aggregation *aggregation.Module
	Analytics   *analytics.Module
}

// App owns the process-wide resources and the HTTP handler tree.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	EventBus *eventbus.EventBus
	Registry *prometheus.Registry
	Modules  Modules
	Router   http.Handler
}

// NewApp connects to Postgres and the event bus, then builds every module on
// a single API router.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	return New(ctx, cfg, logger, db, bus), nil
}

// New builds the modules on already open connections. A nil bus drops events.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *bun.DB, bus *eventbus.EventBus) *App {
	var publisher eventbus.Publisher = eventbus.NoopPublisher{}
	if bus != nil {
		publisher = bus
	}

	registry := prometheus.NewRegistry()
	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		EventBus: bus,
		Registry: registry,
	}
	a.Router = a.buildRouter(ctx, observability.NewPrometheusMetrics(registry), publisher)
	return a
}

// buildRouter mounts /healthz and the authenticated /api/v1 tree. Modules are
// created in dependency order since later ones read earlier ones' repositories.
func (a *App) buildRouter(ctx context.Context, metrics observability.Metrics, publisher eventbus.Publisher) http.Handler {
	root := NewRouter(a.Config, a.Logger, a.DB)

	root.Route("/api/v1", func(api chi.Router) {
		a.Modules.Auth = auth.NewModule(ctx, a.Config, a.Logger)
		api.Use(a.Modules.Auth.Middlewares()...)

		m := &a.Modules
		m.User = user.NewModule(ctx, a.DB, a.Logger, metrics, api)
		m.Team = team.NewModule(ctx, a.DB, a.Logger, metrics, api)
		m.Criterion = criterion.NewModule(ctx, a.DB, a.Logger, metrics, api)
		m.Round = round.NewModule(ctx, a.DB, a.Logger, metrics, m.Criterion.Repo, api)
		m.Assignment = assignment.NewModule(ctx, a.DB, a.Logger, metrics, assignment.Deps{
			Teams:            m.Team.Repo,
			Users:            m.User.Repo,
			Rounds:           m.Round.Repo,
			Publisher:        publisher,
			MaxJudgesPerTeam: a.Config.Marking.MaxJudgesPerTeam,
		}, api)
		m.Score = score.NewModule(ctx, a.DB, a.Logger, metrics, score.Deps{
			Rounds:      m.Round.Repo,
			Criteria:    m.Criterion.Repo,
			Assignments: m.Assignment.Repo,
			Publisher:   publisher,
		}, api)
		m.Aggregation = aggregation.NewModule(ctx, a.DB, a.Logger, metrics, aggregationservice.Repositories{
			Scores:   m.Score.Repo,
			Rounds:   m.Round.Repo,
			Teams:    m.Team.Repo,
			Criteria: m.Criterion.Repo,
			Users:    m.User.Repo,
		}, api)
		m.Analytics = analytics.NewModule(ctx, a.Logger, metrics, analytics.Deps{
			Aggregator:  m.Aggregation.Service,
			Assignments: m.Assignment.Service,
			Scores:      m.Score.Service,
		}, api)
	})

	return root
}

// Close releases the event bus and the database pool.
func (a *App) Close() error {
	var firstErr error
	if a.EventBus != nil {
		if err := a.EventBus.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close event bus: %w", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
	}
	return firstErr
}
