package auth

import (
	"context"
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/competition-marking/config"
	"golang.org/x/time/rate"
)

// Module owns token validation and the HTTP guards every other module mounts.
type Module struct {
	Provider authjwt.Provider
	limiter  *authhandlers.ClientLimiter
	config   *config.Config
	logger   *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Module {
	logger.InfoContext(ctx, "Initializing auth module")

	return &Module{
		Provider: authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer),
		limiter:  authhandlers.NewClientLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		config:   cfg,
		logger:   logger,
	}
}

// Middlewares returns the chain applied to every API route: CORS, rate limiting
// and bearer authentication.
func (m *Module) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.CORSMiddleware(m.config.HTTP.AllowedOrigins),
		authhandlers.RateLimit(m.limiter),
		authhandlers.Authenticate(m.Provider, m.logger),
	}
}

// Require is a shortcut for the capability guard.
func (m *Module) Require(capability authdomain.Capability) func(http.Handler) http.Handler {
	return authhandlers.RequireCapability(capability)
}
