package app

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	"github.com/Black-And-White-Club/competition-marking/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Addr:           ":0",
			RequestTimeout: 5 * time.Second,
			RateLimit:      1000,
			RateBurst:      1000,
		},
		JWT: config.JWTConfig{
			Secret: "test-secret-0123456789",
			Issuer: "competition-marking",
		},
		Marking: config.MarkingConfig{MaxJudgesPerTeam: 3},
	}
}

// newTestApp builds the full handler tree on a pool that never connects, so
// only requests rejected before reaching a repository can be exercised.
func newTestApp(t *testing.T) *App {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://nobody@127.0.0.1:1/none?sslmode=disable")))
	t.Cleanup(func() { sqldb.Close() })

	return New(context.Background(), testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), bun.NewDB(sqldb, pgdialect.New()), nil)
}

func token(t *testing.T, a *App, role authdomain.Role) string {
	t.Helper()
	tok, err := a.Modules.Auth.Provider.GenerateToken(&authdomain.Claims{UserID: "u1", Name: "Test", Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRouter_Guards(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		name       string
		method     string
		path       string
		role       authdomain.Role
		wantStatus int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/v1/teams", wantStatus: http.StatusUnauthorized},
		{name: "judge cannot assign", method: http.MethodPost, path: "/api/v1/rounds/r1/assignments", role: authdomain.RoleJudge, wantStatus: http.StatusForbidden},
		{name: "judge cannot manage teams", method: http.MethodGet, path: "/api/v1/teams", role: authdomain.RoleJudge, wantStatus: http.StatusForbidden},
		{name: "admin cannot submit scores", method: http.MethodPost, path: "/api/v1/rounds/r1/scores", role: authdomain.RoleAdmin, wantStatus: http.StatusForbidden},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", role: authdomain.RoleAdmin, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", token(t, a, tt.role))
			}
			rr := httptest.NewRecorder()
			a.Router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestHealthz(t *testing.T) {
	r := NewRouter(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
