package scorehandlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/handlers"
	scoreservice "github.com/Black-And-White-Club/competition-marking/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeService struct {
	lastJudge string
	lastScope scoredomain.ListScope
	lastMod   scoredomain.Modification

	ModifyScoreFunc func(ctx context.Context, judgeID, scoreID string, mod scoredomain.Modification) (*scoredb.Score, error)
}

func (f *FakeService) SubmitScore(ctx context.Context, judgeID, roundID string, sub scoredomain.Submission) (*scoredb.Score, error) {
	f.lastJudge = judgeID
	return &scoredb.Score{ID: "s1", JudgeID: judgeID, RoundID: roundID, TeamID: sub.TeamID, Value: *sub.Value}, nil
}

func (f *FakeService) ModifyScore(ctx context.Context, judgeID, scoreID string, mod scoredomain.Modification) (*scoredb.Score, error) {
	f.lastJudge = judgeID
	f.lastMod = mod
	if f.ModifyScoreFunc != nil {
		return f.ModifyScoreFunc(ctx, judgeID, scoreID, mod)
	}
	return &scoredb.Score{ID: scoreID, Version: mod.ExpectedVersion + 1}, nil
}

func (f *FakeService) SubmitTeamScores(ctx context.Context, judgeID, roundID, teamID string) ([]scoredb.Score, error) {
	f.lastJudge = judgeID
	return []scoredb.Score{}, nil
}

func (f *FakeService) ListScores(ctx context.Context, roundID string, scope scoredomain.ListScope) ([]scoredb.Score, error) {
	f.lastScope = scope
	return []scoredb.Score{}, nil
}

var _ scoreservice.Service = (*FakeService)(nil)

func newRouter(svc *FakeService, claims *authdomain.Claims) http.Handler {
	h := NewScoreHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if claims != nil {
				req = req.WithContext(authhandlers.WithClaims(req.Context(), claims))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/rounds/{roundID}/scores", h.HandleSubmitScore)
	r.Patch("/scores/{scoreID}", h.HandleModifyScore)
	r.Post("/rounds/{roundID}/teams/{teamID}/submit", h.HandleSubmitTeam)
	r.Get("/rounds/{roundID}/scores", h.HandleListScores)
	return r
}

var (
	judgeClaims = &authdomain.Claims{UserID: "j1", Role: authdomain.RoleJudge}
	adminClaims = &authdomain.Claims{UserID: "a1", Role: authdomain.RoleAdmin}
)

func TestHandleSubmitScore(t *testing.T) {
	t.Run("judge comes from claims", func(t *testing.T) {
		svc := &FakeService{}
		rr := httptest.NewRecorder()
		body := `{"team_id": "t1", "criterion_id": "c1", "value": 0, "submit": true}`
		newRouter(svc, judgeClaims).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rounds/r1/scores", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "j1", svc.lastJudge)
	})

	t.Run("missing value", func(t *testing.T) {
		rr := httptest.NewRecorder()
		body := `{"team_id": "t1", "criterion_id": "c1"}`
		newRouter(&FakeService{}, judgeClaims).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rounds/r1/scores", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no claims", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newRouter(&FakeService{}, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rounds/r1/scores", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHandleModifyScore(t *testing.T) {
	t.Run("passes expected version", func(t *testing.T) {
		svc := &FakeService{}
		rr := httptest.NewRecorder()
		newRouter(svc, judgeClaims).ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/scores/s1", strings.NewReader(`{"expected_version": 2, "value": 7}`)))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, svc.lastMod.ExpectedVersion)
		assert.Contains(t, rr.Body.String(), `"version":3`)
	})

	t.Run("version conflict", func(t *testing.T) {
		svc := &FakeService{ModifyScoreFunc: func(ctx context.Context, judgeID, scoreID string, mod scoredomain.Modification) (*scoredb.Score, error) {
			return nil, apperrors.Conflict("score", "expected version 1, stored version is 2")
		}}
		rr := httptest.NewRecorder()
		newRouter(svc, judgeClaims).ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/scores/s1", strings.NewReader(`{"expected_version": 1, "value": 7}`)))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestHandleSubmitTeam(t *testing.T) {
	svc := &FakeService{}
	rr := httptest.NewRecorder()
	newRouter(svc, judgeClaims).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rounds/r1/teams/t1/submit", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "j1", svc.lastJudge)
}

func TestHandleListScores_Scope(t *testing.T) {
	tests := []struct {
		name   string
		claims *authdomain.Claims
		want   scoredomain.ListScope
	}{
		{name: "admin sees submitted scores of everyone", claims: adminClaims, want: scoredomain.ListScope{TeamID: "t1"}},
		{name: "judge sees own drafts", claims: judgeClaims, want: scoredomain.ListScope{TeamID: "t1", JudgeID: "j1", IncludeDrafts: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			rr := httptest.NewRecorder()
			newRouter(svc, tt.claims).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rounds/r1/scores?team_id=t1", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, svc.lastScope)
		})
	}
}
