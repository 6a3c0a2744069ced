package criterionhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	criterionservice "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/application"
	criteriondomain "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/domain"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeService struct {
	CreateCriterionFunc func(ctx context.Context, def criteriondomain.Definition) (*criteriondb.Criterion, error)
	ListCriteriaFunc    func(ctx context.Context, activeOnly bool) ([]criteriondb.Criterion, error)
}

func (f *FakeService) CreateCriterion(ctx context.Context, def criteriondomain.Definition) (*criteriondb.Criterion, error) {
	if f.CreateCriterionFunc != nil {
		return f.CreateCriterionFunc(ctx, def)
	}
	return &criteriondb.Criterion{}, nil
}

func (f *FakeService) GetCriterion(ctx context.Context, id string) (*criteriondb.Criterion, error) {
	return nil, apperrors.NotFound("criterion", id)
}

func (f *FakeService) ListCriteria(ctx context.Context, activeOnly bool) ([]criteriondb.Criterion, error) {
	if f.ListCriteriaFunc != nil {
		return f.ListCriteriaFunc(ctx, activeOnly)
	}
	return []criteriondb.Criterion{}, nil
}

var _ criterionservice.Service = (*FakeService)(nil)

func newRouter(svc *FakeService) http.Handler {
	h := NewCriterionHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Post("/criteria", h.HandleCreateCriterion)
	r.Get("/criteria", h.HandleListCriteria)
	r.Get("/criteria/{criterionID}", h.HandleGetCriterion)
	return r
}

func TestCriterionHandlers(t *testing.T) {
	t.Run("create decodes optional weight", func(t *testing.T) {
		var got criteriondomain.Definition
		svc := &FakeService{CreateCriterionFunc: func(ctx context.Context, def criteriondomain.Definition) (*criteriondb.Criterion, error) {
			got = def
			return &criteriondb.Criterion{ID: "c1", Name: def.Name}, nil
		}}
		rr := httptest.NewRecorder()
		body := `{"name": "Design", "max_score": 25, "weight": 0.4}`
		newRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/criteria", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, got.Weight)
		assert.Equal(t, 0.4, *got.Weight)
	})

	t.Run("list exposes usage count", func(t *testing.T) {
		svc := &FakeService{ListCriteriaFunc: func(ctx context.Context, activeOnly bool) ([]criteriondb.Criterion, error) {
			return []criteriondb.Criterion{{ID: "c1", Name: "Design", UsageCount: 2}}, nil
		}}
		rr := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/criteria", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var out []map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
		assert.EqualValues(t, 2, out[0]["usage_count"])
	})

	t.Run("get unknown", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newRouter(&FakeService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/criteria/zzz", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
