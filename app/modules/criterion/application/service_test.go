package criterionservice

import (
	"context"
	"io"
	"log/slog"
	"testing"

	criteriondomain "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/domain"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo *FakeCriterionRepo) *CriterionService {
	return NewCriterionService(
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func TestCreateCriterion(t *testing.T) {
	half := 0.5

	tests := []struct {
		name       string
		def        criteriondomain.Definition
		setupRepo  func(*FakeCriterionRepo)
		wantErr    error
		wantWeight float64
		wantTrace  []string
	}{
		{
			name:       "defaults weight",
			def:        criteriondomain.Definition{Name: "Innovation", MaxScore: 20},
			setupRepo:  func(f *FakeCriterionRepo) {},
			wantWeight: 1.0,
			wantTrace:  []string{"Create"},
		},
		{
			name:       "keeps explicit weight",
			def:        criteriondomain.Definition{Name: "Polish", MaxScore: 10, Weight: &half},
			setupRepo:  func(f *FakeCriterionRepo) {},
			wantWeight: 0.5,
			wantTrace:  []string{"Create"},
		},
		{
			name:      "invalid max score",
			def:       criteriondomain.Definition{Name: "Polish", MaxScore: 0},
			setupRepo: func(f *FakeCriterionRepo) {},
			wantErr:   apperrors.ErrInvalidInput,
			wantTrace: []string{},
		},
		{
			name: "duplicate name",
			def:  criteriondomain.Definition{Name: "Polish", MaxScore: 10},
			setupRepo: func(f *FakeCriterionRepo) {
				f.CreateFunc = func(ctx context.Context, db bun.IDB, c *criteriondb.Criterion) error {
					return criteriondb.ErrDuplicate
				}
			},
			wantErr:   apperrors.ErrConflict,
			wantTrace: []string{"Create"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeCriterionRepo()
			tt.setupRepo(repo)

			c, err := newTestService(repo).CreateCriterion(context.Background(), tt.def)
			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWeight, c.Weight)
			assert.True(t, c.Active)
		})
	}
}

func TestGetCriterion_NotFound(t *testing.T) {
	_, err := newTestService(NewFakeCriterionRepo()).GetCriterion(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
