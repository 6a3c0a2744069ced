package criterionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	criteriondomain "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/domain"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"github.com/Black-And-White-Club/competition-marking/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// CriterionService implements the Service interface.
type CriterionService struct {
	repo   criteriondb.Repository
	runner *operations.Runner
}

// NewCriterionService creates a new CriterionService.
func NewCriterionService(
	repo criteriondb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *CriterionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CriterionService{
		repo: repo,
		runner: &operations.Runner{
			Service: "CriterionService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// CreateCriterion validates and stores a criterion. An unset weight becomes 1.0.
func (s *CriterionService) CreateCriterion(ctx context.Context, def criteriondomain.Definition) (*criteriondb.Criterion, error) {
	return operations.Run(s.runner, ctx, "CreateCriterion", def.Name, func(ctx context.Context, db bun.IDB) (results.OperationResult[*criteriondb.Criterion, error], error) {
		if err := def.Validate(); err != nil {
			return results.FailureResult[*criteriondb.Criterion, error](err), nil
		}

		criterion := &criteriondb.Criterion{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(def.Name),
			Description:  def.Description,
			MaxScore:     def.MaxScore,
			Weight:       def.EffectiveWeight(),
			MarkingGuide: def.MarkingGuide,
			Active:       true,
		}
		if err := s.repo.Create(ctx, db, criterion); err != nil {
			if errors.Is(err, criteriondb.ErrDuplicate) {
				return results.FailureResult[*criteriondb.Criterion, error](apperrors.Conflict("criterion", "name %q already exists", criterion.Name)), nil
			}
			return results.OperationResult[*criteriondb.Criterion, error]{}, fmt.Errorf("failed to create criterion: %w", err)
		}
		return results.SuccessResult[*criteriondb.Criterion, error](criterion), nil
	})
}

// GetCriterion retrieves a criterion with its usage count.
func (s *CriterionService) GetCriterion(ctx context.Context, id string) (*criteriondb.Criterion, error) {
	return operations.Run(s.runner, ctx, "GetCriterion", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*criteriondb.Criterion, error], error) {
		criterion, err := s.repo.GetByID(ctx, db, id)
		if err != nil {
			if errors.Is(err, criteriondb.ErrNotFound) {
				return results.FailureResult[*criteriondb.Criterion, error](apperrors.NotFound("criterion", id)), nil
			}
			return results.OperationResult[*criteriondb.Criterion, error]{}, fmt.Errorf("failed to get criterion: %w", err)
		}
		return results.SuccessResult[*criteriondb.Criterion, error](criterion), nil
	})
}

// ListCriteria lists criteria with their usage counts.
func (s *CriterionService) ListCriteria(ctx context.Context, activeOnly bool) ([]criteriondb.Criterion, error) {
	return operations.Run(s.runner, ctx, "ListCriteria", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]criteriondb.Criterion, error], error) {
		criteria, err := s.repo.List(ctx, db, activeOnly)
		if err != nil {
			return results.OperationResult[[]criteriondb.Criterion, error]{}, fmt.Errorf("failed to list criteria: %w", err)
		}
		return results.SuccessResult[[]criteriondb.Criterion, error](criteria), nil
	})
}
