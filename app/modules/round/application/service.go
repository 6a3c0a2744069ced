package roundservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/competition-marking/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"github.com/Black-And-White-Club/competition-marking/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RoundService implements the Service interface.
type RoundService struct {
	repo          rounddb.Repository
	criterionRepo criteriondb.Repository
	parser        *rounddomain.TimeParser
	runner        *operations.Runner
}

// NewRoundService creates a new RoundService.
func NewRoundService(
	repo rounddb.Repository,
	criterionRepo criteriondb.Repository,
	parser *rounddomain.TimeParser,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = rounddomain.NewTimeParser(nil)
	}
	return &RoundService{
		repo:          repo,
		criterionRepo: criterionRepo,
		parser:        parser,
		runner: &operations.Runner{
			Service: "RoundService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// CreateRound resolves the draft's time window and stores a closed, inactive round.
func (s *RoundService) CreateRound(ctx context.Context, ownerID string, draft rounddomain.Draft) (*rounddb.Round, error) {
	return operations.Run(s.runner, ctx, "CreateRound", draft.Name, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddb.Round, error], error) {
		window, err := draft.Resolve(s.parser)
		if err != nil {
			return results.FailureResult[*rounddb.Round, error](err), nil
		}
		if failure, err := s.checkCriteria(ctx, db, draft.CriterionIDs); err != nil {
			return results.OperationResult[*rounddb.Round, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*rounddb.Round, error](failure), nil
		}

		criterionIDs := draft.CriterionIDs
		if criterionIDs == nil {
			criterionIDs = []string{}
		}
		round := &rounddb.Round{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(draft.Name),
			Description:  draft.Description,
			StartTime:    window.Start,
			EndTime:      window.End,
			OwnerID:      ownerID,
			CriterionIDs: criterionIDs,
		}
		if err := s.repo.Create(ctx, db, round); err != nil {
			return results.OperationResult[*rounddb.Round, error]{}, fmt.Errorf("failed to create round: %w", err)
		}
		return results.SuccessResult[*rounddb.Round, error](round), nil
	})
}

// checkCriteria returns a failure naming the first unknown or inactive criterion.
func (s *RoundService) checkCriteria(ctx context.Context, db bun.IDB, ids []string) (failure error, err error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.criterionRepo.GetByIDs(ctx, db, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load criteria: %w", err)
	}
	byID := make(map[string]criteriondb.Criterion, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return apperrors.NotFound("criterion", id), nil
		}
		if !c.Active {
			return apperrors.InvalidInput("criterion_ids", "criterion %q is inactive", c.Name), nil
		}
	}
	return nil, nil
}

// GetRound retrieves a round with derived progress.
func (s *RoundService) GetRound(ctx context.Context, id string) (*rounddb.Round, error) {
	return operations.Run(s.runner, ctx, "GetRound", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddb.Round, error], error) {
		return s.getRoundLogic(ctx, db, id)
	})
}

func (s *RoundService) getRoundLogic(ctx context.Context, db bun.IDB, id string) (results.OperationResult[*rounddb.Round, error], error) {
	round, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return results.FailureResult[*rounddb.Round, error](apperrors.RoundNotFound(id)), nil
		}
		return results.OperationResult[*rounddb.Round, error]{}, fmt.Errorf("failed to get round: %w", err)
	}
	return results.SuccessResult[*rounddb.Round, error](round), nil
}

// ListRounds lists rounds, newest start first.
func (s *RoundService) ListRounds(ctx context.Context) ([]rounddb.Round, error) {
	return operations.Run(s.runner, ctx, "ListRounds", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]rounddb.Round, error], error) {
		rounds, err := s.repo.List(ctx, db)
		if err != nil {
			return results.OperationResult[[]rounddb.Round, error]{}, fmt.Errorf("failed to list rounds: %w", err)
		}
		return results.SuccessResult[[]rounddb.Round, error](rounds), nil
	})
}

// SetState opens, closes, activates or deactivates a round.
func (s *RoundService) SetState(ctx context.Context, id string, change rounddomain.StateChange) (*rounddb.Round, error) {
	return operations.Run(s.runner, ctx, "SetState", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddb.Round, error], error) {
		if err := change.Validate(); err != nil {
			return results.FailureResult[*rounddb.Round, error](err), nil
		}
		current, err := s.getRoundLogic(ctx, db, id)
		if err != nil || current.IsFailure() {
			return current, err
		}

		state := rounddb.State{IsActive: (*current.Success).IsActive, IsOpen: (*current.Success).IsOpen}
		if change.IsActive != nil {
			state.IsActive = *change.IsActive
		}
		if change.IsOpen != nil {
			state.IsOpen = *change.IsOpen
		}
		if err := s.repo.UpdateState(ctx, db, id, state); err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return results.FailureResult[*rounddb.Round, error](apperrors.RoundNotFound(id)), nil
			}
			return results.OperationResult[*rounddb.Round, error]{}, fmt.Errorf("failed to update round state: %w", err)
		}
		return s.getRoundLogic(ctx, db, id)
	})
}

// SetCriteria replaces the round's ordered criterion set.
func (s *RoundService) SetCriteria(ctx context.Context, id string, criterionIDs []string) (*rounddb.Round, error) {
	return operations.Run(s.runner, ctx, "SetCriteria", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddb.Round, error], error) {
		seen := make(map[string]struct{}, len(criterionIDs))
		for _, cid := range criterionIDs {
			if _, dup := seen[cid]; dup {
				return results.FailureResult[*rounddb.Round, error](apperrors.InvalidInput("criterion_ids", "criterion %q listed twice", cid)), nil
			}
			seen[cid] = struct{}{}
		}

		if current, err := s.getRoundLogic(ctx, db, id); err != nil || current.IsFailure() {
			return current, err
		}
		if failure, err := s.checkCriteria(ctx, db, criterionIDs); err != nil {
			return results.OperationResult[*rounddb.Round, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*rounddb.Round, error](failure), nil
		}
		if err := s.repo.ReplaceCriteria(ctx, db, id, criterionIDs); err != nil {
			return results.OperationResult[*rounddb.Round, error]{}, fmt.Errorf("failed to replace criteria: %w", err)
		}
		return s.getRoundLogic(ctx, db, id)
	})
}
