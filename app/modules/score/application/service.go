package scoreservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Black-And-White-Club/competition-marking/app/eventbus"
	assignmentdb "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/competition-marking/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"github.com/Black-And-White-Club/competition-marking/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// ScoreService implements the Service interface.
type ScoreService struct {
	repo          scoredb.Repository
	roundRepo     rounddb.Repository
	criterionRepo criteriondb.Repository
	assignments   assignmentdb.Repository
	publisher     eventbus.Publisher
	logger        *slog.Logger
	now           func() time.Time
	runner        *operations.Runner
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	repo scoredb.Repository,
	roundRepo rounddb.Repository,
	criterionRepo criteriondb.Repository,
	assignments assignmentdb.Repository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NoopPublisher{}
	}
	return &ScoreService{
		repo:          repo,
		roundRepo:     roundRepo,
		criterionRepo: criterionRepo,
		assignments:   assignments,
		publisher:     publisher,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
		runner: &operations.Runner{
			Service: "ScoreService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// openRound loads the round and checks it accepts scores.
func (s *ScoreService) openRound(ctx context.Context, db bun.IDB, roundID string) (round *rounddb.Round, failure error, err error) {
	round, err = s.roundRepo.GetByID(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, apperrors.RoundNotFound(roundID), nil
		}
		return nil, nil, fmt.Errorf("failed to get round: %w", err)
	}
	if !rounddomain.AcceptsScores(round.IsActive, round.IsOpen) {
		return nil, apperrors.ConstraintViolation("round_open", "round %s is not accepting scores", roundID), nil
	}
	return round, nil, nil
}

// checkAssigned fails unless judgeID evaluates teamID in the round.
func (s *ScoreService) checkAssigned(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) (failure error, err error) {
	ok, err := s.assignments.IsAssigned(ctx, db, roundID, teamID, judgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !ok {
		return apperrors.ConstraintViolation("judge_assigned", "judge %s is not assigned to team %s", judgeID, teamID), nil
	}
	return nil, nil
}

// SubmitScore stores one criterion score as a draft or submitted.
func (s *ScoreService) SubmitScore(ctx context.Context, judgeID, roundID string, sub scoredomain.Submission) (*scoredb.Score, error) {
	score, err := operations.Run(s.runner, ctx, "SubmitScore", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*scoredb.Score, error], error) {
		if err := sub.Validate(); err != nil {
			return results.FailureResult[*scoredb.Score, error](err), nil
		}

		round, failure, err := s.openRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*scoredb.Score, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*scoredb.Score, error](failure), nil
		}
		if !slices.Contains(round.CriterionIDs, sub.CriterionID) {
			return results.FailureResult[*scoredb.Score, error](
				apperrors.InvalidInput("criterion_id", "criterion %s is not part of round %s", sub.CriterionID, roundID),
			), nil
		}

		criterion, err := s.criterionRepo.GetByID(ctx, db, sub.CriterionID)
		if err != nil {
			if errors.Is(err, criteriondb.ErrNotFound) {
				return results.FailureResult[*scoredb.Score, error](apperrors.NotFound("criterion", sub.CriterionID)), nil
			}
			return results.OperationResult[*scoredb.Score, error]{}, fmt.Errorf("failed to get criterion: %w", err)
		}
		if err := scoredomain.CheckRange(*sub.Value, criterion.MaxScore); err != nil {
			return results.FailureResult[*scoredb.Score, error](err), nil
		}

		if failure, err := s.checkAssigned(ctx, db, roundID, sub.TeamID, judgeID); err != nil {
			return results.OperationResult[*scoredb.Score, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*scoredb.Score, error](failure), nil
		}

		score := &scoredb.Score{
			ID:          uuid.NewString(),
			JudgeID:     judgeID,
			TeamID:      sub.TeamID,
			RoundID:     roundID,
			CriterionID: sub.CriterionID,
			Value:       *sub.Value,
			Comment:     sub.Comment,
			IsSubmitted: sub.Submit,
			Version:     1,
		}
		if sub.Submit {
			at := s.now()
			score.SubmittedAt = &at
		}
		if err := s.repo.Upsert(ctx, db, score); err != nil {
			return results.OperationResult[*scoredb.Score, error]{}, fmt.Errorf("failed to store score: %w", err)
		}
		return results.SuccessResult[*scoredb.Score, error](score), nil
	})
	if err != nil {
		return nil, err
	}

	if score.IsSubmitted {
		s.publish(ctx, eventbus.TopicScoreSubmitted, scoredomain.ScoreSubmittedPayload{
			RoundID:      score.RoundID,
			TeamID:       score.TeamID,
			JudgeID:      score.JudgeID,
			ScoreIDs:     []string{score.ID},
			CriterionIDs: []string{score.CriterionID},
			OccurredAt:   s.now(),
		})
	}
	return score, nil
}

// ModifyScore edits a stored score of the calling judge. The edit applies only
// if the stored version still equals mod.ExpectedVersion.
func (s *ScoreService) ModifyScore(ctx context.Context, judgeID, scoreID string, mod scoredomain.Modification) (*scoredb.Score, error) {
	var changed bool
	score, err := operations.Run(s.runner, ctx, "ModifyScore", scoreID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*scoredb.Score, error], error) {
		if err := mod.Validate(); err != nil {
			return results.FailureResult[*scoredb.Score, error](err), nil
		}

		score, err := s.repo.GetByID(ctx, db, scoreID)
		if err != nil {
			if errors.Is(err, scoredb.ErrNotFound) {
				return results.FailureResult[*scoredb.Score, error](apperrors.NotFound("score", scoreID)), nil
			}
			return results.OperationResult[*scoredb.Score, error]{}, fmt.Errorf("failed to get score: %w", err)
		}
		if score.JudgeID != judgeID {
			return results.FailureResult[*scoredb.Score, error](apperrors.NotFound("score", scoreID)), nil
		}
		if score.Version != mod.ExpectedVersion {
			return results.FailureResult[*scoredb.Score, error](
				apperrors.Conflict("score", "expected version %d, stored version is %d", mod.ExpectedVersion, score.Version),
			), nil
		}

		if _, failure, err := s.openRound(ctx, db, score.RoundID); err != nil {
			return results.OperationResult[*scoredb.Score, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*scoredb.Score, error](failure), nil
		}

		criterion, err := s.criterionRepo.GetByID(ctx, db, score.CriterionID)
		if err != nil {
			if errors.Is(err, criteriondb.ErrNotFound) {
				return results.FailureResult[*scoredb.Score, error](apperrors.NotFound("criterion", score.CriterionID)), nil
			}
			return results.OperationResult[*scoredb.Score, error]{}, fmt.Errorf("failed to get criterion: %w", err)
		}
		if err := scoredomain.CheckRange(*mod.Value, criterion.MaxScore); err != nil {
			return results.FailureResult[*scoredb.Score, error](err), nil
		}

		next := score.State().Modify(*mod.Value, mod.Comment)
		changed = next.Version != score.Version
		score.Apply(next)
		if err := s.repo.CompareAndSwap(ctx, db, score, mod.ExpectedVersion); err != nil {
			if errors.Is(err, scoredb.ErrVersionMismatch) {
				return results.FailureResult[*scoredb.Score, error](
					apperrors.Conflict("score", "score %s was modified concurrently", scoreID),
				), nil
			}
			return results.OperationResult[*scoredb.Score, error]{}, fmt.Errorf("failed to update score: %w", err)
		}
		return results.SuccessResult[*scoredb.Score, error](score), nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, eventbus.TopicScoreModified, scoredomain.ScoreModifiedPayload{
			ScoreID:       score.ID,
			RoundID:       score.RoundID,
			TeamID:        score.TeamID,
			JudgeID:       score.JudgeID,
			Version:       score.Version,
			Value:         score.Value,
			PreviousScore: score.PreviousScore,
			OccurredAt:    s.now(),
		})
	}
	return score, nil
}

// SubmitTeamScores submits all of the judge's drafts for a team. Every
// criterion of the round must have a score first.
func (s *ScoreService) SubmitTeamScores(ctx context.Context, judgeID, roundID, teamID string) ([]scoredb.Score, error) {
	var flipped int
	scores, err := operations.Run(s.runner, ctx, "SubmitTeamScores", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]scoredb.Score, error], error) {
		round, failure, err := s.openRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[[]scoredb.Score, error]{}, err
		} else if failure != nil {
			return results.FailureResult[[]scoredb.Score, error](failure), nil
		}
		if failure, err := s.checkAssigned(ctx, db, roundID, teamID, judgeID); err != nil {
			return results.OperationResult[[]scoredb.Score, error]{}, err
		} else if failure != nil {
			return results.FailureResult[[]scoredb.Score, error](failure), nil
		}

		filter := scoredb.ListFilter{RoundID: roundID, TeamID: teamID, JudgeID: judgeID}
		existing, err := s.repo.List(ctx, db, filter)
		if err != nil {
			return results.OperationResult[[]scoredb.Score, error]{}, fmt.Errorf("failed to list scores: %w", err)
		}
		if missing := missingCriteria(round.CriterionIDs, existing); len(missing) > 0 {
			return results.FailureResult[[]scoredb.Score, error](
				apperrors.ConstraintViolation("complete_scoresheet", "missing scores for %d criteria: %v", len(missing), missing),
			), nil
		}

		flipped, err = s.repo.SubmitTeam(ctx, db, roundID, teamID, judgeID, s.now())
		if err != nil {
			return results.OperationResult[[]scoredb.Score, error]{}, fmt.Errorf("failed to submit scores: %w", err)
		}

		scores, err := s.repo.List(ctx, db, filter)
		if err != nil {
			return results.OperationResult[[]scoredb.Score, error]{}, fmt.Errorf("failed to list scores: %w", err)
		}
		return results.SuccessResult[[]scoredb.Score, error](scores), nil
	})
	if err != nil {
		return nil, err
	}

	if flipped > 0 {
		payload := scoredomain.ScoreSubmittedPayload{
			RoundID:    roundID,
			TeamID:     teamID,
			JudgeID:    judgeID,
			OccurredAt: s.now(),
		}
		for _, sc := range scores {
			payload.ScoreIDs = append(payload.ScoreIDs, sc.ID)
			payload.CriterionIDs = append(payload.CriterionIDs, sc.CriterionID)
		}
		s.publish(ctx, eventbus.TopicScoreSubmitted, payload)
	}
	return scores, nil
}

// ListScores reads scores of a round within scope. Without a judge in scope
// only submitted scores are returned.
func (s *ScoreService) ListScores(ctx context.Context, roundID string, scope scoredomain.ListScope) ([]scoredb.Score, error) {
	return operations.Run(s.runner, ctx, "ListScores", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]scoredb.Score, error], error) {
		if _, err := s.roundRepo.GetByID(ctx, db, roundID); err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return results.FailureResult[[]scoredb.Score, error](apperrors.RoundNotFound(roundID)), nil
			}
			return results.OperationResult[[]scoredb.Score, error]{}, fmt.Errorf("failed to get round: %w", err)
		}

		filter := scoredb.ListFilter{
			RoundID:       roundID,
			TeamID:        scope.TeamID,
			JudgeID:       scope.JudgeID,
			SubmittedOnly: scope.JudgeID == "" || !scope.IncludeDrafts,
		}
		scores, err := s.repo.List(ctx, db, filter)
		if err != nil {
			return results.OperationResult[[]scoredb.Score, error]{}, fmt.Errorf("failed to list scores: %w", err)
		}
		return results.SuccessResult[[]scoredb.Score, error](scores), nil
	})
}

func (s *ScoreService) publish(ctx context.Context, topic string, payload any) {
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish score event",
			observability.RequestID(ctx),
			slog.String("topic", topic),
			observability.Error(err),
		)
	}
}

func missingCriteria(criterionIDs []string, scores []scoredb.Score) []string {
	missing := []string{}
	for _, id := range criterionIDs {
		if !slices.ContainsFunc(scores, func(sc scoredb.Score) bool { return sc.CriterionID == id }) {
			missing = append(missing, id)
		}
	}
	return missing
}
