package aggregationservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"github.com/Black-And-White-Club/competition-marking/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Repositories groups the stores the aggregation service reads.
type Repositories struct {
	Scores   scoredb.Repository
	Rounds   rounddb.Repository
	Teams    teamdb.Repository
	Criteria criteriondb.Repository
	Users    userdb.Repository
}

// AggregationService implements the Service interface. It only reads.
type AggregationService struct {
	repos   Repositories
	metrics observability.Metrics
	runner  *operations.Runner
}

// NewAggregationService creates a new AggregationService.
func NewAggregationService(
	repos Repositories,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AggregationService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &AggregationService{
		repos:   repos,
		metrics: metrics,
		runner: &operations.Runner{
			Service: "AggregationService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

func (s *AggregationService) getRound(ctx context.Context, db bun.IDB, roundID string) (round *rounddb.Round, failure error, err error) {
	round, err = s.repos.Rounds.GetByID(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, apperrors.RoundNotFound(roundID), nil
		}
		return nil, nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil, nil
}

// criteriaFor loads the criteria the round lists, followed by any criterion
// that only appears in scores.
func (s *AggregationService) criteriaFor(ctx context.Context, db bun.IDB, round *rounddb.Round, scores []scoredb.Score) ([]aggregationdomain.Criterion, error) {
	ids := append([]string{}, round.CriterionIDs...)
	listed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		listed[id] = struct{}{}
	}
	for _, sc := range scores {
		if _, ok := listed[sc.CriterionID]; !ok {
			listed[sc.CriterionID] = struct{}{}
			ids = append(ids, sc.CriterionID)
		}
	}
	if len(ids) == 0 {
		return []aggregationdomain.Criterion{}, nil
	}

	rows, err := s.repos.Criteria.GetByIDs(ctx, db, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load criteria: %w", err)
	}
	byID := make(map[string]criteriondb.Criterion, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	out := make([]aggregationdomain.Criterion, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, aggregationdomain.Criterion{ID: c.ID, Name: c.Name, MaxScore: c.MaxScore, Weight: c.Weight})
		}
	}
	return out, nil
}

func toScores(rows []scoredb.Score) []aggregationdomain.Score {
	out := make([]aggregationdomain.Score, len(rows))
	for i, r := range rows {
		out[i] = aggregationdomain.Score{
			JudgeID:     r.JudgeID,
			TeamID:      r.TeamID,
			CriterionID: r.CriterionID,
			Value:       r.Value,
			SubmittedAt: r.SubmittedAt,
		}
	}
	return out
}

// GetTeamScoreSummary summarizes one team's submitted scores in a round.
func (s *AggregationService) GetTeamScoreSummary(ctx context.Context, teamID, roundID string) (*aggregationdomain.Summary, error) {
	return operations.Run(s.runner, ctx, "GetTeamScoreSummary", teamID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*aggregationdomain.Summary, error], error) {
		round, failure, err := s.getRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*aggregationdomain.Summary, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*aggregationdomain.Summary, error](failure), nil
		}

		if _, err := s.repos.Teams.GetByID(ctx, db, teamID); err != nil {
			if errors.Is(err, teamdb.ErrNotFound) {
				return results.FailureResult[*aggregationdomain.Summary, error](apperrors.NotFound("team", teamID)), nil
			}
			return results.OperationResult[*aggregationdomain.Summary, error]{}, fmt.Errorf("failed to get team: %w", err)
		}

		rows, err := s.repos.Scores.List(ctx, db, scoredb.ListFilter{RoundID: roundID, TeamID: teamID, SubmittedOnly: true})
		if err != nil {
			return results.OperationResult[*aggregationdomain.Summary, error]{}, fmt.Errorf("failed to list scores: %w", err)
		}
		criteria, err := s.criteriaFor(ctx, db, round, rows)
		if err != nil {
			return results.OperationResult[*aggregationdomain.Summary, error]{}, err
		}

		summary := aggregationdomain.Summarize(teamID, roundID, criteria, toScores(rows))
		return results.SuccessResult[*aggregationdomain.Summary, error](&summary), nil
	})
}

// CalculateWinner ranks the participating teams of a round.
func (s *AggregationService) CalculateWinner(ctx context.Context, roundID string) (*aggregationdomain.Results, error) {
	res, err := operations.Run(s.runner, ctx, "CalculateWinner", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*aggregationdomain.Results, error], error) {
		var round *rounddb.Round
		if roundID == "" {
			latest, err := s.repos.Rounds.MostRecentlyClosed(ctx, db)
			if err != nil {
				if errors.Is(err, rounddb.ErrNotFound) {
					return results.FailureResult[*aggregationdomain.Results, error](apperrors.ErrNoClosedRound), nil
				}
				return results.OperationResult[*aggregationdomain.Results, error]{}, fmt.Errorf("failed to find closed round: %w", err)
			}
			round = latest
		} else {
			r, failure, err := s.getRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[*aggregationdomain.Results, error]{}, err
			} else if failure != nil {
				return results.FailureResult[*aggregationdomain.Results, error](failure), nil
			}
			round = r
		}

		teams, err := s.repos.Teams.List(ctx, db, teamdb.ListFilter{ParticipatingOnly: true})
		if err != nil {
			return results.OperationResult[*aggregationdomain.Results, error]{}, fmt.Errorf("failed to list teams: %w", err)
		}
		rows, err := s.repos.Scores.List(ctx, db, scoredb.ListFilter{RoundID: round.ID, SubmittedOnly: true})
		if err != nil {
			return results.OperationResult[*aggregationdomain.Results, error]{}, fmt.Errorf("failed to list scores: %w", err)
		}
		criteria, err := s.criteriaFor(ctx, db, round, rows)
		if err != nil {
			return results.OperationResult[*aggregationdomain.Results, error]{}, err
		}

		scores := toScores(rows)
		rankTeams := make([]aggregationdomain.Team, len(teams))
		summaries := make(map[string]aggregationdomain.Summary, len(teams))
		for i, t := range teams {
			rankTeams[i] = aggregationdomain.Team{ID: t.ID, Number: t.Number, Name: t.Name}
			summaries[t.ID] = aggregationdomain.Summarize(t.ID, round.ID, criteria, scores)
		}

		ranked := aggregationdomain.Rank(round.ID, round.Name, rankTeams, summaries)
		return results.SuccessResult[*aggregationdomain.Results, error](&ranked), nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRankedTeams(ctx, res.RoundID, len(res.Rankings))
	return res, nil
}

// GetDetailedAnalytics breaks a round's submitted scores down per criterion
// and per judge.
func (s *AggregationService) GetDetailedAnalytics(ctx context.Context, roundID string) (*aggregationdomain.Analytics, error) {
	return operations.Run(s.runner, ctx, "GetDetailedAnalytics", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*aggregationdomain.Analytics, error], error) {
		round, failure, err := s.getRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*aggregationdomain.Analytics, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*aggregationdomain.Analytics, error](failure), nil
		}

		rows, err := s.repos.Scores.List(ctx, db, scoredb.ListFilter{RoundID: roundID, SubmittedOnly: true})
		if err != nil {
			return results.OperationResult[*aggregationdomain.Analytics, error]{}, fmt.Errorf("failed to list scores: %w", err)
		}
		criteria, err := s.criteriaFor(ctx, db, round, rows)
		if err != nil {
			return results.OperationResult[*aggregationdomain.Analytics, error]{}, err
		}
		users, err := s.repos.Users.List(ctx, db, userdb.ListFilter{Role: authdomain.RoleJudge})
		if err != nil {
			return results.OperationResult[*aggregationdomain.Analytics, error]{}, fmt.Errorf("failed to list judges: %w", err)
		}
		judges := make([]aggregationdomain.Judge, len(users))
		for i, u := range users {
			judges[i] = aggregationdomain.Judge{ID: u.ID, Name: u.Name}
		}

		analytics := aggregationdomain.Analyze(roundID, criteria, judges, toScores(rows))
		return results.SuccessResult[*aggregationdomain.Analytics, error](&analytics), nil
	})
}
