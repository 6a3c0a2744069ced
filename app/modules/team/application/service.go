package teamservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	teamdomain "github.com/Black-And-White-Club/competition-marking/app/modules/team/domain"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"github.com/Black-And-White-Club/competition-marking/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// TeamService implements the Service interface.
type TeamService struct {
	repo   teamdb.Repository
	runner *operations.Runner
}

// NewTeamService creates a new TeamService.
func NewTeamService(
	repo teamdb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{
		repo: repo,
		runner: &operations.Runner{
			Service: "TeamService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// CreateTeam validates and registers a team. New teams participate by default.
func (s *TeamService) CreateTeam(ctx context.Context, profile teamdomain.Profile) (*teamdb.Team, error) {
	return operations.Run(s.runner, ctx, "CreateTeam", profile.Name, func(ctx context.Context, db bun.IDB) (results.OperationResult[*teamdb.Team, error], error) {
		if err := profile.Validate(); err != nil {
			return results.FailureResult[*teamdb.Team, error](err), nil
		}

		team := &teamdb.Team{
			ID:                 uuid.NewString(),
			Number:             profile.Number,
			Name:               profile.Name,
			ProjectName:        profile.ProjectName,
			ProjectDescription: profile.ProjectDescription,
			Members:            profile.Members,
			Participating:      true,
		}
		if err := s.repo.Create(ctx, db, team); err != nil {
			if errors.Is(err, teamdb.ErrDuplicate) {
				return results.FailureResult[*teamdb.Team, error](
					apperrors.Conflict("team", "number %d or name %q already registered", profile.Number, profile.Name),
				), nil
			}
			return results.OperationResult[*teamdb.Team, error]{}, fmt.Errorf("failed to create team: %w", err)
		}
		return results.SuccessResult[*teamdb.Team, error](team), nil
	})
}

// GetTeam retrieves a team by id.
func (s *TeamService) GetTeam(ctx context.Context, id string) (*teamdb.Team, error) {
	return operations.Run(s.runner, ctx, "GetTeam", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*teamdb.Team, error], error) {
		return s.getTeamLogic(ctx, db, id)
	})
}

func (s *TeamService) getTeamLogic(ctx context.Context, db bun.IDB, id string) (results.OperationResult[*teamdb.Team, error], error) {
	team, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, teamdb.ErrNotFound) {
			return results.FailureResult[*teamdb.Team, error](apperrors.NotFound("team", id)), nil
		}
		return results.OperationResult[*teamdb.Team, error]{}, fmt.Errorf("failed to get team: %w", err)
	}
	return results.SuccessResult[*teamdb.Team, error](team), nil
}

// ListTeams lists teams ordered by number.
func (s *TeamService) ListTeams(ctx context.Context, participatingOnly bool) ([]teamdb.Team, error) {
	return operations.Run(s.runner, ctx, "ListTeams", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]teamdb.Team, error], error) {
		teams, err := s.repo.List(ctx, db, teamdb.ListFilter{ParticipatingOnly: participatingOnly})
		if err != nil {
			return results.OperationResult[[]teamdb.Team, error]{}, fmt.Errorf("failed to list teams: %w", err)
		}
		return results.SuccessResult[[]teamdb.Team, error](teams), nil
	})
}

// SetParticipation includes or excludes a team from assignment and ranking.
func (s *TeamService) SetParticipation(ctx context.Context, id string, participating bool) (*teamdb.Team, error) {
	return operations.Run(s.runner, ctx, "SetParticipation", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*teamdb.Team, error], error) {
		if err := s.repo.SetParticipation(ctx, db, id, participating); err != nil {
			if errors.Is(err, teamdb.ErrNotFound) {
				return results.FailureResult[*teamdb.Team, error](apperrors.NotFound("team", id)), nil
			}
			return results.OperationResult[*teamdb.Team, error]{}, fmt.Errorf("failed to set participation: %w", err)
		}
		return s.getTeamLogic(ctx, db, id)
	})
}
