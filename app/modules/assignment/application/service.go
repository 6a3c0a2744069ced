package assignmentservice

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Black-And-White-Club/competition-marking/app/eventbus"
	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	assignmentdb "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories"
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/locks"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"github.com/Black-And-White-Club/competition-marking/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// AssignmentService implements the Service interface.
type AssignmentService struct {
	repo      assignmentdb.Repository
	teamRepo  teamdb.Repository
	userRepo  userdb.Repository
	roundRepo rounddb.Repository
	engine    assignmentdomain.Engine
	locks     *locks.Keyed
	publisher eventbus.Publisher
	metrics   observability.Metrics
	logger    *slog.Logger
	runner    *operations.Runner
}

// Repositories groups the stores the assignment service reads and writes.
type Repositories struct {
	Assignments assignmentdb.Repository
	Teams       teamdb.Repository
	Users       userdb.Repository
	Rounds      rounddb.Repository
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	repos Repositories,
	engine assignmentdomain.Engine,
	keyed *locks.Keyed,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AssignmentService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	if keyed == nil {
		keyed = locks.NewKeyed()
	}
	if publisher == nil {
		publisher = eventbus.NoopPublisher{}
	}
	return &AssignmentService{
		repo:      repos.Assignments,
		teamRepo:  repos.Teams,
		userRepo:  repos.Users,
		roundRepo: repos.Rounds,
		engine:    engine,
		locks:     keyed,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		runner: &operations.Runner{
			Service: "AssignmentService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

type roster struct {
	teams  []assignmentdomain.Team
	judges []assignmentdomain.Judge
}

func (r roster) teamIDs() []string {
	ids := make([]string, len(r.teams))
	for i, t := range r.teams {
		ids[i] = t.ID
	}
	return ids
}

func (r roster) activeJudges() []assignmentdomain.Judge {
	out := make([]assignmentdomain.Judge, 0, len(r.judges))
	for _, j := range r.judges {
		if j.Active {
			out = append(out, j)
		}
	}
	return out
}

// loadRoster reads participating teams in number order and every judge in
// registration order. Both orders feed the round-robin cursor.
func (s *AssignmentService) loadRoster(ctx context.Context, db bun.IDB) (roster, error) {
	teams, err := s.teamRepo.List(ctx, db, teamdb.ListFilter{ParticipatingOnly: true})
	if err != nil {
		return roster{}, fmt.Errorf("failed to list teams: %w", err)
	}
	users, err := s.userRepo.List(ctx, db, userdb.ListFilter{Role: authdomain.RoleJudge})
	if err != nil {
		return roster{}, fmt.Errorf("failed to list judges: %w", err)
	}

	r := roster{
		teams:  make([]assignmentdomain.Team, len(teams)),
		judges: make([]assignmentdomain.Judge, len(users)),
	}
	for i, t := range teams {
		r.teams[i] = assignmentdomain.Team{ID: t.ID, Number: t.Number, Name: t.Name}
	}
	for i, u := range users {
		r.judges[i] = assignmentdomain.Judge{ID: u.ID, Name: u.Name, Active: u.Active}
	}
	return r, nil
}

// checkRound returns a domain failure when the round does not exist.
func (s *AssignmentService) checkRound(ctx context.Context, db bun.IDB, roundID string) (failure error, err error) {
	if _, err := s.roundRepo.GetByID(ctx, db, roundID); err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return apperrors.RoundNotFound(roundID), nil
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return nil, nil
}

// writeTx opens the round for writing: the caller already holds the
// in-process lock, the advisory lock covers other replicas.
func (s *AssignmentService) writeTx(ctx context.Context, db bun.IDB, roundID string) (failure error, err error) {
	if err := s.repo.LockRound(ctx, db, roundID); err != nil {
		return nil, fmt.Errorf("failed to lock round: %w", err)
	}
	return s.checkRound(ctx, db, roundID)
}

// AssignJudges replaces the round's assignment with a fresh round-robin one.
func (s *AssignmentService) AssignJudges(ctx context.Context, roundID string) (*Report, error) {
	unlock, err := s.locks.Lock(ctx, roundID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report, err := operations.Run(s.runner, ctx, "AssignJudges", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*Report, error], error) {
		if failure, err := s.writeTx(ctx, db, roundID); err != nil {
			return results.OperationResult[*Report, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*Report, error](failure), nil
		}

		r, err := s.loadRoster(ctx, db)
		if err != nil {
			return results.OperationResult[*Report, error]{}, err
		}
		assignments, err := s.engine.Assign(r.teams, r.judges)
		if err != nil {
			return results.FailureResult[*Report, error](err), nil
		}

		current, err := s.repo.ListByRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to load assignments: %w", err)
		}
		if err := s.repo.Replace(ctx, db, roundID, clearSet(r.teamIDs(), current), assignments); err != nil {
			return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to store assignments: %w", err)
		}

		return results.SuccessResult[*Report, error](&Report{
			RoundID:     roundID,
			Assignments: assignments,
			Stats:       s.engine.Stats(r.teams, r.activeJudges(), assignments),
		}), nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "assign", report)
	return report, nil
}

// OptimizeAssignments rebalances the stored assignment in place.
func (s *AssignmentService) OptimizeAssignments(ctx context.Context, roundID string) (*Report, error) {
	unlock, err := s.locks.Lock(ctx, roundID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var changed bool
	report, err := operations.Run(s.runner, ctx, "OptimizeAssignments", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*Report, error], error) {
		if failure, err := s.writeTx(ctx, db, roundID); err != nil {
			return results.OperationResult[*Report, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*Report, error](failure), nil
		}

		r, err := s.loadRoster(ctx, db)
		if err != nil {
			return results.OperationResult[*Report, error]{}, err
		}
		current, err := s.repo.ListByRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to load assignments: %w", err)
		}

		res, err := s.engine.Optimize(r.teams, r.judges, current)
		if err != nil {
			return results.FailureResult[*Report, error](err), nil
		}
		changed = res.Changed()
		if changed {
			if err := s.repo.Replace(ctx, db, roundID, clearSet(r.teamIDs(), current), res.Assignments); err != nil {
				return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to store assignments: %w", err)
			}
		}

		return results.SuccessResult[*Report, error](&Report{
			RoundID:     roundID,
			Assignments: res.Assignments,
			Stats:       s.engine.Stats(r.teams, r.activeJudges(), res.Assignments),
			Message:     res.Message,
		}), nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.afterWrite(ctx, "optimize", report)
	}
	return report, nil
}

// GetAssignmentStats reports workload for the stored assignment.
func (s *AssignmentService) GetAssignmentStats(ctx context.Context, roundID string) (*assignmentdomain.Stats, error) {
	return operations.Run(s.runner, ctx, "GetAssignmentStats", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*assignmentdomain.Stats, error], error) {
		if failure, err := s.checkRound(ctx, db, roundID); err != nil {
			return results.OperationResult[*assignmentdomain.Stats, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*assignmentdomain.Stats, error](failure), nil
		}

		r, err := s.loadRoster(ctx, db)
		if err != nil {
			return results.OperationResult[*assignmentdomain.Stats, error]{}, err
		}
		current, err := s.repo.ListByRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*assignmentdomain.Stats, error]{}, fmt.Errorf("failed to load assignments: %w", err)
		}

		stats := s.engine.Stats(r.teams, r.activeJudges(), current)
		return results.SuccessResult[*assignmentdomain.Stats, error](&stats), nil
	})
}

// AssignJudge adds one judge to one team. A full team is a constraint violation.
func (s *AssignmentService) AssignJudge(ctx context.Context, roundID, teamID, judgeID string) (*Report, error) {
	unlock, err := s.locks.Lock(ctx, roundID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report, err := operations.Run(s.runner, ctx, "AssignJudge", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*Report, error], error) {
		if failure, err := s.writeTx(ctx, db, roundID); err != nil {
			return results.OperationResult[*Report, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*Report, error](failure), nil
		}
		if failure, err := s.checkPair(ctx, db, teamID, judgeID); err != nil {
			return results.OperationResult[*Report, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*Report, error](failure), nil
		}

		current, err := s.repo.ListByRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to load assignments: %w", err)
		}
		judges := judgesOf(current, teamID)
		if slices.Contains(judges, judgeID) {
			return results.FailureResult[*Report, error](
				apperrors.Conflict("assignment", "judge %s already assigned to team %s", judgeID, teamID),
			), nil
		}
		if len(judges) >= s.engine.MaxPerTeam() {
			return results.FailureResult[*Report, error](
				apperrors.ConstraintViolation("max_judges_per_team", "team %s already has %d judges", teamID, len(judges)),
			), nil
		}

		edge := &assignmentdb.Edge{RoundID: roundID, TeamID: teamID, JudgeID: judgeID, Slot: len(judges)}
		if err := s.repo.Add(ctx, db, edge); err != nil {
			if errors.Is(err, assignmentdb.ErrDuplicate) {
				return results.FailureResult[*Report, error](
					apperrors.Conflict("assignment", "judge %s already assigned to team %s", judgeID, teamID),
				), nil
			}
			return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to add assignment: %w", err)
		}

		return s.reportLogic(ctx, db, roundID)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "assign_judge", report)
	return report, nil
}

// UnassignJudge removes one judge from one team. Removing the last judge of a
// team is a constraint violation.
func (s *AssignmentService) UnassignJudge(ctx context.Context, roundID, teamID, judgeID string) (*Report, error) {
	unlock, err := s.locks.Lock(ctx, roundID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report, err := operations.Run(s.runner, ctx, "UnassignJudge", roundID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*Report, error], error) {
		if failure, err := s.writeTx(ctx, db, roundID); err != nil {
			return results.OperationResult[*Report, error]{}, err
		} else if failure != nil {
			return results.FailureResult[*Report, error](failure), nil
		}

		current, err := s.repo.ListByRound(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to load assignments: %w", err)
		}
		judges := judgesOf(current, teamID)
		if !slices.Contains(judges, judgeID) {
			return results.FailureResult[*Report, error](apperrors.NotFound("assignment", teamID+"/"+judgeID)), nil
		}
		if len(judges) == 1 {
			return results.FailureResult[*Report, error](
				apperrors.ConstraintViolation("min_judges_per_team", "judge %s is the last judge of team %s", judgeID, teamID),
			), nil
		}

		if err := s.repo.Remove(ctx, db, roundID, teamID, judgeID); err != nil {
			if errors.Is(err, assignmentdb.ErrNotFound) {
				return results.FailureResult[*Report, error](apperrors.NotFound("assignment", teamID+"/"+judgeID)), nil
			}
			return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to remove assignment: %w", err)
		}

		return s.reportLogic(ctx, db, roundID)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "unassign_judge", report)
	return report, nil
}

// checkPair verifies the team participates and the judge is an active judge.
func (s *AssignmentService) checkPair(ctx context.Context, db bun.IDB, teamID, judgeID string) (failure error, err error) {
	team, err := s.teamRepo.GetByID(ctx, db, teamID)
	if err != nil {
		if errors.Is(err, teamdb.ErrNotFound) {
			return apperrors.NotFound("team", teamID), nil
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if !team.Participating {
		return apperrors.InvalidInput("team_id", "team %s is not participating", teamID), nil
	}

	user, err := s.userRepo.GetByID(ctx, db, judgeID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return apperrors.NotFound("judge", judgeID), nil
		}
		return nil, fmt.Errorf("failed to get judge: %w", err)
	}
	if user.Role != authdomain.RoleJudge || !user.Active {
		return apperrors.InvalidInput("judge_id", "user %s is not an active judge", judgeID), nil
	}
	return nil, nil
}

func (s *AssignmentService) reportLogic(ctx context.Context, db bun.IDB, roundID string) (results.OperationResult[*Report, error], error) {
	r, err := s.loadRoster(ctx, db)
	if err != nil {
		return results.OperationResult[*Report, error]{}, err
	}
	current, err := s.repo.ListByRound(ctx, db, roundID)
	if err != nil {
		return results.OperationResult[*Report, error]{}, fmt.Errorf("failed to load assignments: %w", err)
	}
	sortByTeams(current, r.teams)

	return results.SuccessResult[*Report, error](&Report{
		RoundID:     roundID,
		Assignments: current,
		Stats:       s.engine.Stats(r.teams, r.activeJudges(), current),
	}), nil
}

// afterWrite runs once the transaction has committed. Publishing is best
// effort: the write already happened.
func (s *AssignmentService) afterWrite(ctx context.Context, operation string, report *Report) {
	s.metrics.RecordAssignmentSpread(ctx, report.RoundID, report.Stats.Spread)

	payload := assignmentdomain.AssignmentsUpdatedPayload{
		RoundID:     report.RoundID,
		Operation:   operation,
		Assignments: report.Assignments,
		Spread:      report.Stats.Spread,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventbus.TopicAssignmentsUpdated, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish assignment update",
			observability.RequestID(ctx),
			slog.String("round_id", report.RoundID),
			observability.Error(err),
		)
	}
}

// clearSet is every team whose edges a full write replaces: the participating
// teams plus any team still holding edges from an earlier roster.
func clearSet(teamIDs []string, current []assignmentdomain.TeamAssignment) []string {
	out := slices.Clone(teamIDs)
	for _, ta := range current {
		if !slices.Contains(out, ta.TeamID) {
			out = append(out, ta.TeamID)
		}
	}
	return out
}

func judgesOf(current []assignmentdomain.TeamAssignment, teamID string) []string {
	for _, ta := range current {
		if ta.TeamID == teamID {
			return ta.JudgeIDs
		}
	}
	return nil
}

// sortByTeams orders assignments by the roster's team order. Teams outside
// the roster go last.
func sortByTeams(assignments []assignmentdomain.TeamAssignment, teams []assignmentdomain.Team) {
	pos := make(map[string]int, len(teams))
	for i, t := range teams {
		pos[t.ID] = i
	}
	rank := func(id string) int {
		if p, ok := pos[id]; ok {
			return p
		}
		return len(teams)
	}
	slices.SortStableFunc(assignments, func(a, b assignmentdomain.TeamAssignment) int {
		return cmp.Compare(rank(a.TeamID), rank(b.TeamID))
	})
}
