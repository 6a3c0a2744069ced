package assignmentservice

import (
	"context"
	"slices"
	"sync"

	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	assignmentdb "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Assignment Repo
// ------------------------

// FakeAssignmentRepo keeps edges in memory unless a Func overrides the call.
type FakeAssignmentRepo struct {
	trace  []string
	Stored []assignmentdomain.TeamAssignment

	LockRoundFunc   func(ctx context.Context, db bun.IDB, roundID string) error
	ListByRoundFunc func(ctx context.Context, db bun.IDB, roundID string) ([]assignmentdomain.TeamAssignment, error)
	ReplaceFunc     func(ctx context.Context, db bun.IDB, roundID string, clearTeamIDs []string, assignments []assignmentdomain.TeamAssignment) error
	AddFunc         func(ctx context.Context, db bun.IDB, edge *assignmentdb.Edge) error
	RemoveFunc      func(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) error
	IsAssignedFunc  func(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) (bool, error)
}

func NewFakeAssignmentRepo() *FakeAssignmentRepo {
	return &FakeAssignmentRepo{trace: []string{}, Stored: []assignmentdomain.TeamAssignment{}}
}

func (f *FakeAssignmentRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAssignmentRepo) LockRound(ctx context.Context, db bun.IDB, roundID string) error {
	f.record("LockRound")
	if f.LockRoundFunc != nil {
		return f.LockRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeAssignmentRepo) ListByRound(ctx context.Context, db bun.IDB, roundID string) ([]assignmentdomain.TeamAssignment, error) {
	f.record("ListByRound")
	if f.ListByRoundFunc != nil {
		return f.ListByRoundFunc(ctx, db, roundID)
	}
	out := make([]assignmentdomain.TeamAssignment, len(f.Stored))
	for i, ta := range f.Stored {
		out[i] = assignmentdomain.TeamAssignment{TeamID: ta.TeamID, JudgeIDs: slices.Clone(ta.JudgeIDs)}
	}
	return out, nil
}

func (f *FakeAssignmentRepo) Replace(ctx context.Context, db bun.IDB, roundID string, clearTeamIDs []string, assignments []assignmentdomain.TeamAssignment) error {
	f.record("Replace")
	if f.ReplaceFunc != nil {
		return f.ReplaceFunc(ctx, db, roundID, clearTeamIDs, assignments)
	}
	kept := []assignmentdomain.TeamAssignment{}
	for _, ta := range f.Stored {
		if !slices.Contains(clearTeamIDs, ta.TeamID) {
			kept = append(kept, ta)
		}
	}
	for _, ta := range assignments {
		if len(ta.JudgeIDs) > 0 {
			kept = append(kept, assignmentdomain.TeamAssignment{TeamID: ta.TeamID, JudgeIDs: slices.Clone(ta.JudgeIDs)})
		}
	}
	f.Stored = kept
	return nil
}

func (f *FakeAssignmentRepo) Add(ctx context.Context, db bun.IDB, edge *assignmentdb.Edge) error {
	f.record("Add")
	if f.AddFunc != nil {
		return f.AddFunc(ctx, db, edge)
	}
	for i, ta := range f.Stored {
		if ta.TeamID == edge.TeamID {
			if slices.Contains(ta.JudgeIDs, edge.JudgeID) {
				return assignmentdb.ErrDuplicate
			}
			f.Stored[i].JudgeIDs = append(f.Stored[i].JudgeIDs, edge.JudgeID)
			return nil
		}
	}
	f.Stored = append(f.Stored, assignmentdomain.TeamAssignment{TeamID: edge.TeamID, JudgeIDs: []string{edge.JudgeID}})
	return nil
}

func (f *FakeAssignmentRepo) Remove(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) error {
	f.record("Remove")
	if f.RemoveFunc != nil {
		return f.RemoveFunc(ctx, db, roundID, teamID, judgeID)
	}
	for i, ta := range f.Stored {
		if j := slices.Index(ta.JudgeIDs, judgeID); ta.TeamID == teamID && j >= 0 {
			f.Stored[i].JudgeIDs = slices.Delete(f.Stored[i].JudgeIDs, j, j+1)
			return nil
		}
	}
	return assignmentdb.ErrNotFound
}

func (f *FakeAssignmentRepo) IsAssigned(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) (bool, error) {
	f.record("IsAssigned")
	if f.IsAssignedFunc != nil {
		return f.IsAssignedFunc(ctx, db, roundID, teamID, judgeID)
	}
	for _, ta := range f.Stored {
		if ta.TeamID == teamID && slices.Contains(ta.JudgeIDs, judgeID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeAssignmentRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ assignmentdb.Repository = (*FakeAssignmentRepo)(nil)

// ------------------------
// Roster fakes
// ------------------------

// FakeTeamRepo serves a fixed team list.
type FakeTeamRepo struct {
	Teams   []teamdb.Team
	ListErr error
}

func (f *FakeTeamRepo) Create(ctx context.Context, db bun.IDB, team *teamdb.Team) error {
	f.Teams = append(f.Teams, *team)
	return nil
}

func (f *FakeTeamRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*teamdb.Team, error) {
	for _, t := range f.Teams {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, teamdb.ErrNotFound
}

func (f *FakeTeamRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]teamdb.Team, error) {
	out := []teamdb.Team{}
	for _, t := range f.Teams {
		if slices.Contains(ids, t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *FakeTeamRepo) List(ctx context.Context, db bun.IDB, filter teamdb.ListFilter) ([]teamdb.Team, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := []teamdb.Team{}
	for _, t := range f.Teams {
		if filter.ParticipatingOnly && !t.Participating {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *FakeTeamRepo) SetParticipation(ctx context.Context, db bun.IDB, id string, participating bool) error {
	return nil
}

var _ teamdb.Repository = (*FakeTeamRepo)(nil)

// FakeUserRepo serves a fixed user list.
type FakeUserRepo struct {
	Users []userdb.User
}

func (f *FakeUserRepo) Create(ctx context.Context, db bun.IDB, user *userdb.User) error {
	f.Users = append(f.Users, *user)
	return nil
}

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*userdb.User, error) {
	for _, u := range f.Users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]userdb.User, error) {
	out := []userdb.User{}
	for _, u := range f.Users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *FakeUserRepo) List(ctx context.Context, db bun.IDB, filter userdb.ListFilter) ([]userdb.User, error) {
	out := []userdb.User{}
	for _, u := range f.Users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.ActiveOnly && !u.Active {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *FakeUserRepo) SetActive(ctx context.Context, db bun.IDB, id string, active bool) error {
	return nil
}

var _ userdb.Repository = (*FakeUserRepo)(nil)

// FakeRoundRepo knows a set of round ids.
type FakeRoundRepo struct {
	Known []string
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	return nil
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*rounddb.Round, error) {
	if slices.Contains(f.Known, id) {
		return &rounddb.Round{ID: id, IsActive: true, IsOpen: true}, nil
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) List(ctx context.Context, db bun.IDB) ([]rounddb.Round, error) {
	return []rounddb.Round{}, nil
}

func (f *FakeRoundRepo) UpdateState(ctx context.Context, db bun.IDB, id string, state rounddb.State) error {
	return nil
}

func (f *FakeRoundRepo) ReplaceCriteria(ctx context.Context, db bun.IDB, id string, criterionIDs []string) error {
	return nil
}

func (f *FakeRoundRepo) MostRecentlyClosed(ctx context.Context, db bun.IDB) (*rounddb.Round, error) {
	return nil, rounddb.ErrNotFound
}

var _ rounddb.Repository = (*FakeRoundRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type published struct {
	Topic   string
	Payload any
}

type FakePublisher struct {
	mu     sync.Mutex
	Events []published
	Err    error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Events = append(f.Events, published{Topic: topic, Payload: payload})
	return nil
}
