package teamservice

import (
	"context"

	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Team Repo
// ------------------------

type FakeTeamRepo struct {
	trace []string

	CreateFunc           func(ctx context.Context, db bun.IDB, team *teamdb.Team) error
	GetByIDFunc          func(ctx context.Context, db bun.IDB, id string) (*teamdb.Team, error)
	GetByIDsFunc         func(ctx context.Context, db bun.IDB, ids []string) ([]teamdb.Team, error)
	ListFunc             func(ctx context.Context, db bun.IDB, filter teamdb.ListFilter) ([]teamdb.Team, error)
	SetParticipationFunc func(ctx context.Context, db bun.IDB, id string, participating bool) error
}

func NewFakeTeamRepo() *FakeTeamRepo {
	return &FakeTeamRepo{
		trace: []string{},
	}
}

func (f *FakeTeamRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTeamRepo) Create(ctx context.Context, db bun.IDB, team *teamdb.Team) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, team)
	}
	return nil
}

func (f *FakeTeamRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*teamdb.Team, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, teamdb.ErrNotFound
}

func (f *FakeTeamRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]teamdb.Team, error) {
	f.record("GetByIDs")
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, db, ids)
	}
	return []teamdb.Team{}, nil
}

func (f *FakeTeamRepo) List(ctx context.Context, db bun.IDB, filter teamdb.ListFilter) ([]teamdb.Team, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, filter)
	}
	return []teamdb.Team{}, nil
}

func (f *FakeTeamRepo) SetParticipation(ctx context.Context, db bun.IDB, id string, participating bool) error {
	f.record("SetParticipation")
	if f.SetParticipationFunc != nil {
		return f.SetParticipationFunc(ctx, db, id, participating)
	}
	return nil
}

func (f *FakeTeamRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ teamdb.Repository = (*FakeTeamRepo)(nil)
