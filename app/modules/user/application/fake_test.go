package userservice

import (
	"context"

	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake User Repo
// ------------------------

type FakeUserRepo struct {
	trace []string

	CreateFunc    func(ctx context.Context, db bun.IDB, user *userdb.User) error
	GetByIDFunc   func(ctx context.Context, db bun.IDB, id string) (*userdb.User, error)
	GetByIDsFunc  func(ctx context.Context, db bun.IDB, ids []string) ([]userdb.User, error)
	ListFunc      func(ctx context.Context, db bun.IDB, filter userdb.ListFilter) ([]userdb.User, error)
	SetActiveFunc func(ctx context.Context, db bun.IDB, id string, active bool) error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{trace: []string{}}
}

func (f *FakeUserRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeUserRepo) Create(ctx context.Context, db bun.IDB, user *userdb.User) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, user)
	}
	return nil
}

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*userdb.User, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]userdb.User, error) {
	f.record("GetByIDs")
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, db, ids)
	}
	return []userdb.User{}, nil
}

func (f *FakeUserRepo) List(ctx context.Context, db bun.IDB, filter userdb.ListFilter) ([]userdb.User, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, filter)
	}
	return []userdb.User{}, nil
}

func (f *FakeUserRepo) SetActive(ctx context.Context, db bun.IDB, id string, active bool) error {
	f.record("SetActive")
	if f.SetActiveFunc != nil {
		return f.SetActiveFunc(ctx, db, id, active)
	}
	return nil
}

func (f *FakeUserRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ userdb.Repository = (*FakeUserRepo)(nil)
