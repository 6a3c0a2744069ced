package criterionservice

import (
	"context"

	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Criterion Repo
// ------------------------

type FakeCriterionRepo struct {
	trace []string

	CreateFunc   func(ctx context.Context, db bun.IDB, criterion *criteriondb.Criterion) error
	GetByIDFunc  func(ctx context.Context, db bun.IDB, id string) (*criteriondb.Criterion, error)
	GetByIDsFunc func(ctx context.Context, db bun.IDB, ids []string) ([]criteriondb.Criterion, error)
	ListFunc     func(ctx context.Context, db bun.IDB, activeOnly bool) ([]criteriondb.Criterion, error)
}

func NewFakeCriterionRepo() *FakeCriterionRepo {
	return &FakeCriterionRepo{trace: []string{}}
}

func (f *FakeCriterionRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCriterionRepo) Create(ctx context.Context, db bun.IDB, criterion *criteriondb.Criterion) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, criterion)
	}
	return nil
}

func (f *FakeCriterionRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*criteriondb.Criterion, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, criteriondb.ErrNotFound
}

func (f *FakeCriterionRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]criteriondb.Criterion, error) {
	f.record("GetByIDs")
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, db, ids)
	}
	return []criteriondb.Criterion{}, nil
}

func (f *FakeCriterionRepo) List(ctx context.Context, db bun.IDB, activeOnly bool) ([]criteriondb.Criterion, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, activeOnly)
	}
	return []criteriondb.Criterion{}, nil
}

func (f *FakeCriterionRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ criteriondb.Repository = (*FakeCriterionRepo)(nil)
