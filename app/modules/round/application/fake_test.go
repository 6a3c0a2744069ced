package roundservice

import (
	"context"

	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Round Repo
// ------------------------

type FakeRoundRepo struct {
	trace []string

	CreateFunc             func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
	GetByIDFunc            func(ctx context.Context, db bun.IDB, id string) (*rounddb.Round, error)
	ListFunc               func(ctx context.Context, db bun.IDB) ([]rounddb.Round, error)
	UpdateStateFunc        func(ctx context.Context, db bun.IDB, id string, state rounddb.State) error
	ReplaceCriteriaFunc    func(ctx context.Context, db bun.IDB, id string, criterionIDs []string) error
	MostRecentlyClosedFunc func(ctx context.Context, db bun.IDB) (*rounddb.Round, error)
}

func NewFakeRoundRepo() *FakeRoundRepo {
	return &FakeRoundRepo{trace: []string{}}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*rounddb.Round, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) List(ctx context.Context, db bun.IDB) ([]rounddb.Round, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	return []rounddb.Round{}, nil
}

func (f *FakeRoundRepo) UpdateState(ctx context.Context, db bun.IDB, id string, state rounddb.State) error {
	f.record("UpdateState")
	if f.UpdateStateFunc != nil {
		return f.UpdateStateFunc(ctx, db, id, state)
	}
	return nil
}

func (f *FakeRoundRepo) ReplaceCriteria(ctx context.Context, db bun.IDB, id string, criterionIDs []string) error {
	f.record("ReplaceCriteria")
	if f.ReplaceCriteriaFunc != nil {
		return f.ReplaceCriteriaFunc(ctx, db, id, criterionIDs)
	}
	return nil
}

func (f *FakeRoundRepo) MostRecentlyClosed(ctx context.Context, db bun.IDB) (*rounddb.Round, error) {
	f.record("MostRecentlyClosed")
	if f.MostRecentlyClosedFunc != nil {
		return f.MostRecentlyClosedFunc(ctx, db)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Criterion Repo
// ------------------------

type FakeCriterionRepo struct {
	Criteria map[string]criteriondb.Criterion
}

func (f *FakeCriterionRepo) Create(ctx context.Context, db bun.IDB, c *criteriondb.Criterion) error {
	return nil
}

func (f *FakeCriterionRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*criteriondb.Criterion, error) {
	c, ok := f.Criteria[id]
	if !ok {
		return nil, criteriondb.ErrNotFound
	}
	return &c, nil
}

func (f *FakeCriterionRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]criteriondb.Criterion, error) {
	out := []criteriondb.Criterion{}
	for _, id := range ids {
		if c, ok := f.Criteria[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeCriterionRepo) List(ctx context.Context, db bun.IDB, activeOnly bool) ([]criteriondb.Criterion, error) {
	out := []criteriondb.Criterion{}
	for _, c := range f.Criteria {
		out = append(out, c)
	}
	return out, nil
}

var (
	_ rounddb.Repository     = (*FakeRoundRepo)(nil)
	_ criteriondb.Repository = (*FakeCriterionRepo)(nil)
)
