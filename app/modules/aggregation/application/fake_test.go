package aggregationservice

import (
	"context"
	"slices"
	"time"

	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	Rows    []scoredb.Score
	Filters []scoredb.ListFilter
	ListErr error
}

func (f *FakeScoreRepo) Upsert(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
	return nil
}

func (f *FakeScoreRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*scoredb.Score, error) {
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) CompareAndSwap(ctx context.Context, db bun.IDB, score *scoredb.Score, expectedVersion int) error {
	return nil
}

func (f *FakeScoreRepo) SubmitTeam(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string, at time.Time) (int, error) {
	return 0, nil
}

func (f *FakeScoreRepo) List(ctx context.Context, db bun.IDB, filter scoredb.ListFilter) ([]scoredb.Score, error) {
	f.Filters = append(f.Filters, filter)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := []scoredb.Score{}
	for _, row := range f.Rows {
		if row.RoundID != filter.RoundID ||
			(filter.TeamID != "" && row.TeamID != filter.TeamID) ||
			(filter.JudgeID != "" && row.JudgeID != filter.JudgeID) ||
			(filter.SubmittedOnly && !row.IsSubmitted) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

var _ scoredb.Repository = (*FakeScoreRepo)(nil)

// ------------------------
// Read-only fakes
// ------------------------

type FakeRoundRepo struct {
	Rounds map[string]rounddb.Round
	Closed *rounddb.Round
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	return nil
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*rounddb.Round, error) {
	if r, ok := f.Rounds[id]; ok {
		return &r, nil
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
	if f.Closed == nil {
		return nil, rounddb.ErrNotFound
	}
	return f.Closed, nil
}

var _ rounddb.Repository = (*FakeRoundRepo)(nil)

type FakeTeamRepo struct {
	Teams []teamdb.Team
}

func (f *FakeTeamRepo) Create(ctx context.Context, db bun.IDB, team *teamdb.Team) error {
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
	return []teamdb.Team{}, nil
}

func (f *FakeTeamRepo) List(ctx context.Context, db bun.IDB, filter teamdb.ListFilter) ([]teamdb.Team, error) {
	out := []teamdb.Team{}
	for _, t := range f.Teams {
		if !filter.ParticipatingOnly || t.Participating {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *FakeTeamRepo) SetParticipation(ctx context.Context, db bun.IDB, id string, participating bool) error {
	return nil
}

var _ teamdb.Repository = (*FakeTeamRepo)(nil)

type FakeCriterionRepo struct {
	Criteria []criteriondb.Criterion
}

func (f *FakeCriterionRepo) Create(ctx context.Context, db bun.IDB, c *criteriondb.Criterion) error {
	return nil
}

func (f *FakeCriterionRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*criteriondb.Criterion, error) {
	return nil, criteriondb.ErrNotFound
}

func (f *FakeCriterionRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]criteriondb.Criterion, error) {
	out := []criteriondb.Criterion{}
	for _, c := range f.Criteria {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeCriterionRepo) List(ctx context.Context, db bun.IDB, activeOnly bool) ([]criteriondb.Criterion, error) {
	return f.Criteria, nil
}

var _ criteriondb.Repository = (*FakeCriterionRepo)(nil)

type FakeUserRepo struct {
	Users []userdb.User
}

func (f *FakeUserRepo) Create(ctx context.Context, db bun.IDB, user *userdb.User) error {
	return nil
}

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*userdb.User, error) {
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]userdb.User, error) {
	return []userdb.User{}, nil
}

func (f *FakeUserRepo) List(ctx context.Context, db bun.IDB, filter userdb.ListFilter) ([]userdb.User, error) {
	out := []userdb.User{}
	for _, u := range f.Users {
		if filter.Role == "" || u.Role == filter.Role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *FakeUserRepo) SetActive(ctx context.Context, db bun.IDB, id string, active bool) error {
	return nil
}

var _ userdb.Repository = (*FakeUserRepo)(nil)
