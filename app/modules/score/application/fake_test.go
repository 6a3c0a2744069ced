package scoreservice

import (
	"context"
	"slices"
	"sync"
	"time"

	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	assignmentdb "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

// FakeScoreRepo stores rows in memory and mimics the upsert rules of the
// Postgres statement.
type FakeScoreRepo struct {
	trace []string
	Rows  []scoredb.Score

	UpsertFunc         func(ctx context.Context, db bun.IDB, score *scoredb.Score) error
	CompareAndSwapFunc func(ctx context.Context, db bun.IDB, score *scoredb.Score, expectedVersion int) error
	ListFunc           func(ctx context.Context, db bun.IDB, filter scoredb.ListFilter) ([]scoredb.Score, error)
}

func NewFakeScoreRepo() *FakeScoreRepo {
	return &FakeScoreRepo{trace: []string{}}
}

func (f *FakeScoreRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) Upsert(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, score)
	}
	for i, row := range f.Rows {
		if row.JudgeID != score.JudgeID || row.TeamID != score.TeamID || row.RoundID != score.RoundID || row.CriterionID != score.CriterionID {
			continue
		}
		changed := row.Value != score.Value
		submitted := score.IsSubmitted || (row.IsSubmitted && !changed)
		next := row
		if changed {
			prev := row.Value
			next.PreviousScore = &prev
			next.Version = row.Version + 1
		}
		next.Value = score.Value
		next.Comment = score.Comment
		next.IsSubmitted = submitted
		switch {
		case !submitted:
			next.SubmittedAt = nil
		case row.SubmittedAt == nil:
			next.SubmittedAt = score.SubmittedAt
		}
		f.Rows[i] = next
		*score = next
		return nil
	}
	f.Rows = append(f.Rows, *score)
	return nil
}

func (f *FakeScoreRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*scoredb.Score, error) {
	f.record("GetByID")
	for _, row := range f.Rows {
		if row.ID == id {
			return &row, nil
		}
	}
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) CompareAndSwap(ctx context.Context, db bun.IDB, score *scoredb.Score, expectedVersion int) error {
	f.record("CompareAndSwap")
	if f.CompareAndSwapFunc != nil {
		return f.CompareAndSwapFunc(ctx, db, score, expectedVersion)
	}
	for i, row := range f.Rows {
		if row.ID == score.ID {
			if row.Version != expectedVersion {
				return scoredb.ErrVersionMismatch
			}
			f.Rows[i] = *score
			return nil
		}
	}
	return scoredb.ErrVersionMismatch
}

func (f *FakeScoreRepo) SubmitTeam(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string, at time.Time) (int, error) {
	f.record("SubmitTeam")
	n := 0
	for i, row := range f.Rows {
		if row.RoundID == roundID && row.TeamID == teamID && row.JudgeID == judgeID && !row.IsSubmitted {
			f.Rows[i].IsSubmitted = true
			if row.SubmittedAt == nil {
				f.Rows[i].SubmittedAt = &at
			}
			n++
		}
	}
	return n, nil
}

func (f *FakeScoreRepo) List(ctx context.Context, db bun.IDB, filter scoredb.ListFilter) ([]scoredb.Score, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, filter)
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

func (f *FakeScoreRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ scoredb.Repository = (*FakeScoreRepo)(nil)

// ------------------------
// Collaborator fakes
// ------------------------

type FakeRoundRepo struct {
	Rounds map[string]*rounddb.Round
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	return nil
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*rounddb.Round, error) {
	if r, ok := f.Rounds[id]; ok {
		cp := *r
		return &cp, nil
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

type FakeCriterionRepo struct {
	Criteria map[string]criteriondb.Criterion
}

func (f *FakeCriterionRepo) Create(ctx context.Context, db bun.IDB, c *criteriondb.Criterion) error {
	return nil
}

func (f *FakeCriterionRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*criteriondb.Criterion, error) {
	if c, ok := f.Criteria[id]; ok {
		return &c, nil
	}
	return nil, criteriondb.ErrNotFound
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
	return []criteriondb.Criterion{}, nil
}

var _ criteriondb.Repository = (*FakeCriterionRepo)(nil)

// FakeAssignmentRepo only answers IsAssigned.
type FakeAssignmentRepo struct {
	Edges []assignmentdomain.TeamAssignment
}

func (f *FakeAssignmentRepo) LockRound(ctx context.Context, db bun.IDB, roundID string) error {
	return nil
}

func (f *FakeAssignmentRepo) ListByRound(ctx context.Context, db bun.IDB, roundID string) ([]assignmentdomain.TeamAssignment, error) {
	return f.Edges, nil
}

func (f *FakeAssignmentRepo) Replace(ctx context.Context, db bun.IDB, roundID string, clearTeamIDs []string, assignments []assignmentdomain.TeamAssignment) error {
	return nil
}

func (f *FakeAssignmentRepo) Add(ctx context.Context, db bun.IDB, edge *assignmentdb.Edge) error {
	return nil
}

func (f *FakeAssignmentRepo) Remove(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) error {
	return nil
}

func (f *FakeAssignmentRepo) IsAssigned(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) (bool, error) {
	for _, ta := range f.Edges {
		if ta.TeamID == teamID && slices.Contains(ta.JudgeIDs, judgeID) {
			return true, nil
		}
	}
	return false, nil
}

var _ assignmentdb.Repository = (*FakeAssignmentRepo)(nil)

type published struct {
	Topic   string
	Payload any
}

type FakePublisher struct {
	mu     sync.Mutex
	Events []published
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = append(f.Events, published{Topic: topic, Payload: payload})
	return nil
}
