package analyticsservice

import (
	"context"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
)

// ------------------------
// Fake Aggregator
// ------------------------

type FakeAggregator struct {
	Results   *aggregationdomain.Results
	Analytics *aggregationdomain.Analytics
	Err       error
	Calls     []string
}

func (f *FakeAggregator) CalculateWinner(ctx context.Context, roundID string) (*aggregationdomain.Results, error) {
	f.Calls = append(f.Calls, "CalculateWinner")
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Results, nil
}

func (f *FakeAggregator) GetDetailedAnalytics(ctx context.Context, roundID string) (*aggregationdomain.Analytics, error) {
	f.Calls = append(f.Calls, "GetDetailedAnalytics")
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Analytics, nil
}

var _ Aggregator = (*FakeAggregator)(nil)

// ------------------------
// Fake Assignment Stats
// ------------------------

type FakeAssignmentStats struct {
	Stats *assignmentdomain.Stats
	Err   error
}

func (f *FakeAssignmentStats) GetAssignmentStats(ctx context.Context, roundID string) (*assignmentdomain.Stats, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Stats, nil
}

var _ AssignmentStats = (*FakeAssignmentStats)(nil)

// ------------------------
// Fake Score Lister
// ------------------------

type FakeScoreLister struct {
	Rows   []scoredb.Score
	Scopes []scoredomain.ListScope
}

func (f *FakeScoreLister) ListScores(ctx context.Context, roundID string, scope scoredomain.ListScope) ([]scoredb.Score, error) {
	f.Scopes = append(f.Scopes, scope)
	return f.Rows, nil
}

var _ ScoreLister = (*FakeScoreLister)(nil)
