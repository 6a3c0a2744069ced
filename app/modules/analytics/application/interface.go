package analyticsservice

import (
	"context"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	analyticsdomain "github.com/Black-And-White-Club/competition-marking/app/modules/analytics/domain"
	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
)

// Service shapes a round's results for display and download.
type Service interface {
	GetDashboard(ctx context.Context, roundID string) (*analyticsdomain.Dashboard, error)
	ExportResults(ctx context.Context, roundID string) ([]byte, error)
	RenderDistribution(ctx context.Context, roundID string) ([]byte, error)
}

// Aggregator is the part of the aggregation service the reporter reads.
type Aggregator interface {
	CalculateWinner(ctx context.Context, roundID string) (*aggregationdomain.Results, error)
	GetDetailedAnalytics(ctx context.Context, roundID string) (*aggregationdomain.Analytics, error)
}

// AssignmentStats is the part of the assignment service the reporter reads.
type AssignmentStats interface {
	GetAssignmentStats(ctx context.Context, roundID string) (*assignmentdomain.Stats, error)
}

// ScoreLister is the part of the score service the reporter reads.
type ScoreLister interface {
	ListScores(ctx context.Context, roundID string, scope scoredomain.ListScope) ([]scoredb.Score, error)
}
