package aggregationservice

import (
	"context"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
)

// Service turns submitted scores into summaries, rankings and analytics.
type Service interface {
	GetTeamScoreSummary(ctx context.Context, teamID, roundID string) (*aggregationdomain.Summary, error)
	// CalculateWinner ranks roundID, or the most recently closed round when
	// roundID is empty.
	CalculateWinner(ctx context.Context, roundID string) (*aggregationdomain.Results, error)
	GetDetailedAnalytics(ctx context.Context, roundID string) (*aggregationdomain.Analytics, error)
}
