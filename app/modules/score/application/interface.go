package scoreservice

import (
	"context"

	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
)

// Service records judges' scores.
type Service interface {
	SubmitScore(ctx context.Context, judgeID, roundID string, sub scoredomain.Submission) (*scoredb.Score, error)
	ModifyScore(ctx context.Context, judgeID, scoreID string, mod scoredomain.Modification) (*scoredb.Score, error)
	SubmitTeamScores(ctx context.Context, judgeID, roundID, teamID string) ([]scoredb.Score, error)
	ListScores(ctx context.Context, roundID string, scope scoredomain.ListScope) ([]scoredb.Score, error)
}
