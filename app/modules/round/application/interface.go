package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/competition-marking/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
)

// Service manages rounds and their criteria.
type Service interface {
	CreateRound(ctx context.Context, ownerID string, draft rounddomain.Draft) (*rounddb.Round, error)
	GetRound(ctx context.Context, id string) (*rounddb.Round, error)
	ListRounds(ctx context.Context) ([]rounddb.Round, error)
	SetState(ctx context.Context, id string, change rounddomain.StateChange) (*rounddb.Round, error)
	SetCriteria(ctx context.Context, id string, criterionIDs []string) (*rounddb.Round, error)
}
