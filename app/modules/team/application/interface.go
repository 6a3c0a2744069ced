package teamservice

import (
	"context"

	teamdomain "github.com/Black-And-White-Club/competition-marking/app/modules/team/domain"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
)

// Service manages team registration.
type Service interface {
	CreateTeam(ctx context.Context, profile teamdomain.Profile) (*teamdb.Team, error)
	GetTeam(ctx context.Context, id string) (*teamdb.Team, error)
	ListTeams(ctx context.Context, participatingOnly bool) ([]teamdb.Team, error)
	SetParticipation(ctx context.Context, id string, participating bool) (*teamdb.Team, error)
}
