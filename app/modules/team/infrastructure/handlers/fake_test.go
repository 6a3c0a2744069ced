package teamhandlers

import (
	"context"

	teamservice "github.com/Black-And-White-Club/competition-marking/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/competition-marking/app/modules/team/domain"
	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
)

// FakeService is a programmable fake for teamservice.Service.
type FakeService struct {
	CreateTeamFunc       func(ctx context.Context, profile teamdomain.Profile) (*teamdb.Team, error)
	GetTeamFunc          func(ctx context.Context, id string) (*teamdb.Team, error)
	ListTeamsFunc        func(ctx context.Context, participatingOnly bool) ([]teamdb.Team, error)
	SetParticipationFunc func(ctx context.Context, id string, participating bool) (*teamdb.Team, error)
}

func (f *FakeService) CreateTeam(ctx context.Context, profile teamdomain.Profile) (*teamdb.Team, error) {
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, profile)
	}
	return &teamdb.Team{}, nil
}

func (f *FakeService) GetTeam(ctx context.Context, id string) (*teamdb.Team, error) {
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, id)
	}
	return &teamdb.Team{ID: id}, nil
}

func (f *FakeService) ListTeams(ctx context.Context, participatingOnly bool) ([]teamdb.Team, error) {
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, participatingOnly)
	}
	return []teamdb.Team{}, nil
}

func (f *FakeService) SetParticipation(ctx context.Context, id string, participating bool) (*teamdb.Team, error) {
	if f.SetParticipationFunc != nil {
		return f.SetParticipationFunc(ctx, id, participating)
	}
	return &teamdb.Team{ID: id, Participating: participating}, nil
}

var _ teamservice.Service = (*FakeService)(nil)
