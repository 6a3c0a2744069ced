package userservice

import (
	"context"

	userdomain "github.com/Black-And-White-Club/competition-marking/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
)

// Service manages administrators and judges.
type Service interface {
	CreateUser(ctx context.Context, profile userdomain.Profile) (*userdb.User, error)
	GetUser(ctx context.Context, id string) (*userdb.User, error)
	ListUsers(ctx context.Context, filter userdb.ListFilter) ([]userdb.User, error)
	SetActive(ctx context.Context, id string, active bool) (*userdb.User, error)
}
