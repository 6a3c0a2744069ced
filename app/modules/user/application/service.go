package userservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	userdomain "github.com/Black-And-White-Club/competition-marking/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"github.com/Black-And-White-Club/competition-marking/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// UserService implements the Service interface.
type UserService struct {
	repo   userdb.Repository
	runner *operations.Runner
}

// NewUserService creates a new UserService.
func NewUserService(
	repo userdb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		repo: repo,
		runner: &operations.Runner{
			Service: "UserService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// CreateUser registers an administrator or judge. Emails are stored lowercased.
func (s *UserService) CreateUser(ctx context.Context, profile userdomain.Profile) (*userdb.User, error) {
	return operations.Run(s.runner, ctx, "CreateUser", profile.Email, func(ctx context.Context, db bun.IDB) (results.OperationResult[*userdb.User, error], error) {
		if err := profile.Validate(); err != nil {
			return results.FailureResult[*userdb.User, error](err), nil
		}

		user := &userdb.User{
			ID:     uuid.NewString(),
			Name:   strings.TrimSpace(profile.Name),
			Email:  strings.ToLower(strings.TrimSpace(profile.Email)),
			Role:   profile.Role,
			Active: true,
		}
		if err := s.repo.Create(ctx, db, user); err != nil {
			if errors.Is(err, userdb.ErrDuplicate) {
				return results.FailureResult[*userdb.User, error](apperrors.Conflict("user", "email %q already registered", user.Email)), nil
			}
			return results.OperationResult[*userdb.User, error]{}, fmt.Errorf("failed to create user: %w", err)
		}
		return results.SuccessResult[*userdb.User, error](user), nil
	})
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*userdb.User, error) {
	return operations.Run(s.runner, ctx, "GetUser", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*userdb.User, error], error) {
		return s.getUserLogic(ctx, db, id)
	})
}

func (s *UserService) getUserLogic(ctx context.Context, db bun.IDB, id string) (results.OperationResult[*userdb.User, error], error) {
	user, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return results.FailureResult[*userdb.User, error](apperrors.NotFound("user", id)), nil
		}
		return results.OperationResult[*userdb.User, error]{}, fmt.Errorf("failed to get user: %w", err)
	}
	return results.SuccessResult[*userdb.User, error](user), nil
}

// ListUsers lists users in registration order.
func (s *UserService) ListUsers(ctx context.Context, filter userdb.ListFilter) ([]userdb.User, error) {
	return operations.Run(s.runner, ctx, "ListUsers", string(filter.Role), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]userdb.User, error], error) {
		if filter.Role != "" && !filter.Role.IsValid() {
			return results.FailureResult[[]userdb.User, error](apperrors.InvalidInput("role", "unknown role %q", filter.Role)), nil
		}
		users, err := s.repo.List(ctx, db, filter)
		if err != nil {
			return results.OperationResult[[]userdb.User, error]{}, fmt.Errorf("failed to list users: %w", err)
		}
		return results.SuccessResult[[]userdb.User, error](users), nil
	})
}

// SetActive activates or deactivates a user. Inactive judges are skipped by
// assignment and dropped by optimization.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*userdb.User, error) {
	return operations.Run(s.runner, ctx, "SetActive", id, func(ctx context.Context, db bun.IDB) (results.OperationResult[*userdb.User, error], error) {
		if err := s.repo.SetActive(ctx, db, id, active); err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return results.FailureResult[*userdb.User, error](apperrors.NotFound("user", id)), nil
			}
			return results.OperationResult[*userdb.User, error]{}, fmt.Errorf("failed to set active: %w", err)
		}
		return s.getUserLogic(ctx, db, id)
	})
}
