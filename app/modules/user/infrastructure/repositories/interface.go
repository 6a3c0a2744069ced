package userdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for user persistence.
type Repository interface {
	// Create inserts a user. A taken email returns ErrDuplicate.
	Create(ctx context.Context, db bun.IDB, user *User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, db bun.IDB, id string) (*User, error)

	// GetByIDs retrieves the listed users. Unknown ids are skipped.
	GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]User, error)

	// List returns users ordered by creation time, then id.
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]User, error)

	// SetActive flips the active flag.
	SetActive(ctx context.Context, db bun.IDB, id string, active bool) error
}
