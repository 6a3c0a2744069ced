package teamdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for team persistence.
type Repository interface {
	// Create inserts a team. Duplicate numbers or names return ErrDuplicate.
	Create(ctx context.Context, db bun.IDB, team *Team) error

	// GetByID retrieves a team by id.
	GetByID(ctx context.Context, db bun.IDB, id string) (*Team, error)

	// GetByIDs retrieves the listed teams ordered by number. Unknown ids are skipped.
	GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]Team, error)

	// List returns teams ordered by number.
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Team, error)

	// SetParticipation flips the participation flag.
	SetParticipation(ctx context.Context, db bun.IDB, id string, participating bool) error
}
