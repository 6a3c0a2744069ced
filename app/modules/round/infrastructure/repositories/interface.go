package rounddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for round persistence.
type Repository interface {
	// Create inserts a round and its criterion links.
	Create(ctx context.Context, db bun.IDB, round *Round) error

	// GetByID retrieves a round with derived progress and criterion ids.
	GetByID(ctx context.Context, db bun.IDB, id string) (*Round, error)

	// List returns rounds, newest start first.
	List(ctx context.Context, db bun.IDB) ([]Round, error)

	// UpdateState writes the active and open flags.
	UpdateState(ctx context.Context, db bun.IDB, id string, state State) error

	// ReplaceCriteria swaps the round's criterion links for ids, in order.
	ReplaceCriteria(ctx context.Context, db bun.IDB, id string, criterionIDs []string) error

	// MostRecentlyClosed returns the active, closed round that ended last.
	MostRecentlyClosed(ctx context.Context, db bun.IDB) (*Round, error)
}
