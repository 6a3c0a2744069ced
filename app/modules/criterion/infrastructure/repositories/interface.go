package criteriondb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for criterion persistence.
type Repository interface {
	// Create inserts a criterion. A taken name returns ErrDuplicate.
	Create(ctx context.Context, db bun.IDB, criterion *Criterion) error

	// GetByID retrieves a criterion with its usage count.
	GetByID(ctx context.Context, db bun.IDB, id string) (*Criterion, error)

	// GetByIDs retrieves the listed criteria. Unknown ids are skipped.
	GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]Criterion, error)

	// List returns criteria ordered by name.
	List(ctx context.Context, db bun.IDB, activeOnly bool) ([]Criterion, error)
}
