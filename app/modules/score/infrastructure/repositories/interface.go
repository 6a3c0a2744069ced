package scoredb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for score persistence.
type Repository interface {
	// Upsert inserts score or updates the row with the same key. The stored
	// row, with its final version and id, is scanned back into score.
	Upsert(ctx context.Context, db bun.IDB, score *Score) error

	// GetByID retrieves a score.
	GetByID(ctx context.Context, db bun.IDB, id string) (*Score, error)

	// CompareAndSwap writes score's mutable fields if the stored version is
	// still expectedVersion. A changed row returns ErrVersionMismatch.
	CompareAndSwap(ctx context.Context, db bun.IDB, score *Score, expectedVersion int) error

	// SubmitTeam marks the judge's drafts for a team submitted and returns
	// how many rows changed. submitted_at keeps its first value.
	SubmitTeam(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string, at time.Time) (int, error)

	// List returns scores ordered by creation time, then id.
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Score, error)
}
