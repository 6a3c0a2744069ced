package assignmentdb

import (
	"context"

	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for assignment edge persistence.
type Repository interface {
	// LockRound takes a transaction-scoped advisory lock on the round.
	LockRound(ctx context.Context, db bun.IDB, roundID string) error

	// ListByRound returns the round's edges grouped per team, judges in slot order.
	ListByRound(ctx context.Context, db bun.IDB, roundID string) ([]assignmentdomain.TeamAssignment, error)

	// Replace deletes the edges of clearTeamIDs in the round and inserts assignments.
	Replace(ctx context.Context, db bun.IDB, roundID string, clearTeamIDs []string, assignments []assignmentdomain.TeamAssignment) error

	// Add inserts one edge. An existing edge returns ErrDuplicate.
	Add(ctx context.Context, db bun.IDB, edge *Edge) error

	// Remove deletes one edge and renumbers the team's later slots down by one.
	// A missing edge returns ErrNotFound.
	Remove(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) error

	// IsAssigned reports whether judgeID evaluates teamID in the round.
	IsAssigned(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) (bool, error)
}
