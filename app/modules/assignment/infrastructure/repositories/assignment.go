package assignmentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	"github.com/Black-And-White-Club/competition-marking/db/bundb"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when an edge does not exist.
	ErrNotFound = errors.New("assignment not found")

	// ErrDuplicate is returned when the judge is already on the team.
	ErrDuplicate = errors.New("judge already assigned to team")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new assignment repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// LockRound serializes assignment writers for the round across processes.
// The lock is released when the surrounding transaction ends.
func (r *Impl) LockRound(ctx context.Context, db bun.IDB, roundID string) error {
	db = r.resolveDB(db)
	if _, err := db.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", "assignments:"+roundID); err != nil {
		return fmt.Errorf("assignmentdb.LockRound: %w", err)
	}
	return nil
}

// ListByRound returns the round's edges grouped per team in first-seen order.
func (r *Impl) ListByRound(ctx context.Context, db bun.IDB, roundID string) ([]assignmentdomain.TeamAssignment, error) {
	db = r.resolveDB(db)
	var edges []Edge
	err := db.NewSelect().
		Model(&edges).
		Where("a.round_id = ?", roundID).
		Order("a.team_id ASC", "a.slot ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("assignmentdb.ListByRound: %w", err)
	}
	return group(edges), nil
}

func group(edges []Edge) []assignmentdomain.TeamAssignment {
	out := []assignmentdomain.TeamAssignment{}
	index := map[string]int{}
	for _, e := range edges {
		i, ok := index[e.TeamID]
		if !ok {
			i = len(out)
			index[e.TeamID] = i
			out = append(out, assignmentdomain.TeamAssignment{TeamID: e.TeamID, JudgeIDs: []string{}})
		}
		out[i].JudgeIDs = append(out[i].JudgeIDs, e.JudgeID)
	}
	return out
}

// Replace deletes the edges of clearTeamIDs and inserts assignments. Callers
// run it inside a transaction so the round never shows a partial assignment.
func (r *Impl) Replace(ctx context.Context, db bun.IDB, roundID string, clearTeamIDs []string, assignments []assignmentdomain.TeamAssignment) error {
	db = r.resolveDB(db)
	if len(clearTeamIDs) > 0 {
		if _, err := db.NewDelete().
			Model((*Edge)(nil)).
			Where("round_id = ?", roundID).
			Where("team_id IN (?)", bun.In(clearTeamIDs)).
			Exec(ctx); err != nil {
			return fmt.Errorf("assignmentdb.Replace: failed to clear edges: %w", err)
		}
	}

	now := time.Now().UTC()
	edges := []Edge{}
	for _, ta := range assignments {
		for slot, judgeID := range ta.JudgeIDs {
			edges = append(edges, Edge{RoundID: roundID, TeamID: ta.TeamID, JudgeID: judgeID, Slot: slot, AssignedAt: now})
		}
	}
	if len(edges) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&edges).Exec(ctx); err != nil {
		return fmt.Errorf("assignmentdb.Replace: failed to insert edges: %w", err)
	}
	return nil
}

// Add inserts one edge.
func (r *Impl) Add(ctx context.Context, db bun.IDB, edge *Edge) error {
	db = r.resolveDB(db)
	if edge.AssignedAt.IsZero() {
		edge.AssignedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(edge).Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("assignmentdb.Add: %w", err)
	}
	return nil
}

// Remove deletes one edge and closes the gap it leaves in the team's slots,
// so slots stay 0..n-1 and the next judge always goes to slot n.
func (r *Impl) Remove(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) error {
	db = r.resolveDB(db)
	var slot int
	err := db.NewRaw(
		"DELETE FROM team_judge_assignments WHERE round_id = ? AND team_id = ? AND judge_id = ? RETURNING slot",
		roundID, teamID, judgeID,
	).Scan(ctx, &slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("assignmentdb.Remove: %w", err)
	}

	if _, err := db.NewUpdate().
		Model((*Edge)(nil)).
		Set("slot = slot - 1").
		Where("round_id = ?", roundID).
		Where("team_id = ?", teamID).
		Where("slot > ?", slot).
		Exec(ctx); err != nil {
		return fmt.Errorf("assignmentdb.Remove: failed to compact slots: %w", err)
	}
	return nil
}

// IsAssigned reports whether the edge exists.
func (r *Impl) IsAssigned(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Edge)(nil)).
		Where("a.round_id = ?", roundID).
		Where("a.team_id = ?", teamID).
		Where("a.judge_id = ?", judgeID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("assignmentdb.IsAssigned: %w", err)
	}
	return exists, nil
}
