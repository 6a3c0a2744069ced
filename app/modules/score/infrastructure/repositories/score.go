package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a score does not exist.
	ErrNotFound = errors.New("score not found")

	// ErrVersionMismatch is returned when a compare-and-swap loses a race.
	ErrVersionMismatch = errors.New("score version changed")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new score repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Upsert relies on the row lock Postgres takes for ON CONFLICT, so concurrent
// writers of one key serialize and each sees the other's committed value.
// A changed value bumps the version and records the previous one. The row
// stays submitted only if this write submits it or leaves the value alone.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, score *Score) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	score.CreatedAt = now
	score.UpdatedAt = now
	if score.Version == 0 {
		score.Version = 1
	}

	err := db.NewInsert().
		Model(score).
		On("CONFLICT (judge_id, team_id, round_id, criterion_id) DO UPDATE").
		Set("previous_score = CASE WHEN s.value <> EXCLUDED.value THEN s.value ELSE s.previous_score END").
		Set("version = CASE WHEN s.value <> EXCLUDED.value THEN s.version + 1 ELSE s.version END").
		Set("is_submitted = EXCLUDED.is_submitted OR (s.is_submitted AND s.value = EXCLUDED.value)").
		Set(`submitted_at = CASE
			WHEN EXCLUDED.is_submitted OR (s.is_submitted AND s.value = EXCLUDED.value)
			THEN COALESCE(s.submitted_at, EXCLUDED.submitted_at)
			ELSE NULL END`).
		Set("value = EXCLUDED.value").
		Set("comment = EXCLUDED.comment").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.Upsert: %w", err)
	}
	return nil
}

// GetByID retrieves a score by id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id string) (*Score, error) {
	db = r.resolveDB(db)
	score := new(Score)
	err := db.NewSelect().
		Model(score).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoredb.GetByID: %w", err)
	}
	return score, nil
}

// CompareAndSwap updates the row only while its version equals expectedVersion.
func (r *Impl) CompareAndSwap(ctx context.Context, db bun.IDB, score *Score, expectedVersion int) error {
	db = r.resolveDB(db)
	score.UpdatedAt = time.Now().UTC()

	result, err := db.NewUpdate().
		Model(score).
		Column("value", "comment", "is_submitted", "submitted_at", "version", "previous_score", "updated_at").
		Where("s.id = ?", score.ID).
		Where("s.version = ?", expectedVersion).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.CompareAndSwap: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("scoredb.CompareAndSwap: failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrVersionMismatch
	}
	return nil
}

// SubmitTeam flips every draft of the judge for the team.
func (r *Impl) SubmitTeam(ctx context.Context, db bun.IDB, roundID, teamID, judgeID string, at time.Time) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Score)(nil)).
		Set("is_submitted = TRUE").
		Set("submitted_at = COALESCE(s.submitted_at, ?)", at).
		Set("updated_at = ?", at).
		Where("s.round_id = ?", roundID).
		Where("s.team_id = ?", teamID).
		Where("s.judge_id = ?", judgeID).
		Where("NOT s.is_submitted").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("scoredb.SubmitTeam: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("scoredb.SubmitTeam: failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

// List returns the round's scores matching filter.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Score, error) {
	db = r.resolveDB(db)
	scores := []Score{}
	q := db.NewSelect().
		Model(&scores).
		Where("s.round_id = ?", filter.RoundID)
	if filter.TeamID != "" {
		q = q.Where("s.team_id = ?", filter.TeamID)
	}
	if filter.JudgeID != "" {
		q = q.Where("s.judge_id = ?", filter.JudgeID)
	}
	if filter.SubmittedOnly {
		q = q.Where("s.is_submitted")
	}
	if err := q.Order("s.created_at ASC", "s.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("scoredb.List: %w", err)
	}
	return scores, nil
}
