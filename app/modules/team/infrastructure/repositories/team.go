package teamdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/competition-marking/db/bundb"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a team is not found.
	ErrNotFound = errors.New("team not found")

	// ErrDuplicate is returned when a team number or name is already taken.
	ErrDuplicate = errors.New("team number or name already exists")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new team repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a team.
func (r *Impl) Create(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now
	if _, err := db.NewInsert().Model(team).Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("teamdb.Create: %w", err)
	}
	return nil
}

// GetByID retrieves a team by id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id string) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	err := db.NewSelect().
		Model(team).
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("teamdb.GetByID: %w", err)
	}
	return team, nil
}

// GetByIDs retrieves the listed teams ordered by number.
func (r *Impl) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]Team, error) {
	if len(ids) == 0 {
		return []Team{}, nil
	}
	db = r.resolveDB(db)
	var teams []Team
	err := db.NewSelect().
		Model(&teams).
		Where("t.id IN (?)", bun.In(ids)).
		Order("t.number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("teamdb.GetByIDs: %w", err)
	}
	return teams, nil
}

// List returns teams ordered by number, which is also the order the assignment
// engine and the ranking tie-break rely on.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]Team, error) {
	db = r.resolveDB(db)
	teams := []Team{}
	q := db.NewSelect().Model(&teams).Order("t.number ASC")
	if filter.ParticipatingOnly {
		q = q.Where("t.participating = TRUE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("teamdb.List: %w", err)
	}
	return teams, nil
}

// SetParticipation flips the participation flag.
func (r *Impl) SetParticipation(ctx context.Context, db bun.IDB, id string, participating bool) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Team)(nil)).
		Set("participating = ?", participating).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("teamdb.SetParticipation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("teamdb.SetParticipation: failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
