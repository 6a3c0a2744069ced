package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a round is not found.
var ErrNotFound = errors.New("round not found")

const (
	totalTeamsExpr = "(SELECT COUNT(*) FROM teams AS t WHERE t.participating = TRUE) AS total_teams"

	completedEvaluationsExpr = `(SELECT COUNT(*) FROM (
		SELECT DISTINCT s.judge_id, s.team_id FROM scores AS s
		WHERE s.round_id = r.id AND s.is_submitted = TRUE
	) AS done) AS completed_evaluations`
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) selectWithProgress(db bun.IDB, model any) *bun.SelectQuery {
	return db.NewSelect().
		Model(model).
		ColumnExpr("r.*").
		ColumnExpr(totalTeamsExpr).
		ColumnExpr(completedEvaluationsExpr)
}

// Create inserts a round and its criterion links.
func (r *Impl) Create(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	round.CreatedAt = now
	round.UpdatedAt = now
	if _, err := db.NewInsert().Model(round).Exec(ctx); err != nil {
		return fmt.Errorf("rounddb.Create: %w", err)
	}
	if err := r.insertLinks(ctx, db, round.ID, round.CriterionIDs); err != nil {
		return fmt.Errorf("rounddb.Create: %w", err)
	}
	return nil
}

func (r *Impl) insertLinks(ctx context.Context, db bun.IDB, roundID string, criterionIDs []string) error {
	if len(criterionIDs) == 0 {
		return nil
	}
	links := make([]RoundCriterion, len(criterionIDs))
	for i, id := range criterionIDs {
		links[i] = RoundCriterion{RoundID: roundID, CriterionID: id, Position: i}
	}
	if _, err := db.NewInsert().Model(&links).Exec(ctx); err != nil {
		return fmt.Errorf("failed to link criteria: %w", err)
	}
	return nil
}

// loadCriterionIDs fills CriterionIDs on every round in one query.
func (r *Impl) loadCriterionIDs(ctx context.Context, db bun.IDB, rounds ...*Round) error {
	if len(rounds) == 0 {
		return nil
	}
	ids := make([]string, len(rounds))
	byID := make(map[string]*Round, len(rounds))
	for i, round := range rounds {
		ids[i] = round.ID
		byID[round.ID] = round
		round.CriterionIDs = []string{}
	}

	var links []RoundCriterion
	err := db.NewSelect().
		Model(&links).
		Where("rc.round_id IN (?)", bun.In(ids)).
		Order("rc.round_id ASC", "rc.position ASC").
		Scan(ctx)
	if err != nil {
		return err
	}
	for _, l := range links {
		byID[l.RoundID].CriterionIDs = append(byID[l.RoundID].CriterionIDs, l.CriterionID)
	}
	return nil
}

// GetByID retrieves a round with derived progress and criterion ids.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id string) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := r.selectWithProgress(db, round).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rounddb.GetByID: %w", err)
	}
	if err := r.loadCriterionIDs(ctx, db, round); err != nil {
		return nil, fmt.Errorf("rounddb.GetByID: %w", err)
	}
	return round, nil
}

// List returns rounds, newest start first.
func (r *Impl) List(ctx context.Context, db bun.IDB) ([]Round, error) {
	db = r.resolveDB(db)
	rounds := []Round{}
	err := r.selectWithProgress(db, &rounds).
		Order("r.start_time DESC", "r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rounddb.List: %w", err)
	}
	ptrs := make([]*Round, len(rounds))
	for i := range rounds {
		ptrs[i] = &rounds[i]
	}
	if err := r.loadCriterionIDs(ctx, db, ptrs...); err != nil {
		return nil, fmt.Errorf("rounddb.List: %w", err)
	}
	return rounds, nil
}

// UpdateState writes the active and open flags.
func (r *Impl) UpdateState(ctx context.Context, db bun.IDB, id string, state State) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("is_active = ?", state.IsActive).
		Set("is_open = ?", state.IsOpen).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rounddb.UpdateState: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rounddb.UpdateState: failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceCriteria swaps the round's criterion links. Callers run it in a transaction.
func (r *Impl) ReplaceCriteria(ctx context.Context, db bun.IDB, id string, criterionIDs []string) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().
		Model((*RoundCriterion)(nil)).
		Where("round_id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("rounddb.ReplaceCriteria: %w", err)
	}
	if err := r.insertLinks(ctx, db, id, criterionIDs); err != nil {
		return fmt.Errorf("rounddb.ReplaceCriteria: %w", err)
	}
	return nil
}

// MostRecentlyClosed returns the active, closed round with the latest end time.
func (r *Impl) MostRecentlyClosed(ctx context.Context, db bun.IDB) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := r.selectWithProgress(db, round).
		Where("r.is_active = TRUE").
		Where("r.is_open = FALSE").
		Order("r.end_time DESC", "r.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rounddb.MostRecentlyClosed: %w", err)
	}
	if err := r.loadCriterionIDs(ctx, db, round); err != nil {
		return nil, fmt.Errorf("rounddb.MostRecentlyClosed: %w", err)
	}
	return round, nil
}
