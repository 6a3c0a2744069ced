package criteriondb

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
	// ErrNotFound is returned when a criterion is not found.
	ErrNotFound = errors.New("criterion not found")

	// ErrDuplicate is returned when the criterion name is taken.
	ErrDuplicate = errors.New("criterion name already exists")
)

const usageCountExpr = "(SELECT COUNT(*) FROM round_criteria AS rc WHERE rc.criterion_id = c.id) AS usage_count"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new criterion repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) selectWithUsage(db bun.IDB, model any) *bun.SelectQuery {
	return db.NewSelect().
		Model(model).
		ColumnExpr("c.*").
		ColumnExpr(usageCountExpr)
}

// Create inserts a criterion.
func (r *Impl) Create(ctx context.Context, db bun.IDB, criterion *Criterion) error {
	db = r.resolveDB(db)
	criterion.CreatedAt = time.Now().UTC()
	if _, err := db.NewInsert().Model(criterion).Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("criteriondb.Create: %w", err)
	}
	return nil
}

// GetByID retrieves a criterion with its usage count.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id string) (*Criterion, error) {
	db = r.resolveDB(db)
	criterion := new(Criterion)
	err := r.selectWithUsage(db, criterion).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("criteriondb.GetByID: %w", err)
	}
	return criterion, nil
}

// GetByIDs retrieves the listed criteria ordered by name.
func (r *Impl) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]Criterion, error) {
	if len(ids) == 0 {
		return []Criterion{}, nil
	}
	db = r.resolveDB(db)
	var criteria []Criterion
	err := r.selectWithUsage(db, &criteria).
		Where("c.id IN (?)", bun.In(ids)).
		Order("c.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("criteriondb.GetByIDs: %w", err)
	}
	return criteria, nil
}

// List returns criteria ordered by name.
func (r *Impl) List(ctx context.Context, db bun.IDB, activeOnly bool) ([]Criterion, error) {
	db = r.resolveDB(db)
	criteria := []Criterion{}
	q := r.selectWithUsage(db, &criteria).Order("c.name ASC")
	if activeOnly {
		q = q.Where("c.active = TRUE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("criteriondb.List: %w", err)
	}
	return criteria, nil
}
