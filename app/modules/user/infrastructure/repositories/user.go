package userdb

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
	// ErrNotFound is returned when a user is not found.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate is returned when the email is already registered.
	ErrDuplicate = errors.New("email already registered")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new user repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a user.
func (r *Impl) Create(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("userdb.Create: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id string) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userdb.GetByID: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves the listed users in registration order.
func (r *Impl) GetByIDs(ctx context.Context, db bun.IDB, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}
	db = r.resolveDB(db)
	var users []User
	err := db.NewSelect().
		Model(&users).
		Where("u.id IN (?)", bun.In(ids)).
		Order("u.created_at ASC", "u.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("userdb.GetByIDs: %w", err)
	}
	return users, nil
}

// List returns users in registration order. The assignment engine cycles
// through judges in exactly this order.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]User, error) {
	db = r.resolveDB(db)
	users := []User{}
	q := db.NewSelect().Model(&users).Order("u.created_at ASC", "u.id ASC")
	if filter.Role != "" {
		q = q.Where("u.role = ?", filter.Role)
	}
	if filter.ActiveOnly {
		q = q.Where("u.active = TRUE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("userdb.List: %w", err)
	}
	return users, nil
}

// SetActive flips the active flag.
func (r *Impl) SetActive(ctx context.Context, db bun.IDB, id string, active bool) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("active = ?", active).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("userdb.SetActive: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("userdb.SetActive: failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
