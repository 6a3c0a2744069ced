// Package migrations lists every module's migrations in dependency order.
package migrations

import (
	"context"
	"fmt"

	assignmentmigrations "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories/migrations"
	criterionmigrations "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories/migrations"
	roundmigrations "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories/migrations"
	scoremigrations "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories/migrations"
	teammigrations "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories/migrations"
	usermigrations "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is the migrator of one module.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// Migrators returns one migrator per module. Later modules reference tables of
// earlier ones, so the order matters for migrate and is reversed for rollback.
func Migrators(db *bun.DB) []ModuleMigrator {
	return []ModuleMigrator{
		{"user", migrate.NewMigrator(db, usermigrations.Migrations)},
		{"team", migrate.NewMigrator(db, teammigrations.Migrations)},
		{"criterion", migrate.NewMigrator(db, criterionmigrations.Migrations)},
		{"round", migrate.NewMigrator(db, roundmigrations.Migrations)},
		{"assignment", migrate.NewMigrator(db, assignmentmigrations.Migrations)},
		{"score", migrate.NewMigrator(db, scoremigrations.Migrations)},
	}
}

// Up creates the migration tables and applies every pending migration.
func Up(ctx context.Context, db *bun.DB) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", m.Module, err)
		}
		if _, err := m.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", m.Module, err)
		}
	}
	return nil
}
