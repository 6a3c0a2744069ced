package usermigrations

import (
	"context"
	"fmt"

	userdb "github.com/Black-And-White-Club/competition-marking/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*userdb.User)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check;
				ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('admin', 'judge'));
				CREATE INDEX IF NOT EXISTS idx_users_role_active ON users(role, active, created_at);
			`); err != nil {
				return fmt.Errorf("failed to add users constraints: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping users table...")

		if _, err := db.NewDropTable().Model((*userdb.User)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
