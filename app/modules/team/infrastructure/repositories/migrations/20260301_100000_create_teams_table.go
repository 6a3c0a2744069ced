package teammigrations

import (
	"context"
	"fmt"

	teamdb "github.com/Black-And-White-Club/competition-marking/app/modules/team/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating teams table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*teamdb.Team)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create teams table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE teams DROP CONSTRAINT IF EXISTS teams_number_range;
				ALTER TABLE teams ADD CONSTRAINT teams_number_range CHECK (number BETWEEN 1 AND 15);
				CREATE INDEX IF NOT EXISTS idx_teams_participating ON teams(participating);
			`); err != nil {
				return fmt.Errorf("failed to add teams constraints: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping teams table...")

		if _, err := db.NewDropTable().Model((*teamdb.Team)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
