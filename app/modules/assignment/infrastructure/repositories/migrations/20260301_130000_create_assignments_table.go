package assignmentmigrations

import (
	"context"
	"fmt"

	assignmentdb "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating team_judge_assignments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*assignmentdb.Edge)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create team_judge_assignments table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE team_judge_assignments DROP CONSTRAINT IF EXISTS assignments_slot_range;
				ALTER TABLE team_judge_assignments ADD CONSTRAINT assignments_slot_range CHECK (slot BETWEEN 0 AND 2);
				CREATE INDEX IF NOT EXISTS idx_assignments_round_judge ON team_judge_assignments(round_id, judge_id);
			`); err != nil {
				return fmt.Errorf("failed to add assignment constraints: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping team_judge_assignments table...")

		if _, err := db.NewDropTable().Model((*assignmentdb.Edge)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
