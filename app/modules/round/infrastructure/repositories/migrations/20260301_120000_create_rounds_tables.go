package roundmigrations

import (
	"context"
	"fmt"

	rounddb "github.com/Black-And-White-Club/competition-marking/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds and round_criteria tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*rounddb.Round)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*rounddb.RoundCriterion)(nil)).
				IfNotExists().
				ForeignKey(`("round_id") REFERENCES "rounds" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create round_criteria table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE rounds DROP CONSTRAINT IF EXISTS rounds_window_check;
				ALTER TABLE rounds ADD CONSTRAINT rounds_window_check CHECK (end_time > start_time);
				CREATE INDEX IF NOT EXISTS idx_rounds_closed ON rounds(is_active, is_open, end_time DESC);
				CREATE INDEX IF NOT EXISTS idx_round_criteria_criterion ON round_criteria(criterion_id);
			`); err != nil {
				return fmt.Errorf("failed to add rounds constraints: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rounds and round_criteria tables...")

		if _, err := db.NewDropTable().Model((*rounddb.RoundCriterion)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*rounddb.Round)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
