package criterionmigrations

import (
	"context"
	"fmt"

	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating criteria table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*criteriondb.Criterion)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create criteria table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE criteria DROP CONSTRAINT IF EXISTS criteria_max_score_range;
				ALTER TABLE criteria ADD CONSTRAINT criteria_max_score_range CHECK (max_score BETWEEN 1 AND 100);
				ALTER TABLE criteria DROP CONSTRAINT IF EXISTS criteria_weight_range;
				ALTER TABLE criteria ADD CONSTRAINT criteria_weight_range CHECK (weight >= 0 AND weight <= 1);
			`); err != nil {
				return fmt.Errorf("failed to add criteria constraints: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping criteria table...")

		if _, err := db.NewDropTable().Model((*criteriondb.Criterion)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
