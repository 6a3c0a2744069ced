package scoremigrations

import (
	"context"
	"fmt"

	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scores table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*scoredb.Score)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create scores table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE scores DROP CONSTRAINT IF EXISTS scores_value_non_negative;
				ALTER TABLE scores ADD CONSTRAINT scores_value_non_negative CHECK (value >= 0);
				ALTER TABLE scores DROP CONSTRAINT IF EXISTS scores_version_positive;
				ALTER TABLE scores ADD CONSTRAINT scores_version_positive CHECK (version >= 1);
				CREATE INDEX IF NOT EXISTS idx_scores_round_team ON scores(round_id, team_id) WHERE is_submitted;
				CREATE INDEX IF NOT EXISTS idx_scores_round_judge ON scores(round_id, judge_id);
			`); err != nil {
				return fmt.Errorf("failed to add score constraints: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scores table...")

		if _, err := db.NewDropTable().Model((*scoredb.Score)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
