package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the schema the run repository depends on. Idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id          UUID PRIMARY KEY,
			response    TEXT NOT NULL,
			alpha       DOUBLE PRECISION NOT NULL,
			fingerprint TEXT NOT NULL,
			manifest    JSONB NOT NULL,
			anova_table JSONB NOT NULL,
			comparisons JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at
			ON analysis_runs (created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_analysis_runs_fingerprint
			ON analysis_runs (fingerprint);
	`)
	return err
}
