package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"goanova/domain/core"
	"goanova/models"
	"goanova/ports"
)

// RunRepositoryImpl implements ports.RunRepository for PostgreSQL.
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository.
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// SaveRun persists an analysis run with its result payloads.
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, response, alpha, fingerprint, manifest, anova_table, comparisons, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.Response, run.Alpha, run.Fingerprint, run.Manifest, run.Table, run.Comparisons, run.CreatedAt)
	return err
}

// GetRun retrieves a run by ID.
func (r *RunRepositoryImpl) GetRun(ctx context.Context, runID core.RunID) (*models.AnalysisRun, error) {
	id, err := uuid.Parse(runID.String())
	if err != nil {
		return nil, core.ErrRunNotFound
	}

	var run models.AnalysisRun
	err = r.db.GetContext(ctx, &run, `
		SELECT id, response, alpha, fingerprint, manifest, anova_table, comparisons, created_at
		FROM analysis_runs
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs.
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	summaries := []models.RunSummary{}
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT id, response, alpha, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
