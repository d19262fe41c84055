package ports

import (
	"context"

	"goanova/domain/core"
	"goanova/models"
)

// RunRepository persists analysis runs and their result tables.
type RunRepository interface {
	SaveRun(ctx context.Context, run *models.AnalysisRun) error
	GetRun(ctx context.Context, runID core.RunID) (*models.AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error)
}
