package ports

import (
	"context"

	"goanova/domain/dataset"
)

// FrameReader provides read-only access to a tabular data source. Adapters
// exist for CSV files, spreadsheets, and the synthetic test generator.
type FrameReader interface {
	ReadFrame(ctx context.Context) (*dataset.Frame, error)
}
