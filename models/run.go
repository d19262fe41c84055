package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goanova/domain/anova"
)

// JSONB wraps a value for Postgres jsonb columns.
type JSONB struct {
	V interface{}
}

// Value implements driver.Valuer.
func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

// Scan implements sql.Scanner.
func (j *JSONB) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, &j.V)
	case string:
		return json.Unmarshal([]byte(data), &j.V)
	case nil:
		j.V = nil
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}

// AnalysisRun is the persisted form of one analysis: its manifest plus the
// result tables, stored as jsonb payloads.
type AnalysisRun struct {
	ID          uuid.UUID `db:"id"`
	Response    string    `db:"response"`
	Alpha       float64   `db:"alpha"`
	Fingerprint string    `db:"fingerprint"`
	Manifest    JSONB     `db:"manifest"`
	Table       JSONB     `db:"anova_table"`
	Comparisons JSONB     `db:"comparisons"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewAnalysisRun flattens domain results into a storable record.
func NewAnalysisRun(manifest *anova.RunManifest, table anova.Table, comparisons []anova.PairwiseComparison) (*AnalysisRun, error) {
	id, err := uuid.Parse(manifest.RunID.String())
	if err != nil {
		return nil, fmt.Errorf("run id is not a uuid: %w", err)
	}
	return &AnalysisRun{
		ID:          id,
		Response:    manifest.Response.String(),
		Alpha:       manifest.Alpha,
		Fingerprint: manifest.Fingerprint.String(),
		Manifest:    JSONB{V: manifest},
		Table:       JSONB{V: table},
		Comparisons: JSONB{V: comparisons},
		CreatedAt:   manifest.CreatedAt.Time(),
	}, nil
}

// RunSummary is the listing projection of an analysis run.
type RunSummary struct {
	ID        uuid.UUID `db:"id"`
	Response  string    `db:"response"`
	Alpha     float64   `db:"alpha"`
	CreatedAt time.Time `db:"created_at"`
}
