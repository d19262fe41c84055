package anova

import (
	"goanova/domain/core"
)

// RunManifest captures the complete specification of one analysis run so the
// result tables can be audited and reproduced.
type RunManifest struct {
	RunID    core.RunID       `json:"run_id"`
	Response core.ColumnKey   `json:"response"`
	Factors  []core.ColumnKey `json:"factors"`
	Alpha    float64          `json:"alpha"`
	Seed     int64            `json:"seed,omitempty"` // set when input was synthesized

	GroupCount  int `json:"group_count"`
	TotalN      int `json:"total_n"`
	Comparisons int `json:"comparisons"`

	Fingerprint core.Hash      `json:"fingerprint"` // input data fingerprint
	CreatedAt   core.Timestamp `json:"created_at"`
}

// NewRunManifest stamps a fresh manifest for a sample and request.
func NewRunManifest(response core.ColumnKey, factors []core.ColumnKey, alpha float64, sample *GroupedSample) *RunManifest {
	k := sample.GroupCount()
	return &RunManifest{
		RunID:       core.RunID(core.NewID()),
		Response:    response,
		Factors:     factors,
		Alpha:       alpha,
		GroupCount:  k,
		TotalN:      sample.TotalN(),
		Comparisons: k * (k - 1) / 2,
		Fingerprint: sample.Fingerprint(),
		CreatedAt:   core.Now(),
	}
}
