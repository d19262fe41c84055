package anova

import (
	"math"

	"goanova/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// ResidualTerm is the reserved row name for the within-group (error) component.
const ResidualTerm = "Residual"

// Observation is a single response value tagged with the group it belongs to.
// Immutable once collected.
type Observation struct {
	Group core.GroupLabel `json:"group"`
	Value float64         `json:"value"`
}

// TableRow is one line of an ANOVA table: a factor term or the residual.
// INVARIANTS:
// - SumSq >= 0
// - DF >= 0
// - MeanSq = SumSq/DF, NaN when DF == 0
// - F and PValue are NaN on the residual row
type TableRow struct {
	Term   string  `json:"term"`
	SumSq  float64 `json:"sum_sq"`
	DF     int     `json:"df"`
	MeanSq float64 `json:"mean_sq"`
	F      float64 `json:"f"`
	PValue float64 `json:"p_value"`
}

// IsResidual reports whether the row is the error component.
func (r TableRow) IsResidual() bool {
	return r.Term == ResidualTerm
}

// Table is a full ANOVA decomposition: one row per factor, residual last.
type Table struct {
	Rows []TableRow `json:"rows"`
}

// Residual returns the residual row, if present.
func (t Table) Residual() (TableRow, bool) {
	for _, row := range t.Rows {
		if row.IsResidual() {
			return row, true
		}
	}
	return TableRow{}, false
}

// TotalSumSq sums every component, factors plus residual.
func (t Table) TotalSumSq() float64 {
	total := 0.0
	for _, row := range t.Rows {
		total += row.SumSq
	}
	return total
}

// TotalDF sums degrees of freedom across all rows.
func (t Table) TotalDF() int {
	total := 0
	for _, row := range t.Rows {
		total += row.DF
	}
	return total
}

// NewRow builds a factor row with derived mean square. F and p are filled in
// by the decomposer once the residual mean square is known.
func NewRow(term string, sumSq float64, df int) TableRow {
	meanSq := math.NaN()
	if df > 0 {
		meanSq = sumSq / float64(df)
	}
	return TableRow{
		Term:   term,
		SumSq:  sumSq,
		DF:     df,
		MeanSq: meanSq,
		F:      math.NaN(),
		PValue: math.NaN(),
	}
}

// TermContribution is one factor's share of a fitted linear model's
// decomposition, computed under the Type II convention.
type TermContribution struct {
	Term  string  `json:"term"`
	SumSq float64 `json:"sum_sq"`
	DF    int     `json:"df"`
}

// PairwiseComparison holds one unordered group pair's Tukey HSD result.
// INVARIANTS:
// - Group1 < Group2 lexicographically
// - MeanDiff = mean(Group2) - mean(Group1)
// - Reject is true iff AdjustedP < alpha, equivalently |MeanDiff| > margin
type PairwiseComparison struct {
	Group1    core.GroupLabel `json:"group1"`
	Group2    core.GroupLabel `json:"group2"`
	MeanDiff  float64         `json:"mean_diff"`
	AdjustedP float64         `json:"adjusted_p"`
	Lower     float64         `json:"lower"`
	Upper     float64         `json:"upper"`
	Reject    bool            `json:"reject"`
}

// GroupSummary carries the descriptive statistics printed alongside a table.
type GroupSummary struct {
	Group  core.GroupLabel `json:"group"`
	N      int             `json:"n"`
	Mean   float64         `json:"mean"`
	StdDev float64         `json:"std_dev"`
	Min    float64         `json:"min"`
	Median float64         `json:"median"`
	Max    float64         `json:"max"`
}
