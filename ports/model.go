package ports

import (
	"context"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/dataset"
)

// ModelSpec describes a linear model over a frame: a numeric response
// explained by categorical factors, numeric covariates, and optional
// two-way interactions between factors.
type ModelSpec struct {
	Response     core.ColumnKey
	Factors      []core.ColumnKey
	Covariates   []core.ColumnKey
	Interactions [][2]core.ColumnKey
}

// FittedModel exposes the pieces of a fitted linear model the variance
// decomposer consumes. Fitting and decomposing into a table are separable
// capabilities; this boundary keeps them independently testable.
type FittedModel interface {
	// ResidualSumSq is the full model's residual sum of squares.
	ResidualSumSq() float64

	// ResidualDF is the full model's residual degrees of freedom.
	ResidualDF() int

	// TermContributions returns each term's (sum of squares, df) under the
	// Type II convention: a term's contribution is measured against the
	// model of all terms not containing it.
	TermContributions() []anova.TermContribution

	// Coefficients returns fitted coefficients keyed by design column name.
	Coefficients() map[string]float64
}

// ModelFitter fits a linear model to a frame.
type ModelFitter interface {
	Fit(ctx context.Context, frame *dataset.Frame, spec ModelSpec) (FittedModel, error)
}
