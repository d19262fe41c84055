package analysis

import (
	"math"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/ports"
)

// VarianceDecomposer splits the total variability of a response into
// between-group and within-group components and attaches F tests.
type VarianceDecomposer struct {
	dist ports.DistributionProvider
}

// NewVarianceDecomposer creates a decomposer backed by a distribution provider.
func NewVarianceDecomposer(dist ports.DistributionProvider) *VarianceDecomposer {
	return &VarianceDecomposer{dist: dist}
}

// OneWay decomposes a single-factor sample into an ANOVA table. The term
// names the factor row; the residual row is always appended last.
func (d *VarianceDecomposer) OneWay(term string, sample *anova.GroupedSample) (anova.Table, error) {
	if err := sample.Validate(); err != nil {
		return anova.Table{}, err
	}

	grand := sample.GrandMean()
	ssBetween := 0.0
	for _, label := range sample.Labels() {
		n := float64(sample.GroupN(label))
		dev := sample.GroupMean(label) - grand
		ssBetween += n * dev * dev
	}
	ssWithin := withinSumSq(sample)

	dfBetween := sample.GroupCount() - 1
	dfResidual := sample.TotalN() - sample.GroupCount()

	factor := anova.NewRow(term, ssBetween, dfBetween)
	residual := anova.NewRow(anova.ResidualTerm, ssWithin, dfResidual)
	factor.F, factor.PValue = d.fTest(factor.MeanSq, residual.MeanSq, dfBetween, dfResidual)

	return anova.Table{Rows: []anova.TableRow{factor, residual}}, nil
}

// FromComponents assembles a multi-factor table from a fitted linear model's
// residual sum of squares, residual df, and per-term Type II contributions.
func (d *VarianceDecomposer) FromComponents(contributions []anova.TermContribution, residualSumSq float64, residualDF int) (anova.Table, error) {
	if residualDF <= 0 {
		return anova.Table{}, core.ErrDegenerateSample
	}
	if len(contributions) == 0 {
		return anova.Table{}, core.ErrInsufficientData
	}

	residual := anova.NewRow(anova.ResidualTerm, residualSumSq, residualDF)
	rows := make([]anova.TableRow, 0, len(contributions)+1)
	for _, c := range contributions {
		row := anova.NewRow(c.Term, c.SumSq, c.DF)
		row.F, row.PValue = d.fTest(row.MeanSq, residual.MeanSq, c.DF, residualDF)
		rows = append(rows, row)
	}
	rows = append(rows, residual)

	return anova.Table{Rows: rows}, nil
}

// FromModel is FromComponents applied to a fitted model.
func (d *VarianceDecomposer) FromModel(model ports.FittedModel) (anova.Table, error) {
	return d.FromComponents(model.TermContributions(), model.ResidualSumSq(), model.ResidualDF())
}

// fTest derives the F statistic and p-value for a factor mean square against
// the residual mean square. A zero residual mean square is a valid degenerate
// outcome, not an error: F is +Inf with p = 0 when the factor explains
// anything, and both are NaN when there is nothing to explain either.
func (d *VarianceDecomposer) fTest(msFactor, msResidual float64, dfFactor, dfResidual int) (f, p float64) {
	if dfFactor <= 0 || math.IsNaN(msFactor) {
		return math.NaN(), math.NaN()
	}
	if msResidual == 0 {
		if msFactor > 0 {
			return math.Inf(1), 0
		}
		return math.NaN(), math.NaN()
	}
	f = msFactor / msResidual
	return f, d.dist.FUpperTail(f, dfFactor, dfResidual)
}

// withinSumSq is the pooled within-group sum of squared deviations. Tukey's
// error term uses this same function, which keeps the two components in
// exact numerical agreement on a shared sample.
func withinSumSq(sample *anova.GroupedSample) float64 {
	ss := 0.0
	for _, label := range sample.Labels() {
		mean := sample.GroupMean(label)
		for _, v := range sample.Values(label) {
			dev := v - mean
			ss += dev * dev
		}
	}
	return ss
}
