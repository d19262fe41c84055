package linmodel

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/dataset"
	"goanova/ports"
)

// OLSFitter fits ordinary least squares models over a frame: categorical
// factors are dummy coded (first level dropped), covariates enter as-is, and
// two-way factor interactions multiply dummy columns. Implements
// ports.ModelFitter.
type OLSFitter struct{}

var _ ports.ModelFitter = (*OLSFitter)(nil)

// NewOLSFitter creates a new fitter.
func NewOLSFitter() *OLSFitter {
	return &OLSFitter{}
}

// term is one model term: a named block of design columns.
type term struct {
	name    string
	factors map[core.ColumnKey]bool // factor columns this term involves
	columns []designColumn
}

type designColumn struct {
	name   string
	values []float64
}

// contains reports whether t involves every factor of other (and more), the
// relation Type II uses to exclude higher-order terms from comparison models.
// Covariates carry no factors and are contained by nothing, so they stay in
// every comparison model.
func (t term) contains(other term) bool {
	if len(other.factors) == 0 {
		return false
	}
	if len(t.factors) <= len(other.factors) {
		return false
	}
	for f := range other.factors {
		if !t.factors[f] {
			return false
		}
	}
	return true
}

// Fit builds the design, fits the full model, and computes Type II per-term
// contributions by nested-model comparison.
func (f *OLSFitter) Fit(ctx context.Context, frame *dataset.Frame, spec ports.ModelSpec) (ports.FittedModel, error) {
	y, err := frame.NumericColumn(spec.Response)
	if err != nil {
		return nil, err
	}

	terms, err := buildTerms(frame, spec)
	if err != nil {
		return nil, err
	}

	n := frame.Rows()
	fullCols := 1 // intercept
	for _, t := range terms {
		fullCols += len(t.columns)
	}
	residualDF := n - fullCols
	if residualDF <= 0 {
		return nil, core.NewDegenerateSampleError(n, fullCols)
	}

	fullRSS, coefs, err := solve(y, terms)
	if err != nil {
		return nil, err
	}

	contributions := make([]anova.TermContribution, 0, len(terms))
	for i, t := range terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Comparison model: every term that does not contain t.
		reduced := make([]term, 0, len(terms))
		augmented := make([]term, 0, len(terms))
		for j, other := range terms {
			if other.contains(t) {
				continue
			}
			if j != i {
				reduced = append(reduced, other)
			}
			augmented = append(augmented, other)
		}

		reducedRSS, _, err := solve(y, reduced)
		if err != nil {
			return nil, err
		}
		augmentedRSS, _, err := solve(y, augmented)
		if err != nil {
			return nil, err
		}

		sumSq := reducedRSS - augmentedRSS
		if sumSq < 0 {
			sumSq = 0 // rounding: nested RSS can only decrease
		}
		contributions = append(contributions, anova.TermContribution{
			Term:  t.name,
			SumSq: sumSq,
			DF:    len(t.columns),
		})
	}

	return &fitted{
		residualSumSq: fullRSS,
		residualDF:    residualDF,
		contributions: contributions,
		coefficients:  coefs,
	}, nil
}

// buildTerms expands a model specification into dummy-coded design terms.
func buildTerms(frame *dataset.Frame, spec ports.ModelSpec) ([]term, error) {
	terms := make([]term, 0, len(spec.Factors)+len(spec.Covariates)+len(spec.Interactions))

	factorDummies := make(map[core.ColumnKey][]designColumn)
	for _, key := range spec.Factors {
		labels, err := frame.CategoricalColumn(key)
		if err != nil {
			return nil, err
		}
		dummies, err := dummyCode(key, labels)
		if err != nil {
			return nil, err
		}
		factorDummies[key] = dummies
		terms = append(terms, term{
			name:    key.String(),
			factors: map[core.ColumnKey]bool{key: true},
			columns: dummies,
		})
	}

	for _, key := range spec.Covariates {
		values, err := frame.NumericColumn(key)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term{
			name:    key.String(),
			columns: []designColumn{{name: key.String(), values: values}},
		})
	}

	for _, pair := range spec.Interactions {
		a, ok := factorDummies[pair[0]]
		if !ok {
			return nil, fmt.Errorf("%w: interaction factor %q not in model", core.ErrUnknownTerm, pair[0])
		}
		b, ok := factorDummies[pair[1]]
		if !ok {
			return nil, fmt.Errorf("%w: interaction factor %q not in model", core.ErrUnknownTerm, pair[1])
		}
		columns := make([]designColumn, 0, len(a)*len(b))
		for _, ca := range a {
			for _, cb := range b {
				prod := make([]float64, len(ca.values))
				for i := range prod {
					prod[i] = ca.values[i] * cb.values[i]
				}
				columns = append(columns, designColumn{
					name:   ca.name + ":" + cb.name,
					values: prod,
				})
			}
		}
		terms = append(terms, term{
			name:    pair[0].String() + ":" + pair[1].String(),
			factors: map[core.ColumnKey]bool{pair[0]: true, pair[1]: true},
			columns: columns,
		})
	}

	return terms, nil
}

// dummyCode produces treatment-coded indicator columns, dropping the first
// (lexicographically smallest) level as reference.
func dummyCode(key core.ColumnKey, labels []string) ([]designColumn, error) {
	levelSet := make(map[string]bool)
	for _, l := range labels {
		levelSet[l] = true
	}
	if len(levelSet) < 2 {
		return nil, fmt.Errorf("%w: factor %q has %d level(s)", core.ErrInsufficientData, key, len(levelSet))
	}
	levels := make([]string, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Strings(levels)

	columns := make([]designColumn, 0, len(levels)-1)
	for _, level := range levels[1:] {
		values := make([]float64, len(labels))
		for i, l := range labels {
			if l == level {
				values[i] = 1
			}
		}
		columns = append(columns, designColumn{
			name:   fmt.Sprintf("%s[%s]", key, level),
			values: values,
		})
	}
	return columns, nil
}

// solve fits y ~ intercept + terms by QR and returns the residual sum of
// squares plus named coefficients.
func solve(y []float64, terms []term) (float64, map[string]float64, error) {
	n := len(y)
	names := []string{"Intercept"}
	cols := [][]float64{constant(n)}
	for _, t := range terms {
		for _, c := range t.columns {
			names = append(names, c.name)
			cols = append(cols, c.values)
		}
	}

	x := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		x.SetCol(j, col)
	}
	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", core.ErrSingularDesign, err)
	}

	var fittedVec mat.VecDense
	fittedVec.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fittedVec.AtVec(i)
		rss += r * r
	}
	if math.IsNaN(rss) {
		return 0, nil, core.ErrSingularDesign
	}

	coefs := make(map[string]float64, len(names))
	for j, name := range names {
		coefs[name] = beta.AtVec(j)
	}
	return rss, coefs, nil
}

func constant(n int) []float64 {
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	return ones
}

// fitted is the ports.FittedModel produced by OLSFitter.
type fitted struct {
	residualSumSq float64
	residualDF    int
	contributions []anova.TermContribution
	coefficients  map[string]float64
}

func (m *fitted) ResidualSumSq() float64                      { return m.residualSumSq }
func (m *fitted) ResidualDF() int                             { return m.residualDF }
func (m *fitted) TermContributions() []anova.TermContribution { return m.contributions }
func (m *fitted) Coefficients() map[string]float64            { return m.coefficients }
