package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/ports"
)

// TukeyHSD performs all pairwise group comparisons with family-wise error
// control via the studentized range distribution. Its error term is the same
// pooled within-group mean square the one-way decomposition reports.
type TukeyHSD struct {
	dist ports.DistributionProvider
}

// NewTukeyHSD creates a comparator backed by a distribution provider.
func NewTukeyHSD(dist ports.DistributionProvider) *TukeyHSD {
	return &TukeyHSD{dist: dist}
}

// PairwiseCompare computes one record per unordered pair of groups, in
// lexicographic (group1, group2) order. Pairs are evaluated concurrently;
// each pair's computation is independent and results land at fixed indexes,
// so the output order is deterministic.
func (t *TukeyHSD) PairwiseCompare(ctx context.Context, sample *anova.GroupedSample, alpha float64) ([]anova.PairwiseComparison, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, core.ErrInvalidAlpha
	}
	if err := sample.Validate(); err != nil {
		return nil, err
	}

	labels := sample.Labels()
	k := sample.GroupCount()
	dfResidual := sample.TotalN() - k
	msError := withinSumSq(sample) / float64(dfResidual)
	qCrit := t.dist.StudentizedRangeQuantile(1-alpha, k, dfResidual)

	type pair struct{ i, j int }
	pairs := make([]pair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	results := make([]anova.PairwiseComparison, len(pairs))
	g, _ := errgroup.WithContext(ctx)
	for idx, p := range pairs {
		idx, p := idx, p
		g.Go(func() error {
			g1, g2 := labels[p.i], labels[p.j]
			results[idx] = t.comparePair(sample, g1, g2, msError, qCrit, k, dfResidual, alpha)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// comparePair evaluates a single unordered pair using the Tukey-Kramer
// standard error, which reduces to the classic equal-n form when group
// sizes match.
func (t *TukeyHSD) comparePair(sample *anova.GroupedSample, g1, g2 core.GroupLabel, msError, qCrit float64, k, dfResidual int, alpha float64) anova.PairwiseComparison {
	n1 := float64(sample.GroupN(g1))
	n2 := float64(sample.GroupN(g2))
	diff := sample.GroupMean(g2) - sample.GroupMean(g1)

	// Denominator of the studentized range statistic for unequal n.
	se := math.Sqrt(msError / 2 * (1/n1 + 1/n2))
	margin := qCrit * se

	var adjustedP float64
	switch {
	case se > 0:
		adjustedP = t.dist.StudentizedRangeUpperTail(math.Abs(diff)/se, k, dfResidual)
	case diff != 0:
		// Zero within-group variance with distinct means: infinitely extreme.
		adjustedP = 0
	default:
		adjustedP = math.NaN()
	}

	return anova.PairwiseComparison{
		Group1:    g1,
		Group2:    g2,
		MeanDiff:  diff,
		AdjustedP: adjustedP,
		Lower:     diff - margin,
		Upper:     diff + margin,
		Reject:    adjustedP < alpha, // NaN compares false
	}
}
