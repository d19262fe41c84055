package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goanova/adapters/dist"
	"goanova/domain/anova"
	"goanova/domain/core"
)

func sampleFromGroups(groups map[core.GroupLabel][]float64) *anova.GroupedSample {
	return anova.FromGroups(groups)
}

func TestOneWay_KnownDecomposition(t *testing.T) {
	// A=[1,2,3], B=[4,5,6], C=[7,8,9]: grand mean 5, SS_between 54,
	// SS_residual 6, F = 27 on (2, 6) df.
	sample := sampleFromGroups(map[core.GroupLabel][]float64{
		"A": {1, 2, 3},
		"B": {4, 5, 6},
		"C": {7, 8, 9},
	})

	d := NewVarianceDecomposer(dist.NewGonumProvider())
	table, err := d.OneWay("group", sample)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	factor := table.Rows[0]
	residual := table.Rows[1]
	assert.Equal(t, "group", factor.Term)
	assert.True(t, residual.IsResidual())

	assert.InDelta(t, 54.0, factor.SumSq, 1e-9)
	assert.InDelta(t, 6.0, residual.SumSq, 1e-9)
	assert.Equal(t, 2, factor.DF)
	assert.Equal(t, 6, residual.DF)
	assert.InDelta(t, 27.0, factor.MeanSq, 1e-9)
	assert.InDelta(t, 1.0, residual.MeanSq, 1e-9)
	assert.InDelta(t, 27.0, factor.F, 1e-9)
	assert.InDelta(t, 0.00107, factor.PValue, 1e-4)

	assert.True(t, math.IsNaN(residual.F))
	assert.True(t, math.IsNaN(residual.PValue))
}

func TestOneWay_AdditivityAndDF(t *testing.T) {
	sample := sampleFromGroups(map[core.GroupLabel][]float64{
		"north": {12.1, 9.4, 10.8, 11.3},
		"south": {8.2, 7.9, 9.6},
		"east":  {13.5, 12.2, 14.8, 11.9, 13.1},
	})

	d := NewVarianceDecomposer(dist.NewGonumProvider())
	table, err := d.OneWay("region", sample)
	require.NoError(t, err)

	// SS_total computed directly from deviations about the grand mean.
	grand := sample.GrandMean()
	ssTotal := 0.0
	for _, label := range sample.Labels() {
		for _, v := range sample.Values(label) {
			ssTotal += (v - grand) * (v - grand)
		}
	}

	assert.InEpsilon(t, ssTotal, table.TotalSumSq(), 1e-9)
	assert.Equal(t, sample.TotalN()-1, table.TotalDF())
}

func TestOneWay_PermutationInvariance(t *testing.T) {
	base := map[core.GroupLabel][]float64{
		"A": {1.5, 2.25, 3.75, 2.0},
		"B": {4.5, 5.0, 3.25},
	}
	shuffled := map[core.GroupLabel][]float64{
		"B": {3.25, 4.5, 5.0},
		"A": {3.75, 2.0, 1.5, 2.25},
	}

	d := NewVarianceDecomposer(dist.NewGonumProvider())
	t1, err := d.OneWay("g", sampleFromGroups(base))
	require.NoError(t, err)
	t2, err := d.OneWay("g", sampleFromGroups(shuffled))
	require.NoError(t, err)

	assert.InEpsilon(t, t1.Rows[0].SumSq, t2.Rows[0].SumSq, 1e-12)
	assert.InEpsilon(t, t1.Rows[1].SumSq, t2.Rows[1].SumSq, 1e-12)
	assert.InEpsilon(t, t1.Rows[0].F, t2.Rows[0].F, 1e-12)
	assert.InEpsilon(t, t1.Rows[0].PValue, t2.Rows[0].PValue, 1e-12)
}

func TestOneWay_EqualMeansGiveZeroBetween(t *testing.T) {
	sample := sampleFromGroups(map[core.GroupLabel][]float64{
		"A": {1, 2, 3},
		"B": {1, 2, 3},
		"C": {1, 2, 3},
	})

	d := NewVarianceDecomposer(dist.NewGonumProvider())
	table, err := d.OneWay("group", sample)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, table.Rows[0].SumSq, 1e-12)
	assert.InDelta(t, 1.0, table.Rows[0].PValue, 1e-9)
}

func TestOneWay_ZeroWithinVariance(t *testing.T) {
	sample := sampleFromGroups(map[core.GroupLabel][]float64{
		"A": {1, 1},
		"B": {2, 2},
	})

	d := NewVarianceDecomposer(dist.NewGonumProvider())
	table, err := d.OneWay("group", sample)
	require.NoError(t, err)

	assert.True(t, math.IsInf(table.Rows[0].F, 1))
	assert.Equal(t, 0.0, table.Rows[0].PValue)
}

func TestOneWay_AllConstant(t *testing.T) {
	sample := sampleFromGroups(map[core.GroupLabel][]float64{
		"A": {5, 5},
		"B": {5, 5},
	})

	d := NewVarianceDecomposer(dist.NewGonumProvider())
	table, err := d.OneWay("group", sample)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(table.Rows[0].F))
	assert.True(t, math.IsNaN(table.Rows[0].PValue))
}

func TestOneWay_StructuralErrors(t *testing.T) {
	d := NewVarianceDecomposer(dist.NewGonumProvider())

	_, err := d.OneWay("g", sampleFromGroups(map[core.GroupLabel][]float64{
		"only": {1, 2, 3},
	}))
	assert.ErrorIs(t, err, core.ErrInsufficientGroups)

	_, err = d.OneWay("g", sampleFromGroups(map[core.GroupLabel][]float64{
		"A": {1, 2},
		"B": {},
	}))
	assert.ErrorIs(t, err, core.ErrEmptyGroup)

	// One observation per group: residual df would be zero.
	_, err = d.OneWay("g", sampleFromGroups(map[core.GroupLabel][]float64{
		"A": {1},
		"B": {2},
	}))
	assert.ErrorIs(t, err, core.ErrDegenerateSample)
}

func TestFromComponents(t *testing.T) {
	d := NewVarianceDecomposer(dist.NewGonumProvider())

	table, err := d.FromComponents([]anova.TermContribution{
		{Term: "group", SumSq: 54, DF: 2},
	}, 6, 6)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.InDelta(t, 27.0, table.Rows[0].F, 1e-9)
	assert.InDelta(t, 0.00107, table.Rows[0].PValue, 1e-4)

	_, err = d.FromComponents([]anova.TermContribution{{Term: "x", SumSq: 1, DF: 1}}, 0, 0)
	assert.ErrorIs(t, err, core.ErrDegenerateSample)

	_, err = d.FromComponents(nil, 5, 10)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
