package anova

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRow_JSONSurvivesDegenerateStatistics(t *testing.T) {
	residual := NewRow(ResidualTerm, 6, 6)
	data, err := json.Marshal(residual)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"f":null`)

	var back TableRow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.F))
	assert.True(t, math.IsNaN(back.PValue))
	assert.Equal(t, residual.SumSq, back.SumSq)
	assert.Equal(t, residual.DF, back.DF)

	infinite := NewRow("group", 10, 1)
	infinite.F = math.Inf(1)
	infinite.PValue = 0
	data, err = json.Marshal(infinite)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"f":"+Inf"`)

	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsInf(back.F, 1))
	assert.Equal(t, 0.0, back.PValue)
}

func TestPairwiseComparison_JSONSurvivesNaN(t *testing.T) {
	c := PairwiseComparison{
		Group1:    "A",
		Group2:    "B",
		MeanDiff:  0,
		AdjustedP: math.NaN(),
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back PairwiseComparison
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.AdjustedP))
	assert.False(t, back.Reject)
}
