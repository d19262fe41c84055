package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goanova/domain/anova"
	"goanova/domain/core"
)

func fixtureTable() anova.Table {
	factor := anova.NewRow("group", 54, 2)
	factor.F = 27
	factor.PValue = 0.00107
	residual := anova.NewRow(anova.ResidualTerm, 6, 6)
	return anova.Table{Rows: []anova.TableRow{factor, residual}}
}

func fixtureComparisons() []anova.PairwiseComparison {
	return []anova.PairwiseComparison{
		{Group1: "A", Group2: "B", MeanDiff: 3, AdjustedP: 0.004, Lower: 0.49, Upper: 5.51, Reject: true},
		{Group1: "A", Group2: "C", MeanDiff: 0.2, AdjustedP: 0.91, Lower: -2.31, Upper: 2.71, Reject: false},
	}
}

func fixtureManifest() *anova.RunManifest {
	return &anova.RunManifest{
		RunID:      "run-1",
		Response:   "response",
		Factors:    []core.ColumnKey{"group"},
		Alpha:      0.05,
		GroupCount: 3,
		TotalN:     9,
	}
}

func TestTableText(t *testing.T) {
	out := TableText(fixtureTable())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3) // header + two rows
	assert.Contains(t, lines[0], "Sum Sq")
	assert.Contains(t, lines[1], "group")
	assert.Contains(t, lines[1], "27.0000")
	assert.Contains(t, lines[2], anova.ResidualTerm)
	// The residual row has no F statistic.
	assert.Contains(t, lines[2], "NaN")
}

func TestTableText_DegenerateStatistics(t *testing.T) {
	row := anova.NewRow("group", 10, 1)
	row.F = math.Inf(1)
	row.PValue = 0
	out := TableText(anova.Table{Rows: []anova.TableRow{row}})

	assert.Contains(t, out, "+Inf")
	assert.NotContains(t, out, "Inf.0")
}

func TestComparisonsText(t *testing.T) {
	out := ComparisonsText(fixtureComparisons())

	assert.Contains(t, out, "Reject")
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "false")
	assert.Contains(t, out, "3.0000")
}

func TestSummariesText(t *testing.T) {
	out := SummariesText([]anova.GroupSummary{
		{Group: "A", N: 3, Mean: 2, StdDev: 1, Min: 1, Median: 2, Max: 3},
	})
	assert.Contains(t, out, "Median")
	assert.Contains(t, out, "2.0000")
}

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown(fixtureManifest(), fixtureTable(), fixtureComparisons(), []anova.GroupSummary{
		{Group: "A", N: 3, Mean: 2, StdDev: 1, Min: 1, Median: 2, Max: 3},
	})

	assert.Contains(t, md, "# Analysis of variance: response")
	assert.Contains(t, md, "run-1")
	assert.Contains(t, md, "## Group summary")
	assert.Contains(t, md, "## ANOVA table")
	assert.Contains(t, md, "## Tukey HSD pairwise comparisons")
	assert.Contains(t, md, "**yes**")
	assert.Contains(t, md, "| no |")
}

func TestReportMarkdown_OmitsEmptyComparisons(t *testing.T) {
	md := ReportMarkdown(fixtureManifest(), fixtureTable(), nil, nil)
	assert.NotContains(t, md, "Tukey HSD")
}

func TestReportHTML(t *testing.T) {
	out := string(ReportHTML(fixtureManifest(), fixtureTable(), fixtureComparisons(), nil))

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<strong>yes</strong>")
}
