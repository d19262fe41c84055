// Package render turns result tables into text, markdown, and HTML for the
// CLI and the API. It consumes the domain structures as plain data and has
// no influence on the computation.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goanova/domain/anova"
)

// TableText renders an ANOVA table as a fixed-width text block.
func TableText(t anova.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %12s %6s %12s %10s %10s\n", "Term", "Sum Sq", "DF", "Mean Sq", "F", "p")
	for _, row := range t.Rows {
		fmt.Fprintf(&b, "%-16s %12.4f %6d %12s %10s %10s\n",
			row.Term, row.SumSq, row.DF,
			num(row.MeanSq, "%.4f"), num(row.F, "%.4f"), num(row.PValue, "%.4g"))
	}
	return b.String()
}

// ComparisonsText renders Tukey HSD results as a fixed-width text block.
func ComparisonsText(comparisons []anova.PairwiseComparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-10s %10s %10s %10s %10s %7s\n",
		"Group1", "Group2", "Diff", "Lower", "Upper", "p-adj", "Reject")
	for _, c := range comparisons {
		fmt.Fprintf(&b, "%-10s %-10s %10.4f %10.4f %10.4f %10s %7v\n",
			c.Group1, c.Group2, c.MeanDiff, c.Lower, c.Upper, num(c.AdjustedP, "%.4g"), c.Reject)
	}
	return b.String()
}

// SummariesText renders per-group descriptive statistics.
func SummariesText(summaries []anova.GroupSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %6s %10s %10s %10s %10s %10s\n",
		"Group", "N", "Mean", "StdDev", "Min", "Median", "Max")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-10s %6d %10.4f %10.4f %10.4f %10.4f %10.4f\n",
			s.Group, s.N, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	}
	return b.String()
}

// ReportMarkdown assembles the full analysis report in markdown.
func ReportMarkdown(manifest *anova.RunManifest, t anova.Table, comparisons []anova.PairwiseComparison, summaries []anova.GroupSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis of variance: %s\n\n", manifest.Response)
	fmt.Fprintf(&b, "Run `%s` over %d observations in %d groups (alpha=%.3g).\n\n",
		manifest.RunID, manifest.TotalN, manifest.GroupCount, manifest.Alpha)

	b.WriteString("## Group summary\n\n")
	b.WriteString("| Group | N | Mean | StdDev | Min | Median | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			s.Group, s.N, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	}

	b.WriteString("\n## ANOVA table\n\n")
	b.WriteString("| Term | Sum Sq | DF | Mean Sq | F | p |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range t.Rows {
		fmt.Fprintf(&b, "| %s | %.4f | %d | %s | %s | %s |\n",
			row.Term, row.SumSq, row.DF,
			num(row.MeanSq, "%.4f"), num(row.F, "%.4f"), num(row.PValue, "%.4g"))
	}

	if len(comparisons) > 0 {
		b.WriteString("\n## Tukey HSD pairwise comparisons\n\n")
		b.WriteString("| Group1 | Group2 | Diff | Lower | Upper | p-adj | Significant |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, c := range comparisons {
			marker := ""
			if c.Reject {
				marker = "**yes**"
			} else {
				marker = "no"
			}
			fmt.Fprintf(&b, "| %s | %s | %.4f | %.4f | %.4f | %s | %s |\n",
				c.Group1, c.Group2, c.MeanDiff, c.Lower, c.Upper, num(c.AdjustedP, "%.4g"), marker)
		}
	}

	return b.String()
}

// ReportHTML renders the markdown report to HTML.
func ReportHTML(manifest *anova.RunManifest, t anova.Table, comparisons []anova.PairwiseComparison, summaries []anova.GroupSummary) []byte {
	md := ReportMarkdown(manifest, t, comparisons, summaries)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

// num formats a statistic, showing NaN and infinities explicitly rather than
// hiding degenerate outcomes.
func num(v float64, format string) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	default:
		return fmt.Sprintf(format, v)
	}
}
