package analysis

import (
	"github.com/montanaflynn/stats"

	"goanova/domain/anova"
)

// GroupSummaries computes descriptive statistics per group, in label order.
func GroupSummaries(sample *anova.GroupedSample) []anova.GroupSummary {
	labels := sample.Labels()
	summaries := make([]anova.GroupSummary, 0, len(labels))
	for _, label := range labels {
		values := sample.Values(label)
		mean, _ := stats.Mean(values)
		stdDev, _ := stats.StandardDeviationSample(values)
		min, _ := stats.Min(values)
		median, _ := stats.Median(values)
		max, _ := stats.Max(values)

		summaries = append(summaries, anova.GroupSummary{
			Group:  label,
			N:      len(values),
			Mean:   mean,
			StdDev: stdDev,
			Min:    min,
			Median: median,
			Max:    max,
		})
	}
	return summaries
}
