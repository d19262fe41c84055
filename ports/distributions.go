package ports

// DistributionProvider supplies the reference distributions the variance
// decomposition and post-hoc comparisons evaluate against.
type DistributionProvider interface {
	// FUpperTail returns P(F >= f) for an F distribution with (df1, df2)
	// degrees of freedom.
	FUpperTail(f float64, df1, df2 int) float64

	// StudentTTwoSided returns the two-sided p-value for a t statistic with
	// df degrees of freedom.
	StudentTTwoSided(t float64, df int) float64

	// StudentizedRangeUpperTail returns P(Q >= q) for the studentized range
	// of k groups with df residual degrees of freedom.
	StudentizedRangeUpperTail(q float64, k, df int) float64

	// StudentizedRangeQuantile returns q such that P(Q <= q) = p.
	StudentizedRangeQuantile(p float64, k, df int) float64
}
