package anova

import (
	"sort"

	"goanova/domain/core"
)

// GroupedSample maps group labels to their ordered response observations.
// The sample is immutable once built; accessors copy where callers could
// otherwise mutate shared state.
type GroupedSample struct {
	groups map[core.GroupLabel][]float64
	labels []core.GroupLabel // sorted, cached at construction
	totalN int
}

// NewGroupedSample collects observations into a sample.
func NewGroupedSample(observations []Observation) *GroupedSample {
	groups := make(map[core.GroupLabel][]float64)
	for _, obs := range observations {
		groups[obs.Group] = append(groups[obs.Group], obs.Value)
	}
	return FromGroups(groups)
}

// FromGroups builds a sample from a label -> values mapping. The input map
// is copied so later mutation by the caller cannot reach the sample.
func FromGroups(groups map[core.GroupLabel][]float64) *GroupedSample {
	copied := make(map[core.GroupLabel][]float64, len(groups))
	labels := make([]core.GroupLabel, 0, len(groups))
	totalN := 0
	for label, values := range groups {
		vs := make([]float64, len(values))
		copy(vs, values)
		copied[label] = vs
		labels = append(labels, label)
		totalN += len(vs)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	return &GroupedSample{groups: copied, labels: labels, totalN: totalN}
}

// Labels returns group labels in lexicographic order.
func (s *GroupedSample) Labels() []core.GroupLabel {
	out := make([]core.GroupLabel, len(s.labels))
	copy(out, s.labels)
	return out
}

// Values returns the observations for a group.
func (s *GroupedSample) Values(label core.GroupLabel) []float64 {
	values, ok := s.groups[label]
	if !ok {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// GroupCount returns the number of groups.
func (s *GroupedSample) GroupCount() int {
	return len(s.labels)
}

// TotalN returns the total observation count across groups.
func (s *GroupedSample) TotalN() int {
	return s.totalN
}

// GroupN returns one group's observation count.
func (s *GroupedSample) GroupN(label core.GroupLabel) int {
	return len(s.groups[label])
}

// GroupMean returns one group's sample mean.
func (s *GroupedSample) GroupMean(label core.GroupLabel) float64 {
	values := s.groups[label]
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// GrandMean returns the mean over every observation in the sample.
func (s *GroupedSample) GrandMean() float64 {
	if s.totalN == 0 {
		return 0
	}
	sum := 0.0
	for _, values := range s.groups {
		for _, v := range values {
			sum += v
		}
	}
	return sum / float64(s.totalN)
}

// Fingerprint returns a deterministic hash of the sample contents.
func (s *GroupedSample) Fingerprint() core.Hash {
	return core.InputFingerprint(s.groups)
}

// Validate checks the structural invariants required for variance estimation:
// at least two groups, every group with at least two observations, and
// positive residual degrees of freedom (total observations > group count).
func (s *GroupedSample) Validate() error {
	if s.GroupCount() < 2 {
		return core.ErrInsufficientGroups
	}
	for _, label := range s.labels {
		n := len(s.groups[label])
		if n == 0 {
			return core.NewEmptyGroupError(label)
		}
		if n < 2 {
			return core.NewSmallGroupError(label, n)
		}
	}
	if s.totalN-s.GroupCount() <= 0 {
		return core.NewDegenerateSampleError(s.totalN, s.GroupCount())
	}
	return nil
}
