package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/dataset"
	"goanova/internal/analysis"
	"goanova/internal/errors"
	"goanova/models"
	"goanova/ports"
)

// AnalysisService orchestrates one-way and multi-factor analyses over a
// frame: decomposition, post-hoc comparisons, descriptive summaries, and
// optional persistence of the run.
type AnalysisService struct {
	decomposer *analysis.VarianceDecomposer
	tukey      *analysis.TukeyHSD
	fitter     ports.ModelFitter
	runs       ports.RunRepository // nil disables persistence
}

// NewAnalysisService wires the service.
func NewAnalysisService(dist ports.DistributionProvider, fitter ports.ModelFitter, runs ports.RunRepository) *AnalysisService {
	return &AnalysisService{
		decomposer: analysis.NewVarianceDecomposer(dist),
		tukey:      analysis.NewTukeyHSD(dist),
		fitter:     fitter,
		runs:       runs,
	}
}

// OneWayRequest selects the data and parameters for a single-factor analysis.
type OneWayRequest struct {
	Reader   ports.FrameReader
	Response core.ColumnKey
	Factor   core.ColumnKey
	Alpha    float64
}

// OneWayResult is the complete output of a single-factor analysis.
type OneWayResult struct {
	Manifest    *anova.RunManifest         `json:"manifest"`
	Table       anova.Table                `json:"table"`
	Comparisons []anova.PairwiseComparison `json:"comparisons"`
	Summaries   []anova.GroupSummary       `json:"summaries"`
	RuntimeMs   int64                      `json:"runtime_ms"`
}

// RunOneWay loads the frame, decomposes the response by the factor, and runs
// Tukey HSD over the same sample.
func (s *AnalysisService) RunOneWay(ctx context.Context, req OneWayRequest) (*OneWayResult, error) {
	startTime := time.Now()

	frame, err := req.Reader.ReadFrame(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input frame")
	}
	sample, err := frame.GroupedSample(req.Response, req.Factor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to group observations")
	}

	table, err := s.decomposer.OneWay(req.Factor.String(), sample)
	if err != nil {
		return nil, errors.Wrap(err, "variance decomposition failed")
	}
	comparisons, err := s.tukey.PairwiseCompare(ctx, sample, req.Alpha)
	if err != nil {
		return nil, errors.Wrap(err, "pairwise comparison failed")
	}

	manifest := anova.NewRunManifest(req.Response, []core.ColumnKey{req.Factor}, req.Alpha, sample)
	result := &OneWayResult{
		Manifest:    manifest,
		Table:       table,
		Comparisons: comparisons,
		Summaries:   analysis.GroupSummaries(sample),
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}

	if s.runs != nil {
		record, err := models.NewAnalysisRun(manifest, table, comparisons)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build run record")
		}
		if err := s.runs.SaveRun(ctx, record); err != nil {
			return nil, errors.Wrap(err, "failed to persist run")
		}
	}
	return result, nil
}

// FactorialRequest selects the data and model for a multi-factor analysis.
type FactorialRequest struct {
	Reader ports.FrameReader
	Spec   ports.ModelSpec
	Alpha  float64
}

// FactorialResult is the output of a multi-factor analysis.
type FactorialResult struct {
	Table        anova.Table        `json:"table"`
	Coefficients map[string]float64 `json:"coefficients"`
	RuntimeMs    int64              `json:"runtime_ms"`
}

// RunFactorial fits the linear model and assembles a Type II ANOVA table.
func (s *AnalysisService) RunFactorial(ctx context.Context, req FactorialRequest) (*FactorialResult, error) {
	startTime := time.Now()

	frame, err := req.Reader.ReadFrame(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input frame")
	}
	model, err := s.fitter.Fit(ctx, frame, req.Spec)
	if err != nil {
		return nil, errors.Wrap(err, "model fit failed")
	}
	table, err := s.decomposer.FromModel(model)
	if err != nil {
		return nil, errors.Wrap(err, "variance decomposition failed")
	}

	return &FactorialResult{
		Table:        table,
		Coefficients: model.Coefficients(),
		RuntimeMs:    time.Since(startTime).Milliseconds(),
	}, nil
}

// SweepOneWay runs a one-way analysis of the same response against several
// candidate factors concurrently. Results keep the factor order of the
// request.
func (s *AnalysisService) SweepOneWay(ctx context.Context, reader ports.FrameReader, response core.ColumnKey, factors []core.ColumnKey, alpha float64) ([]*OneWayResult, error) {
	frame, err := reader.ReadFrame(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input frame")
	}

	results := make([]*OneWayResult, len(factors))
	g, gctx := errgroup.WithContext(ctx)
	for i, factor := range factors {
		i, factor := i, factor
		g.Go(func() error {
			res, err := s.RunOneWay(gctx, OneWayRequest{
				Reader:   staticReader{frame},
				Response: response,
				Factor:   factor,
				Alpha:    alpha,
			})
			if err != nil {
				return errors.Wrapf(err, "factor %s", factor)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// NewStaticReader serves an already-loaded frame through the reader port.
func NewStaticReader(frame *dataset.Frame) ports.FrameReader {
	return staticReader{frame}
}

type staticReader struct {
	frame *dataset.Frame
}

func (r staticReader) ReadFrame(ctx context.Context) (*dataset.Frame, error) {
	return r.frame, nil
}
