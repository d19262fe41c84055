package testkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SeededReproducibility(t *testing.T) {
	cfg := DefaultConfig()

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	cfg.Seed = 43
	c, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestGenerate_Shape(t *testing.T) {
	sample, err := Generate(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, sample.GroupCount())
	assert.Equal(t, 90, sample.TotalN())
	assert.Equal(t, 30, sample.GroupN("control"))

	// With SD 5 and n 30 the group means land well within 4 units of target.
	assert.InDelta(t, 50, sample.GroupMean("control"), 4)
	assert.InDelta(t, 55, sample.GroupMean("treatment_a"), 4)
	assert.InDelta(t, 60, sample.GroupMean("treatment_b"), 4)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	_, err := Generate(Config{Seed: 1})
	assert.Error(t, err)

	_, err = Generate(Config{Seed: 1, Groups: []GroupSpec{{Label: "A", N: 0}}})
	assert.Error(t, err)
}

func TestGenerateFrame(t *testing.T) {
	frame, err := GenerateFrame(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 90, frame.Rows())

	sample, err := frame.GroupedSample("response", "group")
	require.NoError(t, err)
	assert.Equal(t, 3, sample.GroupCount())

	direct, err := Generate(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, direct.Fingerprint(), sample.Fingerprint())
}

func TestGenerateFactorial(t *testing.T) {
	cfg := DefaultFactorialConfig()
	frame, err := GenerateFactorial(cfg)
	require.NoError(t, err)

	assert.Equal(t, 60, frame.Rows()) // 3 levels x 2 levels x 10 replicates

	a, err := frame.CategoricalColumn("factor_a")
	require.NoError(t, err)
	counts := map[string]int{}
	for _, l := range a {
		counts[l]++
	}
	assert.Equal(t, map[string]int{"low": 20, "mid": 20, "high": 20}, counts)

	_, err = GenerateFactorial(FactorialConfig{Replicates: 0})
	assert.Error(t, err)
	_, err = GenerateFactorial(FactorialConfig{Replicates: 2, LevelsA: []string{"one"}, LevelsB: []string{"x", "y"}})
	assert.Error(t, err)
}

func TestFrameReader(t *testing.T) {
	frame, err := GenerateFrame(DefaultConfig())
	require.NoError(t, err)

	reader := NewFrameReader(frame)
	got, err := reader.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Same(t, frame, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.ReadFrame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
