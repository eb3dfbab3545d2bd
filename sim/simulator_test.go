package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugFlowSimulator(seed int64) *Simulator {
	cfg := NewTrackerConfig()
	cfg.EnableInletGeneration = true
	cfg.Seed = seed
	sections := uniformSections(1000, 1, 0.1, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
		s.Regime = Slug
	})
	return NewSimulator(sections, cfg, 0.1)
}

func TestSimulatorRun(t *testing.T) {
	s := slugFlowSimulator(1)
	s.Run(10)

	assert.Equal(t, 100, s.StepCount)
	assert.InDelta(t, 10.0, s.Clock, 1e-9)
	assert.Equal(t, 100, s.Metrics.Steps)
	assert.GreaterOrEqual(t, s.Tracker.TotalSlugsGenerated(), 2)
	assert.GreaterOrEqual(t, s.Metrics.PeakSlugCount, 1)
	assert.Greater(t, s.Metrics.PeakWallShear, 0.0)
	assert.InDelta(t, 0, s.Tracker.MassConservationError(), 1e-9)
}

func TestSimulatorDeterminism(t *testing.T) {
	fronts := func(s *Simulator) []float64 {
		out := make([]float64, 0, s.Tracker.SlugCount())
		for _, slug := range s.Tracker.Slugs() {
			out = append(out, slug.FrontPosition)
		}
		return out
	}

	a, b := slugFlowSimulator(5), slugFlowSimulator(5)
	a.Run(10)
	b.Run(10)
	require.Equal(t, a.Tracker.TotalSlugsGenerated(), b.Tracker.TotalSlugsGenerated())
	assert.Equal(t, fronts(a), fronts(b))
}

func TestSimulatorDefaultTimeStep(t *testing.T) {
	s := NewSimulator(uniformSections(10, 1, 0.1, nil), NewTrackerConfig(), 0)
	assert.Equal(t, 0.1, s.TimeStep)
}
