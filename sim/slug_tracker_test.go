package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// uniformSections builds n sections of length dx and diameter d, horizontal,
// with air/water-like properties, and applies setup to each.
func uniformSections(n int, dx, d float64, setup func(*PipeSection)) []*PipeSection {
	sections := make([]*PipeSection, n)
	for i := range sections {
		s := NewPipeSection(float64(i)*dx, dx, d, 0)
		s.GasDensity = 10
		s.LiquidDensity = 1000
		s.GasViscosity = 1.5e-5
		s.LiquidViscosity = 1e-3
		s.SurfaceTension = 0.07
		s.SetLiquidHoldup(0.5)
		if setup != nil {
			setup(s)
		}
		sections[i] = s
	}
	return sections
}

func TestInitializeTerrainSlug(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(50, 10, 0.2, nil)

	slug := tr.InitializeTerrainSlug(SlugSeed{
		FrontPosition: 100,
		TailPosition:  90,
		Length:        10,
		Velocity:      2,
		Holdup:        0.9,
		Volume:        0.25,
	}, sections)

	assert.Equal(t, 1, slug.ID)
	assert.Equal(t, 0.9, slug.BodyHoldup)
	assert.True(t, slug.TerrainInduced)
	assert.True(t, slug.Growing)
	assert.InDelta(t, 1000*0.25, slug.BorrowedMass, 1e-9)
	assert.Equal(t, slug.BorrowedMass, tr.MassBorrowed())
	assert.Equal(t, 1, tr.SlugCount())
	assert.Equal(t, 1, tr.TotalSlugsGenerated())
	assert.InDelta(t, 0, tr.MassConservationError(), 1e-9)

	// The body [90, 100] touches sections 8 and 9 (shared-face positions
	// resolve to the upstream section).
	assert.Equal(t, []int{8, 9}, slug.BorrowedFrom)
}

func TestInitializeTerrainSlug_HoldupClamped(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(10, 10, 0.2, nil)

	high := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 50, TailPosition: 45, Length: 5, Holdup: 0.999}, sections)
	low := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 50, TailPosition: 45, Length: 5, Holdup: 0.2}, sections)

	assert.Equal(t, 0.98, high.BodyHoldup)
	assert.Equal(t, 0.5, low.BodyHoldup)
}

func TestAdvanceSlug_BendiksenVelocity(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(100, 1, 0.1, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
	})
	slug := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 12, TailPosition: 10, Length: 2, Velocity: 2, Holdup: 0.9, Volume: 0.01}, sections)

	tr.AdvanceSlugs(sections, 0.01)

	// Horizontal, Fr = 2/√(g·0.1) ≈ 2.02 < 3.5: C0 = 1.05, Zukoski drift.
	drift := 0.54 * math.Sqrt(gravity*0.1*990/1000)
	assert.InDelta(t, 1.05*2+drift, slug.FrontVelocity, 1e-9)
	assert.Greater(t, slug.FrontVelocity, slug.TailVelocity, "shedding keeps the tail slower")
}

func TestAdvanceSlug_FroudeSwitchesC0(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(100, 1, 0.1, func(s *PipeSection) {
		s.GasVelocity = 6
		s.LiquidVelocity = 6
		s.GasDensity = 1000 // equal densities: no drift term
	})
	slug := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 12, TailPosition: 10, Length: 2, Velocity: 6, Holdup: 0.9, Volume: 0.01}, sections)

	tr.AdvanceSlugs(sections, 0.01)

	// Fr = 6/√(g·0.1) ≈ 6.06 > 3.5: C0 = 1.2.
	assert.InDelta(t, 1.2*6, slug.FrontVelocity, 1e-9)
}

func TestAdvanceSlug_VelocityFloorUsesReference(t *testing.T) {
	cfg := NewTrackerConfig()
	cfg.ReferenceVelocity = 1.0
	tr := NewSlugTracker(cfg)
	sections := uniformSections(100, 1, 0.1, func(s *PipeSection) {
		s.GasDensity = 1000 // no drift
	})
	slug := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 12, TailPosition: 10, Length: 2, Holdup: 0.9, Volume: 0.01}, sections)

	tr.AdvanceSlugs(sections, 0.01)

	// Stagnant mixture: the reference velocity stands in, C0 = 1.05.
	assert.InDelta(t, 1.05, slug.FrontVelocity, 1e-9)
}

func TestAdvanceSlug_SheddingStopsGrowthAtCap(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(600, 1, 0.2, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
	})
	// Body at the 200-diameter cap: tail must move with the front.
	capped := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 140, TailPosition: 100, Length: 40, Holdup: 0.9, Volume: 1}, sections)
	short := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 302, TailPosition: 300, Length: 2, Holdup: 0.9, Volume: 0.05}, sections)

	tr.AdvanceSlugs(sections, 0.01)

	assert.InDelta(t, capped.FrontVelocity, capped.TailVelocity, 1e-9)
	assert.InDelta(t, (0.9+0.1*2.0/40)*short.FrontVelocity, short.TailVelocity, 1e-9)
}

func TestGregoryHoldup(t *testing.T) {
	assert.InDelta(t, 1/(1+math.Pow(2/8.66, 1.39)), gregoryHoldup(2), 1e-12)
	assert.Equal(t, 0.98, gregoryHoldup(0.01), "low mixture velocity hits the upper clamp")
	assert.Equal(t, 0.5, gregoryHoldup(100), "high mixture velocity hits the lower clamp")
	assert.Equal(t, gregoryHoldup(2), gregoryHoldup(-2), "holdup depends on speed, not direction")
}

func TestDriftVelocity_InclinationBands(t *testing.T) {
	const d = 0.1
	scale := math.Sqrt(gravity * d * 990 / 1000)

	assert.InDelta(t, 0.54*scale, driftVelocity(d, 0, 990, 1000), 1e-12)
	assert.InDelta(t, 0.35*scale, driftVelocity(d, math.Pi/2, 990, 1000), 1e-12)

	// 45°: halfway through the blend band.
	theta := math.Pi / 4
	want := 0.5*0.54*scale*math.Cos(theta) + 0.35*scale*math.Sin(theta)
	assert.InDelta(t, want, driftVelocity(d, theta, 990, 1000), 1e-12)

	assert.Zero(t, driftVelocity(d, 0, 0, 1000), "no density difference, no buoyant drift")
}

func TestEquilibriumLength(t *testing.T) {
	s := NewPipeSection(0, 1, 0.2, 0)
	s.GasVelocity = 2
	s.LiquidVelocity = 2
	s.SetLiquidHoldup(0.5)

	fr := 2 / math.Sqrt(gravity*0.2)
	want := (25 + 10*math.Min(fr, 2)) * 0.2
	assert.InDelta(t, want, equilibriumLength(s, 5), 1e-9)

	s.Inclination = 0.1
	assert.InDelta(t, want*(1+0.3*math.Sin(0.1)), equilibriumLength(s, 5), 1e-9)

	// The configured minimum wins over a very small correlation length.
	tiny := NewPipeSection(0, 1, 0.01, 0)
	assert.Equal(t, 5.0, equilibriumLength(tiny, 5))
}

func TestAdvanceSlugs_GrowthAndDecayFlags(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(100, 1, 0.2, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
	})
	// Equilibrium length ≈ 7.86 m at these conditions.
	shortSlug := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 12, TailPosition: 10, Length: 2, Holdup: 0.9, Volume: 0.05}, sections)
	longSlug := tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 70, TailPosition: 50, Length: 20, Holdup: 0.9, Volume: 0.6}, sections)

	tr.AdvanceSlugs(sections, 0.01)

	assert.True(t, shortSlug.Growing)
	assert.False(t, shortSlug.Decaying)
	assert.False(t, longSlug.Growing)
	assert.True(t, longSlug.Decaying, "body beyond twice the equilibrium length decays")
}

func TestMarkSlugSections(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(30, 1, 0.1, func(s *PipeSection) {
		s.SetLiquidHoldup(0.3)
	})
	slug := &SlugUnit{
		FrontPosition: 15,
		TailPosition:  10,
		BodyLength:    5,
		BubbleLength:  3,
		BodyHoldup:    0.9,
		FilmHoldup:    0.2,
	}

	tr.markSlugSections(slug, sections)

	for i, s := range sections {
		switch {
		case i >= 10 && i < 15:
			assert.True(t, s.InSlugBody, "section %d", i)
			assert.Equal(t, 0.9, s.EffectiveLiquidHoldup(), "section %d", i)
		case i >= 7 && i < 10:
			assert.True(t, s.InSlugBubble, "section %d", i)
			assert.Equal(t, 0.2, s.EffectiveLiquidHoldup(), "section %d", i)
		default:
			assert.False(t, s.InSlugBody, "section %d", i)
			assert.False(t, s.InSlugBubble, "section %d", i)
			assert.Equal(t, 0.3, s.EffectiveLiquidHoldup(), "section %d", i)
		}
	}

	sections[12].ResetSlugState()
	assert.Equal(t, 0.3, sections[12].EffectiveLiquidHoldup())
}

func TestMergeSlugs(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	tr.slugs = []*SlugUnit{
		{ID: 1, FrontPosition: 50, TailPosition: 45, BodyLength: 5, LiquidVolume: 1.0, BorrowedMass: 800, FrontVelocity: 2.5},
		{ID: 2, FrontPosition: 44.5, TailPosition: 40, BodyLength: 4.5, LiquidVolume: 0.8, BorrowedMass: 600, FrontVelocity: 2.8},
	}

	tr.mergeSlugs()

	assert.Equal(t, 1, tr.SlugCount())
	assert.Equal(t, 1, tr.TotalSlugsMerged())

	survivor := tr.Slugs()[0]
	assert.Equal(t, 2, survivor.ID, "the trailing slug absorbs the one ahead")
	assert.Equal(t, 50.0, survivor.FrontPosition)
	assert.Equal(t, 40.0, survivor.TailPosition)
	assert.Equal(t, 10.0, survivor.BodyLength)
	assert.Equal(t, 2.5, survivor.FrontVelocity)
	assert.InDelta(t, 1.8, survivor.LiquidVolume, 1e-9)
	assert.InDelta(t, 1400, survivor.BorrowedMass, 1e-9)
	assert.True(t, survivor.Growing)
	assert.False(t, survivor.Decaying)
}

func TestMergeSlugs_OutOfRangeNoMerge(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	tr.slugs = []*SlugUnit{
		{ID: 1, FrontPosition: 50, TailPosition: 45},
		{ID: 2, FrontPosition: 40, TailPosition: 35}, // gap 5 m > merge distance 1 m
	}

	tr.mergeSlugs()

	assert.Equal(t, 2, tr.SlugCount())
	assert.Zero(t, tr.TotalSlugsMerged())
}

func TestMergeSlugs_CascadesThroughChain(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	tr.slugs = []*SlugUnit{
		{ID: 1, FrontPosition: 50, TailPosition: 45, BorrowedMass: 100},
		{ID: 2, FrontPosition: 44.8, TailPosition: 40, BorrowedMass: 100},
		{ID: 3, FrontPosition: 39.5, TailPosition: 35, BorrowedMass: 100},
	}

	tr.mergeSlugs()

	assert.Equal(t, 1, tr.SlugCount())
	assert.Equal(t, 2, tr.TotalSlugsMerged())
	assert.InDelta(t, 300, tr.Slugs()[0].BorrowedMass, 1e-9)
}

func TestSlugExitCreditsLedger(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(20, 1, 0.1, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
	})
	tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 18, TailPosition: 14, Length: 4, Velocity: 2, Holdup: 0.9, Volume: 0.03}, sections)

	// ~2.6 m/s front velocity: a handful of seconds clears the 20 m pipe.
	for i := 0; i < 100; i++ {
		tr.AdvanceSlugs(sections, 0.1)
	}

	assert.Zero(t, tr.SlugCount())
	assert.Equal(t, 1, tr.TotalSlugsExited())
	assert.InDelta(t, tr.MassBorrowed(), tr.MassReturned(), 1e-9)
	assert.InDelta(t, 0, tr.MassConservationError(), 1e-9)
	assert.Len(t, tr.OutletSlugLengths(), 1)
	assert.Len(t, tr.OutletSlugVolumes(), 1)
}

func TestSlugDissipationRedistributesMass(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	// Stagnant flow with matched densities: the slug crawls at the reference
	// velocity, sheds faster than it grows and dissolves after the age gate.
	sections := uniformSections(100, 1, 0.1, func(s *PipeSection) {
		s.GasDensity = 1000
		s.SetLiquidHoldup(0.3)
	})
	slug := tr.InitializeTerrainSlug(SlugSeed{
		FrontPosition: 10.5, TailPosition: 10, Length: 0.5,
		Holdup: 0.9, Volume: 0.005,
	}, sections)
	borrowed := slug.BorrowedMass
	assert.InDelta(t, 5.0, borrowed, 1e-9)

	tr.AdvanceSlugs(sections, 11)

	assert.Zero(t, tr.SlugCount())
	assert.Equal(t, 1, tr.TotalSlugsDissipated())
	assert.InDelta(t, borrowed, tr.MassReturned(), 1e-9)
	assert.InDelta(t, 0, tr.MassConservationError(), 1e-9)

	// The borrowed mass came back as base holdup around the dissipation site.
	added := 0.0
	raised := 0
	for _, s := range sections {
		extra := s.LiquidHoldup - 0.3
		if extra > 1e-12 {
			raised++
		}
		added += extra * s.LiquidDensity * s.CellVolume()
	}
	assert.InDelta(t, borrowed, added, 1e-6)
	assert.Equal(t, 7, raised, "Gaussian spread over center ± 3 sections")
}

func TestRedistributeMass_HoldupCappedAtOne(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(20, 1, 0.1, func(s *PipeSection) {
		s.SetLiquidHoldup(0.95)
	})
	slug := &SlugUnit{FrontPosition: 10.5, TailPosition: 10, BorrowedMass: 500}

	tr.redistributeMass(slug, sections)

	for _, s := range sections {
		assert.LessOrEqual(t, s.LiquidHoldup, 1.0)
	}
}

func TestInletSlugGeneration(t *testing.T) {
	cfg := NewTrackerConfig()
	cfg.EnableInletGeneration = true
	tr := NewSlugTracker(cfg)
	sections := uniformSections(1000, 1, 0.1, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
		s.Regime = Slug
	})

	for i := 0; i < 100; i++ {
		tr.AdvanceSlugs(sections, 0.1)
	}

	// Gregory-Scott at λ_L = 0.5, U_M = 2 m/s, D = 0.1 m.
	assert.InDelta(t, 0.401, tr.SlugFrequency(), 0.001)
	assert.GreaterOrEqual(t, tr.TotalSlugsGenerated(), 2)
	assert.InDelta(t, 0, tr.MassConservationError(), 1e-9)
}

func TestInletSlugGeneration_InactiveOutsideSlugFlow(t *testing.T) {
	cfg := NewTrackerConfig()
	cfg.EnableInletGeneration = true
	tr := NewSlugTracker(cfg)
	sections := uniformSections(100, 1, 0.1, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
		s.Regime = StratifiedSmooth
	})

	for i := 0; i < 100; i++ {
		tr.AdvanceSlugs(sections, 0.1)
	}

	assert.Zero(t, tr.TotalSlugsGenerated())
}

func TestInletSlugGeneration_SeedReproducibility(t *testing.T) {
	run := func(seed int64) []float64 {
		cfg := NewTrackerConfig()
		cfg.EnableInletGeneration = true
		cfg.Seed = seed
		tr := NewSlugTracker(cfg)
		sections := uniformSections(1000, 1, 0.1, func(s *PipeSection) {
			s.GasVelocity = 2
			s.LiquidVelocity = 2
			s.Regime = Slug
		})
		for i := 0; i < 100; i++ {
			tr.AdvanceSlugs(sections, 0.1)
		}
		fronts := make([]float64, 0, tr.SlugCount())
		for _, s := range tr.Slugs() {
			fronts = append(fronts, s.FrontPosition)
		}
		return fronts
	}

	assert.Equal(t, run(42), run(42))
	assert.NotEqual(t, run(42), run(43))
}

func TestTrackerLifecycleLedger(t *testing.T) {
	cfg := NewTrackerConfig()
	cfg.EnableInletGeneration = true
	tr := NewSlugTracker(cfg)
	sections := uniformSections(20, 1, 0.1, func(s *PipeSection) {
		s.GasVelocity = 2
		s.LiquidVelocity = 2
		s.Regime = Slug
	})

	for i := 0; i < 300; i++ {
		tr.AdvanceSlugs(sections, 0.1)
	}

	assert.GreaterOrEqual(t, tr.TotalSlugsExited(), 2)
	assert.Greater(t, tr.OutletFrequency(), 0.0)
	assert.InDelta(t, 0, tr.MassConservationError(), 1e-9)
	assert.Contains(t, tr.StatisticsString(), "Slug Tracking Statistics")
}

func TestTrackerStatistics(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	tr.slugs = []*SlugUnit{
		{BodyLength: 4},
		{BodyLength: 8},
	}
	tr.updateStatistics()

	assert.InDelta(t, 6, tr.AverageSlugLength(), 1e-12)
	assert.InDelta(t, 8, tr.MaxSlugLength(), 1e-12)
}

func TestTrackerReset(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(20, 1, 0.1, nil)
	tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 12, TailPosition: 10, Length: 2, Holdup: 0.9, Volume: 0.01}, sections)

	tr.Reset()

	assert.Zero(t, tr.SlugCount())
	assert.Zero(t, tr.TotalSlugsGenerated())
	assert.Zero(t, tr.MassBorrowed())
	assert.Zero(t, tr.MassReturned())
	assert.Zero(t, tr.AverageSlugLength())
	assert.Empty(t, tr.OutletSlugLengths())
}

func TestAdvanceSlugs_DegenerateInputs(t *testing.T) {
	tr := NewSlugTracker(NewTrackerConfig())
	sections := uniformSections(10, 1, 0.1, nil)
	tr.InitializeTerrainSlug(SlugSeed{FrontPosition: 5, TailPosition: 3, Length: 2, Holdup: 0.9, Volume: 0.01}, sections)

	tr.AdvanceSlugs(nil, 0.1)
	tr.AdvanceSlugs(sections, 0)
	tr.AdvanceSlugs(sections, -1)

	assert.Equal(t, 1, tr.SlugCount(), "no-op on empty sections or non-positive dt")
}
