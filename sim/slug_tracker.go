package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// SlugTracker owns the live collection of Lagrangian slug units, their
// lifecycle (creation, growth/decay, merging, exit, dissipation) and the
// mass-conservation ledger between the Lagrangian slugs and the Eulerian cell
// field. All counters and the slug list live inside one instance; Reset clears
// them explicitly.
//
// The tracker is single-threaded: AdvanceSlugs must run strictly after the
// per-timestep regime/holdup update and before the next momentum step, because
// the holdup overrides it writes feed the next friction evaluation.
type SlugTracker struct {
	cfg    TrackerConfig
	slugs  []*SlugUnit
	nextID int
	rng    *rand.Rand

	simulationTime     float64
	timeSinceInletSlug float64

	// Inlet slug frequency from the Gregory-Scott/Zabaras correlation (1/s),
	// refreshed whenever the inlet sits in slug or churn flow.
	slugFrequency float64

	// Aggregate statistics over active slugs.
	averageLength float64
	maxLength     float64

	totalGenerated  int
	totalMerged     int
	totalExited     int
	totalDissipated int

	// Mass ledger (kg): borrowed when slugs form, returned on exit or
	// dissipation. borrowed − returned − Σ(active) ≈ 0 at all times.
	massBorrowed float64
	massReturned float64

	outlet outletRecord
}

// NewSlugTracker builds a tracker with the given configuration, clamped to safe
// values, and a tracker-owned RNG so runs with equal seeds reproduce exactly.
func NewSlugTracker(cfg TrackerConfig) *SlugTracker {
	cfg = cfg.sanitized()
	return &SlugTracker{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// InitializeTerrainSlug creates a slug unit from the characteristics reported
// by the external liquid-accumulation tracker. The slug's liquid volume was
// collected from the stratified film, so the equivalent mass is recorded as
// borrowed from the Eulerian cells, together with the indices of the sections
// it came from, for later reconciliation.
func (t *SlugTracker) InitializeTerrainSlug(seed SlugSeed, sections []*PipeSection) *SlugUnit {
	t.nextID++
	slug := &SlugUnit{
		ID:             t.nextID,
		FrontPosition:  seed.FrontPosition,
		TailPosition:   seed.TailPosition,
		BodyLength:     seed.Length,
		FrontVelocity:  seed.Velocity,
		TailVelocity:   seed.Velocity,
		BodyHoldup:     clamp(seed.Holdup, 0.5, 0.98),
		FilmHoldup:     t.cfg.FilmHoldup,
		LiquidVolume:   seed.Volume,
		Growing:        true,
		TerrainInduced: true,
	}

	if idx := FindSectionIndex(slug.FrontPosition, sections); idx >= 0 {
		slug.LocalInclination = sections[idx].Inclination
		slug.BorrowedMass = sections[idx].LiquidDensity * slug.LiquidVolume
		t.massBorrowed += slug.BorrowedMass
		slug.BorrowedFrom = coveredSectionIndices(slug.TailPosition, slug.FrontPosition, sections)
	}

	t.slugs = append(t.slugs, slug)
	t.totalGenerated++
	logrus.Debugf("terrain slug created: %v (borrowed %.3f kg)", slug, slug.BorrowedMass)
	return slug
}

// AdvanceSlugs advances the tracker by one timestep: section slug state is
// reset to the Eulerian base values, new inlet slugs are generated when
// enabled, every active slug is advanced and re-marked onto the sections,
// overlapping slugs are merged, inactive slugs removed with their mass credited
// back, and the aggregate statistics recomputed. The reset-then-advance order
// makes the update atomic per timestep: no partial state survives if the
// driver halts between steps.
func (t *SlugTracker) AdvanceSlugs(sections []*PipeSection, dt float64) {
	if len(sections) == 0 || dt <= 0 {
		return
	}
	t.simulationTime += dt
	t.timeSinceInletSlug += dt

	for _, s := range sections {
		s.ResetSlugState()
	}

	if t.cfg.EnableInletGeneration {
		t.maybeGenerateInletSlug(sections)
	}

	for _, slug := range t.slugs {
		t.advanceSlug(slug, sections, dt)
	}

	t.mergeSlugs()
	t.removeInactiveSlugs(sections)
	t.updateStatistics()
}

// advanceSlug integrates one slug unit over dt.
func (t *SlugTracker) advanceSlug(slug *SlugUnit, sections []*PipeSection, dt float64) {
	slug.Age += dt

	frontIdx := FindSectionIndex(slug.FrontPosition, sections)
	if frontIdx < 0 {
		// Past the pipe end: extrapolate with the last section's state.
		frontIdx = len(sections) - 1
	}
	front := sections[frontIdx]
	slug.LocalInclination = front.Inclination

	d := front.Diameter
	theta := front.Inclination

	// Near-zero velocities from constant-pressure outlet boundaries would
	// strand the slug; fall back to the configured reference velocity.
	uM := front.MixtureVelocity()
	if math.Abs(uM) < 0.1 {
		uM = t.cfg.ReferenceVelocity
	}

	// Bendiksen distribution coefficient and drift velocity.
	fr := uM / math.Sqrt(gravity*d)
	c0 := 1.05 + 0.15*math.Sin(theta)
	if fr > 3.5 {
		c0 = 1.2
	}
	drift := driftVelocity(d, theta, front.LiquidDensity-front.GasDensity, front.LiquidDensity)
	slug.FrontVelocity = c0*uM + drift

	// Tail shedding rises from 0.9 toward 1.0 as the body approaches the
	// length cap, choking off indefinite growth.
	maxLen := t.cfg.MaxBodyLengthDiameters * d
	lengthRatio := math.Min(1, slug.BodyLength/maxLen)
	slug.TailVelocity = slug.FrontVelocity * (0.9 + 0.1*lengthRatio)

	slug.FrontPosition += slug.FrontVelocity * dt
	slug.TailPosition += slug.TailVelocity * dt

	slug.BodyLength = math.Max(0, slug.FrontPosition-slug.TailPosition)
	slug.BubbleLength = t.bubbleLength(slug, uM)
	slug.BodyHoldup = gregoryHoldup(uM)

	eqLen := equilibriumLength(front, t.cfg.MinSlugLength)
	slug.Growing = slug.BodyLength < eqLen
	slug.Decaying = !slug.Growing && slug.BodyLength > 2*eqLen

	area := front.Area
	volume := slug.BodyLength*area*slug.BodyHoldup + slug.BubbleLength*area*slug.FilmHoldup
	if math.IsNaN(volume) || math.IsInf(volume, 0) {
		// Conservative substitute: body at near-full holdup, film ignored.
		volume = slug.BodyLength * area * 0.9
	}
	slug.LiquidVolume = volume

	t.markSlugSections(slug, sections)
}

// bubbleLength derives the Taylor bubble / film region length from the slug
// frequency and the unit-cell length, defaulting to the body length when no
// frequency is established.
func (t *SlugTracker) bubbleLength(slug *SlugUnit, uM float64) float64 {
	if t.slugFrequency > 0 && uM > 0 {
		unitLength := uM / t.slugFrequency
		return math.Max(0, unitLength-slug.BodyLength)
	}
	return slug.BodyLength
}

// markSlugSections flags sections overlapping the slug body or its trailing
// bubble region and sets their transient holdup override. The Eulerian base
// holdup is never touched; the override only steers the closure evaluation.
func (t *SlugTracker) markSlugSections(slug *SlugUnit, sections []*PipeSection) {
	bodyStart, bodyEnd := slug.TailPosition, slug.FrontPosition
	bubbleStart, bubbleEnd := slug.TailPosition-slug.BubbleLength, slug.TailPosition

	for _, s := range sections {
		overlapsBody := s.Position < bodyEnd && s.End() > bodyStart && bodyEnd > bodyStart
		if overlapsBody {
			s.InSlugBody = true
			s.SlugHoldup = slug.BodyHoldup
			continue
		}
		overlapsBubble := s.Position < bubbleEnd && s.End() > bubbleStart && bubbleEnd > bubbleStart
		if overlapsBubble {
			s.InSlugBubble = true
			s.SlugHoldup = slug.FilmHoldup
		}
	}
}

// maybeGenerateInletSlug applies the Gregory-Scott frequency with the Zabaras
// inclination correction at the inlet section and spawns a slug once the
// jittered expected period has elapsed. Only active while the inlet sits in
// slug or churn flow.
func (t *SlugTracker) maybeGenerateInletSlug(sections []*PipeSection) {
	inlet := sections[0]
	if inlet.Regime != Slug && inlet.Regime != Churn {
		return
	}

	uSL := inlet.SuperficialLiquidVelocity()
	uM := uSL + inlet.SuperficialGasVelocity()
	if uM <= 0 {
		return
	}
	d := inlet.Diameter

	fr := uM / math.Sqrt(gravity*d)
	lambdaL := uSL / uM
	base := 0.0226 * math.Pow(lambdaL, 1.2) * fr * fr / d
	t.slugFrequency = base * (1 + math.Sin(math.Abs(inlet.Inclination)))
	if t.slugFrequency <= 0 {
		return
	}

	expectedPeriod := 1 / t.slugFrequency
	jitter := 0.8 + 0.4*t.rng.Float64()
	if t.timeSinceInletSlug < expectedPeriod*jitter {
		return
	}
	t.timeSinceInletSlug = 0
	t.generateInletSlug(inlet, sections)
}

func (t *SlugTracker) generateInletSlug(inlet *PipeSection, sections []*PipeSection) {
	d := inlet.Diameter
	bodyLen := t.cfg.InitialSlugLengthDiameters * d

	uM := inlet.MixtureVelocity()
	if math.Abs(uM) < 0.1 {
		uM = t.cfg.ReferenceVelocity
	}
	unitLength := 2 * bodyLen
	if t.slugFrequency > 0 {
		unitLength = uM / t.slugFrequency
	}

	t.nextID++
	slug := &SlugUnit{
		ID:            t.nextID,
		FrontPosition: bodyLen,
		TailPosition:  0,
		BodyLength:    bodyLen,
		BubbleLength:  math.Max(bodyLen, unitLength-bodyLen),
		FrontVelocity: uM,
		TailVelocity:  uM,
		BodyHoldup:    gregoryHoldup(uM),
		FilmHoldup:    t.cfg.FilmHoldup,
		Growing:       true,

		LocalInclination: inlet.Inclination,
	}
	slug.LiquidVolume = slug.BodyLength * inlet.Area * slug.BodyHoldup
	slug.BorrowedMass = inlet.LiquidDensity * slug.LiquidVolume
	slug.BorrowedFrom = coveredSectionIndices(slug.TailPosition, slug.FrontPosition, sections)
	t.massBorrowed += slug.BorrowedMass

	t.slugs = append(t.slugs, slug)
	t.totalGenerated++
	logrus.Debugf("inlet slug created: %v (freq %.4f Hz)", slug, t.slugFrequency)
}

// mergeSlugs absorbs any leading slug whose tail has been caught by the
// trailing slug's front within the merge distance. The trailing slug takes the
// leading slug's front position and velocity and the combined liquid volume
// and borrowed mass, so merging cannot leak ledger mass.
func (t *SlugTracker) mergeSlugs() {
	if len(t.slugs) < 2 {
		return
	}
	sort.Slice(t.slugs, func(i, j int) bool {
		return t.slugs[i].FrontPosition < t.slugs[j].FrontPosition
	})

	merged := t.slugs[:0:0]
	for _, lead := range t.slugs {
		n := len(merged)
		if n > 0 {
			trail := merged[n-1]
			if trail.FrontPosition >= lead.TailPosition-t.cfg.MergeDistance {
				trail.FrontPosition = lead.FrontPosition
				trail.FrontVelocity = lead.FrontVelocity
				trail.BodyLength = trail.FrontPosition - trail.TailPosition
				trail.BubbleLength = lead.BubbleLength
				trail.LiquidVolume += lead.LiquidVolume
				trail.BorrowedMass += lead.BorrowedMass
				trail.Growing = true
				trail.Decaying = false
				t.totalMerged++
				logrus.Debugf("slug merge: #%d absorbed #%d", trail.ID, lead.ID)
				continue
			}
		}
		merged = append(merged, lead)
	}
	t.slugs = merged
}

// removeInactiveSlugs retires slugs in a terminal state. A slug whose front has
// passed the pipe end (plus the minimum slug length) has exited: its borrowed
// mass leaves the system through the outlet flux and is credited straight to
// the returned ledger. A slug stuck below the minimum body length past the
// dissipation age dissolves: its mass is redistributed to the surrounding
// cells, then credited.
func (t *SlugTracker) removeInactiveSlugs(sections []*PipeSection) {
	pipeLen := PipeLength(sections)

	active := t.slugs[:0]
	for _, slug := range t.slugs {
		switch {
		case slug.FrontPosition > pipeLen+t.cfg.MinSlugLength:
			t.outlet.record(slug, t.simulationTime)
			t.massReturned += slug.BorrowedMass
			t.totalExited++
			logrus.Debugf("slug exited: %v", slug)
		case slug.BodyLength < t.cfg.MinSlugLength && slug.Age > t.cfg.DissipationAge:
			t.redistributeMass(slug, sections)
			t.massReturned += slug.BorrowedMass
			t.totalDissipated++
			logrus.Debugf("slug dissipated: %v", slug)
		default:
			active = append(active, slug)
		}
	}
	t.slugs = active
}

// redistributeMass returns a dissipating slug's borrowed mass to the sections
// around its center with Gaussian weights, raising each section's base holdup
// by massFraction·borrowedMass/(ρ_L·cellVolume), capped at 1.
func (t *SlugTracker) redistributeMass(slug *SlugUnit, sections []*PipeSection) {
	if slug.BorrowedMass <= 0 || len(sections) == 0 {
		return
	}

	center := FindSectionIndex((slug.FrontPosition+slug.TailPosition)/2, sections)
	if center < 0 {
		center = len(sections) - 1
	}
	spread := t.cfg.DissipationSpreadRadius
	start := max(0, center-spread)
	end := min(len(sections)-1, center+spread)

	weights := make([]float64, end-start+1)
	for i := range weights {
		d := float64(start + i - center)
		weights[i] = math.Exp(-d * d / 2)
	}
	floats.Scale(1/floats.Sum(weights), weights)

	for i := start; i <= end; i++ {
		s := sections[i]
		if s.LiquidDensity <= 0 || s.CellVolume() <= 0 {
			continue
		}
		deltaHoldup := slug.BorrowedMass * weights[i-start] / (s.LiquidDensity * s.CellVolume())
		s.SetLiquidHoldup(s.LiquidHoldup + deltaHoldup)
	}
}

// driftVelocity interpolates Zukoski's horizontal and Dumitrescu's vertical
// Taylor bubble drift by inclination band: pure combination below 30°, vertical
// only above 60°, linear blend between.
func driftVelocity(d, theta, deltaRho, rhoL float64) float64 {
	if deltaRho <= 0 || rhoL <= 0 {
		return 0
	}
	scale := math.Sqrt(gravity * d * deltaRho / rhoL)
	uH := 0.54 * scale // Zukoski (1966)
	uV := 0.35 * scale // Dumitrescu (1943)

	absTheta := math.Abs(theta)
	switch {
	case absTheta < math.Pi/6:
		return uH*math.Cos(theta) + uV*math.Sin(theta)
	case absTheta > math.Pi/3:
		return uV * math.Sin(theta)
	default:
		w := (absTheta - math.Pi/6) / (math.Pi / 6)
		return (1-w)*uH*math.Cos(theta) + uV*math.Sin(theta)
	}
}

// gregoryHoldup is the Gregory, Nicholson & Aziz (1978) slug body holdup,
// H = 1/(1+(U_M/8.66)^1.39), clamped to the physically meaningful band.
func gregoryHoldup(uM float64) float64 {
	h := 1 / (1 + math.Pow(math.Abs(uM)/8.66, 1.39))
	return clamp(h, 0.5, 0.98)
}

// equilibriumLength is the Nydal / Barnea-Taitel stable slug body length, with
// longer equilibria in upward-inclined pipe.
func equilibriumLength(s *PipeSection, minLength float64) float64 {
	fr := s.MixtureVelocity() / math.Sqrt(gravity*s.Diameter)
	lOverD := 25 + 10*math.Min(fr, 2)
	l := lOverD * s.Diameter
	if s.Inclination > 0 {
		l *= 1 + 0.3*math.Sin(s.Inclination)
	}
	return math.Max(minLength, l)
}

// coveredSectionIndices lists the indices of the sections spanned by
// [tail, front], clamped to the pipe.
func coveredSectionIndices(tail, front float64, sections []*PipeSection) []int {
	start := FindSectionIndex(tail, sections)
	end := FindSectionIndex(front, sections)
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = len(sections) - 1
	}
	idx := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		idx = append(idx, i)
	}
	return idx
}
