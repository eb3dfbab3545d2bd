package sim

// FlowRegime identifies the qualitative two-phase flow pattern in a control
// volume. The regime tag is assigned by an external classifier each timestep;
// this package only consumes it to select the matching closure correlations.
type FlowRegime int

const (
	StratifiedSmooth FlowRegime = iota
	StratifiedWavy
	Slug
	Churn
	Annular
	Mist
	Bubble
	DispersedBubble
	SinglePhaseGas
	SinglePhaseLiquid
)

// String returns the regime name for logging and diagnostics.
func (r FlowRegime) String() string {
	switch r {
	case StratifiedSmooth:
		return "stratified-smooth"
	case StratifiedWavy:
		return "stratified-wavy"
	case Slug:
		return "slug"
	case Churn:
		return "churn"
	case Annular:
		return "annular"
	case Mist:
		return "mist"
	case Bubble:
		return "bubble"
	case DispersedBubble:
		return "dispersed-bubble"
	case SinglePhaseGas:
		return "single-phase-gas"
	case SinglePhaseLiquid:
		return "single-phase-liquid"
	}
	return "unknown"
}

// PipeSection is one Eulerian control volume of the discretized pipeline.
// The external momentum/continuity solver owns the base flow state (velocities,
// densities, holdup, regime); the slug tracker owns the slug flags and the
// transient holdup override during its advance phase. The two writers are
// time-sliced within a timestep and never touch the same field in the same phase.
type PipeSection struct {
	Position    float64 // distance of upstream face from inlet (m)
	Length      float64 // cell length (m)
	Diameter    float64 // internal diameter (m)
	Inclination float64 // pipe inclination from horizontal (rad)
	Area        float64 // cross-sectional area (m²)
	Roughness   float64 // absolute wall roughness (m)

	GasVelocity     float64 // gas phase velocity (m/s)
	LiquidVelocity  float64 // liquid phase velocity (m/s)
	GasDensity      float64 // kg/m³
	LiquidDensity   float64 // kg/m³
	GasViscosity    float64 // Pa·s
	LiquidViscosity float64 // Pa·s
	SurfaceTension  float64 // gas-liquid surface tension (N/m)

	LiquidHoldup float64 // base liquid volume fraction from the Eulerian solver
	Regime       FlowRegime

	// Slug tracker overrides, reset at the start of every tracker advance.
	InSlugBody   bool
	InSlugBubble bool
	SlugHoldup   float64 // effective holdup while flagged; base holdup otherwise
}

// NewPipeSection builds a section at the given position with the state invariants
// enforced: holdup is clamped to [0,1] and the area derived from the diameter.
func NewPipeSection(position, length, diameter, inclination float64) *PipeSection {
	if diameter <= 0 {
		diameter = 1e-3
	}
	s := &PipeSection{
		Position:    position,
		Length:      length,
		Diameter:    diameter,
		Inclination: inclination,
		Area:        circleArea(diameter),
	}
	s.SlugHoldup = s.LiquidHoldup
	return s
}

// SetLiquidHoldup sets the base holdup, clamped to [0,1].
func (s *PipeSection) SetLiquidHoldup(h float64) {
	s.LiquidHoldup = clamp(h, 0, 1)
}

// GasHoldup is the complementary gas volume fraction.
func (s *PipeSection) GasHoldup() float64 {
	return 1 - s.LiquidHoldup
}

// End returns the position of the downstream face (m).
func (s *PipeSection) End() float64 {
	return s.Position + s.Length
}

// CellVolume returns the geometric volume of the control volume (m³).
func (s *PipeSection) CellVolume() float64 {
	return s.Area * s.Length
}

// MixtureVelocity is the holdup-weighted mixture (center-of-volume) velocity.
func (s *PipeSection) MixtureVelocity() float64 {
	return s.GasHoldup()*s.GasVelocity + s.LiquidHoldup*s.LiquidVelocity
}

// MixtureDensity is the holdup-weighted mixture density (kg/m³).
func (s *PipeSection) MixtureDensity() float64 {
	return s.GasHoldup()*s.GasDensity + s.LiquidHoldup*s.LiquidDensity
}

// SuperficialGasVelocity is the gas volumetric flux over the full cross-section.
func (s *PipeSection) SuperficialGasVelocity() float64 {
	return s.GasHoldup() * s.GasVelocity
}

// SuperficialLiquidVelocity is the liquid volumetric flux over the full cross-section.
func (s *PipeSection) SuperficialLiquidVelocity() float64 {
	return s.LiquidHoldup * s.LiquidVelocity
}

// EffectiveLiquidHoldup returns the holdup the closure calculators should see:
// the slug override while the section sits inside a tracked slug body or bubble,
// the Eulerian base holdup otherwise. The base holdup itself is never modified
// by the override, keeping the conservative variables untouched.
func (s *PipeSection) EffectiveLiquidHoldup() float64 {
	if s.InSlugBody || s.InSlugBubble {
		return s.SlugHoldup
	}
	return s.LiquidHoldup
}

// ResetSlugState clears the slug flags and restores the override to the base
// holdup. Called by the tracker at the start of every advance so no stale
// override survives a slug leaving the section.
func (s *PipeSection) ResetSlugState() {
	s.InSlugBody = false
	s.InSlugBubble = false
	s.SlugHoldup = s.LiquidHoldup
}

// PipeLength returns the downstream end of the last section, i.e. the total
// discretized pipe length (m).
func PipeLength(sections []*PipeSection) float64 {
	if len(sections) == 0 {
		return 0
	}
	end := 0.0
	for _, s := range sections {
		if s.End() > end {
			end = s.End()
		}
	}
	return end
}

// FindSectionIndex locates the section containing the given position, or -1 if
// the position lies outside the discretized pipe.
func FindSectionIndex(position float64, sections []*PipeSection) int {
	for i, s := range sections {
		if position >= s.Position && position <= s.End() {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
