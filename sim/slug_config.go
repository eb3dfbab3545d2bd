package sim

// TrackerConfig groups the slug tracker tuning parameters. Invalid values are
// clamped to safe floors by the setters rather than rejected; the zero value is
// not usable, construct with NewTrackerConfig.
type TrackerConfig struct {
	// MinSlugLength is the body length below which a slug is considered close
	// to dissipation (m). Also pads the outlet exit threshold.
	MinSlugLength float64

	// MergeDistance is the gap tolerance at which a trailing slug front
	// absorbs the leading slug (m).
	MergeDistance float64

	// FilmHoldup is the liquid holdup assigned to the Taylor bubble / film
	// region of every slug unit.
	FilmHoldup float64

	// ReferenceVelocity substitutes the local mixture velocity when the
	// momentum solver reports near-zero velocity (constant-pressure outlet
	// boundary conditions), keeping slugs moving through the stagnant zone.
	ReferenceVelocity float64

	// MaxBodyLengthDiameters caps slug growth: the tail shedding factor rises
	// toward 1.0 as the body length approaches this many pipe diameters.
	MaxBodyLengthDiameters float64

	// DissipationAge is how long a slug must stay below MinSlugLength before
	// it is dissolved back into the Eulerian field (s).
	DissipationAge float64

	// DissipationSpreadRadius is the number of sections on each side of the
	// slug center that receive the redistributed mass with Gaussian weights.
	// A heuristic, not a derived closure; kept configurable for that reason.
	DissipationSpreadRadius int

	// EnableInletGeneration turns on frequency-based slug generation at the
	// inlet section when it sits in slug or churn flow.
	EnableInletGeneration bool

	// InitialSlugLengthDiameters is the body length of inlet-generated slugs,
	// in pipe diameters.
	InitialSlugLengthDiameters float64

	// Seed feeds the tracker-owned RNG used to jitter inlet generation timing.
	Seed int64
}

// NewTrackerConfig returns the default tracker configuration.
func NewTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MinSlugLength:              5.0,
		MergeDistance:              1.0,
		FilmHoldup:                 0.20,
		ReferenceVelocity:          1.0,
		MaxBodyLengthDiameters:     200.0,
		DissipationAge:             10.0,
		DissipationSpreadRadius:    3,
		EnableInletGeneration:      false,
		InitialSlugLengthDiameters: 20.0,
		Seed:                       1,
	}
}

// sanitized clamps every field to its safe floor. Called once when the tracker
// is constructed so invalid configuration degrades instead of failing.
func (c TrackerConfig) sanitized() TrackerConfig {
	if c.MinSlugLength < 1.0 {
		c.MinSlugLength = 1.0
	}
	if c.MergeDistance < 0 {
		c.MergeDistance = 0
	}
	c.FilmHoldup = clamp(c.FilmHoldup, 0.01, 0.5)
	if c.ReferenceVelocity < 0.1 {
		c.ReferenceVelocity = 0.1
	}
	if c.MaxBodyLengthDiameters < 50 {
		c.MaxBodyLengthDiameters = 50
	}
	if c.DissipationAge < 0 {
		c.DissipationAge = 0
	}
	if c.DissipationSpreadRadius < 1 {
		c.DissipationSpreadRadius = 1
	}
	if c.InitialSlugLengthDiameters < 10 {
		c.InitialSlugLengthDiameters = 10
	}
	return c
}
