package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/twophase-sim/twophase-sim/sim"
)

// Scenario describes one transient pipeline case loaded from YAML: the pipe
// discretization, the fluid properties supplied by the (external) property
// provider, the inlet flow state, and the tracker tuning.
type Scenario struct {
	Pipe    PipeSpec    `yaml:"pipe"`
	Fluids  FluidSpec   `yaml:"fluids"`
	Inlet   InletSpec   `yaml:"inlet"`
	Tracker TrackerSpec `yaml:"tracker"`

	TimeStep float64 `yaml:"time_step"` // s
	Duration float64 `yaml:"duration"`  // s
}

type PipeSpec struct {
	Length         float64 `yaml:"length"`          // m
	Sections       int     `yaml:"sections"`        // number of control volumes
	Diameter       float64 `yaml:"diameter"`        // m
	Roughness      float64 `yaml:"roughness"`       // m
	InclinationDeg float64 `yaml:"inclination_deg"` // uniform inclination
}

type FluidSpec struct {
	GasDensity      float64 `yaml:"gas_density"`      // kg/m³
	LiquidDensity   float64 `yaml:"liquid_density"`   // kg/m³
	GasViscosity    float64 `yaml:"gas_viscosity"`    // Pa·s
	LiquidViscosity float64 `yaml:"liquid_viscosity"` // Pa·s
	SurfaceTension  float64 `yaml:"surface_tension"`  // N/m
}

type InletSpec struct {
	GasVelocity    float64 `yaml:"gas_velocity"`    // m/s
	LiquidVelocity float64 `yaml:"liquid_velocity"` // m/s
	LiquidHoldup   float64 `yaml:"liquid_holdup"`
	Regime         string  `yaml:"regime"`
}

type TrackerSpec struct {
	MinSlugLength         float64 `yaml:"min_slug_length"`
	MergeDistance         float64 `yaml:"merge_distance"`
	FilmHoldup            float64 `yaml:"film_holdup"`
	ReferenceVelocity     float64 `yaml:"reference_velocity"`
	EnableInletGeneration bool    `yaml:"enable_inlet_generation"`
	Seed                  int64   `yaml:"seed"`
}

// LoadScenario reads and parses a scenario YAML file. Parsing is strict:
// unknown keys are errors so typos surface instead of silently falling back
// to defaults.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var sc Scenario
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	return &sc, nil
}

// regimeFromName maps the scenario regime tag onto the closed FlowRegime
// enumeration, defaulting to stratified-smooth.
func regimeFromName(name string) sim.FlowRegime {
	switch name {
	case "stratified-smooth":
		return sim.StratifiedSmooth
	case "stratified-wavy":
		return sim.StratifiedWavy
	case "slug":
		return sim.Slug
	case "churn":
		return sim.Churn
	case "annular":
		return sim.Annular
	case "mist":
		return sim.Mist
	case "bubble":
		return sim.Bubble
	case "dispersed-bubble":
		return sim.DispersedBubble
	case "single-phase-gas":
		return sim.SinglePhaseGas
	case "single-phase-liquid":
		return sim.SinglePhaseLiquid
	default:
		return sim.StratifiedSmooth
	}
}

// BuildSections discretizes the scenario pipe into uniform control volumes
// carrying the scenario's fluid and inlet state.
func (sc *Scenario) BuildSections() []*sim.PipeSection {
	n := sc.Pipe.Sections
	if n < 1 {
		n = 1
	}
	dx := sc.Pipe.Length / float64(n)
	incl := sc.Pipe.InclinationDeg * math.Pi / 180
	regime := regimeFromName(sc.Inlet.Regime)

	sections := make([]*sim.PipeSection, n)
	for i := range sections {
		s := sim.NewPipeSection(float64(i)*dx, dx, sc.Pipe.Diameter, incl)
		s.Roughness = sc.Pipe.Roughness
		s.GasDensity = sc.Fluids.GasDensity
		s.LiquidDensity = sc.Fluids.LiquidDensity
		s.GasViscosity = sc.Fluids.GasViscosity
		s.LiquidViscosity = sc.Fluids.LiquidViscosity
		s.SurfaceTension = sc.Fluids.SurfaceTension
		s.GasVelocity = sc.Inlet.GasVelocity
		s.LiquidVelocity = sc.Inlet.LiquidVelocity
		s.SetLiquidHoldup(sc.Inlet.LiquidHoldup)
		s.Regime = regime
		s.ResetSlugState()
		sections[i] = s
	}
	return sections
}

// TrackerConfig converts the scenario tracker block into a sim.TrackerConfig,
// keeping defaults for fields left at zero.
func (sc *Scenario) TrackerConfig() sim.TrackerConfig {
	cfg := sim.NewTrackerConfig()
	if sc.Tracker.MinSlugLength > 0 {
		cfg.MinSlugLength = sc.Tracker.MinSlugLength
	}
	if sc.Tracker.MergeDistance > 0 {
		cfg.MergeDistance = sc.Tracker.MergeDistance
	}
	if sc.Tracker.FilmHoldup > 0 {
		cfg.FilmHoldup = sc.Tracker.FilmHoldup
	}
	if sc.Tracker.ReferenceVelocity > 0 {
		cfg.ReferenceVelocity = sc.Tracker.ReferenceVelocity
	}
	if sc.Tracker.Seed != 0 {
		cfg.Seed = sc.Tracker.Seed
	}
	cfg.EnableInletGeneration = sc.Tracker.EnableInletGeneration
	return cfg
}
