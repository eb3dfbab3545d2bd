// sim/simulator.go
package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds simulation time, the discretized
// pipe state and the per-timestep loop coupling the friction closures to the
// slug tracker. The ordering contract per step is fixed: closures read the
// previous step's slug overrides, then the tracker advance writes the next
// step's.
//
// The external momentum/continuity solver is out of scope here; the Simulator
// steps the closure and tracking layer against the frozen flow field carried
// by the sections.
type Simulator struct {
	Sections []*PipeSection
	Tracker  *SlugTracker
	Wall     *WallFriction
	Interf   *InterfacialFriction
	Metrics  *Metrics

	TimeStep  float64 // s
	Clock     float64 // simulated time (s)
	StepCount int
}

// NewSimulator wires a simulator over the given sections. The tracker's RNG
// seed is derived from the run seed through the slug-generation stream so
// other stochastic consumers added later keep their own sequences.
func NewSimulator(sections []*PipeSection, trackerCfg TrackerConfig, timeStep float64) *Simulator {
	if timeStep <= 0 {
		timeStep = 0.1
	}
	trackerCfg.Seed = DeriveSeed(trackerCfg.Seed, StreamSlugGeneration)

	return &Simulator{
		Sections: sections,
		Tracker:  NewSlugTracker(trackerCfg),
		Wall:     NewWallFriction(),
		Interf:   NewInterfacialFriction(),
		Metrics:  NewMetrics(),
		TimeStep: timeStep,
	}
}

// Step advances the simulation by one timestep: closure evaluation for every
// section, then the tracker advance, then the metrics fold.
func (sim *Simulator) Step() {
	maxWall, maxInterf := 0.0, 0.0

	for _, s := range sim.Sections {
		holdup := s.EffectiveLiquidHoldup()
		wallRes := sim.Wall.Calculate(s.Regime, s.GasVelocity, s.LiquidVelocity,
			s.GasDensity, s.LiquidDensity, s.GasViscosity, s.LiquidViscosity,
			holdup, s.Diameter, s.Roughness)
		ifRes := sim.Interf.Calculate(s.Regime, s.GasVelocity, s.LiquidVelocity,
			s.GasDensity, s.LiquidDensity, s.GasViscosity, s.LiquidViscosity,
			holdup, s.Diameter, s.SurfaceTension)

		maxWall = math.Max(maxWall, math.Max(math.Abs(wallRes.LiquidWallShear), math.Abs(wallRes.GasWallShear)))
		maxInterf = math.Max(maxInterf, math.Abs(ifRes.InterfacialShear))

		logrus.Tracef("[step %05d] x=%.1fm τ_wL=%.3gPa τ_wG=%.3gPa τ_i=%.3gPa",
			sim.StepCount, s.Position, wallRes.LiquidWallShear, wallRes.GasWallShear, ifRes.InterfacialShear)
	}

	sim.Tracker.AdvanceSlugs(sim.Sections, sim.TimeStep)
	sim.Metrics.RecordStep(sim.Sections, sim.Tracker, maxWall, maxInterf)

	sim.Clock += sim.TimeStep
	sim.StepCount++
}

// Run steps the simulation for the given duration.
func (sim *Simulator) Run(duration float64) {
	steps := int(duration / sim.TimeStep)
	for i := 0; i < steps; i++ {
		sim.Step()
		if sim.StepCount%100 == 0 {
			logrus.Debugf("[step %05d] t=%.1fs active slugs=%d ledger error=%.6f kg",
				sim.StepCount, sim.Clock, sim.Tracker.SlugCount(), sim.Tracker.MassConservationError())
		}
	}
}
