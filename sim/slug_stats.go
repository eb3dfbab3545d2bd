package sim

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// outletRecord accumulates per-slug observations at the pipe outlet for
// distribution analysis: body lengths, liquid volumes and inter-arrival times.
type outletRecord struct {
	lengths       []float64
	volumes       []float64
	interArrivals []float64
	lastArrival   float64
	hasArrival    bool
}

func (o *outletRecord) record(slug *SlugUnit, now float64) {
	o.lengths = append(o.lengths, slug.BodyLength)
	o.volumes = append(o.volumes, slug.LiquidVolume)
	if o.hasArrival {
		o.interArrivals = append(o.interArrivals, now-o.lastArrival)
	}
	o.lastArrival = now
	o.hasArrival = true
}

func (o *outletRecord) reset() {
	*o = outletRecord{}
}

// updateStatistics recomputes the aggregate length statistics over the active
// slug population.
func (t *SlugTracker) updateStatistics() {
	if len(t.slugs) == 0 {
		t.averageLength = 0
		t.maxLength = 0
		return
	}
	lengths := make([]float64, len(t.slugs))
	t.maxLength = 0
	for i, s := range t.slugs {
		lengths[i] = s.BodyLength
		if s.BodyLength > t.maxLength {
			t.maxLength = s.BodyLength
		}
	}
	t.averageLength = stat.Mean(lengths, nil)
}

// Slugs returns a snapshot copy of the active slug list, most recently sorted
// by front position. Callers must not mutate the units.
func (t *SlugTracker) Slugs() []*SlugUnit {
	out := make([]*SlugUnit, len(t.slugs))
	copy(out, t.slugs)
	return out
}

// SlugCount is the number of active slugs.
func (t *SlugTracker) SlugCount() int { return len(t.slugs) }

// SlugFrequency is the inlet slug frequency from the generation correlation (1/s).
func (t *SlugTracker) SlugFrequency() float64 { return t.slugFrequency }

// OutletFrequency is the reciprocal of the mean inter-arrival time between
// slugs reaching the outlet, or zero before two slugs have exited.
func (t *SlugTracker) OutletFrequency() float64 {
	if len(t.outlet.interArrivals) == 0 {
		return 0
	}
	mean := stat.Mean(t.outlet.interArrivals, nil)
	if mean <= 0 {
		return 0
	}
	return 1 / mean
}

// AverageSlugLength is the mean body length over active slugs (m).
func (t *SlugTracker) AverageSlugLength() float64 { return t.averageLength }

// MaxSlugLength is the largest body length over active slugs (m).
func (t *SlugTracker) MaxSlugLength() float64 { return t.maxLength }

// TotalSlugsGenerated counts every slug ever created by this tracker.
func (t *SlugTracker) TotalSlugsGenerated() int { return t.totalGenerated }

// TotalSlugsMerged counts absorbed slugs.
func (t *SlugTracker) TotalSlugsMerged() int { return t.totalMerged }

// TotalSlugsExited counts slugs that left through the outlet.
func (t *SlugTracker) TotalSlugsExited() int { return t.totalExited }

// TotalSlugsDissipated counts slugs dissolved back into the Eulerian field.
func (t *SlugTracker) TotalSlugsDissipated() int { return t.totalDissipated }

// OutletSlugLengths returns a copy of the recorded outlet body lengths (m).
func (t *SlugTracker) OutletSlugLengths() []float64 {
	return append([]float64(nil), t.outlet.lengths...)
}

// OutletSlugVolumes returns a copy of the recorded outlet liquid volumes (m³).
func (t *SlugTracker) OutletSlugVolumes() []float64 {
	return append([]float64(nil), t.outlet.volumes...)
}

// MassBorrowed is the cumulative liquid mass taken from the Eulerian cells to
// form slugs (kg).
func (t *SlugTracker) MassBorrowed() float64 { return t.massBorrowed }

// MassReturned is the cumulative liquid mass credited back on slug exit or
// dissipation (kg).
func (t *SlugTracker) MassReturned() float64 { return t.massReturned }

// MassConservationError is the diagnostic ledger residual
// borrowed − returned − Σ(active slugs' borrowed mass). It should stay near
// zero after any sequence of creation, growth, merge, exit and dissipation
// events; a drift indicates a bookkeeping bug, not a solver failure.
func (t *SlugTracker) MassConservationError() float64 {
	inActive := 0.0
	for _, s := range t.slugs {
		inActive += s.BorrowedMass
	}
	return t.massBorrowed - t.massReturned - inActive
}

// Reset clears the slug list, counters, ledger and outlet records. The
// configuration and seed are kept.
func (t *SlugTracker) Reset() {
	t.slugs = nil
	t.nextID = 0
	t.simulationTime = 0
	t.timeSinceInletSlug = 0
	t.slugFrequency = 0
	t.averageLength = 0
	t.maxLength = 0
	t.totalGenerated = 0
	t.totalMerged = 0
	t.totalExited = 0
	t.totalDissipated = 0
	t.massBorrowed = 0
	t.massReturned = 0
	t.outlet.reset()
}

// StatisticsString renders a human-readable summary for end-of-run reporting.
func (t *SlugTracker) StatisticsString() string {
	var b strings.Builder
	b.WriteString("=== Slug Tracking Statistics ===\n")
	fmt.Fprintf(&b, "Simulation time      : %.1f s\n", t.simulationTime)
	fmt.Fprintf(&b, "Active slugs         : %d\n", len(t.slugs))
	fmt.Fprintf(&b, "Total generated      : %d\n", t.totalGenerated)
	fmt.Fprintf(&b, "  exited at outlet   : %d\n", t.totalExited)
	fmt.Fprintf(&b, "  merged             : %d\n", t.totalMerged)
	fmt.Fprintf(&b, "  dissipated         : %d\n", t.totalDissipated)
	fmt.Fprintf(&b, "Inlet frequency      : %.4f Hz\n", t.slugFrequency)
	fmt.Fprintf(&b, "Outlet frequency     : %.4f Hz\n", t.OutletFrequency())
	fmt.Fprintf(&b, "Average slug length  : %.2f m\n", t.averageLength)
	fmt.Fprintf(&b, "Max slug length      : %.2f m\n", t.maxLength)
	fmt.Fprintf(&b, "Mass borrowed        : %.3f kg\n", t.massBorrowed)
	fmt.Fprintf(&b, "Mass returned        : %.3f kg\n", t.massReturned)
	fmt.Fprintf(&b, "Mass ledger error    : %.6f kg\n", t.MassConservationError())
	return b.String()
}
