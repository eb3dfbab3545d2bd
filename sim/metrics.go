// Tracks run-wide flow statistics for final reporting.

package sim

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates per-step observations over a simulation run: the slug
// population, the section-averaged holdup and the peak shear stresses seen by
// the closures. Useful for evaluating a scenario and debugging behavior over
// time.
type Metrics struct {
	Steps int

	PeakSlugCount        int
	PeakWallShear        float64 // max |τ_w| over the run (Pa)
	PeakInterfacialShear float64 // max |τ_i| over the run (Pa)

	slugCounts  []float64
	meanHoldups []float64
}

// NewMetrics returns an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordStep folds one timestep into the aggregates. maxWall and maxInterfacial
// are the largest shear magnitudes the closures produced this step.
func (m *Metrics) RecordStep(sections []*PipeSection, tracker *SlugTracker, maxWall, maxInterfacial float64) {
	m.Steps++

	if n := tracker.SlugCount(); n > m.PeakSlugCount {
		m.PeakSlugCount = n
	}
	if maxWall > m.PeakWallShear {
		m.PeakWallShear = maxWall
	}
	if maxInterfacial > m.PeakInterfacialShear {
		m.PeakInterfacialShear = maxInterfacial
	}

	holdup := 0.0
	for _, s := range sections {
		holdup += s.LiquidHoldup
	}
	if len(sections) > 0 {
		holdup /= float64(len(sections))
	}
	m.meanHoldups = append(m.meanHoldups, holdup)
	m.slugCounts = append(m.slugCounts, float64(tracker.SlugCount()))
}

// MeanHoldup is the time average of the section-averaged liquid holdup.
func (m *Metrics) MeanHoldup() float64 {
	if len(m.meanHoldups) == 0 {
		return 0
	}
	return stat.Mean(m.meanHoldups, nil)
}

// SlugCountQuantile returns the p-quantile (p in [0,1]) of the per-step active
// slug count.
func (m *Metrics) SlugCountQuantile(p float64) float64 {
	if len(m.slugCounts) == 0 {
		return 0
	}
	sorted := append([]float64(nil), m.slugCounts...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Summary renders the aggregates for end-of-run reporting.
func (m *Metrics) Summary() string {
	var b strings.Builder
	b.WriteString("=== Flow Metrics ===\n")
	fmt.Fprintf(&b, "Steps                  : %d\n", m.Steps)
	fmt.Fprintf(&b, "Mean holdup            : %.4f\n", m.MeanHoldup())
	fmt.Fprintf(&b, "Peak slug count        : %d\n", m.PeakSlugCount)
	fmt.Fprintf(&b, "Median slug count      : %.1f\n", m.SlugCountQuantile(0.5))
	fmt.Fprintf(&b, "Peak wall shear        : %.4g Pa\n", m.PeakWallShear)
	fmt.Fprintf(&b, "Peak interfacial shear : %.4g Pa\n", m.PeakInterfacialShear)
	return b.String()
}

// SaveHoldupProfile writes the final axial holdup profile as CSV
// (position, base holdup, effective holdup) for plotting.
func SaveHoldupProfile(sections []*PipeSection, fileName string) error {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating profile file %s: %w", fileName, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logrus.Errorf("Error closing profile file %s: %v", fileName, closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	fmt.Fprintln(writer, "position_m,holdup,effective_holdup")
	for _, s := range sections {
		fmt.Fprintf(writer, "%.3f,%.6f,%.6f\n", s.Position, s.LiquidHoldup, s.EffectiveLiquidHoldup())
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writing profile file %s: %w", fileName, err)
	}

	logrus.Debugf("Holdup profile written to '%s'", fileName)
	return nil
}
