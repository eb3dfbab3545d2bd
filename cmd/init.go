package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initOutPath string

// DefaultScenario is a horizontal air/water slug-flow case that produces slugs
// within a couple of minutes of simulated time. `twophase-sim init` writes it
// out as a starting point for new scenario files.
func DefaultScenario() *Scenario {
	return &Scenario{
		Pipe: PipeSpec{
			Length:    1000,
			Sections:  200,
			Diameter:  0.1,
			Roughness: 4.5e-5,
		},
		Fluids: FluidSpec{
			GasDensity:      1.2,
			LiquidDensity:   998,
			GasViscosity:    1.8e-5,
			LiquidViscosity: 1.0e-3,
			SurfaceTension:  0.072,
		},
		Inlet: InletSpec{
			GasVelocity:    3,
			LiquidVelocity: 1.5,
			LiquidHoldup:   0.4,
			Regime:         "slug",
		},
		Tracker: TrackerSpec{
			EnableInletGeneration: true,
			Seed:                  1,
		},
		TimeStep: 0.05,
		Duration: 120,
	}
}

// WriteScenario marshals a scenario to YAML at the given path, refusing to
// overwrite an existing file.
func WriteScenario(sc *Scenario, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", path)
	}
	data, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshaling scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scenario file: %w", err)
	}
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default scenario YAML file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := WriteScenario(DefaultScenario(), initOutPath); err != nil {
			logrus.Fatalf("init failed: %v", err)
		}
		logrus.Infof("Default scenario written to %s", initOutPath)
	},
}

func init() {
	initCmd.Flags().StringVar(&initOutPath, "output", "scenario.yaml", "Output path for the scenario file")
	rootCmd.AddCommand(initCmd)
}
