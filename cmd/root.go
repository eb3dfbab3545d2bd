package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/twophase-sim/twophase-sim/sim"
)

var (
	// CLI flags for the run command
	scenarioPath  string  // Path to the YAML scenario file
	logLevel      string  // Log verbosity level
	timeStep      float64 // Override for the scenario time step (s)
	duration      float64 // Override for the scenario duration (s)
	holdupOutPath string  // Optional CSV output for the final holdup profile
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "twophase-sim",
	Short: "Transient two-phase pipe-flow closure and slug-tracking engine",
}

// runCmd steps a scenario through the closure/tracker loop and reports the
// slug statistics and mass ledger at the end.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a transient slug-tracking scenario",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("No scenario file provided. Exiting.")
		}
		scenario, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}
		if timeStep > 0 {
			scenario.TimeStep = timeStep
		}
		if duration > 0 {
			scenario.Duration = duration
		}

		logrus.Infof("Starting scenario: pipe %.0fm x %d sections, D=%.3fm, regime=%s",
			scenario.Pipe.Length, scenario.Pipe.Sections, scenario.Pipe.Diameter, scenario.Inlet.Regime)

		simulator := sim.NewSimulator(scenario.BuildSections(), scenario.TrackerConfig(), scenario.TimeStep)

		start := time.Now()
		simulator.Run(scenario.Duration)
		logrus.Infof("Scenario finished in %v", time.Since(start))

		logrus.Info("\n" + simulator.Metrics.Summary())
		logrus.Info("\n" + simulator.Tracker.StatisticsString())

		if holdupOutPath != "" {
			if err := sim.SaveHoldupProfile(simulator.Sections, holdupOutPath); err != nil {
				logrus.Fatalf("Unable to write holdup profile: %v", err)
			}
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to YAML scenario file")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	runCmd.Flags().Float64Var(&timeStep, "time-step", 0, "Override scenario time step (s)")
	runCmd.Flags().Float64Var(&duration, "duration", 0, "Override scenario duration (s)")
	runCmd.Flags().StringVar(&holdupOutPath, "holdup-output", "", "Write the final holdup profile CSV to this path")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
