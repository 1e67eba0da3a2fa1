package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/oven-sim/oven-sim/sim"
)

var (
	// Global CLI flags
	logLevel string // Log verbosity level
	storeDir string // Calibration override directory
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "oven-sim",
	Short: "Transit-time calibration and simulation for three-belt drying ovens",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up global CLI flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store-dir", sim.DefaultStoreDir(), "Directory holding calibration overrides")
}

// parseFrequencies validates the three frequency flags through the engine's
// input contract: Hz or centi-Hz display values, anything non-positive or
// non-numeric rejected before model evaluation.
func parseFrequencies(raw1, raw2, raw3 string) (f1, f2, f3 float64) {
	var err error
	if f1, err = sim.ParseHz(raw1); err != nil {
		logrus.Fatalf("belt 1: %v", err)
	}
	if f2, err = sim.ParseHz(raw2); err != nil {
		logrus.Fatalf("belt 2: %v", err)
	}
	if f3, err = sim.ParseHz(raw3); err != nil {
		logrus.Fatalf("belt 3: %v", err)
	}
	return f1, f2, f3
}
