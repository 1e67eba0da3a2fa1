package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/oven-sim/oven-sim/sim"
)

var (
	calRefFreqs []string
	calRefTimes []float64
	calRefTotal float64
	calPoints   []string
	calBelt     int
	speedPoints []string
)

// calibrateCmd groups the explicit "apply calibration" actions. Overrides
// are written to the store only here; prediction and simulation never save.
var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Fit and persist calibration overrides",
}

// calibrateAnchorCmd derives anchor distances from a single reference
// point: per-belt residence times plus the measured total.
var calibrateAnchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Apply an anchor calibration from one reference measurement",
	Run: func(cmd *cobra.Command, args []string) {
		if len(calRefFreqs) != 3 || len(calRefTimes) != 3 {
			logrus.Fatalf("need exactly 3 reference frequencies and 3 reference times")
		}
		f1, f2, f3 := parseFrequencies(calRefFreqs[0], calRefFreqs[1], calRefFreqs[2])
		if calRefTotal <= 0 {
			logrus.Fatalf("reference total must be positive minutes")
		}

		anchor := sim.FitAnchorFromReference(f1, f2, f3,
			calRefTimes[0], calRefTimes[1], calRefTimes[2], calRefTotal)
		saveAnchor(anchor)
	},
}

// calibrateAnchorPointsCmd fits anchor distances by least squares over at
// least four full measurements.
var calibrateAnchorPointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Fit anchor distances from measured (f1,f2,f3,T) samples",
	Run: func(cmd *cobra.Command, args []string) {
		points := make([]sim.CalPoint, 0, len(calPoints))
		for _, raw := range calPoints {
			p, err := parseCalPoint(raw)
			if err != nil {
				logrus.Fatalf("point %q: %v", raw, err)
			}
			points = append(points, p)
		}
		anchor, err := sim.FitAnchorFromPoints(points)
		if err != nil {
			logrus.Fatalf("anchor fit: %v", err)
		}
		saveAnchor(anchor)
	},
}

// calibrateSpeedCmd fits one belt's frequency→speed line from measured
// (Hz, m/s) samples.
var calibrateSpeedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Fit a belt's frequency-to-speed line from (hz,m/s) samples",
	Run: func(cmd *cobra.Command, args []string) {
		if calBelt < 1 || calBelt > 3 {
			logrus.Fatalf("belt must be 1..3, got %d", calBelt)
		}
		points := make([]sim.SpeedPoint, 0, len(speedPoints))
		for _, raw := range speedPoints {
			p, err := parseSpeedPoint(raw)
			if err != nil {
				logrus.Fatalf("point %q: %v", raw, err)
			}
			points = append(points, p)
		}
		params, err := sim.FitSpeed(points)
		if err != nil {
			logrus.Fatalf("speed fit: %v", err)
		}

		store := sim.NewStore(storeDir)
		set, _ := store.LoadSpeed()
		if set == nil {
			set = &sim.SpeedSet{}
		}
		switch calBelt {
		case 1:
			set.T1 = params
		case 2:
			set.T2 = params
		case 3:
			set.T3 = params
		}
		if err := store.SaveSpeed(*set); err != nil {
			logrus.Fatalf("cannot save speed calibration: %v", err)
		}
		fmt.Printf("belt %d speed: v = %.5f·f %+.5f m/s (saved)\n", calBelt, params.A, params.B)
	},
}

// calibrateResetCmd removes every persisted override.
var calibrateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all persisted calibration overrides",
	Run: func(cmd *cobra.Command, args []string) {
		if err := sim.NewStore(storeDir).ResetOverrides(); err != nil {
			logrus.Fatalf("cannot reset overrides: %v", err)
		}
		fmt.Println("calibration overrides removed; built-in defaults apply")
	},
}

// calibrateShowCmd prints the active anchor and the dataset fits.
var calibrateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active calibration and dataset fit quality",
	Run: func(cmd *cobra.Command, args []string) {
		models, err := sim.FitAll(sim.Dataset())
		if err != nil {
			logrus.Fatalf("calibration failed: %v", err)
		}
		store := sim.NewStore(storeDir)
		anchor, overridden := store.LoadAnchor()

		source := "built-in defaults"
		if overridden {
			source = "persisted override"
		}
		fmt.Printf("active anchor (%s): K1=%.1f K2=%.1f K3=%.1f B=%.2f\n",
			source, anchor.K1, anchor.K2, anchor.K3, anchor.B)
		fmt.Printf("linear:        K=(%.1f, %.1f, %.1f) B=%.2f  MAE %.1fmin  RMSE %.1fmin  R² %.4f\n",
			models.OLS.K1, models.OLS.K2, models.OLS.K3, models.OLS.B,
			models.LinearMetrics.MAE, models.LinearMetrics.RMSE, models.LinearMetrics.R2)
		fmt.Printf("synergy:       K=(%.1f, %.1f, %.1f) S=%.0f B=%.2f  MAE %.1fmin\n",
			models.Synergy.K1, models.Synergy.K2, models.Synergy.K3, models.Synergy.S,
			models.Synergy.B, models.SynergyMetrics.MAE)
		fmt.Printf("interpolation: MAE %.3g  max residual %.3g\n",
			models.InterpMetrics.MAE, models.InterpMetrics.MaxAbs)
		fmt.Printf("scaled anchor: K=(%.1f, %.1f, %.1f) B=%.3g\n",
			models.Anchor.K1, models.Anchor.K2, models.Anchor.K3, models.Anchor.B)

		if speeds, ok := store.LoadSpeed(); ok {
			for i, p := range [3]sim.SpeedParams{speeds.T1, speeds.T2, speeds.T3} {
				fmt.Printf("speed belt %d:  v = %.5f·f %+.5f m/s\n", i+1, p.A, p.B)
			}
		} else {
			fmt.Println("speed: no calibration persisted (m/s display disabled)")
		}
	},
}

func saveAnchor(anchor sim.AnchorParams) {
	if err := sim.NewStore(storeDir).SaveAnchor(anchor); err != nil {
		logrus.Fatalf("cannot save anchor calibration: %v", err)
	}
	fmt.Printf("anchor saved: K1=%.1f K2=%.1f K3=%.1f B=%.2f\n",
		anchor.K1, anchor.K2, anchor.K3, anchor.B)
}

// parseCalPoint parses "f1,f2,f3,T" with T in minutes.
func parseCalPoint(raw string) (sim.CalPoint, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return sim.CalPoint{}, fmt.Errorf("want f1,f2,f3,T, got %d fields", len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return sim.CalPoint{}, err
		}
		vals[i] = v
	}
	if vals[0] <= 0 || vals[1] <= 0 || vals[2] <= 0 || vals[3] <= 0 {
		return sim.CalPoint{}, fmt.Errorf("all fields must be positive")
	}
	return sim.CalPoint{F1: vals[0], F2: vals[1], F3: vals[2], T: vals[3]}, nil
}

// parseSpeedPoint parses "hz,mps".
func parseSpeedPoint(raw string) (sim.SpeedPoint, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return sim.SpeedPoint{}, fmt.Errorf("want hz,m/s, got %d fields", len(parts))
	}
	hz, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return sim.SpeedPoint{}, err
	}
	mps, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return sim.SpeedPoint{}, err
	}
	if hz <= 0 || mps <= 0 {
		return sim.SpeedPoint{}, fmt.Errorf("both fields must be positive")
	}
	return sim.SpeedPoint{Hz: hz, MetersPerSec: mps}, nil
}

func init() {
	calibrateAnchorCmd.Flags().StringSliceVar(&calRefFreqs, "ref-freqs", nil, "Reference frequencies f1,f2,f3 (Hz or centi-Hz)")
	calibrateAnchorCmd.Flags().Float64SliceVar(&calRefTimes, "ref-times", nil, "Per-belt residence times t1,t2,t3 (minutes)")
	calibrateAnchorCmd.Flags().Float64Var(&calRefTotal, "total", 0, "Measured total transit time (minutes)")

	calibrateAnchorPointsCmd.Flags().StringArrayVar(&calPoints, "point", nil, "Measured sample f1,f2,f3,T (repeatable, need ≥4)")

	calibrateSpeedCmd.Flags().IntVar(&calBelt, "belt", 0, "Belt index 1..3")
	calibrateSpeedCmd.Flags().StringArrayVar(&speedPoints, "point", nil, "Measured sample hz,m/s (repeatable)")

	calibrateCmd.AddCommand(calibrateAnchorCmd)
	calibrateCmd.AddCommand(calibrateAnchorPointsCmd)
	calibrateCmd.AddCommand(calibrateSpeedCmd)
	calibrateCmd.AddCommand(calibrateResetCmd)
	calibrateCmd.AddCommand(calibrateShowCmd)
	rootCmd.AddCommand(calibrateCmd)
}
