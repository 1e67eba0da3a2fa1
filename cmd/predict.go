package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/oven-sim/oven-sim/sim"
)

var (
	predictF1      string
	predictF2      string
	predictF3      string
	predictH0      string
	predictWeights string
	predictDetails bool
)

// predictCmd evaluates every calibration model for one frequency triple and
// prints the full prediction snapshot.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict transit times for a frequency triple",
	Run: func(cmd *cobra.Command, args []string) {
		f1, f2, f3 := parseFrequencies(predictF1, predictF2, predictF3)
		h0, err := sim.ParseThickness(predictH0)
		if err != nil {
			logrus.Fatalf("entry thickness: %v", err)
		}

		models, err := sim.FitAll(sim.Dataset())
		if err != nil {
			logrus.Fatalf("calibration failed: %v", err)
		}

		store := sim.NewStore(storeDir)
		anchor, overridden := store.LoadAnchor()
		if overridden {
			logrus.Info("using persisted anchor calibration override")
		}

		plan := sim.ComputePlan(f1, f2, f3, anchor, models.OLS)

		fmt.Printf("Frequencies: %.2f / %.2f / %.2f Hz\n\n", f1, f2, f3)

		fmt.Println("Predicted total transit time:")
		totalAnchor := anchor.Eval(f1, f2, f3)
		totalSynergy := models.Synergy.Eval(f1, f2, f3)
		totalInterp := models.Interp.Eval(f1, f2, f3)
		fmt.Printf("  anchor:        %s\n", sim.FmtMinutes(totalAnchor))
		fmt.Printf("  linear:        %s  (MAE %.1fmin, R² %.3f)\n",
			sim.FmtMinutes(plan.TotalModelMinutes), models.LinearMetrics.MAE, models.LinearMetrics.R2)
		fmt.Printf("  synergy:       %s  (MAE %.1fmin)\n",
			sim.FmtMinutes(totalSynergy), models.SynergyMetrics.MAE)
		fmt.Printf("  interpolation: %s  (MAE %.2g)\n",
			sim.FmtMinutes(totalInterp), models.InterpMetrics.MAE)

		fmt.Println("\nPer-belt plan (anchor distances):")
		for i, st := range plan.Stages {
			fmt.Printf("  belt %d: %.2f Hz  %s\n", i+1, st.FrequencyHz, sim.FmtMinutes(st.DurationMin))
		}
		fmt.Printf("  plan total: %s\n", sim.FmtMinutes(plan.TotalMinutes))

		t1, t2, t3 := sim.Split(plan.TotalModelMinutes, f1, f2, f3, anchor)
		fmt.Println("\nNormalized split of the regression total:")
		fmt.Printf("  belt 1: %s   belt 2: %s   belt 3: %s\n",
			sim.FmtMinutes(t1), sim.FmtMinutes(t2), sim.FmtMinutes(t3))

		c1, c2, c3 := sim.IndependentParts(f1, f2, f3, anchor)
		corr := sim.OverlapCorrection(plan.TotalModelMinutes, f1, f2, f3, anchor)
		fmt.Println("\nIndependent contributions (do not sum to the total):")
		fmt.Printf("  belt 1: %s   belt 2: %s   belt 3: %s   correction: %+.1fmin\n",
			sim.FmtMinutes(c1), sim.FmtMinutes(c2), sim.FmtMinutes(c3), corr)

		th := sim.ThicknessAndAccum(f1, f2, f3, h0, anchor)
		fmt.Println("\nLayer thickness:")
		fmt.Printf("  belt 1: %.2fcm   belt 2: %.2fcm (%+.1f%%)   belt 3: %.2fcm (%+.1f%%)\n",
			th.H1Cm, th.H2Cm, th.A12Pct, th.H3Cm, th.A23Pct)

		if speeds, ok := store.LoadSpeed(); ok {
			fmt.Println("\nBelt speeds (calibrated):")
			fmt.Printf("  belt 1: %.4f m/s   belt 2: %.4f m/s   belt 3: %.4f m/s\n",
				speeds.T1.At(f1), speeds.T2.At(f2), speeds.T3.At(f3))
		}

		if predictDetails {
			printSegmentDetails(plan)
			printSegmentSchedule(plan)
			printMaintenanceReference(f1, f2, f3)
		}
	},
}

// printSegmentDetails prints the per-segment residence breakdown of each belt.
func printSegmentDetails(plan sim.PlanResult) {
	fmt.Println("\nSegment breakdown:")
	for i, st := range plan.Stages {
		b, err := sim.Breakdown(i+1, st.DurationMin*60.0)
		if err != nil {
			logrus.Warnf("belt %d breakdown: %v", i+1, err)
			continue
		}
		fmt.Printf("  belt %d: %.1fs/m  pre %s  transfer %s  heating %s",
			i+1, b.SecPerMeter, sim.FmtHMS(b.PreSec), sim.FmtHMS(b.TransferSec), sim.FmtHMS(b.ChauffeSec))
		for j, c := range b.CellSecs {
			fmt.Printf("  cell%d %s", j+1, sim.FmtHMS(c))
		}
		fmt.Println()
	}
}

// printSegmentSchedule prints the weighted per-segment time table along
// with the cumulative progress markers for each belt.
func printSegmentSchedule(plan sim.PlanResult) {
	weights := sim.LoadSegmentWeights(predictWeights)
	d := plan.Durations()
	blocks := sim.SegmentSchedule(d[0], d[1], d[2], weights)

	fmt.Println("\nSegment schedule:")
	for i, block := range blocks {
		fmt.Printf("  belt %d:", i+1)
		for _, seg := range block {
			fmt.Printf("  %s %s", seg.Name, sim.FmtMinutes(seg.Minutes))
		}
		fmt.Println()
		markers := sim.CumulativeMarkers(block, d[i])
		fmt.Printf("    markers:")
		for _, m := range markers {
			fmt.Printf(" %.0f%%", m*100)
		}
		fmt.Println()
	}
}

// printMaintenanceReference prints the spreadsheet reference times.
func printMaintenanceReference(f1, f2, f3 float64) {
	m := sim.ComputeMaintenanceTimes(f1, f2, f3)
	fmt.Println("\nMaintenance reference (Lconv·C/UI):")
	fmt.Printf("  belt 1: %s   belt 2: %s   belt 3: %s   total: %s\n",
		sim.FmtHMS(m.T1Sec), sim.FmtHMS(m.T2Sec), sim.FmtHMS(m.T3Sec), sim.FmtHMS(m.TotalSec))
}

func init() {
	predictCmd.Flags().StringVar(&predictF1, "f1", "40.00", "Belt 1 frequency (Hz or centi-Hz display value)")
	predictCmd.Flags().StringVar(&predictF2, "f2", "50.00", "Belt 2 frequency (Hz or centi-Hz display value)")
	predictCmd.Flags().StringVar(&predictF3, "f3", "99.99", "Belt 3 frequency (Hz or centi-Hz display value)")
	predictCmd.Flags().StringVar(&predictH0, "h0", "", "Entry layer thickness in cm (default 2.0)")
	predictCmd.Flags().StringVar(&predictWeights, "weights", "", "Segment weights YAML file (built-in defaults when absent)")
	predictCmd.Flags().BoolVar(&predictDetails, "details", false, "Print per-segment residence breakdown")

	rootCmd.AddCommand(predictCmd)
}
