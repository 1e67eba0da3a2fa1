package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/oven-sim/oven-sim/sim"
)

var (
	simF1       string
	simF2       string
	simF3       string
	simTick     time.Duration
	simScale    float64
	simRampMin  float64
	feedStops   []float64
	feedResumes []float64
	pauseAtMin  float64
	pauseForSec float64
)

// simulateCmd runs the tick-driven transit simulation against a host-owned
// ticker. The engine never sleeps itself: this command owns the timer and
// calls Clock.Advance with the (optionally time-scaled) current instant.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the transit simulation for a frequency triple",
	Run: func(cmd *cobra.Command, args []string) {
		f1, f2, f3 := parseFrequencies(simF1, simF2, simF3)
		cfg := sim.NewRunConfig(simTick, simScale, simRampMin, 0)

		models, err := sim.FitAll(sim.Dataset())
		if err != nil {
			logrus.Fatalf("calibration failed: %v", err)
		}
		store := sim.NewStore(storeDir)
		anchor, _ := store.LoadAnchor()
		speeds, _ := store.LoadSpeed()
		plan := sim.ComputePlan(f1, f2, f3, anchor, models.OLS)

		clock := sim.NewClock()
		tracker := sim.NewGapTracker()
		timeline := sim.NewFeedTimeline(cfg.RampMinutes)

		now := time.Now()
		if err := clock.Start(plan, now); err != nil {
			logrus.Fatalf("cannot start simulation: %v", err)
		}
		// Feed starts fully on.
		timeline.Reset(0, 1.0, true)

		logrus.Infof("simulating %.1fmin of transit (tick %v, time scale %.0fx)",
			plan.TotalMinutes, cfg.TickPeriod, cfg.TimeScale)

		stops := append([]float64(nil), feedStops...)
		resumes := append([]float64(nil), feedResumes...)
		pauseDone := false

		ticker := time.NewTicker(cfg.TickPeriod)
		defer ticker.Stop()

		virtual := now
		for range ticker.C {
			virtual = virtual.Add(time.Duration(float64(cfg.TickPeriod) * cfg.TimeScale))

			snap, notes := clock.Advance(virtual)
			// All per-tick reads below share this simulation time so the
			// overlays stay in sync with the progress bar.
			tMin := clock.SimMinutes(virtual)

			if scriptedPauseDue(pauseDone, tMin, pauseAtMin, pauseForSec) {
				pauseDone = true
				if err := clock.Pause(virtual); err == nil {
					logrus.Infof("paused for %.0fs at t=%.2fmin", pauseForSec, tMin)
					virtual = virtual.Add(time.Duration(pauseForSec * float64(time.Second)))
					_ = clock.Resume(virtual)
				}
			}

			applyScriptedFeed(clock, tracker, timeline, tMin, &stops, &resumes)

			for _, n := range notes {
				logrus.Infof("notification: %s", n)
			}

			holes := tracker.HolesAt(tMin, plan)
			alpha := timeline.AlphaAt(tMin)
			printTick(snap, tMin, alpha, holes, speeds)

			if snap.State == sim.StateCompleted {
				logrus.Info("Simulation complete.")
				return
			}
		}
	},
}

// applyScriptedFeed fires any --feed-stop / --feed-resume marks whose
// simulation time has been reached. A mark arriving while the run is not
// active is a misuse warning and leaves all state unchanged.
func applyScriptedFeed(clock *sim.Clock, tracker *sim.GapTracker, timeline *sim.FeedTimeline,
	tMin float64, stops, resumes *[]float64) {

	for len(*stops) > 0 && tMin >= (*stops)[0] {
		mark := (*stops)[0]
		*stops = (*stops)[1:]
		if clock.State() != sim.StateRunning {
			logrus.Warnf("feed stop at %.1fmin ignored: no running simulation", mark)
			continue
		}
		if tracker.Stop(tMin) {
			timeline.SetTarget(false, tMin)
		}
	}
	for len(*resumes) > 0 && tMin >= (*resumes)[0] {
		mark := (*resumes)[0]
		*resumes = (*resumes)[1:]
		if clock.State() != sim.StateRunning {
			logrus.Warnf("feed resume at %.1fmin ignored: no running simulation", mark)
			continue
		}
		if tracker.Resume(tMin) {
			timeline.SetTarget(true, tMin)
		}
	}
}

// scriptedPauseDue reports whether the one-shot --pause-at/--pause-for
// pause should fire at tMin. A zero pause-at or pause-for disables it.
func scriptedPauseDue(pauseDone bool, tMin, atMin, forSec float64) bool {
	if pauseDone || atMin <= 0 || forSec <= 0 {
		return false
	}
	return tMin >= atMin
}

// printTick renders one progress line plus any visible voids. The m/s
// reading appears only when a speed calibration is persisted.
func printTick(snap sim.Snapshot, tMin, alpha float64, holes [3][]sim.Interval, speeds *sim.SpeedSet) {
	if snap.State == sim.StateCompleted {
		fmt.Printf("t=%7.2fmin  completed\n", tMin)
		return
	}
	mps := ""
	if speeds != nil {
		p := [3]sim.SpeedParams{speeds.T1, speeds.T2, speeds.T3}[snap.StageIdx]
		mps = fmt.Sprintf(" (%.3f m/s)", p.At(snap.SpeedHz))
	}
	fmt.Printf("t=%7.2fmin  belt %d  %5.1f%%  speed %.2fHz%s  %s / %s  remaining %s  fill %.0f%%\n",
		tMin, snap.StageIdx+1, snap.Progress*100, snap.SpeedHz, mps,
		sim.FmtHMS(snap.Elapsed), sim.FmtHMS(snap.Duration),
		sim.FmtHMS(snap.Remaining), alpha*100)
	for belt, ivs := range holes {
		for _, iv := range ivs {
			fmt.Printf("    void on belt %d: [%.1f, %.1f] (width %.1f)\n", belt+1, iv.X0, iv.X1, iv.Width())
		}
	}
}

func init() {
	simulateCmd.Flags().StringVar(&simF1, "f1", "40.00", "Belt 1 frequency (Hz or centi-Hz display value)")
	simulateCmd.Flags().StringVar(&simF2, "f2", "50.00", "Belt 2 frequency (Hz or centi-Hz display value)")
	simulateCmd.Flags().StringVar(&simF3, "f3", "99.99", "Belt 3 frequency (Hz or centi-Hz display value)")
	simulateCmd.Flags().DurationVar(&simTick, "tick", sim.DefaultTickPeriod, "Host tick period")
	simulateCmd.Flags().Float64Var(&simScale, "time-scale", 60.0, "Simulated seconds per wall-clock second")
	simulateCmd.Flags().Float64Var(&simRampMin, "ramp", sim.DefaultRampMinutes, "Feed fill/drain ramp duration (minutes)")
	simulateCmd.Flags().Float64SliceVar(&feedStops, "feed-stop", nil, "Simulation minutes at which the feed stops")
	simulateCmd.Flags().Float64SliceVar(&feedResumes, "feed-resume", nil, "Simulation minutes at which the feed resumes")
	simulateCmd.Flags().Float64Var(&pauseAtMin, "pause-at", 0, "Simulation minute at which to pause once (0 disables)")
	simulateCmd.Flags().Float64Var(&pauseForSec, "pause-for", 0, "Pause length in seconds (0 disables the scripted pause)")

	rootCmd.AddCommand(simulateCmd)
}
