package sim

import "math"

// StagePlan is the per-belt slice of a simulation plan: drive frequency,
// residence duration, and the reference distance for the progress bar
// (min·Hz, so the bar advancing at f Hz completes after DurationMin).
type StagePlan struct {
	FrequencyHz float64
	DurationMin float64
	Distance    float64
}

// PlanResult is the full prediction snapshot for one frequency triple:
// the anchor-based stage plan the simulation runs against, plus the linear
// model's view for diagnostics. Created per run and replaced wholesale on
// recalculation.
type PlanResult struct {
	Stages       [3]StagePlan
	TotalMinutes float64 // anchor plan total (sum of stage durations)

	LSDurations       [3]float64 // per-belt Ki/fi under the linear model
	TotalModelMinutes float64    // linear model total
	ModelParams       OLSParams

	// Reconciliation ratios between the two views. AlphaAnchor rescales
	// anchor durations to the regression total; BetaLS does the same for
	// the raw regression parts.
	AlphaAnchor float64
	BetaLS      float64
}

// Valid reports whether the plan can drive a simulation run.
func (p PlanResult) Valid() bool {
	return p.TotalMinutes > 0
}

// Durations returns the three stage durations in minutes.
func (p PlanResult) Durations() [3]float64 {
	return [3]float64{p.Stages[0].DurationMin, p.Stages[1].DurationMin, p.Stages[2].DurationMin}
}

// ComputePlan builds the simulation plan for one frequency triple. Stage
// durations come from the anchor distances so each belt depends on its own
// frequency only; the regression model is evaluated alongside for the
// diagnostic totals.
func ComputePlan(f1, f2, f3 float64, anchor AnchorParams, ols OLSParams) PlanResult {
	f1, f2, f3 = ClampHz(f1), ClampHz(f2), ClampHz(f3)

	d1, d2, d3 := anchor.K1/f1, anchor.K2/f2, anchor.K3/f3
	totalAnchor := d1 + d2 + d3

	t1LS, t2LS, t3LS := ols.K1/f1, ols.K2/f2, ols.K3/f3
	totalLS := ols.B + t1LS + t2LS + t3LS

	alpha := math.NaN()
	if totalAnchor > 0 {
		alpha = totalLS / totalAnchor
	}
	beta := math.NaN()
	if sumLS := t1LS + t2LS + t3LS; sumLS > 0 {
		beta = totalLS / sumLS
	}

	return PlanResult{
		Stages: [3]StagePlan{
			{FrequencyHz: f1, DurationMin: d1, Distance: anchor.K1},
			{FrequencyHz: f2, DurationMin: d2, Distance: anchor.K2},
			{FrequencyHz: f3, DurationMin: d3, Distance: anchor.K3},
		},
		TotalMinutes:      totalAnchor,
		LSDurations:       [3]float64{t1LS, t2LS, t3LS},
		TotalModelMinutes: totalLS,
		ModelParams:       ols,
		AlphaAnchor:       alpha,
		BetaLS:            beta,
	}
}
