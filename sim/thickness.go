package sim

import "math"

// ThicknessReport estimates the material layer on each belt from the entry
// thickness and per-belt throughput capacities.
type ThicknessReport struct {
	H1Cm, H2Cm, H3Cm float64 // absolute layer heights (cm)
	A12X, A23X       float64 // height ratio between consecutive belts
	A12Pct, A23Pct   float64 // (ratio − 1)·100; >0 means the downstream belt accumulates
}

// ThicknessAndAccum derives per-belt layer heights using the
// conservation-of-throughput heuristic: capacity_i = f_i/K_i, and a higher
// downstream capacity thins the layer while a lower one thickens it.
//
// The anchor coefficients MUST be the same value driving Split; mixing
// coefficient sources between the allocator and the thickness model breaks
// the reconciliation shown to operators.
func ThicknessAndAccum(f1, f2, f3, h0Cm float64, anchor AnchorParams) ThicknessReport {
	f1, f2, f3 = ClampHz(f1), ClampHz(f2), ClampHz(f3)

	u1 := capacity(f1, anchor.K1)
	u2 := capacity(f2, anchor.K2)
	u3 := capacity(f3, anchor.K3)

	r12 := ratio(u1, u2)
	r23 := ratio(u2, u3)
	r13 := ratio(u1, u3)

	return ThicknessReport{
		H1Cm:   h0Cm,
		H2Cm:   h0Cm * r12,
		H3Cm:   h0Cm * r13,
		A12X:   r12,
		A23X:   r23,
		A12Pct: (r12 - 1.0) * 100.0,
		A23Pct: (r23 - 1.0) * 100.0,
	}
}

func capacity(f, k float64) float64 {
	if k <= 0 {
		return math.Inf(1)
	}
	return f / k
}

// ratio recovers locally from a degenerate denominator: an infinite or
// zero downstream capacity flags the layer as infinite rather than failing.
func ratio(up, down float64) float64 {
	if down <= 0 || math.IsInf(up, 1) {
		return math.Inf(1)
	}
	if math.IsInf(down, 1) {
		return 0
	}
	return up / down
}
