package sim

// Split distributes a predicted total across the three belts using weights
// proportional to Ki/fi from the supplied anchor parameters. The parts are
// normalized so t1+t2+t3 equals the total exactly; a non-positive weight
// sum falls back to an equal three-way split instead of propagating NaN.
func Split(total, f1, f2, f3 float64, anchor AnchorParams) (t1, t2, t3 float64) {
	f1, f2, f3 = ClampHz(f1), ClampHz(f2), ClampHz(f3)
	w1, w2, w3 := anchor.K1/f1, anchor.K2/f2, anchor.K3/f3
	sum := w1 + w2 + w3
	if sum <= 0 {
		return total / 3.0, total / 3.0, total / 3.0
	}
	return total * (w1 / sum), total * (w2 / sum), total * (w3 / sum)
}

// IndependentParts returns the raw per-belt contributions Ki/fi. These are
// a diagnostic view: they do NOT sum to the headline total, and callers
// must present them separately from the normalized split. The discrepancy
// is reported through OverlapCorrection rather than hidden.
func IndependentParts(f1, f2, f3 float64, anchor AnchorParams) (c1, c2, c3 float64) {
	f1, f2, f3 = ClampHz(f1), ClampHz(f2), ClampHz(f3)
	return anchor.K1 / f1, anchor.K2 / f2, anchor.K3 / f3
}

// OverlapCorrection is the delta between the headline total and the sum of
// the independent contributions.
func OverlapCorrection(total, f1, f2, f3 float64, anchor AnchorParams) float64 {
	c1, c2, c3 := IndependentParts(f1, f2, f3, anchor)
	return total - (c1 + c2 + c3)
}
