package sim

import "fmt"

// ModelKind selects which fitted prediction variant TotalTime evaluates.
// The variants are alternative strategies over the same dataset, not a
// hierarchy; call sites pick one explicitly.
type ModelKind int

const (
	ModelLinear ModelKind = iota
	ModelAnchor
	ModelSynergy
	ModelInterpolation
)

func (k ModelKind) String() string {
	switch k {
	case ModelLinear:
		return "linear"
	case ModelAnchor:
		return "anchor"
	case ModelSynergy:
		return "synergy"
	case ModelInterpolation:
		return "interpolation"
	default:
		return fmt.Sprintf("ModelKind(%d)", int(k))
	}
}

// Operating band for belt drive frequencies. Display values above
// ihmThreshold are centi-Hz and get divided by 100 before clamping.
const (
	MinHz        = 5.0
	MaxHz        = 99.0
	ihmThreshold = 200.0
)

// ClampHz normalizes a frequency input to the safe evaluation band:
// centi-Hz display values are converted to Hz, then the result is clamped
// to [MinHz, MaxHz]. Every model evaluates through this, so no raw input
// ever reaches a division.
func ClampHz(f float64) float64 {
	if f > ihmThreshold {
		f /= 100.0
	}
	if f < MinHz {
		return MinHz
	}
	if f > MaxHz {
		return MaxHz
	}
	return f
}

// Models bundles every fitted prediction variant for one dataset, along
// with the residual metrics reported by each fit.
type Models struct {
	OLS     OLSParams
	Anchor  AnchorParams
	Synergy SynergyParams
	Interp  InterpCoeffs

	LinearMetrics  FitMetrics
	SynergyMetrics FitMetrics
	InterpMetrics  FitMetrics
}

// FitAll fits every model variant over the experiment table. The anchor
// parameters use the canonical scaled-to-ratio derivation unless the caller
// has a persisted override (see Store.LoadAnchor).
func FitAll(exps []Experiment) (Models, error) {
	var m Models
	var err error

	if m.OLS, m.LinearMetrics, err = FitLinear(exps); err != nil {
		return Models{}, fmt.Errorf("linear fit: %w", err)
	}
	if m.Synergy, m.SynergyMetrics, err = FitSynergy(exps); err != nil {
		return Models{}, fmt.Errorf("synergy fit: %w", err)
	}
	if m.Interp, m.InterpMetrics, err = FitInterpolation(exps); err != nil {
		return Models{}, fmt.Errorf("interpolation fit: %w", err)
	}
	if m.Anchor, err = FitAnchorScaled(exps, DefaultReferenceIHM, m.OLS); err != nil {
		return Models{}, fmt.Errorf("anchor fit: %w", err)
	}
	return m, nil
}

// TotalTime predicts the end-to-end transit time in minutes using the
// requested model variant. Inputs may be Hz or centi-Hz display values.
func (m Models) TotalTime(kind ModelKind, f1, f2, f3 float64) (float64, error) {
	switch kind {
	case ModelLinear:
		return m.OLS.Eval(f1, f2, f3), nil
	case ModelAnchor:
		return m.Anchor.Eval(f1, f2, f3), nil
	case ModelSynergy:
		return m.Synergy.Eval(f1, f2, f3), nil
	case ModelInterpolation:
		return m.Interp.Eval(f1, f2, f3), nil
	default:
		return 0, fmt.Errorf("unknown model kind %d", int(kind))
	}
}
