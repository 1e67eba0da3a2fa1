package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Calibration failure conditions. All of them are raised at calibration
// time only; prediction assumes a calibration already succeeded.
var (
	ErrMissingAnchorExperiment = errors.New("anchor experiment missing from dataset")
	ErrDegenerateDelta         = errors.New("degenerate frequency delta in anchor experiment")
	ErrNonPositiveScale        = errors.New("non-positive scale deriving anchors from regression ratios")
)

// DefaultReferenceIHM is the display-unit frequency (90.00 Hz) shared by
// the historical anchor experiments.
const DefaultReferenceIHM = 9000

// AnchorParams are the per-belt anchoring distances (min·Hz) plus a global
// offset (min). They drive the time allocation and thickness models, so the
// pair must always come from the same AnchorParams value. Replaced
// wholesale on recalibration, never mutated field by field.
type AnchorParams struct {
	K1 float64 `yaml:"k1"`
	K2 float64 `yaml:"k2"`
	K3 float64 `yaml:"k3"`
	B  float64 `yaml:"b"`
}

// DefaultAnchor returns the built-in anchoring distances, the values the
// historical A/B/C/D experiments produce through the direct
// difference-quotient construction.
func DefaultAnchor() AnchorParams {
	return AnchorParams{K1: 4725.0, K2: 5175.0, K3: 15862.5, B: -229.25}
}

// Eval predicts the total transit time in minutes.
func (p AnchorParams) Eval(f1, f2, f3 float64) float64 {
	f1, f2, f3 = ClampHz(f1), ClampHz(f2), ClampHz(f3)
	return p.B + p.K1/f1 + p.K2/f2 + p.K3/f3
}

// referenceTime locates the experiment with all three belts at the
// reference frequency and returns its observed transit time.
func referenceTime(exps []Experiment, refIHM float64) (float64, error) {
	for _, e := range exps {
		if e.F1 == refIHM && e.F2 == refIHM && e.F3 == refIHM {
			return e.TotalMinutes, nil
		}
	}
	return 0, fmt.Errorf("no experiment with all belts at reference %v: %w", refIHM, ErrMissingAnchorExperiment)
}

// FitAnchorDirect derives anchoring distances from the raw anchor
// experiments: for each axis it finds the record where the other two belts
// stay at the reference and computes Ki = (T − T_ref) / (1/f − 1/f_ref).
//
// The pairwise time differences are noisy and have been observed to invert
// the expected ordering between belts 1 and 2, so FitAnchorScaled is the
// canonical derivation; this one is kept as a diagnostic fallback.
func FitAnchorDirect(exps []Experiment, refIHM float64) (AnchorParams, error) {
	tRef, err := referenceTime(exps, refIHM)
	if err != nil {
		return AnchorParams{}, err
	}
	refHz := refIHM / 100.0

	kForAxis := func(axis int) (float64, error) {
		for _, e := range exps {
			freqs := [3]float64{e.F1, e.F2, e.F3}
			refCount := 0
			for _, f := range freqs {
				if f == refIHM {
					refCount++
				}
			}
			if refCount != 2 || freqs[axis] == refIHM {
				continue
			}
			fVar := freqs[axis] / 100.0
			delta := 1.0/fVar - 1.0/refHz
			if math.Abs(delta) <= 1e-12 {
				return 0, fmt.Errorf("belt %d: %w", axis+1, ErrDegenerateDelta)
			}
			return (e.TotalMinutes - tRef) / delta, nil
		}
		return 0, fmt.Errorf("belt %d: %w", axis+1, ErrMissingAnchorExperiment)
	}

	var k [3]float64
	for axis := 0; axis < 3; axis++ {
		if k[axis], err = kForAxis(axis); err != nil {
			return AnchorParams{}, err
		}
	}
	b := tRef - (k[0]+k[1]+k[2])/refHz
	return AnchorParams{K1: k[0], K2: k[1], K3: k[2], B: b}, nil
}

// FitAnchorScaled derives anchoring distances by rescaling the linear
// model's K-ratios so that evaluating at the all-reference triple
// reproduces the observed reference time exactly. It preserves the global
// regression's relative belt ordering instead of trusting noisy pairwise
// differences, which is why it is the canonical strategy.
func FitAnchorScaled(exps []Experiment, refIHM float64, ols OLSParams) (AnchorParams, error) {
	tRef, err := referenceTime(exps, refIHM)
	if err != nil {
		return AnchorParams{}, err
	}
	refHz := refIHM / 100.0

	sumLS := (ols.K1 + ols.K2 + ols.K3) / refHz
	if sumLS <= 0 {
		return AnchorParams{}, ErrNonPositiveScale
	}
	scale := tRef / sumLS

	p := AnchorParams{
		K1: ols.K1 * scale,
		K2: ols.K2 * scale,
		K3: ols.K3 * scale,
	}
	p.B = tRef - (p.K1+p.K2+p.K3)/refHz
	logrus.Debugf("scaled anchors: K=(%.2f, %.2f, %.2f) B=%.3g (T_ref=%.1fmin)",
		p.K1, p.K2, p.K3, p.B, tRef)
	return p, nil
}

// CalPoint is one user-supplied calibration sample: three frequencies
// (Hz or centi-Hz display values, auto-detected) and a measured total
// transit time in minutes.
type CalPoint struct {
	F1, F2, F3 float64
	T          float64
}

// FitAnchorFromPoints fits anchoring distances by least squares over n ≥ 4
// arbitrary samples. The 4-parameter system is underdetermined below four
// points and the fit is refused.
func FitAnchorFromPoints(points []CalPoint) (AnchorParams, error) {
	if len(points) < 4 {
		return AnchorParams{}, fmt.Errorf("anchor fit needs at least 4 points, got %d: %w",
			len(points), ErrUnderdetermined)
	}

	x := mat.NewDense(len(points), 4, nil)
	y := make([]float64, len(points))
	for i, p := range points {
		f1, f2, f3 := ClampHz(p.F1), ClampHz(p.F2), ClampHz(p.F3)
		x.SetRow(i, []float64{1.0 / f1, 1.0 / f2, 1.0 / f3, 1.0})
		y[i] = p.T
	}

	beta, err := solveLeastSquares(x, y)
	if err != nil {
		return AnchorParams{}, err
	}
	return AnchorParams{K1: beta[0], K2: beta[1], K3: beta[2], B: beta[3]}, nil
}

// FitAnchorFromReference builds anchoring distances from a single reference
// point: per-belt residence times ti at frequencies fi plus the measured
// total for that triple. Ki = ti·fi and B absorbs the residual, so the
// model reproduces the reference total exactly.
func FitAnchorFromReference(f1, f2, f3, t1, t2, t3, total float64) AnchorParams {
	f1, f2, f3 = ClampHz(f1), ClampHz(f2), ClampHz(f3)
	p := AnchorParams{K1: t1 * f1, K2: t2 * f2, K3: t3 * f3}
	p.B = total - (p.K1/f1 + p.K2/f2 + p.K3/f3)
	return p
}
