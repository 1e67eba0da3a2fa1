package sim

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrFitFailed indicates the SVD factorization of a design matrix did not
// converge. With finite inputs this should never happen in practice.
var ErrFitFailed = errors.New("least-squares factorization failed")

// FitMetrics reports residual statistics for a fitted model.
type FitMetrics struct {
	MAE    float64 // mean absolute error (minutes)
	RMSE   float64 // root-mean-square error (minutes)
	R2     float64 // coefficient of determination, NaN when y is constant
	MaxAbs float64 // largest absolute residual (minutes)
}

// solveLeastSquares solves X·β ≈ y through the SVD pseudo-inverse,
// β = V·Σ⁺·Uᵀ·y. Singular values below a relative tolerance are truncated
// so the solve stays stable when feature columns are near-collinear, which
// the normal-equations route would not tolerate.
func solveLeastSquares(x *mat.Dense, y []float64) ([]float64, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return nil, errors.New("design matrix and observation vector disagree on row count")
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, ErrFitFailed
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	tol := 0.0
	if len(s) > 0 {
		tol = 1e-12 * s[0]
	}

	beta := make([]float64, cols)
	for j := range s {
		if s[j] <= tol {
			continue
		}
		var dot float64
		for i := range y {
			dot += u.At(i, j) * y[i]
		}
		dot /= s[j]
		for k := 0; k < cols; k++ {
			beta[k] += v.At(k, j) * dot
		}
	}
	return beta, nil
}

// residualMetrics evaluates X·β against y and summarizes the residuals.
func residualMetrics(x *mat.Dense, y, beta []float64) FitMetrics {
	n := len(y)
	if n == 0 {
		return FitMetrics{R2: math.NaN()}
	}

	var sumAbs, sumSq, maxAbs, mean float64
	resid := make([]float64, n)
	for i := range y {
		var yhat float64
		for j := range beta {
			yhat += x.At(i, j) * beta[j]
		}
		resid[i] = y[i] - yhat
		sumAbs += math.Abs(resid[i])
		sumSq += resid[i] * resid[i]
		maxAbs = math.Max(maxAbs, math.Abs(resid[i]))
		mean += y[i]
	}
	mean /= float64(n)

	var ssTot float64
	for i := range y {
		ssTot += (y[i] - mean) * (y[i] - mean)
	}
	r2 := math.NaN()
	if ssTot > 0 {
		r2 = 1.0 - sumSq/ssTot
	}

	return FitMetrics{
		MAE:    sumAbs / float64(n),
		RMSE:   math.Sqrt(sumSq / float64(n)),
		R2:     r2,
		MaxAbs: maxAbs,
	}
}
