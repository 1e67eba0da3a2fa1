package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpeedParams map a belt drive frequency to a linear speed: v = A·f + B,
// with v in m/s and f in Hz. They only feed display conversions and never
// affect the transit-time models.
type SpeedParams struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

// At returns the belt speed in m/s for a drive frequency.
func (p SpeedParams) At(hz float64) float64 {
	return p.A*ClampHz(hz) + p.B
}

// SpeedSet holds one SpeedParams per belt.
type SpeedSet struct {
	T1 SpeedParams `yaml:"t1"`
	T2 SpeedParams `yaml:"t2"`
	T3 SpeedParams `yaml:"t3"`
}

// SpeedPoint is one measured (frequency, speed) calibration sample.
type SpeedPoint struct {
	Hz           float64
	MetersPerSec float64
}

// SpeedPointFromMeterTime builds a sample from the measured time to travel
// one meter.
func SpeedPointFromMeterTime(hz, secPerMeter float64) (SpeedPoint, error) {
	if secPerMeter <= 0 {
		return SpeedPoint{}, fmt.Errorf("seconds per meter must be positive, got %v", secPerMeter)
	}
	return SpeedPoint{Hz: hz, MetersPerSec: 1.0 / secPerMeter}, nil
}

// FitSpeed fits v = A·f + B over the samples. A single point yields a
// through-origin slope; two or more run through the least-squares solver.
func FitSpeed(points []SpeedPoint) (SpeedParams, error) {
	switch len(points) {
	case 0:
		return SpeedParams{}, fmt.Errorf("speed fit: %w", ErrUnderdetermined)
	case 1:
		f := ClampHz(points[0].Hz)
		return SpeedParams{A: points[0].MetersPerSec / f}, nil
	}

	x := mat.NewDense(len(points), 2, nil)
	y := make([]float64, len(points))
	for i, p := range points {
		x.SetRow(i, []float64{ClampHz(p.Hz), 1.0})
		y[i] = p.MetersPerSec
	}
	beta, err := solveLeastSquares(x, y)
	if err != nil {
		return SpeedParams{}, err
	}
	return SpeedParams{A: beta[0], B: beta[1]}, nil
}
