package sim

// Spreadsheet coefficients for the maintenance reference, one per belt,
// taken from the "T(1m) = C/UI" header row. The reference times are
// computed directly as Lconv·C/UI, never through an intermediate m/s
// speed, so the spreadsheet values are reproduced without rounding drift.
const (
	maintC1 = 1330585.39
	maintC2 = 916784.29
	maintC3 = 6911721.07
)

// Panel display band for the maintenance reference, in centi-Hz.
const (
	minUI = 500.0
	maxUI = 9999.0
)

// MaintenanceTimes are the per-belt maintenance reference times in seconds
// plus the clamped panel values they were computed from.
type MaintenanceTimes struct {
	T1Sec, T2Sec, T3Sec float64
	TotalSec            float64
	UI1, UI2, UI3       float64 // centi-Hz after clamping
}

// TotalMin returns the total reference time in minutes.
func (m MaintenanceTimes) TotalMin() float64 {
	return m.TotalSec / 60.0
}

// ClampUI normalizes a frequency input to the panel band in centi-Hz:
// values at or below ihmThreshold are Hz and get scaled by 100, then the
// result clamps to [minUI, maxUI]. The inverse convention of ClampHz, for
// the spreadsheet formulas that divide by the panel value directly.
func ClampUI(v float64) float64 {
	if v <= ihmThreshold {
		v *= 100.0
	}
	if v < minUI {
		return minUI
	}
	if v > maxUI {
		return maxUI
	}
	return v
}

// ComputeMaintenanceTimes returns the spreadsheet-exact reference times
// t_i = Lconv_i·C_i/UI_i per belt. The conveying lengths come from the
// belt geometry table, so geometry and maintenance can never disagree.
func ComputeMaintenanceTimes(f1, f2, f3 float64) MaintenanceTimes {
	m := MaintenanceTimes{
		UI1: ClampUI(f1),
		UI2: ClampUI(f2),
		UI3: ClampUI(f3),
	}
	m.T1Sec = (beltGeoms[0].ConvoyCm / 100.0) * maintC1 / m.UI1
	m.T2Sec = (beltGeoms[1].ConvoyCm / 100.0) * maintC2 / m.UI2
	m.T3Sec = (beltGeoms[2].ConvoyCm / 100.0) * maintC3 / m.UI3
	m.TotalSec = m.T1Sec + m.T2Sec + m.T3Sec
	return m
}
