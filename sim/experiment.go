package sim

// Experiment is one historical transit measurement: the three belt drive
// frequencies as entered on the operator panel (centi-Hz display units,
// e.g. 4000 = 40.00 Hz) and the observed end-to-end transit time in minutes.
type Experiment struct {
	F1, F2, F3   float64 // centi-Hz display units
	TotalMinutes float64
}

// HzTriple returns the experiment frequencies converted to Hz.
func (e Experiment) HzTriple() (f1, f2, f3 float64) {
	return e.F1 / 100.0, e.F2 / 100.0, e.F3 / 100.0
}

// HM converts an hours+minutes reading into minutes.
func HM(hours, minutes float64) float64 {
	return 60*hours + minutes
}

// Dataset returns the fixed historical experiment table used for all
// calibration fits. The table deliberately contains one duplicated record
// and four anchor records around the 9000 reference point: one with all
// three belts at the reference and three with a single belt varied.
func Dataset() []Experiment {
	return []Experiment{
		{4000, 5000, 9000, HM(2, 36)},
		{4000, 5000, 8000, HM(3, 11)},
		{2500, 3500, 8500, HM(3, 26)},
		{8500, 4500, 4565, HM(4, 30)},
		{9000, 9000, 9000, HM(0, 57)},
		{9000, 9000, 5000, HM(3, 18)},
		{5000, 9000, 9000, HM(1, 39)},
		{9000, 5000, 9000, HM(1, 43)},
		{5951, 4567, 8777, HM(2, 28)},
		{5000, 2000, 3500, HM(6, 13)},
		{4000, 5000, 9000, HM(2, 36)},
		{4400, 5700, 9250, HM(2, 24)},
	}
}
