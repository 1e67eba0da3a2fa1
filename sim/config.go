package sim

import "time"

// DefaultTickPeriod is the host tick cadence the engine was tuned against.
// The engine itself is cadence-agnostic; this only seeds the CLI default.
const DefaultTickPeriod = 500 * time.Millisecond

// RunConfig groups the host-side parameters of one simulation run. The
// engine never reads a config file or a flag itself; the host assembles
// this and passes the values down.
type RunConfig struct {
	TickPeriod       time.Duration // host tick cadence (must be > 0)
	TimeScale        float64       // simulated seconds per wall-clock second (1 = real time)
	RampMinutes      float64       // feed fill/drain ramp duration
	EntryThicknessCm float64       // product layer height at the feed end
}

// NewRunConfig applies the documented defaults to zero-valued fields.
func NewRunConfig(tick time.Duration, timeScale, rampMinutes, entryThicknessCm float64) RunConfig {
	cfg := RunConfig{
		TickPeriod:       tick,
		TimeScale:        timeScale,
		RampMinutes:      rampMinutes,
		EntryThicknessCm: entryThicknessCm,
	}
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = DefaultTickPeriod
	}
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = 1.0
	}
	if cfg.RampMinutes <= 0 {
		cfg.RampMinutes = DefaultRampMinutes
	}
	if cfg.EntryThicknessCm <= 0 {
		cfg.EntryThicknessCm = DefaultEntryThicknessCm
	}
	return cfg
}
