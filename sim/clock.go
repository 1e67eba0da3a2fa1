package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// ClockState is the lifecycle state of one simulation run.
type ClockState int

const (
	StateIdle ClockState = iota
	StateRunning
	StatePaused
	StateCompleted
)

func (s ClockState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("ClockState(%d)", int(s))
	}
}

// Notification is a one-shot run event. Each fires at most once per run,
// guarded by a boolean latch.
type Notification int

const (
	NoticeBelt2    Notification = iota // product advancing to belt 2
	NoticeBelt3                        // product advancing to belt 3
	NoticeExitSoon                     // total remaining time crossed the exit threshold
)

func (n Notification) String() string {
	switch n {
	case NoticeBelt2:
		return "advancing to belt 2"
	case NoticeBelt3:
		return "advancing to belt 3"
	case NoticeExitSoon:
		return fmt.Sprintf("product will exit within %.0f minutes", ExitSoonThresholdMin)
	default:
		return fmt.Sprintf("Notification(%d)", int(n))
	}
}

// ExitSoonThresholdMin is the remaining-time threshold for NoticeExitSoon.
// Runs shorter than the threshold never emit it.
const ExitSoonThresholdMin = 5.0

// Simulation misuse conditions. The clock state is left unchanged; callers
// surface these as warnings.
var (
	ErrNoPlan         = errors.New("no valid plan: compute stage durations before starting")
	ErrAlreadyRunning = errors.New("simulation already running")
	ErrNotRunning     = errors.New("simulation is not running")
	ErrNotPaused      = errors.New("simulation is not paused")
)

// Clock is the tick-driven state machine that advances product transit
// through the three belts sequentially. It owns no timer: the host invokes
// Advance periodically with the current time, and the clock never blocks or
// sleeps. One Clock serves exactly one run; Reset replaces all mutable
// state wholesale so nothing leaks across runs.
type Clock struct {
	state ClockState
	plan  PlanResult

	durations [3]float64 // seconds
	speeds    [3]float64 // Hz
	distances [3]float64 // min·Hz

	stageIdx      int
	stageStart    time.Time
	pauseT0       time.Time
	totalDuration float64 // seconds

	notifiedBelt2 bool
	notifiedBelt3 bool
	notifiedExit  bool
}

// Snapshot is the per-tick view handed to the host for display. All times
// are seconds.
type Snapshot struct {
	State        ClockState
	StageIdx     int     // active stage (0..2); 3 once completed
	Progress     float64 // fraction of the active stage, in [0,1]
	DistanceDone float64 // progress-bar position (min·Hz)
	SpeedHz      float64 // active belt speed
	Elapsed      float64 // within the active stage
	Duration     float64 // of the active stage
	Remaining    float64 // total run remaining
}

// NewClock returns an idle clock.
func NewClock() *Clock {
	return &Clock{}
}

// State returns the current lifecycle state.
func (c *Clock) State() ClockState {
	return c.state
}

// Plan returns the plan of the current run.
func (c *Clock) Plan() PlanResult {
	return c.plan
}

// Start begins a run at now. Starting without a valid plan or while a run
// is active is misuse: the error is returned and the state is unchanged.
func (c *Clock) Start(plan PlanResult, now time.Time) error {
	if c.state == StateRunning || c.state == StatePaused {
		return ErrAlreadyRunning
	}
	if !plan.Valid() {
		return ErrNoPlan
	}

	// Wholesale replacement: a fresh struct, not field-by-field clearing.
	*c = Clock{
		state:      StateRunning,
		plan:       plan,
		stageIdx:   0,
		stageStart: now,
	}
	for i, st := range plan.Stages {
		c.durations[i] = st.DurationMin * 60.0
		c.speeds[i] = st.FrequencyHz
		c.distances[i] = st.Distance
		c.totalDuration += c.durations[i]
	}
	logrus.Infof("simulation started: total %.1fmin across 3 belts", c.totalDuration/60.0)
	return nil
}

// Pause freezes the run at now.
func (c *Clock) Pause(now time.Time) error {
	if c.state != StateRunning {
		return ErrNotRunning
	}
	c.pauseT0 = now
	c.state = StatePaused
	logrus.Debugf("simulation paused at stage %d", c.stageIdx+1)
	return nil
}

// Resume shifts the stage start forward by the paused interval so elapsed
// time accounting ignores the pause entirely: pausing never changes the
// apparent remaining duration.
func (c *Clock) Resume(now time.Time) error {
	if c.state != StatePaused {
		return ErrNotPaused
	}
	c.stageStart = c.stageStart.Add(now.Sub(c.pauseT0))
	c.state = StateRunning
	logrus.Debugf("simulation resumed at stage %d", c.stageIdx+1)
	return nil
}

// Reset returns the clock to idle from any state, discarding the run.
func (c *Clock) Reset() {
	*c = Clock{}
}

// SimMinutes is the global simulation time in minutes since the run
// started. Gap projection and the fill ramp must read the same value the
// progress update used within one tick, so hosts call this once per tick
// with the same now they passed to Advance.
func (c *Clock) SimMinutes(now time.Time) float64 {
	var base float64
	for j := 0; j < c.stageIdx && j < 3; j++ {
		base += c.durations[j]
	}
	base /= 60.0

	switch c.state {
	case StateRunning:
		return base + now.Sub(c.stageStart).Seconds()/60.0
	case StatePaused:
		return base + math.Max(0, c.pauseT0.Sub(c.stageStart).Seconds())/60.0
	default:
		return base
	}
}

// Advance moves the run forward to now and returns the display snapshot
// plus any one-shot notifications that fired on this tick. When the active
// stage completes, the next stage starts from now; when the last one
// completes, the run transitions to completed. Calls while idle, paused or
// completed return the current snapshot unchanged.
func (c *Clock) Advance(now time.Time) (Snapshot, []Notification) {
	if c.state != StateRunning {
		return c.snapshot(now), nil
	}

	var notes []Notification
	i := c.stageIdx
	dur := math.Max(1e-6, c.durations[i])
	dist := math.Max(1e-9, c.distances[i])
	speed := c.speeds[i]

	elapsed := now.Sub(c.stageStart).Seconds()
	remainingCurrent := math.Max(0, dur-elapsed)
	var remainingFuture float64
	for j := i + 1; j < 3; j++ {
		remainingFuture += c.durations[j]
	}
	totalRemaining := remainingCurrent + remainingFuture

	if !c.notifiedExit && c.totalDuration > ExitSoonThresholdMin*60 &&
		totalRemaining <= ExitSoonThresholdMin*60 {
		c.notifiedExit = true
		notes = append(notes, NoticeExitSoon)
	}

	travelled := math.Max(0, speed*(elapsed/60.0))
	if travelled >= dist {
		// Stage complete. The next stage restarts its own full duration
		// from now; tick overshoot is not carried over.
		switch i {
		case 0:
			if !c.notifiedBelt2 {
				c.notifiedBelt2 = true
				notes = append(notes, NoticeBelt2)
			}
		case 1:
			if !c.notifiedBelt3 {
				c.notifiedBelt3 = true
				notes = append(notes, NoticeBelt3)
			}
		}
		c.stageIdx++
		if c.stageIdx >= 3 {
			c.state = StateCompleted
			logrus.Info("simulation completed")
			return c.snapshot(now), notes
		}
		c.stageStart = now
	}

	return c.snapshot(now), notes
}

func (c *Clock) snapshot(now time.Time) Snapshot {
	s := Snapshot{State: c.state, StageIdx: c.stageIdx}
	if c.state == StateIdle {
		return s
	}
	if c.state == StateCompleted {
		s.Progress = 1.0
		return s
	}

	i := c.stageIdx
	dur := math.Max(1e-6, c.durations[i])
	dist := math.Max(1e-9, c.distances[i])

	elapsed := now.Sub(c.stageStart).Seconds()
	if c.state == StatePaused {
		elapsed = math.Max(0, c.pauseT0.Sub(c.stageStart).Seconds())
	}
	elapsed = math.Max(0, elapsed)

	travelled := math.Min(dist, c.speeds[i]*(elapsed/60.0))
	var remainingFuture float64
	for j := i + 1; j < 3; j++ {
		remainingFuture += c.durations[j]
	}

	s.Progress = math.Min(1.0, elapsed/dur)
	s.DistanceDone = travelled
	s.SpeedHz = c.speeds[i]
	s.Elapsed = elapsed
	s.Duration = dur
	s.Remaining = math.Max(0, dur-elapsed) + remainingFuture
	return s
}
