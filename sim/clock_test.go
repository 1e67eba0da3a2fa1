package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPlan builds a minimal valid plan with the given per-belt durations
// (minutes) and frequencies (Hz); distances follow from duration·frequency.
func testPlan(durationsMin, speedsHz [3]float64) PlanResult {
	var p PlanResult
	for i := 0; i < 3; i++ {
		p.Stages[i] = StagePlan{
			FrequencyHz: speedsHz[i],
			DurationMin: durationsMin[i],
			Distance:    durationsMin[i] * speedsHz[i],
		}
		p.TotalMinutes += durationsMin[i]
	}
	return p
}

// runToCompletion ticks the clock at the given period until it completes,
// returning the completion instant and every notification seen.
func runToCompletion(t *testing.T, c *Clock, start time.Time, tick time.Duration, maxTicks int) (time.Time, []Notification) {
	t.Helper()
	now := start
	var notes []Notification
	for i := 0; i < maxTicks; i++ {
		now = now.Add(tick)
		snap, n := c.Advance(now)
		notes = append(notes, n...)
		if snap.State == StateCompleted {
			return now, notes
		}
	}
	t.Fatalf("clock did not complete within %d ticks", maxTicks)
	return now, notes
}

func TestClock_StartWithoutPlan(t *testing.T) {
	c := NewClock()
	err := c.Start(PlanResult{}, time.Now())

	assert.ErrorIs(t, err, ErrNoPlan)
	assert.Equal(t, StateIdle, c.State())
}

func TestClock_StartWhileRunning(t *testing.T) {
	c := NewClock()
	now := time.Now()
	require.NoError(t, c.Start(testPlan([3]float64{1, 1, 1}, [3]float64{60, 60, 60}), now))

	err := c.Start(testPlan([3]float64{1, 1, 1}, [3]float64{60, 60, 60}), now)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, StateRunning, c.State())
}

// TestClock_AdvancesThroughStages walks a 3-minute run at 10s ticks and
// checks stage sequencing, snapshot progress, and one-shot notifications.
func TestClock_AdvancesThroughStages(t *testing.T) {
	// GIVEN a started run with three 1-minute stages
	c := NewClock()
	start := time.Unix(1000, 0)
	require.NoError(t, c.Start(testPlan([3]float64{1, 1, 1}, [3]float64{60, 60, 60}), start))

	// WHEN advancing halfway through stage 1
	snap, notes := c.Advance(start.Add(30 * time.Second))
	assert.Empty(t, notes)
	assert.Equal(t, 0, snap.StageIdx)
	assert.InDelta(t, 0.5, snap.Progress, 1e-9)
	assert.InDelta(t, 30.0, snap.DistanceDone, 1e-9)

	// AND to the end of stage 1
	snap, notes = c.Advance(start.Add(60 * time.Second))
	require.Len(t, notes, 1)
	assert.Equal(t, NoticeBelt2, notes[0])
	assert.Equal(t, 1, snap.StageIdx)

	// THEN the remaining stages complete in order with their own notices
	now, rest := runToCompletion(t, c, start.Add(60*time.Second), 10*time.Second, 100)
	assert.Equal(t, StateCompleted, c.State())
	assert.Contains(t, rest, NoticeBelt3)
	assert.Equal(t, start.Add(180*time.Second), now)

	// AND the belt notifications never repeat
	count := 0
	for _, n := range rest {
		if n == NoticeBelt2 {
			count++
		}
	}
	assert.Zero(t, count)
}

// TestClock_PauseResumeDriftInvariant verifies pausing never changes the
// time-to-completion: a run paused for 7s completes exactly 7s later than
// the uninterrupted baseline.
func TestClock_PauseResumeDriftInvariant(t *testing.T) {
	plan := testPlan([3]float64{1, 0.5, 1.5}, [3]float64{40, 60, 30})
	start := time.Unix(5000, 0)
	tick := time.Second

	// GIVEN an uninterrupted baseline run
	base := NewClock()
	require.NoError(t, base.Start(plan, start))
	baseEnd, _ := runToCompletion(t, base, start, tick, 500)

	// WHEN an identical run pauses for 7s half a minute in
	c := NewClock()
	require.NoError(t, c.Start(plan, start))
	now := start
	for i := 0; i < 30; i++ {
		now = now.Add(tick)
		c.Advance(now)
	}
	require.NoError(t, c.Pause(now))

	// Snapshot while paused reflects the pause instant, not wall time.
	frozen := c.snapshot(now.Add(time.Hour))
	assert.Equal(t, StatePaused, frozen.State)
	assert.InDelta(t, 30.0, frozen.Elapsed, 1e-9)

	pauseDelta := 7 * time.Second
	now = now.Add(pauseDelta)
	require.NoError(t, c.Resume(now))
	end, _ := runToCompletion(t, c, now, tick, 500)

	// THEN completion shifted by exactly the paused interval
	assert.Equal(t, baseEnd.Add(pauseDelta), end)
}

func TestClock_PauseWhileIdle(t *testing.T) {
	c := NewClock()
	assert.ErrorIs(t, c.Pause(time.Now()), ErrNotRunning)
	assert.Equal(t, StateIdle, c.State())
}

func TestClock_ResumeWhileRunning(t *testing.T) {
	c := NewClock()
	require.NoError(t, c.Start(testPlan([3]float64{1, 1, 1}, [3]float64{60, 60, 60}), time.Now()))
	assert.ErrorIs(t, c.Resume(time.Now()), ErrNotPaused)
}

// TestClock_ExitSoonNotice verifies the threshold notice fires exactly
// once, and only for runs longer than the threshold.
func TestClock_ExitSoonNotice(t *testing.T) {
	// GIVEN a 7-minute run
	c := NewClock()
	start := time.Unix(0, 0)
	require.NoError(t, c.Start(testPlan([3]float64{4, 2, 1}, [3]float64{40, 60, 30}), start))

	_, notes := runToCompletion(t, c, start, 5*time.Second, 500)
	count := 0
	for _, n := range notes {
		if n == NoticeExitSoon {
			count++
		}
	}
	assert.Equal(t, 1, count, "exit notice must fire exactly once")

	// AND a run shorter than the threshold never emits it
	short := NewClock()
	require.NoError(t, short.Start(testPlan([3]float64{1, 1, 1}, [3]float64{60, 60, 60}), start))
	_, notes = runToCompletion(t, short, start, 5*time.Second, 500)
	assert.NotContains(t, notes, NoticeExitSoon)
}

func TestClock_ResetFromAnyState(t *testing.T) {
	plan := testPlan([3]float64{1, 1, 1}, [3]float64{60, 60, 60})
	now := time.Unix(0, 0)

	c := NewClock()
	require.NoError(t, c.Start(plan, now))
	c.Advance(now.Add(30 * time.Second))
	require.NoError(t, c.Pause(now.Add(30*time.Second)))

	c.Reset()
	assert.Equal(t, StateIdle, c.State())
	assert.Zero(t, c.SimMinutes(now.Add(time.Hour)))

	// A fresh run starts clean after the reset.
	require.NoError(t, c.Start(plan, now))
	snap, _ := c.Advance(now.Add(30 * time.Second))
	assert.Equal(t, 0, snap.StageIdx)
	assert.InDelta(t, 0.5, snap.Progress, 1e-9)
}

// TestClock_SimMinutes verifies the shared simulation-time reading across
// run, pause and completion.
func TestClock_SimMinutes(t *testing.T) {
	c := NewClock()
	start := time.Unix(0, 0)
	require.NoError(t, c.Start(testPlan([3]float64{2, 2, 2}, [3]float64{60, 60, 60}), start))

	assert.InDelta(t, 1.0, c.SimMinutes(start.Add(time.Minute)), 1e-9)

	// Cross into stage 2: base time comes from completed durations.
	c.Advance(start.Add(2 * time.Minute))
	assert.InDelta(t, 2.5, c.SimMinutes(start.Add(150*time.Second)), 1e-9)

	// Paused: the reading freezes at the pause instant.
	require.NoError(t, c.Pause(start.Add(150*time.Second)))
	assert.InDelta(t, 2.5, c.SimMinutes(start.Add(time.Hour)), 1e-9)
}
