package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFeedTimeline_RampUpFromEmpty: with a 30-minute ramp the line fills
// linearly from an empty start and saturates at 1.
func TestFeedTimeline_RampUpFromEmpty(t *testing.T) {
	ft := NewFeedTimeline(30)
	ft.Reset(0, 0, true)

	assert.InDelta(t, 0.0, ft.AlphaAt(0), 1e-12)
	assert.InDelta(t, 0.5, ft.AlphaAt(15), 1e-12)
	assert.InDelta(t, 1.0, ft.AlphaAt(30), 1e-12)
	assert.InDelta(t, 1.0, ft.AlphaAt(45), 1e-12, "saturates after the ramp")
}

// TestFeedTimeline_PiecewiseSegments: feed on at t=0, off at t=10: alpha
// peaks at 10/30, then drains back down and empties at t=20.
func TestFeedTimeline_PiecewiseSegments(t *testing.T) {
	ft := NewFeedTimeline(30)
	ft.Reset(0, 0, true)
	ft.SetTarget(false, 10)

	assert.InDelta(t, 1.0/3.0, ft.AlphaAt(10), 1e-12)
	assert.InDelta(t, 1.0/3.0-6.0/30.0, ft.AlphaAt(16), 1e-12)
	assert.InDelta(t, 0.0, ft.AlphaAt(20), 1e-12)
	assert.InDelta(t, 0.0, ft.AlphaAt(25), 1e-12, "clamps at empty")
}

// TestFeedTimeline_BaselineBeforeFirstEvent: queries at or before the reset
// instant return the baseline fill.
func TestFeedTimeline_BaselineBeforeFirstEvent(t *testing.T) {
	ft := NewFeedTimeline(30)
	ft.Reset(5, 0.8, false)

	assert.InDelta(t, 0.8, ft.AlphaAt(5), 1e-12)
	assert.InDelta(t, 0.8, ft.AlphaAt(-10), 1e-12)
	assert.InDelta(t, 0.8-3.0/30.0, ft.AlphaAt(8), 1e-12)
}

// TestFeedTimeline_OutOfOrderTargetIgnored: a target earlier than the last
// recorded one leaves the timeline unchanged.
func TestFeedTimeline_OutOfOrderTargetIgnored(t *testing.T) {
	ft := NewFeedTimeline(30)
	ft.Reset(0, 0, true)
	ft.SetTarget(false, 10)

	ft.SetTarget(true, 4) // stale, ignored

	assert.InDelta(t, 1.0/3.0-5.0/30.0, ft.AlphaAt(15), 1e-12)
}

// TestFeedTimeline_DuplicateTargetCoalesced: repeating the current target
// does not add a transition.
func TestFeedTimeline_DuplicateTargetCoalesced(t *testing.T) {
	ft := NewFeedTimeline(30)
	ft.Reset(0, 0, true)
	ft.SetTarget(true, 12)
	ft.SetTarget(true, 20)

	// Still one unbroken ramp from t=0.
	assert.InDelta(t, 25.0/30.0, ft.AlphaAt(25), 1e-12)
}

// TestFeedTimeline_AlphaBounded: alpha stays inside [0,1] through an
// arbitrary stop/resume sequence.
func TestFeedTimeline_AlphaBounded(t *testing.T) {
	ft := NewFeedTimeline(10)
	ft.Reset(0, 0.5, true)
	ft.SetTarget(false, 25)
	ft.SetTarget(true, 60)

	for tMin := 0.0; tMin <= 90; tMin += 0.5 {
		a := ft.AlphaAt(tMin)
		assert.GreaterOrEqual(t, a, 0.0, "t=%.1f", tMin)
		assert.LessOrEqual(t, a, 1.0, "t=%.1f", tMin)
	}
}

// TestFeedTimeline_ClampAppliesPerSegment: saturation in an earlier segment
// is not "banked": draining starts from the clamped value, not from the
// unclamped running sum.
func TestFeedTimeline_ClampAppliesPerSegment(t *testing.T) {
	ft := NewFeedTimeline(10)
	ft.Reset(0, 0, true)
	ft.SetTarget(false, 30) // 20 minutes past full

	// Drain starts from 1.0 at t=30, not from the fictitious 3.0.
	assert.InDelta(t, 0.5, ft.AlphaAt(35), 1e-12)
	assert.InDelta(t, 0.0, ft.AlphaAt(40), 1e-12)
}

// TestFeedTimeline_DefaultRamp: non-positive ramp falls back to the
// default.
func TestFeedTimeline_DefaultRamp(t *testing.T) {
	ft := NewFeedTimeline(0)
	ft.Reset(0, 0, true)

	assert.InDelta(t, 15.0/DefaultRampMinutes, ft.AlphaAt(15), 1e-12)
}
