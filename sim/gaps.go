package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// GapEvent is one feed interruption, recorded in global simulation time
// (minutes since the run started), never in per-belt time.
type GapEvent struct {
	StartMin float64
	EndMin   *float64 // nil while the interruption is ongoing
}

// Interval is a [X0, X1] span on a belt's progress axis (min·Hz units,
// matching StagePlan.Distance).
type Interval struct {
	X0, X1 float64
}

// Width returns the interval length.
func (iv Interval) Width() float64 {
	return iv.X1 - iv.X0
}

// GapTracker records feed stop/resume events for one run and projects them
// onto each belt as moving voids. One tracker per run; a reset means
// building a fresh tracker, not clearing this one.
type GapTracker struct {
	events []*GapEvent
	feedOn bool
}

// NewGapTracker returns a tracker with the feed considered on.
func NewGapTracker() *GapTracker {
	return &GapTracker{feedOn: true}
}

// FeedOn reports whether the feed is currently running.
func (g *GapTracker) FeedOn() bool {
	return g.feedOn
}

// Stop records a feed interruption starting at tMin. Returns false when
// the feed is already stopped (the call is ignored).
func (g *GapTracker) Stop(tMin float64) bool {
	if !g.feedOn {
		return false
	}
	g.events = append(g.events, &GapEvent{StartMin: tMin})
	g.feedOn = false
	logrus.Infof("feed stopped at t=%.2fmin", tMin)
	return true
}

// Resume closes the most recent open interruption at tMin. Returns false
// when the feed is already running.
func (g *GapTracker) Resume(tMin float64) bool {
	if g.feedOn {
		return false
	}
	for i := len(g.events) - 1; i >= 0; i-- {
		if g.events[i].EndMin == nil {
			end := tMin
			g.events[i].EndMin = &end
			break
		}
	}
	g.feedOn = true
	logrus.Infof("feed resumed at t=%.2fmin", tMin)
	return true
}

// Events returns a copy of the recorded interruptions.
func (g *GapTracker) Events() []GapEvent {
	out := make([]GapEvent, 0, len(g.events))
	for _, ev := range g.events {
		out = append(out, *ev)
	}
	return out
}

// HolesAt projects every recorded interruption onto each belt at global
// simulation time tNow and returns the visible void intervals per belt.
func (g *GapTracker) HolesAt(tNow float64, plan PlanResult) [3][]Interval {
	var holes [3][]Interval
	for _, ev := range g.events {
		for belt := 0; belt < 3; belt++ {
			if iv, ok := holeOnBelt(*ev, tNow, belt, plan); ok {
				holes[belt] = append(holes[belt], iv)
			}
		}
	}
	return holes
}

// holeOnBelt computes the interval occupied by one void on one belt.
//
// The void is a moving absence of material: its leading edge entered the
// belt when the interruption (shifted by the cumulative upstream residence
// time) reached it, and advances at the belt speed; the trailing edge
// follows from the moment feed resumed, or from "now" while the
// interruption is still open. Three phases result: the void grows at the
// feed end, travels at constant width, then drains off the discharge end.
func holeOnBelt(ev GapEvent, tNow float64, belt int, plan PlanResult) (Interval, bool) {
	var cumPrev float64
	for j := 0; j < belt; j++ {
		cumPrev += plan.Stages[j].DurationMin
	}
	dur := plan.Stages[belt].DurationMin
	speed := plan.Stages[belt].FrequencyHz
	dist := plan.Stages[belt].Distance

	start := ev.StartMin
	end := tNow // still open: the trailing edge is pinned to now
	if ev.EndMin != nil {
		end = *ev.EndMin
	}

	tInFront := start + cumPrev
	tInBack := end + cumPrev
	tOutFront := tInFront + dur
	tOutBack := tInBack + dur

	if tNow < tInFront || tNow > tOutBack {
		return Interval{}, false // not arrived yet / already gone
	}

	clip := func(x float64) float64 {
		return math.Max(0, math.Min(dist, x))
	}
	xFront := clip(speed * (tNow - tInFront))
	xBack := clip(speed * (tNow - tInBack))

	var iv Interval
	switch {
	case tNow < tInBack: // growing at the feed end
		iv = Interval{X0: 0, X1: xFront}
	case tNow <= tOutFront: // both edges on the belt, constant width
		iv = Interval{X0: xBack, X1: xFront}
	default: // leading edge has left, tail drains out
		iv = Interval{X0: xBack, X1: dist}
	}

	if iv.Width() <= 1e-6 {
		return Interval{}, false
	}
	return iv, true
}
