package sim

// DefaultRampMinutes is the time a feed transition takes to fill or drain
// the line completely.
const DefaultRampMinutes = 30.0

type feedTarget struct {
	timeMin float64
	on      bool
}

// FeedTimeline models the continuous fill fraction alpha(t) in [0,1]: each
// ON/OFF target transition ramps linearly toward 1 or 0 over the ramp
// duration, starting from a baseline fraction.
//
// This is deliberately independent of GapTracker: the tracker models a
// displaced void travelling down the belts, while the timeline models the
// feed ramp envelope for the thickness-fade overlay. The two must not be
// merged into one code path.
type FeedTimeline struct {
	rampMinutes float64
	alpha0      float64
	initialTime float64
	events      []feedTarget
}

// NewFeedTimeline returns a timeline with the given ramp duration
// (DefaultRampMinutes when rampMinutes <= 0), starting empty at t=0 with a
// zero baseline and an OFF target.
func NewFeedTimeline(rampMinutes float64) *FeedTimeline {
	if rampMinutes <= 0 {
		rampMinutes = DefaultRampMinutes
	}
	ft := &FeedTimeline{rampMinutes: rampMinutes}
	ft.Reset(0, 0, false)
	return ft
}

// Reset restarts the timeline at tMin with baseline fill alpha0 and an
// initial target. The event list is replaced wholesale.
func (ft *FeedTimeline) Reset(tMin, alpha0 float64, on bool) {
	ft.alpha0 = clamp01(alpha0)
	ft.initialTime = tMin
	ft.events = []feedTarget{{timeMin: tMin, on: on}}
}

// SetTarget appends a new feed target at tMin. Out-of-order events are
// ignored, and a target equal to the current one is coalesced.
func (ft *FeedTimeline) SetTarget(on bool, tMin float64) {
	if len(ft.events) == 0 {
		ft.Reset(tMin, ft.alpha0, on)
		return
	}
	last := ft.events[len(ft.events)-1]
	if tMin < last.timeMin {
		return
	}
	if last.on != on {
		ft.events = append(ft.events, feedTarget{timeMin: tMin, on: on})
	}
}

// AlphaAt returns the fill fraction at tMin, integrating piecewise through
// every transition before tMin and clamping to [0,1] at each step.
func (ft *FeedTimeline) AlphaAt(tMin float64) float64 {
	if len(ft.events) == 0 {
		return ft.alpha0
	}
	first := ft.events[0]
	if tMin <= first.timeMin {
		return ft.alpha0
	}

	alpha := ft.alpha0
	lastT := first.timeMin
	lastOn := first.on
	for _, ev := range ft.events[1:] {
		if ev.timeMin > tMin {
			break
		}
		alpha = ft.advance(alpha, lastOn, ev.timeMin-lastT)
		lastT = ev.timeMin
		lastOn = ev.on
	}
	return ft.advance(alpha, lastOn, tMin-lastT)
}

func (ft *FeedTimeline) advance(alpha float64, on bool, deltaMin float64) float64 {
	if deltaMin <= 0 {
		return clamp01(alpha)
	}
	ramp := ft.rampMinutes
	if ramp < 1e-6 {
		ramp = 1e-6
	}
	if on {
		alpha += deltaMin / ramp
	} else {
		alpha -= deltaMin / ramp
	}
	return clamp01(alpha)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
