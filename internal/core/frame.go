package core

import "time"

// FrameGate turns host frame callbacks into simulation ticks.
// A callback arriving sooner than Interval after the last accepted frame is
// a no-op; the skipped time carries over into the next accepted frame.
type FrameGate struct {
	Interval time.Duration

	last    time.Time
	started bool
}

// NewFrameGate creates a gate for the given frames-per-second rate.
// A non-positive rate disables gating.
func NewFrameGate(fps int) *FrameGate {
	var interval time.Duration
	if fps > 0 {
		interval = time.Second / time.Duration(fps)
	}
	return &FrameGate{Interval: interval}
}

// Advance reports the elapsed time since the last accepted frame and whether
// a tick should run for the callback at now. The first call after Reset only
// records the timestamp. A timestamp earlier than the last accepted frame
// re-primes the gate instead of producing negative elapsed time.
func (g *FrameGate) Advance(now time.Time) (time.Duration, bool) {
	if !g.started || now.Before(g.last) {
		g.started = true
		g.last = now
		return 0, false
	}

	elapsed := now.Sub(g.last)
	if elapsed < g.Interval {
		return 0, false
	}
	g.last = now
	return elapsed, true
}

// Reset forgets the last frame so the next Advance primes the gate again.
// Used when a run starts or resumes so paused time is not simulated.
func (g *FrameGate) Reset() {
	g.started = false
	g.last = time.Time{}
}
