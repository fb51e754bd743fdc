package decor

import (
	"time"

	"github.com/jmylchreest/toastui/internal/eventloop"
)

// RippleDuration is how long a ripple stays visible.
const RippleDuration = 600 * time.Millisecond

// Ripple is the press effect on a button, positioned relative to it.
type Ripple struct {
	X, Y  int
	Start time.Time
}

// Ripples tracks the single active ripple of a button. A new press removes
// the previous ripple before showing its own.
type Ripples struct {
	sched  eventloop.Scheduler
	active *Ripple
	timer  eventloop.Timer
}

// NewRipples creates a ripple tracker.
func NewRipples(sched eventloop.Scheduler) *Ripples {
	return &Ripples{sched: sched}
}

// Press shows a ripple at x, y.
func (r *Ripples) Press(x, y int) Ripple {
	if r.timer != nil {
		r.timer.Stop()
	}
	rp := &Ripple{X: x, Y: y, Start: r.sched.Now()}
	r.active = rp
	r.timer = r.sched.AfterFunc(RippleDuration, func() {
		if r.active == rp {
			r.active = nil
			r.timer = nil
		}
	})
	return *rp
}

// Active returns the visible ripple, if any.
func (r *Ripples) Active() (Ripple, bool) {
	if r.active == nil {
		return Ripple{}, false
	}
	return *r.active, true
}

// Progress returns how far the ripple animation has run, in [0, 1].
func (r *Ripples) Progress(now time.Time) float64 {
	if r.active == nil {
		return 0
	}
	return min(max(float64(now.Sub(r.active.Start))/float64(RippleDuration), 0), 1)
}
