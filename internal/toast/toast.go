package toast

import (
	"time"

	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/eventloop"
	"github.com/jmylchreest/toastui/internal/model"
)

// Toast is the handle returned by Manager.Notify.
type Toast struct {
	m    *Manager
	n    model.Notification
	pres model.Presentation

	el       *dom.Element
	progress *dom.Element

	// Auto-dismiss timer. gen invalidates callbacks of timers that were
	// replaced or stopped.
	timer    eventloop.Timer
	gen      uint64
	deadline time.Time
	window   time.Duration
	start    float64 // fraction remaining when the current window was armed
	frozen   float64 // fraction remaining while paused

	exit   eventloop.Timer
	reason CloseReason
}

// ID returns the notification id.
func (t *Toast) ID() string { return t.n.ID }

// Kind returns the normalized kind.
func (t *Toast) Kind() model.Kind { return t.n.Kind }

// Message returns the message text.
func (t *Toast) Message() string { return t.n.Message }

// CreatedAt returns when the toast was raised, on the scheduler clock.
func (t *Toast) CreatedAt() time.Time { return t.n.CreatedAt }

// State returns the lifecycle state.
func (t *Toast) State() model.State { return t.n.State }

// Presentation returns the title, icon and glyph the toast renders with.
func (t *Toast) Presentation() model.Presentation { return t.pres }

// Notification returns a copy of the underlying notification.
func (t *Toast) Notification() model.Notification { return t.n }

// Element returns the toast's root node.
func (t *Toast) Element() *dom.Element { return t.el }

// CloseReason returns why the toast is leaving, or 0 while it is visible.
func (t *Toast) CloseReason() CloseReason { return t.reason }

// Dismiss starts the exit of the toast. It is a no-op once the toast is
// dismissing or removed, so calling it repeatedly detaches the node once.
func (t *Toast) Dismiss() {
	t.m.dismiss(t, CloseReasonDismissed)
}

// Remaining returns the time left before the toast expires. Paused and
// leaving toasts report zero.
func (t *Toast) Remaining(now time.Time) time.Duration {
	if t.n.State != model.StateShowing {
		return 0
	}
	return max(t.deadline.Sub(now), 0)
}

// Progress returns the fraction of the progress bar still filled, in [0, 1].
// It stays frozen while the toast is paused and continues from there after
// resume, draining over the grace window.
func (t *Toast) Progress(now time.Time) float64 {
	switch t.n.State {
	case model.StateShowing:
		if t.window <= 0 {
			return 0
		}
		frac := float64(t.Remaining(now)) / float64(t.window)
		return clamp01(t.start * frac)
	case model.StatePaused:
		return t.frozen
	default:
		return 0
	}
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}
