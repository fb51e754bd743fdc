package toast

import "github.com/jmylchreest/toastui/internal/model"

// CloseReason explains why a toast was removed.
type CloseReason int

const (
	// CloseReasonExpired means the auto-dismiss timer fired.
	CloseReasonExpired CloseReason = iota + 1
	// CloseReasonDismissed means the user dismissed the toast.
	CloseReasonDismissed
	// CloseReasonClosed means the toast was closed programmatically.
	CloseReasonClosed
)

// String returns the string representation of the reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Observer is told when toasts appear and when they are removed.
// Callbacks run on the dispatch goroutine and must not block.
type Observer interface {
	ToastShown(t *Toast)
	ToastRemoved(t *Toast, reason CloseReason)
}

// TransitionObserver is an optional extension of Observer told about every
// lifecycle transition, before ToastRemoved for the final one.
type TransitionObserver interface {
	ToastTransitioned(t *Toast, from, to model.State, ev Event)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Shown        func(t *Toast)
	Transitioned func(t *Toast, from, to model.State, ev Event)
	Removed      func(t *Toast, reason CloseReason)
}

func (f ObserverFuncs) ToastShown(t *Toast) {
	if f.Shown != nil {
		f.Shown(t)
	}
}

func (f ObserverFuncs) ToastTransitioned(t *Toast, from, to model.State, ev Event) {
	if f.Transitioned != nil {
		f.Transitioned(t, from, to, ev)
	}
}

func (f ObserverFuncs) ToastRemoved(t *Toast, reason CloseReason) {
	if f.Removed != nil {
		f.Removed(t, reason)
	}
}
