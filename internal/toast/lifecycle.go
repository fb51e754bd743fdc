package toast

import (
	"fmt"

	"github.com/jmylchreest/toastui/internal/model"
)

// Event drives a toast from one lifecycle state to the next.
type Event int

const (
	EventPause Event = iota
	EventResume
	EventExpire
	EventDismiss
	EventExitDone
)

// String returns the string representation of the event.
func (e Event) String() string {
	switch e {
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventExpire:
		return "expire"
	case EventDismiss:
		return "dismiss"
	case EventExitDone:
		return "exit-done"
	default:
		return "unknown"
	}
}

// Transition is one row of the lifecycle table.
type Transition struct {
	From  model.State
	Event Event
	To    model.State
}

// Transitions is the complete lifecycle table. Any (state, event) pair not
// listed is rejected and leaves the toast unchanged.
var Transitions = []Transition{
	{From: model.StateShowing, Event: EventPause, To: model.StatePaused},
	{From: model.StatePaused, Event: EventResume, To: model.StateShowing},
	{From: model.StateShowing, Event: EventExpire, To: model.StateDismissing},
	{From: model.StateShowing, Event: EventDismiss, To: model.StateDismissing},
	{From: model.StatePaused, Event: EventDismiss, To: model.StateDismissing},
	{From: model.StateDismissing, Event: EventExitDone, To: model.StateRemoved},
}

// ErrNoTransitionAvailable indicates the table has no row for a state/event pair.
type ErrNoTransitionAvailable struct {
	State model.State
	Event Event
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.State, e.Event)
}

// Next returns the state reached from `from` on event ev.
func Next(from model.State, ev Event) (model.State, error) {
	for _, t := range Transitions {
		if t.From == from && t.Event == ev {
			return t.To, nil
		}
	}
	return from, &ErrNoTransitionAvailable{State: from, Event: ev}
}

// CanFire reports whether ev is accepted in state s.
func CanFire(s model.State, ev Event) bool {
	_, err := Next(s, ev)
	return err == nil
}
