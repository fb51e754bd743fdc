package dom

import "slices"

// EventType names an event.
type EventType string

const (
	EventClick        EventType = "click"
	EventPointerEnter EventType = "pointerenter"
	EventPointerLeave EventType = "pointerleave"
	EventAnimationEnd EventType = "animationend"
)

// Event is dispatched at a target and bubbles up through its ancestors.
type Event struct {
	Type EventType
	// Target is the element the event was dispatched at.
	Target *Element
	// CurrentTarget is the element whose handler is running. For delegated
	// handlers it is the element that matched the selector.
	CurrentTarget *Element

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Handler handles an event.
type Handler func(*Event)

type listener struct {
	handler  Handler
	selector string
	id       *struct{}
}

// On registers a handler for events of type t that reach e, either because
// they were dispatched at e or bubbled from a descendant. It returns a
// function that removes the handler.
func (e *Element) On(t EventType, h Handler) func() {
	return e.addListener(t, "", h)
}

// Delegate registers a handler on e that runs only when the event target or
// one of its ancestors below e matches selector. The handler sees the matching
// element as CurrentTarget.
func (e *Element) Delegate(t EventType, selector string, h Handler) func() {
	return e.addListener(t, selector, h)
}

func (e *Element) addListener(t EventType, selector string, h Handler) func() {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]listener)
	}
	l := listener{handler: h, selector: selector, id: new(struct{})}
	e.listeners[t] = append(e.listeners[t], l)
	return func() {
		e.listeners[t] = slices.DeleteFunc(e.listeners[t], func(x listener) bool { return x.id == l.id })
	}
}

// Dispatch fires an event of type t at target and bubbles it to the root.
// It reports whether any handler ran.
func Dispatch(target *Element, t EventType) bool {
	if target == nil {
		return false
	}
	ev := &Event{Type: t, Target: target}
	handled := false

	for node := target; node != nil && !ev.stopped; node = node.parent {
		for _, l := range slices.Clone(node.listeners[t]) {
			if l.selector == "" {
				ev.CurrentTarget = node
			} else {
				match := delegateMatch(node, target, l.selector)
				if match == nil {
					continue
				}
				ev.CurrentTarget = match
			}
			l.handler(ev)
			handled = true
		}
	}
	ev.CurrentTarget = nil
	return handled
}

// delegateMatch finds the nearest inclusive ancestor of target, strictly below
// root, matching selector.
func delegateMatch(root, target *Element, selector string) *Element {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	for n := target; n != nil && n != root; n = n.parent {
		if sel.match(n) {
			return n
		}
	}
	return nil
}
