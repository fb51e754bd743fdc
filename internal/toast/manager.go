// Package toast implements the transient notification manager.
//
// A Manager owns one container element, lazily created in its document, and
// a stack of toasts rendered into it in insertion order. Each toast carries
// an auto-dismiss timer that pauses while the pointer is over the toast and
// resumes with a fixed grace window when it leaves.
//
// The Manager is not safe for concurrent use. Every method, every timer
// callback and every DOM event handler must run on the same dispatch
// goroutine; the eventloop.Scheduler passed to NewManager must deliver its
// callbacks there.
package toast

import (
	"log/slog"
	"slices"
	"time"

	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/eventloop"
	"github.com/jmylchreest/toastui/internal/model"
)

type observerEntry struct {
	o Observer
}

// Manager manages the stack of visible toasts.
type Manager struct {
	doc    *dom.Document
	sched  eventloop.Scheduler
	opts   Options
	logger *slog.Logger

	container *dom.Element
	bound     *dom.Element
	unbind    []func()

	toasts    []*Toast // insertion order, until removed
	observers []*observerEntry
}

// NewManager creates a manager rendering into doc. A nil doc gets a fresh
// document. sched must not be nil.
func NewManager(doc *dom.Document, sched eventloop.Scheduler, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if doc == nil {
		doc = dom.NewDocument()
	}
	return &Manager{
		doc:    doc,
		sched:  sched,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Document returns the document the manager renders into.
func (m *Manager) Document() *dom.Document {
	return m.doc
}

// Options returns the current options.
func (m *Manager) Options() Options {
	return m.opts
}

// UpdateConfig replaces the options. New timings apply to timers armed from
// now on; toasts already shown keep their structure.
func (m *Manager) UpdateConfig(opts Options) {
	old := m.opts.Position
	m.opts = opts.withDefaults()
	if m.container != nil && old != m.opts.Position {
		m.container.RemoveClass("toast-" + string(old)).AddClass("toast-" + string(m.opts.Position))
	}
	m.logger.Debug("toast manager config updated",
		"auto_dismiss", m.opts.AutoDismiss,
		"resume_grace", m.opts.ResumeGrace,
		"position", m.opts.Position,
	)
}

// AddObserver registers o and returns a function that removes it.
func (m *Manager) AddObserver(o Observer) func() {
	e := &observerEntry{o: o}
	m.observers = append(m.observers, e)
	return func() {
		m.observers = slices.DeleteFunc(m.observers, func(x *observerEntry) bool { return x == e })
	}
}

// Container returns the container, creating or re-attaching it when needed.
// There is never more than one: a detached container is re-appended to the
// body, and an existing element with the container id is adopted.
func (m *Manager) Container() *dom.Element {
	body := m.doc.Body()

	switch {
	case m.container != nil && m.container.Connected():
	case m.container != nil:
		m.logger.Debug("toast container detached, reattaching")
		body.AppendChild(m.container)
	default:
		if found := m.doc.GetElementByID(ContainerID); found != nil {
			m.container = found
		} else {
			m.container = m.doc.CreateElement("div").SetID(ContainerID)
			body.AppendChild(m.container)
			m.logger.Debug("toast container created")
		}
	}

	m.container.AddClass(ClassContainer, "toast-"+string(m.opts.Position))
	m.bind(m.container)
	return m.container
}

// bind installs the delegated handlers once per container element.
func (m *Manager) bind(c *dom.Element) {
	if m.bound == c {
		return
	}
	for _, off := range m.unbind {
		off()
	}
	m.bound = c
	m.unbind = []func(){
		c.Delegate(dom.EventClick, "."+ClassClose, func(e *dom.Event) {
			if t := m.toastFor(e.CurrentTarget); t != nil {
				m.dismiss(t, CloseReasonDismissed)
			}
		}),
		c.Delegate(dom.EventPointerEnter, "."+ClassToast, func(e *dom.Event) {
			if t := m.toastFor(e.CurrentTarget); t != nil {
				m.pause(t)
			}
		}),
		c.Delegate(dom.EventPointerLeave, "."+ClassToast, func(e *dom.Event) {
			if t := m.toastFor(e.CurrentTarget); t != nil {
				m.resume(t)
			}
		}),
		c.Delegate(dom.EventAnimationEnd, "."+ClassToast, func(e *dom.Event) {
			// Only the toast's own exit animation counts, not its progress bar.
			if e.Target != e.CurrentTarget {
				return
			}
			if t := m.toastFor(e.CurrentTarget); t != nil {
				m.finishExit(t)
			}
		}),
	}
}

func (m *Manager) toastFor(el *dom.Element) *Toast {
	if el == nil {
		return nil
	}
	if root := el.Closest("." + ClassToast); root != nil {
		return m.Find(root.Dataset("toast-id"))
	}
	return nil
}

// Notify shows a new toast and starts its auto-dismiss timer. Unknown kinds
// are shown as info. It never fails.
func (m *Manager) Notify(kind, message string) *Toast {
	n := model.MustNewNotification(kind, message)
	n.CreatedAt = m.sched.Now()

	t := &Toast{m: m, n: *n, pres: m.opts.presentation(n.Kind)}
	t.el = m.render(t)

	m.Container().AppendChild(t.el)
	m.toasts = append(m.toasts, t)
	m.arm(t, m.opts.AutoDismiss, 1)

	m.logger.Debug("toast shown",
		"toast_id", t.n.ID,
		"kind", t.n.Kind,
		"active", len(m.toasts),
	)

	for _, e := range slices.Clone(m.observers) {
		e.o.ToastShown(t)
	}
	return t
}

// Dismiss starts the exit of t. It reports whether the call changed anything.
func (m *Manager) Dismiss(t *Toast) bool {
	if t == nil || t.m != m {
		return false
	}
	return m.dismiss(t, CloseReasonDismissed)
}

// Close dismisses the toast with the given id with an explicit reason.
func (m *Manager) Close(id string, reason CloseReason) bool {
	t := m.Find(id)
	if t == nil {
		return false
	}
	return m.dismiss(t, reason)
}

// DismissAll starts the exit of every toast that is not already leaving and
// returns how many were affected. Pass CloseReasonDismissed when a user asked
// for it and CloseReasonClosed when the program clears the stack.
func (m *Manager) DismissAll(reason CloseReason) int {
	n := 0
	for _, t := range slices.Clone(m.toasts) {
		if m.dismiss(t, reason) {
			n++
		}
	}
	return n
}

// Find returns the toast with the given id, or nil once it has been removed.
func (m *Manager) Find(id string) *Toast {
	if id == "" {
		return nil
	}
	for _, t := range m.toasts {
		if t.n.ID == id {
			return t
		}
	}
	return nil
}

// Active returns the toasts not yet removed, in insertion order.
func (m *Manager) Active() []*Toast {
	return slices.Clone(m.toasts)
}

// Len returns the number of toasts not yet removed.
func (m *Manager) Len() int {
	return len(m.toasts)
}

// fire applies ev to t through the lifecycle table.
func (m *Manager) fire(t *Toast, ev Event) bool {
	from := t.n.State
	to, err := Next(from, ev)
	if err != nil {
		m.logger.Debug("toast transition rejected", "toast_id", t.n.ID, "error", err)
		return false
	}
	t.n.State = to
	t.el.SetAttr("data-state", to.String())
	m.logger.Debug("toast transition",
		"toast_id", t.n.ID,
		"from", from,
		"event", ev,
		"to", to,
	)
	for _, e := range slices.Clone(m.observers) {
		if o, ok := e.o.(TransitionObserver); ok {
			o.ToastTransitioned(t, from, to, ev)
		}
	}
	return true
}

// arm replaces any pending auto-dismiss timer with one for window.
func (m *Manager) arm(t *Toast, window time.Duration, start float64) {
	m.stopTimer(t)
	gen := t.gen
	now := m.sched.Now()
	t.window = window
	t.start = start
	t.deadline = now.Add(window)
	t.timer = m.sched.AfterFunc(window, func() {
		if t.gen != gen {
			return
		}
		t.timer = nil
		m.expire(t)
	})
	t.syncProgress(now)
}

func (m *Manager) stopTimer(t *Toast) {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (m *Manager) pause(t *Toast) {
	now := m.sched.Now()
	frozen := t.Progress(now)
	if !m.fire(t, EventPause) {
		return
	}
	m.stopTimer(t)
	t.frozen = frozen
	t.syncProgress(now)
}

func (m *Manager) resume(t *Toast) {
	if !m.fire(t, EventResume) {
		return
	}
	m.arm(t, m.opts.ResumeGrace, t.frozen)
}

func (m *Manager) expire(t *Toast) {
	m.beginExit(t, EventExpire, CloseReasonExpired)
}

func (m *Manager) dismiss(t *Toast, reason CloseReason) bool {
	return m.beginExit(t, EventDismiss, reason)
}

// beginExit moves t to dismissing, cancels its timer and starts the exit
// animation. The node is removed on animationend or when the fallback timer
// fires, whichever comes first.
func (m *Manager) beginExit(t *Toast, ev Event, reason CloseReason) bool {
	if !m.fire(t, ev) {
		return false
	}
	m.stopTimer(t)
	t.reason = reason
	t.el.AddClass(ClassExit)
	t.syncProgress(m.sched.Now())

	if m.opts.ReduceMotion || m.opts.ExitAnimation == 0 {
		m.finishExit(t)
		return true
	}
	t.exit = m.sched.AfterFunc(m.opts.ExitAnimation, func() {
		t.exit = nil
		m.finishExit(t)
	})
	return true
}

func (m *Manager) finishExit(t *Toast) {
	if !m.fire(t, EventExitDone) {
		return
	}
	if t.exit != nil {
		t.exit.Stop()
		t.exit = nil
	}
	t.el.Remove()
	m.toasts = slices.DeleteFunc(m.toasts, func(x *Toast) bool { return x == t })

	m.logger.Debug("toast removed",
		"toast_id", t.n.ID,
		"reason", t.reason,
		"active", len(m.toasts),
	)

	for _, e := range slices.Clone(m.observers) {
		e.o.ToastRemoved(t, t.reason)
	}
}
