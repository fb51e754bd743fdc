package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastui/internal/eventloop"
)

// timerMsg carries a fired timer into Update.
type timerMsg struct {
	t *teaTimer
}

// postMsg carries posted work into Update.
type postMsg struct {
	f func()
}

// Scheduler delivers timer callbacks and posted functions as bubbletea
// messages, so they run inside Update on the program's goroutine. It must be
// attached to the program with Attach before any timer fires; messages sent
// earlier are queued and flushed on Attach.
type Scheduler struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

var (
	_ eventloop.Scheduler = (*Scheduler)(nil)
	_ eventloop.Poster    = (*Scheduler)(nil)
)

// NewScheduler creates a detached scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Attach connects the scheduler to a program, usually (*tea.Program).Send.
func (s *Scheduler) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, msg := range queued {
		send(msg)
	}
}

func (s *Scheduler) deliver(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	if send == nil {
		s.pending = append(s.pending, msg)
	}
	s.mu.Unlock()

	if send != nil {
		send(msg)
	}
}

// Now implements eventloop.Scheduler.
func (s *Scheduler) Now() time.Time {
	return time.Now()
}

// AfterFunc implements eventloop.Scheduler. f runs inside Update.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) eventloop.Timer {
	t := &teaTimer{f: f}
	t.rt = time.AfterFunc(d, func() { s.deliver(timerMsg{t: t}) })
	return t
}

// Post implements eventloop.Poster. f runs inside Update.
func (s *Scheduler) Post(f func()) bool {
	s.deliver(postMsg{f: f})
	return true
}

type teaTimer struct {
	rt      *time.Timer
	f       func()
	stopped atomic.Bool
	fired   atomic.Bool
}

// Stop prevents f from running, even if the timer message is already queued.
func (t *teaTimer) Stop() bool {
	t.rt.Stop()
	if t.fired.Load() {
		return false
	}
	return !t.stopped.Swap(true)
}

// fire runs f unless the timer was stopped first.
func (t *teaTimer) fire() bool {
	if t.stopped.Load() || t.fired.Swap(true) {
		return false
	}
	t.f()
	return true
}
