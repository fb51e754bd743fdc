package eventloop

import (
	"container/heap"
	"time"
)

// Manual is a Scheduler driven by an explicit clock. Nothing fires until
// Advance is called, which makes timer-dependent behavior deterministic in
// tests. Manual is not safe for concurrent use.
type Manual struct {
	now    time.Time
	seq    uint64
	timers timerHeap
	posted []func()
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual clock.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc arms f to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, when: m.now.Add(d), seq: m.seq, f: f, index: -1}
	heap.Push(&m.timers, t)
	return t
}

// Post queues f; it runs on the next Flush or Advance.
func (m *Manual) Post(f func()) bool {
	m.posted = append(m.posted, f)
	return true
}

// Flush runs posted functions, including any they post, and returns how many ran.
func (m *Manual) Flush() int {
	n := 0
	for len(m.posted) > 0 {
		f := m.posted[0]
		m.posted = m.posted[1:]
		f()
		n++
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in deadline order
// (ties in the order they were armed) with the clock set to each deadline.
// It returns the number of timers fired.
func (m *Manual) Advance(d time.Duration) int {
	m.Flush()
	target := m.now.Add(d)
	fired := 0
	for len(m.timers) > 0 && !m.timers[0].when.After(target) {
		t := heap.Pop(&m.timers).(*manualTimer)
		if t.when.After(m.now) {
			m.now = t.when
		}
		fired++
		t.f()
		m.Flush()
	}
	m.now = target
	return fired
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// NextDeadline returns the earliest armed deadline.
func (m *Manual) NextDeadline() (time.Time, bool) {
	if len(m.timers) == 0 {
		return time.Time{}, false
	}
	return m.timers[0].when, true
}

type manualTimer struct {
	m     *Manual
	when  time.Time
	seq   uint64
	f     func()
	index int
}

func (t *manualTimer) Stop() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.m.timers, t.index)
	return true
}

type timerHeap []*manualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
