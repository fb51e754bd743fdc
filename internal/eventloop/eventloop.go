// Package eventloop provides the single-threaded dispatch used by toasts.
//
// Every toast operation and every timer callback runs on one goroutine. A
// Scheduler arms timers whose callbacks are delivered back onto that
// goroutine, so handlers never run concurrently with each other.
package eventloop

import "time"

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already fired or was stopped.
	Stop() bool
}

// Scheduler arms timers whose callbacks run on the dispatch goroutine.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Poster queues work onto the dispatch goroutine from any goroutine.
type Poster interface {
	Post(f func()) bool
}
