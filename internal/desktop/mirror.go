package desktop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/eventloop"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Closer closes toasts by id. *toast.Manager satisfies it.
type Closer interface {
	Close(id string, reason toast.CloseReason) bool
}

// Mirror copies shown toasts to the desktop and keeps both sides in step:
// removing a toast closes its desktop popup, and dismissing the popup on the
// desktop dismisses the toast. It implements toast.Observer.
//
// Bus calls run in order on a goroutine owned by the mirror, so a slow
// notification daemon never stalls the dispatch goroutine. Toast closes
// triggered by the desktop are posted back through the Poster.
type Mirror struct {
	mu      sync.Mutex
	bus     Bus
	poster  eventloop.Poster
	closer  Closer
	logger  *slog.Logger
	appName string
	expire  time.Duration

	byToast map[string]uint32
	byID    map[uint32]string

	// pending bus calls, drained by a single worker while working is set
	queue   []func()
	working bool
	idle    chan struct{}

	done chan struct{}
}

var _ toast.Observer = (*Mirror)(nil)

// NewMirror creates a mirror over bus. Close requests from the desktop are
// delivered to closer on poster's goroutine.
func NewMirror(bus Bus, poster eventloop.Poster, closer Closer, appName string, expire time.Duration, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		bus:     bus,
		poster:  poster,
		closer:  closer,
		logger:  logger,
		appName: appName,
		expire:  expire,
		byToast: make(map[string]uint32),
		byID:    make(map[uint32]string),
		done:    make(chan struct{}),
	}
}

// SetExpire changes the desktop popup timeout for toasts shown from now on.
func (m *Mirror) SetExpire(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire = d
}

// Start listens for NotificationClosed until ctx is done or the bus closes.
func (m *Mirror) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-m.bus.Closed():
				if !ok {
					return
				}
				m.handleClosed(sig)
			}
		}
	}()
}

// Done is closed when the signal listener has stopped.
func (m *Mirror) Done() <-chan struct{} {
	return m.done
}

func (m *Mirror) handleClosed(sig ClosedSignal) {
	m.mu.Lock()
	toastID, ok := m.byID[sig.ID]
	if ok {
		delete(m.byID, sig.ID)
		delete(m.byToast, toastID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	m.logger.Debug("desktop notification closed", "notification_id", sig.ID, "toast_id", toastID, "reason", sig.Reason)

	// Only a user dismissal on the desktop closes the toast; expiry of the
	// popup leaves it alone.
	if sig.Reason != ReasonDismissed {
		return
	}
	if !m.poster.Post(func() { m.closer.Close(toastID, toast.CloseReasonDismissed) }) {
		m.logger.Debug("dispatch loop stopped, dropping desktop close", "toast_id", toastID)
	}
}

// ToastShown queues the toast for the desktop. Failures are logged.
func (m *Mirror) ToastShown(t *toast.Toast) {
	m.mu.Lock()
	n := FromToast(t, m.appName, m.expire)
	m.mu.Unlock()

	toastID := t.ID()
	m.enqueue(func() {
		id, err := m.bus.Notify(n)
		if err != nil {
			m.logger.Warn("failed to mirror toast", "toast_id", toastID, "error", err)
			return
		}

		m.mu.Lock()
		m.byToast[toastID] = id
		m.byID[id] = toastID
		m.mu.Unlock()
		m.logger.Debug("toast mirrored", "toast_id", toastID, "notification_id", id)
	})
}

// ToastRemoved closes the desktop popup if it is still open. It runs after
// the toast's own Notify call.
func (m *Mirror) ToastRemoved(t *toast.Toast, reason toast.CloseReason) {
	toastID := t.ID()
	m.enqueue(func() {
		m.mu.Lock()
		id, ok := m.byToast[toastID]
		if ok {
			delete(m.byToast, toastID)
			delete(m.byID, id)
		}
		m.mu.Unlock()

		if !ok {
			return
		}
		if err := m.bus.CloseNotification(id); err != nil {
			m.logger.Warn("failed to close desktop notification", "toast_id", toastID, "notification_id", id, "reason", reason, "error", err)
		}
	})
}

func (m *Mirror) enqueue(op func()) {
	m.mu.Lock()
	m.queue = append(m.queue, op)
	if m.working {
		m.mu.Unlock()
		return
	}
	m.working = true
	m.idle = make(chan struct{})
	m.mu.Unlock()

	go m.work()
}

func (m *Mirror) work() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.working = false
			close(m.idle)
			m.mu.Unlock()
			return
		}
		op := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		op()
	}
}

// Wait blocks until every queued bus call has completed or ctx is done.
func (m *Mirror) Wait(ctx context.Context) error {
	m.mu.Lock()
	if !m.working {
		m.mu.Unlock()
		return nil
	}
	idle := m.idle
	m.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Mirrored returns the desktop id for a toast, if it has one.
func (m *Mirror) Mirrored(toastID string) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byToast[toastID]
	return id, ok
}
