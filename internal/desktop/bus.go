package desktop

import (
	"context"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

// callTimeout bounds each method call to the notification daemon.
const callTimeout = 5 * time.Second

// ClosedSignal is a decoded NotificationClosed signal.
type ClosedSignal struct {
	ID     uint32
	Reason uint32
}

// Bus is the part of the notification service the mirror talks to.
type Bus interface {
	Notify(n Notification) (uint32, error)
	CloseNotification(id uint32) error
	// Closed returns the channel NotificationClosed signals arrive on. It is
	// closed when the bus is.
	Closed() <-chan ClosedSignal
	Close() error
}

// SessionBus talks to the notification daemon over the D-Bus session bus.
type SessionBus struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	signals chan *dbus.Signal
	closed  chan ClosedSignal

	done     chan struct{}
	stopOnce sync.Once
}

// ConnectSession opens a private session bus connection and subscribes to
// NotificationClosed.
func ConnectSession() (*SessionBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, &Error{Op: "connect", Cause: err}
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(DBusInterface),
		dbus.WithMatchMember("NotificationClosed"),
		dbus.WithMatchObjectPath(DBusPath),
	); err != nil {
		_ = conn.Close()
		return nil, &Error{Op: "subscribe", Cause: err}
	}

	b := &SessionBus{
		conn:    conn,
		obj:     conn.Object(DBusName, DBusPath),
		signals: make(chan *dbus.Signal, 16),
		closed:  make(chan ClosedSignal, 16),
		done:    make(chan struct{}),
	}
	conn.Signal(b.signals)
	go b.decode()
	return b, nil
}

// decode forwards NotificationClosed signals until the connection closes or
// Close is called.
func (b *SessionBus) decode() {
	defer close(b.closed)
	for sig := range b.signals {
		if sig.Name != DBusInterface+".NotificationClosed" || len(sig.Body) != 2 {
			continue
		}
		id, ok1 := sig.Body[0].(uint32)
		reason, ok2 := sig.Body[1].(uint32)
		if !ok1 || !ok2 {
			continue
		}
		select {
		case b.closed <- ClosedSignal{ID: id, Reason: reason}:
		case <-b.done:
			return
		}
	}
}

// Notify calls org.freedesktop.Notifications.Notify and returns the server id.
func (b *SessionBus) Notify(n Notification) (uint32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	var id uint32
	err := b.obj.CallWithContext(ctx, DBusInterface+".Notify", 0,
		n.AppName,
		n.ReplacesID,
		n.AppIcon,
		n.Summary,
		n.Body,
		n.Actions,
		n.Hints,
		n.ExpireTimeout,
	).Store(&id)
	if err != nil {
		return 0, &Error{Op: "notify", Cause: err}
	}
	return id, nil
}

// CloseNotification asks the server to close a notification.
func (b *SessionBus) CloseNotification(id uint32) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	if err := b.obj.CallWithContext(ctx, DBusInterface+".CloseNotification", 0, id).Err; err != nil {
		return &Error{Op: "close", Cause: err}
	}
	return nil
}

// Closed implements Bus.
func (b *SessionBus) Closed() <-chan ClosedSignal {
	return b.closed
}

// Close stops the decoder and closes the connection.
func (b *SessionBus) Close() error {
	b.stop()
	b.conn.RemoveSignal(b.signals)
	return b.conn.Close()
}

func (b *SessionBus) stop() {
	b.stopOnce.Do(func() { close(b.done) })
}
