// Package desktop mirrors toasts to the freedesktop notification daemon on
// the session bus.
package desktop

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// D-Bus names of the notification service.
const (
	DBusName      = "org.freedesktop.Notifications"
	DBusPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	DBusInterface = "org.freedesktop.Notifications"
)

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// UrgencyFor maps a toast kind onto an urgency.
func UrgencyFor(k model.Kind) Urgency {
	switch model.ParseKind(string(k)) {
	case model.KindError:
		return UrgencyCritical
	case model.KindWarning:
		return UrgencyNormal
	default:
		return UrgencyLow
	}
}

// IconFor returns the freedesktop icon name for a kind.
func IconFor(k model.Kind) string {
	switch model.ParseKind(string(k)) {
	case model.KindSuccess:
		return "emblem-ok"
	case model.KindError:
		return "dialog-error"
	case model.KindWarning:
		return "dialog-warning"
	default:
		return "dialog-information"
	}
}

// Close reasons carried by the NotificationClosed signal.
const (
	ReasonExpired   uint32 = 1
	ReasonDismissed uint32 = 2
	ReasonClosed    uint32 = 3
	ReasonUndefined uint32 = 4
)

// Notification holds the arguments of a Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // milliseconds; -1 = server default, 0 = never expire
}

// FromToast builds the Notify arguments for a toast. The desktop popup
// expires after expire, so it does not outlive the in-app toast by much.
func FromToast(t *toast.Toast, appName string, expire time.Duration) Notification {
	kind := t.Kind()
	return Notification{
		AppName: appName,
		AppIcon: IconFor(kind),
		Summary: t.Presentation().Title,
		Body:    t.Message(),
		Actions: []string{},
		Hints: map[string]dbus.Variant{
			"urgency":       dbus.MakeVariant(byte(UrgencyFor(kind))),
			"category":      dbus.MakeVariant("x-toastui." + string(kind)),
			"transient":     dbus.MakeVariant(true),
			"desktop-entry": dbus.MakeVariant(appName),
		},
		ExpireTimeout: int32(expire.Milliseconds()),
	}
}

// Urgency extracts the urgency hint. Returns UrgencyNormal if not specified.
func (n *Notification) Urgency() Urgency {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return Urgency(b)
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint.
func (n *Notification) Category() string {
	if v, ok := n.Hints["category"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Transient returns true if the transient hint is set.
func (n *Notification) Transient() bool {
	if v, ok := n.Hints["transient"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// Error wraps a failed bus operation.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return "desktop " + e.Op + ": " + e.Cause.Error()
	}
	return "desktop " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Cause
}
