// Package model defines the core data structures for toastui.
package model

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind is the presentation category of a notification.
type Kind string

// Notification kinds. Anything else is presented as KindInfo.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Kinds returns all valid kinds in display order.
func Kinds() []Kind {
	return []Kind{KindSuccess, KindError, KindWarning, KindInfo}
}

// ParseKind maps a string to a Kind. Unknown or empty values fall back to KindInfo.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return k
	default:
		return KindInfo
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return ParseKind(string(k)) == k
}

// State is the lifecycle state of a notification.
type State int

const (
	StateShowing State = iota
	StatePaused
	StateDismissing
	StateRemoved
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateShowing:
		return "showing"
	case StatePaused:
		return "paused"
	case StateDismissing:
		return "dismissing"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so states serialize by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Visible reports whether a notification in this state still has a node in the container.
func (s State) Visible() bool {
	return s != StateRemoved
}

// Notification is a transient, auto-dismissing message. It is never persisted.
type Notification struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Message   string    `json:"message" yaml:"message"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	State     State     `json:"state" yaml:"state"`
}

// NewNotification creates a Notification in the showing state with a fresh ULID.
// The kind is normalized with ParseKind.
func NewNotification(kind, message string) (*Notification, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Notification{
		ID:        id.String(),
		Kind:      ParseKind(kind),
		Message:   message,
		CreatedAt: now,
		State:     StateShowing,
	}, nil
}

// MustNewNotification is like NewNotification but falls back to a
// time-derived identifier if the entropy source fails.
func MustNewNotification(kind, message string) *Notification {
	n, err := NewNotification(kind, message)
	if err == nil {
		return n
	}
	now := time.Now()
	return &Notification{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Kind:      ParseKind(kind),
		Message:   message,
		CreatedAt: now,
		State:     StateShowing,
	}
}

// Age returns how long ago the notification was created relative to now.
func (n *Notification) Age(now time.Time) time.Duration {
	if now.Before(n.CreatedAt) {
		return 0
	}
	return now.Sub(n.CreatedAt)
}

// MessageTruncated returns the message truncated to maxLen runes, collapsing whitespace.
func (n *Notification) MessageTruncated(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	msg := []rune(strings.Join(strings.Fields(n.Message), " "))
	if len(msg) <= maxLen {
		return string(msg)
	}
	if maxLen <= 1 {
		return string(msg[:maxLen])
	}
	return string(msg[:maxLen-1]) + "…"
}
