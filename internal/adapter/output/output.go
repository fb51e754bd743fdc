// Package output provides formatters for toast lifecycle records.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Record is one observed lifecycle step of a toast.
type Record struct {
	Time    time.Time     `json:"time" yaml:"time"`
	Elapsed time.Duration `json:"-" yaml:"elapsed"`
	ToastID string        `json:"toast_id" yaml:"toast_id"`
	Kind    model.Kind    `json:"kind" yaml:"kind"`
	Title   string        `json:"title" yaml:"title"`
	Message string        `json:"message" yaml:"message"`
	Event   string        `json:"event,omitempty" yaml:"event,omitempty"`
	State   model.State   `json:"state" yaml:"state"`
	Reason  string        `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// NewRecord describes t at time at. ev is empty for the initial record.
func NewRecord(t *toast.Toast, ev string, at time.Time) Record {
	r := Record{
		Time:    at,
		Elapsed: at.Sub(t.CreatedAt()),
		ToastID: t.ID(),
		Kind:    t.Kind(),
		Title:   t.Presentation().Title,
		Message: t.Message(),
		Event:   ev,
		State:   t.State(),
	}
	if t.State() == model.StateRemoved {
		r.Reason = t.CloseReason().String()
	}
	return r
}

// Formatter writes lifecycle records.
type Formatter interface {
	// Format writes one record to the writer.
	Format(w io.Writer, r Record) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
	FormatYAML FormatType = "yaml"
	FormatIDs  FormatType = "ids"
)

// FormatTypes lists the supported formats.
func FormatTypes() []FormatType {
	return []FormatType{FormatText, FormatJSON, FormatYAML, FormatIDs}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatText, "":
		return NewTextFormatter(opts)
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatIDs:
		return NewIDsFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, FormatTypes())
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom Go template for text format
	BodyMaxLen int    // Maximum message length (0 = unlimited)
}
