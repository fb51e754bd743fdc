package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/toastui/internal/model"
)

// IDsFormatter outputs the toast ID once, when the toast is first shown.
// Useful for scripts that only need the handle.
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes the ID of a newly shown toast.
func (f *IDsFormatter) Format(w io.Writer, r Record) error {
	if r.Event != "" || r.State != model.StateShowing {
		return nil
	}
	_, err := fmt.Fprintln(w, r.ToastID)
	return err
}
