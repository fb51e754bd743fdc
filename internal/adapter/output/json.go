package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats records as JSON lines.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonRecord struct {
	Record
	Elapsed int64 `json:"elapsed_ms"`
}

// Format writes a record as a single line of JSON.
func (f *JSONFormatter) Format(w io.Writer, r Record) error {
	return json.NewEncoder(w).Encode(jsonRecord{Record: r, Elapsed: r.Elapsed.Milliseconds()})
}
