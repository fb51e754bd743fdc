package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats records as a stream of YAML documents.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes a record as one YAML document.
func (f *YAMLFormatter) Format(w io.Writer, r Record) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
