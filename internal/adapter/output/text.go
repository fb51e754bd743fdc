package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// TextFormatter formats records as one human readable line each.
type TextFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewTextFormatter creates a new text formatter. A custom template is
// executed once per record with the Record as data.
func NewTextFormatter(opts FormatterOptions) (*TextFormatter, error) {
	f := &TextFormatter{opts: opts}
	if opts.Template != "" {
		tmpl, err := template.New("text").Funcs(templateFuncs()).Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		f.template = tmpl
	}
	return f, nil
}

// Format writes a record as text.
func (f *TextFormatter) Format(w io.Writer, r Record) error {
	if f.template != nil {
		if err := f.template.Execute(w, r); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	sb.WriteString(r.Time.Format("15:04:05.000"))
	sb.WriteString(fmt.Sprintf(" %-10s %-8s", r.State, r.Kind))

	msg := strings.ReplaceAll(r.Message, "\n", " ")
	if f.opts.BodyMaxLen > 0 && len(msg) > f.opts.BodyMaxLen {
		msg = msg[:f.opts.BodyMaxLen-3] + "..."
	}
	sb.WriteString(fmt.Sprintf(" %s: %s", r.Title, msg))

	if r.Event != "" {
		sb.WriteString(fmt.Sprintf(" (%s after %s)", r.Event, elapsed(r.Elapsed)))
	}
	if r.Reason != "" {
		sb.WriteString(" [" + r.Reason + "]")
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// elapsed renders a duration in milliseconds with thousands separators.
func elapsed(d time.Duration) string {
	return humanize.Comma(d.Milliseconds()) + "ms"
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"elapsed": elapsed,
		"ago": func(t time.Time) string {
			return humanize.Time(t)
		},
	}
}
