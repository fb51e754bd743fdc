package dom

import (
	"html"
	"maps"
	"slices"
	"strings"
)

// HTML serializes the element and its descendants. Attributes and style
// properties are written in sorted order so the output is stable.
func (e *Element) HTML() string {
	var sb strings.Builder
	e.writeHTML(&sb)
	return sb.String()
}

func (e *Element) writeHTML(sb *strings.Builder) {
	sb.WriteString("<")
	sb.WriteString(e.tag)
	if e.id != "" {
		writeAttr(sb, "id", e.id)
	}
	if len(e.classes) > 0 {
		writeAttr(sb, "class", e.ClassName())
	}
	for _, k := range slices.Sorted(maps.Keys(e.attrs)) {
		writeAttr(sb, k, e.attrs[k])
	}
	if len(e.style) > 0 {
		var parts []string
		for _, k := range slices.Sorted(maps.Keys(e.style)) {
			parts = append(parts, k+": "+e.style[k])
		}
		writeAttr(sb, "style", strings.Join(parts, "; "))
	}
	sb.WriteString(">")
	sb.WriteString(html.EscapeString(e.text))
	for _, c := range e.children {
		c.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteString(">")
}

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteString(`"`)
}
