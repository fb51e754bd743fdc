// Package layout parses the XML templates that describe the node structure of a toast.
package layout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ElementType identifies the type of layout element.
type ElementType string

const (
	ElementTypeHeader    ElementType = "header"
	ElementTypeBody      ElementType = "body"
	ElementTypeIcon      ElementType = "icon"
	ElementTypeTitle     ElementType = "title"
	ElementTypeClose     ElementType = "close"
	ElementTypeProgress  ElementType = "progress"
	ElementTypeTimestamp ElementType = "timestamp"
	ElementTypeBox       ElementType = "box"
)

// ValidElements lists all recognized element types.
var ValidElements = map[string]ElementType{
	"header":    ElementTypeHeader,
	"body":      ElementTypeBody,
	"icon":      ElementTypeIcon,
	"title":     ElementTypeTitle,
	"close":     ElementTypeClose,
	"progress":  ElementTypeProgress,
	"timestamp": ElementTypeTimestamp,
	"box":       ElementTypeBox,
}

// ErrNoRoot is returned when a template has no <toast> element.
var ErrNoRoot = errors.New("template has no <toast> root element")

// LayoutConfig represents the parsed layout structure ready for building toast nodes.
type LayoutConfig struct {
	// Width bounds in terminal cells (0 = use config default).
	MinWidth int
	MaxWidth int
	// Elements not recognized while parsing, in document order.
	Skipped  []string
	Elements []LayoutElement
}

// LayoutElement represents a single element in the layout.
type LayoutElement struct {
	Type       ElementType
	Attributes map[string]string
	Children   []LayoutElement
}

// Attr returns an attribute value or def when unset.
func (e LayoutElement) Attr(name, def string) string {
	if v, ok := e.Attributes[name]; ok && v != "" {
		return v
	}
	return def
}

// Has reports whether the layout contains an element of type t at any depth.
func (c *LayoutConfig) Has(t ElementType) bool {
	return containsType(c.Elements, t)
}

func containsType(elems []LayoutElement, t ElementType) bool {
	for _, e := range elems {
		if e.Type == t || containsType(e.Children, t) {
			return true
		}
	}
	return false
}

// ParseTemplate parses an XML layout template from a reader.
// Unknown elements are skipped together with their children and recorded in Skipped.
func ParseTemplate(r io.Reader) (*LayoutConfig, error) {
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, ErrNoRoot
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "toast" {
			return nil, fmt.Errorf("unexpected root element <%s>: %w", se.Name.Local, ErrNoRoot)
		}

		var config LayoutConfig
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "min-width":
				if v, err := parseCellValue(attr.Value); err == nil {
					config.MinWidth = v
				}
			case "max-width":
				if v, err := parseCellValue(attr.Value); err == nil {
					config.MaxWidth = v
				}
			}
		}

		elements, err := parseElements(decoder, &config.Skipped)
		if err != nil {
			return nil, err
		}
		config.Elements = elements
		return &config, nil
	}
}

// parseCellValue parses a width string (e.g., "40", "40ch") to int.
func parseCellValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "ch")
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

// parseElements recursively parses child elements up to the parent's end tag.
func parseElements(decoder *xml.Decoder, skipped *[]string) ([]LayoutElement, error) {
	var elements []LayoutElement

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return elements, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			elemName := strings.ToLower(t.Name.Local)
			elemType, ok := ValidElements[elemName]
			if !ok {
				*skipped = append(*skipped, elemName)
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("failed to skip <%s>: %w", elemName, err)
				}
				continue
			}

			elem := LayoutElement{
				Type:       elemType,
				Attributes: make(map[string]string),
			}
			for _, attr := range t.Attr {
				elem.Attributes[attr.Name.Local] = attr.Value
			}

			children, err := parseElements(decoder, skipped)
			if err != nil {
				return nil, err
			}
			elem.Children = children
			elements = append(elements, elem)

		case xml.EndElement:
			return elements, nil
		}
	}
}

// ParseTemplateString parses a template from a string.
func ParseTemplateString(s string) (*LayoutConfig, error) {
	return ParseTemplate(strings.NewReader(s))
}

// LoadTemplate loads a template from file.
func LoadTemplate(path string) (*LayoutConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseTemplate(f)
}

// Loader handles loading layout templates from various sources.
type Loader struct {
	templatesDir string
	logger       *slog.Logger
}

// NewLoader creates a new template loader. templatesDir may be empty.
func NewLoader(templatesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{templatesDir: templatesDir, logger: logger}
}

// Load loads a layout template by name.
// Checks the user directory first, then the embedded templates.
func (l *Loader) Load(name string) (*LayoutConfig, error) {
	if name == "" {
		name = "default"
	}

	if l.templatesDir != "" {
		templatePath := filepath.Join(l.templatesDir, name+".xml")
		if _, err := os.Stat(templatePath); err == nil {
			cfg, err := LoadTemplate(templatePath)
			if err != nil {
				return nil, err
			}
			if len(cfg.Skipped) > 0 {
				l.logger.Warn("skipped unknown layout elements", "template", templatePath, "elements", cfg.Skipped)
			}
			return cfg, nil
		}
	}

	if cfg, ok := GetEmbeddedTemplate(name); ok {
		return cfg, nil
	}

	return nil, fmt.Errorf("layout template not found: %s", name)
}

// DefaultLayout returns the default toast layout.
func DefaultLayout() *LayoutConfig {
	return &LayoutConfig{
		MinWidth: 30,
		MaxWidth: 60,
		Elements: []LayoutElement{
			{Type: ElementTypeProgress, Attributes: map[string]string{}},
			{
				Type:       ElementTypeHeader,
				Attributes: map[string]string{},
				Children: []LayoutElement{
					{Type: ElementTypeIcon, Attributes: map[string]string{}},
					{Type: ElementTypeTitle, Attributes: map[string]string{}},
					{Type: ElementTypeClose, Attributes: map[string]string{}},
				},
			},
			{Type: ElementTypeBody, Attributes: map[string]string{}},
			{Type: ElementTypeTimestamp, Attributes: map[string]string{}},
		},
	}
}

// DefaultTemplateXML returns the default template as XML string.
func DefaultTemplateXML() string {
	return `<toast min-width="30" max-width="60">
  <progress />
  <header>
    <icon />
    <title />
    <close />
  </header>
  <body />
  <timestamp />
</toast>`
}
