package dom

import (
	"slices"
	"strings"
)

// MutationKind identifies a structural change to the tree.
type MutationKind int

const (
	MutationChildAdded MutationKind = iota
	MutationChildRemoved
)

// String returns the string representation of the mutation kind.
func (k MutationKind) String() string {
	switch k {
	case MutationChildAdded:
		return "child-added"
	case MutationChildRemoved:
		return "child-removed"
	default:
		return "unknown"
	}
}

// Mutation records a child being attached to or detached from Parent.
type Mutation struct {
	Kind   MutationKind
	Parent *Element
	Child  *Element
}

type observer struct {
	fn func(Mutation)
}

// Document owns a tree of elements rooted at a body element.
type Document struct {
	body      *Element
	observers []*observer
}

// NewDocument creates an empty document with a body.
func NewDocument() *Document {
	d := &Document{}
	d.body = &Element{doc: d, tag: "body"}
	return d
}

// Body returns the body element.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: strings.ToLower(tag)}
}

// GetElementByID returns the first connected element with the given id.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.body.walk(func(el *Element) bool {
		if el.id == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll returns all connected elements matching the selector.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	return d.body.QuerySelectorAll(selector)
}

// Observe registers fn for every structural mutation and returns a function
// that removes the registration.
func (d *Document) Observe(fn func(Mutation)) func() {
	o := &observer{fn: fn}
	d.observers = append(d.observers, o)
	return func() {
		d.observers = slices.DeleteFunc(d.observers, func(x *observer) bool { return x == o })
	}
}

func (d *Document) notify(m Mutation) {
	if d == nil {
		return
	}
	for _, o := range slices.Clone(d.observers) {
		o.fn(m)
	}
}
