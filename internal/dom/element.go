// Package dom implements a small in-memory element tree with classes,
// attributes, inline style, bubbling events and delegated listeners.
//
// It is the rendering surface for toasts: the toast manager mutates the tree
// and hosts (the terminal page, the headless notifier) read it back and feed
// pointer and animation events into it. Like a browser DOM it is not safe for
// concurrent use; all access happens on the host's dispatch goroutine.
package dom

import (
	"slices"
	"strings"
)

// Element is a node in the tree.
type Element struct {
	doc       *Document
	tag       string
	id        string
	classes   []string
	attrs     map[string]string
	style     map[string]string
	text      string
	parent    *Element
	children  []*Element
	listeners map[EventType][]listener
}

// Document returns the document that created the element.
func (e *Element) Document() *Document {
	return e.doc
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.tag
}

// ID returns the element id.
func (e *Element) ID() string {
	return e.id
}

// SetID sets the element id.
func (e *Element) SetID(id string) *Element {
	e.id = id
	return e
}

// ClassName returns the space separated class list.
func (e *Element) ClassName() string {
	return strings.Join(e.classes, " ")
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// SetClassName replaces the class list.
func (e *Element) SetClassName(className string) *Element {
	e.classes = e.classes[:0]
	return e.AddClass(strings.Fields(className)...)
}

// AddClass adds classes that are not already present.
func (e *Element) AddClass(classes ...string) *Element {
	for _, c := range classes {
		if c != "" && !e.HasClass(c) {
			e.classes = append(e.classes, c)
		}
	}
	return e
}

// RemoveClass removes classes if present.
func (e *Element) RemoveClass(classes ...string) *Element {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(classes, c)
	})
	return e
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

// ToggleClass adds the class if missing, removes it otherwise, and reports
// whether the class is present afterwards.
func (e *Element) ToggleClass(class string) bool {
	if e.HasClass(class) {
		e.RemoveClass(class)
		return false
	}
	e.AddClass(class)
	return true
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) *Element {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	return e
}

// Attr returns an attribute value and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// Dataset returns the value of a data-* attribute, or "" if unset.
func (e *Element) Dataset(key string) string {
	return e.attrs["data-"+key]
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *Element) SetStyle(property, value string) *Element {
	if value == "" {
		delete(e.style, property)
		return e
	}
	if e.style == nil {
		e.style = make(map[string]string)
	}
	e.style[property] = value
	return e
}

// Style returns an inline style property.
func (e *Element) Style(property string) string {
	return e.style[property]
}

// Text returns the element's own text content.
func (e *Element) Text() string {
	return e.text
}

// SetText sets the element's own text content.
func (e *Element) SetText(text string) *Element {
	e.text = text
	return e
}

// TextContent returns the text of the element and its descendants, space separated.
func (e *Element) TextContent() string {
	var parts []string
	e.walk(func(el *Element) bool {
		if el.text != "" {
			parts = append(parts, el.text)
		}
		return true
	})
	return strings.Join(parts, " ")
}

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// Index returns the position of the element within its parent, or -1.
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	return slices.Index(e.parent.children, e)
}

// AppendChild appends child as the last child, detaching it from any previous parent.
func (e *Element) AppendChild(child *Element) *Element {
	return e.insert(child, len(e.children))
}

// Prepend inserts child as the first child.
func (e *Element) Prepend(child *Element) *Element {
	return e.insert(child, 0)
}

func (e *Element) insert(child *Element, at int) *Element {
	if child == nil || child == e || child.Contains(e) {
		return e
	}
	if child.parent != nil {
		child.Remove()
	}
	if at > len(e.children) {
		at = len(e.children)
	}
	e.children = slices.Insert(e.children, at, child)
	child.parent = e
	e.doc.notify(Mutation{Kind: MutationChildAdded, Parent: e, Child: child})
	return e
}

// Remove detaches the element from its parent. Removing a detached element is a no-op.
func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	p.children = slices.DeleteFunc(p.children, func(c *Element) bool { return c == e })
	e.parent = nil
	e.doc.notify(Mutation{Kind: MutationChildRemoved, Parent: p, Child: e})
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Connected reports whether the element is attached to its document's body.
func (e *Element) Connected() bool {
	return e.doc != nil && e.doc.body.Contains(e)
}

// Matches reports whether the element matches a simple selector such as
// "div", ".toast", "#toastContainer" or "button.toast-close.primary".
func (e *Element) Matches(selector string) bool {
	sel, ok := parseSelector(selector)
	if !ok {
		return false
	}
	return sel.match(e)
}

// Closest returns the nearest inclusive ancestor matching the selector.
func (e *Element) Closest(selector string) *Element {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	for n := e; n != nil; n = n.parent {
		if sel.match(n) {
			return n
		}
	}
	return nil
}

// QuerySelector returns the first descendant matching the selector, in document order.
func (e *Element) QuerySelector(selector string) *Element {
	all := e.query(selector, true)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QuerySelectorAll returns all descendants matching the selector, in document order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	return e.query(selector, false)
}

func (e *Element) query(selector string, first bool) []*Element {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	var out []*Element
	for _, c := range e.children {
		c.walk(func(el *Element) bool {
			if sel.match(el) {
				out = append(out, el)
				if first {
					return false
				}
			}
			return true
		})
		if first && len(out) > 0 {
			break
		}
	}
	return out
}

// walk visits e and its descendants depth first until fn returns false.
func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
