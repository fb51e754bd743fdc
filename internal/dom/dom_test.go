package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement_Classes(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("DIV")

	assert.Equal(t, "div", el.Tag())

	el.AddClass("toast", "toast-success", "toast")
	assert.Equal(t, "toast toast-success", el.ClassName())
	assert.True(t, el.HasClass("toast-success"))

	el.RemoveClass("toast-success", "missing")
	assert.Equal(t, []string{"toast"}, el.Classes())

	assert.True(t, el.ToggleClass("focused"))
	assert.False(t, el.ToggleClass("focused"))
	assert.False(t, el.HasClass("focused"))

	el.SetClassName("  a   b a ")
	assert.Equal(t, "a b", el.ClassName())
}

func TestElement_AttrsAndStyle(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div").SetAttr("data-toast-id", "01ABC").SetStyle("width", "50%")

	v, ok := el.Attr("data-toast-id")
	assert.True(t, ok)
	assert.Equal(t, "01ABC", v)
	assert.Equal(t, "01ABC", el.Dataset("toast-id"))
	assert.Equal(t, "50%", el.Style("width"))

	el.SetStyle("width", "")
	assert.Empty(t, el.Style("width"))

	el.RemoveAttr("data-toast-id")
	_, ok = el.Attr("data-toast-id")
	assert.False(t, ok)
}

func TestElement_TreeMutations(t *testing.T) {
	d := NewDocument()
	var muts []Mutation
	stop := d.Observe(func(m Mutation) { muts = append(muts, m) })

	a := d.CreateElement("div").SetID("a")
	b := d.CreateElement("div").SetID("b")
	c := d.CreateElement("div").SetID("c")

	d.Body().AppendChild(a)
	d.Body().AppendChild(b)
	d.Body().Prepend(c)

	require.Len(t, muts, 3)
	assert.Equal(t, []*Element{c, a, b}, d.Body().Children())
	assert.Equal(t, 0, c.Index())
	assert.True(t, a.Connected())

	// Moving a node detaches it first.
	muts = nil
	a.AppendChild(b)
	require.Len(t, muts, 2)
	assert.Equal(t, MutationChildRemoved, muts[0].Kind)
	assert.Equal(t, MutationChildAdded, muts[1].Kind)
	assert.Same(t, a, b.Parent())

	// Removing twice produces one mutation.
	muts = nil
	b.Remove()
	b.Remove()
	assert.Len(t, muts, 1)
	assert.Nil(t, b.Parent())
	assert.False(t, b.Connected())
	assert.Equal(t, -1, b.Index())

	// Cycles are refused.
	a.AppendChild(b)
	b.AppendChild(a)
	assert.Same(t, d.Body(), a.Parent())

	stop()
	muts = nil
	c.Remove()
	assert.Empty(t, muts)
}

func TestElement_Selectors(t *testing.T) {
	d := NewDocument()
	container := d.CreateElement("div").SetID("toastContainer").AddClass("toast-container")
	toast := d.CreateElement("div").AddClass("toast", "toast-error")
	closeBtn := d.CreateElement("button").AddClass("toast-close")
	icon := d.CreateElement("i").AddClass("fas", "fa-exclamation-circle")
	toast.AppendChild(icon)
	toast.AppendChild(closeBtn)
	container.AppendChild(toast)
	d.Body().AppendChild(container)

	tests := []struct {
		name     string
		el       *Element
		selector string
		want     bool
	}{
		{"class", toast, ".toast", true},
		{"compound class", toast, ".toast.toast-error", true},
		{"compound class miss", toast, ".toast.toast-success", false},
		{"tag", closeBtn, "button", true},
		{"tag and class", closeBtn, "button.toast-close", true},
		{"id", container, "#toastContainer", true},
		{"tag id class", container, "div#toastContainer.toast-container", true},
		{"universal", icon, "*", true},
		{"descendant unsupported", icon, ".toast i", false},
		{"empty", icon, "", false},
		{"dangling dot", icon, "i.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.el.Matches(tt.selector))
		})
	}

	assert.Same(t, toast, closeBtn.Closest(".toast"))
	assert.Same(t, container, icon.Closest("#toastContainer"))
	assert.Nil(t, icon.Closest(".missing"))
	assert.Same(t, closeBtn, container.QuerySelector(".toast-close"))
	assert.Len(t, d.QuerySelectorAll(".toast"), 1)
	assert.Same(t, container, d.GetElementByID("toastContainer"))
	assert.Nil(t, d.GetElementByID(""))
}

func TestDispatch_Bubbling(t *testing.T) {
	d := NewDocument()
	outer := d.CreateElement("div")
	inner := d.CreateElement("span")
	outer.AppendChild(inner)

	var order []string
	inner.On(EventClick, func(e *Event) {
		order = append(order, "inner")
		assert.Same(t, inner, e.CurrentTarget)
	})
	outer.On(EventClick, func(e *Event) {
		order = append(order, "outer")
		assert.Same(t, inner, e.Target)
		assert.Same(t, outer, e.CurrentTarget)
	})

	assert.True(t, Dispatch(inner, EventClick))
	assert.Equal(t, []string{"inner", "outer"}, order)

	assert.False(t, Dispatch(inner, EventPointerEnter))
	assert.False(t, Dispatch(nil, EventClick))
}

func TestDispatch_StopPropagation(t *testing.T) {
	d := NewDocument()
	outer := d.CreateElement("div")
	inner := d.CreateElement("span")
	outer.AppendChild(inner)

	outerCalled := false
	inner.On(EventClick, func(e *Event) { e.StopPropagation() })
	outer.On(EventClick, func(*Event) { outerCalled = true })

	Dispatch(inner, EventClick)
	assert.False(t, outerCalled)
}

func TestDelegate(t *testing.T) {
	d := NewDocument()
	container := d.CreateElement("div").AddClass("toast-container")
	toast := d.CreateElement("div").AddClass("toast")
	closeBtn := d.CreateElement("button").AddClass("toast-close")
	glyph := d.CreateElement("i").AddClass("fas", "fa-times")
	closeBtn.AppendChild(glyph)
	toast.AppendChild(closeBtn)
	container.AppendChild(toast)

	var matched []*Element
	remove := container.Delegate(EventClick, ".toast-close", func(e *Event) {
		matched = append(matched, e.CurrentTarget)
	})

	// A click on the glyph inside the button is matched to the button.
	Dispatch(glyph, EventClick)
	// A click on the toast body does not match.
	Dispatch(toast, EventClick)
	// The container itself never matches its own delegated selector.
	container.AddClass("toast-close")
	Dispatch(container, EventClick)

	require.Len(t, matched, 1)
	assert.Same(t, closeBtn, matched[0])

	remove()
	Dispatch(glyph, EventClick)
	assert.Len(t, matched, 1)
}

func TestElement_HTML(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div").SetID("t1").AddClass("toast").SetAttr("role", "alert").SetStyle("width", "40%")
	el.AppendChild(d.CreateElement("span").SetText("Saved <ok> & done"))

	assert.Equal(t,
		`<div id="t1" class="toast" role="alert" style="width: 40%"><span>Saved &lt;ok&gt; &amp; done</span></div>`,
		el.HTML())
	assert.Equal(t, "Saved <ok> & done", el.TextContent())
}
