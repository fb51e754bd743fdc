package toast

import (
	"fmt"
	"time"

	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/model"
)

// Class names shared with hosts that render the container.
const (
	ClassContainer = "toast-container"
	ClassToast     = "toast"
	ClassExit      = "toast-exit"
	ClassHeader    = "toast-header"
	ClassIcon      = "toast-icon"
	ClassTitle     = "toast-title"
	ClassMessage   = "toast-message"
	ClassClose     = "toast-close"
	ClassProgress  = "toast-progress"
	ClassTime      = "toast-time"
	ClassBox       = "toast-box"
)

// render builds the toast subtree from the configured layout. A layout
// without a close control still gets one so the toast can be dismissed by hand.
func (m *Manager) render(t *Toast) *dom.Element {
	root := m.doc.CreateElement("div").
		AddClass(ClassToast, "toast-"+string(t.n.Kind)).
		SetAttr("role", "alert").
		SetAttr("data-toast-id", t.n.ID).
		SetAttr("data-state", t.n.State.String())

	lay := m.opts.Layout
	for _, le := range lay.Elements {
		root.AppendChild(m.renderElement(t, le))
	}
	if !lay.Has(layout.ElementTypeClose) {
		root.AppendChild(m.closeButton())
	}
	return root
}

func (m *Manager) renderElement(t *Toast, le layout.LayoutElement) *dom.Element {
	var el *dom.Element
	switch le.Type {
	case layout.ElementTypeHeader:
		el = m.doc.CreateElement("div").AddClass(ClassHeader)
	case layout.ElementTypeBox:
		el = m.doc.CreateElement("div").
			AddClass(ClassBox, ClassBox+"-"+le.Attr("orientation", "horizontal"))
	case layout.ElementTypeIcon:
		el = m.doc.CreateElement("i").
			AddClass(ClassIcon, "fas", "fa-"+t.pres.Icon).
			SetText(t.pres.Glyph)
	case layout.ElementTypeTitle:
		el = m.doc.CreateElement("div").AddClass(ClassTitle).SetText(t.pres.Title)
	case layout.ElementTypeBody:
		el = m.doc.CreateElement("div").AddClass(ClassMessage).SetText(t.n.Message)
	case layout.ElementTypeClose:
		el = m.closeButton()
	case layout.ElementTypeProgress:
		el = m.doc.CreateElement("div").AddClass(ClassProgress)
		t.progress = el
	case layout.ElementTypeTimestamp:
		el = m.doc.CreateElement("time").
			AddClass(ClassTime).
			SetAttr("datetime", t.n.CreatedAt.Format(time.RFC3339))
	default:
		el = m.doc.CreateElement("div")
	}

	if class := le.Attr("class", ""); class != "" {
		el.AddClass(class)
	}
	for _, child := range le.Children {
		el.AppendChild(m.renderElement(t, child))
	}
	return el
}

func (m *Manager) closeButton() *dom.Element {
	btn := m.doc.CreateElement("button").
		AddClass(ClassClose).
		SetAttr("type", "button").
		SetAttr("aria-label", "Close")
	btn.AppendChild(m.doc.CreateElement("i").AddClass("fas", "fa-times").SetText("✕"))
	return btn
}

// syncProgress mirrors the timer state onto the progress bar's inline style.
func (t *Toast) syncProgress(now time.Time) {
	if t.progress == nil {
		return
	}
	t.progress.SetStyle("width", fmt.Sprintf("%.0f%%", t.Progress(now)*100))
	switch t.n.State {
	case model.StateShowing:
		t.progress.SetStyle("animation-duration", fmt.Sprintf("%dms", t.window.Milliseconds()))
		t.progress.SetStyle("animation-play-state", "running")
	case model.StatePaused:
		t.progress.SetStyle("animation-play-state", "paused")
	}
}
