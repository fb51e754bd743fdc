package tui

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/decor"
	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/theme"
	"github.com/jmylchreest/toastui/internal/toast"
)

// edgeMargin is the gap between the toast stack and the screen edge.
const edgeMargin = 1

// toastBox is a toast placed on screen. Coordinates are zero-based cells.
type toastBox struct {
	t    *toast.Toast
	el   *dom.Element
	view string

	x, y, w, h int

	// closeX, closeY locate the close glyph; closeY is -1 when there is none.
	closeX, closeY int
}

func (b toastBox) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

func (b toastBox) onClose(x, y int) bool {
	return b.closeY >= 0 && y == b.closeY && (x == b.closeX || x == b.closeX-1)
}

// toastWidth is the configured width bounded by the layout's limits.
func toastWidth(cfg *config.Config, lay *layout.LayoutConfig) int {
	w := config.DefaultWidth
	if cfg != nil && cfg.Toast.Width > 0 {
		w = cfg.Toast.Width
	}
	if lay != nil {
		if lay.MinWidth > 0 {
			w = max(w, lay.MinWidth)
		}
		if lay.MaxWidth > 0 {
			w = min(w, lay.MaxWidth)
		}
	}
	return w
}

// line is one rendered row of a toast's content.
type line struct {
	text  string
	close bool
}

// toastRenderer turns a toast's DOM subtree into terminal rows.
type toastRenderer struct {
	styles theme.Styles
	now    time.Time
	inner  int
}

// render returns the boxed toast and the row of its close glyph within the
// content, or -1.
func (r toastRenderer) render(t *toast.Toast) (string, int) {
	el := t.Element()
	var lines []line
	for _, child := range el.Children() {
		lines = append(lines, r.block(t, child)...)
	}

	closeRow := -1
	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.text
		if l.close && closeRow < 0 {
			closeRow = i
		}
	}

	box := r.styles.KindBorder(t.Kind()).Width(r.inner + 2)
	if el.HasClass(toast.ClassExit) {
		box = box.Faint(true)
	}
	return box.Render(strings.Join(rows, "\n")), closeRow
}

// block renders el as full-width rows.
func (r toastRenderer) block(t *toast.Toast, el *dom.Element) []line {
	switch {
	case el.HasClass(toast.ClassProgress):
		return []line{{text: r.progress(t)}}
	case el.HasClass(toast.ClassMessage):
		wrapped := lipgloss.NewStyle().Width(r.inner).Render(el.Text())
		var out []line
		for _, s := range strings.Split(r.styles.Message.Render(wrapped), "\n") {
			out = append(out, line{text: s})
		}
		return out
	case el.HasClass(toast.ClassBox) && el.HasClass(toast.ClassBox+"-vertical"):
		var out []line
		for _, child := range el.Children() {
			out = append(out, r.block(t, child)...)
		}
		return out
	default:
		return []line{r.inline(t, el)}
	}
}

// inline renders el and its descendants on a single row. A close control is
// pushed to the right edge.
func (r toastRenderer) inline(t *toast.Toast, el *dom.Element) line {
	var parts []string
	hasClose := false

	var walk func(e *dom.Element)
	walk = func(e *dom.Element) {
		switch {
		case e.HasClass(toast.ClassClose):
			hasClose = true
		case e.HasClass(toast.ClassIcon):
			parts = append(parts, r.styles.Kind(t.Kind()).Render(e.Text()))
		case e.HasClass(toast.ClassTitle):
			parts = append(parts, r.styles.Title.Render(e.Text()))
		case e.HasClass(toast.ClassMessage):
			parts = append(parts, r.styles.Message.Render(e.Text()))
		case e.HasClass(toast.ClassTime):
			parts = append(parts, r.styles.Muted.Render(r.relTime(t)))
		case e.HasClass(toast.ClassProgress):
			parts = append(parts, r.progressInline(t, 10))
		default:
			for _, c := range e.Children() {
				walk(c)
			}
		}
	}
	walk(el)

	text := strings.Join(parts, " ")
	if !hasClose {
		return line{text: ansi.Truncate(text, r.inner, "…")}
	}
	text = ansi.Truncate(text, r.inner-2, "…")
	gap := max(r.inner-1-lipgloss.Width(text), 1)
	return line{text: text + strings.Repeat(" ", gap) + r.styles.Close.Render("✕"), close: true}
}

func (r toastRenderer) relTime(t *toast.Toast) string {
	return humanize.RelTime(t.CreatedAt(), r.now, "ago", "from now")
}

func (r toastRenderer) progress(t *toast.Toast) string {
	return r.progressInline(t, r.inner)
}

func (r toastRenderer) progressInline(t *toast.Toast, width int) string {
	filled := int(math.Round(t.Progress(r.now) * float64(width)))
	filled = min(max(filled, 0), width)
	return r.styles.Progress.Render(strings.Repeat("━", filled)) +
		r.styles.Track.Render(strings.Repeat("─", width-filled))
}

// placeToasts lays out the container's toasts in insertion order in the
// configured corner.
func placeToasts(mgr *toast.Manager, r toastRenderer, pos config.Position, screenW, screenH int) []toastBox {
	container := mgr.Container()
	var boxes []toastBox
	for _, el := range container.Children() {
		t := mgr.Find(el.Dataset("toast-id"))
		if t == nil {
			continue
		}
		view, closeRow := r.render(t)
		b := toastBox{
			t:      t,
			el:     el,
			view:   view,
			w:      lipgloss.Width(view),
			h:      lipgloss.Height(view),
			closeY: -1,
		}
		if closeRow >= 0 {
			// border + padding on the left, border on top
			b.closeX = 2 + r.inner - 1
			b.closeY = 1 + closeRow
		}
		boxes = append(boxes, b)
	}

	total := 0
	for _, b := range boxes {
		total += b.h
	}
	y := edgeMargin
	if !pos.Top() {
		// leave the help row free
		y = max(screenH-1-edgeMargin-total, 0)
	}
	for i := range boxes {
		b := &boxes[i]
		b.x = edgeMargin + 1
		if !pos.Left() {
			b.x = max(screenW-b.w-edgeMargin-1, 0)
		}
		b.y = y
		if b.closeY >= 0 {
			b.closeX += b.x
			b.closeY += b.y
		}
		y += b.h
	}
	return boxes
}

// hitToast returns the box under x, y; later toasts sit on top.
func hitToast(boxes []toastBox, x, y int) (toastBox, bool) {
	for _, b := range slices.Backward(boxes) {
		if b.contains(x, y) {
			return b, true
		}
	}
	return toastBox{}, false
}

// renderBackground draws the decor shapes on an empty width x height grid.
func renderBackground(shapes []decor.Shape, width, height int, elapsed time.Duration) []string {
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = slices.Repeat([]string{" "}, width)
	}

	ordered := slices.Clone(shapes)
	slices.SortStableFunc(ordered, func(a, b decor.Shape) int { return a.ZIndex - b.ZIndex })

	for _, s := range ordered {
		col, row := s.Cell(width, height)
		col = min(max(col+s.Offset(elapsed), 0), width-1)
		if col < 0 || row < 0 || row >= height {
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
		if s.Opacity < 0.25 {
			style = style.Faint(true)
		}
		grid[row][col] = style.Render(s.Glyph())
	}

	rows := make([]string, height)
	for y, cells := range grid {
		rows[y] = strings.Join(cells, "")
	}
	return rows
}

// overlay paints block onto base with its top-left corner at x, y. base rows
// are padded as needed; ANSI sequences on either side are preserved.
func overlay(base []string, block string, x, y int) []string {
	for i, row := range strings.Split(block, "\n") {
		by := y + i
		if by < 0 || by >= len(base) {
			continue
		}
		under := base[by]
		if w := ansi.StringWidth(under); w < x {
			under += strings.Repeat(" ", x-w)
		}
		left := ansi.Truncate(under, x, "")
		right := ansi.TruncateLeft(under, x+ansi.StringWidth(row), "")
		base[by] = left + row + right
	}
	return base
}
