// Package tui provides the terminal page: a sign-in/registration form with
// toast notifications layered over floating background shapes.
package tui

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/decor"
	"github.com/jmylchreest/toastui/internal/desktop"
	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/eventloop"
	"github.com/jmylchreest/toastui/internal/form"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/theme"
	"github.com/jmylchreest/toastui/internal/toast"
)

const (
	cardWidth     = 44
	shakeDuration = 500 * time.Millisecond
	frameInterval = 100 * time.Millisecond
)

// NotifyMsg raises a toast.
type NotifyMsg struct {
	Kind    string
	Message string
}

// NotifyCmd returns a command raising a toast, for use by other components.
func NotifyCmd(kind, message string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Kind: kind, Message: message}
	}
}

type (
	frameMsg        time.Time
	demoMsg         struct{}
	configReloadMsg struct{ cfg *config.Config }
	configErrorMsg  struct{ err error }
	themeReloadMsg  struct{ theme *theme.Theme }
	submitResultMsg struct {
		mode    form.Mode
		outcome form.Outcome
	}
)

// Options configures a Model.
type Options struct {
	Config    *config.Config
	Scheduler eventloop.Scheduler
	Directory *form.Directory
	Themes    *theme.Loader
	Layouts   *layout.Loader
	Rand      *rand.Rand
	Logger    *slog.Logger

	// Optional collaborators updated on config reload.
	Audio        *audio.Manager
	Mirror       *desktop.Mirror
	ThemeWatcher *theme.Watcher

	// Demo raises one toast of every kind on start.
	Demo bool
}

type pointer struct {
	x, y int
	ok   bool
}

// Model is the bubbletea model for the page.
type Model struct {
	cfg    *config.Config
	sched  eventloop.Scheduler
	logger *slog.Logger

	toasts  *toast.Manager
	dir     *form.Directory
	themes  *theme.Loader
	layouts *layout.Loader
	layout  *layout.LayoutConfig
	theme   *theme.Theme
	styles  theme.Styles

	audio        *audio.Manager
	mirror       *desktop.Mirror
	themeWatcher *theme.Watcher

	bg      *decor.Background
	ripples *decor.Ripples
	started time.Time

	tab    form.Mode
	forms  [2]*form.Form
	inputs [2][]textinput.Model

	pointer pointer
	hovered *dom.Element

	keys KeyMap
	help help.Model
	demo bool

	width  int
	height int
	ready  bool
}

// New creates the page model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = NewScheduler()
	}
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewLoader("", logger)
	}
	layouts := opts.Layouts
	if layouts == nil {
		layouts = layout.NewLoader("", logger)
	}

	m := Model{
		cfg:          cfg,
		sched:        sched,
		logger:       logger,
		dir:          opts.Directory,
		themes:       themes,
		layouts:      layouts,
		audio:        opts.Audio,
		mirror:       opts.Mirror,
		themeWatcher: opts.ThemeWatcher,
		ripples:      decor.NewRipples(sched),
		started:      sched.Now(),
		forms:        [2]*form.Form{form.NewLogin(), form.NewRegistration()},
		keys:         DefaultKeyMap(),
		help:         help.New(),
		demo:         opts.Demo,
	}
	if m.dir == nil {
		m.dir = form.NewDirectory(0, logger)
	}

	m.layout = m.loadLayout(cfg.Toast.Layout)
	m.theme = themes.Load(cfg.Theme.Name)
	m.styles = m.theme.Styles()
	m.toasts = toast.NewManager(dom.NewDocument(), sched, toast.OptionsFromConfig(cfg, m.layout), logger)
	m.toasts.Container()
	m.bg = decor.NewBackground(sched, opts.Rand, m.theme.Decor, cfg.Decor.Count, logger)
	m.bg.Configure(m.theme.Decor, cfg.Decor.Count, m.decorEnabled())

	for mode, f := range m.forms {
		m.inputs[mode] = make([]textinput.Model, len(f.Fields()))
		for i := range f.Fields() {
			ti := textinput.New()
			ti.Prompt = "› "
			ti.EchoCharacter = '•'
			ti.Width = cardWidth - 4
			ti.Cursor.SetMode(cursor.CursorStatic)
			m.inputs[mode][i] = ti
		}
	}
	m.syncInputs()
	return m
}

// Toasts returns the toast manager.
func (m Model) Toasts() *toast.Manager {
	return m.toasts
}

// Form returns the form on the active tab.
func (m Model) Form() *form.Form {
	return m.forms[m.tab]
}

func (m Model) decorEnabled() bool {
	return m.cfg.Decor.Enabled && len(m.theme.Decor) > 0
}

func (m Model) loadLayout(name string) *layout.LayoutConfig {
	lay, err := m.layouts.Load(name)
	if err != nil {
		m.logger.Warn("failed to load layout, using default", "layout", name, "error", err)
		return layout.DefaultLayout()
	}
	return lay
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameTick()}
	if m.demo {
		cmds = append(cmds, func() tea.Msg { return demoMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncInputs()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.bg.Resize(msg.Width, msg.Height)
		return m, nil

	case timerMsg:
		msg.t.fire()
		m.refreshHover()
		return m, nil

	case postMsg:
		msg.f()
		m.refreshHover()
		return m, nil

	case frameMsg:
		m.refreshHover()
		return m, frameTick()

	case NotifyMsg:
		m.toasts.Notify(msg.Kind, msg.Message)
		return m, nil

	case demoMsg:
		m.raiseDemo()
		return m, nil

	case submitResultMsg:
		m.finishSubmit(msg)
		return m, nil

	case configReloadMsg:
		m.applyConfig(msg.cfg)
		return m, nil

	case configErrorMsg:
		m.toasts.Notify(string(model.KindError), "Configuration error: "+msg.err.Error())
		return m, nil

	case themeReloadMsg:
		if msg.theme.Name == m.theme.Name {
			m.applyTheme(msg.theme)
			m.toasts.Notify(string(model.KindInfo), "Theme reloaded")
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) raiseDemo() {
	for _, d := range []NotifyMsg{
		{Kind: "success", Message: "Profile saved"},
		{Kind: "error", Message: "Could not reach the server"},
		{Kind: "warning", Message: "Your session expires in 5 minutes"},
		{Kind: "info", Message: "You have 3 new messages"},
		{Kind: "bogus", Message: "Unknown kinds are shown as information"},
	} {
		m.toasts.Notify(d.Kind, d.Message)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.Form()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.DismissAll):
		n := m.toasts.DismissAll(toast.CloseReasonDismissed)
		m.logger.Debug("dismissed all toasts", "count", n)

	case key.Matches(msg, m.keys.DismissNewest):
		m.dismissNewest()

	case key.Matches(msg, m.keys.SwitchTab):
		m.switchTab()

	case key.Matches(msg, m.keys.NextField):
		f.FocusNext()

	case key.Matches(msg, m.keys.PrevField):
		f.FocusPrev()

	case key.Matches(msg, m.keys.TogglePassword):
		f.TogglePassword()

	case key.Matches(msg, m.keys.Submit):
		_, _, bw := m.button(f, m.sched.Now())
		return m, m.submit(bw / 2)

	case key.Matches(msg, m.keys.CycleOption) && len(f.Focused().Options) > 0:
		if !f.Loading() {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			f.Focused().Cycle(step)
		}

	default:
		return m.updateInput(msg)
	}
	return m, nil
}

// updateInput forwards a key to the focused text input. Fields are locked
// while a submit is in flight.
func (m Model) updateInput(msg tea.Msg) (Model, tea.Cmd) {
	f := m.Form()
	if f.Loading() || len(f.Focused().Options) > 0 {
		return m, nil
	}
	ti := &m.inputs[m.tab][f.FocusIndex()]
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	f.Focused().SetValue(ti.Value())
	return m, cmd
}

func (m *Model) dismissNewest() {
	active := m.toasts.Active()
	for i := len(active) - 1; i >= 0; i-- {
		if s := active[i].State(); s == model.StateShowing || s == model.StatePaused {
			m.toasts.Dismiss(active[i])
			return
		}
	}
}

func (m *Model) switchTab() {
	if m.tab == form.ModeLogin {
		m.tab = form.ModeRegister
	} else {
		m.tab = form.ModeLogin
	}
}

// submit validates the active form and, when valid, runs the submit off the
// UI goroutine. rippleX is the press position within the button.
func (m *Model) submit(rippleX int) tea.Cmd {
	f := m.Form()
	m.ripples.Press(rippleX, 0)

	o, sub := f.Begin()
	if sub == nil {
		if o.Err != nil {
			m.toasts.Notify(string(o.Kind), o.Message)
			m.sched.AfterFunc(shakeDuration, f.StopShaking)
		}
		return nil
	}

	dir := m.dir
	m.logger.Debug("form submitted", "form", sub.Mode().String())
	return func() tea.Msg {
		return submitResultMsg{mode: sub.Mode(), outcome: sub.Run(dir)}
	}
}

func (m *Model) finishSubmit(msg submitResultMsg) {
	f := m.forms[msg.mode]
	o := msg.outcome
	f.Finish(o)
	m.toasts.Notify(string(o.Kind), o.Message)

	if !o.OK() {
		m.logger.Debug("form submit failed", "form", msg.mode.String(), "error", o.Err)
		m.sched.AfterFunc(shakeDuration, f.StopShaking)
		return
	}
	if msg.mode == form.ModeRegister && o.Account != nil {
		// A sign-in still in flight keeps its form; only the tab switches.
		if login := m.forms[form.ModeLogin]; !login.Loading() {
			login.Reset()
			login.Field(form.FieldUsername).SetValue(o.Account.Username)
			login.SetFocus(1)
		}
		m.tab = form.ModeLogin
	}
}

func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.layout = m.loadLayout(cfg.Toast.Layout)
	m.toasts.UpdateConfig(toast.OptionsFromConfig(cfg, m.layout))

	if cfg.Theme.Name != m.theme.Name {
		m.applyTheme(m.themes.Load(cfg.Theme.Name))
		if m.themeWatcher != nil {
			m.themeWatcher.UpdateTheme(m.theme)
		}
	} else {
		m.bg.Configure(m.theme.Decor, cfg.Decor.Count, m.decorEnabled())
	}

	if m.audio != nil {
		m.audio.UpdateConfig(cfg)
	}
	if m.mirror != nil {
		m.mirror.SetExpire(cfg.Toast.AutoDismiss.Duration())
	}

	m.logger.Info("configuration reloaded", "theme", cfg.Theme.Name, "layout", cfg.Toast.Layout)
	m.toasts.Notify(string(model.KindInfo), "Configuration reloaded")
}

func (m *Model) applyTheme(th *theme.Theme) {
	m.theme = th
	m.styles = th.Styles()
	m.bg.Configure(th.Decor, m.cfg.Decor.Count, m.decorEnabled())
}

// syncInputs copies form state into the text inputs.
func (m *Model) syncInputs() {
	for mode, f := range m.forms {
		for i, fl := range f.Fields() {
			ti := &m.inputs[mode][i]
			if ti.Value() != fl.Value {
				ti.SetValue(fl.Value)
			}
			ti.EchoMode = textinput.EchoNormal
			if fl.Masked() {
				ti.EchoMode = textinput.EchoPassword
			}
			ti.Placeholder = fl.Placeholder
			if !fl.Floating() {
				ti.Placeholder = fl.Label
			}
			if fl.Focused && form.Mode(mode) == m.tab {
				ti.Focus()
			} else {
				ti.Blur()
			}
		}
	}
}

func (m Model) toastBoxes() []toastBox {
	r := toastRenderer{
		styles: m.styles,
		now:    m.sched.Now(),
		inner:  toastWidth(m.cfg, m.layout) - 4,
	}
	return placeToasts(m.toasts, r, m.toasts.Options().Position, m.width, m.height)
}

// hover moves the pointer and dispatches pointerleave/pointerenter when the
// toast under it changes.
func (m *Model) hover(x, y int) {
	m.pointer = pointer{x: x, y: y, ok: true}

	var target *dom.Element
	if b, ok := hitToast(m.toastBoxes(), x, y); ok {
		target = b.el
	}
	if target == m.hovered {
		return
	}
	if m.hovered != nil && m.hovered.Connected() {
		dom.Dispatch(m.hovered, dom.EventPointerLeave)
	}
	m.hovered = target
	if target != nil {
		dom.Dispatch(target, dom.EventPointerEnter)
	}
}

// refreshHover re-tests the last pointer position after the stack moved.
func (m *Model) refreshHover() {
	if m.pointer.ok {
		m.hover(m.pointer.x, m.pointer.y)
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover(msg.X, msg.Y)

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.hover(msg.X, msg.Y)

		if b, ok := hitToast(m.toastBoxes(), msg.X, msg.Y); ok {
			if b.onClose(msg.X, msg.Y) {
				dom.Dispatch(b.el.QuerySelector("."+toast.ClassClose), dom.EventClick)
			}
			return m, nil
		}

		c := m.card()
		if msg.Y == c.buttonY && msg.X >= c.buttonX && msg.X < c.buttonX+c.buttonW {
			return m, m.submit(msg.X - c.buttonX)
		}
		for i, y := range c.fieldYs {
			if msg.Y == y || msg.Y == y-1 {
				m.Form().SetFocus(i)
				break
			}
		}
	}
	return m, nil
}

// cardView is the rendered form card and the screen cells of its controls.
type cardView struct {
	view    string
	x, y    int
	fieldYs []int

	buttonX, buttonY, buttonW int
}

func (m Model) card() cardView {
	f := m.Form()
	now := m.sched.Now()

	rows := []string{m.tabs(), ""}
	fieldRows := make([]int, len(f.Fields()))
	for i, fl := range f.Fields() {
		rows = append(rows, m.fieldLabel(fl))
		fieldRows[i] = len(rows)
		rows = append(rows, m.fieldInput(i, fl, now))
	}

	rows = append(rows, "")
	buttonRow := len(rows)
	btn, _, bw := m.button(f, now)
	pad := max((cardWidth-bw)/2, 0)
	rows = append(rows, strings.Repeat(" ", pad)+btn)
	if f.Mode() == form.ModeLogin {
		rows = append(rows, "", m.styles.Muted.Render("demo: admin / admin123"))
	}

	view := m.styles.Toast.Padding(1, 2).Width(cardWidth + 4).Render(strings.Join(rows, "\n"))
	w, h := lipgloss.Width(view), lipgloss.Height(view)

	c := cardView{
		view:    view,
		x:       max((m.width-w)/2, 0),
		y:       max((m.height-1-h)/2, 0),
		buttonW: bw,
	}
	// border plus padding
	const offX, offY = 3, 2
	c.buttonX = c.x + offX + pad
	c.buttonY = c.y + offY + buttonRow
	for _, r := range fieldRows {
		c.fieldYs = append(c.fieldYs, c.y+offY+r)
	}
	return c
}

func (m Model) tabs() string {
	var parts []string
	for _, mode := range []form.Mode{form.ModeLogin, form.ModeRegister} {
		label := " " + mode.String() + " "
		if mode == m.tab {
			parts = append(parts, m.styles.Accent.Underline(true).Render(label))
		} else {
			parts = append(parts, m.styles.Muted.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Muted.Render("│"))
}

func (m Model) fieldLabel(fl *form.Field) string {
	var label string
	switch {
	case fl.Invalid:
		label = m.styles.Error.Render(fl.Label + " ✖")
	case fl.Floating() && fl.Focused:
		label = m.styles.Accent.Render(fl.Label)
	case fl.Floating():
		label = m.styles.Muted.Render(fl.Label)
	}

	var toggle string
	switch fl.ToggleIcon() {
	case "eye":
		toggle = m.styles.Muted.Render("◉ show")
	case "eye-slash":
		toggle = m.styles.Muted.Render("◌ hide")
	default:
		return label
	}
	gap := max(cardWidth-lipgloss.Width(label)-lipgloss.Width(toggle), 1)
	return label + strings.Repeat(" ", gap) + toggle
}

func (m Model) fieldInput(i int, fl *form.Field, now time.Time) string {
	var row string
	if len(fl.Options) > 0 {
		style := m.styles.Message
		if fl.Focused {
			style = m.styles.Accent
		}
		row = "› " + style.Render("‹ "+fl.Value+" ›")
	} else {
		row = m.inputs[m.tab][i].View()
	}
	if fl.Shaking && (now.UnixMilli()/50)%2 == 0 {
		row = " " + row
	}
	return row
}

// button renders the submit button with any active ripple. It returns the
// rendered text, the plain label and its width.
func (m Model) button(f *form.Form, now time.Time) (string, string, int) {
	label := "  " + f.ButtonText() + "  "
	width := lipgloss.Width(label)

	base := m.styles.Title.Reverse(true)
	rp, ok := m.ripples.Active()
	if !ok {
		return base.Render(label), label, width
	}

	radius := int(m.ripples.Progress(now) * float64(width))
	wave := m.styles.Accent.Reverse(true)
	var sb strings.Builder
	for i, r := range []rune(label) {
		if abs(i-rp.X) <= radius {
			sb.WriteString(wave.Render(string(r)))
		} else {
			sb.WriteString(base.Render(string(r)))
		}
	}
	return sb.String(), label, width
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	now := m.sched.Now()
	rows := renderBackground(m.bg.Shapes(), m.width, max(m.height-1, 0), now.Sub(m.started))

	c := m.card()
	rows = overlay(rows, c.view, c.x, c.y)
	for _, b := range m.toastBoxes() {
		rows = overlay(rows, b.view, b.x, b.y)
	}

	return strings.Join(rows, "\n") + "\n" + m.help.View(m.keys)
}
