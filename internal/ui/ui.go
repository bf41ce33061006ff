// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-celestial/internal/app"
	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/locale"
	"github.com/litescript/ls-celestial/internal/logging"
	"github.com/litescript/ls-celestial/internal/state"
	"github.com/litescript/ls-celestial/internal/version"
)

const (
	// DefaultFPS is the frame rate used when none is configured.
	DefaultFPS = 30

	// panelWidth is the width of the right-hand column.
	panelWidth = 40

	// speedFactor is applied by the + and - keys.
	speedFactor = 2.0
)

// Msg types for Bubble Tea
type (
	// FrameMsg flushes the frame scheduler and repaints.
	FrameMsg time.Time

	// ClockMsg refreshes the info panel clock.
	ClockMsg time.Time

	// ErrorMsg shows an error on the status line.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	app    *app.App
	store  *state.Store
	f      *locale.Formatter
	logger *logging.Logger
	frame  time.Duration

	// UI state
	width     int
	height    int
	ready     bool
	now       time.Time
	statusMsg string
	statusErr bool
	frames    int

	// Sub-models
	viewer ViewerModel
	info   InfoPanelModel
	debug  DebugPanelModel
}

// Option configures a Model.
type Option func(*Model)

// WithFPS sets the frame rate. Non-positive values are ignored.
func WithFPS(fps int) Option {
	return func(m *Model) {
		if fps > 0 {
			m.frame = time.Second / time.Duration(fps)
		}
	}
}

// WithLogger sets the UI logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// New creates the root model around a mounted app.
func New(a *app.App, f *locale.Formatter, opts ...Option) Model {
	m := Model{
		app:    a,
		store:  a.Store,
		f:      f,
		logger: logging.Discard(),
		frame:  time.Second / DefaultFPS,
		now:    time.Now(),
		viewer: NewViewerModel(),
		info:   NewInfoPanelModel(f),
		debug:  NewDebugPanelModel(f),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.info = m.info.UpdateData(a.Store.State()).SetTime(m.now)
	m.debug = m.debug.UpdateData(a.Store)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.frame),
		clockCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.syncPanels()
		if m.ready {
			m.layout()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case FrameMsg:
		m.app.Tick(time.Time(msg))
		m.frames++
		cmds = append(cmds, frameCmd(m.frame))

	case ClockMsg:
		m.now = time.Time(msg)
		m.info = m.info.SetTime(m.now)
		cmds = append(cmds, clockCmd())

	case ErrorMsg:
		m.setError(msg.Error)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.store.State()

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.app.Close()
		return tea.Quit

	case "1", "2", "3", "4":
		b := body.All()[int(key[0]-'1')]
		m.store.SetSelectedBody(b)
		m.setStatus(m.f.Body(b))
	case "]", "tab":
		m.store.SetSelectedBody(st.Selected.Next())
	case "[", "shift+tab":
		m.store.SetSelectedBody(st.Selected.Prev())

	case "p":
		m.store.SetViewPerspective(st.ViewPerspective.Next())
	case "n":
		m.store.SetViewPerspective(body.NorthPole)
	case "s":
		m.store.SetViewPerspective(body.SouthPole)
	case "e":
		m.store.SetViewPerspective(body.Equator)

	case "+", "=":
		m.updateConfig(state.Partial{"speedMultiplier": st.SpeedMultiplier * speedFactor})
	case "-", "_":
		m.updateConfig(state.Partial{"speedMultiplier": st.SpeedMultiplier / speedFactor})
	case "r":
		m.store.ResetConfig()
		m.setStatus("reset")

	case "i":
		m.info = m.info.ToggleDetails()
	case "D":
		m.updateConfig(state.Partial{"debug": !st.Debug})
	}
	return nil
}

func (m *Model) updateConfig(p state.Partial) {
	if err := m.store.UpdateConfig(p); err != nil {
		m.logger.Warn("config update rejected: %v", err)
		m.setError(err)
		return
	}
	m.statusMsg, m.statusErr = "", false
}

func (m *Model) setStatus(s string) {
	m.statusMsg, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.statusMsg, m.statusErr = err.Error(), true
}

func (m *Model) syncPanels() {
	m.info = m.info.UpdateData(m.store.State())
	m.debug = m.debug.UpdateData(m.store)
}

func (m *Model) layout() {
	// Title, help and status lines.
	contentHeight := max(m.height-3, 0)
	side := min(panelWidth, m.width/2)
	m.viewer = m.viewer.SetSize(m.width-side, contentHeight)
	m.info = m.info.SetWidth(side)
	m.debug = m.debug.SetSize(side, contentHeight-lipgloss.Height(m.info.View()))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	st := m.store.State()
	side := m.info.View()
	if st.Debug {
		side = lipgloss.JoinVertical(lipgloss.Left, side, m.debug.View())
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, m.viewer.View(m.app.Root, st), side)

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := renderGradient(" LS-CELESTIAL ", titleFrom, titleTo)
	sub := dimStyle.Render(fmt.Sprintf(" v%s · %s · %s",
		version.Version, m.f.Body(m.store.SelectedBody()), m.f.Perspective(m.store.ViewPerspective())))
	return title + sub
}

func (m Model) renderFooter() string {
	help := dimStyle.Render("  " + m.f.Label(locale.Help))
	if m.statusMsg == "" {
		return help
	}
	if m.statusErr {
		return help + "\n  " + errorStyle.Render("ERROR: "+m.statusMsg)
	}
	return help + "\n  " + accentStyle.Render(m.statusMsg)
}

var (
	titleFrom, _ = colorful.Hex("#3B82F6")
	titleTo, _   = colorful.Hex("#EC4899")
)

// renderGradient colours each rune of text along a from-to blend.
func renderGradient(text string, from, to colorful.Color) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendLuv(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// Frames returns how many frames the model has flushed.
func (m Model) Frames() int {
	return m.frames
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockMsg(t)
	})
}
