// Package tui is a terminal demo of a refreshable list driven by a surface.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"pullrefresh/internal/bus"
	"pullrefresh/internal/config"
	"pullrefresh/internal/feed"
	"pullrefresh/internal/indicator"
	"pullrefresh/internal/pull"
	"pullrefresh/internal/surface"
)

const (
	fps           = 60
	frameInterval = time.Second / fps

	// releaseAfter is how long after the last pull input the gesture is
	// treated as released. Terminals report no key-up events.
	releaseAfter = 150 * time.Millisecond

	pullStep      = 12.0 // points added per pull input at zero overscroll
	pointsPerRow  = 20.0 // overscroll points per terminal row
	settleEpsilon = 0.5

	headerHeight    = 1
	statusBarHeight = 1
	chromeHeight    = headerHeight + statusBarHeight
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B35"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type frameMsg time.Time

type eventMsg bus.Event

// Model is the bubbletea model for the demo.
type Model struct {
	surface *surface.Surface
	feed    *feed.Feed
	events  <-chan bus.Event

	trigger   float64
	hintText  string
	hintColor string
	style     indicator.Style

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	snap bus.Snapshot

	// Overscroll in points, sprung back to rest after release.
	overscroll float64
	velocity   float64
	submitted  float64
	lastPull   time.Time
	pullSpring harmonica.Spring

	// Displayed indicator transform, sprung toward the frame targets.
	rotation    float64
	rotationVel float64
	scale       float64
	scaleVel    float64
	animSpring  harmonica.Spring

	quitting bool
}

// NewModel creates a Model bound to s. events must be a subscription on s.
func NewModel(s *surface.Surface, events <-chan bus.Event, f *feed.Feed, cfg *config.Config) Model {
	return Model{
		surface:    s,
		feed:       f,
		events:     events,
		trigger:    cfg.Refresh.TriggerDistance,
		hintText:   cfg.Indicator.HintText,
		hintColor:  cfg.Indicator.HintColor,
		style:      indicator.Style{Color: cfg.Indicator.Color, Background: indicator.DefaultBackground},
		snap:       s.Snapshot(),
		scale:      1,
		pullSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		animSpring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.8),
	}
}

// Init starts the frame loop and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(nextFrame(), receiveNextEvent(m.events))
}

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp && m.atTop() {
			m.pull(time.Now())
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case frameMsg:
		m.step(time.Time(msg))
		return m, nextFrame()

	case eventMsg:
		m.snap = msg.Snapshot
		if msg.Kind == bus.KindState && msg.Snapshot.Stage == pull.StageEnding {
			m.refreshContent()
		}
		return m, receiveNextEvent(m.events)
	}

	return m, nil
}

// View renders the demo.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "Initializing...\n"
	}

	parts := []string{titleStyle.Render("pullrefresh")}
	if rows := m.indicatorRows(); rows > 0 {
		parts = append(parts, m.renderIndicator(rows))
	}
	parts = append(parts, m.viewport.View(), m.renderStatusBar())
	return strings.Join(parts, "\n")
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.atTop() {
			m.pull(time.Now())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if !m.ready {
		m.viewport = viewport.New(msg.Width, m.viewportHeight())
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
	}
	m.viewport.Height = m.viewportHeight()
	m.refreshContent()
	return m, nil
}

func (m *Model) atTop() bool {
	return !m.ready || m.viewport.AtTop()
}

// pull grows the overscroll with increasing resistance.
func (m *Model) pull(now time.Time) {
	limit := 2 * m.trigger
	resistance := 1 - m.overscroll/limit
	if resistance < 0.1 {
		resistance = 0.1
	}
	m.overscroll = math.Min(limit, m.overscroll+pullStep*resistance)
	m.velocity = 0
	m.lastPull = now
}

// restTarget is where the overscroll settles once released: held open at
// the trigger distance while a refresh runs.
func (m *Model) restTarget() float64 {
	if m.snap.Refreshing {
		return m.trigger
	}
	return 0
}

// step advances the springs by one frame and forwards the overscroll.
func (m *Model) step(now time.Time) {
	m.snap = m.surface.Snapshot()

	if now.Sub(m.lastPull) >= releaseAfter {
		target := m.restTarget()
		m.overscroll, m.velocity = m.pullSpring.Update(m.overscroll, m.velocity, target)
		if math.Abs(m.overscroll-target) < settleEpsilon && math.Abs(m.velocity) < settleEpsilon {
			m.overscroll, m.velocity = target, 0
		}
	}

	if m.overscroll != m.submitted {
		m.submitted = m.overscroll
		m.surface.SubmitOffset(m.overscroll)
	}

	f := m.snap.Frame
	m.rotation, m.rotationVel = m.animSpring.Update(m.rotation, m.rotationVel, f.Rotation)
	m.scale, m.scaleVel = m.animSpring.Update(m.scale, m.scaleVel, f.Scale)

	if m.ready {
		m.viewport.Height = m.viewportHeight()
	}
}

func (m *Model) indicatorRows() int {
	return int(m.overscroll / pointsPerRow)
}

func (m *Model) viewportHeight() int {
	h := m.height - chromeHeight - m.indicatorRows()
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	items := m.feed.Items()
	if len(items) == 0 {
		m.viewport.SetContent(helpStyle.Render("Nothing here yet. Pull down (k / ↑ / wheel) to refresh."))
		return
	}
	m.viewport.SetContent(strings.Join(items, "\n"))
}

func (m Model) renderIndicator(rows int) string {
	lines := []string{indicator.Render(m.snap.Frame, m.rotation, m.scale, m.style)}
	if !m.snap.Refreshing {
		if hint := indicator.Hint(m.hintText, m.hintColor, m.snap.Progress); hint != "" {
			lines = append(lines, hint)
		}
	}
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	placed := lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Bottom, block)
	return lipgloss.NewStyle().MaxHeight(rows).Render(placed)
}

func (m Model) renderStatusBar() string {
	status := statusStyle.Render(fmt.Sprintf(" %s  %3.0f%%  %s", m.snap.Stage, m.snap.Progress, m.snap.Frame.Phase))
	if m.snap.Err != nil {
		status += "  " + errorStyle.Render("⚠ "+m.snap.Err.Error())
	}
	return status + helpStyle.Render("  [k/↑] pull • [q] quit")
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// receiveNextEvent waits for the next event from the channel.
func receiveNextEvent(ch <-chan bus.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}
