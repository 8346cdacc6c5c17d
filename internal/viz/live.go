package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gassim/internal/gas"
)

const (
	width           = 60
	height          = 28
	historyCapacity = 400
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// EngineFactory rebuilds a fresh engine from the same initial configuration,
// used by the reset key.
type EngineFactory func() (*gas.Engine, error)

// Model drives the live view: one collision event per tick, drawn on a
// braille canvas next to a stats panel.
type Model struct {
	factory EngineFactory
	engine  *gas.Engine

	canvas          *Canvas
	running         bool
	eventsPerTick   int
	maxEvents       int
	pressureHistory []float64
	err             error
}

func NewModel(factory EngineFactory, maxEvents int) (Model, error) {
	engine, err := factory()
	if err != nil {
		return Model{}, err
	}
	return Model{
		factory:         factory,
		engine:          engine,
		canvas:          NewCanvas(width, height),
		running:         true,
		eventsPerTick:   1,
		maxEvents:       maxEvents,
		pressureHistory: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			if m.eventsPerTick < 64 {
				m.eventsPerTick *= 2
			}
		case "-", "_":
			if m.eventsPerTick > 1 {
				m.eventsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.eventsPerTick; i++ {
		snap := m.engine.Snapshot()
		if m.maxEvents > 0 && snap.BallCollisions+snap.WallCollisions >= m.maxEvents {
			m.running = false
			return
		}
		if err := m.engine.Step(); err != nil {
			m.err = err
			m.running = false
			return
		}
	}

	m.pressureHistory = append(m.pressureHistory, m.engine.Snapshot().Pressure)
	if len(m.pressureHistory) > historyCapacity {
		m.pressureHistory = m.pressureHistory[1:]
	}
}

func (m *Model) reset() {
	engine, err := m.factory()
	if err != nil {
		m.err = err
		return
	}
	m.engine = engine
	m.err = nil
	m.running = true
	m.pressureHistory = m.pressureHistory[:0]
}

// draw renders the container, every ball, and its velocity arrow. Arrows are
// scaled by the current RMS speed so fast gases stay readable; the scale
// comes from the snapshot, not shared state.
func (m *Model) draw() {
	m.canvas.Clear()

	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	cx, cy := cw/2, ch/2
	R := m.engine.ContainerRadius()
	// Leave a margin of one cell on each side.
	scale := float64(minInt(cw, ch)-8) / (2 * R)

	m.canvas.DrawCircle(cx, cy, R*scale)

	rms := m.engine.Snapshot().RMSSpeed
	if rms <= 0 {
		rms = 1
	}

	for _, b := range m.engine.Balls() {
		px := cx + int(math.Round(b.Pos.X*scale))
		py := cy - int(math.Round(b.Pos.Y*scale))
		m.canvas.DrawCircle(px, py, b.Radius*scale)

		arrow := b.Vel.Scale(R * scale / (4 * rms))
		m.canvas.DrawLine(px, py, px+int(math.Round(arrow.X)), py-int(math.Round(arrow.Y)))
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	snap := m.engine.Snapshot()
	total := snap.BallCollisions + snap.WallCollisions

	var s strings.Builder
	s.WriteString(headerStyle.Render("HARD-SPHERE GAS") + "\n")

	status := "RUNNING"
	if m.err != nil {
		status = errorStyle.Render("STALLED: " + m.err.Error())
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.pressureHistory) > 1 {
		chart := asciigraph.Plot(m.pressureHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Pressure"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", snap.Time)) + "\n")
	s.WriteString(labelStyle.Render("Balls") + valueStyle.Render(fmt.Sprintf("%d", snap.NumBalls)) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d (%d ball / %d wall)", total, snap.BallCollisions, snap.WallCollisions)) + "\n")
	s.WriteString(labelStyle.Render("Kinetic energy") + valueStyle.Render(fmt.Sprintf("%.3f J", snap.KineticEnergy)) + "\n")
	s.WriteString(labelStyle.Render("RMS speed") + valueStyle.Render(fmt.Sprintf("%.3f m/s", snap.RMSSpeed)) + "\n")
	s.WriteString(labelStyle.Render("Pressure") + valueStyle.Render(fmt.Sprintf("%.5f Pa", snap.Pressure)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d events/tick", m.eventsPerTick)) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Events per tick"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
