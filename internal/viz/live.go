package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/sim"
)

const (
	width           = 60
	height          = 16
	historyCapacity = 300
	frameRate       = 30
	// thrustStep is the +/- increment as a fraction of the vessel's
	// weight.
	thrustStep = 0.02
	// targetStep is the +/- increment of the autopilot's target speed.
	targetStep = 0.5
)

type TickMsg time.Time

// Model steps a synthetic run in real time.
type Model struct {
	sim      *sim.Simulator
	cfg      *config.Config
	session  *sim.Session
	canvas   *Canvas
	last     sim.Sample
	speeds   []float64
	drags    []float64
	drafts   []float64
	running  bool
	err      error
	perFrame int
}

func NewModel(s *sim.Simulator, cfg *config.Config) (Model, error) {
	session, err := s.Start(cfg)
	if err != nil {
		return Model{}, err
	}
	perFrame := int(math.Round(1 / (frameRate * cfg.Dt)))
	return Model{
		sim:      s,
		cfg:      cfg,
		session:  session,
		canvas:   NewCanvas(width, height),
		speeds:   make([]float64, 0, historyCapacity),
		drags:    make([]float64, 0, historyCapacity),
		drafts:   make([]float64, 0, historyCapacity),
		running:  true,
		perFrame: max(perFrame, 1),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.session.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.adjustThrust(1)
		case "-", "_":
			m.adjustThrust(-1)
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) adjustThrust(dir float64) {
	if pilot := m.session.Autopilot(); pilot != nil {
		pilot.SetTarget(math.Max(0, pilot.Target()+dir*targetStep))
		return
	}
	step := thrustStep * m.session.Mass() * 9.81
	m.session.SetThrust(m.session.Thrust() + dir*step)
}

// advance runs one frame's worth of fixed steps. The session keeps going
// past its configured duration until the user quits.
func (m *Model) advance() {
	for i := 0; i < m.perFrame; i++ {
		s, err := m.session.Step()
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.last = s
	}
	m.speeds = push(m.speeds, m.last.Speed)
	m.drags = push(m.drags, m.last.Drag)
	m.drafts = push(m.drafts, m.last.Draft)
}

func push(buf []float64, v float64) []float64 {
	buf = append(buf, v)
	if len(buf) > historyCapacity {
		buf = buf[1:]
	}
	return buf
}

func (m *Model) reset() {
	thrust, pilot := m.session.Thrust(), m.session.Autopilot()
	m.session.Close()
	session, err := m.sim.Start(m.cfg)
	if err != nil {
		m.err = err
		return
	}
	if pilot == nil {
		session.SetThrust(thrust)
	} else if p := session.Autopilot(); p != nil {
		p.SetTarget(pilot.Target())
	}
	m.session = session
	m.last = sim.Sample{}
	m.speeds = m.speeds[:0]
	m.drags = m.drags[:0]
	m.drafts = m.drafts[:0]
	m.err = nil
	m.running = true
}

func (m Model) View() string {
	hull := m.session.Hull()
	pos := m.session.State().Position
	scale := float64(width*2) / (4 * hull.HalfExtents.Z())
	water := m.session.Water()
	DrawProfile(m.canvas, Viewport{CenterZ: pos.Z(), CenterY: water.SeaLevel(), Scale: scale},
		func(p mgl64.Vec3) float64 { return water.SeaLevel() + water.Height(p) },
		pos, hull.HalfExtents)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(hull.Name)+"  "+m.session.Class()) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusWarning.Render("STOPPED: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, format string, v float64) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, v)) + "\n")
	}
	row("Time", "%.2f s", m.session.Time())
	row("Speed", "%.2f m/s", m.last.Speed)
	row("Thrust", "%.0f N", m.session.Thrust())
	if pilot := m.session.Autopilot(); pilot != nil {
		row("  target", "%.1f m/s", pilot.Target())
	}
	row("Drag", "%.0f N", m.last.Drag)
	row("  viscous", "%.0f N", m.last.Viscous)
	row("  wave", "%.0f N", m.last.WaveMaking)
	row("Lateral", "%.0f N", m.last.LateralDrag)
	row("Displacement", "%.2f m³", m.last.Displacement)
	row("Wetted area", "%.1f m²", m.last.WettedArea)
	row("Draft", "%.3f m", m.last.Draft)
	s.WriteString(labelStyle.Render("Load") +
		ProgressBar(m.last.Displacement*1025/m.session.Mass()/2, 16) + "\n")
	if !m.last.TableUsed && m.session.Time() > 0 {
		s.WriteString(StatusWarning.Render("fallback hydrostatics") + "\n")
	}
	s.WriteString("\n" + labelStyle.Render("Draft") + SparklineChart(m.drafts, 24) + "\n")

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed"))
		s.WriteString(graphStyle.Render(chart) + "\n")
		chart = asciigraph.Plot(m.drags, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Drag"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause  +/-:Thrust  R:Reset  Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts the live view on the terminal.
func Run(s *sim.Simulator, cfg *config.Config) error {
	m, err := NewModel(s, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
