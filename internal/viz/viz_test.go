package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Errorf("expected dot 1 set, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBlank|0x80 {
		t.Errorf("expected dot 8 set, got %U", c.Grid[0][1])
	}

	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("expected blank canvas after Clear")
	}
}

func TestDrawProfile(t *testing.T) {
	c := NewCanvas(20, 8)
	flat := func(mgl64.Vec3) float64 { return 0 }
	DrawProfile(c, Viewport{Scale: 2}, flat, mgl64.Vec3{}, mgl64.Vec3{1, 1, 4})

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != brailleBlank {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("profile drew nothing")
	}
}

func TestPlot(t *testing.T) {
	if got := Plot(nil, "speed", 20, 5); !strings.Contains(got, "no data") {
		t.Errorf("unexpected empty plot %q", got)
	}
	out := Plot([]float64{0, 1, 2, 3, 2, 1}, "speed", 20, 5)
	if !strings.Contains(out, "speed") {
		t.Errorf("caption missing from plot:\n%s", out)
	}
	if PlotMany(nil, "x", 10, 3) != "x: no data" {
		t.Error("expected no data for empty series")
	}
}

func TestSparkline(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty sparkline = %q", got)
	}
	if SparklineChart([]float64{1, 2, 3}, 3) == "" {
		t.Error("empty sparkline for data")
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelKeys(t *testing.T) {
	cfg := config.GetPreset("cog", "calm")
	m, err := NewModel(sim.New(nil), cfg)
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if m.session.Time() <= 0 {
		t.Fatal("tick did not advance the session")
	}

	next, _ = m.Update(key(" "))
	m = next.(Model)
	if m.running {
		t.Error("space should pause")
	}
	paused := m.session.Time()
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.session.Time() != paused {
		t.Error("paused model advanced")
	}

	before := m.session.Thrust()
	next, _ = m.Update(key("+"))
	m = next.(Model)
	if m.session.Thrust() <= before {
		t.Error("+ should raise thrust")
	}

	next, _ = m.Update(key("r"))
	m = next.(Model)
	if m.session.Time() != 0 || !m.running {
		t.Error("reset should restart a running session")
	}
	if !strings.Contains(m.View(), "COG") {
		t.Error("view is missing the vessel header")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelAutopilotKeys(t *testing.T) {
	cfg := config.GetPreset("cog", "cruise")
	m, err := NewModel(sim.New(nil), cfg)
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(key("+"))
	m = next.(Model)
	if got := m.session.Autopilot().Target(); got != 3+targetStep {
		t.Errorf("+ should raise the target speed, got %.2f", got)
	}

	next, _ = m.Update(key("r"))
	m = next.(Model)
	if got := m.session.Autopilot().Target(); got != 3+targetStep {
		t.Errorf("reset should keep the target speed, got %.2f", got)
	}
	if !strings.Contains(m.View(), "target") {
		t.Error("view is missing the autopilot target")
	}
}

func TestWriteCanvasSVG(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	var b strings.Builder
	if err := WriteCanvasSVG(&b, c, 2); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(b.String(), "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if err := WriteCanvasSVG(&b, nil, 2); err == nil {
		t.Error("expected an error for a nil canvas")
	}
}

func TestWriteSeriesSVG(t *testing.T) {
	var b strings.Builder
	if err := WriteSeriesSVG(&b, []float64{0, 1, 2}, []float64{1, 1, 1}, 200, 100, "#ff0"); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, `stroke="#ff0"`) || strings.Count(out, " L") != 2 {
		t.Errorf("unexpected path: %s", out)
	}
	if err := WriteSeriesSVG(&b, []float64{0}, []float64{0}, 10, 10, "#fff"); err == nil {
		t.Error("expected an error for a single point")
	}
}
