package term

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivierh59500/surface-tension-go/fluid"
)

func TestRenderBraillePlacesDots(t *testing.T) {
	ps := []fluid.Particle{
		{X: 0, Y: 0},     // top-left dot of cell (0,0)
		{X: 99, Y: 99},   // bottom-right dot of cell (1,1)
		{X: 150, Y: 500}, // clamped into the last row
	}
	got := renderBraille(ps, 100, 100, 2, 2)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("renderBraille() has %d lines, want 2", len(lines))
	}
	row0 := []rune(lines[0])
	row1 := []rune(lines[1])
	if row0[0] != 0x2801 {
		t.Fatalf("cell (0,0) = %U, want U+2801", row0[0])
	}
	if row0[1] != 0x2800 {
		t.Fatalf("cell (1,0) = %U, want blank", row0[1])
	}
	if row1[1] != 0x2880 {
		t.Fatalf("cell (1,1) = %U, want U+2880", row1[1])
	}
}

func TestEnergyLevel(t *testing.T) {
	if got := energyLevel(0, 10); got != 0 {
		t.Fatalf("energyLevel(0) = %v, want 0", got)
	}
	if got := energyLevel(100, 0); got != 0 {
		t.Fatalf("energyLevel(n=0) = %v, want 0", got)
	}
	if got := energyLevel(1e12, 1); got != 1 {
		t.Fatalf("energyLevel(huge) = %v, want 1", got)
	}
	lo, hi := energyLevel(10, 10), energyLevel(1000, 10)
	if !(lo > 0 && lo < hi && hi < 1) {
		t.Fatalf("energyLevel not monotone: %v, %v", lo, hi)
	}
}

func TestRenderGauge(t *testing.T) {
	got := renderGauge(0.5, 20)
	if n := strings.Count(got, "█"); n != 10 {
		t.Fatalf("renderGauge(0.5) filled %d, want 10", n)
	}
	if n := strings.Count(got, "─"); n != 10 {
		t.Fatalf("renderGauge(0.5) empty %d, want 10", n)
	}
	if n := strings.Count(renderGauge(2, 20), "█"); n != 20 {
		t.Fatalf("renderGauge(2) filled %d, want 20", n)
	}
}

func TestUpdateKeys(t *testing.T) {
	sim, err := fluid.New(30, 120, 120, fluid.WithSeed(1))
	if err != nil {
		t.Fatalf("fluid.New() error = %v", err)
	}
	m := newModel(sim, 30)
	k := sim.SurfaceTension()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = next.(termModel)
	if got := m.sim.SurfaceTension(); got != k*tensionFactor {
		t.Fatalf("tension after + = %v, want %v", got, k*tensionFactor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(termModel)
	if !m.paused {
		t.Fatal("space did not pause")
	}
	next, _ = m.Update(termTickMsg{})
	m = next.(termModel)
	if m.sim.Steps() != 0 {
		t.Fatalf("paused tick stepped to %d", m.sim.Steps())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(termModel)
	next, _ = m.Update(termTickMsg{})
	m = next.(termModel)
	if m.sim.Steps() != 1 {
		t.Fatalf("tick stepped to %d, want 1", m.sim.Steps())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(termModel)
	if m.sim == sim || m.sim.Steps() != 0 || m.status != "restarted" {
		t.Fatalf("r did not respawn: steps %d, status %q", m.sim.Steps(), m.status)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestViewFitsWindow(t *testing.T) {
	sim, err := fluid.New(20, 100, 100, fluid.WithSeed(2))
	if err != nil {
		t.Fatalf("fluid.New() error = %v", err)
	}
	m := newModel(sim, 30)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	view := next.View()
	if n := strings.Count(view, "\n") + 1; n != 12 {
		t.Fatalf("View() has %d lines, want 12", n)
	}
}
