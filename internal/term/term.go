// Package term renders a simulation in the terminal as braille dots.
package term

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivierh59500/surface-tension-go/fluid"
)

var (
	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1F5FAF", Dark: "#5FD7FF"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	gaugeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF5F"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)

// Braille dot positions (col, row) -> bit offset.
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const (
	// Lines reserved below the particle field.
	termChromeLines = 3
	tensionFactor   = 1.25
)

type termTickMsg time.Time

type termModel struct {
	sim    *fluid.Simulation
	tps    int
	width  int
	height int
	paused bool
	status string

	gauge    harmonica.Spring
	gaugePos float64
	gaugeVel float64
}

// New returns a bubbletea model that steps sim tps times per second.
func New(sim *fluid.Simulation, tps int) tea.Model {
	return newModel(sim, tps)
}

func newModel(sim *fluid.Simulation, tps int) termModel {
	return termModel{
		sim:    sim,
		tps:    tps,
		width:  80,
		height: 24,
		gauge:  harmonica.NewSpring(harmonica.FPS(tps), 6.0, 0.8),
	}
}

func termTick(tps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(tps), func(t time.Time) tea.Msg {
		return termTickMsg(t)
	})
}

func (m termModel) Init() tea.Cmd {
	return tea.Batch(termTick(m.tps), tea.SetWindowTitle("surface tension"))
}

func (m termModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=", "up":
			m.setTension(m.sim.SurfaceTension() * tensionFactor)
		case "-", "down":
			m.setTension(m.sim.SurfaceTension() / tensionFactor)
		case "r":
			cfg := m.sim.Config()
			cfg.Seed = nil
			sim, err := m.sim.Respawn(cfg)
			if err != nil {
				m.status = err.Error()
			} else {
				m.sim = sim
				m.status = "restarted"
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case termTickMsg:
		if !m.paused {
			m.sim.Step()
		}
		level := energyLevel(m.sim.KineticEnergy(), m.sim.Len())
		m.gaugePos, m.gaugeVel = m.gauge.Update(m.gaugePos, m.gaugeVel, level)
		return m, termTick(m.tps)
	}
	return m, nil
}

func (m *termModel) setTension(k float64) {
	if err := m.sim.SetSurfaceTension(k); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("tension %.1f", k)
}

func (m termModel) View() string {
	rows := m.height - termChromeLines
	if rows < 1 {
		rows = 1
	}
	cols := m.width
	if cols < 2 {
		cols = 2
	}

	var sb strings.Builder
	field := renderBraille(m.sim.Particles(), m.sim.Width(), m.sim.Height(), cols, rows)
	sb.WriteString(fieldStyle.Render(field))
	sb.WriteString("\n")

	state := "running"
	if m.paused {
		state = "paused"
	}
	line := fmt.Sprintf("step %d  t=%.1fs  tension %.1f  %s", m.sim.Steps(), m.sim.Elapsed(), m.sim.SurfaceTension(), state)
	if m.status != "" {
		line += "  " + m.status
	}
	sb.WriteString(statusStyle.Render(line))
	sb.WriteString("\n")
	sb.WriteString(gaugeStyle.Render(renderGauge(m.gaugePos, cols-4)))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("space pause  +/- tension  r restart  q quit"))
	return sb.String()
}

// renderBraille plots particles on a cols x rows grid of braille cells, each
// holding a 2x4 block of dots.
func renderBraille(ps []fluid.Particle, width, height float64, cols, rows int) string {
	dotCols, dotRows := cols*2, rows*4
	cells := make([]uint, cols*rows)
	for _, p := range ps {
		dx := scaleDot(p.X, width, dotCols)
		dy := scaleDot(p.Y, height, dotRows)
		cells[(dy/4)*cols+dx/2] |= 1 << brailleBits[dx%2][dy%4]
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			line.WriteRune(rune(0x2800 + cells[r*cols+c]))
		}
		lines[r] = line.String()
	}
	return strings.Join(lines, "\n")
}

func scaleDot(v, extent float64, dots int) int {
	d := int(v / extent * float64(dots))
	if d < 0 {
		return 0
	}
	if d >= dots {
		return dots - 1
	}
	return d
}

// energyLevel compresses mean kinetic energy per particle onto 0..1 with a
// log scale so the gauge stays readable across quiet and violent states.
func energyLevel(ke float64, n int) float64 {
	if n == 0 || ke <= 0 {
		return 0
	}
	level := math.Log10(1+ke/float64(n)) / 5
	return math.Min(level, 1)
}

func renderGauge(level float64, width int) string {
	if width < 10 {
		width = 10
	}
	filled := int(math.Round(math.Max(0, math.Min(level, 1)) * float64(width)))
	return "KE " + strings.Repeat("█", filled) + strings.Repeat("─", width-filled)
}
