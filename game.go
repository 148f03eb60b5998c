package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/surface-tension-go/fluid"
	"github.com/olivierh59500/surface-tension-go/internal/preset"
)

// Window host constants
const (
	presetFile     = "preset.json"
	pokeRadius     = 60.0
	pokeGain       = 8.0
	tensionFactor  = 1.25
	minParticlePx  = 1.5
	maxParticlePx  = 10.0
	speedToRadius  = 2.0
	speedToHueDeg  = 10.0
	backgroundGray = 12
	heatCell       = 10.0
	heatPerCount   = 60
	trailLength    = 10
	zoomStep       = 0.1
	minZoom        = 0.25
	maxZoom        = 8.0
)

// View modes, cycled with V.
const (
	viewParticles = iota
	viewHeatmap
	viewTrails
	viewCount
)

// Game drives a fluid.Simulation from the ebiten game loop.
type Game struct {
	sim       *fluid.Simulation
	particles []fluid.Particle
	Paused    bool
	ShowHUD   bool
	VisMode   int
	Zoom      float64
	CamX      float64 // Camera pan, in domain units
	CamY      float64
	PrevMX    float64 // Previous mouse position for drag
	PrevMY    float64
	status    string

	// Last trailLength snapshots, oldest first.
	trail [][]fluid.Particle
}

// NewGame wraps an existing simulation.
func NewGame(sim *fluid.Simulation) *Game {
	return &Game{
		sim:       sim,
		particles: sim.Particles(),
		ShowHUD:   true,
		Zoom:      1,
	}
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	g.handleInput()

	if !g.Paused {
		g.sim.Step()
	}
	g.particles = g.sim.Particles()
	if g.VisMode == viewTrails {
		g.pushTrail()
	}
	return nil
}

func (g *Game) pushTrail() {
	if len(g.trail) == trailLength {
		copy(g.trail, g.trail[1:])
		g.trail = g.trail[:trailLength-1]
	}
	g.trail = append(g.trail, g.particles)
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{backgroundGray, backgroundGray, backgroundGray, 255})

	switch g.VisMode {
	case viewParticles:
		for _, p := range g.particles {
			col, radius := speedStyle(p.Speed())
			sx, sy := g.worldToScreen(p.X, p.Y)
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius*g.Zoom), col, true)
		}
	case viewHeatmap:
		counts, cols, _ := fluid.Density(g.particles, g.sim.Width(), g.sim.Height(), heatCell)
		for i, n := range counts {
			if n == 0 {
				continue
			}
			intensity := uint8(min(n*heatPerCount, 255))
			sx, sy := g.worldToScreen(float64(i%cols)*heatCell, float64(i/cols)*heatCell)
			size := float32(heatCell * g.Zoom)
			vector.DrawFilledRect(screen, float32(sx), float32(sy), size, size, color.RGBA{intensity, 0, 255 - intensity, 255}, true)
		}
	case viewTrails:
		for k := 1; k < len(g.trail); k++ {
			prev, cur := g.trail[k-1], g.trail[k]
			for i := range cur {
				col, _ := speedStyle(cur[i].Speed())
				px, py := g.worldToScreen(prev[i].X, prev[i].Y)
				cx, cy := g.worldToScreen(cur[i].X, cur[i].Y)
				vector.StrokeLine(screen, float32(px), float32(py), float32(cx), float32(cy), 1, col, true)
			}
		}
	}

	if g.ShowHUD {
		ebitenutil.DebugPrint(screen, g.hud())
	}
}

// Layout returns the screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.sim.Width()), int(g.sim.Height())
}

func (g *Game) hud() string {
	mean, max := fluid.SpeedRange(g.particles)
	lo, hi := fluid.Extent(g.particles)
	s := fmt.Sprintf("step %d  t=%.1fs  fps %.0f  zoom %.2f\nparticles %d  tension %.1f\nspeed mean %.1f max %.1f  KE %.0f\nhull %.0f  extent %.0fx%.0f",
		g.sim.Steps(), g.sim.Elapsed(), ebiten.ActualFPS(), g.Zoom,
		len(g.particles), g.sim.SurfaceTension(),
		mean, max, fluid.KineticEnergy(g.particles),
		fluid.HullArea(g.particles), hi.X-lo.X, hi.Y-lo.Y)
	if g.Paused {
		s += "\n[paused]"
	}
	if g.status != "" {
		s += "\n" + g.status
	}
	return s + "\nspace pause  right step  up/down tension  r restart  s/l preset  v view  h hud  c reset camera\nleft drag stir  right drag pan  wheel zoom"
}

// handleInput processes keyboard and mouse input
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.Paused = !g.Paused
	}
	if g.Paused && inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.sim.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.ShowHUD = !g.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.VisMode = (g.VisMode + 1) % viewCount
		g.trail = g.trail[:0]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.Zoom, g.CamX, g.CamY = 1, 0, 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.adjustTension(tensionFactor)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.adjustTension(1 / tensionFactor)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		cfg := g.sim.Config()
		cfg.Seed = nil
		g.restart(cfg)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.savePreset(presetFile)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.loadPreset(presetFile)
	}

	// Zoom
	_, wheelY := ebiten.Wheel()
	if wheelY != 0 {
		g.Zoom = math.Max(minZoom, math.Min(g.Zoom+wheelY*zoomStep, maxZoom))
	}

	mx, my := ebiten.CursorPosition()
	fx, fy := float64(mx), float64(my)
	dx, dy := (fx-g.PrevMX)/g.Zoom, (fy-g.PrevMY)/g.Zoom
	// Stir (left drag)
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		wx, wy := g.screenToWorld(fx, fy)
		g.sim.Impulse(wx, wy, pokeRadius, dx*pokeGain, dy*pokeGain)
	}
	// Pan (right drag)
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.CamX -= dx
		g.CamY -= dy
	}
	g.PrevMX = fx
	g.PrevMY = fy
}

// worldToScreen and screenToWorld apply the camera
func (g *Game) worldToScreen(wx, wy float64) (float64, float64) {
	return (wx - g.CamX) * g.Zoom, (wy - g.CamY) * g.Zoom
}

func (g *Game) screenToWorld(sx, sy float64) (float64, float64) {
	return sx/g.Zoom + g.CamX, sy/g.Zoom + g.CamY
}

func (g *Game) adjustTension(factor float64) {
	if err := g.sim.SetSurfaceTension(g.sim.SurfaceTension() * factor); err != nil {
		g.status = err.Error()
	}
}

// restart rebuilds the simulation from cfg. A nil seed draws a fresh one.
func (g *Game) restart(cfg fluid.Config) {
	sim, err := g.sim.Respawn(cfg)
	if err != nil {
		g.status = err.Error()
		return
	}
	g.sim = sim
	g.particles = sim.Particles()
	g.trail = g.trail[:0]
	g.status = "restarted"
}

// savePreset saves the current parameters to JSON
func (g *Game) savePreset(filename string) {
	if err := preset.Save(filename, g.sim.Config()); err != nil {
		log.Printf("save preset: %v", err)
		g.status = "save failed"
		return
	}
	g.status = "saved " + filename
}

// loadPreset loads parameters from JSON and restarts
func (g *Game) loadPreset(filename string) {
	cfg, err := preset.Load(filename, g.sim.Len(), g.sim.Width(), g.sim.Height())
	if err != nil {
		log.Printf("load preset: %v", err)
		g.status = "load failed"
		return
	}
	g.restart(cfg)
	if g.status == "restarted" {
		g.status = "loaded " + filename
	}
}

// speedStyle maps speed to hue and radius the way the canvas page does.
func speedStyle(speed float64) (color.RGBA, float64) {
	hue := math.Min(speed*speedToHueDeg, 360)
	r, gr, b := hsvToRGB(hue, 1, 1)
	radius := math.Max(minParticlePx, math.Min(speed*speedToRadius, maxParticlePx))
	return color.RGBA{uint8(r * 255), uint8(gr * 255), uint8(b * 255), 255}, radius
}

// hsvToRGB helper
func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
