// Package config turns command-line flags into host settings and engine options.
package config

import (
	"flag"
	"fmt"

	"github.com/olivierh59500/surface-tension-go/fluid"
	"github.com/olivierh59500/surface-tension-go/internal/preset"
)

// MaxTPS is the fastest tick rate the interactive hosts accept.
const MaxTPS = 1000

// Host is everything the command line controls.
type Host struct {
	Mode       string
	Particles  int
	Width      float64
	Height     float64
	Seed       int64
	Preset     string
	SavePreset string
	Steps      int
	LogEvery   int
	Addr       string
	TPS        int
	Gravity    float64
	Jitter     float64
	Turbulence float64

	set map[string]bool
}

// Parse reads the command line. flag.ErrHelp is returned as is.
func Parse(args []string) (Host, error) {
	var hc Host
	fs := flag.NewFlagSet("surface-tension", flag.ContinueOnError)
	fs.StringVar(&hc.Mode, "mode", "window", "host: window, term, serve or headless")
	fs.IntVar(&hc.Particles, "n", 100, "number of particles")
	fs.Float64Var(&hc.Width, "width", 800, "domain width")
	fs.Float64Var(&hc.Height, "height", 600, "domain height")
	fs.Int64Var(&hc.Seed, "seed", -1, "random seed (negative seeds from the clock)")
	fs.StringVar(&hc.Preset, "preset", "", "load engine parameters from a JSON preset")
	fs.StringVar(&hc.SavePreset, "save-preset", "", "write the resolved engine parameters to a JSON preset")
	fs.IntVar(&hc.Steps, "steps", 2000, "steps to run in headless mode")
	fs.IntVar(&hc.LogEvery, "log-every", 250, "headless stats interval in steps")
	fs.StringVar(&hc.Addr, "addr", "localhost:5000", "listen address in serve mode")
	fs.IntVar(&hc.TPS, "tps", 60, "steps per second for interactive hosts")
	fs.Float64Var(&hc.Gravity, "gravity", 0, "downward gravity")
	fs.Float64Var(&hc.Jitter, "jitter", 0, "initial velocity jitter")
	fs.Float64Var(&hc.Turbulence, "turbulence", 0, "perlin flow field strength")
	if err := fs.Parse(args); err != nil {
		return hc, err
	}

	hc.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { hc.set[f.Name] = true })

	switch hc.Mode {
	case "window", "term", "serve", "headless":
	default:
		return hc, fmt.Errorf("unknown mode %q", hc.Mode)
	}
	if hc.TPS <= 0 || hc.TPS > MaxTPS {
		return hc, fmt.Errorf("tps must be in 1..%d, got %d", MaxTPS, hc.TPS)
	}
	if hc.Steps < 0 {
		return hc, fmt.Errorf("steps must not be negative, got %d", hc.Steps)
	}
	if hc.LogEvery < 0 {
		return hc, fmt.Errorf("log-every must not be negative, got %d", hc.LogEvery)
	}
	return hc, nil
}

// EngineOptions turns the preset and explicit flags into engine options.
// Explicit flags win over the preset.
func (hc Host) EngineOptions() ([]fluid.Option, error) {
	var opts []fluid.Option
	if hc.Preset != "" {
		cfg, err := preset.Load(hc.Preset, hc.Particles, hc.Width, hc.Height)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fluid.WithConfig(cfg))
	}
	if hc.Seed >= 0 {
		opts = append(opts, fluid.WithSeed(uint64(hc.Seed)))
	}
	if hc.set["gravity"] {
		opts = append(opts, fluid.WithGravity(0, hc.Gravity))
	}
	if hc.set["jitter"] {
		opts = append(opts, fluid.WithJitter(hc.Jitter))
	}
	if hc.set["turbulence"] {
		opts = append(opts, fluid.WithTurbulence(hc.Turbulence, 0))
	}
	return opts, nil
}

// NewSimulation builds the engine described by the flags.
func (hc Host) NewSimulation() (*fluid.Simulation, error) {
	opts, err := hc.EngineOptions()
	if err != nil {
		return nil, err
	}
	return fluid.New(hc.Particles, hc.Width, hc.Height, opts...)
}
