// Package headless runs a simulation without rendering.
package headless

import (
	"log"

	"github.com/guptarohit/asciigraph"

	"github.com/olivierh59500/surface-tension-go/fluid"
)

const plotWidth = 70

// Report is the energy history of a headless run.
type Report struct {
	Steps       int
	Energy      []float64
	InitialHull float64
	FinalHull   float64
}

// Run steps sim without rendering, logging stats every logEvery
// steps (0 disables logging) and recording kinetic energy after each step.
func Run(sim *fluid.Simulation, steps, logEvery int) Report {
	steps = max(steps, 0)
	r := Report{
		Steps:       steps,
		Energy:      make([]float64, 0, steps),
		InitialHull: fluid.HullArea(sim.Particles()),
	}
	for i := 1; i <= steps; i++ {
		sim.Step()
		r.Energy = append(r.Energy, sim.KineticEnergy())
		if logEvery > 0 && i%logEvery == 0 {
			ps := sim.Particles()
			mean, max := fluid.SpeedRange(ps)
			lo, hi := fluid.Extent(ps)
			log.Printf("step %d t=%.2fs KE=%.1f PE=%.1f speed mean=%.2f max=%.2f hull=%.0f extent=%.0fx%.0f",
				sim.Steps(), sim.Elapsed(), r.Energy[len(r.Energy)-1], sim.PotentialEnergy(),
				mean, max, fluid.HullArea(ps), hi.X-lo.X, hi.Y-lo.Y)
		}
	}
	r.FinalHull = fluid.HullArea(sim.Particles())
	return r
}

// Plot draws the kinetic energy history as an ASCII chart.
func (r Report) Plot() string {
	if len(r.Energy) == 0 {
		return "no steps run"
	}
	return asciigraph.Plot(r.Energy,
		asciigraph.Height(12),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("kinetic energy per step"))
}
