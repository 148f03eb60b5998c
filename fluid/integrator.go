package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances particles with semi-implicit Euler: velocity first,
// then position from the new velocity.
type Integrator struct {
	MaxSpeed float64
}

// Advance moves p by one timestep dt under acceleration a.
func (in Integrator) Advance(p *Particle, a r2.Vec, dt float64) {
	p.VX += a.X * dt
	p.VY += a.Y * dt
	if in.MaxSpeed > 0 {
		if s := p.Speed(); s > in.MaxSpeed {
			k := in.MaxSpeed / s
			p.VX *= k
			p.VY *= k
		}
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
}

const (
	// stiffStep bounds omega*h of the stiffest pair spring in one substep.
	stiffStep = 0.05
	// travelStep bounds the distance a particle covers in one substep, as a
	// fraction of the core radius.
	travelStep  = 0.125
	maxSubsteps = 32
)

// stiffSubsteps returns how many substeps keep the core spring and the
// cohesion slope resolved at the configured timestep.
func stiffSubsteps(c Config) int {
	k := c.RepulsionStrength / c.CoreRadius
	k = math.Max(k, 4*c.CohesionStrength/(c.CohesionRadius-c.CoreRadius))
	return clampSubsteps(math.Ceil(c.Timestep * math.Sqrt(k) / stiffStep))
}

func clampSubsteps(n float64) int {
	if !(n >= 1) {
		return 1
	}
	if n > maxSubsteps {
		return maxSubsteps
	}
	return int(n)
}
