package fluid

import "gonum.org/v1/gonum/spatial/r2"

// Field is a position and time dependent acceleration, such as turbulence.
type Field interface {
	At(x, y, t float64) r2.Vec
}

// ForceModel computes the acceleration of one particle from its neighbors
// and the global forces. All particles have unit mass, so forces and
// accelerations are the same quantity.
type ForceModel struct {
	CoreRadius        float64
	CohesionRadius    float64
	RepulsionStrength float64
	CohesionStrength  float64
	Viscosity         float64
	Gravity           r2.Vec
	Drag              float64
	Epsilon           float64
	Field             Field
}

// NewForceModel builds a force model from a validated config.
func NewForceModel(c Config) *ForceModel {
	return &ForceModel{
		CoreRadius:        c.CoreRadius,
		CohesionRadius:    c.CohesionRadius,
		RepulsionStrength: c.RepulsionStrength,
		CohesionStrength:  c.CohesionStrength,
		Viscosity:         c.Viscosity,
		Gravity:           r2.Vec{X: c.GravityX, Y: c.GravityY},
		Drag:              c.Drag,
		Epsilon:           c.Epsilon,
	}
}

// Pair returns the acceleration particle a (index i) receives from particle b
// (index j). Pair(i, j, a, b) == -Pair(j, i, b, a) up to rounding.
func (f *ForceModel) Pair(i, j int, a, b Particle) r2.Vec {
	d := r2.Sub(b.Pos(), a.Pos())
	r := r2.Norm(d)
	if r >= f.CohesionRadius {
		return r2.Vec{}
	}

	var u r2.Vec
	switch {
	case r == 0:
		// Coincident particles: split them along x, ordered by index.
		u.X = 1
		if i > j {
			u.X = -1
		}
	case r < f.Epsilon:
		u = r2.Scale(1/f.Epsilon, d)
	default:
		u = r2.Scale(1/r, d)
	}

	// m > 0 pulls a toward b.
	m := f.radial(r)
	if f.Viscosity > 0 {
		rel := r2.Dot(r2.Sub(b.Vel(), a.Vel()), u)
		m += f.Viscosity * (1 - r/f.CohesionRadius) * rel
	}
	return r2.Scale(m, u)
}

// radial is the conservative pair force magnitude at distance r.
func (f *ForceModel) radial(r float64) float64 {
	if r < f.CoreRadius {
		return -f.RepulsionStrength * (1 - r/f.CoreRadius)
	}
	s := (r - f.CoreRadius) / (f.CohesionRadius - f.CoreRadius)
	return f.CohesionStrength * 4 * s * (1 - s)
}

// PairPotential is the potential energy of a pair at distance r, zero beyond
// the cohesion radius. Its derivative is the conservative part of Pair.
func (f *ForceModel) PairPotential(r float64) float64 {
	if r >= f.CohesionRadius {
		return 0
	}
	w := f.CohesionRadius - f.CoreRadius
	if r >= f.CoreRadius {
		s := (r - f.CoreRadius) / w
		return -4 * f.CohesionStrength * w * (1.0/6 - s*s/2 + s*s*s/3)
	}
	c := f.CoreRadius - r
	return -f.WellDepth() + f.RepulsionStrength*c*c/(2*f.CoreRadius)
}

// WellDepth is the magnitude of the minimum pair potential.
func (f *ForceModel) WellDepth() float64 {
	return 2.0 / 3 * f.CohesionStrength * (f.CohesionRadius - f.CoreRadius)
}

// Acceleration sums the pair forces from neighbors and the global forces
// acting on particle i at simulated time t. The result is always finite.
func (f *ForceModel) Acceleration(i int, particles []Particle, neighbors []int, t float64) r2.Vec {
	p := particles[i]
	var acc r2.Vec
	for _, j := range neighbors {
		acc = r2.Add(acc, f.Pair(i, j, p, particles[j]))
	}
	acc = r2.Add(acc, f.Global(p, t))
	if !finite(acc.X) || !finite(acc.Y) {
		return r2.Vec{}
	}
	return acc
}

// Global returns gravity, drag and the optional field for one particle.
func (f *ForceModel) Global(p Particle, t float64) r2.Vec {
	acc := f.Gravity
	if f.Drag > 0 {
		acc = r2.Sub(acc, r2.Scale(f.Drag, p.Vel()))
	}
	if f.Field != nil {
		acc = r2.Add(acc, f.Field.At(p.X, p.Y, t))
	}
	return acc
}
