package fluid

import "gonum.org/v1/gonum/spatial/r2"

// Particle is one unit-mass fluid particle: position and velocity.
// Its identity is its index in the owning Simulation.
type Particle struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// Pos returns the position as a vector.
func (p Particle) Pos() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Vel returns the velocity as a vector.
func (p Particle) Vel() r2.Vec { return r2.Vec{X: p.VX, Y: p.VY} }

// Speed returns the magnitude of the velocity.
func (p Particle) Speed() float64 { return r2.Norm(p.Vel()) }
