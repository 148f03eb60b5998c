// Package fluid is a two-dimensional particle fluid with simulated surface
// tension: short-range repulsion keeps particles apart, mid-range cohesion
// pulls them into droplets.
//
// A Simulation is driven by calling Step at whatever cadence the host
// chooses and reading Particles after each call. It is not safe for
// concurrent use; independent simulations may run in parallel.
package fluid

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

// Engine is the contract a host front end drives.
type Engine interface {
	Step()
	Particles() []Particle
}

var _ Engine = (*Simulation)(nil)

// Simulation owns a fixed set of particles in a width x height box.
type Simulation struct {
	width, height float64
	cfg           Config

	particles []Particle
	acc       []r2.Vec
	scratch   []int

	grid       *Grid
	force      *ForceModel
	integrator Integrator
	boundary   Boundary

	// Substeps each Step needs for the stiffest pair spring.
	stiff int

	steps   uint64
	elapsed float64
}

// New creates a simulation of count particles scattered uniformly in the box
// [0,width]x[0,height]. Options are applied on top of DefaultConfig.
// The returned error wraps ErrInvalidConfiguration.
func New(count int, width, height float64, opts ...Option) (*Simulation, error) {
	if count <= 0 {
		return nil, invalidf("particle count must be positive, got %d", count)
	}
	if !positive(width) || !positive(height) {
		return nil, invalidf("bounds must be positive, got %v x %v", width, height)
	}

	cfg := DefaultConfig(count, width, height)
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.seed()
	cfg.Seed = &seed

	s := &Simulation{
		width:     width,
		height:    height,
		cfg:       cfg,
		particles: make([]Particle, count),
		acc:       make([]r2.Vec, count),
		grid:      NewGrid(width, height, cfg.InteractionRadius, gridCellsPerParticle*count),
		force:     NewForceModel(cfg),
		integrator: Integrator{
			MaxSpeed: cfg.MaxSpeed,
		},
		boundary: Boundary{Width: width, Height: height, Restitution: cfg.Restitution},
	}
	s.stiff = stiffSubsteps(cfg)
	if cfg.Turbulence > 0 {
		s.force.Field = NewTurbulence(cfg.Turbulence, cfg.TurbulenceScale, seed)
	}

	rng := rand.New(rand.NewSource(seed))
	for i := range s.particles {
		p := &s.particles[i]
		p.X = rng.Float64() * width
		p.Y = rng.Float64() * height
		if cfg.Jitter > 0 {
			p.VX = (rng.Float64()*2 - 1) * cfg.Jitter
			p.VY = (rng.Float64()*2 - 1) * cfg.Jitter
		}
	}
	return s, nil
}

// Step advances every particle by one timestep. Accelerations are computed
// for all particles from the pre-step state before any particle moves.
// The timestep is split into equal substeps when the pair springs or the
// fastest particle would otherwise outrun the integrator.
func (s *Simulation) Step() {
	dt := s.cfg.Timestep
	n := s.substeps()
	h := dt / float64(n)
	for k := 0; k < n; k++ {
		s.advance(h, s.elapsed+float64(k)*h)
	}
	s.steps++
	s.elapsed += dt
}

func (s *Simulation) advance(h, t float64) {
	radius := s.cfg.InteractionRadius

	s.grid.Rebuild(s.particles)
	for i := range s.particles {
		s.scratch = s.grid.Neighbors(i, radius, s.scratch[:0])
		s.acc[i] = s.force.Acceleration(i, s.particles, s.scratch, t)
	}

	for i := range s.particles {
		p := &s.particles[i]
		s.integrator.Advance(p, s.acc[i], h)
		s.boundary.Enforce(p)
	}
}

// substeps is the stiffness bound raised, while the core is repulsive, so no
// particle travels more than a fraction of the core radius per substep.
func (s *Simulation) substeps() int {
	n := float64(s.stiff)
	if s.force.RepulsionStrength > 0 {
		_, vmax := SpeedRange(s.particles)
		n = math.Max(n, math.Ceil(vmax*s.cfg.Timestep/(travelStep*s.cfg.CoreRadius)))
	}
	return clampSubsteps(n)
}

// Particles returns a copy of the current particle states in stable index order.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Len returns the particle count.
func (s *Simulation) Len() int { return len(s.particles) }

func (s *Simulation) Width() float64  { return s.width }
func (s *Simulation) Height() float64 { return s.height }

// Steps returns how many times Step has completed.
func (s *Simulation) Steps() uint64 { return s.steps }

// Elapsed returns the simulated time in seconds.
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// Config returns the resolved configuration, including the seed in use.
func (s *Simulation) Config() Config {
	c := s.cfg
	seed := *s.cfg.Seed
	c.Seed = &seed
	return c
}

// SetTimestep changes the fixed timestep used by subsequent steps.
func (s *Simulation) SetTimestep(dt float64) error {
	if !positive(dt) {
		return invalidf("timestep must be positive, got %v", dt)
	}
	s.cfg.Timestep = dt
	s.stiff = stiffSubsteps(s.cfg)
	return nil
}

// SetSurfaceTension changes the cohesion strength.
func (s *Simulation) SetSurfaceTension(k float64) error {
	if !nonNegative(k) {
		return invalidf("cohesion strength must not be negative, got %v", k)
	}
	s.cfg.CohesionStrength = k
	s.force.CohesionStrength = k
	s.stiff = stiffSubsteps(s.cfg)
	return nil
}

// SurfaceTension returns the current cohesion strength.
func (s *Simulation) SurfaceTension() float64 { return s.cfg.CohesionStrength }

// Impulse adds (dvx, dvy) to the velocity of every particle within radius of
// (x, y), fading linearly to zero at the edge. Positions are untouched.
func (s *Simulation) Impulse(x, y, radius, dvx, dvy float64) {
	if !positive(radius) || !finite(dvx) || !finite(dvy) {
		return
	}
	s.grid.Rebuild(s.particles)
	s.scratch = s.grid.Within(x, y, radius, s.scratch[:0])
	for _, i := range s.scratch {
		p := &s.particles[i]
		w := 1 - math.Hypot(p.X-x, p.Y-y)/radius
		p.VX += dvx * w
		p.VY += dvy * w
	}
}

// KineticEnergy returns sum(0.5*(vx^2+vy^2)) over all particles.
func (s *Simulation) KineticEnergy() float64 {
	return KineticEnergy(s.particles)
}

// PotentialEnergy returns the summed pair potential of the current state.
func (s *Simulation) PotentialEnergy() float64 {
	s.grid.Rebuild(s.particles)
	var u float64
	for i, p := range s.particles {
		s.scratch = s.grid.Neighbors(i, s.cfg.CohesionRadius, s.scratch[:0])
		for _, j := range s.scratch {
			if j <= i {
				continue
			}
			u += s.force.PairPotential(r2.Norm(r2.Sub(s.particles[j].Pos(), p.Pos())))
		}
	}
	return u
}

// ForceModel exposes the force model in use.
func (s *Simulation) ForceModel() *ForceModel { return s.force }

// Respawn builds a new simulation over the same domain and particle count
// using cfg. A nil cfg.Seed draws a fresh seed.
func (s *Simulation) Respawn(cfg Config) (*Simulation, error) {
	return New(len(s.particles), s.width, s.height, WithConfig(cfg))
}
