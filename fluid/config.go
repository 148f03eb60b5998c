package fluid

import (
	"math"
	"time"
)

// Default tuning, expressed relative to the mean particle spacing of the
// domain so the same fluid behavior appears at any size and count.
const (
	DefaultTimestep    = 1.0 / 60.0
	DefaultRestitution = 0.5
	DefaultViscosity   = 1.5
	DefaultEpsilon     = 1e-6

	coreSpacingRatio      = 0.5
	cohesionSpacingRatio  = 1.4
	cohesionAccelPerPixel = 4.0
	repulsionToCohesion   = 12.0
	turbulenceScale       = 0.01
)

// Config holds the tunable parameters of a Simulation. Lengths are in domain
// units (pixels for the bundled hosts), time in seconds.
type Config struct {
	Timestep float64 `json:"timestep"`
	// Seed drives initial placement and the turbulence field. Nil seeds from the clock.
	Seed *uint64 `json:"seed,omitempty"`

	CoreRadius        float64 `json:"coreRadius"`
	CohesionRadius    float64 `json:"cohesionRadius"`
	InteractionRadius float64 `json:"interactionRadius"`
	RepulsionStrength float64 `json:"repulsionStrength"`
	CohesionStrength  float64 `json:"cohesionStrength"`
	Viscosity         float64 `json:"viscosity"`

	GravityX float64 `json:"gravityX"`
	GravityY float64 `json:"gravityY"`
	Drag     float64 `json:"drag"`

	Turbulence      float64 `json:"turbulence"`
	TurbulenceScale float64 `json:"turbulenceScale"`

	// Jitter is the half-width of the uniform initial velocity distribution.
	// Zero starts every particle at rest.
	Jitter      float64 `json:"jitter"`
	Restitution float64 `json:"restitution"`
	// MaxSpeed clamps particle speed after integration. Zero disables it.
	MaxSpeed float64 `json:"maxSpeed"`
	Epsilon  float64 `json:"epsilon"`
}

// Option adjusts a Config before validation.
type Option func(*Config)

// DefaultConfig returns the configuration New starts from for a domain of the
// given size and particle count.
func DefaultConfig(count int, width, height float64) Config {
	spacing := 1.0
	if count > 0 && width > 0 && height > 0 {
		spacing = math.Sqrt(width * height / float64(count))
	}
	core := coreSpacingRatio * spacing
	cohesion := cohesionSpacingRatio * spacing
	cohesionStrength := cohesionAccelPerPixel * cohesion
	return Config{
		Timestep:          DefaultTimestep,
		CoreRadius:        core,
		CohesionRadius:    cohesion,
		InteractionRadius: cohesion,
		RepulsionStrength: repulsionToCohesion * cohesionStrength,
		CohesionStrength:  cohesionStrength,
		Viscosity:         DefaultViscosity,
		TurbulenceScale:   turbulenceScale,
		Restitution:       DefaultRestitution,
		Epsilon:           DefaultEpsilon,
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(dst *Config) { *dst = c }
}

// WithSeed makes the simulation reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = &seed }
}

func WithTimestep(dt float64) Option {
	return func(c *Config) { c.Timestep = dt }
}

// WithRadii sets the repulsion core and the outer edge of cohesion. The
// interaction radius follows the cohesion radius.
func WithRadii(core, cohesion float64) Option {
	return func(c *Config) {
		c.CoreRadius = core
		c.CohesionRadius = cohesion
		c.InteractionRadius = cohesion
	}
}

// WithInteractionRadius sets the neighbor search cutoff.
func WithInteractionRadius(r float64) Option {
	return func(c *Config) { c.InteractionRadius = r }
}

func WithStrengths(repulsion, cohesion float64) Option {
	return func(c *Config) {
		c.RepulsionStrength = repulsion
		c.CohesionStrength = cohesion
	}
}

func WithViscosity(k float64) Option {
	return func(c *Config) { c.Viscosity = k }
}

func WithGravity(gx, gy float64) Option {
	return func(c *Config) {
		c.GravityX = gx
		c.GravityY = gy
	}
}

func WithDrag(k float64) Option {
	return func(c *Config) { c.Drag = k }
}

// WithTurbulence enables the noise flow field. A zero scale keeps the default.
func WithTurbulence(strength, scale float64) Option {
	return func(c *Config) {
		c.Turbulence = strength
		if scale != 0 {
			c.TurbulenceScale = scale
		}
	}
}

func WithJitter(j float64) Option {
	return func(c *Config) { c.Jitter = j }
}

func WithRestitution(e float64) Option {
	return func(c *Config) { c.Restitution = e }
}

func WithMaxSpeed(v float64) Option {
	return func(c *Config) { c.MaxSpeed = v }
}

// Validate reports the first out-of-range parameter.
func (c Config) Validate() error {
	switch {
	case !positive(c.Timestep):
		return invalidf("timestep must be positive, got %v", c.Timestep)
	case !positive(c.CoreRadius):
		return invalidf("core radius must be positive, got %v", c.CoreRadius)
	case !positive(c.CohesionRadius):
		return invalidf("cohesion radius must be positive, got %v", c.CohesionRadius)
	case c.CohesionRadius <= c.CoreRadius:
		return invalidf("cohesion radius %v must exceed core radius %v", c.CohesionRadius, c.CoreRadius)
	case !positive(c.InteractionRadius):
		return invalidf("interaction radius must be positive, got %v", c.InteractionRadius)
	case c.InteractionRadius < c.CohesionRadius:
		return invalidf("interaction radius %v is below cohesion radius %v", c.InteractionRadius, c.CohesionRadius)
	case !nonNegative(c.RepulsionStrength):
		return invalidf("repulsion strength must not be negative, got %v", c.RepulsionStrength)
	case !nonNegative(c.CohesionStrength):
		return invalidf("cohesion strength must not be negative, got %v", c.CohesionStrength)
	case !nonNegative(c.Viscosity):
		return invalidf("viscosity must not be negative, got %v", c.Viscosity)
	case !nonNegative(c.Drag):
		return invalidf("drag must not be negative, got %v", c.Drag)
	case !finite(c.GravityX) || !finite(c.GravityY):
		return invalidf("gravity must be finite, got (%v, %v)", c.GravityX, c.GravityY)
	case !nonNegative(c.Turbulence):
		return invalidf("turbulence must not be negative, got %v", c.Turbulence)
	case c.Turbulence > 0 && !positive(c.TurbulenceScale):
		return invalidf("turbulence scale must be positive, got %v", c.TurbulenceScale)
	case !nonNegative(c.Jitter):
		return invalidf("jitter must not be negative, got %v", c.Jitter)
	case !finite(c.Restitution) || c.Restitution < 0 || c.Restitution > 1:
		return invalidf("restitution must be within [0, 1], got %v", c.Restitution)
	case !nonNegative(c.MaxSpeed):
		return invalidf("max speed must not be negative, got %v", c.MaxSpeed)
	case !positive(c.Epsilon):
		return invalidf("epsilon must be positive, got %v", c.Epsilon)
	}
	return nil
}

func (c Config) seed() uint64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return uint64(time.Now().UnixNano())
}

func finite(v float64) bool      { return !math.IsNaN(v) && !math.IsInf(v, 0) }
func positive(v float64) bool    { return finite(v) && v > 0 }
func nonNegative(v float64) bool { return finite(v) && v >= 0 }
