package fluid

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
	// noiseDrift is how fast the field evolves, in noise units per second.
	noiseDrift = 0.25
)

// Turbulence is a slowly evolving perlin flow field. Its direction at a
// point is the noise value mapped onto a full turn.
type Turbulence struct {
	Strength float64
	Scale    float64
	noise    *perlin.Perlin
}

// NewTurbulence seeds a flow field.
func NewTurbulence(strength, scale float64, seed uint64) *Turbulence {
	return &Turbulence{
		Strength: strength,
		Scale:    scale,
		noise:    perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, int64(seed)),
	}
}

// At implements Field.
func (t *Turbulence) At(x, y, time float64) r2.Vec {
	n := t.noise.Noise3D(x*t.Scale, y*t.Scale, time*noiseDrift)
	angle := (n + 1) / 2 * 2 * math.Pi
	return r2.Vec{X: t.Strength * math.Cos(angle), Y: t.Strength * math.Sin(angle)}
}
