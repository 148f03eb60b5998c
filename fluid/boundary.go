package fluid

// Boundary keeps particles inside [0,Width]x[0,Height] with reflective walls.
type Boundary struct {
	Width, Height float64
	// Restitution scales the reflected velocity component. 1 is a perfect bounce.
	Restitution float64
}

// Enforce clamps p into the domain and reflects the velocity component of
// every wall it crossed.
func (b Boundary) Enforce(p *Particle) {
	if !finite(p.X) || !finite(p.Y) || !finite(p.VX) || !finite(p.VY) {
		// Unrecoverable state for this particle; park it at rest.
		p.X, p.Y = b.Width/2, b.Height/2
		p.VX, p.VY = 0, 0
		return
	}
	p.X, p.VX = b.reflect(p.X, p.VX, b.Width)
	p.Y, p.VY = b.reflect(p.Y, p.VY, b.Height)
}

func (b Boundary) reflect(x, v, limit float64) (float64, float64) {
	switch {
	case x < 0:
		return 0, -v * b.Restitution
	case x > limit:
		return limit, -v * b.Restitution
	}
	return x, v
}

// contains reports whether p lies inside the domain.
func (b Boundary) contains(p Particle) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}
