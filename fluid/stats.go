package fluid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// KineticEnergy returns sum(0.5*(vx^2+vy^2)) for unit-mass particles.
func KineticEnergy(ps []Particle) float64 {
	var e float64
	for _, p := range ps {
		e += 0.5 * r2.Norm2(p.Vel())
	}
	return e
}

// SpeedRange returns the mean and maximum particle speed.
func SpeedRange(ps []Particle) (mean, max float64) {
	if len(ps) == 0 {
		return 0, 0
	}
	for _, p := range ps {
		s := p.Speed()
		mean += s
		max = math.Max(max, s)
	}
	return mean / float64(len(ps)), max
}

// Extent returns the axis-aligned bounding box of the particle positions.
func Extent(ps []Particle) (min, max r2.Vec) {
	if len(ps) == 0 {
		return
	}
	min, max = ps[0].Pos(), ps[0].Pos()
	for _, p := range ps[1:] {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	return min, max
}

// Hull returns the convex hull of the particle positions in counter-clockwise
// order (monotone chain).
func Hull(ps []Particle) []r2.Vec {
	pts := make([]r2.Vec, len(ps))
	for i, p := range ps {
		pts[i] = p.Pos()
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	if len(pts) < 3 {
		return pts
	}

	hull := make([]r2.Vec, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// HullArea returns the area of the convex hull of the particle positions.
func HullArea(ps []Particle) float64 {
	h := Hull(ps)
	if len(h) < 3 {
		return 0
	}
	var a float64
	for i := range h {
		j := (i + 1) % len(h)
		a += h[i].X*h[j].Y - h[j].X*h[i].Y
	}
	return math.Abs(a) / 2
}

// turn is the z component of (b-a) x (c-a); positive for a left turn.
func turn(a, b, c r2.Vec) float64 {
	u, v := r2.Sub(b, a), r2.Sub(c, a)
	return u.X*v.Y - u.Y*v.X
}

// Density counts particles per square cell of side cell over the domain,
// row-major. Out-of-domain positions count toward the nearest edge cell.
// Very fine cells are coarsened the way NewGrid caps its cell count.
func Density(ps []Particle, width, height, cell float64) (counts []int, cols, rows int) {
	g := NewGrid(width, height, cell, max(gridCellsPerParticle*len(ps), 1<<16))
	cols, rows = g.Dims()
	counts = make([]int, cols*rows)
	for _, p := range ps {
		counts[g.cellOf(p.X, p.Y)]++
	}
	return counts, cols, rows
}
