package fluid

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestAdvanceUpdatesVelocityBeforePosition(t *testing.T) {
	p := Particle{VX: 1}
	Integrator{}.Advance(&p, r2.Vec{X: 2, Y: -4}, 0.5)
	want := Particle{X: 1, Y: -1, VX: 2, VY: -2}
	if p != want {
		t.Fatalf("Advance() = %+v, want %+v", p, want)
	}
}

func TestAdvanceClampsSpeed(t *testing.T) {
	p := Particle{VX: 30, VY: 40}
	Integrator{MaxSpeed: 5}.Advance(&p, r2.Vec{}, 1)
	if got := p.Speed(); math.Abs(got-5) > 1e-12 {
		t.Fatalf("speed after clamp = %v, want 5", got)
	}
	if math.Abs(p.X-3) > 1e-12 || math.Abs(p.Y-4) > 1e-12 {
		t.Fatalf("position after clamp = (%v, %v), want (3, 4)", p.X, p.Y)
	}
}

func TestBoundaryReflects(t *testing.T) {
	b := Boundary{Width: 100, Height: 50, Restitution: 0.5}
	cases := []struct {
		name string
		in   Particle
		want Particle
	}{
		{"inside", Particle{X: 10, Y: 10, VX: 1, VY: 1}, Particle{X: 10, Y: 10, VX: 1, VY: 1}},
		{"left", Particle{X: -3, Y: 10, VX: -4, VY: 1}, Particle{X: 0, Y: 10, VX: 2, VY: 1}},
		{"right", Particle{X: 104, Y: 10, VX: 6, VY: 1}, Particle{X: 100, Y: 10, VX: -3, VY: 1}},
		{"top", Particle{X: 10, Y: -1, VX: 1, VY: -2}, Particle{X: 10, Y: 0, VX: 1, VY: 1}},
		{"corner", Particle{X: 120, Y: 70, VX: 2, VY: 8}, Particle{X: 100, Y: 50, VX: -1, VY: -4}},
		{"on wall", Particle{X: 100, Y: 0, VX: 5, VY: -5}, Particle{X: 100, Y: 0, VX: 5, VY: -5}},
	}
	for _, tc := range cases {
		p := tc.in
		b.Enforce(&p)
		if p != tc.want {
			t.Fatalf("%s: Enforce() = %+v, want %+v", tc.name, p, tc.want)
		}
	}
}

func TestBoundaryParksNonFiniteParticles(t *testing.T) {
	b := Boundary{Width: 100, Height: 50, Restitution: 1}
	p := Particle{X: math.NaN(), Y: 3, VX: math.Inf(1)}
	b.Enforce(&p)
	if p != (Particle{X: 50, Y: 25}) {
		t.Fatalf("Enforce() = %+v, want parked at center", p)
	}
	if !b.contains(p) {
		t.Fatalf("contains(%+v) = false", p)
	}
}
