package fluid

import (
	"math"
	"testing"
)

func TestHullAreaOfSquareWithInteriorPoints(t *testing.T) {
	ps := []Particle{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
		{X: 2, Y: 2}, {X: 1, Y: 3}, {X: 2, Y: 0},
	}
	if got := HullArea(ps); math.Abs(got-16) > 1e-12 {
		t.Fatalf("HullArea() = %v, want 16", got)
	}
	if got := len(Hull(ps)); got != 4 {
		t.Fatalf("len(Hull()) = %d, want 4", got)
	}
}

func TestHullAreaDegenerate(t *testing.T) {
	line := []Particle{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if got := HullArea(line); got != 0 {
		t.Fatalf("HullArea(collinear) = %v, want 0", got)
	}
	if got := HullArea(nil); got != 0 {
		t.Fatalf("HullArea(nil) = %v, want 0", got)
	}
}

func TestKineticEnergyAndSpeeds(t *testing.T) {
	ps := []Particle{{VX: 3, VY: 4}, {VX: 0, VY: 1}}
	if got := KineticEnergy(ps); got != 13 {
		t.Fatalf("KineticEnergy() = %v, want 13", got)
	}
	mean, max := SpeedRange(ps)
	if mean != 3 || max != 5 {
		t.Fatalf("SpeedRange() = %v, %v, want 3, 5", mean, max)
	}
}

func TestExtent(t *testing.T) {
	min, max := Extent([]Particle{{X: 3, Y: 9}, {X: -1, Y: 4}, {X: 7, Y: 5}})
	if min.X != -1 || min.Y != 4 || max.X != 7 || max.Y != 9 {
		t.Fatalf("Extent() = %v, %v", min, max)
	}
}

func TestDensity(t *testing.T) {
	ps := []Particle{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 15, Y: 5}, {X: 19, Y: 19}, {X: -4, Y: 30}}
	counts, cols, rows := Density(ps, 20, 20, 10)
	if cols != 2 || rows != 2 {
		t.Fatalf("Density() dims = %d x %d, want 2 x 2", cols, rows)
	}
	want := []int{2, 1, 1, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("Density() = %v, want %v", counts, want)
		}
	}
}
