package fluid

import "math"

// gridCellsPerParticle caps the cell count a Simulation allocates.
const gridCellsPerParticle = 4

// Grid is a uniform spatial index over [0,width]x[0,height]. Cells are sized
// to the interaction radius so a neighbor query inspects the 3x3 block around
// a particle. It holds derived data only and is rebuilt every step.
type Grid struct {
	cellSize   float64
	cols, rows int

	// Counting sort buckets: particles of cell c are
	// order[start[c]:start[c+1]].
	start []int
	next  []int
	order []int
	cell  []int
	pos   []Particle
}

// NewGrid creates an index for the given domain and cell size. When the
// domain would need more than maxCells cells the cells grow until it fits;
// queries stay exact because they scan as many rings as the radius needs.
func NewGrid(width, height, cellSize float64, maxCells int) *Grid {
	if maxCells < 1 {
		maxCells = 1
	}
	if cells(width, height, cellSize) > float64(maxCells) {
		cellSize = math.Max(cellSize, math.Sqrt(width*height/float64(maxCells)))
		for cells(width, height, cellSize) > float64(maxCells) {
			cellSize *= 1.25
		}
	}
	cols := int(math.Max(1, math.Ceil(width/cellSize)))
	rows := int(math.Max(1, math.Ceil(height/cellSize)))
	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		start:    make([]int, cols*rows+1),
		next:     make([]int, cols*rows),
	}
}

func cells(width, height, cellSize float64) float64 {
	return math.Max(1, math.Ceil(width/cellSize)) * math.Max(1, math.Ceil(height/cellSize))
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (cols, rows int) { return g.cols, g.rows }

// Rebuild buckets the particles by cell. It runs in O(n + cells) and must be
// called after positions change and before any query.
func (g *Grid) Rebuild(particles []Particle) {
	n := len(particles)
	if cap(g.order) < n {
		g.order = make([]int, n)
		g.cell = make([]int, n)
	}
	g.order = g.order[:n]
	g.cell = g.cell[:n]
	g.pos = particles

	for i := range g.start {
		g.start[i] = 0
	}
	for i, p := range particles {
		c := g.cellOf(p.X, p.Y)
		g.cell[i] = c
		g.start[c+1]++
	}
	for c := 1; c < len(g.start); c++ {
		g.start[c] += g.start[c-1]
	}
	// Fill in index order so buckets are deterministic.
	copy(g.next, g.start[:len(g.start)-1])
	for i, c := range g.cell {
		g.order[g.next[c]] = i
		g.next[c]++
	}
}

// Neighbors appends to dst the indices of particles within radius of
// particle i, excluding i itself, and returns the extended slice.
func (g *Grid) Neighbors(i int, radius float64, dst []int) []int {
	p := g.pos[i]
	return g.query(p.X, p.Y, radius, i, dst)
}

// Within appends the indices of particles within radius of (x, y).
func (g *Grid) Within(x, y, radius float64, dst []int) []int {
	return g.query(x, y, radius, -1, dst)
}

func (g *Grid) query(x, y, radius float64, exclude int, dst []int) []int {
	reach := max(g.cols, g.rows)
	if rings := math.Ceil(radius / g.cellSize); rings < float64(reach) {
		reach = max(int(rings), 1)
	}
	col, row := g.colRow(x, y)
	r2 := radius * radius

	for cr := max(row-reach, 0); cr <= min(row+reach, g.rows-1); cr++ {
		for cc := max(col-reach, 0); cc <= min(col+reach, g.cols-1); cc++ {
			c := cr*g.cols + cc
			for _, j := range g.order[g.start[c]:g.start[c+1]] {
				if j == exclude {
					continue
				}
				q := g.pos[j]
				dx, dy := q.X-x, q.Y-y
				if dx*dx+dy*dy <= r2 {
					dst = append(dst, j)
				}
			}
		}
	}
	return dst
}

func (g *Grid) cellOf(x, y float64) int {
	col, row := g.colRow(x, y)
	return row*g.cols + col
}

// colRow clamps out-of-domain or non-finite coordinates to the edge cells.
func (g *Grid) colRow(x, y float64) (int, int) {
	return clampCell(x/g.cellSize, g.cols), clampCell(y/g.cellSize, g.rows)
}

func clampCell(v float64, n int) int {
	if !(v >= 0) {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}
