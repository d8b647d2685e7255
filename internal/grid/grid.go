package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ColorFunc maps a cell value to an RGB triple. expectedRange is the value
// magnitude the caller considers "typical" and is used for normalisation.
type ColorFunc func(value, expectedRange float64) (r, g, b uint8)

// Grid is a size x size buffer of float64 accumulators stored row-major,
// so cell (x, y) lives at index y*size+x.
type Grid struct {
	size  int
	cells []float64
}

// New returns an all-zero grid. It panics if size is not positive.
func New(size int) *Grid {
	if size <= 0 {
		panic(fmt.Sprintf("grid: size must be positive, got %d", size))
	}
	return &Grid{
		size:  size,
		cells: make([]float64, size*size),
	}
}

// Size returns the grid edge length.
func (g *Grid) Size() int { return g.size }

// Cells exposes the backing buffer. Callers must not resize it.
func (g *Grid) Cells() []float64 { return g.cells }

// At returns the value of cell (x, y).
func (g *Grid) At(x, y int) float64 {
	g.mustContain("at", x, y)
	return g.cells[g.index(x, y)]
}

// Set overwrites cell (x, y).
func (g *Grid) Set(x, y int, v float64) {
	g.mustContain("set", x, y)
	g.cells[g.index(x, y)] = v
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{size: g.size, cells: make([]float64, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// FillRect adds delta to every cell in the closed region
// [x, x+width] x [y, y+height]. The bounds are inclusive on both ends, so a
// call covers width+1 columns and height+1 rows.
func (g *Grid) FillRect(x, y, width, height int, delta float64) {
	if width < 0 || height < 0 || x < 0 || y < 0 || x+width >= g.size || y+height >= g.size {
		panic(fmt.Sprintf("grid: fillRect [x=%d y=%d w=%d h=%d] exceeds %dx%d grid",
			x, y, width, height, g.size, g.size))
	}

	for cy := y; cy <= y+height; cy++ {
		row := g.cells[cy*g.size+x : cy*g.size+x+width+1]
		floats.AddConst(delta, row)
	}
}

// FillCircle adds delta to every cell (px, py) in the closed bounding box of
// the circle for which (px-x)² + (py-y)² <= radius². Radius 0 stamps a single
// cell.
func (g *Grid) FillCircle(x, y, radius int, delta float64) {
	if radius < 0 || x-radius < 0 || y-radius < 0 || x+radius >= g.size || y+radius >= g.size {
		panic(fmt.Sprintf("grid: fillCircle [x=%d y=%d r=%d] exceeds %dx%d grid",
			x, y, radius, g.size, g.size))
	}

	r2 := radius * radius
	for cy := y - radius; cy <= y+radius; cy++ {
		dy := cy - y
		for cx := x - radius; cx <= x+radius; cx++ {
			dx := cx - x
			if dx*dx+dy*dy <= r2 {
				g.cells[cy*g.size+cx] += delta
			}
		}
	}
}

// Dot returns the sum over all cells of g[i]*other[i]. This is the
// feed-forward score when g holds weights and other holds a sample.
func (g *Grid) Dot(other *Grid) float64 {
	g.mustMatch("dot", other)
	return floats.Dot(g.cells, other.cells)
}

// Accumulate adds other into g cell by cell.
func (g *Grid) Accumulate(other *Grid) {
	g.mustMatch("accumulate", other)
	floats.Add(g.cells, other.cells)
}

// Sum returns the total of all cells.
func (g *Grid) Sum() float64 {
	return floats.Sum(g.cells)
}

// MinMax returns the smallest and largest cell values.
func (g *Grid) MinMax() (lo, hi float64) {
	return floats.Min(g.cells), floats.Max(g.cells)
}

// ToImage renders the grid to interleaved RGB bytes, row-major, three bytes
// per cell. It does not modify g.
func (g *Grid) ToImage(fn ColorFunc, expectedRange float64) []byte {
	pix := make([]byte, 0, len(g.cells)*3)
	for _, v := range g.cells {
		r, gr, b := fn(v, expectedRange)
		pix = append(pix, r, gr, b)
	}
	return pix
}

func (g *Grid) index(x, y int) int { return y*g.size + x }

func (g *Grid) mustContain(op string, x, y int) {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		panic(fmt.Sprintf("grid: %s (%d,%d) outside %dx%d grid", op, x, y, g.size, g.size))
	}
}

func (g *Grid) mustMatch(op string, other *Grid) {
	if other == nil {
		panic(fmt.Sprintf("grid: %s with nil grid", op))
	}
	if other.size != g.size {
		panic(fmt.Sprintf("grid: %s size mismatch %d != %d", op, g.size, other.size))
	}
}
