// Package shapes produces randomised rectangle and circle placements and
// stamps them onto grids with their class polarity.
package shapes

import (
	"fmt"
	"math/rand/v2"

	"github.com/banshee-data/shapegrid/internal/grid"
)

// Fill polarity encodes the class label in the sign of stamped cells.
const (
	RectValue   = 1.0
	CircleValue = -1.0
)

// Kind identifies a shape class.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
)

func (k Kind) String() string {
	if k == KindCircle {
		return "circle"
	}
	return "rect"
}

// Rect is an axis-aligned rectangle with inclusive extent, see grid.FillRect.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Stamp adds the rectangle to g with RectValue.
func (r Rect) Stamp(g *grid.Grid) {
	g.FillRect(r.X, r.Y, r.Width, r.Height, RectValue)
}

// Sample returns a fresh grid holding only this rectangle.
func (r Rect) Sample(size int) *grid.Grid {
	g := grid.New(size)
	r.Stamp(g)
	return g
}

func (r Rect) String() string {
	return fmt.Sprintf("rect(x=%d y=%d w=%d h=%d)", r.X, r.Y, r.Width, r.Height)
}

// Circle is a discretised filled disk.
type Circle struct {
	X, Y   int
	Radius int
}

// Stamp adds the circle to g with CircleValue.
func (c Circle) Stamp(g *grid.Grid) {
	g.FillCircle(c.X, c.Y, c.Radius, CircleValue)
}

// Sample returns a fresh grid holding only this circle.
func (c Circle) Sample(size int) *grid.Grid {
	g := grid.New(size)
	c.Stamp(g)
	return g
}

func (c Circle) String() string {
	return fmt.Sprintf("circle(x=%d y=%d r=%d)", c.X, c.Y, c.Radius)
}

// Source yields shape placements for the training and evaluation loops.
type Source interface {
	Rect() Rect
	Circle() Circle
}

// Generator samples placements for a fixed grid size.
type Generator struct {
	size     int
	strategy Strategy
	rule     RangeRule
	rng      *rand.Rand
}

// NewGenerator builds a generator seeded deterministically from seed.
// Sizes below 4 cannot hold a centred circle and panic.
func NewGenerator(size int, strategy Strategy, rule RangeRule, seed uint64) *Generator {
	if size < 4 {
		panic(fmt.Sprintf("shapes: grid size %d too small for shape generation", size))
	}
	return &Generator{
		size:     size,
		strategy: strategy,
		rule:     rule,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Size returns the grid size placements are generated for.
func (g *Generator) Size() int { return g.size }

// Strategy returns the active sampling strategy.
func (g *Generator) Strategy() Strategy { return g.strategy }

func (g *Generator) rand(min, max int) int {
	return RandomRange(g.rng, g.rule, min, max)
}

// Rect draws a rectangle placement.
func (g *Generator) Rect() Rect {
	n := g.size
	if g.strategy == UniformAnyPlacement {
		x := g.rand(0, n-1)
		y := g.rand(0, n-1)
		return Rect{X: x, Y: y, Width: g.rand(1, n-x), Height: g.rand(1, n-y)}
	}

	half := n / 2
	x := g.rand(0, half)
	y := g.rand(0, half)
	return Rect{
		X:      x,
		Y:      y,
		Width:  g.rand(half-x, n-x),
		Height: g.rand(half-y, n-y),
	}
}

// Circle draws a circle placement.
func (g *Generator) Circle() Circle {
	n := g.size
	if g.strategy == UniformAnyPlacement {
		x := g.rand(0, n)
		y := g.rand(0, n)
		return Circle{X: x, Y: y, Radius: g.rand(0, min(x, y, n-1-x, n-1-y)+1)}
	}

	quarter := n / 4
	x := g.rand(quarter, 3*quarter)
	y := g.rand(quarter, 3*quarter)
	return Circle{X: x, Y: y, Radius: g.rand(quarter-1, min(x, y, n-x, n-y))}
}

// Sequence replays fixed placements in order, wrapping around when
// exhausted. Useful for deterministic runs.
type Sequence struct {
	Rects   []Rect
	Circles []Circle

	ri, ci int
}

// Rect returns the next rectangle.
func (s *Sequence) Rect() Rect {
	r := s.Rects[s.ri%len(s.Rects)]
	s.ri++
	return r
}

// Circle returns the next circle.
func (s *Sequence) Circle() Circle {
	c := s.Circles[s.ci%len(s.Circles)]
	s.ci++
	return c
}
