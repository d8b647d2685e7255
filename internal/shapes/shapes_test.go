package shapes

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomRangeHalfOpenCoversRange(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 4))
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := RandomRange(r, HalfOpen, 5, 10)
		require.GreaterOrEqual(t, v, 5)
		require.LessOrEqual(t, v, 9)
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}

func TestRandomRangeLegacyDropsTopValue(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 4))
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := RandomRange(r, Legacy, 5, 10)
		require.GreaterOrEqual(t, v, 5)
		require.LessOrEqual(t, v, 8)
		seen[v] = true
	}
	assert.Len(t, seen, 4)

	// A width-one range collapses to min.
	for i := 0; i < 10; i++ {
		assert.Equal(t, 3, RandomRange(r, Legacy, 3, 4))
		assert.Equal(t, 3, RandomRange(r, HalfOpen, 3, 4))
	}
}

func TestRandomRangePanicsOnEmptyRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	assert.Panics(t, func() { RandomRange(r, HalfOpen, 4, 4) })
	assert.Panics(t, func() { RandomRange(r, Legacy, 5, 2) })
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("uniform")
	require.NoError(t, err)
	assert.Equal(t, UniformAnyPlacement, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, CenteredBias, s)

	_, err = ParseStrategy("diagonal")
	assert.Error(t, err)

	for _, want := range []Strategy{CenteredBias, UniformAnyPlacement} {
		got, err := ParseStrategy(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseRangeRule(t *testing.T) {
	for _, want := range []RangeRule{HalfOpen, Legacy} {
		got, err := ParseRangeRule(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRangeRule("closed")
	assert.Error(t, err)
}

// Every generated placement must stamp without tripping the grid's bounds
// checks, for every strategy and range rule and a spread of sizes.
func TestGeneratorPlacementsFitGrid(t *testing.T) {
	t.Parallel()

	for _, strategy := range []Strategy{CenteredBias, UniformAnyPlacement} {
		for _, rule := range []RangeRule{HalfOpen, Legacy} {
			for _, size := range []int{4, 5, 9, 16, 64} {
				gen := NewGenerator(size, strategy, rule, uint64(size))
				for i := 0; i < 300; i++ {
					rect := gen.Rect()
					circle := gen.Circle()
					require.NotPanics(t, func() { rect.Sample(size) }, "%s %s size=%d %v", strategy, rule, size, rect)
					require.NotPanics(t, func() { circle.Sample(size) }, "%s %s size=%d %v", strategy, rule, size, circle)
				}
			}
		}
	}
}

func TestCenteredRectStraddlesMidline(t *testing.T) {
	t.Parallel()

	const size = 64
	gen := NewGenerator(size, CenteredBias, HalfOpen, 42)
	for i := 0; i < 500; i++ {
		r := gen.Rect()
		assert.Less(t, r.X, size/2)
		assert.Less(t, r.Y, size/2)
		assert.GreaterOrEqual(t, r.X+r.Width, size/2)
		assert.GreaterOrEqual(t, r.Y+r.Height, size/2)
	}
}

func TestCenteredCircleNearMiddle(t *testing.T) {
	t.Parallel()

	const size = 64
	gen := NewGenerator(size, CenteredBias, HalfOpen, 42)
	for i := 0; i < 500; i++ {
		c := gen.Circle()
		assert.GreaterOrEqual(t, c.X, size/4)
		assert.Less(t, c.X, 3*size/4)
		assert.GreaterOrEqual(t, c.Y, size/4)
		assert.Less(t, c.Y, 3*size/4)
		assert.GreaterOrEqual(t, c.Radius, size/4-1)
	}
}

func TestGeneratorDeterministicForSeed(t *testing.T) {
	a := NewGenerator(32, CenteredBias, HalfOpen, 99)
	b := NewGenerator(32, CenteredBias, HalfOpen, 99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Rect(), b.Rect())
		assert.Equal(t, a.Circle(), b.Circle())
	}
}

func TestNewGeneratorRejectsTinyGrid(t *testing.T) {
	assert.Panics(t, func() { NewGenerator(3, CenteredBias, HalfOpen, 1) })
}

func TestStampPolarity(t *testing.T) {
	rect := Rect{X: 0, Y: 0, Width: 1, Height: 1}.Sample(4)
	assert.Equal(t, 4*RectValue, rect.Sum())

	circle := Circle{X: 2, Y: 2, Radius: 0}.Sample(4)
	assert.Equal(t, CircleValue, circle.At(2, 2))
	assert.Equal(t, CircleValue, circle.Sum())
}

func TestSequenceWraps(t *testing.T) {
	seq := &Sequence{
		Rects:   []Rect{{X: 1}, {X: 2}},
		Circles: []Circle{{Radius: 3}},
	}
	assert.Equal(t, 1, seq.Rect().X)
	assert.Equal(t, 2, seq.Rect().X)
	assert.Equal(t, 1, seq.Rect().X)
	assert.Equal(t, 3, seq.Circle().Radius)
	assert.Equal(t, 3, seq.Circle().Radius)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "rect", KindRect.String())
	assert.Equal(t, "circle", KindCircle.String())
}
