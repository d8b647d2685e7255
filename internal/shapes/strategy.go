package shapes

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Strategy selects how placements are sampled.
type Strategy int

const (
	// CenteredBias keeps rectangles straddling the grid midline and circles
	// centred in the middle half of the grid.
	CenteredBias Strategy = iota
	// UniformAnyPlacement samples positions over the whole grid with no bias.
	UniformAnyPlacement
)

func (s Strategy) String() string {
	switch s {
	case CenteredBias:
		return "centered"
	case UniformAnyPlacement:
		return "uniform"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the names produced by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "centered", "centred":
		return CenteredBias, nil
	case "uniform":
		return UniformAnyPlacement, nil
	default:
		return 0, fmt.Errorf("unknown shape strategy %q (want centered or uniform)", name)
	}
}

// RangeRule selects the integer sampling rule behind RandomRange.
type RangeRule int

const (
	// HalfOpen draws uniformly from [min, max-1].
	HalfOpen RangeRule = iota
	// Legacy draws floor(u*(max-min-1)) + min, i.e. [min, max-2], and
	// collapses to min when max-min == 1. Kept for reproducing old runs.
	Legacy
)

func (r RangeRule) String() string {
	switch r {
	case HalfOpen:
		return "half-open"
	case Legacy:
		return "legacy"
	default:
		return fmt.Sprintf("RangeRule(%d)", int(r))
	}
}

// ParseRangeRule accepts the names produced by RangeRule.String.
func ParseRangeRule(name string) (RangeRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "half-open", "halfopen":
		return HalfOpen, nil
	case "legacy":
		return Legacy, nil
	default:
		return 0, fmt.Errorf("unknown range rule %q (want half-open or legacy)", name)
	}
}

// RandomRange returns an integer in [min, max) drawn from r under rule.
// It panics if min >= max.
func RandomRange(r *rand.Rand, rule RangeRule, min, max int) int {
	if min >= max {
		panic(fmt.Sprintf("shapes: randomRange requires min < max, got [%d, %d)", min, max))
	}
	switch rule {
	case Legacy:
		return int(math.Floor(r.Float64()*float64(max-min-1))) + min
	default:
		return r.IntN(max-min) + min
	}
}
