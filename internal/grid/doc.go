// Package grid owns the square accumulator raster shared by samples and weights.
//
// Responsibilities: shape fill primitives, the feed-forward inner product,
// in-place accumulation, and pixel export through a caller-supplied colour map.
// Key type: Grid.
//
// Bounds and size mismatches are programming errors. Every operation checks
// its footprint up front and panics with the offending coordinates rather than
// returning an error; callers are expected to hand in valid placements.
package grid
