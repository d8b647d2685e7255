// Package render turns grids into images: the sigmoid colour map, binary PPM
// output, and interactive heatmap pages.
package render

import "math"

// SigmoidColor maps value through a logistic curve centred at zero.
// Red and green carry 255/(1+e^(-value/expectedRange)); blue is 255 minus
// that. Channels are truncated toward zero, so 0 maps to (127, 127, 128).
func SigmoidColor(value, expectedRange float64) (r, g, b uint8) {
	level := 255 / (1 + math.Exp(-value/expectedRange))
	v := uint8(level)
	return v, v, 0xff - v
}
