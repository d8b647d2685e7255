// Package video records weight snapshots as PPM frames and writes a
// concat-style manifest that an external encoder can turn into a video.
package video

import "math"

const (
	// InitialFrameDuration is the display time of the first frame, in seconds.
	InitialFrameDuration = 2.82
	// MinFrameDuration bounds the schedule away from zero. The default
	// 1200-frame run bottoms out near 0.0116 s and never reaches it.
	MinFrameDuration = 0.01
	// decayBase drives the per-frame decrement decayBase^(-10*i).
	decayBase = 1.045
)

// Schedule yields frame durations that shrink quickly at first and then
// flatten out.
type Schedule struct {
	i       int
	current float64
}

// NewSchedule starts at InitialFrameDuration.
func NewSchedule() *Schedule {
	return &Schedule{current: InitialFrameDuration}
}

// Next returns the duration for the next frame and advances the schedule.
func (s *Schedule) Next() float64 {
	d := s.current
	s.current -= math.Pow(decayBase, -float64(s.i)*10)
	if s.current < MinFrameDuration {
		s.current = MinFrameDuration
	}
	s.i++
	return d
}

// Durations returns the first n durations of a fresh schedule.
func Durations(n int) []float64 {
	s := NewSchedule()
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}
