package scene

import "math"

// Animation is the parallax oscillator; the phase only grows, sin() provides the wrap
type Animation struct {
	phase float64
	step  float64
}

// NewAnimation starts at phase 0
func NewAnimation(step float64) Animation {
	return Animation{step: step}
}

// Advance moves one frame forward and returns the advanced state
func (a Animation) Advance() Animation {
	a.phase += a.step
	return a
}

// Phase returns the accumulated angle in radians
func (a Animation) Phase() float64 {
	return a.phase
}

// Parallax returns the lateral sway for the current phase
func (a Animation) Parallax(amplitude float64) float64 {
	return math.Sin(a.phase) * amplitude
}

// Period is the number of frames after which the sway repeats
func (a Animation) Period() float64 {
	return 2 * math.Pi / a.step
}
