package source

import (
	"time"

	"github.com/lixenwraith/ledcube/voxel"
)

// Sweep moves a lit XY plane through depth and back, hue by position in the plane
type Sweep struct {
	// Step is the time spent on each depth slice
	Step time.Duration
}

func NewSweep() *Sweep {
	return &Sweep{Step: 120 * time.Millisecond}
}

func (s *Sweep) Name() string { return "sweep" }

func (s *Sweep) Frame(g *voxel.Grid, t time.Duration) {
	g.Clear()
	d := g.Dims()

	z := 0
	if d.D > 1 {
		// ping-pong over 0..D-1..1
		span := 2 * (d.D - 1)
		z = int(t/s.Step) % span
		if z >= d.D {
			z = span - z
		}
	}

	shift := t.Seconds() / 8
	for x := 0; x < d.W; x++ {
		for y := 0; y < d.H; y++ {
			frac := float64(x+y)/float64(d.W+d.H) + shift
			g.Set(x, y, z, hue(frac, 1))
		}
	}
}
