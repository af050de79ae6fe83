package source

import (
	"math"
	"time"

	"github.com/lixenwraith/ledcube/voxel"
)

// Shell pulses nested cube outlines out from the center
type Shell struct {
	// Period of one full expansion
	Period time.Duration
}

func NewShell() *Shell {
	return &Shell{Period: 1600 * time.Millisecond}
}

func (s *Shell) Name() string { return "shell" }

func (s *Shell) Frame(g *voxel.Grid, t time.Duration) {
	g.Clear()
	d := g.Dims()

	cx, cy, cz := float64(d.W-1)/2, float64(d.H-1)/2, float64(d.D-1)/2
	maxR := math.Max(cx, math.Max(cy, cz))

	phase := float64(t%s.Period) / float64(s.Period)
	radius := phase * (maxR + 1)

	for x := 0; x < d.W; x++ {
		for y := 0; y < d.H; y++ {
			for z := 0; z < d.D; z++ {
				// Chebyshev distance: equal values form cube surfaces
				r := math.Max(math.Abs(float64(x)-cx), math.Max(math.Abs(float64(y)-cy), math.Abs(float64(z)-cz)))
				if math.Abs(r-radius) < 0.5 {
					g.Set(x, y, z, hue(r/(maxR+1)+t.Seconds()/10, 1-phase*0.6))
				}
			}
		}
	}
}
