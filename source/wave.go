package source

import (
	"math"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/ledcube/voxel"
)

// Wave lights one voxel per XZ column at the height of a travelling sine field
type Wave struct {
	// Speed in radians per second
	Speed float64
	// K is the spatial frequency in radians per cell
	K float64
}

func NewWave() *Wave {
	return &Wave{Speed: 3, K: 0.8}
}

func (w *Wave) Name() string { return "wave" }

// Height returns the field value in [0,1] at column (x,z)
func (w *Wave) Height(x, z int, t time.Duration) float64 {
	ph := t.Seconds() * w.Speed
	v := math.Sin(float64(x)*w.K+ph) + math.Cos(float64(z)*w.K+ph*0.7)
	return (v + 2) / 4
}

func (w *Wave) Frame(g *voxel.Grid, t time.Duration) {
	g.Clear()
	d := g.Dims()

	low := colorful.Hcl(260, 0.8, 0.45)
	high := colorful.Hcl(40, 0.9, 0.85)
	for x := 0; x < d.W; x++ {
		for z := 0; z < d.D; z++ {
			h := w.Height(x, z, t)
			// y grows downward on the panels, so the crest is at y=0
			y := d.H - 1 - int(math.Round(h*float64(d.H-1)))
			g.Set(x, y, z, pack(low.BlendHcl(high, h)))
		}
	}
}
