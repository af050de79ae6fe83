package source

import (
	"math/rand"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/ledcube/voxel"
)

type drop struct {
	x, z int
	y    int
	tail int
}

// Rain drops fall along y with fading tails; the same seed gives the same storm
type Rain struct {
	// Tick is the time for one fall step
	Tick time.Duration
	// Chance of a new drop per column and tick
	Chance float64

	rng   *rand.Rand
	drops []drop
	steps int64
	dims  voxel.Dims
}

func NewRain(seed int64) *Rain {
	return &Rain{
		Tick:   60 * time.Millisecond,
		Chance: 0.04,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (r *Rain) Name() string { return "rain" }

func (r *Rain) Frame(g *voxel.Grid, t time.Duration) {
	d := g.Dims()
	if d != r.dims {
		r.dims = d
		r.drops = r.drops[:0]
	}

	target := int64(t / r.Tick)
	if target < r.steps {
		// time went backwards, restart the storm
		r.drops = r.drops[:0]
		r.steps = target
	}
	for ; r.steps < target; r.steps++ {
		r.step(d)
	}

	g.Clear()
	head := colorful.Hcl(230, 0.6, 0.9)
	dark := colorful.Hcl(260, 0.4, 0.25)
	for _, dr := range r.drops {
		for i := 0; i <= dr.tail; i++ {
			y := dr.y - i
			if y < 0 {
				break
			}
			fade := float64(i) / float64(dr.tail+1)
			g.Set(dr.x, y, dr.z, pack(head.BlendHcl(dark, fade)))
		}
	}
}

func (r *Rain) step(d voxel.Dims) {
	alive := r.drops[:0]
	for _, dr := range r.drops {
		dr.y++
		if dr.y-dr.tail < d.H {
			alive = append(alive, dr)
		}
	}
	r.drops = alive

	for x := 0; x < d.W; x++ {
		for z := 0; z < d.D; z++ {
			if r.rng.Float64() < r.Chance {
				r.drops = append(r.drops, drop{x: x, z: z, y: 0, tail: 1 + r.rng.Intn(3)})
			}
		}
	}
}
