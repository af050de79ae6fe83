package record

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/lixenwraith/ledcube/voxel"
)

// Player replays a recording in a loop at its recorded rate
type Player struct {
	name   string
	header Header
	frames []*voxel.Grid
}

// Load reads every frame of the recording at path into memory
func Load(path string) (*Player, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	p, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", path, err)
	}
	p.name = "replay"
	log.Printf("record: loaded %d frames from %s", len(p.frames), path)
	return p, nil
}

func readAll(r *Reader) (*Player, error) {
	p := &Player{header: r.Header()}
	for {
		g, err := voxel.NewGrid(p.header.Dims)
		if err != nil {
			return nil, err
		}
		err = r.ReadFrame(g)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", len(p.frames), err)
		}
		p.frames = append(p.frames, g)
	}
	if len(p.frames) == 0 {
		return nil, ErrEmpty
	}
	return p, nil
}

func (p *Player) Name() string { return p.name }

// Header returns the header of the loaded recording
func (p *Player) Header() Header { return p.header }

// Len returns the number of frames
func (p *Player) Len() int { return len(p.frames) }

// Index returns the frame shown at t
func (p *Player) Index(t time.Duration) int {
	if t < 0 {
		t = 0
	}
	i := int(t * time.Duration(p.header.FPS) / time.Second)
	return i % len(p.frames)
}

// Frame copies the frame for t into g; a grid of other dimensions receives the overlapping region
func (p *Player) Frame(g *voxel.Grid, t time.Duration) {
	src := p.frames[p.Index(t)]
	if g.CopyFrom(src) == nil {
		return
	}

	g.Clear()
	d, s := g.Dims(), src.Dims()
	for x := 0; x < min(d.W, s.W); x++ {
		for y := 0; y < min(d.H, s.H); y++ {
			for z := 0; z < min(d.D, s.D); z++ {
				g.Set(x, y, z, src.At(x, y, z))
			}
		}
	}
}
