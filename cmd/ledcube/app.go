package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/lixenwraith/ledcube/config"
	"github.com/lixenwraith/ledcube/display"
	"github.com/lixenwraith/ledcube/export"
	"github.com/lixenwraith/ledcube/record"
	"github.com/lixenwraith/ledcube/scene"
	"github.com/lixenwraith/ledcube/source"
	"github.com/lixenwraith/ledcube/voxel"
)

// app owns one run: the grid, the active source, the composer and the optional recording
type app struct {
	cfg  config.Config
	env  source.Env
	grid *voxel.Grid

	src      source.Source
	replay   bool
	composer *scene.Composer
	sink     display.Display
	rec      *record.Writer

	frameDur  time.Duration
	clock     time.Duration // source time, stops while paused
	frames    int
	paused    bool
	snapshots int
}

// newApp builds the grid and the first source; sink and recording are attached by the caller
func newApp(cfg config.Config, env source.Env, sink display.Display) (*app, error) {
	a := &app{
		cfg:      cfg,
		env:      env,
		sink:     sink,
		frameDur: time.Second / time.Duration(cfg.Display.FPS),
	}

	if cfg.Record.Replay != "" {
		p, err := record.Load(cfg.Record.Replay)
		if err != nil {
			return nil, err
		}
		a.src = p
		a.replay = true
		a.env.Dims = p.Header().Dims
		log.Printf("ledcube: replaying %d frames of %s at %d fps", p.Len(), p.Header().Dims, p.Header().FPS)
	} else {
		src, err := source.New(cfg.Source.Name, env)
		if err != nil {
			return nil, err
		}
		a.src = src
	}

	grid, err := voxel.NewGrid(a.env.Dims)
	if err != nil {
		return nil, err
	}
	a.grid = grid

	a.composer, err = scene.NewComposer(cfg.Scene, sink)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// title is shown by sinks that have a caption
func (a *app) title() string {
	t := fmt.Sprintf("ledcube %s %s", a.src.Name(), a.grid.Dims())
	if a.paused {
		t += " [paused]"
	}
	return t
}

// step advances the source unless paused, records the frame and renders it
func (a *app) step() error {
	if !a.paused {
		a.src.Frame(a.grid, a.clock)
		a.clock += a.frameDur
		if a.rec != nil {
			if err := a.rec.WriteFrame(a.grid); err != nil {
				return err
			}
		}
	}
	a.frames++
	return a.composer.Render(a.title(), a.grid)
}

func (a *app) handle(c display.Command) {
	switch c {
	case display.CommandPause:
		a.paused = !a.paused
		log.Printf("ledcube: paused=%v", a.paused)

	case display.CommandNext:
		if a.replay {
			log.Printf("ledcube: replaying, source switch ignored")
			return
		}
		name := source.Next(a.src.Name())
		src, err := source.New(name, a.env)
		if err != nil {
			log.Printf("ledcube: source %s: %v", name, err)
			return
		}
		a.src = src
		log.Printf("ledcube: source %s", name)

	case display.CommandExport:
		path := filepath.Join(a.cfg.Record.SnapshotDir, fmt.Sprintf("snapshot_%03d.glb", a.snapshots))
		if err := export.SaveGLB(a.grid, path); err != nil {
			log.Printf("ledcube: snapshot: %v", err)
			return
		}
		a.snapshots++
	}
}

// errUnbounded is returned for an unpaced run without a frame limit
var errUnbounded = errors.New("unpaced run needs a frame limit")

// run renders until the sink is done, ctx is cancelled or the frame limit is reached
// realtime paces frames with a ticker; headless sinks run unthrottled on the same source clock
func (a *app) run(ctx context.Context, realtime bool) error {
	if !realtime && a.cfg.Display.Frames <= 0 {
		return errUnbounded
	}
	var tick <-chan time.Time
	if realtime {
		ticker := time.NewTicker(a.frameDur)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if limit := a.cfg.Display.Frames; limit > 0 && a.frames >= limit {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-a.sink.Done():
			return nil
		case c := <-a.sink.Commands():
			a.handle(c)
			continue
		default:
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-a.sink.Done():
				return nil
			case c := <-a.sink.Commands():
				a.handle(c)
				continue
			case <-tick:
			}
		}

		if err := a.step(); err != nil {
			return fmt.Errorf("frame %d: %w", a.frames, err)
		}
	}
}

// exportOnce renders the first source frame to path without opening a sink
func exportOnce(cfg config.Config, env source.Env, path string) error {
	src, err := source.New(cfg.Source.Name, env)
	if err != nil {
		return err
	}
	grid, err := voxel.NewGrid(env.Dims)
	if err != nil {
		return err
	}
	src.Frame(grid, 0)
	if err := export.SaveGLB(grid, path); err != nil {
		if errors.Is(err, export.ErrEmpty) {
			return fmt.Errorf("source %s lit nothing at t=0: %w", src.Name(), err)
		}
		return err
	}
	return nil
}
