// Package scene composes the pseudo-3D view of a voxel grid from stacked panels.
//
// A Composer owns the parallax animation. Each Render advances it one step, paints every front and side
// panel back-to-front onto a freshly cleared canvas and hands the result to a Sink.
package scene

import (
	"image"
	"image/color"

	"github.com/lixenwraith/ledcube/canvas"
	"github.com/lixenwraith/ledcube/panel"
	"github.com/lixenwraith/ledcube/voxel"
)

// Canvas is a drawable frame that can be handed to a sink
type Canvas interface {
	panel.Surface
	Image() image.Image
}

// CanvasFactory returns a new canvas filled with bg
type CanvasFactory func(width, height int, bg color.Color) Canvas

// Sink presents finished frames and keeps its window responsive
type Sink interface {
	Present(title string, frame image.Image) error
	PumpEventsOnce()
}

// Option configures a Composer
type Option func(*Composer)

// WithCanvas replaces the gg-backed canvas, used by tests to record draw calls
func WithCanvas(f CanvasFactory) Option {
	return func(c *Composer) { c.newCanvas = f }
}

// Composer renders frames; not safe for concurrent use
type Composer struct {
	params    Params
	anim      Animation
	style     panel.Style
	sink      Sink
	newCanvas CanvasFactory
}

// NewComposer validates p and binds the output sink
func NewComposer(p Params, sink Sink, opts ...Option) (*Composer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := &Composer{
		params: p,
		anim:   NewAnimation(p.PhaseStep),
		style: panel.Style{
			DotRadius: p.DotRadius,
			Wire:      p.WireColor(),
		},
		sink: sink,
		newCanvas: func(w, h int, bg color.Color) Canvas {
			return canvas.New(w, h, bg)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compose advances the animation and paints grid onto a new canvas without presenting it
func (c *Composer) Compose(grid *voxel.Grid) Canvas {
	c.anim = c.anim.Advance()
	parallax := c.anim.Parallax(c.params.swing())

	w, h := c.params.CanvasSize()
	cv := c.newCanvas(w, h, c.params.BackgroundColor())

	for _, l := range c.params.Layers(grid.Dims(), parallax) {
		panel.Draw(cv, l.Kind, l.Geo, grid, l.Index, c.style)
	}
	return cv
}

// Render composes one frame, presents it under title and pumps the sink once
// A presentation error is returned as-is after the pump
func (c *Composer) Render(title string, grid *voxel.Grid) error {
	cv := c.Compose(grid)
	err := c.sink.Present(title, cv.Image())
	c.sink.PumpEventsOnce()
	return err
}
