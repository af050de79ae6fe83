package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrParams reports a renderer setting that cannot produce a frame
var ErrParams = errors.New("invalid scene parameters")

// Params are the renderer constants; pixel lengths are pre-ratio and scaled by Ratio at use
type Params struct {
	Background   uint8   `toml:"background"`    // background gray intensity
	Wire         uint8   `toml:"wire"`          // wire gray intensity
	Ratio        float64 `toml:"ratio"`         // overall scale
	CanvasWidth  float64 `toml:"canvas_width"`  // pre-ratio
	CanvasHeight float64 `toml:"canvas_height"` // pre-ratio
	DotRadius    float64 `toml:"dot_radius"`    // pixels, not scaled
	DepthMargin  float64 `toml:"depth_margin"`  // base wire spacing, pre-ratio
	LeftMargin   float64 `toml:"left_margin"`   // pre-ratio
	Swing        float64 `toml:"swing"`         // parallax amplitude, pre-ratio
	PhaseStep    float64 `toml:"phase_step"`    // radians per frame
	DepthFactor  float64 `toml:"depth_factor"`  // parallax and vertical offset per layer index
}

// DefaultParams returns the stock look of the simulator
func DefaultParams() Params {
	return Params{
		Background:   0x20,
		Wire:         0x40,
		Ratio:        1.2,
		CanvasWidth:  400,
		CanvasHeight: 450,
		DotRadius:    3,
		DepthMargin:  10,
		LeftMargin:   50,
		Swing:        8,
		PhaseStep:    math.Pi / 20,
		DepthFactor:  0.25,
	}
}

// Validate rejects settings with no drawable canvas or a frozen/non-finite animation
func (p Params) Validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	for name, v := range map[string]float64{
		"ratio":         p.Ratio,
		"canvas_width":  p.CanvasWidth,
		"canvas_height": p.CanvasHeight,
		"depth_margin":  p.DepthMargin,
		"phase_step":    p.PhaseStep,
	} {
		if !finite(v) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrParams, name, v)
		}
	}
	for name, v := range map[string]float64{
		"dot_radius":   p.DotRadius,
		"left_margin":  p.LeftMargin,
		"swing":        p.Swing,
		"depth_factor": p.DepthFactor,
	} {
		if !finite(v) || v < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrParams, name, v)
		}
	}
	if w, h := p.CanvasSize(); w < 1 || h < 1 {
		return fmt.Errorf("%w: canvas %dx%d", ErrParams, w, h)
	}
	return nil
}

// CanvasSize returns the scaled canvas in whole pixels
func (p Params) CanvasSize() (width, height int) {
	return int(p.CanvasWidth * p.Ratio), int(p.CanvasHeight * p.Ratio)
}

// BackgroundColor is the canvas fill
func (p Params) BackgroundColor() color.Color {
	return color.Gray{Y: p.Background}
}

// WireColor is the front-panel lattice color
func (p Params) WireColor() color.Color {
	return color.Gray{Y: p.Wire}
}

func (p Params) depthMargin() float64 { return p.DepthMargin * p.Ratio }
func (p Params) leftMargin() float64  { return p.LeftMargin * p.Ratio }
func (p Params) swing() float64       { return p.Swing * p.Ratio }
