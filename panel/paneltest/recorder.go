// Package paneltest provides a Surface that records draw calls instead of rasterizing them.
package paneltest

import (
	"image"
	"image/color"
	"image/draw"
)

// Op identifies a recorded primitive
type Op uint8

const (
	OpRect Op = iota
	OpCircle
)

// Call is one recorded primitive; W and H are zero for circles, R is zero for rects
type Call struct {
	Op    Op
	X, Y  float64
	W, H  float64
	R     float64
	Color color.NRGBA
}

// Recorder implements panel.Surface and the scene canvas contract
type Recorder struct {
	Width, Height int
	Background    color.NRGBA
	Calls         []Call
}

// New returns an empty recorder, usable as a scene canvas factory
func New(w, h int, bg color.Color) *Recorder {
	return &Recorder{Width: w, Height: h, Background: toNRGBA(bg)}
}

func (r *Recorder) StrokeRect(x, y, w, h float64, c color.Color) {
	r.Calls = append(r.Calls, Call{Op: OpRect, X: x, Y: y, W: w, H: h, Color: toNRGBA(c)})
}

func (r *Recorder) FillCircle(x, y, rad float64, c color.Color) {
	r.Calls = append(r.Calls, Call{Op: OpCircle, X: x, Y: y, R: rad, Color: toNRGBA(c)})
}

// Image returns a background-filled image of the recorder's size, primitives are not rasterized
func (r *Recorder) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)
	return img
}

// Circles returns only the circle calls, in order
func (r *Recorder) Circles() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == OpCircle {
			out = append(out, c)
		}
	}
	return out
}

// Rects returns only the rect calls, in order
func (r *Recorder) Rects() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == OpRect {
			out = append(out, c)
		}
	}
	return out
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
