// Package canvas is the raster backend for panels, a thin layer over gg.
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Canvas is a fixed-size RGBA image implementing panel.Surface
type Canvas struct {
	dc     *gg.Context
	width  int
	height int
	bg     color.Color
}

// New allocates a canvas already cleared to bg
func New(width, height int, bg color.Color) *Canvas {
	c := &Canvas{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
		bg:     bg,
	}
	c.dc.SetLineWidth(1)
	c.Clear()
	return c
}

// Clear fills every pixel with the background
func (c *Canvas) Clear() {
	c.dc.SetColor(c.bg)
	c.dc.Clear()
}

// Size returns the pixel dimensions
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// StrokeRect outlines a rectangle with a 1px line
// Integer coordinates name pixels, so the path runs through pixel centers and spans w-1 × h-1
func (c *Canvas) StrokeRect(x, y, w, h float64, col color.Color) {
	px, py := snap(x), snap(y)
	c.dc.SetColor(col)
	c.dc.DrawRectangle(px, py, math.Round(w)-1, math.Round(h)-1)
	c.dc.Stroke()
}

// FillCircle fills a disc centered on the pixel nearest (x, y)
func (c *Canvas) FillCircle(x, y, r float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(snap(x), snap(y), r)
	c.dc.Fill()
}

// Image returns the backing image, valid until the next draw call
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// RGBA returns the backing image as *image.RGBA
func (c *Canvas) RGBA() *image.RGBA {
	if img, ok := c.dc.Image().(*image.RGBA); ok {
		return img
	}
	b := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			b.Set(x, y, c.dc.Image().At(x, y))
		}
	}
	return b
}

// snap rounds to the nearest pixel and moves to its center
func snap(v float64) float64 {
	return math.Round(v) + 0.5
}
