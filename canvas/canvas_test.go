package canvas

import (
	"image/color"
	"testing"
)

var (
	bg   = color.RGBA{0x20, 0x20, 0x20, 0xFF}
	wire = color.RGBA{0x40, 0x40, 0x40, 0xFF}
	red  = color.RGBA{0xFF, 0, 0, 0xFF}
)

func rgbaAt(c *Canvas, x, y int) color.RGBA {
	return c.RGBA().RGBAAt(x, y)
}

func TestNewClearsToBackground(t *testing.T) {
	c := New(32, 16, bg)
	w, h := c.Size()
	if w != 32 || h != 16 {
		t.Fatalf("Size = %dx%d", w, h)
	}
	for _, p := range [][2]int{{0, 0}, {31, 15}, {16, 8}} {
		if got := rgbaAt(c, p[0], p[1]); got != bg {
			t.Errorf("pixel %v = %v, want background", p, got)
		}
	}
}

func TestFillCircleCenter(t *testing.T) {
	c := New(40, 40, bg)
	c.FillCircle(20, 20, 3, red)

	if got := rgbaAt(c, 20, 20); got != red {
		t.Errorf("center = %v, want %v", got, red)
	}
	if got := rgbaAt(c, 21, 19); got != red {
		t.Errorf("inside = %v, want %v", got, red)
	}
	if got := rgbaAt(c, 30, 30); got != bg {
		t.Errorf("outside = %v, want background", got)
	}
}

func TestStrokeRectOutline(t *testing.T) {
	c := New(40, 40, bg)
	// spacing 10 → side 11 → pixels 5..15 inclusive
	c.StrokeRect(5, 5, 11, 11, wire)

	// corners are blended by the round join, check mid-edges only
	for _, p := range [][2]int{{10, 5}, {5, 10}, {15, 10}, {10, 15}} {
		if got := rgbaAt(c, p[0], p[1]); got != wire {
			t.Errorf("edge pixel %v = %v, want wire", p, got)
		}
	}
	if got := rgbaAt(c, 10, 10); got != bg {
		t.Errorf("interior = %v, want background", got)
	}
	if got := rgbaAt(c, 16, 10); got != bg {
		t.Errorf("pixel past edge = %v, want background", got)
	}
}

func TestClearRemovesDrawing(t *testing.T) {
	c := New(20, 20, bg)
	c.FillCircle(10, 10, 4, red)
	c.Clear()
	if got := rgbaAt(c, 10, 10); got != bg {
		t.Errorf("after Clear = %v, want background", got)
	}
}
