// Package panel rasterizes one slice of a voxel grid as a flat oblique panel.
//
// Two panel kinds exist. A front panel shows the XY plane at a fixed depth as a wire lattice with a dot per
// lit LED. A side panel shows the YZ plane at a fixed width as dots only, with depth mirrored on screen-x.
// Geometry is pure; all pixels go through Surface so the routines run against any drawing backend.
package panel

import "image/color"

// Surface is the drawing capability a panel needs
type Surface interface {
	// StrokeRect outlines the w×h rectangle whose top-left corner is (x, y)
	StrokeRect(x, y, w, h float64, c color.Color)
	// FillCircle fills a disc of radius r centered on (x, y)
	FillCircle(x, y, r float64, c color.Color)
}

// Point is a screen position in canvas pixels
type Point struct {
	X, Y float64
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Kind selects the projection plane
type Kind uint8

const (
	KindFront Kind = iota // XY plane swept through depth
	KindSide              // YZ plane swept through width
)

func (k Kind) String() string {
	switch k {
	case KindFront:
		return "front"
	case KindSide:
		return "side"
	}
	return "unknown"
}

// Geometry places one panel on the canvas
type Geometry struct {
	Origin  Point   // screen position of voxel (0, 0) of the panel
	Spacing float64 // wire length between neighbouring voxels
}

// FrontPoint projects (x, y) of a front panel
func (g Geometry) FrontPoint(x, y int) Point {
	return Point{
		X: g.Origin.X + float64(x)*g.Spacing,
		Y: g.Origin.Y + float64(y)*g.Spacing,
	}
}

// SidePoint projects (y, z) of a side panel, depth is mirrored so z = depth-1 lands on the origin column
func (g Geometry) SidePoint(y, z, depth int) Point {
	return Point{
		X: g.Origin.X + float64(depth-z-1)*g.Spacing,
		Y: g.Origin.Y + float64(y)*g.Spacing,
	}
}

// Style is the fixed look shared by every panel of a frame
type Style struct {
	DotRadius float64
	Wire      color.Color
}
