package scene

import (
	"github.com/lixenwraith/ledcube/panel"
	"github.com/lixenwraith/ledcube/voxel"
)

// Layer is one panel of a frame: which plane, which slice and where it lands
type Layer struct {
	Kind  panel.Kind
	Index int
	Geo   panel.Geometry
}

// spacing shrinks by 1/8 px per slice for a faux-perspective taper
func (p Params) spacing(index int) float64 {
	return p.depthMargin() - float64(index)/8
}

// FrontGeometry places depth slice z
func (p Params) FrontGeometry(dims voxel.Dims, z int, parallax float64) panel.Geometry {
	s := p.spacing(z)
	zf := float64(z) * p.DepthFactor
	return panel.Geometry{
		Origin: panel.Point{
			X: p.leftMargin() + parallax*zf + float64(dims.D+4)*s,
			Y: s * (float64(dims.D) - zf),
		},
		Spacing: s,
	}
}

// SideGeometry places width slice x
func (p Params) SideGeometry(dims voxel.Dims, x int, parallax float64) panel.Geometry {
	s := p.spacing(x)
	xf := float64(x) * p.DepthFactor
	return panel.Geometry{
		Origin: panel.Point{
			X: p.leftMargin() + parallax*xf,
			Y: s * (float64(dims.D) - xf),
		},
		Spacing: s,
	}
}

// Layers lists every panel of a frame in paint order
// Depth slices D-1..0 first, then width slices W-1..0; higher indices are farther and paint first
func (p Params) Layers(dims voxel.Dims, parallax float64) []Layer {
	layers := make([]Layer, 0, dims.D+dims.W)
	for z := dims.D - 1; z >= 0; z-- {
		layers = append(layers, Layer{Kind: panel.KindFront, Index: z, Geo: p.FrontGeometry(dims, z, parallax)})
	}
	for x := dims.W - 1; x >= 0; x-- {
		layers = append(layers, Layer{Kind: panel.KindSide, Index: x, Geo: p.SideGeometry(dims, x, parallax)})
	}
	return layers
}
