package panel

import (
	"github.com/lixenwraith/ledcube/voxel"
)

// DrawFront renders depth slice z: the wire lattice first, then one dot per lit voxel
// Wires skip the last row and column since each cell spans to its right/bottom neighbour
func DrawFront(s Surface, geo Geometry, grid *voxel.Grid, z int, st Style) {
	w, h := grid.Width(), grid.Height()
	side := geo.Spacing + 1

	for x := 0; x < w-1; x++ {
		for y := 0; y < h-1; y++ {
			p := geo.FrontPoint(x, y)
			s.StrokeRect(p.X, p.Y, side, side, st.Wire)
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c, ok := voxel.Decode(grid.At(x, y, z))
			if !ok {
				continue
			}
			p := geo.FrontPoint(x, y)
			s.FillCircle(p.X, p.Y, st.DotRadius, c.NRGBA())
		}
	}
}

// DrawSide renders width slice x as dots only
func DrawSide(s Surface, geo Geometry, grid *voxel.Grid, x int, st Style) {
	h, d := grid.Height(), grid.Depth()

	for y := 0; y < h; y++ {
		for z := 0; z < d; z++ {
			c, ok := voxel.Decode(grid.At(x, y, z))
			if !ok {
				continue
			}
			p := geo.SidePoint(y, z, d)
			s.FillCircle(p.X, p.Y, st.DotRadius, c.NRGBA())
		}
	}
}

// Draw dispatches on kind with index as the fixed axis
func Draw(s Surface, kind Kind, geo Geometry, grid *voxel.Grid, index int, st Style) {
	switch kind {
	case KindFront:
		DrawFront(s, geo, grid, index, st)
	case KindSide:
		DrawSide(s, geo, grid, index, st)
	}
}
