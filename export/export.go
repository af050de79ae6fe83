// Package export writes the lit voxels of a grid as a glTF scene, one cube per voxel.
//
// Cube x maps to +X, panel y (downward) to -Y and depth z (front is 0) to -Z, one unit per voxel.
package export

import (
	"errors"
	"fmt"
	"log"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/lixenwraith/ledcube/voxel"
)

// DefaultSize is the LED edge length relative to the voxel pitch
const DefaultSize = 0.4

var ErrEmpty = errors.New("grid has no lit voxels")

// face is one side of a unit cube centered on the origin
type face struct {
	normal  [3]float32
	corners [4][3]float32 // counter-clockwise seen from outside
}

var faces = [6]face{
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
}

const (
	vertsPerCube   = 6 * 4
	indicesPerCube = 6 * 6
)

// Build returns a document with a single mesh holding one cube of edge size per lit voxel
func Build(g *voxel.Grid, size float32) (*gltf.Document, error) {
	lit := g.Lit()
	if lit == 0 {
		return nil, ErrEmpty
	}
	if size <= 0 || size > 1 {
		return nil, fmt.Errorf("export: cube size %v not in (0,1]", size)
	}

	positions := make([][3]float32, 0, lit*vertsPerCube)
	normals := make([][3]float32, 0, lit*vertsPerCube)
	colors := make([][4]float32, 0, lit*vertsPerCube)
	indices := make([]uint32, 0, lit*indicesPerCube)

	half := size / 2
	d := g.Dims()
	for x := 0; x < d.W; x++ {
		for y := 0; y < d.H; y++ {
			for z := 0; z < d.D; z++ {
				c, ok := voxel.Decode(g.At(x, y, z))
				if !ok {
					continue
				}
				rgba := c.NRGBA()
				col := [4]float32{float32(rgba.R) / 255, float32(rgba.G) / 255, float32(rgba.B) / 255, 1}
				center := [3]float32{float32(x), -float32(y), -float32(z)}

				for _, f := range faces {
					base := uint32(len(positions))
					for _, k := range f.corners {
						positions = append(positions, [3]float32{
							center[0] + k[0]*half,
							center[1] + k[1]*half,
							center[2] + k[2]*half,
						})
						normals = append(normals, f.normal)
						colors = append(colors, col)
					}
					indices = append(indices, base, base+1, base+2, base, base+2, base+3)
				}
			}
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "ledcube"

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION: posAccessor,
			gltf.NORMAL:   normalAccessor,
			gltf.COLOR_0:  colorAccessor,
		},
		Indices:  gltf.Index(indicesAccessor),
		Material: gltf.Index(0),
	}

	doc.Materials = []*gltf.Material{{
		Name:      "LED",
		AlphaMode: gltf.AlphaOpaque,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
	}}
	doc.Meshes = []*gltf.Mesh{{Name: "Cube", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: fmt.Sprintf("ledcube %s", d), Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc, nil
}

// SaveGLB writes the lit voxels of g to path as binary glTF
func SaveGLB(g *voxel.Grid, path string) error {
	doc, err := Build(g, DefaultSize)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	log.Printf("export: wrote %d voxels to %s", g.Lit(), path)
	return nil
}
