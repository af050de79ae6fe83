// Package voxel holds the LED light-state container and its color encoding.
//
// A Grid is addressed (x, y, z) with x across the width, y down the height and z into the depth.
// Every consumer takes its loop bounds from the grid itself, so storage and iteration can never disagree.
package voxel

import (
	"errors"
	"fmt"
)

// MaxDim bounds each axis; recordings store dimensions as uint16 but real cubes stay far below
const MaxDim = 255

// ErrDimension is returned for a zero, negative, oversized or mismatched dimension
var ErrDimension = errors.New("invalid grid dimension")

// Dims is a grid extent
type Dims struct {
	W, H, D int
}

// Validate checks every axis is within 1..MaxDim
func (d Dims) Validate() error {
	if d.W < 1 || d.W > MaxDim || d.H < 1 || d.H > MaxDim || d.D < 1 || d.D > MaxDim {
		return fmt.Errorf("%w: %dx%dx%d", ErrDimension, d.W, d.H, d.D)
	}
	return nil
}

// Count returns the number of cells
func (d Dims) Count() int {
	return d.W * d.H * d.D
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.W, d.H, d.D)
}

// Grid is a dense W×H×D array of packed colors
type Grid struct {
	dims  Dims
	cells []Packed
}

// NewGrid allocates an all-off grid
func NewGrid(d Dims) (*Grid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Grid{dims: d, cells: make([]Packed, d.Count())}, nil
}

// MustGrid is NewGrid for dimensions known to be valid
func MustGrid(d Dims) *Grid {
	g, err := NewGrid(d)
	if err != nil {
		panic(err)
	}
	return g
}

// Dims returns the grid extent
func (g *Grid) Dims() Dims { return g.dims }

func (g *Grid) Width() int  { return g.dims.W }
func (g *Grid) Height() int { return g.dims.H }
func (g *Grid) Depth() int  { return g.dims.D }

// InBounds reports whether (x, y, z) addresses a cell
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.dims.W && y >= 0 && y < g.dims.H && z >= 0 && z < g.dims.D
}

// index follows a [W][H][D] layout, z varies fastest
func (g *Grid) index(x, y, z int) int {
	return (x*g.dims.H+y)*g.dims.D + z
}

// At returns the cell, Off when out of bounds
func (g *Grid) At(x, y, z int) Packed {
	if !g.InBounds(x, y, z) {
		return Off
	}
	return g.cells[g.index(x, y, z)]
}

// Set writes a cell, out of bounds writes are dropped
func (g *Grid) Set(x, y, z int, p Packed) {
	if !g.InBounds(x, y, z) {
		return
	}
	g.cells[g.index(x, y, z)] = p
}

// Fill sets every cell to p using exponential copy
func (g *Grid) Fill(p Packed) {
	if len(g.cells) == 0 {
		return
	}
	g.cells[0] = p
	for filled := 1; filled < len(g.cells); filled *= 2 {
		copy(g.cells[filled:], g.cells[:filled])
	}
}

// Clear turns every cell off
func (g *Grid) Clear() {
	g.Fill(Off)
}

// Lit returns the number of non-off cells
func (g *Grid) Lit() int {
	n := 0
	for _, c := range g.cells {
		if c != Off {
			n++
		}
	}
	return n
}

// CopyFrom replaces the contents with src, dimensions must match
func (g *Grid) CopyFrom(src *Grid) error {
	if src.dims != g.dims {
		return fmt.Errorf("%w: copy %s into %s", ErrDimension, src.dims, g.dims)
	}
	copy(g.cells, src.cells)
	return nil
}

// Cells exposes the backing slice ([W][H][D] order) for serializers
func (g *Grid) Cells() []Packed {
	return g.cells
}
