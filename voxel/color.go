package voxel

import "image/color"

// Packed is a 24-bit packed LED color, 0 means unlit
type Packed uint32

// Off is the unlit sentinel
const Off Packed = 0

// Color holds the three 8-bit channels of a packed value
// Ch[0] is bits 0-7, Ch[1] bits 8-15, Ch[2] bits 16-23
type Color struct {
	Ch [3]uint8
}

// Decode extracts the channels of p; ok is false for an unlit voxel, which must not be drawn
func Decode(p Packed) (c Color, ok bool) {
	if p == Off {
		return Color{}, false
	}
	c.Ch[0] = uint8((p >> 0) & 0xFF)
	c.Ch[1] = uint8((p >> 8) & 0xFF)
	c.Ch[2] = uint8((p >> 16) & 0xFF)
	return c, true
}

// Pack builds a packed value from display channels, the inverse of Decode + NRGBA
// Pack(0, 0, 0) is indistinguishable from Off
func Pack(r, g, b uint8) Packed {
	return Packed(r)<<16 | Packed(g)<<8 | Packed(b)
}

// NRGBA maps channels to display order: Ch[2] red, Ch[1] green, Ch[0] blue
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.Ch[2], G: c.Ch[1], B: c.Ch[0], A: 0xFF}
}
