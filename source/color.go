package source

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/ledcube/voxel"
)

// pack converts c to a lit voxel color; pure black is lifted to the darkest lit value
func pack(c colorful.Color) voxel.Packed {
	r, g, b := c.Clamped().RGB255()
	p := voxel.Pack(r, g, b)
	if p == voxel.Off {
		return 1
	}
	return p
}

// hue maps frac in [0,1) onto the color wheel at full saturation
func hue(frac, value float64) voxel.Packed {
	return pack(colorful.Hsv(360*wrap01(frac), 1, value))
}

func wrap01(v float64) float64 {
	v -= float64(int(v))
	if v < 0 {
		v++
	}
	return v
}
