package flatshade

import (
	"image/color"

	"github.com/chewxy/math32"
)

// RGBA is a linear float32 color as written to a fragment output.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// RGBA8 converts the color to 8-bit unorm, rounding to nearest and
// clamping to [0, 255] the way a unorm render target stores it.
func (c RGBA) RGBA8() color.RGBA {
	return color.RGBA{
		R: unorm8(c.R),
		G: unorm8(c.G),
		B: unorm8(c.B),
		A: unorm8(c.A),
	}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return c.RGBA8()
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
		A: float32(a) / 65535,
	}
}

func unorm8(v float32) uint8 {
	if v <= 0 || math32.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Round(v * 255))
}
