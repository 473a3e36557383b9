// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// RenderTarget defines where rendering output goes.
//
// Both renderers write through Pixels: the software renderer rasterizes
// into it directly and the GPU renderer reads its color texture back into
// it. Supported formats are RGBA8Unorm and BGRA8Unorm.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	// For RGBA, this is typically Width * 4, but may include padding.
	Stride() int
}

// PixmapTarget renders into an *image.RGBA, the target the command-line
// tool writes out as PNG.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget allocates a transparent width x height target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// NewPixmapTargetFromImage draws into img directly.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

func (t *PixmapTarget) Width() int                     { return t.img.Bounds().Dx() }
func (t *PixmapTarget) Height() int                    { return t.img.Bounds().Dy() }
func (t *PixmapTarget) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (t *PixmapTarget) Pixels() []byte                 { return t.img.Pix }
func (t *PixmapTarget) Stride() int                    { return t.img.Stride }

// Image returns the image the target draws into.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Covered counts the pixels equal to c.
func (t *PixmapTarget) Covered(c color.RGBA) int {
	n := 0
	b := t.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if t.img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// channelOrder reports whether a target format stores blue before red.
func channelOrder(format gputypes.TextureFormat) (swapRB bool, err error) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return false, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return true, nil
	default:
		return false, ErrUnsupportedFormat
	}
}

// putPixel stores one RGBA8 pixel at offset off.
func putPixel(pixels []byte, off int, r, g, b, a uint8, swapRB bool) {
	if swapRB {
		r, b = b, r
	}
	pixels[off] = r
	pixels[off+1] = g
	pixels[off+2] = b
	pixels[off+3] = a
}

// fill sets every pixel of a width x height region to c.
func fill(pixels []byte, width, height, stride int, c color.RGBA, swapRB bool) {
	for y := range height {
		row := y * stride
		for x := range width {
			putPixel(pixels, row+x*4, c.R, c.G, c.B, c.A, swapRB)
		}
	}
}
