// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/flatshade"
)

// Errors returned by renderers.
var (
	// ErrNilTarget is returned when Render is called without a target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrNilDrawCall is returned when Render is called without a draw call.
	ErrNilDrawCall = errors.New("render: nil draw call")

	// ErrNoPixels is returned for targets without CPU pixel access.
	ErrNoPixels = errors.New("render: target does not support CPU access")

	// ErrVertexCount is returned when the position count, or the index
	// count of an indexed call, is not a multiple of three.
	ErrVertexCount = errors.New("render: vertex count is not a multiple of 3")

	// ErrIndexRange is returned when an index refers past Positions.
	ErrIndexRange = errors.New("render: index out of range")

	// ErrTargetTooSmall is returned when a target's stride or pixel buffer
	// cannot hold its width and height.
	ErrTargetTooSmall = errors.New("render: target pixel buffer too small")

	// ErrUnsupportedFormat is returned for target formats other than
	// RGBA8Unorm and BGRA8Unorm.
	ErrUnsupportedFormat = errors.New("render: unsupported target format")

	// ErrNilDeviceHandle is returned by NewGPURenderer for a nil handle.
	ErrNilDeviceHandle = errors.New("render: nil device handle")
)

// DrawCall is one draw of a triangle list with the solid shader.
type DrawCall struct {
	// Uniforms is the uniform block bound at group 0, binding 0.
	// It must be set; there is no default.
	Uniforms *flatshade.Uniforms

	// Positions are object-space vertex positions, three per triangle
	// unless Indices is set.
	Positions []flatshade.Vec3

	// Indices, if set, draw an indexed triangle list over Positions.
	Indices []uint32

	// Clear, if set, fills the target before drawing. Otherwise the
	// renderer's WithClearColor color is used; without either the
	// software renderer keeps the existing contents.
	Clear *flatshade.RGBA

	// Depth enables the Less depth test for this call in addition to
	// WithDepth.
	Depth bool
}

// Validate checks the draw call before any shader invocation runs.
func (dc *DrawCall) Validate() error {
	if dc.Uniforms == nil {
		return flatshade.ErrMissingUniforms
	}
	if dc.Indices != nil {
		if len(dc.Indices)%3 != 0 {
			return fmt.Errorf("%w: got %d indices", ErrVertexCount, len(dc.Indices))
		}
		for i, idx := range dc.Indices {
			if int(idx) >= len(dc.Positions) {
				return fmt.Errorf("%w: index %d is %d, %d positions", ErrIndexRange, i, idx, len(dc.Positions))
			}
		}
	} else if len(dc.Positions)%3 != 0 {
		return fmt.Errorf("%w: got %d", ErrVertexCount, len(dc.Positions))
	}
	return dc.Uniforms.Validate()
}

// Triangles returns the number of triangles in the call.
func (dc *DrawCall) Triangles() int {
	if dc.Indices != nil {
		return len(dc.Indices) / 3
	}
	return len(dc.Positions) / 3
}

// Renderer executes draw calls to a render target.
//
// Different implementations provide CPU or GPU rendering:
//
//   - SoftwareRenderer: CPU rasterization of both shader stages
//   - GPURenderer: the WGSL program on a WebGPU device
//
// Thread Safety: Renderers are NOT thread-safe. Each renderer should be used
// from a single goroutine, or external synchronization must be used.
type Renderer interface {
	// Render draws the call to the target.
	//
	// The call is validated first; an invalid call returns an error and
	// leaves the target unmodified.
	Render(target RenderTarget, dc *DrawCall) error

	// Flush ensures all pending rendering operations are complete.
	//
	// Both renderers complete work inside Render, so Flush is a no-op
	// that always succeeds.
	Flush() error
}

// RendererCapabilities describes the features supported by a renderer.
type RendererCapabilities struct {
	// IsGPU indicates if this is a GPU-accelerated renderer.
	IsGPU bool

	// SupportsDepth indicates if the Less depth test is available.
	SupportsDepth bool

	// MaxTextureSize is the maximum target dimension (0 = unlimited).
	MaxTextureSize int
}

// CapableRenderer is an optional interface for renderers that can
// report their capabilities.
type CapableRenderer interface {
	Renderer

	// Capabilities returns the renderer's capabilities.
	Capabilities() RendererCapabilities
}

// checkCall performs the checks shared by all renderers and returns the
// target's channel order.
func checkCall(target RenderTarget, dc *DrawCall) (swapRB bool, err error) {
	if target == nil {
		return false, ErrNilTarget
	}
	if dc == nil {
		return false, ErrNilDrawCall
	}
	if err := dc.Validate(); err != nil {
		return false, err
	}
	pixels := target.Pixels()
	if pixels == nil {
		return false, ErrNoPixels
	}
	swapRB, err = channelOrder(target.Format())
	if err != nil {
		return false, fmt.Errorf("%w: %v", err, target.Format())
	}
	w, h, stride := target.Width(), target.Height(), target.Stride()
	if w > 0 && h > 0 {
		if stride < w*4 {
			return false, fmt.Errorf("%w: stride %d < %d", ErrTargetTooSmall, stride, w*4)
		}
		if len(pixels) < stride*(h-1)+w*4 {
			return false, fmt.Errorf("%w: %d bytes for %dx%d", ErrTargetTooSmall, len(pixels), w, h)
		}
	}
	return swapRB, nil
}
