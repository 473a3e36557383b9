// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/flatshade"
	"github.com/gogpu/flatshade/internal/gpu"
	"github.com/gogpu/flatshade/mesh"
)

// GPURenderer runs the solid WGSL program on a WebGPU HAL device.
//
// Each Render uploads the uniform block, vertices and indices, draws them
// in one render pass into an offscreen texture and reads the pixels back
// into the target. Without a clear color the target's pixels are uploaded
// first and drawn over, so consecutive calls compose the way they do on
// the software renderer.
//
// Example:
//
//	app := gogpu.NewApp(gogpu.Config{...})
//	var renderer *render.GPURenderer
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    if renderer == nil {
//	        renderer, _ = render.NewGPURenderer(app.GPUContextProvider())
//	    }
//	    renderer.Render(target, call)
//	})
type GPURenderer struct {
	// handle is the GPU device handle from the host application, nil for
	// renderers created from explicit HAL objects.
	handle DeviceHandle

	dev *gpu.Device
	cfg config

	// pipelines holds the pipeline without and with depth, created on
	// first use.
	pipelines [2]*gpu.SolidPipeline
}

// NewGPURenderer creates a renderer on the device shared by the host
// application. The handle must expose HalDevice and HalQueue.
func NewGPURenderer(handle DeviceHandle, opts ...Option) (*GPURenderer, error) {
	if handle == nil {
		return nil, ErrNilDeviceHandle
	}
	dev, err := gpu.FromProvider(handle)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return newGPURenderer(handle, dev, opts)
}

// NewGPURendererWithDevice creates a renderer on an explicit HAL device
// and queue. The caller keeps ownership of both.
func NewGPURendererWithDevice(device hal.Device, queue hal.Queue, opts ...Option) (*GPURenderer, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("render: %w", gpu.ErrNoDevice)
	}
	return newGPURenderer(nil, gpu.Borrow(device, queue), opts)
}

// OpenGPURenderer opens a standalone Vulkan device and creates a renderer
// that owns it. The Vulkan backend must be registered by importing
// github.com/gogpu/wgpu/hal/vulkan. Close releases the device.
func OpenGPURenderer(opts ...Option) (*GPURenderer, error) {
	dev, err := gpu.OpenDevice()
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r, err := newGPURenderer(nil, dev, opts)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return r, nil
}

func newGPURenderer(handle DeviceHandle, dev *gpu.Device, opts []Option) (*GPURenderer, error) {
	cfg := newConfig(opts)
	switch cfg.colorFormat {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return nil, fmt.Errorf("%w: color format %v", ErrUnsupportedFormat, cfg.colorFormat)
	}
	gpu.SetLogger(flatshade.Logger())
	return &GPURenderer{
		handle: handle,
		dev:    dev,
		cfg:    cfg,
	}, nil
}

// Render draws the call to the target on the GPU.
func (r *GPURenderer) Render(target RenderTarget, dc *DrawCall) error {
	swapRB, err := checkCall(target, dc)
	if err != nil {
		return err
	}
	if target.Width() <= 0 || target.Height() <= 0 {
		return nil
	}

	useDepth := r.cfg.depth || dc.Depth
	p, err := r.pipeline(useDepth)
	if err != nil {
		return err
	}

	frame := &gpu.Frame{
		Uniforms:    dc.Uniforms.Bytes(),
		Vertices:    mesh.Vertices(dc.Positions),
		VertexCount: uint32(len(dc.Positions)), //nolint:gosec // vertex count fits uint32
		Indices:     dc.Indices,
	}
	if c := r.cfg.clearColor(dc); c != nil {
		frame.Clear = &gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
	}

	gt := gpu.Target{
		Data:   target.Pixels(),
		Width:  target.Width(),
		Height: target.Height(),
		Stride: target.Stride(),
		BGRA:   swapRB,
	}
	if err := p.Draw(gt, frame); err != nil {
		return fmt.Errorf("render: gpu draw: %w", err)
	}
	return nil
}

// pipeline returns the solid pipeline for the depth mode, creating it on
// first use.
func (r *GPURenderer) pipeline(depth bool) (*gpu.SolidPipeline, error) {
	i := 0
	if depth {
		i = 1
	}
	if r.pipelines[i] != nil {
		return r.pipelines[i], nil
	}
	p, err := gpu.NewSolidPipeline(r.dev.Device, r.dev.Queue,
		gpu.WithColorFormat(r.cfg.colorFormat),
		gpu.WithDepth(depth),
	)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := p.Prepare(); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("render: %w", err)
	}
	r.pipelines[i] = p
	return p, nil
}

// Flush ensures all GPU commands are complete. Render waits for its own
// submission, so there is never pending work.
func (r *GPURenderer) Flush() error {
	return nil
}

// Capabilities returns the renderer's capabilities.
func (r *GPURenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:          true,
		SupportsDepth:  true,
		MaxTextureSize: 8192, // Typical GPU limit
	}
}

// DeviceHandle returns the underlying device handle, or nil when the
// renderer was created from explicit HAL objects.
func (r *GPURenderer) DeviceHandle() DeviceHandle {
	return r.handle
}

// Close releases the pipelines and, for OpenGPURenderer, the device.
// Safe to call multiple times.
func (r *GPURenderer) Close() {
	for i, p := range r.pipelines {
		if p != nil {
			p.Destroy()
			r.pipelines[i] = nil
		}
	}
	if r.dev != nil {
		r.dev.Close()
	}
}

// Ensure GPURenderer implements Renderer and CapableRenderer.
var (
	_ Renderer        = (*GPURenderer)(nil)
	_ CapableRenderer = (*GPURenderer)(nil)
)
