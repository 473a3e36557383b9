//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/flatshade/shader"
)

// copyRowAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// Draw polls for its submission every pollInterval for at most
// submitTimeout.
const (
	submitTimeout = 5 * time.Second
	pollInterval  = 50 * time.Microsecond
)

// Target is a CPU-side 8-bit pixel buffer that receives the rendered frame.
type Target struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row

	// BGRA is set when Data stores pixels as B, G, R, A.
	BGRA bool
}

func (t Target) validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTarget, t.Width, t.Height)
	}
	if t.Stride < t.Width*4 {
		return fmt.Errorf("%w: stride %d < %d", ErrInvalidTarget, t.Stride, t.Width*4)
	}
	if len(t.Data) < t.Stride*(t.Height-1)+t.Width*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidTarget, len(t.Data), t.Width, t.Height)
	}
	return nil
}

// Frame is the input of one Draw: the encoded uniform block, the encoded
// vertex buffer and the number of vertices to draw as a triangle list.
type Frame struct {
	Uniforms    []byte
	Vertices    []byte
	VertexCount uint32

	// Indices, when non-empty, are drawn as an indexed triangle list
	// over the first VertexCount vertices.
	Indices []uint32

	// Clear is the color the pass starts from. When nil the target's
	// current pixels are uploaded and drawn over.
	Clear *gputypes.Color
}

func (f *Frame) validate() error {
	if uint64(len(f.Uniforms)) != shader.Contract.UniformSize {
		return fmt.Errorf("%w: got %d bytes", ErrUniformBufferSize, len(f.Uniforms))
	}
	need := uint64(f.VertexCount) * shader.Contract.VertexStride
	if uint64(len(f.Vertices)) < need {
		return fmt.Errorf("%w: %d vertices need %d bytes, got %d",
			ErrVertexBufferSize, f.VertexCount, need, len(f.Vertices))
	}
	for i, idx := range f.Indices {
		if idx >= f.VertexCount {
			return fmt.Errorf("%w: index %d is %d, vertex count %d", ErrIndexRange, i, idx, f.VertexCount)
		}
	}
	return nil
}

// PipelineOption configures a SolidPipeline.
type PipelineOption func(*pipelineConfig)

type pipelineConfig struct {
	colorFormat gputypes.TextureFormat
	depth       bool
}

// WithColorFormat sets the color target format. RGBA8Unorm (the default)
// and BGRA8Unorm are supported.
func WithColorFormat(format gputypes.TextureFormat) PipelineOption {
	return func(c *pipelineConfig) {
		c.colorFormat = format
	}
}

// WithDepth enables a Depth24PlusStencil8 attachment with a Less depth test.
func WithDepth(enabled bool) PipelineOption {
	return func(c *pipelineConfig) {
		c.depth = enabled
	}
}

// SolidPipeline renders triangle lists with the solid-color shader into an
// offscreen color texture and reads the result back to the CPU.
//
// A SolidPipeline is not safe for concurrent use.
type SolidPipeline struct {
	device hal.Device
	queue  hal.Queue
	config pipelineConfig

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView

	// colorUsage is the usage the color texture was last left in.
	colorUsage gputypes.TextureUsage

	width, height uint32
}

// NewSolidPipeline creates a solid pipeline on the given device and queue.
// GPU objects are created lazily on the first Draw or by Prepare.
func NewSolidPipeline(device hal.Device, queue hal.Queue, opts ...PipelineOption) (*SolidPipeline, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	cfg := pipelineConfig{colorFormat: gputypes.TextureFormatRGBA8Unorm}
	for _, opt := range opts {
		opt(&cfg)
	}
	switch cfg.colorFormat {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, cfg.colorFormat)
	}
	return &SolidPipeline{
		device: device,
		queue:  queue,
		config: cfg,
	}, nil
}

// Prepare validates the shader and creates the render pipeline if it does
// not exist yet.
func (p *SolidPipeline) Prepare() error {
	return p.ensurePipeline()
}

// DepthEnabled reports whether the pipeline has a depth attachment.
func (p *SolidPipeline) DepthEnabled() bool {
	return p.config.depth
}

// ColorFormat returns the color target format.
func (p *SolidPipeline) ColorFormat() gputypes.TextureFormat {
	return p.config.colorFormat
}

// Size returns the current texture dimensions.
func (p *SolidPipeline) Size() (uint32, uint32) {
	return p.width, p.height
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *SolidPipeline) Destroy() {
	p.destroyPipeline()
	p.destroyTextures()
}

// Draw renders frame into target.
//
// Buffer sizes are checked before any GPU object is created, so a
// malformed frame never reaches the device.
func (p *SolidPipeline) Draw(target Target, frame *Frame) error {
	if err := frame.validate(); err != nil {
		return err
	}
	if err := target.validate(); err != nil {
		return err
	}

	w, h := uint32(target.Width), uint32(target.Height) //nolint:gosec // validated positive
	if err := p.ensurePipeline(); err != nil {
		return err
	}
	if err := p.ensureTextures(w, h); err != nil {
		return fmt.Errorf("ensure textures: %w", err)
	}

	if frame.Clear == nil {
		if err := p.uploadTarget(target, w, h); err != nil {
			return err
		}
	}

	res, err := p.createFrameResources(frame)
	if err != nil {
		return err
	}
	defer res.destroy(p.device)

	return p.encodeAndReadback(w, h, res, frame.Clear, target)
}

// recordDraws records the solid draw into a render pass with a color
// attachment in the pipeline's color format and, when depth is enabled,
// a Depth24PlusStencil8 attachment.
func (p *SolidPipeline) recordDraws(rp hal.RenderPassEncoder, res *solidFrameResources) {
	if res == nil || res.vertCount == 0 {
		return
	}
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.SetVertexBuffer(0, res.vertBuf, 0)
	if res.indexBuf != nil {
		rp.SetIndexBuffer(res.indexBuf, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(res.indexCount, 1, 0, 0, 0)
		return
	}
	rp.Draw(res.vertCount, 1, 0, 0)
}

// uploadTarget copies the target's pixels into the color texture so a
// pass that loads instead of clearing draws over them.
func (p *SolidPipeline) uploadTarget(target Target, w, h uint32) error {
	rowBytes := target.Width * 4
	data := make([]byte, rowBytes*target.Height)
	swap := p.swapRB(target)
	for y := range target.Height {
		row := data[y*rowBytes : (y+1)*rowBytes]
		copy(row, target.Data[y*target.Stride:])
		if swap {
			swapPixels(row)
		}
	}
	err := p.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: p.colorTex, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: uint32(rowBytes), RowsPerImage: h}, //nolint:gosec // validated positive
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload target: %w", err)
	}
	p.colorUsage = gputypes.TextureUsageCopyDst
	return nil
}

// swapRB reports whether pixels change channel order between the color
// texture and target.
func (p *SolidPipeline) swapRB(target Target) bool {
	return (p.config.colorFormat == gputypes.TextureFormatBGRA8Unorm) != target.BGRA
}

func (p *SolidPipeline) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}
	if err := p.createPipeline(); err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create solid pipeline: %w", err)
	}
	return nil
}

// createPipeline checks the shader against the binding contract, then
// builds the shader module, layouts and render pipeline.
func (p *SolidPipeline) createPipeline() error {
	src := shader.Source()
	if err := shader.Validate(src); err != nil {
		return err
	}

	module, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "solid_shader",
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return fmt.Errorf("compile solid shader: %w", err)
	}
	p.shader = module

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "solid_uniform_layout",
		Entries: shader.BindGroupLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "solid_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	desc := &hal.RenderPipelineDescriptor{
		Label:  "solid_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: shader.VertexEntryPoint,
			Buffers:    shader.VertexBufferLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: shader.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.colorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.config.depth {
		desc.DepthStencil = depthLessState()
	}

	pipeline, err := p.device.CreateRenderPipeline(desc)
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	slogger().Debug("solid pipeline created",
		"format", p.config.colorFormat,
		"depth", p.config.depth,
	)
	return nil
}

// depthLessState writes depth and keeps the nearest fragment. The stencil
// half of the attachment is unused.
func depthLessState() *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            gputypes.TextureFormatDepth24PlusStencil8,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *SolidPipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// ensureTextures creates or recreates the color and depth textures if the
// requested dimensions differ from the current size.
func (p *SolidPipeline) ensureTextures(w, h uint32) error {
	if p.width == w && p.height == h && p.colorTex != nil {
		return nil
	}
	p.destroyTextures()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "solid_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        p.config.colorFormat,
		Usage: gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	p.colorTex = colorTex
	p.colorUsage = 0

	colorView, err := p.device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label:         "solid_color_view",
		Format:        p.config.colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTextures()
		return fmt.Errorf("create color view: %w", err)
	}
	p.colorView = colorView

	if p.config.depth {
		depthTex, err := p.device.CreateTexture(&hal.TextureDescriptor{
			Label:         "solid_depth",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatDepth24PlusStencil8,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			p.destroyTextures()
			return fmt.Errorf("create depth texture: %w", err)
		}
		p.depthTex = depthTex

		depthView, err := p.device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
			Label:         "solid_depth_view",
			Format:        gputypes.TextureFormatDepth24PlusStencil8,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			p.destroyTextures()
			return fmt.Errorf("create depth view: %w", err)
		}
		p.depthView = depthView
	}

	p.width = w
	p.height = h
	slogger().Debug("solid textures resized", "width", w, "height", h)
	return nil
}

// destroyTextures releases all texture resources and resets dimensions.
func (p *SolidPipeline) destroyTextures() {
	if p.device == nil {
		return
	}
	if p.depthView != nil {
		p.device.DestroyTextureView(p.depthView)
		p.depthView = nil
	}
	if p.depthTex != nil {
		p.device.DestroyTexture(p.depthTex)
		p.depthTex = nil
	}
	if p.colorView != nil {
		p.device.DestroyTextureView(p.colorView)
		p.colorView = nil
	}
	if p.colorTex != nil {
		p.device.DestroyTexture(p.colorTex)
		p.colorTex = nil
	}
	p.width = 0
	p.height = 0
}

// solidFrameResources holds the per-draw GPU resources.
type solidFrameResources struct {
	vertBuf    hal.Buffer
	indexBuf   hal.Buffer
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	vertCount  uint32
	indexCount uint32
}

func (r *solidFrameResources) destroy(device hal.Device) {
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
	}
	if r.uniformBuf != nil {
		device.DestroyBuffer(r.uniformBuf)
	}
	if r.indexBuf != nil {
		device.DestroyBuffer(r.indexBuf)
	}
	if r.vertBuf != nil {
		device.DestroyBuffer(r.vertBuf)
	}
}

// createFrameResources uploads the uniform block and vertices and binds the
// uniform buffer at group 0, binding 0.
func (p *SolidPipeline) createFrameResources(frame *Frame) (*solidFrameResources, error) {
	res := &solidFrameResources{vertCount: frame.VertexCount}

	uniformBuf, err := p.createAndUploadBuffer("solid_uniforms", frame.Uniforms,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	res.uniformBuf = uniformBuf

	if frame.VertexCount > 0 {
		n := uint64(frame.VertexCount) * shader.Contract.VertexStride
		vertBuf, err := p.createAndUploadBuffer("solid_vertices", frame.Vertices[:n],
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			res.destroy(p.device)
			return nil, err
		}
		res.vertBuf = vertBuf
	}

	if len(frame.Indices) > 0 && frame.VertexCount > 0 {
		indexBuf, err := p.createAndUploadBuffer("solid_indices", indexBytes(frame.Indices),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			res.destroy(p.device)
			return nil, err
		}
		res.indexBuf = indexBuf
		res.indexCount = uint32(len(frame.Indices)) //nolint:gosec // index count fits uint32
	}

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "solid_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: shader.Contract.UniformBinding, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: shader.Contract.UniformSize,
			}},
		},
	})
	if err != nil {
		res.destroy(p.device)
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	res.bindGroup = bindGroup
	return res, nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (p *SolidPipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
		p.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// indexBytes encodes indices as little-endian uint32.
func indexBytes(indices []uint32) []byte {
	b := make([]byte, 0, len(indices)*4)
	for _, i := range indices {
		b = binary.LittleEndian.AppendUint32(b, i)
	}
	return b
}

// encodeAndReadback encodes the render pass, copies the color texture to a
// staging buffer, submits, waits, and reads the pixels into target.
func (p *SolidPipeline) encodeAndReadback(
	w, h uint32, res *solidFrameResources, clearColor *gputypes.Color, target Target,
) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "solid_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("solid"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	if p.colorUsage != gputypes.TextureUsageRenderAttachment {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: p.colorTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: p.colorUsage,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
	}

	color := hal.RenderPassColorAttachment{
		View:    p.colorView,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if clearColor != nil {
		color.LoadOp = gputypes.LoadOpClear
		color.ClearValue = *clearColor
	}
	rpDesc := &hal.RenderPassDescriptor{
		Label:            "solid_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{color},
	}
	if p.depthView != nil {
		rpDesc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              p.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		}
	}
	rp := encoder.BeginRenderPass(rpDesc)
	p.recordDraws(rp, res)
	rp.End()

	// The color texture leaves the pass in attachment layout; the copy
	// needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	p.colorUsage = gputypes.TextureUsageCopySrc

	rowPitch := alignedRowPitch(w)
	stagingSize := uint64(rowPitch) * uint64(h)
	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "solid_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(p.colorTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: rowPitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: p.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	index, err := p.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := p.waitFor(index); err != nil {
		return err
	}

	mapping, err := p.device.MapBuffer(stagingBuf, 0, stagingSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), stagingSize)
	copyRows(target, readback, int(rowPitch), p.swapRB(target))
	if err := p.device.UnmapBuffer(stagingBuf); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}

	slogger().Debug("solid draw",
		"vertices", res.vertCount,
		"indices", res.indexCount,
		"load", clearColor == nil,
		"width", w,
		"height", h,
	)
	return nil
}

// waitFor blocks until the queue has completed submission index.
func (p *SolidPipeline) waitFor(index uint64) error {
	deadline := time.Now().Add(submitTimeout)
	for p.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: submission %d after %v", ErrGPUTimeout, index, submitTimeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// alignedRowPitch rounds a w-pixel RGBA8 row up to copyRowAlignment.
func alignedRowPitch(w uint32) uint32 {
	return (w*4 + copyRowAlignment - 1) &^ (copyRowAlignment - 1)
}

// copyRows copies a padded readback image into target, swapping the red
// and blue channels when swapRB is set.
func copyRows(target Target, src []byte, srcPitch int, swapRB bool) {
	rowBytes := target.Width * 4
	for y := range target.Height {
		s := src[y*srcPitch : y*srcPitch+rowBytes]
		d := target.Data[y*target.Stride : y*target.Stride+rowBytes]
		copy(d, s)
		if swapRB {
			swapPixels(d)
		}
	}
}

func swapPixels(row []byte) {
	for i := 0; i+3 < len(row); i += 4 {
		row[i], row[i+2] = row[i+2], row[i]
	}
}
