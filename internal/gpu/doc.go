//go:build !nogpu

// Package gpu runs the solid-color WGSL program on a WebGPU HAL device.
//
// It is an internal package used by the render package. Devices come from
// the gogpu/wgpu Pure Go WebGPU implementation (zero CGO), either opened
// directly on the Vulkan backend or borrowed from a host application
// through a provider that exposes HalDevice and HalQueue.
//
// # Pipeline
//
// SolidPipeline owns one render pipeline built from the embedded shader:
//
//	group 0, binding 0: uniform buffer, 128 bytes (proj, view), vertex stage
//	vertex buffer 0:    float32x3 position at location 0, stride 12
//	color target 0:     RGBA8Unorm or BGRA8Unorm, no blending
//	depth (optional):   Depth24PlusStencil8, compare Less
//
// Each Draw uploads the uniform block and the vertex buffer, records a
// single render pass, copies the color texture to a staging buffer and
// reads it back into a CPU-side Target in RGBA order.
//
// # Build Tags
//
// Build with -tags nogpu to exclude this package entirely.
package gpu
