// Package flatshade is the shading core of a minimal 3D renderer.
//
// # Overview
//
// A draw call runs two programmable stages over host-supplied data:
//
//	host writes Uniforms → VertexStage (per vertex) → rasterizer → FragmentStage (per fragment)
//
// The vertex stage transforms an object-space position p into clip space as
// proj · view · (p, 1). The fragment stage writes the constant color
// (0.4, 0.3, 0.2, 1.0) for every covered pixel.
//
// The same program exists twice: as WGSL in the shader package, executed by
// the GPU through gogpu/wgpu, and as Go functions in this package
// (TransformVertex, ShadeFragment) used by the software renderer and as the
// reference the GPU output is checked against.
//
// # Binding Contract
//
//	Resource         Slot                 Layout
//	uniform buffer   group 0, binding 0   128 bytes: proj then view, column-major f32
//	vertex attribute location 0           vec3<f32> position
//	fragment output  location 0           vec4<f32> color
//
// Uniforms.Bytes produces the uniform buffer contents. Every mismatch with
// this contract is a host-side validation error reported before any
// invocation runs.
//
// # Packages
//
//   - flatshade: math types, Uniforms, Camera, the CPU vertex/fragment stages
//   - shader: the embedded WGSL program, contract reflection and validation
//   - mesh: triangle-list geometry and vertex buffer encoding
//   - render: software and GPU renderers behind one Renderer interface
//
// # Coordinate System
//
// Left-handed: +X right, +Y up, +Z into the screen. Clip-space depth is in
// [0, 1] as WebGPU expects.
package flatshade

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
