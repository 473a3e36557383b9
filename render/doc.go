// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws solid-shaded triangle lists to a render target.
//
// A DrawCall carries the uniform block (proj, view), the object-space
// positions of a triangle list (optionally indexed) and an optional clear
// color. Without a clear color the target keeps its pixels. Two renderers
// execute it with the same shading model: every position goes through the
// vertex stage proj · view · (p, 1), and every covered pixel receives the
// fixed solid color (0.4, 0.3, 0.2, 1.0). Triangles crossing the near plane
// are clipped.
//
// # Renderer Implementations
//
//   - SoftwareRenderer: CPU rasterizer running both stages in parallel
//   - GPURenderer: the WGSL program on a WebGPU HAL device, read back to the CPU
//
// # Key Principle
//
// The GPU renderer normally RECEIVES its device from the host application
// through a DeviceHandle, the same way the rest of the gogpu stack shares
// one device. OpenGPURenderer opens a standalone Vulkan device for tools
// that have no host.
//
// # Usage
//
//	cam := flatshade.NewCamera(float32(w) / float32(h))
//	cam.Position = flatshade.V3(-3, 2, -3)
//	cam.LookAt(flatshade.V3(0.5, 0.5, 0.5))
//	u := cam.Uniforms()
//
//	box := mesh.Box(flatshade.V3(0, 0, 0), flatshade.V3(1, 1, 1))
//	target := render.NewPixmapTarget(w, h)
//	renderer := render.NewSoftwareRenderer(render.WithDepth(true))
//	defer renderer.Close()
//
//	err := renderer.Render(target, &render.DrawCall{
//	    Uniforms:  &u,
//	    Positions: box.Triangles(),
//	})
//
// # Validation
//
// A DrawCall is validated before any vertex invocation runs: a missing
// uniform block, non-finite matrices and a vertex count that is not a
// multiple of three are rejected and the target is left untouched.
//
// # Thread Safety
//
// Renderers are NOT thread-safe. Each renderer should be used from a single
// goroutine, or external synchronization must be used.
package render
