// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sync/atomic"

	"github.com/gogpu/flatshade"
	"github.com/gogpu/flatshade/internal/parallel"
)

const (
	// vertexGrain is the number of vertex invocations per worker task.
	vertexGrain = 1024

	// bandRows is the height of the framebuffer band one fragment task
	// owns. Bands never overlap, so fragment writes need no locking.
	bandRows = 16
)

// SoftwareRenderer runs the vertex and fragment stages on the CPU.
//
// Vertex invocations are spread over a worker pool. Triangles are then
// rasterized in horizontal bands, one band per task, in draw order within
// each band, so the result is deterministic regardless of worker count.
//
// Rasterization follows the usual GPU rules: pixel centers are sampled,
// shared edges are resolved with the top-left rule, both windings are
// filled and triangles crossing the near plane (z = 0) are clipped in
// homogeneous space before the perspective divide.
//
// Example:
//
//	renderer := render.NewSoftwareRenderer(render.WithWorkers(4))
//	defer renderer.Close()
//	u := flatshade.IdentityUniforms()
//	target := render.NewPixmapTarget(800, 600)
//	err := renderer.Render(target, &render.DrawCall{Uniforms: &u, Positions: tri})
type SoftwareRenderer struct {
	cfg  config
	pool *parallel.Pool

	// Scratch buffers reused across Render calls.
	clip  []flatshade.Vec4
	tris  []triangle
	depth []float32
}

// NewSoftwareRenderer creates a new CPU-based software renderer.
func NewSoftwareRenderer(opts ...Option) *SoftwareRenderer {
	cfg := newConfig(opts)
	return &SoftwareRenderer{
		cfg:  cfg,
		pool: parallel.NewPool(cfg.workers),
	}
}

// Close stops the renderer's worker pool. Safe to call multiple times.
func (r *SoftwareRenderer) Close() {
	r.pool.Close()
}

// Workers returns the number of worker goroutines.
func (r *SoftwareRenderer) Workers() int {
	return r.pool.Workers()
}

// Render draws the call to the target.
//
// Returns an error if the call is invalid or the target is GPU-only; in
// both cases nothing is written.
func (r *SoftwareRenderer) Render(target RenderTarget, dc *DrawCall) error {
	swapRB, err := checkCall(target, dc)
	if err != nil {
		return err
	}

	width, height := target.Width(), target.Height()
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := target.Pixels()
	stride := target.Stride()

	if c := r.cfg.clearColor(dc); c != nil {
		fill(pixels, width, height, stride, c.RGBA8(), swapRB)
	}

	useDepth := r.cfg.depth || dc.Depth
	if useDepth {
		r.resetDepth(width * height)
	}

	r.runVertexStage(dc)
	r.assemble(dc.Indices, width, height)

	var covered atomic.Int64
	r.pool.Run(height, bandRows, func(lo, hi int) {
		n := r.shadeBand(lo, hi, pixels, width, stride, useDepth, swapRB)
		covered.Add(int64(n))
	})

	flatshade.Logger().Debug("software draw",
		"vertices", len(dc.Positions),
		"indices", len(dc.Indices),
		"triangles", len(r.tris),
		"fragments", covered.Load(),
		"depth", useDepth,
	)
	return nil
}

// Flush ensures all rendering is complete.
// For the software renderer, this is a no-op as operations are synchronous.
func (r *SoftwareRenderer) Flush() error {
	return nil
}

// Capabilities returns the renderer's capabilities.
func (r *SoftwareRenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:          false,
		SupportsDepth:  true,
		MaxTextureSize: 0, // No limit
	}
}

// DepthBuffer returns the depth values written by the last Render call
// with depth testing enabled, row-major. The slice is reused by the next
// Render.
func (r *SoftwareRenderer) DepthBuffer() []float32 {
	return r.depth
}

// runVertexStage transforms every position into r.clip.
func (r *SoftwareRenderer) runVertexStage(dc *DrawCall) {
	n := len(dc.Positions)
	r.clip = grow(r.clip, n)
	stage := flatshade.NewVertexStage(dc.Uniforms)
	positions := dc.Positions
	r.pool.Run(n, vertexGrain, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			r.clip[i] = stage.Invoke(positions[i])
		}
	})
}

// assemble clips each triangle against the near plane, maps it to the
// screen and builds the triangle list. Triangles are read through indices
// when set. A clipped triangle becomes a fan of up to three triangles.
func (r *SoftwareRenderer) assemble(indices []uint32, width, height int) {
	r.tris = r.tris[:0]
	n := len(r.clip)
	if indices != nil {
		n = len(indices)
	}
	vertex := func(i int) flatshade.Vec4 {
		if indices != nil {
			return r.clip[indices[i]]
		}
		return r.clip[i]
	}
	for i := 0; i+2 < n; i += 3 {
		a, b, c := vertex(i), vertex(i+1), vertex(i+2)
		if insideNear(a) && insideNear(b) && insideNear(c) {
			r.addTriangle(a, b, c, width, height)
			continue
		}
		p := clipNear(a, b, c)
		for k := 1; k+1 < p.n; k++ {
			r.addTriangle(p.v[0], p.v[k], p.v[k+1], width, height)
		}
	}
}

func (r *SoftwareRenderer) addTriangle(a, b, c flatshade.Vec4, width, height int) {
	sa, okA := toScreen(a, width, height)
	sb, okB := toScreen(b, width, height)
	sc, okC := toScreen(c, width, height)
	if !okA || !okB || !okC {
		return
	}
	if t, ok := setupTriangle(sa, sb, sc, width, height); ok {
		r.tris = append(r.tris, t)
	}
}

// shadeBand rasterizes every triangle over rows [lo, hi) and runs the
// fragment stage for each covered pixel that passes the depth test.
// It returns the number of fragments written.
func (r *SoftwareRenderer) shadeBand(lo, hi int, pixels []byte, width, stride int, useDepth, swapRB bool) int {
	written := 0
	for i := range r.tris {
		r.tris[i].scan(lo, hi, func(x, y int, z, invW float32) {
			// Fragments outside the clip volume depth range are discarded.
			if z < 0 || z > 1 {
				return
			}
			if useDepth {
				d := &r.depth[y*width+x]
				if !(z < *d) {
					return
				}
				*d = z
			}
			c := flatshade.ShadeFragment(flatshade.Fragment{
				X:     x,
				Y:     y,
				Depth: z,
				Clip:  flatshade.V4(float32(x)+0.5, float32(y)+0.5, z, invW),
			}).RGBA8()
			putPixel(pixels, y*stride+x*4, c.R, c.G, c.B, c.A, swapRB)
			written++
		})
	}
	return written
}

func (r *SoftwareRenderer) resetDepth(n int) {
	r.depth = grow(r.depth, n)
	for i := range r.depth {
		r.depth[i] = 1
	}
}

func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// Ensure SoftwareRenderer implements Renderer and CapableRenderer.
var (
	_ Renderer        = (*SoftwareRenderer)(nil)
	_ CapableRenderer = (*SoftwareRenderer)(nil)
)
