// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/flatshade"
	"github.com/gogpu/flatshade/mesh"
)

// solid8 is the fragment color as stored in an 8-bit unorm target.
var solid8 = color.RGBA{R: 102, G: 77, B: 51, A: 255}

// fullscreenTriangle covers the whole NDC square with identity uniforms.
var fullscreenTriangle = []flatshade.Vec3{
	{X: -1, Y: -1, Z: 0.5},
	{X: 3, Y: -1, Z: 0.5},
	{X: -1, Y: 3, Z: 0.5},
}

func TestNewSoftwareRenderer(t *testing.T) {
	r := NewSoftwareRenderer(WithWorkers(3))
	defer r.Close()

	if r.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", r.Workers())
	}
	caps := r.Capabilities()
	if caps.IsGPU {
		t.Error("SoftwareRenderer should not be GPU")
	}
	if !caps.SupportsDepth {
		t.Error("SoftwareRenderer should support depth")
	}
	if err := r.Flush(); err != nil {
		t.Errorf("Flush() error = %v, want nil", err)
	}
	r.Close()
}

func TestSoftwareRendererFullscreen(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	u := flatshade.IdentityUniforms()
	target := NewPixmapTarget(64, 48)
	if err := r.Render(target, &DrawCall{Uniforms: &u, Positions: fullscreenTriangle}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := target.Covered(solid8); got != 64*48 {
		t.Errorf("covered = %d pixels, want %d", got, 64*48)
	}
}

func TestSoftwareRendererIdentityTriangle(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	// Lower-left half of the viewport in NDC.
	u := flatshade.IdentityUniforms()
	target := NewPixmapTarget(4, 4)
	err := r.Render(target, &DrawCall{
		Uniforms: &u,
		Positions: []flatshade.Vec3{
			{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1},
		},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for y := range 4 {
		for x := range 4 {
			got := target.Image().RGBAAt(x, y)
			want := color.RGBA{}
			if y > x {
				want = solid8
			}
			if got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSoftwareRendererColorIndependentOfInput(t *testing.T) {
	r := NewSoftwareRenderer(WithDepth(true))
	defer r.Close()

	cam := flatshade.NewCamera(1)
	cam.Position = flatshade.V3(-3, 2, -2)
	cam.LookAt(flatshade.V3(0.5, 0.5, 0.5))
	u := cam.Uniforms()

	box := mesh.Box(flatshade.V3(0, 0, 0), flatshade.V3(1, 1, 1))
	target := NewPixmapTarget(64, 64)
	if err := r.Render(target, &DrawCall{Uniforms: &u, Positions: box.Triangles()}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	covered := target.Covered(solid8)
	if covered == 0 {
		t.Fatal("box should cover some pixels")
	}
	blank := target.Covered(color.RGBA{})
	if covered+blank != 64*64 {
		t.Errorf("found %d pixels that are neither solid nor blank", 64*64-covered-blank)
	}
}

func TestSoftwareRendererClear(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	u := flatshade.IdentityUniforms()
	blue := flatshade.RGBA{R: 0, G: 0, B: 1, A: 1}
	target := NewPixmapTarget(8, 8)
	err := r.Render(target, &DrawCall{Uniforms: &u, Clear: &blue})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := target.Covered(color.RGBA{B: 255, A: 255}); got != 64 {
		t.Errorf("cleared pixels = %d, want 64", got)
	}
}

func TestSoftwareRendererKeepsContentsWithoutClear(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	u := flatshade.IdentityUniforms()
	target := NewPixmapTarget(8, 8)
	marker := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	paint(target, marker)

	if err := r.Render(target, &DrawCall{Uniforms: &u}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := target.Covered(marker); got != 64 {
		t.Errorf("preserved pixels = %d, want 64", got)
	}
}

func TestSoftwareRendererRendererClearColor(t *testing.T) {
	r := NewSoftwareRenderer(WithClearColor(flatshade.RGBA{R: 1, A: 1}))
	defer r.Close()

	u := flatshade.IdentityUniforms()
	target := NewPixmapTarget(4, 4)
	if err := r.Render(target, &DrawCall{Uniforms: &u}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := target.Covered(color.RGBA{R: 255, A: 255}); got != 16 {
		t.Errorf("cleared pixels = %d, want 16", got)
	}
}

func TestSoftwareRendererInvalidCallLeavesTarget(t *testing.T) {
	nan := flatshade.IdentityUniforms()
	nan.Proj[3] = math32.NaN()
	id := flatshade.IdentityUniforms()
	red := flatshade.RGBA{R: 1, A: 1}

	tests := []struct {
		name    string
		dc      *DrawCall
		wantErr error
	}{
		{"missing uniforms", &DrawCall{Positions: fullscreenTriangle, Clear: &red}, flatshade.ErrMissingUniforms},
		{"bad count", &DrawCall{Uniforms: &id, Positions: fullscreenTriangle[:2], Clear: &red}, ErrVertexCount},
		{"non-finite", &DrawCall{Uniforms: &nan, Positions: fullscreenTriangle, Clear: &red}, flatshade.ErrNonFiniteMatrix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSoftwareRenderer()
			defer r.Close()

			target := NewPixmapTarget(8, 8)
			before := bytes.Clone(target.Pixels())
			err := r.Render(target, tt.dc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Render() = %v, want %v", err, tt.wantErr)
			}
			if !bytes.Equal(before, target.Pixels()) {
				t.Error("target modified by an invalid draw call")
			}
		})
	}
}

func TestSoftwareRendererTargetErrors(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()
	u := flatshade.IdentityUniforms()
	dc := &DrawCall{Uniforms: &u}

	if err := r.Render(nil, dc); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil target: %v", err)
	}
	if err := r.Render(NewPixmapTarget(4, 4), nil); !errors.Is(err, ErrNilDrawCall) {
		t.Errorf("nil call: %v", err)
	}
	if err := r.Render(gpuOnlyTarget{}, dc); !errors.Is(err, ErrNoPixels) {
		t.Errorf("gpu-only target: %v", err)
	}

	short := newRawTarget(4, 4, 16, 40)
	dc.Positions = fullscreenTriangle
	if err := r.Render(short, dc); !errors.Is(err, ErrTargetTooSmall) {
		t.Errorf("short target: %v", err)
	}
	if !bytes.Equal(short.pix, make([]byte, 40)) {
		t.Error("short target was written")
	}
}

func TestSoftwareRendererIndexedMatchesList(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	cam := flatshade.NewCamera(1)
	cam.Position = flatshade.V3(-2, 3, -2)
	cam.LookAt(flatshade.V3(0.5, 0.5, 0.5))
	u := cam.Uniforms()
	box := mesh.Box(flatshade.V3(0, 0, 0), flatshade.V3(1, 1, 1))

	list := NewPixmapTarget(48, 48)
	if err := r.Render(list, &DrawCall{Uniforms: &u, Positions: box.Triangles(), Depth: true}); err != nil {
		t.Fatalf("Render(list) failed: %v", err)
	}
	listDepth := append([]float32(nil), r.DepthBuffer()...)

	indexed := NewPixmapTarget(48, 48)
	dc := &DrawCall{Uniforms: &u, Positions: box.Positions, Indices: box.Indices(), Depth: true}
	if err := r.Render(indexed, dc); err != nil {
		t.Fatalf("Render(indexed) failed: %v", err)
	}

	if list.Covered(solid8) == 0 {
		t.Fatal("box not drawn")
	}
	if !bytes.Equal(list.Pixels(), indexed.Pixels()) {
		t.Error("indexed draw differs from the expanded triangle list")
	}
	for i, d := range r.DepthBuffer() {
		if d != listDepth[i] {
			t.Fatalf("depth %d = %v, want %v", i, d, listDepth[i])
		}
	}
}

func TestSoftwareRendererBehindCamera(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	// A zero proj maps every vertex to w = 0; nothing is drawn.
	u := flatshade.Uniforms{View: flatshade.Identity4()}
	target := NewPixmapTarget(8, 8)
	if err := r.Render(target, &DrawCall{Uniforms: &u, Positions: fullscreenTriangle}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := target.Covered(solid8); got != 0 {
		t.Errorf("covered = %d, want 0", got)
	}
}

func TestSoftwareRendererClipsNearPlane(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	// Flat ground seen from above; its far corners lie behind the eye.
	cam := flatshade.NewCamera(1)
	cam.Position = flatshade.V3(0, 2, 0)
	cam.LookAt(flatshade.V3(10, 0, 0))
	u := cam.Uniforms()
	ground := mesh.Box(flatshade.V3(-50, -1, -50), flatshade.V3(50, 0, 50))

	target := NewPixmapTarget(32, 32)
	dc := &DrawCall{Uniforms: &u, Positions: ground.Triangles(), Depth: true}
	if err := r.Render(target, dc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"bottom center", 16, 31, true},
		{"bottom left", 0, 31, true},
		{"center", 16, 16, true},
		{"sky", 16, 0, false},
	}
	for _, tt := range tests {
		got := target.Image().RGBAAt(tt.x, tt.y) == solid8
		if got != tt.want {
			t.Errorf("%s (%d,%d) shaded = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
	for _, d := range r.DepthBuffer() {
		if d < 0 || d > 1 {
			t.Fatalf("depth %v outside [0,1]", d)
		}
	}
}

func TestSoftwareRendererDepthRangeDiscard(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	u := flatshade.IdentityUniforms()
	target := NewPixmapTarget(8, 8)
	far := []flatshade.Vec3{
		{X: -1, Y: -1, Z: 1.5}, {X: 3, Y: -1, Z: 1.5}, {X: -1, Y: 3, Z: 1.5},
	}
	if err := r.Render(target, &DrawCall{Uniforms: &u, Positions: far}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := target.Covered(solid8); got != 0 {
		t.Errorf("covered = %d, want 0 for depth beyond 1", got)
	}
}

func TestSoftwareRendererDepthTest(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	u := flatshade.IdentityUniforms()
	at := func(z float32) []flatshade.Vec3 {
		return []flatshade.Vec3{
			{X: -1, Y: -1, Z: z}, {X: 3, Y: -1, Z: z}, {X: -1, Y: 3, Z: z},
		}
	}
	positions := append(at(0.75), at(0.25)...)
	positions = append(positions, at(0.5)...)

	target := NewPixmapTarget(8, 8)
	if err := r.Render(target, &DrawCall{Uniforms: &u, Positions: positions, Depth: true}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	depth := r.DepthBuffer()
	if len(depth) != 64 {
		t.Fatalf("depth buffer has %d entries, want 64", len(depth))
	}
	for i, d := range depth {
		if d < 0.2499 || d > 0.2501 {
			t.Fatalf("depth[%d] = %v, want nearest 0.25", i, d)
		}
	}
}

func TestSoftwareRendererWorkerCountsAgree(t *testing.T) {
	cam := flatshade.NewCamera(4.0 / 3.0)
	cam.Position = flatshade.V3(-4, 3, -3)
	cam.LookAt(flatshade.V3(1, 0.5, 1))
	u := cam.Uniforms()

	var m mesh.Mesh
	m.AppendBox(flatshade.V3(0, 0, 0), flatshade.V3(1, 1, 1))
	m.AppendBox(flatshade.V3(1.5, 0, 0), flatshade.V3(2.5, 2, 1))
	m.AppendBox(flatshade.V3(0, 0, 1.5), flatshade.V3(1, 0.5, 2.5))
	dc := &DrawCall{Uniforms: &u, Positions: m.Triangles(), Depth: true}

	draw := func(workers int) []byte {
		r := NewSoftwareRenderer(WithWorkers(workers))
		defer r.Close()
		target := NewPixmapTarget(120, 90)
		if err := r.Render(target, dc); err != nil {
			t.Fatalf("Render(workers=%d) failed: %v", workers, err)
		}
		return target.Pixels()
	}

	serial := draw(1)
	for _, n := range []int{2, 4, 7} {
		if !bytes.Equal(serial, draw(n)) {
			t.Errorf("output with %d workers differs from serial output", n)
		}
	}
}

func TestSoftwareRendererBGRATarget(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	u := flatshade.IdentityUniforms()
	target := bgraTarget{NewPixmapTarget(4, 4)}
	if err := r.Render(target, &DrawCall{Uniforms: &u, Positions: fullscreenTriangle}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	px := target.Pixels()[:4]
	if want := []byte{51, 77, 102, 255}; !bytes.Equal(px, want) {
		t.Errorf("first pixel = %v, want %v", px, want)
	}
}

func TestSoftwareRendererReuse(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Close()

	u := flatshade.IdentityUniforms()
	for _, size := range []int{16, 4, 32} {
		target := NewPixmapTarget(size, size)
		if err := r.Render(target, &DrawCall{Uniforms: &u, Positions: fullscreenTriangle, Depth: true}); err != nil {
			t.Fatalf("Render(%d) failed: %v", size, err)
		}
		if got := target.Covered(solid8); got != size*size {
			t.Errorf("size %d: covered = %d, want %d", size, got, size*size)
		}
	}
}
