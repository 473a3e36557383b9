// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/flatshade"
)

func TestDrawCallValidate(t *testing.T) {
	id := flatshade.IdentityUniforms()
	nan := flatshade.IdentityUniforms()
	nan.View[5] = math32.NaN()
	inf := flatshade.IdentityUniforms()
	inf.Proj[0] = math32.Inf(1)
	tri := []flatshade.Vec3{{}, {X: 1}, {Y: 1}}

	tests := []struct {
		name    string
		dc      DrawCall
		wantErr error
	}{
		{"valid", DrawCall{Uniforms: &id, Positions: tri}, nil},
		{"empty positions", DrawCall{Uniforms: &id}, nil},
		{"missing uniforms", DrawCall{Positions: tri}, flatshade.ErrMissingUniforms},
		{"four vertices", DrawCall{Uniforms: &id, Positions: append(tri, flatshade.Vec3{})}, ErrVertexCount},
		{"one vertex", DrawCall{Uniforms: &id, Positions: tri[:1]}, ErrVertexCount},
		{"nan view", DrawCall{Uniforms: &nan, Positions: tri}, flatshade.ErrNonFiniteMatrix},
		{"inf proj", DrawCall{Uniforms: &inf, Positions: tri}, flatshade.ErrNonFiniteMatrix},
		{"indexed", DrawCall{Uniforms: &id, Positions: tri[:2], Indices: []uint32{0, 1, 1}}, nil},
		{"indexed four positions", DrawCall{Uniforms: &id, Positions: append(tri, flatshade.Vec3{}), Indices: []uint32{0, 1, 3}}, nil},
		{"two indices", DrawCall{Uniforms: &id, Positions: tri, Indices: []uint32{0, 1}}, ErrVertexCount},
		{"index past end", DrawCall{Uniforms: &id, Positions: tri, Indices: []uint32{0, 1, 3}}, ErrIndexRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dc.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDrawCallTriangles(t *testing.T) {
	dc := DrawCall{Positions: make([]flatshade.Vec3, 9)}
	if got := dc.Triangles(); got != 3 {
		t.Errorf("Triangles() = %d, want 3", got)
	}
	dc.Indices = make([]uint32, 12)
	if got := dc.Triangles(); got != 4 {
		t.Errorf("indexed Triangles() = %d, want 4", got)
	}
}

func TestCheckCall(t *testing.T) {
	id := flatshade.IdentityUniforms()
	dc := &DrawCall{Uniforms: &id}

	tests := []struct {
		name    string
		target  RenderTarget
		dc      *DrawCall
		wantErr error
	}{
		{"nil target", nil, dc, ErrNilTarget},
		{"nil call", NewPixmapTarget(4, 4), nil, ErrNilDrawCall},
		{"gpu only", gpuOnlyTarget{}, dc, ErrNoPixels},
		{"invalid call", NewPixmapTarget(4, 4), &DrawCall{}, flatshade.ErrMissingUniforms},
		{"short stride", newRawTarget(4, 4, 12, 64), dc, ErrTargetTooSmall},
		{"short buffer", newRawTarget(4, 4, 16, 63), dc, ErrTargetTooSmall},
		{"padded rows", newRawTarget(4, 4, 20, 3*20+16), dc, nil},
		{"empty target", newRawTarget(0, 0, 0, 0), dc, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := checkCall(tt.target, tt.dc); !errors.Is(err, tt.wantErr) {
				t.Errorf("checkCall() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClearColor(t *testing.T) {
	red := flatshade.RGBA{R: 1, A: 1}
	green := flatshade.RGBA{G: 1, A: 1}

	cfg := newConfig(nil)
	if got := cfg.clearColor(&DrawCall{}); got != nil {
		t.Errorf("default clear = %v, want nil", got)
	}
	if got := cfg.clearColor(&DrawCall{Clear: &green}); *got != green {
		t.Errorf("call clear = %v, want %v", *got, green)
	}

	cfg = newConfig([]Option{WithClearColor(red)})
	if got := cfg.clearColor(&DrawCall{}); *got != red {
		t.Errorf("renderer clear = %v, want %v", *got, red)
	}
	if got := cfg.clearColor(&DrawCall{Clear: &green}); *got != green {
		t.Errorf("call clear should override renderer clear, got %v", *got)
	}
}
