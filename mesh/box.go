// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import "github.com/gogpu/flatshade"

// boxFaces lists the corners of each box face as (x, y, z) selectors,
// 0 for the low coordinate and 1 for the high.
var boxFaces = [6][4][3]uint8{
	// +Z
	{{1, 1, 1}, {1, 0, 1}, {0, 0, 1}, {0, 1, 1}},
	// -Z
	{{0, 1, 0}, {0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	// +X
	{{1, 1, 0}, {1, 0, 0}, {1, 0, 1}, {1, 1, 1}},
	// -X
	{{0, 1, 1}, {0, 0, 1}, {0, 0, 0}, {0, 1, 0}},
	// +Y
	{{0, 1, 1}, {0, 1, 0}, {1, 1, 0}, {1, 1, 1}},
	// -Y
	{{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0}},
}

// Box returns the six faces of the axis-aligned box spanning lo..hi.
func Box(lo, hi flatshade.Vec3) Mesh {
	var m Mesh
	m.AppendBox(lo, hi)
	return m
}

// AppendBox appends the six faces of the axis-aligned box spanning lo..hi.
func (m *Mesh) AppendBox(lo, hi flatshade.Vec3) {
	for face := range boxFaces {
		m.appendFace(lo, hi, face)
	}
}

// appendFace appends one face of the box lo..hi, indexed as in boxFaces.
func (m *Mesh) appendFace(lo, hi flatshade.Vec3, face int) {
	pick := func(sel [3]uint8) flatshade.Vec3 {
		p := lo
		if sel[0] == 1 {
			p.X = hi.X
		}
		if sel[1] == 1 {
			p.Y = hi.Y
		}
		if sel[2] == 1 {
			p.Z = hi.Z
		}
		return p
	}
	f := boxFaces[face]
	m.AppendQuad(pick(f[0]), pick(f[1]), pick(f[2]), pick(f[3]))
}
