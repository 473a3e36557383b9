// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh builds position-only geometry for the solid pipeline.
//
// Geometry is authored as quads of four corners: single boxes, or the
// boundary faces of 16x256x16 block chunks. Quads are drawn either
// expanded into a triangle list or indexed, both with the pattern
// (0, 1, 2, 2, 3, 0).
package mesh

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/flatshade"
)

// VertexStride is the byte size of one encoded vertex: a float32x3 position.
const VertexStride = 12

// quadPattern is the triangle order used to split a quad a, b, c, d.
var quadPattern = [6]uint32{0, 1, 2, 2, 3, 0}

// Mesh is a list of quads stored as consecutive groups of four positions.
type Mesh struct {
	Positions []flatshade.Vec3
}

// AppendQuad appends the quad a, b, c, d.
func (m *Mesh) AppendQuad(a, b, c, d flatshade.Vec3) {
	m.Positions = append(m.Positions, a, b, c, d)
}

// AppendMesh appends all quads of other.
func (m *Mesh) AppendMesh(other Mesh) {
	m.Positions = append(m.Positions, other.Positions...)
}

// Quads returns the number of complete quads in the mesh.
func (m Mesh) Quads() int {
	return len(m.Positions) / 4
}

// Triangles expands the quads into a triangle list, six vertices per quad.
// A trailing partial quad is ignored.
func (m Mesh) Triangles() []flatshade.Vec3 {
	quads := m.Quads()
	out := make([]flatshade.Vec3, 0, quads*6)
	for _, idx := range QuadIndices(quads) {
		out = append(out, m.Positions[idx])
	}
	return out
}

// Indices returns the index list that draws the mesh's complete quads
// over Positions.
func (m Mesh) Indices() []uint32 {
	return QuadIndices(m.Quads())
}

// QuadIndices returns the index list for n quads laid out four vertices
// apart: 0, 1, 2, 2, 3, 0, then 4, 5, 6, 6, 7, 4, and so on.
func QuadIndices(n int) []uint32 {
	if n <= 0 {
		return nil
	}
	indices := make([]uint32, 0, n*6)
	for i := range n {
		base := uint32(i * 4)
		for _, k := range quadPattern {
			indices = append(indices, base+k)
		}
	}
	return indices
}

// Vertices encodes positions as a tightly packed float32x3 vertex buffer
// (little-endian, VertexStride bytes per vertex).
func Vertices(positions []flatshade.Vec3) []byte {
	buf := make([]byte, len(positions)*VertexStride)
	for i, p := range positions {
		off := i * VertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(p.Z))
	}
	return buf
}
