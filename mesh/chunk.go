// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import "github.com/gogpu/flatshade"

// BlockID identifies the material of one block.
type BlockID uint8

// Block materials. The solid shader draws every solid block the same color.
const (
	Air BlockID = iota
	Dirt
	Grass
	Stone
)

// IsAir reports whether b is empty space.
func (b BlockID) IsAir() bool {
	return b == Air
}

// IsSolid reports whether b occupies its cell.
func (b BlockID) IsSolid() bool {
	return !b.IsAir()
}

// String returns the material name.
func (b BlockID) String() string {
	switch b {
	case Air:
		return "air"
	case Dirt:
		return "dirt"
	case Grass:
		return "grass"
	case Stone:
		return "stone"
	default:
		return "unknown"
	}
}

// Chunk dimensions in blocks.
const (
	ChunkSizeX = 16
	ChunkSizeY = 256
	ChunkSizeZ = 16
)

// Chunk is a 16x256x16 column of unit blocks. Block (x, y, z) occupies
// the cube from (x, y, z) to (x+1, y+1, z+1) in chunk space.
type Chunk struct {
	blocks [ChunkSizeX * ChunkSizeY * ChunkSizeZ]BlockID
}

// Flat returns a completely filled chunk: stone up to y = 32, dirt above
// and a single grass layer at the top.
func Flat() *Chunk {
	c := &Chunk{}
	for z := range ChunkSizeZ {
		for y := range ChunkSizeY {
			b := Dirt
			switch {
			case y <= 32:
				b = Stone
			case y == ChunkSizeY-1:
				b = Grass
			}
			for x := range ChunkSizeX {
				c.blocks[chunkIndex(x, y, z)] = b
			}
		}
	}
	return c
}

// InChunk reports whether (x, y, z) is a cell of a chunk.
func InChunk(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < ChunkSizeX && y < ChunkSizeY && z < ChunkSizeZ
}

// chunkIndex is x-fastest, then y, then z.
func chunkIndex(x, y, z int) int {
	return ChunkSizeX*ChunkSizeY*z + ChunkSizeX*y + x
}

// At returns the block at (x, y, z). ok is false outside the chunk.
func (c *Chunk) At(x, y, z int) (b BlockID, ok bool) {
	if !InChunk(x, y, z) {
		return Air, false
	}
	return c.blocks[chunkIndex(x, y, z)], true
}

// Set stores b at (x, y, z) and reports whether the cell exists.
func (c *Chunk) Set(x, y, z int, b BlockID) bool {
	if !InChunk(x, y, z) {
		return false
	}
	c.blocks[chunkIndex(x, y, z)] = b
	return true
}

// faceNormals are the outward neighbor offsets of the faces in boxFaces.
var faceNormals = [6][3]int{
	{0, 0, 1},
	{0, 0, -1},
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
}

// ChunkMesh returns the boundary faces of chunk c placed at grid cell
// (cx, cz); see AppendChunk.
func ChunkMesh(c *Chunk, cx, cz int) Mesh {
	var m Mesh
	m.AppendChunk(c, cx, cz)
	return m
}

// AppendChunk appends, for every solid block of c, the faces that lie on
// the chunk boundary. Faces between two cells of the same chunk are never
// emitted, whatever their contents. The chunk is offset by
// (cx*ChunkSizeX, 0, cz*ChunkSizeZ) in world space.
func (m *Mesh) AppendChunk(c *Chunk, cx, cz int) {
	base := flatshade.V3(float32(cx*ChunkSizeX), 0, float32(cz*ChunkSizeZ))
	for z := range ChunkSizeZ {
		for y := range ChunkSizeY {
			for x := range ChunkSizeX {
				if c.blocks[chunkIndex(x, y, z)].IsAir() {
					continue
				}
				lo := base.Add(flatshade.V3(float32(x), float32(y), float32(z)))
				hi := lo.Add(flatshade.V3(1, 1, 1))
				for face, n := range faceNormals {
					if !InChunk(x+n[0], y+n[1], z+n[2]) {
						m.appendFace(lo, hi, face)
					}
				}
			}
		}
	}
}

// ChunkGrid returns the meshes of an n x n grid of copies of c, one mesh
// per chunk, with chunk (i, j) at grid cell (i, j).
func ChunkGrid(c *Chunk, n int) []Mesh {
	meshes := make([]Mesh, 0, max(n, 0)*max(n, 0))
	for i := range max(n, 0) {
		for j := range max(n, 0) {
			meshes = append(meshes, ChunkMesh(c, i, j))
		}
	}
	return meshes
}
