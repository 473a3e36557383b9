// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/flatshade"
)

// screenVertex is a vertex after perspective divide and viewport transform.
// X and Y are framebuffer coordinates with the origin at the top-left
// corner, Z is the clip-space depth and InvW is 1/w.
type screenVertex struct {
	X, Y, Z float32
	InvW    float32
}

// toScreen applies the perspective divide and maps NDC to a width x height
// framebuffer. It returns false for vertices on or behind the w = 0 plane
// and for non-finite results.
func toScreen(clip flatshade.Vec4, width, height int) (screenVertex, bool) {
	if !(clip.W > 0) {
		return screenVertex{}, false
	}
	invW := 1 / clip.W
	v := screenVertex{
		X:    (clip.X*invW + 1) * 0.5 * float32(width),
		Y:    (1 - clip.Y*invW) * 0.5 * float32(height),
		Z:    clip.Z * invW,
		InvW: invW,
	}
	if !finite(v.X) || !finite(v.Y) || !finite(v.Z) || !finite(v.InvW) {
		return screenVertex{}, false
	}
	return v, true
}

// minClipW keeps clipped vertices strictly in front of the eye.
const minClipW = 1e-6

// clipPolygon is a convex polygon in clip space. A triangle clipped
// against two planes has at most five vertices.
type clipPolygon struct {
	v [5]flatshade.Vec4
	n int
}

func (p *clipPolygon) add(v flatshade.Vec4) {
	p.v[p.n] = v
	p.n++
}

// insideNear reports whether v lies on the visible side of the near plane.
func insideNear(v flatshade.Vec4) bool {
	return v.Z >= 0 && v.W >= minClipW
}

// clipNear clips triangle a, b, c against z >= 0 and w >= minClipW in
// homogeneous space. The result is empty when the triangle lies wholly
// behind the near plane.
func clipNear(a, b, c flatshade.Vec4) clipPolygon {
	p := clipPolygon{v: [5]flatshade.Vec4{a, b, c}, n: 3}
	p = p.clip(func(v flatshade.Vec4) float32 { return v.Z })
	return p.clip(func(v flatshade.Vec4) float32 { return v.W - minClipW })
}

// clip keeps the part of p where dist >= 0 (Sutherland-Hodgman).
func (p clipPolygon) clip(dist func(flatshade.Vec4) float32) clipPolygon {
	var out clipPolygon
	for i := 0; i < p.n; i++ {
		cur, next := p.v[i], p.v[(i+1)%p.n]
		dc, dn := dist(cur), dist(next)
		if dc >= 0 {
			out.add(cur)
		}
		if (dc >= 0) != (dn >= 0) {
			out.add(lerp4(cur, next, dc/(dc-dn)))
		}
	}
	return out
}

func lerp4(a, b flatshade.Vec4, t float32) flatshade.Vec4 {
	return flatshade.V4(
		a.X+(b.X-a.X)*t,
		a.Y+(b.Y-a.Y)*t,
		a.Z+(b.Z-a.Z)*t,
		a.W+(b.W-a.W)*t,
	)
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// edge returns twice the signed area of (a, b, p). With y pointing down it
// is positive when p lies clockwise of a→b on screen.
func edge(a, b screenVertex, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// isTopLeft reports whether a→b is a top or left edge of a triangle with
// positive area. Samples exactly on such an edge are covered, samples on
// the other edges are not, so triangles sharing an edge never both cover
// a sample.
func isTopLeft(a, b screenVertex) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dy < 0 || (dy == 0 && dx > 0)
}

// triangle is a screen-space triangle ready for scan conversion.
type triangle struct {
	v       [3]screenVertex
	area    float32
	topLeft [3]bool

	// Pixel bounds, half-open.
	x0, x1, y0, y1 int
}

// setupTriangle orients a, b, c to positive area and clips the bounding
// box to the framebuffer. Degenerate and off-screen triangles return false.
func setupTriangle(a, b, c screenVertex, width, height int) (triangle, bool) {
	area := edge(a, b, c.X, c.Y)
	if area == 0 || !finite(area) {
		return triangle{}, false
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	minX := min(a.X, b.X, c.X)
	maxX := max(a.X, b.X, c.X)
	minY := min(a.Y, b.Y, c.Y)
	maxY := max(a.Y, b.Y, c.Y)

	// Clamp in float space before converting so huge coordinates stay
	// in range.
	fx0 := max(math32.Floor(minX), 0)
	fx1 := min(math32.Ceil(maxX), float32(width))
	fy0 := max(math32.Floor(minY), 0)
	fy1 := min(math32.Ceil(maxY), float32(height))
	if fx0 >= fx1 || fy0 >= fy1 {
		return triangle{}, false
	}

	t := triangle{
		v:    [3]screenVertex{a, b, c},
		area: area,
		x0:   int(fx0),
		x1:   int(fx1),
		y0:   int(fy0),
		y1:   int(fy1),
	}
	// Edge i is opposite vertex i.
	t.topLeft[0] = isTopLeft(b, c)
	t.topLeft[1] = isTopLeft(c, a)
	t.topLeft[2] = isTopLeft(a, b)
	return t, true
}

// covers applies the coverage test for one edge weight.
func covers(w float32, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

// scan calls fn for every pixel of rows [rowLo, rowHi) whose center the
// triangle covers. fn receives the interpolated depth and 1/w.
func (t *triangle) scan(rowLo, rowHi int, fn func(x, y int, z, invW float32)) {
	y0 := max(t.y0, rowLo)
	y1 := min(t.y1, rowHi)
	a, b, c := t.v[0], t.v[1], t.v[2]
	inv := 1 / t.area

	for y := y0; y < y1; y++ {
		py := float32(y) + 0.5
		for x := t.x0; x < t.x1; x++ {
			px := float32(x) + 0.5

			w0 := edge(b, c, px, py)
			if !covers(w0, t.topLeft[0]) {
				continue
			}
			w1 := edge(c, a, px, py)
			if !covers(w1, t.topLeft[1]) {
				continue
			}
			w2 := edge(a, b, px, py)
			if !covers(w2, t.topLeft[2]) {
				continue
			}

			b0, b1, b2 := w0*inv, w1*inv, w2*inv
			z := b0*a.Z + b1*b.Z + b2*c.Z
			invW := b0*a.InvW + b1*b.InvW + b2*c.InvW
			fn(x, y, z, invW)
		}
	}
}
