package flatshade

import "github.com/gogpu/flatshade/internal/parallel"

// SolidColor is the color the fragment stage writes for every covered pixel.
var SolidColor = RGBA{R: 0.4, G: 0.3, B: 0.2, A: 1.0}

// vertexGrain is the number of vertex invocations batched per worker task.
const vertexGrain = 1024

// Fragment is the rasterizer output handed to the fragment stage: the pixel
// it covers and the interpolated position. The solid shader ignores it.
type Fragment struct {
	X, Y  int
	Depth float32
	Clip  Vec4
}

// TransformVertex is the vertex stage: it returns the clip-space position
// proj · view · (p.x, p.y, p.z, 1). No perspective divide is performed,
// so a zero proj · view yields (0, 0, 0, 0).
func TransformVertex(u *Uniforms, p Vec3) Vec4 {
	return u.ProjView().MulVec4(p.Vec4(1))
}

// TransformVertices runs the vertex stage for every position in in and
// writes the results to out, which must be at least as long as in.
//
// Invocations are independent and run in parallel; each one reads the same
// uniform snapshot and writes only its own slot of out.
func TransformVertices(u *Uniforms, in []Vec3, out []Vec4) {
	transformVertices(parallel.Default(), u, in, out)
}

func transformVertices(pool *parallel.Pool, u *Uniforms, in []Vec3, out []Vec4) {
	if len(out) < len(in) {
		panic("flatshade: TransformVertices output shorter than input")
	}
	stage := NewVertexStage(u)
	pool.Run(len(in), vertexGrain, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = stage.Invoke(in[i])
		}
	})
}

// VertexStage is the vertex stage bound to one uniform snapshot. It folds
// proj · view once so that per-vertex work is a single matrix-vector
// product. The zero value maps every vertex to (0, 0, 0, 0).
type VertexStage struct {
	projView Mat4
}

// NewVertexStage binds the vertex stage to u. Later changes to u are not
// observed by the returned stage.
func NewVertexStage(u *Uniforms) VertexStage {
	return VertexStage{projView: u.ProjView()}
}

// Invoke runs one vertex invocation.
func (s VertexStage) Invoke(p Vec3) Vec4 {
	return s.projView.MulVec4(p.Vec4(1))
}

// ShadeFragment is the fragment stage. It returns SolidColor regardless of
// its input.
func ShadeFragment(Fragment) RGBA {
	return SolidColor
}
