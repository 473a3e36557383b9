package flatshade

import (
	"math/rand"
	"testing"

	"github.com/gogpu/flatshade/internal/parallel"
)

func randomMat4(rng *rand.Rand) Mat4 {
	var m Mat4
	for i := range m {
		m[i] = rng.Float32()*4 - 2
	}
	return m
}

// mulRowMajor computes m · v with explicit row/column indexing, independent
// of Mat4.MulVec4.
func mulRowMajor(m Mat4, v Vec4) Vec4 {
	in := [4]float32{v.X, v.Y, v.Z, v.W}
	var out [4]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r] += m.At(r, c) * in[c]
		}
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}

func TestTransformVertexIdentity(t *testing.T) {
	u := IdentityUniforms()
	points := []Vec3{
		{1, 2, 3},
		{0, 0, 0},
		{-5.5, 1e6, -1e-6},
	}
	for _, p := range points {
		got := TransformVertex(&u, p)
		want := Vec4{p.X, p.Y, p.Z, 1}
		if got != want {
			t.Errorf("TransformVertex(identity, %v) = %v, want %v", p, got, want)
		}
	}
}

func TestTransformVertexScenario(t *testing.T) {
	u := IdentityUniforms()
	got := TransformVertex(&u, V3(1, 2, 3))
	if got != V4(1, 2, 3, 1) {
		t.Errorf("clip = %v, want (1, 2, 3, 1)", got)
	}
}

func TestTransformVertexMatchesProduct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		u := Uniforms{Proj: randomMat4(rng), View: randomMat4(rng)}
		p := V3(rng.Float32()*10-5, rng.Float32()*10-5, rng.Float32()*10-5)

		got := TransformVertex(&u, p)

		// Exact: same evaluation order as the WGSL expression.
		if want := u.Proj.Mul(u.View).MulVec4(p.Vec4(1)); got != want {
			t.Fatalf("TransformVertex = %v, want %v", got, want)
		}
		// Approximate: proj · (view · p) with independent indexing.
		alt := mulRowMajor(u.Proj, mulRowMajor(u.View, p.Vec4(1)))
		if !got.Approx(alt, 1e-3) {
			t.Fatalf("TransformVertex = %v, independent product = %v", got, alt)
		}
	}
}

func TestTransformVertexZeroTransform(t *testing.T) {
	// proj · view collapses to the zero matrix, whose fourth row is zero
	// too, so every point maps to (0, 0, 0, 0) and not (0, 0, 0, 1).
	// No divide happens here, so the result is finite.
	u := Uniforms{Proj: Mat4{}, View: Identity4()}
	for _, p := range []Vec3{{1, 2, 3}, {-7, 0, 9}} {
		got := TransformVertex(&u, p)
		if got != (Vec4{}) {
			t.Errorf("TransformVertex(zero, %v) = %v, want zero vector", p, got)
		}
		if got.W != 0 {
			t.Errorf("TransformVertex(zero, %v).W = %v, want 0", p, got.W)
		}
	}
}

func TestTransformVerticesMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	u := Uniforms{Proj: randomMat4(rng), View: randomMat4(rng)}

	in := make([]Vec3, 10000)
	for i := range in {
		in[i] = V3(rng.Float32(), rng.Float32(), rng.Float32())
	}
	out := make([]Vec4, len(in))

	pool := parallel.NewPool(4)
	defer pool.Close()
	transformVertices(pool, &u, in, out)

	for i, p := range in {
		if want := TransformVertex(&u, p); out[i] != want {
			t.Fatalf("vertex %d = %v, want %v", i, out[i], want)
		}
	}
}

func TestTransformVerticesDefaultPool(t *testing.T) {
	u := IdentityUniforms()
	in := []Vec3{{1, 2, 3}, {4, 5, 6}}
	out := make([]Vec4, 2)
	TransformVertices(&u, in, out)

	if out[0] != V4(1, 2, 3, 1) || out[1] != V4(4, 5, 6, 1) {
		t.Errorf("TransformVertices = %v", out)
	}
}

func TestTransformVerticesShortOutputPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for short output slice")
		}
	}()
	u := IdentityUniforms()
	TransformVertices(&u, make([]Vec3, 3), make([]Vec4, 2))
}

func TestVertexStageSnapshot(t *testing.T) {
	u := IdentityUniforms()
	stage := NewVertexStage(&u)

	u.Proj = Scale4(2, 2, 2)

	if got := stage.Invoke(V3(1, 1, 1)); got != V4(1, 1, 1, 1) {
		t.Errorf("stage observed uniform change: got %v", got)
	}
}

func TestShadeFragmentConstant(t *testing.T) {
	want := RGBA{R: 0.4, G: 0.3, B: 0.2, A: 1.0}
	if SolidColor != want {
		t.Fatalf("SolidColor = %v, want %v", SolidColor, want)
	}

	frags := []Fragment{
		{},
		{X: 10, Y: 20, Depth: 0.5, Clip: V4(1, 2, 3, 4)},
		{X: -1, Y: 1 << 20, Depth: -3, Clip: V4(0, 0, 0, 0)},
	}
	for _, f := range frags {
		if got := ShadeFragment(f); got != want {
			t.Errorf("ShadeFragment(%+v) = %v, want %v", f, got, want)
		}
	}
}
