package flatshade

import "github.com/chewxy/math32"

// Vec3 is a 3-component float32 vector. Vertex positions are Vec3 in
// object space.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Mul returns the vector scaled by a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float32 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns a unit vector in the same direction.
// Returns zero vector if the original vector has zero length.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// Vec4 extends v to homogeneous coordinates with the given w.
func (v Vec3) Vec4(w float32) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// Approx returns true if two vectors are approximately equal within epsilon.
func (v Vec3) Approx(w Vec3, epsilon float32) bool {
	return math32.Abs(v.X-w.X) < epsilon &&
		math32.Abs(v.Y-w.Y) < epsilon &&
		math32.Abs(v.Z-w.Z) < epsilon
}

// Vec4 is a 4-component homogeneous float32 vector. Clip-space positions
// are Vec4.
type Vec4 struct {
	X, Y, Z, W float32
}

// V4 is a convenience function to create a Vec4.
func V4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// PerspDiv returns the normalized device coordinates x/w, y/w, z/w.
// The caller must ensure W is non-zero.
func (v Vec4) PerspDiv() Vec3 {
	return Vec3{X: v.X / v.W, Y: v.Y / v.W, Z: v.Z / v.W}
}

// Approx returns true if two vectors are approximately equal within epsilon.
func (v Vec4) Approx(w Vec4, epsilon float32) bool {
	return math32.Abs(v.X-w.X) < epsilon &&
		math32.Abs(v.Y-w.Y) < epsilon &&
		math32.Abs(v.Z-w.Z) < epsilon &&
		math32.Abs(v.W-w.W) < epsilon
}
