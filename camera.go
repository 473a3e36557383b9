package flatshade

import (
	"math"

	"github.com/chewxy/math32"
)

// Camera defaults.
const (
	DefaultNear = 0.1
	DefaultFar  = 1000.0
	DefaultFovY = math.Pi / 2

	// pitchLimit keeps the pitch strictly inside (-π/2, π/2) so the view
	// basis never degenerates when looking straight up or down.
	pitchLimit = math.Pi/2 - 0.0001
)

// PerspectiveLH returns a left-handed perspective projection with a vertical
// field of view fovY (radians). View-space +Z looks into the screen; depth
// maps near→0 and far→1, the WebGPU clip-space depth range.
func PerspectiveLH(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	rangeInv := 1 / (far - near)
	return FromRows([4][4]float32{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, far * rangeInv, -far * near * rangeInv},
		{0, 0, 1, 0},
	})
}

// LookAtLH returns a left-handed view matrix for an eye at eye looking
// towards target.
func LookAtLH(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	s := up.Cross(f).Normalize()
	u := f.Cross(s)
	return FromRows([4][4]float32{
		{s.X, s.Y, s.Z, -s.Dot(eye)},
		{u.X, u.Y, u.Z, -u.Dot(eye)},
		{f.X, f.Y, f.Z, -f.Dot(eye)},
		{0, 0, 0, 1},
	})
}

// Camera is a first-person camera that produces the proj and view
// matrices for the uniform block.
//
// Yaw and pitch are in radians. With zero yaw and pitch the camera looks
// along +X.
type Camera struct {
	Position Vec3
	Yaw      float32
	Pitch    float32

	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewCamera returns a camera at the origin with default projection
// parameters and the given aspect ratio.
func NewCamera(aspect float32) *Camera {
	return &Camera{
		FovY:   DefaultFovY,
		Aspect: aspect,
		Near:   DefaultNear,
		Far:    DefaultFar,
	}
}

// SetAspect updates the aspect ratio, typically after a resize.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
}

// Rotate turns the camera by dx, dy degrees. Pitch is clamped just short
// of straight up and straight down.
func (c *Camera) Rotate(dx, dy float32) {
	c.Yaw += dx * math.Pi / 180
	c.Pitch -= dy * math.Pi / 180
	c.Pitch = max(-pitchLimit, min(pitchLimit, c.Pitch))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() Vec3 {
	cp := math32.Cos(c.Pitch)
	return Vec3{
		X: math32.Cos(c.Yaw) * cp,
		Y: math32.Sin(c.Pitch),
		Z: -math32.Sin(c.Yaw) * cp,
	}.Normalize()
}

// ForwardXZ returns the view direction projected onto the ground plane.
func (c *Camera) ForwardXZ() Vec3 {
	return Vec3{X: math32.Cos(c.Yaw), Z: -math32.Sin(c.Yaw)}.Normalize()
}

// Right returns the unit vector pointing to the camera's right.
func (c *Camera) Right() Vec3 {
	return c.Forward().Cross(V3(0, 1, 0)).Normalize()
}

// Move translates the camera: dz along the ground-plane forward direction,
// dx sideways and dy straight up.
func (c *Camera) Move(dx, dy, dz float32) {
	c.Position = c.Position.
		Add(c.ForwardXZ().Mul(dz)).
		Add(c.Right().Mul(-dx)).
		Add(V3(0, dy, 0))
}

// LookAt points the camera at target by setting yaw and pitch.
func (c *Camera) LookAt(target Vec3) {
	d := target.Sub(c.Position).Normalize()
	if d == (Vec3{}) {
		return
	}
	c.Pitch = max(-pitchLimit, min(pitchLimit, math32.Asin(d.Y)))
	c.Yaw = math32.Atan2(-d.Z, d.X)
}

// Proj returns the projection matrix.
func (c *Camera) Proj() Mat4 {
	return PerspectiveLH(c.FovY, c.Aspect, c.Near, c.Far)
}

// View returns the view matrix.
func (c *Camera) View() Mat4 {
	return LookAtLH(c.Position, c.Position.Add(c.Forward()), V3(0, 1, 0))
}

// Uniforms returns the uniform block for the camera's current state.
func (c *Camera) Uniforms() Uniforms {
	return Uniforms{Proj: c.Proj(), View: c.View()}
}
