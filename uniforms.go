package flatshade

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Uniform block binding contract. The vertex stage reads the block at
// @group(0) @binding(0); its layout is two consecutive column-major
// mat4x4<f32> values, proj then view.
const (
	// UniformGroup is the bind group index of the uniform block.
	UniformGroup = 0

	// UniformBinding is the binding index within UniformGroup.
	UniformBinding = 0

	// UniformsSize is the exact byte size of the uniform block.
	UniformsSize = 128

	// mat4Size is the byte size of one mat4x4<f32>.
	mat4Size = 64
)

// Uniforms is the per-draw uniform block: camera projection and view.
//
// The host writes it once per draw call (or once per frame and reuses it);
// every invocation of a draw reads the same snapshot and never writes it.
// There is no meaningful default: populate both matrices before drawing.
type Uniforms struct {
	Proj Mat4
	View Mat4
}

// NewUniforms returns a uniform block with the given projection and view.
func NewUniforms(proj, view Mat4) Uniforms {
	return Uniforms{Proj: proj, View: view}
}

// IdentityUniforms returns a uniform block whose proj and view are both
// the identity, so clip position equals (p.x, p.y, p.z, 1).
func IdentityUniforms() Uniforms {
	return Uniforms{Proj: Identity4(), View: Identity4()}
}

// ProjView returns proj · view, the combined transform applied by the
// vertex stage.
func (u *Uniforms) ProjView() Mat4 {
	return u.Proj.Mul(u.View)
}

// Validate checks that both matrices are finite.
func (u *Uniforms) Validate() error {
	if !u.Proj.IsFinite() {
		return fmt.Errorf("proj: %w", ErrNonFiniteMatrix)
	}
	if !u.View.IsFinite() {
		return fmt.Errorf("view: %w", ErrNonFiniteMatrix)
	}
	return nil
}

// Bytes returns the 128-byte GPU representation of the block.
func (u *Uniforms) Bytes() []byte {
	return u.AppendBytes(make([]byte, 0, UniformsSize))
}

// AppendBytes appends the 128-byte GPU representation to dst.
// Layout: bytes 0..63 proj, 64..127 view, each column-major little-endian f32.
func (u *Uniforms) AppendBytes(dst []byte) []byte {
	dst = appendMat4(dst, &u.Proj)
	return appendMat4(dst, &u.View)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (u *Uniforms) MarshalBinary() ([]byte, error) {
	return u.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// data must be exactly UniformsSize bytes.
func (u *Uniforms) UnmarshalBinary(data []byte) error {
	if len(data) != UniformsSize {
		return fmt.Errorf("got %d bytes: %w", len(data), ErrUniformSize)
	}
	readMat4(data[:mat4Size], &u.Proj)
	readMat4(data[mat4Size:], &u.View)
	return nil
}

// DecodeUniforms decodes a 128-byte uniform block.
func DecodeUniforms(data []byte) (Uniforms, error) {
	var u Uniforms
	if err := u.UnmarshalBinary(data); err != nil {
		return Uniforms{}, err
	}
	return u, nil
}

func appendMat4(dst []byte, m *Mat4) []byte {
	for _, v := range m {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

func readMat4(src []byte, m *Mat4) {
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
}
