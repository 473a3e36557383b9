package flatshade

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func sampleUniforms() Uniforms {
	var u Uniforms
	for i := range u.Proj {
		u.Proj[i] = float32(i) + 0.25
		u.View[i] = -float32(i) * 1.5
	}
	return u
}

func TestUniformsBytesLayout(t *testing.T) {
	u := sampleUniforms()
	b := u.Bytes()

	if len(b) != UniformsSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), UniformsSize)
	}

	for i := 0; i < 16; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != u.Proj[i] {
			t.Errorf("proj[%d] at byte %d = %v, want %v", i, i*4, got, u.Proj[i])
		}
		got = math.Float32frombits(binary.LittleEndian.Uint32(b[64+i*4:]))
		if got != u.View[i] {
			t.Errorf("view[%d] at byte %d = %v, want %v", i, 64+i*4, got, u.View[i])
		}
	}
}

func TestUniformsColumnMajor(t *testing.T) {
	// Translation lives in the fourth column, i.e. elements 12..14.
	u := Uniforms{Proj: Translate4(5, 6, 7), View: Identity4()}
	b := u.Bytes()

	for i, want := range []float32{5, 6, 7, 1} {
		off := (12 + i) * 4
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
		if got != want {
			t.Errorf("byte offset %d = %v, want %v", off, got, want)
		}
	}
}

func TestUniformsRoundTripBitIdentical(t *testing.T) {
	u := sampleUniforms()
	// Odd bit patterns must survive untouched.
	u.Proj[3] = math.Float32frombits(0x7fc00001) // NaN with payload
	u.View[7] = math.Float32frombits(0x80000000) // -0
	u.View[15] = math.Float32frombits(0x00000001) // smallest denormal

	got, err := DecodeUniforms(u.Bytes())
	if err != nil {
		t.Fatalf("DecodeUniforms: %v", err)
	}
	for i := range u.Proj {
		if math.Float32bits(got.Proj[i]) != math.Float32bits(u.Proj[i]) {
			t.Errorf("proj[%d] bits = %#x, want %#x", i, math.Float32bits(got.Proj[i]), math.Float32bits(u.Proj[i]))
		}
		if math.Float32bits(got.View[i]) != math.Float32bits(u.View[i]) {
			t.Errorf("view[%d] bits = %#x, want %#x", i, math.Float32bits(got.View[i]), math.Float32bits(u.View[i]))
		}
	}
}

func TestUniformsBinaryMarshaler(t *testing.T) {
	u := sampleUniforms()
	data, err := u.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var back Uniforms
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if back != u {
		t.Error("UnmarshalBinary(MarshalBinary(u)) != u")
	}
}

func TestDecodeUniformsWrongSize(t *testing.T) {
	for _, n := range []int{0, 64, 127, 129, 256} {
		_, err := DecodeUniforms(make([]byte, n))
		if !errors.Is(err, ErrUniformSize) {
			t.Errorf("DecodeUniforms(%d bytes) error = %v, want ErrUniformSize", n, err)
		}
	}
}

func TestUniformsAppendBytes(t *testing.T) {
	u := IdentityUniforms()
	prefix := []byte{0xAA, 0xBB}
	out := u.AppendBytes(prefix)

	if len(out) != 2+UniformsSize {
		t.Fatalf("len = %d, want %d", len(out), 2+UniformsSize)
	}
	if out[0] != 0xAA || out[1] != 0xBB {
		t.Error("AppendBytes clobbered the prefix")
	}
}

func TestUniformsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Uniforms)
		wantErr bool
	}{
		{"identity", func(*Uniforms) {}, false},
		{"zero", func(u *Uniforms) { *u = Uniforms{} }, false},
		{"NaN proj", func(u *Uniforms) { u.Proj[5] = float32(math.NaN()) }, true},
		{"Inf view", func(u *Uniforms) { u.View[0] = float32(math.Inf(1)) }, true},
		{"-Inf view", func(u *Uniforms) { u.View[15] = float32(math.Inf(-1)) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := IdentityUniforms()
			tt.mutate(&u)
			err := u.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNonFiniteMatrix) {
				t.Errorf("Validate() error = %v, want ErrNonFiniteMatrix", err)
			}
		})
	}
}
