package flatshade

import "errors"

// Host-side validation errors. These are detection-time failures: they are
// reported before any vertex or fragment invocation runs.
var (
	// ErrUniformSize is returned when a uniform block is not exactly
	// UniformsSize bytes.
	ErrUniformSize = errors.New("flatshade: uniform block must be 128 bytes")

	// ErrNonFiniteMatrix is returned when proj or view contains NaN or Inf.
	ErrNonFiniteMatrix = errors.New("flatshade: matrix contains non-finite values")

	// ErrMissingUniforms is returned when a draw references no uniform block.
	ErrMissingUniforms = errors.New("flatshade: uniform block not populated")
)
