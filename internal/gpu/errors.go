//go:build !nogpu

package gpu

import "errors"

// Errors returned by SolidPipeline.
var (
	// ErrUniformBufferSize is returned when the uniform data is not exactly
	// 128 bytes.
	ErrUniformBufferSize = errors.New("gpu: uniform buffer must be 128 bytes")

	// ErrVertexBufferSize is returned when the vertex data holds fewer bytes
	// than the vertex count requires.
	ErrVertexBufferSize = errors.New("gpu: vertex buffer too small for vertex count")

	// ErrIndexRange is returned when an index refers past the vertex count.
	ErrIndexRange = errors.New("gpu: index out of vertex range")

	// ErrGPUTimeout is returned when a submission does not complete in time.
	ErrGPUTimeout = errors.New("gpu: timed out waiting for submission")

	// ErrInvalidTarget is returned for an empty or undersized target.
	ErrInvalidTarget = errors.New("gpu: invalid render target")

	// ErrUnsupportedFormat is returned for a color format that cannot be
	// read back into an RGBA target.
	ErrUnsupportedFormat = errors.New("gpu: unsupported color format")

	// ErrNoDevice is returned when no HAL device is available.
	ErrNoDevice = errors.New("gpu: no device")

	// ErrNotHALProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNotHALProvider = errors.New("gpu: provider does not expose HAL types")
)
