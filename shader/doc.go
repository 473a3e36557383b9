// Package shader holds the WGSL solid-color program and its binding contract.
//
// The program has two entry points. vs_main reads a vec3<f32> position at
// location 0 and the uniform block at group 0 / binding 0, and returns
// proj * view * vec4(position, 1). fs_main returns the constant
// vec4(0.4, 0.3, 0.2, 1.0) at location 0.
//
// Validate checks a WGSL source against Contract using naga's front end, so
// binding-layout mismatches are caught at pipeline-creation time rather than
// by the driver:
//
//	if err := shader.Validate(shader.Source()); err != nil {
//	    return fmt.Errorf("solid shader: %w", err)
//	}
package shader
