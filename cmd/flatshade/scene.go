package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/flatshade"
	"github.com/gogpu/flatshade/mesh"
)

// vec3 is a YAML [x, y, z] sequence.
type vec3 [3]float32

func (v vec3) Vec3() flatshade.Vec3 {
	return flatshade.V3(v[0], v[1], v[2])
}

// maxChunks bounds the chunk grid side.
const maxChunks = 4

// Scene is the YAML scene description rendered by the command.
type Scene struct {
	Camera CameraConfig `yaml:"camera"`
	Clear  *[4]float32  `yaml:"clear,omitempty"`
	Depth  *bool        `yaml:"depth,omitempty"`
	Boxes  []BoxConfig  `yaml:"boxes"`

	// Chunks is the side of a grid of flat 16x256x16 chunks with one
	// corner at the origin, 0 for none.
	Chunks int `yaml:"chunks,omitempty"`
}

// CameraConfig places the camera. FovDegrees is the vertical field of view.
type CameraConfig struct {
	Position   vec3    `yaml:"position"`
	Target     vec3    `yaml:"target"`
	FovDegrees float32 `yaml:"fov,omitempty"`
	Near       float32 `yaml:"near,omitempty"`
	Far        float32 `yaml:"far,omitempty"`
}

// BoxConfig is an axis-aligned box.
type BoxConfig struct {
	Min vec3 `yaml:"min"`
	Max vec3 `yaml:"max"`
}

// DefaultScene is a three by three patch of unit blocks with a step in the
// middle, seen from above one corner.
func DefaultScene() Scene {
	s := Scene{
		Camera: CameraConfig{
			Position: vec3{-2, 3, -2},
			Target:   vec3{1.5, 0.5, 1.5},
		},
	}
	for x := range 3 {
		for z := range 3 {
			x0, z0 := float32(x), float32(z)
			s.Boxes = append(s.Boxes, BoxConfig{Min: vec3{x0, 0, z0}, Max: vec3{x0 + 1, 1, z0 + 1}})
		}
	}
	s.Boxes = append(s.Boxes, BoxConfig{Min: vec3{1, 1, 1}, Max: vec3{2, 2, 2}})
	s.normalize()
	return s
}

// LoadScene reads a YAML scene file and fills in defaults.
func LoadScene(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes a YAML scene and fills in defaults.
func ParseScene(data []byte) (Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("parse scene: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

func (s *Scene) normalize() {
	if s.Camera.FovDegrees == 0 {
		s.Camera.FovDegrees = float32(flatshade.DefaultFovY * 180 / math.Pi)
	}
	if s.Camera.Near == 0 {
		s.Camera.Near = flatshade.DefaultNear
	}
	if s.Camera.Far == 0 {
		s.Camera.Far = flatshade.DefaultFar
	}
	if s.Depth == nil {
		depth := true
		s.Depth = &depth
	}
}

// Validate checks camera parameters and box extents.
func (s *Scene) Validate() error {
	c := s.Camera
	if c.FovDegrees <= 0 || c.FovDegrees >= 180 {
		return fmt.Errorf("camera fov %v must be in (0, 180)", c.FovDegrees)
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("camera near %v / far %v: need 0 < near < far", c.Near, c.Far)
	}
	if c.Position == c.Target {
		return errors.New("camera position and target coincide")
	}
	if s.Chunks < 0 || s.Chunks > maxChunks {
		return fmt.Errorf("chunks %d must be in [0, %d]", s.Chunks, maxChunks)
	}
	for i, b := range s.Boxes {
		for axis := range 3 {
			if b.Min[axis] >= b.Max[axis] {
				return fmt.Errorf("box %d: min %v is not below max %v", i, b.Min, b.Max)
			}
		}
	}
	return nil
}

// BuildCamera builds the camera for an image with the given aspect ratio.
func (s *Scene) BuildCamera(aspect float32) *flatshade.Camera {
	cam := flatshade.NewCamera(aspect)
	cam.FovY = s.Camera.FovDegrees * math.Pi / 180
	cam.Near = s.Camera.Near
	cam.Far = s.Camera.Far
	cam.Position = s.Camera.Position.Vec3()
	cam.LookAt(s.Camera.Target.Vec3())
	return cam
}

// Mesh returns the geometry of all boxes followed by the chunk grid.
func (s *Scene) Mesh() mesh.Mesh {
	var m mesh.Mesh
	for _, b := range s.Boxes {
		m.AppendBox(b.Min.Vec3(), b.Max.Vec3())
	}
	if s.Chunks > 0 {
		for _, cm := range mesh.ChunkGrid(mesh.Flat(), s.Chunks) {
			m.AppendMesh(cm)
		}
	}
	return m
}

// ClearColor returns the configured background, nil if none.
func (s *Scene) ClearColor() *flatshade.RGBA {
	if s.Clear == nil {
		return nil
	}
	c := flatshade.RGBA{R: s.Clear[0], G: s.Clear[1], B: s.Clear[2], A: s.Clear[3]}
	return &c
}
