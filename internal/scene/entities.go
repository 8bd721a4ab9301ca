// Package scene implements the object registry, dirty-bit tracker, and
// frame-capture orchestration that sits between user mutations and the
// renderer.
package scene

import (
	"github.com/kallsen/phongtracer/internal/camera"
	"github.com/kallsen/phongtracer/internal/prim"
)

// CameraName and LightName are the two reserved, singleton object
// names. A Camera must be registered under CameraName and a Light
// under LightName; every other name belongs to a Sphere.
const (
	CameraName = "_camera"
	LightName  = "_light"
)

// Sphere is an opaque or reflective solid, the only kind of geometry
// the scene can render.
type Sphere struct {
	Name     string
	Centre   prim.Vec3
	Ambient  prim.Vec3
	Diffuse  prim.Vec3
	Specular prim.Vec3
	Shine    float64
	Reflect  float64
	Radius   float64
}

// validate checks Sphere-specific invariants. Name uniqueness and
// reserved-name rules are checked by the registry, not here.
func (s Sphere) validate() []string {
	var issues []string
	if s.Radius <= 0 {
		issues = append(issues, "sphere radius must be positive")
	}
	issues = append(issues, validateUnitInterval("sphere ambient", s.Ambient)...)
	issues = append(issues, validateUnitInterval("sphere diffuse", s.Diffuse)...)
	issues = append(issues, validateUnitInterval("sphere specular", s.Specular)...)
	if s.Shine < 0 || s.Shine > 100 {
		issues = append(issues, "sphere shine must be between 0 and 100")
	}
	if s.Reflect < 0 || s.Reflect > 1 {
		issues = append(issues, "sphere reflect must be between 0 and 1")
	}
	return issues
}

// Light is the scene's single point light source.
type Light struct {
	Position prim.Vec3
	Ambient  prim.Vec3
	Diffuse  prim.Vec3
	Specular prim.Vec3
	Intensity float64
}

func (l Light) validate() []string {
	var issues []string
	issues = append(issues, validateUnitInterval("light ambient", l.Ambient)...)
	issues = append(issues, validateUnitInterval("light diffuse", l.Diffuse)...)
	issues = append(issues, validateUnitInterval("light specular", l.Specular)...)
	if l.Intensity <= 0 {
		issues = append(issues, "light intensity must be positive")
	}
	return issues
}

// Camera is the scene's single pinhole viewer.
type Camera struct {
	Position   prim.Vec3
	Resolution camera.Resolution
	Screen     camera.ScreenVectors
	Background prim.Vec3
}

// validate checks Camera-specific invariants, normalising the screen
// vectors as a side effect (matching the reference renderer, which
// normalises cam_to_screen and screen_north during registration rather
// than requiring callers to pass unit vectors). The resolution-matches-
// previous-camera check lives in the registry, since it needs scene
// state.
func (c *Camera) validate() []string {
	var issues []string
	if err := c.Resolution.Validate(); err != nil {
		issues = append(issues, err.Error())
	}
	screen, err := c.Screen.Validate()
	if err != nil {
		issues = append(issues, err.Error())
	} else {
		c.Screen = screen
	}
	issues = append(issues, validateUnitInterval("camera background", c.Background)...)
	return issues
}

func validateUnitInterval(label string, v prim.Vec3) []string {
	if v.X < 0 || v.X > 1 || v.Y < 0 || v.Y > 1 || v.Z < 0 || v.Z > 1 {
		return []string{label + " components must be between 0 and 1"}
	}
	return nil
}

// Kind identifies which variant of Object is populated.
type Kind int

const (
	// KindSphere marks an Object carrying a Sphere.
	KindSphere Kind = iota
	// KindLight marks an Object carrying the Light.
	KindLight
	// KindCamera marks an Object carrying the Camera.
	KindCamera
)

// Object is a tagged union over the three entity kinds, replacing the
// reference's heterogeneous name-keyed bag of dynamically-typed
// objects with a statically-typed variant.
type Object struct {
	Kind   Kind
	Name   string
	Sphere Sphere
	Light  Light
	Camera Camera
}

// NewSphereObject wraps a Sphere as a registrable Object.
func NewSphereObject(s Sphere) Object {
	return Object{Kind: KindSphere, Name: s.Name, Sphere: s}
}

// NewLightObject wraps the Light as a registrable Object. Its Name is
// always LightName.
func NewLightObject(l Light) Object {
	return Object{Kind: KindLight, Name: LightName, Light: l}
}

// NewCameraObject wraps the Camera as a registrable Object. Its Name is
// always CameraName.
func NewCameraObject(c Camera) Object {
	return Object{Kind: KindCamera, Name: CameraName, Camera: c}
}
