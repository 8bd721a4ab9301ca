// Package phongtracer renders a static scene of spheres under a single
// point light and pinhole camera using Blinn-Phong shading, producing
// a sequence of RGB frames as the scene is mutated and captured.
package phongtracer

import (
	"context"

	"github.com/kallsen/phongtracer/internal/camera"
	"github.com/kallsen/phongtracer/internal/prim"
	"github.com/kallsen/phongtracer/internal/render"
	"github.com/kallsen/phongtracer/internal/scene"
)

// Vec3 is a 3-component vector, used interchangeably as a point, a
// direction, or an RGB colour triple.
type Vec3 = prim.Vec3

// RGB constructs a Vec3 from normalised RGB values in [0.0, 1.0].
func RGB(r, g, b float64) Vec3 { return prim.RGB(r, g, b) }

// Resolution is an image's (height, width) pixel count.
type Resolution = camera.Resolution

// ScreenVectors orients a camera's image plane; see internal/camera
// for the orthogonality and non-zero requirements enforced at
// registration.
type ScreenVectors = camera.ScreenVectors

// Sphere is an opaque or reflective solid in the scene.
type Sphere = scene.Sphere

// Light is the scene's single point light source.
type Light = scene.Light

// Camera is the scene's single pinhole viewer.
type Camera = scene.Camera

// Frame is one rendered image: a row-major Height*Width buffer of RGB
// triples in [0,1].
type Frame = render.Frame

// CameraName and LightName are the reserved, singleton object names.
const (
	CameraName = scene.CameraName
	LightName  = scene.LightName
)

// ValidationError reports one or more problems found while validating
// an object or parameter value.
type ValidationError = scene.ValidationError

// SceneError reports one or more problems found with the scene's
// overall arrangement at capture time.
type SceneError = scene.SceneError

// WorkerError wraps a failure from a concurrent buffer-staging worker.
type WorkerError = scene.WorkerError

// Scene is the object registry, dirty-bit tracker, and frame-capture
// orchestrator. The zero value is not usable; construct one with New.
type Scene struct {
	inner *scene.Scene
}

// New returns an empty Scene with default parameters (eps=0.02,
// max_reflections=3) and no registered objects.
func New() *Scene {
	return &Scene{inner: scene.New()}
}

// RegisterSphere registers a sphere under the given name.
func (s *Scene) RegisterSphere(name string, sphere Sphere) error {
	sphere.Name = name
	return s.inner.Register(scene.NewSphereObject(sphere))
}

// RegisterLight registers the scene's light.
func (s *Scene) RegisterLight(light Light) error {
	return s.inner.Register(scene.NewLightObject(light))
}

// RegisterCamera registers the scene's camera.
func (s *Scene) RegisterCamera(cam Camera) error {
	return s.inner.Register(scene.NewCameraObject(cam))
}

// RegisterSpheres registers every (name, sphere) pair, transactionally:
// a failure partway through rolls back all prior registrations in the
// same call.
func (s *Scene) RegisterSpheres(spheres map[string]Sphere) error {
	objs := make([]scene.Object, 0, len(spheres))
	for name, sphere := range spheres {
		sphere.Name = name
		objs = append(objs, scene.NewSphereObject(sphere))
	}
	return s.inner.RegisterMany(objs)
}

// Deregister removes the named object from the scene.
func (s *Scene) Deregister(name string) error {
	return s.inner.Deregister(name)
}

// DeregisterMany removes every named object, transactionally: a
// failure mid-batch rolls back all prior removals in the same call.
func (s *Scene) DeregisterMany(names []string) error {
	return s.inner.DeregisterMany(names)
}

// ReplaceSphere swaps the named sphere's data, preserving its
// registration slot. This is the immutable-snapshot alternative to
// in-place field mutation.
func (s *Scene) ReplaceSphere(name string, sphere Sphere) error {
	sphere.Name = name
	return s.inner.Replace(name, scene.NewSphereObject(sphere))
}

// ReplaceLight swaps the registered light's data.
func (s *Scene) ReplaceLight(light Light) error {
	return s.inner.Replace(LightName, scene.NewLightObject(light))
}

// ReplaceCamera swaps the registered camera's data.
func (s *Scene) ReplaceCamera(cam Camera) error {
	return s.inner.Replace(CameraName, scene.NewCameraObject(cam))
}

// LookupSphere returns the named sphere, if registered.
func (s *Scene) LookupSphere(name string) (Sphere, bool) {
	obj, ok := s.inner.Lookup(name)
	if !ok || obj.Kind != scene.KindSphere {
		return Sphere{}, false
	}
	return obj.Sphere, true
}

// SetEps sets the self-intersection epsilon. eps must be in (0, 0.1].
func (s *Scene) SetEps(eps float64) error {
	return s.inner.SetEps(eps)
}

// SetMaxReflections sets the bounce budget. n must be in [0, 10].
func (s *Scene) SetMaxReflections(n int) error {
	return s.inner.SetMaxReflections(n)
}

// Eps returns the current epsilon parameter.
func (s *Scene) Eps() float64 { return s.inner.Eps() }

// MaxReflections returns the current bounce budget.
func (s *Scene) MaxReflections() int { return s.inner.MaxReflections() }

// CaptureFrame renders the current scene state into a new frame and
// appends it to the history. If no mutation has happened since the
// last capture, the last frame is duplicated without re-rendering.
func (s *Scene) CaptureFrame(ctx context.Context) (Frame, error) {
	return s.inner.CaptureFrame(ctx)
}

// Frames returns a read-only snapshot of the frame history.
func (s *Scene) Frames() []Frame {
	return s.inner.Frames()
}
