package scene

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kallsen/phongtracer/internal/camera"
	"github.com/kallsen/phongtracer/internal/prim"
)

func validCamera() Camera {
	return Camera{
		Position:   prim.Vec3{},
		Resolution: camera.Resolution{Height: 4, Width: 4},
		Screen:     camera.ScreenVectors{ToScreen: prim.Vec3{Y: 1}, North: prim.Vec3{Z: 1}},
		Background: prim.Vec3{},
	}
}

func validLight() Light {
	return Light{
		Position:  prim.Vec3{Y: 5, Z: 5},
		Ambient:   prim.RGB(0.2, 0.2, 0.2),
		Diffuse:   prim.RGB(1, 1, 1),
		Specular:  prim.RGB(1, 1, 1),
		Intensity: 1000,
	}
}

func validSphere(name string) Sphere {
	return Sphere{
		Name:     name,
		Centre:   prim.Vec3{Y: 5},
		Ambient:  prim.RGB(0.2, 0, 0),
		Diffuse:  prim.RGB(1, 0, 0),
		Specular: prim.RGB(1, 1, 1),
		Shine:    40,
		Reflect:  0,
		Radius:   1,
	}
}

func TestRegisterAndLookup(t *testing.T) {
	s := New()
	if err := s.Register(NewCameraObject(validCamera())); err != nil {
		t.Fatalf("Register(camera) error = %v", err)
	}
	if err := s.Register(NewLightObject(validLight())); err != nil {
		t.Fatalf("Register(light) error = %v", err)
	}
	if err := s.Register(NewSphereObject(validSphere("ball"))); err != nil {
		t.Fatalf("Register(sphere) error = %v", err)
	}

	if _, ok := s.Lookup(CameraName); !ok {
		t.Errorf("Lookup(%q) = not found", CameraName)
	}
	if _, ok := s.Lookup("ball"); !ok {
		t.Errorf(`Lookup("ball") = not found`)
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	s := New()
	if err := s.Register(NewSphereObject(validSphere("ball"))); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register(NewSphereObject(validSphere("ball"))); err == nil {
		t.Errorf("second Register() error = nil, want error (duplicate name)")
	}
}

func TestRegisterRejectsWrongCameraName(t *testing.T) {
	s := New()
	obj := Object{Kind: KindCamera, Name: "not_camera", Camera: validCamera()}
	if err := s.Register(obj); err == nil {
		t.Errorf("Register() error = nil, want error (wrong camera name)")
	}
}

func TestRegisterRejectsMismatchedResolution(t *testing.T) {
	s := New()
	if err := s.Register(NewCameraObject(validCamera())); err != nil {
		t.Fatalf("Register(camera) error = %v", err)
	}
	if err := s.Deregister(CameraName); err != nil {
		t.Fatalf("Deregister(camera) error = %v", err)
	}

	other := validCamera()
	other.Resolution = camera.Resolution{Height: 8, Width: 8}
	if err := s.Register(NewCameraObject(other)); err == nil {
		t.Errorf("Register() error = nil, want error (resolution must stay sticky after deregistration)")
	}
}

// TestRegisterThenDeregisterRestoresDirectory checks the reversibility
// invariant: register then deregister returns the scene to its prior
// (empty) state.
func TestRegisterThenDeregisterRestoresDirectory(t *testing.T) {
	s := New()
	if err := s.Register(NewSphereObject(validSphere("ball"))); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Deregister("ball"); err != nil {
		t.Fatalf("Deregister() error = %v", err)
	}
	if _, ok := s.Lookup("ball"); ok {
		t.Errorf(`Lookup("ball") = found, want not found after deregister`)
	}
	if s.sphereCount() != 0 {
		t.Errorf("sphereCount() = %d, want 0", s.sphereCount())
	}
}

func TestRegisterManyRollsBackOnFailure(t *testing.T) {
	s := New()
	objs := []Object{
		NewSphereObject(validSphere("a")),
		NewSphereObject(validSphere("b")),
		NewSphereObject(validSphere("a")), // duplicate, should fail
	}
	if err := s.RegisterMany(objs); err == nil {
		t.Fatalf("RegisterMany() error = nil, want error")
	}
	if _, ok := s.Lookup("a"); ok {
		t.Errorf(`Lookup("a") = found, want rollback to empty scene`)
	}
	if _, ok := s.Lookup("b"); ok {
		t.Errorf(`Lookup("b") = found, want rollback to empty scene`)
	}
}

func TestSetEpsRejectsOutOfRange(t *testing.T) {
	s := New()
	if err := s.SetEps(0); err == nil {
		t.Errorf("SetEps(0) error = nil, want error")
	}
	if err := s.SetEps(0.2); err == nil {
		t.Errorf("SetEps(0.2) error = nil, want error")
	}
	if err := s.SetEps(0.05); err != nil {
		t.Errorf("SetEps(0.05) error = %v, want nil", err)
	}
}

func TestSetMaxReflectionsRejectsOutOfRange(t *testing.T) {
	s := New()
	if err := s.SetMaxReflections(-1); err == nil {
		t.Errorf("SetMaxReflections(-1) error = nil, want error")
	}
	if err := s.SetMaxReflections(11); err == nil {
		t.Errorf("SetMaxReflections(11) error = nil, want error")
	}
}

func fullyPopulatedScene(t *testing.T) *Scene {
	t.Helper()
	s := New()
	if err := s.Register(NewCameraObject(validCamera())); err != nil {
		t.Fatalf("Register(camera) error = %v", err)
	}
	if err := s.Register(NewLightObject(validLight())); err != nil {
		t.Fatalf("Register(light) error = %v", err)
	}
	if err := s.Register(NewSphereObject(validSphere("ball"))); err != nil {
		t.Fatalf("Register(sphere) error = %v", err)
	}
	return s
}

func TestCaptureFrameEmptySceneReturnsSceneError(t *testing.T) {
	s := New()
	_, err := s.CaptureFrame(context.Background())
	if err == nil {
		t.Fatalf("CaptureFrame() error = nil, want SceneError")
	}
	var sceneErr *SceneError
	if !errors.As(err, &sceneErr) {
		t.Fatalf("CaptureFrame() error type = %T, want *SceneError", err)
	}
	want := []string{"Camera is not defined", "Light is not defined", "No objects to render"}
	if len(sceneErr.Issues) != len(want) {
		t.Fatalf("Issues = %v, want %v", sceneErr.Issues, want)
	}
	for i, issue := range want {
		if sceneErr.Issues[i] != issue {
			t.Errorf("Issues[%d] = %q, want %q", i, sceneErr.Issues[i], issue)
		}
	}
}

func TestCaptureFrameClearsAllDirtyBits(t *testing.T) {
	s := fullyPopulatedScene(t)
	if _, err := s.CaptureFrame(context.Background()); err != nil {
		t.Fatalf("CaptureFrame() error = %v", err)
	}
	if s.cameraDirty || s.lightDirty || s.spheresDirty || s.paramsDirty {
		t.Errorf("dirty bits after CaptureFrame = (%v,%v,%v,%v), want all false",
			s.cameraDirty, s.lightDirty, s.spheresDirty, s.paramsDirty)
	}
}

// TestCaptureFrameElidesIdenticalFrame checks idempotence: two
// consecutive captures with no mutation in between return bitwise
// identical images, and the history grows by one each time.
func TestCaptureFrameElidesIdenticalFrame(t *testing.T) {
	s := fullyPopulatedScene(t)
	first, err := s.CaptureFrame(context.Background())
	if err != nil {
		t.Fatalf("first CaptureFrame() error = %v", err)
	}
	second, err := s.CaptureFrame(context.Background())
	if err != nil {
		t.Fatalf("second CaptureFrame() error = %v", err)
	}
	if len(s.Frames()) != 2 {
		t.Fatalf("len(Frames()) = %d, want 2", len(s.Frames()))
	}
	for i := range first.Pixels {
		if first.Pixels[i] != second.Pixels[i] {
			t.Fatalf("Pixels[%d] = %v, want %v (elided frame must be identical)", i, second.Pixels[i], first.Pixels[i])
		}
	}
}

func Test513thSphereRegistersButCaptureFails(t *testing.T) {
	s := fullyPopulatedScene(t) // already has 1 sphere named "ball"
	for i := 0; i < 511; i++ {
		name := sphereNameForIndex(i)
		if err := s.Register(NewSphereObject(validSphere(name))); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}
	if s.sphereCount() != 512 {
		t.Fatalf("sphereCount() = %d, want 512", s.sphereCount())
	}
	if err := s.Register(NewSphereObject(validSphere("overflow"))); err != nil {
		t.Fatalf("513th Register() error = %v, want nil (registration itself must succeed)", err)
	}
	if s.sphereCount() != 513 {
		t.Fatalf("sphereCount() = %d, want 513", s.sphereCount())
	}
	_, err := s.CaptureFrame(context.Background())
	var sceneErr *SceneError
	if !errors.As(err, &sceneErr) {
		t.Fatalf("CaptureFrame() error type = %T, want *SceneError", err)
	}
}

func sphereNameForIndex(i int) string {
	return fmt.Sprintf("sphere%d", i)
}
