package scene

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kallsen/phongtracer/internal/camera"
	"github.com/kallsen/phongtracer/internal/render"
)

// defaultEps and defaultMaxReflections match the reference renderer's
// class-level defaults.
const (
	defaultEps            = 0.02
	defaultMaxReflections = 3
)

// Scene is the object registry, dirty-bit tracker, and frame-capture
// orchestrator. It owns every registered entity; external code must
// route all mutation through its methods so dirty bits stay accurate.
type Scene struct {
	camera *Camera
	light  *Light

	sphereOrder  []string
	sphereByName map[string]*Sphere

	// resolution is sticky: once a camera establishes it, it is never
	// cleared, even if the camera is later deregistered. This matches
	// the reference, which keeps _RESOLUTION as a class variable that
	// persists across camera churn, so a replacement camera is always
	// held to the scene's original height and width.
	resolution *camera.Resolution

	eps            float64
	maxReflections int

	cameraDirty  bool
	lightDirty   bool
	spheresDirty bool
	paramsDirty  bool

	cameraBuf *render.CameraBuffer
	lightBuf  *render.LightBuffer
	sphereBuf *render.SphereBuffer
	paramsBuf *render.ParamsBuffer

	frames []render.Frame
}

// New returns an empty Scene with all dirty bits set, matching the
// reference's freshly-constructed state.
func New() *Scene {
	return &Scene{
		sphereByName:   make(map[string]*Sphere),
		eps:            defaultEps,
		maxReflections: defaultMaxReflections,
		cameraDirty:    true,
		lightDirty:     true,
		spheresDirty:   true,
		paramsDirty:    true,
	}
}

// Eps returns the current epsilon parameter.
func (s *Scene) Eps() float64 { return s.eps }

// MaxReflections returns the current bounce budget.
func (s *Scene) MaxReflections() int { return s.maxReflections }

// SetEps sets the self-intersection epsilon. eps must be in (0, 0.1].
func (s *Scene) SetEps(eps float64) error {
	if !(eps > 0 && eps <= 0.1) {
		return &ValidationError{Issues: []string{"eps must be between 0 (excl.) and 0.1 (incl.)"}}
	}
	s.eps = eps
	s.paramsDirty = true
	return nil
}

// SetMaxReflections sets the bounce budget. n must be in [0, 10].
func (s *Scene) SetMaxReflections(n int) error {
	if n < 0 || n > 10 {
		return &ValidationError{Issues: []string{"max reflections must be between 0 (incl.) and 10 (incl.)"}}
	}
	s.maxReflections = n
	s.paramsDirty = true
	return nil
}

// Lookup returns the registered Object with the given name.
func (s *Scene) Lookup(name string) (Object, bool) {
	switch name {
	case CameraName:
		if s.camera == nil {
			return Object{}, false
		}
		return NewCameraObject(*s.camera), true
	case LightName:
		if s.light == nil {
			return Object{}, false
		}
		return NewLightObject(*s.light), true
	default:
		sph, ok := s.sphereByName[name]
		if !ok {
			return Object{}, false
		}
		return NewSphereObject(*sph), true
	}
}

func (s *Scene) contains(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

func (s *Scene) sphereCount() int {
	return len(s.sphereOrder)
}

// Register adds obj to the scene, validating its fields and name
// uniqueness, and flips the matching dirty bit.
func (s *Scene) Register(obj Object) error {
	if s.contains(obj.Name) {
		return &ValidationError{Issues: []string{fmt.Sprintf("given name %q already exists", obj.Name)}}
	}

	switch obj.Kind {
	case KindCamera:
		if obj.Name != CameraName {
			return &ValidationError{Issues: []string{fmt.Sprintf("camera name must be %q", CameraName)}}
		}
		cam := obj.Camera
		if issues := cam.validate(); len(issues) > 0 {
			return &ValidationError{Issues: issues}
		}
		if s.resolution != nil && (s.resolution.Height != cam.Resolution.Height || s.resolution.Width != cam.Resolution.Width) {
			return &ValidationError{Issues: []string{fmt.Sprintf("the camera resolution is invalid (received (%d, %d), expecting (%d, %d))", cam.Resolution.Height, cam.Resolution.Width, s.resolution.Height, s.resolution.Width)}}
		}
		s.camera = &cam
		res := cam.Resolution
		s.resolution = &res
		s.cameraDirty = true

	case KindLight:
		if obj.Name != LightName {
			return &ValidationError{Issues: []string{fmt.Sprintf("light name must be %q", LightName)}}
		}
		light := obj.Light
		if issues := light.validate(); len(issues) > 0 {
			return &ValidationError{Issues: issues}
		}
		s.light = &light
		s.lightDirty = true

	case KindSphere:
		if obj.Name == CameraName || obj.Name == LightName {
			return &ValidationError{Issues: []string{fmt.Sprintf("given name %q is reserved", obj.Name)}}
		}
		sph := obj.Sphere
		if issues := sph.validate(); len(issues) > 0 {
			return &ValidationError{Issues: issues}
		}
		s.sphereByName[obj.Name] = &sph
		s.sphereOrder = append(s.sphereOrder, obj.Name)
		s.spheresDirty = true

	default:
		return &ValidationError{Issues: []string{"unrecognised object kind"}}
	}
	return nil
}

// Deregister removes the named object from the scene and flips the
// matching dirty bit.
func (s *Scene) Deregister(name string) error {
	if !s.contains(name) {
		return fmt.Errorf("given name %q is not registered", name)
	}
	switch name {
	case CameraName:
		s.camera = nil
		s.cameraDirty = true
	case LightName:
		s.light = nil
		s.lightDirty = true
	default:
		delete(s.sphereByName, name)
		for i, n := range s.sphereOrder {
			if n == name {
				s.sphereOrder = append(s.sphereOrder[:i], s.sphereOrder[i+1:]...)
				break
			}
		}
		s.spheresDirty = true
	}
	return nil
}

// RegisterMany registers every object in objs, rolling back all prior
// registrations in this call if any one fails.
func (s *Scene) RegisterMany(objs []Object) error {
	var registered []string
	for _, obj := range objs {
		if err := s.Register(obj); err != nil {
			for _, name := range registered {
				_ = s.Deregister(name)
			}
			return err
		}
		registered = append(registered, obj.Name)
	}
	return nil
}

// DeregisterMany removes every named object, rolling back (via
// re-registration) all prior deregistrations in this call if any one
// fails.
func (s *Scene) DeregisterMany(names []string) error {
	for _, name := range names {
		if !s.contains(name) {
			return fmt.Errorf("the following name is unrecognised: %q", name)
		}
	}
	var removed []Object
	for _, name := range names {
		obj, _ := s.Lookup(name)
		if err := s.Deregister(name); err != nil {
			for _, prior := range removed {
				_ = s.Register(prior)
			}
			return err
		}
		removed = append(removed, obj)
	}
	return nil
}

// Replace swaps the named object's data for obj, preserving its
// registration slot, and flips the matching dirty bit. This is the
// immutable-snapshot alternative to in-place field mutation: callers
// build a new value and hand it to Replace rather than mutating a
// held reference.
func (s *Scene) Replace(name string, obj Object) error {
	if !s.contains(name) {
		return fmt.Errorf("given name %q is not registered", name)
	}
	if obj.Name != name {
		return &ValidationError{Issues: []string{fmt.Sprintf("replacement object name %q does not match target %q", obj.Name, name)}}
	}
	prior, _ := s.Lookup(name)
	slot := -1
	for i, n := range s.sphereOrder {
		if n == name {
			slot = i
			break
		}
	}
	dirty := [4]bool{s.cameraDirty, s.lightDirty, s.spheresDirty, s.paramsDirty}
	if err := s.Deregister(name); err != nil {
		return err
	}
	err := s.Register(obj)
	if err != nil {
		_ = s.Register(prior)
		s.cameraDirty, s.lightDirty, s.spheresDirty, s.paramsDirty = dirty[0], dirty[1], dirty[2], dirty[3]
	}
	if slot >= 0 {
		last := len(s.sphereOrder) - 1
		copy(s.sphereOrder[slot+1:], s.sphereOrder[slot:last])
		s.sphereOrder[slot] = name
	}
	return err
}

// CameraDirty reports whether the camera buffer is stale. Exposed for
// the instrumentation scenario 5 calls for: verifying that mutating
// one category leaves the others untouched.
func (s *Scene) CameraDirty() bool { return s.cameraDirty }

// LightDirty reports whether the light buffer is stale.
func (s *Scene) LightDirty() bool { return s.lightDirty }

// SpheresDirty reports whether the sphere buffer is stale.
func (s *Scene) SpheresDirty() bool { return s.spheresDirty }

// ParamsDirty reports whether the params buffer is stale.
func (s *Scene) ParamsDirty() bool { return s.paramsDirty }

// Frames returns a read-only snapshot of the frame history.
func (s *Scene) Frames() []render.Frame {
	out := make([]render.Frame, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.Clone()
	}
	return out
}

// checkScene performs the capture-time validation described in the
// registry's §4.6 rules: camera and light present, sphere count in
// [1, MaxSpheres].
func (s *Scene) checkScene() error {
	var issues []string
	if s.camera == nil {
		issues = append(issues, "Camera is not defined")
	}
	if s.light == nil {
		issues = append(issues, "Light is not defined")
	}
	n := s.sphereCount()
	if n == 0 {
		issues = append(issues, "No objects to render")
	} else if n > render.MaxSpheres {
		issues = append(issues, fmt.Sprintf("The maximum number of spheres is %d (current = %d)", render.MaxSpheres, n))
	}
	if len(issues) > 0 {
		return &SceneError{Issues: issues}
	}
	return nil
}

// stage rebuilds the buffers for every currently-dirty category,
// concurrently, waits for all of them, and returns the first failure
// wrapped in a WorkerError. This mirrors the reference's parallel host-to-device staging
// threads, adapted to a CPU port where "staging" is simply recomputing
// the cached dense buffer a category feeds to the renderer.
func (s *Scene) stage(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)

	if s.cameraDirty {
		g.Go(func() error {
			buf := serializeCamera(s.camera)
			s.cameraBuf = &buf
			return nil
		})
	}
	if s.lightDirty {
		g.Go(func() error {
			buf := serializeLight(s.light)
			s.lightBuf = &buf
			return nil
		})
	}
	if s.spheresDirty {
		g.Go(func() error {
			buf := serializeSpheres(s.sphereOrder, s.sphereByName)
			s.sphereBuf = &buf
			return nil
		})
	}
	if s.paramsDirty {
		g.Go(func() error {
			buf := serializeParams(s.eps, s.maxReflections)
			s.paramsBuf = &buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return &WorkerError{Category: "scene buffers", Err: err}
	}
	return nil
}

// CaptureFrame renders the current scene state into a new frame,
// appends it to the history, and returns it. If no dirty bit is set
// and a prior frame exists, it instead duplicates the last frame
// without invoking the renderer (identical-frame elision).
func (s *Scene) CaptureFrame(ctx context.Context) (render.Frame, error) {
	if frame, ok := s.elidedFrame(); ok {
		s.frames = append(s.frames, frame)
		return frame.Clone(), nil
	}

	if err := s.checkScene(); err != nil {
		return render.Frame{}, err
	}
	if err := s.stage(ctx); err != nil {
		return render.Frame{}, err
	}

	frame, err := render.Render(ctx, *s.cameraBuf, *s.lightBuf, s.sphereBuf, *s.paramsBuf)
	if err != nil {
		return render.Frame{}, err
	}
	s.frames = append(s.frames, frame)
	s.cameraDirty = false
	s.lightDirty = false
	s.spheresDirty = false
	s.paramsDirty = false
	return frame.Clone(), nil
}

// elidedFrame returns a copy of the last frame if none of the four
// dirty bits are set and the history is non-empty. The returned frame
// is an independent copy so later writes by the caller into a
// previously-returned frame cannot corrupt the stored history.
func (s *Scene) elidedFrame() (render.Frame, bool) {
	if len(s.frames) == 0 {
		return render.Frame{}, false
	}
	if s.cameraDirty || s.lightDirty || s.spheresDirty || s.paramsDirty {
		return render.Frame{}, false
	}
	return s.frames[len(s.frames)-1].Clone(), true
}
