// Package render implements the two-tier parallel reflection-loop
// renderer: pixel-parallel outer tier, sphere-parallel inner tier with
// barrier synchronisation between bounce phases.
package render

import (
	"github.com/kallsen/phongtracer/internal/camera"
	"github.com/kallsen/phongtracer/internal/geom"
	"github.com/kallsen/phongtracer/internal/prim"
)

// MaxSpheres is the fixed sphere-slot count the sphere buffer carries,
// matching the reference renderer's one-thread-block-per-pixel layout.
// Slots beyond the registered sphere count are zeroed; a zero Radius
// is the sentinel a consumer uses to recognise an empty slot.
const MaxSpheres = 512

// CameraBuffer is the dense form of the camera and its primary-ray
// grid, as handed to the renderer.
type CameraBuffer struct {
	Position   prim.Vec3
	Background prim.Vec3
	Resolution camera.Resolution
	// Rays holds one direction per pixel, row-major, h*w entries.
	Rays []prim.Vec3
}

// LightBuffer is the dense form of the scene light: position,
// ambient, diffuse, specular, and precomputed intensity-squared,
// matching the reference's five-row layout.
type LightBuffer struct {
	Position         prim.Vec3
	Ambient          prim.Vec3
	Diffuse          prim.Vec3
	Specular         prim.Vec3
	IntensitySquared float64
}

// SphereBuffer is the dense, fixed-capacity sphere array: row 0
// centre, row 1 ambient, row 2 diffuse, row 3 specular, row 4
// [shine, reflect, radius], for up to MaxSpheres slots.
type SphereBuffer struct {
	Centre   [MaxSpheres]prim.Vec3
	Ambient  [MaxSpheres]prim.Vec3
	Diffuse  [MaxSpheres]prim.Vec3
	Specular [MaxSpheres]prim.Vec3
	Shine    [MaxSpheres]float64
	Reflect  [MaxSpheres]float64
	Radius   [MaxSpheres]float64
	// Count is the number of populated leading slots. It is not part
	// of the reference's wire layout (which relies solely on
	// Radius==0 as the empty-slot sentinel) but lets the renderer skip
	// scanning unused trailing slots.
	Count int
}

// Geometry returns slot i as a geom.Sphere, for use by the ray
// intersector.
func (b *SphereBuffer) Geometry(i int) geom.Sphere {
	return geom.Sphere{Center: b.Centre[i], Radius: b.Radius[i]}
}

// ParamsBuffer is the dense form of the scene's render parameters.
type ParamsBuffer struct {
	Eps            float64
	MaxReflections int
}
