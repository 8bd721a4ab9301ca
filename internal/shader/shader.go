// Package shader computes the single-bounce Blinn-Phong contribution
// used by the renderer's reflection loop.
package shader

import (
	"math"

	"github.com/kallsen/phongtracer/internal/prim"
)

// Material is the subset of a sphere's Blinn-Phong coefficients the
// shader needs.
type Material struct {
	Ambient, Diffuse, Specular prim.Vec3
	Shine                      float64
}

// Light is the subset of the scene light's Blinn-Phong coefficients the
// shader needs. IntensitySquared is the light's intensity, squared, as
// precomputed by the scene serialiser (see internal/scene).
type Light struct {
	Ambient, Diffuse, Specular prim.Vec3
	IntensitySquared           float64
}

// Contribution computes one bounce's worth of Blinn-Phong shading,
// attenuated by the accumulated reflectivity and the light's
// distance-based intensity falloff.
//
// toLight, toCamera, and normal are all expected to be unit vectors.
// distanceToLight is the (unattenuated) distance from the hit point to
// the light.
//
// The specular term raises |N.H| to the power shine/4 (not shine), and
// re-applies the sign of N.H afterwards. This lets a negative N.H
// contribute a negative specular term, which normal Blinn-Phong does
// not do; it is preserved here as an intentional, if unusual, design
// choice from the reference renderer.
func Contribution(reflectivity float64, light Light, distanceToLight float64, mat Material, toLight, toCamera, normal prim.Vec3) prim.Vec3 {
	halfVector := *toLight.Add(&toCamera).Normalize()

	normalDotLight := normal.Dot(&toLight)
	diffuse := *mat.Diffuse.Mul(&light.Diffuse)
	diffuse.X *= normalDotLight
	diffuse.Y *= normalDotLight
	diffuse.Z *= normalDotLight

	ambient := *mat.Ambient.Mul(&light.Ambient)

	specCos := normal.Dot(&halfVector)
	specMagnitude := math.Pow(math.Abs(specCos), mat.Shine/4) * prim.Sign(specCos)
	specular := *mat.Specular.Mul(&light.Specular)
	specular.X *= specMagnitude
	specular.Y *= specMagnitude
	specular.Z *= specMagnitude

	colour := *ambient.Add(&diffuse).Add(&specular)

	distanceSquared := distanceToLight * distanceToLight
	falloff := math.Min(distanceSquared, light.IntensitySquared) / distanceSquared

	return *colour.Scale(reflectivity * falloff)
}
