// Package geom implements the ray-sphere intersection primitive used by
// the renderer's reflection loop.
package geom

import (
	"math"

	"github.com/kallsen/phongtracer/internal/prim"
)

// Ray is a half-line with an origin and a (conventionally unit) direction.
type Ray struct {
	Origin    prim.Vec3
	Direction prim.Vec3
}

// Sphere is the pure geometric shape the intersector operates on. Material
// properties live on internal/scene.Sphere; this type carries only what
// the quadratic solve needs.
type Sphere struct {
	Center prim.Vec3
	Radius float64
}

// Hit is the result of a successful intersection.
type Hit struct {
	// Distance is the ray parameter t at the hit point, always > selfHitEpsilon.
	Distance float64
	// Point is Origin + Distance*Direction.
	Point prim.Vec3
	// NormalSign is +1 if the ray originated outside the sphere, -1 if
	// it originated inside. The caller multiplies the outward surface
	// normal by this to get a normal that faces the ray origin.
	NormalSign float64
}

// selfHitEpsilon is the minimum distance at which a hit is considered
// real; closer hits are numerical noise from a ray leaving its own
// surface and are treated as a miss.
const selfHitEpsilon = 0.01

// Intersect solves t^2 + 2(D.(O-C))t + (|O-C|^2 - r^2) = 0 for the given
// ray and sphere, choosing the smaller positive root. It returns ok=false
// if the ray misses: a non-positive discriminant, or a candidate root at
// or below selfHitEpsilon (self-intersection guard).
func Intersect(ray Ray, sphere Sphere) (hit Hit, ok bool) {
	originToCenter := ray.Origin.Sub(&sphere.Center) // O - C

	b := 2 * ray.Direction.Dot(originToCenter)
	c := originToCenter.Dot(originToCenter) - sphere.Radius*sphere.Radius

	discriminant := b*b - 4*c
	if discriminant <= 0 {
		return Hit{}, false
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-b - sqrtDisc) / 2
	t2 := (-b + sqrtDisc) / 2

	t := t2
	if t1 > 0 {
		t = t1
	}
	if t <= selfHitEpsilon {
		return Hit{}, false
	}

	point := *ray.Origin.Add(ray.Direction.Scale(t))

	// Inside/outside classification: compare the distance from the
	// sphere centre to the midpoint of the chord against the radius.
	midpoint := ray.Origin.Add(ray.Direction.Scale(t / 2))
	halfwayOffset := midpoint.Sub(&sphere.Center)
	halfwayDistSq := halfwayOffset.Dot(halfwayOffset)
	normalSign := 1.0
	if halfwayDistSq < sphere.Radius*sphere.Radius {
		normalSign = -1.0
	}

	return Hit{
		Distance:   t,
		Point:      point,
		NormalSign: normalSign,
	}, true
}
