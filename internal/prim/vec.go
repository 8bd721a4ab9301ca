// Package prim implements the fixed-width 3-component vector primitives
// shared by every other package in the ray tracer: the intersector, the
// shader, the camera ray generator, and the renderer.
package prim

import (
	"fmt"
	"math"
)

// Vec3 is a 3-component vector used interchangeably as a point, a
// direction, or an RGB colour triple.
type Vec3 struct {
	X, Y, Z float64
}

func (v *Vec3) String() string {
	return fmt.Sprintf("Vec3(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// RGB is a convenience function to construct a vector
// from normalized RGB values [0.0, 1.0].
func RGB(r, g, b float64) Vec3 {
	return Vec3{X: r, Y: g, Z: b}
}

func (v *Vec3) Add(other *Vec3) *Vec3 {
	return &Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// AddI is an in-place version of Add
func (v *Vec3) AddI(other *Vec3) *Vec3 {
	v.X += other.X
	v.Y += other.Y
	v.Z += other.Z
	return v
}

func (v *Vec3) Sub(other *Vec3) *Vec3 {
	return &Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Mul multiples two vectors pointwise.
func (v *Vec3) Mul(other *Vec3) *Vec3 {
	return &Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

func (v *Vec3) Dot(other *Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product v x other.
func (v *Vec3) Cross(other *Vec3) *Vec3 {
	return &Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Direction returns the (non-unit) vector from v to other.
func (v *Vec3) Direction(other *Vec3) *Vec3 {
	return other.Sub(v)
}

func (v *Vec3) Scale(s float64) *Vec3 {
	return &Vec3{
		X: v.X * s,
		Y: v.Y * s,
		Z: v.Z * s,
	}
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector if v is the zero vector.
func (v *Vec3) Normalize() *Vec3 {
	magnitude := v.Length()
	if magnitude == 0 {
		return &Vec3{}
	}
	return &Vec3{
		X: v.X / magnitude,
		Y: v.Y / magnitude,
		Z: v.Z / magnitude,
	}
}

func (v *Vec3) Neg() *Vec3 {
	return &Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

func (v *Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v *Vec3) IsZero() bool {
	return v.X == 0.0 && v.Y == 0.0 && v.Z == 0.0
}

// RGBA implements the image.Color interface
func (v *Vec3) RGBA() (r, g, b, a uint32) {
	const max = 0xffff
	return uint32(clamp(0, 1, v.X) * max), uint32(clamp(0, 1, v.Y) * max), uint32(clamp(0, 1, v.Z) * max), max
}

// ClampI clamps the X, Y, and Z values between 0 and 1, in place.
func (v *Vec3) ClampI() *Vec3 {
	v.X = clamp(0, 1, v.X)
	v.Y = clamp(0, 1, v.Y)
	v.Z = clamp(0, 1, v.Z)
	return v
}

// Reflect reflects v about the given unit normal: v - 2(v.n)n.
func (v *Vec3) Reflect(normal *Vec3) *Vec3 {
	return v.Sub(normal.Scale(2 * v.Dot(normal)))
}

// Sign returns +1 for x >= 0 and -1 for x < 0. Used by the shader's
// specular term, which re-signs a fractional power of |N.H|.
func Sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

// clamp limits x between min and max
func clamp(min, max, x float64) float64 {
	return math.Min(math.Max(x, min), max)
}
