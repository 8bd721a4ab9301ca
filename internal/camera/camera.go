// Package camera builds the grid of rays a camera casts into a scene,
// one per pixel, from the camera's position and screen orientation.
package camera

import (
	"fmt"
	"math"

	"github.com/kallsen/phongtracer/internal/geom"
	"github.com/kallsen/phongtracer/internal/prim"
)

// Resolution is a (height, width) pixel count, in row-major order to
// match the image buffer it produces.
type Resolution struct {
	Height, Width int
}

// ScreenVectors orients the camera's image plane. ToScreen points from
// the camera towards the screen centre; North is the screen's "up"
// direction. Both are normalised, and must be orthogonal, during
// validation; see Validate.
type ScreenVectors struct {
	ToScreen, North prim.Vec3
}

// orthogonalityEpsilon matches the reference renderer's tolerance for
// "close enough to perpendicular".
const orthogonalityEpsilon = 0.000005

// Validate normalises ToScreen and North and checks that neither is the
// zero vector and that they are orthogonal. It returns the normalised
// vectors; callers must use the returned value, not their input.
func (s ScreenVectors) Validate() (ScreenVectors, error) {
	if s.ToScreen.IsZero() {
		return ScreenVectors{}, fmt.Errorf("camera: cam_to_screen is the zero vector")
	}
	if s.North.IsZero() {
		return ScreenVectors{}, fmt.Errorf("camera: screen_north is the zero vector")
	}

	toScreen := *s.ToScreen.Normalize()
	north := *s.North.Normalize()

	if dot := toScreen.Dot(&north); math.Abs(dot) >= orthogonalityEpsilon {
		return ScreenVectors{}, fmt.Errorf("camera: cam_to_screen and screen_north must be orthogonal vectors")
	}

	return ScreenVectors{ToScreen: toScreen, North: north}, nil
}

// Validate checks that both dimensions are positive.
func (r Resolution) Validate() error {
	if r.Height <= 0 || r.Width <= 0 {
		return fmt.Errorf("camera: resolution must be positive, got (%d, %d)", r.Height, r.Width)
	}
	return nil
}

// Rays computes the unit direction, for every pixel in row-major order,
// from position towards that pixel's point on the screen. screen must
// already be validated (normalised, orthogonal); Rays does not
// re-validate it.
//
// Row 0 is the top of the image; column 0 is the west edge. Both axes
// are normalised by the width so that pixels are square regardless of
// the image's aspect ratio.
func Rays(position prim.Vec3, screen ScreenVectors, resolution Resolution) []geom.Ray {
	h, w := resolution.Height, resolution.Width
	east := *screen.ToScreen.Cross(&screen.North)

	rays := make([]geom.Ray, 0, h*w)
	for i := 0; i < h; i++ {
		northCoef := -(float64(i) - float64(h-1)/2) / float64(w)
		for j := 0; j < w; j++ {
			eastCoef := (float64(j) - float64(w-1)/2) / float64(w)

			direction := screen.ToScreen
			direction = *direction.Add(east.Scale(eastCoef))
			direction = *direction.Add(screen.North.Scale(northCoef))
			direction = *direction.Normalize()

			rays = append(rays, geom.Ray{Origin: position, Direction: direction})
		}
	}
	return rays
}
