package render

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/kallsen/phongtracer/internal/geom"
	"github.com/kallsen/phongtracer/internal/prim"
	"github.com/kallsen/phongtracer/internal/shader"
)

// Frame is one rendered image: a row-major Height*Width buffer of RGB
// triples in [0,1].
type Frame struct {
	Height, Width int
	Pixels        []prim.Vec3
}

// Clone returns an independent copy of the frame, so that later
// writes into a previously-returned frame cannot corrupt the
// renderer's own record of it.
func (f Frame) Clone() Frame {
	out := Frame{Height: f.Height, Width: f.Width, Pixels: make([]prim.Vec3, len(f.Pixels))}
	copy(out.Pixels, f.Pixels)
	return out
}

// pixelWorkers bounds the outer, pixel-parallel tier's goroutine
// count. The reference targets one GPU thread block per pixel; a CPU
// port instead runs a fixed-size worker pool draining a channel of
// pixel indices, sized to the host's core count.
func pixelWorkers() int {
	if n := runtime.NumCPU(); n > 1 {
		return n
	}
	return 1
}

// Render runs the reflection loop for every pixel in cam.Rays and
// returns the resulting frame. Pixels are independent and are
// processed by a pool of worker goroutines; within a pixel, each bounce
// fans out over spheres for the intersect-all and shadow-test phases,
// joining each fan-out before the single-threaded step that follows it
// (see bouncePixel).
func Render(ctx context.Context, cam CameraBuffer, light LightBuffer, spheres *SphereBuffer, params ParamsBuffer) (Frame, error) {
	n := len(cam.Rays)
	frame := Frame{Height: cam.Resolution.Height, Width: cam.Resolution.Width, Pixels: make([]prim.Vec3, n)}

	indices := make(chan int, n)
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)

	var wg sync.WaitGroup
	workers := pixelWorkers()
	if workers > n {
		workers = n
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				select {
				case <-ctx.Done():
					return
				default:
				}
				frame.Pixels[i] = bouncePixel(cam, light, spheres, params, i)
			}
		}()
	}
	wg.Wait()

	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	default:
	}
	return frame, nil
}

// bouncePixel runs the reflection loop for a single pixel: up to
// params.MaxReflections bounces, each intersecting every populated
// sphere slot in parallel, selecting the nearest hit, shading it if
// unshadowed, and spawning a reflected ray.
func bouncePixel(cam CameraBuffer, light LightBuffer, spheres *SphereBuffer, params ParamsBuffer, pixel int) prim.Vec3 {
	eps := params.Eps

	accum := cam.Background
	origin := cam.Position
	direction := cam.Rays[pixel]
	reflectivity := 1.0

	for bounce := 0; bounce < params.MaxReflections; bounce++ {
		// 1. Origin nudge.
		origin = *origin.Add(direction.Scale(eps))

		// 2. Intersect-all, in parallel over populated sphere slots.
		hits := intersectAll(geom.Ray{Origin: origin, Direction: direction}, spheres, eps)

		// 3. Select nearest.
		winner, ok := nearestPositive(hits)
		if !ok {
			break
		}
		hit := hits[winner]

		// 4. Per-hit setup.
		normal := *spheres.Centre[winner].Direction(&hit.Point).Normalize()
		normal = *normal.Scale(hit.NormalSign)
		toCamera := *hit.Point.Direction(&cam.Position).Normalize()
		lightVec := *hit.Point.Direction(&light.Position)
		distanceToLight := lightVec.Length()
		toLight := *lightVec.Scale(1 / distanceToLight)

		nextDirection := *direction.Reflect(&normal)
		shadowOrigin := *hit.Point.Add(normal.Scale(eps))

		// 5. Shadow test, in parallel over populated sphere slots.
		obstructed := shadowed(geom.Ray{Origin: shadowOrigin, Direction: toLight}, spheres, distanceToLight)

		// 6. Apply shading.
		if !obstructed {
			mat := shader.Material{
				Ambient:  spheres.Ambient[winner],
				Diffuse:  spheres.Diffuse[winner],
				Specular: spheres.Specular[winner],
				Shine:    spheres.Shine[winner],
			}
			lightIn := shader.Light{
				Ambient:          light.Ambient,
				Diffuse:          light.Diffuse,
				Specular:         light.Specular,
				IntensitySquared: light.IntensitySquared,
			}
			contribution := shader.Contribution(reflectivity, lightIn, distanceToLight, mat, toLight, toCamera, normal)
			accum = *accum.Add(&contribution)
			accum.ClampI()
		}
		reflectivity *= spheres.Reflect[winner]

		// Restore the true surface origin (undoing the shadow-ray
		// nudge) so the next bounce's own nudge starts from the
		// actual hit point, not from the shadow ray's offset origin.
		origin = hit.Point
		direction = nextDirection
	}

	return accum
}

type sphereHit struct {
	geom.Hit
	ok bool
}

// intersectAll tests ray against every populated sphere slot, one
// goroutine per slot, joined before returning. Each goroutine writes
// only its own index of hits, so there is no shared-write race.
func intersectAll(ray geom.Ray, spheres *SphereBuffer, eps float64) []sphereHit {
	hits := make([]sphereHit, spheres.Count)
	var wg sync.WaitGroup
	wg.Add(spheres.Count)
	for i := 0; i < spheres.Count; i++ {
		go func(i int) {
			defer wg.Done()
			hit, ok := geom.Intersect(ray, spheres.Geometry(i))
			if !ok {
				return
			}
			// Bias toward the near surface to avoid precision dropouts.
			biasedDistance := hit.Distance * (1 - eps/10)
			biasedPoint := *hit.Point.Sub(ray.Direction.Scale(eps / 10 * hit.Distance))
			hits[i] = sphereHit{Hit: geom.Hit{Distance: biasedDistance, Point: biasedPoint, NormalSign: hit.NormalSign}, ok: true}
		}(i)
	}
	wg.Wait()
	return hits
}

// nearestPositive returns the index of the minimum positive distance
// among hits, or ok=false if none intersected. Ties favour the lower
// index, since only a strictly smaller distance replaces the current
// winner.
func nearestPositive(hits []sphereHit) (int, bool) {
	winner := -1
	best := 0.0
	for i, h := range hits {
		if !h.ok || h.Distance <= 0 {
			continue
		}
		if winner == -1 || h.Distance < best {
			winner = i
			best = h.Distance
		}
	}
	return winner, winner != -1
}

// shadowed tests ray (already nudged off the surface) against every
// populated sphere slot, one goroutine per slot, for an obstruction
// strictly between the origin and the light. obstructed is an atomic
// flag rather than a counter: the caller only needs to know whether
// any slot obstructed, not how many did.
func shadowed(ray geom.Ray, spheres *SphereBuffer, distanceToLight float64) bool {
	var obstructed atomic.Bool
	var wg sync.WaitGroup
	wg.Add(spheres.Count)
	for i := 0; i < spheres.Count; i++ {
		go func(i int) {
			defer wg.Done()
			hit, ok := geom.Intersect(ray, spheres.Geometry(i))
			if !ok {
				return
			}
			if hit.Distance > 0 && hit.Distance < distanceToLight {
				obstructed.Store(true)
			}
		}(i)
	}
	wg.Wait()
	return obstructed.Load()
}
