package scene

import (
	"github.com/kallsen/phongtracer/internal/camera"
	"github.com/kallsen/phongtracer/internal/prim"
	"github.com/kallsen/phongtracer/internal/render"
)

func serializeCamera(c *Camera) render.CameraBuffer {
	rays := camera.Rays(c.Position, c.Screen, c.Resolution)
	directions := make([]prim.Vec3, len(rays))
	for i, r := range rays {
		directions[i] = r.Direction
	}
	return render.CameraBuffer{
		Position:   c.Position,
		Background: c.Background,
		Resolution: c.Resolution,
		Rays:       directions,
	}
}

func serializeLight(l *Light) render.LightBuffer {
	return render.LightBuffer{
		Position:         l.Position,
		Ambient:          l.Ambient,
		Diffuse:          l.Diffuse,
		Specular:         l.Specular,
		IntensitySquared: l.Intensity * l.Intensity,
	}
}

func serializeSpheres(order []string, byName map[string]*Sphere) render.SphereBuffer {
	var buf render.SphereBuffer
	for i, name := range order {
		s := byName[name]
		buf.Centre[i] = s.Centre
		buf.Ambient[i] = s.Ambient
		buf.Diffuse[i] = s.Diffuse
		buf.Specular[i] = s.Specular
		buf.Shine[i] = s.Shine
		buf.Reflect[i] = s.Reflect
		buf.Radius[i] = s.Radius
	}
	buf.Count = len(order)
	return buf
}

func serializeParams(eps float64, maxReflections int) render.ParamsBuffer {
	return render.ParamsBuffer{Eps: eps, MaxReflections: maxReflections}
}
