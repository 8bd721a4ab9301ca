// Command render writes a single frame of a canned demo scene to a
// PNG file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	rt "github.com/kallsen/phongtracer"
)

var (
	outFile = flag.String("out_file", "", "png filename to write")

	width  = flag.Int("width", 800, "image width, in pixels")
	height = flag.Int("height", 600, "image height, in pixels")
)

// frameImage adapts an rt.Frame to image.Image so it can be handed to
// image/png directly.
type frameImage struct {
	frame rt.Frame
}

func (f frameImage) ColorModel() color.Model { return color.RGBA64Model }

func (f frameImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.frame.Width, f.frame.Height)
}

func (f frameImage) At(x, y int) color.Color {
	pixel := f.frame.Pixels[y*f.frame.Width+x]
	return &pixel
}

// cannedScene builds a small demonstration scene: a red sphere lit
// from above and to the left of the camera, with a large blue sphere
// standing in for a ground plane.
func cannedScene(w, h int) (*rt.Scene, error) {
	s := rt.New()

	cam := rt.Camera{
		Position:   rt.Vec3{},
		Resolution: rt.Resolution{Height: h, Width: w},
		Screen:     rt.ScreenVectors{ToScreen: rt.Vec3{Y: 1}, North: rt.Vec3{Z: 1}},
		Background: rt.RGB(0.05, 0.05, 0.08),
	}
	if err := s.RegisterCamera(cam); err != nil {
		return nil, fmt.Errorf("registering camera: %w", err)
	}

	light := rt.Light{
		Position:  rt.Vec3{X: -3, Y: 2, Z: 6},
		Ambient:   rt.RGB(0.2, 0.2, 0.2),
		Diffuse:   rt.RGB(1, 1, 1),
		Specular:  rt.RGB(1, 1, 1),
		Intensity: 1200,
	}
	if err := s.RegisterLight(light); err != nil {
		return nil, fmt.Errorf("registering light: %w", err)
	}

	ball := rt.Sphere{
		Centre:   rt.Vec3{Y: 6},
		Radius:   1.2,
		Ambient:  rt.RGB(0.2, 0, 0),
		Diffuse:  rt.RGB(0.8, 0.05, 0.05),
		Specular: rt.RGB(1, 1, 1),
		Shine:    60,
		Reflect:  0.3,
	}
	if err := s.RegisterSphere("ball", ball); err != nil {
		return nil, fmt.Errorf("registering sphere: %w", err)
	}

	floor := rt.Sphere{
		Centre:   rt.Vec3{Y: 6, Z: -1001.2},
		Radius:   1000,
		Ambient:  rt.RGB(0, 0.05, 0.1),
		Diffuse:  rt.RGB(0.1, 0.2, 0.4),
		Specular: rt.RGB(0.2, 0.2, 0.2),
		Shine:    10,
		Reflect:  0.1,
	}
	if err := s.RegisterSphere("floor", floor); err != nil {
		return nil, fmt.Errorf("registering floor: %w", err)
	}

	if err := s.SetMaxReflections(3); err != nil {
		return nil, fmt.Errorf("setting max reflections: %w", err)
	}
	return s, nil
}

func writeImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func main() {
	flag.Parse()
	if len(*outFile) == 0 {
		log.Fatal("--out_file is required")
	}

	s, err := cannedScene(*width, *height)
	if err != nil {
		log.Fatal(err)
	}

	frame, err := s.CaptureFrame(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	if err := writeImage(frameImage{frame: frame}, *outFile); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *outFile)
}
