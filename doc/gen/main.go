// Command gen renders every operation over a generated test pattern and
// saves JPEG samples to doc/imgs/.
//
// Usage:
//
//	devbox shell
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/chewxy/math32"

	"github.com/go-theft-auto/glfx"
	"github.com/go-theft-auto/glfx/backend/opengl"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sample is a single rendered example.
type sample struct {
	name string           // filename without extension
	ops  []glfx.Operation // pipeline applied to the pattern
}

const patternSize = 256

func run() error {
	dev, err := opengl.NewDevice(glfx.DefaultContextConfig(glfx.SurfaceSize(800, 600)))
	if err != nil {
		return err
	}
	defer dev.Release()

	r, err := glfx.NewRenderer(dev)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer r.Release()

	src, err := r.NewTexture(glfx.Image(pattern(patternSize)))
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}
	defer src.Release()

	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	samples := buildSamples()
	for _, s := range samples {
		if err := capture(r, src, s, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		w, h := r.SurfaceSize()
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, w, h)
	}

	fmt.Printf("\nGenerated %d samples in %s/\n", len(samples), outDir)
	return nil
}

func capture(r *glfx.Renderer, src *glfx.Texture, s sample, outDir string) error {
	// Fresh pipeline per sample so framebuffers start at the pattern size.
	p := glfx.NewPipeline(r).Append(s.ops...)
	defer p.Release()
	if err := p.Present(src); err != nil {
		return err
	}
	for _, op := range s.ops {
		if lut, ok := op.(*glfx.LUT); ok {
			lut.Release()
		}
	}
	img, err := r.Snapshot()
	if err != nil {
		return err
	}
	return imgio.Save(filepath.Join(outDir, s.name+".jpg"), img, imgio.JPEGEncoder(90))
}

// pattern draws hue bands over a vertical lightness ramp with a grid.
func pattern(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x%32 == 0 || y%32 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
				continue
			}
			h := float32(x) / float32(size) * 6
			l := 1 - float32(y)/float32(size)
			c := [3]float32{
				math32.Abs(h-3) - 1,
				2 - math32.Abs(h-2),
				2 - math32.Abs(h-4),
			}
			var px [3]uint8
			for i, v := range c {
				v = math32.Max(0, math32.Min(1, v))
				px[i] = uint8(math32.Round((v*l + (1-l)*0.5) * 255))
			}
			img.SetNRGBA(x, y, color.NRGBA{R: px[0], G: px[1], B: px[2], A: 255})
		}
	}
	return img
}

// buildSamples returns the list of all samples to generate.
func buildSamples() []sample {
	warm := glfx.NewModulate()
	warm.Hue = 20
	warm.Tint = [3]float32{1, 0.9, 0.75}

	return []sample{
		{name: "copy", ops: []glfx.Operation{glfx.Copy{}}},
		{name: "resize", ops: []glfx.Operation{glfx.Resize{Width: 128}}},
		{name: "color", ops: []glfx.Operation{glfx.Color{Color: glfx.RGBA{0, 0.4, 1, 0.35}}}},
		{name: "blur", ops: glfx.GaussianBlur(6)},
		{name: "grayscale", ops: []glfx.Operation{glfx.Grayscale()}},
		{name: "modulate", ops: []glfx.Operation{warm}},
		{name: "gamma", ops: []glfx.Operation{glfx.Gamma{In: 1, Out: 2.2}}},
		{name: "negate", ops: []glfx.Operation{glfx.Negate()}},
		{name: "tint", ops: []glfx.Operation{glfx.Tint([3]float32{1, 0.6, 0.6})}},
		{name: "lut", ops: []glfx.Operation{&glfx.LUT{Curve: &glfx.ToneCurve{
			Func: func(x float32) float32 { return x * x * (3 - 2*x) },
		}}}},
		{name: "chain", ops: append([]glfx.Operation{
			glfx.Resize{Width: 192},
			glfx.Gamma{In: 1.4, Out: 1},
		}, glfx.GaussianBlur(2)...)},
	}
}
