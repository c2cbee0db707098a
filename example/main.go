// Example applies a chain of glfx operations to an image file and writes
// the result.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/ -in photo.jpg -out out.png -resize-width 640 -saturation 0.5 -blur 2
//
// The example creates a hidden GLFW window, renders the pipeline with the
// OpenGL backend and reads the surface back.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-theft-auto/glfx"
	"github.com/go-theft-auto/glfx/backend/opengl"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	app := &cli.App{
		Name:  "glfx-example",
		Usage: "apply GPU image operations to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "input image (png, jpeg, bmp, tiff, webp)", Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output image; the extension picks the encoding", Value: "out.png"},
			&cli.IntFlag{Name: "resize-width", Usage: "output width, 0 keeps the aspect ratio"},
			&cli.IntFlag{Name: "resize-height", Usage: "output height, 0 keeps the aspect ratio"},
			&cli.Float64Flag{Name: "brightness", Value: 1},
			&cli.Float64Flag{Name: "saturation", Value: 1},
			&cli.Float64Flag{Name: "hue", Usage: "hue rotation in degrees"},
			&cli.Float64Flag{Name: "lightness"},
			&cli.Float64Flag{Name: "gamma", Usage: "display gamma; values above 1 brighten", Value: 1},
			&cli.StringFlag{Name: "curve", Usage: "tone curve samples, e.g. 0,0.2,1"},
			&cli.BoolFlag{Name: "negate"},
			&cli.StringFlag{Name: "tint", Usage: "r,g,b multipliers"},
			&cli.Float64Flag{Name: "blur", Usage: "gaussian blur radius in pixels"},
			&cli.StringFlag{Name: "overlay", Usage: "r,g,b,a color composited on top"},
			&cli.BoolFlag{Name: "antialias"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log at debug level"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		glfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	enc, err := glfx.ParseEncoding(filepath.Ext(c.String("out")))
	if err != nil {
		return err
	}
	img, err := imgio.Open(c.String("in"))
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	ops, err := operations(c)
	if err != nil {
		return err
	}

	dev, err := opengl.NewDevice(glfx.DefaultContextConfig(
		glfx.Antialias(c.Bool("antialias")),
	))
	if err != nil {
		return err
	}
	defer dev.Release()

	r, err := glfx.NewRenderer(dev)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer r.Release()

	src, err := r.NewTexture(glfx.Image(img))
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer src.Release()

	p := glfx.NewPipeline(r).Append(ops...)
	defer p.Release()
	if err := p.Present(src); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	f, err := os.Create(c.String("out"))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := r.Encode(f, enc); err != nil {
		return fmt.Errorf("encode %s: %w", enc, err)
	}
	w, h := r.SurfaceSize()
	fmt.Printf("%s: %dx%d, %d operations, %d draws\n", c.String("out"), w, h, p.Len(), r.Draws())
	return f.Close()
}

func operations(c *cli.Context) ([]glfx.Operation, error) {
	var ops []glfx.Operation
	if w, h := c.Int("resize-width"), c.Int("resize-height"); w > 0 || h > 0 {
		ops = append(ops, glfx.Resize{Width: w, Height: h})
	}
	if c.IsSet("brightness") || c.IsSet("saturation") || c.IsSet("hue") || c.IsSet("lightness") {
		m := glfx.NewModulate()
		m.Brightness = float32(c.Float64("brightness"))
		m.Saturation = float32(c.Float64("saturation"))
		m.Hue = float32(c.Float64("hue"))
		m.Lightness = float32(c.Float64("lightness"))
		ops = append(ops, m)
	}
	if g := c.Float64("gamma"); g != 1 {
		ops = append(ops, glfx.Gamma{In: float32(g), Out: 1})
	}
	if s := c.String("curve"); s != "" {
		samples, err := parseFloats(s, -1)
		if err != nil {
			return nil, fmt.Errorf("curve: %w", err)
		}
		ops = append(ops, &glfx.LUT{Curve: &glfx.ToneCurve{Samples: samples}})
	}
	if c.Bool("negate") {
		ops = append(ops, glfx.Negate())
	}
	if s := c.String("tint"); s != "" {
		v, err := parseFloats(s, 3)
		if err != nil {
			return nil, fmt.Errorf("tint: %w", err)
		}
		ops = append(ops, glfx.Tint([3]float32{v[0], v[1], v[2]}))
	}
	if r := c.Float64("blur"); r > 0 {
		ops = append(ops, glfx.GaussianBlur(float32(r))...)
	}
	if s := c.String("overlay"); s != "" {
		v, err := parseFloats(s, 4)
		if err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
		ops = append(ops, glfx.Color{Color: glfx.RGBA{v[0], v[1], v[2], v[3]}})
	}
	return ops, nil
}

// parseFloats parses a comma separated list; n < 0 accepts any length.
func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if n >= 0 && len(parts) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(parts))
	}
	out := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
