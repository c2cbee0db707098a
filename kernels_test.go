package glfx

import (
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glfx/backend/software"
)

// kernels registers Go versions of the built-in shaders.
func kernels() *software.Library {
	lib := software.NewLibrary()
	uv := []software.Varying{{Name: "v_uv", Size: 2}}

	lib.RegisterVertex(QuadVertexShader, software.VertexShader{
		Attributes: []string{"a_position"},
		Varyings:   uv,
		Main: func(v *software.Vertex) [4]float32 {
			p := v.Attrib("a_position")
			v.Out("v_uv", p[0]*0.5+0.5, p[1]*0.5+0.5)
			return [4]float32{p[0], p[1], 0, 1}
		},
	})
	fragment := func(src string, uniforms []string, main func(f *software.Fragment, u, v float32) [4]float32) {
		lib.RegisterFragment(src, software.FragmentShader{
			Uniforms: uniforms,
			Varyings: uv,
			Main: func(f *software.Fragment) [4]float32 {
				in := f.In("v_uv")
				return main(f, in[0], in[1])
			},
		})
	}

	fragment(copyFragmentShader, []string{"u_source"}, func(f *software.Fragment, u, v float32) [4]float32 {
		return f.Sample("u_source", u, v)
	})
	fragment(colorFragmentShader, []string{"u_color"}, func(f *software.Fragment, _, _ float32) [4]float32 {
		c := f.Vec("u_color")
		return [4]float32{c[0], c[1], c[2], c[3]}
	})
	fragment(blurFragmentShader, []string{"u_source", "u_step", "u_radius"}, func(f *software.Fragment, u, v float32) [4]float32 {
		step, r := f.Vec("u_step"), f.Float("u_radius")
		taps := int(math32.Ceil(2 * r))
		var sum [4]float32
		var total float32
		for i := -taps; i <= taps; i++ {
			x := float32(i)
			w := math32.Exp(-0.5 * x * x / (r * r))
			c := f.Sample("u_source", u+step[0]*x, v+step[1]*x)
			for k := range sum {
				sum[k] += c[k] * w
			}
			total += w
		}
		for k := range sum {
			sum[k] /= total
		}
		return sum
	})
	fragment(modulateFragmentShader,
		[]string{"u_source", "u_brightness", "u_saturation", "u_hue", "u_lightness", "u_tint"},
		func(f *software.Fragment, u, v float32) [4]float32 {
			c := f.Sample("u_source", u, v)
			h, s, l := rgbToHSL(c[0], c[1], c[2])
			h = fract(h + f.Float("u_hue")/360)
			l = clamp01(l + f.Float("u_lightness"))
			rgb := hslToRGB(h, s, l)
			lum := 0.2126*rgb[0] + 0.7152*rgb[1] + 0.0722*rgb[2]
			sat, bright, tint := f.Float("u_saturation"), f.Float("u_brightness"), f.Vec("u_tint")
			var out [4]float32
			for i := range rgb {
				m := clamp01(lum + (rgb[i]-lum)*sat)
				out[i] = clamp01(m * bright * tint[i])
			}
			out[3] = c[3]
			return out
		})
	fragment(gammaFragmentShader, []string{"u_source", "u_in", "u_out"}, func(f *software.Fragment, u, v float32) [4]float32 {
		c := f.Sample("u_source", u, v)
		e := math32.Max(f.Float("u_out"), 1e-4) / math32.Max(f.Float("u_in"), 1e-4)
		for i := 0; i < 3; i++ {
			c[i] = clamp01(math32.Pow(math32.Max(c[i], 0), e))
		}
		return c
	})
	fragment(linearFragmentShader, []string{"u_source", "u_multiply", "u_add"}, func(f *software.Fragment, u, v float32) [4]float32 {
		c := f.Sample("u_source", u, v)
		m, a := f.Vec("u_multiply"), f.Vec("u_add")
		for i := range c {
			c[i] = clamp01(c[i]*m[i] + a[i])
		}
		return c
	})
	fragment(lutFragmentShader, []string{"u_source", "u_lut"}, func(f *software.Fragment, u, v float32) [4]float32 {
		c := f.Sample("u_source", u, v)
		lum := 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
		mapped := f.Sample("u_lut", (lum*255+0.5)/256, 0.5)[0]
		var scale float32
		if lum > 1e-5 {
			scale = mapped / lum
		}
		for i := 0; i < 3; i++ {
			c[i] = clamp01(c[i] * scale)
		}
		return c
	})
	return lib
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}

func clamp01(x float32) float32 {
	return math32.Max(0, math32.Min(1, x))
}

func rgbToHSL(r, g, b float32) (h, s, l float32) {
	hi := math32.Max(r, math32.Max(g, b))
	lo := math32.Min(r, math32.Min(g, b))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}
	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hueToRGB(p, q, t float32) float32 {
	t = fract(t)
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func hslToRGB(h, s, l float32) [3]float32 {
	if s == 0 {
		return [3]float32{l, l, l}
	}
	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return [3]float32{hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)}
}

// newTestRenderer returns a renderer on a software device with the built-in
// kernels plus extra shaders registered by setup.
func newTestRenderer(t *testing.T, opts ...RendererOption) (*Renderer, *software.Device) {
	t.Helper()
	dev := software.New(1, 1, software.WithShaders(testLibrary))
	r, err := NewRenderer(dev, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r, dev
}

var testLibrary = kernels()

// solid returns a w x h image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// pattern returns a w x h image with a distinct color per pixel.
func pattern(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(40 + 200*x/max(w-1, 1)),
				G: uint8(30 + 180*y/max(h-1, 1)),
				B: uint8((x*37 + y*91) % 256),
				A: 255,
			})
		}
	}
	return img
}

func upload(t *testing.T, r *Renderer, img image.Image) *Texture {
	t.Helper()
	tex, err := r.NewTexture(Image(img))
	require.NoError(t, err)
	t.Cleanup(tex.Release)
	return tex
}

// readTexture reads tex back top row first.
func readTexture(t *testing.T, r *Renderer, tex *Texture) *image.NRGBA {
	t.Helper()
	fb, err := r.FramebufferFor(tex)
	require.NoError(t, err)
	defer fb.Release()
	img, err := fb.ReadPixels()
	require.NoError(t, err)
	return img
}

// assertNear checks every byte of got against want within tol.
func assertNear(t *testing.T, want, got *image.NRGBA, tol int) {
	t.Helper()
	require.Equal(t, want.Bounds(), got.Bounds())
	for i := range want.Pix {
		d := int(want.Pix[i]) - int(got.Pix[i])
		if d < -tol || d > tol {
			x, y := (i/4)%want.Bounds().Dx(), (i/4)/want.Bounds().Dx()
			assert.Failf(t, "pixel mismatch", "pixel (%d,%d) channel %d: want %d, got %d",
				x, y, i%4, want.Pix[i], got.Pix[i])
			return
		}
	}
}

// assertUniform checks that every pixel of img equals c within tol.
func assertUniform(t *testing.T, img *image.NRGBA, c color.NRGBA, tol int) {
	t.Helper()
	b := img.Bounds()
	assertNear(t, solid(b.Dx(), b.Dy(), c), img, tol)
}
