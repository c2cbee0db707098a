package glfx

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
)

// lutSize is the number of entries of a LUT texture.
const lutSize = 256

var lutProgram = quadProgram("lut", lutFragmentShader, nil,
	sourceUniform(),
	UniformDesc{Name: "u_lut", Value: Prop("lut")},
)

// ToneCurve maps luminance in [0,1] to luminance in [0,1]. Func takes
// precedence over Samples. Samples are spread evenly over [0,1] and
// interpolated linearly, so []float32{0, 1} is the identity.
type ToneCurve struct {
	Samples []float32
	Func    func(float32) float32
}

// Sample evaluates the curve at x, clamped to [0,1].
func (c *ToneCurve) Sample(x float32) float32 {
	x = math32.Max(0, math32.Min(1, x))
	var y float32
	switch {
	case c.Func != nil:
		y = c.Func(x)
	case len(c.Samples) == 0:
		y = x
	case len(c.Samples) == 1:
		y = c.Samples[0]
	default:
		pos := x * float32(len(c.Samples)-1)
		i := int(pos)
		if i >= len(c.Samples)-1 {
			y = c.Samples[len(c.Samples)-1]
			break
		}
		frac := pos - float32(i)
		y = c.Samples[i]*(1-frac) + c.Samples[i+1]*frac
	}
	return math32.Max(0, math32.Min(1, y))
}

// curveKey is the shallow identity of a ToneCurve: the curve itself, its
// sample slice and its function.
type curveKey struct {
	curve   *ToneCurve
	samples *float32
	n       int
	fn      unsafe.Pointer
}

func keyOf(c *ToneCurve) curveKey {
	k := curveKey{curve: c, samples: unsafe.SliceData(c.Samples), n: len(c.Samples)}
	if c.Func != nil {
		// A func value is a pointer to its closure.
		k.fn = *(*unsafe.Pointer)(unsafe.Pointer(&c.Func))
	}
	return k
}

// table returns the curve sampled at lutSize evenly spaced points as bytes.
func (c *ToneCurve) table() []byte {
	t := make([]byte, lutSize)
	for i := range t {
		t[i] = byte(math32.Round(c.Sample(float32(i)/(lutSize-1)) * 255))
	}
	return t
}

// LUT maps the luminance of each pixel through Curve and rescales the color
// channels by new/old luminance, keeping hue.
//
// The curve is uploaded to a 256x1 texture that is rebuilt only when Curve
// points to a different ToneCurve, or the curve holds a different Samples
// slice or Func than on the previous run. Writing into the same Samples
// slice is not noticed. A LUT keeps that texture until Release and is shared
// by cloned pipelines.
type LUT struct {
	Curve *ToneCurve

	memo curveKey
	tex  *Texture
}

func (o *LUT) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: lut", ErrMissingSource)
	}
	if o.Curve == nil {
		return fmt.Errorf("%w: lut without curve", ErrUnsupportedValue)
	}
	if err := o.ensureTexture(ctx.Renderer); err != nil {
		return err
	}
	return drawWith(ctx, lutProgram, func(*RunContext) (Props, error) {
		return Props{"lut": o.tex}, nil
	})
}

func (o *LUT) ensureTexture(r *Renderer) error {
	if o.tex != nil && o.tex.r != r {
		o.Release()
	}
	key := keyOf(o.Curve)
	if o.tex != nil && o.memo == key {
		return nil
	}
	opts := []TextureOption{
		Size(lutSize, 1),
		WithFormat(FormatLuminance),
		WithFilter(FilterLinear),
		Pixels(o.Curve.table()),
	}
	if o.tex == nil {
		tex, err := r.NewTexture(opts...)
		if err != nil {
			return err
		}
		o.tex = tex
	} else if err := o.tex.Update(opts...); err != nil {
		return err
	}
	o.memo = key
	r.log.Debug("glfx: lut rebuilt")
	return nil
}

// Release deletes the cached curve texture.
func (o *LUT) Release() {
	if o.tex != nil {
		o.tex.Release()
	}
	o.tex, o.memo = nil, curveKey{}
}
