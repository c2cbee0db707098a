package glfx

import "fmt"

var modulateProgram = quadProgram("modulate", modulateFragmentShader, nil,
	sourceUniform(),
	UniformDesc{Name: "u_brightness", Value: Prop("brightness")},
	UniformDesc{Name: "u_saturation", Value: Prop("saturation")},
	UniformDesc{Name: "u_hue", Value: Prop("hue")},
	UniformDesc{Name: "u_lightness", Value: Prop("lightness")},
	UniformDesc{Name: "u_tint", Value: Prop("tint")},
)

// Modulate adjusts colors in hue/saturation/lightness space. Hue rotates by
// degrees, Lightness is added and clamped, Saturation scales the distance
// from the Rec.709 grey of the same luminance, and the result is scaled by
// Brightness and Tint.
//
// The zero value turns everything black; start from NewModulate.
type Modulate struct {
	Brightness float32
	Saturation float32
	Hue        float32
	Lightness  float32
	Tint       [3]float32
}

// NewModulate returns a Modulate that leaves colors unchanged.
func NewModulate() *Modulate {
	return &Modulate{Brightness: 1, Saturation: 1, Tint: [3]float32{1, 1, 1}}
}

func (o *Modulate) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: modulate", ErrMissingSource)
	}
	return drawWith(ctx, modulateProgram, func(*RunContext) (Props, error) {
		return Props{
			"brightness": o.Brightness,
			"saturation": o.Saturation,
			"hue":        o.Hue,
			"lightness":  o.Lightness,
			"tint":       o.Tint,
		}, nil
	})
}

var gammaProgram = quadProgram("gamma", gammaFragmentShader, nil,
	sourceUniform(),
	UniformDesc{Name: "u_in", Value: Prop("in")},
	UniformDesc{Name: "u_out", Value: Prop("out")},
)

// Gamma raises every color channel to Out/In. Both are clamped to at
// least 1e-4.
type Gamma struct {
	In, Out float32
}

func (o Gamma) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: gamma", ErrMissingSource)
	}
	return drawWith(ctx, gammaProgram, func(*RunContext) (Props, error) {
		return Props{"in": o.In, "out": o.Out}, nil
	})
}

var linearProgram = quadProgram("linear", linearFragmentShader, nil,
	sourceUniform(),
	UniformDesc{Name: "u_multiply", Value: Prop("multiply")},
	UniformDesc{Name: "u_add", Value: Prop("add")},
)

// Linear computes color*Multiply + Add and clamps the result.
type Linear struct {
	Multiply RGBA
	Add      RGBA
}

func (o Linear) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: linear", ErrMissingSource)
	}
	return drawWith(ctx, linearProgram, func(*RunContext) (Props, error) {
		return Props{"multiply": o.Multiply, "add": o.Add}, nil
	})
}

// Negate inverts the color channels and keeps alpha.
func Negate() Linear {
	return Linear{Multiply: RGBA{-1, -1, -1, 1}, Add: RGBA{1, 1, 1, 0}}
}

// Grayscale removes all saturation.
func Grayscale() *Modulate {
	m := NewModulate()
	m.Saturation = 0
	return m
}

// Tint multiplies the color channels by rgb.
func Tint(rgb [3]float32) Linear {
	return Linear{Multiply: RGBA{rgb[0], rgb[1], rgb[2], 1}}
}
