package glfx

import (
	"fmt"

	"github.com/chewxy/math32"
)

// MaxBlurRadius is the largest radius a single blur pass honours. Larger
// radii are clamped.
const MaxBlurRadius = 32

var blurProgram = quadProgram("blur", blurFragmentShader, nil,
	sourceUniform(),
	UniformDesc{Name: "u_step", Value: Prop("step")},
	UniformDesc{Name: "u_radius", Value: Prop("radius")},
)

// Blur is one pass of a separable Gaussian blur along Direction, sampling
// up to 2*Radius texels on either side with weights exp(-0.5*i²/r²). A
// radius of 0 draws nothing.
type Blur struct {
	Radius    float32
	Direction [2]float32
}

// Horizontal and Vertical are the blur axes.
var (
	Horizontal = [2]float32{1, 0}
	Vertical   = [2]float32{0, 1}
)

// GaussianBlur returns the horizontal and vertical passes of a blur.
func GaussianBlur(radius float32) []Operation {
	return []Operation{
		&Blur{Radius: radius, Direction: Horizontal},
		&Blur{Radius: radius, Direction: Vertical},
	}
}

func (o *Blur) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: blur", ErrMissingSource)
	}
	if o.Radius <= 0 {
		return nil
	}
	n := math32.Hypot(o.Direction[0], o.Direction[1])
	if n == 0 {
		return fmt.Errorf("%w: blur direction is zero", ErrUnsupportedValue)
	}
	radius := math32.Min(o.Radius, MaxBlurRadius)
	return drawWith(ctx, blurProgram, func(ctx *RunContext) (Props, error) {
		w, h := ctx.Source.Size()
		return Props{
			"step":   [2]float32{o.Direction[0] / n / float32(w), o.Direction[1] / n / float32(h)},
			"radius": radius,
		}, nil
	})
}
