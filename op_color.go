package glfx

var colorProgram = quadProgram("color", colorFragmentShader,
	&BlendDesc{
		Src:      BlendSrcAlpha,
		Dst:      BlendOneMinusSrcAlpha,
		SrcAlpha: BlendOne,
		DstAlpha: BlendOneMinusSrcAlpha,
		Equation: BlendAdd,
	},
	UniformDesc{Name: "u_color", Value: Prop("color")},
)

// Color composites a constant straight-alpha color over the source. An
// opaque color overwrites the target entirely. Without a source the color
// is composited over transparent black.
type Color struct {
	Color RGBA
}

func (o Color) Run(ctx *RunContext) error {
	var err error
	if ctx.Source != nil {
		err = drawWith(ctx, copyProgram, nil)
	} else {
		err = ctx.Target.Clear(Transparent)
	}
	if err != nil {
		return err
	}
	return drawWith(ctx, colorProgram, func(*RunContext) (Props, error) {
		return Props{"color": o.Color}, nil
	})
}
