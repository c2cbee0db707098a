package glfx

import "fmt"

// RunContext is what an Operation runs against.
type RunContext struct {
	Renderer *Renderer
	// Source is the input image; nil outside a pipeline.
	Source *Texture
	// Target receives the output.
	Target *Framebuffer
}

// Operation is one step of a pipeline.
type Operation interface {
	Run(ctx *RunContext) error
}

// OperationFunc adapts a function to an Operation.
type OperationFunc func(ctx *RunContext) error

func (f OperationFunc) Run(ctx *RunContext) error {
	return f(ctx)
}

// ProgramOperation draws the source into the target with a program. Props
// builds the per-draw props; the base props "source" (the source texture),
// "position" (the quad attribute) and "size" (source size in pixels) are
// filled in when missing.
type ProgramOperation struct {
	Def   *ProgramDef
	Props func(ctx *RunContext) (Props, error)
}

func (o *ProgramOperation) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: %s", ErrMissingSource, o.Def.Name)
	}
	return drawWith(ctx, o.Def, o.Props)
}

func drawWith(ctx *RunContext, def *ProgramDef, build func(*RunContext) (Props, error)) error {
	if ctx.Renderer == nil || ctx.Target == nil {
		return fmt.Errorf("%w: %s run without renderer or target", ErrSurfaceUnavailable, def.Name)
	}
	p, err := ctx.Renderer.Program(def)
	if err != nil {
		return err
	}
	props := Props{}
	if build != nil {
		if props, err = build(ctx); err != nil {
			return err
		}
	}
	fillBaseProps(ctx, props)
	return ctx.Target.Use(func() error {
		return p.Draw(props)
	})
}

func fillBaseProps(ctx *RunContext, props Props) {
	if _, ok := props["position"]; !ok {
		props["position"] = ctx.Renderer.QuadAttribute()
	}
	if ctx.Source == nil {
		return
	}
	if _, ok := props["source"]; !ok {
		props["source"] = ctx.Source
	}
	if _, ok := props["size"]; !ok {
		w, h := ctx.Source.Size()
		props["size"] = [2]float32{float32(w), float32(h)}
	}
}

// quadProgram declares a program drawing the quad with QuadVertexShader.
func quadProgram(name, fragment string, blend *BlendDesc, uniforms ...UniformDesc) *ProgramDef {
	return &ProgramDef{
		Name:     name,
		Vertex:   QuadVertexShader,
		Fragment: fragment,
		Uniforms: uniforms,
		Attributes: []AttributeDesc{
			{Name: "a_position", Value: Prop("position")},
		},
		Draw:  DrawDesc{Primitive: TriangleStrip, Count: 4},
		Blend: blend,
	}
}

func sourceUniform() UniformDesc {
	return UniformDesc{Name: "u_source", Value: Prop("source")}
}
