package glfx

import (
	"fmt"

	"github.com/go-theft-auto/glfx/gl"
)

// Props are the per-draw inputs a program resolves its uniform and
// attribute values from.
type Props map[string]any

// PropFunc computes a value from the props of a draw.
type PropFunc func(Props) any

// Prop returns a PropFunc reading props[name].
func Prop(name string) PropFunc {
	return func(p Props) any { return p[name] }
}

// UniformDesc declares a uniform. Value is either static or a PropFunc.
type UniformDesc struct {
	Name  string
	Value any
}

// AttributeDesc declares a vertex attribute. Value is an *Attribute or a
// PropFunc returning one.
type AttributeDesc struct {
	Name  string
	Value any
}

// Attribute describes where a vertex attribute is read from.
type Attribute struct {
	Buffer     *Buffer
	Size       int
	Type       ComponentType
	Normalized bool
	Stride     int
	Offset     int
}

// DrawDesc describes the draw call of a program.
type DrawDesc struct {
	Primitive Primitive
	// Count is the number of vertices or indices. Zero draws the four
	// vertices of the full-screen quad, or every index of Elements.
	Count int
	// Offset is the first vertex, or the first index when Elements is set.
	Offset int
	// Elements is nil, an index *Buffer or a PropFunc returning one.
	Elements  any
	IndexType IndexType
}

// BlendDesc enables blending with the given factors and equation. Src and
// Dst weight the color channels, SrcAlpha and DstAlpha the alpha channel.
// When both alpha factors are BlendZero, Src and Dst apply to alpha too.
type BlendDesc struct {
	Src, Dst           BlendFactor
	SrcAlpha, DstAlpha BlendFactor
	Equation           BlendEquation
}

func (b *BlendDesc) alphaFactors() (src, dst BlendFactor) {
	if b.SrcAlpha == BlendZero && b.DstAlpha == BlendZero {
		return b.Src, b.Dst
	}
	return b.SrcAlpha, b.DstAlpha
}

// ProgramDef is the static definition of a program. Renderers cache
// compiled programs by the address of the definition, so a definition is
// meant to be declared once and shared.
type ProgramDef struct {
	Name       string
	Vertex     string
	Fragment   string
	Uniforms   []UniformDesc
	Attributes []AttributeDesc
	Draw       DrawDesc
	// Blend is nil to draw with blending disabled.
	Blend *BlendDesc
}

type uniformLoc struct {
	desc UniformDesc
	loc  gl.Uniform
}

type attribLoc struct {
	desc AttributeDesc
	loc  int
}

// Program is a linked shader program with resolved binding locations.
type Program struct {
	r        *Renderer
	def      *ProgramDef
	obj      gl.Program
	uniforms []uniformLoc
	attribs  []attribLoc
	// bound caches the attribute last set up at each location.
	bound    map[int]*Attribute
	released bool
}

func newProgram(r *Renderer, def *ProgramDef) (*Program, error) {
	f := r.f
	vs, err := compileShader(f, def.Name, "vertex", gl.VERTEX_SHADER, def.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(f, def.Name, "fragment", gl.FRAGMENT_SHADER, def.Fragment)
	if err != nil {
		f.DeleteShader(vs)
		return nil, err
	}
	obj := f.CreateProgram()
	if !obj.Valid() {
		f.DeleteShader(vs)
		f.DeleteShader(fs)
		return nil, createErr("program "+def.Name, glErr(f))
	}
	f.AttachShader(obj, vs)
	f.AttachShader(obj, fs)
	f.LinkProgram(obj)
	f.DeleteShader(vs)
	f.DeleteShader(fs)
	if f.GetProgrami(obj, gl.LINK_STATUS) == gl.FALSE {
		log := f.GetProgramInfoLog(obj)
		f.DeleteProgram(obj)
		return nil, &ShaderError{Program: def.Name, Stage: "link", Log: log}
	}

	p := &Program{r: r, def: def, obj: obj, bound: make(map[int]*Attribute)}
	for _, u := range def.Uniforms {
		loc := f.GetUniformLocation(obj, u.Name)
		if !loc.Valid() {
			f.DeleteProgram(obj)
			return nil, fmt.Errorf("%w: uniform %q in program %q", ErrBindingNotFound, u.Name, def.Name)
		}
		p.uniforms = append(p.uniforms, uniformLoc{desc: u, loc: loc})
	}
	for _, a := range def.Attributes {
		loc := f.GetAttribLocation(obj, a.Name)
		if loc < 0 {
			f.DeleteProgram(obj)
			return nil, fmt.Errorf("%w: attribute %q in program %q", ErrBindingNotFound, a.Name, def.Name)
		}
		p.attribs = append(p.attribs, attribLoc{desc: a, loc: loc})
	}
	return p, nil
}

func compileShader(f gl.Functions, program, stage string, ty gl.Enum, src string) (gl.Shader, error) {
	s := f.CreateShader(ty)
	if !s.Valid() {
		return gl.Shader{}, createErr(stage+" shader", glErr(f))
	}
	f.ShaderSource(s, src)
	f.CompileShader(s)
	if f.GetShaderi(s, gl.COMPILE_STATUS) == gl.FALSE {
		log := f.GetShaderInfoLog(s)
		f.DeleteShader(s)
		return gl.Shader{}, &ShaderError{Program: program, Stage: stage, Log: log}
	}
	return s, nil
}

// Def returns the definition p was built from.
func (p *Program) Def() *ProgramDef {
	return p.def
}

// Handle returns the underlying GL object.
func (p *Program) Handle() gl.Program {
	return p.obj
}

// Uniform returns the location of a declared uniform.
func (p *Program) Uniform(name string) (gl.Uniform, bool) {
	for _, u := range p.uniforms {
		if u.desc.Name == name {
			return u.loc, true
		}
	}
	return gl.Uniform{V: -1}, false
}

// Attribute returns the location of a declared attribute.
func (p *Program) Attribute(name string) (int, bool) {
	for _, a := range p.attribs {
		if a.desc.Name == name {
			return a.loc, true
		}
	}
	return -1, false
}

// Use makes p the current program for the duration of fn and restores the
// previous program afterwards, also when fn fails. The bind is skipped when
// p is already current.
func (p *Program) Use(fn func() error) error {
	if p.released {
		return ErrReleased
	}
	f := p.r.f
	prev := gl.Program{V: uint(f.GetInteger(gl.CURRENT_PROGRAM))}
	if prev != p.obj {
		f.UseProgram(p.obj)
		defer f.UseProgram(prev)
	}
	return fn()
}

// Draw sets blend state, uniforms and attributes from props and issues the
// draw call into the currently bound framebuffer.
func (p *Program) Draw(props Props) error {
	return p.Use(func() error {
		restore := p.applyBlend()
		defer restore()
		if err := p.applyUniforms(props); err != nil {
			return err
		}
		if err := p.applyAttributes(props); err != nil {
			return err
		}
		return p.drawCall(props)
	})
}

func (p *Program) applyBlend() (restore func()) {
	f := p.r.f
	enabled := f.IsEnabled(gl.BLEND)
	src := gl.Enum(f.GetInteger(gl.BLEND_SRC_RGB))
	dst := gl.Enum(f.GetInteger(gl.BLEND_DST_RGB))
	srcA := gl.Enum(f.GetInteger(gl.BLEND_SRC_ALPHA))
	dstA := gl.Enum(f.GetInteger(gl.BLEND_DST_ALPHA))
	eq := gl.Enum(f.GetInteger(gl.BLEND_EQUATION_RGB))

	if b := p.def.Blend; b != nil {
		as, ad := b.alphaFactors()
		f.Enable(gl.BLEND)
		f.BlendFuncSeparate(b.Src.glEnum(), b.Dst.glEnum(), as.glEnum(), ad.glEnum())
		f.BlendEquation(b.Equation.glEnum())
	} else {
		f.Disable(gl.BLEND)
	}
	return func() {
		f.BlendFuncSeparate(src, dst, srcA, dstA)
		f.BlendEquation(eq)
		if enabled {
			f.Enable(gl.BLEND)
		} else {
			f.Disable(gl.BLEND)
		}
	}
}

// applyUniforms writes every declared uniform. Texture values take texture
// units in declaration order starting at 0.
func (p *Program) applyUniforms(props Props) error {
	f := p.r.f
	unit := 0
	for _, u := range p.uniforms {
		v := resolve(u.desc.Value, props)
		tex, ok := v.(*Texture)
		if !ok {
			if err := setUniform(f, u.loc, v); err != nil {
				return fmt.Errorf("uniform %q of %q: %w", u.desc.Name, p.def.Name, err)
			}
			continue
		}
		if tex == nil || tex.released {
			return fmt.Errorf("%w: texture uniform %q of %q", ErrMissingSource, u.desc.Name, p.def.Name)
		}
		if unit >= p.r.maxUnits {
			return fmt.Errorf("%w: texture uniform %q of %q needs unit %d, limit is %d",
				ErrUnsupportedValue, u.desc.Name, p.def.Name, unit, p.r.maxUnits)
		}
		tex.Bind(unit)
		f.Uniform1i(u.loc, unit)
		unit++
	}
	return nil
}

func setUniform(f gl.Functions, loc gl.Uniform, v any) error {
	switch v := v.(type) {
	case bool:
		f.Uniform1i(loc, boolInt(v))
	case int:
		f.Uniform1i(loc, v)
	case int32:
		f.Uniform1i(loc, int(v))
	case float32:
		f.Uniform1f(loc, v)
	case float64:
		f.Uniform1f(loc, float32(v))
	case RGBA:
		f.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case [2]float32:
		return setFloats(f, loc, v[:])
	case [3]float32:
		return setFloats(f, loc, v[:])
	case [4]float32:
		return setFloats(f, loc, v[:])
	case [9]float32:
		return setFloats(f, loc, v[:])
	case [16]float32:
		return setFloats(f, loc, v[:])
	case []float32:
		return setFloats(f, loc, v)
	case []float64:
		fv := make([]float32, len(v))
		for i := range v {
			fv[i] = float32(v[i])
		}
		return setFloats(f, loc, fv)
	default:
		return fmt.Errorf("%w: value of type %T", ErrUnsupportedValue, v)
	}
	return nil
}

func setFloats(f gl.Functions, loc gl.Uniform, v []float32) error {
	switch len(v) {
	case 1:
		f.Uniform1f(loc, v[0])
	case 2:
		f.Uniform2f(loc, v[0], v[1])
	case 3:
		f.Uniform3f(loc, v[0], v[1], v[2])
	case 4:
		f.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case 9:
		f.UniformMatrix3fv(loc, v)
	case 16:
		f.UniformMatrix4fv(loc, v)
	default:
		return fmt.Errorf("%w: %d components", ErrUnsupportedValue, len(v))
	}
	return nil
}

func (p *Program) applyAttributes(props Props) error {
	r := p.r
	if r.attribOwner != p {
		// Another program has set attribute pointers since our last draw.
		clear(p.bound)
		r.attribOwner = p
	}
	f := r.f
	for _, a := range p.attribs {
		attr, ok := resolve(a.desc.Value, props).(*Attribute)
		if !ok || attr == nil {
			return fmt.Errorf("%w: attribute %q of %q is not an *Attribute", ErrUnsupportedValue, a.desc.Name, p.def.Name)
		}
		if p.bound[a.loc] == attr {
			continue
		}
		if attr.Buffer == nil || attr.Buffer.target != VertexBuffer {
			return fmt.Errorf("%w: attribute %q of %q needs a vertex buffer", ErrUnsupportedValue, a.desc.Name, p.def.Name)
		}
		err := attr.Buffer.Use(func() error {
			f.VertexAttribPointer(gl.Attrib(a.loc), attr.Size, attr.Type.glEnum(), attr.Normalized, attr.Stride, attr.Offset)
			f.EnableVertexAttribArray(gl.Attrib(a.loc))
			return nil
		})
		if err != nil {
			return err
		}
		p.bound[a.loc] = attr
	}
	return nil
}

func (p *Program) drawCall(props Props) error {
	f := p.r.f
	d := p.def.Draw
	mode := d.Primitive.glEnum()
	var elems *Buffer
	if ev := resolve(d.Elements, props); ev != nil {
		b, ok := ev.(*Buffer)
		if !ok {
			return fmt.Errorf("%w: elements of %q are not a *Buffer", ErrUnsupportedValue, p.def.Name)
		}
		elems = b
	}
	if elems == nil {
		count := d.Count
		if count == 0 {
			count = len(quadVertices) / 2
		}
		f.DrawArrays(mode, d.Offset, count)
		p.r.draws++
		return nil
	}
	if elems.target != IndexBuffer {
		return fmt.Errorf("%w: %q draws with a %s buffer as elements", ErrUnsupportedValue, p.def.Name, elems.target)
	}
	size := d.IndexType.size()
	count := d.Count
	if count == 0 {
		count = elems.size/size - d.Offset
	}
	return elems.Use(func() error {
		f.DrawElements(mode, count, d.IndexType.glEnum(), d.Offset*size)
		p.r.draws++
		return nil
	})
}

func (p *Program) release() {
	if p.released {
		return
	}
	p.released = true
	p.r.f.DeleteProgram(p.obj)
	if p.r.attribOwner == p {
		p.r.attribOwner = nil
	}
}

func resolve(v any, props Props) any {
	switch fn := v.(type) {
	case PropFunc:
		return fn(props)
	case func(Props) any:
		return fn(props)
	default:
		return v
	}
}
