package glfx

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glfx/backend/software"
	"github.com/go-theft-auto/glfx/gl"
)

const (
	twoTexturesFragment  = "// test: red from u_a, green from u_b\n"
	strayVaryingFragment = "// test: reads a varying nobody writes\n"
)

func init() {
	uv := []software.Varying{{Name: "v_uv", Size: 2}}
	testLibrary.RegisterFragment(twoTexturesFragment, software.FragmentShader{
		Uniforms: []string{"u_a", "u_b"},
		Varyings: uv,
		Main: func(f *software.Fragment) [4]float32 {
			in := f.In("v_uv")
			a, b := f.Sample("u_a", in[0], in[1]), f.Sample("u_b", in[0], in[1])
			return [4]float32{a[0], b[1], 0, 1}
		},
	})
	testLibrary.RegisterFragment(strayVaryingFragment, software.FragmentShader{
		Varyings: []software.Varying{{Name: "v_stray", Size: 3}},
		Main:     func(*software.Fragment) [4]float32 { return [4]float32{} },
	})
}

// countingDevice counts selected calls into the software context.
type countingDevice struct {
	*software.Device
	f *countingFunctions
}

func newCountingDevice() *countingDevice {
	dev := software.New(1, 1, software.WithShaders(testLibrary))
	return &countingDevice{Device: dev, f: &countingFunctions{Functions: dev.Functions()}}
}

func (d *countingDevice) Functions() gl.Functions {
	return d.f
}

type countingFunctions struct {
	gl.Functions
	pointers int
	uses     int
	ints     []int
}

func (c *countingFunctions) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	c.pointers++
	c.Functions.VertexAttribPointer(dst, size, ty, normalized, stride, offset)
}

func (c *countingFunctions) UseProgram(p gl.Program) {
	c.uses++
	c.Functions.UseProgram(p)
}

func (c *countingFunctions) Uniform1i(dst gl.Uniform, v int) {
	c.ints = append(c.ints, v)
	c.Functions.Uniform1i(dst, v)
}

func TestProgram_CompileFailure(t *testing.T) {
	r, dev := newTestRenderer(t)
	live := dev.Stats().Live

	def := quadProgram("broken", "void main() { syntax error", nil)
	_, err := r.Program(def)

	require.ErrorIs(t, err, ErrShaderCompile)
	var serr *ShaderError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "fragment", serr.Stage)
	assert.Equal(t, "broken", serr.Program)
	assert.NotEmpty(t, serr.Log)
	assert.Equal(t, live, dev.Stats().Live)
	assert.Equal(t, 0, r.Programs())
}

func TestProgram_LinkFailure(t *testing.T) {
	r, dev := newTestRenderer(t)
	live := dev.Stats().Live

	_, err := r.Program(quadProgram("stray", strayVaryingFragment, nil))

	require.ErrorIs(t, err, ErrProgramLink)
	var serr *ShaderError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "link", serr.Stage)
	assert.Contains(t, serr.Log, "v_stray")
	assert.Equal(t, live, dev.Stats().Live)
}

func TestProgram_MissingBinding(t *testing.T) {
	r, dev := newTestRenderer(t)
	live := dev.Stats().Live

	_, err := r.Program(quadProgram("no-uniform", copyFragmentShader, nil,
		UniformDesc{Name: "u_nope", Value: float32(1)}))
	assert.ErrorIs(t, err, ErrBindingNotFound)

	def := quadProgram("no-attribute", copyFragmentShader, nil, sourceUniform())
	def.Attributes = append(def.Attributes, AttributeDesc{Name: "a_nope", Value: Prop("position")})
	_, err = r.Program(def)
	assert.ErrorIs(t, err, ErrBindingNotFound)

	assert.Equal(t, live, dev.Stats().Live)
}

func TestProgram_CacheByIdentity(t *testing.T) {
	r, _ := newTestRenderer(t)

	p1, err := r.Program(copyProgram)
	require.NoError(t, err)
	p2, err := r.Program(copyProgram)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Same(t, copyProgram, p1.Def())

	same := *copyProgram
	p3, err := r.Program(&same)
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 2, r.Programs())

	r.ReleaseProgram(&same)
	r.ReleaseProgram(&same)
	assert.Equal(t, 1, r.Programs())
	assert.ErrorIs(t, p3.Use(func() error { return nil }), ErrReleased)
}

func TestProgram_Locations(t *testing.T) {
	r, _ := newTestRenderer(t)
	p, err := r.Program(blurProgram)
	require.NoError(t, err)

	for _, name := range []string{"u_source", "u_step", "u_radius"} {
		loc, ok := p.Uniform(name)
		assert.True(t, ok, name)
		assert.True(t, loc.Valid(), name)
	}
	_, ok := p.Uniform("u_missing")
	assert.False(t, ok)

	loc, ok := p.Attribute("a_position")
	assert.True(t, ok)
	assert.GreaterOrEqual(t, loc, 0)
	_, ok = p.Attribute("a_missing")
	assert.False(t, ok)
}

func TestProgram_TextureUnitsInDeclarationOrder(t *testing.T) {
	dev := newCountingDevice()
	r, err := NewRenderer(dev)
	require.NoError(t, err)
	defer r.Release()

	a := upload(t, r, solid(2, 2, color.NRGBA{255, 0, 0, 255}))
	b := upload(t, r, solid(2, 2, color.NRGBA{0, 255, 0, 255}))
	fb, err := r.NewFramebuffer(2, 2)
	require.NoError(t, err)
	defer fb.Release()

	def := quadProgram("two", twoTexturesFragment, nil,
		UniformDesc{Name: "u_a", Value: Prop("a")},
		UniformDesc{Name: "u_b", Value: Prop("b")},
	)
	p, err := r.Program(def)
	require.NoError(t, err)

	dev.f.ints = nil
	err = fb.Use(func() error {
		return p.Draw(Props{"a": a, "b": b, "position": r.QuadAttribute()})
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, dev.f.ints)
	assertUniform(t, readTexture(t, r, fb.Texture()), color.NRGBA{255, 255, 0, 255}, 0)
}

func TestProgram_TextureUnitLimit(t *testing.T) {
	r, _ := newTestRenderer(t, WithTextureUnits(1))

	a := upload(t, r, solid(1, 1, color.NRGBA{255, 0, 0, 255}))
	fb, err := r.NewFramebuffer(1, 1)
	require.NoError(t, err)
	defer fb.Release()

	p, err := r.Program(quadProgram("two", twoTexturesFragment, nil,
		UniformDesc{Name: "u_a", Value: a},
		UniformDesc{Name: "u_b", Value: a},
	))
	require.NoError(t, err)
	err = fb.Use(func() error {
		return p.Draw(Props{"position": r.QuadAttribute()})
	})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
	assert.Zero(t, r.Draws())
}

func TestProgram_UnsupportedUniformValues(t *testing.T) {
	r, _ := newTestRenderer(t)
	fb, err := r.NewFramebuffer(1, 1)
	require.NoError(t, err)
	defer fb.Release()

	for _, v := range []any{[]float32{1, 2, 3, 4, 5}, "red", nil, struct{}{}} {
		def := quadProgram("bad-uniform", colorFragmentShader, nil, UniformDesc{Name: "u_color", Value: v})
		p, err := r.Program(def)
		require.NoError(t, err)
		err = fb.Use(func() error {
			return p.Draw(Props{"position": r.QuadAttribute()})
		})
		assert.ErrorIs(t, err, ErrUnsupportedValue, "%T", v)
		r.ReleaseProgram(def)
	}

	// A texture uniform without a texture.
	p, err := r.Program(copyProgram)
	require.NoError(t, err)
	err = fb.Use(func() error {
		return p.Draw(Props{"position": r.QuadAttribute(), "source": (*Texture)(nil)})
	})
	assert.ErrorIs(t, err, ErrMissingSource)
}

func TestProgram_AttributeSetupIsCached(t *testing.T) {
	dev := newCountingDevice()
	r, err := NewRenderer(dev)
	require.NoError(t, err)
	defer r.Release()

	src := upload(t, r, solid(2, 2, color.NRGBA{10, 20, 30, 255}))
	fb, err := r.NewFramebuffer(2, 2)
	require.NoError(t, err)
	defer fb.Release()
	ctx := &RunContext{Renderer: r, Source: src, Target: fb}

	require.NoError(t, Copy{}.Run(ctx))
	assert.Equal(t, 1, dev.f.pointers)
	require.NoError(t, Copy{}.Run(ctx))
	assert.Equal(t, 1, dev.f.pointers, "same program and attribute")

	require.NoError(t, Gamma{In: 1, Out: 1}.Run(ctx))
	assert.Equal(t, 2, dev.f.pointers)
	require.NoError(t, Copy{}.Run(ctx))
	assert.Equal(t, 3, dev.f.pointers, "another program drew in between")

	// A fresh attribute value is set up again.
	p, err := r.Program(copyProgram)
	require.NoError(t, err)
	err = fb.Use(func() error {
		return p.Draw(Props{"source": src, "position": &Attribute{Buffer: r.Quad(), Size: 2, Type: TypeFloat}})
	})
	require.NoError(t, err)
	assert.Equal(t, 4, dev.f.pointers)
}

func TestProgram_UseSkipsRedundantBind(t *testing.T) {
	dev := newCountingDevice()
	r, err := NewRenderer(dev)
	require.NoError(t, err)
	defer r.Release()

	p, err := r.Program(copyProgram)
	require.NoError(t, err)
	f := r.Functions()

	dev.f.uses = 0
	err = p.Use(func() error {
		assert.Equal(t, int(p.Handle().V), f.GetInteger(gl.CURRENT_PROGRAM))
		return p.Use(func() error { return nil })
	})
	require.NoError(t, err)
	assert.Equal(t, 2, dev.f.uses, "bind and restore only")
	assert.Equal(t, 0, f.GetInteger(gl.CURRENT_PROGRAM))
}

func TestProgram_IndexedDraw(t *testing.T) {
	r, _ := newTestRenderer(t)

	idx, err := r.NewBuffer(Target(IndexBuffer), Data([]uint16{0, 1, 2, 2, 1, 3}))
	require.NoError(t, err)
	defer idx.Release()

	def := quadProgram("indexed", copyFragmentShader, nil, sourceUniform())
	def.Draw = DrawDesc{Primitive: Triangles, Elements: Prop("elements"), IndexType: IndexUint16}

	src := pattern(3, 3)
	tex := upload(t, r, src)
	fb, err := r.NewFramebuffer(3, 3)
	require.NoError(t, err)
	defer fb.Release()

	ctx := &RunContext{Renderer: r, Source: tex, Target: fb}
	err = drawWith(ctx, def, func(*RunContext) (Props, error) {
		return Props{"elements": idx}, nil
	})
	require.NoError(t, err)
	assertNear(t, src, readTexture(t, r, fb.Texture()), 1)

	// A vertex buffer is not an element buffer.
	err = drawWith(ctx, def, func(*RunContext) (Props, error) {
		return Props{"elements": r.Quad()}, nil
	})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
	err = drawWith(ctx, def, func(*RunContext) (Props, error) {
		return Props{"elements": []uint16{0, 1, 2}}, nil
	})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestProgram_BlendStateRestored(t *testing.T) {
	r, _ := newTestRenderer(t)
	f := r.Functions()
	fb, err := r.NewFramebuffer(1, 1)
	require.NoError(t, err)
	defer fb.Release()

	f.Enable(gl.BLEND)
	f.BlendFuncSeparate(gl.ONE, gl.ONE, gl.ZERO, gl.DST_ALPHA)
	require.NoError(t, Color{Color: RGBA{0, 0, 1, 0.5}}.Run(&RunContext{Renderer: r, Target: fb}))

	assert.True(t, f.IsEnabled(gl.BLEND))
	assert.Equal(t, gl.ONE, f.GetInteger(gl.BLEND_SRC_RGB))
	assert.Equal(t, gl.ONE, f.GetInteger(gl.BLEND_DST_RGB))
	assert.Equal(t, gl.ZERO, f.GetInteger(gl.BLEND_SRC_ALPHA))
	assert.Equal(t, gl.DST_ALPHA, f.GetInteger(gl.BLEND_DST_ALPHA))
	f.Disable(gl.BLEND)
}
