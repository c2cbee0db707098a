package software_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glfx/backend/software"
	"github.com/go-theft-auto/glfx/gl"
)

const (
	passVS  = "vs:pass"
	solidFS = "fs:solid"
	texFS   = "fs:tex"
)

func library() *software.Library {
	lib := software.NewLibrary()
	lib.RegisterVertex(passVS, software.VertexShader{
		Attributes: []string{"a_position"},
		Varyings:   []software.Varying{{Name: "v_uv", Size: 2}},
		Main: func(v *software.Vertex) [4]float32 {
			p := v.Attrib("a_position")
			v.Out("v_uv", p[0]*0.5+0.5, p[1]*0.5+0.5)
			return [4]float32{p[0], p[1], 0, 1}
		},
	})
	lib.RegisterFragment(solidFS, software.FragmentShader{
		Uniforms: []string{"u_color"},
		Main: func(f *software.Fragment) [4]float32 {
			c := f.Vec("u_color")
			return [4]float32{c[0], c[1], c[2], c[3]}
		},
	})
	lib.RegisterFragment(texFS, software.FragmentShader{
		Uniforms: []string{"u_tex"},
		Varyings: []software.Varying{{Name: "v_uv", Size: 2}},
		Main: func(f *software.Fragment) [4]float32 {
			uv := f.In("v_uv")
			return f.Sample("u_tex", uv[0], uv[1])
		},
	})
	return lib
}

func floats(v ...float32) []byte {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(x))
	}
	return b
}

func link(t *testing.T, f gl.Functions, vs, fs string) gl.Program {
	t.Helper()
	p := f.CreateProgram()
	for _, s := range []struct {
		ty  gl.Enum
		src string
	}{{gl.VERTEX_SHADER, vs}, {gl.FRAGMENT_SHADER, fs}} {
		sh := f.CreateShader(s.ty)
		f.ShaderSource(sh, s.src)
		f.CompileShader(sh)
		require.Equal(t, gl.TRUE, f.GetShaderi(sh, gl.COMPILE_STATUS), f.GetShaderInfoLog(sh))
		f.AttachShader(p, sh)
	}
	f.LinkProgram(p)
	require.Equal(t, gl.TRUE, f.GetProgrami(p, gl.LINK_STATUS), f.GetProgramInfoLog(p))
	return p
}

func quad(t *testing.T, f gl.Functions, p gl.Program) {
	t.Helper()
	b := f.CreateBuffer()
	f.BindBuffer(gl.ARRAY_BUFFER, b)
	f.BufferData(gl.ARRAY_BUFFER, 32, floats(-1, -1, 1, -1, -1, 1, 1, 1), gl.STATIC_DRAW)
	loc := f.GetAttribLocation(p, "a_position")
	require.GreaterOrEqual(t, loc, 0)
	f.VertexAttribPointer(gl.Attrib(loc), 2, gl.FLOAT, false, 0, 0)
	f.EnableVertexAttribArray(gl.Attrib(loc))
}

func TestQuadCoversEveryPixelOnce(t *testing.T) {
	dev := software.New(7, 5, software.WithShaders(library()))
	f := dev.Functions()
	p := link(t, f, passVS, solidFS)
	quad(t, f, p)
	f.UseProgram(p)
	f.Uniform4f(f.GetUniformLocation(p, "u_color"), 0.4, 0.4, 0.4, 0.4)

	// Additive blending doubles any pixel drawn twice.
	f.Enable(gl.BLEND)
	f.BlendFunc(gl.ONE, gl.ONE)
	f.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	require.Equal(t, gl.Enum(gl.NO_ERROR), f.GetError())

	img := dev.Surface()
	for i := 0; i < len(img.Pix); i++ {
		require.Equal(t, uint8(102), img.Pix[i], "byte %d", i)
	}
	assert.Equal(t, 1, dev.Stats().Draws)
}

func TestTextureUploadFlipAndSample(t *testing.T) {
	dev := software.New(2, 2, software.WithShaders(library()))
	f := dev.Functions()
	tex := f.CreateTexture()
	f.BindTexture(gl.TEXTURE_2D, tex)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	f.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	f.PixelStorei(gl.UNPACK_FLIP_Y_WEBGL, 1)
	// Top row red, bottom row blue.
	f.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, 2, 2, gl.RGB, gl.UNSIGNED_BYTE, []byte{
		255, 0, 0, 255, 0, 0,
		0, 0, 255, 0, 0, 255,
	})
	require.Equal(t, gl.Enum(gl.NO_ERROR), f.GetError())

	p := link(t, f, passVS, texFS)
	quad(t, f, p)
	f.UseProgram(p)
	f.Uniform1i(f.GetUniformLocation(p, "u_tex"), 0)
	f.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	img := dev.Surface()
	assert.Equal(t, []uint8{255, 0, 0, 255}, img.Pix[0:4], "top left")
	assert.Equal(t, []uint8{0, 0, 255, 255}, img.Pix[8:12], "bottom left")

	buf := make([]byte, 4)
	f.ReadPixels(0, 0, 1, 1, gl.RGBA, gl.UNSIGNED_BYTE, buf)
	assert.Equal(t, []byte{0, 0, 255, 255}, buf, "GL row 0 is the bottom")
}

func TestCompileUnregistered(t *testing.T) {
	dev := software.New(1, 1)
	f := dev.Functions()
	sh := f.CreateShader(gl.FRAGMENT_SHADER)
	f.ShaderSource(sh, "#version 410 core\nvoid main() {}\n")
	f.CompileShader(sh)
	assert.Equal(t, gl.FALSE, f.GetShaderi(sh, gl.COMPILE_STATUS))
	assert.Contains(t, f.GetShaderInfoLog(sh), "void main()")
}

func TestLinkVaryingMismatch(t *testing.T) {
	lib := library()
	lib.RegisterVertex("vs:bare", software.VertexShader{
		Attributes: []string{"a_position"},
		Main:       func(v *software.Vertex) [4]float32 { return v.Attrib("a_position") },
	})
	f := software.New(1, 1, software.WithShaders(lib)).Functions()
	p := f.CreateProgram()
	for _, s := range []struct {
		ty  gl.Enum
		src string
	}{{gl.VERTEX_SHADER, "vs:bare"}, {gl.FRAGMENT_SHADER, texFS}} {
		sh := f.CreateShader(s.ty)
		f.ShaderSource(sh, s.src)
		f.CompileShader(sh)
		f.AttachShader(p, sh)
	}
	f.LinkProgram(p)
	assert.Equal(t, gl.FALSE, f.GetProgrami(p, gl.LINK_STATUS))
	assert.Contains(t, f.GetProgramInfoLog(p), "v_uv")
}

func TestObjectLimit(t *testing.T) {
	dev := software.New(1, 1, software.WithLimits(software.Limits{MaxObjects: 2}))
	f := dev.Functions()
	a, b := f.CreateTexture(), f.CreateBuffer()
	require.True(t, a.Valid())
	require.True(t, b.Valid())
	assert.False(t, f.CreateFramebuffer().Valid())
	assert.Equal(t, gl.Enum(gl.OUT_OF_MEMORY), f.GetError())
	assert.Equal(t, gl.Enum(gl.NO_ERROR), f.GetError(), "error flag is cleared on read")

	f.DeleteTexture(a)
	assert.True(t, f.CreateFramebuffer().Valid())
	assert.Equal(t, 2, dev.Stats().Live)
}

func TestWrapModes(t *testing.T) {
	lib := library()
	// Stretches the texture coordinates to [0,2].
	lib.RegisterVertex("vs:double", software.VertexShader{
		Attributes: []string{"a_position"},
		Varyings:   []software.Varying{{Name: "v_uv", Size: 2}},
		Main: func(v *software.Vertex) [4]float32 {
			p := v.Attrib("a_position")
			v.Out("v_uv", p[0]+1, p[1]+1)
			return [4]float32{p[0], p[1], 0, 1}
		},
	})
	dev := software.New(4, 1, software.WithShaders(lib))
	f := dev.Functions()

	tex := f.CreateTexture()
	f.BindTexture(gl.TEXTURE_2D, tex)
	f.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	f.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, 2, 1, gl.RED, gl.UNSIGNED_BYTE, []byte{0, 255})

	p := link(t, f, "vs:double", texFS)
	quad(t, f, p)
	f.UseProgram(p)
	f.Uniform1i(f.GetUniformLocation(p, "u_tex"), 0)

	tests := []struct {
		wrap gl.Enum
		want []uint8
	}{
		{gl.CLAMP_TO_EDGE, []uint8{0, 255, 255, 255}},
		{gl.REPEAT, []uint8{0, 255, 0, 255}},
		{gl.MIRRORED_REPEAT, []uint8{0, 255, 255, 0}},
	}
	for _, tt := range tests {
		f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int(tt.wrap))
		f.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
		require.Equal(t, gl.Enum(gl.NO_ERROR), f.GetError())

		img := dev.Surface()
		got := make([]uint8, 4)
		for x := range got {
			got[x] = img.Pix[4*x]
		}
		assert.Equal(t, tt.want, got, "wrap %#x", uint(tt.wrap))
	}
}

func TestBlendFactors(t *testing.T) {
	dev := software.New(1, 1, software.WithShaders(library()))
	f := dev.Functions()
	p := link(t, f, passVS, solidFS)
	quad(t, f, p)
	f.UseProgram(p)

	f.ClearColor(0, 0, 1, 1)
	f.Clear(gl.COLOR_BUFFER_BIT)
	f.Uniform4f(f.GetUniformLocation(p, "u_color"), 1, 0, 0, 0.5)
	f.Enable(gl.BLEND)
	f.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	f.BlendEquation(gl.FUNC_ADD)
	f.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	img := dev.Surface()
	assert.InDelta(t, 128, int(img.Pix[0]), 1)
	assert.Equal(t, uint8(0), img.Pix[1])
	assert.InDelta(t, 128, int(img.Pix[2]), 1)
	assert.Equal(t, 1, dev.Stats().Clears)
}

func TestBlendFuncSeparate(t *testing.T) {
	dev := software.New(1, 1, software.WithShaders(library()))
	f := dev.Functions()
	p := link(t, f, passVS, solidFS)
	quad(t, f, p)
	f.UseProgram(p)

	f.ClearColor(1, 0, 0, 1)
	f.Clear(gl.COLOR_BUFFER_BIT)
	f.Uniform4f(f.GetUniformLocation(p, "u_color"), 0, 0, 1, 0.5)
	f.Enable(gl.BLEND)
	f.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	f.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	img := dev.Surface()
	assert.InDelta(t, 128, int(img.Pix[0]), 1)
	assert.InDelta(t, 128, int(img.Pix[2]), 1)
	assert.Equal(t, uint8(255), img.Pix[3])
	assert.Equal(t, gl.ONE, f.GetInteger(gl.BLEND_SRC_ALPHA))

	// BlendFunc sets the alpha factors too.
	f.BlendFunc(gl.ONE, gl.ZERO)
	assert.Equal(t, gl.ZERO, f.GetInteger(gl.BLEND_DST_ALPHA))
}
