// Package opengl implements the glfx device on desktop OpenGL 4.1 through
// go-gl, with a hidden GLFW window providing the context and the surface.
package opengl

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	glfxgl "github.com/go-theft-auto/glfx/gl"
)

// Functions implements glfx's gl.Functions on the current OpenGL context.
//
// Desktop GL has no UNPACK_FLIP_Y; the flag is tracked here and applied by
// flipping rows in TexImage2D.
type Functions struct {
	flipY       bool
	unpackAlign int
}

var _ glfxgl.Functions = (*Functions)(nil)

// NewFunctions returns the entry points of the context current on the
// calling thread. gl.Init must have been called.
func NewFunctions() *Functions {
	return &Functions{unpackAlign: 4}
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (f *Functions) ActiveTexture(texture glfxgl.Enum) {
	gl.ActiveTexture(uint32(texture))
}

func (f *Functions) AttachShader(p glfxgl.Program, s glfxgl.Shader) {
	gl.AttachShader(uint32(p.V), uint32(s.V))
}

func (f *Functions) BindBuffer(target glfxgl.Enum, b glfxgl.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b.V))
}

func (f *Functions) BindFramebuffer(target glfxgl.Enum, fb glfxgl.Framebuffer) {
	gl.BindFramebuffer(uint32(target), uint32(fb.V))
}

func (f *Functions) BindTexture(target glfxgl.Enum, t glfxgl.Texture) {
	gl.BindTexture(uint32(target), uint32(t.V))
}

func (f *Functions) BindVertexArray(a glfxgl.VertexArray) {
	gl.BindVertexArray(uint32(a.V))
}

func (f *Functions) BlendEquation(mode glfxgl.Enum) {
	gl.BlendEquation(uint32(mode))
}

func (f *Functions) BlendFunc(sfactor, dfactor glfxgl.Enum) {
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (f *Functions) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA glfxgl.Enum) {
	gl.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcA), uint32(dstA))
}

func (f *Functions) BufferData(target glfxgl.Enum, size int, data []byte, usage glfxgl.Enum) {
	gl.BufferData(uint32(target), size, ptr(data), uint32(usage))
}

func (f *Functions) CheckFramebufferStatus(target glfxgl.Enum) glfxgl.Enum {
	return glfxgl.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (f *Functions) Clear(mask glfxgl.Enum) {
	gl.Clear(uint32(mask))
}

func (f *Functions) ClearColor(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
}

func (f *Functions) CompileShader(s glfxgl.Shader) {
	gl.CompileShader(uint32(s.V))
}

func (f *Functions) CreateBuffer() glfxgl.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	return glfxgl.Buffer{V: uint(id)}
}

func (f *Functions) CreateFramebuffer() glfxgl.Framebuffer {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return glfxgl.Framebuffer{V: uint(id)}
}

func (f *Functions) CreateProgram() glfxgl.Program {
	return glfxgl.Program{V: uint(gl.CreateProgram())}
}

func (f *Functions) CreateShader(ty glfxgl.Enum) glfxgl.Shader {
	return glfxgl.Shader{V: uint(gl.CreateShader(uint32(ty)))}
}

func (f *Functions) CreateTexture() glfxgl.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	return glfxgl.Texture{V: uint(id)}
}

func (f *Functions) CreateVertexArray() glfxgl.VertexArray {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return glfxgl.VertexArray{V: uint(id)}
}

func (f *Functions) DeleteBuffer(b glfxgl.Buffer) {
	id := uint32(b.V)
	gl.DeleteBuffers(1, &id)
}

func (f *Functions) DeleteFramebuffer(fb glfxgl.Framebuffer) {
	id := uint32(fb.V)
	gl.DeleteFramebuffers(1, &id)
}

func (f *Functions) DeleteProgram(p glfxgl.Program) {
	gl.DeleteProgram(uint32(p.V))
}

func (f *Functions) DeleteShader(s glfxgl.Shader) {
	gl.DeleteShader(uint32(s.V))
}

func (f *Functions) DeleteTexture(t glfxgl.Texture) {
	id := uint32(t.V)
	gl.DeleteTextures(1, &id)
}

func (f *Functions) DeleteVertexArray(a glfxgl.VertexArray) {
	id := uint32(a.V)
	gl.DeleteVertexArrays(1, &id)
}

func (f *Functions) Disable(cap glfxgl.Enum) {
	gl.Disable(uint32(cap))
}

func (f *Functions) DrawArrays(mode glfxgl.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (f *Functions) DrawElements(mode glfxgl.Enum, count int, ty glfxgl.Enum, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), int32(count), uint32(ty), uintptr(offset))
}

func (f *Functions) Enable(cap glfxgl.Enum) {
	gl.Enable(uint32(cap))
}

func (f *Functions) EnableVertexAttribArray(a glfxgl.Attrib) {
	gl.EnableVertexAttribArray(uint32(a))
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget glfxgl.Enum, t glfxgl.Texture, level int) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t.V), int32(level))
}

func (f *Functions) GetAttribLocation(p glfxgl.Program, name string) int {
	return int(gl.GetAttribLocation(uint32(p.V), gl.Str(name+"\x00")))
}

func (f *Functions) GetError() glfxgl.Enum {
	return glfxgl.Enum(gl.GetError())
}

func (f *Functions) GetInteger(pname glfxgl.Enum) int {
	switch pname {
	case glfxgl.UNPACK_FLIP_Y_WEBGL:
		if f.flipY {
			return 1
		}
		return 0
	case glfxgl.UNPACK_ALIGNMENT:
		return f.unpackAlign
	}
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetInteger4(pname glfxgl.Enum) [4]int {
	var v [4]int32
	gl.GetIntegerv(uint32(pname), &v[0])
	return [4]int{int(v[0]), int(v[1]), int(v[2]), int(v[3])}
}

func (f *Functions) GetProgrami(p glfxgl.Program, pname glfxgl.Enum) int {
	var v int32
	gl.GetProgramiv(uint32(p.V), uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetProgramInfoLog(p glfxgl.Program) string {
	n := f.GetProgrami(p, glfxgl.INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	log := make([]byte, n+1)
	gl.GetProgramInfoLog(uint32(p.V), int32(n), nil, &log[0])
	return strings.TrimRight(string(log), "\x00\n")
}

func (f *Functions) GetShaderi(s glfxgl.Shader, pname glfxgl.Enum) int {
	var v int32
	gl.GetShaderiv(uint32(s.V), uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetShaderInfoLog(s glfxgl.Shader) string {
	n := f.GetShaderi(s, glfxgl.INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	log := make([]byte, n+1)
	gl.GetShaderInfoLog(uint32(s.V), int32(n), nil, &log[0])
	return strings.TrimRight(string(log), "\x00\n")
}

func (f *Functions) GetUniformLocation(p glfxgl.Program, name string) glfxgl.Uniform {
	return glfxgl.Uniform{V: int(gl.GetUniformLocation(uint32(p.V), gl.Str(name+"\x00")))}
}

func (f *Functions) IsEnabled(cap glfxgl.Enum) bool {
	return gl.IsEnabled(uint32(cap))
}

func (f *Functions) LinkProgram(p glfxgl.Program) {
	gl.LinkProgram(uint32(p.V))
}

func (f *Functions) PixelStorei(pname glfxgl.Enum, param int) {
	switch pname {
	case glfxgl.UNPACK_FLIP_Y_WEBGL:
		f.flipY = param != 0
		return
	case glfxgl.UNPACK_ALIGNMENT:
		f.unpackAlign = param
	}
	gl.PixelStorei(uint32(pname), int32(param))
}

func (f *Functions) ReadPixels(x, y, width, height int, format, ty glfxgl.Enum, data []byte) {
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) ShaderSource(s glfxgl.Shader, src string) {
	csource, free := gl.Strs(src + "\x00")
	gl.ShaderSource(uint32(s.V), 1, csource, nil)
	free()
}

func (f *Functions) TexImage2D(target glfxgl.Enum, level int, internalFormat glfxgl.Enum, width, height int, format, ty glfxgl.Enum, data []byte) {
	if f.flipY && len(data) > 0 {
		data = flipRows(data, width, height, format, ty, f.unpackAlign)
	}
	gl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0,
		uint32(format), uint32(ty), ptr(data))
}

// flipRows returns a copy of data with its rows in reverse order.
func flipRows(data []byte, width, height int, format, ty glfxgl.Enum, align int) []byte {
	if height <= 1 {
		return data
	}
	row := width * channels(format) * componentSize(ty)
	stride := (row + align - 1) / align * align
	if row == 0 || len(data) < stride*(height-1)+row {
		return data
	}
	out := make([]byte, len(data))
	for y := 0; y < height; y++ {
		dst := (height - 1 - y) * stride
		copy(out[dst:dst+row], data[y*stride:y*stride+row])
	}
	return out
}

func channels(format glfxgl.Enum) int {
	switch format {
	case glfxgl.RGBA:
		return 4
	case glfxgl.RGB:
		return 3
	case glfxgl.RED:
		return 1
	}
	return 0
}

func componentSize(ty glfxgl.Enum) int {
	switch ty {
	case glfxgl.UNSIGNED_BYTE, glfxgl.BYTE:
		return 1
	case glfxgl.UNSIGNED_SHORT, glfxgl.SHORT:
		return 2
	case glfxgl.FLOAT, glfxgl.UNSIGNED_INT:
		return 4
	}
	return 0
}

func (f *Functions) TexParameteri(target, pname glfxgl.Enum, param int) {
	gl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (f *Functions) Uniform1f(dst glfxgl.Uniform, v float32) {
	gl.Uniform1f(int32(dst.V), v)
}

func (f *Functions) Uniform1i(dst glfxgl.Uniform, v int) {
	gl.Uniform1i(int32(dst.V), int32(v))
}

func (f *Functions) Uniform2f(dst glfxgl.Uniform, v0, v1 float32) {
	gl.Uniform2f(int32(dst.V), v0, v1)
}

func (f *Functions) Uniform3f(dst glfxgl.Uniform, v0, v1, v2 float32) {
	gl.Uniform3f(int32(dst.V), v0, v1, v2)
}

func (f *Functions) Uniform4f(dst glfxgl.Uniform, v0, v1, v2, v3 float32) {
	gl.Uniform4f(int32(dst.V), v0, v1, v2, v3)
}

func (f *Functions) UniformMatrix3fv(dst glfxgl.Uniform, v []float32) {
	gl.UniformMatrix3fv(int32(dst.V), int32(len(v)/9), false, &v[0])
}

func (f *Functions) UniformMatrix4fv(dst glfxgl.Uniform, v []float32) {
	gl.UniformMatrix4fv(int32(dst.V), int32(len(v)/16), false, &v[0])
}

func (f *Functions) UseProgram(p glfxgl.Program) {
	gl.UseProgram(uint32(p.V))
}

func (f *Functions) VertexAttribPointer(dst glfxgl.Attrib, size int, ty glfxgl.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(dst), int32(size), uint32(ty), normalized, int32(stride), uintptr(offset))
}

func (f *Functions) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}
