package software

import (
	"fmt"

	"github.com/go-theft-auto/glfx/gl"
)

const (
	maxUnits   = 32
	maxAttribs = 16
)

type buffer struct {
	data []byte
}

type framebuffer struct {
	tex uint
}

type shader struct {
	ty       gl.Enum
	src      string
	compiled bool
	log      string
	vertex   VertexShader
	fragment FragmentShader
}

type program struct {
	shaders []uint
	linked  bool
	log     string

	vertex   VertexShader
	fragment FragmentShader
	// layout places each vertex varying in the packed varying vector.
	layout  map[string]span
	varSize int

	uniformIndex map[string]int
	values       [][]float32
	attribIndex  map[string]int
}

type attribState struct {
	enabled    bool
	buf        uint
	size       int
	ty         gl.Enum
	normalized bool
	stride     int
	offset     int
}

// functions implements gl.Functions on the CPU.
type functions struct {
	lib    *Library
	limits Limits
	stats  Stats
	err    gl.Enum
	next   uint

	buffers      map[uint]*buffer
	textures     map[uint]*texture
	framebuffers map[uint]*framebuffer
	shaders      map[uint]*shader
	programs     map[uint]*program
	vaos         map[uint]bool

	surface *texture

	arrayBuf, elemBuf uint
	vao               uint
	fb                uint
	prog              uint
	activeUnit        int
	units             [maxUnits]uint
	viewport          [4]int
	clearColor        [4]float32
	blend             bool
	blendSrc          gl.Enum
	blendDst          gl.Enum
	blendSrcA         gl.Enum
	blendDstA         gl.Enum
	blendEq           gl.Enum
	unpackAlign       int
	flipY             bool
	attribs           [maxAttribs]attribState
}

var _ gl.Functions = (*functions)(nil)

func newFunctions(lib *Library, limits Limits, w, h int) *functions {
	f := &functions{
		lib:          lib,
		limits:       limits,
		next:         1,
		buffers:      make(map[uint]*buffer),
		textures:     make(map[uint]*texture),
		framebuffers: make(map[uint]*framebuffer),
		shaders:      make(map[uint]*shader),
		programs:     make(map[uint]*program),
		vaos:         make(map[uint]bool),
		surface:      newTexture(),
		viewport:     [4]int{0, 0, w, h},
		blendSrc:     gl.ONE,
		blendDst:     gl.ZERO,
		blendSrcA:    gl.ONE,
		blendDstA:    gl.ZERO,
		blendEq:      gl.FUNC_ADD,
		unpackAlign:  4,
	}
	f.surface.alloc(w, h)
	return f
}

func (f *functions) setErr(e gl.Enum) {
	if f.err == gl.NO_ERROR {
		f.err = e
	}
}

// create returns a fresh object name, or 0 when the object limit is hit.
func (f *functions) create() uint {
	if f.limits.MaxObjects > 0 && f.stats.Live >= f.limits.MaxObjects {
		f.setErr(gl.OUT_OF_MEMORY)
		return 0
	}
	id := f.next
	f.next++
	f.stats.Live++
	f.stats.Created++
	return id
}

func (f *functions) deleted() {
	f.stats.Live--
	f.stats.Deleted++
}

func (f *functions) ActiveTexture(texture gl.Enum) {
	unit := int(texture) - gl.TEXTURE0
	if unit < 0 || unit >= maxUnits {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	f.activeUnit = unit
}

func (f *functions) AttachShader(p gl.Program, s gl.Shader) {
	prog, ok := f.programs[p.V]
	if !ok || f.shaders[s.V] == nil {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	prog.shaders = append(prog.shaders, s.V)
}

func (f *functions) BindBuffer(target gl.Enum, b gl.Buffer) {
	if b.V != 0 && f.buffers[b.V] == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	switch target {
	case gl.ARRAY_BUFFER:
		f.arrayBuf = b.V
	case gl.ELEMENT_ARRAY_BUFFER:
		f.elemBuf = b.V
	default:
		f.setErr(gl.INVALID_ENUM)
	}
}

func (f *functions) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	if target != gl.FRAMEBUFFER {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	if fb.V != 0 && f.framebuffers[fb.V] == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	f.fb = fb.V
}

func (f *functions) BindTexture(target gl.Enum, t gl.Texture) {
	if target != gl.TEXTURE_2D {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	if t.V != 0 && f.textures[t.V] == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	f.units[f.activeUnit] = t.V
}

func (f *functions) BindVertexArray(a gl.VertexArray) {
	if a.V != 0 && !f.vaos[a.V] {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	f.vao = a.V
}

func (f *functions) BlendEquation(mode gl.Enum) {
	switch mode {
	case gl.FUNC_ADD, gl.FUNC_SUBTRACT, gl.FUNC_REVERSE_SUBTRACT:
		f.blendEq = mode
	default:
		f.setErr(gl.INVALID_ENUM)
	}
}

func (f *functions) BlendFunc(sfactor, dfactor gl.Enum) {
	f.BlendFuncSeparate(sfactor, dfactor, sfactor, dfactor)
}

func (f *functions) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA gl.Enum) {
	f.blendSrc, f.blendDst = srcRGB, dstRGB
	f.blendSrcA, f.blendDstA = srcA, dstA
}

func (f *functions) BufferData(target gl.Enum, size int, data []byte, usage gl.Enum) {
	b := f.boundBuffer(target)
	if b == nil {
		return
	}
	if size < 0 {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	b.data = make([]byte, size)
	copy(b.data, data)
}

func (f *functions) boundBuffer(target gl.Enum) *buffer {
	var id uint
	switch target {
	case gl.ARRAY_BUFFER:
		id = f.arrayBuf
	case gl.ELEMENT_ARRAY_BUFFER:
		id = f.elemBuf
	default:
		f.setErr(gl.INVALID_ENUM)
		return nil
	}
	b := f.buffers[id]
	if b == nil {
		f.setErr(gl.INVALID_OPERATION)
	}
	return b
}

func (f *functions) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	if f.fb == 0 {
		return gl.FRAMEBUFFER_COMPLETE
	}
	t := f.textures[f.framebuffers[f.fb].tex]
	if t == nil || t.w == 0 || t.h == 0 {
		return gl.FRAMEBUFFER_INCOMPLETE
	}
	return gl.FRAMEBUFFER_COMPLETE
}

func (f *functions) ClearColor(red, green, blue, alpha float32) {
	f.clearColor = [4]float32{red, green, blue, alpha}
}

func (f *functions) CompileShader(s gl.Shader) {
	sh := f.shaders[s.V]
	if sh == nil {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	f.stats.Compiles++
	sh.compiled = false
	switch sh.ty {
	case gl.VERTEX_SHADER:
		vs, ok := f.lib.lookupVertex(sh.src)
		if !ok {
			sh.log = fmt.Sprintf("no vertex shader registered for %q", summary(sh.src))
			return
		}
		sh.vertex = vs
	case gl.FRAGMENT_SHADER:
		fs, ok := f.lib.lookupFragment(sh.src)
		if !ok {
			sh.log = fmt.Sprintf("no fragment shader registered for %q", summary(sh.src))
			return
		}
		sh.fragment = fs
	}
	sh.compiled = true
	sh.log = ""
}

func (f *functions) CreateBuffer() gl.Buffer {
	id := f.create()
	if id != 0 {
		f.buffers[id] = &buffer{}
	}
	return gl.Buffer{V: id}
}

func (f *functions) CreateFramebuffer() gl.Framebuffer {
	id := f.create()
	if id != 0 {
		f.framebuffers[id] = &framebuffer{}
	}
	return gl.Framebuffer{V: id}
}

func (f *functions) CreateProgram() gl.Program {
	id := f.create()
	if id != 0 {
		f.programs[id] = &program{}
	}
	return gl.Program{V: id}
}

func (f *functions) CreateShader(ty gl.Enum) gl.Shader {
	if ty != gl.VERTEX_SHADER && ty != gl.FRAGMENT_SHADER {
		f.setErr(gl.INVALID_ENUM)
		return gl.Shader{}
	}
	id := f.create()
	if id != 0 {
		f.shaders[id] = &shader{ty: ty}
	}
	return gl.Shader{V: id}
}

func (f *functions) CreateTexture() gl.Texture {
	id := f.create()
	if id != 0 {
		f.textures[id] = newTexture()
	}
	return gl.Texture{V: id}
}

func (f *functions) CreateVertexArray() gl.VertexArray {
	id := f.create()
	if id != 0 {
		f.vaos[id] = true
	}
	return gl.VertexArray{V: id}
}

func (f *functions) DeleteBuffer(b gl.Buffer) {
	if _, ok := f.buffers[b.V]; !ok {
		return
	}
	delete(f.buffers, b.V)
	if f.arrayBuf == b.V {
		f.arrayBuf = 0
	}
	if f.elemBuf == b.V {
		f.elemBuf = 0
	}
	f.deleted()
}

func (f *functions) DeleteFramebuffer(fb gl.Framebuffer) {
	if _, ok := f.framebuffers[fb.V]; !ok {
		return
	}
	delete(f.framebuffers, fb.V)
	if f.fb == fb.V {
		f.fb = 0
	}
	f.deleted()
}

func (f *functions) DeleteProgram(p gl.Program) {
	if _, ok := f.programs[p.V]; !ok {
		return
	}
	delete(f.programs, p.V)
	if f.prog == p.V {
		f.prog = 0
	}
	f.deleted()
}

func (f *functions) DeleteShader(s gl.Shader) {
	if _, ok := f.shaders[s.V]; !ok {
		return
	}
	delete(f.shaders, s.V)
	f.deleted()
}

func (f *functions) DeleteTexture(t gl.Texture) {
	if _, ok := f.textures[t.V]; !ok {
		return
	}
	delete(f.textures, t.V)
	for i, u := range f.units {
		if u == t.V {
			f.units[i] = 0
		}
	}
	f.deleted()
}

func (f *functions) DeleteVertexArray(a gl.VertexArray) {
	if !f.vaos[a.V] {
		return
	}
	delete(f.vaos, a.V)
	if f.vao == a.V {
		f.vao = 0
	}
	f.deleted()
}

func (f *functions) Disable(cap gl.Enum) {
	if cap != gl.BLEND {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	f.blend = false
}

func (f *functions) Enable(cap gl.Enum) {
	if cap != gl.BLEND {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	f.blend = true
}

func (f *functions) IsEnabled(cap gl.Enum) bool {
	if cap != gl.BLEND {
		f.setErr(gl.INVALID_ENUM)
		return false
	}
	return f.blend
}

func (f *functions) EnableVertexAttribArray(a gl.Attrib) {
	if int(a) >= maxAttribs {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	f.attribs[a].enabled = true
}

func (f *functions) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	if target != gl.FRAMEBUFFER || attachment != gl.COLOR_ATTACHMENT0 || texTarget != gl.TEXTURE_2D {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	if f.fb == 0 || level != 0 {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	f.framebuffers[f.fb].tex = t.V
}

func (f *functions) GetAttribLocation(p gl.Program, name string) int {
	prog := f.programs[p.V]
	if prog == nil || !prog.linked {
		f.setErr(gl.INVALID_OPERATION)
		return -1
	}
	if i, ok := prog.attribIndex[name]; ok {
		return i
	}
	return -1
}

func (f *functions) GetError() gl.Enum {
	e := f.err
	f.err = gl.NO_ERROR
	return e
}

func (f *functions) GetInteger(pname gl.Enum) int {
	switch pname {
	case gl.ACTIVE_TEXTURE:
		return gl.TEXTURE0 + f.activeUnit
	case gl.ARRAY_BUFFER_BINDING:
		return int(f.arrayBuf)
	case gl.ELEMENT_ARRAY_BUFFER_BINDING:
		return int(f.elemBuf)
	case gl.BLEND_SRC_RGB:
		return int(f.blendSrc)
	case gl.BLEND_DST_RGB:
		return int(f.blendDst)
	case gl.BLEND_SRC_ALPHA:
		return int(f.blendSrcA)
	case gl.BLEND_DST_ALPHA:
		return int(f.blendDstA)
	case gl.BLEND_EQUATION_RGB:
		return int(f.blendEq)
	case gl.CURRENT_PROGRAM:
		return int(f.prog)
	case gl.FRAMEBUFFER_BINDING:
		return int(f.fb)
	case gl.MAX_TEXTURE_SIZE:
		return f.limits.MaxTextureSize
	case gl.TEXTURE_BINDING_2D:
		return int(f.units[f.activeUnit])
	case gl.UNPACK_ALIGNMENT:
		return f.unpackAlign
	case gl.UNPACK_FLIP_Y_WEBGL:
		if f.flipY {
			return 1
		}
		return 0
	case gl.VERTEX_ARRAY_BINDING:
		return int(f.vao)
	}
	f.setErr(gl.INVALID_ENUM)
	return 0
}

func (f *functions) GetInteger4(pname gl.Enum) [4]int {
	if pname != gl.VIEWPORT {
		f.setErr(gl.INVALID_ENUM)
		return [4]int{}
	}
	return f.viewport
}

func (f *functions) GetProgrami(p gl.Program, pname gl.Enum) int {
	prog := f.programs[p.V]
	if prog == nil {
		f.setErr(gl.INVALID_VALUE)
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		if prog.linked {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.INFO_LOG_LENGTH:
		return len(prog.log)
	}
	f.setErr(gl.INVALID_ENUM)
	return 0
}

func (f *functions) GetProgramInfoLog(p gl.Program) string {
	if prog := f.programs[p.V]; prog != nil {
		return prog.log
	}
	f.setErr(gl.INVALID_VALUE)
	return ""
}

func (f *functions) GetShaderi(s gl.Shader, pname gl.Enum) int {
	sh := f.shaders[s.V]
	if sh == nil {
		f.setErr(gl.INVALID_VALUE)
		return 0
	}
	switch pname {
	case gl.COMPILE_STATUS:
		if sh.compiled {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.INFO_LOG_LENGTH:
		return len(sh.log)
	}
	f.setErr(gl.INVALID_ENUM)
	return 0
}

func (f *functions) GetShaderInfoLog(s gl.Shader) string {
	if sh := f.shaders[s.V]; sh != nil {
		return sh.log
	}
	f.setErr(gl.INVALID_VALUE)
	return ""
}

func (f *functions) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	prog := f.programs[p.V]
	if prog == nil || !prog.linked {
		f.setErr(gl.INVALID_OPERATION)
		return gl.Uniform{V: -1}
	}
	if i, ok := prog.uniformIndex[name]; ok {
		return gl.Uniform{V: i}
	}
	return gl.Uniform{V: -1}
}

func (f *functions) LinkProgram(p gl.Program) {
	prog := f.programs[p.V]
	if prog == nil {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	f.stats.Links++
	prog.linked = false
	var vs, fs *shader
	for _, id := range prog.shaders {
		sh := f.shaders[id]
		if sh == nil || !sh.compiled {
			prog.log = "attached shader is not compiled"
			return
		}
		switch sh.ty {
		case gl.VERTEX_SHADER:
			vs = sh
		case gl.FRAGMENT_SHADER:
			fs = sh
		}
	}
	if vs == nil || fs == nil {
		prog.log = "program needs a vertex and a fragment shader"
		return
	}

	layout := make(map[string]span)
	off := 0
	for _, v := range vs.vertex.Varyings {
		layout[v.Name] = span{off: off, size: v.Size}
		off += v.Size
	}
	for _, v := range fs.fragment.Varyings {
		s, ok := layout[v.Name]
		if !ok || s.size != v.Size {
			prog.log = fmt.Sprintf("fragment input %q is not written by the vertex shader", v.Name)
			return
		}
	}

	prog.vertex, prog.fragment = vs.vertex, fs.fragment
	prog.layout, prog.varSize = layout, off
	prog.uniformIndex = make(map[string]int)
	for _, names := range [][]string{vs.vertex.Uniforms, fs.fragment.Uniforms} {
		for _, n := range names {
			if _, ok := prog.uniformIndex[n]; !ok {
				prog.uniformIndex[n] = len(prog.uniformIndex)
			}
		}
	}
	prog.values = make([][]float32, len(prog.uniformIndex))
	prog.attribIndex = make(map[string]int)
	for i, n := range vs.vertex.Attributes {
		prog.attribIndex[n] = i
	}
	prog.linked = true
	prog.log = ""
}

func (f *functions) PixelStorei(pname gl.Enum, param int) {
	switch pname {
	case gl.UNPACK_ALIGNMENT:
		if param != 1 && param != 2 && param != 4 && param != 8 {
			f.setErr(gl.INVALID_VALUE)
			return
		}
		f.unpackAlign = param
	case gl.UNPACK_FLIP_Y_WEBGL:
		f.flipY = param != 0
	default:
		f.setErr(gl.INVALID_ENUM)
	}
}

func (f *functions) ShaderSource(s gl.Shader, src string) {
	sh := f.shaders[s.V]
	if sh == nil {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	sh.src = src
}

func (f *functions) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, ty gl.Enum, data []byte) {
	if target != gl.TEXTURE_2D {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	t := f.textures[f.units[f.activeUnit]]
	if t == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	if level != 0 {
		// Only the base level is stored.
		return
	}
	if internalFormat != format {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	f.texImage(t, width, height, format, ty, data)
}

func (f *functions) TexParameteri(target, pname gl.Enum, param int) {
	t := f.textures[f.units[f.activeUnit]]
	if target != gl.TEXTURE_2D || t == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	v := gl.Enum(param)
	switch pname {
	case gl.TEXTURE_MIN_FILTER:
		t.minFilter = v
	case gl.TEXTURE_MAG_FILTER:
		t.magFilter = v
	case gl.TEXTURE_WRAP_S:
		t.wrapS = v
	case gl.TEXTURE_WRAP_T:
		t.wrapT = v
	default:
		f.setErr(gl.INVALID_ENUM)
	}
}

func (f *functions) setUniform(dst gl.Uniform, v ...float32) {
	prog := f.programs[f.prog]
	if prog == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	if dst.V == -1 {
		return
	}
	if dst.V < 0 || dst.V >= len(prog.values) {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	prog.values[dst.V] = append(prog.values[dst.V][:0], v...)
}

func (f *functions) Uniform1f(dst gl.Uniform, v float32) {
	f.setUniform(dst, v)
}

func (f *functions) Uniform1i(dst gl.Uniform, v int) {
	f.setUniform(dst, float32(v))
}

func (f *functions) Uniform2f(dst gl.Uniform, v0, v1 float32) {
	f.setUniform(dst, v0, v1)
}

func (f *functions) Uniform3f(dst gl.Uniform, v0, v1, v2 float32) {
	f.setUniform(dst, v0, v1, v2)
}

func (f *functions) Uniform4f(dst gl.Uniform, v0, v1, v2, v3 float32) {
	f.setUniform(dst, v0, v1, v2, v3)
}

func (f *functions) UniformMatrix3fv(dst gl.Uniform, v []float32) {
	f.setUniform(dst, v...)
}

func (f *functions) UniformMatrix4fv(dst gl.Uniform, v []float32) {
	f.setUniform(dst, v...)
}

func (f *functions) UseProgram(p gl.Program) {
	if p.V != 0 {
		prog := f.programs[p.V]
		if prog == nil || !prog.linked {
			f.setErr(gl.INVALID_OPERATION)
			return
		}
	}
	f.prog = p.V
}

func (f *functions) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	if int(dst) >= maxAttribs || size < 1 || size > 4 || stride < 0 || offset < 0 {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	if componentSize(ty) == 0 {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	if f.arrayBuf == 0 {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	a := &f.attribs[dst]
	a.buf, a.size, a.ty, a.normalized, a.stride, a.offset = f.arrayBuf, size, ty, normalized, stride, offset
}

func (f *functions) Viewport(x, y, width, height int) {
	if width < 0 || height < 0 {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	f.viewport = [4]int{x, y, width, height}
}
