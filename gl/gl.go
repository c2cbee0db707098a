// Package gl is the narrow slice of the OpenGL (ES) API used by glfx.
//
// Backends implement Functions; the rest of the module never talks to a
// graphics driver directly.
package gl

const (
	ACTIVE_TEXTURE               = 0x84e0
	ARRAY_BUFFER                 = 0x8892
	ARRAY_BUFFER_BINDING         = 0x8894
	BLEND                        = 0xbe2
	BLEND_DST_ALPHA              = 0x80ca
	BLEND_DST_RGB                = 0x80c8
	BLEND_EQUATION_RGB           = 0x8009
	BLEND_SRC_ALPHA              = 0x80cb
	BLEND_SRC_RGB                = 0x80c9
	BYTE                         = 0x1400
	CLAMP_TO_EDGE                = 0x812f
	COLOR_ATTACHMENT0            = 0x8ce0
	COLOR_BUFFER_BIT             = 0x4000
	COMPILE_STATUS               = 0x8b81
	CURRENT_PROGRAM              = 0x8b8d
	DST_ALPHA                    = 0x304
	DST_COLOR                    = 0x306
	DYNAMIC_DRAW                 = 0x88e8
	ELEMENT_ARRAY_BUFFER         = 0x8893
	ELEMENT_ARRAY_BUFFER_BINDING = 0x8895
	FALSE                        = 0
	FLOAT                        = 0x1406
	FRAGMENT_SHADER              = 0x8b30
	FRAMEBUFFER                  = 0x8d40
	FRAMEBUFFER_BINDING          = 0x8ca6
	FRAMEBUFFER_COMPLETE         = 0x8cd5
	FRAMEBUFFER_INCOMPLETE       = 0x8cd6
	FUNC_ADD                     = 0x8006
	FUNC_REVERSE_SUBTRACT        = 0x800b
	FUNC_SUBTRACT                = 0x800a
	INFO_LOG_LENGTH              = 0x8b84
	INVALID_ENUM                 = 0x500
	INVALID_OPERATION            = 0x502
	INVALID_VALUE                = 0x501
	LINEAR                       = 0x2601
	LINEAR_MIPMAP_LINEAR         = 0x2703
	LINEAR_MIPMAP_NEAREST        = 0x2701
	LINK_STATUS                  = 0x8b82
	MAX_TEXTURE_SIZE             = 0xd33
	MIRRORED_REPEAT              = 0x8370
	NEAREST                      = 0x2600
	NEAREST_MIPMAP_LINEAR        = 0x2702
	NEAREST_MIPMAP_NEAREST       = 0x2700
	NO_ERROR                     = 0x0
	ONE                          = 0x1
	ONE_MINUS_DST_ALPHA          = 0x305
	ONE_MINUS_DST_COLOR          = 0x307
	ONE_MINUS_SRC_ALPHA          = 0x303
	ONE_MINUS_SRC_COLOR          = 0x301
	OUT_OF_MEMORY                = 0x505
	RED                          = 0x1903
	REPEAT                       = 0x2901
	RGB                          = 0x1907
	RGBA                         = 0x1908
	SHORT                        = 0x1402
	SRC_ALPHA                    = 0x302
	SRC_COLOR                    = 0x300
	STATIC_DRAW                  = 0x88e4
	STREAM_DRAW                  = 0x88e0
	TEXTURE_2D                   = 0xde1
	TEXTURE_BINDING_2D           = 0x8069
	TEXTURE_MAG_FILTER           = 0x2800
	TEXTURE_MIN_FILTER           = 0x2801
	TEXTURE_WRAP_S               = 0x2802
	TEXTURE_WRAP_T               = 0x2803
	TEXTURE0                     = 0x84c0
	TRIANGLE_FAN                 = 0x6
	TRIANGLE_STRIP               = 0x5
	TRIANGLES                    = 0x4
	TRUE                         = 1
	UNPACK_ALIGNMENT             = 0xcf5
	UNSIGNED_BYTE                = 0x1401
	UNSIGNED_INT                 = 0x1405
	UNSIGNED_SHORT               = 0x1403
	VERTEX_ARRAY_BINDING         = 0x85b5
	VERTEX_SHADER                = 0x8b31
	VIEWPORT                     = 0xba2
	ZERO                         = 0x0

	// WebGL pixel store flag. Desktop backends emulate it on upload.
	UNPACK_FLIP_Y_WEBGL = 0x9240
)

// Functions is the set of GL entry points a backend must provide.
//
// Create methods return the zero handle when the driver refuses to
// allocate an object. BufferData allocates size bytes when data is nil.
type Functions interface {
	ActiveTexture(texture Enum)
	AttachShader(p Program, s Shader)
	BindBuffer(target Enum, b Buffer)
	BindFramebuffer(target Enum, fb Framebuffer)
	BindTexture(target Enum, t Texture)
	BindVertexArray(a VertexArray)
	BlendEquation(mode Enum)
	BlendFunc(sfactor, dfactor Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum)
	BufferData(target Enum, size int, data []byte, usage Enum)
	CheckFramebufferStatus(target Enum) Enum
	Clear(mask Enum)
	ClearColor(red, green, blue, alpha float32)
	CompileShader(s Shader)
	CreateBuffer() Buffer
	CreateFramebuffer() Framebuffer
	CreateProgram() Program
	CreateShader(ty Enum) Shader
	CreateTexture() Texture
	CreateVertexArray() VertexArray
	DeleteBuffer(b Buffer)
	DeleteFramebuffer(fb Framebuffer)
	DeleteProgram(p Program)
	DeleteShader(s Shader)
	DeleteTexture(t Texture)
	DeleteVertexArray(a VertexArray)
	Disable(cap Enum)
	DrawArrays(mode Enum, first, count int)
	DrawElements(mode Enum, count int, ty Enum, offset int)
	Enable(cap Enum)
	EnableVertexAttribArray(a Attrib)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	GetAttribLocation(p Program, name string) int
	GetError() Enum
	GetInteger(pname Enum) int
	GetInteger4(pname Enum) [4]int
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetUniformLocation(p Program, name string) Uniform
	IsEnabled(cap Enum) bool
	LinkProgram(p Program)
	PixelStorei(pname Enum, param int)
	ReadPixels(x, y, width, height int, format, ty Enum, data []byte)
	ShaderSource(s Shader, src string)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	Uniform1f(dst Uniform, v float32)
	Uniform1i(dst Uniform, v int)
	Uniform2f(dst Uniform, v0, v1 float32)
	Uniform3f(dst Uniform, v0, v1, v2 float32)
	Uniform4f(dst Uniform, v0, v1, v2, v3 float32)
	UniformMatrix3fv(dst Uniform, v []float32)
	UniformMatrix4fv(dst Uniform, v []float32)
	UseProgram(p Program)
	VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}
