package glfx

import (
	"github.com/chewxy/math32"

	"github.com/go-theft-auto/glfx/gl"
)

// RGBA is a straight-alpha color with components in [0,1].
type RGBA [4]float32

// Common colors.
var (
	Transparent = RGBA{0, 0, 0, 0}
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
	Red         = RGBA{1, 0, 0, 1}
	Green       = RGBA{0, 1, 0, 1}
	Blue        = RGBA{0, 0, 1, 1}
)

// Clamp returns the color with every component clamped to [0,1].
func (c RGBA) Clamp() RGBA {
	for i := range c {
		c[i] = math32.Max(0, math32.Min(1, c[i]))
	}
	return c
}

// Luminance returns the Rec.709 luminance of the RGB components.
func (c RGBA) Luminance() float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

// PixelFormat is the channel layout of a texture.
type PixelFormat uint8

const (
	FormatRGBA PixelFormat = iota
	FormatRGB
	// FormatLuminance is a single channel texture, sampled through the red
	// component in core profiles.
	FormatLuminance
)

func (f PixelFormat) glEnum() gl.Enum {
	switch f {
	case FormatRGB:
		return gl.RGB
	case FormatLuminance:
		return gl.RED
	default:
		return gl.RGBA
	}
}

// Channels returns the number of components per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatRGB:
		return 3
	case FormatLuminance:
		return 1
	default:
		return 4
	}
}

// ComponentType is the storage type of a texture or vertex component.
type ComponentType uint8

const (
	TypeUnsignedByte ComponentType = iota
	TypeFloat
	TypeUnsignedShort
	TypeShort
	TypeByte
)

func (t ComponentType) glEnum() gl.Enum {
	switch t {
	case TypeFloat:
		return gl.FLOAT
	case TypeUnsignedShort:
		return gl.UNSIGNED_SHORT
	case TypeShort:
		return gl.SHORT
	case TypeByte:
		return gl.BYTE
	default:
		return gl.UNSIGNED_BYTE
	}
}

// Size returns the size of one component in bytes.
func (t ComponentType) Size() int {
	switch t {
	case TypeFloat:
		return 4
	case TypeUnsignedShort, TypeShort:
		return 2
	default:
		return 1
	}
}

// Filter is a texture sampling filter.
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterNearest
)

func (f Filter) glEnum() gl.Enum {
	if f == FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

// Wrap is a texture coordinate wrapping mode.
type Wrap uint8

const (
	WrapClamp Wrap = iota
	WrapRepeat
	WrapMirror
)

func (w Wrap) glEnum() gl.Enum {
	switch w {
	case WrapRepeat:
		return gl.REPEAT
	case WrapMirror:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

// BufferTarget selects what a Buffer holds.
type BufferTarget uint8

const (
	VertexBuffer BufferTarget = iota
	IndexBuffer
)

func (t BufferTarget) glEnum() gl.Enum {
	if t == IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (t BufferTarget) bindingEnum() gl.Enum {
	if t == IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER_BINDING
	}
	return gl.ARRAY_BUFFER_BINDING
}

func (t BufferTarget) String() string {
	if t == IndexBuffer {
		return "index"
	}
	return "vertex"
}

// Usage is a buffer usage hint.
type Usage uint8

const (
	UsageStatic Usage = iota
	UsageDynamic
	UsageStream
)

func (u Usage) glEnum() gl.Enum {
	switch u {
	case UsageDynamic:
		return gl.DYNAMIC_DRAW
	case UsageStream:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

// Primitive is the kind of primitive a draw assembles.
type Primitive uint8

const (
	TriangleStrip Primitive = iota
	Triangles
	TriangleFan
)

func (p Primitive) glEnum() gl.Enum {
	switch p {
	case Triangles:
		return gl.TRIANGLES
	case TriangleFan:
		return gl.TRIANGLE_FAN
	default:
		return gl.TRIANGLE_STRIP
	}
}

// IndexType is the integer type of an element buffer.
type IndexType uint8

const (
	IndexUint16 IndexType = iota
	IndexUint8
	IndexUint32
)

func (t IndexType) glEnum() gl.Enum {
	switch t {
	case IndexUint8:
		return gl.UNSIGNED_BYTE
	case IndexUint32:
		return gl.UNSIGNED_INT
	default:
		return gl.UNSIGNED_SHORT
	}
}

func (t IndexType) size() int {
	switch t {
	case IndexUint8:
		return 1
	case IndexUint32:
		return 4
	default:
		return 2
	}
}

// BlendFactor is a source or destination blend factor.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

func (f BlendFactor) glEnum() gl.Enum {
	switch f {
	case BlendOne:
		return gl.ONE
	case BlendSrcColor:
		return gl.SRC_COLOR
	case BlendOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case BlendSrcAlpha:
		return gl.SRC_ALPHA
	case BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case BlendDstColor:
		return gl.DST_COLOR
	case BlendOneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case BlendDstAlpha:
		return gl.DST_ALPHA
	case BlendOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ZERO
	}
}

// BlendEquation combines the weighted source and destination.
type BlendEquation uint8

const (
	BlendAdd BlendEquation = iota
	BlendSubtract
	BlendReverseSubtract
)

func (e BlendEquation) glEnum() gl.Enum {
	switch e {
	case BlendSubtract:
		return gl.FUNC_SUBTRACT
	case BlendReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	default:
		return gl.FUNC_ADD
	}
}
