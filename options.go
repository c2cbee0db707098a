package glfx

import (
	"image"
	"log/slog"
)

// TextureParams is the full upload state of a Texture.
type TextureParams struct {
	Width, Height int
	Format        PixelFormat
	Type          ComponentType
	WrapS, WrapT  Wrap
	MinFilter     Filter
	MagFilter     Filter
	FlipY         bool

	// Image, when set, is uploaded through the image path and dictates the
	// texture size. Otherwise Pixels (possibly nil) is uploaded with the
	// explicit Width and Height.
	Image  image.Image
	Pixels []byte

	// pixelsSet marks Pixels as given by the options of the current update.
	pixelsSet bool
}

// DefaultTextureParams returns the parameters of a fresh texture: 1x1 RGBA
// bytes, clamped, linear filtering.
func DefaultTextureParams() TextureParams {
	return TextureParams{
		Width:     1,
		Height:    1,
		Format:    FormatRGBA,
		Type:      TypeUnsignedByte,
		WrapS:     WrapClamp,
		WrapT:     WrapClamp,
		MinFilter: FilterLinear,
		MagFilter: FilterLinear,
	}
}

// TextureOption changes part of a texture's parameters.
type TextureOption func(*TextureParams)

// Size sets the storage dimensions and drops any image source. Pixels kept
// from an earlier update are dropped when the size changes, unless the same
// update passes Pixels again.
func Size(width, height int) TextureOption {
	return func(p *TextureParams) {
		p.Width, p.Height = width, height
		p.Image = nil
	}
}

// WithFormat sets the pixel format.
func WithFormat(f PixelFormat) TextureOption {
	return func(p *TextureParams) { p.Format = f }
}

// Type sets the component type.
func Type(t ComponentType) TextureOption {
	return func(p *TextureParams) { p.Type = t }
}

// WithWrap sets both wrap modes.
func WithWrap(w Wrap) TextureOption {
	return func(p *TextureParams) { p.WrapS, p.WrapT = w, w }
}

// WrapS sets the horizontal wrap mode.
func WrapS(w Wrap) TextureOption {
	return func(p *TextureParams) { p.WrapS = w }
}

// WrapT sets the vertical wrap mode.
func WrapT(w Wrap) TextureOption {
	return func(p *TextureParams) { p.WrapT = w }
}

// WithFilter sets both filters.
func WithFilter(f Filter) TextureOption {
	return func(p *TextureParams) { p.MinFilter, p.MagFilter = f, f }
}

// MinFilter sets the minification filter.
func MinFilter(f Filter) TextureOption {
	return func(p *TextureParams) { p.MinFilter = f }
}

// MagFilter sets the magnification filter.
func MagFilter(f Filter) TextureOption {
	return func(p *TextureParams) { p.MagFilter = f }
}

// FlipY sets whether rows are flipped on upload.
func FlipY(flip bool) TextureOption {
	return func(p *TextureParams) { p.FlipY = flip }
}

// Pixels sets raw pixel data laid out per Format and Type, tightly packed,
// first row first. A nil slice allocates uninitialized storage.
func Pixels(data []byte) TextureOption {
	return func(p *TextureParams) {
		p.Pixels = data
		p.pixelsSet = true
		p.Image = nil
	}
}

// Image sets a decoded image as the pixel source. Rows are flipped on upload
// so the top of the image ends up at texture coordinate v=1, matching the
// orientation of framebuffers.
func Image(img image.Image) TextureOption {
	return func(p *TextureParams) {
		p.Image = img
		p.Pixels = nil
		p.FlipY = true
	}
}

// BufferOption configures a new Buffer.
type BufferOption func(*bufferConfig)

type bufferConfig struct {
	target BufferTarget
	usage  Usage
	data   any
}

// Target sets the buffer target.
func Target(t BufferTarget) BufferOption {
	return func(c *bufferConfig) { c.target = t }
}

// WithUsage sets the usage hint.
func WithUsage(u Usage) BufferOption {
	return func(c *bufferConfig) { c.usage = u }
}

// Data sets the initial contents. See Buffer.Update for accepted types.
func Data(data any) BufferOption {
	return func(c *bufferConfig) { c.data = data }
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLogger sets the logger of a renderer and everything it creates.
func WithLogger(l *slog.Logger) RendererOption {
	return func(r *Renderer) { r.log = l }
}

// WithTextureUnits limits the number of texture units a single draw may use.
func WithTextureUnits(n int) RendererOption {
	return func(r *Renderer) {
		if n > 0 {
			r.maxUnits = n
		}
	}
}

// ContextConfig describes the graphics context a backend creates.
type ContextConfig struct {
	Width, Height int
	Title         string

	Antialias             bool
	Alpha                 bool
	PreserveDrawingBuffer bool
}

// DepthBits is always zero: the engine only draws full-screen passes.
func (ContextConfig) DepthBits() int { return 0 }

// ContextOption overrides part of a ContextConfig.
type ContextOption func(*ContextConfig)

// DefaultContextConfig returns the defaults with opts applied on top.
func DefaultContextConfig(opts ...ContextOption) ContextConfig {
	c := ContextConfig{
		Width:                 1,
		Height:                1,
		Title:                 "glfx",
		Antialias:             false,
		Alpha:                 true,
		PreserveDrawingBuffer: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SurfaceSize overrides the initial surface size.
func SurfaceSize(width, height int) ContextOption {
	return func(c *ContextConfig) { c.Width, c.Height = width, height }
}

// Antialias enables multisampling of the surface.
func Antialias(on bool) ContextOption {
	return func(c *ContextConfig) { c.Antialias = on }
}

// Alpha requests an alpha channel on the surface.
func Alpha(on bool) ContextOption {
	return func(c *ContextConfig) { c.Alpha = on }
}

// PreserveDrawingBuffer keeps the surface contents after presentation.
func PreserveDrawingBuffer(on bool) ContextOption {
	return func(c *ContextConfig) { c.PreserveDrawingBuffer = on }
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSwapPolicy sets when the pipeline flips its framebuffers.
func WithSwapPolicy(s SwapPolicy) PipelineOption {
	return func(p *Pipeline) { p.swap = s }
}
