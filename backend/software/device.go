// Package software is a CPU implementation of the gl.Functions used by glfx.
//
// There is no shader compiler: every shader source a program uses must be
// registered in a Library together with a Go function computing the same
// result. Rasterization follows the GL rules closely enough for pixel
// comparisons: pixel centers at half-integers, a top-left fill rule, 8-bit
// quantization of fixed-point color buffers and the standard blend
// factors and equations.
package software

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"

	"github.com/go-theft-auto/glfx/gl"
)

// Limits bound what a Device accepts.
type Limits struct {
	// MaxObjects is the number of live GL objects after which creation
	// fails with OUT_OF_MEMORY. Zero is unlimited.
	MaxObjects int
	// MaxTextureSize is the largest texture side.
	MaxTextureSize int
}

// Stats counts driver work.
type Stats struct {
	TexImage2D int
	Draws      int
	Clears     int
	Compiles   int
	Links      int
	Created    int
	Deleted    int
	Live       int
}

// Option configures a Device.
type Option func(*config)

type config struct {
	lib    *Library
	limits Limits
}

// WithShaders sets the shader library.
func WithShaders(lib *Library) Option {
	return func(c *config) { c.lib = lib }
}

// WithLimits sets the device limits.
func WithLimits(l Limits) Option {
	return func(c *config) {
		c.limits = l
		if c.limits.MaxTextureSize <= 0 {
			c.limits.MaxTextureSize = 8192
		}
	}
}

// Device is a software context with an RGBA8 surface.
type Device struct {
	f *functions
}

// New returns a device whose surface is width x height. A zero size
// models a surface that is not available yet.
func New(width, height int, opts ...Option) *Device {
	c := config{limits: Limits{MaxTextureSize: 8192}}
	for _, opt := range opts {
		opt(&c)
	}
	if c.lib == nil {
		c.lib = NewLibrary()
	}
	return &Device{f: newFunctions(c.lib, c.limits, max(width, 0), max(height, 0))}
}

// Functions returns the GL entry points.
func (d *Device) Functions() gl.Functions {
	return d.f
}

// SurfaceSize returns the size of framebuffer 0.
func (d *Device) SurfaceSize() (width, height int) {
	return d.f.surface.w, d.f.surface.h
}

// ResizeSurface reallocates the surface, clearing it.
func (d *Device) ResizeSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("software: invalid surface size %dx%d", width, height)
	}
	if width > d.f.limits.MaxTextureSize || height > d.f.limits.MaxTextureSize {
		return fmt.Errorf("software: surface %dx%d exceeds limit %d", width, height, d.f.limits.MaxTextureSize)
	}
	d.f.surface.alloc(width, height)
	return nil
}

// Stats returns the work counters.
func (d *Device) Stats() Stats {
	return d.f.stats
}

// Surface returns a copy of the surface, top row first.
func (d *Device) Surface() *image.NRGBA {
	t := d.f.surface
	img := image.NewNRGBA(image.Rect(0, 0, t.w, t.h))
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			c := t.texel(x, t.h-1-y)
			o := img.PixOffset(x, y)
			for k := range c {
				img.Pix[o+k] = uint8(math32.Round(clamp01(c[k]) * 255))
			}
		}
	}
	return img
}

// Release drops every object.
func (d *Device) Release() {
	lib, limits := d.f.lib, d.f.limits
	*d.f = *newFunctions(lib, limits, 0, 0)
}
