package glfx

import (
	"fmt"
	"log/slog"

	"github.com/go-theft-auto/glfx/gl"
)

// Device is a graphics context together with its presentation surface.
// Backends in backend/ provide implementations.
type Device interface {
	// Functions returns the GL entry points of the context.
	Functions() gl.Functions
	// SurfaceSize returns the size of the default framebuffer.
	SurfaceSize() (width, height int)
	// ResizeSurface resizes the default framebuffer.
	ResizeSurface(width, height int) error
}

// Renderer owns a device, caches one Program per ProgramDef and creates
// textures, buffers and framebuffers.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	dev      Device
	f        gl.Functions
	log      *slog.Logger
	maxUnits int

	programs map[*ProgramDef]*Program
	vao      gl.VertexArray
	quad     *Buffer
	quadAttr *Attribute
	surface  *Framebuffer

	// attribOwner is the program that last set vertex attribute pointers.
	attribOwner *Program
	draws       uint64
	released    bool
}

// NewRenderer creates a renderer on dev.
func NewRenderer(dev Device, opts ...RendererOption) (*Renderer, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrSurfaceUnavailable)
	}
	r := &Renderer{
		dev:      dev,
		f:        dev.Functions(),
		log:      Logger(),
		maxUnits: 16,
		programs: make(map[*ProgramDef]*Program),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.f == nil {
		return nil, fmt.Errorf("%w: device has no context", ErrSurfaceUnavailable)
	}

	glErr(r.f)
	r.vao = r.f.CreateVertexArray()
	if !r.vao.Valid() {
		return nil, createErr("vertex array", glErr(r.f))
	}
	r.f.BindVertexArray(r.vao)

	quad, err := r.NewBuffer(Data(quadVertices))
	if err != nil {
		r.f.DeleteVertexArray(r.vao)
		return nil, err
	}
	r.quad = quad
	r.quadAttr = &Attribute{Buffer: quad, Size: 2, Type: TypeFloat}
	r.surface = &Framebuffer{r: r}

	w, h := dev.SurfaceSize()
	r.log.Info("glfx: renderer created", "surface_width", w, "surface_height", h)
	return r, nil
}

// quadVertices is a full-screen quad drawn as a triangle strip.
var quadVertices = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// Functions exposes the GL entry points for custom operations.
func (r *Renderer) Functions() gl.Functions {
	return r.f
}

// Quad returns the shared full-screen quad buffer.
func (r *Renderer) Quad() *Buffer {
	return r.quad
}

// QuadAttribute returns a stable attribute reading 2D positions from Quad.
// Reusing it across draws lets programs skip redundant attribute setup.
func (r *Renderer) QuadAttribute() *Attribute {
	return r.quadAttr
}

// Surface returns the presentation framebuffer.
func (r *Renderer) Surface() *Framebuffer {
	return r.surface
}

// SurfaceSize returns the current size of the presentation surface.
func (r *Renderer) SurfaceSize() (width, height int) {
	return r.dev.SurfaceSize()
}

// ResizeSurface resizes the presentation surface. It is a no-op when the
// size is unchanged.
func (r *Renderer) ResizeSurface(width, height int) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}
	if w, h := r.dev.SurfaceSize(); w == width && h == height {
		return nil
	}
	if err := r.dev.ResizeSurface(width, height); err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	return nil
}

// Draws returns the number of draw calls issued through programs of r.
func (r *Renderer) Draws() uint64 {
	return r.draws
}

// Program returns the program for def, compiling it on first use. Programs
// are cached by the identity of def, not by its contents.
func (r *Renderer) Program(def *ProgramDef) (*Program, error) {
	if r.released {
		return nil, ErrReleased
	}
	if p, ok := r.programs[def]; ok {
		return p, nil
	}
	p, err := newProgram(r, def)
	if err != nil {
		return nil, err
	}
	r.programs[def] = p
	r.log.Debug("glfx: program compiled", "program", def.Name, "cached", len(r.programs))
	return p, nil
}

// ReleaseProgram deletes the cached program for def, if any.
func (r *Renderer) ReleaseProgram(def *ProgramDef) {
	p, ok := r.programs[def]
	if !ok {
		return
	}
	delete(r.programs, def)
	p.release()
}

// Programs returns the number of cached programs.
func (r *Renderer) Programs() int {
	return len(r.programs)
}

// Release deletes every cached program and the shared quad. Textures,
// buffers and framebuffers created by r are owned by their callers.
func (r *Renderer) Release() {
	if r.released {
		return
	}
	for def, p := range r.programs {
		delete(r.programs, def)
		p.release()
	}
	r.quad.Release()
	r.f.BindVertexArray(gl.VertexArray{})
	r.f.DeleteVertexArray(r.vao)
	if err := glErr(r.f); err != nil {
		r.log.Warn("glfx: renderer release", "err", err)
	}
	r.released = true
	r.log.Info("glfx: renderer released")
}
