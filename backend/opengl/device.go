package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/glfx"
	glfxgl "github.com/go-theft-auto/glfx/gl"
)

// Device is an OpenGL 4.1 core context owned by a hidden GLFW window. The
// presentation surface is the bottom left width x height region of the
// window's default framebuffer; the window only grows.
//
// GLFW must be driven from the main thread: call runtime.LockOSThread in
// an init function of the main package.
type Device struct {
	win *glfw.Window
	f   *Functions
	cfg glfx.ContextConfig

	width, height int
}

// NewDevice initializes GLFW, creates the window described by cfg and makes
// its context current.
func NewDevice(cfg glfx.ContextConfig) (*Device, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize GLFW: %v", glfx.ErrSurfaceUnavailable, err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, cfg.DepthBits())
	glfw.WindowHint(glfw.StencilBits, 0)
	if cfg.Alpha {
		glfw.WindowHint(glfw.AlphaBits, 8)
	} else {
		glfw.WindowHint(glfw.AlphaBits, 0)
	}
	if cfg.Antialias {
		glfw.WindowHint(glfw.Samples, 4)
	} else {
		glfw.WindowHint(glfw.Samples, 0)
	}

	win, err := glfw.CreateWindow(max(cfg.Width, 1), max(cfg.Height, 1), cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: failed to create window: %v", glfx.ErrSurfaceUnavailable, err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("%w: failed to initialize OpenGL: %v", glfx.ErrSurfaceUnavailable, err)
	}

	d := &Device{win: win, f: NewFunctions(), cfg: cfg}
	d.width, d.height = win.GetFramebufferSize()
	w, h := d.SurfaceSize()
	glfx.Logger().Info("opengl: device created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"width", w, "height", h,
		"antialias", cfg.Antialias)
	return d, nil
}

// Functions returns the GL entry points of the context.
func (d *Device) Functions() glfxgl.Functions {
	return d.f
}

// Window returns the GLFW window backing the surface.
func (d *Device) Window() *glfw.Window {
	return d.win
}

// SurfaceSize returns the size of the surface in pixels.
func (d *Device) SurfaceSize() (width, height int) {
	return d.width, d.height
}

// ResizeSurface sets the surface size, growing the window when its
// framebuffer is too small. GLFW applies window resizes asynchronously, so
// the window is never shrunk.
func (d *Device) ResizeSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("opengl: invalid surface size %dx%d", width, height)
	}
	fw, fh := d.win.GetFramebufferSize()
	if width > fw || height > fh {
		// Window and framebuffer sizes differ by the content scale.
		sx, sy := d.win.GetContentScale()
		if sx <= 0 || sy <= 0 {
			sx, sy = 1, 1
		}
		ww := int(float32(max(width, fw))/sx + 0.5)
		wh := int(float32(max(height, fh))/sy + 0.5)
		d.win.SetSize(ww, wh)
		glfw.PollEvents()
		if fw, fh = d.win.GetFramebufferSize(); width > fw || height > fh {
			return fmt.Errorf("opengl: window framebuffer is %dx%d, need %dx%d", fw, fh, width, height)
		}
	}
	d.width, d.height = width, height
	return nil
}

// Swap presents the surface. Without PreserveDrawingBuffer the surface is
// cleared afterwards.
func (d *Device) Swap() {
	d.win.SwapBuffers()
	if !d.cfg.PreserveDrawingBuffer {
		gl.ClearColor(0, 0, 0, 0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}
}

// Release destroys the window and terminates GLFW.
func (d *Device) Release() {
	if d.win == nil {
		return
	}
	d.win.Destroy()
	d.win = nil
	glfw.Terminate()
	glfx.Logger().Info("opengl: device released")
}
