package glfx

import (
	"fmt"
	"image"

	"github.com/go-theft-auto/glfx/gl"
)

// Framebuffer is a render target with a single color attachment.
//
// A framebuffer created by NewFramebuffer owns its texture and releases it
// with itself; one created by FramebufferFor borrows the caller's texture.
// The presentation surface is a framebuffer without texture whose size is
// that of the device surface.
type Framebuffer struct {
	r        *Renderer
	obj      gl.Framebuffer
	tex      *Texture
	owned    bool
	released bool
}

// NewFramebuffer creates a framebuffer with an owned width x height texture.
// opts configure the attachment; a later Size option is ignored.
func (r *Renderer) NewFramebuffer(width, height int, opts ...TextureOption) (*Framebuffer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	opts = append(opts, Size(width, height))
	tex, err := r.NewTexture(opts...)
	if err != nil {
		return nil, err
	}
	fb, err := r.attach(tex, true)
	if err != nil {
		tex.Release()
		return nil, err
	}
	r.log.Debug("glfx: framebuffer created", "width", width, "height", height)
	return fb, nil
}

// FramebufferFor creates a framebuffer rendering into tex. Releasing the
// framebuffer leaves tex alive.
func (r *Renderer) FramebufferFor(tex *Texture) (*Framebuffer, error) {
	if tex == nil || tex.released {
		return nil, fmt.Errorf("%w: framebuffer attachment", ErrMissingSource)
	}
	return r.attach(tex, false)
}

func (r *Renderer) attach(tex *Texture, owned bool) (*Framebuffer, error) {
	if r.released {
		return nil, ErrReleased
	}
	f := r.f
	glErr(f)
	obj := f.CreateFramebuffer()
	if !obj.Valid() {
		return nil, createErr("framebuffer", glErr(f))
	}
	prev := f.GetInteger(gl.FRAMEBUFFER_BINDING)
	f.BindFramebuffer(gl.FRAMEBUFFER, obj)
	f.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex.obj, 0)
	st := f.CheckFramebufferStatus(gl.FRAMEBUFFER)
	f.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{V: uint(prev)})
	if st != gl.FRAMEBUFFER_COMPLETE {
		f.DeleteFramebuffer(obj)
		return nil, createErr(fmt.Sprintf("incomplete framebuffer, status = %#x", uint(st)), glErr(f))
	}
	return &Framebuffer{r: r, obj: obj, tex: tex, owned: owned}, nil
}

// Texture returns the color attachment, or nil for the surface.
func (fb *Framebuffer) Texture() *Texture {
	return fb.tex
}

// Owned reports whether the framebuffer releases its texture.
func (fb *Framebuffer) Owned() bool {
	return fb.owned
}

// IsSurface reports whether fb is the presentation surface.
func (fb *Framebuffer) IsSurface() bool {
	return fb.tex == nil
}

// Size returns the size of the attachment.
func (fb *Framebuffer) Size() (width, height int) {
	if fb.tex == nil {
		return fb.r.dev.SurfaceSize()
	}
	return fb.tex.Size()
}

// Resize resizes the attachment. It is a no-op when the size is unchanged.
func (fb *Framebuffer) Resize(width, height int) error {
	if fb.released {
		return ErrReleased
	}
	if fb.tex == nil {
		return fb.r.ResizeSurface(width, height)
	}
	return fb.tex.Resize(width, height)
}

// Use binds fb with a viewport covering the attachment for the duration of
// fn. The previous framebuffer binding and viewport are restored afterwards,
// also when fn fails, so calls nest.
func (fb *Framebuffer) Use(fn func() error) error {
	if fb.released {
		return ErrReleased
	}
	w, h := fb.Size()
	if fb.tex == nil && (w <= 0 || h <= 0) {
		return fmt.Errorf("%w: surface is %dx%d", ErrSurfaceUnavailable, w, h)
	}
	f := fb.r.f
	prev := f.GetInteger(gl.FRAMEBUFFER_BINDING)
	vp := f.GetInteger4(gl.VIEWPORT)
	f.BindFramebuffer(gl.FRAMEBUFFER, fb.obj)
	f.Viewport(0, 0, w, h)
	defer func() {
		f.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{V: uint(prev)})
		f.Viewport(vp[0], vp[1], vp[2], vp[3])
	}()
	return fn()
}

// Clear fills the attachment with c.
func (fb *Framebuffer) Clear(c RGBA) error {
	return fb.Use(func() error {
		f := fb.r.f
		f.ClearColor(c[0], c[1], c[2], c[3])
		f.Clear(gl.COLOR_BUFFER_BIT)
		return nil
	})
}

// ReadPixels reads the attachment as 8-bit straight-alpha RGBA, top row
// first.
func (fb *Framebuffer) ReadPixels() (*image.NRGBA, error) {
	w, h := fb.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	buf := make([]byte, len(img.Pix))
	err := fb.Use(func() error {
		f := fb.r.f
		glErr(f)
		f.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, buf)
		return glErr(f)
	})
	if err != nil {
		return nil, err
	}
	// GL rows start at the bottom.
	stride := 4 * w
	for y := 0; y < h; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], buf[(h-1-y)*stride:(h-y)*stride])
	}
	return img, nil
}

// Release deletes the framebuffer and, when owned, its texture.
func (fb *Framebuffer) Release() {
	if fb.released || fb.tex == nil {
		return
	}
	fb.released = true
	fb.r.f.DeleteFramebuffer(fb.obj)
	if fb.owned {
		fb.tex.Release()
	}
}
