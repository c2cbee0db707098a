package glfx

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glfx/gl"
)

func TestFramebuffer_Size(t *testing.T) {
	r, _ := newTestRenderer(t)

	fb, err := r.NewFramebuffer(6, 4, Size(1, 1), WithFilter(FilterNearest))
	require.NoError(t, err)
	defer fb.Release()

	w, h := fb.Size()
	assert.Equal(t, [2]int{6, 4}, [2]int{w, h})
	assert.True(t, fb.Owned())
	assert.False(t, fb.IsSurface())
	assert.Equal(t, FilterNearest, fb.Texture().Params().MinFilter)

	require.NoError(t, fb.Resize(3, 3))
	w, h = fb.Texture().Size()
	assert.Equal(t, [2]int{3, 3}, [2]int{w, h})

	_, err = r.NewFramebuffer(0, 4)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestFramebuffer_UseNests(t *testing.T) {
	r, _ := newTestRenderer(t)
	f := r.Functions()

	a, err := r.NewFramebuffer(8, 8)
	require.NoError(t, err)
	defer a.Release()
	b, err := r.NewFramebuffer(2, 3)
	require.NoError(t, err)
	defer b.Release()

	before := f.GetInteger4(gl.VIEWPORT)
	err = a.Use(func() error {
		assert.Equal(t, [4]int{0, 0, 8, 8}, f.GetInteger4(gl.VIEWPORT))
		err := b.Use(func() error {
			assert.Equal(t, [4]int{0, 0, 2, 3}, f.GetInteger4(gl.VIEWPORT))
			return nil
		})
		assert.Equal(t, [4]int{0, 0, 8, 8}, f.GetInteger4(gl.VIEWPORT))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, before, f.GetInteger4(gl.VIEWPORT))
	assert.Equal(t, 0, f.GetInteger(gl.FRAMEBUFFER_BINDING))
}

func TestFramebuffer_UseRestoresOnError(t *testing.T) {
	r, _ := newTestRenderer(t)
	f := r.Functions()
	fb, err := r.NewFramebuffer(4, 4)
	require.NoError(t, err)
	defer fb.Release()

	boom := errors.New("boom")
	before := f.GetInteger4(gl.VIEWPORT)
	err = fb.Use(func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, f.GetInteger4(gl.VIEWPORT))
	assert.Equal(t, 0, f.GetInteger(gl.FRAMEBUFFER_BINDING))
}

func TestFramebuffer_ClearAndRead(t *testing.T) {
	r, _ := newTestRenderer(t)
	fb, err := r.NewFramebuffer(3, 2)
	require.NoError(t, err)
	defer fb.Release()

	require.NoError(t, fb.Clear(RGBA{1, 0.5, 0, 1}))
	img, err := fb.ReadPixels()
	require.NoError(t, err)
	assertUniform(t, img, color.NRGBA{255, 128, 0, 255}, 0)
}

func TestFramebuffer_Ownership(t *testing.T) {
	r, dev := newTestRenderer(t)
	live := dev.Stats().Live

	tex, err := r.NewTexture(Size(2, 2))
	require.NoError(t, err)
	borrowed, err := r.FramebufferFor(tex)
	require.NoError(t, err)
	assert.False(t, borrowed.Owned())

	borrowed.Release()
	borrowed.Release()
	assert.Equal(t, live+1, dev.Stats().Live, "borrowed texture must survive")
	require.NoError(t, tex.Update(Size(4, 4)))
	assert.ErrorIs(t, borrowed.Use(func() error { return nil }), ErrReleased)
	tex.Release()

	owned, err := r.NewFramebuffer(2, 2)
	require.NoError(t, err)
	owned.Release()
	assert.Equal(t, live, dev.Stats().Live)
	assert.ErrorIs(t, owned.Texture().Update(Size(1, 1)), ErrReleased)
}

func TestFramebuffer_Surface(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := r.Surface()
	assert.True(t, s.IsSurface())

	require.NoError(t, s.Resize(5, 7))
	w, h := s.Size()
	assert.Equal(t, [2]int{5, 7}, [2]int{w, h})
	dw, dh := dev.SurfaceSize()
	assert.Equal(t, [2]int{5, 7}, [2]int{dw, dh})

	require.NoError(t, s.Clear(Blue))
	assertUniform(t, dev.Surface(), color.NRGBA{0, 0, 255, 255}, 0)

	// The surface belongs to the device.
	s.Release()
	require.NoError(t, s.Clear(Red))
	assertUniform(t, dev.Surface(), color.NRGBA{255, 0, 0, 255}, 0)
}
