package glfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glfx/backend/software"
)

func TestNewRenderer_NilDevice(t *testing.T) {
	_, err := NewRenderer(nil)
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
}

func TestNewRenderer_CreationFailure(t *testing.T) {
	dev := software.New(1, 1, software.WithLimits(software.Limits{MaxObjects: 1}))
	_, err := NewRenderer(dev)
	assert.ErrorIs(t, err, ErrResourceCreation)
	assert.Zero(t, dev.Stats().Live)
}

func TestRenderer_Release(t *testing.T) {
	dev := software.New(1, 1, software.WithShaders(testLibrary))
	r, err := NewRenderer(dev)
	require.NoError(t, err)

	_, err = r.Program(copyProgram)
	require.NoError(t, err)
	_, err = r.Program(blurProgram)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Programs())

	r.Release()
	r.Release()
	assert.Zero(t, dev.Stats().Live)
	assert.Zero(t, r.Programs())

	_, err = r.Program(copyProgram)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = r.NewTexture()
	assert.ErrorIs(t, err, ErrReleased)
	_, err = r.NewBuffer()
	assert.ErrorIs(t, err, ErrReleased)
	_, err = r.NewFramebuffer(1, 1)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestRenderer_ReleaseProgram(t *testing.T) {
	r, dev := newTestRenderer(t)
	live := dev.Stats().Live

	_, err := r.Program(gammaProgram)
	require.NoError(t, err)
	assert.Equal(t, live+1, dev.Stats().Live)

	r.ReleaseProgram(gammaProgram)
	assert.Equal(t, live, dev.Stats().Live)
	assert.Zero(t, r.Programs())

	// Compiled again on demand.
	compiles := dev.Stats().Compiles
	_, err = r.Program(gammaProgram)
	require.NoError(t, err)
	assert.Equal(t, compiles+2, dev.Stats().Compiles)
}

func TestRenderer_ResizeSurface(t *testing.T) {
	r, dev := newTestRenderer(t)

	require.NoError(t, r.ResizeSurface(12, 8))
	w, h := r.SurfaceSize()
	assert.Equal(t, [2]int{12, 8}, [2]int{w, h})

	assert.ErrorIs(t, r.ResizeSurface(0, 8), ErrInvalidDimension)
	assert.ErrorIs(t, r.ResizeSurface(100000, 8), ErrSurfaceUnavailable)
	w, h = dev.SurfaceSize()
	assert.Equal(t, [2]int{12, 8}, [2]int{w, h})
}

func TestRenderer_Accessors(t *testing.T) {
	r, dev := newTestRenderer(t)

	assert.Same(t, dev.Functions(), r.Functions())
	assert.Equal(t, VertexBuffer, r.Quad().Target())
	assert.Same(t, r.Quad(), r.QuadAttribute().Buffer)
	assert.Equal(t, 2, r.QuadAttribute().Size)
	assert.True(t, r.Surface().IsSurface())
}
