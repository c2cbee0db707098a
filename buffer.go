package glfx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-theft-auto/glfx/gl"
)

// Buffer is a GPU vertex or index buffer.
type Buffer struct {
	r        *Renderer
	obj      gl.Buffer
	target   BufferTarget
	usage    Usage
	size     int
	released bool
}

// NewBuffer creates a buffer. Vertex buffers without Data hold the
// full-screen quad.
func (r *Renderer) NewBuffer(opts ...BufferOption) (*Buffer, error) {
	if r.released {
		return nil, ErrReleased
	}
	cfg := bufferConfig{target: VertexBuffer, usage: UsageStatic}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.data == nil && cfg.target == VertexBuffer {
		cfg.data = quadVertices
	}
	glErr(r.f)
	obj := r.f.CreateBuffer()
	if !obj.Valid() {
		return nil, createErr(cfg.target.String()+" buffer", glErr(r.f))
	}
	b := &Buffer{r: r, obj: obj, target: cfg.target, usage: cfg.usage}
	if err := b.Update(cfg.data); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// Target returns the buffer target.
func (b *Buffer) Target() BufferTarget {
	return b.target
}

// Len returns the size of the contents in bytes.
func (b *Buffer) Len() int {
	return b.size
}

// Handle returns the underlying GL object.
func (b *Buffer) Handle() gl.Buffer {
	return b.obj
}

// Use binds b to its target for the duration of fn and restores the previous
// binding afterwards, also when fn fails.
func (b *Buffer) Use(fn func() error) error {
	if b.released {
		return ErrReleased
	}
	f := b.r.f
	prev := f.GetInteger(b.target.bindingEnum())
	f.BindBuffer(b.target.glEnum(), b.obj)
	defer f.BindBuffer(b.target.glEnum(), gl.Buffer{V: uint(prev)})
	return fn()
}

// Update replaces the contents. data may be []byte, []float32, []float64,
// []uint16, []uint32, []int or nil. Numeric slices other than the typed
// 32-bit and 16-bit ones are promoted to float32 for vertex buffers and to
// uint16 for index buffers. A nil or empty payload still allocates.
func (b *Buffer) Update(data any) error {
	if b.released {
		return ErrReleased
	}
	bytes, err := b.encode(data)
	if err != nil {
		return err
	}
	return b.Use(func() error {
		f := b.r.f
		glErr(f)
		f.BufferData(b.target.glEnum(), len(bytes), bytes, b.usage.glEnum())
		if err := glErr(f); err != nil {
			return createErr(fmt.Sprintf("%s buffer storage of %d bytes", b.target, len(bytes)), err)
		}
		b.size = len(bytes)
		return nil
	})
}

// Release deletes the GL buffer. Further calls are no-ops.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.r.f.DeleteBuffer(b.obj)
}

func (b *Buffer) encode(data any) ([]byte, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case []byte:
		return d, nil
	case []float32:
		return float32Bytes(d), nil
	case []uint16:
		return uint16Bytes(d), nil
	case []uint32:
		out := make([]byte, 4*len(d))
		for i, v := range d {
			binary.LittleEndian.PutUint32(out[4*i:], v)
		}
		return out, nil
	case []float64:
		if b.target == IndexBuffer {
			idx := make([]uint16, len(d))
			for i, v := range d {
				idx[i] = uint16(v)
			}
			return uint16Bytes(idx), nil
		}
		v := make([]float32, len(d))
		for i := range d {
			v[i] = float32(d[i])
		}
		return float32Bytes(v), nil
	case []int:
		if b.target == IndexBuffer {
			idx := make([]uint16, len(d))
			for i, v := range d {
				idx[i] = uint16(v)
			}
			return uint16Bytes(idx), nil
		}
		v := make([]float32, len(d))
		for i := range d {
			v[i] = float32(d[i])
		}
		return float32Bytes(v), nil
	default:
		return nil, fmt.Errorf("%w: buffer data of type %T", ErrUnsupportedValue, data)
	}
}

func float32Bytes(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out
}

func uint16Bytes(v []uint16) []byte {
	out := make([]byte, 2*len(v))
	for i, u := range v {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}
