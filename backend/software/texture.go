package software

import (
	"encoding/binary"

	"github.com/chewxy/math32"

	"github.com/go-theft-auto/glfx/gl"
)

// texture is level 0 of a 2D texture, stored as RGBA float32 with row 0 at
// the bottom.
type texture struct {
	w, h int
	pix  []float32
	// fixed marks normalized fixed-point storage; writes are clamped and
	// quantized to 8 bits.
	fixed bool

	minFilter, magFilter gl.Enum
	wrapS, wrapT         gl.Enum
}

func newTexture() *texture {
	return &texture{
		fixed:     true,
		minFilter: gl.LINEAR,
		magFilter: gl.LINEAR,
		wrapS:     gl.REPEAT,
		wrapT:     gl.REPEAT,
	}
}

func (t *texture) alloc(w, h int) {
	t.w, t.h = w, h
	t.pix = make([]float32, 4*w*h)
}

func (t *texture) texel(x, y int) [4]float32 {
	i := 4 * (y*t.w + x)
	return [4]float32{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

func (t *texture) store(x, y int, c [4]float32) {
	if t.fixed {
		c = quantize(c)
	}
	i := 4 * (y*t.w + x)
	copy(t.pix[i:i+4], c[:])
}

func (t *texture) sample(u, v float32, filter gl.Enum) [4]float32 {
	switch filter {
	case gl.NEAREST, gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST_MIPMAP_LINEAR:
		x := wrap(int(math32.Floor(u*float32(t.w))), t.w, t.wrapS)
		y := wrap(int(math32.Floor(v*float32(t.h))), t.h, t.wrapT)
		return t.texel(x, y)
	}
	fx := u*float32(t.w) - 0.5
	fy := v*float32(t.h) - 0.5
	x0, y0 := math32.Floor(fx), math32.Floor(fy)
	ax, ay := fx-x0, fy-y0
	xa := wrap(int(x0), t.w, t.wrapS)
	xb := wrap(int(x0)+1, t.w, t.wrapS)
	ya := wrap(int(y0), t.h, t.wrapT)
	yb := wrap(int(y0)+1, t.h, t.wrapT)
	c00, c10 := t.texel(xa, ya), t.texel(xb, ya)
	c01, c11 := t.texel(xa, yb), t.texel(xb, yb)
	var c [4]float32
	for i := range c {
		top := c00[i]*(1-ax) + c10[i]*ax
		bot := c01[i]*(1-ax) + c11[i]*ax
		c[i] = top*(1-ay) + bot*ay
	}
	return c
}

func wrap(i, n int, mode gl.Enum) int {
	switch mode {
	case gl.REPEAT:
		return ((i % n) + n) % n
	case gl.MIRRORED_REPEAT:
		m := ((i % (2 * n)) + 2*n) % (2 * n)
		if m >= n {
			m = 2*n - 1 - m
		}
		return m
	default:
		return min(max(i, 0), n-1)
	}
}

func quantize(c [4]float32) [4]float32 {
	for i, v := range c {
		c[i] = math32.Round(clamp01(v)*255) / 255
	}
	return c
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

func channels(format gl.Enum) int {
	switch format {
	case gl.RGBA:
		return 4
	case gl.RGB:
		return 3
	case gl.RED:
		return 1
	}
	return 0
}

func componentSize(ty gl.Enum) int {
	switch ty {
	case gl.UNSIGNED_BYTE, gl.BYTE:
		return 1
	case gl.UNSIGNED_SHORT, gl.SHORT:
		return 2
	case gl.FLOAT, gl.UNSIGNED_INT:
		return 4
	}
	return 0
}

// component decodes one normalized component.
func component(b []byte, ty gl.Enum) float32 {
	switch ty {
	case gl.UNSIGNED_BYTE:
		return float32(b[0]) / 255
	case gl.BYTE:
		return math32.Max(float32(int8(b[0]))/127, -1)
	case gl.UNSIGNED_SHORT:
		return float32(binary.LittleEndian.Uint16(b)) / 65535
	case gl.SHORT:
		return math32.Max(float32(int16(binary.LittleEndian.Uint16(b)))/32767, -1)
	case gl.FLOAT:
		return math32.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// texImage replaces the storage of t. data rows are bottom first unless
// flip is set, and each row starts on an align byte boundary.
func (f *functions) texImage(t *texture, w, h int, format, ty gl.Enum, data []byte) {
	ch, cs := channels(format), componentSize(ty)
	if ch == 0 || cs == 0 || ty == gl.UNSIGNED_INT {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	if w < 0 || h < 0 || w > f.limits.MaxTextureSize || h > f.limits.MaxTextureSize {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	row := w * ch * cs
	stride := (row + f.unpackAlign - 1) / f.unpackAlign * f.unpackAlign
	if data != nil && h > 0 && len(data) < stride*(h-1)+row {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	t.alloc(w, h)
	t.fixed = ty != gl.FLOAT
	f.stats.TexImage2D++
	if data == nil {
		return
	}
	for y := 0; y < h; y++ {
		dy := y
		if f.flipY {
			dy = h - 1 - y
		}
		src := data[y*stride:]
		for x := 0; x < w; x++ {
			c := [4]float32{0, 0, 0, 1}
			for k := 0; k < ch; k++ {
				off := (x*ch + k) * cs
				c[k] = component(src[off:off+cs], ty)
			}
			t.store(x, dy, c)
		}
	}
}
