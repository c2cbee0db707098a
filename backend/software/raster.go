package software

import (
	"encoding/binary"

	"github.com/chewxy/math32"

	"github.com/go-theft-auto/glfx/gl"
)

// target returns the color buffer of the bound framebuffer.
func (f *functions) target() *texture {
	if f.fb == 0 {
		return f.surface
	}
	t := f.textures[f.framebuffers[f.fb].tex]
	if t == nil || t.w == 0 || t.h == 0 {
		return nil
	}
	return t
}

func (f *functions) Clear(mask gl.Enum) {
	if mask&gl.COLOR_BUFFER_BIT == 0 {
		return
	}
	t := f.target()
	if t == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			t.store(x, y, f.clearColor)
		}
	}
	f.stats.Clears++
}

func (f *functions) ReadPixels(x, y, width, height int, format, ty gl.Enum, data []byte) {
	if format != gl.RGBA || ty != gl.UNSIGNED_BYTE {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	if width < 0 || height < 0 {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	if len(data) < 4*width*height {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	t := f.target()
	if t == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			sx, sy := x+i, y+j
			if sx < 0 || sy < 0 || sx >= t.w || sy >= t.h {
				continue
			}
			c := t.texel(sx, sy)
			o := 4 * (j*width + i)
			for k := range c {
				data[o+k] = byte(math32.Round(clamp01(c[k]) * 255))
			}
		}
	}
}

func (f *functions) DrawArrays(mode gl.Enum, first, count int) {
	if first < 0 || count < 0 {
		f.setErr(gl.INVALID_VALUE)
		return
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = first + i
	}
	f.draw(mode, idx)
}

func (f *functions) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	b := f.buffers[f.elemBuf]
	if b == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	size := componentSize(ty)
	if ty != gl.UNSIGNED_BYTE && ty != gl.UNSIGNED_SHORT && ty != gl.UNSIGNED_INT {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	if count < 0 || offset < 0 || offset+count*size > len(b.data) {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	idx := make([]int, count)
	for i := range idx {
		p := b.data[offset+i*size:]
		switch ty {
		case gl.UNSIGNED_BYTE:
			idx[i] = int(p[0])
		case gl.UNSIGNED_SHORT:
			idx[i] = int(binary.LittleEndian.Uint16(p))
		case gl.UNSIGNED_INT:
			idx[i] = int(binary.LittleEndian.Uint32(p))
		}
	}
	f.draw(mode, idx)
}

// shaded is a vertex after the vertex stage, in window coordinates.
type shaded struct {
	x, y, invW float32
	vary       []float32
}

func (f *functions) draw(mode gl.Enum, idx []int) {
	prog := f.programs[f.prog]
	if prog == nil || !prog.linked {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	dst := f.target()
	if dst == nil {
		f.setErr(gl.INVALID_OPERATION)
		return
	}
	tris, ok := assemble(mode, len(idx))
	if !ok {
		f.setErr(gl.INVALID_ENUM)
		return
	}
	vp := f.viewport
	e := &env{f: f, prog: prog, vpW: vp[2], vpH: vp[3]}

	cache := make(map[int]*shaded, len(idx))
	vertex := func(i int) *shaded {
		if s, ok := cache[i]; ok {
			return s
		}
		v := &Vertex{
			env:     e,
			attribs: make(map[string][4]float32, len(prog.attribIndex)),
			out:     make([]float32, prog.varSize),
			layout:  prog.layout,
		}
		for name, loc := range prog.attribIndex {
			if a, ok := f.fetch(loc, i); ok {
				v.attribs[name] = a
			}
		}
		pos := prog.vertex.Main(v)
		s := &shaded{vary: v.out}
		if pos[3] != 0 {
			s.invW = 1 / pos[3]
		}
		s.x = float32(vp[0]) + (pos[0]*s.invW+1)*float32(vp[2])/2
		s.y = float32(vp[1]) + (pos[1]*s.invW+1)*float32(vp[3])/2
		cache[i] = s
		return s
	}

	frag := &Fragment{env: e, in: make([]float32, prog.varSize), layout: prog.layout}
	for _, t := range tris {
		a, b, c := vertex(idx[t[0]]), vertex(idx[t[1]]), vertex(idx[t[2]])
		if a.invW <= 0 || b.invW <= 0 || c.invW <= 0 {
			continue
		}
		f.rasterize(dst, prog, frag, a, b, c)
	}
	f.stats.Draws++
}

// assemble lists the vertex triples of n vertices drawn as mode.
func assemble(mode gl.Enum, n int) ([][3]int, bool) {
	var tris [][3]int
	switch mode {
	case gl.TRIANGLES:
		for i := 0; i+2 < n; i += 3 {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		}
	case gl.TRIANGLE_STRIP:
		for i := 2; i < n; i++ {
			if i%2 == 0 {
				tris = append(tris, [3]int{i - 2, i - 1, i})
			} else {
				tris = append(tris, [3]int{i - 1, i - 2, i})
			}
		}
	case gl.TRIANGLE_FAN:
		for i := 2; i < n; i++ {
			tris = append(tris, [3]int{0, i - 1, i})
		}
	default:
		return nil, false
	}
	return tris, true
}

// fetch reads vertex i of the attribute at loc.
func (f *functions) fetch(loc, i int) ([4]float32, bool) {
	if loc >= maxAttribs || !f.attribs[loc].enabled {
		return [4]float32{}, false
	}
	a := f.attribs[loc]
	b := f.buffers[a.buf]
	if b == nil {
		return [4]float32{}, false
	}
	cs := componentSize(a.ty)
	stride := a.stride
	if stride == 0 {
		stride = a.size * cs
	}
	base := a.offset + i*stride
	if base < 0 || base+a.size*cs > len(b.data) {
		return [4]float32{}, false
	}
	v := [4]float32{0, 0, 0, 1}
	for k := 0; k < a.size; k++ {
		p := b.data[base+k*cs:]
		if a.ty == gl.FLOAT || a.normalized {
			v[k] = component(p, a.ty)
			continue
		}
		switch a.ty {
		case gl.UNSIGNED_BYTE:
			v[k] = float32(p[0])
		case gl.BYTE:
			v[k] = float32(int8(p[0]))
		case gl.UNSIGNED_SHORT:
			v[k] = float32(binary.LittleEndian.Uint16(p))
		case gl.SHORT:
			v[k] = float32(int16(binary.LittleEndian.Uint16(p)))
		case gl.UNSIGNED_INT:
			v[k] = float32(binary.LittleEndian.Uint32(p))
		}
	}
	return v, true
}

func orient(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether pixels exactly on the edge a->b of a
// counter-clockwise triangle belong to it.
func topLeft(a, b *shaded) bool {
	top := a.y == b.y && b.x < a.x
	left := b.y < a.y
	return top || left
}

func (f *functions) rasterize(dst *texture, prog *program, frag *Fragment, a, b, c *shaded) {
	area := orient(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}
	vp := f.viewport
	x0 := max(int(math32.Floor(min(a.x, b.x, c.x))), vp[0], 0)
	y0 := max(int(math32.Floor(min(a.y, b.y, c.y))), vp[1], 0)
	x1 := min(int(math32.Ceil(max(a.x, b.x, c.x))), vp[0]+vp[2], dst.w)
	y1 := min(int(math32.Ceil(max(a.y, b.y, c.y))), vp[1]+vp[3], dst.h)
	tlA, tlB, tlC := topLeft(b, c), topLeft(c, a), topLeft(a, b)

	for y := y0; y < y1; y++ {
		py := float32(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float32(x) + 0.5
			wa := orient(b.x, b.y, c.x, c.y, px, py)
			wb := orient(c.x, c.y, a.x, a.y, px, py)
			wc := orient(a.x, a.y, b.x, b.y, px, py)
			if wa < 0 || wb < 0 || wc < 0 ||
				(wa == 0 && !tlA) || (wb == 0 && !tlB) || (wc == 0 && !tlC) {
				continue
			}
			// Perspective-correct weights.
			la, lb, lc := wa/area*a.invW, wb/area*b.invW, wc/area*c.invW
			sum := la + lb + lc
			la, lb, lc = la/sum, lb/sum, lc/sum
			for i := range frag.in {
				frag.in[i] = a.vary[i]*la + b.vary[i]*lb + c.vary[i]*lc
			}
			frag.X, frag.Y = px, py
			src := prog.fragment.Main(frag)
			if dst.fixed {
				for i := range src {
					src[i] = clamp01(src[i])
				}
			}
			if f.blend {
				src = f.blendPixel(src, dst.texel(x, y))
			}
			dst.store(x, y, src)
		}
	}
}

func (f *functions) blendPixel(src, dst [4]float32) [4]float32 {
	sf := factor(f.blendSrc, src, dst)
	df := factor(f.blendDst, src, dst)
	sf[3] = factor(f.blendSrcA, src, dst)[3]
	df[3] = factor(f.blendDstA, src, dst)[3]
	var out [4]float32
	for i := range out {
		s, d := src[i]*sf[i], dst[i]*df[i]
		switch f.blendEq {
		case gl.FUNC_SUBTRACT:
			out[i] = s - d
		case gl.FUNC_REVERSE_SUBTRACT:
			out[i] = d - s
		default:
			out[i] = s + d
		}
	}
	return out
}

func factor(fac gl.Enum, src, dst [4]float32) [4]float32 {
	splat := func(v float32) [4]float32 { return [4]float32{v, v, v, v} }
	inv := func(c [4]float32) [4]float32 {
		return [4]float32{1 - c[0], 1 - c[1], 1 - c[2], 1 - c[3]}
	}
	switch fac {
	case gl.ZERO:
		return splat(0)
	case gl.ONE:
		return splat(1)
	case gl.SRC_COLOR:
		return src
	case gl.ONE_MINUS_SRC_COLOR:
		return inv(src)
	case gl.DST_COLOR:
		return dst
	case gl.ONE_MINUS_DST_COLOR:
		return inv(dst)
	case gl.SRC_ALPHA:
		return splat(src[3])
	case gl.ONE_MINUS_SRC_ALPHA:
		return splat(1 - src[3])
	case gl.DST_ALPHA:
		return splat(dst[3])
	case gl.ONE_MINUS_DST_ALPHA:
		return splat(1 - dst[3])
	}
	return splat(1)
}
