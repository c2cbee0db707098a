package software

import (
	"strings"
	"sync"
)

// Varying is an interpolated value passed from the vertex to the fragment
// stage.
type Varying struct {
	Name string
	Size int
}

// VertexShader is the Go implementation of a vertex stage. Main returns the
// clip-space position and writes varyings through Vertex.Out.
type VertexShader struct {
	Attributes []string
	Uniforms   []string
	Varyings   []Varying
	Main       func(v *Vertex) [4]float32
}

// FragmentShader is the Go implementation of a fragment stage. Main returns
// the fragment color.
type FragmentShader struct {
	Uniforms []string
	Varyings []Varying
	Main     func(f *Fragment) [4]float32
}

// Library maps shader source text to Go implementations. A shader whose
// source is not registered fails to compile.
type Library struct {
	mu       sync.RWMutex
	vertex   map[string]VertexShader
	fragment map[string]FragmentShader
}

func NewLibrary() *Library {
	return &Library{
		vertex:   make(map[string]VertexShader),
		fragment: make(map[string]FragmentShader),
	}
}

// RegisterVertex registers the vertex stage for src.
func (l *Library) RegisterVertex(src string, s VertexShader) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vertex[src] = s
}

// RegisterFragment registers the fragment stage for src.
func (l *Library) RegisterFragment(src string, s FragmentShader) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fragment[src] = s
}

func (l *Library) lookupVertex(src string) (VertexShader, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.vertex[src]
	return s, ok
}

func (l *Library) lookupFragment(src string) (FragmentShader, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.fragment[src]
	return s, ok
}

// env gives both stages access to uniforms and samplers.
type env struct {
	f    *functions
	prog *program
	// viewport size of the draw, used to pick the min or mag filter.
	vpW, vpH int
}

// Float returns the first component of a uniform.
func (e *env) Float(name string) float32 {
	v := e.Vec(name)
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

// Int returns a uniform as an integer, e.g. the unit of a sampler.
func (e *env) Int(name string) int {
	return int(e.Float(name))
}

// Vec returns every component of a uniform, nil if it was never set.
func (e *env) Vec(name string) []float32 {
	loc, ok := e.prog.uniformIndex[name]
	if !ok {
		return nil
	}
	return e.prog.values[loc]
}

// Sample samples the texture bound to the unit stored in the sampler
// uniform name. Unbound units read as transparent black.
func (e *env) Sample(name string, u, v float32) [4]float32 {
	unit := e.Int(name)
	if unit < 0 || unit >= len(e.f.units) {
		return [4]float32{}
	}
	t := e.f.textures[e.f.units[unit]]
	if t == nil || t.w == 0 || t.h == 0 {
		return [4]float32{}
	}
	filter := t.magFilter
	if t.w > e.vpW || t.h > e.vpH {
		filter = t.minFilter
	}
	return t.sample(u, v, filter)
}

// Vertex is the input and output of one vertex shader invocation.
type Vertex struct {
	*env
	attribs map[string][4]float32
	out     []float32
	layout  map[string]span
}

// Attrib returns an attribute padded to (0, 0, 0, 1).
func (v *Vertex) Attrib(name string) [4]float32 {
	if a, ok := v.attribs[name]; ok {
		return a
	}
	return [4]float32{0, 0, 0, 1}
}

// Out writes a varying.
func (v *Vertex) Out(name string, vals ...float32) {
	s, ok := v.layout[name]
	if !ok {
		return
	}
	copy(v.out[s.off:s.off+s.size], vals)
}

// Fragment is the input of one fragment shader invocation.
type Fragment struct {
	*env
	// X and Y are the window coordinates of the pixel center.
	X, Y   float32
	in     []float32
	layout map[string]span
}

// In returns an interpolated varying.
func (f *Fragment) In(name string) []float32 {
	s, ok := f.layout[name]
	if !ok {
		return nil
	}
	return f.in[s.off : s.off+s.size]
}

type span struct {
	off, size int
}

// summary shortens shader source for info logs.
func summary(src string) string {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			if len(line) > 48 {
				line = line[:48] + "..."
			}
			return line
		}
	}
	return "<empty>"
}
