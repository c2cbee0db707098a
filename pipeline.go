package glfx

import (
	"fmt"
	"log/slog"
	"slices"
)

// SwapPolicy decides when a pipeline flips its two framebuffers after an
// operation.
type SwapPolicy int

const (
	// SwapOnDraw flips only after operations that issued a draw call, so an
	// operation that returns early leaves the current image in place.
	SwapOnDraw SwapPolicy = iota
	// SwapAlways flips after every operation. An operation that draws
	// nothing then hands the undefined contents of its target to the next
	// step.
	SwapAlways
)

func (s SwapPolicy) String() string {
	switch s {
	case SwapOnDraw:
		return "swap-on-draw"
	case SwapAlways:
		return "swap-always"
	default:
		return fmt.Sprintf("SwapPolicy(%d)", int(s))
	}
}

// State is the lifecycle state of a pipeline.
type State int

const (
	Idle State = iota
	Rendering
	Presented
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Presented:
		return "presented"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pipeline runs an ordered list of operations, ping-ponging between two
// framebuffers so that any number of operations needs only two targets.
//
// Pipelines are not safe for concurrent use. Clones share the renderer but
// not the framebuffers.
type Pipeline struct {
	r    *Renderer
	log  *slog.Logger
	ops  []Operation
	swap SwapPolicy

	fbs    [2]*Framebuffer
	result *Texture
	state  State
}

// NewPipeline returns an empty pipeline rendering with r.
func NewPipeline(r *Renderer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{r: r, log: r.log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Append adds operations to the end of the list.
func (p *Pipeline) Append(ops ...Operation) *Pipeline {
	p.ops = append(p.ops, ops...)
	return p
}

// Insert inserts op before index i. i may equal Len.
func (p *Pipeline) Insert(i int, op Operation) error {
	if i < 0 || i > len(p.ops) {
		return fmt.Errorf("glfx: insert at %d out of range [0,%d]", i, len(p.ops))
	}
	p.ops = slices.Insert(p.ops, i, op)
	return nil
}

// Remove removes the operation at index i.
func (p *Pipeline) Remove(i int) error {
	if i < 0 || i >= len(p.ops) {
		return fmt.Errorf("glfx: remove at %d out of range [0,%d)", i, len(p.ops))
	}
	p.ops = slices.Delete(p.ops, i, i+1)
	return nil
}

// Set replaces the operation at index i.
func (p *Pipeline) Set(i int, op Operation) error {
	if i < 0 || i >= len(p.ops) {
		return fmt.Errorf("glfx: set at %d out of range [0,%d)", i, len(p.ops))
	}
	p.ops[i] = op
	return nil
}

// Operations returns a copy of the operation list.
func (p *Pipeline) Operations() []Operation {
	return slices.Clone(p.ops)
}

// Len returns the number of operations.
func (p *Pipeline) Len() int {
	return len(p.ops)
}

// Clone returns an idle pipeline with the same renderer, swap policy and a
// copy of the operation list. The operations themselves are shared, including
// state they cache such as a LUT texture.
func (p *Pipeline) Clone() *Pipeline {
	return &Pipeline{r: p.r, log: p.log, ops: slices.Clone(p.ops), swap: p.swap}
}

// State returns the lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Result returns the texture produced by the last Render. It is src itself
// for an empty pipeline and is overwritten by the next Render.
func (p *Pipeline) Result() *Texture {
	return p.result
}

// Render runs every operation in order starting from src and returns the
// texture holding the final image. Before each operation the target is
// sized to the current image; an operation such as Resize may resize it
// again.
func (p *Pipeline) Render(src *Texture) (*Texture, error) {
	if p.state == Rendering {
		return nil, ErrPipelineBusy
	}
	if src == nil || src.released {
		return nil, fmt.Errorf("%w: pipeline input", ErrMissingSource)
	}
	p.state = Rendering
	p.result = nil
	out, err := p.render(src)
	p.state = Idle
	if err != nil {
		return nil, err
	}
	p.result = out
	return out, nil
}

func (p *Pipeline) render(src *Texture) (*Texture, error) {
	if len(p.ops) == 0 {
		return src, nil
	}
	w, h := src.Size()
	if err := p.ensureFramebuffers(w, h); err != nil {
		return nil, err
	}

	cur, i := src, 0
	for n, op := range p.ops {
		dst := p.fbs[i]
		if dst.Texture() == cur {
			i ^= 1
			dst = p.fbs[i]
		}
		if err := dst.Resize(cur.Size()); err != nil {
			return nil, err
		}
		draws := p.r.draws
		ctx := &RunContext{Renderer: p.r, Source: cur, Target: dst}
		if err := op.Run(ctx); err != nil {
			return nil, fmt.Errorf("glfx: pipeline step %d (%T): %w", n, op, err)
		}
		drew := p.r.draws != draws
		if drew || p.swap == SwapAlways {
			cur = dst.Texture()
			i ^= 1
		}
		ow, oh := cur.Size()
		p.log.Debug("glfx: pipeline step", "step", n, "op", fmt.Sprintf("%T", op),
			"drew", drew, "width", ow, "height", oh)
	}
	return cur, nil
}

func (p *Pipeline) ensureFramebuffers(w, h int) error {
	for i, fb := range p.fbs {
		if fb != nil {
			continue
		}
		fb, err := p.r.NewFramebuffer(w, h)
		if err != nil {
			return err
		}
		p.fbs[i] = fb
	}
	return nil
}

// Present renders src and blits the result to the renderer surface, which
// is resized to the size of the result.
func (p *Pipeline) Present(src *Texture) error {
	out, err := p.Render(src)
	if err != nil {
		return err
	}
	if err := p.r.Blit(out); err != nil {
		return err
	}
	p.state = Presented
	return nil
}

// Release deletes the framebuffers of p. Operations keep their own state;
// release those separately, e.g. LUT.Release.
func (p *Pipeline) Release() {
	for i, fb := range p.fbs {
		if fb != nil {
			fb.Release()
			p.fbs[i] = nil
		}
	}
	p.result = nil
	p.state = Idle
}
