package glfx

import (
	"fmt"

	"github.com/chewxy/math32"
)

var copyProgram = quadProgram("copy", copyFragmentShader, nil, sourceUniform())

// Copy draws the source unchanged into the target.
type Copy struct{}

func (Copy) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: copy", ErrMissingSource)
	}
	return drawWith(ctx, copyProgram, nil)
}

// Resize scales the image. With only one of Width and Height set the other
// follows the source aspect ratio; with neither the size is unchanged.
type Resize struct {
	Width, Height int
}

// Size returns the output size for a source of the given size.
func (o Resize) Size(srcWidth, srcHeight int) (width, height int) {
	width, height = o.Width, o.Height
	switch {
	case width <= 0 && height <= 0:
		return srcWidth, srcHeight
	case height <= 0:
		height = int(math32.Round(float32(width) * float32(srcHeight) / float32(srcWidth)))
	case width <= 0:
		width = int(math32.Round(float32(height) * float32(srcWidth) / float32(srcHeight)))
	}
	return max(width, 1), max(height, 1)
}

// Run resizes the target before drawing, so the copy fills the resized
// buffer.
func (o Resize) Run(ctx *RunContext) error {
	if ctx.Source == nil {
		return fmt.Errorf("%w: resize", ErrMissingSource)
	}
	w, h := o.Size(ctx.Source.Size())
	if err := ctx.Target.Resize(w, h); err != nil {
		return err
	}
	return drawWith(ctx, copyProgram, nil)
}
