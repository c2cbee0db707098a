package glfx

import (
	"errors"
	"fmt"

	"github.com/go-theft-auto/glfx/gl"
)

var (
	// ErrResourceCreation reports that the driver refused to allocate an
	// object, usually because it ran out of memory or lost its context.
	ErrResourceCreation = errors.New("glfx: resource creation failed")
	// ErrShaderCompile reports a shader stage that failed to compile.
	ErrShaderCompile = errors.New("glfx: shader compilation failed")
	// ErrProgramLink reports a program that failed to link.
	ErrProgramLink = errors.New("glfx: program link failed")
	// ErrBindingNotFound reports a declared uniform or attribute missing from
	// the linked program.
	ErrBindingNotFound = errors.New("glfx: binding not found")
	// ErrInvalidDimension reports a non-positive width or height.
	ErrInvalidDimension = errors.New("glfx: invalid dimension")
	// ErrMissingSource reports an operation run without its source texture.
	ErrMissingSource = errors.New("glfx: missing source texture")
	// ErrUnsupportedValue reports a uniform or buffer value of the wrong shape.
	ErrUnsupportedValue = errors.New("glfx: unsupported value")
	// ErrSurfaceUnavailable reports a presentation surface that cannot be used.
	ErrSurfaceUnavailable = errors.New("glfx: surface unavailable")
	// ErrReleased reports use of an object after Release.
	ErrReleased = errors.New("glfx: object released")
	// ErrPipelineBusy reports a Render call made while the same pipeline is
	// rendering.
	ErrPipelineBusy = errors.New("glfx: pipeline is rendering")
)

// ShaderError carries the driver diagnostic for a failed compile or link.
type ShaderError struct {
	// Program is the name of the program definition.
	Program string
	// Stage is "vertex", "fragment" or "link".
	Stage string
	// Log is the driver info log.
	Log string
}

func (e *ShaderError) Error() string {
	if e.Stage == "link" {
		return fmt.Sprintf("glfx: program %q failed to link: %s", e.Program, e.Log)
	}
	return fmt.Sprintf("glfx: %s shader of %q failed to compile: %s", e.Stage, e.Program, e.Log)
}

func (e *ShaderError) Unwrap() error {
	if e.Stage == "link" {
		return ErrProgramLink
	}
	return ErrShaderCompile
}

// glErr drains the driver error flag.
func glErr(f gl.Functions) error {
	if st := f.GetError(); st != gl.NO_ERROR {
		return fmt.Errorf("glGetError: %#x", uint(st))
	}
	return nil
}

// createErr wraps a failed allocation of kind.
func createErr(kind string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %v", ErrResourceCreation, kind, cause)
	}
	return fmt.Errorf("%w: %s", ErrResourceCreation, kind)
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return nil
}
