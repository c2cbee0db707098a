/*
Package glfx runs chains of shader-backed image operations on the GPU.

# Overview

A Renderer wraps a graphics context (a Device) and hands out textures,
buffers and framebuffers. Programs are compiled from a ProgramDef on first
use and cached by the identity of the definition. An Operation draws from a
source texture into a target framebuffer; a Pipeline runs a list of them,
ping-ponging between two framebuffers, and blits the result to the surface.

Every call is synchronous and scoped: binding a framebuffer, buffer or
program for a callback restores the previous binding afterwards, also when
the callback fails, so calls nest and the context is left as it was found.

# Quick Start

	dev, _ := opengl.NewDevice(glfx.DefaultContextConfig())
	defer dev.Release()

	r, _ := glfx.NewRenderer(dev)
	defer r.Release()

	src, _ := r.NewTexture(glfx.Image(img))
	p := glfx.NewPipeline(r).Append(
	    glfx.Resize{Width: 640},
	    glfx.Gamma{In: 1, Out: 2.2},
	)
	p.Append(glfx.GaussianBlur(3)...)
	if err := p.Present(src); err != nil {
	    return err
	}
	out, _ := r.Snapshot()

# Operations

	Copy{}
	    Draws the source unchanged.

	Resize{Width, Height}
	    Scales to the given size. With one side left zero the other keeps
	    the aspect ratio; with both zero the size is unchanged.

	Color{Color}
	    Composites a straight-alpha color over the source. An opaque color
	    replaces the image.

	Blur{Radius, Direction}
	    One pass of a separable Gaussian blur. GaussianBlur returns both
	    passes. A radius of 0 draws nothing.

	Modulate{Brightness, Saturation, Hue, Lightness, Tint}
	    HSL adjustment. Start from NewModulate.

	Gamma{In, Out}
	    Raises each channel to Out/In.

	Linear{Multiply, Add}
	    color*Multiply + Add, clamped. Negate and Tint are Linear presets.

	LUT{Curve}
	    Maps luminance through a ToneCurve, keeping hue.

	ProgramOperation{Def, Props}
	    Runs a custom program. Its ProgramDef should use QuadVertexShader and
	    declare an a_position attribute bound to Prop("position").

# Skipped operations

An operation that draws nothing, such as a zero-radius blur, leaves the
pipeline image unchanged under the default SwapOnDraw policy. With
SwapAlways the buffers flip regardless and the next step reads the
undefined contents of the skipped target.

# Errors

Failures are returned immediately and wrap one of the Err* sentinels, so
callers test them with errors.Is. Compile and link failures are returned as
*ShaderError carrying the driver log.

# Logging

glfx logs through log/slog and is silent unless SetLogger or WithLogger
provides a logger.

# Backends

backend/opengl creates a hidden GLFW window with an OpenGL 4.1 core
context. backend/software is a pure Go rasterizer whose shaders are Go
functions registered per source text; it runs anywhere and is what the
tests use.
*/
package glfx
