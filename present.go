package glfx

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoding is an image file encoding for Encode.
type Encoding int

const (
	EncodePNG Encoding = iota
	EncodeJPEG
	EncodeBMP
	EncodeTIFF
)

// JPEGQuality is the quality EncodeJPEG writes with.
const JPEGQuality = 92

// ParseEncoding maps a file extension or name such as ".png" or "jpeg" to an
// Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return EncodePNG, nil
	case "jpg", "jpeg":
		return EncodeJPEG, nil
	case "bmp":
		return EncodeBMP, nil
	case "tif", "tiff":
		return EncodeTIFF, nil
	}
	return 0, fmt.Errorf("%w: encoding %q", ErrUnsupportedValue, name)
}

func (e Encoding) String() string {
	switch e {
	case EncodePNG:
		return "png"
	case EncodeJPEG:
		return "jpeg"
	case EncodeBMP:
		return "bmp"
	case EncodeTIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Blit copies tex to the presentation surface, resizing the surface to the
// size of tex first.
func (r *Renderer) Blit(tex *Texture) error {
	if tex == nil || tex.released {
		return fmt.Errorf("%w: blit", ErrMissingSource)
	}
	if err := r.ResizeSurface(tex.Size()); err != nil {
		return err
	}
	return drawWith(&RunContext{Renderer: r, Source: tex, Target: r.surface}, copyProgram, nil)
}

// Snapshot reads back the presentation surface.
func (r *Renderer) Snapshot() (*image.NRGBA, error) {
	img, err := r.surface.ReadPixels()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	return img, nil
}

// Encode writes the presentation surface to w.
func (r *Renderer) Encode(w io.Writer, enc Encoding) error {
	img, err := r.Snapshot()
	if err != nil {
		return err
	}
	return EncodeImage(w, img, enc)
}

// EncodeImage writes img to w in the given encoding.
func EncodeImage(w io.Writer, img image.Image, enc Encoding) error {
	switch enc {
	case EncodePNG:
		return png.Encode(w, img)
	case EncodeJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case EncodeBMP:
		return bmp.Encode(w, img)
	case EncodeTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedValue, enc)
	}
}
