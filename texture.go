package glfx

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/go-theft-auto/glfx/gl"
)

// Texture is a 2D GPU image.
type Texture struct {
	r        *Renderer
	obj      gl.Texture
	params   TextureParams
	released bool
}

// NewTexture creates a texture from DefaultTextureParams with opts applied.
func (r *Renderer) NewTexture(opts ...TextureOption) (*Texture, error) {
	if r.released {
		return nil, ErrReleased
	}
	glErr(r.f)
	obj := r.f.CreateTexture()
	if !obj.Valid() {
		return nil, createErr("texture", glErr(r.f))
	}
	t := &Texture{r: r, obj: obj, params: DefaultTextureParams()}
	if err := t.Update(opts...); err != nil {
		t.Release()
		return nil, err
	}
	r.log.Debug("glfx: texture created", "width", t.params.Width, "height", t.params.Height)
	return t, nil
}

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int) {
	return t.params.Width, t.params.Height
}

// Params returns the current parameters.
func (t *Texture) Params() TextureParams {
	return t.params
}

// Handle returns the underlying GL object.
func (t *Texture) Handle() gl.Texture {
	return t.obj
}

// Update merges opts into the current parameters and re-uploads the texture.
// The texture binding and pixel-unpack state of the context are restored
// afterwards.
func (t *Texture) Update(opts ...TextureOption) error {
	if t.released {
		return ErrReleased
	}
	next := t.params
	for _, opt := range opts {
		opt(&next)
	}
	if next.Image != nil {
		b := next.Image.Bounds()
		next.Width, next.Height = b.Dx(), b.Dy()
	}
	if !next.pixelsSet && (next.Width != t.params.Width || next.Height != t.params.Height) {
		next.Pixels = nil
	}
	next.pixelsSet = false
	if err := checkDimensions(next.Width, next.Height); err != nil {
		return err
	}
	data, err := next.pixelData()
	if err != nil {
		return err
	}
	if err := t.upload(next, data); err != nil {
		return err
	}
	t.params = next
	return nil
}

// Resize reallocates storage at the new size, dropping the pixel contents.
// It is a no-op when the size is unchanged.
func (t *Texture) Resize(width, height int) error {
	if t.released {
		return ErrReleased
	}
	if err := checkDimensions(width, height); err != nil {
		return err
	}
	if t.params.Width == width && t.params.Height == height {
		return nil
	}
	next := t.params
	next.Width, next.Height = width, height
	next.Image, next.Pixels = nil, nil
	if err := t.upload(next, nil); err != nil {
		return err
	}
	t.params = next
	return nil
}

// Bind binds t to texture unit.
func (t *Texture) Bind(unit int) {
	f := t.r.f
	f.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
	f.BindTexture(gl.TEXTURE_2D, t.obj)
}

// Release deletes the GL texture. Further calls are no-ops.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.r.f.DeleteTexture(t.obj)
}

func (t *Texture) upload(p TextureParams, data []byte) error {
	f := t.r.f
	prevTex := f.GetInteger(gl.TEXTURE_BINDING_2D)
	prevFlip := f.GetInteger(gl.UNPACK_FLIP_Y_WEBGL)
	prevAlign := f.GetInteger(gl.UNPACK_ALIGNMENT)
	defer func() {
		f.PixelStorei(gl.UNPACK_ALIGNMENT, prevAlign)
		f.PixelStorei(gl.UNPACK_FLIP_Y_WEBGL, prevFlip)
		f.BindTexture(gl.TEXTURE_2D, gl.Texture{V: uint(prevTex)})
	}()

	glErr(f)
	f.BindTexture(gl.TEXTURE_2D, t.obj)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int(p.MinFilter.glEnum()))
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int(p.MagFilter.glEnum()))
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int(p.WrapS.glEnum()))
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, int(p.WrapT.glEnum()))
	f.PixelStorei(gl.UNPACK_FLIP_Y_WEBGL, boolInt(p.FlipY))
	f.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	format := p.Format.glEnum()
	f.TexImage2D(gl.TEXTURE_2D, 0, format, p.Width, p.Height, format, p.Type.glEnum(), data)
	if err := glErr(f); err != nil {
		return createErr(fmt.Sprintf("texture storage %dx%d", p.Width, p.Height), err)
	}
	return nil
}

// pixelData returns the bytes to upload for p.
func (p *TextureParams) pixelData() ([]byte, error) {
	if p.Image != nil {
		return imagePixels(p.Image, p.Format, p.Type)
	}
	if p.Pixels == nil {
		return nil, nil
	}
	if want := p.Width * p.Height * p.Format.Channels() * p.Type.Size(); len(p.Pixels) < want {
		return nil, fmt.Errorf("%w: %d bytes of pixel data for %dx%d texture, need %d",
			ErrUnsupportedValue, len(p.Pixels), p.Width, p.Height, want)
	}
	return p.Pixels, nil
}

// imagePixels converts img to tightly packed rows in the given layout.
func imagePixels(img image.Image, format PixelFormat, typ ComponentType) ([]byte, error) {
	if typ != TypeUnsignedByte && typ != TypeFloat {
		return nil, fmt.Errorf("%w: image upload as component type %d", ErrUnsupportedValue, typ)
	}
	b := img.Bounds()
	var bytes []byte
	switch format {
	case FormatLuminance:
		gray, ok := img.(*image.Gray)
		if !ok || gray.Stride != b.Dx() {
			gray = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
			draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
		}
		bytes = gray.Pix
	default:
		rgba, ok := img.(*image.NRGBA)
		if !ok || rgba.Stride != 4*b.Dx() {
			rgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
			draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		}
		bytes = rgba.Pix
		if format == FormatRGB {
			rgb := make([]byte, 0, b.Dx()*b.Dy()*3)
			for i := 0; i < len(bytes); i += 4 {
				rgb = append(rgb, bytes[i], bytes[i+1], bytes[i+2])
			}
			bytes = rgb
		}
	}
	if typ == TypeUnsignedByte {
		return bytes, nil
	}
	floats := make([]byte, 4*len(bytes))
	for i, v := range bytes {
		binary.LittleEndian.PutUint32(floats[4*i:], math.Float32bits(float32(v)/255))
	}
	return floats, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
