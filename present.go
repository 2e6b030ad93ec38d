package tilecomp

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// FormattedTexture is implemented by textures that report their pixel
// format. Textures that don't are taken to be RGBA8Unorm, the layout
// gpucontext.TextureCreator.NewTextureFromRGBA creates.
type FormattedTexture interface {
	Format() gputypes.TextureFormat
}

func textureFormat(dst any) gputypes.TextureFormat {
	if f, ok := dst.(FormattedTexture); ok {
		return f.Format()
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// Present uploads the whole raster to a GPU texture of the same size.
//
// The pixels are encoded in the texture's format (see EncodePixels); they
// stay premultiplied.
func Present(r Raster, dst gpucontext.TextureUpdater) error {
	data, err := EncodePixels(r, textureFormat(dst), nil)
	if err != nil {
		return err
	}
	if err := dst.UpdateData(data); err != nil {
		return fmt.Errorf("tilecomp: texture update: %w", err)
	}
	return nil
}

// PresentRegion uploads only area of the raster, typically the dirty
// rectangle of the last frame, to the same place in the texture.
func PresentRegion(r Raster, area image.Rectangle, dst gpucontext.TextureRegionUpdater) error {
	if area.Empty() {
		return nil
	}
	if !area.In(r.Bounds()) {
		return fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, area, r.Bounds())
	}
	data, err := EncodePixels(r.Sub(area), textureFormat(dst), nil)
	if err != nil {
		return err
	}
	if err := dst.UpdateRegion(area.Min.X, area.Min.Y, area.Dx(), area.Dy(), data); err != nil {
		return fmt.Errorf("tilecomp: texture region update: %w", err)
	}
	return nil
}

// NewTexture creates a texture holding the raster's pixels.
func NewTexture(r Raster, creator gpucontext.TextureCreator) (gpucontext.Texture, error) {
	tex, err := creator.NewTextureFromRGBA(r.Width, r.Height, RGBABytes(r, nil))
	if err != nil {
		return nil, fmt.Errorf("tilecomp: create texture: %w", err)
	}
	return tex, nil
}

// EncodePixels appends the raster's pixels to buf, tightly packed row by
// row, in the byte order of format. The 8-bit RGBA formats are swizzled;
// the BGRA formats share the raster's own layout (Raster.Format) and take
// the pixels as stored. Any other format returns ErrFormat.
func EncodePixels(r Raster, format gputypes.TextureFormat, buf []byte) ([]byte, error) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return RGBABytes(r, buf), nil
	case r.Format(), gputypes.TextureFormatBGRA8UnormSrgb:
		return appendPixels(r, buf, false), nil
	default:
		return buf, fmt.Errorf("%w: %v", ErrFormat, format)
	}
}

// RGBABytes appends the raster's pixels to buf as tightly packed R, G, B, A
// bytes, row by row, and returns the extended buffer.
func RGBABytes(r Raster, buf []byte) []byte {
	return appendPixels(r, buf, true)
}

func appendPixels(r Raster, buf []byte, swizzle bool) []byte {
	if r.Empty() {
		return buf
	}
	n := len(buf)
	buf = append(buf, make([]byte, r.Width*r.Height*4)...)
	out := buf[n:]
	for y := 0; y < r.Height; y++ {
		for x, px := range r.Row(y) {
			i := (y*r.Width + x) * 4
			if swizzle {
				out[i+0] = uint8(px >> 16)
				out[i+2] = uint8(px)
			} else {
				out[i+0] = uint8(px)
				out[i+2] = uint8(px >> 16)
			}
			out[i+1] = uint8(px >> 8)
			out[i+3] = uint8(px >> 24)
		}
	}
	return buf
}
