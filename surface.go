package tilecomp

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Surface is a composition target whose pixels can be locked for direct
// access. A frame locks the dirty rectangle in BeginFrame and unlocks it in
// EndFrame.
type Surface interface {
	// LockPixels returns a raster covering area. The raster's (0, 0) is
	// area.Min. The pixels stay valid until UnlockPixels.
	LockPixels(area image.Rectangle) (Raster, error)

	// UnlockPixels releases a raster obtained from LockPixels.
	UnlockPixels(area image.Rectangle, r Raster)
}

// Region is a set of dirty pixels. Only its bounding box is used.
// image.Rectangle satisfies Region.
type Region interface {
	Bounds() image.Rectangle
}

// SurfaceOption configures a MemorySurface.
type SurfaceOption func(*surfaceOptions)

type surfaceOptions struct {
	padding int
	opaque  bool
}

// WithRowPadding adds n unused pixels at the end of every row, so the
// surface stride differs from its width.
func WithRowPadding(n int) SurfaceOption {
	return func(o *surfaceOptions) {
		o.padding = max(n, 0)
	}
}

// WithOpaque marks the surface as having no meaningful alpha. Freshly
// created opaque surfaces are filled with opaque black.
func WithOpaque() SurfaceOption {
	return func(o *surfaceOptions) {
		o.opaque = true
	}
}

// MemorySurface is a heap-backed Surface holding premultiplied
// 0xAARRGGBB pixels.
//
// MemorySurface is not safe for concurrent use.
type MemorySurface struct {
	raster Raster
	opaque bool
	locked bool
}

// NewMemorySurface creates a surface of the given size.
func NewMemorySurface(width, height int, opts ...SurfaceOption) *MemorySurface {
	var o surfaceOptions
	for _, opt := range opts {
		opt(&o)
	}
	width, height = max(width, 0), max(height, 0)

	stride := width + o.padding
	r := Raster{
		Pix:    make([]uint32, stride*height),
		Stride: stride * 4,
		Width:  width,
		Height: height,
	}
	if o.opaque {
		r.Fill(0xff000000)
	}
	return &MemorySurface{raster: r, opaque: o.opaque}
}

// Bounds returns the surface rectangle.
func (s *MemorySurface) Bounds() image.Rectangle {
	return s.raster.Bounds()
}

// Opaque reports whether the surface was created without alpha.
func (s *MemorySurface) Opaque() bool {
	return s.opaque
}

// Raster returns a view of the whole surface.
func (s *MemorySurface) Raster() Raster {
	return s.raster
}

// LockPixels implements Surface.
func (s *MemorySurface) LockPixels(area image.Rectangle) (Raster, error) {
	if s.locked {
		return Raster{}, ErrLocked
	}
	if area.Empty() || !area.In(s.Bounds()) {
		return Raster{}, fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, area, s.Bounds())
	}
	s.locked = true
	return s.raster.Sub(area), nil
}

// UnlockPixels implements Surface.
func (s *MemorySurface) UnlockPixels(area image.Rectangle, r Raster) {
	s.locked = false
}

// Fill sets every pixel to the premultiplied colour px.
func (s *MemorySurface) Fill(px uint32) {
	s.raster.Fill(px)
}

// ToImage converts the surface to a non-premultiplied image. Opaque
// surfaces report alpha 255 whatever their alpha bytes hold.
func (s *MemorySurface) ToImage() *image.NRGBA {
	img := image.NewNRGBA(s.Bounds())
	for y := 0; y < s.raster.Height; y++ {
		row := s.raster.Row(y)
		out := img.Pix[y*img.Stride : y*img.Stride+4*len(row)]
		for x, px := range row {
			if s.opaque {
				px |= 0xff000000
			}
			c := color.NRGBAModel.Convert(pixelColor(px)).(color.NRGBA)
			out[4*x+0] = c.R
			out[4*x+1] = c.G
			out[4*x+2] = c.B
			out[4*x+3] = c.A
		}
	}
	return img
}

// DrawImage copies img into the surface at its own coordinates, converting
// to premultiplied 0xAARRGGBB.
func (s *MemorySurface) DrawImage(img image.Image) {
	rgba := image.NewRGBA(s.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, rgba.Bounds().Min, draw.Src)
	FromRGBA(s.raster, rgba)
}

// FromRGBA stores the premultiplied pixels of img into r, starting at
// img.Bounds().Min. Pixels outside r are dropped.
func FromRGBA(r Raster, img *image.RGBA) {
	b := img.Bounds()
	w, h := min(b.Dx(), r.Width), min(b.Dy(), r.Height)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride:]
		dst := r.Row(y)
		for x := 0; x < w; x++ {
			p := src[4*x : 4*x+4 : 4*x+4]
			dst[x] = uint32(p[3])<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		}
	}
}

// pixelColor adapts a premultiplied pixel to color.Color.
func pixelColor(px uint32) color.RGBA {
	return color.RGBA{
		R: uint8(px >> 16),
		G: uint8(px >> 8),
		B: uint8(px),
		A: uint8(px >> 24),
	}
}
