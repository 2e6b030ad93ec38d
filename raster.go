package tilecomp

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// Raster is a strided view of 0xAARRGGBB pixels.
//
// Pixel (x, y) lives at Pix[Offset + y*Stride/4 + x]. Stride is in bytes,
// must be a multiple of 4, and may exceed Width*4 (row padding), be zero
// (every row aliases the first) or be negative (rows run bottom-up).
//
// Accessors panic on out of range coordinates; a raster that does not fit
// its backing slice is a programming error.
type Raster struct {
	Pix    []uint32
	Offset int
	Stride int
	Width  int
	Height int
}

// NewRaster allocates a tightly packed raster.
func NewRaster(width, height int) Raster {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("tilecomp: negative raster size %dx%d", width, height))
	}
	return Raster{
		Pix:    make([]uint32, width*height),
		Stride: width * 4,
		Width:  width,
		Height: height,
	}
}

// Bounds returns the raster rectangle, anchored at the origin.
func (r Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// Empty reports whether the raster has no pixels.
func (r Raster) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Raster) rowStart(y int) int {
	if y < 0 || y >= r.Height {
		panic(fmt.Sprintf("tilecomp: row %d out of range [0, %d)", y, r.Height))
	}
	if r.Stride%4 != 0 {
		panic(fmt.Sprintf("tilecomp: stride %d is not a whole number of pixels", r.Stride))
	}
	return r.Offset + y*(r.Stride/4)
}

// Row returns the Width pixels of row y. The slice aliases the raster and
// has no spare capacity.
func (r Raster) Row(y int) []uint32 {
	start := r.rowStart(y)
	return r.Pix[start : start+r.Width : start+r.Width]
}

// At returns the pixel at (x, y).
func (r Raster) At(x, y int) uint32 {
	return r.Row(y)[x]
}

// Set stores px at (x, y).
func (r Raster) Set(x, y int, px uint32) {
	r.Row(y)[x] = px
}

// Sub returns the part of r inside rect, sharing r's pixels. The returned
// raster's origin is rect.Min. rect must lie within r.Bounds().
func (r Raster) Sub(rect image.Rectangle) Raster {
	if !rect.In(r.Bounds()) && !rect.Empty() {
		panic(fmt.Sprintf("tilecomp: sub-rectangle %v outside raster %v", rect, r.Bounds()))
	}
	if rect.Empty() {
		return Raster{Pix: r.Pix, Stride: r.Stride}
	}
	return Raster{
		Pix:    r.Pix,
		Offset: r.rowStart(rect.Min.Y) + rect.Min.X,
		Stride: r.Stride,
		Width:  rect.Dx(),
		Height: rect.Dy(),
	}
}

// Fill sets every pixel of r to px.
func (r Raster) Fill(px uint32) {
	for y := 0; y < r.Height; y++ {
		row := r.Row(y)
		for x := range row {
			row[x] = px
		}
	}
}

// CopyFrom copies the overlapping top-left part of src into r.
func (r Raster) CopyFrom(src Raster) {
	w, h := min(r.Width, src.Width), min(r.Height, src.Height)
	for y := 0; y < h; y++ {
		copy(r.Row(y)[:w], src.Row(y)[:w])
	}
}

// Format returns the GPU texture format with the same memory layout: a
// little-endian 0xAARRGGBB word is stored as B, G, R, A bytes.
func (r Raster) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
