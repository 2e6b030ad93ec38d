package tilecomp

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRaster(t *testing.T) {
	r := NewRaster(3, 2)
	assert.Equal(t, 12, r.Stride)
	assert.Len(t, r.Pix, 6)
	assert.Equal(t, image.Rect(0, 0, 3, 2), r.Bounds())
	assert.False(t, r.Empty())
	assert.True(t, NewRaster(0, 5).Empty())
	assert.Panics(t, func() { NewRaster(-1, 1) })
}

func TestRasterRowPadding(t *testing.T) {
	// 3 pixels wide with 2 padding pixels per row.
	r := Raster{Pix: make([]uint32, 5*3), Stride: 20, Width: 3, Height: 3}
	r.Fill(0x11)

	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			want := uint32(0x11)
			if x >= 3 {
				want = 0
			}
			assert.Equal(t, want, r.Pix[y*5+x], "(%d, %d)", x, y)
		}
	}

	row := r.Row(1)
	assert.Len(t, row, 3)
	assert.Equal(t, 3, cap(row))
}

func TestRasterNegativeStride(t *testing.T) {
	pix := []uint32{
		1, 2,
		3, 4,
		5, 6,
	}
	// Rows run bottom-up from the last one.
	r := Raster{Pix: pix, Offset: 4, Stride: -8, Width: 2, Height: 3}

	assert.Equal(t, []uint32{5, 6}, r.Row(0))
	assert.Equal(t, []uint32{1, 2}, r.Row(2))
	assert.Equal(t, uint32(4), r.At(1, 1))

	sub := r.Sub(image.Rect(1, 1, 2, 3))
	assert.Equal(t, uint32(4), sub.At(0, 0))
	assert.Equal(t, uint32(2), sub.At(0, 1))
}

func TestRasterZeroStride(t *testing.T) {
	line := []uint32{7, 8, 9}
	r := Raster{Pix: line, Stride: 0, Width: 3, Height: 100}

	assert.Equal(t, line, r.Row(0))
	assert.Equal(t, line, r.Row(99))

	sub := r.Sub(image.Rect(1, 40, 3, 60))
	assert.Equal(t, []uint32{8, 9}, sub.Row(19))
}

func TestRasterSub(t *testing.T) {
	r := NewRaster(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r.Set(x, y, uint32(y*4+x))
		}
	}

	sub := r.Sub(image.Rect(1, 2, 3, 4))
	assert.Equal(t, 2, sub.Width)
	assert.Equal(t, 2, sub.Height)
	assert.Equal(t, uint32(9), sub.At(0, 0))
	assert.Equal(t, uint32(14), sub.At(1, 1))

	sub.Set(0, 0, 99)
	assert.Equal(t, uint32(99), r.At(1, 2), "sub-raster shares pixels")

	assert.True(t, r.Sub(image.Rectangle{}).Empty())
	assert.Panics(t, func() { r.Sub(image.Rect(2, 2, 5, 3)) })
}

func TestRasterRowOutOfRange(t *testing.T) {
	r := NewRaster(2, 2)
	assert.Panics(t, func() { r.Row(2) })
	assert.Panics(t, func() { r.Row(-1) })

	bad := Raster{Pix: make([]uint32, 8), Stride: 6, Width: 1, Height: 2}
	assert.Panics(t, func() { bad.Row(0) })
}

func TestRasterCopyFrom(t *testing.T) {
	src := NewRaster(3, 3)
	src.Fill(0xffabcdef)
	dst := NewRaster(2, 4)

	dst.CopyFrom(src)
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			want := uint32(0xffabcdef)
			if y == 3 {
				want = 0
			}
			require.Equal(t, want, dst.At(x, y), "(%d, %d)", x, y)
		}
	}
}

func TestRasterFormat(t *testing.T) {
	assert.Equal(t, gputypes.TextureFormatBGRA8Unorm, NewRaster(1, 1).Format())
}
