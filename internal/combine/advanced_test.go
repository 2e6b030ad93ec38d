package combine

import (
	"image"
	"image/color"
	"testing"

	"github.com/anthonynsimon/bild/blend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/tilecomp/internal/packed"
)

func advancedOpList() []Op {
	var ops []Op
	for op := OpBlendOverlay; op <= LastAdvanced; op++ {
		ops = append(ops, op)
	}
	return ops
}

// premultiplied returns a valid premultiplied pixel with alpha a.
func premultiplied(a, r, g, b uint32) uint32 {
	return a<<24 | (r*a/255)<<16 | (g*a/255)<<8 | b*a/255
}

func TestAdvancedAlphaOut(t *testing.T) {
	for _, op := range advancedOpList() {
		t.Run(op.String(), func(t *testing.T) {
			fn := Advanced(op, true, true)
			for sa := uint32(0); sa < 256; sa += 3 {
				for da := uint32(0); da < 256; da += 3 {
					src := premultiplied(sa, 200, 90, 17)
					dst := premultiplied(da, 30, 140, 250)
					want := uint8(sa + da - uint32(packed.Downscale(uint16(sa*da))))
					require.Equalf(t, want, packed.Alpha(fn(dst, src)), "alpha(%#08x, %#08x)", dst, src)
				}
			}
		})
	}
}

func TestAdvancedTransparentSides(t *testing.T) {
	for _, op := range advancedOpList() {
		t.Run(op.String(), func(t *testing.T) {
			fn := Advanced(op, true, true)
			for a := uint32(0); a < 256; a += 5 {
				for c := uint32(0); c < 256; c += 17 {
					px := premultiplied(a, c, 255-c, c/3)
					require.Equalf(t, px, fn(px, 0), "transparent source over %#08x", px)
					require.Equalf(t, px, fn(0, px), "%#08x over transparent destination", px)
				}
			}
		})
	}
}

func TestAdvancedOpaqueExact(t *testing.T) {
	absDiff := func(a, b uint32) uint32 {
		if a > b {
			return a - b
		}
		return b - a
	}
	tests := []struct {
		op  Op
		ref func(s, d uint32) uint32
	}{
		{OpBlendDarken, func(s, d uint32) uint32 { return min(s, d) }},
		{OpBlendLighten, func(s, d uint32) uint32 { return max(s, d) }},
		{OpBlendDifference, absDiff},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			fn := Advanced(tt.op, true, true)
			for s := uint32(0); s < 256; s++ {
				for d := uint32(0); d < 256; d += 7 {
					got := fn(0xff000000|d<<8, 0xff000000|s<<8)
					want := 0xff000000 | tt.ref(s, d)<<8
					require.Equalf(t, want, got, "%v(%d, %d)", tt.op, d, s)
				}
			}
		})
	}
}

func TestAdvancedWithoutDestinationAlpha(t *testing.T) {
	for _, op := range advancedOpList() {
		fn := Advanced(op, false, true)
		assert.Zerof(t, packed.Alpha(fn(0xff808080, 0x80404040)), "%v kept alpha without destination alpha", op)
	}
}

func TestSoftLightUsesSquareRoot(t *testing.T) {
	// A light source over a mid-tone destination takes the square root
	// branch and must brighten it.
	fn := Advanced(OpBlendSoftLight, false, false)
	got := fn(0x00404040, 0x00e0e0e0) & 0xff
	assert.Greater(t, got, uint32(0x40), "soft light of 0xe0 over 0x40")
}

// TestAgainstFloatReference compares opaque separable modes with bild's
// floating point implementations.
func TestAgainstFloatReference(t *testing.T) {
	type blendFunc func(bg, fg image.Image) *image.RGBA
	tests := []struct {
		name string
		fn   Func
		ref  blendFunc
	}{
		{"multiply", Basic(OpBlendMultiply, true, true), blend.Multiply},
		{"screen", Basic(OpBlendScreen, true, true), blend.Screen},
		{"overlay", Advanced(OpBlendOverlay, true, true), blend.Overlay},
		{"darken", Advanced(OpBlendDarken, true, true), blend.Darken},
		{"lighten", Advanced(OpBlendLighten, true, true), blend.Lighten},
		{"difference", Advanced(OpBlendDifference, true, true), blend.Difference},
		{"exclusion", Advanced(OpBlendExclusion, true, true), blend.Exclusion},
	}

	solid := func(v uint8) *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, color.RGBA{R: v, G: 255 - v, B: v / 2, A: 255})
		return img
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for s := 0; s < 256; s += 15 {
				for d := 0; d < 256; d += 15 {
					bg, fg := solid(uint8(d)), solid(uint8(s))
					want := tt.ref(bg, fg).RGBAAt(0, 0)

					dst := argb(bg.RGBAAt(0, 0))
					src := argb(fg.RGBAAt(0, 0))
					got := tt.fn(dst, src)

					for i, w := range []uint8{want.B, want.G, want.R} {
						g := uint8(got >> (8 * i))
						require.InDeltaf(t, float64(w), float64(g), 2, "s=%d d=%d channel %d", s, d, i)
					}
				}
			}
		})
	}
}

func argb(c color.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
