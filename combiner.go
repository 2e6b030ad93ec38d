package tilecomp

import (
	"fmt"

	"github.com/gogpu/tilecomp/internal/combine"
	"github.com/gogpu/tilecomp/internal/packed"
)

// PixelCombiner combines one destination pixel with one source pixel.
type PixelCombiner = combine.Func

// CombinerContext carries state some inks depend on: Background is the
// colour keyed out by InkTransparent.
type CombinerContext = combine.Context

// LookupPixelCombiner returns the per-pixel combiner of ink for the given
// alpha configuration, without the source-over fast path. It panics on an
// unknown ink.
func LookupPixelCombiner(ink Ink, dstAlpha, srcAlpha bool, ctx CombinerContext) PixelCombiner {
	return combine.Select(ink.Op(), dstAlpha, srcAlpha, ctx)
}

// SurfaceCombiner combines the top-left width x height pixels of src into
// dst, in place, and post-blends the result with the original destination
// by opacity.
//
// Opacity 0 leaves dst untouched. Both rasters must be at least width x
// height.
type SurfaceCombiner func(dst, src Raster, width, height int, opacity uint8)

// LookupCombiner returns the scanline combiner for ink. The source is
// assumed to carry alpha; dstAlpha selects whether the destination's alpha
// byte is meaningful. InkTransparent keys on black.
//
// InkCopy and InkBlendSrcOver both resolve to BlendSrcOver. An unknown ink
// panics.
func LookupCombiner(ink Ink, dstAlpha bool) SurfaceCombiner {
	return LookupCombinerContext(ink, dstAlpha, CombinerContext{})
}

// LookupCombinerContext is LookupCombiner with an explicit combiner
// context, which carries the background colour keyed out by
// InkTransparent.
func LookupCombinerContext(ink Ink, dstAlpha bool, ctx CombinerContext) SurfaceCombiner {
	switch ink {
	case InkCopy, InkBlendSrcOver:
		return BlendSrcOver
	}
	if !ink.Valid() {
		panic(fmt.Sprintf("tilecomp: unknown ink %#02x", uint8(ink)))
	}
	fn := combine.Select(ink.Op(), dstAlpha, true, ctx)
	return func(dst, src Raster, width, height int, opacity uint8) {
		SurfaceCombine(fn, dst, src, width, height, opacity)
	}
}

func checkExtent(dst, src Raster, width, height int) {
	if width > dst.Width || height > dst.Height || width > src.Width || height > src.Height {
		panic(fmt.Sprintf("tilecomp: combine %dx%d exceeds dst %dx%d or src %dx%d",
			width, height, dst.Width, dst.Height, src.Width, src.Height))
	}
}

// SurfaceCombine applies fn to every pixel pair of the width x height
// region and writes the result back to dst.
//
// Opacity 255 stores fn's result as is; other values blend it with the
// original destination pixel. Opacity 0 returns before reading either
// raster.
func SurfaceCombine(fn PixelCombiner, dst, src Raster, width, height int, opacity uint8) {
	if opacity == 0 || width <= 0 || height <= 0 {
		return
	}
	checkExtent(dst, src, width, height)

	if opacity == 255 {
		for y := 0; y < height; y++ {
			d, s := dst.Row(y)[:width], src.Row(y)[:width]
			for x := range d {
				d[x] = fn(d[x], s[x])
			}
		}
		return
	}

	inv := 255 - opacity
	for y := 0; y < height; y++ {
		d, s := dst.Row(y)[:width], src.Row(y)[:width]
		for x := range d {
			d[x] = packed.BilinearBounded(fn(d[x], s[x]), opacity, d[x], inv)
		}
	}
}

// BlendSrcOver composites premultiplied src over dst. Fully transparent
// source pixels are skipped; with opacity below 255 the source is scaled
// first.
func BlendSrcOver(dst, src Raster, width, height int, opacity uint8) {
	if opacity == 0 || width <= 0 || height <= 0 {
		return
	}
	checkExtent(dst, src, width, height)

	for y := 0; y < height; y++ {
		d, s := dst.Row(y)[:width], src.Row(y)[:width]
		for x, px := range s {
			if px == 0 {
				continue
			}
			if opacity != 255 {
				px = packed.ScaleBounded(px, opacity)
			}
			d[x] = packed.ScaleBounded(d[x], packed.InverseAlpha(px)) + px
		}
	}
}

// BlendSrcOverMasked composites a source whose colour is not
// premultiplied and whose alpha byte is a coverage mask. Pixels with a
// zero mask are skipped.
func BlendSrcOverMasked(dst, src Raster, width, height int, opacity uint8) {
	if opacity == 0 || width <= 0 || height <= 0 {
		return
	}
	checkExtent(dst, src, width, height)

	for y := 0; y < height; y++ {
		d, s := dst.Row(y)[:width], src.Row(y)[:width]
		for x, px := range s {
			mask := packed.Alpha(px)
			if mask == 0 {
				continue
			}
			sa := mask
			if opacity != 255 {
				sa = packed.Downscale(uint16(opacity) * uint16(mask))
			}
			d[x] = packed.BilinearBounded(d[x], 255-sa, packed.Opaque(px), sa)
		}
	}
}

// BlendSrcOverSolid composites a source whose alpha is taken to be 255,
// whatever its alpha byte holds. At opacity 255 it is a copy that forces
// the alpha byte to 255.
func BlendSrcOverSolid(dst, src Raster, width, height int, opacity uint8) {
	if opacity == 0 || width <= 0 || height <= 0 {
		return
	}
	checkExtent(dst, src, width, height)

	if opacity == 255 {
		for y := 0; y < height; y++ {
			d, s := dst.Row(y)[:width], src.Row(y)[:width]
			for x, px := range s {
				d[x] = packed.Opaque(px)
			}
		}
		return
	}

	inv := 255 - opacity
	for y := 0; y < height; y++ {
		d, s := dst.Row(y)[:width], src.Row(y)[:width]
		for x, px := range s {
			d[x] = packed.ScaleBounded(d[x], inv) + packed.ScaleBounded(packed.Opaque(px), opacity)
		}
	}
}
