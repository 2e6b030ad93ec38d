// Package tilecomp is a software compositor for tiled 2D scenes.
//
// # Overview
//
// A renderer splits its content into square tiles of premultiplied
// 0xAARRGGBB pixels and streams them, together with constant-colour
// rects, into a Compositor. The compositor clips every command to the
// frame's dirty rectangle and the current layer, then combines it with the
// destination using the layer's ink and opacity.
//
// # Quick Start
//
//	surface := tilecomp.NewMemorySurface(256, 256)
//	c := tilecomp.NewSoftwareCompositor(tilecomp.DefaultSoftwareCompositorOptions())
//	defer c.Cleanup()
//
//	if err := c.BeginFrame(surface, surface.Bounds()); err != nil {
//		return err
//	}
//	c.BeginLayer(image.Rect(0, 0, 128, 128), 200, tilecomp.InkBlendMultiply)
//	c.CompositeRect(0, 0, 0xff336699)
//	c.EndLayer()
//	c.EndFrame(surface)
//
// # Inks
//
// Inks are numeric codes 0x00 to 0x31 in four families:
//   - Bitwise raster ops (Clear to Set), on un-premultiplied colour
//   - Arithmetic ops (Blend to AdMin), on un-premultiplied colour
//   - Porter-Duff operators (BlendClear to BlendScreen)
//   - Separable blend modes (BlendOverlay to BlendExclusion)
//
// InkCopy and InkBlendSrcOver share a source-over fast path. InkNoop
// layers draw nothing.
//
// # Rasters
//
// Raster describes pixels by slice, offset and byte stride, so tiles,
// surfaces and sub-rectangles of either are addressed the same way. A zero
// stride repeats one scanline; a negative stride walks rows bottom-up.
//
// # Presenting
//
// Present, PresentRegion and NewTexture hand a composited raster to a GPU
// texture through the gpucontext interfaces. Pixels are packed for the
// texture's format: RGBA8 unless the texture implements FormattedTexture.
// A BGRA8 texture takes the raster's own layout, Raster.Format.
package tilecomp
