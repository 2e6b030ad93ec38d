package tilecomp

import (
	"fmt"
	"image"
)

// SoftwareCompositor implements Compositor on the CPU, compositing tiles
// straight into locked surface memory.
//
// Layers do not nest: a layer only sets the clip, opacity and ink used by
// following composites until EndLayer restores the frame defaults.
//
// SoftwareCompositor is not safe for concurrent use.
type SoftwareCompositor struct {
	opts SoftwareCompositorOptions
	pool *tilePool

	closed bool
	tiling bool

	// Frame state.
	frame    bool
	snapshot bool
	surface  Surface
	target   Raster // (0, 0) is dirty.Min
	dirty    image.Rectangle

	// Layer state.
	clip    image.Rectangle
	opacity uint8
	ink     Ink

	// Source row for CompositeRect, refilled only when the colour changes.
	solid      []uint32
	solidColor uint32
	solidValid bool

	combiners map[combinerKey]SurfaceCombiner
	stats     Stats
}

type combinerKey struct {
	ink      Ink
	dstAlpha bool
}

var _ Compositor = (*SoftwareCompositor)(nil)

// NewSoftwareCompositor creates a compositor. A non-positive tile size is
// replaced by DefaultTileSize.
func NewSoftwareCompositor(opts SoftwareCompositorOptions) *SoftwareCompositor {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultTileSize
	}
	c := &SoftwareCompositor{
		opts:      opts,
		pool:      newTilePool(),
		combiners: make(map[combinerKey]SurfaceCombiner),
	}
	c.resetLayer()
	return c
}

// TileSize returns the tile edge length.
func (c *SoftwareCompositor) TileSize() int {
	return c.opts.TileSize
}

// Stats returns the counters accumulated since creation.
func (c *SoftwareCompositor) Stats() Stats {
	return c.stats
}

// BeginTiling implements Compositor.
func (c *SoftwareCompositor) BeginTiling() error {
	if c.closed {
		return ErrClosed
	}
	c.tiling = true
	c.log().Debug("tilecomp: begin tiling", "live", c.stats.LiveTiles)
	return nil
}

// EndTiling implements Compositor.
func (c *SoftwareCompositor) EndTiling() error {
	if c.closed {
		return ErrClosed
	}
	c.tiling = false
	c.log().Debug("tilecomp: end tiling", "live", c.stats.LiveTiles)
	return nil
}

// AllocateTile implements Compositor. stride is in bytes and must be a
// whole number of pixels no shorter than a tile row. A bare slice has no
// base offset, so rows always run top-down here; use AllocateTileRaster
// for zero or negative strides.
func (c *SoftwareCompositor) AllocateTile(size int, bits []uint32, stride int) (*Tile, error) {
	if err := c.checkTileSize(size); err != nil {
		return nil, err
	}
	if stride%4 != 0 || stride < size*4 {
		return nil, fmt.Errorf("%w: %d bytes for %d-pixel rows", ErrStride, stride, size)
	}
	step := stride / 4
	if need := (size-1)*step + size; len(bits) < need {
		return nil, fmt.Errorf("%w: have %d pixels, need %d", ErrShortBuffer, len(bits), need)
	}
	return c.allocate(Raster{Pix: bits, Stride: stride, Width: size, Height: size}), nil
}

// AllocateTileRaster is AllocateTile for a source described by a raster,
// whose stride may be zero or negative. The tile takes the top-left
// size x size block of src.
func (c *SoftwareCompositor) AllocateTileRaster(size int, src Raster) (*Tile, error) {
	if err := c.checkTileSize(size); err != nil {
		return nil, err
	}
	if src.Width < size || src.Height < size {
		return nil, fmt.Errorf("%w: %dx%d raster for a %d-pixel tile", ErrOutOfBounds, src.Width, src.Height, size)
	}
	if src.Stride%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrStride, src.Stride)
	}
	first, last := src.Offset, src.Offset+(size-1)*(src.Stride/4)
	if lo, hi := min(first, last), max(first, last)+size; lo < 0 || hi > len(src.Pix) {
		return nil, fmt.Errorf("%w: rows span [%d, %d) of %d pixels", ErrShortBuffer, lo, hi, len(src.Pix))
	}
	return c.allocate(src.Sub(image.Rect(0, 0, size, size))), nil
}

func (c *SoftwareCompositor) checkTileSize(size int) error {
	if c.closed {
		return ErrClosed
	}
	if size != c.opts.TileSize {
		return fmt.Errorf("%w: %d, compositor uses %d", ErrTileSize, size, c.opts.TileSize)
	}
	return nil
}

// allocate copies src, which is exactly one tile, into a pooled buffer.
func (c *SoftwareCompositor) allocate(src Raster) *Tile {
	size := src.Width
	pix := c.pool.get(size)
	opaque := true
	for y := 0; y < size; y++ {
		row := src.Row(y)
		copy(pix[y*size:(y+1)*size], row)
		for _, px := range row {
			if px>>24 != 0xff {
				opaque = false
				break
			}
		}
	}

	c.stats.LiveTiles++
	c.stats.Allocated++
	return &Tile{size: size, pix: pix, opaque: opaque}
}

// DeallocateTile implements Compositor. Releasing a nil or already
// released tile does nothing.
func (c *SoftwareCompositor) DeallocateTile(tile *Tile) {
	if tile == nil || tile.pix == nil {
		return
	}
	if c.pool != nil {
		c.pool.put(tile.size, tile.pix)
	}
	tile.pix = nil
	c.stats.LiveTiles--
	c.stats.Deallocated++
}

// BeginFrame implements Compositor. It fails without changing state if
// the region is empty or the surface cannot be locked.
func (c *SoftwareCompositor) BeginFrame(surface Surface, dirty Region) error {
	if c.closed {
		return ErrClosed
	}
	if c.frame {
		return ErrFrameActive
	}
	if dirty == nil || dirty.Bounds().Empty() {
		return ErrEmptyRegion
	}
	area := dirty.Bounds()

	r, err := surface.LockPixels(area)
	if err != nil {
		c.log().Warn("tilecomp: lock pixels failed", "area", area, "err", err)
		return fmt.Errorf("tilecomp: lock pixels: %w", err)
	}
	c.startFrame(area, r, surface, false)
	c.log().Debug("tilecomp: begin frame", "dirty", area)
	return nil
}

// EndFrame implements Compositor.
func (c *SoftwareCompositor) EndFrame(surface Surface) error {
	if !c.frame || c.snapshot {
		return ErrNoFrame
	}
	surface.UnlockPixels(c.dirty, c.target)
	c.log().Debug("tilecomp: end frame", "dirty", c.dirty)
	c.endFrame()
	return nil
}

// BeginSnapshot implements Compositor. Snapshot targets always carry
// alpha.
func (c *SoftwareCompositor) BeginSnapshot(area image.Rectangle, target Raster) error {
	if c.closed {
		return ErrClosed
	}
	if c.frame {
		return ErrFrameActive
	}
	if area.Empty() {
		return ErrEmptyRegion
	}
	if target.Width < area.Dx() || target.Height < area.Dy() {
		return fmt.Errorf("%w: snapshot %v needs a %dx%d raster, have %dx%d",
			ErrOutOfBounds, area, area.Dx(), area.Dy(), target.Width, target.Height)
	}
	c.startFrame(area, target.Sub(image.Rect(0, 0, area.Dx(), area.Dy())), nil, true)
	c.log().Debug("tilecomp: begin snapshot", "area", area)
	return nil
}

// EndSnapshot implements Compositor.
func (c *SoftwareCompositor) EndSnapshot() error {
	if !c.frame || !c.snapshot {
		return ErrNoFrame
	}
	c.log().Debug("tilecomp: end snapshot", "area", c.dirty)
	c.endFrame()
	return nil
}

func (c *SoftwareCompositor) startFrame(area image.Rectangle, r Raster, surface Surface, snapshot bool) {
	c.frame = true
	c.snapshot = snapshot
	c.surface = surface
	c.target = r
	c.dirty = area
	c.resetLayer()
	c.dropSolid()
	c.stats.Frames++
}

func (c *SoftwareCompositor) endFrame() {
	c.frame = false
	c.snapshot = false
	c.surface = nil
	c.target = Raster{}
	c.dirty = image.Rectangle{}
	c.resetLayer()
}

// BeginLayer implements Compositor. A Noop layer has an empty clip, so
// its composites write nothing. It panics on an invalid ink; inks from
// user input go through ParseInk first.
func (c *SoftwareCompositor) BeginLayer(clip image.Rectangle, opacity uint8, ink Ink) error {
	if !c.frame {
		return ErrNoFrame
	}
	if !ink.Valid() {
		panic(fmt.Sprintf("tilecomp: layer with unknown ink %v", ink))
	}
	c.clip = c.dirty.Intersect(clip)
	if ink == InkNoop {
		c.clip = image.Rectangle{}
	}
	c.opacity = opacity
	c.ink = ink
	c.stats.Layers++
	c.log().Debug("tilecomp: begin layer", "clip", c.clip, "opacity", opacity, "ink", ink)
	return nil
}

// EndLayer implements Compositor.
func (c *SoftwareCompositor) EndLayer() error {
	if !c.frame {
		return ErrNoFrame
	}
	c.resetLayer()
	c.log().Debug("tilecomp: end layer")
	return nil
}

func (c *SoftwareCompositor) resetLayer() {
	c.clip = c.dirty
	c.opacity = 255
	c.ink = InkCopy
}

// CompositeTile implements Compositor. It panics if tile has been
// deallocated.
func (c *SoftwareCompositor) CompositeTile(x, y int, tile *Tile) error {
	if !c.frame {
		return ErrNoFrame
	}
	if tile == nil || tile.pix == nil {
		panic("tilecomp: composite of a released tile")
	}
	origin := image.Pt(x, y)
	area := image.Rect(x, y, x+tile.size, y+tile.size).Intersect(c.clip)
	if area.Empty() {
		c.stats.Clipped++
		return nil
	}
	c.composite(area, tile.Raster().Sub(area.Sub(origin)), tile.opaque)
	c.stats.Tiles++
	return nil
}

// CompositeRect implements Compositor.
func (c *SoftwareCompositor) CompositeRect(x, y int, color uint32) error {
	if !c.frame {
		return ErrNoFrame
	}
	size := c.opts.TileSize
	origin := image.Pt(x, y)
	area := image.Rect(x, y, x+size, y+size).Intersect(c.clip)
	if area.Empty() {
		c.stats.Clipped++
		return nil
	}
	c.composite(area, c.solidRaster(color).Sub(area.Sub(origin)), color>>24 == 0xff)
	c.stats.Rects++
	return nil
}

// composite runs the current combiner over area, in frame coordinates,
// reading from src.
func (c *SoftwareCompositor) composite(area image.Rectangle, src Raster, opaque bool) {
	dst := c.target.Sub(area.Sub(c.dirty.Min))
	c.combiner(opaque)(dst, src, area.Dx(), area.Dy(), c.opacity)
	c.stats.Pixels += area.Dx() * area.Dy()
}

func (c *SoftwareCompositor) combiner(opaqueSource bool) SurfaceCombiner {
	if opaqueSource && (c.ink == InkCopy || c.ink == InkBlendSrcOver) {
		return BlendSrcOverSolid
	}
	key := combinerKey{ink: c.ink, dstAlpha: c.snapshot || !c.opts.OpaqueTarget}
	fn, ok := c.combiners[key]
	if !ok {
		fn = LookupCombinerContext(key.ink, key.dstAlpha, c.opts.Context)
		c.combiners[key] = fn
	}
	return fn
}

// solidRaster returns a tile-sized raster of color. Every row aliases the
// same cached scanline.
func (c *SoftwareCompositor) solidRaster(color uint32) Raster {
	size := c.opts.TileSize
	if !c.solidValid || c.solidColor != color {
		if len(c.solid) != size {
			c.solid = make([]uint32, size)
		}
		for i := range c.solid {
			c.solid[i] = color
		}
		c.solidColor = color
		c.solidValid = true
	}
	return Raster{Pix: c.solid, Stride: 0, Width: size, Height: size}
}

func (c *SoftwareCompositor) dropSolid() {
	c.solid = nil
	c.solidValid = false
}

// Flush implements Compositor.
func (c *SoftwareCompositor) Flush() {
	if c.closed {
		return
	}
	c.pool = newTilePool()
}

// Cleanup implements Compositor. An active frame is abandoned and its
// surface unlocked.
func (c *SoftwareCompositor) Cleanup() {
	if c.closed {
		return
	}
	if c.frame && c.surface != nil {
		c.surface.UnlockPixels(c.dirty, c.target)
	}
	c.endFrame()
	c.dropSolid()
	c.pool = nil
	c.combiners = nil
	c.closed = true
	c.log().Debug("tilecomp: cleanup", "stats", c.stats)
}
