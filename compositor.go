package tilecomp

import (
	"errors"
	"image"
	"log/slog"
)

// Errors returned by compositors and surfaces.
var (
	// ErrTileSize is returned by AllocateTile for a size the compositor
	// does not use.
	ErrTileSize = errors.New("tilecomp: unsupported tile size")

	// ErrShortBuffer is returned when a pixel buffer is too small for the
	// requested geometry.
	ErrShortBuffer = errors.New("tilecomp: pixel buffer too short")

	// ErrStride is returned for a stride that is not a whole number of
	// pixels or is shorter than a row.
	ErrStride = errors.New("tilecomp: invalid stride")

	// ErrEmptyRegion is returned by BeginFrame for an empty dirty region.
	ErrEmptyRegion = errors.New("tilecomp: empty dirty region")

	// ErrNoFrame is returned by operations that need an active frame.
	ErrNoFrame = errors.New("tilecomp: no active frame")

	// ErrFrameActive is returned when a frame is begun inside another.
	ErrFrameActive = errors.New("tilecomp: frame already active")

	// ErrClosed is returned after Cleanup.
	ErrClosed = errors.New("tilecomp: compositor closed")

	// ErrOutOfBounds is returned when a rectangle does not fit a surface
	// or raster.
	ErrOutOfBounds = errors.New("tilecomp: rectangle out of bounds")

	// ErrLocked is returned by LockPixels on a surface that is already
	// locked.
	ErrLocked = errors.New("tilecomp: surface already locked")

	// ErrUnknownInk is returned by ParseInk.
	ErrUnknownInk = errors.New("tilecomp: unknown ink")

	// ErrFormat is returned when pixels cannot be encoded in a texture
	// format.
	ErrFormat = errors.New("tilecomp: unsupported texture format")
)

// Compositor streams tile and rect commands into a target surface.
//
// The command stream is bracketed as
//
//	BeginFrame (BeginLayer (CompositeTile | CompositeRect)* EndLayer)* EndFrame
//
// and composites may also be issued outside layers, with the frame
// defaults. Commands apply in order; later composites see the pixels
// written by earlier ones.
type Compositor interface {
	// BeginTiling and EndTiling bracket a pass that allocates or frees
	// tiles.
	BeginTiling() error
	EndTiling() error

	// AllocateTile copies a size x size block from bits, whose rows are
	// stride bytes apart, into compositor-owned memory.
	AllocateTile(size int, bits []uint32, stride int) (*Tile, error)

	// AllocateTileRaster is AllocateTile for the top-left block of a
	// raster, whose rows may run bottom-up.
	AllocateTileRaster(size int, src Raster) (*Tile, error)

	// DeallocateTile releases a tile. The tile must not be used again.
	DeallocateTile(tile *Tile)

	// BeginFrame locks surface for the bounding box of dirty.
	BeginFrame(surface Surface, dirty Region) error

	// EndFrame unlocks the surface locked by BeginFrame.
	EndFrame(surface Surface) error

	// BeginSnapshot starts a frame that composites into target, whose
	// (0, 0) corresponds to area.Min.
	BeginSnapshot(area image.Rectangle, target Raster) error

	// EndSnapshot ends a frame started by BeginSnapshot.
	EndSnapshot() error

	// BeginLayer narrows the clip to the part of clip inside the dirty
	// rectangle and sets the opacity and ink of following composites.
	BeginLayer(clip image.Rectangle, opacity uint8, ink Ink) error

	// EndLayer restores the frame clip, opacity 255 and InkCopy.
	EndLayer() error

	// CompositeTile composites tile with its top-left corner at (x, y).
	CompositeTile(x, y int, tile *Tile) error

	// CompositeRect composites a tile-sized square of the premultiplied
	// colour with its top-left corner at (x, y).
	CompositeRect(x, y int, color uint32) error

	// Flush drops pooled buffers not held by live tiles.
	Flush()

	// Cleanup releases every resource. The compositor must not be used
	// afterwards.
	Cleanup()
}

// SoftwareCompositorOptions configures a SoftwareCompositor.
type SoftwareCompositorOptions struct {
	// TileSize is the edge length of tiles and rects. It must be
	// positive.
	TileSize int

	// OpaqueTarget declares that frame surfaces have no alpha. Composites
	// into them use the combiners that ignore destination alpha.
	OpaqueTarget bool

	// Context is passed to every combiner; it carries the colour keyed
	// out by InkTransparent.
	Context CombinerContext

	// Logger receives the compositor's records. Nil uses the package
	// logger (see SetLogger).
	Logger *slog.Logger
}

// DefaultTileSize is the tile edge used by DefaultSoftwareCompositorOptions.
const DefaultTileSize = 32

// DefaultSoftwareCompositorOptions returns options for 32-pixel tiles on
// a target with alpha.
func DefaultSoftwareCompositorOptions() SoftwareCompositorOptions {
	return SoftwareCompositorOptions{
		TileSize: DefaultTileSize,
	}
}

// Stats counts the work a compositor has done.
type Stats struct {
	Frames      int
	Layers      int
	Tiles       int // CompositeTile calls that touched pixels
	Rects       int // CompositeRect calls that touched pixels
	Clipped     int // composites rejected by the clip
	Pixels      int
	LiveTiles   int
	Allocated   int
	Deallocated int
}
