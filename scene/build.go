package scene

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/tilecomp"
)

// DisplayList is a scene split into compositor commands. Tiles are owned
// by the compositor that built the list until Release.
type DisplayList struct {
	bounds image.Rectangle
	layers []layerCommands
	tiles  []*tilecomp.Tile
	rects  int
}

type layerCommands struct {
	clip    image.Rectangle
	opacity uint8
	ink     tilecomp.Ink
	cmds    []command
}

// command composites tile at (x, y), or a constant rect of color when tile
// is nil.
type command struct {
	x, y  int
	tile  *tilecomp.Tile
	color uint32
}

// Bounds returns the canvas rectangle.
func (dl *DisplayList) Bounds() image.Rectangle { return dl.bounds }

// Layers returns the number of layers, counting the background.
func (dl *DisplayList) Layers() int { return len(dl.layers) }

// Tiles returns the number of allocated tiles.
func (dl *DisplayList) Tiles() int { return len(dl.tiles) }

// Rects returns the number of constant rect commands.
func (dl *DisplayList) Rects() int { return dl.rects }

// Build splits every item of s into tile-sized blocks. Blocks whose
// pixels are all equal become constant rects, or are dropped when fully
// transparent; the others are allocated as tiles in c.
//
// On error every tile allocated so far is released.
func Build(s *Scene, c tilecomp.Compositor, loader Loader) (*DisplayList, error) {
	if err := c.BeginTiling(); err != nil {
		return nil, fmt.Errorf("scene: begin tiling: %w", err)
	}
	b := &builder{c: c, size: s.TileSize, loader: loader, dl: &DisplayList{bounds: s.Bounds()}}
	err := b.build(s)
	if endErr := c.EndTiling(); err == nil && endErr != nil {
		err = fmt.Errorf("scene: end tiling: %w", endErr)
	}
	if err != nil {
		b.dl.Release(c)
		return nil, err
	}
	tilecomp.Logger().Debug("scene: built display list",
		"layers", b.dl.Layers(), "tiles", b.dl.Tiles(), "rects", b.dl.Rects())
	return b.dl, nil
}

type builder struct {
	c      tilecomp.Compositor
	size   int
	loader Loader
	dl     *DisplayList
}

func (b *builder) build(s *Scene) error {
	if s.Background != "" {
		bg, err := ParseColor(s.Background)
		if err != nil {
			return err
		}
		lc := layerCommands{clip: b.dl.bounds, opacity: 255, ink: tilecomp.InkCopy}
		if bg>>24 != 0 {
			for y := 0; y < s.Height; y += b.size {
				for x := 0; x < s.Width; x += b.size {
					b.rect(&lc, x, y, bg)
				}
			}
		}
		b.dl.layers = append(b.dl.layers, lc)
	}

	for i := range s.Layers {
		l := &s.Layers[i]
		ink, err := l.ink()
		if err != nil {
			return fmt.Errorf("scene: layer %d: %w", i, err)
		}
		lc := layerCommands{clip: l.clip(b.dl.bounds), opacity: l.opacity(), ink: ink}
		for j := range l.Items {
			if err := b.item(&lc, &l.Items[j]); err != nil {
				return fmt.Errorf("scene: layer %d item %d: %w", i, j, err)
			}
		}
		b.dl.layers = append(b.dl.layers, lc)
	}
	return nil
}

func (b *builder) item(lc *layerCommands, it *Item) error {
	var r tilecomp.Raster
	if it.Image != "" {
		if b.loader == nil {
			return errors.New("no image loader")
		}
		img, err := b.loader.Load(it.Image)
		if err != nil {
			return err
		}
		w, h := it.Width, it.Height
		if w == 0 {
			w, h = img.Bounds().Dx(), img.Bounds().Dy()
		}
		if w == 0 || h == 0 {
			return nil
		}
		r = rasterize(img, w, h, b.size)
	} else {
		px, err := ParseColor(it.Color)
		if err != nil {
			return err
		}
		r = paddedRaster(it.Width, it.Height, b.size)
		r.Sub(image.Rect(0, 0, it.Width, it.Height)).Fill(px)
	}
	return b.split(lc, r, image.Pt(it.X, it.Y))
}

// split emits one command per tile-sized block of r, placing r's origin
// at origin.
func (b *builder) split(lc *layerCommands, r tilecomp.Raster, origin image.Point) error {
	for y := 0; y < r.Height; y += b.size {
		for x := 0; x < r.Width; x += b.size {
			block := r.Sub(image.Rect(x, y, x+b.size, y+b.size))
			if px, ok := uniform(block); ok {
				if px>>24 != 0 {
					b.rect(lc, origin.X+x, origin.Y+y, px)
				}
				continue
			}
			tile, err := b.c.AllocateTileRaster(b.size, block)
			if err != nil {
				return err
			}
			b.dl.tiles = append(b.dl.tiles, tile)
			lc.cmds = append(lc.cmds, command{x: origin.X + x, y: origin.Y + y, tile: tile})
		}
	}
	return nil
}

func (b *builder) rect(lc *layerCommands, x, y int, px uint32) {
	lc.cmds = append(lc.cmds, command{x: x, y: y, color: px})
	b.dl.rects++
}

// uniform reports whether every pixel of r equals the first.
func uniform(r tilecomp.Raster) (uint32, bool) {
	first := r.At(0, 0)
	for y := 0; y < r.Height; y++ {
		for _, px := range r.Row(y) {
			if px != first {
				return 0, false
			}
		}
	}
	return first, true
}

// Play composites the display list into surface, limited to dirty. A nil
// dirty region repaints the whole canvas. The frame is ended even when a
// command fails; the first error is returned.
func (dl *DisplayList) Play(c tilecomp.Compositor, surface tilecomp.Surface, dirty tilecomp.Region) error {
	if dirty == nil {
		dirty = dl.bounds
	}
	if err := c.BeginFrame(surface, dirty); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	err := dl.playLayers(c)
	if endErr := c.EndFrame(surface); err == nil && endErr != nil {
		err = endErr
	}
	return err
}

// PlaySnapshot composites the part of the display list inside area into
// target, whose (0, 0) corresponds to area.Min.
func (dl *DisplayList) PlaySnapshot(c tilecomp.Compositor, area image.Rectangle, target tilecomp.Raster) error {
	if err := c.BeginSnapshot(area, target); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	err := dl.playLayers(c)
	if endErr := c.EndSnapshot(); err == nil && endErr != nil {
		err = endErr
	}
	return err
}

func (dl *DisplayList) playLayers(c tilecomp.Compositor) error {
	for i := range dl.layers {
		lc := &dl.layers[i]
		if err := c.BeginLayer(lc.clip, lc.opacity, lc.ink); err != nil {
			return fmt.Errorf("scene: layer %d: %w", i, err)
		}
		for _, cmd := range lc.cmds {
			var err error
			if cmd.tile != nil {
				err = c.CompositeTile(cmd.x, cmd.y, cmd.tile)
			} else {
				err = c.CompositeRect(cmd.x, cmd.y, cmd.color)
			}
			if err != nil {
				return fmt.Errorf("scene: layer %d: %w", i, err)
			}
		}
		if err := c.EndLayer(); err != nil {
			return fmt.Errorf("scene: layer %d: %w", i, err)
		}
	}
	return nil
}

// Release deallocates the display list's tiles. The list must not be
// played afterwards.
func (dl *DisplayList) Release(c tilecomp.Compositor) {
	if len(dl.tiles) == 0 {
		return
	}
	// A closed compositor refuses to tile but still takes tiles back.
	tiling := c.BeginTiling() == nil
	for _, t := range dl.tiles {
		c.DeallocateTile(t)
	}
	if tiling {
		_ = c.EndTiling()
	}
	dl.tiles = nil
	dl.layers = nil
	dl.rects = 0
}
