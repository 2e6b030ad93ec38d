package tilecomp

import (
	"sync"
)

// Tile is a square block of premultiplied pixels owned by a compositor
// between AllocateTile and DeallocateTile. Tiles are read-only once
// allocated.
type Tile struct {
	size   int
	pix    []uint32
	opaque bool
}

// Size returns the tile's edge length in pixels.
func (t *Tile) Size() int {
	return t.size
}

// Opaque reports whether every pixel of the tile has alpha 255.
func (t *Tile) Opaque() bool {
	return t.opaque
}

// Pix returns the tile pixels, row-major and tightly packed. Callers must
// not modify them.
func (t *Tile) Pix() []uint32 {
	return t.pix
}

// Raster returns a view of the tile pixels.
func (t *Tile) Raster() Raster {
	return Raster{Pix: t.pix, Stride: t.size * 4, Width: t.size, Height: t.size}
}

// tilePool recycles tile pixel buffers, with one sync.Pool per tile size.
//
// tilePool is safe for concurrent use.
type tilePool struct {
	pools sync.Map // int -> *sync.Pool
}

func newTilePool() *tilePool {
	return &tilePool{}
}

// get returns a buffer of size*size pixels. Its contents are undefined.
func (p *tilePool) get(size int) []uint32 {
	buf := p.pool(size).Get().(*[]uint32)
	return *buf
}

// put returns a buffer obtained from get.
func (p *tilePool) put(size int, pix []uint32) {
	if len(pix) != size*size {
		return
	}
	p.pool(size).Put(&pix)
}

func (p *tilePool) pool(size int) *sync.Pool {
	if pool, ok := p.pools.Load(size); ok {
		return pool.(*sync.Pool)
	}
	newPool := &sync.Pool{
		New: func() any {
			buf := make([]uint32, size*size)
			return &buf
		},
	}
	// Another goroutine may have stored one first.
	actual, _ := p.pools.LoadOrStore(size, newPool)
	return actual.(*sync.Pool)
}
