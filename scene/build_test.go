package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/tilecomp"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// checkerImage is 4x2: a uniform green left half and a varying right half.
func checkerImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{G: 255, A: 255}
			if x >= 2 {
				c = color.NRGBA{R: uint8(40 * (x + 2*y)), B: 10, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"checker.png": {Data: encodePNG(t, checkerImage())},
	}
}

func rectScene(w, h int, color string) *Scene {
	return &Scene{
		Width: 4, Height: 4, TileSize: 2,
		Layers: []Layer{{Items: []Item{{Color: color, Width: w, Height: h}}}},
	}
}

func newCompositor(t *testing.T, s *Scene) *tilecomp.SoftwareCompositor {
	t.Helper()
	c := tilecomp.NewSoftwareCompositor(s.Options())
	t.Cleanup(c.Cleanup)
	return c
}

func TestBuildConstantBlocks(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		color        string
		rects, tiles int
	}{
		{"aligned rect", 4, 4, "#ff0000", 4, 0},
		{"ragged rect", 3, 3, "#ff0000", 1, 3},
		{"single pixel", 1, 1, "#ff0000", 0, 1},
		{"transparent rect", 3, 3, "#ff000000", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rectScene(tt.w, tt.h, tt.color)
			c := newCompositor(t, s)

			dl, err := Build(s, c, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.rects, dl.Rects())
			assert.Equal(t, tt.tiles, dl.Tiles())
			assert.Equal(t, 1, dl.Layers())
			assert.Equal(t, tt.tiles, c.Stats().LiveTiles)

			dl.Release(c)
			assert.Equal(t, 0, c.Stats().LiveTiles)
		})
	}
}

func TestBuildBackground(t *testing.T) {
	s := &Scene{Width: 5, Height: 5, TileSize: 2, Background: "#336699"}
	c := newCompositor(t, s)

	dl, err := Build(s, c, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, dl.Rects())
	assert.Equal(t, 1, dl.Layers())

	surface := s.NewSurface()
	require.NoError(t, dl.Play(c, surface, nil))
	r := surface.Raster()
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			require.Equal(t, uint32(0xff336699), r.At(x, y), "(%d, %d)", x, y)
		}
	}
}

func TestBuildImage(t *testing.T) {
	s := &Scene{
		Width: 4, Height: 4, TileSize: 2,
		Layers: []Layer{{Items: []Item{{Image: "checker.png", X: 0, Y: 1}}}},
	}
	c := newCompositor(t, s)

	dl, err := Build(s, c, FSLoader{FS: testFS(t)})
	require.NoError(t, err)
	assert.Equal(t, 1, dl.Rects())
	assert.Equal(t, 1, dl.Tiles())

	surface := s.NewSurface()
	require.NoError(t, dl.Play(c, surface, nil))

	r := surface.Raster()
	src := checkerImage()
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			p := src.NRGBAAt(x, y)
			want := 0xff000000 | uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B)
			assert.Equal(t, want, r.At(x, y+1), "(%d, %d)", x, y+1)
		}
	}
	assert.Equal(t, uint32(0), r.At(0, 0))
	assert.Equal(t, uint32(0), r.At(3, 3))
}

func TestBuildScaledImage(t *testing.T) {
	s := &Scene{
		Width: 8, Height: 8, TileSize: 2,
		Layers: []Layer{{Items: []Item{{Image: "checker.png", Width: 8, Height: 6}}}},
	}
	c := newCompositor(t, s)

	dl, err := Build(s, c, FSLoader{FS: testFS(t)})
	require.NoError(t, err)
	assert.Equal(t, 4*3, dl.Rects()+dl.Tiles())
}

func TestBuildFailureReleasesTiles(t *testing.T) {
	s := &Scene{
		Width: 4, Height: 4, TileSize: 2,
		Layers: []Layer{{Items: []Item{
			{Color: "#ff0000", Width: 3, Height: 3},
			{Image: "missing.png"},
		}}},
	}
	c := newCompositor(t, s)

	_, err := Build(s, c, FSLoader{FS: testFS(t)})
	assert.ErrorIs(t, err, fs.ErrNotExist)
	stats := c.Stats()
	assert.Equal(t, 3, stats.Allocated)
	assert.Equal(t, 0, stats.LiveTiles)

	_, err = Build(s, c, nil)
	assert.Error(t, err, "image item without a loader")
}

func TestBuildTileSizeMismatch(t *testing.T) {
	s := rectScene(1, 1, "#ff0000")
	c := tilecomp.NewSoftwareCompositor(tilecomp.DefaultSoftwareCompositorOptions())
	t.Cleanup(c.Cleanup)

	_, err := Build(s, c, nil)
	assert.ErrorIs(t, err, tilecomp.ErrTileSize)
}

func TestPlayLayers(t *testing.T) {
	s, err := Parse([]byte(tomlScene), FormatTOML)
	require.NoError(t, err)
	c := newCompositor(t, s)

	dl, err := Build(s, c, nil)
	require.NoError(t, err)
	t.Cleanup(func() { dl.Release(c) })

	surface := s.NewSurface()
	require.NoError(t, dl.Play(c, surface, nil))

	r := surface.Raster()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint32(0xff0000ff)
			if x < 2 {
				want = 0xff80007f
			}
			assert.Equal(t, want, r.At(x, y), "(%d, %d)", x, y)
		}
	}
}

func TestPlayDirtyRegion(t *testing.T) {
	s, err := Parse([]byte(tomlScene), FormatTOML)
	require.NoError(t, err)
	c := newCompositor(t, s)
	dl, err := Build(s, c, nil)
	require.NoError(t, err)

	surface := s.NewSurface()
	require.NoError(t, dl.Play(c, surface, image.Rect(1, 1, 3, 2)))

	r := surface.Raster()
	assert.Equal(t, uint32(0xff80007f), r.At(1, 1))
	assert.Equal(t, uint32(0xff0000ff), r.At(2, 1))
	assert.Equal(t, uint32(0), r.At(0, 0))
	assert.Equal(t, uint32(0), r.At(3, 1))
}

func TestPlaySnapshot(t *testing.T) {
	s, err := Parse([]byte(tomlScene), FormatTOML)
	require.NoError(t, err)
	c := newCompositor(t, s)
	dl, err := Build(s, c, nil)
	require.NoError(t, err)

	target := tilecomp.NewRaster(2, 2)
	require.NoError(t, dl.PlaySnapshot(c, image.Rect(2, 0, 4, 2), target))
	for _, px := range target.Pix {
		assert.Equal(t, uint32(0xff0000ff), px)
	}
}

func TestPlayLockedSurface(t *testing.T) {
	s, err := Parse([]byte(tomlScene), FormatTOML)
	require.NoError(t, err)
	c := newCompositor(t, s)
	dl, err := Build(s, c, nil)
	require.NoError(t, err)

	surface := s.NewSurface()
	_, err = surface.LockPixels(surface.Bounds())
	require.NoError(t, err)

	assert.ErrorIs(t, dl.Play(c, surface, nil), tilecomp.ErrLocked)
}

func TestReleaseAfterCleanup(t *testing.T) {
	s := rectScene(3, 3, "#ff0000")
	c := tilecomp.NewSoftwareCompositor(s.Options())

	dl, err := Build(s, c, nil)
	require.NoError(t, err)
	c.Cleanup()

	dl.Release(c)
	assert.Equal(t, 0, c.Stats().LiveTiles)
	assert.Equal(t, 0, dl.Tiles())
}
