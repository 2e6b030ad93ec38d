package scene

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding
	"golang.org/x/image/draw"

	"github.com/gogpu/tilecomp"
)

// Loader opens the images named by scene items.
type Loader interface {
	Load(name string) (image.Image, error)
}

// FSLoader decodes images from a file system. PNG, JPEG, GIF, BMP, TIFF
// and WebP files are recognized by content.
type FSLoader struct {
	FS fs.FS
}

// DirLoader returns a loader resolving names relative to dir.
func DirLoader(dir string) FSLoader {
	return FSLoader{FS: os.DirFS(dir)}
}

// Load implements Loader.
func (l FSLoader) Load(name string) (image.Image, error) {
	f, err := l.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scene: decode %s: %w", name, err)
	}
	return img, nil
}

// rasterize converts img to premultiplied pixels at the given size,
// scaling when it differs from the image's own. The raster is padded with
// transparent pixels to a multiple of tileSize in both directions.
func rasterize(img image.Image, width, height, tileSize int) tilecomp.Raster {
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}
	r := paddedRaster(width, height, tileSize)
	tilecomp.FromRGBA(r, rgba)
	return r
}

func paddedRaster(width, height, tileSize int) tilecomp.Raster {
	round := func(n int) int { return (n + tileSize - 1) / tileSize * tileSize }
	return tilecomp.NewRaster(round(width), round(height))
}
