// Command tilecomp composites a scene file and writes the result as PNG.
//
// Usage:
//
//	tilecomp -scene scene.toml -output out.png [-preview] [-v]
//	tilecomp -inks
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"golang.org/x/image/draw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/tilecomp"
	"github.com/gogpu/tilecomp/scene"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene file (.toml, .yaml or .yml)")
		output    = flag.String("output", "out.png", "output PNG file")
		preview   = flag.Bool("preview", false, "print the result to the terminal")
		width     = flag.Int("preview-width", 64, "preview width in terminal columns")
		verbose   = flag.Bool("v", false, "log compositor debug output")
		inks      = flag.Bool("inks", false, "list the ink table and exit")
	)
	flag.Parse()

	if *inks {
		listInks(os.Stdout)
		return
	}
	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		tilecomp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	img, stats, err := render(*scenePath)
	if err != nil {
		log.Fatalf("tilecomp: %v", err)
	}
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("tilecomp: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("%s: %dx%d, %d layers, %d tiles, %d rects, %d pixels composited\n",
		*output, img.Bounds().Dx(), img.Bounds().Dy(), stats.Layers, stats.Tiles, stats.Rects, stats.Pixels)

	if *preview {
		printPreview(termenv.NewOutput(os.Stdout), img, *width)
	}
}

func render(path string) (*image.NRGBA, tilecomp.Stats, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, tilecomp.Stats{}, err
	}

	c := tilecomp.NewSoftwareCompositor(s.Options())
	defer c.Cleanup()

	dl, err := scene.Build(s, c, scene.DirLoader(filepath.Dir(path)))
	if err != nil {
		return nil, tilecomp.Stats{}, err
	}
	defer dl.Release(c)

	surface := s.NewSurface()
	if err := dl.Play(c, surface, nil); err != nil {
		return nil, tilecomp.Stats{}, err
	}
	return surface.ToImage(), c.Stats(), nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listInks(w io.Writer) {
	p := message.NewPrinter(language.English)
	for _, ink := range tilecomp.Inks() {
		p.Fprintf(w, "%#04x  %-16s %v\n", uint8(ink), ink, ink.Op().Family())
	}
}

// printPreview draws img with upper half blocks, two image rows per text
// line, scaled to width columns.
func printPreview(out *termenv.Output, img image.Image, width int) {
	b := img.Bounds()
	if b.Empty() || width <= 0 {
		return
	}
	height := max(b.Dy()*width/b.Dx(), 1)
	height += height % 2
	small := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, b, draw.Src, nil)

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := opaque(small.NRGBAAt(x, y))
			bottom := opaque(small.NRGBAAt(x, y+1))
			fmt.Fprint(out, out.String("▀").Foreground(out.FromColor(top)).Background(out.FromColor(bottom)))
		}
		fmt.Fprintln(out)
	}
}

// opaque flattens c onto black; terminals have no alpha.
func opaque(c color.NRGBA) color.NRGBA {
	a := uint32(c.A)
	return color.NRGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: 255,
	}
}
