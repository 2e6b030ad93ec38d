// Package scene describes layered tile scenes in TOML or YAML files and
// plays them through a tilecomp.Compositor.
//
// A scene is a canvas with an optional background colour and a list of
// layers. Each layer carries a clip, an opacity and an ink, and a list of
// items: decoded images or solid rectangles. Build splits every item into
// tiles the way a tile cache would, turning uniform tiles into constant
// rect commands, and the resulting DisplayList replays the command stream.
//
// Example scene:
//
//	width = 256
//	height = 256
//	background = "#202020"
//
//	[[layers]]
//	ink = "blendMultiply"
//	opacity = 200
//	clip = { x = 0, y = 0, width = 128, height = 256 }
//
//	[[layers.items]]
//	image = "photo.png"
//	x = 16
//	y = 16
package scene

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/tilecomp"
)

// ErrInvalidScene is wrapped by every validation error.
var ErrInvalidScene = errors.New("scene: invalid scene")

// Scene is the file representation of a composited frame.
type Scene struct {
	Width    int `toml:"width" yaml:"width"`
	Height   int `toml:"height" yaml:"height"`
	TileSize int `toml:"tile_size" yaml:"tile_size"`

	// Background, if set, is painted over the whole canvas before the
	// first layer.
	Background string `toml:"background" yaml:"background"`

	// OpaqueTarget composites as if the surface had no alpha.
	OpaqueTarget bool `toml:"opaque_target" yaml:"opaque_target"`

	// TransparentKey is the colour keyed out by the transparent ink.
	TransparentKey string `toml:"transparent_key" yaml:"transparent_key"`

	Layers []Layer `toml:"layers" yaml:"layers"`
}

// Layer groups items composited with one clip, opacity and ink.
type Layer struct {
	Name string `toml:"name" yaml:"name"`

	// Clip defaults to the canvas.
	Clip *Rect `toml:"clip" yaml:"clip"`

	// Opacity is 0 to 255 and defaults to 255.
	Opacity *int `toml:"opacity" yaml:"opacity"`

	// Ink is an ink name or code as accepted by tilecomp.ParseInk. It
	// defaults to "copy".
	Ink string `toml:"ink" yaml:"ink"`

	Items []Item `toml:"items" yaml:"items"`
}

// Item is an image or a solid rectangle placed at (X, Y).
//
// An image item draws the named file, scaled to Width x Height when both
// are set. A rectangle item fills Width x Height with Color.
type Item struct {
	Image  string `toml:"image" yaml:"image"`
	Color  string `toml:"color" yaml:"color"`
	X      int    `toml:"x" yaml:"x"`
	Y      int    `toml:"y" yaml:"y"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

// Rect is a rectangle in canvas pixels.
type Rect struct {
	X      int `toml:"x" yaml:"x"`
	Y      int `toml:"y" yaml:"y"`
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Format is a scene file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("scene: unrecognized scene file extension %q", filepath.Ext(path))
	}
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene, fills in defaults and validates it.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("scene: unknown format %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: decode %v: %w", format, err)
	}
	if s.TileSize == 0 {
		s.TileSize = tilecomp.DefaultTileSize
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scene for values Build cannot use.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidScene, s.Width, s.Height)
	}
	if s.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidScene, s.TileSize)
	}
	if s.Background != "" {
		if _, err := ParseColor(s.Background); err != nil {
			return fmt.Errorf("%w: background: %w", ErrInvalidScene, err)
		}
	}
	if s.TransparentKey != "" {
		if _, err := ParseColor(s.TransparentKey); err != nil {
			return fmt.Errorf("%w: transparent key: %w", ErrInvalidScene, err)
		}
	}
	for i := range s.Layers {
		if err := s.Layers[i].validate(); err != nil {
			return fmt.Errorf("%w: layer %d: %w", ErrInvalidScene, i, err)
		}
	}
	return nil
}

func (l *Layer) validate() error {
	if _, err := l.ink(); err != nil {
		return err
	}
	if l.Opacity != nil && (*l.Opacity < 0 || *l.Opacity > 255) {
		return fmt.Errorf("opacity %d not in [0, 255]", *l.Opacity)
	}
	if l.Clip != nil && (l.Clip.Width < 0 || l.Clip.Height < 0) {
		return fmt.Errorf("negative clip size %dx%d", l.Clip.Width, l.Clip.Height)
	}
	for i, it := range l.Items {
		if err := it.validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (l *Layer) ink() (tilecomp.Ink, error) {
	if l.Ink == "" {
		return tilecomp.InkCopy, nil
	}
	return tilecomp.ParseInk(l.Ink)
}

func (l *Layer) opacity() uint8 {
	if l.Opacity == nil {
		return 255
	}
	return uint8(*l.Opacity)
}

func (l *Layer) clip(canvas image.Rectangle) image.Rectangle {
	if l.Clip == nil {
		return canvas
	}
	return l.Clip.Rectangle()
}

func (it *Item) validate() error {
	switch {
	case it.Image != "" && it.Color != "":
		return errors.New("item has both an image and a colour")
	case it.Image != "":
		if it.Width < 0 || it.Height < 0 || (it.Width == 0) != (it.Height == 0) {
			return fmt.Errorf("image size %dx%d: set both dimensions or neither", it.Width, it.Height)
		}
	case it.Color != "":
		if it.Width <= 0 || it.Height <= 0 {
			return fmt.Errorf("rectangle size %dx%d", it.Width, it.Height)
		}
		if _, err := ParseColor(it.Color); err != nil {
			return err
		}
	default:
		return errors.New("item has neither an image nor a colour")
	}
	return nil
}

// Bounds returns the canvas rectangle.
func (s *Scene) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Options returns compositor options matching the scene.
func (s *Scene) Options() tilecomp.SoftwareCompositorOptions {
	opts := tilecomp.SoftwareCompositorOptions{
		TileSize:     s.TileSize,
		OpaqueTarget: s.OpaqueTarget,
	}
	if s.TransparentKey != "" {
		// Validated by Parse.
		opts.Context.Background, _ = ParseColor(s.TransparentKey)
	}
	return opts
}

// NewSurface returns a surface sized for the scene.
func (s *Scene) NewSurface() *tilecomp.MemorySurface {
	if s.OpaqueTarget {
		return tilecomp.NewMemorySurface(s.Width, s.Height, tilecomp.WithOpaque())
	}
	return tilecomp.NewMemorySurface(s.Width, s.Height)
}
