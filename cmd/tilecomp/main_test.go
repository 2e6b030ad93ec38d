package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScene = `
width = 6
height = 4
tile_size = 2
background = "#000080"

[[layers]]
ink = "blendScreen"
clip = { x = 0, y = 0, width = 3, height = 4 }

[[layers.items]]
color = "#ff0000"
width = 6
height = 4
`

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(testScene), 0o600))

	img, stats, err := render(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
	assert.Equal(t, 2, stats.Layers)
	assert.Equal(t, color.NRGBA{R: 255, B: 128, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{B: 128, A: 255}, img.NRGBAAt(5, 3))

	out := filepath.Join(dir, "out.png")
	require.NoError(t, savePNG(out, img))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRenderMissingScene(t *testing.T) {
	_, _, err := render(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}

func TestListInks(t *testing.T) {
	var buf bytes.Buffer
	listInks(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 0x32)
	assert.Contains(t, lines[0x03], "copy")
	assert.Contains(t, lines[0x2f], "blendSoftLight")
	assert.Contains(t, lines[0x2f], "advanced")
}

func TestPrintPreview(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	printPreview(termenv.NewOutput(&buf, termenv.WithProfile(termenv.TrueColor)), img, 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, 4, strings.Count(lines[0], "▀"))
}

func TestOpaque(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 128, A: 255}, opaque(color.NRGBA{R: 255, A: 128}))
	assert.Equal(t, color.NRGBA{A: 255}, opaque(color.NRGBA{}))
}
