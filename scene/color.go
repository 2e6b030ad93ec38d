package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a scene colour into a premultiplied 0xAARRGGBB pixel.
//
// "#rgb", "#rrggbb" and "#rrggbbaa" are straight (non-premultiplied)
// colours, opaque unless an alpha byte is given. "0xAARRGGBB" is taken as
// an already premultiplied pixel.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("scene: colour %q: %w", s, err)
		}
		return uint32(v), nil
	}

	alpha := uint8(255)
	hex := s
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("scene: colour %q: %w", s, err)
		}
		alpha = uint8(a)
		hex = s[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("scene: colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return premultiply(color.NRGBA{R: r, G: g, B: b, A: alpha}), nil
}

func premultiply(c color.NRGBA) uint32 {
	r, g, b, a := c.RGBA()
	return (a>>8)<<24 | (r>>8)<<16 | (g>>8)<<8 | b>>8
}
