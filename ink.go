package tilecomp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/tilecomp/internal/combine"
)

// Ink selects how composited pixels combine with the destination.
//
// Ink values are a fixed numeric namespace shared with callers; the codes
// and their order are part of the public contract.
type Ink uint8

// Bitwise inks operate on un-premultiplied colour.
const (
	InkClear        Ink = 0x00
	InkAnd          Ink = 0x01
	InkAndReverse   Ink = 0x02
	InkCopy         Ink = 0x03
	InkAndInverted  Ink = 0x04
	InkNoop         Ink = 0x05
	InkXor          Ink = 0x06
	InkOr           Ink = 0x07
	InkNor          Ink = 0x08
	InkEquiv        Ink = 0x09
	InkInvert       Ink = 0x0a
	InkOrReverse    Ink = 0x0b
	InkCopyInverted Ink = 0x0c
	InkOrInverted   Ink = 0x0d
	InkNand         Ink = 0x0e
	InkSet          Ink = 0x0f

	// InkSrcBic behaves as InkAndReverse.
	InkSrcBic Ink = 0x10
	// InkNotSrcBic behaves as InkAnd.
	InkNotSrcBic Ink = 0x11
)

// Arithmetic inks.
const (
	InkBlend       Ink = 0x12
	InkAddPin      Ink = 0x13
	InkAddOver     Ink = 0x14
	InkSubPin      Ink = 0x15
	InkTransparent Ink = 0x16
	InkAdMax       Ink = 0x17
	InkSubOver     Ink = 0x18
	InkAdMin       Ink = 0x19
)

// Porter-Duff inks on premultiplied colour.
const (
	InkBlendClear    Ink = 0x1a
	InkBlendSrc      Ink = 0x1b
	InkBlendDst      Ink = 0x1c
	InkBlendSrcOver  Ink = 0x1d
	InkBlendDstOver  Ink = 0x1e
	InkBlendSrcIn    Ink = 0x1f
	InkBlendDstIn    Ink = 0x20
	InkBlendSrcOut   Ink = 0x21
	InkBlendDstOut   Ink = 0x22
	InkBlendSrcAtop  Ink = 0x23
	InkBlendDstAtop  Ink = 0x24
	InkBlendXor      Ink = 0x25
	InkBlendPlus     Ink = 0x26
	InkBlendMultiply Ink = 0x27
	InkBlendScreen   Ink = 0x28
)

// Separable blend mode inks on premultiplied colour.
const (
	InkBlendOverlay    Ink = 0x29
	InkBlendDarken     Ink = 0x2a
	InkBlendLighten    Ink = 0x2b
	InkBlendDodge      Ink = 0x2c
	InkBlendBurn       Ink = 0x2d
	InkBlendHardLight  Ink = 0x2e
	InkBlendSoftLight  Ink = 0x2f
	InkBlendDifference Ink = 0x30
	InkBlendExclusion  Ink = 0x31

	lastInk = InkBlendExclusion
)

// Valid reports whether ink is a known ink code.
func (ink Ink) Valid() bool {
	return ink <= lastInk
}

// Op returns the combiner operation ink selects. It panics if ink is not
// valid.
func (ink Ink) Op() combine.Op {
	switch ink {
	case InkClear, InkAnd, InkAndReverse, InkCopy, InkAndInverted, InkNoop,
		InkXor, InkOr, InkNor, InkEquiv, InkInvert, InkOrReverse,
		InkCopyInverted, InkOrInverted, InkNand, InkSet:
		return combine.Op(ink)
	case InkSrcBic:
		return combine.OpSrcBic
	case InkNotSrcBic:
		return combine.OpNotSrcBic
	case InkBlend, InkAddPin, InkAddOver, InkSubPin, InkTransparent,
		InkAdMax, InkSubOver, InkAdMin,
		InkBlendClear, InkBlendSrc, InkBlendDst, InkBlendSrcOver,
		InkBlendDstOver, InkBlendSrcIn, InkBlendDstIn, InkBlendSrcOut,
		InkBlendDstOut, InkBlendSrcAtop, InkBlendDstAtop, InkBlendXor,
		InkBlendPlus, InkBlendMultiply, InkBlendScreen,
		InkBlendOverlay, InkBlendDarken, InkBlendLighten, InkBlendDodge,
		InkBlendBurn, InkBlendHardLight, InkBlendSoftLight,
		InkBlendDifference, InkBlendExclusion:
		// The two alias slots shift everything after them by two.
		return combine.Op(ink - 2)
	default:
		panic(fmt.Sprintf("tilecomp: unknown ink %#02x", uint8(ink)))
	}
}

var inkNames = [...]string{
	InkClear:        "clear",
	InkAnd:          "and",
	InkAndReverse:   "andReverse",
	InkCopy:         "copy",
	InkAndInverted:  "andInverted",
	InkNoop:         "noop",
	InkXor:          "xor",
	InkOr:           "or",
	InkNor:          "nor",
	InkEquiv:        "equiv",
	InkInvert:       "invert",
	InkOrReverse:    "orReverse",
	InkCopyInverted: "copyInverted",
	InkOrInverted:   "orInverted",
	InkNand:         "nand",
	InkSet:          "set",
	InkSrcBic:       "srcBic",
	InkNotSrcBic:    "notSrcBic",

	InkBlend:       "blend",
	InkAddPin:      "addPin",
	InkAddOver:     "addOver",
	InkSubPin:      "subPin",
	InkTransparent: "transparent",
	InkAdMax:       "adMax",
	InkSubOver:     "subOver",
	InkAdMin:       "adMin",

	InkBlendClear:    "blendClear",
	InkBlendSrc:      "blendSrc",
	InkBlendDst:      "blendDst",
	InkBlendSrcOver:  "blendSrcOver",
	InkBlendDstOver:  "blendDstOver",
	InkBlendSrcIn:    "blendSrcIn",
	InkBlendDstIn:    "blendDstIn",
	InkBlendSrcOut:   "blendSrcOut",
	InkBlendDstOut:   "blendDstOut",
	InkBlendSrcAtop:  "blendSrcAtop",
	InkBlendDstAtop:  "blendDstAtop",
	InkBlendXor:      "blendXor",
	InkBlendPlus:     "blendPlus",
	InkBlendMultiply: "blendMultiply",
	InkBlendScreen:   "blendScreen",

	InkBlendOverlay:    "blendOverlay",
	InkBlendDarken:     "blendDarken",
	InkBlendLighten:    "blendLighten",
	InkBlendDodge:      "blendDodge",
	InkBlendBurn:       "blendBurn",
	InkBlendHardLight:  "blendHardLight",
	InkBlendSoftLight:  "blendSoftLight",
	InkBlendDifference: "blendDifference",
	InkBlendExclusion:  "blendExclusion",
}

func (ink Ink) String() string {
	if ink.Valid() {
		return inkNames[ink]
	}
	return fmt.Sprintf("Ink(%#02x)", uint8(ink))
}

// Inks returns every valid ink in code order.
func Inks() []Ink {
	inks := make([]Ink, 0, lastInk+1)
	for ink := Ink(0); ink <= lastInk; ink++ {
		inks = append(inks, ink)
	}
	return inks
}

// ParseInk resolves an ink by name (case-insensitive, as returned by
// String) or by numeric code such as "0x1d" or "29".
func ParseInk(s string) (Ink, error) {
	s = strings.TrimSpace(s)
	for ink, name := range inkNames {
		if strings.EqualFold(name, s) {
			return Ink(ink), nil
		}
	}
	if n, err := strconv.ParseUint(s, 0, 8); err == nil && Ink(n).Valid() {
		return Ink(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInk, s)
}
