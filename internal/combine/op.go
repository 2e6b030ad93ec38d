// Package combine implements the per-pixel combiners used by the surface
// compositor.
//
// Operations are grouped into four families occupying contiguous ranges of
// a single enumeration:
//
//   - bitwise (raster ops on un-premultiplied colour),
//   - arithmetic (classic paint-program ops on un-premultiplied colour),
//   - basic imaging (Porter-Duff on premultiplied colour),
//   - advanced imaging (separable blend modes on premultiplied colour).
//
// A combiner is resolved once for a given operation and alpha
// configuration and returned as a Func, so scanline loops make one call
// per pixel with no further dispatch.
package combine

import "fmt"

// Op identifies a combiner operation.
type Op uint8

// Bitwise operations.
const (
	OpClear Op = iota
	OpAnd
	OpAndReverse
	OpCopy
	OpAndInverted
	OpNoop
	OpXor
	OpOr
	OpNor
	OpEquiv
	OpInvert
	OpOrReverse
	OpCopyInverted
	OpOrInverted
	OpNand
	OpSet

	LastBitwise = OpSet
)

// Arithmetic operations.
const (
	OpBlend Op = LastBitwise + 1 + iota
	OpAddPin
	OpAddOver
	OpSubPin
	OpTransparent
	OpAdMax
	OpSubOver
	OpAdMin

	LastArithmetic = OpAdMin
)

// Basic imaging operations.
const (
	OpBlendClear Op = LastArithmetic + 1 + iota
	OpBlendSrc
	OpBlendDst
	OpBlendSrcOver
	OpBlendDstOver
	OpBlendSrcIn
	OpBlendDstIn
	OpBlendSrcOut
	OpBlendDstOut
	OpBlendSrcAtop
	OpBlendDstAtop
	OpBlendXor
	OpBlendPlus
	OpBlendMultiply
	OpBlendScreen

	LastBasic = OpBlendScreen
)

// Advanced imaging operations.
const (
	OpBlendOverlay Op = LastBasic + 1 + iota
	OpBlendDarken
	OpBlendLighten
	OpBlendDodge
	OpBlendBurn
	OpBlendHardLight
	OpBlendSoftLight
	OpBlendDifference
	OpBlendExclusion

	LastAdvanced = OpBlendExclusion
)

// Aliases kept for compatibility with the X11 naming.
const (
	OpSrcBic    = OpAndReverse
	OpNotSrcBic = OpAnd
)

// Family classifies an operation.
type Family uint8

const (
	FamilyBitwise Family = iota
	FamilyArithmetic
	FamilyBasic
	FamilyAdvanced
	FamilyInvalid
)

var familyNames = [...]string{
	FamilyBitwise:    "bitwise",
	FamilyArithmetic: "arithmetic",
	FamilyBasic:      "basic",
	FamilyAdvanced:   "advanced",
	FamilyInvalid:    "invalid",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

// Family returns the family op belongs to, by comparison against the last
// value of each range.
func (op Op) Family() Family {
	switch {
	case op <= LastBitwise:
		return FamilyBitwise
	case op <= LastArithmetic:
		return FamilyArithmetic
	case op <= LastBasic:
		return FamilyBasic
	case op <= LastAdvanced:
		return FamilyAdvanced
	default:
		return FamilyInvalid
	}
}

// Valid reports whether op is a known operation.
func (op Op) Valid() bool {
	return op <= LastAdvanced
}

var opNames = [...]string{
	OpClear:        "clear",
	OpAnd:          "and",
	OpAndReverse:   "andReverse",
	OpCopy:         "copy",
	OpAndInverted:  "andInverted",
	OpNoop:         "noop",
	OpXor:          "xor",
	OpOr:           "or",
	OpNor:          "nor",
	OpEquiv:        "equiv",
	OpInvert:       "invert",
	OpOrReverse:    "orReverse",
	OpCopyInverted: "copyInverted",
	OpOrInverted:   "orInverted",
	OpNand:         "nand",
	OpSet:          "set",

	OpBlend:       "blend",
	OpAddPin:      "addPin",
	OpAddOver:     "addOver",
	OpSubPin:      "subPin",
	OpTransparent: "transparent",
	OpAdMax:       "adMax",
	OpSubOver:     "subOver",
	OpAdMin:       "adMin",

	OpBlendClear:    "blendClear",
	OpBlendSrc:      "blendSrc",
	OpBlendDst:      "blendDst",
	OpBlendSrcOver:  "blendSrcOver",
	OpBlendDstOver:  "blendDstOver",
	OpBlendSrcIn:    "blendSrcIn",
	OpBlendDstIn:    "blendDstIn",
	OpBlendSrcOut:   "blendSrcOut",
	OpBlendDstOut:   "blendDstOut",
	OpBlendSrcAtop:  "blendSrcAtop",
	OpBlendDstAtop:  "blendDstAtop",
	OpBlendXor:      "blendXor",
	OpBlendPlus:     "blendPlus",
	OpBlendMultiply: "blendMultiply",
	OpBlendScreen:   "blendScreen",

	OpBlendOverlay:    "blendOverlay",
	OpBlendDarken:     "blendDarken",
	OpBlendLighten:    "blendLighten",
	OpBlendDodge:      "blendDodge",
	OpBlendBurn:       "blendBurn",
	OpBlendHardLight:  "blendHardLight",
	OpBlendSoftLight:  "blendSoftLight",
	OpBlendDifference: "blendDifference",
	OpBlendExclusion:  "blendExclusion",
}

func (op Op) String() string {
	if op.Valid() {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}
