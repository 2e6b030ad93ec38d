package combine

import (
	"fmt"

	"github.com/gogpu/tilecomp/internal/packed"
)

// rawFunc computes an operation on un-premultiplied colours s and d. The
// alpha byte of the result is ignored by the alpha-aware recombine step.
type rawFunc func(s, d uint32) uint32

const rgbMask = 0x00ffffff

var bitwiseOps = [LastBitwise + 1]rawFunc{
	OpClear:        func(s, d uint32) uint32 { return 0 },
	OpAnd:          func(s, d uint32) uint32 { return s & d },
	OpAndReverse:   func(s, d uint32) uint32 { return s &^ d & rgbMask },
	OpCopy:         func(s, d uint32) uint32 { return s },
	OpAndInverted:  func(s, d uint32) uint32 { return ^s & d & rgbMask },
	OpNoop:         func(s, d uint32) uint32 { return d },
	OpXor:          func(s, d uint32) uint32 { return s ^ d },
	OpOr:           func(s, d uint32) uint32 { return s | d },
	OpNor:          func(s, d uint32) uint32 { return ^(s | d) & rgbMask },
	OpEquiv:        func(s, d uint32) uint32 { return (^s ^ d) & rgbMask },
	OpInvert:       func(s, d uint32) uint32 { return ^d & rgbMask },
	OpOrReverse:    func(s, d uint32) uint32 { return (s | ^d) & rgbMask },
	OpCopyInverted: func(s, d uint32) uint32 { return ^s & rgbMask },
	OpOrInverted:   func(s, d uint32) uint32 { return (^s | d) & rgbMask },
	OpNand:         func(s, d uint32) uint32 { return ^(s & d) & rgbMask },
	OpSet:          func(s, d uint32) uint32 { return rgbMask },
}

// Bitwise returns the combiner for a bitwise raster op.
func Bitwise(op Op, dstAlpha, srcAlpha bool) Func {
	if op.Family() != FamilyBitwise {
		panic(fmt.Sprintf("combine: %v is not a bitwise operation", op))
	}
	return unpremultiplied(bitwiseOps[op], dstAlpha, srcAlpha)
}

// Arithmetic returns the combiner for an arithmetic op. ctx is only
// consulted by OpTransparent.
func Arithmetic(op Op, dstAlpha, srcAlpha bool, ctx Context) Func {
	var raw rawFunc
	switch op {
	case OpBlend:
		raw = arithmeticBlend
	case OpAddPin:
		raw = arithmeticAddPin
	case OpAddOver:
		raw = arithmeticAddOver
	case OpSubPin:
		raw = arithmeticSubPin
	case OpTransparent:
		key := ctx.Background & rgbMask
		raw = func(s, d uint32) uint32 {
			if s&rgbMask == key {
				return d
			}
			return s
		}
	case OpAdMax:
		raw = arithmeticMax
	case OpSubOver:
		raw = arithmeticSubOver
	case OpAdMin:
		raw = arithmeticMin
	default:
		panic(fmt.Sprintf("combine: %v is not an arithmetic operation", op))
	}
	return unpremultiplied(raw, dstAlpha, srcAlpha)
}

// Unweighted average, truncating.
func arithmeticBlend(s, d uint32) uint32 {
	u := (((d & 0xff00ff) + (s & 0xff00ff)) >> 1) & 0xff00ff
	v := (((d & 0x00ff00) + (s & 0x00ff00)) >> 1) & 0x00ff00
	return u | v
}

func arithmeticAddPin(s, d uint32) uint32 {
	u := (d & 0xff00ff) + (s & 0xff00ff)
	u = (u | (0x1000100 - ((u >> 8) & 0xff00ff))) & 0xff00ff
	v := (d & 0x00ff00) + (s & 0x00ff00)
	v = (v | (0x0010000 - ((v >> 8) & 0x00ff00))) & 0x00ff00
	return u | v
}

func arithmeticAddOver(s, d uint32) uint32 {
	u := ((d & 0xff00ff) + (s & 0xff00ff)) & 0xff00ff
	v := ((d & 0x00ff00) + (s & 0x00ff00)) & 0x00ff00
	return u | v
}

// src - dst, floored at 0 per channel.
func arithmeticSubPin(s, d uint32) uint32 {
	return packed.SubtractSaturated(s&rgbMask, d&rgbMask)
}

// src - dst, wrapping per channel.
func arithmeticSubOver(s, d uint32) uint32 {
	u := ((s & 0xff00ff) - (d & 0xff00ff)) & 0xff00ff
	v := ((s & 0x00ff00) - (d & 0x00ff00)) & 0x00ff00
	return u | v
}

// Channel fields are compared in place, without shifting them down.
func arithmeticMax(s, d uint32) uint32 {
	return packed.Max(s&0x0000ff, d&0x0000ff) |
		packed.Max(s&0x00ff00, d&0x00ff00) |
		packed.Max(s&0xff0000, d&0xff0000)
}

func arithmeticMin(s, d uint32) uint32 {
	return packed.Min(s&0x0000ff, d&0x0000ff) |
		packed.Min(s&0x00ff00, d&0x00ff00) |
		packed.Min(s&0xff0000, d&0xff0000)
}

// unpremultiplied wraps a raw op in the three-phase pipeline shared by the
// bitwise and arithmetic families:
//
//  1. return early when either side is fully transparent,
//  2. un-premultiply both sides (skipped at alpha 255) and apply raw,
//  3. recombine the opaque raw result with the parts of src and dst that
//     do not overlap, weighted by their alphas.
//
// Each alpha configuration gets its own closure so the per-pixel path has
// no configuration branches.
func unpremultiplied(raw rawFunc, dstAlpha, srcAlpha bool) Func {
	switch {
	case dstAlpha && srcAlpha:
		return func(dst, src uint32) uint32 {
			sa, da := packed.Alpha(src), packed.Alpha(dst)
			if sa == 0 {
				return dst
			}
			if da == 0 {
				return src
			}
			r := raw(unpremultiply(src, sa), unpremultiply(dst, da))
			ra := packed.Downscale(uint16(sa) * uint16(da))
			return packed.BilinearBounded(src, 255-da, dst, 255-sa) + packed.ScaleBounded(packed.Opaque(r), ra)
		}
	case dstAlpha:
		return func(dst, src uint32) uint32 {
			da := packed.Alpha(dst)
			if da == 0 {
				return src
			}
			r := raw(src, unpremultiply(dst, da))
			return packed.BilinearBounded(src, 255-da, packed.Opaque(r), da)
		}
	case srcAlpha:
		return func(dst, src uint32) uint32 {
			sa := packed.Alpha(src)
			if sa == 0 {
				return dst
			}
			r := raw(unpremultiply(src, sa), dst)
			return packed.BilinearBounded(dst, 255-sa, packed.Opaque(r), sa)
		}
	default:
		return func(dst, src uint32) uint32 {
			return raw(src, dst)
		}
	}
}

func unpremultiply(x uint32, a uint8) uint32 {
	if a == 255 {
		return x
	}
	return packed.DivideBounded(x, a)
}
