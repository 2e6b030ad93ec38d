package combine

import "fmt"

// Func combines a destination pixel with a source pixel and returns the
// new destination pixel. Pixels are 0xAARRGGBB.
type Func func(dst, src uint32) uint32

// Context carries per-call state that some operations depend on.
type Context struct {
	// Background is the colour keyed out by OpTransparent. Only its
	// colour channels are compared.
	Background uint32
}

// Select returns the combiner for op, specialised for the given alpha
// configuration. When a side has no alpha its alpha byte is treated as
// 255 and never read.
//
// Select panics if op is not a known operation: the operation set is
// closed and callers validate user input before it reaches this layer.
func Select(op Op, dstAlpha, srcAlpha bool, ctx Context) Func {
	switch op.Family() {
	case FamilyBitwise:
		return Bitwise(op, dstAlpha, srcAlpha)
	case FamilyArithmetic:
		return Arithmetic(op, dstAlpha, srcAlpha, ctx)
	case FamilyBasic:
		return Basic(op, dstAlpha, srcAlpha)
	case FamilyAdvanced:
		return Advanced(op, dstAlpha, srcAlpha)
	default:
		panic(fmt.Sprintf("combine: unknown operation %d", uint8(op)))
	}
}
