package combine

import (
	"fmt"

	"github.com/gogpu/tilecomp/internal/packed"
)

// variants holds one combiner per alpha configuration. A nil entry falls
// back to neither.
type variants struct {
	both, dstOnly, srcOnly, neither Func
}

func (v variants) pick(dstAlpha, srcAlpha bool) Func {
	var f Func
	switch {
	case dstAlpha && srcAlpha:
		f = v.both
	case dstAlpha:
		f = v.dstOnly
	case srcAlpha:
		f = v.srcOnly
	}
	if f == nil {
		f = v.neither
	}
	return f
}

func zero(dst, src uint32) uint32   { return 0 }
func source(dst, src uint32) uint32 { return src }
func dest(dst, src uint32) uint32   { return dst }

// Each variant reads only the alpha bytes its configuration declares
// present; a side without alpha behaves as if fully opaque.
var basicOps = [...]variants{
	OpBlendClear - OpBlendClear: {neither: zero},
	OpBlendSrc - OpBlendClear:   {neither: source},
	OpBlendDst - OpBlendClear:   {neither: dest},

	OpBlendSrcOver - OpBlendClear: {
		both:    srcOver,
		srcOnly: srcOver,
		neither: source,
	},
	OpBlendDstOver - OpBlendClear: {
		both:    dstOver,
		dstOnly: dstOver,
		neither: dest,
	},
	OpBlendSrcIn - OpBlendClear: {
		both:    srcIn,
		dstOnly: srcIn,
		neither: source,
	},
	OpBlendDstIn - OpBlendClear: {
		both:    dstIn,
		srcOnly: dstIn,
		neither: dest,
	},
	OpBlendSrcOut - OpBlendClear: {
		both:    srcOut,
		dstOnly: srcOut,
		neither: zero,
	},
	OpBlendDstOut - OpBlendClear: {
		both:    dstOut,
		srcOnly: dstOut,
		neither: zero,
	},
	OpBlendSrcAtop - OpBlendClear: {
		both: func(dst, src uint32) uint32 {
			return packed.BilinearBounded(src, packed.Alpha(dst), dst, packed.InverseAlpha(src))
		},
		srcOnly: srcOver,
		dstOnly: srcIn,
		neither: source,
	},
	OpBlendDstAtop - OpBlendClear: {
		both: func(dst, src uint32) uint32 {
			return packed.BilinearBounded(dst, packed.Alpha(src), src, packed.InverseAlpha(dst))
		},
		dstOnly: dstOver,
		srcOnly: dstIn,
		neither: dest,
	},
	OpBlendXor - OpBlendClear: {
		both:    bothOut,
		srcOnly: dstOut,
		dstOnly: srcOut,
		neither: zero,
	},
	OpBlendPlus - OpBlendClear: {
		neither: func(dst, src uint32) uint32 {
			return packed.AddSaturated(src, dst)
		},
	},
	OpBlendMultiply - OpBlendClear: {
		both: func(dst, src uint32) uint32 {
			return packed.MultiplyBounded(src, dst) + bothOut(dst, src)
		},
		srcOnly: func(dst, src uint32) uint32 {
			return packed.MultiplyBounded(src, dst) + dstOut(dst, src)
		},
		dstOnly: func(dst, src uint32) uint32 {
			return packed.MultiplyBounded(src, dst) + srcOut(dst, src)
		},
		neither: packedMultiply,
	},
	OpBlendScreen - OpBlendClear: {
		neither: func(dst, src uint32) uint32 {
			return packed.MultiplyBounded(src, packed.Inverse(dst)) + dst
		},
	},
}

func srcOver(dst, src uint32) uint32 {
	return packed.ScaleAddBounded(dst, packed.InverseAlpha(src), src)
}

func dstOver(dst, src uint32) uint32 {
	return packed.ScaleAddBounded(src, packed.InverseAlpha(dst), dst)
}

func srcIn(dst, src uint32) uint32 {
	return packed.ScaleBounded(src, packed.Alpha(dst))
}

func dstIn(dst, src uint32) uint32 {
	return packed.ScaleBounded(dst, packed.Alpha(src))
}

func srcOut(dst, src uint32) uint32 {
	return packed.ScaleBounded(src, packed.InverseAlpha(dst))
}

func dstOut(dst, src uint32) uint32 {
	return packed.ScaleBounded(dst, packed.InverseAlpha(src))
}

func bothOut(dst, src uint32) uint32 {
	return packed.BilinearBounded(src, packed.InverseAlpha(dst), dst, packed.InverseAlpha(src))
}

func packedMultiply(dst, src uint32) uint32 {
	return packed.MultiplyBounded(src, dst)
}

// Basic returns the combiner for a Porter-Duff style operation on
// premultiplied pixels.
func Basic(op Op, dstAlpha, srcAlpha bool) Func {
	if op.Family() != FamilyBasic {
		panic(fmt.Sprintf("combine: %v is not a basic imaging operation", op))
	}
	return basicOps[op-OpBlendClear].pick(dstAlpha, srcAlpha)
}
