package combine

import (
	"fmt"

	"github.com/gogpu/tilecomp/internal/packed"
)

// channel holds the per-channel inputs of an advanced blend mode. Colour
// and alpha values are bytes widened to int32; the cross terms are their
// products in the 255*255 scale.
type channel struct {
	sc, dc, sa, da int32

	saD, daS int32 // sa*dc, da*sc
	saDa     int32 // sa*da
	inv      int32 // (255-da)*sc + (255-sa)*dc
}

// channelFunc computes one colour channel of an advanced blend mode.
type channelFunc func(c *channel) uint8

// ds narrows a 255*255-scale intermediate the way a 16-bit accumulator
// would: the value is truncated to 16 bits before rounding.
func ds(x int32) int32 {
	return int32(packed.Downscale(uint16(x)))
}

var advancedOps = [...]channelFunc{
	OpBlendOverlay - OpBlendOverlay:    overlay,
	OpBlendDarken - OpBlendOverlay:     darken,
	OpBlendLighten - OpBlendOverlay:    lighten,
	OpBlendDodge - OpBlendOverlay:      dodge,
	OpBlendBurn - OpBlendOverlay:       burn,
	OpBlendHardLight - OpBlendOverlay:  hardLight,
	OpBlendSoftLight - OpBlendOverlay:  softLight,
	OpBlendDifference - OpBlendOverlay: difference,
	OpBlendExclusion - OpBlendOverlay:  exclusion,
}

func overlay(c *channel) uint8 {
	if 2*c.dc < c.da {
		return uint8(ds(2*c.sc*c.dc + c.inv))
	}
	return uint8(ds(c.saDa - 2*(c.da-c.dc)*(c.sa-c.sc) + c.inv))
}

func hardLight(c *channel) uint8 {
	if 2*c.sc < c.sa {
		return uint8(ds(2*c.sc*c.dc + c.inv))
	}
	return uint8(ds(c.saDa - 2*(c.da-c.dc)*(c.sa-c.sc) + c.inv))
}

func darken(c *channel) uint8 {
	return uint8(ds(min(c.daS, c.saD) + c.inv))
}

func lighten(c *channel) uint8 {
	return uint8(ds(max(c.daS, c.saD) + c.inv))
}

func dodge(c *channel) uint8 {
	if c.daS+c.saD >= c.saDa {
		return uint8(ds(c.saDa + c.inv))
	}
	q := packed.ScaledDivide(uint16(c.saD), uint8(c.sa), uint8(c.sa-c.sc))
	return uint8(ds(int32(q) + c.inv))
}

func burn(c *channel) uint8 {
	if c.daS+c.saD <= c.saDa {
		return uint8(ds(c.inv))
	}
	q := packed.ScaledDivide(uint16(c.daS+c.saD-c.saDa), uint8(c.sa), uint8(c.sc))
	return uint8(ds(int32(q) + c.inv))
}

func softLight(c *channel) uint8 {
	switch {
	case 2*c.sc < c.sa:
		n := c.saDa + (c.da-c.dc)*(c.sa-2*c.sc)
		q := packed.ScaledDivide(uint16(n), uint8(c.dc), uint8(c.da))
		return uint8(ds(int32(q) + c.inv))
	case 8*c.dc < c.da:
		daDaSa := uint32(c.da) * uint32(c.da) * uint32(c.sa)
		n := daDaSa - uint32((c.da-c.dc)*(2*c.sc-c.sa)*(3*c.da-8*c.dc))
		q := packed.LongScaledDivide(n, uint8(c.dc), uint16(c.da*c.da))
		return uint8(ds(int32(q) + c.inv))
	default:
		root := int32(packed.Sqrt(uint16(c.da * c.dc)))
		return uint8(ds(c.saD + (root-c.dc)*(2*c.sc-c.sa) + c.inv))
	}
}

func difference(c *channel) uint8 {
	return uint8(c.sc + c.dc - 2*ds(min(c.daS, c.saD)))
}

func exclusion(c *channel) uint8 {
	return uint8(ds(c.sc*(c.da-c.dc) + c.dc*(c.sa-c.sc) + c.inv))
}

// Advanced returns the combiner for a separable blend mode on
// premultiplied pixels. Without destination alpha the result's alpha byte
// is zero.
func Advanced(op Op, dstAlpha, srcAlpha bool) Func {
	if op.Family() != FamilyAdvanced {
		panic(fmt.Sprintf("combine: %v is not an advanced imaging operation", op))
	}
	fn := advancedOps[op-OpBlendOverlay]
	switch {
	case dstAlpha && srcAlpha:
		return func(dst, src uint32) uint32 {
			return blendChannels(fn, dst, src, int32(dst>>24), int32(src>>24), true)
		}
	case dstAlpha:
		return func(dst, src uint32) uint32 {
			return blendChannels(fn, dst, src, int32(dst>>24), 255, true)
		}
	case srcAlpha:
		return func(dst, src uint32) uint32 {
			return blendChannels(fn, dst, src, 255, int32(src>>24), false)
		}
	default:
		return func(dst, src uint32) uint32 {
			return blendChannels(fn, dst, src, 255, 255, false)
		}
	}
}

func blendChannels(fn channelFunc, dst, src uint32, da, sa int32, keepAlpha bool) uint32 {
	c := channel{sa: sa, da: da, saDa: sa * da}
	var out uint32
	for shift := uint(0); shift < 24; shift += 8 {
		c.sc = int32((src >> shift) & 0xff)
		c.dc = int32((dst >> shift) & 0xff)
		c.saD = c.sa * c.dc
		c.daS = c.da * c.sc
		c.inv = (255-c.da)*c.sc + (255-c.sa)*c.dc
		out |= uint32(fn(&c)) << shift
	}
	if !keepAlpha {
		return out
	}
	a := uint8(sa + da - ds(c.saDa))
	return out | uint32(a)<<24
}
