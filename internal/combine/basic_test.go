package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alphaConfigs() []struct{ dstAlpha, srcAlpha bool } {
	return []struct{ dstAlpha, srcAlpha bool }{
		{true, true}, {true, false}, {false, true}, {false, false},
	}
}

func TestBlendClearYieldsZero(t *testing.T) {
	for _, cfg := range alphaConfigs() {
		fn := Basic(OpBlendClear, cfg.dstAlpha, cfg.srcAlpha)
		for _, px := range []uint32{0, 0xffffffff, 0x80402010, 0xff0000ff} {
			require.Zerof(t, fn(px, ^px), "clear(%#08x, %#08x) with %+v", px, ^px, cfg)
		}
	}
}

func TestMultiplyWhiteIsIdentity(t *testing.T) {
	dsts := []uint32{0xff000000, 0xffffffff, 0xff123456, 0xff80ff01, 0xff0000ff}
	for _, cfg := range alphaConfigs() {
		fn := Basic(OpBlendMultiply, cfg.dstAlpha, cfg.srcAlpha)
		for _, dst := range dsts {
			assert.Equalf(t, dst, fn(dst, 0xffffffff), "multiply(%#08x, white) with %+v", dst, cfg)
		}
	}
}

func TestBasicOps(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		dst, src uint32
		want     uint32
	}{
		{"src over opaque", OpBlendSrcOver, 0xff0000ff, 0xffff0000, 0xffff0000},
		{"src over transparent", OpBlendSrcOver, 0xff0000ff, 0x00000000, 0xff0000ff},
		{"src over half", OpBlendSrcOver, 0xff0000ff, 0x80800000, 0xff80007f},
		{"dst over opaque dst", OpBlendDstOver, 0xff0000ff, 0x80800000, 0xff0000ff},
		{"src in half dst", OpBlendSrcIn, 0x80000000, 0xff00ff00, 0x80008000},
		{"dst in opaque src", OpBlendDstIn, 0xff123456, 0xff000000, 0xff123456},
		{"src out opaque dst", OpBlendSrcOut, 0xff123456, 0xffabcdef, 0},
		{"dst out opaque src", OpBlendDstOut, 0xff123456, 0xffabcdef, 0},
		{"src atop opaque", OpBlendSrcAtop, 0xff123456, 0xffabcdef, 0xffabcdef},
		{"dst atop opaque", OpBlendDstAtop, 0xff123456, 0xffabcdef, 0xff123456},
		{"xor opaque", OpBlendXor, 0xff123456, 0xffabcdef, 0},
		{"plus saturates", OpBlendPlus, 0x90909090, 0x80808080, 0xffffffff},
		{"screen black", OpBlendScreen, 0xff123456, 0xff000000, 0xff123456},
		{"screen white", OpBlendScreen, 0xff123456, 0xffffffff, 0xffffffff},
		{"src", OpBlendSrc, 0xff123456, 0x80402010, 0x80402010},
		{"dst", OpBlendDst, 0xff123456, 0x80402010, 0xff123456},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := Basic(tt.op, true, true)
			got := fn(tt.dst, tt.src)
			assert.Equalf(t, tt.want, got, "%v(%#08x, %#08x) = %#08x", tt.op, tt.dst, tt.src, got)
		})
	}
}

func TestBasicWithoutAlphaIgnoresAlphaBytes(t *testing.T) {
	// With neither side declaring alpha, source-over is a plain copy even
	// when the source alpha byte is zero.
	fn := Basic(OpBlendSrcOver, false, false)
	assert.Equal(t, uint32(0x00ff0000), fn(0xff0000ff, 0x00ff0000))

	fn = Basic(OpBlendSrcOut, false, false)
	assert.Zero(t, fn(0x00000000, 0xffffffff))
}

// The un-premultiplying families and the premultiplied Porter-Duff family
// treat a partially transparent source differently: a bitwise copy is
// recombined with the destination, a basic src replaces it.
func TestFamilyBoundary(t *testing.T) {
	const (
		dst uint32 = 0xff000000
		src uint32 = 0x80404040
	)
	gotCopy := Bitwise(OpCopy, true, true)(dst, src)
	assert.Equal(t, uint32(0xff404040), gotCopy, "bitwise copy")
	assert.Equal(t, src, Basic(OpBlendSrc, true, true)(dst, src), "basic src")
	assert.Equal(t, gotCopy, Basic(OpBlendSrcOver, true, true)(dst, src), "basic src over")
}
