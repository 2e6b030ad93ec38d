// Package packed provides fixed-point arithmetic on packed 32-bit pixels.
//
// A pixel is a uint32 laid out as 0xAARRGGBB. Most helpers split the word
// into two channel pairs, the "low" pair (bytes 0 and 2) and the "high"
// pair (bytes 1 and 3), each held in a 0x00ff00ff lane mask. That way one
// 32-bit multiply scales two channels at once and the 8 spare bits above
// each channel absorb the product without bleeding into its neighbour.
//
// Division by 255 always rounds half up using the +0x80 bias:
//
//	t = x*a + 0x80
//	r = (t + (t >> 8)) >> 8
//
// which is exact for every x*a in [0, 255*255].
package packed

const (
	laneMask  = 0x00ff00ff
	laneRound = 0x00800080
	alphaMask = 0xff000000
)

// Combine repacks a low-pair accumulator u and a high-pair accumulator v
// (each holding 16-bit per channel products) into a single rounded pixel.
func Combine(u, v uint32) uint32 {
	u += laneRound
	v += laneRound
	return (((u + ((u >> 8) & laneMask)) >> 8) & laneMask) + ((v + ((v >> 8) & laneMask)) & 0xff00ff00)
}

func low(x uint32) uint32 {
	return x & laneMask
}

func high(x uint32) uint32 {
	return (x >> 8) & laneMask
}

func multiplyLow(x, y uint32) uint32 {
	return ((x & 0xff) * (y & 0xff)) | ((x & 0xff0000) * ((y >> 16) & 0xff))
}

func multiplyHigh(x, y uint32) uint32 {
	x >>= 8
	return ((x & 0xff) * ((y >> 8) & 0xff)) | ((x & 0xff0000) * (y >> 24))
}

// ScaleBounded returns x with every channel multiplied by a/255.
func ScaleBounded(x uint32, a uint8) uint32 {
	u := low(x)*uint32(a) + laneRound
	u = ((u + ((u >> 8) & laneMask)) >> 8) & laneMask

	v := high(x)*uint32(a) + laneRound
	v = (v + ((v >> 8) & laneMask)) & 0xff00ff00

	return u + v
}

// TranslateBounded adds a to each of the four channels of x. The caller
// guarantees no channel overflows.
func TranslateBounded(x uint32, a uint8) uint32 {
	y := uint32(a) | uint32(a)<<8
	y |= y << 16
	return x + y
}

// AddBounded adds x and y channel-wise. The caller guarantees no channel
// overflows, which holds whenever x and y are weighted by complementary
// alphas.
func AddBounded(x, y uint32) uint32 {
	return x + y
}

// MultiplyBounded returns x_i*y_i/255 for every channel.
func MultiplyBounded(x, y uint32) uint32 {
	return Combine(multiplyLow(x, y), multiplyHigh(x, y))
}

// ScaleAddBounded returns x_i*a/255 + y_i for every channel.
func ScaleAddBounded(x uint32, a uint8, y uint32) uint32 {
	return AddBounded(ScaleBounded(x, a), y)
}

// BilinearBounded returns (x_i*a + y_i*b)/255 for every channel. Each
// weighted sum x_i*a + y_i*b must not exceed 255*255, which holds for
// premultiplied pixels weighted by each other's inverse alpha.
func BilinearBounded(x uint32, a uint8, y uint32, b uint8) uint32 {
	u := low(x)*uint32(a) + low(y)*uint32(b) + laneRound
	u = ((u + ((u >> 8) & laneMask)) >> 8) & laneMask

	v := high(x)*uint32(a) + high(y)*uint32(b) + laneRound
	v = (v + ((v >> 8) & laneMask)) & 0xff00ff00

	return u | v
}

// AddSaturated adds x and y channel-wise, clamping each channel at 255.
func AddSaturated(x, y uint32) uint32 {
	u := low(x) + low(y)
	u = (u | (0x01000100 - ((u >> 8) & laneMask))) & laneMask

	v := high(x) + high(y)
	v = (v | (0x01000100 - ((v >> 8) & laneMask))) & laneMask

	return u | (v << 8)
}

// SubtractSaturated subtracts y from x channel-wise, clamping each
// channel at 0.
//
// Each 16-bit lane carries a guard bit at 0x100 so a borrow stays inside
// its own lane; a lane whose guard bit was consumed underflowed and is
// masked to zero.
func SubtractSaturated(x, y uint32) uint32 {
	u := (low(x) | 0x01000100) - low(y)
	u &= ((u >> 8) & 0x00010001) * 0xff

	v := (high(x) | 0x01000100) - high(y)
	v &= ((v >> 8) & 0x00010001) * 0xff

	return u | (v << 8)
}

// DivideBounded un-premultiplies the colour channels of x by alpha a,
// returning x_i*255/a (truncated) with the alpha byte cleared. Channels
// larger than a are not meaningful premultiplied values and wrap.
// a must not be zero.
func DivideBounded(x uint32, a uint8) uint32 {
	d := uint32(a)
	u := ((((x & 0xff0000) << 8) - (x & 0xff0000)) / d) & 0xff0000
	v := ((((x & 0x00ff00) << 8) - (x & 0x00ff00)) / d) & 0x00ff00
	w := ((((x & 0x0000ff) << 8) - (x & 0x0000ff)) / d) & 0x0000ff
	return u | v | w
}

// Inverse returns the bitwise complement of x.
func Inverse(x uint32) uint32 {
	return ^x
}

// Alpha returns the alpha byte of x.
func Alpha(x uint32) uint8 {
	return uint8(x >> 24)
}

// InverseAlpha returns 255 minus the alpha byte of x.
func InverseAlpha(x uint32) uint8 {
	return uint8(^x >> 24)
}

// Opaque returns x with its alpha byte forced to 255.
func Opaque(x uint32) uint32 {
	return x | alphaMask
}
