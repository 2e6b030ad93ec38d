package packed

// Scalar helpers used by the advanced blend modes, which work on unpacked
// channels with 16-bit intermediates.

// SaturatedAdd adds two bytes, clamping at 255.
func SaturatedAdd(a, b uint8) uint8 {
	if uint16(a)+uint16(b) > 255 {
		return 255
	}
	return a + b
}

// Invert returns 255 - a.
func Invert(a uint8) uint8 {
	return 255 - a
}

// Upscale8 widens a to the 255*255 scale: a*255.
func Upscale8(a uint8) uint16 {
	return uint16(a)<<8 - uint16(a)
}

// Upscale16 widens a 255*255-scale value once more: a*255.
func Upscale16(a uint16) uint32 {
	return uint32(a)<<8 - uint32(a)
}

// Downscale narrows a 255*255-scale value back to a byte, rounding half
// up. Inputs above 255*255 are outside the contract and wrap.
func Downscale(a uint16) uint8 {
	t := uint32(a) + 0x80
	return uint8((t + (t >> 8)) >> 8)
}

// ScaledDivide returns n*s/d, or 0 when d is 0.
func ScaledDivide(n uint16, s, d uint8) uint16 {
	if d == 0 {
		return 0
	}
	return uint16(uint32(n) * uint32(s) / uint32(d))
}

// LongScaledDivide returns n*s/d with a 32-bit numerator, or 0 when d is 0.
// The product wraps at 32 bits.
func LongScaledDivide(n uint32, s uint8, d uint16) uint16 {
	if d == 0 {
		return 0
	}
	return uint16(n * uint32(s) / uint32(d))
}

// Sqrt returns floor(sqrt(n)). For n in the 255*255 scale the result is a
// channel value in [0, 255].
func Sqrt(n uint16) uint8 {
	// Classic bit-by-bit integer root; 8 iterations for a 16-bit input.
	x := uint32(n)
	var r uint32
	for bit := uint32(1) << 14; bit != 0; bit >>= 2 {
		if x >= r+bit {
			x -= r + bit
			r = r>>1 + bit
		} else {
			r >>= 1
		}
	}
	return uint8(r)
}

// Min returns the smaller of a and b.
func Min[T ~uint8 | ~uint16 | ~uint32](a, b T) T {
	if a > b {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max[T ~uint8 | ~uint16 | ~uint32](a, b T) T {
	if a < b {
		return b
	}
	return a
}
