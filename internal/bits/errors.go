package bits

import "errors"

var (
	// ErrExhausted indicates a read past the end of the available data.
	// The reader is poisoned and every later read reports the same error.
	ErrExhausted = errors.New("bits: data exhausted")

	// ErrInvalidWidth indicates a field width outside [0, 32].
	ErrInvalidWidth = errors.New("bits: invalid field width")
)

// mask[n] keeps the low n bits of a 32-bit word.
var mask = [33]uint32{
	0x00000000, 0x00000001, 0x00000003, 0x00000007,
	0x0000000f, 0x0000001f, 0x0000003f, 0x0000007f,
	0x000000ff, 0x000001ff, 0x000003ff, 0x000007ff,
	0x00000fff, 0x00001fff, 0x00003fff, 0x00007fff,
	0x0000ffff, 0x0001ffff, 0x0003ffff, 0x0007ffff,
	0x000fffff, 0x001fffff, 0x003fffff, 0x007fffff,
	0x00ffffff, 0x01ffffff, 0x03ffffff, 0x07ffffff,
	0x0fffffff, 0x1fffffff, 0x3fffffff, 0x7fffffff,
	0xffffffff,
}

// Mask returns the low n bits of v. n must be 0-32.
func Mask(v uint32, n int) uint32 {
	return v & mask[n]
}
