// Package bits implements the LSb-first bit packer shared by every layer of
// the codec: headers, codebooks and audio packets.
//
// Fields of up to 32 bits are packed least-significant bit first, filling
// each byte from bit 0 upward before moving to the next byte.
package bits

// BufferIncrement is the number of bytes a Writer grows by when a write
// would run past its current storage.
const BufferIncrement = 256

// Writer packs bit fields into a growable byte buffer.
//
// A Writer that receives an invalid request enters a failed state: the
// buffer is released and all further writes are ignored. Err reports it.
type Writer struct {
	buf     []byte
	endbyte int  // committed whole bytes
	endbit  int  // bits used in buf[endbyte], 0-7
	failed  bool // terminal
}

// NewWriter returns an empty Writer with BufferIncrement bytes of storage.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, BufferIncrement)}
}

// Write appends the low bits of value. bits must be 0-32.
//
// Multi-byte fields are assembled one output byte at a time as the running
// bit count crosses the 8, 16, 24 and 32 bit boundaries; an unaligned 32-bit
// field spills into a fifth byte.
func (w *Writer) Write(value uint32, bits int) {
	if w.failed {
		return
	}
	if bits < 0 || bits > 32 {
		w.fail()
		return
	}
	if w.endbyte >= len(w.buf)-4 {
		w.grow(BufferIncrement)
	}

	value &= mask[bits]
	total := bits + w.endbit
	p := w.buf[w.endbyte:]

	p[0] |= byte(value << w.endbit)
	if total >= 8 {
		p[1] = byte(value >> (8 - w.endbit))
		if total >= 16 {
			p[2] = byte(value >> (16 - w.endbit))
			if total >= 24 {
				p[3] = byte(value >> (24 - w.endbit))
				if total >= 32 {
					if w.endbit > 0 {
						p[4] = byte(value >> (32 - w.endbit))
					} else {
						p[4] = 0
					}
				}
			}
		}
	}

	w.endbyte += total / 8
	w.endbit = total & 7
}

// WriteBool writes a single flag bit.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.Write(1, 1)
	} else {
		w.Write(0, 1)
	}
}

// Align pads with zero bits up to the next byte boundary.
func (w *Writer) Align() {
	if pad := 8 - w.endbit; pad < 8 {
		w.Write(0, pad)
	}
}

// WriteCopy appends the first bits bits of src, read LSb-first.
func (w *Writer) WriteCopy(src []byte, bits int) {
	if w.failed {
		return
	}
	if bits < 0 || (bits+7)/8 > len(src) {
		w.fail()
		return
	}
	whole := bits / 8
	rest := bits - whole*8

	need := w.endbyte + (w.endbit+bits)/8 + 5
	if need > len(w.buf) {
		w.grow(need - len(w.buf) + BufferIncrement)
	}

	if w.endbit != 0 {
		for i := 0; i < whole; i++ {
			w.Write(uint32(src[i]), 8)
		}
	} else {
		copy(w.buf[w.endbyte:], src[:whole])
		w.endbyte += whole
		w.buf[w.endbyte] = 0
	}
	if rest > 0 {
		w.Write(uint32(src[whole]), rest)
	}
}

// Truncate discards everything after the first bits bits.
func (w *Writer) Truncate(bits int) {
	if w.failed || bits < 0 || bits > w.Bits() {
		return
	}
	bytes := bits >> 3
	bits -= bytes * 8
	w.endbyte = bytes
	w.endbit = bits
	w.buf[bytes] &= byte(mask[bits])
}

// Reset empties the writer while keeping its storage.
func (w *Writer) Reset() {
	if w.failed {
		return
	}
	w.buf[0] = 0
	w.endbyte = 0
	w.endbit = 0
}

// Bytes returns the number of bytes touched so far, counting a partial
// trailing byte.
func (w *Writer) Bytes() int {
	return w.endbyte + (w.endbit+7)/8
}

// Bits returns the number of bits written so far.
func (w *Writer) Bits() int {
	return w.endbyte*8 + w.endbit
}

// Data returns the packed bytes. The slice aliases the writer's storage and
// is only valid until the next write.
func (w *Writer) Data() []byte {
	if w.failed {
		return nil
	}
	return w.buf[:w.Bytes()]
}

// Err returns ErrInvalidWidth once the writer has failed.
func (w *Writer) Err() error {
	if w.failed {
		return ErrInvalidWidth
	}
	return nil
}

func (w *Writer) grow(by int) {
	grown := make([]byte, len(w.buf)+by)
	copy(grown, w.buf)
	w.buf = grown
}

func (w *Writer) fail() {
	w.buf = nil
	w.endbyte = 0
	w.endbit = 0
	w.failed = true
}
