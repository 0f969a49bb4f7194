package bits

// Reader unpacks LSb-first bit fields from a byte slice.
//
// The first failed read poisons the reader: its position moves past the end
// of the data and every later Read, Look or Adv reports ErrExhausted, so a
// caller can never silently resume on garbage.
type Reader struct {
	buf     []byte
	endbyte int
	endbit  int
	failed  bool
}

// NewReader returns a Reader over data. The slice is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// NewReaderAt returns a Reader over data[offset:offset+length]. An
// out-of-range window yields a poisoned reader.
func NewReaderAt(data []byte, offset, length int) *Reader {
	if offset < 0 || length < 0 || offset > len(data) || length > len(data)-offset {
		r := &Reader{}
		r.poison()
		return r
	}
	return NewReader(data[offset : offset+length])
}

// Reset rewinds the reader to the start of its data and clears the poison.
func (r *Reader) Reset() {
	r.endbyte = 0
	r.endbit = 0
	r.failed = false
}

// Look returns the next bits bits without consuming them. bits must be
// 0-32. Look never poisons the reader.
func (r *Reader) Look(bits int) (uint32, error) {
	if bits < 0 || bits > 32 {
		return 0, ErrInvalidWidth
	}
	if r.failed {
		return 0, ErrExhausted
	}
	m := mask[bits]
	total := bits + r.endbit
	storage := len(r.buf)

	if r.endbyte >= storage-4 {
		// near the end: make sure every byte we touch exists
		if r.endbyte > storage-((total+7)>>3) {
			return 0, ErrExhausted
		}
		if total == 0 {
			return 0, nil
		}
	}

	p := r.buf[r.endbyte:]
	ret := uint32(p[0]) >> r.endbit
	if total > 8 {
		ret |= uint32(p[1]) << (8 - r.endbit)
		if total > 16 {
			ret |= uint32(p[2]) << (16 - r.endbit)
			if total > 24 {
				ret |= uint32(p[3]) << (24 - r.endbit)
				if total > 32 && r.endbit > 0 {
					ret |= uint32(p[4]) << (32 - r.endbit)
				}
			}
		}
	}
	return ret & m, nil
}

// Adv consumes bits bits. Advancing past the end poisons the reader.
func (r *Reader) Adv(bits int) {
	if r.failed {
		return
	}
	if bits < 0 || bits > 32 {
		r.poison()
		return
	}
	total := bits + r.endbit
	if r.endbyte > len(r.buf)-((total+7)>>3) {
		r.poison()
		return
	}
	r.endbyte += total / 8
	r.endbit = total & 7
}

// Read consumes and returns the next bits bits. bits must be 0-32.
// Any failure poisons the reader.
func (r *Reader) Read(bits int) (uint32, error) {
	v, err := r.Look(bits)
	if err != nil {
		r.poison()
		return 0, err
	}
	r.Adv(bits)
	return v, nil
}

// ReadBool reads a single flag bit.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.Read(1)
	return v == 1, err
}

// Align skips to the next byte boundary.
func (r *Reader) Align() {
	if r.endbit != 0 && !r.failed {
		r.Adv(8 - r.endbit)
	}
}

// Bytes returns the number of bytes touched so far, counting a partial
// byte.
func (r *Reader) Bytes() int {
	return r.endbyte + (r.endbit+7)/8
}

// Bits returns the number of bits consumed so far.
func (r *Reader) Bits() int {
	return r.endbyte*8 + r.endbit
}

// Left returns the number of unread bits, or 0 once poisoned.
func (r *Reader) Left() int {
	if r.failed {
		return 0
	}
	return len(r.buf)*8 - r.Bits()
}

// Poison moves the reader into its terminal failed state. Decoders call it
// when the data under the cursor cannot be interpreted.
func (r *Reader) Poison() {
	r.poison()
}

// Failed reports whether the reader has been poisoned.
func (r *Reader) Failed() bool {
	return r.failed
}

func (r *Reader) poison() {
	r.failed = true
	r.endbyte = len(r.buf)
	r.endbit = 1
}
