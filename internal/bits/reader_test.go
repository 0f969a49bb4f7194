package bits

import "testing"

func TestRoundTrip_AllWidths(t *testing.T) {
	values := []uint32{0, 1, 0x5A5A5A5A, 0xFFFFFFFF, 0x80000001, 0x12345678}
	for b := 0; b <= 32; b++ {
		w := NewWriter()
		w.Write(1, 1) // force an unaligned start
		for _, v := range values {
			w.Write(v, b)
		}
		r := NewReader(w.Data())
		if _, err := r.Read(1); err != nil {
			t.Fatalf("width %d: lead bit: %v", b, err)
		}
		for _, v := range values {
			got, err := r.Read(b)
			if err != nil {
				t.Fatalf("width %d: %v", b, err)
			}
			if want := Mask(v, b); got != want {
				t.Errorf("width %d: read %#x, want %#x", b, got, want)
			}
		}
	}
}

func TestRead_SpecExample(t *testing.T) {
	w := NewWriter()
	w.Write(0b101, 3)
	r := NewReader(w.Data())
	v, err := r.Read(3)
	if err != nil || v != 5 {
		t.Errorf("Read(3) = %d, %v; want 5", v, err)
	}
}

func TestLook_Idempotent(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}
	for _, n := range []int{1, 5, 8, 13, 24, 32} {
		r := NewReader(data)
		r.Adv(3)
		a, err1 := r.Look(n)
		b, err2 := r.Look(n)
		if err1 != nil || err2 != nil {
			t.Fatalf("Look(%d): %v %v", n, err1, err2)
		}
		if a != b {
			t.Errorf("Look(%d) not idempotent: %#x then %#x", n, a, b)
		}
		before := r.Bits()
		c, err := r.Read(n)
		if err != nil || c != a {
			t.Errorf("Read(%d) = %#x, %v; want %#x", n, c, err, a)
		}
		if r.Bits()-before != n {
			t.Errorf("Read(%d) advanced %d bits", n, r.Bits()-before)
		}
	}
}

func TestRead_ExhaustionPoisons(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x01})
	if _, err := r.Read(12); err != nil {
		t.Fatalf("Read(12): %v", err)
	}
	if _, err := r.Read(8); err != ErrExhausted {
		t.Fatalf("Read past end: err = %v, want ErrExhausted", err)
	}
	if !r.Failed() {
		t.Error("reader should be poisoned")
	}
	// Everything afterwards fails, including a zero-width read.
	for _, n := range []int{0, 1, 4} {
		if _, err := r.Read(n); err != ErrExhausted {
			t.Errorf("Read(%d) after poison: err = %v", n, err)
		}
	}
	if r.Left() != 0 {
		t.Errorf("Left() = %d on poisoned reader", r.Left())
	}
}

func TestRead_ZeroBitsAtEnd(t *testing.T) {
	r := NewReader([]byte{0xAA})
	if _, err := r.Read(8); err != nil {
		t.Fatal(err)
	}
	v, err := r.Read(0)
	if err != nil || v != 0 {
		t.Errorf("Read(0) at end = %d, %v; want 0, nil", v, err)
	}
	if r.Failed() {
		t.Error("zero-width read at end must not poison")
	}

	empty := NewReader(nil)
	if v, err := empty.Read(0); err != nil || v != 0 {
		t.Errorf("Read(0) on empty = %d, %v", v, err)
	}
}

func TestRead_InvalidWidth(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5, 6})
	if _, err := r.Read(33); err != ErrInvalidWidth {
		t.Errorf("Read(33) err = %v, want ErrInvalidWidth", err)
	}
	if !r.Failed() {
		t.Error("invalid width should poison the reader")
	}
}

func TestLook_DoesNotPoison(t *testing.T) {
	r := NewReader([]byte{0x0F})
	if _, err := r.Look(16); err != ErrExhausted {
		t.Fatalf("Look(16) err = %v", err)
	}
	if r.Failed() {
		t.Fatal("Look must not poison")
	}
	v, err := r.Look(4)
	if err != nil || v != 0xF {
		t.Errorf("Look(4) = %#x, %v", v, err)
	}
}

func TestAdv_PastEndPoisons(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00})
	r.Adv(10)
	if r.Failed() {
		t.Fatal("Adv(10) inside data poisoned reader")
	}
	r.Adv(7)
	if !r.Failed() {
		t.Error("Adv past end should poison")
	}
}

func TestNewReaderAt(t *testing.T) {
	data := []byte{0x00, 0xA5, 0xFF}
	r := NewReaderAt(data, 1, 1)
	v, err := r.Read(8)
	if err != nil || v != 0xA5 {
		t.Errorf("Read(8) = %#x, %v; want 0xa5", v, err)
	}
	if _, err := r.Read(1); err != ErrExhausted {
		t.Errorf("window should end after one byte, err = %v", err)
	}

	bad := NewReaderAt(data, 2, 5)
	if !bad.Failed() {
		t.Error("out-of-range window should be poisoned")
	}
}

func TestReader_AlignAndReset(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x81})
	r.Adv(3)
	r.Align()
	if r.Bits() != 8 {
		t.Fatalf("Bits() after Align = %d", r.Bits())
	}
	v, _ := r.Read(8)
	if v != 0x81 {
		t.Errorf("Read(8) after Align = %#x", v)
	}
	_, _ = r.Read(8) // poison
	r.Reset()
	if r.Failed() || r.Bits() != 0 {
		t.Error("Reset should clear the poison and rewind")
	}
	if r.Bytes() != 0 {
		t.Errorf("Bytes() = %d after Reset", r.Bytes())
	}
}
