package bits

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriter_LSbFirstLayout(t *testing.T) {
	w := NewWriter()
	w.Write(0x5, 3)  // 101
	w.Write(0x1, 1)  // 1
	w.Write(0xAB, 8) // spans bytes 0 and 1
	w.Write(0x3, 2)

	// byte0: bits 0-2 = 101, bit 3 = 1, bits 4-7 = low nibble of 0xAB (1011)
	// byte1: bits 0-3 = high nibble of 0xAB (1010), bits 4-5 = 11
	want := []byte{0xBD, 0x3A}
	if diff := cmp.Diff(want, w.Data()); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
	if w.Bits() != 14 {
		t.Errorf("Bits() = %d, want 14", w.Bits())
	}
	if w.Bytes() != 2 {
		t.Errorf("Bytes() = %d, want 2", w.Bytes())
	}
}

func TestWriter_Unaligned32BitSpillsIntoFifthByte(t *testing.T) {
	w := NewWriter()
	w.Write(1, 1)
	w.Write(0xFFFFFFFF, 32)

	want := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	if diff := cmp.Diff(want, w.Data()); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_MasksValue(t *testing.T) {
	w := NewWriter()
	w.Write(0xFF, 4)
	w.Write(0, 4)
	if got := w.Data(); len(got) != 1 || got[0] != 0x0F {
		t.Errorf("Data() = %x, want 0f", got)
	}
}

func TestWriter_GrowsPastIncrement(t *testing.T) {
	w := NewWriter()
	const words = BufferIncrement // 4 bytes each: four increments worth
	for i := 0; i < words; i++ {
		w.Write(uint32(i)*0x01010101, 32)
	}
	if w.Bytes() != words*4 {
		t.Fatalf("Bytes() = %d, want %d", w.Bytes(), words*4)
	}
	r := NewReader(w.Data())
	for i := 0; i < words; i++ {
		v, err := r.Read(32)
		if err != nil {
			t.Fatalf("word %d: %v", i, err)
		}
		if v != uint32(i)*0x01010101 {
			t.Fatalf("word %d = %#x, want %#x", i, v, uint32(i)*0x01010101)
		}
	}
}

func TestWriter_InvalidWidthFails(t *testing.T) {
	w := NewWriter()
	w.Write(1, 8)
	w.Write(1, 33)
	if w.Err() == nil {
		t.Fatal("expected writer to fail on 33-bit write")
	}
	w.Write(1, 8) // ignored
	if w.Bits() != 0 || w.Data() != nil {
		t.Errorf("failed writer should be empty, got %d bits", w.Bits())
	}
}

func TestWriter_Align(t *testing.T) {
	w := NewWriter()
	w.Write(1, 3)
	w.Align()
	if w.Bits() != 8 {
		t.Errorf("Bits() after Align = %d, want 8", w.Bits())
	}
	w.Align()
	if w.Bits() != 8 {
		t.Errorf("Align on a boundary moved to %d bits", w.Bits())
	}
}

func TestWriter_Truncate(t *testing.T) {
	w := NewWriter()
	w.Write(0xFFFF, 16)
	w.Truncate(5)
	if w.Bits() != 5 {
		t.Fatalf("Bits() = %d, want 5", w.Bits())
	}
	w.Write(0, 3)
	if diff := cmp.Diff([]byte{0x1F}, w.Data()); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_Reset(t *testing.T) {
	w := NewWriter()
	w.Write(0xFF, 8)
	w.Write(0x3, 2)
	w.Reset()
	if w.Bits() != 0 {
		t.Fatalf("Bits() after Reset = %d", w.Bits())
	}
	w.Write(0x1, 2)
	if diff := cmp.Diff([]byte{0x01}, w.Data()); diff != "" {
		t.Errorf("stale bits after Reset (-want +got):\n%s", diff)
	}
}

func TestWriter_WriteCopy(t *testing.T) {
	src := NewWriter()
	src.Write(0x2D5, 10)
	src.Write(0x7, 3)

	for _, lead := range []int{0, 3} {
		w := NewWriter()
		w.Write(0, lead)
		w.WriteCopy(src.Data(), src.Bits())
		if w.Bits() != lead+13 {
			t.Fatalf("lead %d: Bits() = %d, want %d", lead, w.Bits(), lead+13)
		}
		r := NewReader(w.Data())
		r.Adv(lead)
		a, _ := r.Read(10)
		b, err := r.Read(3)
		if err != nil || a != 0x2D5 || b != 0x7 {
			t.Errorf("lead %d: read back %#x %#x (%v)", lead, a, b, err)
		}
	}
}
