package codebook

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/llehouerou/go-vorbis/internal/bits"
)

func packStatic(t *testing.T, s *Static) []byte {
	t.Helper()
	w := bits.NewWriter()
	if err := s.Pack(w); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	return w.Data()
}

func TestStatic_PackUnpack(t *testing.T) {
	tests := []struct {
		name string
		s    *Static
	}{
		{
			name: "ordered",
			s:    &Static{Dim: 1, Entries: 5, Lengths: []uint8{2, 2, 2, 3, 3}},
		},
		{
			name: "ordered with skipped length",
			s:    &Static{Dim: 1, Entries: 5, Lengths: []uint8{1, 3, 3, 3, 3}},
		},
		{
			name: "unordered",
			s:    &Static{Dim: 1, Entries: 5, Lengths: []uint8{3, 3, 2, 2, 2}},
		},
		{
			name: "sparse",
			s:    &Static{Dim: 1, Entries: 5, Lengths: []uint8{0, 1, 0, 2, 2}},
		},
		{
			name: "lattice",
			s: &Static{
				Dim: 2, Entries: 9,
				Lengths:   []uint8{3, 3, 3, 3, 3, 3, 3, 4, 4},
				MapType:   MapLattice,
				QMin:      PackFloat(-1),
				QDelta:    PackFloat(1),
				QQuant:    2,
				QuantList: []uint32{0, 1, 2},
			},
		},
		{
			name: "list with sequence",
			s: &Static{
				Dim: 2, Entries: 4,
				Lengths:   []uint8{2, 2, 2, 2},
				MapType:   MapList,
				QMin:      PackFloat(-3.5),
				QDelta:    PackFloat(0.25),
				QQuant:    3,
				QSequence: true,
				QuantList: []uint32{0, 7, 1, 6, 2, 5, 3, 4},
			},
		},
		{
			name: "long skewed lengths",
			s:    &Static{Dim: 1, Entries: 24, Lengths: skewedLengths(24)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := packStatic(t, tt.s)
			got, err := Unpack(bits.NewReader(data))
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if diff := cmp.Diff(tt.s, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnpack_Truncated(t *testing.T) {
	s := &Static{
		Dim: 2, Entries: 9,
		Lengths:   []uint8{3, 3, 3, 3, 0, 3, 3, 3, 3},
		MapType:   MapLattice,
		QMin:      PackFloat(-1),
		QDelta:    PackFloat(1),
		QQuant:    2,
		QuantList: []uint32{0, 1, 2},
	}
	data := packStatic(t, s)
	for n := 0; n < len(data); n++ {
		r := bits.NewReader(data[:n])
		if _, err := Unpack(r); err == nil {
			t.Errorf("Unpack of %d/%d bytes succeeded", n, len(data))
		}
	}
}

func TestUnpack_BadMagic(t *testing.T) {
	w := bits.NewWriter()
	w.Write(0x123456, 24)
	w.Write(0, 32)
	_, err := Unpack(bits.NewReader(w.Data()))
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
}

func TestUnpack_TooLarge(t *testing.T) {
	w := bits.NewWriter()
	w.Write(Magic, 24)
	w.Write(0xFFFF, 16)
	w.Write(0x1FF, 24)
	w.Write(0, 32)
	_, err := Unpack(bits.NewReader(w.Data()))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestUnpack_OrderedRunOverflow(t *testing.T) {
	w := bits.NewWriter()
	w.Write(Magic, 24)
	w.Write(1, 16)
	w.Write(4, 24)
	w.Write(1, 1) // ordered
	w.Write(0, 5) // first length 1
	w.Write(5, 3) // run longer than the book
	w.Write(0, 32)
	_, err := Unpack(bits.NewReader(w.Data()))
	if !errors.Is(err, ErrBadLengths) {
		t.Errorf("err = %v, want ErrBadLengths", err)
	}
}

func TestUnpack_BadMapType(t *testing.T) {
	w := bits.NewWriter()
	w.Write(Magic, 24)
	w.Write(1, 16)
	w.Write(2, 24)
	w.Write(1, 1) // ordered
	w.Write(0, 5) // length 1
	w.Write(2, 2) // both entries
	w.Write(3, 4) // map type
	w.Write(0, 32)
	_, err := Unpack(bits.NewReader(w.Data()))
	if !errors.Is(err, ErrBadMapType) {
		t.Errorf("err = %v, want ErrBadMapType", err)
	}
}

func TestUnpack_ZeroDimension(t *testing.T) {
	data := packStatic(t, &Static{
		Dim:     0,
		Entries: 2,
		Lengths: []uint8{1, 1},
		MapType: MapLattice,
		QMin:    PackFloat(-1),
		QDelta:  PackFloat(1),
		QQuant:  1,
	})
	_, err := Unpack(bits.NewReader(data))
	if !errors.Is(err, ErrBadDimension) {
		t.Errorf("err = %v, want ErrBadDimension", err)
	}
}

func TestPack_Rejects(t *testing.T) {
	tests := []struct {
		name string
		s    *Static
		want error
	}{
		{"length count", &Static{Dim: 1, Entries: 3, Lengths: []uint8{1, 1}}, ErrBadLengths},
		{"map type", &Static{Dim: 1, Entries: 2, Lengths: []uint8{1, 1}, MapType: 5}, ErrBadMapType},
		{
			"short quant list",
			&Static{Dim: 1, Entries: 2, Lengths: []uint8{1, 1}, MapType: MapList, QQuant: 1, QuantList: []uint32{1}},
			ErrNoQuantList,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Pack(bits.NewWriter())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
