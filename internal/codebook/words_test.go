package codebook

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakeWords_CanonicalAssignment(t *testing.T) {
	// Natural codes 00, 01, 10, 110, 111, then reversed within their length.
	lengths := []uint8{2, 2, 2, 3, 3}
	want := []uint32{0x0, 0x2, 0x1, 0x3, 0x7}

	for i := 0; i < 3; i++ {
		got, err := MakeWords(lengths, false)
		if err != nil {
			t.Fatalf("MakeWords: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("run %d: words mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestMakeWords_Sparse(t *testing.T) {
	lengths := []uint8{0, 1, 0, 2, 2}

	dense, err := MakeWords(lengths, false)
	if err != nil {
		t.Fatalf("dense: %v", err)
	}
	if diff := cmp.Diff([]uint32{0, 0, 0, 1, 3}, dense); diff != "" {
		t.Errorf("dense mismatch (-want +got):\n%s", diff)
	}

	sparse, err := MakeWords(lengths, true)
	if err != nil {
		t.Fatalf("sparse: %v", err)
	}
	if diff := cmp.Diff([]uint32{0, 1, 3}, sparse); diff != "" {
		t.Errorf("sparse mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeWords_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		lengths []uint8
		want    error
	}{
		{"three length-1 codes", []uint8{1, 1, 1}, ErrOverpopulated},
		{"too many short codes", []uint8{2, 2, 2, 2, 2}, ErrOverpopulated},
		{"gap at depth 2", []uint8{2, 2, 2}, ErrUnderpopulated},
		{"lone length-2 code", []uint8{2}, ErrUnderpopulated},
		{"two entries, one short", []uint8{1, 2}, ErrUnderpopulated},
		{"length over 32", []uint8{33, 1}, ErrBadLengths},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MakeWords(tt.lengths, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMakeWords_SingleEntry(t *testing.T) {
	for _, lengths := range [][]uint8{{1}, {0, 1, 0}} {
		words, err := MakeWords(lengths, true)
		if err != nil {
			t.Fatalf("%v: %v", lengths, err)
		}
		if len(words) != 1 || words[0] != 0 {
			t.Errorf("%v: words = %v, want [0]", lengths, words)
		}
	}
}

func TestMakeWords_PrefixFree(t *testing.T) {
	lengths := skewedLengths(24)
	words, err := MakeWords(lengths, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := range words {
		for j := range words {
			if i == j || lengths[i] > lengths[j] {
				continue
			}
			// LSb-first: a prefix shares the low bits.
			m := uint32(1)<<lengths[i] - 1
			if words[j]&m == words[i] {
				t.Fatalf("word %d (len %d) is a prefix of word %d (len %d)", i, lengths[i], j, lengths[j])
			}
		}
	}
}

// skewedLengths returns the Kraft-complete list 1, 2, ..., n-1, n-1.
func skewedLengths(n int) []uint8 {
	out := make([]uint8, 0, n)
	for l := 1; l < n; l++ {
		out = append(out, uint8(l))
	}
	return append(out, uint8(n-1))
}

// balancedLengths returns a complete tree with n leaves, all at depth d or d+1.
func balancedLengths(n int) []uint8 {
	d := ilog(uint32(n)) - 1
	deep := 2 * (n - 1<<d)
	out := make([]uint8, 0, n)
	for i := 0; i < n-deep; i++ {
		out = append(out, uint8(d))
	}
	for i := 0; i < deep; i++ {
		out = append(out, uint8(d+1))
	}
	return out
}
