// Package codebook implements the entropy-coding codebooks: canonical
// prefix codes built from a codeword length table, their header wire format,
// vector-quantization value tables, and table-accelerated decoding.
package codebook

import (
	mbits "math/bits"

	"github.com/samber/lo"
)

// MaxLength is the longest codeword length the format allows.
const MaxLength = 32

// ilog returns the number of significant bits in v; ilog(0) == 0.
func ilog(v uint32) int {
	return mbits.Len32(v)
}

// bitReverse reverses all 32 bits of x.
func bitReverse(x uint32) uint32 {
	return mbits.Reverse32(x)
}

// MakeWords assigns canonical codewords to a length table, lowest value
// first. A length of 0 marks an unused entry.
//
// The returned words are bit-reversed within their own length so they can be
// written directly with the LSb-first packer. With sparse set, unused
// entries are dropped from the result; otherwise they hold 0.
//
// Assignment walks an implicit binary tree using one marker per depth: the
// marker at depth d is the next free codeword of length d. Claiming a node
// advances the markers above it (carrying into shallower depths when a
// subtree is used up) and re-hangs the deeper markers below the next free
// node.
func MakeWords(lengths []uint8, sparse bool) ([]uint32, error) {
	used := lo.CountBy(lengths, func(l uint8) bool { return l > 0 })

	var marker [MaxLength + 1]uint32
	out := make([]uint32, 0, len(lengths))

	for _, l := range lengths {
		length := int(l)
		if length == 0 {
			if !sparse {
				out = append(out, 0)
			}
			continue
		}
		if length > MaxLength {
			return nil, ErrBadLengths
		}

		entry := marker[length]
		if length < MaxLength && entry>>length != 0 {
			return nil, ErrOverpopulated
		}
		out = append(out, entry)

		for j := length; j > 0; j-- {
			if marker[j]&1 != 0 {
				if j == 1 {
					marker[1]++
				} else {
					marker[j] = marker[j-1] << 1
				}
				break
			}
			marker[j]++
		}

		for j := length + 1; j <= MaxLength; j++ {
			if marker[j]>>1 != entry {
				break
			}
			entry = marker[j]
			marker[j] = marker[j-1] << 1
		}
	}

	// A single codeword of length 1 leaves the tree half empty on purpose.
	if !(used == 1 && marker[2] == 2) {
		for i := 1; i <= MaxLength; i++ {
			if marker[i]&(0xFFFFFFFF>>(32-i)) != 0 {
				return nil, ErrUnderpopulated
			}
		}
	}

	k := 0
	for _, l := range lengths {
		if l == 0 {
			if !sparse {
				k++
			}
			continue
		}
		out[k] = bitReverse(out[k]) >> (32 - uint(l))
		k++
	}
	return out, nil
}
