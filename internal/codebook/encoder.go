package codebook

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/bits"
)

// Encoder is the encode side of a codebook. Like Book it is immutable and
// safe for concurrent use.
type Encoder struct {
	dim     int
	lengths []uint8
	words   []uint32  // dense, LSb-first
	values  []float32 // dense, Entries*Dim; nil without a value mapping
}

// NewEncoder builds the codeword table for s.
func NewEncoder(s *Static) (*Encoder, error) {
	if err := s.checkDim(); err != nil {
		return nil, err
	}
	words, err := MakeWords(s.Lengths, false)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		dim:     s.Dim,
		lengths: s.Lengths,
		words:   words,
		values:  s.Unquantize(s.Entries, nil),
	}, nil
}

// Encode writes the codeword for entry and returns the number of bits
// written. Out-of-range and unused entries write nothing.
func (e *Encoder) Encode(entry int, w *bits.Writer) int {
	if entry < 0 || entry >= len(e.words) {
		return 0
	}
	l := int(e.lengths[entry])
	w.Write(e.words[entry], l)
	return l
}

// Codeword returns the LSb-first codeword and length for entry.
func (e *Encoder) Codeword(entry int) (uint32, int) {
	return e.words[entry], int(e.lengths[entry])
}

// Best returns the used entry whose vector is closest to vec in squared
// error, or -1 if the book has no value mapping.
func (e *Encoder) Best(vec []float32) int {
	if e.values == nil {
		return -1
	}
	best, bestErr := -1, float32(0)
	for i, l := range e.lengths {
		if l == 0 {
			continue
		}
		var d float32
		for k, v := range e.values[i*e.dim : (i+1)*e.dim] {
			if k >= len(vec) {
				break
			}
			diff := v - vec[k]
			d += diff * diff
		}
		if best < 0 || d < bestErr {
			best, bestErr = i, d
		}
	}
	return best
}

// EncodeVector writes the entry nearest to vec and returns it.
func (e *Encoder) EncodeVector(vec []float32, w *bits.Writer) (int, error) {
	entry := e.Best(vec)
	if entry < 0 {
		return -1, errors.Wrap(ErrNoValues, "codebook: encode vector")
	}
	e.Encode(entry, w)
	return entry, nil
}
