// Package spectral holds stand-in coders for the per-channel MDCT spectra
// of one block. They are not the format's floor and residue stages; they
// exist so a full encode/decode pipeline can run without them.
package spectral

import (
	"math"

	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/bits"
	"github.com/llehouerou/go-vorbis/internal/codebook"
)

// ErrNoBook indicates a VQ coder built without a value-mapped codebook.
var ErrNoBook = errors.New("spectral: codebook has no values")

// Raw writes every coefficient as a packed VQ float, 32 bits each. It keeps
// 21 bits of mantissa, which is transparent for 16-bit audio.
type Raw struct{}

// Encode writes freq.
func (Raw) Encode(w *bits.Writer, freq [][]float32) error {
	for _, ch := range freq {
		for _, v := range ch {
			w.Write(codebook.PackFloat(float64(v)), 32)
		}
	}
	return w.Err()
}

// Decode fills freq, whose lengths must match those encoded.
func (Raw) Decode(r *bits.Reader, freq [][]float32) error {
	for _, ch := range freq {
		for i := range ch {
			v, err := r.Read(32)
			if err != nil {
				return err
			}
			ch[i] = codebook.UnpackFloat(v)
		}
	}
	return nil
}

// VQ codes each channel as a packed peak gain followed by the normalized
// spectrum split into codebook vectors. Silent channels carry only the
// gain.
type VQ struct {
	enc  *codebook.Encoder
	book *codebook.Book
	dim  int
}

// NewVQ builds a coder around a value-mapped codebook.
func NewVQ(s *codebook.Static) (*VQ, error) {
	if s.MapType == codebook.MapNone {
		return nil, ErrNoBook
	}
	enc, err := codebook.NewEncoder(s)
	if err != nil {
		return nil, err
	}
	book, err := codebook.NewBook(s)
	if err != nil {
		return nil, err
	}
	return &VQ{enc: enc, book: book, dim: s.Dim}, nil
}

// Encode writes freq.
func (q *VQ) Encode(w *bits.Writer, freq [][]float32) error {
	vec := make([]float32, q.dim)
	for _, ch := range freq {
		var peak float64
		for _, v := range ch {
			peak = math.Max(peak, math.Abs(float64(v)))
		}
		gain := codebook.PackFloat(peak)
		w.Write(gain, 32)
		if peak == 0 {
			continue
		}
		scale := 1 / codebook.UnpackFloat(gain)
		for i := 0; i < len(ch); i += q.dim {
			clear(vec)
			for k := range vec {
				if i+k < len(ch) {
					vec[k] = ch[i+k] * scale
				}
			}
			if _, err := q.enc.EncodeVector(vec, w); err != nil {
				return err
			}
		}
	}
	return w.Err()
}

// Decode fills freq, whose lengths must match those encoded.
func (q *VQ) Decode(r *bits.Reader, freq [][]float32) error {
	for _, ch := range freq {
		v, err := r.Read(32)
		if err != nil {
			return err
		}
		gain := codebook.UnpackFloat(v)
		if gain == 0 {
			clear(ch)
			continue
		}
		if err := q.book.DecodeVSet(ch, r); err != nil {
			return errors.Wrap(err, "spectral: decode vectors")
		}
		for i := range ch {
			ch[i] *= gain
		}
	}
	return nil
}
