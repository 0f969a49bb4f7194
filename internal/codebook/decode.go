package codebook

import "github.com/llehouerou/go-vorbis/internal/bits"

// decodePacked returns the sorted position of the next codeword.
func (b *Book) decodePacked(r *bits.Reader) (int, error) {
	lo, hi := 0, b.usedEntries

	if lok, err := r.Look(b.firstTableLen); err == nil {
		entry := b.firstTable[lok]
		if entry&hintFlag == 0 {
			r.Adv(int(b.decLengths[entry-1]))
			return int(entry - 1), nil
		}
		lo = int(entry>>15) & 0x7FFF
		hi = b.usedEntries - int(entry&0x7FFF)
	}

	// Fewer than maxLength bits may remain at the end of a packet; shorten
	// the peek until it fits and let the length check below decide.
	read := b.maxLength
	lok, err := r.Look(read)
	for err != nil && read > 1 {
		read--
		lok, err = r.Look(read)
	}
	if err != nil {
		r.Poison()
		return -1, err
	}

	testword := bitReverse(lok)
	for hi-lo > 1 {
		p := (hi - lo) >> 1
		if b.codeList[lo+p] > testword {
			hi -= p
		} else {
			lo += p
		}
	}

	if l := int(b.decLengths[lo]); l <= read {
		r.Adv(l)
		return lo, nil
	}
	r.Poison()
	return -1, ErrNotFound
}

// Decode reads one codeword and returns its original entry number.
// On failure the reader is poisoned and the error is bits.ErrExhausted or
// ErrNotFound.
func (b *Book) Decode(r *bits.Reader) (int, error) {
	if b.usedEntries == 0 {
		r.Poison()
		return -1, ErrNotFound
	}
	p, err := b.decodePacked(r)
	if err != nil {
		return -1, err
	}
	return b.decIndex[p], nil
}

func (b *Book) vector(p int) []float32 {
	return b.values[p*b.dim : (p+1)*b.dim]
}

// DecodeVSet decodes vectors into dst, overwriting it. A final vector that
// does not fit is truncated. A book without used entries zeroes dst.
func (b *Book) DecodeVSet(dst []float32, r *bits.Reader) error {
	if b.usedEntries == 0 {
		clear(dst)
		return nil
	}
	if b.values == nil {
		return ErrNoValues
	}
	for i := 0; i < len(dst); {
		p, err := b.decodePacked(r)
		if err != nil {
			return err
		}
		for _, v := range b.vector(p) {
			if i >= len(dst) {
				break
			}
			dst[i] = v
			i++
		}
	}
	return nil
}

// DecodeVAdd decodes vectors and adds them to dst in order.
func (b *Book) DecodeVAdd(dst []float32, r *bits.Reader) error {
	if b.usedEntries == 0 {
		return nil
	}
	if b.values == nil {
		return ErrNoValues
	}
	for i := 0; i < len(dst); {
		p, err := b.decodePacked(r)
		if err != nil {
			return err
		}
		for _, v := range b.vector(p) {
			if i >= len(dst) {
				break
			}
			dst[i] += v
			i++
		}
	}
	return nil
}

// DecodeVSAdd decodes len(dst)/Dim vectors and adds them to dst with a
// stride: element k of vector j lands at k*step + j.
func (b *Book) DecodeVSAdd(dst []float32, r *bits.Reader) error {
	if b.usedEntries == 0 {
		return nil
	}
	if b.values == nil {
		return ErrNoValues
	}
	n := len(dst)
	step := n / b.dim
	vecs := make([][]float32, step)
	for j := range vecs {
		p, err := b.decodePacked(r)
		if err != nil {
			return err
		}
		vecs[j] = b.vector(p)
	}
	for i, o := 0, 0; i < b.dim; i, o = i+1, o+step {
		for j := 0; j < step && o+j < n; j++ {
			dst[o+j] += vecs[j][i]
		}
	}
	return nil
}

// DecodeVVAdd decodes vectors whose elements are interleaved across the
// channels of dst and adds them in, covering interleaved positions
// [offset, offset+n). Position p belongs to channel p%ch, sample p/ch; the
// walk starts at channel 0 of sample offset/ch. With no channels nothing is
// read.
func (b *Book) DecodeVVAdd(dst [][]float32, offset, n int, r *bits.Reader) error {
	if b.usedEntries == 0 || len(dst) == 0 {
		return nil
	}
	if b.values == nil {
		return ErrNoValues
	}
	ch := len(dst)
	chptr := 0
	m := (offset + n) / ch
	for i := offset / ch; i < m; {
		p, err := b.decodePacked(r)
		if err != nil {
			return err
		}
		for _, v := range b.vector(p) {
			if i >= m {
				break
			}
			dst[chptr][i] += v
			chptr++
			if chptr == ch {
				chptr = 0
				i++
			}
		}
	}
	return nil
}
