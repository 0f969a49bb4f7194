package codebook

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/bits"
)

// Magic is the 24-bit sync pattern that opens every codebook header.
const Magic = 0x564342

// MapType selects how entries map to vectors of values.
type MapType uint8

// Value mapping types.
const (
	MapNone    MapType = 0 // entry numbers only, no vectors
	MapLattice MapType = 1 // values generated from a per-dimension lattice
	MapList    MapType = 2 // every value listed explicitly
)

// Static is a codebook as carried in the stream header: the codeword length
// table and the quantized value description. It is the input to NewBook and
// NewEncoder and is never modified by them.
type Static struct {
	Dim     int
	Entries int
	Lengths []uint8 // per-entry codeword length, 0 for unused entries

	MapType   MapType
	QMin      uint32 // packed VQ float
	QDelta    uint32 // packed VQ float
	QQuant    int    // bits per quantized value, 1-16
	QSequence bool   // values accumulate along the vector
	QuantList []uint32
}

// ordered reports whether the lengths are non-decreasing with no unused
// entries, which allows the run-length header encoding.
func (s *Static) ordered() bool {
	for i := 1; i < s.Entries; i++ {
		if s.Lengths[i-1] == 0 || s.Lengths[i] < s.Lengths[i-1] {
			return false
		}
	}
	return s.Entries > 0 && s.Lengths[0] != 0
}

// checkDim rejects value-mapped books with empty vectors.
func (s *Static) checkDim() error {
	if (s.MapType == MapLattice || s.MapType == MapList) && s.Dim < 1 {
		return errors.Wrapf(ErrBadDimension, "dimension %d", s.Dim)
	}
	return nil
}

// Pack writes the codebook header.
func (s *Static) Pack(w *bits.Writer) error {
	if len(s.Lengths) != s.Entries {
		return errors.Wrapf(ErrBadLengths, "have %d lengths for %d entries", len(s.Lengths), s.Entries)
	}
	w.Write(Magic, 24)
	w.Write(uint32(s.Dim), 16)
	w.Write(uint32(s.Entries), 24)

	if s.ordered() {
		w.Write(1, 1)
		w.Write(uint32(s.Lengths[0]-1), 5)

		count := 0
		i := 1
		for ; i < s.Entries; i++ {
			this, last := s.Lengths[i], s.Lengths[i-1]
			for j := last; j < this; j++ {
				w.Write(uint32(i-count), ilog(uint32(s.Entries-count)))
				count = i
			}
		}
		w.Write(uint32(i-count), ilog(uint32(s.Entries-count)))
	} else {
		w.Write(0, 1)

		sparse := false
		for _, l := range s.Lengths {
			if l == 0 {
				sparse = true
				break
			}
		}
		if !sparse {
			w.Write(0, 1)
			for _, l := range s.Lengths {
				w.Write(uint32(l-1), 5)
			}
		} else {
			w.Write(1, 1)
			for _, l := range s.Lengths {
				if l == 0 {
					w.Write(0, 1)
					continue
				}
				w.Write(1, 1)
				w.Write(uint32(l-1), 5)
			}
		}
	}

	w.Write(uint32(s.MapType), 4)
	switch s.MapType {
	case MapNone:
	case MapLattice, MapList:
		qv := s.quantvals()
		if len(s.QuantList) < qv {
			return errors.Wrapf(ErrNoQuantList, "have %d of %d values", len(s.QuantList), qv)
		}
		w.Write(s.QMin, 32)
		w.Write(s.QDelta, 32)
		w.Write(uint32(s.QQuant-1), 4)
		w.WriteBool(s.QSequence)
		for _, q := range s.QuantList[:qv] {
			w.Write(q, s.QQuant)
		}
	default:
		return errors.Wrapf(ErrBadMapType, "map type %d", s.MapType)
	}
	return w.Err()
}

// Unpack reads a codebook header. Malformed headers return one of the
// header errors; truncated ones return bits.ErrExhausted.
func Unpack(r *bits.Reader) (*Static, error) {
	magic, err := r.Read(24)
	if err != nil {
		return nil, errors.Wrap(err, "codebook: sync")
	}
	if magic != Magic {
		return nil, errors.Wrapf(ErrBadMagic, "got %#06x", magic)
	}

	dim, _ := r.Read(16)
	entries, err := r.Read(24)
	if err != nil {
		return nil, errors.Wrap(err, "codebook: dimensions")
	}
	if ilog(dim)+ilog(entries) > 24 {
		return nil, ErrTooLarge
	}
	s := &Static{
		Dim:     int(dim),
		Entries: int(entries),
		Lengths: make([]uint8, entries),
	}

	ordered, err := r.ReadBool()
	if err != nil {
		return nil, errors.Wrap(err, "codebook: ordering")
	}
	if ordered {
		if err := s.unpackOrdered(r); err != nil {
			return nil, err
		}
	} else if err := s.unpackUnordered(r); err != nil {
		return nil, err
	}

	mt, err := r.Read(4)
	if err != nil {
		return nil, errors.Wrap(err, "codebook: map type")
	}
	s.MapType = MapType(mt)
	switch s.MapType {
	case MapNone:
		return s, nil
	case MapLattice, MapList:
	default:
		return nil, errors.Wrapf(ErrBadMapType, "map type %d", mt)
	}

	s.QMin, _ = r.Read(32)
	s.QDelta, _ = r.Read(32)
	quant, _ := r.Read(4)
	s.QQuant = int(quant) + 1
	s.QSequence, err = r.ReadBool()
	if err != nil {
		return nil, errors.Wrap(err, "codebook: quantization")
	}

	if err := s.checkDim(); err != nil {
		return nil, err
	}
	qv := s.quantvals()
	if qv*s.QQuant > r.Left() {
		return nil, errors.Wrapf(bits.ErrExhausted, "codebook: %d quantized values", qv)
	}
	s.QuantList = make([]uint32, qv)
	for i := range s.QuantList {
		s.QuantList[i], err = r.Read(s.QQuant)
		if err != nil {
			return nil, errors.Wrap(err, "codebook: quantized values")
		}
	}
	return s, nil
}

func (s *Static) unpackUnordered(r *bits.Reader) error {
	sparse, err := r.ReadBool()
	if err != nil {
		return errors.Wrap(err, "codebook: sparse flag")
	}
	per := 5
	if sparse {
		per = 1
	}
	if s.Entries*per > r.Left() {
		return errors.Wrapf(bits.ErrExhausted, "codebook: %d lengths", s.Entries)
	}
	for i := range s.Lengths {
		if sparse {
			present, err := r.ReadBool()
			if err != nil {
				return errors.Wrap(err, "codebook: lengths")
			}
			if !present {
				continue
			}
		}
		l, err := r.Read(5)
		if err != nil {
			return errors.Wrap(err, "codebook: lengths")
		}
		s.Lengths[i] = uint8(l + 1)
	}
	return nil
}

func (s *Static) unpackOrdered(r *bits.Reader) error {
	first, err := r.Read(5)
	if err != nil {
		return errors.Wrap(err, "codebook: initial length")
	}
	length := int(first) + 1
	for i := 0; i < s.Entries; {
		num, err := r.Read(ilog(uint32(s.Entries - i)))
		if err != nil {
			return errors.Wrap(err, "codebook: length runs")
		}
		n := int(num)
		if length > MaxLength || n > s.Entries-i || (n > 0 && (n-1)>>(length-1) > 1) {
			return errors.Wrapf(ErrBadLengths, "run of %d at length %d", n, length)
		}
		for j := 0; j < n; j++ {
			s.Lengths[i] = uint8(length)
			i++
		}
		length++
	}
	return nil
}
