package codebook

import "github.com/pkg/errors"

// Lattice returns a fully populated lattice book of levels^dim entries whose
// vectors cover [-1, 1] in each dimension with levels evenly spaced values.
// Codeword lengths form a complete tree of near-equal depth.
func Lattice(dim, levels int) (*Static, error) {
	if dim < 1 || levels < 2 {
		return nil, errors.Wrapf(ErrTooLarge, "lattice of %d levels in %d dimensions", levels, dim)
	}
	entries := 1
	for i := 0; i < dim; i++ {
		entries *= levels
		if entries > 1<<16 {
			return nil, errors.Wrapf(ErrTooLarge, "lattice of %d levels in %d dimensions", levels, dim)
		}
	}

	depth := ilog(uint32(entries - 1))
	short := 1<<depth - entries
	lengths := make([]uint8, entries)
	for i := range lengths {
		lengths[i] = uint8(depth)
		if i < short {
			lengths[i]--
		}
	}

	quant := make([]uint32, levels)
	for i := range quant {
		quant[i] = uint32(i)
	}
	return &Static{
		Dim:       dim,
		Entries:   entries,
		Lengths:   lengths,
		MapType:   MapLattice,
		QMin:      PackFloat(-1),
		QDelta:    PackFloat(2 / float64(levels-1)),
		QQuant:    ilog(uint32(levels - 1)),
		QuantList: quant,
	}, nil
}
