package codebook

import "math"

// Packed VQ float layout: sign in bit 31, a 10-bit exponent biased by 768 in
// bits 21-30 and a 21-bit mantissa.
const (
	floatMantBits = 21
	floatExpBias  = 768
)

// UnpackFloat decodes a packed VQ float.
func UnpackFloat(val uint32) float32 {
	mant := float64(val & 0x1FFFFF)
	exp := int((val & 0x7FE00000) >> floatMantBits)
	if val&0x80000000 != 0 {
		mant = -mant
	}
	exp = exp - (floatMantBits - 1) - floatExpBias
	if exp > 63 {
		exp = 63
	}
	if exp < -63 {
		exp = -63
	}
	return float32(math.Ldexp(mant, exp))
}

// PackFloat encodes v as a packed VQ float. Zero packs to 0.
func PackFloat(v float64) uint32 {
	var sign uint32
	if v < 0 {
		sign = 0x80000000
		v = -v
	}
	if v == 0 {
		return sign
	}
	exp := int(math.Floor(math.Log(v)/math.Log(2) + .001))
	mant := int64(math.RoundToEven(math.Ldexp(v, floatMantBits-1-exp)))
	if mant >= 1<<floatMantBits {
		mant >>= 1
		exp++
	}
	return sign | uint32(exp+floatExpBias)<<floatMantBits | uint32(mant)
}

// Maptype1Quantvals returns the number of distinct scalar values per
// dimension of a lattice book: the largest v with v^dim <= entries.
//
// A floating-point root only seeds the search; the answer is confirmed with
// integer arithmetic because an off-by-one here desynchronizes the stream.
func Maptype1Quantvals(entries, dim int) int {
	if entries < 1 || dim < 1 {
		return 0
	}
	vals := int(math.Floor(math.Pow(float64(entries), 1/float64(dim))))
	if vals < 1 {
		vals = 1
	}
	for {
		acc, acc1 := 1, 1
		i := 0
		for ; i < dim; i++ {
			if entries/vals < acc {
				break
			}
			acc *= vals
			if math.MaxInt/(vals+1) < acc1 {
				acc1 = math.MaxInt
			} else {
				acc1 *= vals + 1
			}
		}
		if i >= dim && acc <= entries && acc1 > entries {
			return vals
		}
		if i < dim || acc > entries {
			vals--
		} else {
			vals++
		}
	}
}

// quantvals returns the length of the quantized value list the header
// carries for s.
func (s *Static) quantvals() int {
	switch s.MapType {
	case MapLattice:
		return Maptype1Quantvals(s.Entries, s.Dim)
	case MapList:
		return s.Entries * s.Dim
	default:
		return 0
	}
}

// Unquantize expands the quantized value list into n vectors of Dim floats.
//
// With a nil sparseMap every entry is expanded in order and n must equal
// Entries. Otherwise only used entries are expanded and the i-th used entry
// lands at vector sparseMap[i]. Books without a value mapping return nil.
func (s *Static) Unquantize(n int, sparseMap []int) []float32 {
	if s.MapType != MapLattice && s.MapType != MapList {
		return nil
	}
	mindel := UnpackFloat(s.QMin)
	delta := UnpackFloat(s.QDelta)
	out := make([]float32, n*s.Dim)

	quantvals := 0
	if s.MapType == MapLattice {
		quantvals = Maptype1Quantvals(s.Entries, s.Dim)
	}

	count := 0
	for j := 0; j < s.Entries; j++ {
		if sparseMap != nil && s.Lengths[j] == 0 {
			continue
		}
		slot := count
		if sparseMap != nil {
			slot = sparseMap[count]
		}
		var last float32
		indexdiv := 1
		for k := 0; k < s.Dim; k++ {
			var q uint32
			if s.MapType == MapLattice {
				q = s.QuantList[(j/indexdiv)%quantvals]
				indexdiv *= quantvals
			} else {
				q = s.QuantList[j*s.Dim+k]
			}
			// Rounded to float32 after every step; the conversion also keeps
			// the compiler from fusing the multiply-add.
			val := float32(float32(q)*delta) + mindel + last
			if s.QSequence {
				last = val
			}
			out[slot*s.Dim+k] = val
		}
		count++
	}
	return out
}
