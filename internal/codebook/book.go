package codebook

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// hintFlag marks a direct-lookup slot that holds a binary search hint
// instead of an entry.
const hintFlag = 0x80000000

// Book is the decode side of a codebook.
//
// Unused entries are collapsed away and the remaining entries are ordered by
// their codeword read MSb-first (the bit-reversed wire form), which allows a
// treeless binary-search decode. A small direct-lookup table indexed by the
// next few stream bits resolves short codewords in one step and narrows the
// search range for the rest.
//
// A Book is immutable after NewBook and safe for concurrent use.
type Book struct {
	dim         int
	entries     int
	usedEntries int

	values     []float32 // usedEntries*dim, in sorted order
	codeList   []uint32  // left-aligned codewords, ascending
	decIndex   []int     // sorted position -> original entry
	decLengths []uint8   // sorted position -> codeword length
	maxLength  int

	firstTable    []uint32
	firstTableLen int
}

// NewBook builds decode tables for s.
func NewBook(s *Static) (*Book, error) {
	if len(s.Lengths) != s.Entries {
		return nil, ErrBadLengths
	}
	if err := s.checkDim(); err != nil {
		return nil, err
	}
	n := lo.CountBy(s.Lengths, func(l uint8) bool { return l > 0 })
	b := &Book{
		dim:         s.Dim,
		entries:     s.Entries,
		usedEntries: n,
	}
	if n == 0 {
		return b, nil
	}

	codes, err := MakeWords(s.Lengths, true)
	if err != nil {
		return nil, err
	}
	for i := range codes {
		codes[i] = bitReverse(codes[i])
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(x, y int) int { return cmp.Compare(codes[x], codes[y]) })

	// sortIndex maps a used entry (in original order) to its sorted position.
	sortIndex := make([]int, n)
	for rank, pos := range order {
		sortIndex[pos] = rank
	}

	b.codeList = make([]uint32, n)
	for i, c := range codes {
		b.codeList[sortIndex[i]] = c
	}

	b.values = s.Unquantize(n, sortIndex)

	b.decIndex = make([]int, n)
	b.decLengths = make([]uint8, n)
	k := 0
	for i, l := range s.Lengths {
		if l == 0 {
			continue
		}
		b.decIndex[sortIndex[k]] = i
		b.decLengths[sortIndex[k]] = l
		k++
	}
	b.maxLength = int(lo.Max(s.Lengths))

	if n == 1 && b.maxLength == 1 {
		// Single-entry book: either bit value decodes to the one entry.
		b.firstTableLen = 1
		b.firstTable = []uint32{1, 1}
		return b, nil
	}

	b.buildFirstTable()
	return b, nil
}

func (b *Book) buildFirstTable() {
	n := b.usedEntries
	b.firstTableLen = min(max(ilog(uint32(n))-4, 5), 8)
	tabn := 1 << b.firstTableLen
	b.firstTable = make([]uint32, tabn)

	for i := 0; i < n; i++ {
		l := int(b.decLengths[i])
		if l > b.firstTableLen {
			continue
		}
		orig := bitReverse(b.codeList[i])
		for j := 0; j < 1<<(b.firstTableLen-l); j++ {
			b.firstTable[orig|uint32(j<<l)] = uint32(i + 1)
		}
	}

	// Fill the remaining slots with the [lo, hi) range of sorted codewords
	// that share the slot's prefix, stored as offsets from both ends in 15
	// bits each. Saturated hints only widen the search.
	mask := uint32(0xFFFFFFFE) << (31 - b.firstTableLen)
	low, high := 0, 0
	for i := 0; i < tabn; i++ {
		word := uint32(i) << (32 - b.firstTableLen)
		slot := bitReverse(word)
		if b.firstTable[slot] != 0 {
			continue
		}
		for low+1 < n && b.codeList[low+1] <= word {
			low++
		}
		for high < n && word >= b.codeList[high]&mask {
			high++
		}
		loval := min(low, 0x7FFF)
		hival := min(n-high, 0x7FFF)
		b.firstTable[slot] = hintFlag | uint32(loval)<<15 | uint32(hival)
	}
}

// Dim returns the vector dimension.
func (b *Book) Dim() int { return b.dim }

// Entries returns the number of entries, used or not.
func (b *Book) Entries() int { return b.entries }

// UsedEntries returns the number of entries with a codeword.
func (b *Book) UsedEntries() int { return b.usedEntries }

// MaxLength returns the longest codeword length.
func (b *Book) MaxLength() int { return b.maxLength }

// HasValues reports whether the book maps entries to vectors.
func (b *Book) HasValues() bool { return b.values != nil }
