package filterbank

import (
	"math"
	mbits "math/bits"
	"sync"
)

// Block size limits, as log2: 64 to 8192 samples.
const (
	minLog2 = 6
	maxLog2 = 13
)

// Slopes are built on first use and shared by every stream.
var slopes [maxLog2 - minLog2 + 1]struct {
	once sync.Once
	v    []float32
}

// Slope returns the rising half of the window for an n-sample block: n/2
// values of sin(π/2 · sin²((i+.5)/(n/2) · π/2)).
//
// The slope is power complementary: s[i]² + s[n/2-1-i]² == 1, which is what
// makes windowed overlap-add reconstruct the input. The returned slice is
// shared and must not be modified. n must be a power of two in [64, 8192].
func Slope(n int) []float32 {
	lg := mbits.Len(uint(n)) - 1
	if n&(n-1) != 0 || lg < minLog2 || lg > maxLog2 {
		panic("filterbank: invalid block size")
	}
	s := &slopes[lg-minLog2]
	s.once.Do(func() {
		left := n / 2
		s.v = make([]float32, left)
		for i := range s.v {
			x := math.Sin((float64(i) + .5) / float64(left) * math.Pi / 2)
			s.v[i] = float32(math.Sin(math.Pi / 2 * x * x))
		}
	})
	return s.v
}

// Apply windows one block of blockSizes[W] samples in place.
//
// The left slope is sized by the previous block and the right slope by the
// next one; samples outside the slopes are zeroed. A short block always
// uses short slopes on both sides.
func Apply(d []float32, blockSizes [2]int, lW, W, nW bool) {
	if !W {
		lW, nW = false, false
	}
	n := blockSizes[idx(W)]
	ln := blockSizes[idx(lW)]
	rn := blockSizes[idx(nW)]
	left := Slope(ln)
	right := Slope(rn)

	leftBegin := n/4 - ln/4
	leftEnd := leftBegin + ln/2
	rightBegin := n/2 + n/4 - rn/4
	rightEnd := rightBegin + rn/2

	clear(d[:leftBegin])
	for i, p := leftBegin, 0; i < leftEnd; i, p = i+1, p+1 {
		d[i] *= left[p]
	}
	for i, p := rightBegin, rn/2-1; i < rightEnd; i, p = i+1, p-1 {
		d[i] *= right[p]
	}
	clear(d[rightEnd:n])
}

func idx(long bool) int {
	if long {
		return 1
	}
	return 0
}
