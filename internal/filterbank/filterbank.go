// Package filterbank joins the lapped transform with block windowing: it
// holds one MDCT per block size and turns PCM blocks into spectra and back.
package filterbank

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/mdct"
)

// FilterBank holds the transforms for a stream's short and long blocks.
//
// A FilterBank belongs to one stream; its forward scratch buffers are not
// safe for concurrent use.
type FilterBank struct {
	blockSizes [2]int
	lookups    [2]*mdct.Lookup

	// windowed copy of the current block
	buf []float32
}

// New creates a FilterBank for the given short and long block sizes.
func New(blockSizes [2]int) (*FilterBank, error) {
	if blockSizes[0] > blockSizes[1] {
		return nil, errors.Errorf("filterbank: short block %d larger than long block %d", blockSizes[0], blockSizes[1])
	}
	fb := &FilterBank{
		blockSizes: blockSizes,
		buf:        make([]float32, blockSizes[1]),
	}
	for i, n := range blockSizes {
		if i == 1 && n == blockSizes[0] {
			fb.lookups[1] = fb.lookups[0]
			break
		}
		l, err := mdct.New(n)
		if err != nil {
			return nil, errors.Wrapf(err, "filterbank: block size %d", n)
		}
		fb.lookups[i] = l
	}
	return fb, nil
}

// BlockSizes returns the short and long block sizes.
func (fb *FilterBank) BlockSizes() [2]int { return fb.blockSizes }

// Analyze windows pcm (blockSizes[W] samples) for the given neighbours and
// writes blockSizes[W]/2 coefficients to freq. pcm is left untouched.
func (fb *FilterBank) Analyze(pcm []float32, lW, W, nW bool, freq []float32) {
	n := fb.blockSizes[idx(W)]
	buf := fb.buf[:n]
	copy(buf, pcm[:n])
	Apply(buf, fb.blockSizes, lW, W, nW)
	fb.lookups[idx(W)].Forward(buf, freq)
}

// Synthesize inverts freq (blockSizes[W]/2 coefficients) into blockSizes[W]
// unwindowed samples. Windowing happens during overlap-add.
func (fb *FilterBank) Synthesize(freq []float32, W bool, pcm []float32) {
	fb.lookups[idx(W)].Backward(freq, pcm)
}
