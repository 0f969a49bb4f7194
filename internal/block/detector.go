package block

// Detector decides the size of the block after the current one.
//
// pcm holds the buffered channels with current valid samples each; the
// current block is centred on centerW. Search reports ok=false when it needs
// more lookahead than is buffered; with eof set no more samples will come
// and it should decide with what it has.
type Detector interface {
	Search(pcm [][]float32, current, centerW, longSize int, eof bool) (nextLong, ok bool)
}

// Fixed always picks the same block size.
type Fixed struct {
	Long bool
}

// Search implements Detector.
func (f Fixed) Search(_ [][]float32, current, centerW, longSize int, eof bool) (bool, bool) {
	if !eof && current < centerW+longSize {
		return false, false
	}
	return f.Long, true
}
