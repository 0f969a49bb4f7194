package block

import (
	"github.com/llehouerou/go-vorbis/internal/lpc"
)

// Extrapolation orders for the stream head and tail.
const (
	headOrder = 16
	tailOrder = 32
)

// BlockType classifies an emitted block by its own and its neighbours'
// sizes.
type BlockType int

// Block types.
const (
	Short      BlockType = iota
	Long                 // long with long neighbours
	Transition           // long next to at least one short block
)

// Block is one analysis block, ready to be windowed and transformed.
type Block struct {
	// PCM holds BlockSizes[W] unwindowed samples per channel.
	PCM [][]float32

	LW, W, NW bool
	Type      BlockType

	Sequence   int64
	GranulePos int64
	EOS        bool
}

// Analysis is the encode-side scheduler.
//
// Samples are written at the end of a per-channel buffer that is shifted
// down after every block so the current block is always centred on
// centerW. Before the first block, the buffer is filled from the middle of
// a long block so the first output sample lines up with the first block's
// centre.
type Analysis struct {
	cfg Config
	det Detector

	pcm     [][]float32
	current int // valid samples per channel

	lW, W, nW bool
	centerW   int

	// eof is 0 while samples may still arrive, then the index of the last
	// real sample plus one, and -1 once the final block is out.
	eof            int
	preextrapolate bool

	sequence   int64
	granulepos int64
	state      State
}

// NewAnalysis creates an encode-side scheduler. det picks block sizes.
func NewAnalysis(cfg Config, det Detector) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analysis{
		cfg:     cfg,
		det:     det,
		pcm:     make([][]float32, cfg.Channels),
		centerW: cfg.BlockSizes[1] / 2,
	}
	for i := range a.pcm {
		a.pcm[i] = make([]float32, cfg.BlockSizes[1])
	}
	a.current = a.centerW
	return a, nil
}

// State returns the scheduler state.
func (a *Analysis) State() State { return a.state }

// GranulePos returns the granule position the next block will carry.
func (a *Analysis) GranulePos() int64 { return a.granulepos }

// Buffer returns per-channel space for n more samples. Fill it, then call
// Wrote. The slices are only valid until the next call on a.
func (a *Analysis) Buffer(n int) [][]float32 {
	if a.state >= Draining {
		invalidState("buffer after end of stream")
	}
	a.reserve(n)
	out := make([][]float32, len(a.pcm))
	for i, ch := range a.pcm {
		out[i] = ch[a.current : a.current+n]
	}
	return out
}

func (a *Analysis) reserve(n int) {
	if a.current+n < len(a.pcm[0]) {
		return
	}
	size := a.current + n*2
	for i, ch := range a.pcm {
		grown := make([]float32, size)
		copy(grown, ch[:a.current])
		a.pcm[i] = grown
	}
}

// Wrote commits n samples written into the slices from Buffer. Wrote(0)
// declares the end of the stream, like Finish.
func (a *Analysis) Wrote(n int) {
	if n <= 0 {
		a.Finish()
		return
	}
	if a.state >= Draining {
		invalidState("wrote after end of stream")
	}
	if a.current+n > len(a.pcm[0]) {
		invalidState("wrote %d samples into a buffer of %d", n, len(a.pcm[0])-a.current)
	}
	a.current += n
	if a.state == Uninitialized {
		a.state = Started
	}

	// A stream that starts on a cliff is smoothed by predicting backwards
	// into the padding ahead of the first sample. It runs once, when a long
	// block's worth of real samples is available.
	if !a.preextrapolate && a.current-a.centerW > a.cfg.BlockSizes[1] {
		a.extrapolateHead()
	}
}

// Push copies pcm (one slice per channel, equal lengths) into the buffer.
func (a *Analysis) Push(pcm [][]float32) {
	if len(pcm) != len(a.pcm) {
		invalidState("push of %d channels into a %d-channel stream", len(pcm), len(a.pcm))
	}
	n := len(pcm[0])
	if n == 0 {
		return
	}
	buf := a.Buffer(n)
	for i := range buf {
		copy(buf[i], pcm[i])
	}
	a.Wrote(n)
}

// Finish declares the end of the stream. The tail is extended by three
// long blocks of linear prediction so the last real samples can be coded
// without a hard edge; the padding does not count towards granule
// positions.
func (a *Analysis) Finish() {
	if a.state >= Draining {
		invalidState("finish called twice")
	}
	if !a.preextrapolate {
		a.extrapolateHead()
	}

	long := a.cfg.BlockSizes[1]
	a.reserve(long * 3)
	a.eof = a.current
	a.current += long * 3

	for _, ch := range a.pcm {
		tail := ch[a.eof:a.current]
		if a.eof <= tailOrder*2 {
			clear(tail)
			continue
		}
		n := min(a.eof, long)
		coeff, _ := lpc.FromData(ch[a.eof-n:a.eof], tailOrder)
		lpc.Predict(coeff, ch[a.eof-tailOrder:a.eof], tail)
	}
	a.state = Draining
	log.Debugf("analysis: end of stream after %d buffered samples", a.eof-a.centerW)
}

func (a *Analysis) extrapolateHead() {
	a.preextrapolate = true
	if a.current-a.centerW <= headOrder*2 {
		return
	}
	work := make([]float32, a.current)
	for _, ch := range a.pcm {
		// Run the predictor in reverse time.
		for j := range work {
			work[j] = ch[a.current-j-1]
		}
		have := a.current - a.centerW
		coeff, _ := lpc.FromData(work[:have], headOrder)
		lpc.Predict(coeff, work[have-headOrder:have], work[have:])
		for j := range work {
			ch[a.current-j-1] = work[j]
		}
	}
}

// Blockout returns the next block once enough lookahead is buffered to
// decide its right-hand neighbour, or false if more samples are needed.
func (a *Analysis) Blockout() (*Block, bool) {
	if !a.preextrapolate || a.eof == -1 {
		return nil, false
	}
	bs := a.cfg.BlockSizes

	nextLong, ok := a.det.Search(a.pcm, a.current, a.centerW, bs[1], a.eof != 0)
	switch {
	case !ok && a.eof == 0:
		return nil, false
	case !ok, bs[0] == bs[1]:
		a.nW = false
	default:
		a.nW = nextLong
	}

	centerNext := a.centerW + a.cfg.size(a.W)/4 + a.cfg.size(a.nW)/4
	if a.current < centerNext+a.cfg.size(a.nW)/2 {
		return nil, false
	}

	n := a.cfg.size(a.W)
	beginW := a.centerW - n/2
	b := &Block{
		PCM:        make([][]float32, len(a.pcm)),
		LW:         a.lW,
		W:          a.W,
		NW:         a.nW,
		Sequence:   a.sequence,
		GranulePos: a.granulepos,
	}
	switch {
	case !a.W:
		b.Type = Short
	case !a.lW || !a.nW:
		b.Type = Transition
	default:
		b.Type = Long
	}
	for i, ch := range a.pcm {
		b.PCM[i] = make([]float32, n)
		copy(b.PCM[i], ch[beginW:beginW+n])
	}
	a.sequence++
	if a.state == Started {
		a.state = Steady
	}

	if a.eof != 0 && a.centerW >= a.eof {
		a.eof = -1
		b.EOS = true
		a.state = Closed
		log.Debugf("analysis: final block %d at granule %d", b.Sequence, b.GranulePos)
		return b, true
	}

	// Shift so the next block is centred half a long block in.
	newCenter := bs[1] / 2
	movement := centerNext - newCenter
	if movement > 0 {
		a.current -= movement
		for _, ch := range a.pcm {
			copy(ch, ch[movement:movement+a.current])
		}
		a.lW = a.W
		a.W = a.nW
		a.centerW = newCenter

		if a.eof != 0 {
			a.eof -= movement
			if a.eof <= 0 {
				a.eof = -1
			}
			// padding past the end never counts as samples
			if a.centerW >= a.eof {
				a.granulepos += int64(movement - (a.centerW - a.eof))
			} else {
				a.granulepos += int64(movement)
			}
		} else {
			a.granulepos += int64(movement)
		}
	}
	return b, true
}
