package block

import (
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/filterbank"
)

// Decoded is one inverse-transformed block handed to Synthesis.
type Decoded struct {
	// PCM holds BlockSizes[W] unwindowed samples per channel.
	PCM [][]float32
	W   bool

	Sequence int64
	// GranulePos is the stream position after this block, or -1 when the
	// container did not supply one.
	GranulePos int64
	EOS        bool
}

// Synthesis is the decode-side scheduler.
//
// Its buffer holds one long block per channel in two halves. Each block's
// overlapping head is added into the half holding the previous block's
// tail, and its own tail is copied into the other half; the halves then
// swap roles, so samples never move once written.
type Synthesis struct {
	cfg Config
	pcm [][]float32

	centerW  int
	current  int
	returned int // -1 before the first block

	lW, W bool

	sequence    int64 // -1 before the first block
	granulepos  int64 // -1 while unknown
	sampleCount int64 // -1 while unknown
	eos         bool
	state       State
}

// NewSynthesis creates a decode-side scheduler.
func NewSynthesis(cfg Config) (*Synthesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Synthesis{
		cfg:         cfg,
		pcm:         make([][]float32, cfg.Channels),
		centerW:     cfg.BlockSizes[1] / 2,
		returned:    -1,
		sequence:    -1,
		granulepos:  -1,
		sampleCount: -1,
	}
	s.current = s.centerW
	for i := range s.pcm {
		s.pcm[i] = make([]float32, cfg.BlockSizes[1])
	}
	return s, nil
}

// State returns the scheduler state.
func (s *Synthesis) State() State { return s.state }

// GranulePos returns the stream position after the samples released so
// far, or -1 while it is unknown.
func (s *Synthesis) GranulePos() int64 { return s.granulepos }

// Submit overlap-adds one block. Every sample released by the previous
// block must have been consumed with Read first.
func (s *Synthesis) Submit(b *Decoded) {
	if s.state == Closed {
		invalidState("submit after end of stream")
	}
	if s.returned != -1 && s.current > s.returned {
		invalidState("submit with %d samples unread", s.current-s.returned)
	}
	if len(b.PCM) != len(s.pcm) {
		invalidState("block has %d channels, stream has %d", len(b.PCM), len(s.pcm))
	}

	s.lW = s.W
	s.W = b.W

	if s.sequence == -1 || s.sequence+1 != b.Sequence {
		// out of sequence: lose count
		s.granulepos = -1
		s.sampleCount = -1
	}
	s.sequence = b.Sequence

	n := s.cfg.size(s.W) / 2
	n0 := s.cfg.BlockSizes[0] / 2
	n1 := s.cfg.BlockSizes[1] / 2

	prevCenter, thisCenter := 0, n1
	if s.centerW != 0 {
		prevCenter, thisCenter = n1, 0
	}

	for j, ch := range s.pcm {
		p := b.PCM[j]
		switch {
		case s.lW && s.W:
			overlap(ch[prevCenter:], p, filterbank.Slope(s.cfg.BlockSizes[1]))
		case s.lW:
			overlap(ch[prevCenter+n1/2-n0/2:], p, filterbank.Slope(s.cfg.BlockSizes[0]))
		case s.W:
			// the long block is zero before its short-sized left slope
			p = p[n1/2-n0/2:]
			overlap(ch[prevCenter:], p, filterbank.Slope(s.cfg.BlockSizes[0]))
			copy(ch[prevCenter+n0:prevCenter+n1/2+n0/2], p[n0:n1/2+n0/2])
			p = b.PCM[j]
		default:
			overlap(ch[prevCenter:], p, filterbank.Slope(s.cfg.BlockSizes[0]))
		}
		copy(ch[thisCenter:thisCenter+n], p[n:2*n])
	}

	if s.centerW != 0 {
		s.centerW = 0
	} else {
		s.centerW = n1
	}

	first := s.returned == -1
	if first {
		s.returned = thisCenter
		s.current = thisCenter
	} else {
		s.returned = prevCenter
		s.current = prevCenter + s.cfg.size(s.lW)/4 + s.cfg.size(s.W)/4
	}

	step := int64(s.cfg.size(s.lW)/4 + s.cfg.size(s.W)/4)
	if s.sampleCount == -1 {
		s.sampleCount = 0
	} else {
		s.sampleCount += step
	}

	if s.granulepos == -1 {
		if b.GranulePos != -1 {
			s.granulepos = b.GranulePos
			if s.sampleCount > s.granulepos {
				s.trim(s.sampleCount-b.GranulePos, b.EOS)
			}
		}
	} else {
		s.granulepos += step
		if b.GranulePos != -1 && s.granulepos != b.GranulePos {
			// A block that ends short of its granule position is believed
			// as-is; only an overlong final block is cut.
			if s.granulepos > b.GranulePos && b.EOS {
				s.trim(s.granulepos-b.GranulePos, true)
			}
			s.granulepos = b.GranulePos
		}
	}

	switch {
	case b.EOS:
		s.eos = true
		s.state = Draining
		if s.current == s.returned {
			s.state = Closed
		}
	case first:
		s.state = Started
	default:
		s.state = Steady
	}
}

// overlap cross-fades the previous block's tail in dst with the head of p
// over len(w) samples.
func overlap(dst, p, w []float32) {
	n := len(w)
	for i := 0; i < n; i++ {
		dst[i] = dst[i]*w[n-i-1] + p[i]*w[i]
	}
}

// trim drops extra samples, from the end of the released range at the end
// of a stream and from its start otherwise.
func (s *Synthesis) trim(extra int64, end bool) {
	if extra < 0 {
		extra = 0
	}
	avail := int64(s.current - s.returned)
	if end {
		extra = min(extra, avail)
		s.current -= int(extra)
		log.Debugf("synthesis: trimmed %d samples from the end", extra)
		return
	}
	s.returned += int(min(extra, avail))
	log.Debugf("synthesis: trimmed %d samples from the start", extra)
}

// PCMOut returns per-channel views of the samples ready to be read, or nil
// when none are. The views are valid until the next Submit.
func (s *Synthesis) PCMOut() [][]float32 {
	if s.returned == -1 || s.current <= s.returned {
		return nil
	}
	out := make([][]float32, len(s.pcm))
	for i, ch := range s.pcm {
		out[i] = ch[s.returned:s.current]
	}
	return out
}

// Ready returns the number of samples per channel ready to be read.
func (s *Synthesis) Ready() int {
	if s.returned == -1 {
		return 0
	}
	return s.current - s.returned
}

// Read marks n samples as consumed.
func (s *Synthesis) Read(n int) error {
	if n < 0 || n > s.Ready() {
		return errors.Wrapf(ErrOverread, "read %d of %d", n, s.Ready())
	}
	s.returned += n
	if s.eos && s.returned == s.current {
		s.state = Closed
	}
	return nil
}
