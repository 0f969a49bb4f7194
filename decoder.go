package vorbis

import (
	"io"

	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/bits"
	"github.com/llehouerou/go-vorbis/internal/block"
	"github.com/llehouerou/go-vorbis/internal/filterbank"
)

// DecoderConfig configures a Decoder.
type DecoderConfig struct {
	// Setup, if set, is used instead of the stream's header packets, which
	// are then skipped.
	Setup *Setup
}

// Decoder turns a packet stream back into planar float PCM.
//
// Packets must be fed in stream order. A packet that fails to decode is
// dropped; the stream continues with the next one and the granule position
// becomes unknown until a later packet carries one.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	setup     *Setup
	preset    bool
	id        *Identification
	synthesis *block.Synthesis
	fb        *filterbank.FilterBank

	freq [][]float32
	pcm  [][]float32

	sequence int64
	lastW    bool
}

// NewDecoder creates a decoder.
func NewDecoder(cfg DecoderConfig) (*Decoder, error) {
	d := &Decoder{}
	if cfg.Setup != nil {
		d.preset = true
		if err := d.init(cfg.Setup); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Decoder) init(s *Setup) error {
	synthesis, err := block.NewSynthesis(s.blockConfig())
	if err != nil {
		return err
	}
	fb, err := filterbank.New(s.cfg.BlockSizes)
	if err != nil {
		return err
	}
	d.setup = s
	d.synthesis = synthesis
	d.fb = fb
	d.freq = make([][]float32, s.cfg.Channels)
	d.pcm = make([][]float32, s.cfg.Channels)
	for c := range d.freq {
		d.freq[c] = make([]float32, s.cfg.BlockSizes[1]/2)
		d.pcm[c] = make([]float32, s.cfg.BlockSizes[1])
	}
	return nil
}

// Setup returns the stream configuration, or nil before the setup header.
func (d *Decoder) Setup() *Setup { return d.setup }

// GranulePos returns the stream position after the samples returned so
// far, or -1 while unknown.
func (d *Decoder) GranulePos() int64 {
	if d.synthesis == nil {
		return -1
	}
	return d.synthesis.GranulePos()
}

// Done reports whether the end of the stream has been decoded.
func (d *Decoder) Done() bool {
	return d.synthesis != nil && d.synthesis.State() == block.Closed
}

// Decode consumes one packet and returns the samples it completes, one
// slice per channel. Header packets and the first audio packet complete
// no samples.
func (d *Decoder) Decode(p Packet) ([][]float32, error) {
	if len(p.Data) > 0 && p.Data[0]&1 == 1 {
		return nil, d.header(p.Data)
	}
	if d.setup == nil {
		return nil, ErrNoHeaders
	}
	if d.Done() {
		return nil, ErrEndOfStream
	}

	seq := d.sequence
	d.sequence++
	r := bits.NewReader(p.Data)
	h, err := ReadPacketHeader(r, d.setup)
	if err != nil {
		return nil, errors.Wrapf(err, "vorbis: packet %d", seq)
	}
	mode := d.setup.cfg.Modes[h.Mode]
	if mode.BlockFlag && d.lastW != h.LW && seq > 0 {
		log.Debugf("decoder: packet %d claims previous block long=%v", seq, h.LW)
	}

	n := d.setup.cfg.BlockSizes[0]
	if mode.BlockFlag {
		n = d.setup.cfg.BlockSizes[1]
	}
	freq := make([][]float32, len(d.freq))
	for c := range freq {
		freq[c] = d.freq[c][:n/2]
	}
	if err := d.setup.coder.Decode(r, freq); err != nil {
		return nil, errors.Wrapf(err, "vorbis: packet %d", seq)
	}

	pcm := make([][]float32, len(d.pcm))
	for c := range pcm {
		pcm[c] = d.pcm[c][:n]
		d.fb.Synthesize(freq[c], mode.BlockFlag, pcm[c])
	}
	d.synthesis.Submit(&block.Decoded{
		PCM:        pcm,
		W:          mode.BlockFlag,
		Sequence:   seq,
		GranulePos: p.GranulePos,
		EOS:        p.EOS,
	})
	d.lastW = mode.BlockFlag

	ready := d.synthesis.PCMOut()
	if ready == nil {
		return nil, nil
	}
	out := make([][]float32, len(ready))
	for c := range ready {
		out[c] = append([]float32(nil), ready[c]...)
	}
	if err := d.synthesis.Read(len(out[0])); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Decoder) header(data []byte) error {
	if d.preset {
		return nil
	}
	switch {
	case d.id == nil:
		id, err := ParseIdentification(data)
		if err != nil {
			return err
		}
		d.id = &id
		log.Debugf("decoder: %d channels at %d Hz, blocks %v", id.Channels, id.SampleRate, id.BlockSizes)
		return nil
	case d.setup == nil:
		s, err := ParseSetup(*d.id, data)
		if err != nil {
			return err
		}
		return d.init(s)
	default:
		return errors.Wrap(ErrHeaderOrder, "header packet after setup")
	}
}

// DecodeAll decodes packets from r until io.EOF or the end of the stream,
// passing every batch of completed samples to fn. Audio packets that fail to
// decode are dropped with a warning; a stream whose headers cannot be read
// stops with the error.
func (d *Decoder) DecodeAll(r PacketReader, fn func(pcm [][]float32) error) error {
	for !d.Done() {
		p, err := r.ReadPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		pcm, err := d.Decode(p)
		if err != nil {
			if d.setup == nil {
				return err
			}
			log.Warningf("decoder: dropped packet at granule %d: %v", p.GranulePos, err)
			continue
		}
		if pcm != nil {
			if err := fn(pcm); err != nil {
				return err
			}
		}
	}
	return nil
}
