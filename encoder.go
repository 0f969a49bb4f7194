package vorbis

import (
	"bytes"
	"math"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/bits"
	"github.com/llehouerou/go-vorbis/internal/block"
	"github.com/llehouerou/go-vorbis/internal/envelope"
	"github.com/llehouerou/go-vorbis/internal/filterbank"
)

var log = logging.MustGetLogger("vorbis")

// Library logging stays at warnings until the application installs its own
// backend.
func init() {
	logging.SetLevel(logging.WARNING, "vorbis")
}

// EncoderConfig configures an Encoder.
type EncoderConfig struct {
	Setup *Setup

	// Detector picks block sizes. Nil selects the energy-envelope
	// detector.
	Detector block.Detector

	// Psy, if set, silences spectral lines below its masking curve before
	// they are coded.
	Psy PsyModel
}

// Encoder turns planar float PCM into a packet stream: the two header
// packets, then one audio packet per block.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	setup    *Setup
	out      PacketWriter
	analysis *block.Analysis
	fb       *filterbank.FilterBank
	psy      PsyModel

	freq [][]float32
	mask []float32
	w    *bits.Writer

	headersDone bool
	closed      bool
	packets     int
}

// NewEncoder creates an encoder writing packets to out.
func NewEncoder(out PacketWriter, cfg EncoderConfig) (*Encoder, error) {
	if cfg.Setup == nil {
		return nil, errors.New("vorbis: encoder needs a setup")
	}
	det := cfg.Detector
	if det == nil {
		det = envelope.New()
	}
	s := cfg.Setup
	analysis, err := block.NewAnalysis(s.blockConfig(), det)
	if err != nil {
		return nil, err
	}
	fb, err := filterbank.New(s.cfg.BlockSizes)
	if err != nil {
		return nil, err
	}
	e := &Encoder{
		setup:    s,
		out:      out,
		analysis: analysis,
		fb:       fb,
		psy:      cfg.Psy,
		freq:     make([][]float32, s.cfg.Channels),
		w:        bits.NewWriter(),
	}
	for i := range e.freq {
		e.freq[i] = make([]float32, s.cfg.BlockSizes[1]/2)
	}
	if e.psy != nil {
		e.mask = make([]float32, s.cfg.BlockSizes[1]/2)
	}
	return e, nil
}

// Packets returns the number of packets written so far, headers included.
func (e *Encoder) Packets() int { return e.packets }

func (e *Encoder) writeHeaders() error {
	if e.headersDone {
		return nil
	}
	e.headersDone = true
	if err := e.out.WritePacket(Packet{Data: e.setup.IdentificationHeader(), BOS: true}); err != nil {
		return err
	}
	setup, err := e.setup.SetupHeader()
	if err != nil {
		return err
	}
	if err := e.out.WritePacket(Packet{Data: setup}); err != nil {
		return err
	}
	e.packets += 2
	return nil
}

// Write encodes pcm, one slice per channel, and writes every audio packet
// that becomes complete.
func (e *Encoder) Write(pcm [][]float32) error {
	if e.closed {
		return ErrEndOfStream
	}
	if len(pcm) != e.setup.cfg.Channels {
		return errors.Wrapf(ErrChannelMismatch, "got %d channels, stream has %d", len(pcm), e.setup.cfg.Channels)
	}
	if err := e.writeHeaders(); err != nil {
		return err
	}
	e.analysis.Push(pcm)
	return e.flush()
}

// Close flushes the remaining blocks and marks the last packet as the end
// of the stream. It does not close out.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	if err := e.writeHeaders(); err != nil {
		return err
	}
	e.closed = true
	e.analysis.Finish()
	return e.flush()
}

func (e *Encoder) flush() error {
	for b, ok := e.analysis.Blockout(); ok; b, ok = e.analysis.Blockout() {
		if err := e.encodeBlock(b); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeBlock(b *block.Block) error {
	n := e.setup.cfg.BlockSizes[0]
	if b.W {
		n = e.setup.cfg.BlockSizes[1]
	}
	freq := make([][]float32, len(e.freq))
	for c := range freq {
		freq[c] = e.freq[c][:n/2]
		e.fb.Analyze(b.PCM[c], b.LW, b.W, b.NW, freq[c])
		if e.psy != nil {
			mask := e.mask[:n/2]
			e.psy.Mask(freq[c], mask)
			for i, v := range freq[c] {
				if math.Abs(float64(v)) < float64(mask[i]) {
					freq[c][i] = 0
				}
			}
		}
	}

	e.w.Reset()
	h := PacketHeader{Mode: e.setup.modeFor(b.W), LW: b.LW, NW: b.NW}
	if err := WritePacketHeader(e.w, e.setup, h); err != nil {
		return err
	}
	if err := e.setup.coder.Encode(e.w, freq); err != nil {
		return errors.Wrapf(err, "vorbis: encode block %d", b.Sequence)
	}
	if b.EOS {
		log.Debugf("encoder: last packet, block %d at granule %d", b.Sequence, b.GranulePos)
	}
	e.packets++
	return e.out.WritePacket(Packet{
		Data:       bytes.Clone(e.w.Data()),
		GranulePos: b.GranulePos,
		EOS:        b.EOS,
	})
}
