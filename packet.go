package vorbis

import (
	"github.com/llehouerou/go-vorbis/internal/bits"
)

// PacketHeader is the start of an audio packet.
type PacketHeader struct {
	Mode int
	// LW and NW are the previous and next block sizes, present only in
	// long-block modes.
	LW, NW bool
}

// WritePacketHeader writes h for a stream configured by s.
func WritePacketHeader(w *bits.Writer, s *Setup, h PacketHeader) error {
	m, err := s.Mode(h.Mode)
	if err != nil {
		return err
	}
	w.Write(0, 1)
	w.Write(uint32(h.Mode), s.modeBits)
	if m.BlockFlag {
		w.WriteBool(h.LW)
		w.WriteBool(h.NW)
	}
	return w.Err()
}

// ReadPacketHeader reads an audio packet header. A header packet returns
// ErrNotAudio and an unknown mode ErrBadMode.
func ReadPacketHeader(r *bits.Reader, s *Setup) (PacketHeader, error) {
	var h PacketHeader
	typ, err := r.Read(1)
	if err != nil {
		return h, err
	}
	if typ != 0 {
		return h, ErrNotAudio
	}
	mode, err := r.Read(s.modeBits)
	if err != nil {
		return h, err
	}
	h.Mode = int(mode)
	m, err := s.Mode(h.Mode)
	if err != nil {
		return h, err
	}
	if m.BlockFlag {
		if h.LW, err = r.ReadBool(); err != nil {
			return h, err
		}
		if h.NW, err = r.ReadBool(); err != nil {
			return h, err
		}
	}
	return h, nil
}
