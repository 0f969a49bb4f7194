package vorbis

import (
	"bytes"
	mbits "math/bits"

	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/bits"
	"github.com/llehouerou/go-vorbis/internal/codebook"
)

// Header packet types. Audio packets start with a zero bit; headers have
// the low bit of their type byte set.
const (
	packetIdentification = 1
	packetSetup          = 5
)

var headerMagic = []byte("vorbis")

// Identification is the content of the identification header.
type Identification struct {
	Channels   int
	SampleRate int
	BlockSizes [2]int
}

// IdentificationHeader packs the identification header packet.
func (s *Setup) IdentificationHeader() []byte {
	w := bits.NewWriter()
	writeHeaderStart(w, packetIdentification)
	w.Write(0, 32) // version
	w.Write(uint32(s.cfg.Channels), 8)
	w.Write(uint32(s.cfg.SampleRate), 32)
	for range 3 {
		w.Write(0, 32) // bitrate max, nominal, min: unset
	}
	w.Write(uint32(mbits.Len(uint(s.cfg.BlockSizes[0]))-1), 4)
	w.Write(uint32(mbits.Len(uint(s.cfg.BlockSizes[1]))-1), 4)
	w.Write(1, 1)
	return bytes.Clone(w.Data())
}

// SetupHeader packs the setup header packet.
func (s *Setup) SetupHeader() ([]byte, error) {
	w := bits.NewWriter()
	writeHeaderStart(w, packetSetup)

	w.Write(uint32(len(s.cfg.Books)), 8)
	for i, b := range s.cfg.Books {
		if err := b.Pack(w); err != nil {
			return nil, formatError(bookHeader(i), err)
		}
	}
	w.Write(uint32(s.cfg.Spectral), 8)
	w.Write(uint32(s.cfg.SpectralBook), 8)

	w.Write(uint32(len(s.cfg.Modes)-1), 6)
	for _, m := range s.cfg.Modes {
		w.WriteBool(m.BlockFlag)
		w.Write(uint32(m.WindowType), 16)
		w.Write(uint32(m.TransformType), 16)
		w.Write(uint32(m.Mapping), 8)
	}
	w.Write(1, 1)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return bytes.Clone(w.Data()), nil
}

func writeHeaderStart(w *bits.Writer, typ uint32) {
	w.Write(typ, 8)
	for _, c := range headerMagic {
		w.Write(uint32(c), 8)
	}
}

func readHeaderStart(r *bits.Reader, typ uint32) error {
	got, err := r.Read(8)
	if err != nil {
		return err
	}
	if got != typ {
		return errors.Wrapf(ErrHeaderOrder, "packet type %d, want %d", got, typ)
	}
	for _, c := range headerMagic {
		v, err := r.Read(8)
		if err != nil {
			return err
		}
		if byte(v) != c {
			return errors.New("missing vorbis signature")
		}
	}
	return nil
}

// fieldReader reads a sequence of header fields, keeping the first error.
type fieldReader struct {
	r   *bits.Reader
	err error
}

func (f *fieldReader) read(n int) int {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Read(n)
	if err != nil {
		f.err = err
		return 0
	}
	return int(v)
}

// ParseIdentification parses an identification header packet.
func ParseIdentification(data []byte) (Identification, error) {
	var id Identification
	r := bits.NewReader(data)
	if err := readHeaderStart(r, packetIdentification); err != nil {
		return id, formatError("identification", err)
	}
	f := fieldReader{r: r}
	version := f.read(32)
	id.Channels = f.read(8)
	id.SampleRate = f.read(32)
	for range 3 {
		f.read(32)
	}
	id.BlockSizes[0] = 1 << f.read(4)
	id.BlockSizes[1] = 1 << f.read(4)
	framing := f.read(1)

	switch {
	case f.err != nil:
		return id, formatError("identification", f.err)
	case version != 0:
		return id, formatError("identification", errors.Errorf("version %d", version))
	case id.Channels == 0 || id.SampleRate == 0:
		return id, formatError("identification", errors.Errorf("%d channels at %d Hz", id.Channels, id.SampleRate))
	case id.BlockSizes[0] < 64 || id.BlockSizes[1] > 8192 || id.BlockSizes[0] > id.BlockSizes[1]:
		return id, formatError("identification", errors.Errorf("block sizes %v", id.BlockSizes))
	case framing != 1:
		return id, formatError("identification", errors.New("missing framing bit"))
	}
	return id, nil
}

// ParseSetup parses a setup header packet against its identification
// header and returns the stream configuration.
func ParseSetup(id Identification, data []byte) (*Setup, error) {
	r := bits.NewReader(data)
	if err := readHeaderStart(r, packetSetup); err != nil {
		return nil, formatError("setup", err)
	}
	cfg := SetupConfig{
		SampleRate: id.SampleRate,
		Channels:   id.Channels,
		BlockSizes: id.BlockSizes,
	}
	f := fieldReader{r: r}

	nbooks := f.read(8)
	if f.err != nil {
		return nil, formatError("setup", f.err)
	}
	for i := 0; i < nbooks; i++ {
		b, err := codebook.Unpack(r)
		if err != nil {
			return nil, formatError(bookHeader(i), err)
		}
		cfg.Books = append(cfg.Books, b)
	}
	cfg.Spectral = SpectralType(f.read(8))
	cfg.SpectralBook = f.read(8)

	nmodes := f.read(6) + 1
	for i := 0; i < nmodes && f.err == nil; i++ {
		cfg.Modes = append(cfg.Modes, Mode{
			BlockFlag:     f.read(1) == 1,
			WindowType:    uint16(f.read(16)),
			TransformType: uint16(f.read(16)),
			Mapping:       uint8(f.read(8)),
		})
	}
	framing := f.read(1)
	if f.err != nil {
		return nil, formatError("setup", f.err)
	}
	if framing != 1 {
		return nil, formatError("setup", errors.New("missing framing bit"))
	}
	return NewSetup(cfg)
}
