// Package framing stores a packet stream in a flat byte stream.
//
// The stream opens with a 4-byte magic and a version byte. Each packet is
// a flag byte, its granule position as a little-endian int64, a uvarint
// payload length and the payload. Payloads may be zstd compressed
// individually; the flag says which are.
package framing

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Magic opens every framed stream.
const Magic = "VQPK"

// Version is the only stream version written and accepted.
const Version = 1

// MaxPacket bounds the payload length a Reader accepts.
const MaxPacket = 1 << 24

// Packet flags.
const (
	flagBOS        = 1 << 0
	flagEOS        = 1 << 1
	flagCompressed = 1 << 2
	flagMask       = flagBOS | flagEOS | flagCompressed
)

var (
	// ErrBadMagic indicates the stream does not start with Magic.
	ErrBadMagic = errors.New("framing: bad magic")

	// ErrBadVersion indicates an unsupported stream version.
	ErrBadVersion = errors.New("framing: unsupported version")

	// ErrCorrupt indicates a malformed packet header or payload.
	ErrCorrupt = errors.New("framing: corrupt packet")
)

// Packet is one codec packet with its stream position.
type Packet struct {
	Data []byte
	// GranulePos is the stream position after this packet's samples, or
	// -1 when the packet finishes no samples.
	GranulePos int64
	BOS        bool // first packet of the stream
	EOS        bool // last packet of the stream
}

// Writer frames packets onto an io.Writer.
type Writer struct {
	w        *bufio.Writer
	compress bool
	started  bool
	closed   bool
	hdr      []byte
	scratch  []byte
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompression enables zstd compression of payloads that shrink.
func WithCompression(on bool) WriterOption {
	return func(fw *Writer) { fw.compress = on }
}

// NewWriter returns a Writer. Nothing is written until the first packet.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	fw := &Writer{w: bufio.NewWriter(w)}
	for _, o := range opts {
		o(fw)
	}
	return fw
}

// WritePacket frames p.
func (fw *Writer) WritePacket(p Packet) error {
	if fw.closed {
		return errors.New("framing: write after end of stream")
	}
	if !fw.started {
		fw.started = true
		if _, err := fw.w.WriteString(Magic); err != nil {
			return errors.WithStack(err)
		}
		if err := fw.w.WriteByte(Version); err != nil {
			return errors.WithStack(err)
		}
	}

	payload := p.Data
	var flags byte
	if p.BOS {
		flags |= flagBOS
	}
	if p.EOS {
		flags |= flagEOS
	}
	if fw.compress && len(payload) > 0 {
		fw.scratch = compress(fw.scratch[:0], payload)
		if len(fw.scratch) < len(payload) {
			payload = fw.scratch
			flags |= flagCompressed
		}
	}

	fw.hdr = append(fw.hdr[:0], flags)
	fw.hdr = binary.LittleEndian.AppendUint64(fw.hdr, uint64(p.GranulePos))
	fw.hdr = binary.AppendUvarint(fw.hdr, uint64(len(payload)))
	if _, err := fw.w.Write(fw.hdr); err != nil {
		return errors.WithStack(err)
	}
	if _, err := fw.w.Write(payload); err != nil {
		return errors.WithStack(err)
	}
	if p.EOS {
		fw.closed = true
		return fw.Flush()
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (fw *Writer) Flush() error {
	return errors.WithStack(fw.w.Flush())
}

// Reader reads framed packets.
type Reader struct {
	r       *bufio.Reader
	started bool
	hdr     [9]byte
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadPacket returns the next packet, or io.EOF at a clean end of stream.
// The packet's Data is freshly allocated.
func (fr *Reader) ReadPacket() (Packet, error) {
	if !fr.started {
		var head [len(Magic) + 1]byte
		if _, err := io.ReadFull(fr.r, head[:]); err != nil {
			if err == io.EOF {
				return Packet{}, io.EOF
			}
			return Packet{}, errors.Wrap(ErrBadMagic, err.Error())
		}
		if string(head[:len(Magic)]) != Magic {
			return Packet{}, errors.Wrapf(ErrBadMagic, "got %q", head[:len(Magic)])
		}
		if head[len(Magic)] != Version {
			return Packet{}, errors.Wrapf(ErrBadVersion, "version %d", head[len(Magic)])
		}
		fr.started = true
	}

	if _, err := io.ReadFull(fr.r, fr.hdr[:]); err != nil {
		if err == io.EOF {
			return Packet{}, io.EOF
		}
		return Packet{}, errors.Wrap(ErrCorrupt, "truncated packet header")
	}
	flags := fr.hdr[0]
	if flags&^flagMask != 0 {
		return Packet{}, errors.Wrapf(ErrCorrupt, "flags %#x", flags)
	}
	n, err := binary.ReadUvarint(fr.r)
	if err != nil {
		return Packet{}, errors.Wrap(ErrCorrupt, "truncated packet length")
	}
	if n > MaxPacket {
		return Packet{}, errors.Wrapf(ErrCorrupt, "packet of %d bytes", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(fr.r, data); err != nil {
		return Packet{}, errors.Wrap(ErrCorrupt, "truncated payload")
	}
	if flags&flagCompressed != 0 {
		data, err = decompress(data)
		if err != nil {
			return Packet{}, errors.Wrap(ErrCorrupt, err.Error())
		}
	}
	return Packet{
		Data:       data,
		GranulePos: int64(binary.LittleEndian.Uint64(fr.hdr[1:])),
		BOS:        flags&flagBOS != 0,
		EOS:        flags&flagEOS != 0,
	}, nil
}
