package vorbis

import (
	"github.com/llehouerou/go-vorbis/internal/bits"
	"github.com/llehouerou/go-vorbis/internal/codebook"
	"github.com/llehouerou/go-vorbis/internal/framing"
)

// FloorType identifies a floor backend. The format defines exactly two.
type FloorType uint16

// Floor backends.
const (
	Floor0 FloorType = 0
	Floor1 FloorType = 1
)

// ParseFloorType validates a floor type tag read from a header.
func ParseFloorType(tag uint32) (FloorType, error) {
	if tag > uint32(Floor1) {
		return 0, formatError("floor", ErrBadFloorType)
	}
	return FloorType(tag), nil
}

// ResidueType identifies a residue backend.
type ResidueType uint16

// Residue backends.
const (
	Residue0 ResidueType = 0
	Residue1 ResidueType = 1
	Residue2 ResidueType = 2
)

// ParseResidueType validates a residue type tag read from a header.
func ParseResidueType(tag uint32) (ResidueType, error) {
	if tag > uint32(Residue2) {
		return 0, formatError("residue", ErrBadResidueType)
	}
	return ResidueType(tag), nil
}

// FloorCodec is a floor backend: it codes the spectral envelope of one
// channel. Implementations live outside this module.
type FloorCodec interface {
	Type() FloorType
	Pack(w *bits.Writer) error
	Unpack(r *bits.Reader, books []*codebook.Book) error
	// Encode fits and writes a floor for spectrum, leaving the residue in
	// residue.
	Encode(w *bits.Writer, spectrum, residue []float32) error
	// Decode reads a floor into curve. A false result marks the channel
	// unused in this packet.
	Decode(r *bits.Reader, curve []float32) (bool, error)
}

// ResidueCodec is a residue backend over the channel vectors of one
// packet.
type ResidueCodec interface {
	Type() ResidueType
	Encode(w *bits.Writer, books []*codebook.Encoder, vectors [][]float32) error
	Decode(r *bits.Reader, books []*codebook.Book, vectors [][]float32) error
}

// PsyModel computes a masking curve for one channel's spectrum. Spectral
// lines below the curve are inaudible.
type PsyModel interface {
	Mask(spectrum, mask []float32)
}

// SpectralCodec codes the per-channel spectra of one block. It is the
// single stage between the transform and the bit packer used by Encoder
// and Decoder.
type SpectralCodec interface {
	Encode(w *bits.Writer, freq [][]float32) error
	Decode(r *bits.Reader, freq [][]float32) error
}

// Packet is one codec packet with its stream position.
type Packet = framing.Packet

// PacketWriter receives finished packets.
type PacketWriter interface {
	WritePacket(p Packet) error
}

// PacketReader supplies packets; it returns io.EOF after the last one.
type PacketReader interface {
	ReadPacket() (Packet, error)
}

// PageFramer carries packets in some container.
type PageFramer interface {
	PacketWriter
	PacketReader
}
