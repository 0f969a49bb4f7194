package vorbis

import (
	mbits "math/bits"
	"slices"
	"strconv"

	"github.com/pkg/errors"

	"github.com/llehouerou/go-vorbis/internal/block"
	"github.com/llehouerou/go-vorbis/internal/codebook"
	"github.com/llehouerou/go-vorbis/internal/spectral"
)

// Limits on header fields.
const (
	MaxChannels = 255
	MaxModes    = 64
	MaxBooks    = 255
)

// SpectralType selects the spectral coder a stream uses.
type SpectralType uint8

// Spectral coders.
const (
	SpectralRaw SpectralType = 0 // packed floats, one per coefficient
	SpectralVQ  SpectralType = 1 // peak gain plus codebook vectors
)

// Mode is one entry of the stream's mode table. An audio packet names its
// mode, which fixes its block size.
type Mode struct {
	BlockFlag     bool // long block
	WindowType    uint16
	TransformType uint16
	Mapping       uint8
}

// SetupConfig describes a stream. It is validated and frozen by NewSetup.
type SetupConfig struct {
	SampleRate int
	Channels   int
	BlockSizes [2]int // short, long

	Modes []Mode
	Books []*codebook.Static

	Spectral     SpectralType
	SpectralBook int // codebook index used by SpectralVQ
}

// DefaultSetupConfig returns a two-mode configuration with 256/2048 sample
// blocks and a VQ spectral coder over a 2-dimensional 17-level lattice.
func DefaultSetupConfig(sampleRate, channels int) SetupConfig {
	book, err := codebook.Lattice(2, 17)
	if err != nil {
		panic(err)
	}
	return SetupConfig{
		SampleRate: sampleRate,
		Channels:   channels,
		BlockSizes: [2]int{256, 2048},
		Modes:      []Mode{{BlockFlag: false}, {BlockFlag: true}},
		Books:      []*codebook.Static{book},
		Spectral:   SpectralVQ,
	}
}

// Setup is the immutable configuration shared by every component of a
// stream: block sizes, mode table and the built codebooks. It is safe for
// concurrent use by any number of encoders and decoders.
type Setup struct {
	cfg      SetupConfig
	books    []*codebook.Book
	encoders []*codebook.Encoder
	coder    SpectralCodec

	modeBits  int
	shortMode int
	longMode  int // -1 without a long mode
}

// NewSetup validates cfg and builds its codebooks. Invalid configurations
// return a *FormatError.
func NewSetup(cfg SetupConfig) (*Setup, error) {
	if cfg.SampleRate <= 0 {
		return nil, formatError("identification", errors.Errorf("sample rate %d", cfg.SampleRate))
	}
	if cfg.Channels > MaxChannels {
		return nil, formatError("identification", errors.Errorf("%d channels", cfg.Channels))
	}
	bc := block.Config{Channels: cfg.Channels, BlockSizes: cfg.BlockSizes}
	if err := bc.Validate(); err != nil {
		return nil, formatError("identification", err)
	}
	if len(cfg.Books) > MaxBooks {
		return nil, formatError("setup", errors.Errorf("%d codebooks", len(cfg.Books)))
	}
	if len(cfg.Modes) == 0 || len(cfg.Modes) > MaxModes {
		return nil, formatError("setup", errors.Wrapf(ErrBadMode, "%d modes", len(cfg.Modes)))
	}

	s := &Setup{
		cfg:       cfg,
		shortMode: -1,
		longMode:  -1,
		modeBits:  mbits.Len(uint(len(cfg.Modes) - 1)),
	}
	s.cfg.Modes = slices.Clone(cfg.Modes)
	s.cfg.Books = slices.Clone(cfg.Books)

	for i, m := range cfg.Modes {
		if m.WindowType != 0 || m.TransformType != 0 || m.Mapping != 0 {
			return nil, formatError("setup", errors.Wrapf(ErrBadMode, "mode %d: %+v", i, m))
		}
		switch {
		case m.BlockFlag && s.longMode < 0:
			s.longMode = i
		case !m.BlockFlag && s.shortMode < 0:
			s.shortMode = i
		}
	}
	if s.shortMode < 0 {
		return nil, formatError("setup", errors.Wrap(ErrBadMode, "no short-block mode"))
	}
	if s.longMode < 0 && cfg.BlockSizes[0] != cfg.BlockSizes[1] {
		return nil, formatError("setup", errors.Wrap(ErrBadMode, "no long-block mode"))
	}

	for i, st := range cfg.Books {
		b, err := codebook.NewBook(st)
		if err != nil {
			return nil, formatError(bookHeader(i), err)
		}
		e, err := codebook.NewEncoder(st)
		if err != nil {
			return nil, formatError(bookHeader(i), err)
		}
		s.books = append(s.books, b)
		s.encoders = append(s.encoders, e)
	}

	switch cfg.Spectral {
	case SpectralRaw:
		s.coder = spectral.Raw{}
	case SpectralVQ:
		if cfg.SpectralBook < 0 || cfg.SpectralBook >= len(cfg.Books) {
			return nil, formatError("setup", errors.Errorf("spectral codebook %d of %d", cfg.SpectralBook, len(cfg.Books)))
		}
		vq, err := spectral.NewVQ(cfg.Books[cfg.SpectralBook])
		if err != nil {
			return nil, formatError(bookHeader(cfg.SpectralBook), err)
		}
		s.coder = vq
	default:
		return nil, formatError("setup", ErrBadSpectralType)
	}
	return s, nil
}

func bookHeader(i int) string {
	return "codebook " + strconv.Itoa(i)
}

// SampleRate returns the stream's sample rate in Hz.
func (s *Setup) SampleRate() int { return s.cfg.SampleRate }

// Channels returns the channel count.
func (s *Setup) Channels() int { return s.cfg.Channels }

// BlockSizes returns the short and long block sizes.
func (s *Setup) BlockSizes() [2]int { return s.cfg.BlockSizes }

// Modes returns a copy of the mode table.
func (s *Setup) Modes() []Mode { return slices.Clone(s.cfg.Modes) }

// Mode returns mode i.
func (s *Setup) Mode(i int) (Mode, error) {
	if i < 0 || i >= len(s.cfg.Modes) {
		return Mode{}, errors.Wrapf(ErrBadMode, "mode %d of %d", i, len(s.cfg.Modes))
	}
	return s.cfg.Modes[i], nil
}

// Books returns the decode side of the codebooks.
func (s *Setup) Books() []*codebook.Book { return slices.Clone(s.books) }

// Encoders returns the encode side of the codebooks.
func (s *Setup) Encoders() []*codebook.Encoder { return slices.Clone(s.encoders) }

// Spectral returns the stream's spectral coder.
func (s *Setup) Spectral() SpectralCodec { return s.coder }

// modeFor returns the first mode with the given block size.
func (s *Setup) modeFor(long bool) int {
	if long && s.longMode >= 0 {
		return s.longMode
	}
	return s.shortMode
}

func (s *Setup) blockConfig() block.Config {
	return block.Config{Channels: s.cfg.Channels, BlockSizes: s.cfg.BlockSizes}
}
