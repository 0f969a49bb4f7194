package codebook

import "errors"

// Codeword construction errors.
var (
	// ErrOverpopulated indicates a length list that claims more codewords
	// than a prefix-free code can hold.
	ErrOverpopulated = errors.New("codebook: overpopulated codeword tree")

	// ErrUnderpopulated indicates a length list that leaves unclaimed
	// codewords (other than the single-entry book).
	ErrUnderpopulated = errors.New("codebook: underpopulated codeword tree")
)

// Header errors.
var (
	// ErrBadMagic indicates the 24-bit codebook sync pattern is missing.
	ErrBadMagic = errors.New("codebook: bad sync pattern")

	// ErrTooLarge indicates dimension and entry count exceed 24 bits combined.
	ErrTooLarge = errors.New("codebook: dimension/entries too large")

	// ErrBadLengths indicates an impossible codeword length table.
	ErrBadLengths = errors.New("codebook: invalid codeword lengths")

	// ErrBadMapType indicates an unknown value mapping type.
	ErrBadMapType = errors.New("codebook: invalid map type")

	// ErrBadDimension indicates a value-mapped book whose vectors have no
	// elements.
	ErrBadDimension = errors.New("codebook: invalid vector dimension")

	// ErrNoQuantList indicates a mapped book without quantized values.
	ErrNoQuantList = errors.New("codebook: missing quantized values")
)

// Decode errors.
var (
	// ErrNotFound indicates no codeword matches the bits available.
	// The reader is poisoned.
	ErrNotFound = errors.New("codebook: codeword not found")

	// ErrNoValues indicates a vector decode on a book with no value mapping.
	ErrNoValues = errors.New("codebook: book has no value mapping")
)
