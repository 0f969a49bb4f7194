package block

import "errors"

var (
	// ErrInvalidState is wrapped by the panic raised for calls made in the
	// wrong state, such as submitting a block before the previous one has
	// been read.
	ErrInvalidState = errors.New("block: invalid state")

	// ErrInvalidConfig indicates unusable block sizes or channel count.
	ErrInvalidConfig = errors.New("block: invalid configuration")

	// ErrOverread indicates Read was asked for more samples than are ready.
	ErrOverread = errors.New("block: read past available samples")
)
