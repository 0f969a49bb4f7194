package vorbis

import "fmt"

// Error is a codec error code.
type Error int

// Error codes.
const (
	ErrNone Error = iota
	ErrFormat
	ErrNotAudio
	ErrBadMode
	ErrNoHeaders
	ErrHeaderOrder
	ErrChannelMismatch
	ErrEndOfStream
	ErrBadFloorType
	ErrBadResidueType
	ErrBadSpectralType
)

var errMessages = [...]string{
	"No error",
	"Malformed stream header",
	"Packet is not an audio packet",
	"Invalid mode number",
	"Audio packet before stream headers",
	"Stream header out of order",
	"Channel count does not match the stream",
	"Stream already ended",
	"Unknown floor type",
	"Unknown residue type",
	"Unknown spectral coder",
}

// Error implements the error interface.
func (e Error) Error() string {
	if e >= 0 && int(e) < len(errMessages) {
		return errMessages[e]
	}
	return "unknown error"
}

// FormatError reports a malformed stream header. It matches ErrFormat with
// errors.Is and unwraps to the underlying cause, which may be a codebook or
// bit reader error.
type FormatError struct {
	Header string // "identification", "setup", "codebook 3", ...
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vorbis: %s header: %v", e.Header, e.Err)
}

// Unwrap returns the cause.
func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func formatError(header string, err error) error {
	if err == nil {
		return nil
	}
	return &FormatError{Header: header, Err: err}
}
