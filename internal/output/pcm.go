// Package output converts between planar float samples in [-1, 1] and
// interleaved integer PCM.
package output

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Full-scale multipliers.
const (
	Scale16 = 32768.0
	Scale24 = 8388608.0
	Scale32 = 2147483648.0
)

// FloatScale maps a 16-bit sample back into [-1, 1).
const FloatScale = float32(1.0 / Scale16)

// ErrShortBuffer indicates the destination cannot hold the interleaved
// samples.
var ErrShortBuffer = errors.New("output: destination too short")

// ErrBadWidth indicates a sample width other than 16, 24 or 32 bits.
var ErrBadWidth = errors.New("output: unsupported sample width")

// clip16 scales, rounds half to even and saturates.
func clip16(sample float32) int16 {
	v := float64(sample) * Scale16
	if v >= 32767.0 {
		return 32767
	}
	if v <= -32768.0 {
		return -32768
	}
	return int16(math.RoundToEven(v))
}

func clip24(sample float32) int32 {
	v := float64(sample) * Scale24
	if v >= 8388607.0 {
		return 8388607
	}
	if v <= -8388608.0 {
		return -8388608
	}
	return int32(math.RoundToEven(v))
}

func clip32(sample float32) int32 {
	v := float64(sample) * Scale32
	if v >= 2147483647.0 {
		return 2147483647
	}
	if v <= -2147483648.0 {
		return -2147483648
	}
	return int32(math.RoundToEven(v))
}

// frames returns the common per-channel length of input.
func frames(input [][]float32) int {
	if len(input) == 0 {
		return 0
	}
	n := len(input[0])
	for _, ch := range input[1:] {
		n = min(n, len(ch))
	}
	return n
}

// ToPCM16 interleaves input into output as 16-bit samples and returns the
// number written. With upmix, a single input channel is duplicated into a
// stereo pair.
func ToPCM16(input [][]float32, upmix bool, output []int16) (int, error) {
	n := frames(input)
	switch {
	case len(input) == 1 && upmix:
		if len(output) < n*2 {
			return 0, errors.Wrapf(ErrShortBuffer, "%d frames into %d samples", n, len(output))
		}
		for i, v := range input[0][:n] {
			s := clip16(v)
			output[i*2] = s
			output[i*2+1] = s
		}
		return n * 2, nil
	case len(input) == 1:
		if len(output) < n {
			return 0, errors.Wrapf(ErrShortBuffer, "%d frames into %d samples", n, len(output))
		}
		for i, v := range input[0][:n] {
			output[i] = clip16(v)
		}
		return n, nil
	}

	channels := len(input)
	if len(output) < n*channels {
		return 0, errors.Wrapf(ErrShortBuffer, "%d frames of %d channels into %d samples", n, channels, len(output))
	}
	for c, ch := range input {
		for i, v := range ch[:n] {
			output[i*channels+c] = clip16(v)
		}
	}
	return n * channels, nil
}

// ToPCM24 interleaves input into output as 24-bit samples held in int32.
func ToPCM24(input [][]float32, output []int32) (int, error) {
	return toPCM32(input, output, clip24)
}

// ToPCM32 interleaves input into output as 32-bit samples.
func ToPCM32(input [][]float32, output []int32) (int, error) {
	return toPCM32(input, output, clip32)
}

func toPCM32(input [][]float32, output []int32, clip func(float32) int32) (int, error) {
	n := frames(input)
	channels := len(input)
	if len(output) < n*channels {
		return 0, errors.Wrapf(ErrShortBuffer, "%d frames of %d channels into %d samples", n, channels, len(output))
	}
	for c, ch := range input {
		for i, v := range ch[:n] {
			output[i*channels+c] = clip(v)
		}
	}
	return n * channels, nil
}

// AppendPCM appends input as interleaved little-endian PCM of the given
// sample width: 16, 24 (packed in three bytes) or 32 bits. With upmix a
// single channel is written as a stereo pair.
func AppendPCM(dst []byte, input [][]float32, width int, upmix bool) ([]byte, error) {
	channels := len(input)
	if upmix && channels == 1 {
		channels = 2
	}
	n := frames(input) * channels

	switch width {
	case 16:
		buf := make([]int16, n)
		if _, err := ToPCM16(input, upmix, buf); err != nil {
			return dst, err
		}
		for _, s := range buf {
			dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
		}
		return dst, nil
	case 24, 32:
		if channels != len(input) {
			input = [][]float32{input[0], input[0]}
		}
		buf := make([]int32, n)
		conv := ToPCM32
		if width == 24 {
			conv = ToPCM24
		}
		if _, err := conv(input, buf); err != nil {
			return dst, err
		}
		for _, s := range buf {
			if width == 24 {
				dst = append(dst, byte(s), byte(s>>8), byte(s>>16))
			} else {
				dst = binary.LittleEndian.AppendUint32(dst, uint32(s))
			}
		}
		return dst, nil
	}
	return dst, errors.Wrapf(ErrBadWidth, "%d bits", width)
}

// FromS16LE splits interleaved little-endian 16-bit PCM into planar floats.
// A trailing partial frame is ignored.
func FromS16LE(src []byte, channels int) [][]float32 {
	n := len(src) / (2 * channels)
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, n)
	}
	for i := 0; i < n; i++ {
		for c := range out {
			v := int16(binary.LittleEndian.Uint16(src[(i*channels+c)*2:]))
			out[c][i] = float32(v) * FloatScale
		}
	}
	return out
}
