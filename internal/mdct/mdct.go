// Package mdct implements the power-of-two modified discrete cosine
// transform used for the lapped block transform.
//
// The transform is computed with a split-radix butterfly network operating
// in place on half of the output buffer, followed by a bit-reversal stage.
// Trig and permutation tables are built once per size by New.
package mdct

import (
	"errors"
	"math"
	mbits "math/bits"
)

// Size limits.
const (
	MinSize = 64
	MaxSize = 1 << 13
)

// ErrInvalidSize indicates a transform size that is not a power of two in
// [MinSize, MaxSize].
var ErrInvalidSize = errors.New("mdct: size must be a power of two in [64, 8192]")

// Butterfly constants: cos(3π/8), cos(π/4), cos(π/8).
const (
	cPI3_8 = float32(.38268343236508977175)
	cPI2_8 = float32(.70710678118654752441)
	cPI1_8 = float32(.92387953251128675613)
)

// Lookup holds the precomputed tables for one transform size.
//
// Tables are immutable after New. Forward uses a scratch buffer owned by
// the Lookup, so a Lookup must not be used by concurrent Forward calls;
// Backward keeps no state.
type Lookup struct {
	n     int
	log2n int

	// trig layout:
	//   [0, n/2)       first-stage and generic butterfly twiddles
	//   [n/2, n)       pre/post rotation
	//   [n, n+n/4)     bit-reverse stage, half scale
	trig   []float32
	bitrev []int
	scale  float32

	work []float32
}

// New builds the tables for an n-point transform.
func New(n int) (*Lookup, error) {
	if n < MinSize || n > MaxSize || n&(n-1) != 0 {
		return nil, ErrInvalidSize
	}
	l := &Lookup{
		n:      n,
		log2n:  mbits.Len(uint(n)) - 1,
		trig:   make([]float32, n+n/4),
		bitrev: make([]int, n/4),
		scale:  4 / float32(n),
		work:   make([]float32, n),
	}

	n2 := n >> 1
	t := l.trig
	for i := 0; i < n/4; i++ {
		t[i*2] = float32(math.Cos(math.Pi / float64(n) * float64(4*i)))
		t[i*2+1] = float32(-math.Sin(math.Pi / float64(n) * float64(4*i)))
		t[n2+i*2] = float32(math.Cos(math.Pi / float64(2*n) * float64(2*i+1)))
		t[n2+i*2+1] = float32(math.Sin(math.Pi / float64(2*n) * float64(2*i+1)))
	}
	for i := 0; i < n/8; i++ {
		t[n+i*2] = float32(math.Cos(math.Pi/float64(n)*float64(4*i+2)) * .5)
		t[n+i*2+1] = float32(-math.Sin(math.Pi/float64(n)*float64(4*i+2)) * .5)
	}

	mask := 1<<(l.log2n-1) - 1
	msb := 1 << (l.log2n - 2)
	for i := 0; i < n/8; i++ {
		acc := 0
		for j := 0; msb>>j != 0; j++ {
			if (msb>>j)&i != 0 {
				acc |= 1 << j
			}
		}
		l.bitrev[i*2] = (^acc)&mask - 1
		l.bitrev[i*2+1] = acc
	}
	return l, nil
}

// Size returns the transform size n.
func (l *Lookup) Size() int { return l.n }

// Forward transforms n windowed time samples into n/2 coefficients, scaled
// by 4/n.
func (l *Lookup) Forward(in, out []float32) {
	n := l.n
	n2 := n >> 1
	n4 := n >> 2
	n8 := n >> 3
	_ = in[n-1]
	_ = out[n2-1]

	w := l.work
	w2 := w[n2:]
	t := l.trig

	// Fold the window-domain input into n/2 rotated values.
	x0 := n2 + n4
	x1 := x0 + 1
	ti := n2
	i := 0
	for ; i < n8; i += 2 {
		x0 -= 4
		ti -= 2
		r0 := in[x0+2] + in[x1]
		r1 := in[x0] + in[x1+2]
		w2[i] = r1*t[ti+1] + r0*t[ti]
		w2[i+1] = r1*t[ti] - r0*t[ti+1]
		x1 += 4
	}

	x1 = 1
	for ; i < n2-n8; i += 2 {
		ti -= 2
		x0 -= 4
		r0 := in[x0+2] - in[x1]
		r1 := in[x0] - in[x1+2]
		w2[i] = r1*t[ti+1] + r0*t[ti]
		w2[i+1] = r1*t[ti] - r0*t[ti+1]
		x1 += 4
	}

	x0 = n
	for ; i < n2; i += 2 {
		ti -= 2
		x0 -= 4
		r0 := -in[x0+2] - in[x1]
		r1 := -in[x0] - in[x1+2]
		w2[i] = r1*t[ti+1] + r0*t[ti]
		w2[i+1] = r1*t[ti] - r0*t[ti+1]
		x1 += 4
	}

	l.butterflies(w[n2:], n2)
	l.bitReverse(w)

	ti = n2
	for i := 0; i < n4; i++ {
		wi := i * 2
		out[i] = (w[wi]*t[ti] + w[wi+1]*t[ti+1]) * l.scale
		out[n2-1-i] = (w[wi]*t[ti+1] - w[wi+1]*t[ti]) * l.scale
		ti += 2
	}
}

// Backward transforms n/2 coefficients into n time samples. The output is
// not windowed and not rescaled.
func (l *Lookup) Backward(in, out []float32) {
	n := l.n
	n2 := n >> 1
	n4 := n >> 2
	_ = in[n2-1]
	_ = out[n-1]
	t := l.trig

	// Rotate into the upper half of out.
	ix := n2 - 7
	ox := n2 + n4
	ti := n4
	for ix >= 0 {
		ox -= 4
		out[ox] = -in[ix+2]*t[ti+3] - in[ix]*t[ti+2]
		out[ox+1] = in[ix]*t[ti+3] - in[ix+2]*t[ti+2]
		out[ox+2] = -in[ix+6]*t[ti+1] - in[ix+4]*t[ti]
		out[ox+3] = in[ix+4]*t[ti+1] - in[ix+6]*t[ti]
		ix -= 8
		ti += 4
	}

	ix = n2 - 8
	ox = n2 + n4
	ti = n4
	for ix >= 0 {
		ti -= 4
		out[ox] = in[ix+4]*t[ti+3] + in[ix+6]*t[ti+2]
		out[ox+1] = in[ix+4]*t[ti+2] - in[ix+6]*t[ti+3]
		out[ox+2] = in[ix]*t[ti+1] + in[ix+2]*t[ti]
		out[ox+3] = in[ix]*t[ti] - in[ix+2]*t[ti+1]
		ix -= 8
		ox += 4
	}

	l.butterflies(out[n2:], n2)
	l.bitReverse(out)

	// Rotate back and unfold the n/2 values into n samples.
	ox1 := n2 + n4
	ox2 := n2 + n4
	ix = 0
	ti = n2
	for ix < ox1 {
		ox1 -= 4
		out[ox1+3] = out[ix]*t[ti+1] - out[ix+1]*t[ti]
		out[ox2] = -(out[ix]*t[ti] + out[ix+1]*t[ti+1])
		out[ox1+2] = out[ix+2]*t[ti+3] - out[ix+3]*t[ti+2]
		out[ox2+1] = -(out[ix+2]*t[ti+2] + out[ix+3]*t[ti+3])
		out[ox1+1] = out[ix+4]*t[ti+5] - out[ix+5]*t[ti+4]
		out[ox2+2] = -(out[ix+4]*t[ti+4] + out[ix+5]*t[ti+5])
		out[ox1] = out[ix+6]*t[ti+7] - out[ix+7]*t[ti+6]
		out[ox2+3] = -(out[ix+6]*t[ti+6] + out[ix+7]*t[ti+7])
		ox2 += 4
		ix += 8
		ti += 8
	}

	ix = n2 + n4
	ox1 = n4
	ox2 = ox1
	for ox2 < ix {
		ox1 -= 4
		ix -= 4
		out[ox1+3] = out[ix+3]
		out[ox2] = -out[ix+3]
		out[ox1+2] = out[ix+2]
		out[ox2+1] = -out[ix+2]
		out[ox1+1] = out[ix+1]
		out[ox2+2] = -out[ix+1]
		out[ox1] = out[ix]
		out[ox2+3] = -out[ix]
		ox2 += 4
	}

	ix = n2 + n4
	ox1 = n2 + n4
	for ox1 > n2 {
		ox1 -= 4
		out[ox1] = out[ix+3]
		out[ox1+1] = out[ix+2]
		out[ox1+2] = out[ix+1]
		out[ox1+3] = out[ix]
		ix += 4
	}
}
