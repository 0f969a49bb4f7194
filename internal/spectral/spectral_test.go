package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-vorbis/internal/bits"
	"github.com/llehouerou/go-vorbis/internal/codebook"
)

func spectrum(seed int64, channels, n int, peak float64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, n)
		for i := range out[c] {
			out[c][i] = float32((rng.Float64()*2 - 1) * peak)
		}
	}
	return out
}

func alloc(channels, n int) [][]float32 {
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, n)
	}
	return out
}

func TestRaw_RoundTrip(t *testing.T) {
	in := spectrum(1, 2, 128, 40)
	in[1][5] = 0

	w := bits.NewWriter()
	require.NoError(t, Raw{}.Encode(w, in))
	assert.Equal(t, 2*128*32, w.Bits())

	out := alloc(2, 128)
	require.NoError(t, Raw{}.Decode(bits.NewReader(w.Data()), out))
	for c := range in {
		for i := range in[c] {
			want := float64(in[c][i])
			assert.InDelta(t, want, out[c][i], math.Abs(want)*1e-6, "ch %d coeff %d", c, i)
		}
	}
	assert.Zero(t, out[1][5])
}

func TestRaw_Truncated(t *testing.T) {
	w := bits.NewWriter()
	require.NoError(t, Raw{}.Encode(w, spectrum(2, 1, 16, 1)))
	data := w.Data()[:w.Bytes()-1]

	err := Raw{}.Decode(bits.NewReader(data), alloc(1, 16))
	assert.ErrorIs(t, err, bits.ErrExhausted)
}

func newVQ(t *testing.T, dim, levels int) *VQ {
	t.Helper()
	s, err := codebook.Lattice(dim, levels)
	require.NoError(t, err)
	q, err := NewVQ(s)
	require.NoError(t, err)
	return q
}

func TestVQ_RoundTrip(t *testing.T) {
	const peak = 3.0
	const levels = 17
	q := newVQ(t, 2, levels)
	in := spectrum(3, 2, 101, peak) // odd length leaves a partial vector

	w := bits.NewWriter()
	require.NoError(t, q.Encode(w, in))
	out := alloc(2, 101)
	require.NoError(t, q.Decode(bits.NewReader(w.Data()), out))

	step := 2 * peak / (levels - 1)
	for c := range in {
		for i := range in[c] {
			assert.InDelta(t, in[c][i], out[c][i], step/2+1e-4, "ch %d coeff %d", c, i)
		}
	}
}

func TestVQ_SilentChannel(t *testing.T) {
	q := newVQ(t, 2, 3)
	in := alloc(1, 64)

	w := bits.NewWriter()
	require.NoError(t, q.Encode(w, in))
	assert.Equal(t, 32, w.Bits())

	out := [][]float32{make([]float32, 64)}
	out[0][3] = 7
	require.NoError(t, q.Decode(bits.NewReader(w.Data()), out))
	assert.Equal(t, make([]float32, 64), out[0])
}

func TestNewVQ_NeedsValues(t *testing.T) {
	s := &codebook.Static{Dim: 1, Entries: 2, Lengths: []uint8{1, 1}}
	_, err := NewVQ(s)
	assert.ErrorIs(t, err, ErrNoBook)
}
