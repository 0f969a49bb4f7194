package mdct

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNew_ValidSizes(t *testing.T) {
	for _, n := range []int{64, 128, 256, 512, 1024, 2048, 4096, 8192} {
		l, err := New(n)
		if err != nil {
			t.Fatalf("New(%d): %v", n, err)
		}
		if l.Size() != n {
			t.Errorf("Size() = %d, want %d", l.Size(), n)
		}
		if len(l.trig) != n+n/4 {
			t.Errorf("n=%d: trig length = %d, want %d", n, len(l.trig), n+n/4)
		}
		if len(l.bitrev) != n/4 {
			t.Errorf("n=%d: bitrev length = %d, want %d", n, len(l.bitrev), n/4)
		}
		if want := 4 / float32(n); l.scale != want {
			t.Errorf("n=%d: scale = %v, want %v", n, l.scale, want)
		}
		if 1<<l.log2n != n {
			t.Errorf("n=%d: log2n = %d", n, l.log2n)
		}
	}
}

func TestNew_InvalidSizes(t *testing.T) {
	for _, n := range []int{0, 8, 32, 100, 96, 16384, -64} {
		if _, err := New(n); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d) err = %v, want ErrInvalidSize", n, err)
		}
	}
}

func TestBitrev_InRange(t *testing.T) {
	l, err := New(256)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range l.bitrev {
		if b < 0 || b+1 >= l.n/2 {
			t.Errorf("bitrev[%d] = %d out of range", i, b)
		}
	}
}

func TestForward_ZeroIn_ZeroOut(t *testing.T) {
	for _, n := range []int{64, 256, 2048} {
		l, _ := New(n)
		in := make([]float32, n)
		freq := make([]float32, n/2)
		l.Forward(in, freq)
		for i, v := range freq {
			if v != 0 {
				t.Fatalf("n=%d: freq[%d] = %v", n, i, v)
			}
		}
		out := make([]float32, n)
		l.Backward(freq, out)
		for i, v := range out {
			if v != 0 {
				t.Fatalf("n=%d: out[%d] = %v", n, i, v)
			}
		}
	}
}

// directMDCT is the textbook O(n^2) definition, scaled like Forward.
func directMDCT(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n/2)
	for k := range out {
		var sum float64
		for i, x := range in {
			sum += x * math.Cos(2*math.Pi/float64(n)*(float64(i)+.5+float64(n)/4)*(float64(k)+.5))
		}
		out[k] = sum * 4 / float64(n)
	}
	return out
}

func TestForward_MatchesDefinition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{64, 128, 256} {
		l, _ := New(n)
		in := make([]float32, n)
		ref := make([]float64, n)
		for i := range in {
			in[i] = float32(rng.Float64()*2 - 1)
			ref[i] = float64(in[i])
		}
		got := make([]float32, n/2)
		l.Forward(in, got)
		want := directMDCT(ref)
		for k := range want {
			if d := math.Abs(float64(got[k]) - want[k]); d > 1e-5 {
				t.Errorf("n=%d: X[%d] = %v, want %v", n, k, got[k], want[k])
			}
		}
	}
}

// A forward/backward pair leaves the input plus its time-domain alias:
// the first half mirrored with negative sign, the second half mirrored with
// positive sign. Overlap-add of windowed neighbours cancels the alias.
func TestBackward_AliasingIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{64, 128, 512, 2048} {
		l, _ := New(n)
		n2 := n / 2
		in := make([]float32, n)
		for i := range in {
			in[i] = float32(rng.Float64()*2 - 1)
		}
		freq := make([]float32, n2)
		out := make([]float32, n)
		l.Forward(in, freq)
		l.Backward(freq, out)

		for i := 0; i < n2; i++ {
			want := in[i] - in[n2-1-i]
			if d := math.Abs(float64(out[i] - want)); d > 1e-4 {
				t.Fatalf("n=%d: out[%d] = %v, want %v", n, i, out[i], want)
			}
			want = in[n2+i] + in[n-1-i]
			if d := math.Abs(float64(out[n2+i] - want)); d > 1e-4 {
				t.Fatalf("n=%d: out[%d] = %v, want %v", n, n2+i, out[n2+i], want)
			}
		}
	}
}

func TestForwardBackward_ImpulseEnergy(t *testing.T) {
	for _, n := range []int{64, 256, 2048} {
		l, _ := New(n)
		n2 := n / 2
		for _, p := range []int{0, 5, n2 / 3, n2 + 7, n - 1} {
			// sine-squared window value at p
			h := float64(n2)
			idx := p
			if p >= n2 {
				idx = n - 1 - p
			}
			s := math.Sin((float64(idx) + .5) / h * math.Pi / 2)
			amp := math.Sin(math.Pi / 2 * s * s)

			in := make([]float32, n)
			in[p] = float32(amp)
			freq := make([]float32, n2)
			out := make([]float32, n)
			l.Forward(in, freq)
			l.Backward(freq, out)

			var energy float64
			for _, v := range out {
				energy += float64(v) * float64(v)
			}
			want := 2 * float64(in[p]) * float64(in[p])
			if rel := math.Abs(energy-want) / want; rel > 1e-5 {
				t.Errorf("n=%d p=%d: energy %v, want %v (rel %g)", n, p, energy, want, rel)
			}
		}
	}
}

func TestForward_Linear(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 256
	l, _ := New(n)
	a := make([]float32, n)
	b := make([]float32, n)
	sum := make([]float32, n)
	for i := range a {
		a[i] = float32(rng.Float64() - .5)
		b[i] = float32(rng.Float64() - .5)
		sum[i] = a[i] + b[i]
	}
	fa := make([]float32, n/2)
	fb := make([]float32, n/2)
	fs := make([]float32, n/2)
	l.Forward(a, fa)
	l.Forward(b, fb)
	l.Forward(sum, fs)
	for k := range fs {
		if d := math.Abs(float64(fs[k] - fa[k] - fb[k])); d > 1e-5 {
			t.Fatalf("X[%d]: %v != %v + %v", k, fs[k], fa[k], fb[k])
		}
	}
}
