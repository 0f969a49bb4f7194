// Package lpc fits linear predictors to sample data and runs them forward.
// The block scheduler uses it to extend a signal past its real end so the
// final blocks do not drop off a cliff.
package lpc

// FromData fits an m-coefficient predictor to data using the
// autocorrelation method and Levinson-Durbin recursion, and returns the
// coefficients with the residual error.
//
// The noise floor is held near -100 dB and the filter is slightly damped
// (coefficient k scaled by .99^(k+1)) to keep long predictions stable.
func FromData(data []float32, m int) ([]float32, float64) {
	n := len(data)
	aut := make([]float64, m+1)
	for j := m; j >= 0; j-- {
		var d float64
		for i := j; i < n; i++ {
			d += float64(data[i]) * float64(data[i-j])
		}
		aut[j] = d
	}

	lpc := make([]float64, m)
	err := aut[0] * (1 + 1e-10)
	epsilon := 1e-9*aut[0] + 1e-10

	for i := 0; i < m; i++ {
		if err < epsilon {
			clear(lpc[i:])
			break
		}

		r := -aut[i+1]
		for j := 0; j < i; j++ {
			r -= lpc[j] * aut[i-j]
		}
		r /= err

		lpc[i] = r
		j := 0
		for ; j < i/2; j++ {
			tmp := lpc[j]
			lpc[j] += r * lpc[i-1-j]
			lpc[i-1-j] += r * tmp
		}
		if i&1 != 0 {
			lpc[j] += lpc[j] * r
		}

		err *= 1 - r*r
	}

	const g = .99
	damp := g
	out := make([]float32, m)
	for j := range lpc {
		out[j] = float32(lpc[j] * damp)
		damp *= g
	}
	return out, err
}

// Predict extends a signal: prime holds the len(coeff) samples preceding
// data, and data is filled with predicted samples.
func Predict(coeff, prime, data []float32) {
	m := len(coeff)
	work := make([]float32, m+len(data))
	copy(work, prime[:m])

	for i := range data {
		var y float32
		o := i
		p := m
		for j := 0; j < m; j++ {
			p--
			y -= work[o] * coeff[p]
			o++
		}
		data[i] = y
		work[o] = y
	}
}
