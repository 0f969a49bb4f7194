package mdct

// butterflies runs the in-place butterfly network over points values of x.
func (l *Lookup) butterflies(x []float32, points int) {
	t := l.trig
	stages := l.log2n - 5

	if stages--; stages > 0 {
		butterflyFirst(t, x, points)
	}

	for i := 1; ; i++ {
		if stages--; stages <= 0 {
			break
		}
		size := points >> i
		for j := 0; j < 1<<i; j++ {
			butterflyGeneric(t, x[size*j:], size, 4<<i)
		}
	}

	for j := 0; j < points; j += 32 {
		butterfly32(x[j:])
	}
}

// butterflyFirst is the first stage of an n-point network; its twiddles are
// read with a fixed stride of 4 complex values.
func butterflyFirst(t, x []float32, points int) {
	x1 := points - 8
	x2 := points>>1 - 8
	ti := 0
	for x2 >= 0 {
		r0 := x[x1+6] - x[x2+6]
		r1 := x[x1+7] - x[x2+7]
		x[x1+6] += x[x2+6]
		x[x1+7] += x[x2+7]
		x[x2+6] = r1*t[ti+1] + r0*t[ti]
		x[x2+7] = r1*t[ti] - r0*t[ti+1]

		r0 = x[x1+4] - x[x2+4]
		r1 = x[x1+5] - x[x2+5]
		x[x1+4] += x[x2+4]
		x[x1+5] += x[x2+5]
		x[x2+4] = r1*t[ti+5] + r0*t[ti+4]
		x[x2+5] = r1*t[ti+4] - r0*t[ti+5]

		r0 = x[x1+2] - x[x2+2]
		r1 = x[x1+3] - x[x2+3]
		x[x1+2] += x[x2+2]
		x[x1+3] += x[x2+3]
		x[x2+2] = r1*t[ti+9] + r0*t[ti+8]
		x[x2+3] = r1*t[ti+8] - r0*t[ti+9]

		r0 = x[x1] - x[x2]
		r1 = x[x1+1] - x[x2+1]
		x[x1] += x[x2]
		x[x1+1] += x[x2+1]
		x[x2] = r1*t[ti+13] + r0*t[ti+12]
		x[x2+1] = r1*t[ti+12] - r0*t[ti+13]

		x1 -= 8
		x2 -= 8
		ti += 16
	}
}

// butterflyGeneric is one later stage over a points-sized chunk, stepping
// through the twiddles by trigint.
func butterflyGeneric(t, x []float32, points, trigint int) {
	x1 := points - 8
	x2 := points>>1 - 8
	ti := 0
	for x2 >= 0 {
		for k := 6; k >= 0; k -= 2 {
			r0 := x[x1+k] - x[x2+k]
			r1 := x[x1+k+1] - x[x2+k+1]
			x[x1+k] += x[x2+k]
			x[x1+k+1] += x[x2+k+1]
			x[x2+k] = r1*t[ti+1] + r0*t[ti]
			x[x2+k+1] = r1*t[ti] - r0*t[ti+1]
			ti += trigint
		}
		x1 -= 8
		x2 -= 8
	}
}

func butterfly8(x []float32) {
	r0 := x[6] + x[2]
	r1 := x[6] - x[2]
	r2 := x[4] + x[0]
	r3 := x[4] - x[0]

	x[6] = r0 + r2
	x[4] = r0 - r2

	r0 = x[5] - x[1]
	r2 = x[7] - x[3]
	x[0] = r1 + r0
	x[2] = r1 - r0

	r0 = x[5] + x[1]
	r1 = x[7] + x[3]
	x[3] = r2 + r3
	x[1] = r2 - r3
	x[7] = r1 + r0
	x[5] = r1 - r0
}

func butterfly16(x []float32) {
	r0 := x[1] - x[9]
	r1 := x[0] - x[8]

	x[8] += x[0]
	x[9] += x[1]
	x[0] = (r0 + r1) * cPI2_8
	x[1] = (r0 - r1) * cPI2_8

	r0 = x[3] - x[11]
	r1 = x[10] - x[2]
	x[10] += x[2]
	x[11] += x[3]
	x[2] = r0
	x[3] = r1

	r0 = x[12] - x[4]
	r1 = x[13] - x[5]
	x[12] += x[4]
	x[13] += x[5]
	x[4] = (r0 - r1) * cPI2_8
	x[5] = (r0 + r1) * cPI2_8

	r0 = x[14] - x[6]
	r1 = x[15] - x[7]
	x[14] += x[6]
	x[15] += x[7]
	x[6] = r0
	x[7] = r1

	butterfly8(x)
	butterfly8(x[8:])
}

func butterfly32(x []float32) {
	r0 := x[30] - x[14]
	r1 := x[31] - x[15]

	x[30] += x[14]
	x[31] += x[15]
	x[14] = r0
	x[15] = r1

	r0 = x[28] - x[12]
	r1 = x[29] - x[13]
	x[28] += x[12]
	x[29] += x[13]
	x[12] = r0*cPI1_8 - r1*cPI3_8
	x[13] = r0*cPI3_8 + r1*cPI1_8

	r0 = x[26] - x[10]
	r1 = x[27] - x[11]
	x[26] += x[10]
	x[27] += x[11]
	x[10] = (r0 - r1) * cPI2_8
	x[11] = (r0 + r1) * cPI2_8

	r0 = x[24] - x[8]
	r1 = x[25] - x[9]
	x[24] += x[8]
	x[25] += x[9]
	x[8] = r0*cPI3_8 - r1*cPI1_8
	x[9] = r1*cPI3_8 + r0*cPI1_8

	r0 = x[22] - x[6]
	r1 = x[7] - x[23]
	x[22] += x[6]
	x[23] += x[7]
	x[6] = r1
	x[7] = r0

	r0 = x[4] - x[20]
	r1 = x[5] - x[21]
	x[20] += x[4]
	x[21] += x[5]
	x[4] = r1*cPI1_8 + r0*cPI3_8
	x[5] = r1*cPI3_8 - r0*cPI1_8

	r0 = x[2] - x[18]
	r1 = x[3] - x[19]
	x[18] += x[2]
	x[19] += x[3]
	x[2] = (r1 + r0) * cPI2_8
	x[3] = (r1 - r0) * cPI2_8

	r0 = x[0] - x[16]
	r1 = x[1] - x[17]
	x[16] += x[0]
	x[17] += x[1]
	x[0] = r1*cPI3_8 + r0*cPI1_8
	x[1] = r1*cPI1_8 - r0*cPI3_8

	butterfly16(x)
	butterfly16(x[16:])
}

// bitReverse permutes the butterfly output held in x[n/2:] into x[:n/2],
// applying the final half-scale twiddles.
func (l *Lookup) bitReverse(x []float32) {
	n2 := l.n >> 1
	bit := l.bitrev
	t := l.trig[l.n:]
	src := x[n2:]

	w0, w1 := 0, n2
	bi, ti := 0, 0
	for w0 < w1 {
		a := bit[bi]
		b := bit[bi+1]
		r0 := src[a+1] - src[b+1]
		r1 := src[a] + src[b]
		r2 := r1*t[ti] + r0*t[ti+1]
		r3 := r1*t[ti+1] - r0*t[ti]

		w1 -= 4

		r0 = (src[a+1] + src[b+1]) * .5
		r1 = (src[a] - src[b]) * .5

		x[w0] = r0 + r2
		x[w1+2] = r0 - r2
		x[w0+1] = r1 + r3
		x[w1+3] = r3 - r1

		a = bit[bi+2]
		b = bit[bi+3]
		r0 = src[a+1] - src[b+1]
		r1 = src[a] + src[b]
		r2 = r1*t[ti+2] + r0*t[ti+3]
		r3 = r1*t[ti+3] - r0*t[ti+2]

		r0 = (src[a+1] + src[b+1]) * .5
		r1 = (src[a] - src[b]) * .5

		x[w0+2] = r0 + r2
		x[w1] = r0 - r2
		x[w0+3] = r1 + r3
		x[w1+1] = r3 - r1

		ti += 4
		bi += 4
		w0 += 4
	}
}
