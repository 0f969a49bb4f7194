// Package envelope picks block sizes from the short-term energy envelope.
//
// A sudden rise in energy inside the next long block's span would smear
// pre-echo across the whole block, so the detector asks for a short block
// there instead.
package envelope

import (
	"github.com/op/go-logging"
	"github.com/samber/lo"
)

var log = logging.MustGetLogger("vorbis/envelope")

// Library logging stays at warnings until the application installs its own
// backend.
func init() {
	logging.SetLevel(logging.WARNING, "vorbis/envelope")
}

// Defaults for a Detector.
const (
	DefaultRatio     = 10
	DefaultFloor     = 1e-6
	DefaultSubblocks = 16
)

// Detector is an energy-ratio transient detector. The zero value is not
// usable; construct with New.
type Detector struct {
	// Ratio is the energy rise over the running baseline that counts as a
	// transient.
	Ratio float64
	// Floor is the subblock mean energy below which nothing is a transient.
	Floor float64
	// Subblocks is the number of analysis subblocks per long block.
	Subblocks int
}

// New returns a Detector with the default thresholds.
func New() *Detector {
	return &Detector{Ratio: DefaultRatio, Floor: DefaultFloor, Subblocks: DefaultSubblocks}
}

// Search reports whether the block after the current one may be long. It
// needs a long block of lookahead past centerW unless eof is set.
func (d *Detector) Search(pcm [][]float32, current, centerW, longSize int, eof bool) (bool, bool) {
	if !eof && current < centerW+longSize {
		return false, false
	}
	sub := max(longSize/d.Subblocks, 1)

	// The half block ahead of the centre seeds the baseline.
	start := max(centerW-longSize/2, 0)
	baseline := 0.0
	count := 0
	for at := start; at+sub <= centerW; at += sub {
		baseline += energy(pcm, at, sub)
		count++
	}
	if count > 0 {
		baseline /= float64(count)
	}

	end := min(current, centerW+longSize)
	for at := centerW; at+sub <= end; at += sub {
		e := energy(pcm, at, sub)
		if e > d.Floor && e > baseline*d.Ratio {
			log.Debugf("transient at %d: energy %.3g over baseline %.3g", at, e, baseline)
			return false, true
		}
		baseline = (baseline + e) / 2
	}
	return true, true
}

// energy returns the mean squared sample over n samples from at, summed
// across channels.
func energy(pcm [][]float32, at, n int) float64 {
	return lo.SumBy(pcm, func(ch []float32) float64 {
		var sum float64
		for _, v := range ch[at : at+n] {
			sum += float64(v) * float64(v)
		}
		return sum / float64(n)
	})
}
