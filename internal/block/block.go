// Package block schedules the lapped blocks of one stream.
//
// Analysis is the encode side: it buffers incoming PCM, asks a Detector for
// the next block size and hands out one block at a time together with its
// sequence number and granule position. Synthesis is the decode side: it
// overlap-adds inverse-transformed blocks and publishes finished samples,
// trimming against the stream's granule positions at its ends.
package block

import (
	"fmt"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("vorbis/block")

// Library logging stays at warnings until the application installs its own
// backend.
func init() {
	logging.SetLevel(logging.WARNING, "vorbis/block")
}

// Config is the stream shape shared by both halves.
type Config struct {
	Channels   int
	BlockSizes [2]int // short, long
}

// Validate checks that the block sizes are powers of two in [64, 8192]
// with the short size not above the long one.
func (c Config) Validate() error {
	if c.Channels < 1 {
		return errors.Wrapf(ErrInvalidConfig, "%d channels", c.Channels)
	}
	for _, n := range c.BlockSizes {
		if n < 64 || n > 8192 || n&(n-1) != 0 {
			return errors.Wrapf(ErrInvalidConfig, "block size %d", n)
		}
	}
	if c.BlockSizes[0] > c.BlockSizes[1] {
		return errors.Wrapf(ErrInvalidConfig, "short block %d above long block %d", c.BlockSizes[0], c.BlockSizes[1])
	}
	return nil
}

func (c Config) size(long bool) int {
	if long {
		return c.BlockSizes[1]
	}
	return c.BlockSizes[0]
}

// State is the lifecycle stage of a scheduler.
type State int

// Scheduler states.
const (
	Uninitialized State = iota // nothing submitted yet
	Started                    // first block primed, nothing returned
	Steady                     // returning completed samples
	Draining                   // end of stream flagged, tail still pending
	Closed                     // end of stream fully delivered
)

var stateNames = [...]string{"uninitialized", "started", "steady", "draining", "closed"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func invalidState(format string, args ...any) {
	panic(errors.Wrapf(ErrInvalidState, format, args...))
}
