// Command vqtool encodes raw PCM into framed packet streams and back.
//
// Usage:
//
//	vqtool encode -r 44100 -c 2 a.raw b.raw   # writes a.vq, b.vq
//	vqtool decode a.vq                        # writes a.vq.raw
//	vqtool decode -b 24 --upmix mono.vq       # 24-bit stereo from a mono stream
//	vqtool book --dim 2 --levels 17           # describes a lattice codebook
//
// Raw PCM is interleaved signed little-endian: 16-bit for encode input,
// 16, 24 or 32-bit for decode output.
package main

import (
	"os"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("vqtool")

const progName = "vqtool"

var leveled logging.LeveledBackend

func setupLogging() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatter := logging.MustStringFormatter("%{level:.4s} %{module}: %{message}")
	leveled = logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(logging.NOTICE, "")
	logging.SetBackend(leveled)
}

func newRootCmd() *cobra.Command {
	var debug, verbose bool
	root := &cobra.Command{
		Use:           progName,
		Short:         "Encode and decode lapped-transform VQ audio streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if leveled == nil {
				setupLogging()
			}
			switch {
			case debug:
				leveled.SetLevel(logging.DEBUG, "")
			case verbose:
				leveled.SetLevel(logging.INFO, "")
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log codec internals")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each file")
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newBookCmd())
	return root
}

func main() {
	setupLogging()
	if err := newRootCmd().Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
