package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	vorbis "github.com/llehouerou/go-vorbis"
	"github.com/llehouerou/go-vorbis/internal/block"
	"github.com/llehouerou/go-vorbis/internal/codebook"
	"github.com/llehouerou/go-vorbis/internal/framing"
	"github.com/llehouerou/go-vorbis/internal/output"
)

type encodeOptions struct {
	rate       int
	channels   int
	blockSizes []int
	raw        bool
	levels     int
	fixed      string
	compress   bool
	jobs       int
	chunk      int
}

func newEncodeCmd() *cobra.Command {
	o := encodeOptions{}
	cmd := &cobra.Command{
		Use:   "encode [flags] file.raw...",
		Short: "Encode raw s16le PCM files into .vq streams",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setup, err := o.setup()
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), args, o.jobs, func(ctx context.Context, file string) error {
				return o.encodeFile(setup, file, outputName(file, ".raw", ".vq"))
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&o.rate, "rate", "r", 44100, "sample rate in Hz")
	f.IntVarP(&o.channels, "channels", "c", 2, "interleaved channel count")
	f.IntSliceVar(&o.blockSizes, "block-sizes", []int{256, 2048}, "short,long block sizes")
	f.BoolVar(&o.raw, "lossless", false, "store coefficients as packed floats instead of VQ")
	f.IntVar(&o.levels, "levels", 17, "lattice levels per dimension of the VQ codebook")
	f.StringVar(&o.fixed, "blocks", "auto", "block size choice: auto, short or long")
	f.BoolVar(&o.compress, "zstd", false, "zstd-compress packets in the stream")
	addJobsFlag(f, &o.jobs)
	f.IntVar(&o.chunk, "chunk", 4096, "frames fed to the encoder per write")
	return cmd
}

func (o *encodeOptions) setup() (*vorbis.Setup, error) {
	if len(o.blockSizes) != 2 {
		return nil, errors.Errorf("--block-sizes wants two values, got %v", o.blockSizes)
	}
	cfg := vorbis.DefaultSetupConfig(o.rate, o.channels)
	cfg.BlockSizes = [2]int{o.blockSizes[0], o.blockSizes[1]}
	if o.raw {
		cfg.Spectral = vorbis.SpectralRaw
	} else if o.levels != 17 {
		book, err := codebook.Lattice(2, o.levels)
		if err != nil {
			return nil, err
		}
		cfg.Books[0] = book
	}
	return vorbis.NewSetup(cfg)
}

func (o *encodeOptions) detector() (block.Detector, error) {
	switch o.fixed {
	case "auto":
		return nil, nil
	case "short":
		return block.Fixed{}, nil
	case "long":
		return block.Fixed{Long: true}, nil
	}
	return nil, errors.Errorf("--blocks: unknown choice %q", o.fixed)
}

func outputName(in, oldExt, newExt string) string {
	return strings.TrimSuffix(in, oldExt) + newExt
}

func (o *encodeOptions) encodeFile(setup *vorbis.Setup, in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return errors.WithStack(err)
	}
	pcm := output.FromS16LE(data, setup.Channels())

	det, err := o.detector()
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	w := framing.NewWriter(f, framing.WithCompression(o.compress))
	enc, err := vorbis.NewEncoder(w, vorbis.EncoderConfig{Setup: setup, Detector: det})
	if err != nil {
		return err
	}
	frames := len(pcm[0])
	chunk := max(o.chunk, 1)
	for pos := 0; pos < frames; pos += chunk {
		end := min(pos+chunk, frames)
		part := make([][]float32, len(pcm))
		for c := range pcm {
			part[c] = pcm[c][pos:end]
		}
		if err := enc.Write(part); err != nil {
			return errors.Wrap(err, in)
		}
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, in)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	log.Infof("%s: %d frames in %d packets -> %s", in, frames, enc.Packets(), out)
	return nil
}
