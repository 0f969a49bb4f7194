package main

import (
	"bufio"
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	vorbis "github.com/llehouerou/go-vorbis"
	"github.com/llehouerou/go-vorbis/internal/framing"
	"github.com/llehouerou/go-vorbis/internal/output"
)

type decodeOptions struct {
	width int
	upmix bool
	jobs  int
}

func newDecodeCmd() *cobra.Command {
	o := decodeOptions{}
	cmd := &cobra.Command{
		Use:   "decode [flags] file.vq...",
		Short: "Decode .vq streams into raw little-endian PCM files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch o.width {
			case 16, 24, 32:
			default:
				return errors.Errorf("--bits: %d is not 16, 24 or 32", o.width)
			}
			return runBatch(cmd.Context(), args, o.jobs, func(ctx context.Context, file string) error {
				return o.decodeFile(file, file+".raw")
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&o.width, "bits", "b", 16, "output sample width: 16, 24 or 32")
	f.BoolVar(&o.upmix, "upmix", false, "write mono streams as stereo")
	addJobsFlag(f, &o.jobs)
	return cmd
}

func (o *decodeOptions) decodeFile(in, out string) error {
	src, err := os.Open(in)
	if err != nil {
		return errors.WithStack(err)
	}
	defer src.Close()
	dst, err := os.Create(out)
	if err != nil {
		return errors.WithStack(err)
	}
	defer dst.Close()
	bw := bufio.NewWriter(dst)

	dec, err := vorbis.NewDecoder(vorbis.DecoderConfig{})
	if err != nil {
		return err
	}
	var frames int
	var buf []byte
	err = dec.DecodeAll(framing.NewReader(src), func(pcm [][]float32) error {
		frames += len(pcm[0])
		var err error
		buf, err = output.AppendPCM(buf[:0], pcm, o.width, o.upmix)
		if err != nil {
			return err
		}
		_, err = bw.Write(buf)
		return err
	})
	if err != nil {
		return errors.Wrap(err, in)
	}
	if !dec.Done() {
		log.Warningf("%s: stream ends without an end-of-stream packet", in)
	}
	if err := bw.Flush(); err != nil {
		return errors.WithStack(err)
	}
	if err := dst.Close(); err != nil {
		return errors.WithStack(err)
	}
	s := dec.Setup()
	if s != nil {
		log.Infof("%s: %d frames, %d ch at %d Hz -> %s", in, frames, s.Channels(), s.SampleRate(), out)
	}
	return nil
}
