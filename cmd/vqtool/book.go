package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/go-vorbis/internal/bits"
	"github.com/llehouerou/go-vorbis/internal/codebook"
)

func newBookCmd() *cobra.Command {
	var dim, levels int
	var out string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Build a lattice codebook and describe its header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := codebook.Lattice(dim, levels)
			if err != nil {
				return err
			}
			w := bits.NewWriter()
			if err := s.Pack(w); err != nil {
				return err
			}
			hist := lo.CountValues(s.Lengths)
			fmt.Fprintf(cmd.OutOrStdout(), "entries %d, dim %d, header %d bits\n", s.Entries, s.Dim, w.Bits())
			for _, l := range lo.Uniq(s.Lengths) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %2d-bit codewords: %d\n", l, hist[l])
			}
			if out != "" {
				if err := os.WriteFile(out, w.Data(), 0o644); err != nil {
					return errors.WithStack(err)
				}
				log.Infof("wrote %s", out)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&dim, "dim", 2, "vector dimension")
	f.IntVar(&levels, "levels", 17, "values per dimension")
	f.StringVarP(&out, "output", "o", "", "write the packed header to this file")
	return cmd
}
