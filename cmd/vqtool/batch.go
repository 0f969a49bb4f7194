package main

import (
	"context"
	"runtime"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func addJobsFlag(f *pflag.FlagSet, jobs *int) {
	f.IntVarP(jobs, "jobs", "j", 0, "files processed in parallel (0: one per CPU)")
}

// runBatch applies fn to every file, at most jobs at a time. Streams are
// independent, so each call owns its own encoder or decoder.
func runBatch(ctx context.Context, files []string, jobs int, fn func(ctx context.Context, file string) error) error {
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, f)
		})
	}
	return g.Wait()
}
