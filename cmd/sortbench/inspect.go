package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/rlaau/sortbench/bench"
	"github.com/rlaau/sortbench/config"
	"github.com/rlaau/sortbench/dataset"
	"github.com/rlaau/sortbench/sort"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var timeNow = time.Now

// inspectConfig inspect 명령 옵션
type inspectConfig struct {
	algorithm string
	size      int
	shape     string
}

func makeInspectCommand(e *env) *cobra.Command {
	ic := inspectConfig{algorithm: config.AlgoSmart, shape: string(bench.ShapeReversed)}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Sort the dataset once with one algorithm and print its operation counts.",
		Long: `Sort the dataset column (or synthetic values when it is unavailable) once, shaped as
sorted, shuffled or reversed, and print comparisons, partitions, merges, merge-sort
fallbacks and the SmartSort depth limit for that size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(e.fs, e.cfg, e.logger, ic, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&ic.algorithm, "algorithm", ic.algorithm, "algorithm to run")
	cmd.Flags().IntVar(&ic.size, "size", ic.size, "number of values to sort (0 = all)")
	cmd.Flags().StringVar(&ic.shape, "shape", ic.shape, "input shape (sorted, shuffled, reversed)")
	return cmd
}

func inspect(fs afero.Fs, cfg config.Config, logger *zap.Logger, ic inspectConfig, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !slices.Contains(config.KnownAlgorithms, ic.algorithm) {
		return errors.Newf("unknown algorithm %q", ic.algorithm)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, ^cfg.Seed))
	src := dataset.Source{
		Path:   cfg.Dataset.Path,
		Column: cfg.Dataset.Column,
		Options: dataset.Options{
			Separator:  cfg.Dataset.SeparatorRune(),
			SkipHeader: cfg.Dataset.SkipHeader,
		},
		FallbackSize:  cfg.Dataset.FallbackSize,
		FallbackScale: cfg.Dataset.FallbackScale,
	}
	data, _ := src.Load(fs, rng, logger)
	if ic.size > 0 {
		if ic.size > len(data) {
			return errors.Newf("size %d exceeds the %d available records", ic.size, len(data))
		}
		data = data[:ic.size]
	}

	var input []float64
	switch bench.Shape(ic.shape) {
	case bench.ShapeSorted:
		input = dataset.Sorted(data)
	case bench.ShapeShuffled:
		input = dataset.Shuffled(data, rng)
	case bench.ShapeReversed:
		input = dataset.Reversed(dataset.Sorted(data))
	default:
		return errors.Newf("unknown shape %q", ic.shape)
	}

	var st sort.Stats
	start := timeNow()
	if err := bench.Sort(ic.algorithm, sort.New[float64]().WithStats(&st), input, sort.NewPool(cfg.Workers)); err != nil {
		return err
	}
	elapsed := timeNow().Sub(start)
	if !slices.IsSorted(input) {
		return errors.Newf("%s produced an unsorted result", ic.algorithm)
	}

	fmt.Fprintf(out, "algorithm:    %s\n", ic.algorithm)
	fmt.Fprintf(out, "input:        %s, %s values\n", ic.shape, humanize.Comma(int64(len(input))))
	fmt.Fprintf(out, "depth limit:  %d\n", sort.DepthLimit(len(input)))
	fmt.Fprintf(out, "comparisons:  %s\n", humanize.Comma(st.Comparisons))
	fmt.Fprintf(out, "partitions:   %s\n", humanize.Comma(st.Partitions))
	fmt.Fprintf(out, "merges:       %s\n", humanize.Comma(st.Merges))
	fmt.Fprintf(out, "fallbacks:    %d\n", st.Fallbacks)
	fmt.Fprintf(out, "max depth:    %d\n", st.MaxDepth)
	fmt.Fprintf(out, "elapsed:      %v (counted)\n", elapsed)
	return nil
}
