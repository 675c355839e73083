package main

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rlaau/sortbench/bench"
	"github.com/rlaau/sortbench/config"
	"github.com/rlaau/sortbench/dataset"
	"github.com/rlaau/sortbench/kvdb"
	"github.com/rlaau/sortbench/metrics"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runFlags run 명령 플래그. 지정된 것만 설정 파일 값을 덮어씀
type runFlags struct {
	datasetPath string
	column      int
	sizes       []int
	repetitions int
	seed        uint64
	algorithms  []string
	workers     int
	csvOut      string
	jsonOut     string
	markdownOut string
	chartsOut   string
	csvLayout   string
	metricsOut  string
	store       storeFlags
}

func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("dataset") {
		cfg.Dataset.Path = f.datasetPath
	}
	if changed("column") {
		cfg.Dataset.Column = f.column
	}
	if changed("sizes") {
		cfg.Sizes = f.sizes
	}
	if changed("repetitions") {
		cfg.Repetitions = f.repetitions
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("algorithms") {
		cfg.Algorithms = f.algorithms
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("out") {
		cfg.Output.CSV = f.csvOut
	}
	if changed("json") {
		cfg.Output.JSON = f.jsonOut
	}
	if changed("markdown") {
		cfg.Output.Markdown = f.markdownOut
	}
	if changed("charts") {
		cfg.Output.Charts = f.chartsOut
	}
	if changed("csv-layout") {
		cfg.Output.CSVLayout = f.csvLayout
	}
	if changed("metrics-textfile") {
		cfg.Metrics.Textfile = f.metricsOut
	}
	f.store.apply(cmd.Flags(), cfg)
}

func makeRunCommand(e *env) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark and write the results.",
		Long: `Run every size x scenario x algorithm combination, averaging time and allocated bytes
over the configured number of repetitions. Results go to CSV (and optionally JSON,
Markdown and ASCII charts), to the result store when one is configured, and to a summary table on stdout.

If the dataset cannot be read, synthetic uniform values are generated instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg
			flags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBenchmark(cmd.Context(), e.fs, cfg, e.logger, cmd.OutOrStdout(), time.Now)
		},
	}
	def := config.Default()
	cmd.Flags().StringVar(&flags.datasetPath, "dataset", def.Dataset.Path, "delimited input file")
	cmd.Flags().IntVar(&flags.column, "column", def.Dataset.Column, "zero-based column to read")
	cmd.Flags().IntSliceVar(&flags.sizes, "sizes", def.Sizes, "input sizes")
	cmd.Flags().IntVar(&flags.repetitions, "repetitions", def.Repetitions, "trials per combination")
	cmd.Flags().Uint64Var(&flags.seed, "seed", def.Seed, "shuffle seed")
	cmd.Flags().StringSliceVar(&flags.algorithms, "algorithms", def.Algorithms, "algorithms to run (merge, quick, smart, parallel_merge, parallel_quick)")
	cmd.Flags().IntVar(&flags.workers, "workers", def.Workers, "worker slots for parallel algorithms (0 = CPU count)")
	cmd.Flags().StringVar(&flags.csvOut, "out", def.Output.CSV, "CSV output path (empty to skip)")
	cmd.Flags().StringVar(&flags.jsonOut, "json", def.Output.JSON, "JSON output path (empty to skip)")
	cmd.Flags().StringVar(&flags.markdownOut, "markdown", def.Output.Markdown, "Markdown output path (empty to skip)")
	cmd.Flags().StringVar(&flags.chartsOut, "charts", def.Output.Charts, "ASCII chart output path (empty to skip)")
	cmd.Flags().StringVar(&flags.csvLayout, "csv-layout", def.Output.CSVLayout, "CSV header names (standard, pt)")
	cmd.Flags().StringVar(&flags.metricsOut, "metrics-textfile", def.Metrics.Textfile, "Prometheus textfile output path (empty to skip)")
	flags.store.register(cmd.Flags())
	return cmd
}

// runBenchmark 데이터 로딩부터 결과 저장까지
func runBenchmark(
	ctx context.Context, fs afero.Fs, cfg config.Config, logger *zap.Logger, out io.Writer, now func() time.Time,
) error {
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
	data, synthetic := src.Load(fs, rand.New(rand.NewPCG(cfg.Seed, ^cfg.Seed)), logger)
	logger.Info("dataset ready", zap.Int("records", len(data)), zap.Bool("synthetic", synthetic))

	recorder := metrics.NewRecorder()
	b := bench.New(bench.Options{
		Sizes:       cfg.Sizes,
		Repetitions: cfg.Repetitions,
		Algorithms:  cfg.Algorithms,
		Seed:        cfg.Seed,
		Workers:     cfg.Workers,
	}, logger, recorder)

	cells, err := b.Run(ctx, data)
	if err != nil {
		return errors.Wrap(err, "running benchmark")
	}
	if len(cells) == 0 {
		return errors.Newf("no size fits the %d available records", len(data))
	}

	finished := now()
	written, err := bench.WriteReports(fs, bench.Outputs{
		CSV:       cfg.Output.CSV,
		CSVLayout: cfg.Output.CSVLayout,
		JSON:      cfg.Output.JSON,
		Markdown:  cfg.Output.Markdown,
		Charts:    cfg.Output.Charts,
	}, cells, cfg.Algorithms, finished)
	for _, path := range written {
		logger.Info("report written", zap.String("path", path))
	}
	if err != nil {
		return err
	}

	if cfg.Store.Backend != config.BackendNone {
		runID, err := persist(ctx, cfg.Store, logger, kvdb.NewRunID(finished), cells)
		if err != nil {
			return err
		}
		logger.Info("results stored", zap.String("backend", cfg.Store.Backend), zap.String("run", runID))
	}

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
		logger.Info("metrics written", zap.String("path", cfg.Metrics.Textfile))
	}

	bench.NewTable(cells, cfg.Algorithms).PrintSummary(out)
	return nil
}

func persist(ctx context.Context, cfg config.Store, logger *zap.Logger, runID string, cells []bench.Cell) (_ string, err error) {
	store, err := kvdb.Open(cfg, logger)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.CombineErrors(err, store.Close())
	}()
	if err := store.Put(ctx, runID, cells); err != nil {
		return "", err
	}
	return runID, nil
}
