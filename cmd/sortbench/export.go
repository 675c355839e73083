package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/rlaau/sortbench/bench"
	"github.com/rlaau/sortbench/config"
	"github.com/rlaau/sortbench/kvdb"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func makeExportCommand(e *env) *cobra.Command {
	var (
		store storeFlags
		opts  exportOptions
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a stored run as CSV or ASCII charts.",
		Long: `Read a run from the result store (the latest one unless --run-id is given) and write it in the
same CSV layout as the run command, or as ASCII charts with --charts.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg
			store.apply(cmd.Flags(), &cfg)
			if err := requireStore(cfg); err != nil {
				return err
			}
			if !cmd.Flags().Changed("csv-layout") {
				opts.csvLayout = cfg.Output.CSVLayout
			}
			return exportRun(cmd.Context(), e.fs, cfg.Store, e.logger, opts, cmd.OutOrStdout())
		},
	}
	store.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "run id to export (default: latest)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output path (default: stdout)")
	cmd.Flags().StringVar(&opts.csvLayout, "csv-layout", config.CSVLayoutStandard, "CSV header names (standard, pt)")
	cmd.Flags().BoolVar(&opts.charts, "charts", false, "write ASCII charts instead of CSV")
	return cmd
}

func makeRunsCommand(e *env) *cobra.Command {
	var store storeFlags
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the run ids in the result store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg
			store.apply(cmd.Flags(), &cfg)
			if err := requireStore(cfg); err != nil {
				return err
			}
			return listRuns(cmd.Context(), cfg.Store, e.logger, cmd.OutOrStdout())
		},
	}
	store.register(cmd.Flags())
	return cmd
}

// storedAlgorithms 셀에 나타난 알고리즘을 기본 출력 순서로
func storedAlgorithms(cells []bench.Cell) []string {
	var algorithms []string
	for _, algo := range config.KnownAlgorithms {
		if slices.ContainsFunc(cells, func(c bench.Cell) bool { return c.Algorithm == algo }) {
			algorithms = append(algorithms, algo)
		}
	}
	return algorithms
}

// exportOptions export 명령 옵션
type exportOptions struct {
	runID     string
	out       string
	csvLayout string
	charts    bool
}

func exportRun(
	ctx context.Context, fs afero.Fs, cfg config.Store, logger *zap.Logger, opts exportOptions, stdout io.Writer,
) (err error) {
	if opts.csvLayout != "" && !slices.Contains(config.KnownCSVLayouts, opts.csvLayout) {
		return errors.Newf("unknown csv layout %q (known: %v)", opts.csvLayout, config.KnownCSVLayouts)
	}
	store, err := kvdb.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, store.Close())
	}()

	runID := opts.runID
	if runID == "" {
		if runID, err = kvdb.Latest(ctx, store); err != nil {
			return err
		}
	}
	cells, err := store.Cells(ctx, runID)
	if err != nil {
		return err
	}
	table := bench.NewTable(cells, storedAlgorithms(cells))
	table.CSVLayout = opts.csvLayout

	if opts.out == "" {
		if opts.charts {
			return table.WriteCharts(stdout)
		}
		return table.WriteCSV(stdout)
	}
	out := bench.Outputs{CSV: opts.out, CSVLayout: opts.csvLayout}
	if opts.charts {
		out = bench.Outputs{Charts: opts.out}
	}
	if _, err := bench.WriteReports(fs, out, cells, table.Algorithms, timeNow()); err != nil {
		return err
	}
	logger.Info("run exported", zap.String("run", runID), zap.String("path", opts.out))
	return nil
}

func listRuns(ctx context.Context, cfg config.Store, logger *zap.Logger, stdout io.Writer) (err error) {
	store, err := kvdb.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, store.Close())
	}()

	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	for _, id := range runs {
		fmt.Fprintln(stdout, id)
	}
	return nil
}
