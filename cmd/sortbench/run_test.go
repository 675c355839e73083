package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rlaau/sortbench/config"
	"github.com/rlaau/sortbench/kvdb"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const wineSample = `"fixed acidity";"volatile acidity";"alcohol"
7;0.27;8.8
6.3;0.3;9.5
8.1;0.28;10.1
7.2;0.23;9.9
7.2;0.23;9.9
8.1;0.28;10.1
6.2;0.32;9.6
7;0.27;8.8
6.3;0.3;9.5
8.1;0.22;11
`

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dataset.Path = "data/wine.csv"
	cfg.Dataset.Column = 2
	cfg.Sizes = []int{4, 10, 500}
	cfg.Repetitions = 2
	cfg.Output.CSV = "out/results.csv"
	cfg.Output.JSON = "out/results.json"
	cfg.Output.Markdown = "out/results.md"
	cfg.Output.Charts = "out/charts.txt"
	cfg.Store = config.Store{Backend: config.BackendBbolt, Path: filepath.Join(dir, "results.db")}
	cfg.Metrics.Textfile = filepath.Join(dir, "sortbench.prom")
	return cfg
}

func TestRunBenchmark(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/wine.csv", []byte(wineSample), 0o644))
	cfg := testConfig(t)
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := runBenchmark(context.Background(), fs, cfg, zap.NewNop(), &out, func() time.Time { return now })
	require.NoError(t, err)
	require.Contains(t, out.String(), "ALGORITHM")
	require.Contains(t, out.String(), "smart")

	raw, err := afero.ReadFile(fs, cfg.Output.CSV)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	// 헤더 + 크기 4, 10. 500은 데이터보다 커서 건너뜀
	require.Len(t, records, 3)
	require.Len(t, records[0], 19)
	require.Equal(t, "4", records[1][0])
	require.Equal(t, "10", records[2][0])

	for _, path := range []string{cfg.Output.JSON, cfg.Output.Markdown, cfg.Output.Charts} {
		ok, err := afero.Exists(fs, path)
		require.NoError(t, err)
		require.True(t, ok, path)
	}

	prom, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	require.Contains(t, string(prom), "sortbench_trials_total")

	store, err := kvdb.Open(cfg.Store, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{kvdb.NewRunID(now)}, runs)
	cells, err := store.Cells(context.Background(), runs[0])
	require.NoError(t, err)
	require.Len(t, cells, 2*3*3)
}

func TestRunBenchmarkSyntheticFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(t)
	cfg.Store.Backend = config.BackendNone
	cfg.Metrics.Textfile = ""
	cfg.Sizes = []int{100}
	cfg.Output = config.Output{CSV: "results.csv"}

	var out bytes.Buffer
	err := runBenchmark(context.Background(), fs, cfg, zap.NewNop(), &out, time.Now)
	require.NoError(t, err)

	raw, err := afero.ReadFile(fs, "results.csv")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(raw), "\n"))
}

func TestRunBenchmarkNoFittingSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/wine.csv", []byte(wineSample), 0o644))
	cfg := testConfig(t)
	cfg.Sizes = []int{500}

	err := runBenchmark(context.Background(), fs, cfg, zap.NewNop(), &bytes.Buffer{}, time.Now)
	require.ErrorContains(t, err, "no size fits")
}

func TestExportAndRuns(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/wine.csv", []byte(wineSample), 0o644))
	cfg := testConfig(t)
	cfg.Algorithms = []string{config.AlgoSmart, config.AlgoQuick}
	ctx := context.Background()

	first := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	for _, ts := range []time.Time{first, second} {
		require.NoError(t, runBenchmark(ctx, fs, cfg, zap.NewNop(), &bytes.Buffer{}, func() time.Time { return ts }))
	}

	var listed bytes.Buffer
	require.NoError(t, listRuns(ctx, cfg.Store, zap.NewNop(), &listed))
	require.Equal(t, kvdb.NewRunID(first)+"\n"+kvdb.NewRunID(second)+"\n", listed.String())

	var exported bytes.Buffer
	require.NoError(t, exportRun(ctx, fs, cfg.Store, zap.NewNop(), exportOptions{}, &exported))
	records, err := csv.NewReader(&exported).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	// 저장된 알고리즘만, 기본 순서(quick 다음 smart)로
	require.Equal(t, []string{"size", "best_quick_t", "best_quick_m", "best_smart_t", "best_smart_m"}, records[0][:5])
	require.Len(t, records[0], 13)

	opts := exportOptions{runID: kvdb.NewRunID(first), out: "old.csv", csvLayout: config.CSVLayoutPortuguese}
	require.NoError(t, exportRun(ctx, fs, cfg.Store, zap.NewNop(), opts, nil))
	raw, err := afero.ReadFile(fs, "old.csv")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "tamanho,melhor_quick_t,melhor_quick_m,melhor_smart_t,"))

	var charts bytes.Buffer
	require.NoError(t, exportRun(ctx, fs, cfg.Store, zap.NewNop(), exportOptions{charts: true}, &charts))
	require.Contains(t, charts.String(), "worst case: mean time (ms)")
	require.Contains(t, charts.String(), "x axis: sizes [4 10]")

	err = exportRun(ctx, fs, cfg.Store, zap.NewNop(), exportOptions{csvLayout: "fr"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown csv layout")

	err = exportRun(ctx, fs, cfg.Store, zap.NewNop(), exportOptions{runID: "20000101T000000.000000000"}, &bytes.Buffer{})
	require.ErrorIs(t, err, kvdb.ErrRunNotFound)
}

func TestInspect(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.Dataset.Path = "missing.csv"
	cfg.Dataset.FallbackSize = 1024

	var out bytes.Buffer
	ic := inspectConfig{algorithm: config.AlgoSmart, size: 1024, shape: "reversed"}
	require.NoError(t, inspect(fs, cfg, zap.NewNop(), ic, &out))
	require.Contains(t, out.String(), "depth limit:  20")
	require.Contains(t, out.String(), "fallbacks:    1")

	ic.size = 5000
	require.ErrorContains(t, inspect(fs, cfg, zap.NewNop(), ic, &out), "exceeds")

	ic = inspectConfig{algorithm: "bogo", shape: "reversed"}
	require.ErrorContains(t, inspect(fs, cfg, zap.NewNop(), ic, &out), "unknown algorithm")
}

func TestRequireStore(t *testing.T) {
	require.Error(t, requireStore(config.Default()))
	cfg := config.Default()
	cfg.Store.Backend = config.BackendPebble
	require.NoError(t, requireStore(cfg))
}
