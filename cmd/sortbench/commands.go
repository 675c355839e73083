package main

import (
	"github.com/cockroachdb/errors"
	"github.com/rlaau/sortbench/config"
	"github.com/rlaau/sortbench/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// globalConfig 모든 하위 명령이 공유하는 옵션
type globalConfig struct {
	configPath  string
	logLevel    string
	development bool
}

// env 하위 명령 실행 환경
type env struct {
	fs     afero.Fs
	cfg    config.Config
	logger *zap.Logger
}

func makeSortbenchCommand() *cobra.Command {
	var global globalConfig
	e := &env{fs: afero.NewOsFs()}

	command := &cobra.Command{
		Use:   "sortbench [command] (flags)",
		Short: "sortbench benchmarks merge sort, quicksort and a depth-bounded hybrid sort.",
		Long: `sortbench benchmarks merge sort, a fixed-pivot quicksort and SmartSort (quicksort that falls
back to merge sort past a recursion depth of floor(2*log2(n))) over sorted, shuffled and
reversed inputs of several sizes, and writes the averaged results as CSV.

Typical usage:
    sortbench run --config bench.yaml
    sortbench run --sizes 500,1500 --repetitions 10 --store-backend pebble --store-path results/pebble
    sortbench export --store-backend pebble --store-path results/pebble --out latest.csv
    sortbench inspect --algorithm smart --size 4898
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(e.fs, global.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") || cfg.Log.Level == "" {
				cfg.Log.Level = global.logLevel
			}
			if cmd.Flags().Changed("dev") {
				cfg.Log.Development = global.development
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	command.PersistentFlags().StringVar(&global.configPath, "config", "", "YAML config file; flags override its values")
	command.PersistentFlags().StringVar(&global.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	command.PersistentFlags().BoolVar(&global.development, "dev", false, "human-readable console logs")

	command.AddCommand(makeRunCommand(e))
	command.AddCommand(makeExportCommand(e))
	command.AddCommand(makeRunsCommand(e))
	command.AddCommand(makeInspectCommand(e))
	return command
}

// storeFlags 저장소 관련 플래그
type storeFlags struct {
	backend string
	path    string
}

func (f *storeFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.backend, "store-backend", "", "result store backend (none, bbolt, badger, pebble)")
	flags.StringVar(&f.path, "store-path", "", "result store file (bbolt) or directory (badger, pebble)")
}

// apply 지정된 플래그만 설정에 덮어씀
func (f *storeFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("store-backend") {
		cfg.Store.Backend = f.backend
	}
	if flags.Changed("store-path") {
		cfg.Store.Path = f.path
	}
}

func requireStore(cfg config.Config) error {
	if cfg.Store.Backend == config.BackendNone || cfg.Store.Backend == "" {
		return errors.New("no result store configured; set --store-backend and --store-path")
	}
	return nil
}
