// Package config 벤치마크 실행 설정 (YAML 파일 + 기본값)
package config

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// 알고리즘 이름
const (
	AlgoMerge         = "merge"
	AlgoQuick         = "quick"
	AlgoSmart         = "smart"
	AlgoParallelMerge = "parallel_merge"
	AlgoParallelQuick = "parallel_quick"
)

// 결과 저장소 종류
const (
	BackendNone   = "none"
	BackendBbolt  = "bbolt"
	BackendBadger = "badger"
	BackendPebble = "pebble"
)

// KnownAlgorithms 지원하는 알고리즘 (출력 순서 기준)
var KnownAlgorithms = []string{AlgoMerge, AlgoQuick, AlgoSmart, AlgoParallelMerge, AlgoParallelQuick}

// CSV 헤더 형식
const (
	// CSVLayoutStandard size, best_merge_t, ...
	CSVLayoutStandard = "standard"
	// CSVLayoutPortuguese tamanho, melhor_merge_t, medio_..., pior_... (기존 그래프 스크립트 호환)
	CSVLayoutPortuguese = "pt"
)

// KnownCSVLayouts 지원하는 CSV 헤더 형식
var KnownCSVLayouts = []string{CSVLayoutStandard, CSVLayoutPortuguese}

// KnownBackends 지원하는 저장소
var KnownBackends = []string{BackendNone, BackendBbolt, BackendBadger, BackendPebble}

// Dataset 입력 데이터 설정
type Dataset struct {
	Path          string  `yaml:"path"`
	Column        int     `yaml:"column"`
	Separator     string  `yaml:"separator"`
	SkipHeader    bool    `yaml:"skip_header"`
	FallbackSize  int     `yaml:"fallback_size"`
	FallbackScale float64 `yaml:"fallback_scale"`
}

// Output 결과 파일 경로. 빈 문자열이면 쓰지 않음
type Output struct {
	CSV       string `yaml:"csv"`
	CSVLayout string `yaml:"csv_layout"`
	JSON      string `yaml:"json"`
	Markdown  string `yaml:"markdown"`
	Charts    string `yaml:"charts"`
}

// Store 결과 저장소 설정
type Store struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Metrics 프로메테우스 textfile 출력
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Log 로거 설정
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config 전체 설정
type Config struct {
	Dataset     Dataset  `yaml:"dataset"`
	Sizes       []int    `yaml:"sizes"`
	Repetitions int      `yaml:"repetitions"`
	Seed        uint64   `yaml:"seed"`
	Algorithms  []string `yaml:"algorithms"`
	Workers     int      `yaml:"workers"`
	Output      Output   `yaml:"output"`
	Store       Store    `yaml:"store"`
	Metrics     Metrics  `yaml:"metrics"`
	Log         Log      `yaml:"log"`
}

// Default 기본 설정 (와인 품질 데이터셋 알코올 컬럼, 50회 반복)
func Default() Config {
	return Config{
		Dataset: Dataset{
			Path:          "CSV/winequality-white.csv",
			Column:        10,
			Separator:     ";",
			SkipHeader:    true,
			FallbackSize:  5000,
			FallbackScale: 100,
		},
		Sizes:       []int{500, 1500, 3000, 4000, 4898},
		Repetitions: 50,
		Seed:        42,
		Algorithms:  []string{AlgoMerge, AlgoQuick, AlgoSmart},
		Output: Output{
			CSV:       "CSV/resultados_completo.csv",
			CSVLayout: CSVLayoutStandard,
		},
		Store: Store{Backend: BackendNone},
		Log:   Log{Level: "info"},
	}
}

// Load path의 YAML을 기본값 위에 덮어씀. path가 비어 있으면 기본값 그대로
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Validate 설정 값 검사
func (c Config) Validate() error {
	if c.Repetitions <= 0 {
		return errors.Newf("repetitions must be positive, got %d", c.Repetitions)
	}
	if len(c.Sizes) == 0 {
		return errors.New("at least one size is required")
	}
	for i, n := range c.Sizes {
		if n <= 0 {
			return errors.Newf("sizes must be positive, got %d", n)
		}
		if slices.Contains(c.Sizes[:i], n) {
			return errors.Newf("size %d listed twice", n)
		}
	}
	if len(c.Algorithms) == 0 {
		return errors.New("at least one algorithm is required")
	}
	for i, a := range c.Algorithms {
		if !slices.Contains(KnownAlgorithms, a) {
			return errors.Newf("unknown algorithm %q (known: %v)", a, KnownAlgorithms)
		}
		if slices.Contains(c.Algorithms[:i], a) {
			return errors.Newf("algorithm %q listed twice", a)
		}
	}
	if !slices.Contains(KnownCSVLayouts, c.Output.CSVLayout) {
		return errors.Newf("unknown csv layout %q (known: %v)", c.Output.CSVLayout, KnownCSVLayouts)
	}
	if c.Dataset.Column < 0 {
		return errors.Newf("dataset column must not be negative, got %d", c.Dataset.Column)
	}
	if len([]rune(c.Dataset.Separator)) != 1 {
		return errors.Newf("dataset separator must be a single character, got %q", c.Dataset.Separator)
	}
	if c.Dataset.FallbackSize <= 0 {
		return errors.Newf("fallback size must be positive, got %d", c.Dataset.FallbackSize)
	}
	if !slices.Contains(KnownBackends, c.Store.Backend) {
		return errors.Newf("unknown store backend %q (known: %v)", c.Store.Backend, KnownBackends)
	}
	if c.Store.Backend != BackendNone && c.Store.Path == "" {
		return errors.Newf("store backend %s needs a path", c.Store.Backend)
	}
	return nil
}

// SeparatorRune 구분자 문자
func (d Dataset) SeparatorRune() rune {
	return []rune(d.Separator)[0]
}
