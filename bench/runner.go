// Package bench 정렬 알고리즘 벤치마크 실행기.
// 크기 × 시나리오 × 알고리즘 조합마다 반복 측정 후 평균을 냄
package bench

import (
	"context"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/rlaau/sortbench/dataset"
	"github.com/rlaau/sortbench/sort"
	"go.uber.org/zap"
)

// Cell (크기, 시나리오, 알고리즘) 하나의 평균 측정값
type Cell struct {
	Size            int      `json:"size"`
	Scenario        Scenario `json:"scenario"`
	Algorithm       string   `json:"algorithm"`
	Shape           Shape    `json:"shape"`
	Trials          int      `json:"trials"`
	MeanMillis      float64  `json:"mean_ms"`
	MeanAllocBytes  float64  `json:"mean_alloc_bytes"`
	MeanComparisons float64  `json:"mean_comparisons"`
	MeanFallbacks   float64  `json:"mean_fallbacks"`
}

// Trial 측정 1회 결과
type Trial struct {
	Duration    time.Duration
	AllocBytes  uint64
	Comparisons int64
	Fallbacks   int64
}

// Observer 측정 1회마다 호출됨 (메트릭 수집용)
type Observer interface {
	ObserveTrial(algorithm string, scenario Scenario, size int, t Trial)
}

// Options 벤치마크 설정
type Options struct {
	Sizes       []int
	Repetitions int
	Algorithms  []string
	Seed        uint64
	Workers     int
}

// Benchmark 벤치마크 실행기
type Benchmark struct {
	opts     Options
	logger   *zap.Logger
	observer Observer
	rng      *rand.Rand
	pool     *sort.Pool
	sorter   *sort.Sorter[float64]
}

// New 벤치마크 생성. observer는 nil 가능
func New(opts Options, logger *zap.Logger, observer Observer) *Benchmark {
	return &Benchmark{
		opts:     opts,
		logger:   logger,
		observer: observer,
		rng:      rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
		pool:     sort.NewPool(opts.Workers),
		sorter:   sort.New[float64](),
	}
}

// Run data 앞쪽 n개씩 잘라 모든 조합을 측정. data보다 큰 크기는 건너뜀
func (b *Benchmark) Run(ctx context.Context, data []float64) ([]Cell, error) {
	b.logger.Info("starting benchmark",
		zap.Int("records", len(data)),
		zap.Ints("sizes", b.opts.Sizes),
		zap.Int("repetitions", b.opts.Repetitions),
		zap.Int("cpus", runtime.NumCPU()),
		zap.Int("gomaxprocs", runtime.GOMAXPROCS(0)))

	var cells []Cell
	for _, n := range b.opts.Sizes {
		if n > len(data) {
			b.logger.Info("skipping size larger than dataset", zap.Int("size", n))
			continue
		}
		b.logger.Info("testing size", zap.Int("size", n))

		base := slices.Clone(data[:n])
		sorted := dataset.Sorted(base)

		for _, sc := range Scenarios {
			for _, algo := range b.opts.Algorithms {
				cell, err := b.runCell(ctx, base, sorted, sc, algo)
				if err != nil {
					return nil, errors.Wrapf(err, "size %d %s %s", n, sc, algo)
				}
				cells = append(cells, cell)
			}
		}
		b.logWorst(n, cells)
	}
	return cells, nil
}

// runCell 한 조합을 Repetitions번 측정해 평균
func (b *Benchmark) runCell(
	ctx context.Context, base, sorted []float64, sc Scenario, algo string,
) (Cell, error) {
	shape := ShapeFor(sc, algo)
	reps := b.opts.Repetitions
	millis := make([]float64, 0, reps)
	allocs := make([]float64, 0, reps)
	comparisons := make([]float64, 0, reps)
	fallbacks := make([]float64, 0, reps)

	for range reps {
		if err := ctx.Err(); err != nil {
			return Cell{}, err
		}
		input := b.input(shape, base, sorted)
		t, err := b.runTrial(algo, input)
		if err != nil {
			return Cell{}, err
		}
		if b.observer != nil {
			b.observer.ObserveTrial(algo, sc, len(base), t)
		}
		millis = append(millis, float64(t.Duration)/float64(time.Millisecond))
		allocs = append(allocs, float64(t.AllocBytes))
		comparisons = append(comparisons, float64(t.Comparisons))
		fallbacks = append(fallbacks, float64(t.Fallbacks))
	}

	cell := Cell{
		Size:      len(base),
		Scenario:  sc,
		Algorithm: algo,
		Shape:     shape,
		Trials:    reps,
	}
	var err error
	if cell.MeanMillis, err = stats.Mean(millis); err != nil {
		return Cell{}, errors.Wrap(err, "mean time")
	}
	if cell.MeanAllocBytes, err = stats.Mean(allocs); err != nil {
		return Cell{}, errors.Wrap(err, "mean allocation")
	}
	if cell.MeanComparisons, err = stats.Mean(comparisons); err != nil {
		return Cell{}, errors.Wrap(err, "mean comparisons")
	}
	if cell.MeanFallbacks, err = stats.Mean(fallbacks); err != nil {
		return Cell{}, errors.Wrap(err, "mean fallbacks")
	}

	b.logger.Debug("cell done",
		zap.Int("size", cell.Size),
		zap.String("scenario", string(sc)),
		zap.String("algorithm", algo),
		zap.Float64("mean_ms", cell.MeanMillis),
		zap.String("mean_alloc", humanize.Bytes(uint64(cell.MeanAllocBytes))))
	return cell, nil
}

// input 시나리오 형태의 새 입력 배열
func (b *Benchmark) input(shape Shape, base, sorted []float64) []float64 {
	switch shape {
	case ShapeSorted:
		return slices.Clone(sorted)
	case ShapeReversed:
		return dataset.Reversed(sorted)
	default:
		return dataset.Shuffled(base, b.rng)
	}
}

// runTrial 측정 1회. 같은 입력을 복제해 (1) 시간/할당 측정 (2) 비교 횟수 측정
func (b *Benchmark) runTrial(algo string, input []float64) (Trial, error) {
	counted := slices.Clone(input)

	ms := startStats()
	if err := Sort(algo, b.sorter, input, b.pool); err != nil {
		return Trial{}, err
	}
	duration, allocBytes := ms.endStats()

	if !slices.IsSorted(input) {
		return Trial{}, errors.Newf("%s produced an unsorted result", algo)
	}

	var st sort.Stats
	if err := Sort(algo, b.sorter.WithStats(&st), counted, b.pool); err != nil {
		return Trial{}, err
	}

	return Trial{
		Duration:    duration,
		AllocBytes:  allocBytes,
		Comparisons: st.Comparisons,
		Fallbacks:   st.Fallbacks,
	}, nil
}

// logWorst 최악 케이스 평균을 크기별로 로그
func (b *Benchmark) logWorst(n int, cells []Cell) {
	fields := []zap.Field{zap.Int("size", n)}
	for _, c := range cells {
		if c.Size != n || c.Scenario != Worst {
			continue
		}
		fields = append(fields,
			zap.Float64(c.Algorithm+"_ms", c.MeanMillis),
			zap.String(c.Algorithm+"_alloc", humanize.Bytes(uint64(c.MeanAllocBytes))))
	}
	b.logger.Info("worst case", fields...)
}
