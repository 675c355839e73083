// Package dataset 벤치마크 입력 데이터 로딩과 입력 형태(정렬/셔플/역순) 생성
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrEmpty 컬럼에서 숫자를 하나도 읽지 못함
var ErrEmpty = errors.New("dataset: column has no numeric values")

// Options 구분자 파일 읽기 옵션
type Options struct {
	Separator  rune
	SkipHeader bool
}

// DefaultOptions 세미콜론 구분, 헤더 한 줄 건너뜀
func DefaultOptions() Options {
	return Options{Separator: ';', SkipHeader: true}
}

// LoadColumn path 파일의 column번째(0부터) 값을 float64로 읽음.
// 컬럼이 모자란 행은 건너뛰고, 숫자가 아니거나 NaN/Inf인 셀은 경고 후 건너뜀
func LoadColumn(fs afero.Fs, path string, column int, opts Options, logger *zap.Logger) ([]float64, error) {
	if column < 0 {
		return nil, errors.Newf("dataset: negative column %d", column)
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	values, err := readColumn(file, column, opts, logger.With(zap.String("path", path)))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(values) == 0 {
		return nil, errors.Wrapf(ErrEmpty, "%s column %d", path, column)
	}
	return values, nil
}

func readColumn(r io.Reader, column int, opts Options, logger *zap.Logger) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var values []float64
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && opts.SkipHeader {
			continue
		}
		if len(record) <= column {
			continue
		}

		cell := strings.TrimSpace(record[column])
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			logger.Warn("skipping non-numeric cell",
				zap.Int("line", line), zap.String("cell", cell))
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			logger.Warn("skipping non-finite cell",
				zap.Int("line", line), zap.String("cell", cell))
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

// Synthetic [0, scale) 균등분포 난수 n개
func Synthetic(n int, scale float64, rng *rand.Rand) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64() * scale
	}
	return data
}

// Source 로딩 설정. 파일을 못 읽으면 합성 데이터로 대체
type Source struct {
	Path          string
	Column        int
	Options       Options
	FallbackSize  int
	FallbackScale float64
}

// Load 파일에서 컬럼을 읽고, 실패하거나 비어 있으면 합성 데이터를 반환.
// 두 번째 반환값은 합성 데이터로 대체했는지 여부
func (s Source) Load(fs afero.Fs, rng *rand.Rand, logger *zap.Logger) ([]float64, bool) {
	values, err := LoadColumn(fs, s.Path, s.Column, s.Options, logger)
	if err == nil {
		return values, false
	}
	logger.Warn("dataset unavailable, generating synthetic values",
		zap.Error(err), zap.Int("size", s.FallbackSize), zap.Float64("scale", s.FallbackScale))
	return Synthetic(s.FallbackSize, s.FallbackScale, rng), true
}

// Sorted 오름차순 정렬된 복사본
func Sorted(data []float64) []float64 {
	out := slices.Clone(data)
	slices.Sort(out)
	return out
}

// Shuffled 피셔-예이츠(뒤에서부터) 셔플한 복사본
func Shuffled(data []float64, rng *rand.Rand) []float64 {
	out := slices.Clone(data)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Reversed 역순 복사본
func Reversed(data []float64) []float64 {
	out := slices.Clone(data)
	slices.Reverse(out)
	return out
}
