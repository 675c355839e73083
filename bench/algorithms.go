package bench

import (
	"github.com/cockroachdb/errors"
	"github.com/rlaau/sortbench/config"
	"github.com/rlaau/sortbench/sort"
)

// sortFunc 배열 전체를 정렬하는 함수
type sortFunc func(s *sort.Sorter[float64], arr []float64, pool *sort.Pool)

var sortFuncs = map[string]sortFunc{
	config.AlgoMerge: func(s *sort.Sorter[float64], arr []float64, _ *sort.Pool) {
		s.MergeSort(arr, 0, len(arr)-1)
	},
	config.AlgoQuick: func(s *sort.Sorter[float64], arr []float64, _ *sort.Pool) {
		s.QuickSort(arr, 0, len(arr)-1)
	},
	config.AlgoSmart: func(s *sort.Sorter[float64], arr []float64, _ *sort.Pool) {
		s.SmartSort(arr)
	},
	config.AlgoParallelMerge: func(s *sort.Sorter[float64], arr []float64, pool *sort.Pool) {
		s.ParallelMergeSort(arr, 0, len(arr)-1, pool)
	},
	config.AlgoParallelQuick: func(s *sort.Sorter[float64], arr []float64, pool *sort.Pool) {
		s.ParallelQuickSort(arr, 0, len(arr)-1, pool)
	},
}

// Sort name 알고리즘으로 arr 전체를 정렬
func Sort(name string, s *sort.Sorter[float64], arr []float64, pool *sort.Pool) error {
	fn, ok := sortFuncs[name]
	if !ok {
		return errors.Newf("unknown algorithm %q", name)
	}
	fn(s, arr, pool)
	return nil
}
