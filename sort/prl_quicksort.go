package sort

import (
	"cmp"
	"sync"
)

// ParallelQuickSort 병렬 퀵소트. 파티션이 끝난 뒤 양쪽 구간을 각각 고루틴에서 정렬.
// 피벗 규칙과 비교 횟수는 QuickSort와 같음. Partitions는 세지 않음
func (s *Sorter[T]) ParallelQuickSort(arr []T, low, high int, pool *Pool) {
	if low >= high {
		return
	}
	le, flush := s.sharedLessEq()
	s.WithStats(nil).parallelQuickSort(arr, low, high, parallelThreshold(high-low+1), pool, le)
	flush()
}

func (s *Sorter[T]) parallelQuickSort(arr []T, low, high, threshold int, pool *Pool, le func(a, b T) bool) {
	if low >= high {
		return
	}
	if high-low+1 <= threshold {
		s.quickSort(arr, low, high, le)
		return
	}

	p := s.partition(arr, low, high, le)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.parallelHalf(arr, low, p-1, threshold, pool, le, s.parallelQuickSort, s.quickSort)
	}()
	go func() {
		defer wg.Done()
		s.parallelHalf(arr, p+1, high, threshold, pool, le, s.parallelQuickSort, s.quickSort)
	}()
	wg.Wait()
}

// ParallelQuickSort 기본 순서의 병렬 퀵소트
func ParallelQuickSort[T cmp.Ordered](arr []T, low, high int, pool *Pool) {
	New[T]().ParallelQuickSort(arr, low, high, pool)
}
