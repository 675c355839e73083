package sort

import (
	"cmp"
	"sync"
)

// ParallelMergeSort 병렬 머지소트. 두 절반을 각각 고루틴에서 정렬한 뒤 병합.
// 결과(안정성 포함)와 비교 횟수는 MergeSort와 같음. Merges는 세지 않음
func (s *Sorter[T]) ParallelMergeSort(arr []T, left, right int, pool *Pool) {
	if left >= right {
		return
	}
	le, flush := s.sharedLessEq()
	s.WithStats(nil).parallelMergeSort(arr, left, right, parallelThreshold(right-left+1), pool, le)
	flush()
}

func (s *Sorter[T]) parallelMergeSort(arr []T, left, right, threshold int, pool *Pool, le func(a, b T) bool) {
	if left >= right {
		return
	}
	if right-left+1 <= threshold {
		s.mergeSort(arr, left, right, le)
		return
	}

	middle := left + (right-left)/2

	// 두 절반은 겹치지 않으므로 동시에 정렬 가능
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.parallelHalf(arr, left, middle, threshold, pool, le, s.parallelMergeSort, s.mergeSort)
	}()
	go func() {
		defer wg.Done()
		s.parallelHalf(arr, middle+1, right, threshold, pool, le, s.parallelMergeSort, s.mergeSort)
	}()
	wg.Wait()

	// 병합은 양쪽이 끝난 뒤에만
	s.merge(arr, left, middle, right, le)
}

// parallelHalf 슬롯이 있으면 병렬 경로, 없으면 순차 경로로 [low, high] 처리
func (s *Sorter[T]) parallelHalf(
	arr []T, low, high, threshold int, pool *Pool, le func(a, b T) bool,
	parallel func(arr []T, low, high, threshold int, pool *Pool, le func(a, b T) bool),
	sequential func(arr []T, low, high int, le func(a, b T) bool),
) {
	release, ok := pool.tryAcquire()
	if !ok {
		sequential(arr, low, high, le)
		return
	}
	defer release()
	parallel(arr, low, high, threshold, pool, le)
}

// ParallelMergeSort 기본 순서의 병렬 머지소트
func ParallelMergeSort[T cmp.Ordered](arr []T, left, right int, pool *Pool) {
	New[T]().ParallelMergeSort(arr, left, right, pool)
}
