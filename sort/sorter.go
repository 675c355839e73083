// Package sort 벤치마크 대상 정렬 알고리즘.
//
//   - MergeSort: 하향식 안정 머지소트
//   - QuickSort: 마지막 원소 피벗의 로무토 퀵소트
//   - SmartSort: 재귀 깊이가 floor(2*log2(n))를 넘는 구간을 머지소트로 넘기는 퀵소트
//
// 모든 루틴은 닫힌 구간 [low, high]를 제자리 정렬하며 low >= high면 아무것도 하지 않음.
package sort

import (
	"cmp"
	"sync/atomic"
)

// Stats 정렬 한 번 동안의 연산 횟수
type Stats struct {
	Comparisons int64 `json:"comparisons"`
	Partitions  int64 `json:"partitions"`
	Merges      int64 `json:"merges"`
	Fallbacks   int64 `json:"fallbacks"`
	MaxDepth    int   `json:"max_depth"`
}

// Reset 카운터 초기화
func (s *Stats) Reset() {
	*s = Stats{}
}

// Sorter 비교 함수와 (선택적) 연산 카운터를 묶은 정렬기
type Sorter[T any] struct {
	le    func(a, b T) bool
	stats *Stats
}

// New T의 기본 순서를 쓰는 Sorter 생성
func New[T cmp.Ordered]() *Sorter[T] {
	return &Sorter[T]{le: lessOrEqual[T]}
}

// NewFunc slices.SortFunc 방식의 3-way 비교 함수로 Sorter 생성
// (a < b면 음수, 같으면 0, a > b면 양수)
func NewFunc[T any](compare func(a, b T) int) *Sorter[T] {
	return &Sorter[T]{le: func(a, b T) bool { return compare(a, b) <= 0 }}
}

// WithStats st에 카운트를 기록하는 복사본 반환. nil이면 카운트 안함
func (s *Sorter[T]) WithStats(st *Stats) *Sorter[T] {
	c := *s
	c.stats = st
	return &c
}

// Stats 연결된 카운터 (없으면 nil)
func (s *Sorter[T]) Stats() *Stats {
	return s.stats
}

// lessEq 정렬에 쓰는 <= 비교. 카운터가 있으면 호출마다 Comparisons 증가
func (s *Sorter[T]) lessEq() func(a, b T) bool {
	if s.stats == nil {
		return s.le
	}
	st, le := s.stats, s.le
	return func(a, b T) bool {
		st.Comparisons++
		return le(a, b)
	}
}

// sharedLessEq 여러 고루틴이 같이 쓰는 <= 비교. 원자적 카운터로 세고,
// 반환된 flush가 합계를 Comparisons에 더함
func (s *Sorter[T]) sharedLessEq() (le func(a, b T) bool, flush func()) {
	if s.stats == nil {
		return s.le, func() {}
	}
	var count atomic.Int64
	st, base := s.stats, s.le
	le = func(a, b T) bool {
		count.Add(1)
		return base(a, b)
	}
	return le, func() { st.Comparisons += count.Load() }
}

func lessOrEqual[T cmp.Ordered](a, b T) bool {
	return a <= b
}

// MergeSort s[left..right]를 안정 정렬
func MergeSort[T cmp.Ordered](s []T, left, right int) {
	New[T]().MergeSort(s, left, right)
}

// MergeSortFunc compare 기준 MergeSort
func MergeSortFunc[T any](s []T, left, right int, compare func(a, b T) int) {
	NewFunc(compare).MergeSort(s, left, right)
}

// QuickSort s[low..high]를 정렬 (불안정)
func QuickSort[T cmp.Ordered](s []T, low, high int) {
	New[T]().QuickSort(s, low, high)
}

// QuickSortFunc compare 기준 QuickSort
func QuickSortFunc[T any](s []T, low, high int, compare func(a, b T) int) {
	NewFunc(compare).QuickSort(s, low, high)
}

// SmartSort s 전체를 정렬
func SmartSort[T cmp.Ordered](s []T) {
	New[T]().SmartSort(s)
}

// SmartSortFunc compare 기준 SmartSort
func SmartSortFunc[T any](s []T, compare func(a, b T) int) {
	NewFunc(compare).SmartSort(s)
}
