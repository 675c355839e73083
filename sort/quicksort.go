package sort

// QuickSort 마지막 원소를 피벗으로 하는 로무토 퀵소트.
// 역순 입력에서 항상 O(n²)이 되도록 피벗 규칙을 고정함
func (s *Sorter[T]) QuickSort(arr []T, low, high int) {
	s.quickSort(arr, low, high, s.lessEq())
}

func (s *Sorter[T]) quickSort(arr []T, low, high int, le func(a, b T) bool) {
	if low >= high {
		return
	}

	p := s.partition(arr, low, high, le)
	s.quickSort(arr, low, p-1, le)
	s.quickSort(arr, p+1, high, le)
}

// partition 로무토 파티션. 피벗의 최종 위치를 반환
func (s *Sorter[T]) partition(arr []T, low, high int, le func(a, b T) bool) int {
	if s.stats != nil {
		s.stats.Partitions++
	}

	pivot := arr[high]
	i := low - 1

	for j := low; j < high; j++ {
		if le(arr[j], pivot) {
			i++
			arr[i], arr[j] = arr[j], arr[i]
		}
	}
	arr[i+1], arr[high] = arr[high], arr[i+1]
	return i + 1
}
