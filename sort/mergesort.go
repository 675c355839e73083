package sort

// MergeSort 하향식 머지소트. s[left..right]를 안정 정렬
func (s *Sorter[T]) MergeSort(arr []T, left, right int) {
	s.mergeSort(arr, left, right, s.lessEq())
}

func (s *Sorter[T]) mergeSort(arr []T, left, right int, le func(a, b T) bool) {
	if left >= right {
		return
	}

	middle := left + (right-left)/2
	s.mergeSort(arr, left, middle, le)
	s.mergeSort(arr, middle+1, right, le)
	s.merge(arr, left, middle, right, le)
}

// merge 정렬된 arr[left..middle], arr[middle+1..right]를 병합
func (s *Sorter[T]) merge(arr []T, left, middle, right int, le func(a, b T) bool) {
	if s.stats != nil {
		s.stats.Merges++
	}

	lbuf := make([]T, middle-left+1)
	rbuf := make([]T, right-middle)
	copy(lbuf, arr[left:middle+1])
	copy(rbuf, arr[middle+1:right+1])

	i, j, k := 0, 0, left
	for i < len(lbuf) && j < len(rbuf) {
		// 같으면 왼쪽 먼저 (안정성)
		if le(lbuf[i], rbuf[j]) {
			arr[k] = lbuf[i]
			i++
		} else {
			arr[k] = rbuf[j]
			j++
		}
		k++
	}

	// 남은 요소들 한 번에 복사
	k += copy(arr[k:], lbuf[i:])
	copy(arr[k:], rbuf[j:])
}
