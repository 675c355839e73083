package sort

import "math"

// frame 처리 대기 중인 구간과 그 구간의 재귀 깊이
type frame struct {
	low, high, depth int
}

// DepthLimit floor(2*log2(n)). SmartSort가 파티션을 계속하는 최대 깊이 (n < 2면 0)
func DepthLimit(n int) int {
	if n < 2 {
		return 0
	}
	return int(math.Floor(2 * math.Log2(float64(n))))
}

// SmartSort 깊이 제한 퀵소트. 깊이가 DepthLimit를 넘는 구간은 머지소트로 넘김
func (s *Sorter[T]) SmartSort(arr []T) {
	n := len(arr)
	if n < 2 {
		return
	}
	limit := DepthLimit(n)
	le := s.lessEq()

	stack := make([]frame, 0, 2*limit+2)
	stack = append(stack, frame{low: 0, high: n - 1})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.low >= f.high {
			continue
		}
		if s.stats != nil && f.depth > s.stats.MaxDepth {
			s.stats.MaxDepth = f.depth
		}

		if f.depth > limit {
			if s.stats != nil {
				s.stats.Fallbacks++
			}
			s.mergeSort(arr, f.low, f.high, le)
			continue
		}

		p := s.partition(arr, f.low, f.high, le)
		// 오른쪽을 먼저 넣어 왼쪽부터 처리 (재귀와 같은 순서)
		stack = append(stack,
			frame{low: p + 1, high: f.high, depth: f.depth + 1},
			frame{low: f.low, high: p - 1, depth: f.depth + 1},
		)
	}
}
