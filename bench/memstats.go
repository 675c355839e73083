package bench

import (
	"runtime"
	"time"
)

// memStats 측정 시작 시점의 시간/메모리 상태
type memStats struct {
	startTime  time.Time
	startAlloc uint64
}

// startStats 측정 시작. GC를 먼저 돌려 측정 중 GC 개입을 줄임
func startStats() *memStats {
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &memStats{
		startAlloc: m.TotalAlloc,
		startTime:  time.Now(),
	}
}

// endStats 경과 시간과 측정 중 힙에 할당된 바이트 수.
// 살아있는 힙 크기가 아니라 누적 할당량(TotalAlloc) 차이라서 GC 타이밍과 무관함
func (s *memStats) endStats() (time.Duration, uint64) {
	duration := time.Since(s.startTime)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return duration, m.TotalAlloc - s.startAlloc
}
