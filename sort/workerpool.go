package sort

import "runtime"

// Pool 병렬 정렬용 세마포어 워커 풀
// * 채널 통한 세마포 구현. 슬롯이 없으면 호출자가 순차 처리로 폴백
type Pool struct {
	slots chan struct{}
}

// NewPool 슬롯 n개짜리 풀 생성 (n <= 0이면 CPU 코어 수)
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{slots: make(chan struct{}, n)}
}

// tryAcquire 슬롯 획득 시도. 성공하면 반환용 함수를 돌려줌
func (p *Pool) tryAcquire() (release func(), ok bool) {
	select {
	case p.slots <- struct{}{}:
		return func() { <-p.slots }, true
	default:
		return nil, false
	}
}

// Status 사용 중인 슬롯 수와 전체 용량 (디버깅용)
func (p *Pool) Status() (used int, capacity int) {
	return len(p.slots), cap(p.slots)
}

// parallelThreshold 구간 크기별 병렬 분할 임계값
func parallelThreshold(totalSize int) int {
	switch {
	case totalSize < 1000:
		return totalSize // 작은 데이터는 병렬처리 안함
	case totalSize < 10000:
		return 300
	case totalSize < 100000:
		return 800
	default:
		return 1500
	}
}
