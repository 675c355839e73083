package bench

import "github.com/rlaau/sortbench/config"

// Scenario 벤치마크 케이스 (최선/평균/최악)
type Scenario string

const (
	Best    Scenario = "best"
	Average Scenario = "average"
	Worst   Scenario = "worst"
)

// Scenarios 출력 순서
var Scenarios = []Scenario{Best, Average, Worst}

// Shape 입력 배열 형태
type Shape string

const (
	ShapeSorted   Shape = "sorted"
	ShapeShuffled Shape = "shuffled"
	ShapeReversed Shape = "reversed"
)

// ShapeFor 시나리오별 입력 형태.
// 최선 케이스는 알고리즘마다 다름: 머지소트는 정렬된 입력, 퀵소트 계열은 셔플 입력
// (고정 피벗이라 정렬된 입력이 곧 최악이기 때문)
func ShapeFor(s Scenario, algorithm string) Shape {
	switch s {
	case Best:
		switch algorithm {
		case config.AlgoMerge, config.AlgoParallelMerge:
			return ShapeSorted
		default:
			return ShapeShuffled
		}
	case Worst:
		return ShapeReversed
	default:
		return ShapeShuffled
	}
}
