package bench

import (
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/rlaau/sortbench/config"
)

// series 그래프 선 하나 (크기 순서대로의 값)
type series struct {
	name   string
	values []float64
}

func cellMillis(c Cell) float64 { return c.MeanMillis }

func cellKiB(c Cell) float64 { return c.MeanAllocBytes / 1024 }

// byAlgorithm 시나리오 sc에서 알고리즘별 선. 빠진 크기가 있는 알고리즘은 제외
func (t *Table) byAlgorithm(sc Scenario, value func(Cell) float64) []series {
	var out []series
	for _, algo := range t.Algorithms {
		if s, ok := t.line(algo, sc, value); ok {
			out = append(out, s)
		}
	}
	return out
}

func (t *Table) line(algo string, sc Scenario, value func(Cell) float64) (series, bool) {
	s := series{name: algo, values: make([]float64, 0, len(t.Sizes))}
	for _, n := range t.Sizes {
		c, ok := t.Cell(n, sc, algo)
		if !ok {
			return series{}, false
		}
		s.values = append(s.values, value(c))
	}
	return s, true
}

// plot 여러 선을 한 그래프로. 선 구분을 위해 마지막 크기의 값을 아래에 적음
func (t *Table) plot(b *strings.Builder, caption string, lines []series) {
	if len(lines) == 0 {
		return
	}
	data := make([][]float64, len(lines))
	for i, l := range lines {
		data[i] = l.values
	}
	b.WriteString(asciigraph.PlotMany(data,
		asciigraph.Height(12),
		asciigraph.Precision(3),
		asciigraph.Caption(caption)))
	b.WriteString("\n")

	last := t.Sizes[len(t.Sizes)-1]
	fmt.Fprintf(b, "    at n=%d:", last)
	for _, l := range lines {
		fmt.Fprintf(b, " %s=%.4f", l.name, l.values[len(l.values)-1])
	}
	b.WriteString("\n\n")
}

// WriteCharts 크기(x축) 대비 평균 시간/할당량 ASCII 그래프.
// 시나리오마다 알고리즘별 시간과 할당량, 그리고 SmartSort의 시나리오별 시간
func (t *Table) WriteCharts(w io.Writer) error {
	if len(t.Sizes) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "x axis: sizes %v\n\n", t.Sizes)

	for _, sc := range Scenarios {
		t.plot(&b, fmt.Sprintf("%s case: mean time (ms)", sc), t.byAlgorithm(sc, cellMillis))
	}

	// 최악 케이스에서 QuickSort 대비 SmartSort
	last := t.Sizes[len(t.Sizes)-1]
	quick, okQuick := t.Cell(last, Worst, config.AlgoQuick)
	smart, okSmart := t.Cell(last, Worst, config.AlgoSmart)
	if okQuick && okSmart && smart.MeanMillis > 0 {
		fmt.Fprintf(&b, "worst case at n=%d: quick is %.1fx slower than smart\n\n",
			last, quick.MeanMillis/smart.MeanMillis)
	}

	var smartLines []series
	for _, sc := range Scenarios {
		if s, ok := t.line(config.AlgoSmart, sc, cellMillis); ok {
			s.name = string(sc)
			smartLines = append(smartLines, s)
		}
	}
	t.plot(&b, "smart: mean time (ms) per scenario", smartLines)

	for _, sc := range Scenarios {
		t.plot(&b, fmt.Sprintf("%s case: mean allocation (KiB)", sc), t.byAlgorithm(sc, cellKiB))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
