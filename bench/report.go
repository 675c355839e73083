package bench

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/rlaau/sortbench/config"
	"github.com/spf13/afero"
)

// Table 보고서용 셀 색인 (크기 → 시나리오 → 알고리즘)
type Table struct {
	Sizes      []int
	Algorithms []string
	// CSVLayout CSV 헤더 형식 (config.CSVLayout*). 비어 있으면 standard
	CSVLayout string
	cells      map[int]map[Scenario]map[string]Cell
}

// NewTable cells를 색인. algorithms는 열 순서
func NewTable(cells []Cell, algorithms []string) *Table {
	t := &Table{
		Algorithms: algorithms,
		cells:      make(map[int]map[Scenario]map[string]Cell),
	}
	for _, c := range cells {
		bySc, ok := t.cells[c.Size]
		if !ok {
			bySc = make(map[Scenario]map[string]Cell)
			t.cells[c.Size] = bySc
			t.Sizes = append(t.Sizes, c.Size)
		}
		if bySc[c.Scenario] == nil {
			bySc[c.Scenario] = make(map[string]Cell)
		}
		bySc[c.Scenario][c.Algorithm] = c
	}
	return t
}

// Cell 조합 하나 조회
func (t *Table) Cell(size int, sc Scenario, algorithm string) (Cell, bool) {
	c, ok := t.cells[size][sc][algorithm]
	return c, ok
}

// csvNames CSV 헤더의 크기 열 이름과 시나리오 접두어
type csvNames struct {
	size      string
	scenarios map[Scenario]string
}

var csvLayouts = map[string]csvNames{
	config.CSVLayoutStandard: {
		size:      "size",
		scenarios: map[Scenario]string{Best: "best", Average: "average", Worst: "worst"},
	},
	config.CSVLayoutPortuguese: {
		size:      "tamanho",
		scenarios: map[Scenario]string{Best: "melhor", Average: "medio", Worst: "pior"},
	},
}

// CSVHeader 크기 열 다음에 시나리오별, 알고리즘별 _t(ms), _m(bytes) 열
func (t *Table) CSVHeader() []string {
	names, ok := csvLayouts[t.CSVLayout]
	if !ok {
		names = csvLayouts[config.CSVLayoutStandard]
	}
	header := []string{names.size}
	for _, sc := range Scenarios {
		for _, algo := range t.Algorithms {
			prefix := names.scenarios[sc] + "_" + algo
			header = append(header, prefix+"_t", prefix+"_m")
		}
	}
	return header
}

// WriteCSV 크기당 한 행. 시간은 소수점 4자리, 바이트는 정수
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.CSVHeader()); err != nil {
		return err
	}
	for _, n := range t.Sizes {
		row := []string{strconv.Itoa(n)}
		for _, sc := range Scenarios {
			for _, algo := range t.Algorithms {
				c, ok := t.Cell(n, sc, algo)
				if !ok {
					row = append(row, "", "")
					continue
				}
				row = append(row,
					strconv.FormatFloat(c.MeanMillis, 'f', 4, 64),
					strconv.FormatFloat(c.MeanAllocBytes, 'f', 0, 64))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON 전체 셀을 들여쓰기 JSON으로
func WriteJSON(w io.Writer, cells []Cell) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cells)
}

// WriteMarkdown 크기별 표
func (t *Table) WriteMarkdown(w io.Writer, now time.Time) error {
	var builder strings.Builder

	builder.WriteString("# Sorting benchmark results\n\n")
	fmt.Fprintf(&builder, "Run at: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&builder, "CPU cores: %d\n", runtime.NumCPU())
	fmt.Fprintf(&builder, "GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0))

	for _, n := range t.Sizes {
		fmt.Fprintf(&builder, "## %d elements\n\n", n)
		builder.WriteString("| Scenario | Algorithm | Input | Mean time | Mean alloc | Mean comparisons | Trials |\n")
		builder.WriteString("|----------|-----------|-------|-----------|------------|------------------|--------|\n")
		for _, sc := range Scenarios {
			for _, algo := range t.Algorithms {
				c, ok := t.Cell(n, sc, algo)
				if !ok {
					continue
				}
				fmt.Fprintf(&builder, "| %s | %s | %s | %.4f ms | %s | %.0f | %d |\n",
					sc, algo, c.Shape, c.MeanMillis, humanize.Bytes(uint64(c.MeanAllocBytes)),
					c.MeanComparisons, c.Trials)
			}
		}
		builder.WriteString("\n")
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

// PrintSummary 터미널 요약 표
func (t *Table) PrintSummary(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"size", "scenario", "algorithm", "input", "mean time", "mean alloc", "comparisons"})
	for _, n := range t.Sizes {
		for _, sc := range Scenarios {
			for _, algo := range t.Algorithms {
				c, ok := t.Cell(n, sc, algo)
				if !ok {
					continue
				}
				table.Append([]string{
					strconv.Itoa(n),
					string(sc),
					algo,
					string(c.Shape),
					fmt.Sprintf("%.4f ms", c.MeanMillis),
					humanize.Bytes(uint64(c.MeanAllocBytes)),
					humanize.Comma(int64(c.MeanComparisons)),
				})
			}
		}
	}
	table.Render()
}

// writeFile path에 버퍼링해서 씀. 상위 디렉터리가 없으면 만듦
func writeFile(fs afero.Fs, path string, write func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	file, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	// 큰 버퍼 사용
	writer := bufio.NewWriterSize(file, 32*1024)
	if err := write(writer); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	return errors.Wrapf(file.Close(), "closing %s", path)
}

// Outputs 보고서 파일 경로. 빈 경로는 건너뜀
type Outputs struct {
	CSV       string
	CSVLayout string
	JSON      string
	Markdown  string
	Charts    string
}

// WriteReports 설정된 보고서를 모두 씀. 쓴 경로 목록을 반환
func WriteReports(fs afero.Fs, out Outputs, cells []Cell, algorithms []string, now time.Time) ([]string, error) {
	table := NewTable(cells, algorithms)
	table.CSVLayout = out.CSVLayout
	var written []string

	if out.CSV != "" {
		if err := writeFile(fs, out.CSV, table.WriteCSV); err != nil {
			return written, err
		}
		written = append(written, out.CSV)
	}
	if out.JSON != "" {
		if err := writeFile(fs, out.JSON, func(w io.Writer) error { return WriteJSON(w, cells) }); err != nil {
			return written, err
		}
		written = append(written, out.JSON)
	}
	if out.Markdown != "" {
		if err := writeFile(fs, out.Markdown, func(w io.Writer) error { return table.WriteMarkdown(w, now) }); err != nil {
			return written, err
		}
		written = append(written, out.Markdown)
	}
	if out.Charts != "" {
		if err := writeFile(fs, out.Charts, table.WriteCharts); err != nil {
			return written, err
		}
		written = append(written, out.Charts)
	}
	return written, nil
}
