package sort

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// algorithm 테스트용 정렬 함수 묶음 (전체 구간 정렬)
type algorithm struct {
	name string
	sort func(s *Sorter[float64], arr []float64)
}

var algorithms = []algorithm{
	{"merge", func(s *Sorter[float64], arr []float64) { s.MergeSort(arr, 0, len(arr)-1) }},
	{"quick", func(s *Sorter[float64], arr []float64) { s.QuickSort(arr, 0, len(arr)-1) }},
	{"smart", func(s *Sorter[float64], arr []float64) { s.SmartSort(arr) }},
}

func descending(n int) []float64 {
	arr := make([]float64, n)
	for i := range arr {
		arr[i] = float64(n - i)
	}
	return arr
}

func randomFloats(r *rand.Rand, n int) []float64 {
	arr := make([]float64, n)
	for i := range arr {
		arr[i] = r.Float64() * 100
	}
	return arr
}

func TestSortExample(t *testing.T) {
	for _, alg := range algorithms {
		t.Run(alg.name, func(t *testing.T) {
			arr := []float64{5, 3, 8, 1, 9, 2}
			alg.sort(New[float64](), arr)
			require.Equal(t, []float64{1, 2, 3, 5, 8, 9}, arr)
		})
	}
}

func TestSortShapes(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	shapes := map[string][]float64{
		"empty":      {},
		"single":     {42},
		"pair":       {2, 1},
		"all_equal":  {7, 7, 7, 7, 7, 7},
		"sorted":     {1, 2, 3, 4, 5, 6, 7, 8},
		"reversed":   descending(257),
		"duplicates": {3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5},
		"negative":   {0, -1.5, 3.25, -100, 2, -0.5},
		"random":     randomFloats(r, 1000),
	}
	for _, alg := range algorithms {
		for name, input := range shapes {
			t.Run(alg.name+"/"+name, func(t *testing.T) {
				arr := slices.Clone(input)
				alg.sort(New[float64](), arr)

				want := slices.Clone(input)
				slices.Sort(want)
				if diff := cmp.Diff(want, arr); diff != "" {
					t.Fatalf("unexpected result (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestSortBoundaryNoop(t *testing.T) {
	for _, alg := range algorithms {
		t.Run(alg.name, func(t *testing.T) {
			var empty []float64
			alg.sort(New[float64](), empty)
			require.Empty(t, empty)

			one := []float64{3.5}
			alg.sort(New[float64](), one)
			require.Equal(t, []float64{3.5}, one)
		})
	}

	arr := []float64{4, 3, 2, 1}
	MergeSort(arr, 2, 2)
	MergeSort(arr, 3, 1)
	QuickSort(arr, 1, 1)
	QuickSort(arr, 3, 0)
	require.Equal(t, []float64{4, 3, 2, 1}, arr)
}

func TestSortSubrange(t *testing.T) {
	arr := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}
	MergeSort(arr, 2, 5)
	require.Equal(t, []float64{9, 8, 4, 5, 6, 7, 3, 2, 1}, arr)

	arr = []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}
	QuickSort(arr, 3, 7)
	require.Equal(t, []float64{9, 8, 7, 2, 3, 4, 5, 6, 1}, arr)
}

func TestSortIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	sorted := randomFloats(r, 500)
	slices.Sort(sorted)
	for _, alg := range algorithms {
		t.Run(alg.name, func(t *testing.T) {
			arr := slices.Clone(sorted)
			alg.sort(New[float64](), arr)
			require.Equal(t, sorted, arr)
			alg.sort(New[float64](), arr)
			require.Equal(t, sorted, arr)
		})
	}
}

type tagged struct {
	key float64
	tag string
}

func byKey(a, b tagged) int {
	switch {
	case a.key < b.key:
		return -1
	case a.key > b.key:
		return 1
	}
	return 0
}

func TestMergeSortStable(t *testing.T) {
	arr := []tagged{{3, "a"}, {1, "b"}, {3, "c"}}
	MergeSortFunc(arr, 0, len(arr)-1, byKey)
	require.Equal(t, []tagged{{1, "b"}, {3, "a"}, {3, "c"}}, arr)

	// 중복 키가 많은 큰 입력에서도 원래 순서 유지
	r := rand.New(rand.NewPCG(5, 6))
	big := make([]tagged, 2000)
	for i := range big {
		big[i] = tagged{key: float64(r.IntN(10)), tag: string(rune('a' + i%26))}
	}
	want := slices.Clone(big)
	slices.SortStableFunc(want, byKey)
	MergeSortFunc(big, 0, len(big)-1, byKey)
	require.Equal(t, want, big)
}

func TestQuickSortWorstCaseComparisons(t *testing.T) {
	const n = 1024
	var st Stats
	arr := descending(n)
	New[float64]().WithStats(&st).QuickSort(arr, 0, n-1)
	require.True(t, slices.IsSorted(arr))
	require.Equal(t, int64(n*(n-1)/2), st.Comparisons)
}

func TestMergeAndSmartLinearithmicOnDescending(t *testing.T) {
	const n = 1024
	const log2n = 10

	var merge Stats
	arr := descending(n)
	New[float64]().WithStats(&merge).MergeSort(arr, 0, n-1)
	require.True(t, slices.IsSorted(arr))
	require.LessOrEqual(t, merge.Comparisons, int64(n*log2n))
	require.Equal(t, int64(n-1), merge.Merges)

	var smart Stats
	arr = descending(n)
	New[float64]().WithStats(&smart).SmartSort(arr)
	require.True(t, slices.IsSorted(arr))
	require.LessOrEqual(t, smart.Comparisons, int64(4*n*log2n))
	require.Less(t, smart.Comparisons, int64(n*(n-1)/2)/10)
}

func TestSmartSortFallsBackPastDepthLimit(t *testing.T) {
	const n = 1024
	var st Stats
	arr := descending(n)
	New[float64]().WithStats(&st).SmartSort(arr)

	require.True(t, slices.IsSorted(arr))
	require.Equal(t, 20, DepthLimit(n))
	require.GreaterOrEqual(t, st.Fallbacks, int64(1))
	require.Greater(t, st.Merges, int64(0))
	// 폴백 구간은 더 내려가지 않으므로 최대 깊이는 limit+1
	require.Equal(t, DepthLimit(n)+1, st.MaxDepth)
	require.Equal(t, int64(DepthLimit(n)+1), st.Partitions)
}

func TestSmartSortNoFallbackOnSmallBalancedInput(t *testing.T) {
	var st Stats
	arr := []float64{5, 3, 8, 1, 9, 2}
	New[float64]().WithStats(&st).SmartSort(arr)
	require.Equal(t, []float64{1, 2, 3, 5, 8, 9}, arr)
	require.Zero(t, st.Fallbacks)
	require.Zero(t, st.Merges)
}

func TestDepthLimit(t *testing.T) {
	for _, tc := range []struct {
		n, want int
	}{
		{0, 0}, {1, 0}, {2, 2}, {3, 3}, {4, 4}, {5, 4}, {1024, 20}, {4898, 24},
	} {
		require.Equal(t, tc.want, DepthLimit(tc.n), "n=%d", tc.n)
	}
}

func TestStatsDoNotChangeOutput(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	input := randomFloats(r, 3000)
	for _, alg := range algorithms {
		t.Run(alg.name, func(t *testing.T) {
			plain := slices.Clone(input)
			alg.sort(New[float64](), plain)

			var st Stats
			counted := slices.Clone(input)
			alg.sort(New[float64]().WithStats(&st), counted)

			require.Equal(t, plain, counted)
			require.Positive(t, st.Comparisons)
			st.Reset()
			require.Equal(t, Stats{}, st)
		})
	}
}

func TestSortFuncVariants(t *testing.T) {
	desc := func(a, b int) int { return b - a }

	arr := []int{1, 5, 2, 4, 3}
	QuickSortFunc(arr, 0, len(arr)-1, desc)
	require.Equal(t, []int{5, 4, 3, 2, 1}, arr)

	arr = []int{1, 5, 2, 4, 3}
	SmartSortFunc(arr, desc)
	require.Equal(t, []int{5, 4, 3, 2, 1}, arr)

	words := []string{"pear", "apple", "fig"}
	SmartSort(words)
	require.Equal(t, []string{"apple", "fig", "pear"}, words)
}

func TestParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	pool := NewPool(4)

	for _, n := range []int{0, 1, 999, 5000, 50000} {
		input := make([]float64, n)
		for i := range input {
			input[i] = float64(r.IntN(1000))
		}
		want := slices.Clone(input)
		slices.Sort(want)

		got := slices.Clone(input)
		ParallelMergeSort(got, 0, n-1, pool)
		require.Equal(t, want, got, "parallel merge n=%d", n)

		got = slices.Clone(input)
		ParallelQuickSort(got, 0, n-1, pool)
		require.Equal(t, want, got, "parallel quick n=%d", n)
	}

	used, capacity := pool.Status()
	require.Zero(t, used)
	require.Equal(t, 4, capacity)
}

func TestParallelCountsComparisons(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 14))
	pool := NewPool(4)
	inputs := map[string][]float64{
		"random":     randomFloats(r, 5000),
		"descending": descending(3000),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			var seq, par Stats
			arr := slices.Clone(input)
			New[float64]().WithStats(&seq).MergeSort(arr, 0, len(arr)-1)
			arr = slices.Clone(input)
			New[float64]().WithStats(&par).ParallelMergeSort(arr, 0, len(arr)-1, pool)
			require.True(t, slices.IsSorted(arr))
			require.Positive(t, par.Comparisons)
			// 분할 지점이 같으므로 비교 횟수도 같음
			require.Equal(t, seq.Comparisons, par.Comparisons)

			seq, par = Stats{}, Stats{}
			arr = slices.Clone(input)
			New[float64]().WithStats(&seq).QuickSort(arr, 0, len(arr)-1)
			arr = slices.Clone(input)
			New[float64]().WithStats(&par).ParallelQuickSort(arr, 0, len(arr)-1, pool)
			require.True(t, slices.IsSorted(arr))
			require.Equal(t, seq.Comparisons, par.Comparisons)
		})
	}
	var st Stats
	arr := descending(3000)
	New[float64]().WithStats(&st).ParallelQuickSort(arr, 0, len(arr)-1, pool)
	require.Equal(t, int64(3000*2999/2), st.Comparisons)
}

func TestParallelMergeSortStable(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	input := make([]tagged, 20000)
	for i := range input {
		input[i] = tagged{key: float64(r.IntN(50)), tag: string(rune('A' + i%26))}
	}
	want := slices.Clone(input)
	slices.SortStableFunc(want, byKey)

	got := slices.Clone(input)
	NewFunc(byKey).ParallelMergeSort(got, 0, len(got)-1, NewPool(0))
	require.Equal(t, want, got)
}
