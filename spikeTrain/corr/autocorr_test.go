package corr

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"gonum.org/v1/gonum/floats"

	"fastCurate/infra/errorx"
)

func mustResolve(t testing.TB, windowMs, binMs, fs float64) WindowParams {
	t.Helper()
	p, err := ResolveWindow(windowMs, binMs, fs)
	if err != nil {
		t.Fatalf("ResolveWindow(%v, %v, %v): %v", windowMs, binMs, fs, err)
	}
	return p
}

// bruteForce 全配对 O(N²) 参考实现
func bruteForce(spikes []int64, p WindowParams) []int64 {
	counts := make([]int64, p.NumBins)
	for i := range spikes {
		for j := range spikes {
			if i == j {
				continue
			}
			diff := spikes[i] - spikes[j]
			if diff < -p.WindowSize || diff >= p.WindowSize {
				continue
			}
			counts[p.NumHalfBins()+floorDiv(diff, p.BinSize)]++
		}
	}
	return counts
}

func randomTrain(r *rand.Rand, n int, maxGap int64) []int64 {
	spikes := make([]int64, n)
	var t int64
	for i := range spikes {
		t += r.Int64N(maxGap + 1)
		spikes[i] = t
	}
	return spikes
}

func TestAutoCorrelogram_WorkedExample(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	cg, err := AutoCorrelogram([]int64{0, 10, 1000}, p)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]int64, 24)
	want[11] = 1 // (0,10): diff=-10 -> floor(-10/60) = -1
	want[12] = 1 // (10,0): diff=10 -> floor(10/60) = 0
	if !slices.Equal(cg.Counts, want) {
		t.Errorf("Counts = %v, want %v", cg.Counts, want)
	}
	if cg.NumSpikes != 3 {
		t.Errorf("NumSpikes = %d, want 3", cg.NumSpikes)
	}
}

func TestScanPairs_CursorAdvances(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	counts := make([]int64, p.NumBins)
	// 1000 - 0 = 1000 > 720, 1000 - 10 = 990 > 720: indices 0 and 1 retired
	got := scanPairs([]int64{0, 10, 1000}, p, counts, 0)
	if got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}
}

func TestAutoCorrelogram_HalfOpenWindow(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000) // window 720, bin 60

	cg, err := AutoCorrelogram([]int64{0, 720}, p)
	if err != nil {
		t.Fatal(err)
	}
	// diff = -720 counted in the first bin, diff = +720 excluded
	if cg.Counts[0] != 1 || cg.Total() != 1 {
		t.Errorf("Counts = %v, want only bin 0 = 1", cg.Counts)
	}

	// the pair at exactly +window must not retire j=0 for the next spike
	cg, err = AutoCorrelogram([]int64{0, 720, 730}, p)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]int64, 24)
	want[0] = 1  // (0,720)
	want[11] = 1 // (720,730)
	want[12] = 1 // (730,720)
	if !slices.Equal(cg.Counts, want) {
		t.Errorf("Counts = %v, want %v", cg.Counts, want)
	}
}

func TestAutoCorrelogram_EmptyAndSingle(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	for _, spikes := range [][]int64{nil, {}, {42}} {
		cg, err := AutoCorrelogram(spikes, p)
		if err != nil {
			t.Fatalf("AutoCorrelogram(%v): %v", spikes, err)
		}
		if len(cg.Counts) != 24 || cg.Total() != 0 {
			t.Errorf("AutoCorrelogram(%v).Counts = %v, want 24 zeros", spikes, cg.Counts)
		}
		if len(cg.Edges) != 25 {
			t.Errorf("len(Edges) = %d, want 25", len(cg.Edges))
		}
	}
}

func TestAutoCorrelogram_Unsorted(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	_, err := AutoCorrelogram([]int64{0, 100, 50, 200}, p)
	if !errors.Is(err, errorx.ErrPreconditionViolated) {
		t.Fatalf("err = %v, want PRECONDITION_VIOLATED", err)
	}
}

func TestAutoCorrelogram_BadParams(t *testing.T) {
	bad := []WindowParams{
		{},
		{WindowSize: 100, BinSize: 60, NumBins: 2, SamplingRate: 30000},
		{WindowSize: 120, BinSize: 60, NumBins: 3, SamplingRate: 30000},
		{WindowSize: 120, BinSize: 60, NumBins: 4, SamplingRate: 0},
		{WindowSize: 15e15, BinSize: 60, NumBins: 5e14, SamplingRate: 30000},
	}
	for _, p := range bad {
		if _, err := AutoCorrelogram([]int64{0, 1}, p); !errors.Is(err, errorx.ErrInvalidParameter) {
			t.Errorf("AutoCorrelogram with %+v: err = %v, want INVALID_PARAMETER", p, err)
		}
	}
}

func TestAutoCorrelogram_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	params := []WindowParams{
		mustResolve(t, 50, 2, 30000),
		mustResolve(t, 500, 5, 30000),
		mustResolve(t, 10, 1, 1000),
		mustResolve(t, 1, 2, 30000), // zero-width window
	}
	for _, p := range params {
		for trial := 0; trial < 20; trial++ {
			// small gaps give duplicate times and exact-boundary diffs
			spikes := randomTrain(r, 1+r.IntN(300), 1+r.Int64N(400))
			cg, err := AutoCorrelogram(spikes, p)
			if err != nil {
				t.Fatal(err)
			}
			want := bruteForce(spikes, p)
			if !slices.Equal(cg.Counts, want) {
				t.Fatalf("params %+v, spikes %v:\n got %v\nwant %v", p, spikes, cg.Counts, want)
			}
		}
	}
}

func TestAutoCorrelogram_Symmetry(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	// no diff lands on a bin boundary: all spikes on a 7-sample grid offset from 60
	spikes := []int64{7, 14, 49, 133, 161, 301}
	cg, err := AutoCorrelogram(spikes, p)
	if err != nil {
		t.Fatal(err)
	}
	n := len(cg.Counts)
	for k := 0; k < n/2; k++ {
		if cg.Counts[k] != cg.Counts[n-1-k] {
			t.Errorf("Counts[%d] = %d, Counts[%d] = %d, want symmetric", k, cg.Counts[k], n-1-k, cg.Counts[n-1-k])
		}
	}
}

func TestAutoCorrelogram_Idempotent(t *testing.T) {
	p := mustResolve(t, 500, 5, 30000)
	spikes := randomTrain(rand.New(rand.NewPCG(7, 7)), 500, 3000)
	a, err := AutoCorrelogram(spikes, p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := AutoCorrelogram(spikes, p)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Counts, b.Counts) || !slices.Equal(a.Edges, b.Edges) {
		t.Error("two runs with identical input differ")
	}
}

func TestEdgesFor(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	edges := EdgesFor(p)
	if len(edges) != int(p.NumBins)+1 {
		t.Fatalf("len = %d, want %d", len(edges), p.NumBins+1)
	}
	// -720 samples at 30 kHz = -24 ms, 60 samples = 2 ms
	if math.Abs(edges[0]+24) > 1e-9 || math.Abs(edges[len(edges)-1]-24) > 1e-9 {
		t.Errorf("edges span [%v, %v], want [-24, 24]", edges[0], edges[len(edges)-1])
	}
	for k := 1; k < len(edges); k++ {
		if math.Abs(edges[k]-edges[k-1]-2) > 1e-9 {
			t.Fatalf("edges[%d]-edges[%d] = %v, want 2", k, k-1, edges[k]-edges[k-1])
		}
	}
	if got := EdgesFor(mustResolve(t, 1, 2, 30000)); !slices.Equal(got, []float64{0}) {
		t.Errorf("zero-width window edges = %v, want [0]", got)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{10, 60, 0},
		{-10, 60, -1},
		{-60, 60, -1},
		{-61, 60, -2},
		{-720, 60, -12},
		{719, 60, 11},
		{0, 60, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCorrelogramView(t *testing.T) {
	p := mustResolve(t, 50, 2, 30000)
	cg, err := AutoCorrelogram([]int64{0, 10, 1000}, p)
	if err != nil {
		t.Fatal(err)
	}
	x := cg.StepX()
	if len(x) != len(cg.Counts) || x[0] != cg.Edges[1] {
		t.Errorf("StepX = %v, want Edges[1:]", x)
	}

	// count / (3 spikes * 0.002 s)
	rate := cg.Rate()
	want := make([]float64, 24)
	want[11] = 1 / (3 * 0.002)
	want[12] = 1 / (3 * 0.002)
	if !floats.EqualApprox(rate, want, 1e-9) {
		t.Errorf("Rate = %v, want %v", rate, want)
	}

	idx, left := cg.Peak()
	if idx != 11 || math.Abs(left+2) > 1e-9 {
		t.Errorf("Peak = %d, %v, want 11, -2", idx, left)
	}
}
