// 单个unit的自相关直方图 (autocorrelogram)
//
// 对所有有序对 (i, j), i != j, 统计 diff = t[i] - t[j],
// 落在 [-window_size, window_size) 内的放入 num_half_bins + floor(diff / bin_size)
//
// spike时间升序, 用一个跨外层循环共享、单调前进的游标 startJ,
// 游标总推进次数 <= N, 窗口远小于记录长度时远快于 O(N²) 的全配对
package corr

import (
	"fastCurate/infra/errorx"
	"fastCurate/infra/errorx/errCode"
)

// Correlogram 计数 + 分箱边界(ms), 归调用方所有
type Correlogram struct {
	Counts    []int64   // len = NumBins
	Edges     []float64 // len = NumBins + 1, 单位 ms
	NumSpikes int
	Params    WindowParams
}

// AutoCorrelogram spikes 须为升序采样点序号, 否则返回 PRECONDITION_VIOLATED
func AutoCorrelogram(spikes []int64, p WindowParams) (Correlogram, error) {
	if err := checkParams(p); err != nil {
		return Correlogram{}, err
	}
	if i, ok := firstUnsorted(spikes); !ok {
		return Correlogram{}, errorx.Newf(errCode.PRECONDITION_VIOLATED,
			"spike times not ascending at index %d (%d < %d)", i, spikes[i], spikes[i-1])
	}

	counts := make([]int64, p.NumBins)
	scanPairs(spikes, p, counts, 0)

	return Correlogram{
		Counts:    counts,
		Edges:     EdgesFor(p),
		NumSpikes: len(spikes),
		Params:    p,
	}, nil
}

// scanPairs 双指针扫描, 游标显式传入传出; 返回扫描结束时的游标
func scanPairs(spikes []int64, p WindowParams, counts []int64, startJ int) int {
	n := len(spikes)
	w := p.WindowSize
	half := p.NumHalfBins()

	for i := 0; i < n; i++ {
		ti := spikes[i]
		for j := startJ; j < n; j++ {
			// 零延迟自配对不计入
			if i == j {
				continue
			}
			diff := ti - spikes[j]

			// 恰好等于正边界: 不计数也不推进游标, 后面的 i 与这个 j 可能仍在窗口内
			if diff == w {
				continue
			}
			// t[j] 对当前 i 已太早, 对之后的 i 只会更早, 退休该 j
			if diff > w {
				startJ++
				continue
			}
			// t[j] 已太晚, 后面的 j 只会更晚
			if diff < -w {
				break
			}
			counts[half+floorDiv(diff, p.BinSize)]++
		}
	}
	return startJ
}

// EdgesFor 分箱边界 -window_size, ..., window_size, 换算成 ms
func EdgesFor(p WindowParams) []float64 {
	edges := make([]float64, p.NumBins+1)
	for k := range edges {
		v := -p.WindowSize + int64(k)*p.BinSize
		edges[k] = float64(v) * 1e3 / p.SamplingRate
	}
	return edges
}

// 负数 diff 需要向下取整, Go 的 / 是向零截断
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func firstUnsorted(spikes []int64) (int, bool) {
	for i := 1; i < len(spikes); i++ {
		if spikes[i] < spikes[i-1] {
			return i, false
		}
	}
	return 0, true
}

// 手工构造的 WindowParams 也要满足 ResolveWindow 的不变量
func checkParams(p WindowParams) error {
	switch {
	case p.BinSize <= 0:
		return errorx.Newf(errCode.INVALID_PARAMETER, "bin_size must be > 0, got %d", p.BinSize)
	case p.WindowSize < 0 || p.WindowSize%p.BinSize != 0:
		return errorx.Newf(errCode.INVALID_PARAMETER, "window_size %d is not a non-negative multiple of bin_size %d", p.WindowSize, p.BinSize)
	case p.NumBins > MaxNumBins:
		return errorx.Newf(errCode.INVALID_PARAMETER, "num_bins %d exceeds limit %d", p.NumBins, MaxNumBins)
	case p.NumBins != 2*(p.WindowSize/p.BinSize):
		return errorx.Newf(errCode.INVALID_PARAMETER, "num_bins %d does not match window_size/bin_size", p.NumBins)
	case !positiveFinite(p.SamplingRate):
		return errorx.Newf(errCode.INVALID_PARAMETER, "sampling_rate must be > 0, got %v", p.SamplingRate)
	}
	return nil
}
