// 等宽分箱直方图, 用于画 unit 在整个记录时长上的 spike 计数
// 语义与 numpy.histogram(data, bins=K) 一致: 最后一个 bin 右端闭合
package hist

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// HistogramBin 每个分箱的结构
type HistogramBin struct {
	From  float64
	To    float64
	Count int
}

// Hist 按指定 bins 对 data 做分箱统计
func Hist(data []float64, bins int) []HistogramBin {
	if len(data) == 0 || bins <= 0 {
		return nil
	}

	// 1. 求最小值最大值
	minV, maxV := floats.Min(data), floats.Max(data)

	// max == min 时与 numpy 一致, 区间扩成 [v-0.5, v+0.5]
	if maxV == minV {
		minV -= 0.5
		maxV += 0.5
	}

	// 2. 边界: linspace(min, max, bins+1)
	edges := make([]float64, bins+1)
	floats.Span(edges, minV, maxV)
	width := (maxV - minV) / float64(bins)

	// 3. 初始化 bins
	result := make([]HistogramBin, bins)
	for i := 0; i < bins; i++ {
		result[i] = HistogramBin{From: edges[i], To: edges[i+1]}
	}

	// 4. 遍历数据并统计
	for _, v := range data {
		idx := int(math.Floor((v - minV) / width))
		if idx >= bins { // 处理 v == maxV 的边界
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		// 浮点误差修正, 以 edges 为准
		if idx > 0 && v < edges[idx] {
			idx--
		} else if idx < bins-1 && v >= edges[idx+1] {
			idx++
		}
		result[idx].Count++
	}

	return result
}

// SpikeCounts 把采样点序号换算成秒再分箱
func SpikeCounts(spikes []int64, samplingRate float64, bins int) []HistogramBin {
	if samplingRate <= 0 {
		return nil
	}
	sec := make([]float64, len(spikes))
	for i, s := range spikes {
		sec[i] = float64(s) / samplingRate
	}
	return Hist(sec, bins)
}

// Counts 只取计数, 供渲染层使用
func Counts(h []HistogramBin) []int {
	out := make([]int, len(h))
	for i, b := range h {
		out[i] = b.Count
	}
	return out
}
