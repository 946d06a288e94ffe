package corr

import (
	"gonum.org/v1/gonum/floats"
)

// StepX 左阶梯图的横坐标: 每个bin取右边界 (Edges[1:])
func (c Correlogram) StepX() []float64 {
	if len(c.Edges) == 0 {
		return nil
	}
	x := make([]float64, len(c.Edges)-1)
	copy(x, c.Edges[1:])
	return x
}

// Total 计入直方图的有序对总数
func (c Correlogram) Total() int64 {
	var sum int64
	for _, v := range c.Counts {
		sum += v
	}
	return sum
}

// Rate 计数归一化为条件发放率 (Hz): count / (N * bin_sec)
// N == 0 时返回全零
func (c Correlogram) Rate() []float64 {
	rate := make([]float64, len(c.Counts))
	if c.NumSpikes == 0 || c.Params.SamplingRate <= 0 {
		return rate
	}
	for k, v := range c.Counts {
		rate[k] = float64(v)
	}
	binSec := float64(c.Params.BinSize) / c.Params.SamplingRate
	floats.Scale(1/(float64(c.NumSpikes)*binSec), rate)
	return rate
}

// Peak 计数最大的bin及其左边界(ms); 无bin时 idx = -1
func (c Correlogram) Peak() (idx int, leftMs float64) {
	if len(c.Counts) == 0 {
		return -1, 0
	}
	fc := make([]float64, len(c.Counts))
	for k, v := range c.Counts {
		fc[k] = float64(v)
	}
	idx = floats.MaxIdx(fc)
	return idx, c.Edges[idx]
}
