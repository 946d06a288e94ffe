// 窗口参数解析: 把毫秒级的窗口/分箱宽度换算成采样点数
//
//	bin_size    = round(fs * bin_ms * 1e-3)
//	window_size = round(fs * window_ms / 2 * 1e-3)
//	window_size -= window_size % bin_size   // 窗口两侧都是整数个bin
//	num_bins    = 2 * window_size / bin_size
package corr

import (
	"math"

	"fastCurate/infra/errorx"
	"fastCurate/infra/errorx/errCode"
)

// MaxNumBins 分箱数上限, 超出时计数和边界数组无法分配
const MaxNumBins = 1 << 24

// WindowParams 单次调用解析出的采样点参数, 解析后不可变
type WindowParams struct {
	WindowSize   int64   // 半窗口, 单位采样点
	BinSize      int64   // 分箱宽度, 单位采样点
	NumBins      int64   // 分箱数, 恒为偶数
	SamplingRate float64 // Hz
}

// NumHalfBins 零延迟一侧的分箱数, 也是 diff=0 所在bin的下标
func (p WindowParams) NumHalfBins() int64 {
	return p.NumBins / 2
}

// BinMs 分箱宽度 (ms)
func (p WindowParams) BinMs() float64 {
	return float64(p.BinSize) * 1e3 / p.SamplingRate
}

// ResolveWindow windowMs 为整个窗口宽度(两侧合计), binMs 为分箱宽度
func ResolveWindow(windowMs, binMs, samplingRate float64) (WindowParams, error) {
	if !positiveFinite(windowMs) {
		return WindowParams{}, errorx.Newf(errCode.INVALID_PARAMETER, "window_ms must be > 0, got %v", windowMs)
	}
	if !positiveFinite(binMs) {
		return WindowParams{}, errorx.Newf(errCode.INVALID_PARAMETER, "bin_ms must be > 0, got %v", binMs)
	}
	if !positiveFinite(samplingRate) {
		return WindowParams{}, errorx.Newf(errCode.INVALID_PARAMETER, "sampling_rate must be > 0, got %v", samplingRate)
	}

	binSize, ok := roundSamples(samplingRate * binMs * 1e-3)
	if !ok {
		return WindowParams{}, errorx.Newf(errCode.INVALID_PARAMETER, "bin_ms %v overflows at %v Hz", binMs, samplingRate)
	}
	if binSize == 0 {
		return WindowParams{}, errorx.Newf(errCode.INVALID_PARAMETER,
			"bin_ms %v is shorter than half a sample at %v Hz, bin_size rounds to 0", binMs, samplingRate)
	}
	windowSize, ok := roundSamples(samplingRate * windowMs / 2 * 1e-3)
	if !ok {
		return WindowParams{}, errorx.Newf(errCode.INVALID_PARAMETER, "window_ms %v overflows at %v Hz", windowMs, samplingRate)
	}
	windowSize -= windowSize % binSize
	numBins := 2 * (windowSize / binSize)
	if numBins > MaxNumBins {
		return WindowParams{}, errorx.Newf(errCode.INVALID_PARAMETER,
			"window_ms %v / bin_ms %v gives %d bins, limit is %d", windowMs, binMs, numBins, MaxNumBins)
	}

	return WindowParams{
		WindowSize:   windowSize,
		BinSize:      binSize,
		NumBins:      numBins,
		SamplingRate: samplingRate,
	}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// numpy 的 round 是银行家舍入, 这里保持一致
func roundSamples(v float64) (int64, bool) {
	r := math.RoundToEven(v)
	// 留余量, 后续 t[i]-t[j] 与 window_size 比较不会溢出
	if r >= math.MaxInt64/4 {
		return 0, false
	}
	return int64(r), true
}
