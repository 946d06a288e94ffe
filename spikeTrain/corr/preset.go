package corr

// Preset 一组 (window_ms, bin_ms), 采样率在运行时给出
type Preset struct {
	Name     string  `yaml:"name" json:"name"`
	WindowMs float64 `yaml:"window_ms" json:"window_ms"`
	BinMs    float64 `yaml:"bin_ms" json:"bin_ms"`
}

var (
	NarrowPreset = Preset{Name: "narrow", WindowMs: 50, BinMs: 2}
	WidePreset   = Preset{Name: "wide", WindowMs: 500, BinMs: 5}
)

func (ps Preset) Resolve(samplingRate float64) (WindowParams, error) {
	return ResolveWindow(ps.WindowMs, ps.BinMs, samplingRate)
}

// PresetByName 内置预设查找
func PresetByName(name string) (Preset, bool) {
	switch name {
	case NarrowPreset.Name:
		return NarrowPreset, true
	case WidePreset.Name:
		return WidePreset, true
	default:
		return Preset{}, false
	}
}
