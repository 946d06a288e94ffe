// 读取 spike sorting 导出的 JSON:
//
//	{"sampling_rate": 30000, "units": {"0": [12, 480, ...], "1": [...]}}
//
// spike 为采样点序号 (整数), 每个 unit 应已升序
package loader

import (
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/tidwall/gjson"

	"fastCurate/infra/errorx"
	"fastCurate/infra/errorx/errCode"
)

type Recording struct {
	SamplingRate float64
	Units        map[string][]int64
}

// UnitIDs 按字典序返回, 保证抽样等依赖顺序的步骤可复现
func (rec *Recording) UnitIDs() []string {
	ids := make([]string, 0, len(rec.Units))
	for id := range rec.Units {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func LoadFile(path string) (*Recording, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Recording, error) {
	if !gjson.ValidBytes(b) {
		return nil, errorx.New(errCode.INVALID_VALUE, "recording is not valid json")
	}
	doc := gjson.ParseBytes(b)

	fs := doc.Get("sampling_rate")
	if fs.Type != gjson.Number || !(fs.Float() > 0) || math.IsInf(fs.Float(), 0) {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "sampling_rate must be a positive number, got %q", fs.Raw)
	}

	units := doc.Get("units")
	if !units.IsObject() {
		return nil, errorx.New(errCode.EMPTY_VALUE, "recording has no units object")
	}

	rec := &Recording{SamplingRate: fs.Float(), Units: make(map[string][]int64)}
	var parseErr error
	units.ForEach(func(key, value gjson.Result) bool {
		spikes, err := parseSpikes(key.String(), value)
		if err != nil {
			parseErr = err
			return false
		}
		rec.Units[key.String()] = spikes
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return rec, nil
}

func parseSpikes(unit string, value gjson.Result) ([]int64, error) {
	if !value.IsArray() {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "unit %s: spikes must be an array", unit)
	}
	arr := value.Array()
	spikes := make([]int64, len(arr))
	for i, v := range arr {
		if v.Type != gjson.Number {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "unit %s: spike %d is not a number: %s", unit, i, v.Raw)
		}
		f := v.Float()
		if f != math.Trunc(f) || f < 0 {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "unit %s: spike %d is not a sample index: %s", unit, i, v.Raw)
		}
		// 超出 int64 的值会被 Int() 截成负数
		if f >= math.MaxInt64 {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "unit %s: spike %d out of range: %s", unit, i, v.Raw)
		}
		spikes[i] = v.Int()
	}
	return spikes, nil
}
