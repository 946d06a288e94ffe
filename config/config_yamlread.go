package config

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"fastCurate/spikeTrain/corr"
	"fastCurate/spikeTrain/sample"
)

type LogConfig struct {
	Level      string `yaml:"level"`  // trace/debug/info/warn/error
	Format     string `yaml:"format"` // text / json
	File       string `yaml:"file"`   // 为空时输出到 stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type Config struct {
	Presets          map[string]corr.Preset `yaml:"presets"`
	Workers          int                    `yaml:"workers"`
	MaxSpikesPerUnit int                    `yaml:"max_spikes_per_unit"`
	HistBins         int                    `yaml:"hist_bins"`
	Seed             uint64                 `yaml:"seed"`
	Log              LogConfig              `yaml:"log"`
}

// 用 atomic.Value 存当前配置，支持热更新时无锁读取
var cfgValue atomic.Value // stores *Config

// Default 内置 narrow/wide 两个预设
func Default() *Config {
	return &Config{
		Presets: map[string]corr.Preset{
			corr.NarrowPreset.Name: corr.NarrowPreset,
			corr.WidePreset.Name:   corr.WidePreset,
		},
		MaxSpikesPerUnit: sample.DefaultMaxSpikes,
		HistBins:         20,
		Log:              LogConfig{Level: "info", Format: "text", MaxSizeMB: 100, MaxBackups: 3},
	}
}

// Load 读取yaml, 未给出的字段沿用 Default
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	c := Default()
	presets := c.Presets
	c.Presets = nil
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// 规范化 key：全小写、去空格; 文件里的预设覆盖同名内置预设
	for k, ps := range c.Presets {
		name := strings.ToLower(strings.TrimSpace(k))
		if ps.WindowMs <= 0 || ps.BinMs <= 0 {
			return nil, fmt.Errorf("invalid preset %s: window_ms=%v bin_ms=%v", name, ps.WindowMs, ps.BinMs)
		}
		ps.Name = name
		presets[name] = ps
	}
	c.Presets = presets

	if c.HistBins < 0 {
		return nil, fmt.Errorf("invalid hist_bins: %d", c.HistBins)
	}
	if c.MaxSpikesPerUnit < 0 {
		return nil, fmt.Errorf("invalid max_spikes_per_unit: %d", c.MaxSpikesPerUnit)
	}
	return c, nil
}

func Init(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	cfgValue.Store(c)
	return nil
}

// Get 未 Init 时返回 Default
func Get() *Config {
	cAny := cfgValue.Load()
	if cAny == nil {
		return Default()
	}
	return cAny.(*Config)
}

// Preset O(1) 查找, 名字大小写不敏感; 配置里没有时退回内置预设
func (c *Config) Preset(name string) (corr.Preset, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if ps, ok := c.Presets[key]; ok {
		return ps, true
	}
	return corr.PresetByName(key)
}
