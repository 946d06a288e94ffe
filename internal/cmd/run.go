package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"

	"fastCurate/config"
	"fastCurate/spikeTrain/corr"
	"fastCurate/spikeTrain/hist"
	"fastCurate/spikeTrain/loader"
	"fastCurate/spikeTrain/sample"
)

type runOptions struct {
	input    string
	presets  []string
	windowMs float64
	binMs    float64
	compact  bool
}

type correlogramOut struct {
	WindowMs float64   `json:"window_ms"`
	BinMs    float64   `json:"bin_ms"`
	Counts   []int64   `json:"counts"`
	Edges    []float64 `json:"edges_ms"`
	StepX    []float64 `json:"step_x_ms"`
}

type histOut struct {
	From   []float64 `json:"from_s"`
	Counts []int     `json:"counts"`
}

type unitOut struct {
	Unit         string                    `json:"unit"`
	Spikes       int                       `json:"spikes"`
	Used         int                       `json:"spikes_used"`
	Correlograms map[string]correlogramOut `json:"correlograms"`
	SpikeHist    *histOut                  `json:"spike_hist,omitempty"`
}

type report struct {
	SamplingRate float64   `json:"sampling_rate"`
	Units        []unitOut `json:"units"`
}

// resolvePresets 显式给出 window/bin 时只算这一组, 否则按名字取预设
func resolvePresets(c *config.Config, o runOptions) ([]corr.Preset, error) {
	if o.windowMs > 0 || o.binMs > 0 {
		return []corr.Preset{{Name: "custom", WindowMs: o.windowMs, BinMs: o.binMs}}, nil
	}
	out := make([]corr.Preset, 0, len(o.presets))
	for _, name := range o.presets {
		ps, ok := c.Preset(name)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		out = append(out, ps)
	}
	return out, nil
}

func run(ctx context.Context, c *config.Config, o runOptions, log *logrus.Logger, w io.Writer) error {
	rec, err := loader.LoadFile(o.input)
	if err != nil {
		return fmt.Errorf("load recording: %w", err)
	}
	log.WithFields(logrus.Fields{
		"units":         len(rec.Units),
		"sampling_rate": rec.SamplingRate,
	}).Info("recording loaded")

	presets, err := resolvePresets(c, o)
	if err != nil {
		return err
	}

	// 按unit id排序后依次抽样, 同一seed结果可复现
	ids := rec.UnitIDs()
	rng := rand.New(rand.NewPCG(c.Seed, c.Seed))
	used := make(map[string][]int64, len(ids))
	for _, id := range ids {
		used[id] = sample.RandomSpikes(rec.Units[id], c.MaxSpikesPerUnit, rng)
	}

	rep := report{SamplingRate: rec.SamplingRate, Units: make([]unitOut, len(ids))}
	for k, id := range ids {
		rep.Units[k] = unitOut{
			Unit:         id,
			Spikes:       len(rec.Units[id]),
			Used:         len(used[id]),
			Correlograms: make(map[string]correlogramOut, len(presets)),
		}
		if c.HistBins > 0 {
			if h := hist.SpikeCounts(used[id], rec.SamplingRate, c.HistBins); h != nil {
				ho := &histOut{Counts: hist.Counts(h)}
				for _, b := range h {
					ho.From = append(ho.From, b.From)
				}
				rep.Units[k].SpikeHist = ho
			}
		}
	}

	for _, ps := range presets {
		p, err := ps.Resolve(rec.SamplingRate)
		if err != nil {
			return fmt.Errorf("preset %s: %w", ps.Name, err)
		}
		log.WithFields(logrus.Fields{
			"preset":      ps.Name,
			"window_size": p.WindowSize,
			"bin_size":    p.BinSize,
			"bins":        p.NumBins,
		}).Debug("window resolved")

		cgs, err := corr.AutoCorrelogramUnits(ctx, used, p, corr.WithWorkers(c.Workers), corr.WithLogger(log))
		if err != nil {
			return fmt.Errorf("preset %s: %w", ps.Name, err)
		}
		for k, id := range ids {
			cg := cgs[id]
			rep.Units[k].Correlograms[ps.Name] = correlogramOut{
				WindowMs: ps.WindowMs,
				BinMs:    p.BinMs(),
				Counts:   cg.Counts,
				Edges:    cg.Edges,
				StepX:    cg.StepX(),
			}
		}
	}

	b, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if !o.compact {
		b = pretty.Pretty(b)
	} else {
		b = append(b, '\n')
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.WithField("presets", len(presets)).Info("correlograms written")
	return nil
}
