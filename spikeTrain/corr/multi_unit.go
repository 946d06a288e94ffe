// 多unit并行: 每个unit一个独立任务, 只读自己的spike切片和共享的WindowParams,
// 各自产出独立的Correlogram, 全部完成后再合并成map, 无需加锁
package corr

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type unitOptions struct {
	workers int
	log     logrus.FieldLogger
}

type UnitOption func(*unitOptions)

// WithWorkers 并发上限, <= 0 使用 runtime.NumCPU()
func WithWorkers(n int) UnitOption {
	return func(o *unitOptions) { o.workers = n }
}

func WithLogger(l logrus.FieldLogger) UnitOption {
	return func(o *unitOptions) { o.log = l }
}

type unitResult[K comparable] struct {
	id K
	cg Correlogram
}

// AutoCorrelogramUnits 对每个unit计算自相关直方图, 任一unit出错则整批返回该错误
func AutoCorrelogramUnits[K comparable](ctx context.Context, units map[K][]int64, p WindowParams, opts ...UnitOption) (map[K]Correlogram, error) {
	o := unitOptions{workers: runtime.NumCPU(), log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	if err := checkParams(p); err != nil {
		return nil, err
	}

	// 每个任务写自己的槽位, 避免共享可写map
	results := make([]unitResult[K], len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	slot := 0
	for id, spikes := range units {
		k := slot
		slot++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cg, err := AutoCorrelogram(spikes, p)
			if err != nil {
				return fmt.Errorf("unit %v: %w", id, err)
			}
			o.log.WithFields(logrus.Fields{
				"unit":   id,
				"spikes": len(spikes),
				"pairs":  cg.Total(),
			}).Debug("autocorrelogram done")
			results[k] = unitResult[K]{id: id, cg: cg}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[K]Correlogram, len(results))
	for _, r := range results {
		out[r.id] = r.cg
	}
	return out, nil
}
