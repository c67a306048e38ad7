// 包 detail 负责详情页聚合：
// - 先获取任务本身，失败即返回
// - 再并发获取火箭、发射场与全部载荷（N+2 个请求）
// - 全部成功才合并并归一化，任意失败或取消都不返回部分结果
package detail

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"launch-catalog/internal/fetch"
	"launch-catalog/internal/logx"
	"launch-catalog/internal/model"
)

// ErrMissingReference 表示任务缺少必需的外键。
var ErrMissingReference = errors.New("missing reference")

// Source 为聚合所需的上游访问能力，*fetch.Client 满足该接口。
type Source interface {
	Mission(ctx context.Context, id string) (*model.Mission, error)
	GetJSON(ctx context.Context, path string, out any) error
}

type Options struct {
	// MaxConcurrency 限制同时进行的关联请求数，0 表示不限制
	MaxConcurrency int
}

// Aggregator 为详情聚合器。
type Aggregator struct {
	src   Source
	limit int
}

func New(src Source, opts Options) *Aggregator {
	return &Aggregator{src: src, limit: opts.MaxConcurrency}
}

// Get 聚合单个任务的详情。ctx 被取消时返回 fetch.ErrCanceled，绝不返回部分结果。
func (a *Aggregator) Get(ctx context.Context, id string) (*model.MissionDetails, error) {
	if id == "" {
		return nil, fmt.Errorf("mission id: %w", ErrMissingReference)
	}
	m, err := a.src.Mission(ctx, id)
	if err != nil {
		if callerCanceled(ctx) {
			return nil, fetch.ErrCanceled
		}
		return nil, fmt.Errorf("fetch mission %s: %w", id, err)
	}
	if m.Rocket == "" || m.Launchpad == "" {
		return nil, fmt.Errorf("mission %s rocket=%q launchpad=%q: %w", id, m.Rocket, m.Launchpad, ErrMissingReference)
	}

	var (
		rv       rawVehicle
		rs       rawSite
		payloads = make([]model.Payload, len(m.Payloads))
	)
	g, gctx := errgroup.WithContext(ctx)
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	g.Go(func() error {
		if err := a.src.GetJSON(gctx, fetch.ItemPath(fetch.ResourceRockets, m.Rocket), &rv); err != nil {
			return fmt.Errorf("fetch rocket %s: %w", m.Rocket, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.src.GetJSON(gctx, fetch.ItemPath(fetch.ResourceLaunchpads, m.Launchpad), &rs); err != nil {
			return fmt.Errorf("fetch launchpad %s: %w", m.Launchpad, err)
		}
		return nil
	})
	for i, pid := range m.Payloads {
		g.Go(func() error {
			var p model.Payload
			if err := a.src.GetJSON(gctx, fetch.ItemPath(fetch.ResourcePayloads, pid), &p); err != nil {
				return fmt.Errorf("fetch payload %s: %w", pid, err)
			}
			payloads[i] = p
			return nil
		})
	}
	logx.Debugf("详情聚合：任务=%s 并发请求=%d", id, len(m.Payloads)+2)

	err = g.Wait()
	if callerCanceled(ctx) {
		// 调用方已放弃：即使部分请求已完成也丢弃
		return nil, fetch.ErrCanceled
	}
	if err != nil {
		return nil, err
	}

	out := &model.MissionDetails{
		Mission:          *m,
		RocketDetails:    rv.normalize(),
		LaunchpadDetails: rs.normalize(),
		PayloadDetails:   make([]model.Payload, 0, len(payloads)),
	}
	for _, p := range payloads {
		out.PayloadDetails = append(out.PayloadDetails, NormalizePayload(p))
	}
	return out, nil
}

// callerCanceled 仅把调用方主动取消视为取消；超时按传输错误处理。
func callerCanceled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}
