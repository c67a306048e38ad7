package session

import (
	"context"
	"sync"

	"launch-catalog/internal/fetch"
	"launch-catalog/internal/logx"
	"launch-catalog/internal/model"
)

// DetailSource 聚合单个任务详情，*detail.Aggregator 满足该接口。
type DetailSource interface {
	Get(ctx context.Context, id string) (*model.MissionDetails, error)
}

// DetailView 为详情页的可见状态快照。
type DetailView struct {
	ID      string
	Details *model.MissionDetails
	Loading bool
	Err     error
}

// Detail 为详情页会话。切换到其他任务时清空旧详情，避免展示错位的数据。
type Detail struct {
	src DetailSource

	mu      sync.Mutex
	req     tracker
	id      string
	current *model.MissionDetails
	loading bool
	err     error
}

func NewDetail(src DetailSource) *Detail {
	return &Detail{src: src}
}

// Open 打开（或刷新）某个任务的详情。id/详情/错误只在请求成为最终结果时提交，
// 取消或被取代都不改变可见状态。
func (d *Detail) Open(ctx context.Context, id string) (DetailView, error) {
	d.mu.Lock()
	d.loading = true
	rctx, tok := d.req.begin(ctx)
	d.mu.Unlock()

	details, err := d.src.Get(rctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.req.finish(tok) {
		return DetailView{}, ErrSuperseded
	}
	d.loading = false
	if err != nil && fetch.IsCanceled(err) {
		return d.viewLocked(), fetch.ErrCanceled
	}
	if id != d.id {
		// 切换任务时丢弃旧详情，避免展示错位的数据
		d.current = nil
	}
	d.id = id
	if err != nil {
		d.err = err
		logx.Warnf("获取任务详情失败：任务=%s 错误=%v", id, err)
		return d.viewLocked(), err
	}
	d.current = details
	d.err = nil
	return d.viewLocked(), nil
}

// Retry 重新获取当前任务的详情。
func (d *Detail) Retry(ctx context.Context) (DetailView, error) {
	d.mu.Lock()
	id := d.id
	d.mu.Unlock()
	return d.Open(ctx, id)
}

// Close 取消在途请求。
func (d *Detail) Close() {
	d.mu.Lock()
	d.req.abort()
	d.loading = false
	d.mu.Unlock()
}

func (d *Detail) View() DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *Detail) viewLocked() DetailView {
	return DetailView{ID: d.id, Details: d.current, Loading: d.loading, Err: d.err}
}
