package session

import (
	"context"
	"sync"

	"launch-catalog/internal/fetch"
	"launch-catalog/internal/logx"
	"launch-catalog/internal/model"
	"launch-catalog/internal/query"
)

// MissionSource 提供全量任务集合，*fetch.Client 满足该接口。
type MissionSource interface {
	Missions(ctx context.Context) ([]model.Mission, error)
}

// Favorites 为列表页使用的收藏查询能力，*favorites.Store 满足该接口。
type Favorites interface {
	IsFavorite(id string) bool
}

// Filters 为列表页的用户筛选项（不含页码）。
type Filters struct {
	Search        string
	Year          string
	Outcome       string
	Sort          string
	FavoritesOnly bool
}

// ListView 为列表页的可见状态快照。
type ListView struct {
	query.Result
	Params        query.Params
	FavoritesOnly bool
	// Shown 为实际展示的任务：仅看收藏时只在已分页的前缀内过滤
	Shown   []model.Mission
	Loading bool
	Err     error
	Message string
}

// List 为列表页会话。
type List struct {
	src      MissionSource
	fav      Favorites
	pageSize int

	mu       sync.Mutex
	req      tracker
	params   query.Params
	favOnly  bool
	missions []model.Mission
	loading  bool
	err      error
}

// NewList 创建列表会话；fav 可为 nil（不支持仅看收藏）。
func NewList(src MissionSource, fav Favorites, pageSize int) *List {
	p := query.Params{PageSize: pageSize}.Normalize()
	return &List{src: src, fav: fav, pageSize: p.PageSize, params: p}
}

// Load 以给定参数发起一次获取。参数/数据/错误只在请求成为最终结果时提交：
// 被更新请求取代时返回 ErrSuperseded，调用方 ctx 被取消时返回 fetch.ErrCanceled，
// 二者都不改变可见状态。
func (l *List) Load(ctx context.Context, p query.Params) (ListView, error) {
	l.mu.Lock()
	favOnly := l.favOnly
	l.mu.Unlock()
	return l.load(ctx, p, favOnly)
}

func (l *List) load(ctx context.Context, p query.Params, favOnly bool) (ListView, error) {
	l.mu.Lock()
	if p.PageSize < 1 {
		p.PageSize = l.pageSize
	}
	p = p.Normalize()
	l.loading = true
	rctx, tok := l.req.begin(ctx)
	l.mu.Unlock()

	missions, err := l.src.Missions(rctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.req.finish(tok) {
		return ListView{}, ErrSuperseded
	}
	l.loading = false
	if err != nil && fetch.IsCanceled(err) {
		return l.viewLocked(), fetch.ErrCanceled
	}
	// 失败时也提交参数，Retry 以用户最后选择的条件重新发起；数据保留上一次成功的结果
	l.params = p
	l.favOnly = favOnly
	if err != nil {
		l.err = err
		logx.Warnf("获取任务列表失败：%v", err)
		return l.viewLocked(), err
	}
	l.missions = missions
	l.err = nil
	logx.Debugf("任务列表已更新：共 %d 条", len(missions))
	return l.viewLocked(), nil
}

// SetFilters 更新筛选项，页码重置为 1 并重新获取。
func (l *List) SetFilters(ctx context.Context, f Filters) (ListView, error) {
	p := query.Params{
		Search:   f.Search,
		Year:     f.Year,
		Outcome:  f.Outcome,
		Sort:     f.Sort,
		Page:     1,
		PageSize: l.pageSize,
	}
	return l.load(ctx, p, f.FavoritesOnly)
}

// LoadMore 在还有更多结果时把页码加一并重新获取；否则直接返回当前视图。
// 仅看收藏时不翻页。
func (l *List) LoadMore(ctx context.Context) (ListView, error) {
	l.mu.Lock()
	v := l.viewLocked()
	if !v.HasMore || v.Loading || l.favOnly {
		l.mu.Unlock()
		return v, nil
	}
	p := l.params
	p.Page++
	l.mu.Unlock()
	return l.Load(ctx, p)
}

// Retry 以当前参数重新发起获取。
func (l *List) Retry(ctx context.Context) (ListView, error) {
	l.mu.Lock()
	p := l.params
	l.mu.Unlock()
	return l.Load(ctx, p)
}

// Close 取消在途请求。
func (l *List) Close() {
	l.mu.Lock()
	l.req.abort()
	l.loading = false
	l.mu.Unlock()
}

// View 返回当前可见状态。
func (l *List) View() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked()
}

func (l *List) viewLocked() ListView {
	res := query.Run(l.missions, l.params)
	shown := res.Page
	if l.favOnly && l.fav != nil {
		shown = make([]model.Mission, 0, len(res.Page))
		for _, m := range res.Page {
			if l.fav.IsFavorite(m.ID) {
				shown = append(shown, m)
			}
		}
	}
	v := ListView{
		Result:        res,
		Params:        l.params,
		FavoritesOnly: l.favOnly,
		Shown:         shown,
		Loading:       l.loading,
		Err:           l.err,
	}
	v.Message = query.CountMessage(query.CountInput{
		Loading:         v.Loading,
		Err:             v.Err,
		Search:          l.params.Search,
		FavoritesOnly:   l.favOnly,
		Shown:           len(shown),
		FilteredCount:   res.FilteredCount,
		TotalCount:      res.TotalCount,
		YearFiltered:    l.params.Year != query.All,
		OutcomeFiltered: l.params.Outcome != query.All,
	})
	return v
}
