package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launch-catalog/internal/favorites"
	"launch-catalog/internal/fetch"
	"launch-catalog/internal/model"
	"launch-catalog/internal/query"
	"launch-catalog/internal/session"
	"launch-catalog/internal/store"
)

// scripted 按调用序号（从 1 开始）决定返回值。
type scripted struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, n int) ([]model.Mission, error)
}

func (s *scripted) Missions(ctx context.Context) ([]model.Mission, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	return s.fn(ctx, n)
}

func missions(ids ...string) []model.Mission {
	out := make([]model.Mission, 0, len(ids))
	for i, id := range ids {
		out = append(out, model.Mission{
			ID:      id,
			Name:    "Mission " + id,
			DateUTC: fmt.Sprintf("2020-01-%02dT00:00:00.000Z", len(ids)-i),
		})
	}
	return out
}

func ids(ms []model.Mission) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestList_SupersededResultIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	var firstErr error
	src := &scripted{fn: func(ctx context.Context, n int) ([]model.Mission, error) {
		if n == 1 {
			close(started)
			<-ctx.Done()
			firstErr = ctx.Err()
			// 即使上游忽略取消并返回数据，也不能被提交
			return missions("old"), nil
		}
		return missions("new1", "new2"), nil
	}}
	l := session.NewList(src, nil, 15)

	done := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), query.Params{Sort: query.SortNewest})
		done <- err
	}()
	<-started

	v, err := l.Load(context.Background(), query.Params{Sort: query.SortOldest})
	require.NoError(t, err)
	assert.Equal(t, []string{"new2", "new1"}, ids(v.Page))

	assert.ErrorIs(t, <-done, session.ErrSuperseded)
	assert.ErrorIs(t, firstErr, context.Canceled, "older request is canceled")

	final := l.View()
	assert.Equal(t, query.SortOldest, final.Params.Sort)
	assert.Equal(t, []string{"new2", "new1"}, ids(final.Page))
	assert.False(t, final.Loading)
}

func TestList_FailureKeepsLastGoodThenRetry(t *testing.T) {
	boom := errors.New("GET launches: 503")
	src := &scripted{fn: func(_ context.Context, n int) ([]model.Mission, error) {
		if n == 2 {
			return nil, boom
		}
		return missions("a", "b", "c"), nil
	}}
	l := session.NewList(src, nil, 2)
	ctx := context.Background()

	v, err := l.Load(ctx, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, 3, v.TotalCount)

	v, err = l.Retry(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, boom, v.Err)
	assert.Equal(t, 3, v.TotalCount, "last good data kept")
	assert.Equal(t, boom.Error(), v.Message)

	v, err = l.Retry(ctx)
	require.NoError(t, err)
	assert.Nil(t, v.Err)
	assert.Equal(t, 3, src.calls)
}

func TestList_CallerCancelIsNotAnError(t *testing.T) {
	src := &scripted{fn: func(ctx context.Context, _ int) ([]model.Mission, error) {
		<-ctx.Done()
		return nil, fetch.ErrCanceled
	}}
	l := session.NewList(src, nil, 15)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := l.Load(ctx, query.Params{})
	assert.ErrorIs(t, err, fetch.ErrCanceled)
	assert.Nil(t, v.Err)
	assert.False(t, v.Loading)
}

func TestList_SetFiltersResetsPageAndLoadMore(t *testing.T) {
	src := &scripted{fn: func(context.Context, int) ([]model.Mission, error) {
		return missions("a", "b", "c", "d", "e"), nil
	}}
	l := session.NewList(src, nil, 2)
	ctx := context.Background()

	v, err := l.SetFilters(ctx, session.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(v.Page))
	assert.True(t, v.HasMore)

	v, err = l.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Params.Page)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(v.Page))

	v, err = l.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, v.Page, 5)
	assert.False(t, v.HasMore)
	calls := src.calls

	// 没有更多时不再请求
	_, err = l.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, calls, src.calls)

	v, err = l.SetFilters(ctx, session.Filters{Sort: query.SortOldest})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Params.Page)
	assert.Equal(t, []string{"e", "d"}, ids(v.Page))
}

func TestList_FavoritesOnlyFiltersPaginatedPrefix(t *testing.T) {
	ctx := context.Background()
	fav := favorites.Open(ctx, store.NewMemory(), "spacex-favorites")
	_, err := fav.Toggle(ctx, "b")
	require.NoError(t, err)
	_, err = fav.Toggle(ctx, "d")
	require.NoError(t, err)

	src := &scripted{fn: func(context.Context, int) ([]model.Mission, error) {
		return missions("a", "b", "c", "d"), nil
	}}
	l := session.NewList(src, fav, 2)

	v, err := l.SetFilters(ctx, session.Filters{FavoritesOnly: true})
	require.NoError(t, err)
	// "d" 是收藏但不在第一页前缀内，不会出现
	assert.Equal(t, []string{"b"}, ids(v.Shown))
	assert.Len(t, v.Page, 2)
	assert.Equal(t, "Showing 1 of 4 launches", v.Message)
}

type detailFunc func(ctx context.Context, id string) (*model.MissionDetails, error)

func (f detailFunc) Get(ctx context.Context, id string) (*model.MissionDetails, error) {
	return f(ctx, id)
}

func TestDetail_SupersedeAndRetry(t *testing.T) {
	started := make(chan struct{})
	var mu sync.Mutex
	fails := map[string]bool{"m2": true}
	src := detailFunc(func(ctx context.Context, id string) (*model.MissionDetails, error) {
		if id == "slow" {
			close(started)
			<-ctx.Done()
			return nil, fetch.ErrCanceled
		}
		mu.Lock()
		defer mu.Unlock()
		if fails[id] {
			fails[id] = false
			return nil, errors.New("fetch launchpad s1: 502")
		}
		return &model.MissionDetails{Mission: model.Mission{ID: id}}, nil
	})
	d := session.NewDetail(src)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := d.Open(ctx, "slow")
		done <- err
	}()
	<-started

	v, err := d.Open(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", v.Details.ID)
	assert.ErrorIs(t, <-done, session.ErrSuperseded)

	v, err = d.Open(ctx, "m2")
	require.Error(t, err)
	assert.Nil(t, v.Details, "details of another mission are not shown")
	assert.Equal(t, "m2", v.ID)
	assert.Error(t, v.Err)

	v, err = d.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m2", v.Details.ID)
	assert.Nil(t, v.Err)
}

func TestList_CallerCancelKeepsVisibleState(t *testing.T) {
	boom := errors.New("GET launches: 503")
	src := &scripted{fn: func(ctx context.Context, n int) ([]model.Mission, error) {
		switch n {
		case 1:
			return missions("a", "b"), nil
		case 2:
			return nil, boom
		default:
			<-ctx.Done()
			return nil, fetch.ErrCanceled
		}
	}}
	l := session.NewList(src, nil, 15)
	ctx := context.Background()

	_, err := l.Load(ctx, query.Params{})
	require.NoError(t, err)
	_, err = l.Retry(ctx)
	require.ErrorIs(t, err, boom)
	before := l.View()

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.SetFilters(cctx, session.Filters{Search: "zzz", FavoritesOnly: true})
	require.ErrorIs(t, err, fetch.ErrCanceled)

	after := l.View()
	assert.Equal(t, before.Params, after.Params)
	assert.Equal(t, boom, after.Err, "error stays visible")
	assert.False(t, after.FavoritesOnly)
	assert.Equal(t, ids(before.Shown), ids(after.Shown))
	assert.Equal(t, before.Message, after.Message)
	assert.False(t, after.Loading)
}

func TestDetail_CallerCancelKeepsVisibleState(t *testing.T) {
	src := detailFunc(func(ctx context.Context, id string) (*model.MissionDetails, error) {
		if id == "m2" {
			<-ctx.Done()
			return nil, fetch.ErrCanceled
		}
		return &model.MissionDetails{Mission: model.Mission{ID: id}}, nil
	})
	d := session.NewDetail(src)

	_, err := d.Open(context.Background(), "m1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v, err := d.Open(ctx, "m2")
	require.ErrorIs(t, err, fetch.ErrCanceled)
	assert.Equal(t, "m1", v.ID)
	require.NotNil(t, v.Details)
	assert.Equal(t, "m1", v.Details.ID)
	assert.Nil(t, v.Err)
	assert.False(t, v.Loading)
}
