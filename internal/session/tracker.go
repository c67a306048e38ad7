// 包 session 持有列表页/详情页的可见状态，保证在参数频繁变化时
// 只有最近一次发起且未被取消的请求结果会被提交：
// - 每个请求携带一个递增令牌，发起新请求时取消旧请求
// - 请求返回时比较令牌，过期结果直接丢弃（ErrSuperseded）
// - 失败时保留上一次成功的数据并记录错误，Retry 以相同参数重新发起
package session

import (
	"context"
	"errors"
)

// ErrSuperseded 表示请求已被更新的请求取代，其结果被丢弃。不是错误状态。
var ErrSuperseded = errors.New("request superseded")

// tracker 管理当前在途请求的令牌与取消函数。调用方需持有外层锁。
type tracker struct {
	token  uint64
	cancel context.CancelFunc
}

// begin 取消旧请求并为新请求分配令牌。
func (t *tracker) begin(ctx context.Context) (context.Context, uint64) {
	if t.cancel != nil {
		t.cancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	t.token++
	t.cancel = cancel
	return rctx, t.token
}

// finish 判断 tok 是否仍为最新请求；是则释放其取消函数。
func (t *tracker) finish(tok uint64) bool {
	if tok != t.token {
		return false
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return true
}

// abort 取消在途请求并使其结果失效。
func (t *tracker) abort() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.token++
}
