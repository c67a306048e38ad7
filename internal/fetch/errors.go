package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound 对应上游 404。
	ErrNotFound = errors.New("not found")
	// ErrCanceled 表示请求被调用方放弃；它不是错误状态，上层应静默丢弃。
	ErrCanceled = errors.New("request canceled")
)

// TransportError 为网络或 HTTP 层失败，Error() 的文本会原样展示给用户。
type TransportError struct {
	URL    string
	Status int // 0 表示未收到响应
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, ErrNotFound) 能匹配 404。
func (e *TransportError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type canceledError struct{ cause error }

func (e canceledError) Error() string { return ErrCanceled.Error() + ": " + e.cause.Error() }
func (e canceledError) Unwrap() []error {
	return []error{ErrCanceled, e.cause}
}

func canceled(cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	return canceledError{cause: cause}
}

// IsCanceled 判断 err 是否为调用方取消。超时属于传输错误，不算取消。
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}
