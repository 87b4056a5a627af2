package tts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// httpClient 适配器共用的 HTTP 客户端。
// 每次调用的超时由 withRetry 注入的 ctx 控制，这里不再设置。
var httpClient = &http.Client{}

// statusError 将 HTTP 状态码归类为瞬时/非瞬时后端错误。
// 429 和 5xx 可重试；鉴权失败和非法请求立即失败。
func statusError(backend Backend, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	transient := status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout ||
		status >= 500
	return &BackendError{
		Backend:   backend,
		Transient: transient,
		Cause:     fmt.Errorf("http %d: %s", status, msg),
	}
}

// transportError 网络层错误：连接失败和超时都视为瞬时
func transportError(backend Backend, err error) error {
	if errors.Is(err, context.Canceled) {
		return &BackendError{Backend: backend, Cause: err}
	}
	return &BackendError{Backend: backend, Transient: true, Cause: err}
}
