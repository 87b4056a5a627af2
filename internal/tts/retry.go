package tts

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	maxAttempts  = 3
	backoffLimit = 30 * time.Second
)

// backoffBase 首次重试前的退避时长，测试里可调小
var backoffBase = 2 * time.Second

// backoffDelay 第 attempt 次失败后的退避时长（attempt 从 1 开始）
func backoffDelay(attempt int) time.Duration {
	d := backoffBase << (attempt - 1) // 2s, 4s, 8s...
	if d > backoffLimit {
		d = backoffLimit
	}
	return d
}

// withRetry 执行 fn，瞬时错误最多重试 maxAttempts 次（指数退避），
// 鉴权和非法请求类错误立即上抛。retry sleep 尊重 ctx 取消。
func withRetry(ctx context.Context, backend Backend, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		audio, err := fn(callCtx)
		cancel()
		if err == nil {
			return audio, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		delay := backoffDelay(attempt)
		logrus.Warnf("%s: attempt %d/%d failed, retrying in %s: %v", backend, attempt, maxAttempts, delay, err)
		select {
		case <-ctx.Done():
			return nil, &BackendError{Backend: backend, Cause: ctx.Err()}
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}
