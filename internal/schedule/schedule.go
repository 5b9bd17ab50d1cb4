package schedule

import (
	"context"
	"sync"
	"time"
)

// Task 周期回调。ctx 在 Stop 或父 ctx 结束时取消，回调中的阻塞操作应当监听它
type Task func(ctx context.Context, now time.Time)

// Ticker 一个已启动的周期调度
type Ticker struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every 立即启动周期调度，每隔 interval 调用一次 fn（首次在一个间隔之后）
// interval<=0 时返回一个已停止的 Ticker
func Every(parent context.Context, interval time.Duration, fn Task) *Ticker {
	ctx, cancel := context.WithCancel(parent)
	t := &Ticker{cancel: cancel, done: make(chan struct{})}
	if interval <= 0 || fn == nil {
		cancel()
		close(t.done)
		return t
	}
	go t.loop(ctx, interval, fn)
	return t
}

func (t *Ticker) loop(ctx context.Context, interval time.Duration, fn Task) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// ticker 与 ctx 同时就绪时 select 随机选择，这里再确认一次
			if ctx.Err() != nil {
				return
			}
			fn(ctx, now)
		}
	}
}

// Stop 取消调度并等待当前回调返回；Stop 返回后不会再有回调。可重复调用
func (t *Ticker) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done 调度结束后关闭
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

// Countdown 从 from 开始每隔 interval 减一并回调剩余值，到 0 后自动结束
func Countdown(parent context.Context, interval time.Duration, from int, fn func(ctx context.Context, remaining int)) *Ticker {
	ctx, cancel := context.WithCancel(parent)
	remaining := from
	t := Every(ctx, interval, func(tickCtx context.Context, _ time.Time) {
		if remaining <= 0 {
			cancel()
			return
		}
		remaining--
		fn(tickCtx, remaining)
		if remaining == 0 {
			cancel()
		}
	})
	if from <= 0 {
		cancel()
	}
	// 外层 Stop 需要同时释放内部 ctx
	inner := t.cancel
	t.cancel = func() {
		cancel()
		inner()
	}
	return t
}
