package listing

import (
	"context"
	"log"
	"time"
)

// WaitStable 轮询采样直到列表数量稳定: 连续stableSamples次采样值相同且非零才算就绪
// 虚拟化列表在页面加载后还会异步增长,单次采样不可信
// 超过maxWait仍未稳定时返回最后一次采样值(可能为0,由调用方决定回落策略)
func WaitStable(ctx context.Context, sample func(ctx context.Context) (int, error),
	interval time.Duration, stableSamples int, maxWait time.Duration) (int, error) {

	deadline := time.Now().Add(maxWait)
	last := -1
	streak := 0

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := sample(ctx)
		if err != nil {
			return 0, err
		}
		if n == last && n > 0 {
			streak++
			if streak >= stableSamples {
				return n, nil
			}
		} else {
			streak = 1
			last = n
		}
		if time.Now().After(deadline) {
			log.Printf("列表稳定判定超时, 最后采样值: %d", last)
			if last < 0 {
				last = 0
			}
			return last, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(interval):
		}
	}
}
