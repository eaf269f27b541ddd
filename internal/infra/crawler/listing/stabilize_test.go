package listing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSample 依次返回脚本值,耗尽后重复最后一个
func scriptedSample(values ...int) func(ctx context.Context) (int, error) {
	i := 0
	return func(ctx context.Context) (int, error) {
		v := values[min(i, len(values)-1)]
		i++
		return v, nil
	}
}

func TestWaitStableReturnsWhenCountSettles(t *testing.T) {
	// 虚拟化列表异步增长: 3 -> 7 -> 10,然后稳定
	sample := scriptedSample(3, 7, 10, 10, 10)
	n, err := WaitStable(context.Background(), sample, time.Millisecond, 3, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestWaitStableIgnoresZeroStreak(t *testing.T) {
	// 零值不算稳定,必须等到非零数量坐稳
	sample := scriptedSample(0, 0, 0, 4, 4, 4)
	n, err := WaitStable(context.Background(), sample, time.Millisecond, 3, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestWaitStableTimeoutFallsBackToLastSample(t *testing.T) {
	// 数量一直变,超时后回落到最后一次采样值
	i := 0
	sample := func(ctx context.Context) (int, error) {
		i++
		return i, nil
	}
	n, err := WaitStable(context.Background(), sample, time.Millisecond, 3, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestWaitStableTimeoutOnEmptyPage(t *testing.T) {
	sample := scriptedSample(0)
	n, err := WaitStable(context.Background(), sample, time.Millisecond, 3, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "空页超时返回0,由调用方按零条目处理")
}

func TestWaitStablePropagatesSampleError(t *testing.T) {
	sample := func(ctx context.Context) (int, error) {
		return 0, fmt.Errorf("页面已销毁")
	}
	_, err := WaitStable(context.Background(), sample, time.Millisecond, 3, time.Second)
	assert.Error(t, err)
}

func TestWaitStableHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := WaitStable(ctx, scriptedSample(5), time.Millisecond, 3, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
