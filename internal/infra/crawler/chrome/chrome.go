package chrome

import (
	"context"
)

// Browser 列表页浏览器,管线通过它导航、采样与提取页面内容
// 所有方法都接受context,任何一次调用都可能被停止信号打断
type Browser interface {
	// Navigate 导航到目标页,导航等价于一次执行环境重建
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	// CountNodes 统计选择器命中的节点数,列表稳定判定的采样原语
	CountNodes(ctx context.Context, selector string) (int, error)
	Exists(ctx context.Context, selector string) (bool, error)
	// OuterHTML 返回首个命中节点的outerHTML,未命中返回空串
	OuterHTML(ctx context.Context, selector string) (string, error)
	Click(ctx context.Context, selector string) error
	// Engage 在[minMs,maxMs]的随机时间预算内模拟阅读滚动,可取消
	Engage(ctx context.Context, minMs, maxMs int, label string) error
	Close()
}
