package chrome

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/andybrandt/lisesca/internal/config"
)

type chromedpBrowser struct {
	allocCtx      context.Context
	allocCtxFuc   context.CancelFunc
	pageCtx       context.Context
	pageCtxFuc    context.CancelFunc
	timeoutCtxFuc context.CancelFunc
}

func InitChromedpBrowser(ctx context.Context, cfg *config.Config) Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
		chromedp.UserDataDir(cfg.Chromedp.UserDataDir),
		chromedp.UserAgent(cfg.Chromedp.UserAgent),
	)
	lifeTime := cfg.Chromedp.LifeTime
	if lifeTime <= 0 {
		// 缺省给足一次完整会话的时间
		lifeTime = 3600
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(ctx, time.Duration(lifeTime)*time.Second)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(timeoutCtx, opts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx)

	return &chromedpBrowser{
		allocCtx:      allocCtx,
		allocCtxFuc:   cancelAlloc,
		pageCtx:       pageCtx,
		pageCtxFuc:    cancelPage,
		timeoutCtxFuc: cancelTimeout,
	}
}

func (cb *chromedpBrowser) Close() {
	cb.pageCtxFuc()
	cb.allocCtxFuc()
	cb.timeoutCtxFuc()
}

// run 在页面上下文中执行动作,同时尊重调用方的取消信号
func (cb *chromedpBrowser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(cb.pageCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (cb *chromedpBrowser) Navigate(ctx context.Context, url string) error {
	log.Printf("导航到页面: %s", url)
	return cb.run(ctx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.Sleep(2*time.Second),
	)
}

func (cb *chromedpBrowser) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := cb.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("读取当前URL失败: %w", err)
	}
	return loc, nil
}

func (cb *chromedpBrowser) CountNodes(ctx context.Context, selector string) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := cb.run(ctx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("统计节点失败: %w", err)
	}
	return n, nil
}

func (cb *chromedpBrowser) Exists(ctx context.Context, selector string) (bool, error) {
	n, err := cb.CountNodes(ctx, selector)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (cb *chromedpBrowser) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el ? el.outerHTML : ""; })()`,
		selector)
	if err := cb.run(ctx, chromedp.Evaluate(js, &html)); err != nil {
		return "", fmt.Errorf("提取outerHTML失败: %w", err)
	}
	return html, nil
}

func (cb *chromedpBrowser) Click(ctx context.Context, selector string) error {
	if err := cb.run(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("点击失败: %w", err)
	}
	return nil
}

// Engage 在随机时间预算内执行随机滑动,模拟人工浏览
func (cb *chromedpBrowser) Engage(ctx context.Context, minMs, maxMs int, label string) error {
	localRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	budget := engageBudget(localRand, minMs, maxMs)
	log.Printf("模拟浏览(%s): 预算 %.1f 秒", label, budget.Seconds())

	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// 随机选择滑动策略
		var js string
		switch localRand.Intn(2) {
		case 0:
			// 滑动到底部
			js = `window.scrollTo({top: document.body.scrollHeight, behavior: 'smooth'});`
		case 1:
			// 滑动到随机比例
			ratio := 0.3 + localRand.Float64()*0.7
			js = fmt.Sprintf(
				`window.scrollTo({top: document.body.scrollHeight * %f, behavior: 'smooth'});`,
				ratio)
		}
		if err := cb.run(ctx, chromedp.Evaluate(js, nil)); err != nil {
			return fmt.Errorf("模拟滑动失败: %w", err)
		}
		step := time.Duration(300+localRand.Intn(700)) * time.Millisecond
		if remain := time.Until(deadline); step > remain {
			step = remain
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step):
		}
	}
	return nil
}

// engageBudget 在[minMs,maxMs]区间内取随机预算
func engageBudget(r *rand.Rand, minMs, maxMs int) time.Duration {
	if minMs < 0 {
		minMs = 0
	}
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	return time.Duration(minMs+r.Intn(maxMs-minMs)) * time.Millisecond
}
