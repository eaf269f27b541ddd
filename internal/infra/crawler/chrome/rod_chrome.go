package chrome

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/andybrandt/lisesca/internal/config"
)

type rodBrowser struct {
	browser *rod.Browser
	page    *rod.Page
}

// InitRodBrowser rod后端,使用stealth页面降低被识别为自动化的概率
func InitRodBrowser(cfg *config.Config) (Browser, error) {
	l := launcher.New().
		Headless(cfg.Rod.Headless).
		Leakless(cfg.Rod.Leakless).
		Set("disable-blink-features", cfg.Rod.DisableBlinkFeatures).
		Set("disable-dev-shm-usage", fmt.Sprint(cfg.Rod.DisableDevShmUsage)).
		Set("no-sandbox", fmt.Sprint(cfg.Rod.NoSandbox))
	if cfg.Rod.UserDataDir != "" {
		l = l.UserDataDir(cfg.Rod.UserDataDir)
	}
	if cfg.Rod.Bin != "" {
		l = l.Bin(cfg.Rod.Bin)
	}
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}
	return &rodBrowser{browser: browser}, nil
}

func (rb *rodBrowser) Close() {
	if rb.page != nil {
		_ = rb.page.Close()
	}
	_ = rb.browser.Close()
}

func (rb *rodBrowser) Navigate(ctx context.Context, url string) error {
	log.Printf("导航到页面: %s", url)
	if rb.page == nil {
		// stealth页面注入反检测脚本
		page, err := stealth.Page(rb.browser)
		if err != nil {
			return fmt.Errorf("创建stealth页面失败: %w", err)
		}
		rb.page = page
	}
	page := rb.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("等待页面加载失败: %w", err)
	}
	return nil
}

func (rb *rodBrowser) CurrentURL(ctx context.Context) (string, error) {
	info, err := rb.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("读取当前URL失败: %w", err)
	}
	return info.URL, nil
}

func (rb *rodBrowser) CountNodes(ctx context.Context, selector string) (int, error) {
	res, err := rb.page.Context(ctx).Eval(
		`(sel) => document.querySelectorAll(sel).length`, selector)
	if err != nil {
		return 0, fmt.Errorf("统计节点失败: %w", err)
	}
	return res.Value.Int(), nil
}

func (rb *rodBrowser) Exists(ctx context.Context, selector string) (bool, error) {
	n, err := rb.CountNodes(ctx, selector)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (rb *rodBrowser) OuterHTML(ctx context.Context, selector string) (string, error) {
	res, err := rb.page.Context(ctx).Eval(
		`(sel) => { const el = document.querySelector(sel); return el ? el.outerHTML : ""; }`,
		selector)
	if err != nil {
		return "", fmt.Errorf("提取outerHTML失败: %w", err)
	}
	return res.Value.Str(), nil
}

func (rb *rodBrowser) Click(ctx context.Context, selector string) error {
	res, err := rb.page.Context(ctx).Eval(
		`(sel) => { const el = document.querySelector(sel); if (!el) return false; el.click(); return true; }`,
		selector)
	if err != nil {
		return fmt.Errorf("点击失败: %w", err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("点击失败: 未找到元素 %s", selector)
	}
	return nil
}

// Engage 与chromedp后端相同的随机滑动策略
func (rb *rodBrowser) Engage(ctx context.Context, minMs, maxMs int, label string) error {
	localRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	budget := engageBudget(localRand, minMs, maxMs)
	log.Printf("模拟浏览(%s): 预算 %.1f 秒", label, budget.Seconds())

	page := rb.page.Context(ctx)
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var js string
		switch localRand.Intn(2) {
		case 0:
			js = `() => window.scrollTo({top: document.body.scrollHeight, behavior: 'smooth'})`
		case 1:
			ratio := 0.3 + localRand.Float64()*0.7
			js = fmt.Sprintf(
				`() => window.scrollTo({top: document.body.scrollHeight * %f, behavior: 'smooth'})`,
				ratio)
		}
		if _, err := page.Eval(js); err != nil {
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
