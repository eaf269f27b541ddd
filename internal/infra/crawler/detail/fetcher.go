package detail

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"github.com/andybrandt/lisesca/internal/config"
)

// Fetcher 公开详情页抓取器,职位模式的完整记录来自服务端渲染的详情页,
// 不需要经过浏览器,但必须限速
type Fetcher struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	ua      string
}

func InitFetcher(cfg *config.Config) *Fetcher {
	rps := cfg.Detail.RatePerSecond
	if rps <= 0 {
		rps = 0.5
	}
	burst := cfg.Detail.Burst
	if burst <= 0 {
		burst = 1
	}
	log.Printf("InitFetcher, rate: %.2f/s, burst: %d", rps, burst)
	return &Fetcher{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		ua:      cfg.Detail.UserAgent,
	}
}

// FetchHTML 抓取一个详情页的HTML,受限速约束,可被取消
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	opts := []colly.CollectorOption{colly.StdlibContext(ctx)}
	if f.ua != "" {
		opts = append(opts, colly.UserAgent(f.ua))
	}
	c := colly.NewCollector(opts...)

	var body string
	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("访问详情页失败: %w", err)
	}
	c.Wait()
	if fetchErr != nil {
		return "", fmt.Errorf("抓取详情页失败: %w", fetchErr)
	}
	return body, nil
}
