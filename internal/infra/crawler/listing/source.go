package listing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/andybrandt/lisesca/internal/config"
	"github.com/andybrandt/lisesca/internal/domain/entity"
	"github.com/andybrandt/lisesca/internal/infra/crawler/chrome"
	"github.com/andybrandt/lisesca/internal/infra/crawler/detail"
)

// Source 条目源: 在浏览器中的列表页上发现条目、提取卡片摘要与完整记录
type Source struct {
	browser chrome.Browser
	fetcher *detail.Fetcher
	mode    entity.Mode
	sel     Selectors
	crit    *config.Criteria
}

func InitSource(browser chrome.Browser, fetcher *detail.Fetcher,
	mode entity.Mode, crit *config.Criteria) *Source {
	return &Source{
		browser: browser,
		fetcher: fetcher,
		mode:    mode,
		sel:     SelectorsFor(mode),
		crit:    crit,
	}
}

func (s *Source) Navigate(ctx context.Context, url string) error {
	return s.browser.Navigate(ctx, url)
}

// OnListingPage 校验当前页面是否是本模式支持的列表页
func (s *Source) OnListingPage(ctx context.Context) (bool, error) {
	return s.browser.Exists(ctx, s.sel.ListingMarker)
}

// DiscoverItemIDs 等待虚拟化列表稳定后快照条目ID,每页只调用一次
// 稳定后占位数为零时回落到已渲染的卡片
func (s *Source) DiscoverItemIDs(ctx context.Context) ([]string, error) {
	sample := func(ctx context.Context) (int, error) {
		return s.browser.CountNodes(ctx, s.sel.ItemShell)
	}
	n, err := WaitStable(ctx, sample,
		time.Duration(s.crit.Stabilize.IntervalMs)*time.Millisecond,
		s.crit.Stabilize.StableSamples,
		time.Duration(s.crit.Stabilize.MaxWaitMs)*time.Millisecond)
	if err != nil {
		return nil, err
	}
	html, err := s.browser.OuterHTML(ctx, s.sel.List)
	if err != nil {
		return nil, err
	}
	if html == "" {
		// 列表容器都不存在,按"本页零条目"处理
		log.Printf("未找到条目容器, 按零条目处理")
		return nil, nil
	}
	ids, err := parseItemIDs(html, s.sel.ItemShell)
	if err != nil {
		return nil, err
	}
	log.Printf("条目快照完成: 稳定占位数 %d, 解析出 %d 个ID", n, len(ids))
	return ids, nil
}

// CardSummary 提取单张卡片的轻量摘要
func (s *Source) CardSummary(ctx context.Context, id string) (*entity.Card, error) {
	html, err := s.browser.OuterHTML(ctx, s.sel.cardSelector(id))
	if err != nil {
		return nil, err
	}
	if html == "" {
		return nil, fmt.Errorf("卡片未渲染, id: %s", id)
	}
	if s.mode == entity.ModeJobs {
		return parseJobCard(id, html)
	}
	return parseProfileCard(id, html)
}

// FullRecord 按需提取完整记录,返回的detailURL用于检查点记录恢复位置
// 记录为nil且无错误表示该条目不可提取,调用方应跳过
func (s *Source) FullRecord(ctx context.Context, id string) (*entity.Record, string, error) {
	if s.mode == entity.ModeJobs {
		return s.jobFullRecord(ctx, id)
	}
	return s.profileFullRecord(ctx, id)
}

// profileFullRecord 点开卡片的详情面板并解析
func (s *Source) profileFullRecord(ctx context.Context, id string) (*entity.Record, string, error) {
	cardSel := s.sel.cardSelector(id)
	if err := s.browser.Click(ctx, cardSel+" "+s.sel.CardLink); err != nil {
		return nil, "", fmt.Errorf("打开详情面板失败, id: %s: %w", id, err)
	}
	// 面板渲染也要一点时间,给一个短暂的稳定等待
	_, err := WaitStable(ctx, func(ctx context.Context) (int, error) {
		return s.browser.CountNodes(ctx, s.sel.DetailPane)
	}, 300*time.Millisecond, 2, 5*time.Second)
	if err != nil {
		return nil, "", err
	}

	detailURL, err := s.browser.CurrentURL(ctx)
	if err != nil {
		detailURL = ""
	}
	html, err := s.browser.OuterHTML(ctx, s.sel.DetailPane)
	if err != nil {
		return nil, detailURL, err
	}
	if html == "" {
		return nil, detailURL, nil
	}
	rec, err := parseProfileDetail(id, html)
	if err != nil {
		return nil, detailURL, err
	}
	// 关闭面板失败不影响后续条目,忽略错误
	if err := s.browser.Click(ctx, s.sel.DetailClose); err != nil {
		log.Printf("关闭详情面板失败, id: %s: %v", id, err)
	}
	return rec, detailURL, nil
}

// jobFullRecord 职位详情页是服务端渲染的公开页面,走限速抓取器
func (s *Source) jobFullRecord(ctx context.Context, id string) (*entity.Record, string, error) {
	cardHTML, err := s.browser.OuterHTML(ctx, s.sel.cardSelector(id))
	if err != nil {
		return nil, "", err
	}
	if cardHTML == "" {
		return nil, "", fmt.Errorf("卡片未渲染, id: %s", id)
	}
	card, err := parseJobCard(id, cardHTML)
	if err != nil {
		return nil, "", err
	}
	jobURL, err := cardLinkHref(cardHTML, s.sel.CardLink)
	if err != nil {
		return nil, "", err
	}
	if jobURL == "" {
		return nil, "", nil
	}
	html, err := s.fetcher.FetchHTML(ctx, jobURL)
	if err != nil {
		return nil, jobURL, fmt.Errorf("抓取职位详情失败, id: %s: %w", id, err)
	}
	rec, err := parseJobDetail(card.Job, jobURL, html)
	return rec, jobURL, err
}

// HasNextPage 探测可用的下一页控件,没有分页控件同样视为没有下一页
func (s *Source) HasNextPage(ctx context.Context) (bool, error) {
	return s.browser.Exists(ctx, s.sel.NextButton)
}

// Engage 按层级(page/card/detail)的配置区间模拟浏览
func (s *Source) Engage(ctx context.Context, level string) error {
	var r config.DelayRange
	switch level {
	case "card":
		r = s.crit.Engagement.Card
	case "detail":
		r = s.crit.Engagement.Detail
	default:
		r = s.crit.Engagement.Page
	}
	return s.browser.Engage(ctx, r.MinMs, r.MaxMs, level)
}
