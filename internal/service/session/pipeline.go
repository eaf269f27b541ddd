package session

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/andybrandt/lisesca/internal/domain/entity"
	"github.com/andybrandt/lisesca/internal/infra/persistence/checkpoint"
	"github.com/andybrandt/lisesca/internal/service/evaluate"
	"github.com/andybrandt/lisesca/param"
)

// ItemSource 条目来源,由列表页采集器实现
type ItemSource interface {
	Navigate(ctx context.Context, url string) error
	OnListingPage(ctx context.Context) (bool, error)
	DiscoverItemIDs(ctx context.Context) ([]string, error)
	CardSummary(ctx context.Context, id string) (*entity.Card, error)
	FullRecord(ctx context.Context, id string) (*entity.Record, string, error)
	HasNextPage(ctx context.Context) (bool, error)
	Engage(ctx context.Context, level string) error
}

// Evaluator AI筛选,所有方法都是失败放行的,不返回错误
type Evaluator interface {
	Reset()
	Triage(ctx context.Context, card *entity.Card) evaluate.Outcome
	FullReview(ctx context.Context, rec *entity.Record) evaluate.Outcome
	Binary(ctx context.Context, card *entity.Card) evaluate.Outcome
}

// Store 检查点与结果缓冲区的持久存储
type Store interface {
	LoadCheckpoint(ctx context.Context) (*checkpoint.Checkpoint, error)
	SaveCheckpoint(ctx context.Context, cp *checkpoint.Checkpoint) error
	ClearSession(ctx context.Context, sessionID string) error
	AppendResult(ctx context.Context, sessionID string, rec *entity.Record) error
	Results(ctx context.Context, sessionID string) ([]*entity.Record, error)
	MarkSeen(ctx context.Context, mode entity.Mode, itemID string) error
	IsSeen(ctx context.Context, mode entity.Mode, itemID string) (bool, error)
}

// ExportSink 会话收尾时消费结果缓冲区
type ExportSink interface {
	Export(ctx context.Context, recs []*entity.Record, formats []string) error
}

// BootResult 一轮启动的结局
type BootResult int

const (
	// BootContinue 到达页面导航边界,需要再启动一轮
	BootContinue BootResult = iota
	// BootDone 会话已收尾,不再需要启动
	BootDone
)

// Pipeline 可恢复的采集管线
// 检查点纪律: 先持久化效果,再推进游标,最后才做模拟浏览延迟;
// 任何一步之后崩溃,恢复时最多重做当前条目,已落盘的结果不会丢失
type Pipeline struct {
	source ItemSource
	eval   Evaluator
	store  Store
	sink   ExportSink

	stop atomic.Bool
}

func InitPipeline(source ItemSource, eval Evaluator, store Store, sink ExportSink) *Pipeline {
	return &Pipeline{source: source, eval: eval, store: store, sink: sink}
}

// RequestStop 请求在下一个条目边界优雅停止,当前条目会完整处理完
func (p *Pipeline) RequestStop() {
	p.stop.Store(true)
}

// Start 建立新会话的检查点,不开始执行
func (p *Pipeline) Start(ctx context.Context, sp *param.Start) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	existing, err := p.store.LoadCheckpoint(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("已有未完成会话 %s, 请先resume或stop", existing.SessionID)
	}

	base, page, err := checkpoint.StripPageParam(sp.URL)
	if err != nil {
		return err
	}
	cp := &checkpoint.Checkpoint{
		Active:       true,
		SessionID:    uuid.NewString(),
		Mode:         entity.Mode(sp.Mode),
		Strategy:     sp.Strategy,
		CriteriaPath: sp.CriteriaPath,
		StartPage:    page,
		CurrentPage:  page,
		TargetPages:  sp.TargetPages,
		BaseURL:      base,
		Formats:      sp.Formats,
		IncludeSeen:  sp.IncludeSeen,
	}
	if err := p.store.SaveCheckpoint(ctx, cp); err != nil {
		return err
	}
	log.Printf("会话已创建: %s, 模式 %s, 起始页 %d, 目标页数 %d",
		cp.SessionID, cp.Mode, cp.StartPage, cp.TargetPages)
	return nil
}

// Run 启动循环: 每次页面导航等价于执行环境销毁重建,
// 每轮启动都从检查点重新推导下一步,直到会话收尾
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		res, err := p.RunBoot(ctx)
		if err != nil {
			return err
		}
		if res == BootDone {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// RunBoot 执行一轮启动,到页面导航边界或会话收尾为止
func (p *Pipeline) RunBoot(ctx context.Context) (BootResult, error) {
	cp, err := p.store.LoadCheckpoint(ctx)
	if err != nil {
		return BootDone, err
	}
	switch DeriveNextStep(cp) {
	case StepIdle:
		log.Printf("没有待恢复的会话")
		return BootDone, nil
	case StepFinalize:
		return BootDone, p.finalize(ctx, cp)
	}

	// 新的执行环境: 页内对话日志从零开始
	p.eval.Reset()

	pageURL := cp.PageURL(cp.CurrentPage)
	log.Printf("启动: 会话 %s, 第 %d 页, 游标 %d/%d",
		cp.SessionID, cp.CurrentPage, cp.ItemIndex, len(cp.ItemIDs))
	if err := p.source.Navigate(ctx, pageURL); err != nil {
		return BootDone, fmt.Errorf("导航到列表页失败: %w", err)
	}
	onListing, err := p.source.OnListingPage(ctx)
	if err != nil {
		return BootDone, err
	}
	if !onListing {
		// 错页恢复: 已缓冲的结果照常导出,不能白白丢掉
		log.Printf("当前页面不是列表页: %s, 会话以部分结果收尾", pageURL)
		cp.Active = false
		if err := p.store.SaveCheckpoint(ctx, cp); err != nil {
			return BootDone, err
		}
		return BootDone, p.finalize(ctx, cp)
	}

	for {
		switch DeriveNextStep(cp) {
		case StepLoadPage:
			if err := p.loadPage(ctx, cp); err != nil {
				return BootDone, err
			}
		case StepIterate:
			if err := p.iterate(ctx, cp); err != nil {
				return BootDone, err
			}
		case StepPaginate:
			next, err := p.paginate(ctx, cp)
			if err != nil {
				return BootDone, err
			}
			if next {
				// 导航边界: 翻页后执行环境重建,由下一轮启动接手
				return BootContinue, nil
			}
			cp.Active = false
			if err := p.store.SaveCheckpoint(ctx, cp); err != nil {
				return BootDone, err
			}
			return BootDone, p.finalize(ctx, cp)
		case StepFinalize:
			return BootDone, p.finalize(ctx, cp)
		}
	}
}

// loadPage 等待列表稳定并快照条目ID,每页只做一次
func (p *Pipeline) loadPage(ctx context.Context, cp *checkpoint.Checkpoint) error {
	if err := p.source.Engage(ctx, "page"); err != nil {
		return err
	}
	ids, err := p.source.DiscoverItemIDs(ctx)
	if err != nil {
		return fmt.Errorf("快照条目失败: %w", err)
	}
	if cp.Mode == entity.ModeJobs && !cp.IncludeSeen {
		ids, err = p.filterSeen(ctx, cp.Mode, ids)
		if err != nil {
			return err
		}
	}
	// 空页也要快照成非nil切片,否则恢复时会重复发现
	if ids == nil {
		ids = []string{}
	}
	cp.ItemIDs = ids
	cp.ItemIndex = 0
	log.Printf("第 %d 页快照完成: %d 个条目", cp.CurrentPage, len(ids))
	return p.store.SaveCheckpoint(ctx, cp)
}

func (p *Pipeline) filterSeen(ctx context.Context, mode entity.Mode, ids []string) ([]string, error) {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		seen, err := p.store.IsSeen(ctx, mode, id)
		if err != nil {
			return nil, err
		}
		if !seen {
			kept = append(kept, id)
		}
	}
	if len(kept) < len(ids) {
		log.Printf("过滤已见条目: %d -> %d", len(ids), len(kept))
	}
	return kept, nil
}

// iterate 处理当前页剩余条目,直到页面耗尽或收到停止请求
func (p *Pipeline) iterate(ctx context.Context, cp *checkpoint.Checkpoint) error {
	for !cp.PageExhausted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.stop.Load() {
			// 优雅停止: 置收尾标记后落盘,游标停在下一个未处理条目
			log.Printf("收到停止请求, 会话将在收尾后结束")
			cp.Active = false
			return p.store.SaveCheckpoint(ctx, cp)
		}
		if err := p.processItem(ctx, cp, cp.ItemIDs[cp.ItemIndex]); err != nil {
			return err
		}
	}
	return nil
}

// advanceCursor 推进页内游标并落盘,这是条目处理的提交点
func (p *Pipeline) advanceCursor(ctx context.Context, cp *checkpoint.Checkpoint) error {
	cp.ItemIndex++
	return p.store.SaveCheckpoint(ctx, cp)
}

// processItem 处理单个条目,条目内部的提取失败只跳过该条目,不中断会话
func (p *Pipeline) processItem(ctx context.Context, cp *checkpoint.Checkpoint, id string) error {
	card, err := p.source.CardSummary(ctx, id)
	if err != nil {
		log.Printf("提取卡片失败, 跳过, id: %s: %v", id, err)
		return p.advanceCursor(ctx, cp)
	}

	keep, err := p.screen(ctx, cp, card)
	if err != nil {
		return err
	}
	if !keep {
		// 初筛拒绝短路: 不碰详情,直接推进
		if err := p.advanceCursor(ctx, cp); err != nil {
			return err
		}
		return p.source.Engage(ctx, "card")
	}

	rec, detailURL, err := p.source.FullRecord(ctx, id)
	if detailURL != "" && detailURL != cp.LastDetailURL {
		cp.LastDetailURL = detailURL
	}
	if err != nil {
		log.Printf("提取完整记录失败, 跳过, id: %s: %v", id, err)
		return p.advanceCursor(ctx, cp)
	}
	if rec == nil {
		log.Printf("条目不可提取, 跳过, id: %s", id)
		return p.advanceCursor(ctx, cp)
	}

	// 分层策略下只有maybe需要复评,keep直接入缓冲区
	accept := true
	if cp.Strategy == string(param.StrategyTiered) &&
		cp.Triage[id].Decision == checkpoint.TriageMaybe {
		outcome := p.eval.FullReview(ctx, rec)
		// 复评也是一次评估调用,计数由随后的游标保存落盘
		cp.Evaluated++
		accept = outcome.Decision == evaluate.DecisionAccept
		if !accept {
			log.Printf("复评拒绝, id: %s: %s", id, outcome.Reason)
		}
	}
	if accept {
		// 先持久化效果,再推进游标: 这里之后崩溃最坏重做本条目,
		// 重做的追加在存储层按条目去重
		if err := p.store.AppendResult(ctx, cp.SessionID, rec); err != nil {
			return err
		}
		cp.Accepted++
		if err := p.store.MarkSeen(ctx, cp.Mode, id); err != nil {
			return err
		}
		log.Printf("记录已接受, id: %s, 累计 %d", id, cp.Accepted)
	}
	if err := p.advanceCursor(ctx, cp); err != nil {
		return err
	}
	return p.source.Engage(ctx, "detail")
}

// screen 按策略做卡片级筛选,返回是否继续提取完整记录
// 初筛结论进检查点,崩溃恢复后同一条目不会重复评估
func (p *Pipeline) screen(ctx context.Context, cp *checkpoint.Checkpoint, card *entity.Card) (bool, error) {
	switch cp.Strategy {
	case string(param.StrategyTiered), string(param.StrategyBinary):
	default:
		// 未启用AI筛选,全部保留
		return true, nil
	}

	if prior, ok := cp.Triage[card.ID()]; ok {
		return prior.Decision != checkpoint.TriageReject, nil
	}

	var outcome evaluate.Outcome
	var decision checkpoint.TriageDecision
	if cp.Strategy == string(param.StrategyBinary) {
		outcome = p.eval.Binary(ctx, card)
		decision = checkpoint.TriageKeep
		if outcome.Decision == evaluate.DecisionReject {
			decision = checkpoint.TriageReject
		}
	} else {
		outcome = p.eval.Triage(ctx, card)
		decision = checkpoint.TriageDecision(outcome.Decision)
	}

	if cp.Triage == nil {
		cp.Triage = make(map[string]checkpoint.TriageRecord)
	}
	cp.Triage[card.ID()] = checkpoint.TriageRecord{
		Decision: decision,
		Reason:   outcome.Reason,
	}
	cp.Evaluated++
	if err := p.store.SaveCheckpoint(ctx, cp); err != nil {
		return false, err
	}
	if decision == checkpoint.TriageReject {
		log.Printf("初筛拒绝, id: %s: %s", card.ID(), outcome.Reason)
		return false, nil
	}
	return true, nil
}

// paginate 页面耗尽后的翻页决策,返回true表示已推进到下一页
func (p *Pipeline) paginate(ctx context.Context, cp *checkpoint.Checkpoint) (bool, error) {
	if p.stop.Load() {
		return false, nil
	}
	if cp.TargetPages > 0 && cp.PagesDone() >= cp.TargetPages {
		log.Printf("已达目标页数 %d", cp.TargetPages)
		return false, nil
	}
	hasNext, err := p.source.HasNextPage(ctx)
	if err != nil {
		return false, err
	}
	if !hasNext {
		log.Printf("没有下一页, 第 %d 页是最后一页", cp.CurrentPage)
		return false, nil
	}
	cp.CurrentPage++
	cp.ResetPageCursor()
	if err := p.store.SaveCheckpoint(ctx, cp); err != nil {
		return false, err
	}
	log.Printf("推进到第 %d 页", cp.CurrentPage)
	return true, nil
}

// finalize 会话收尾: 导出结果缓冲区,最后清除会话
// 导出失败时保留检查点与缓冲区,用户可以resume重试收尾
func (p *Pipeline) finalize(ctx context.Context, cp *checkpoint.Checkpoint) error {
	recs, err := p.store.Results(ctx, cp.SessionID)
	if err != nil {
		return err
	}
	if len(recs) > 0 {
		if err := p.sink.Export(ctx, recs, cp.Formats); err != nil {
			return fmt.Errorf("收尾导出失败, 会话保留, 可resume重试: %w", err)
		}
	} else if cp.Evaluated > 0 {
		// 零匹配不是故障: 向用户解释评估过多少条,而不是默默输出空结果
		log.Printf("会话零匹配: 共评估 %d 个条目, 无一通过筛选, 已完成 %d 页",
			cp.Evaluated, cp.PagesDone())
	} else {
		log.Printf("会话无结果: 列表页没有可处理的条目")
	}
	if err := p.store.ClearSession(ctx, cp.SessionID); err != nil {
		return err
	}
	log.Printf("会话收尾完成: %s, 评估 %d, 接受 %d, 导出 %d 条",
		cp.SessionID, cp.Evaluated, cp.Accepted, len(recs))
	return nil
}
