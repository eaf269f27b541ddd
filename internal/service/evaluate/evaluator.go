package evaluate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/andybrandt/lisesca/internal/config"
	"github.com/andybrandt/lisesca/internal/domain/entity"
	"github.com/andybrandt/lisesca/internal/infra/llm"
)

// Evaluator 两级AI筛选协议的评估器
// 对话日志只在一页内延续,翻页(执行环境重建)后必须Reset;
// 连续性只是让模型保持标准一致的偏置,不是正确性的前提
type Evaluator interface {
	// Reset 清空对话日志,每页开始时调用
	Reset()
	// Triage 初筛: 只看卡片摘要,返回 reject | keep | maybe
	Triage(ctx context.Context, card *entity.Card) Outcome
	// FullReview 复评: 用完整记录做第二次判定,返回 accept | reject
	FullReview(ctx context.Context, rec *entity.Record) Outcome
	// Binary 单次二元判定策略,返回 accept | reject (download: true/false)
	Binary(ctx context.Context, card *entity.Card) Outcome
	// ConversationLen 当前对话日志长度,测试与日志用
	ConversationLen() int
}

type evaluator struct {
	llm          llm.LLM
	crit         *config.Criteria
	conversation []*schema.Message
}

func InitEvaluator(llmClient llm.LLM, crit *config.Criteria) Evaluator {
	return &evaluator{llm: llmClient, crit: crit}
}

func (e *evaluator) Reset() {
	e.conversation = nil
}

func (e *evaluator) ConversationLen() int {
	return len(e.conversation)
}

func (e *evaluator) systemPrompt() *schema.Message {
	return schema.SystemMessage(fmt.Sprintf(
		"你是条目筛选助手,根据用户给定的标准判断条目是否值得保留。\n筛选标准: %s\n只输出一个JSON对象,不要输出其他内容。",
		e.crit.Prompt))
}

// call 执行一次远程调用并在成功时把交互追加进对话日志
// 失败的交互不进日志,避免污染后续判定
func (e *evaluator) call(ctx context.Context, userPrompt string, timeout time.Duration) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	userMsg := schema.UserMessage(userPrompt)
	messages := make([]*schema.Message, 0, len(e.conversation)+2)
	messages = append(messages, e.systemPrompt())
	messages = append(messages, e.conversation...)
	messages = append(messages, userMsg)

	reply, err := e.llm.Generate(reqCtx, messages)
	if err != nil {
		return "", err
	}
	if reply == nil || reply.Content == "" {
		return "", fmt.Errorf("模型返回空回复")
	}
	e.conversation = append(e.conversation, userMsg, reply)
	return reply.Content, nil
}

func (e *evaluator) triageTimeout() time.Duration {
	return time.Duration(e.crit.TriageTimeoutSeconds) * time.Second
}

func (e *evaluator) fullTimeout() time.Duration {
	return time.Duration(e.crit.FullTimeoutSeconds) * time.Second
}

func (e *evaluator) Triage(ctx context.Context, card *entity.Card) Outcome {
	prompt := fmt.Sprintf(
		"以下是一个条目的摘要,只根据摘要做低成本初筛:\n%s\n明确不符合标准输出reject,明确符合输出keep,信息不足无法确定输出maybe。\n输出JSON: {\"decision\": \"reject|keep|maybe\", \"reason\": \"一句话理由\"}",
		card.Summary())
	content, err := e.call(ctx, prompt, e.triageTimeout())
	if err != nil {
		log.Printf("初筛调用失败, 按keep放行, id: %s: %v", card.ID(), err)
		return Outcome{Decision: DecisionKeep, Reason: "评估失败,默认保留", FailedOpen: true}
	}
	decision, reason, ok := parseTriage(content, DecisionReject, DecisionKeep, DecisionMaybe)
	if !ok {
		log.Printf("初筛回复不可解析, 按keep放行, id: %s", card.ID())
		return Outcome{Decision: DecisionKeep, Reason: "回复不可解析,默认保留", FailedOpen: true}
	}
	return Outcome{Decision: decision, Reason: reason}
}

func (e *evaluator) FullReview(ctx context.Context, rec *entity.Record) Outcome {
	prompt := fmt.Sprintf(
		"以下是该条目的完整记录,请做最终判定:\n%s\n输出JSON: {\"decision\": \"accept|reject\", \"reason\": \"一句话理由\"}",
		rec.Summary())
	content, err := e.call(ctx, prompt, e.fullTimeout())
	if err != nil {
		log.Printf("复评调用失败, 按accept放行, id: %s: %v", rec.ID(), err)
		return Outcome{Decision: DecisionAccept, Reason: "评估失败,默认接受", FailedOpen: true}
	}
	decision, reason, ok := parseTriage(content, DecisionAccept, DecisionReject)
	if !ok {
		log.Printf("复评回复不可解析, 按accept放行, id: %s", rec.ID())
		return Outcome{Decision: DecisionAccept, Reason: "回复不可解析,默认接受", FailedOpen: true}
	}
	return Outcome{Decision: decision, Reason: reason}
}

func (e *evaluator) Binary(ctx context.Context, card *entity.Card) Outcome {
	prompt := fmt.Sprintf(
		"以下是一个条目的摘要,判断是否下载它的完整记录:\n%s\n输出JSON: {\"download\": true或false, \"reason\": \"一句话理由\"}",
		card.Summary())
	content, err := e.call(ctx, prompt, e.triageTimeout())
	if err != nil {
		log.Printf("二元判定调用失败, 按下载放行, id: %s: %v", card.ID(), err)
		return Outcome{Decision: DecisionAccept, Reason: "评估失败,默认下载", FailedOpen: true}
	}
	download, reason, ok := parseBinary(content)
	if !ok {
		log.Printf("二元判定回复不可解析, 按下载放行, id: %s", card.ID())
		return Outcome{Decision: DecisionAccept, Reason: "回复不可解析,默认下载", FailedOpen: true}
	}
	if download {
		return Outcome{Decision: DecisionAccept, Reason: reason}
	}
	return Outcome{Decision: DecisionReject, Reason: reason}
}
