package llm

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// LLM 远程分类调用的传输层,评估器只依赖这一个方法
// 对话日志用eino的schema.Message表示,便于直接对接ollama等模型组件
type LLM interface {
	Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
}
